package model

// Counter is an atomically incremented sequence keyed by scope and year.
// Scopes: "JC" for job numbers (global), one per business invoice prefix
// ("AG", "AGNX"). Incremented only via CounterRepository.NextTx, a
// single upsert-returning statement, so concurrent writers can never
// observe the same value.
type Counter struct {
	Scope string `gorm:"primaryKey;type:varchar(10)"`
	Year  int    `gorm:"primaryKey"`
	Seq   int    `gorm:"not null;default:0"`
}

func (Counter) TableName() string { return "counters" }
