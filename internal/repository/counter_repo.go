package repository

import (
	"gorm.io/gorm"
)

// CounterRepository hands out sequence numbers for job and invoice codes.
// A single upsert-returning statement keeps the increment atomic under
// concurrent writers, never a count-then-insert.
type CounterRepository interface {
	// NextTx returns the next sequence for (scope, year) inside tx.
	NextTx(tx *gorm.DB, scope string, year int) (int, error)
}

type counterRepo struct{ db *gorm.DB }

func NewCounterRepository(db *gorm.DB) CounterRepository { return &counterRepo{db: db} }

func (r *counterRepo) NextTx(tx *gorm.DB, scope string, year int) (int, error) {
	var seq int
	err := tx.Raw(`
		INSERT INTO counters (scope, year, seq) VALUES (?, ?, 1)
		ON CONFLICT (scope, year) DO UPDATE SET seq = counters.seq + 1
		RETURNING seq`, scope, year).Scan(&seq).Error
	return seq, err
}
