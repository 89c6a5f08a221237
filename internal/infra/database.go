package infra

import (
	"fmt"

	"gammacrm/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase establishes a GORM connection backed by pgx, runs
// AutoMigrate for every model, then applies the idempotent SQL patches
// GORM cannot express (partial indexes).
func NewDatabase(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)

	if err := RunMigrations(db); err != nil {
		return nil, err
	}
	return db, nil
}

// RunMigrations creates/updates all tables. Also used by integration
// tests against a disposable database.
func RunMigrations(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&model.User{},
		&model.ServiceMaster{},
		&model.AccessoryCategory{},
		&model.Accessory{},
		&model.VehicleType{},
		&model.Technician{},
		&model.PPFMaster{},
		&model.PPFPrice{},
		&model.PPFRoll{},
		&model.RollMovement{},
		&model.JobCard{},
		&model.JobCardItem{},
		&model.RollUsage{},
		&model.Invoice{},
		&model.InvoiceItem{},
		&model.InvoicePayment{},
		&model.Counter{},
		&model.Inquiry{},
		&model.Appointment{},
		&model.Ticket{},
	); err != nil {
		return fmt.Errorf("AutoMigrate: %w", err)
	}
	return applySchemaPatches(db)
}

// applySchemaPatches runs idempotent DDL that AutoMigrate cannot fully
// handle on its own.
func applySchemaPatches(db *gorm.DB) error {
	patches := []string{
		// Partial index backing the export retry cron scan.
		`DO $$ BEGIN
		  IF NOT EXISTS (SELECT 1 FROM pg_indexes WHERE indexname = 'idx_invoices_pending_export') THEN
		    CREATE INDEX idx_invoices_pending_export
		        ON invoices (next_retry_at)
		        WHERE pdf_path IS NULL AND next_retry_at IS NOT NULL;
		  END IF;
		END $$`,
	}
	for _, sql := range patches {
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("schema patch: %w", err)
		}
	}
	return nil
}
