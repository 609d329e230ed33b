package database

import (
	"log"

	"basetrack/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// NewLedgerConnection opens the operational ledger database and migrates the
// asset movement tables.
func NewLedgerConnection(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	err = db.AutoMigrate(
		&model.Asset{},
		&model.Purchase{},
		&model.Transfer{},
		&model.Assignment{},
		&model.Expenditure{},
		&model.AuditLog{},
	)
	if err != nil {
		log.Println("WARNING: Failed to auto-migrate ledger models:", err)
	}

	return db, nil
}

// NewIdentityConnection opens the identity database holding users and bases.
// Callers fall back to in-memory stores when this fails; authentication must
// stay up even if the identity store is down.
func NewIdentityConnection(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	err = db.AutoMigrate(
		&model.User{},
		&model.Base{},
	)
	if err != nil {
		log.Println("WARNING: Failed to auto-migrate identity models:", err)
	}

	return db, nil
}

// SeedBases inserts the default base roster when the bases table is empty.
func SeedBases(db *gorm.DB, bases []model.Base) error {
	var count int64
	if err := db.Model(&model.Base{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	return db.Create(&bases).Error
}
