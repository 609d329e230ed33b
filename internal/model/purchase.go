package model

import (
	"time"

	"github.com/google/uuid"
)

// Purchase is an immutable ledger record of procured stock. Creating one
// increments the referenced asset's quantity in the same transaction.
type Purchase struct {
	ID           uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	AssetID      uuid.UUID  `gorm:"type:uuid;not null;index" json:"asset_id"`
	Asset        Asset      `gorm:"foreignKey:AssetID" json:"-"`
	BaseID       uuid.UUID  `gorm:"type:uuid;not null;index" json:"base_id"`
	Quantity     int        `gorm:"type:int;not null" json:"quantity"`
	UnitPrice    float64    `gorm:"type:decimal(12,2);not null" json:"unit_price"`
	TotalPrice   float64    `gorm:"type:decimal(14,2);not null" json:"total_price"`
	PurchaseDate time.Time  `gorm:"not null;index" json:"purchase_date"`
	Vendor       string     `gorm:"type:varchar(255)" json:"vendor"`
	Notes        string     `gorm:"type:text" json:"notes"`
	CreatedBy    *uuid.UUID `gorm:"type:uuid" json:"created_by"`
	CreatedAt    time.Time  `gorm:"autoCreateTime" json:"created_at"`
}

// LedgerFilters is the shared filter set for ledger queries: an optional
// conjunction over asset category, record status and an inclusive date range
// on the record's own date field.
type LedgerFilters struct {
	Category  string
	Status    string
	StartDate *time.Time
	EndDate   *time.Time
}
