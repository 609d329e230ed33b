package model

import (
	"time"

	"github.com/google/uuid"
)

// Asset status constants
const (
	AssetStatusAvailable   = "available"
	AssetStatusMaintenance = "maintenance"
	AssetStatusRetired     = "retired"
)

// Asset represents current on-hand stock of a named item type at one base.
// Quantity is the only shared mutable counter in the system: purchases
// increment it, expenditures and assignments decrement it, completed
// transfers move it between bases. It must never go negative.
type Asset struct {
	ID           uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name         string    `gorm:"type:varchar(255);not null" json:"name"`
	Category     string    `gorm:"type:varchar(100);index" json:"category"`
	SerialNumber string    `gorm:"type:varchar(100)" json:"serial_number"`
	BaseID       uuid.UUID `gorm:"type:uuid;not null;index" json:"base_id"`
	Quantity     int       `gorm:"type:int;default:0;not null" json:"quantity"`
	Status       string    `gorm:"type:varchar(50);default:'available'" json:"status"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// AssetFilters narrow asset lookups. Date bounds are ignored for assets
// (the registry holds current stock, not a time series).
type AssetFilters struct {
	Category string
	Status   string
}
