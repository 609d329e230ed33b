package model

import (
	"time"

	"github.com/google/uuid"
)

// Expenditure is an immutable ledger record of consumed stock. Creating one
// decrements the referenced asset's quantity in the same transaction, after
// a sufficiency check.
type Expenditure struct {
	ID              uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	AssetID         uuid.UUID  `gorm:"type:uuid;not null;index" json:"asset_id"`
	Asset           Asset      `gorm:"foreignKey:AssetID" json:"-"`
	Quantity        int        `gorm:"type:int;not null" json:"quantity"`
	ExpenditureDate time.Time  `gorm:"not null;index" json:"expenditure_date"`
	Reason          string     `gorm:"type:varchar(255)" json:"reason"`
	RecordedBy      *uuid.UUID `gorm:"type:uuid" json:"recorded_by"`
	Notes           string     `gorm:"type:text" json:"notes"`
	CreatedAt       time.Time  `gorm:"autoCreateTime" json:"created_at"`
}
