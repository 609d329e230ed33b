package model

import (
	"time"

	"github.com/google/uuid"
)

// Transfer status constants. Legal transitions are
// pending -> approved | rejected and approved -> completed;
// rejected and completed are terminal.
const (
	TransferStatusPending   = "pending"
	TransferStatusApproved  = "approved"
	TransferStatusRejected  = "rejected"
	TransferStatusCompleted = "completed"
)

// Transfer records movement of stock between two bases. Stock is checked at
// initiation and physically moved only when the transfer completes.
type Transfer struct {
	ID           uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	AssetID      uuid.UUID  `gorm:"type:uuid;not null;index" json:"asset_id"`
	Asset        Asset      `gorm:"foreignKey:AssetID" json:"-"`
	FromBaseID   uuid.UUID  `gorm:"type:uuid;not null;index" json:"from_base_id"`
	ToBaseID     uuid.UUID  `gorm:"type:uuid;not null;index" json:"to_base_id"`
	Quantity     int        `gorm:"type:int;not null" json:"quantity"`
	TransferDate time.Time  `gorm:"not null;index" json:"transfer_date"`
	Notes        string     `gorm:"type:text" json:"notes"`
	InitiatedBy  *uuid.UUID `gorm:"type:uuid" json:"initiated_by"`
	ApprovedBy   *uuid.UUID `gorm:"type:uuid" json:"approved_by"`
	Status       string     `gorm:"type:varchar(20);default:'pending';index" json:"status"`
	CreatedAt    time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

// ValidTransferTransition reports whether moving from one transfer status to
// another follows the strict state machine.
func ValidTransferTransition(from, to string) bool {
	switch from {
	case TransferStatusPending:
		return to == TransferStatusApproved || to == TransferStatusRejected
	case TransferStatusApproved:
		return to == TransferStatusCompleted
	}
	return false
}

// TransferStats sums completed transfer quantities into and out of a base.
type TransferStats struct {
	TransfersIn  int `json:"transfers_in"`
	TransfersOut int `json:"transfers_out"`
}
