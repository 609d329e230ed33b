package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	ActionCreateAsset         = "CREATE_ASSET"
	ActionUpdateAssetQuantity = "UPDATE_ASSET_QUANTITY"
	ActionRecordPurchase      = "RECORD_PURCHASE"
	ActionInitiateTransfer    = "INITIATE_TRANSFER"
	ActionTransferStatus      = "TRANSFER_STATUS_UPDATE"
	ActionCreateAssignment    = "CREATE_ASSIGNMENT"
	ActionAssignmentStatus    = "ASSIGNMENT_STATUS_UPDATE"
	ActionRecordExpenditure   = "RECORD_EXPENDITURE"
)

// AuditLog tracks Who, What, and When for every ledger mutation. Rows are
// written inside the same transaction as the mutation they describe.
type AuditLog struct {
	ID         uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID     *uuid.UUID `gorm:"type:uuid;index" json:"user_id"`
	Action     string     `gorm:"type:varchar(50);not null;index" json:"action"`
	EntityID   string     `gorm:"type:varchar(50);index" json:"entity_id"`
	EntityName string     `gorm:"type:varchar(255)" json:"entity_name,omitempty"`
	Details    string     `gorm:"type:jsonb" json:"details"`
	CreatedAt  time.Time  `gorm:"index" json:"created_at"`
}
