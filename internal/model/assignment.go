package model

import (
	"time"

	"github.com/google/uuid"
)

// Assignment status constants. Legal transitions are active -> returned
// (stock restored) and active -> completed (stock consumed).
const (
	AssignmentStatusActive    = "active"
	AssignmentStatusReturned  = "returned"
	AssignmentStatusCompleted = "completed"
)

// Assignment records assets checked out to personnel. Creating one reserves
// stock: the asset quantity is decremented, and restored if the assignment
// is later returned.
type Assignment struct {
	ID               uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	AssetID          uuid.UUID  `gorm:"type:uuid;not null;index" json:"asset_id"`
	Asset            Asset      `gorm:"foreignKey:AssetID" json:"-"`
	AssignedToUserID uuid.UUID  `gorm:"type:uuid;not null;index" json:"assigned_to_user_id"`
	AssignedBy       *uuid.UUID `gorm:"type:uuid" json:"assigned_by"`
	Quantity         int        `gorm:"type:int;not null" json:"quantity"`
	AssignmentDate   time.Time  `gorm:"not null;index" json:"assignment_date"`
	ReturnDate       *time.Time `json:"return_date,omitempty"`
	Status           string     `gorm:"type:varchar(20);default:'active';index" json:"status"`
	Notes            string     `gorm:"type:text" json:"notes"`
	CreatedAt        time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt        time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

// ValidAssignmentTransition reports whether an assignment status change is
// legal. Returned and completed are terminal.
func ValidAssignmentTransition(from, to string) bool {
	return from == AssignmentStatusActive &&
		(to == AssignmentStatusReturned || to == AssignmentStatusCompleted)
}
