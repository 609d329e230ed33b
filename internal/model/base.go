package model

import (
	"time"

	"github.com/google/uuid"
)

// Base is the identity anchor every asset and ledger record is scoped to.
// Bases are created by admin seeding or signup flows and are never deleted
// in normal operation.
type Base struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Name        string    `gorm:"type:varchar(100);not null" json:"name"`
	Location    string    `gorm:"type:varchar(255);not null" json:"location"`
	State       string    `gorm:"type:varchar(50);not null" json:"state"`
	Commander   string    `gorm:"type:varchar(255);default:'TBD'" json:"commander"`
	Capacity    int       `gorm:"type:int;default:1000" json:"capacity"`
	Established time.Time `gorm:"autoCreateTime" json:"established"`
	IsActive    bool      `gorm:"default:true" json:"is_active"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
