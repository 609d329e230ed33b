package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Role constants. "commander" is accepted on the wire as a legacy alias for
// base_commander and normalized at registration.
const (
	RoleAdmin            = "admin"
	RoleBaseCommander    = "base_commander"
	RoleLogisticsOfficer = "logistics_officer"
	RoleInventoryManager = "inventory_manager"
)

// User represents a personnel account. Every non-admin user belongs to
// exactly one base; admins are not base-bound for access purposes.
type User struct {
	ID           uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Username     string         `gorm:"type:varchar(50);uniqueIndex;not null" json:"username"`
	Email        string         `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	Password     string         `gorm:"type:varchar(255);not null" json:"-"` // Omit password from JSON requests/responses
	Role         string         `gorm:"type:varchar(50);not null" json:"role"`
	BaseID       *uuid.UUID     `gorm:"type:uuid;index" json:"base_id"`
	BaseName     string         `gorm:"type:varchar(100)" json:"base_name"`
	BaseLocation string         `gorm:"type:varchar(255)" json:"base_location"`
	IsActive     bool           `gorm:"default:true" json:"is_active"`
	LastLogin    *time.Time     `json:"last_login,omitempty"`
	CreatedAt    time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"` // GORM soft delete
}

// ValidRole reports whether role is one of the recognized role constants.
func ValidRole(role string) bool {
	switch role {
	case RoleAdmin, RoleBaseCommander, RoleLogisticsOfficer, RoleInventoryManager:
		return true
	}
	return false
}

// NormalizeRole lowers the role string and maps the legacy "commander"
// alias onto base_commander.
func NormalizeRole(role string) string {
	if role == "commander" {
		return RoleBaseCommander
	}
	return role
}
