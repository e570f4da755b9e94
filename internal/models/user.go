package models

import "time"

type UserRole string

const (
	UserRoleSuperAdmin UserRole = "super_admin"
	UserRoleAdmin      UserRole = "admin"
	UserRoleAgent      UserRole = "agent"
)

type User struct {
	BaseModel
	Name         string   `gorm:"not null"`
	Email        string   `gorm:"uniqueIndex;not null"` // stored lowercased
	PasswordHash string   `gorm:"not null"`
	Role         UserRole `gorm:"type:varchar(20);not null;default:'agent'"`
	IsActive     bool     `gorm:"default:true"`
	LastLogin    *time.Time
}
