package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User role enum constants
const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)

// User represents a platform member. Every user can both list items (lender)
// and request items from others (borrower); there is no separate account type.
type User struct {
	ID        uuid.UUID      `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Username  string         `gorm:"type:varchar(255);uniqueIndex;not null" json:"username"`
	Email     string         `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	FullName  string         `gorm:"type:varchar(255);not null" json:"full_name"`
	Phone     string         `gorm:"type:varchar(20)" json:"phone"`
	Password  string         `gorm:"type:varchar(255);not null" json:"-"` // Omit password hash from JSON
	Role      string         `gorm:"type:varchar(20);not null;default:'USER'" json:"role"`
	CreatedAt time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"` // GORM soft delete
}
