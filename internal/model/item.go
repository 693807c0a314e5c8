package model

import (
	"time"

	"github.com/google/uuid"
)

// ItemStatus is the availability state of a listed item. The borrow request
// lifecycle only ever toggles between AVAILABLE and LOANED; UNAVAILABLE is
// owner-controlled and is respected as a blocking state but never set here.
type ItemStatus string

const (
	ItemAvailable   ItemStatus = "AVAILABLE"
	ItemLoaned      ItemStatus = "LOANED"
	ItemUnavailable ItemStatus = "UNAVAILABLE"
)

// ValidItemStatus reports whether s is one of the known item statuses.
func ValidItemStatus(s ItemStatus) bool {
	switch s {
	case ItemAvailable, ItemLoaned, ItemUnavailable:
		return true
	}
	return false
}

// Item is a physical item listed for borrowing.
type Item struct {
	ID          uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Title       string     `gorm:"type:varchar(200);not null" json:"title"`
	Description string     `gorm:"type:text" json:"description"`
	Category    string     `gorm:"type:varchar(50);index" json:"category"`
	ImageURL    string     `gorm:"type:text" json:"image_url"`
	Status      ItemStatus `gorm:"type:varchar(20);not null;default:'AVAILABLE';index" json:"status"`
	OwnerID     uuid.UUID  `gorm:"type:uuid;not null;index" json:"owner_id"`
	Owner       *User      `gorm:"foreignKey:OwnerID" json:"owner,omitempty"`
	CreatedAt   time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}
