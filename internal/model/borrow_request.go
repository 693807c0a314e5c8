package model

import (
	"time"

	"github.com/google/uuid"
)

// RequestStatus is the lifecycle state of a borrow request.
//
//	PENDING -> APPROVED -> RETURNED -> COMPLETED
//	PENDING -> REJECTED
//	PENDING -> (deleted via cancel)
//
// REJECTED and COMPLETED are terminal. RETURNED awaits borrower confirmation.
type RequestStatus string

const (
	RequestPending   RequestStatus = "PENDING"
	RequestApproved  RequestStatus = "APPROVED"
	RequestRejected  RequestStatus = "REJECTED"
	RequestReturned  RequestStatus = "RETURNED"
	RequestCompleted RequestStatus = "COMPLETED"
)

// AllRequestStatuses lists every status, in lifecycle order. Used by the
// statistics aggregator so a new status cannot be silently left uncounted.
var AllRequestStatuses = []RequestStatus{
	RequestPending,
	RequestApproved,
	RequestRejected,
	RequestReturned,
	RequestCompleted,
}

// ValidRequestStatus reports whether s is one of the known request statuses.
func ValidRequestStatus(s RequestStatus) bool {
	switch s {
	case RequestPending, RequestApproved, RequestRejected, RequestReturned, RequestCompleted:
		return true
	}
	return false
}

// BorrowRequest represents one proposed-then-resolved loan of an item between
// a borrower and the item's owner (the lender). Item, borrower and lender
// references are fixed at creation; only status, the response message and the
// return/complete timestamps change afterwards.
type BorrowRequest struct {
	ID              uuid.UUID     `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ItemID          uuid.UUID     `gorm:"type:uuid;not null;index" json:"item_id"`
	Item            *Item         `gorm:"foreignKey:ItemID" json:"item,omitempty"`
	BorrowerID      uuid.UUID     `gorm:"type:uuid;not null;index" json:"borrower_id"`
	Borrower        *User         `gorm:"foreignKey:BorrowerID" json:"borrower,omitempty"`
	LenderID        uuid.UUID     `gorm:"type:uuid;not null;index" json:"lender_id"`
	Lender          *User         `gorm:"foreignKey:LenderID" json:"lender,omitempty"`
	Status          RequestStatus `gorm:"type:varchar(20);not null;default:'PENDING';index" json:"status"`
	RequestMessage  string        `gorm:"type:text" json:"request_message"`
	ResponseMessage string        `gorm:"type:text" json:"response_message"`
	BorrowDate      time.Time     `gorm:"type:date;not null" json:"borrow_date"`
	ReturnDate      time.Time     `gorm:"type:date;not null" json:"return_date"`
	ReturnedAt      *time.Time    `json:"returned_at"`
	CompletedAt     *time.Time    `json:"completed_at"`
	CreatedAt       time.Time     `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time     `gorm:"autoUpdateTime" json:"updated_at"`
}
