package service

import (
	"errors"
	"fmt"
)

// Error kinds. Services wrap one of these into every failure they return so
// handlers can map the kind to an HTTP status with errors.Is without parsing
// message text. The precedence inside each operation is fixed: not-found is
// checked first, then authorization, then state preconditions.
var (
	ErrNotFound   = errors.New("not found")
	ErrValidation = errors.New("invalid request")
	ErrForbidden  = errors.New("not allowed")
	ErrConflict   = errors.New("conflict")
	ErrRateLimit  = errors.New("rate limit exceeded")
)

// Fixed guard failures, pre-wrapped with their kind. errors.Is matches both
// the specific failure and the broad kind.
var (
	ErrItemNotFound    = fmt.Errorf("item %w", ErrNotFound)
	ErrRequestNotFound = fmt.Errorf("borrow request %w", ErrNotFound)
	ErrUserNotFound    = fmt.Errorf("user %w", ErrNotFound)

	ErrBorrowDateInPast    = fmt.Errorf("%w: borrow date cannot be in the past", ErrValidation)
	ErrInvalidDateRange    = fmt.Errorf("%w: return date must be after borrow date", ErrValidation)
	ErrMessageTooLong      = fmt.Errorf("%w: message must be at most 500 characters", ErrValidation)
	ErrItemNotAvailable    = fmt.Errorf("%w: item is not available for borrowing", ErrValidation)
	ErrSelfBorrow          = fmt.Errorf("%w: cannot borrow your own item", ErrValidation)
	ErrInvalidStatusFilter = fmt.Errorf("%w: unknown request status", ErrValidation)

	ErrOnlyLender     = fmt.Errorf("%w: only the item owner may perform this action", ErrForbidden)
	ErrOnlyBorrower   = fmt.Errorf("%w: only the borrower may perform this action", ErrForbidden)
	ErrNotParticipant = fmt.Errorf("%w: not authorized to view this request", ErrForbidden)

	ErrNotPending            = fmt.Errorf("%w: only pending requests allow this action", ErrConflict)
	ErrNotApproved           = fmt.Errorf("%w: only approved requests can be marked as returned", ErrConflict)
	ErrNotReturned           = fmt.Errorf("%w: only returned requests can be confirmed", ErrConflict)
	ErrItemNoLongerAvailable = fmt.Errorf("%w: item is no longer available", ErrConflict)

	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrEmailTaken         = fmt.Errorf("%w: email already exists", ErrValidation)
	ErrUsernameTaken      = fmt.Errorf("%w: username already exists", ErrValidation)
)
