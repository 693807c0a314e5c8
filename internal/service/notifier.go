package service

import "github.com/google/uuid"

// Notifier pushes a lifecycle event to a connected user. Delivery is
// best-effort: the engine never fails an operation because a notification
// could not be delivered.
type Notifier interface {
	NotifyUser(userID uuid.UUID, event string, payload interface{})
}

// Notification event names pushed over the websocket hub.
const (
	EventRequestCreated  = "request_created"
	EventRequestApproved = "request_approved"
	EventRequestRejected = "request_rejected"
	EventItemReturned    = "item_returned"
	EventReturnConfirmed = "return_confirmed"
)
