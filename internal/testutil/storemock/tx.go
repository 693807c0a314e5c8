package storemock

import (
	"context"
	"sync"

	"rentkar/internal/repository"

	"github.com/google/uuid"
)

var _ repository.TransactionManager = (*TxManager)(nil)

// TxManager is a pass-through transaction manager for tests: the closure
// runs against the same context, so the mock repositories see every call.
type TxManager struct {
	RunInTxFn func(ctx context.Context, fn func(txCtx context.Context) error) error
}

func (m *TxManager) RunInTx(ctx context.Context, fn func(txCtx context.Context) error) error {
	if m.RunInTxFn != nil {
		return m.RunInTxFn(ctx, fn)
	}
	return fn(ctx)
}

// Notification is one recorded NotifyUser call.
type Notification struct {
	UserID  uuid.UUID
	Event   string
	Payload interface{}
}

// NotifierRecorder captures notifications so tests can assert on who was
// told what. Safe for concurrent use.
type NotifierRecorder struct {
	mu   sync.Mutex
	sent []Notification
}

func (r *NotifierRecorder) NotifyUser(userID uuid.UUID, event string, payload interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, Notification{UserID: userID, Event: event, Payload: payload})
}

// Sent returns a copy of everything recorded so far.
func (r *NotifierRecorder) Sent() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Notification, len(r.sent))
	copy(out, r.sent)
	return out
}
