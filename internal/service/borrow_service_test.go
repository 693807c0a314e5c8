package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"rentkar/internal/model"
	"rentkar/internal/testutil/storemock"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ----- fixture -----

type fixture struct {
	requests *storemock.RequestRepo
	items    *storemock.ItemRepo
	notifier *storemock.NotifierRecorder

	borrowerID uuid.UUID
	lenderID   uuid.UUID
	strangerID uuid.UUID
	item       *model.Item
	request    *model.BorrowRequest
}

// newFixture wires a pending request from borrower to lender over an
// AVAILABLE item, with mocks reading and writing the shared structs so a
// test observes every mutation the service makes.
func newFixture(status model.RequestStatus) *fixture {
	f := &fixture{
		requests:   &storemock.RequestRepo{},
		items:      &storemock.ItemRepo{},
		notifier:   &storemock.NotifierRecorder{},
		borrowerID: uuid.New(),
		lenderID:   uuid.New(),
		strangerID: uuid.New(),
	}

	f.item = &model.Item{
		ID:      uuid.New(),
		Title:   "Cordless drill",
		Status:  model.ItemAvailable,
		OwnerID: f.lenderID,
	}
	if status == model.RequestApproved || status == model.RequestReturned {
		f.item.Status = model.ItemLoaned
	}

	f.request = &model.BorrowRequest{
		ID:         uuid.New(),
		ItemID:     f.item.ID,
		BorrowerID: f.borrowerID,
		LenderID:   f.lenderID,
		Status:     status,
		BorrowDate: time.Now().AddDate(0, 0, 1),
		ReturnDate: time.Now().AddDate(0, 0, 8),
	}

	findRequest := func(ctx context.Context, id uuid.UUID) (*model.BorrowRequest, error) {
		if id != f.request.ID {
			return nil, gorm.ErrRecordNotFound
		}
		return f.request, nil
	}
	f.requests.FindByIDForUpdateFn = findRequest
	f.requests.FindByIDWithRelationsFn = findRequest

	findItem := func(ctx context.Context, id uuid.UUID) (*model.Item, error) {
		if id != f.item.ID {
			return nil, gorm.ErrRecordNotFound
		}
		return f.item, nil
	}
	f.items.FindByIDFn = findItem
	f.items.FindByIDForUpdateFn = findItem

	return f
}

func (f *fixture) service() BorrowService {
	return NewBorrowService(f.requests, f.items, &storemock.TxManager{}, f.notifier)
}

func futureDate(days int) string {
	return time.Now().AddDate(0, 0, days).Format(dateLayout)
}

// ----- create -----

func TestCreateRequest_Success(t *testing.T) {
	f := newFixture(model.RequestPending)

	created := false
	f.requests.CreateFn = func(ctx context.Context, req *model.BorrowRequest) error {
		created = true
		req.ID = f.request.ID
		f.request = req
		return nil
	}

	resp, err := f.service().CreateRequest(context.Background(), f.item.ID, CreateBorrowRequestDTO{
		BorrowDate:     futureDate(1),
		ReturnDate:     futureDate(8),
		RequestMessage: "  Need it for the weekend  ",
	}, f.borrowerID)
	if err != nil {
		t.Fatalf("CreateRequest err: %v", err)
	}
	if !created {
		t.Fatal("expected Create to be called")
	}
	if resp.Status != string(model.RequestPending) {
		t.Fatalf("status = %s, want PENDING", resp.Status)
	}
	if f.request.LenderID != f.lenderID {
		t.Fatalf("lender = %s, want item owner %s", f.request.LenderID, f.lenderID)
	}
	if f.request.RequestMessage != "Need it for the weekend" {
		t.Fatalf("message not trimmed: %q", f.request.RequestMessage)
	}

	sent := f.notifier.Sent()
	if len(sent) != 1 || sent[0].Event != EventRequestCreated || sent[0].UserID != f.lenderID {
		t.Fatalf("expected one %s notification to lender, got %+v", EventRequestCreated, sent)
	}
}

func TestCreateRequest_Guards(t *testing.T) {
	longMessage := make([]byte, maxMessageLength+1)
	for i := range longMessage {
		longMessage[i] = 'x'
	}

	tests := []struct {
		name    string
		dto     CreateBorrowRequestDTO
		itemID  func(f *fixture) uuid.UUID
		actor   func(f *fixture) uuid.UUID
		setup   func(f *fixture)
		wantErr error
	}{
		{
			name:    "malformed borrow date",
			dto:     CreateBorrowRequestDTO{BorrowDate: "01-02-2026", ReturnDate: futureDate(8)},
			wantErr: ErrValidation,
		},
		{
			name:    "borrow date in the past",
			dto:     CreateBorrowRequestDTO{BorrowDate: "2020-01-01", ReturnDate: futureDate(8)},
			wantErr: ErrBorrowDateInPast,
		},
		{
			name:    "return date equals borrow date",
			dto:     CreateBorrowRequestDTO{BorrowDate: futureDate(3), ReturnDate: futureDate(3)},
			wantErr: ErrInvalidDateRange,
		},
		{
			name:    "return date before borrow date",
			dto:     CreateBorrowRequestDTO{BorrowDate: futureDate(8), ReturnDate: futureDate(1)},
			wantErr: ErrInvalidDateRange,
		},
		{
			name:    "message too long",
			dto:     CreateBorrowRequestDTO{BorrowDate: futureDate(1), ReturnDate: futureDate(8), RequestMessage: string(longMessage)},
			wantErr: ErrMessageTooLong,
		},
		{
			name:    "item not found",
			dto:     CreateBorrowRequestDTO{BorrowDate: futureDate(1), ReturnDate: futureDate(8)},
			itemID:  func(f *fixture) uuid.UUID { return uuid.New() },
			wantErr: ErrItemNotFound,
		},
		{
			name: "item not available",
			dto:  CreateBorrowRequestDTO{BorrowDate: futureDate(1), ReturnDate: futureDate(8)},
			setup: func(f *fixture) {
				f.item.Status = model.ItemLoaned
			},
			wantErr: ErrItemNotAvailable,
		},
		{
			name:    "self borrow",
			dto:     CreateBorrowRequestDTO{BorrowDate: futureDate(1), ReturnDate: futureDate(8)},
			actor:   func(f *fixture) uuid.UUID { return f.lenderID },
			wantErr: ErrSelfBorrow,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(model.RequestPending)
			if tc.setup != nil {
				tc.setup(f)
			}
			itemID := f.item.ID
			if tc.itemID != nil {
				itemID = tc.itemID(f)
			}
			actor := f.borrowerID
			if tc.actor != nil {
				actor = tc.actor(f)
			}

			_, err := f.service().CreateRequest(context.Background(), itemID, tc.dto, actor)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("err = %v, want %v", err, tc.wantErr)
			}
			if len(f.notifier.Sent()) != 0 {
				t.Fatal("no notification expected on failure")
			}
		})
	}
}

// ----- visibility -----

func TestGetRequestByID_ParticipantsOnly(t *testing.T) {
	f := newFixture(model.RequestPending)
	svc := f.service()

	if _, err := svc.GetRequestByID(context.Background(), f.request.ID, f.borrowerID); err != nil {
		t.Fatalf("borrower view err: %v", err)
	}
	if _, err := svc.GetRequestByID(context.Background(), f.request.ID, f.lenderID); err != nil {
		t.Fatalf("lender view err: %v", err)
	}

	_, err := svc.GetRequestByID(context.Background(), f.request.ID, f.strangerID)
	if !errors.Is(err, ErrNotParticipant) {
		t.Fatalf("stranger err = %v, want %v", err, ErrNotParticipant)
	}

	_, err = svc.GetRequestByID(context.Background(), uuid.New(), f.borrowerID)
	if !errors.Is(err, ErrRequestNotFound) {
		t.Fatalf("missing err = %v, want %v", err, ErrRequestNotFound)
	}
}

func TestGetSentRequests_StatusFilter(t *testing.T) {
	f := newFixture(model.RequestPending)

	var filtered model.RequestStatus
	f.requests.ListByBorrowerAndStatusFn = func(ctx context.Context, borrowerID uuid.UUID, status model.RequestStatus) ([]model.BorrowRequest, error) {
		filtered = status
		return []model.BorrowRequest{*f.request}, nil
	}
	f.requests.ListByBorrowerFn = func(ctx context.Context, borrowerID uuid.UUID) ([]model.BorrowRequest, error) {
		return []model.BorrowRequest{*f.request}, nil
	}

	svc := f.service()

	// Lowercase filter is normalized.
	if _, err := svc.GetSentRequests(context.Background(), f.borrowerID, "pending"); err != nil {
		t.Fatalf("filtered list err: %v", err)
	}
	if filtered != model.RequestPending {
		t.Fatalf("filter = %s, want PENDING", filtered)
	}

	if _, err := svc.GetSentRequests(context.Background(), f.borrowerID, ""); err != nil {
		t.Fatalf("unfiltered list err: %v", err)
	}

	_, err := svc.GetSentRequests(context.Background(), f.borrowerID, "BOGUS")
	if !errors.Is(err, ErrInvalidStatusFilter) {
		t.Fatalf("err = %v, want %v", err, ErrInvalidStatusFilter)
	}
}

// ----- approve -----

func TestApproveRequest_Success(t *testing.T) {
	f := newFixture(model.RequestPending)

	resp, err := f.service().ApproveRequest(context.Background(), f.request.ID, "Sure, pick it up Friday", f.lenderID)
	if err != nil {
		t.Fatalf("ApproveRequest err: %v", err)
	}

	if f.request.Status != model.RequestApproved {
		t.Fatalf("request status = %s, want APPROVED", f.request.Status)
	}
	if f.item.Status != model.ItemLoaned {
		t.Fatalf("item status = %s, want LOANED", f.item.Status)
	}
	if f.request.ResponseMessage != "Sure, pick it up Friday" {
		t.Fatalf("response message = %q", f.request.ResponseMessage)
	}
	if resp.Status != string(model.RequestApproved) {
		t.Fatalf("response status = %s", resp.Status)
	}

	sent := f.notifier.Sent()
	if len(sent) != 1 || sent[0].Event != EventRequestApproved || sent[0].UserID != f.borrowerID {
		t.Fatalf("expected one %s notification to borrower, got %+v", EventRequestApproved, sent)
	}
}

func TestApproveRequest_Failures(t *testing.T) {
	tests := []struct {
		name    string
		status  model.RequestStatus
		actor   func(f *fixture) uuid.UUID
		setup   func(f *fixture)
		wantErr error
	}{
		{
			name:    "borrower cannot approve",
			status:  model.RequestPending,
			actor:   func(f *fixture) uuid.UUID { return f.borrowerID },
			wantErr: ErrOnlyLender,
		},
		{
			name:    "stranger cannot approve",
			status:  model.RequestPending,
			actor:   func(f *fixture) uuid.UUID { return f.strangerID },
			wantErr: ErrOnlyLender,
		},
		{
			name:    "already approved",
			status:  model.RequestApproved,
			wantErr: ErrNotPending,
		},
		{
			name:    "already rejected",
			status:  model.RequestRejected,
			wantErr: ErrNotPending,
		},
		{
			name:   "item went unavailable",
			status: model.RequestPending,
			setup: func(f *fixture) {
				f.item.Status = model.ItemUnavailable
			},
			wantErr: ErrItemNoLongerAvailable,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(tc.status)
			if tc.setup != nil {
				tc.setup(f)
			}
			actor := f.lenderID
			if tc.actor != nil {
				actor = tc.actor(f)
			}

			_, err := f.service().ApproveRequest(context.Background(), f.request.ID, "", actor)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("err = %v, want %v", err, tc.wantErr)
			}
			if len(f.notifier.Sent()) != 0 {
				t.Fatal("no notification expected on failure")
			}
		})
	}
}

// Two approvals race on the same pending request. The row lock serializes
// them; the loser re-reads the committed APPROVED status and must get a
// conflict, never a double item handout.
func TestApproveRequest_SecondApprovalConflicts(t *testing.T) {
	f := newFixture(model.RequestPending)
	svc := f.service()

	if _, err := svc.ApproveRequest(context.Background(), f.request.ID, "", f.lenderID); err != nil {
		t.Fatalf("first approve err: %v", err)
	}

	_, err := svc.ApproveRequest(context.Background(), f.request.ID, "", f.lenderID)
	if !errors.Is(err, ErrNotPending) {
		t.Fatalf("second approve err = %v, want %v", err, ErrNotPending)
	}
	if f.item.Status != model.ItemLoaned {
		t.Fatalf("item status = %s, want LOANED", f.item.Status)
	}
}

// ----- reject -----

func TestRejectRequest_Success(t *testing.T) {
	f := newFixture(model.RequestPending)
	// Rejection must not read the item at all.
	f.items.FindByIDForUpdateFn = func(ctx context.Context, id uuid.UUID) (*model.Item, error) {
		t.Fatal("reject must not touch the item")
		return nil, nil
	}

	resp, err := f.service().RejectRequest(context.Background(), f.request.ID, "Out of town", f.lenderID)
	if err != nil {
		t.Fatalf("RejectRequest err: %v", err)
	}

	if f.request.Status != model.RequestRejected {
		t.Fatalf("request status = %s, want REJECTED", f.request.Status)
	}
	if f.item.Status != model.ItemAvailable {
		t.Fatalf("item status = %s, want AVAILABLE untouched", f.item.Status)
	}
	if resp.ResponseMessage != "Out of town" {
		t.Fatalf("response message = %q", resp.ResponseMessage)
	}

	sent := f.notifier.Sent()
	if len(sent) != 1 || sent[0].Event != EventRequestRejected || sent[0].UserID != f.borrowerID {
		t.Fatalf("expected one %s notification to borrower, got %+v", EventRequestRejected, sent)
	}
}

func TestRejectRequest_EvenWhenItemUnavailable(t *testing.T) {
	f := newFixture(model.RequestPending)
	f.item.Status = model.ItemUnavailable

	if _, err := f.service().RejectRequest(context.Background(), f.request.ID, "", f.lenderID); err != nil {
		t.Fatalf("RejectRequest err: %v", err)
	}
	if f.request.Status != model.RequestRejected {
		t.Fatalf("request status = %s, want REJECTED", f.request.Status)
	}
}

func TestRejectRequest_Failures(t *testing.T) {
	f := newFixture(model.RequestApproved)
	_, err := f.service().RejectRequest(context.Background(), f.request.ID, "", f.lenderID)
	if !errors.Is(err, ErrNotPending) {
		t.Fatalf("err = %v, want %v", err, ErrNotPending)
	}

	f = newFixture(model.RequestPending)
	_, err = f.service().RejectRequest(context.Background(), f.request.ID, "", f.borrowerID)
	if !errors.Is(err, ErrOnlyLender) {
		t.Fatalf("err = %v, want %v", err, ErrOnlyLender)
	}
}

// ----- return / confirm -----

func TestMarkReturned_Success(t *testing.T) {
	f := newFixture(model.RequestApproved)

	resp, err := f.service().MarkReturned(context.Background(), f.request.ID, f.lenderID)
	if err != nil {
		t.Fatalf("MarkReturned err: %v", err)
	}

	if f.request.Status != model.RequestReturned {
		t.Fatalf("request status = %s, want RETURNED", f.request.Status)
	}
	if f.request.ReturnedAt == nil {
		t.Fatal("ReturnedAt not set")
	}
	if f.item.Status != model.ItemAvailable {
		t.Fatalf("item status = %s, want AVAILABLE again", f.item.Status)
	}
	if resp.ReturnedAt == nil {
		t.Fatal("response ReturnedAt not set")
	}

	sent := f.notifier.Sent()
	if len(sent) != 1 || sent[0].Event != EventItemReturned || sent[0].UserID != f.borrowerID {
		t.Fatalf("expected one %s notification to borrower, got %+v", EventItemReturned, sent)
	}
}

func TestMarkReturned_Failures(t *testing.T) {
	tests := []struct {
		name    string
		status  model.RequestStatus
		actor   func(f *fixture) uuid.UUID
		wantErr error
	}{
		{name: "still pending", status: model.RequestPending, wantErr: ErrNotApproved},
		{name: "already returned", status: model.RequestReturned, wantErr: ErrNotApproved},
		{name: "completed", status: model.RequestCompleted, wantErr: ErrNotApproved},
		{
			name:    "borrower cannot mark returned",
			status:  model.RequestApproved,
			actor:   func(f *fixture) uuid.UUID { return f.borrowerID },
			wantErr: ErrOnlyLender,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(tc.status)
			actor := f.lenderID
			if tc.actor != nil {
				actor = tc.actor(f)
			}
			_, err := f.service().MarkReturned(context.Background(), f.request.ID, actor)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("err = %v, want %v", err, tc.wantErr)
			}
		})
	}
}

func TestConfirmReturn_Success(t *testing.T) {
	f := newFixture(model.RequestReturned)

	resp, err := f.service().ConfirmReturn(context.Background(), f.request.ID, f.borrowerID)
	if err != nil {
		t.Fatalf("ConfirmReturn err: %v", err)
	}

	if f.request.Status != model.RequestCompleted {
		t.Fatalf("request status = %s, want COMPLETED", f.request.Status)
	}
	if f.request.CompletedAt == nil {
		t.Fatal("CompletedAt not set")
	}
	if resp.CompletedAt == nil {
		t.Fatal("response CompletedAt not set")
	}

	sent := f.notifier.Sent()
	if len(sent) != 1 || sent[0].Event != EventReturnConfirmed || sent[0].UserID != f.lenderID {
		t.Fatalf("expected one %s notification to lender, got %+v", EventReturnConfirmed, sent)
	}
}

func TestConfirmReturn_Failures(t *testing.T) {
	f := newFixture(model.RequestApproved)
	_, err := f.service().ConfirmReturn(context.Background(), f.request.ID, f.borrowerID)
	if !errors.Is(err, ErrNotReturned) {
		t.Fatalf("err = %v, want %v", err, ErrNotReturned)
	}

	f = newFixture(model.RequestReturned)
	_, err = f.service().ConfirmReturn(context.Background(), f.request.ID, f.lenderID)
	if !errors.Is(err, ErrOnlyBorrower) {
		t.Fatalf("err = %v, want %v", err, ErrOnlyBorrower)
	}
}

// ----- cancel -----

func TestCancelRequest(t *testing.T) {
	f := newFixture(model.RequestPending)

	deleted := false
	f.requests.DeleteFn = func(ctx context.Context, req *model.BorrowRequest) error {
		deleted = true
		return nil
	}

	if err := f.service().CancelRequest(context.Background(), f.request.ID, f.borrowerID); err != nil {
		t.Fatalf("CancelRequest err: %v", err)
	}
	if !deleted {
		t.Fatal("expected request to be deleted")
	}
	if f.item.Status != model.ItemAvailable {
		t.Fatalf("item status = %s, cancel must not touch the item", f.item.Status)
	}

	f = newFixture(model.RequestApproved)
	err := f.service().CancelRequest(context.Background(), f.request.ID, f.borrowerID)
	if !errors.Is(err, ErrNotPending) {
		t.Fatalf("err = %v, want %v", err, ErrNotPending)
	}

	f = newFixture(model.RequestPending)
	err = f.service().CancelRequest(context.Background(), f.request.ID, f.lenderID)
	if !errors.Is(err, ErrOnlyBorrower) {
		t.Fatalf("err = %v, want %v", err, ErrOnlyBorrower)
	}
}

// ----- lifecycle end to end -----

func TestLifecycle_HappyPath(t *testing.T) {
	f := newFixture(model.RequestPending)
	svc := f.service()
	ctx := context.Background()

	if _, err := svc.ApproveRequest(ctx, f.request.ID, "", f.lenderID); err != nil {
		t.Fatalf("approve: %v", err)
	}
	if _, err := svc.MarkReturned(ctx, f.request.ID, f.lenderID); err != nil {
		t.Fatalf("return: %v", err)
	}
	if _, err := svc.ConfirmReturn(ctx, f.request.ID, f.borrowerID); err != nil {
		t.Fatalf("confirm: %v", err)
	}

	if f.request.Status != model.RequestCompleted {
		t.Fatalf("final status = %s, want COMPLETED", f.request.Status)
	}
	if f.item.Status != model.ItemAvailable {
		t.Fatalf("final item status = %s, want AVAILABLE", f.item.Status)
	}

	events := []string{}
	for _, n := range f.notifier.Sent() {
		events = append(events, n.Event)
	}
	want := []string{EventRequestApproved, EventItemReturned, EventReturnConfirmed}
	if len(events) != len(want) {
		t.Fatalf("events = %v, want %v", events, want)
	}
	for i := range want {
		if events[i] != want[i] {
			t.Fatalf("events = %v, want %v", events, want)
		}
	}
}

// ----- statistics -----

func TestGetStatistics(t *testing.T) {
	f := newFixture(model.RequestPending)

	sent := map[model.RequestStatus]int64{
		model.RequestPending:   2,
		model.RequestApproved:  1,
		model.RequestCompleted: 3,
	}
	received := map[model.RequestStatus]int64{
		model.RequestPending:  1,
		model.RequestRejected: 4,
	}

	f.requests.CountByBorrowerAndStatusFn = func(ctx context.Context, borrowerID uuid.UUID, status model.RequestStatus) (int64, error) {
		return sent[status], nil
	}
	f.requests.CountByLenderAndStatusFn = func(ctx context.Context, lenderID uuid.UUID, status model.RequestStatus) (int64, error) {
		return received[status], nil
	}

	stats, err := f.service().GetStatistics(context.Background(), f.borrowerID)
	if err != nil {
		t.Fatalf("GetStatistics err: %v", err)
	}

	if stats.PendingCount != 3 {
		t.Fatalf("PendingCount = %d, want 3", stats.PendingCount)
	}
	if stats.ApprovedCount != 1 {
		t.Fatalf("ApprovedCount = %d, want 1", stats.ApprovedCount)
	}
	if stats.RejectedCount != 4 {
		t.Fatalf("RejectedCount = %d, want 4", stats.RejectedCount)
	}
	if stats.ReturnedCount != 0 {
		t.Fatalf("ReturnedCount = %d, want 0", stats.ReturnedCount)
	}
	if stats.CompletedCount != 3 {
		t.Fatalf("CompletedCount = %d, want 3", stats.CompletedCount)
	}
	if stats.TotalSent != 6 {
		t.Fatalf("TotalSent = %d, want 6", stats.TotalSent)
	}
	if stats.TotalReceived != 5 {
		t.Fatalf("TotalReceived = %d, want 5", stats.TotalReceived)
	}
}

// ----- helpers -----

func TestSetResponseMessage(t *testing.T) {
	req := &model.BorrowRequest{}

	if err := setResponseMessage(req, "   "); err != nil {
		t.Fatalf("blank message err: %v", err)
	}
	if req.ResponseMessage != "" {
		t.Fatalf("blank message stored: %q", req.ResponseMessage)
	}

	if err := setResponseMessage(req, "  ok  "); err != nil {
		t.Fatalf("err: %v", err)
	}
	if req.ResponseMessage != "ok" {
		t.Fatalf("message = %q, want trimmed", req.ResponseMessage)
	}

	long := make([]byte, maxMessageLength+1)
	for i := range long {
		long[i] = 'a'
	}
	if err := setResponseMessage(req, string(long)); !errors.Is(err, ErrMessageTooLong) {
		t.Fatalf("err = %v, want %v", err, ErrMessageTooLong)
	}
}
