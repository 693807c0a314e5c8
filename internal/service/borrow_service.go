package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"rentkar/internal/model"
	"rentkar/internal/repository"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	dateLayout       = "2006-01-02"
	maxMessageLength = 500
)

// --- DTOs ---

type CreateBorrowRequestDTO struct {
	BorrowDate     string `json:"borrow_date" binding:"required"`
	ReturnDate     string `json:"return_date" binding:"required"`
	RequestMessage string `json:"request_message"`
}

type UserSummary struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
}

type ItemSummary struct {
	ID          string      `json:"id"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Category    string      `json:"category"`
	ImageURL    string      `json:"image_url"`
	Status      string      `json:"status"`
	Owner       UserSummary `json:"owner"`
}

type BorrowRequestResponse struct {
	ID              string      `json:"id"`
	Item            ItemSummary `json:"item"`
	Borrower        UserSummary `json:"borrower"`
	Lender          UserSummary `json:"lender"`
	Status          string      `json:"status"`
	RequestMessage  string      `json:"request_message,omitempty"`
	ResponseMessage string      `json:"response_message,omitempty"`
	BorrowDate      string      `json:"borrow_date"`
	ReturnDate      string      `json:"return_date"`
	ReturnedAt      *string     `json:"returned_at"`
	CompletedAt     *string     `json:"completed_at"`
	CreatedAt       string      `json:"created_at"`
	UpdatedAt       string      `json:"updated_at"`
}

// --- Interface ---

// BorrowService is the borrow-request lifecycle engine. Every mutating
// operation takes the acting user's id and enforces, in order: existence,
// the actor's role on the request, and the state precondition. Request and
// item writes that belong to one transition commit atomically.
type BorrowService interface {
	CreateRequest(ctx context.Context, itemID uuid.UUID, dto CreateBorrowRequestDTO, borrowerID uuid.UUID) (BorrowRequestResponse, error)
	GetSentRequests(ctx context.Context, borrowerID uuid.UUID, statusFilter string) ([]BorrowRequestResponse, error)
	GetReceivedRequests(ctx context.Context, lenderID uuid.UUID, statusFilter string) ([]BorrowRequestResponse, error)
	GetRequestByID(ctx context.Context, id, userID uuid.UUID) (BorrowRequestResponse, error)
	ApproveRequest(ctx context.Context, id uuid.UUID, responseMessage string, actorID uuid.UUID) (BorrowRequestResponse, error)
	RejectRequest(ctx context.Context, id uuid.UUID, responseMessage string, actorID uuid.UUID) (BorrowRequestResponse, error)
	MarkReturned(ctx context.Context, id, actorID uuid.UUID) (BorrowRequestResponse, error)
	ConfirmReturn(ctx context.Context, id, actorID uuid.UUID) (BorrowRequestResponse, error)
	CancelRequest(ctx context.Context, id, actorID uuid.UUID) error
	GetStatistics(ctx context.Context, userID uuid.UUID) (model.RequestStatistics, error)
}

type borrowService struct {
	requests repository.BorrowRequestRepository
	items    repository.ItemRepository
	tx       repository.TransactionManager
	notifier Notifier
}

// NewBorrowService wires the lifecycle engine. notifier may be nil.
func NewBorrowService(requests repository.BorrowRequestRepository, items repository.ItemRepository, tx repository.TransactionManager, notifier Notifier) BorrowService {
	return &borrowService{requests: requests, items: items, tx: tx, notifier: notifier}
}

// --- Role policy ---

type participantRole int

const (
	asLender participantRole = iota
	asBorrower
)

// requireRole is the single authorization policy shared by every mutating
// operation: the actor must hold the required role on this exact request.
func requireRole(req *model.BorrowRequest, actorID uuid.UUID, role participantRole) error {
	switch role {
	case asLender:
		if req.LenderID != actorID {
			return ErrOnlyLender
		}
	case asBorrower:
		if req.BorrowerID != actorID {
			return ErrOnlyBorrower
		}
	}
	return nil
}

// --- Lifecycle operations ---

func (s *borrowService) CreateRequest(ctx context.Context, itemID uuid.UUID, dto CreateBorrowRequestDTO, borrowerID uuid.UUID) (BorrowRequestResponse, error) {
	borrowDate, err := time.Parse(dateLayout, dto.BorrowDate)
	if err != nil {
		return BorrowRequestResponse{}, fmt.Errorf("%w: borrow_date must be formatted as YYYY-MM-DD", ErrValidation)
	}
	returnDate, err := time.Parse(dateLayout, dto.ReturnDate)
	if err != nil {
		return BorrowRequestResponse{}, fmt.Errorf("%w: return_date must be formatted as YYYY-MM-DD", ErrValidation)
	}

	today := time.Now().UTC().Truncate(24 * time.Hour)
	if borrowDate.Before(today) {
		return BorrowRequestResponse{}, ErrBorrowDateInPast
	}
	if !returnDate.After(borrowDate) {
		return BorrowRequestResponse{}, ErrInvalidDateRange
	}
	if len(dto.RequestMessage) > maxMessageLength {
		return BorrowRequestResponse{}, ErrMessageTooLong
	}

	item, err := s.items.FindByID(ctx, itemID)
	if err != nil {
		return BorrowRequestResponse{}, notFoundOr(err, ErrItemNotFound)
	}
	if item.Status != model.ItemAvailable {
		return BorrowRequestResponse{}, ErrItemNotAvailable
	}
	if item.OwnerID == borrowerID {
		return BorrowRequestResponse{}, ErrSelfBorrow
	}

	req := model.BorrowRequest{
		ItemID:         item.ID,
		BorrowerID:     borrowerID,
		LenderID:       item.OwnerID,
		Status:         model.RequestPending,
		RequestMessage: strings.TrimSpace(dto.RequestMessage),
		BorrowDate:     borrowDate,
		ReturnDate:     returnDate,
	}
	if err := s.requests.Create(ctx, &req); err != nil {
		return BorrowRequestResponse{}, fmt.Errorf("failed to create borrow request: %w", err)
	}

	resp, err := s.reload(ctx, req.ID)
	if err != nil {
		return BorrowRequestResponse{}, err
	}
	s.notify(req.LenderID, EventRequestCreated, resp)
	return resp, nil
}

func (s *borrowService) GetSentRequests(ctx context.Context, borrowerID uuid.UUID, statusFilter string) ([]BorrowRequestResponse, error) {
	status, err := parseStatusFilter(statusFilter)
	if err != nil {
		return nil, err
	}

	var requests []model.BorrowRequest
	if status == "" {
		requests, err = s.requests.ListByBorrower(ctx, borrowerID)
	} else {
		requests, err = s.requests.ListByBorrowerAndStatus(ctx, borrowerID, status)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list sent requests: %w", err)
	}
	return toResponses(requests), nil
}

func (s *borrowService) GetReceivedRequests(ctx context.Context, lenderID uuid.UUID, statusFilter string) ([]BorrowRequestResponse, error) {
	status, err := parseStatusFilter(statusFilter)
	if err != nil {
		return nil, err
	}

	var requests []model.BorrowRequest
	if status == "" {
		requests, err = s.requests.ListByLender(ctx, lenderID)
	} else {
		requests, err = s.requests.ListByLenderAndStatus(ctx, lenderID, status)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list received requests: %w", err)
	}
	return toResponses(requests), nil
}

func (s *borrowService) GetRequestByID(ctx context.Context, id, userID uuid.UUID) (BorrowRequestResponse, error) {
	req, err := s.requests.FindByIDWithRelations(ctx, id)
	if err != nil {
		return BorrowRequestResponse{}, notFoundOr(err, ErrRequestNotFound)
	}
	if req.BorrowerID != userID && req.LenderID != userID {
		return BorrowRequestResponse{}, ErrNotParticipant
	}
	return toResponse(*req), nil
}

func (s *borrowService) ApproveRequest(ctx context.Context, id uuid.UUID, responseMessage string, actorID uuid.UUID) (BorrowRequestResponse, error) {
	var borrowerID uuid.UUID
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		req, err := s.requests.FindByIDForUpdate(txCtx, id)
		if err != nil {
			return notFoundOr(err, ErrRequestNotFound)
		}
		if err := requireRole(req, actorID, asLender); err != nil {
			return err
		}
		if req.Status != model.RequestPending {
			return ErrNotPending
		}

		item, err := s.items.FindByIDForUpdate(txCtx, req.ItemID)
		if err != nil {
			return notFoundOr(err, ErrItemNotFound)
		}
		if item.Status != model.ItemAvailable {
			return ErrItemNoLongerAvailable
		}

		if err := setResponseMessage(req, responseMessage); err != nil {
			return err
		}
		req.Status = model.RequestApproved
		item.Status = model.ItemLoaned

		if err := s.items.Save(txCtx, item); err != nil {
			return fmt.Errorf("failed to update item status: %w", err)
		}
		if err := s.requests.Save(txCtx, req); err != nil {
			return fmt.Errorf("failed to update borrow request: %w", err)
		}
		borrowerID = req.BorrowerID
		return nil
	})
	if err != nil {
		return BorrowRequestResponse{}, err
	}

	resp, err := s.reload(ctx, id)
	if err != nil {
		return BorrowRequestResponse{}, err
	}
	s.notify(borrowerID, EventRequestApproved, resp)
	return resp, nil
}

func (s *borrowService) RejectRequest(ctx context.Context, id uuid.UUID, responseMessage string, actorID uuid.UUID) (BorrowRequestResponse, error) {
	var borrowerID uuid.UUID
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		req, err := s.requests.FindByIDForUpdate(txCtx, id)
		if err != nil {
			return notFoundOr(err, ErrRequestNotFound)
		}
		if err := requireRole(req, actorID, asLender); err != nil {
			return err
		}
		if req.Status != model.RequestPending {
			return ErrNotPending
		}

		// Rejecting never reads or touches the item: a lender can reject
		// even if the item went UNAVAILABLE in the meantime.
		if err := setResponseMessage(req, responseMessage); err != nil {
			return err
		}
		req.Status = model.RequestRejected

		if err := s.requests.Save(txCtx, req); err != nil {
			return fmt.Errorf("failed to update borrow request: %w", err)
		}
		borrowerID = req.BorrowerID
		return nil
	})
	if err != nil {
		return BorrowRequestResponse{}, err
	}

	resp, err := s.reload(ctx, id)
	if err != nil {
		return BorrowRequestResponse{}, err
	}
	s.notify(borrowerID, EventRequestRejected, resp)
	return resp, nil
}

func (s *borrowService) MarkReturned(ctx context.Context, id, actorID uuid.UUID) (BorrowRequestResponse, error) {
	var borrowerID uuid.UUID
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		req, err := s.requests.FindByIDForUpdate(txCtx, id)
		if err != nil {
			return notFoundOr(err, ErrRequestNotFound)
		}
		if err := requireRole(req, actorID, asLender); err != nil {
			return err
		}
		if req.Status != model.RequestApproved {
			return ErrNotApproved
		}

		item, err := s.items.FindByIDForUpdate(txCtx, req.ItemID)
		if err != nil {
			return notFoundOr(err, ErrItemNotFound)
		}

		now := time.Now()
		req.Status = model.RequestReturned
		req.ReturnedAt = &now
		item.Status = model.ItemAvailable

		if err := s.items.Save(txCtx, item); err != nil {
			return fmt.Errorf("failed to update item status: %w", err)
		}
		if err := s.requests.Save(txCtx, req); err != nil {
			return fmt.Errorf("failed to update borrow request: %w", err)
		}
		borrowerID = req.BorrowerID
		return nil
	})
	if err != nil {
		return BorrowRequestResponse{}, err
	}

	resp, err := s.reload(ctx, id)
	if err != nil {
		return BorrowRequestResponse{}, err
	}
	s.notify(borrowerID, EventItemReturned, resp)
	return resp, nil
}

func (s *borrowService) ConfirmReturn(ctx context.Context, id, actorID uuid.UUID) (BorrowRequestResponse, error) {
	var lenderID uuid.UUID
	err := s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		req, err := s.requests.FindByIDForUpdate(txCtx, id)
		if err != nil {
			return notFoundOr(err, ErrRequestNotFound)
		}
		if err := requireRole(req, actorID, asBorrower); err != nil {
			return err
		}
		if req.Status != model.RequestReturned {
			return ErrNotReturned
		}

		now := time.Now()
		req.Status = model.RequestCompleted
		req.CompletedAt = &now

		if err := s.requests.Save(txCtx, req); err != nil {
			return fmt.Errorf("failed to update borrow request: %w", err)
		}
		lenderID = req.LenderID
		return nil
	})
	if err != nil {
		return BorrowRequestResponse{}, err
	}

	resp, err := s.reload(ctx, id)
	if err != nil {
		return BorrowRequestResponse{}, err
	}
	s.notify(lenderID, EventReturnConfirmed, resp)
	return resp, nil
}

func (s *borrowService) CancelRequest(ctx context.Context, id, actorID uuid.UUID) error {
	return s.tx.RunInTx(ctx, func(txCtx context.Context) error {
		req, err := s.requests.FindByIDForUpdate(txCtx, id)
		if err != nil {
			return notFoundOr(err, ErrRequestNotFound)
		}
		if err := requireRole(req, actorID, asBorrower); err != nil {
			return err
		}
		if req.Status != model.RequestPending {
			return ErrNotPending
		}

		// Cancel deletes the record outright and never touches the item.
		if err := s.requests.Delete(txCtx, req); err != nil {
			return fmt.Errorf("failed to delete borrow request: %w", err)
		}
		return nil
	})
}

// --- Statistics ---

func (s *borrowService) GetStatistics(ctx context.Context, userID uuid.UUID) (model.RequestStatistics, error) {
	var stats model.RequestStatistics

	for _, status := range model.AllRequestStatuses {
		sent, err := s.requests.CountByBorrowerAndStatus(ctx, userID, status)
		if err != nil {
			return model.RequestStatistics{}, fmt.Errorf("failed to count sent %s requests: %w", status, err)
		}
		received, err := s.requests.CountByLenderAndStatus(ctx, userID, status)
		if err != nil {
			return model.RequestStatistics{}, fmt.Errorf("failed to count received %s requests: %w", status, err)
		}

		combined := int(sent + received)
		switch status {
		case model.RequestPending:
			stats.PendingCount = combined
		case model.RequestApproved:
			stats.ApprovedCount = combined
		case model.RequestRejected:
			stats.RejectedCount = combined
		case model.RequestReturned:
			stats.ReturnedCount = combined
		case model.RequestCompleted:
			stats.CompletedCount = combined
		}

		stats.TotalSent += int(sent)
		stats.TotalReceived += int(received)
	}

	return stats, nil
}

// --- Helpers ---

func notFoundOr(err, kind error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return kind
	}
	return err
}

func parseStatusFilter(filter string) (model.RequestStatus, error) {
	if filter == "" {
		return "", nil
	}
	status := model.RequestStatus(strings.ToUpper(filter))
	if !model.ValidRequestStatus(status) {
		return "", ErrInvalidStatusFilter
	}
	return status, nil
}

// setResponseMessage records the lender's optional response. The field is
// written at most once, on approve or reject.
func setResponseMessage(req *model.BorrowRequest, message string) error {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil
	}
	if len(message) > maxMessageLength {
		return ErrMessageTooLong
	}
	req.ResponseMessage = message
	return nil
}

func (s *borrowService) reload(ctx context.Context, id uuid.UUID) (BorrowRequestResponse, error) {
	req, err := s.requests.FindByIDWithRelations(ctx, id)
	if err != nil {
		return BorrowRequestResponse{}, fmt.Errorf("failed to reload borrow request: %w", err)
	}
	return toResponse(*req), nil
}

func (s *borrowService) notify(userID uuid.UUID, event string, payload interface{}) {
	if s.notifier == nil {
		return
	}
	s.notifier.NotifyUser(userID, event, payload)
}

func toResponses(requests []model.BorrowRequest) []BorrowRequestResponse {
	result := make([]BorrowRequestResponse, 0, len(requests))
	for _, req := range requests {
		result = append(result, toResponse(req))
	}
	return result
}

func toResponse(req model.BorrowRequest) BorrowRequestResponse {
	resp := BorrowRequestResponse{
		ID:              req.ID.String(),
		Item:            ItemSummary{ID: req.ItemID.String()},
		Borrower:        UserSummary{ID: req.BorrowerID.String()},
		Lender:          UserSummary{ID: req.LenderID.String()},
		Status:          string(req.Status),
		RequestMessage:  req.RequestMessage,
		ResponseMessage: req.ResponseMessage,
		BorrowDate:      req.BorrowDate.Format(dateLayout),
		ReturnDate:      req.ReturnDate.Format(dateLayout),
		CreatedAt:       req.CreatedAt.Format(time.RFC3339),
		UpdatedAt:       req.UpdatedAt.Format(time.RFC3339),
	}

	if req.Item != nil {
		resp.Item = toItemSummary(*req.Item)
	}
	if req.Borrower != nil {
		resp.Borrower = toUserSummary(*req.Borrower)
	}
	if req.Lender != nil {
		resp.Lender = toUserSummary(*req.Lender)
	}
	if req.ReturnedAt != nil {
		s := req.ReturnedAt.Format(time.RFC3339)
		resp.ReturnedAt = &s
	}
	if req.CompletedAt != nil {
		s := req.CompletedAt.Format(time.RFC3339)
		resp.CompletedAt = &s
	}

	return resp
}

func toItemSummary(item model.Item) ItemSummary {
	summary := ItemSummary{
		ID:          item.ID.String(),
		Title:       item.Title,
		Description: item.Description,
		Category:    item.Category,
		ImageURL:    item.ImageURL,
		Status:      string(item.Status),
	}
	if item.Owner != nil {
		summary.Owner = toUserSummary(*item.Owner)
	} else {
		summary.Owner = UserSummary{ID: item.OwnerID.String()}
	}
	return summary
}

func toUserSummary(user model.User) UserSummary {
	return UserSummary{
		ID:       user.ID.String(),
		Username: user.Username,
		FullName: user.FullName,
		Email:    user.Email,
		Phone:    user.Phone,
	}
}
