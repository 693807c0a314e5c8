package storemock

import (
	"context"
	"errors"

	"rentkar/internal/model"
	"rentkar/internal/repository"

	"github.com/google/uuid"
)

var _ repository.BorrowRequestRepository = (*RequestRepo)(nil)

var errUnimplemented = errors.New("storemock: method not implemented")

// RequestRepo is a function-backed mock that satisfies
// repository.BorrowRequestRepository. Fill in the function fields a test
// needs; unfilled finders return errUnimplemented, unfilled writers succeed.
type RequestRepo struct {
	CreateFn                func(ctx context.Context, req *model.BorrowRequest) error
	FindByIDFn              func(ctx context.Context, id uuid.UUID) (*model.BorrowRequest, error)
	FindByIDForUpdateFn     func(ctx context.Context, id uuid.UUID) (*model.BorrowRequest, error)
	FindByIDWithRelationsFn func(ctx context.Context, id uuid.UUID) (*model.BorrowRequest, error)
	SaveFn                  func(ctx context.Context, req *model.BorrowRequest) error
	DeleteFn                func(ctx context.Context, req *model.BorrowRequest) error

	ListByBorrowerFn           func(ctx context.Context, borrowerID uuid.UUID) ([]model.BorrowRequest, error)
	ListByLenderFn             func(ctx context.Context, lenderID uuid.UUID) ([]model.BorrowRequest, error)
	ListByBorrowerAndStatusFn  func(ctx context.Context, borrowerID uuid.UUID, status model.RequestStatus) ([]model.BorrowRequest, error)
	ListByLenderAndStatusFn    func(ctx context.Context, lenderID uuid.UUID, status model.RequestStatus) ([]model.BorrowRequest, error)
	CountByBorrowerAndStatusFn func(ctx context.Context, borrowerID uuid.UUID, status model.RequestStatus) (int64, error)
	CountByLenderAndStatusFn   func(ctx context.Context, lenderID uuid.UUID, status model.RequestStatus) (int64, error)
}

func (m *RequestRepo) Create(ctx context.Context, req *model.BorrowRequest) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, req)
	}
	return nil
}

func (m *RequestRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.BorrowRequest, error) {
	if m.FindByIDFn != nil {
		return m.FindByIDFn(ctx, id)
	}
	return nil, errUnimplemented
}

func (m *RequestRepo) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.BorrowRequest, error) {
	if m.FindByIDForUpdateFn != nil {
		return m.FindByIDForUpdateFn(ctx, id)
	}
	return nil, errUnimplemented
}

func (m *RequestRepo) FindByIDWithRelations(ctx context.Context, id uuid.UUID) (*model.BorrowRequest, error) {
	if m.FindByIDWithRelationsFn != nil {
		return m.FindByIDWithRelationsFn(ctx, id)
	}
	return nil, errUnimplemented
}

func (m *RequestRepo) Save(ctx context.Context, req *model.BorrowRequest) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, req)
	}
	return nil
}

func (m *RequestRepo) Delete(ctx context.Context, req *model.BorrowRequest) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, req)
	}
	return nil
}

func (m *RequestRepo) ListByBorrower(ctx context.Context, borrowerID uuid.UUID) ([]model.BorrowRequest, error) {
	if m.ListByBorrowerFn != nil {
		return m.ListByBorrowerFn(ctx, borrowerID)
	}
	return nil, errUnimplemented
}

func (m *RequestRepo) ListByLender(ctx context.Context, lenderID uuid.UUID) ([]model.BorrowRequest, error) {
	if m.ListByLenderFn != nil {
		return m.ListByLenderFn(ctx, lenderID)
	}
	return nil, errUnimplemented
}

func (m *RequestRepo) ListByBorrowerAndStatus(ctx context.Context, borrowerID uuid.UUID, status model.RequestStatus) ([]model.BorrowRequest, error) {
	if m.ListByBorrowerAndStatusFn != nil {
		return m.ListByBorrowerAndStatusFn(ctx, borrowerID, status)
	}
	return nil, errUnimplemented
}

func (m *RequestRepo) ListByLenderAndStatus(ctx context.Context, lenderID uuid.UUID, status model.RequestStatus) ([]model.BorrowRequest, error) {
	if m.ListByLenderAndStatusFn != nil {
		return m.ListByLenderAndStatusFn(ctx, lenderID, status)
	}
	return nil, errUnimplemented
}

func (m *RequestRepo) CountByBorrowerAndStatus(ctx context.Context, borrowerID uuid.UUID, status model.RequestStatus) (int64, error) {
	if m.CountByBorrowerAndStatusFn != nil {
		return m.CountByBorrowerAndStatusFn(ctx, borrowerID, status)
	}
	return 0, errUnimplemented
}

func (m *RequestRepo) CountByLenderAndStatus(ctx context.Context, lenderID uuid.UUID, status model.RequestStatus) (int64, error) {
	if m.CountByLenderAndStatusFn != nil {
		return m.CountByLenderAndStatusFn(ctx, lenderID, status)
	}
	return 0, errUnimplemented
}
