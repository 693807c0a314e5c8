package repository

import (
	"context"

	"rentkar/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type BorrowRequestRepository interface {
	Create(ctx context.Context, req *model.BorrowRequest) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.BorrowRequest, error)
	// FindByIDForUpdate locks the request row for the duration of the
	// enclosing transaction, so two concurrent approvals serialize and the
	// second one observes the committed status.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.BorrowRequest, error)
	FindByIDWithRelations(ctx context.Context, id uuid.UUID) (*model.BorrowRequest, error)
	Save(ctx context.Context, req *model.BorrowRequest) error
	Delete(ctx context.Context, req *model.BorrowRequest) error

	ListByBorrower(ctx context.Context, borrowerID uuid.UUID) ([]model.BorrowRequest, error)
	ListByLender(ctx context.Context, lenderID uuid.UUID) ([]model.BorrowRequest, error)
	ListByBorrowerAndStatus(ctx context.Context, borrowerID uuid.UUID, status model.RequestStatus) ([]model.BorrowRequest, error)
	ListByLenderAndStatus(ctx context.Context, lenderID uuid.UUID, status model.RequestStatus) ([]model.BorrowRequest, error)
	CountByBorrowerAndStatus(ctx context.Context, borrowerID uuid.UUID, status model.RequestStatus) (int64, error)
	CountByLenderAndStatus(ctx context.Context, lenderID uuid.UUID, status model.RequestStatus) (int64, error)
}

type borrowRequestRepository struct {
	db *gorm.DB
}

func NewBorrowRequestRepository(db *gorm.DB) BorrowRequestRepository {
	return &borrowRequestRepository{db: db}
}

func (r *borrowRequestRepository) Create(ctx context.Context, req *model.BorrowRequest) error {
	return GetDB(ctx, r.db).Create(req).Error
}

func (r *borrowRequestRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.BorrowRequest, error) {
	var req model.BorrowRequest
	if err := GetDB(ctx, r.db).First(&req, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *borrowRequestRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.BorrowRequest, error) {
	var req model.BorrowRequest
	if err := GetDB(ctx, r.db).Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&req, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *borrowRequestRepository) FindByIDWithRelations(ctx context.Context, id uuid.UUID) (*model.BorrowRequest, error) {
	var req model.BorrowRequest
	if err := GetDB(ctx, r.db).
		Preload("Item").Preload("Item.Owner").
		Preload("Borrower").Preload("Lender").
		First(&req, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *borrowRequestRepository) Save(ctx context.Context, req *model.BorrowRequest) error {
	return GetDB(ctx, r.db).Save(req).Error
}

func (r *borrowRequestRepository) Delete(ctx context.Context, req *model.BorrowRequest) error {
	return GetDB(ctx, r.db).Delete(req).Error
}

func (r *borrowRequestRepository) list(ctx context.Context, conds ...interface{}) ([]model.BorrowRequest, error) {
	var requests []model.BorrowRequest
	q := GetDB(ctx, r.db).
		Preload("Item").Preload("Item.Owner").
		Preload("Borrower").Preload("Lender").
		Order("created_at DESC")
	if err := q.Find(&requests, conds...).Error; err != nil {
		return nil, err
	}
	return requests, nil
}

func (r *borrowRequestRepository) ListByBorrower(ctx context.Context, borrowerID uuid.UUID) ([]model.BorrowRequest, error) {
	return r.list(ctx, "borrower_id = ?", borrowerID)
}

func (r *borrowRequestRepository) ListByLender(ctx context.Context, lenderID uuid.UUID) ([]model.BorrowRequest, error) {
	return r.list(ctx, "lender_id = ?", lenderID)
}

func (r *borrowRequestRepository) ListByBorrowerAndStatus(ctx context.Context, borrowerID uuid.UUID, status model.RequestStatus) ([]model.BorrowRequest, error) {
	return r.list(ctx, "borrower_id = ? AND status = ?", borrowerID, status)
}

func (r *borrowRequestRepository) ListByLenderAndStatus(ctx context.Context, lenderID uuid.UUID, status model.RequestStatus) ([]model.BorrowRequest, error) {
	return r.list(ctx, "lender_id = ? AND status = ?", lenderID, status)
}

func (r *borrowRequestRepository) CountByBorrowerAndStatus(ctx context.Context, borrowerID uuid.UUID, status model.RequestStatus) (int64, error) {
	var count int64
	err := GetDB(ctx, r.db).Model(&model.BorrowRequest{}).
		Where("borrower_id = ? AND status = ?", borrowerID, status).
		Count(&count).Error
	return count, err
}

func (r *borrowRequestRepository) CountByLenderAndStatus(ctx context.Context, lenderID uuid.UUID, status model.RequestStatus) (int64, error) {
	var count int64
	err := GetDB(ctx, r.db).Model(&model.BorrowRequest{}).
		Where("lender_id = ? AND status = ?", lenderID, status).
		Count(&count).Error
	return count, err
}
