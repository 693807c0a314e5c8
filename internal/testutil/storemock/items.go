package storemock

import (
	"context"

	"rentkar/internal/model"
	"rentkar/internal/repository"

	"github.com/google/uuid"
)

var _ repository.ItemRepository = (*ItemRepo)(nil)

// ItemRepo is a function-backed mock that satisfies repository.ItemRepository.
type ItemRepo struct {
	CreateFn            func(ctx context.Context, item *model.Item) error
	FindByIDFn          func(ctx context.Context, id uuid.UUID) (*model.Item, error)
	FindByIDForUpdateFn func(ctx context.Context, id uuid.UUID) (*model.Item, error)
	ListFn              func(ctx context.Context, filter repository.ItemFilter) ([]model.Item, int64, error)
	ListByOwnerFn       func(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]model.Item, int64, error)
	SaveFn              func(ctx context.Context, item *model.Item) error
	DeleteFn            func(ctx context.Context, item *model.Item) error
}

func (m *ItemRepo) Create(ctx context.Context, item *model.Item) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, item)
	}
	return nil
}

func (m *ItemRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.Item, error) {
	if m.FindByIDFn != nil {
		return m.FindByIDFn(ctx, id)
	}
	return nil, errUnimplemented
}

func (m *ItemRepo) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Item, error) {
	if m.FindByIDForUpdateFn != nil {
		return m.FindByIDForUpdateFn(ctx, id)
	}
	return nil, errUnimplemented
}

func (m *ItemRepo) List(ctx context.Context, filter repository.ItemFilter) ([]model.Item, int64, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, filter)
	}
	return nil, 0, errUnimplemented
}

func (m *ItemRepo) ListByOwner(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]model.Item, int64, error) {
	if m.ListByOwnerFn != nil {
		return m.ListByOwnerFn(ctx, ownerID, limit, offset)
	}
	return nil, 0, errUnimplemented
}

func (m *ItemRepo) Save(ctx context.Context, item *model.Item) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, item)
	}
	return nil
}

func (m *ItemRepo) Delete(ctx context.Context, item *model.Item) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, item)
	}
	return nil
}
