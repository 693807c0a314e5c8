package repository

import (
	"context"

	"rentkar/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ItemFilter narrows the public item listing. Zero values mean "no filter"
// except Status, which the service defaults to AVAILABLE.
type ItemFilter struct {
	Status   model.ItemStatus
	Category string
	Search   string
	Limit    int
	Offset   int
}

type ItemRepository interface {
	Create(ctx context.Context, item *model.Item) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.Item, error)
	// FindByIDForUpdate locks the item row for the duration of the enclosing
	// transaction. Only meaningful inside TransactionManager.RunInTx.
	FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Item, error)
	List(ctx context.Context, filter ItemFilter) ([]model.Item, int64, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]model.Item, int64, error)
	Save(ctx context.Context, item *model.Item) error
	Delete(ctx context.Context, item *model.Item) error
}

type itemRepository struct {
	db *gorm.DB
}

func NewItemRepository(db *gorm.DB) ItemRepository {
	return &itemRepository{db: db}
}

func (r *itemRepository) Create(ctx context.Context, item *model.Item) error {
	return GetDB(ctx, r.db).Create(item).Error
}

func (r *itemRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Item, error) {
	var item model.Item
	if err := GetDB(ctx, r.db).Preload("Owner").First(&item, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *itemRepository) FindByIDForUpdate(ctx context.Context, id uuid.UUID) (*model.Item, error) {
	var item model.Item
	if err := GetDB(ctx, r.db).Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&item, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *itemRepository) List(ctx context.Context, filter ItemFilter) ([]model.Item, int64, error) {
	db := GetDB(ctx, r.db)

	apply := func(q *gorm.DB) *gorm.DB {
		if filter.Status != "" {
			q = q.Where("status = ?", filter.Status)
		}
		if filter.Category != "" {
			q = q.Where("category = ?", filter.Category)
		}
		if filter.Search != "" {
			pattern := "%" + filter.Search + "%"
			q = q.Where("title ILIKE ? OR description ILIKE ?", pattern, pattern)
		}
		return q
	}

	var total int64
	if err := apply(db.Model(&model.Item{})).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var items []model.Item
	if err := apply(db.Preload("Owner")).
		Order("created_at DESC").
		Offset(filter.Offset).
		Limit(filter.Limit).
		Find(&items).Error; err != nil {
		return nil, 0, err
	}

	return items, total, nil
}

func (r *itemRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID, limit, offset int) ([]model.Item, int64, error) {
	db := GetDB(ctx, r.db)

	var total int64
	if err := db.Model(&model.Item{}).Where("owner_id = ?", ownerID).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var items []model.Item
	if err := db.Preload("Owner").
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&items).Error; err != nil {
		return nil, 0, err
	}

	return items, total, nil
}

func (r *itemRepository) Save(ctx context.Context, item *model.Item) error {
	return GetDB(ctx, r.db).Save(item).Error
}

func (r *itemRepository) Delete(ctx context.Context, item *model.Item) error {
	return GetDB(ctx, r.db).Delete(item).Error
}
