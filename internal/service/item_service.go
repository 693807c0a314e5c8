package service

import (
	"context"
	"fmt"
	"strings"

	"rentkar/internal/model"
	"rentkar/internal/repository"

	"github.com/google/uuid"
)

// --- DTOs ---

type CreateItemDTO struct {
	Title       string `json:"title" binding:"required,min=3,max=200"`
	Description string `json:"description"`
	Category    string `json:"category" binding:"required"`
	ImageURL    string `json:"image_url"`
}

// UpdateItemDTO carries a partial update; nil fields are left untouched.
type UpdateItemDTO struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Category    *string `json:"category"`
	ImageURL    *string `json:"image_url"`
	Status      *string `json:"status"`
}

type ItemListFilter struct {
	Status   string
	Category string
	Search   string
	Page     int
	Limit    int
}

// --- Interface ---

type ItemService interface {
	CreateItem(ctx context.Context, dto CreateItemDTO, ownerID uuid.UUID) (ItemSummary, error)
	GetItemByID(ctx context.Context, id uuid.UUID) (ItemSummary, error)
	ListItems(ctx context.Context, filter ItemListFilter) ([]ItemSummary, int64, error)
	ListOwnItems(ctx context.Context, ownerID uuid.UUID, page, limit int) ([]ItemSummary, int64, error)
	UpdateItem(ctx context.Context, id uuid.UUID, dto UpdateItemDTO, userID uuid.UUID) (ItemSummary, error)
	DeleteItem(ctx context.Context, id, userID uuid.UUID) error
}

type itemService struct {
	items repository.ItemRepository
}

func NewItemService(items repository.ItemRepository) ItemService {
	return &itemService{items: items}
}

// --- Implementation ---

func (s *itemService) CreateItem(ctx context.Context, dto CreateItemDTO, ownerID uuid.UUID) (ItemSummary, error) {
	item := model.Item{
		Title:       strings.TrimSpace(dto.Title),
		Description: strings.TrimSpace(dto.Description),
		Category:    dto.Category,
		ImageURL:    dto.ImageURL,
		Status:      model.ItemAvailable,
		OwnerID:     ownerID,
	}
	if err := s.items.Create(ctx, &item); err != nil {
		return ItemSummary{}, fmt.Errorf("failed to create item: %w", err)
	}

	created, err := s.items.FindByID(ctx, item.ID)
	if err != nil {
		return ItemSummary{}, fmt.Errorf("failed to reload item: %w", err)
	}
	return toItemSummary(*created), nil
}

func (s *itemService) GetItemByID(ctx context.Context, id uuid.UUID) (ItemSummary, error) {
	item, err := s.items.FindByID(ctx, id)
	if err != nil {
		return ItemSummary{}, notFoundOr(err, ErrItemNotFound)
	}
	return toItemSummary(*item), nil
}

func (s *itemService) ListItems(ctx context.Context, filter ItemListFilter) ([]ItemSummary, int64, error) {
	// Public browsing defaults to AVAILABLE items.
	status := model.ItemStatus(strings.ToUpper(filter.Status))
	if filter.Status == "" {
		status = model.ItemAvailable
	} else if !model.ValidItemStatus(status) {
		return nil, 0, fmt.Errorf("%w: unknown item status", ErrValidation)
	}

	items, total, err := s.items.List(ctx, repository.ItemFilter{
		Status:   status,
		Category: filter.Category,
		Search:   strings.TrimSpace(filter.Search),
		Limit:    filter.Limit,
		Offset:   (filter.Page - 1) * filter.Limit,
	})
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list items: %w", err)
	}
	return toItemSummaries(items), total, nil
}

func (s *itemService) ListOwnItems(ctx context.Context, ownerID uuid.UUID, page, limit int) ([]ItemSummary, int64, error) {
	items, total, err := s.items.ListByOwner(ctx, ownerID, limit, (page-1)*limit)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list own items: %w", err)
	}
	return toItemSummaries(items), total, nil
}

func (s *itemService) UpdateItem(ctx context.Context, id uuid.UUID, dto UpdateItemDTO, userID uuid.UUID) (ItemSummary, error) {
	item, err := s.items.FindByID(ctx, id)
	if err != nil {
		return ItemSummary{}, notFoundOr(err, ErrItemNotFound)
	}
	if item.OwnerID != userID {
		return ItemSummary{}, fmt.Errorf("%w: only the owner may update this item", ErrForbidden)
	}

	if dto.Title != nil {
		item.Title = strings.TrimSpace(*dto.Title)
	}
	if dto.Description != nil {
		item.Description = strings.TrimSpace(*dto.Description)
	}
	if dto.Category != nil {
		item.Category = *dto.Category
	}
	if dto.ImageURL != nil {
		item.ImageURL = *dto.ImageURL
	}
	if dto.Status != nil {
		status := model.ItemStatus(strings.ToUpper(*dto.Status))
		if !model.ValidItemStatus(status) {
			return ItemSummary{}, fmt.Errorf("%w: unknown item status", ErrValidation)
		}
		item.Status = status
	}

	if err := s.items.Save(ctx, item); err != nil {
		return ItemSummary{}, fmt.Errorf("failed to update item: %w", err)
	}
	return toItemSummary(*item), nil
}

func (s *itemService) DeleteItem(ctx context.Context, id, userID uuid.UUID) error {
	item, err := s.items.FindByID(ctx, id)
	if err != nil {
		return notFoundOr(err, ErrItemNotFound)
	}
	if item.OwnerID != userID {
		return fmt.Errorf("%w: only the owner may delete this item", ErrForbidden)
	}
	if err := s.items.Delete(ctx, item); err != nil {
		return fmt.Errorf("failed to delete item: %w", err)
	}
	return nil
}

func toItemSummaries(items []model.Item) []ItemSummary {
	result := make([]ItemSummary, 0, len(items))
	for _, item := range items {
		result = append(result, toItemSummary(item))
	}
	return result
}
