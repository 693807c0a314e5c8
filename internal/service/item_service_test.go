package service

import (
	"context"
	"errors"
	"testing"

	"rentkar/internal/model"
	"rentkar/internal/repository"
	"rentkar/internal/testutil/storemock"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

func TestCreateItem(t *testing.T) {
	ownerID := uuid.New()
	repo := &storemock.ItemRepo{}

	var stored *model.Item
	repo.CreateFn = func(ctx context.Context, item *model.Item) error {
		item.ID = uuid.New()
		stored = item
		return nil
	}
	repo.FindByIDFn = func(ctx context.Context, id uuid.UUID) (*model.Item, error) {
		return stored, nil
	}

	summary, err := NewItemService(repo).CreateItem(context.Background(), CreateItemDTO{
		Title:    "  Projector  ",
		Category: "Electronics",
	}, ownerID)
	if err != nil {
		t.Fatalf("CreateItem err: %v", err)
	}
	if stored.Title != "Projector" {
		t.Fatalf("title = %q, want trimmed", stored.Title)
	}
	if stored.Status != model.ItemAvailable {
		t.Fatalf("status = %s, want AVAILABLE", stored.Status)
	}
	if stored.OwnerID != ownerID {
		t.Fatalf("owner = %s, want caller", stored.OwnerID)
	}
	if summary.Status != string(model.ItemAvailable) {
		t.Fatalf("summary status = %s", summary.Status)
	}
}

func TestListItems_DefaultsToAvailable(t *testing.T) {
	repo := &storemock.ItemRepo{}

	var gotFilter repository.ItemFilter
	repo.ListFn = func(ctx context.Context, filter repository.ItemFilter) ([]model.Item, int64, error) {
		gotFilter = filter
		return nil, 0, nil
	}

	svc := NewItemService(repo)

	if _, _, err := svc.ListItems(context.Background(), ItemListFilter{Page: 1, Limit: 10}); err != nil {
		t.Fatalf("ListItems err: %v", err)
	}
	if gotFilter.Status != model.ItemAvailable {
		t.Fatalf("default status = %s, want AVAILABLE", gotFilter.Status)
	}

	if _, _, err := svc.ListItems(context.Background(), ItemListFilter{Status: "loaned", Page: 1, Limit: 10}); err != nil {
		t.Fatalf("ListItems err: %v", err)
	}
	if gotFilter.Status != model.ItemLoaned {
		t.Fatalf("status = %s, want LOANED", gotFilter.Status)
	}

	_, _, err := svc.ListItems(context.Background(), ItemListFilter{Status: "BROKEN", Page: 1, Limit: 10})
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("err = %v, want validation", err)
	}
}

func TestUpdateItem_OwnerOnly(t *testing.T) {
	ownerID := uuid.New()
	item := &model.Item{ID: uuid.New(), Title: "Tent", Status: model.ItemAvailable, OwnerID: ownerID}

	repo := &storemock.ItemRepo{
		FindByIDFn: func(ctx context.Context, id uuid.UUID) (*model.Item, error) {
			if id != item.ID {
				return nil, gorm.ErrRecordNotFound
			}
			return item, nil
		},
	}
	svc := NewItemService(repo)

	_, err := svc.UpdateItem(context.Background(), item.ID, UpdateItemDTO{}, uuid.New())
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("stranger err = %v, want forbidden", err)
	}

	newTitle := "4-person tent"
	newStatus := "unavailable"
	summary, err := svc.UpdateItem(context.Background(), item.ID, UpdateItemDTO{
		Title:  &newTitle,
		Status: &newStatus,
	}, ownerID)
	if err != nil {
		t.Fatalf("UpdateItem err: %v", err)
	}
	if summary.Title != "4-person tent" {
		t.Fatalf("title = %q", summary.Title)
	}
	if item.Status != model.ItemUnavailable {
		t.Fatalf("status = %s, want UNAVAILABLE", item.Status)
	}

	bad := "BROKEN"
	_, err = svc.UpdateItem(context.Background(), item.ID, UpdateItemDTO{Status: &bad}, ownerID)
	if !errors.Is(err, ErrValidation) {
		t.Fatalf("bad status err = %v, want validation", err)
	}
}

func TestDeleteItem(t *testing.T) {
	ownerID := uuid.New()
	item := &model.Item{ID: uuid.New(), OwnerID: ownerID}

	deleted := false
	repo := &storemock.ItemRepo{
		FindByIDFn: func(ctx context.Context, id uuid.UUID) (*model.Item, error) {
			if id != item.ID {
				return nil, gorm.ErrRecordNotFound
			}
			return item, nil
		},
		DeleteFn: func(ctx context.Context, it *model.Item) error {
			deleted = true
			return nil
		},
	}
	svc := NewItemService(repo)

	if err := svc.DeleteItem(context.Background(), uuid.New(), ownerID); !errors.Is(err, ErrItemNotFound) {
		t.Fatalf("missing err = %v, want %v", err, ErrItemNotFound)
	}
	if err := svc.DeleteItem(context.Background(), item.ID, uuid.New()); !errors.Is(err, ErrForbidden) {
		t.Fatalf("stranger err = %v, want forbidden", err)
	}
	if err := svc.DeleteItem(context.Background(), item.ID, ownerID); err != nil {
		t.Fatalf("DeleteItem err: %v", err)
	}
	if !deleted {
		t.Fatal("expected Delete to be called")
	}
}
