package storemock

import (
	"context"

	"rentkar/internal/model"
	"rentkar/internal/repository"

	"github.com/google/uuid"
)

var _ repository.UserRepository = (*UserRepo)(nil)

// UserRepo is a function-backed mock that satisfies repository.UserRepository.
type UserRepo struct {
	CreateFn           func(ctx context.Context, user *model.User) error
	FindByIDFn         func(ctx context.Context, id uuid.UUID) (*model.User, error)
	FindByUsernameFn   func(ctx context.Context, username string) (*model.User, error)
	ExistsByUsernameFn func(ctx context.Context, username string) (bool, error)
	ExistsByEmailFn    func(ctx context.Context, email string) (bool, error)
}

func (m *UserRepo) Create(ctx context.Context, user *model.User) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, user)
	}
	return nil
}

func (m *UserRepo) FindByID(ctx context.Context, id uuid.UUID) (*model.User, error) {
	if m.FindByIDFn != nil {
		return m.FindByIDFn(ctx, id)
	}
	return nil, errUnimplemented
}

func (m *UserRepo) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	if m.FindByUsernameFn != nil {
		return m.FindByUsernameFn(ctx, username)
	}
	return nil, errUnimplemented
}

func (m *UserRepo) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	if m.ExistsByUsernameFn != nil {
		return m.ExistsByUsernameFn(ctx, username)
	}
	return false, nil
}

func (m *UserRepo) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	if m.ExistsByEmailFn != nil {
		return m.ExistsByEmailFn(ctx, email)
	}
	return false, nil
}
