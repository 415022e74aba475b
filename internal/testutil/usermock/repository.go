package usermock

import (
	"context"

	domain "goldvault-backend/internal/domain/user"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies domain.Repository.
// Unset lookups return context.Canceled; unset writes are no-ops.
type Repo struct {
	CreateFn                 func(ctx context.Context, u *domain.User) error
	GetByUserIDFn            func(ctx context.Context, userID string) (*domain.User, error)
	GetByEmailFn             func(ctx context.Context, email string) (*domain.User, error)
	GetByExternalIDFn        func(ctx context.Context, externalID string) (*domain.User, error)
	GetByEmailOrExternalIDFn func(ctx context.Context, email, externalID string) (*domain.User, error)
	ListFn                   func(ctx context.Context) ([]domain.User, error)
	ListByFormStatusFn       func(ctx context.Context, status domain.FormStatus) ([]domain.User, error)
	UpdateFn                 func(ctx context.Context, u *domain.User) error
}

func (m *Repo) Create(ctx context.Context, u *domain.User) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, u)
	}
	return nil
}

func (m *Repo) GetByUserID(ctx context.Context, userID string) (*domain.User, error) {
	if m.GetByUserIDFn != nil {
		return m.GetByUserIDFn(ctx, userID)
	}
	return nil, context.Canceled
}

func (m *Repo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if m.GetByEmailFn != nil {
		return m.GetByEmailFn(ctx, email)
	}
	return nil, context.Canceled
}

func (m *Repo) GetByExternalID(ctx context.Context, externalID string) (*domain.User, error) {
	if m.GetByExternalIDFn != nil {
		return m.GetByExternalIDFn(ctx, externalID)
	}
	return nil, context.Canceled
}

func (m *Repo) GetByEmailOrExternalID(ctx context.Context, email, externalID string) (*domain.User, error) {
	if m.GetByEmailOrExternalIDFn != nil {
		return m.GetByEmailOrExternalIDFn(ctx, email, externalID)
	}
	return nil, context.Canceled
}

func (m *Repo) List(ctx context.Context) ([]domain.User, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx)
	}
	return nil, context.Canceled
}

func (m *Repo) ListByFormStatus(ctx context.Context, status domain.FormStatus) ([]domain.User, error) {
	if m.ListByFormStatusFn != nil {
		return m.ListByFormStatusFn(ctx, status)
	}
	return nil, context.Canceled
}

func (m *Repo) Update(ctx context.Context, u *domain.User) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, u)
	}
	return nil
}
