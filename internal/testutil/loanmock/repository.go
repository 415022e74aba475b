package loanmock

import (
	"context"

	domain "goldvault-backend/internal/domain/loan"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies domain.Repository.
// Unset lookups return context.Canceled; unset writes are no-ops.
type Repo struct {
	CreateFn          func(ctx context.Context, l *domain.Loan) error
	GetByLoanIDFn     func(ctx context.Context, loanID string) (*domain.Loan, error)
	ListByUserIDFn    func(ctx context.Context, userID string) ([]domain.Loan, error)
	ListByStatusFn    func(ctx context.Context, status domain.Status) ([]domain.Loan, error)
	ListFn            func(ctx context.Context) ([]domain.Loan, error)
	SumApprovedGoldFn func(ctx context.Context, userID string) (float64, error)
	UpdateFn          func(ctx context.Context, l *domain.Loan, from domain.Status) error
}

func (m *Repo) Create(ctx context.Context, l *domain.Loan) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, l)
	}
	return nil
}

func (m *Repo) GetByLoanID(ctx context.Context, loanID string) (*domain.Loan, error) {
	if m.GetByLoanIDFn != nil {
		return m.GetByLoanIDFn(ctx, loanID)
	}
	return nil, context.Canceled
}

func (m *Repo) ListByUserID(ctx context.Context, userID string) ([]domain.Loan, error) {
	if m.ListByUserIDFn != nil {
		return m.ListByUserIDFn(ctx, userID)
	}
	return nil, context.Canceled
}

func (m *Repo) ListByStatus(ctx context.Context, status domain.Status) ([]domain.Loan, error) {
	if m.ListByStatusFn != nil {
		return m.ListByStatusFn(ctx, status)
	}
	return nil, context.Canceled
}

func (m *Repo) List(ctx context.Context) ([]domain.Loan, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx)
	}
	return nil, context.Canceled
}

func (m *Repo) SumApprovedGold(ctx context.Context, userID string) (float64, error) {
	if m.SumApprovedGoldFn != nil {
		return m.SumApprovedGoldFn(ctx, userID)
	}
	return 0, context.Canceled
}

func (m *Repo) Update(ctx context.Context, l *domain.Loan, from domain.Status) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, l, from)
	}
	return nil
}
