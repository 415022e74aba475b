package loanmock

import (
	"context"
	"errors"
	"testing"

	domain "goldvault-backend/internal/domain/loan"
)

func TestRepo_Create(t *testing.T) {
	ctx := context.Background()
	l := &domain.Loan{LoanID: "LN-1"}

	// Uses provided func
	called := false
	wantErr := errors.New("boom")
	m := &Repo{
		CreateFn: func(gotCtx context.Context, got *domain.Loan) error {
			called = true
			if gotCtx != ctx {
				t.Fatalf("Create ctx mismatch")
			}
			if got != l {
				t.Fatalf("Create arg mismatch")
			}
			return wantErr
		},
	}
	if err := m.Create(ctx, l); !errors.Is(err, wantErr) {
		t.Fatalf("Create: want %v, got %v", wantErr, err)
	}
	if !called {
		t.Fatalf("CreateFn not called")
	}

	// Default (nil func) → no-op, nil error
	m = &Repo{}
	if err := m.Create(ctx, l); err != nil {
		t.Fatalf("Create default: want nil, got %v", err)
	}
}

func TestRepo_GetByLoanID(t *testing.T) {
	ctx := context.Background()
	want := &domain.Loan{LoanID: "LN-2"}

	m := &Repo{
		GetByLoanIDFn: func(_ context.Context, loanID string) (*domain.Loan, error) {
			if loanID != "LN-2" {
				t.Fatalf("GetByLoanID loanID mismatch: got %s", loanID)
			}
			return want, nil
		},
	}
	got, err := m.GetByLoanID(ctx, "LN-2")
	if err != nil || got != want {
		t.Fatalf("GetByLoanID: got %+v err=%v", got, err)
	}

	// Default (nil func) → context.Canceled
	m = &Repo{}
	got, err = m.GetByLoanID(ctx, "LN-2")
	if err != context.Canceled || got != nil {
		t.Fatalf("GetByLoanID default: got %+v err=%v", got, err)
	}
}

func TestRepo_Update_ForwardsFromStatus(t *testing.T) {
	ctx := context.Background()
	l := &domain.Loan{LoanID: "LN-3", Status: domain.StatusApproved}

	var gotFrom domain.Status
	m := &Repo{
		UpdateFn: func(_ context.Context, got *domain.Loan, from domain.Status) error {
			if got != l {
				t.Fatalf("Update arg mismatch")
			}
			gotFrom = from
			return nil
		},
	}
	if err := m.Update(ctx, l, domain.StatusPending); err != nil {
		t.Fatalf("Update: %v", err)
	}
	if gotFrom != domain.StatusPending {
		t.Fatalf("from = %s, want pending", gotFrom)
	}

	// Default (nil func) → no-op, nil error
	m = &Repo{}
	if err := m.Update(ctx, l, domain.StatusPending); err != nil {
		t.Fatalf("Update default: want nil, got %v", err)
	}
}

func TestRepo_Lists_Default(t *testing.T) {
	ctx := context.Background()
	m := &Repo{}
	if _, err := m.ListByUserID(ctx, "U"); err != context.Canceled {
		t.Fatalf("ListByUserID default: %v", err)
	}
	if _, err := m.ListByStatus(ctx, domain.StatusPending); err != context.Canceled {
		t.Fatalf("ListByStatus default: %v", err)
	}
	if _, err := m.List(ctx); err != context.Canceled {
		t.Fatalf("List default: %v", err)
	}
	if _, err := m.SumApprovedGold(ctx, "U"); err != context.Canceled {
		t.Fatalf("SumApprovedGold default: %v", err)
	}
}
