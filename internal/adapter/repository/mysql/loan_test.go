package mysql

import (
	"context"
	"errors"
	"testing"

	domain "goldvault-backend/internal/domain/loan"
	"goldvault-backend/internal/domain/uow"
	"goldvault-backend/pkg/id"
)

func makeLoan(userID string, gold float64) *domain.Loan {
	return &domain.Loan{
		LoanID:       id.NewID32(),
		UserID:       userID,
		GoldAmount:   gold,
		LoanAmount:   100_000,
		InterestRate: 11,
		Tenure:       12,
		Purpose:      "working capital",
		Status:       domain.StatusPending,
	}
}

func TestCreateAndGetByLoanID(t *testing.T) {
	repo := NewLoanRepository(openTestDB(t))
	ctx := context.Background()

	borrower := id.NewID32()
	l := makeLoan(borrower, 40)
	if err := repo.Create(ctx, l); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if l.ID == 0 {
		t.Fatalf("Create did not set auto-increment ID")
	}

	got, err := repo.GetByLoanID(ctx, l.LoanID)
	if err != nil {
		t.Fatalf("GetByLoanID: %v", err)
	}
	if got.UserID != borrower || got.Status != domain.StatusPending || got.GoldAmount != 40 {
		t.Errorf("unexpected loan: %+v", got)
	}
}

func TestGetByLoanID_NotFound(t *testing.T) {
	repo := NewLoanRepository(openTestDB(t))
	_, err := repo.GetByLoanID(context.Background(), "eeeeeeeeeeeeeeeeeeeeeeeeeeeeeeee")
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestUpdate_StatusGuard(t *testing.T) {
	repo := NewLoanRepository(openTestDB(t))
	ctx := context.Background()

	l := makeLoan(id.NewID32(), 10)
	if err := repo.Create(ctx, l); err != nil {
		t.Fatalf("Create: %v", err)
	}

	first, _ := repo.GetByLoanID(ctx, l.LoanID)
	second, _ := repo.GetByLoanID(ctx, l.LoanID)

	if err := first.Reject("no"); err != nil {
		t.Fatalf("Reject: %v", err)
	}
	if err := repo.Update(ctx, first, domain.StatusPending); err != nil {
		t.Fatalf("Update: %v", err)
	}

	if err := second.Reject("also no"); err != nil {
		t.Fatalf("Reject: %v", err)
	}
	if err := repo.Update(ctx, second, domain.StatusPending); !errors.Is(err, uow.ErrConcurrencyConflict) {
		t.Fatalf("second update: want ErrConcurrencyConflict, got %v", err)
	}

	got, _ := repo.GetByLoanID(ctx, l.LoanID)
	if got.Status != domain.StatusRejected || got.RejectionReason == nil || *got.RejectionReason != "no" {
		t.Fatalf("stored loan = %+v", got)
	}
}

func TestListsAndSumApprovedGold(t *testing.T) {
	repo := NewLoanRepository(openTestDB(t))
	ctx := context.Background()

	u1, u2 := id.NewID32(), id.NewID32()
	seed := []struct {
		user   string
		gold   float64
		status domain.Status
	}{
		{u1, 10, domain.StatusApproved},
		{u1, 2.5, domain.StatusApproved},
		{u1, 7, domain.StatusPending},
		{u1, 9, domain.StatusRejected},
		{u2, 4, domain.StatusPending},
	}
	for _, s := range seed {
		l := makeLoan(s.user, s.gold)
		l.Status = s.status
		if err := repo.Create(ctx, l); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	byUser, err := repo.ListByUserID(ctx, u1)
	if err != nil || len(byUser) != 4 {
		t.Fatalf("ListByUserID: %d rows err=%v", len(byUser), err)
	}
	pending, err := repo.ListByStatus(ctx, domain.StatusPending)
	if err != nil || len(pending) != 2 {
		t.Fatalf("ListByStatus: %d rows err=%v", len(pending), err)
	}
	all, err := repo.List(ctx)
	if err != nil || len(all) != 5 {
		t.Fatalf("List: %d rows err=%v", len(all), err)
	}

	sum, err := repo.SumApprovedGold(ctx, u1)
	if err != nil || sum != 12.5 {
		t.Fatalf("SumApprovedGold(u1) = %v err=%v, want 12.5", sum, err)
	}
	sum, err = repo.SumApprovedGold(ctx, u2)
	if err != nil || sum != 0 {
		t.Fatalf("SumApprovedGold(u2) = %v err=%v, want 0", sum, err)
	}
}
