package mysql

import (
	"context"
	"errors"
	"fmt"

	loanDomain "goldvault-backend/internal/domain/loan"
	"goldvault-backend/internal/domain/uow"

	"gorm.io/gorm"
)

type LoanRepository struct{ db *gorm.DB }

func NewLoanRepository(db *gorm.DB) *LoanRepository { return &LoanRepository{db: db} }

func (r *LoanRepository) Create(ctx context.Context, l *loanDomain.Loan) error {
	if err := r.db.WithContext(ctx).Create(l).Error; err != nil {
		return fmt.Errorf("create loan: %w", err)
	}
	return nil
}

func (r *LoanRepository) GetByLoanID(ctx context.Context, loanID string) (*loanDomain.Loan, error) {
	var out loanDomain.Loan
	if err := r.db.WithContext(ctx).Where("loan_id = ?", loanID).First(&out).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, loanDomain.ErrNotFound
		}
		return nil, fmt.Errorf("get loan: %w", err)
	}
	return &out, nil
}

func (r *LoanRepository) ListByUserID(ctx context.Context, userID string) ([]loanDomain.Loan, error) {
	return r.find(r.db.WithContext(ctx).Where("user_id = ?", userID))
}

func (r *LoanRepository) ListByStatus(ctx context.Context, status loanDomain.Status) ([]loanDomain.Loan, error) {
	return r.find(r.db.WithContext(ctx).Where("status = ?", status))
}

func (r *LoanRepository) List(ctx context.Context) ([]loanDomain.Loan, error) {
	return r.find(r.db.WithContext(ctx))
}

func (r *LoanRepository) SumApprovedGold(ctx context.Context, userID string) (float64, error) {
	var sum float64
	err := r.db.WithContext(ctx).Model(&loanDomain.Loan{}).
		Where("user_id = ? AND status = ?", userID, loanDomain.StatusApproved).
		Select("COALESCE(SUM(gold_amount), 0)").
		Scan(&sum).Error
	if err != nil {
		return 0, fmt.Errorf("sum approved gold: %w", err)
	}
	return sum, nil
}

// Update persists l only if the stored row is still in status from.
func (r *LoanRepository) Update(ctx context.Context, l *loanDomain.Loan, from loanDomain.Status) error {
	if l.ID == 0 {
		return loanDomain.ErrNotFound
	}
	res := r.db.WithContext(ctx).Model(l).
		Where("status = ?", from).
		Select("*").Omit("id", "created_at").
		Updates(l)
	if res.Error != nil {
		return fmt.Errorf("update loan: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return uow.ErrConcurrencyConflict
	}
	return nil
}

func (r *LoanRepository) find(q *gorm.DB) ([]loanDomain.Loan, error) {
	var out []loanDomain.Loan
	if err := q.Order("created_at DESC, id DESC").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list loans: %w", err)
	}
	return out, nil
}
