package loan

import "context"

type Repository interface {
	Create(ctx context.Context, l *Loan) error
	GetByLoanID(ctx context.Context, loanID string) (*Loan, error)
	ListByUserID(ctx context.Context, userID string) ([]Loan, error)
	ListByStatus(ctx context.Context, status Status) ([]Loan, error)
	List(ctx context.Context) ([]Loan, error)
	// SumApprovedGold totals the collateral of the user's approved loans.
	SumApprovedGold(ctx context.Context, userID string) (float64, error)
	// Update writes l only while its stored status is still from; otherwise
	// it returns uow.ErrConcurrencyConflict.
	Update(ctx context.Context, l *Loan, from Status) error
}
