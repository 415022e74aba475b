package decision

import "context"

type Repository interface {
	// Create a new decision (DB uniqueness ensures at most one per loan)
	Create(ctx context.Context, d *Decision) error

	// Get the decision recorded for a loan (numeric loan id)
	GetByLoanID(ctx context.Context, loanID uint64) (*Decision, error)
}
