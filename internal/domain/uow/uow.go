package uow

import (
	"context"
	"errors"

	"goldvault-backend/internal/domain/decision"
	"goldvault-backend/internal/domain/loan"
	"goldvault-backend/internal/domain/user"
)

// ErrConcurrencyConflict is returned by conditional writes that lost a race
// against another writer of the same record.
var ErrConcurrencyConflict = errors.New("concurrent update conflict, retry the operation")

type Repos struct {
	Users     user.Repository
	Loans     loan.Repository
	Decisions decision.Repository
}

type UnitOfWork interface {
	// plain tx
	WithinTx(ctx context.Context, fn func(r Repos) error) error
}

// RetryOnConflict runs fn until it succeeds, fails with anything other than
// ErrConcurrencyConflict, or attempts are used up. fn must re-read whatever it
// checks, so each attempt works on fresh state.
func RetryOnConflict(ctx context.Context, attempts int, fn func() error) error {
	if attempts < 1 {
		attempts = 1
	}
	var err error
	for i := 0; i < attempts; i++ {
		if cerr := ctx.Err(); cerr != nil {
			return cerr
		}
		if err = fn(); !errors.Is(err, ErrConcurrencyConflict) {
			return err
		}
	}
	return err
}
