package gold

import (
	"context"
	"fmt"
	"math"

	"goldvault-backend/internal/domain/loan"
	"goldvault-backend/internal/domain/uow"
	"goldvault-backend/internal/domain/user"
)

// Usecase is the only writer of user gold holdings. Every mutation is a
// read-check-write inside one transaction, retried on version conflicts.
type Usecase struct {
	users   user.Repository
	loans   loan.Repository
	uow     uow.UnitOfWork
	retries int
}

func NewUsecase(users user.Repository, loans loan.Repository, tx uow.UnitOfWork, retries int) *Usecase {
	return &Usecase{users: users, loans: loans, uow: tx, retries: retries}
}

func (u *Usecase) GetHoldings(ctx context.Context, userID string) (user.Holdings, error) {
	usr, err := u.users.GetByUserID(ctx, userID)
	if err != nil {
		return user.Holdings{}, err
	}
	return usr.Holdings, nil
}

// SetHoldings merges p onto the current holdings (see user.Holdings.Merge).
func (u *Usecase) SetHoldings(ctx context.Context, userID string, p user.HoldingsPatch) (user.Holdings, error) {
	return u.mutate(ctx, userID, func(h user.Holdings) (user.Holdings, error) {
		return h.Merge(p)
	})
}

func (u *Usecase) AddGoldToSafe(ctx context.Context, userID string, amount float64) (user.Holdings, error) {
	if !(amount > 0) {
		return user.Holdings{}, user.ErrInvalidAmount
	}
	return u.mutate(ctx, userID, func(h user.Holdings) (user.Holdings, error) {
		return h.Deposit(amount)
	})
}

func (u *Usecase) MoveToMortgaged(ctx context.Context, userID string, amount float64) (user.Holdings, error) {
	if !(amount > 0) {
		return user.Holdings{}, user.ErrInvalidAmount
	}
	return u.mutate(ctx, userID, func(h user.Holdings) (user.Holdings, error) {
		return h.Mortgage(amount)
	})
}

// MoveToMortgagedIn mortgages amount grams inside a transaction owned by the
// caller. The sufficiency check runs against the row read in that transaction.
func MoveToMortgagedIn(ctx context.Context, r uow.Repos, userID string, amount float64) (*user.User, error) {
	usr, err := r.Users.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	next, err := usr.Holdings.Mortgage(amount)
	if err != nil {
		return nil, err
	}
	usr.Holdings = next
	if err := r.Users.Update(ctx, usr); err != nil {
		return nil, err
	}
	return usr, nil
}

// Audit re-checks the holdings triple and the mortgaged total against the
// collateral of approved loans.
func (u *Usecase) Audit(ctx context.Context, userID string) (AuditReport, error) {
	usr, err := u.users.GetByUserID(ctx, userID)
	if err != nil {
		return AuditReport{}, err
	}
	approved, err := u.loans.SumApprovedGold(ctx, userID)
	if err != nil {
		return AuditReport{}, fmt.Errorf("sum approved collateral: %w", err)
	}

	rep := AuditReport{
		UserID:             usr.UserID,
		Holdings:           usr.Holdings,
		ApprovedCollateral: approved,
		Balanced:           true,
		MortgageMatches:    true,
	}
	if err := usr.Holdings.Validate(); err != nil {
		rep.Balanced = false
		rep.Problems = append(rep.Problems, err.Error())
	}
	if math.Abs(usr.Holdings.GoldMortgaged-approved) > user.Tolerance {
		rep.MortgageMatches = false
		rep.Problems = append(rep.Problems, fmt.Sprintf(
			"mortgaged %.3f does not match approved loan collateral %.3f", usr.Holdings.GoldMortgaged, approved))
	}
	rep.Consistent = rep.Balanced && rep.MortgageMatches
	return rep, nil
}

func (u *Usecase) mutate(ctx context.Context, userID string, apply func(user.Holdings) (user.Holdings, error)) (user.Holdings, error) {
	var out user.Holdings
	err := uow.RetryOnConflict(ctx, u.retries, func() error {
		return u.uow.WithinTx(ctx, func(r uow.Repos) error {
			usr, err := r.Users.GetByUserID(ctx, userID)
			if err != nil {
				return err
			}
			next, err := apply(usr.Holdings)
			if err != nil {
				return err
			}
			usr.Holdings = next
			if err := r.Users.Update(ctx, usr); err != nil {
				return err
			}
			out = usr.Holdings
			return nil
		})
	})
	if err != nil {
		return user.Holdings{}, err
	}
	return out, nil
}
