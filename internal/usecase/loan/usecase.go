package loan

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"goldvault-backend/internal/domain/decision"
	domainLoan "goldvault-backend/internal/domain/loan"
	"goldvault-backend/internal/domain/uow"
	"goldvault-backend/internal/domain/user"
	"goldvault-backend/internal/usecase/gold"
	"goldvault-backend/pkg/amortization"
	"goldvault-backend/pkg/id"

	"github.com/shopspring/decimal"
)

type Usecase struct {
	users     user.Repository
	loans     domainLoan.Repository
	decisions decision.Repository
	uow       uow.UnitOfWork
	cfg       Settings
	now       func() time.Time
}

func NewUsecase(users user.Repository, loans domainLoan.Repository, decisions decision.Repository, tx uow.UnitOfWork, cfg Settings) *Usecase {
	return &Usecase{
		users:     users,
		loans:     loans,
		decisions: decisions,
		uow:       tx,
		cfg:       cfg,
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// CreateApplication records a pending loan. Collateral is checked against the
// safe balance but not reserved; approval checks it again.
func (u *Usecase) CreateApplication(ctx context.Context, in CreateApplicationInput) (*domainLoan.Loan, error) {
	usr, err := u.users.GetByUserID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}
	if !(in.GoldAmount > 0) || !(in.LoanAmount > 0) {
		return nil, user.ErrInvalidAmount
	}
	purpose := strings.TrimSpace(in.Purpose)
	if err := u.checkTenure(in.Tenure); err != nil {
		return nil, err
	}
	switch {
	case purpose == "":
		return nil, fmt.Errorf("%w: purpose is required", domainLoan.ErrInvalidInput)
	}
	if in.GoldAmount > usr.Holdings.GoldInSafe {
		return nil, &user.InsufficientGoldError{Available: usr.Holdings.GoldInSafe, Requested: in.GoldAmount}
	}
	if ceiling, ok := u.maxLoanAmount(in.GoldAmount); ok && in.LoanAmount > ceiling {
		return nil, &domainLoan.LoanToValueError{Requested: in.LoanAmount, MaxAmount: ceiling}
	}

	l := &domainLoan.Loan{
		LoanID:       id.NewID32(),
		UserID:       usr.UserID,
		GoldAmount:   in.GoldAmount,
		LoanAmount:   in.LoanAmount,
		InterestRate: u.cfg.DefaultInterestRate,
		Tenure:       in.Tenure,
		Purpose:      purpose,
		Status:       domainLoan.StatusPending,
	}
	if err := u.loans.Create(ctx, l); err != nil {
		return nil, err
	}
	return l, nil
}

// maxLoanAmount is the loan-to-value ceiling for goldAmount grams.
func (u *Usecase) maxLoanAmount(goldAmount float64) (float64, bool) {
	if u.cfg.MaxLoanToValuePercent <= 0 || u.cfg.GoldPricePerGram <= 0 {
		return 0, false
	}
	ceiling := decimal.NewFromFloat(goldAmount).
		Mul(decimal.NewFromFloat(u.cfg.GoldPricePerGram)).
		Mul(decimal.NewFromFloat(u.cfg.MaxLoanToValuePercent)).
		Div(decimal.NewFromInt(100)).
		RoundDown(2)
	return ceiling.InexactFloat64(), true
}

// ProcessApplication approves or rejects a pending loan. Approval mortgages
// the collateral, updates the loan and records the decision in one
// transaction; a lost race re-runs the whole unit against fresh rows.
func (u *Usecase) ProcessApplication(ctx context.Context, in ProcessInput) (*domainLoan.Loan, error) {
	verdict, err := domainLoan.ParseDecision(in.Decision)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domainLoan.ErrInvalidInput, err)
	}
	if strings.TrimSpace(in.ApproverID) == "" {
		return nil, fmt.Errorf("%w: approver is required", domainLoan.ErrInvalidInput)
	}

	var out *domainLoan.Loan
	err = uow.RetryOnConflict(ctx, u.cfg.ConflictRetries, func() error {
		return u.uow.WithinTx(ctx, func(r uow.Repos) error {
			l, err := r.Loans.GetByLoanID(ctx, in.LoanID)
			if err != nil {
				return err
			}
			if l.Status != domainLoan.StatusPending {
				return domainLoan.ErrInvalidTransition
			}

			now := u.now()
			d := &decision.Decision{
				DecisionID: id.NewID32(),
				LoanID:     l.ID,
				DecidedBy:  in.ApproverID,
				DecidedAt:  now,
			}
			switch verdict {
			case domainLoan.DecisionApproved:
				if _, err := gold.MoveToMortgagedIn(ctx, r, l.UserID, l.GoldAmount); err != nil {
					return err
				}
				if err := l.Approve(in.ApproverID, now); err != nil {
					return err
				}
				d.Outcome = decision.OutcomeApproved
			case domainLoan.DecisionRejected:
				if err := l.Reject(in.RejectionReason); err != nil {
					return err
				}
				d.Outcome = decision.OutcomeRejected
				d.Reason = l.RejectionReason
			}

			if err := r.Loans.Update(ctx, l, domainLoan.StatusPending); err != nil {
				return err
			}
			if err := r.Decisions.Create(ctx, d); err != nil {
				return err
			}
			out = l
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (u *Usecase) Get(ctx context.Context, loanID string) (*domainLoan.Loan, error) {
	return u.loans.GetByLoanID(ctx, loanID)
}

// ListByUser returns NotFound for an unknown user rather than an empty list.
func (u *Usecase) ListByUser(ctx context.Context, userID string) ([]domainLoan.Loan, error) {
	if _, err := u.users.GetByUserID(ctx, userID); err != nil {
		return nil, err
	}
	return u.loans.ListByUserID(ctx, userID)
}

func (u *Usecase) ListPending(ctx context.Context) ([]domainLoan.Loan, error) {
	return u.loans.ListByStatus(ctx, domainLoan.StatusPending)
}

func (u *Usecase) ListAll(ctx context.Context) ([]domainLoan.Loan, error) {
	return u.loans.List(ctx)
}

func (u *Usecase) GetDecision(ctx context.Context, loanID string) (*decision.Decision, error) {
	l, err := u.loans.GetByLoanID(ctx, loanID)
	if err != nil {
		return nil, err
	}
	return u.decisions.GetByLoanID(ctx, l.ID)
}

// Schedule returns the repayment plan. Pending loans are projected from
// their creation date.
func (u *Usecase) Schedule(ctx context.Context, loanID string) (*ScheduleDTO, error) {
	l, err := u.loans.GetByLoanID(ctx, loanID)
	if err != nil {
		return nil, err
	}
	start := l.CreatedAt
	if l.StartDate != nil {
		start = *l.StartDate
	}
	plan, err := amortization.Build(l.LoanAmount, l.InterestRate, l.Tenure, start)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domainLoan.ErrInvalidInput, err)
	}

	out := &ScheduleDTO{
		LoanID:       l.LoanID,
		Status:       string(l.Status),
		QuoteDTO:     toQuote(plan),
		Installments: make([]InstallmentDTO, 0, len(plan.Installments)),
	}
	for _, in := range plan.Installments {
		out.Installments = append(out.Installments, InstallmentDTO{
			Number:    in.Number,
			DueDate:   in.DueDate,
			Payment:   in.Payment.InexactFloat64(),
			Principal: in.Principal.InexactFloat64(),
			Interest:  in.Interest.InexactFloat64(),
			Balance:   in.Balance.InexactFloat64(),
		})
	}
	return out, nil
}

func (u *Usecase) maxTenure() int {
	if u.cfg.MaxTenureMonths > 0 {
		return u.cfg.MaxTenureMonths
	}
	return DefaultMaxTenureMonths
}

func (u *Usecase) checkTenure(months int) error {
	switch max := u.maxTenure(); {
	case months < 1:
		return fmt.Errorf("%w: tenure must be at least 1 month", domainLoan.ErrInvalidInput)
	case months > max:
		return fmt.Errorf("%w: tenure must be at most %d months", domainLoan.ErrInvalidInput, max)
	}
	return nil
}

// Quote previews the EMI at the default rate.
func (u *Usecase) Quote(principal float64, tenure int) (*QuoteDTO, error) {
	if err := u.checkTenure(tenure); err != nil {
		return nil, err
	}
	plan, err := amortization.Build(principal, u.cfg.DefaultInterestRate, tenure, u.now())
	if err != nil {
		if errors.Is(err, amortization.ErrInvalidPrincipal) {
			return nil, user.ErrInvalidAmount
		}
		return nil, fmt.Errorf("%w: %w", domainLoan.ErrInvalidInput, err)
	}
	q := toQuote(plan)
	return &q, nil
}

func toQuote(p amortization.Plan) QuoteDTO {
	return QuoteDTO{
		Principal:         p.Principal.InexactFloat64(),
		AnnualRatePercent: p.AnnualRatePercent.InexactFloat64(),
		Tenure:            p.Months,
		MonthlyPayment:    p.MonthlyPayment.InexactFloat64(),
		TotalInterest:     p.TotalInterest.InexactFloat64(),
		TotalPayment:      p.TotalPayment.InexactFloat64(),
	}
}
