package loan

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	repo "goldvault-backend/internal/adapter/repository/mysql"
	domain "goldvault-backend/internal/domain/loan"
	"goldvault-backend/internal/domain/uow"
	"goldvault-backend/internal/domain/user"
	"goldvault-backend/internal/usecase/gold"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type stack struct {
	users *repo.UserRepository
	loans *repo.LoanRepository
	gold  *gold.Usecase
	uc    *Usecase
}

func newStack(t *testing.T, h user.Holdings) *stack {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	if err := repo.AutoMigrate(db); err != nil {
		t.Fatalf("auto-migrate: %v", err)
	}

	s := &stack{users: repo.NewUserRepository(db), loans: repo.NewLoanRepository(db)}
	decisions := repo.NewDecisionRepository(db)
	tx := repo.NewGormUoW(db)
	s.gold = gold.NewUsecase(s.users, s.loans, tx, 3)
	s.uc = NewUsecase(s.users, s.loans, decisions, tx, testSettings)

	if err := s.users.Create(context.Background(), &user.User{
		UserID:     userID,
		Email:      "borrower@example.com",
		FormStatus: user.FormApproved,
		Holdings:   h,
	}); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return s
}

func (s *stack) apply(t *testing.T, grams, amount float64, tenure int) *domain.Loan {
	t.Helper()
	l, err := s.uc.CreateApplication(context.Background(), CreateApplicationInput{
		UserID: userID, GoldAmount: grams, LoanAmount: amount, Tenure: tenure, Purpose: "working capital",
	})
	if err != nil {
		t.Fatalf("create application: %v", err)
	}
	return l
}

func (s *stack) holdings(t *testing.T) user.Holdings {
	t.Helper()
	h, err := s.gold.GetHoldings(context.Background(), userID)
	if err != nil {
		t.Fatalf("get holdings: %v", err)
	}
	return h
}

func TestScenario_ApproveMortgagesCollateral(t *testing.T) {
	ctx := context.Background()
	s := newStack(t, user.Holdings{TotalGold: 100, GoldInSafe: 100})

	l := s.apply(t, 40, 100_000, 12)
	if _, err := s.uc.ProcessApplication(ctx, ProcessInput{LoanID: l.LoanID, Decision: "approved", ApproverID: adminID}); err != nil {
		t.Fatalf("approve: %v", err)
	}

	if got, want := s.holdings(t), (user.Holdings{TotalGold: 100, GoldInSafe: 60, GoldMortgaged: 40}); got != want {
		t.Fatalf("holdings = %+v, want %+v", got, want)
	}
	stored, err := s.uc.Get(ctx, l.LoanID)
	if err != nil || stored.Status != domain.StatusApproved || stored.StartDate == nil || stored.EndDate == nil {
		t.Fatalf("stored loan = %+v, err %v", stored, err)
	}
	d, err := s.uc.GetDecision(ctx, l.LoanID)
	if err != nil || d.DecidedBy != adminID {
		t.Fatalf("decision = %+v, err %v", d, err)
	}

	rep, err := s.gold.Audit(ctx, userID)
	if err != nil || !rep.Consistent {
		t.Fatalf("audit = %+v, err %v", rep, err)
	}
}

func TestScenario_ApplicationDoesNotReserveGold(t *testing.T) {
	ctx := context.Background()
	s := newStack(t, user.Holdings{TotalGold: 100, GoldInSafe: 100})

	first := s.apply(t, 60, 1000, 6)
	second := s.apply(t, 60, 1000, 6)

	if _, err := s.uc.ProcessApplication(ctx, ProcessInput{LoanID: first.LoanID, Decision: "approved", ApproverID: adminID}); err != nil {
		t.Fatalf("approve first: %v", err)
	}
	_, err := s.uc.ProcessApplication(ctx, ProcessInput{LoanID: second.LoanID, Decision: "approved", ApproverID: adminID})
	var ig *user.InsufficientGoldError
	if !errors.As(err, &ig) || ig.Available != 40 || ig.Requested != 60 {
		t.Fatalf("want InsufficientGold{40,60}, got %v", err)
	}

	still, err := s.uc.Get(ctx, second.LoanID)
	if err != nil || still.Status != domain.StatusPending {
		t.Fatalf("failed approval must leave the loan pending: %+v, %v", still, err)
	}
	if got, want := s.holdings(t), (user.Holdings{TotalGold: 100, GoldInSafe: 40, GoldMortgaged: 60}); got != want {
		t.Fatalf("holdings = %+v, want %+v", got, want)
	}
}

func TestScenario_RejectLeavesHoldingsUntouched(t *testing.T) {
	ctx := context.Background()
	start := user.Holdings{TotalGold: 12.5, GoldInSafe: 10, GoldMortgaged: 2.5}
	s := newStack(t, start)

	l := s.apply(t, 5, 1000, 3)
	if _, err := s.uc.ProcessApplication(ctx, ProcessInput{LoanID: l.LoanID, Decision: "rejected", ApproverID: adminID}); !errors.Is(err, domain.ErrMissingReason) {
		t.Fatalf("want ErrMissingReason, got %v", err)
	}
	got, err := s.uc.ProcessApplication(ctx, ProcessInput{LoanID: l.LoanID, Decision: "rejected", ApproverID: adminID, RejectionReason: "purity report missing"})
	if err != nil {
		t.Fatalf("reject: %v", err)
	}
	if got.Status != domain.StatusRejected {
		t.Fatalf("status = %s", got.Status)
	}
	if h := s.holdings(t); h != start {
		t.Fatalf("holdings changed: %+v", h)
	}
	if _, err := s.uc.ProcessApplication(ctx, ProcessInput{LoanID: l.LoanID, Decision: "approved", ApproverID: adminID}); !errors.Is(err, domain.ErrInvalidTransition) {
		t.Fatalf("rejected loans are terminal, got %v", err)
	}
}

func TestScenario_WholeSafeAsCollateral(t *testing.T) {
	ctx := context.Background()
	s := newStack(t, user.Holdings{TotalGold: 25, GoldInSafe: 25})

	l := s.apply(t, 25, 1000, 1)
	if _, err := s.uc.ProcessApplication(ctx, ProcessInput{LoanID: l.LoanID, Decision: "approved", ApproverID: adminID}); err != nil {
		t.Fatalf("approve: %v", err)
	}
	if got, want := s.holdings(t), (user.Holdings{TotalGold: 25, GoldMortgaged: 25}); got != want {
		t.Fatalf("holdings = %+v, want %+v", got, want)
	}
	if _, err := s.uc.CreateApplication(ctx, CreateApplicationInput{UserID: userID, GoldAmount: 0.001, LoanAmount: 1, Tenure: 1, Purpose: "x"}); !errors.Is(err, user.ErrInsufficientGold) {
		t.Fatalf("empty safe must refuse new applications, got %v", err)
	}
}

func TestScenario_EndDateClampsToMonthEnd(t *testing.T) {
	ctx := context.Background()
	s := newStack(t, user.Holdings{TotalGold: 10, GoldInSafe: 10})
	s.uc.now = func() time.Time { return time.Date(2024, 1, 31, 10, 0, 0, 0, time.UTC) }

	l := s.apply(t, 1, 1000, 1)
	got, err := s.uc.ProcessApplication(ctx, ProcessInput{LoanID: l.LoanID, Decision: "approved", ApproverID: adminID})
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	if want := time.Date(2024, 2, 29, 10, 0, 0, 0, time.UTC); !got.EndDate.Equal(want) {
		t.Fatalf("endDate = %v, want %v", got.EndDate, want)
	}
}

// The stack has one sqlite connection, so these approvals run one after
// another. Stale-read races are covered by TestUser_UpdateVersionGuard,
// TestUpdate_StatusGuard and TestProcessApplication_RetriesLostRace.
func TestScenario_RepeatedApprovalsOfOneLoan(t *testing.T) {
	ctx := context.Background()
	s := newStack(t, user.Holdings{TotalGold: 100, GoldInSafe: 100})
	l := s.apply(t, 40, 1000, 12)

	const n = 4
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = s.uc.ProcessApplication(ctx, ProcessInput{LoanID: l.LoanID, Decision: "approved", ApproverID: adminID})
		}(i)
	}
	wg.Wait()

	ok := 0
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, domain.ErrInvalidTransition), errors.Is(err, uow.ErrConcurrencyConflict):
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if ok != 1 {
		t.Fatalf("successful approvals = %d, want 1", ok)
	}
	if got, want := s.holdings(t), (user.Holdings{TotalGold: 100, GoldInSafe: 60, GoldMortgaged: 40}); got != want {
		t.Fatalf("collateral moved more than once: %+v", got)
	}
}

func TestScenario_DepositThenApply(t *testing.T) {
	ctx := context.Background()
	s := newStack(t, user.Holdings{})

	if _, err := s.gold.AddGoldToSafe(ctx, userID, 15.5); err != nil {
		t.Fatalf("deposit: %v", err)
	}
	l := s.apply(t, 15.5, 1000, 2)
	if _, err := s.uc.ProcessApplication(ctx, ProcessInput{LoanID: l.LoanID, Decision: "APPROVED", ApproverID: adminID}); err != nil {
		t.Fatalf("approve: %v", err)
	}
	loans, err := s.uc.ListByUser(ctx, userID)
	if err != nil || len(loans) != 1 {
		t.Fatalf("loans = %v, err %v", loans, err)
	}
	pending, err := s.uc.ListPending(ctx)
	if err != nil || len(pending) != 0 {
		t.Fatalf("pending = %v, err %v", pending, err)
	}
}
