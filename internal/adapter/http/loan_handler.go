package http

import (
	"net/http"

	"goldvault-backend/internal/domain/decision"
	domainLoan "goldvault-backend/internal/domain/loan"
	"goldvault-backend/internal/infrastructure/metrics"
	"goldvault-backend/internal/usecase/loan"

	"github.com/labstack/echo/v4"
)

type LoanHandler struct {
	uc      *loan.Usecase
	metrics *metrics.Metrics
}

func NewLoanHandler(uc *loan.Usecase, m *metrics.Metrics) *LoanHandler {
	return &LoanHandler{uc: uc, metrics: m}
}

type createLoanReq struct {
	// Admins may apply on behalf of a client; clients apply for themselves.
	UserID     string  `json:"user_id"     validate:"omitempty,hex32"`
	GoldAmount float64 `json:"gold_amount" validate:"dec3"`
	LoanAmount float64 `json:"loan_amount" validate:"dec2"`
	Tenure     int     `json:"tenure"      validate:"gte=1,lte=360"`
	Purpose    string  `json:"purpose"     validate:"max=500"`
}

type decisionResp struct {
	LoanID string `json:"loan_id"`
	*decision.Decision
}

func (h *LoanHandler) CreateLoan(c echo.Context) error {
	var req createLoanReq
	if err := c.Bind(&req); err != nil {
		return invalidBody(c)
	}
	if err := c.Validate(&req); err != nil {
		return validationFailed(c, err)
	}
	userID := req.UserID
	if userID == "" {
		userID = CurrentUserID(c)
	}
	if !selfOrAdmin(c, userID) {
		return forbidden(c)
	}

	l, err := h.uc.CreateApplication(c.Request().Context(), loan.CreateApplicationInput{
		UserID:     userID,
		GoldAmount: req.GoldAmount,
		LoanAmount: req.LoanAmount,
		Tenure:     req.Tenure,
		Purpose:    req.Purpose,
	})
	h.metrics.LoanApplication(err)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusCreated, l)
}

func (h *LoanHandler) GetLoan(c echo.Context) error {
	l, err := h.ownedLoan(c)
	if err != nil || l == nil {
		return err
	}
	return c.JSON(http.StatusOK, l)
}

func (h *LoanHandler) Schedule(c echo.Context) error {
	l, err := h.ownedLoan(c)
	if err != nil || l == nil {
		return err
	}
	s, err := h.uc.Schedule(c.Request().Context(), l.LoanID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, s)
}

func (h *LoanHandler) Decision(c echo.Context) error {
	l, err := h.ownedLoan(c)
	if err != nil || l == nil {
		return err
	}
	d, err := h.uc.GetDecision(c.Request().Context(), l.LoanID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, decisionResp{LoanID: l.LoanID, Decision: d})
}

// ownedLoan loads the path loan for its owner or an admin. A nil loan with a
// nil error means the response has already been written.
func (h *LoanHandler) ownedLoan(c echo.Context) (*domainLoan.Loan, error) {
	loanID := c.Param("loan_id")
	if loanID == "" {
		return nil, c.JSON(http.StatusBadRequest, ErrorResponse{Error: "missing loan_id path param"})
	}
	l, err := h.uc.Get(c.Request().Context(), loanID)
	if err != nil {
		return nil, writeError(c, err)
	}
	if !selfOrAdmin(c, l.UserID) {
		// do not reveal other users' loans
		return nil, writeError(c, domainLoan.ErrNotFound)
	}
	return l, nil
}

func (h *LoanHandler) ListLoans(c echo.Context) error {
	loans, err := h.uc.ListAll(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, nonNil(loans))
}

func (h *LoanHandler) ListPendingLoans(c echo.Context) error {
	loans, err := h.uc.ListPending(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, nonNil(loans))
}

func (h *LoanHandler) ListUserLoans(c echo.Context) error {
	userID := c.Param("user_id")
	if !selfOrAdmin(c, userID) {
		return forbidden(c)
	}
	loans, err := h.uc.ListByUser(c.Request().Context(), userID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, nonNil(loans))
}

// Quote previews the monthly instalment: GET /quote?principal=100000&tenure=12
func (h *LoanHandler) Quote(c echo.Context) error {
	var principal float64
	var tenure int
	if err := echo.QueryParamsBinder(c).
		MustFloat64("principal", &principal).
		MustInt("tenure", &tenure).
		BindError(); err != nil {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "principal and tenure query params are required numbers"})
	}
	q, err := h.uc.Quote(principal, tenure)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, q)
}
