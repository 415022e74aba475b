package http

import (
	"net/http"

	domainLoan "goldvault-backend/internal/domain/loan"
	"goldvault-backend/internal/infrastructure/metrics"
	"goldvault-backend/internal/usecase/loan"

	"github.com/labstack/echo/v4"
)

// ApprovalHandler serves the admin decision on pending loans.
type ApprovalHandler struct {
	uc      *loan.Usecase
	metrics *metrics.Metrics
}

func NewApprovalHandler(uc *loan.Usecase, m *metrics.Metrics) *ApprovalHandler {
	return &ApprovalHandler{uc: uc, metrics: m}
}

type processLoanReq struct {
	Decision        string `json:"decision"         validate:"required"`
	RejectionReason string `json:"rejection_reason" validate:"max=1000"`
}

func (h *ApprovalHandler) ProcessLoan(c echo.Context) error {
	// Validate path param
	loanID := c.Param("loan_id")
	if loanID == "" {
		return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "missing loan_id path param"})
	}
	// Bind + validate body payload JSON
	var req processLoanReq
	if err := c.Bind(&req); err != nil {
		return invalidBody(c)
	}
	if err := c.Validate(&req); err != nil {
		return validationFailed(c, err)
	}

	l, err := h.uc.ProcessApplication(c.Request().Context(), loan.ProcessInput{
		LoanID:          loanID,
		Decision:        req.Decision,
		ApproverID:      CurrentUserID(c),
		RejectionReason: req.RejectionReason,
	})
	h.metrics.LoanDecision(decisionLabel(req.Decision), err)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(http.StatusOK, l)
}

func decisionLabel(raw string) string {
	d, err := domainLoan.ParseDecision(raw)
	if err != nil {
		return "invalid"
	}
	return string(d)
}
