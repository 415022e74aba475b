package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
)

type Handlers struct {
	Health    *Handler
	Accounts  *AccountHandler
	Gold      *GoldHandler
	Loans     *LoanHandler
	Approvals *ApprovalHandler
	// Metrics serves the Prometheus exposition; optional.
	Metrics http.Handler
}

// RegisterRoutes wires the portal API. idem guards the mutating loan routes
// and must run after authentication; pass nil to disable it.
func RegisterRoutes(e *echo.Echo, auth *Authenticator, h Handlers, idem echo.MiddlewareFunc) {
	authn := auth.Middleware
	mutating := func(guard echo.MiddlewareFunc) []echo.MiddlewareFunc {
		mw := []echo.MiddlewareFunc{authn, guard}
		if idem != nil {
			mw = append(mw, idem)
		}
		return mw
	}

	e.GET("/health", h.Health.Health)
	if h.Metrics != nil {
		e.GET("/metrics", echo.WrapHandler(h.Metrics))
	}

	// any signed-in user
	e.GET("/me", h.Accounts.Me, authn)
	e.POST("/me/form", h.Accounts.SubmitForm, authn)
	e.GET("/quote", h.Loans.Quote, authn)
	e.GET("/users/:user_id/gold", h.Gold.GetHoldings, authn)
	e.GET("/users/:user_id/loans", h.Loans.ListUserLoans, authn)

	// approved clients (and admins)
	e.POST("/loans", h.Loans.CreateLoan, mutating(RequireClient)...)
	e.GET("/loans/:loan_id", h.Loans.GetLoan, authn, RequireClient)
	e.GET("/loans/:loan_id/schedule", h.Loans.Schedule, authn, RequireClient)
	e.GET("/loans/:loan_id/decision", h.Loans.Decision, authn, RequireClient)

	// admin
	e.GET("/users", h.Accounts.ListUsers, authn, RequireAdmin)
	e.GET("/users/pending-forms", h.Accounts.ListPendingForms, authn, RequireAdmin)
	e.PUT("/users/:user_id/form/review", h.Accounts.ReviewForm, authn, RequireAdmin)
	e.PUT("/users/:user_id/gold", h.Gold.SetHoldings, authn, RequireAdmin)
	e.POST("/users/:user_id/gold/deposit", h.Gold.Deposit, authn, RequireAdmin)
	e.GET("/users/:user_id/gold/audit", h.Gold.Audit, authn, RequireAdmin)
	e.GET("/loans", h.Loans.ListLoans, authn, RequireAdmin)
	e.GET("/loans/pending", h.Loans.ListPendingLoans, authn, RequireAdmin)
	e.PUT("/loans/:loan_id/process", h.Approvals.ProcessLoan, mutating(RequireAdmin)...)
}
