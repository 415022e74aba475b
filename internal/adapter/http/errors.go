package http

import (
	"errors"
	"net/http"

	"goldvault-backend/internal/domain/decision"
	"goldvault-backend/internal/domain/loan"
	"goldvault-backend/internal/domain/uow"
	"goldvault-backend/internal/domain/user"

	"github.com/labstack/echo/v4"
)

type errorStatus struct {
	target error
	code   int
}

// First match wins.
var errorTable = []errorStatus{
	{user.ErrNotFound, http.StatusNotFound},
	{loan.ErrNotFound, http.StatusNotFound},
	{decision.ErrNotFound, http.StatusNotFound},

	{user.ErrInvalidAmount, http.StatusBadRequest},
	{user.ErrInsufficientGold, http.StatusBadRequest},
	{user.ErrInvariantViolation, http.StatusBadRequest},
	{user.ErrMissingReason, http.StatusBadRequest},
	{user.ErrInvalidDecision, http.StatusBadRequest},
	{loan.ErrInvalidInput, http.StatusBadRequest},
	{loan.ErrMissingReason, http.StatusBadRequest},
	{loan.ErrInvalidDecision, http.StatusBadRequest},
	{loan.ErrExceedsLoanToValue, http.StatusBadRequest},

	{user.ErrInvalidTransition, http.StatusConflict},
	{loan.ErrInvalidTransition, http.StatusConflict},
	{uow.ErrConcurrencyConflict, http.StatusConflict},

	{user.ErrForbidden, http.StatusForbidden},
	{user.ErrInvalidIdentity, http.StatusUnauthorized},
}

// statusFor reports the HTTP status of a domain error; 500 when unknown.
func statusFor(err error) int {
	for _, m := range errorTable {
		if errors.Is(err, m.target) {
			return m.code
		}
	}
	return http.StatusInternalServerError
}

// writeError renders domain errors. Anything unmapped is returned to Echo
// as a 500 carrying the cause, so the request logger records it.
func writeError(c echo.Context, err error) error {
	code := statusFor(err)
	if code == http.StatusInternalServerError {
		return echo.NewHTTPError(code, ErrorResponse{Error: "internal error"}).SetInternal(err)
	}
	return c.JSON(code, ErrorResponse{Error: err.Error(), Data: errorData(err)})
}

func errorData(err error) any {
	var ig *user.InsufficientGoldError
	if errors.As(err, &ig) {
		return ig
	}
	var iv *user.InvariantViolationError
	if errors.As(err, &iv) {
		return iv
	}
	var ltv *loan.LoanToValueError
	if errors.As(err, &ltv) {
		return ltv
	}
	return nil
}

func forbidden(c echo.Context) error {
	return c.JSON(http.StatusForbidden, ErrorResponse{Error: "forbidden"})
}

func invalidBody(c echo.Context) error {
	return c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid body"})
}

func validationFailed(c echo.Context, err error) error {
	return c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
		Error:   "validation failed",
		Details: ToFieldErrors(err),
	})
}
