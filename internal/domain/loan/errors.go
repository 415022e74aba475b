package loan

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound           = errors.New("loan not found")
	ErrInvalidTransition  = errors.New("loan is not pending")
	ErrMissingReason      = errors.New("rejection reason is required")
	ErrInvalidInput       = errors.New("invalid loan application")
	ErrInvalidDecision    = errors.New("decision must be approved or rejected")
	ErrExceedsLoanToValue = errors.New("loan amount exceeds the allowed loan-to-value")
)

// LoanToValueError reports the largest amount the pledged gold supports.
type LoanToValueError struct {
	Requested float64 `json:"requested"`
	MaxAmount float64 `json:"max_amount"`
}

func (e *LoanToValueError) Error() string {
	return fmt.Sprintf("loan amount %.2f exceeds the maximum %.2f for the pledged gold", e.Requested, e.MaxAmount)
}

func (e *LoanToValueError) Is(target error) bool { return target == ErrExceedsLoanToValue }
