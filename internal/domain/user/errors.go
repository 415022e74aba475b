package user

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound           = errors.New("user not found")
	ErrInvalidAmount      = errors.New("amount must be greater than zero")
	ErrInsufficientGold   = errors.New("insufficient gold in safe")
	ErrInvariantViolation = errors.New("gold holdings invariant violated")
	ErrForbidden          = errors.New("admin privileges required")
	ErrMissingReason      = errors.New("rejection reason is required")
	ErrInvalidTransition  = errors.New("form is not in a state that allows this action")
	ErrInvalidDecision    = errors.New("decision must be approved or rejected")
	ErrInvalidIdentity    = errors.New("invalid identity")
)

// InsufficientGoldError reports how much collateral was available against
// how much was requested.
type InsufficientGoldError struct {
	Available float64 `json:"available"`
	Requested float64 `json:"requested"`
}

func (e *InsufficientGoldError) Error() string {
	return fmt.Sprintf("insufficient gold in safe: available %.3f, requested %.3f", e.Available, e.Requested)
}

func (e *InsufficientGoldError) Is(target error) bool { return target == ErrInsufficientGold }

// InvariantViolationError carries the rejected holdings triple.
type InvariantViolationError struct {
	Holdings Holdings `json:"holdings"`
	Reason   string   `json:"reason"`
}

func (e *InvariantViolationError) Error() string {
	return fmt.Sprintf("gold holdings invariant violated (%s): total=%.3f in_safe=%.3f mortgaged=%.3f",
		e.Reason, e.Holdings.TotalGold, e.Holdings.GoldInSafe, e.Holdings.GoldMortgaged)
}

func (e *InvariantViolationError) Is(target error) bool { return target == ErrInvariantViolation }
