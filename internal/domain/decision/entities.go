package decision

import (
	"errors"
	"time"
)

var (
	ErrNotFound = errors.New("decision not found")
)

type Outcome string

const (
	OutcomeApproved Outcome = "approved"
	OutcomeRejected Outcome = "rejected"
)

// Table: loan_decisions. One row per processed loan.
type Decision struct {
	// Internal numeric PK
	ID uint64 `gorm:"column:id;primaryKey;autoIncrement" json:"-"`
	// Public identifier (32-char lowercase hex)
	DecisionID string `gorm:"column:decision_id;type:char(32);not null;uniqueIndex:ux_loan_decisions_decision_id" json:"decision_id"`
	// FK to loans.id (numeric); unique so a loan can only be decided once
	LoanID    uint64    `gorm:"column:loan_id;not null;uniqueIndex:ux_loan_decisions_loan_id" json:"-"`
	Outcome   Outcome   `gorm:"column:outcome;size:16;not null" json:"outcome"`
	DecidedBy string    `gorm:"column:decided_by;type:char(32);not null" json:"decided_by"`
	Reason    *string   `gorm:"column:reason;type:text" json:"reason,omitempty"`
	DecidedAt time.Time `gorm:"column:decided_at;not null" json:"decided_at"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (Decision) TableName() string { return "loan_decisions" }
