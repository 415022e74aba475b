package loan

import (
	"strings"
	"time"

	"goldvault-backend/pkg/amortization"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
	StatusClosed   Status = "closed"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected, StatusClosed:
		return true
	}
	return false
}

// Decision is the admin verdict on a pending application.
type Decision string

const (
	DecisionApproved Decision = "approved"
	DecisionRejected Decision = "rejected"
)

// ParseDecision accepts the verdict case-insensitively.
func ParseDecision(s string) (Decision, error) {
	switch Decision(strings.ToLower(strings.TrimSpace(s))) {
	case DecisionApproved:
		return DecisionApproved, nil
	case DecisionRejected:
		return DecisionRejected, nil
	}
	return "", ErrInvalidDecision
}

type Loan struct {
	ID              uint64     `gorm:"primaryKey;column:id" json:"-"`
	LoanID          string     `gorm:"column:loan_id;size:32;not null;uniqueIndex:ux_loans_loan_id" json:"loan_id"`
	UserID          string     `gorm:"column:user_id;size:32;not null;index:idx_loans_user_status" json:"user_id"`
	GoldAmount      float64    `gorm:"column:gold_amount;type:decimal(18,3);not null" json:"gold_amount"`
	LoanAmount      float64    `gorm:"column:loan_amount;type:decimal(18,2);not null" json:"loan_amount"`
	InterestRate    float64    `gorm:"column:interest_rate;type:decimal(6,3);not null" json:"interest_rate"`
	Tenure          int        `gorm:"column:tenure;not null" json:"tenure"`
	Purpose         string     `gorm:"column:purpose;type:text;not null" json:"purpose"`
	Status          Status     `gorm:"column:status;size:16;not null;default:'pending';index:idx_loans_user_status;index:idx_loans_status" json:"status"`
	ApprovedBy      *string    `gorm:"column:approved_by;size:32" json:"approved_by,omitempty"`
	ApprovedAt      *time.Time `gorm:"column:approved_at" json:"approved_at,omitempty"`
	StartDate       *time.Time `gorm:"column:start_date" json:"start_date,omitempty"`
	EndDate         *time.Time `gorm:"column:end_date" json:"end_date,omitempty"`
	RejectionReason *string    `gorm:"column:rejection_reason;type:text" json:"rejection_reason,omitempty"`
	CreatedAt       time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time  `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Loan) TableName() string { return "loans" }

// Approve moves a pending loan to approved, starting it at now.
func (l *Loan) Approve(approverID string, now time.Time) error {
	if l.Status != StatusPending {
		return ErrInvalidTransition
	}
	now = now.UTC()
	end := amortization.AddMonths(now, l.Tenure)
	l.Status = StatusApproved
	l.ApprovedBy = &approverID
	l.ApprovedAt = &now
	l.StartDate = &now
	l.EndDate = &end
	l.RejectionReason = nil
	return nil
}

// Reject moves a pending loan to rejected. The reason must not be blank.
func (l *Loan) Reject(reason string) error {
	if l.Status != StatusPending {
		return ErrInvalidTransition
	}
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return ErrMissingReason
	}
	l.Status = StatusRejected
	l.RejectionReason = &reason
	l.ApprovedBy, l.ApprovedAt, l.StartDate, l.EndDate = nil, nil, nil, nil
	return nil
}
