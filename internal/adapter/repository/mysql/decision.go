package mysql

import (
	"context"
	"errors"
	"fmt"

	decisionDomain "goldvault-backend/internal/domain/decision"

	"gorm.io/gorm"
)

type DecisionRepository struct{ db *gorm.DB }

func NewDecisionRepository(db *gorm.DB) *DecisionRepository { return &DecisionRepository{db: db} }

func (r *DecisionRepository) Create(ctx context.Context, d *decisionDomain.Decision) error {
	if err := r.db.WithContext(ctx).Create(d).Error; err != nil {
		return fmt.Errorf("create decision: %w", err)
	}
	return nil
}

func (r *DecisionRepository) GetByLoanID(ctx context.Context, loanNumericID uint64) (*decisionDomain.Decision, error) {
	var out decisionDomain.Decision
	if err := r.db.WithContext(ctx).Where("loan_id = ?", loanNumericID).First(&out).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, decisionDomain.ErrNotFound
		}
		return nil, fmt.Errorf("get decision: %w", err)
	}
	return &out, nil
}
