package mysql

import (
	"context"

	"goldvault-backend/internal/domain/decision"
	"goldvault-backend/internal/domain/loan"
	"goldvault-backend/internal/domain/uow"
	"goldvault-backend/internal/domain/user"

	"gorm.io/gorm"
)

type GormUoW struct{ db *gorm.DB }

func NewGormUoW(db *gorm.DB) *GormUoW { return &GormUoW{db: db} }

func (u *GormUoW) WithinTx(ctx context.Context, fn func(r uow.Repos) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		r := uow.Repos{
			Users:     &UserRepository{db: tx},
			Loans:     &LoanRepository{db: tx},
			Decisions: &DecisionRepository{db: tx},
		}
		return fn(r)
	})
}

// Models lists every table the service owns, in migration order.
func Models() []any {
	return []any{&user.User{}, &loan.Loan{}, &decision.Decision{}}
}

func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}
