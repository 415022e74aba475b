package mysql

import (
	"context"
	"errors"
	"fmt"

	"goldvault-backend/internal/domain/uow"
	userDomain "goldvault-backend/internal/domain/user"

	"gorm.io/gorm"
)

type UserRepository struct{ db *gorm.DB }

func NewUserRepository(db *gorm.DB) *UserRepository { return &UserRepository{db: db} }

func (r *UserRepository) Create(ctx context.Context, u *userDomain.User) error {
	u.Email = userDomain.NormalizeEmail(u.Email)
	if err := r.db.WithContext(ctx).Create(u).Error; err != nil {
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (r *UserRepository) GetByUserID(ctx context.Context, userID string) (*userDomain.User, error) {
	return r.first(r.db.WithContext(ctx).Where("user_id = ?", userID))
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*userDomain.User, error) {
	return r.first(r.db.WithContext(ctx).Where("email = ?", userDomain.NormalizeEmail(email)))
}

func (r *UserRepository) GetByExternalID(ctx context.Context, externalID string) (*userDomain.User, error) {
	return r.first(r.db.WithContext(ctx).Where("external_auth_id = ?", externalID))
}

func (r *UserRepository) GetByEmailOrExternalID(ctx context.Context, email, externalID string) (*userDomain.User, error) {
	email = userDomain.NormalizeEmail(email)
	var rows []userDomain.User
	err := r.db.WithContext(ctx).
		Where("email = ? OR external_auth_id = ?", email, externalID).
		Order("id").Limit(2).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("get user: %w", err)
	}
	if len(rows) == 0 {
		return nil, userDomain.ErrNotFound
	}
	// an email match wins over an external id held by another record
	for i := range rows {
		if rows[i].Email == email {
			return &rows[i], nil
		}
	}
	return &rows[0], nil
}

func (r *UserRepository) List(ctx context.Context) ([]userDomain.User, error) {
	var out []userDomain.User
	if err := r.db.WithContext(ctx).Order("id").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return out, nil
}

func (r *UserRepository) ListByFormStatus(ctx context.Context, status userDomain.FormStatus) ([]userDomain.User, error) {
	var out []userDomain.User
	if err := r.db.WithContext(ctx).Where("form_status = ?", status).Order("updated_at, id").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("list users by form status: %w", err)
	}
	return out, nil
}

// Update writes every column of u guarded by the version read earlier.
func (r *UserRepository) Update(ctx context.Context, u *userDomain.User) error {
	if u.ID == 0 {
		return userDomain.ErrNotFound
	}
	prev := u.Version
	u.Version = prev + 1
	res := r.db.WithContext(ctx).Model(u).
		Where("version = ?", prev).
		Select("*").Omit("id", "created_at").
		Updates(u)
	if res.Error != nil {
		u.Version = prev
		return fmt.Errorf("update user: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		u.Version = prev
		return uow.ErrConcurrencyConflict
	}
	return nil
}

func (r *UserRepository) first(q *gorm.DB) (*userDomain.User, error) {
	var out userDomain.User
	if err := q.First(&out).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, userDomain.ErrNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &out, nil
}
