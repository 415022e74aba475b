package user

import "context"

type Repository interface {
	Create(ctx context.Context, u *User) error
	GetByUserID(ctx context.Context, userID string) (*User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetByExternalID(ctx context.Context, externalID string) (*User, error)
	// Matches on email OR external auth id, so a rotated provider id still
	// resolves to the same record.
	GetByEmailOrExternalID(ctx context.Context, email, externalID string) (*User, error)
	List(ctx context.Context) ([]User, error)
	ListByFormStatus(ctx context.Context, status FormStatus) ([]User, error)
	// Update writes the whole record if its Version is unchanged in storage,
	// then bumps Version. A stale Version yields uow.ErrConcurrencyConflict.
	Update(ctx context.Context, u *User) error
}
