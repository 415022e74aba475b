package account

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"goldvault-backend/internal/domain/uow"
	"goldvault-backend/internal/domain/user"
	"goldvault-backend/pkg/id"
)

type Usecase struct {
	users      user.Repository
	adminEmail string
	retries    int
}

func NewUsecase(users user.Repository, adminEmail string, retries int) *Usecase {
	return &Usecase{users: users, adminEmail: user.NormalizeEmail(adminEmail), retries: retries}
}

// SignIn resolves the caller to a stored user, creating one on first sight.
// The admin flag follows the configured admin email on every sign-in.
func (u *Usecase) SignIn(ctx context.Context, in Identity) (*user.User, error) {
	email := user.NormalizeEmail(in.Email)
	ext := strings.TrimSpace(in.ExternalAuthID)
	if email == "" || ext == "" {
		return nil, fmt.Errorf("%w: email and subject are required", user.ErrInvalidIdentity)
	}

	var out *user.User
	err := uow.RetryOnConflict(ctx, u.retries, func() error {
		usr, err := u.users.GetByEmailOrExternalID(ctx, email, ext)
		switch {
		case errors.Is(err, user.ErrNotFound):
			usr, err = u.register(ctx, email, ext)
			if err != nil {
				return err
			}
			out = usr
			return nil
		case err != nil:
			return err
		}

		// Found by either key: the token is authoritative for both, unless the
		// subject already belongs to a different record.
		if usr.ExternalAuthID != ext {
			holder, err := u.users.GetByExternalID(ctx, ext)
			switch {
			case err == nil && holder.ID != usr.ID:
				return fmt.Errorf("%w: subject is bound to another account", user.ErrInvalidIdentity)
			case err != nil && !errors.Is(err, user.ErrNotFound):
				return err
			}
		}
		isAdmin := u.isAdminEmail(email)
		if usr.Email != email || usr.ExternalAuthID != ext || usr.IsAdmin != isAdmin {
			usr.Email, usr.ExternalAuthID, usr.IsAdmin = email, ext, isAdmin
			if err := u.users.Update(ctx, usr); err != nil {
				return err
			}
		}
		out = usr
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (u *Usecase) register(ctx context.Context, email, ext string) (*user.User, error) {
	usr := &user.User{
		UserID:         id.NewID32(),
		Email:          email,
		ExternalAuthID: ext,
		IsAdmin:        u.isAdminEmail(email),
		FormStatus:     user.FormNotFilled,
	}
	if err := u.users.Create(ctx, usr); err != nil {
		// A parallel first sign-in may have inserted the row already.
		if existing, lerr := u.users.GetByEmailOrExternalID(ctx, email, ext); lerr == nil {
			return existing, nil
		}
		return nil, err
	}
	return usr, nil
}

func (u *Usecase) isAdminEmail(email string) bool {
	return u.adminEmail != "" && email == u.adminEmail
}

func (u *Usecase) Profile(usr *user.User) Profile {
	return Profile{User: usr, Area: user.Route(usr)}
}

// SubmitForm stores the registration form and queues it for review.
func (u *Usecase) SubmitForm(ctx context.Context, userID string, data user.FormData) (*user.User, error) {
	var out *user.User
	err := uow.RetryOnConflict(ctx, u.retries, func() error {
		usr, err := u.users.GetByUserID(ctx, userID)
		if err != nil {
			return err
		}
		if usr.IsAdmin || !usr.CanSubmitForm() {
			return user.ErrInvalidTransition
		}
		form := data
		usr.FormData = &form
		usr.FormStatus = user.FormFilledPending
		usr.RejectionReason = nil
		if err := u.users.Update(ctx, usr); err != nil {
			return err
		}
		out = usr
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ReviewForm lets an admin approve or reject a pending registration form.
func (u *Usecase) ReviewForm(ctx context.Context, in ReviewInput) (*user.User, error) {
	reviewer, err := u.users.GetByUserID(ctx, in.ReviewerID)
	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			return nil, user.ErrForbidden
		}
		return nil, err
	}
	if !reviewer.IsAdmin {
		return nil, user.ErrForbidden
	}

	var approve bool
	switch strings.ToLower(strings.TrimSpace(in.Decision)) {
	case "approved":
		approve = true
	case "rejected":
	default:
		return nil, user.ErrInvalidDecision
	}
	reason := strings.TrimSpace(in.RejectionReason)
	if !approve && reason == "" {
		return nil, user.ErrMissingReason
	}

	var out *user.User
	err = uow.RetryOnConflict(ctx, u.retries, func() error {
		usr, err := u.users.GetByUserID(ctx, in.UserID)
		if err != nil {
			return err
		}
		if usr.FormStatus != user.FormFilledPending {
			return user.ErrInvalidTransition
		}
		if approve {
			usr.FormStatus = user.FormApproved
			usr.RejectionReason = nil
		} else {
			usr.FormStatus = user.FormRejected
			usr.RejectionReason = &reason
		}
		if err := u.users.Update(ctx, usr); err != nil {
			return err
		}
		out = usr
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (u *Usecase) Get(ctx context.Context, userID string) (*user.User, error) {
	return u.users.GetByUserID(ctx, userID)
}

func (u *Usecase) ListAll(ctx context.Context) ([]user.User, error) {
	return u.users.List(ctx)
}

func (u *Usecase) ListPendingForms(ctx context.Context) ([]user.User, error) {
	return u.users.ListByFormStatus(ctx, user.FormFilledPending)
}
