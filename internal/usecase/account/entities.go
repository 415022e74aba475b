package account

import "goldvault-backend/internal/domain/user"

// Identity is what the bearer token asserts about the caller.
type Identity struct {
	Email          string
	ExternalAuthID string
}

type ReviewInput struct {
	ReviewerID      string
	UserID          string
	Decision        string // approved | rejected
	RejectionReason string
}

// Profile is a user together with the area the portal routes them to.
type Profile struct {
	User *user.User `json:"user"`
	Area user.Area  `json:"area"`
}
