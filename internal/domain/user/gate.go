package user

// Area is the part of the portal a signed-in user may reach.
type Area string

const (
	AreaAdmin    Area = "admin"
	AreaRegister Area = "register"
	AreaPending  Area = "pending"
	AreaRejected Area = "rejected"
	AreaClient   Area = "client"
)

// Route derives the allowed area. Admins bypass the form review entirely.
func Route(u *User) Area {
	if u.IsAdmin {
		return AreaAdmin
	}
	switch u.FormStatus {
	case FormFilledPending:
		return AreaPending
	case FormRejected:
		return AreaRejected
	case FormApproved:
		return AreaClient
	default:
		return AreaRegister
	}
}

// CanSubmitForm reports whether the registration form may be (re)submitted.
func (u *User) CanSubmitForm() bool {
	switch u.FormStatus {
	case FormNotFilled, FormRejected, FormFilledPending:
		return true
	}
	return false
}
