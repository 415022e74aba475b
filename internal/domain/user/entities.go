package user

import (
	"strings"
	"time"
)

// FormStatus is the review state of the client registration form.
type FormStatus int

const (
	FormRejected      FormStatus = -1
	FormNotFilled     FormStatus = 0
	FormFilledPending FormStatus = 1
	FormApproved      FormStatus = 2
)

func (s FormStatus) String() string {
	switch s {
	case FormRejected:
		return "rejected"
	case FormNotFilled:
		return "not_filled"
	case FormFilledPending:
		return "filled_pending"
	case FormApproved:
		return "approved"
	}
	return "unknown"
}

// Table: users
type User struct {
	ID              uint64     `gorm:"primaryKey;column:id" json:"-"`
	UserID          string     `gorm:"column:user_id;size:32;not null;uniqueIndex:ux_users_user_id" json:"user_id"`
	Email           string     `gorm:"column:email;size:255;not null;uniqueIndex:ux_users_email" json:"email"`
	ExternalAuthID  string     `gorm:"column:external_auth_id;size:128;not null;uniqueIndex:ux_users_external_auth_id" json:"external_auth_id"`
	IsAdmin         bool       `gorm:"column:is_admin;not null;default:false" json:"is_admin"`
	FormStatus      FormStatus `gorm:"column:form_status;not null;default:0;index:idx_users_form_status" json:"form_status"`
	FormData        *FormData  `gorm:"column:form_data;type:text;serializer:json" json:"form_data,omitempty"`
	RejectionReason *string    `gorm:"column:rejection_reason;type:text" json:"rejection_reason,omitempty"`
	Holdings        Holdings   `gorm:"embedded" json:"gold_holdings"`
	Version         int64      `gorm:"column:version;not null;default:0" json:"-"`
	CreatedAt       time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time  `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (User) TableName() string { return "users" }

// NormalizeEmail is the canonical form used for storage and lookups.
func NormalizeEmail(email string) string { return strings.ToLower(strings.TrimSpace(email)) }

// FormData is the registration profile submitted by a client.
type FormData struct {
	Personal   PersonalInfo   `json:"personal"`
	Address    AddressInfo    `json:"address"`
	Identity   IdentityInfo   `json:"identity"`
	Employment EmploymentInfo `json:"employment"`
	Nominee    NomineeInfo    `json:"nominee"`
}

type PersonalInfo struct {
	FullName         string     `json:"full_name" validate:"required"`
	DateOfBirth      *time.Time `json:"date_of_birth,omitempty"`
	Gender           string     `json:"gender,omitempty" validate:"omitempty,oneof=Male Female Other"`
	FatherSpouseName string     `json:"father_spouse_name,omitempty"`
	MaritalStatus    string     `json:"marital_status,omitempty" validate:"omitempty,oneof=Single Married Divorced Widowed"`
	Nationality      string     `json:"nationality,omitempty"`
	MobileNumber     string     `json:"mobile_number" validate:"required"`
	AlternateMobile  string     `json:"alternate_mobile_number,omitempty"`
	PreferredChannel string     `json:"preferred_communication,omitempty" validate:"omitempty,oneof=SMS Email Both"`
}

type Address struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	Pincode string `json:"pincode"`
	Country string `json:"country"`
}

type AddressInfo struct {
	Current       Address `json:"current"`
	SameAsCurrent bool    `json:"same_as_current"`
	Permanent     Address `json:"permanent"`
}

type IdentityInfo struct {
	PANNumber          string `json:"pan_number" validate:"required"`
	AadhaarNumber      string `json:"aadhaar_number" validate:"required"`
	AdditionalIDType   string `json:"additional_id_type,omitempty" validate:"omitempty,oneof='Voter ID' 'Driving License' Passport"`
	AdditionalIDNumber string `json:"additional_id_number,omitempty"`
}

type EmploymentInfo struct {
	EmploymentType     string  `json:"employment_type,omitempty" validate:"omitempty,oneof=Salaried Self-employed Business Professional Retired Homemaker"`
	OrganizationName   string  `json:"organization_name,omitempty"`
	Designation        string  `json:"designation,omitempty"`
	WorkAddress        string  `json:"work_address,omitempty"`
	WorkContactNumber  string  `json:"work_contact_number,omitempty"`
	MonthlyIncomeRange string  `json:"monthly_income_range,omitempty"`
	AnnualIncome       float64 `json:"annual_income,omitempty" validate:"gte=0"`
	Sector             string  `json:"sector,omitempty"`
}

type NomineeInfo struct {
	Name          string     `json:"name"`
	Relationship  string     `json:"relationship"`
	DateOfBirth   *time.Time `json:"date_of_birth,omitempty"`
	Address       string     `json:"address,omitempty"`
	ContactNumber string     `json:"contact_number,omitempty"`
}
