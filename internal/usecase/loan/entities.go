package loan

import "time"

// DefaultMaxTenureMonths applies when Settings.MaxTenureMonths is unset.
const DefaultMaxTenureMonths = 360

// Settings are read from configuration once at startup.
type Settings struct {
	DefaultInterestRate   float64
	GoldPricePerGram      float64
	MaxLoanToValuePercent float64 // 0 disables the check
	MaxTenureMonths       int     // 0 means DefaultMaxTenureMonths
	ConflictRetries       int
}

type CreateApplicationInput struct {
	UserID     string
	GoldAmount float64
	LoanAmount float64
	Tenure     int
	Purpose    string
}

type ProcessInput struct {
	LoanID          string
	Decision        string // approved | rejected
	ApproverID      string // public id of the admin
	RejectionReason string
}

type QuoteDTO struct {
	Principal         float64 `json:"principal"`
	AnnualRatePercent float64 `json:"annual_rate_percent"`
	Tenure            int     `json:"tenure"`
	MonthlyPayment    float64 `json:"monthly_payment"`
	TotalInterest     float64 `json:"total_interest"`
	TotalPayment      float64 `json:"total_payment"`
}

type InstallmentDTO struct {
	Number    int       `json:"number"`
	DueDate   time.Time `json:"due_date"`
	Payment   float64   `json:"payment"`
	Principal float64   `json:"principal"`
	Interest  float64   `json:"interest"`
	Balance   float64   `json:"balance"`
}

type ScheduleDTO struct {
	LoanID string `json:"loan_id"`
	Status string `json:"status"`
	QuoteDTO
	Installments []InstallmentDTO `json:"installments"`
}
