package gold

import "goldvault-backend/internal/domain/user"

// AuditReport compares stored holdings with what the loan book implies.
type AuditReport struct {
	UserID             string        `json:"user_id"`
	Holdings           user.Holdings `json:"holdings"`
	ApprovedCollateral float64       `json:"approved_collateral"`
	Balanced           bool          `json:"balanced"`
	MortgageMatches    bool          `json:"mortgage_matches_loans"`
	Consistent         bool          `json:"consistent"`
	Problems           []string      `json:"problems,omitempty"`
}
