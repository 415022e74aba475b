package user

import (
	"math"

	"github.com/shopspring/decimal"
)

// Tolerance is the largest accepted gap between TotalGold and
// GoldInSafe+GoldMortgaged, in grams.
const Tolerance = 0.001

// Holdings is the gold ledger of one client, in grams.
//
// Invariants: GoldInSafe + GoldMortgaged == TotalGold (within Tolerance) and
// GoldInSafe, GoldMortgaged >= 0.
type Holdings struct {
	TotalGold     float64 `gorm:"column:total_gold;type:decimal(18,3);not null;default:0" json:"total_gold"`
	GoldInSafe    float64 `gorm:"column:gold_in_safe;type:decimal(18,3);not null;default:0" json:"gold_in_safe"`
	GoldMortgaged float64 `gorm:"column:gold_mortgaged;type:decimal(18,3);not null;default:0" json:"gold_mortgaged"`
}

// HoldingsPatch is a partial edit; nil fields are not supplied by the caller.
type HoldingsPatch struct {
	TotalGold     *float64 `json:"total_gold"`
	GoldInSafe    *float64 `json:"gold_in_safe"`
	GoldMortgaged *float64 `json:"gold_mortgaged"`
}

func dec(f float64) decimal.Decimal { return decimal.NewFromFloat(f) }

func finite(f float64) bool { return !math.IsNaN(f) && !math.IsInf(f, 0) }

func (h Holdings) Validate() error {
	switch {
	case !finite(h.TotalGold) || !finite(h.GoldInSafe) || !finite(h.GoldMortgaged):
		return &InvariantViolationError{Holdings: h, Reason: "non-finite balance"}
	case h.TotalGold < 0 || h.GoldInSafe < 0 || h.GoldMortgaged < 0:
		return &InvariantViolationError{Holdings: h, Reason: "negative balance"}
	case dec(h.GoldInSafe).Add(dec(h.GoldMortgaged)).Sub(dec(h.TotalGold)).Abs().GreaterThan(dec(Tolerance)):
		return &InvariantViolationError{Holdings: h, Reason: "in_safe + mortgaged != total"}
	}
	return nil
}

// Merge applies p onto h. When some fields are missing the others are derived
// so that the edit stays balanced:
//   - total only: mortgaged is kept and safe absorbs the change; if the new
//     total no longer covers mortgaged, mortgaged is clamped to total and safe
//     becomes 0.
//   - safe only / mortgaged only: the other side is total minus the given one.
//   - two fields: the third is derived from them.
//
// The result is validated before it is returned.
func (h Holdings) Merge(p HoldingsPatch) (Holdings, error) {
	for _, v := range []*float64{p.TotalGold, p.GoldInSafe, p.GoldMortgaged} {
		if v != nil && (*v < 0 || !finite(*v)) {
			return h, ErrInvalidAmount
		}
	}

	total, safe, mort := dec(h.TotalGold), dec(h.GoldInSafe), dec(h.GoldMortgaged)
	hasT, hasS, hasM := p.TotalGold != nil, p.GoldInSafe != nil, p.GoldMortgaged != nil

	switch {
	case hasT && hasS && hasM:
		total, safe, mort = dec(*p.TotalGold), dec(*p.GoldInSafe), dec(*p.GoldMortgaged)
	case hasT && hasS:
		total, safe = dec(*p.TotalGold), dec(*p.GoldInSafe)
		mort = total.Sub(safe)
	case hasT && hasM:
		total, mort = dec(*p.TotalGold), dec(*p.GoldMortgaged)
		safe = total.Sub(mort)
	case hasS && hasM:
		safe, mort = dec(*p.GoldInSafe), dec(*p.GoldMortgaged)
		total = safe.Add(mort)
	case hasT:
		total = dec(*p.TotalGold)
		if total.GreaterThanOrEqual(mort) {
			safe = total.Sub(mort)
		} else {
			mort = total
			safe = decimal.Zero
		}
	case hasS:
		safe = dec(*p.GoldInSafe)
		mort = total.Sub(safe)
	case hasM:
		mort = dec(*p.GoldMortgaged)
		safe = total.Sub(mort)
	}

	out := Holdings{
		TotalGold:     total.InexactFloat64(),
		GoldInSafe:    safe.InexactFloat64(),
		GoldMortgaged: mort.InexactFloat64(),
	}
	if err := out.Validate(); err != nil {
		return h, err
	}
	return out, nil
}

// Deposit places amount grams of newly custodied gold into the safe.
func (h Holdings) Deposit(amount float64) (Holdings, error) {
	if !(amount > 0) || !finite(amount) {
		return h, ErrInvalidAmount
	}
	a := dec(amount)
	out := Holdings{
		TotalGold:     dec(h.TotalGold).Add(a).InexactFloat64(),
		GoldInSafe:    dec(h.GoldInSafe).Add(a).InexactFloat64(),
		GoldMortgaged: h.GoldMortgaged,
	}
	if err := out.Validate(); err != nil {
		return h, err
	}
	return out, nil
}

// Mortgage moves amount grams from the safe to the mortgaged bucket.
func (h Holdings) Mortgage(amount float64) (Holdings, error) {
	if !(amount > 0) || !finite(amount) {
		return h, ErrInvalidAmount
	}
	if amount > h.GoldInSafe {
		return h, &InsufficientGoldError{Available: h.GoldInSafe, Requested: amount}
	}
	a := dec(amount)
	out := Holdings{
		TotalGold:     h.TotalGold,
		GoldInSafe:    dec(h.GoldInSafe).Sub(a).InexactFloat64(),
		GoldMortgaged: dec(h.GoldMortgaged).Add(a).InexactFloat64(),
	}
	if err := out.Validate(); err != nil {
		return h, err
	}
	return out, nil
}
