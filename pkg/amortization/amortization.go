// Package amortization computes equal-installment (EMI) repayment plans for
// fixed-rate loans. Amounts are carried as decimals and rounded to 2 places
// only at the installment boundary.
package amortization

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidPrincipal = errors.New("principal must be greater than zero")
	ErrInvalidRate      = errors.New("annual rate must not be negative")
	ErrInvalidTerm      = errors.New("term must be at least one month")
)

var (
	hundred = decimal.NewFromInt(100)
	twelve  = decimal.NewFromInt(12)
)

type Installment struct {
	Number    int
	DueDate   time.Time
	Payment   decimal.Decimal
	Principal decimal.Decimal
	Interest  decimal.Decimal
	Balance   decimal.Decimal // outstanding after this installment
}

type Plan struct {
	Principal         decimal.Decimal
	AnnualRatePercent decimal.Decimal
	Months            int
	MonthlyPayment    decimal.Decimal
	TotalInterest     decimal.Decimal
	TotalPayment      decimal.Decimal
	Installments      []Installment
}

func validate(principal, annualRatePercent float64, months int) error {
	switch {
	case principal <= 0:
		return ErrInvalidPrincipal
	case annualRatePercent < 0:
		return ErrInvalidRate
	case months < 1:
		return ErrInvalidTerm
	}
	return nil
}

func monthlyRate(annualRatePercent decimal.Decimal) decimal.Decimal {
	return annualRatePercent.Div(hundred).Div(twelve)
}

// emi = P·r·(1+r)^n / ((1+r)^n − 1); with r == 0 it degrades to P/n.
func emi(p, r decimal.Decimal, months int) decimal.Decimal {
	n := decimal.NewFromInt(int64(months))
	if r.IsZero() {
		return p.Div(n)
	}
	f := decimal.NewFromInt(1).Add(r).Pow(n)
	return p.Mul(r).Mul(f).Div(f.Sub(decimal.NewFromInt(1)))
}

// MonthlyPayment returns the installment for principal at annualRatePercent
// over months, rounded to 2 decimal places. Invalid input yields 0.
func MonthlyPayment(principal, annualRatePercent float64, months int) float64 {
	if validate(principal, annualRatePercent, months) != nil {
		return 0
	}
	p := decimal.NewFromFloat(principal)
	r := monthlyRate(decimal.NewFromFloat(annualRatePercent))
	return emi(p, r, months).Round(2).InexactFloat64()
}

// Build returns the full repayment plan. The first installment is due one
// calendar month after start; the last installment absorbs rounding residue so
// the closing balance is exactly zero.
func Build(principal, annualRatePercent float64, months int, start time.Time) (Plan, error) {
	if err := validate(principal, annualRatePercent, months); err != nil {
		return Plan{}, err
	}
	p := decimal.NewFromFloat(principal)
	rate := decimal.NewFromFloat(annualRatePercent)
	r := monthlyRate(rate)
	pay := emi(p, r, months).Round(2)

	plan := Plan{
		Principal:         p,
		AnnualRatePercent: rate,
		Months:            months,
		MonthlyPayment:    pay,
		Installments:      make([]Installment, 0, months),
	}

	balance := p
	for i := 1; i <= months; i++ {
		interest := balance.Mul(r).Round(2)
		payment := pay
		principalPart := payment.Sub(interest)
		if i == months || principalPart.GreaterThan(balance) {
			principalPart = balance
			payment = principalPart.Add(interest)
		}
		balance = balance.Sub(principalPart)

		plan.Installments = append(plan.Installments, Installment{
			Number:    i,
			DueDate:   AddMonths(start, i),
			Payment:   payment,
			Principal: principalPart,
			Interest:  interest,
			Balance:   balance,
		})
		plan.TotalInterest = plan.TotalInterest.Add(interest)
		plan.TotalPayment = plan.TotalPayment.Add(payment)
	}
	return plan, nil
}

// AddMonths adds n calendar months to t, keeping the time of day and clamping
// the day to the last valid day of the target month (Jan 31 + 1 = Feb 28/29).
func AddMonths(t time.Time, n int) time.Time {
	y, m, d := t.Date()
	first := time.Date(y, m+time.Month(n), 1, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
	last := first.AddDate(0, 1, -1).Day()
	if d > last {
		d = last
	}
	return time.Date(first.Year(), first.Month(), d, t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}
