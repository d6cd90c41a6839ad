// Package emi implements the loan amortization core: the installment
// calculator, the per-loan transaction ledger, the replay engine that derives
// a loan's current state from its full transaction history, and the record
// manager that ties the three together over the persistence collaborator.
package emi

import (
	"github.com/shopspring/decimal"
)

var (
	one              = decimal.NewFromInt(1)
	percentPerMonth  = decimal.NewFromInt(1200)
	displayPrecision = int32(2)
)

// monthlyRate converts a nominal annual percentage rate into the periodic
// rate used by every interest computation: annualRatePercent / (12 * 100).
func monthlyRate(annualRatePercent decimal.Decimal) decimal.Decimal {
	return annualRatePercent.Div(percentPerMonth)
}

// Installment computes the fixed monthly payment for an amortizing loan:
//
//	installment = P * r * (1+r)^n / ((1+r)^n - 1)
//
// with r the monthly rate. A zero rate degenerates to principal/periods (the
// closed form divides by zero there), and non-positive principal or periods
// yield zero.
func Installment(principal, annualRatePercent decimal.Decimal, periods int) decimal.Decimal {
	if periods <= 0 || principal.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	if annualRatePercent.IsZero() {
		return principal.Div(decimal.NewFromInt(int64(periods)))
	}

	r := monthlyRate(annualRatePercent)
	compound := one.Add(r).Pow(decimal.NewFromInt(int64(periods)))
	return principal.Mul(r).Mul(compound).Div(compound.Sub(one))
}

// TotalInterest is the interest paid over a full schedule at a fixed
// installment: installment*periods - principal.
func TotalInterest(installment decimal.Decimal, periods int, principal decimal.Decimal) decimal.Decimal {
	return installment.Mul(decimal.NewFromInt(int64(periods))).Sub(principal)
}

// PrepaymentImpact previews what a lump-sum prepayment would do to a
// hypothetical loan: the new installment over the same tenure and the total
// interest saved versus the original schedule.
func PrepaymentImpact(principal, prepayment, annualRatePercent decimal.Decimal, periods int) (newInstallment, interestSaved decimal.Decimal) {
	newPrincipal := principal.Sub(prepayment)
	newInstallment = Installment(newPrincipal, annualRatePercent, periods)

	before := TotalInterest(Installment(principal, annualRatePercent, periods), periods, principal)
	after := TotalInterest(newInstallment, periods, newPrincipal)
	return newInstallment, before.Sub(after)
}
