package emi

import (
	"github.com/shopspring/decimal"

	"fundmanager/pkg/metrics"
	"fundmanager/pkg/models"
)

// maxAmortizationIterations caps the tenure-reduction simulation. A schedule
// that has not paid off after this many periods is not amortizing at all
// (the installment no longer covers interest) and is reported as an error
// instead of being silently truncated.
const maxAmortizationIterations = 1000

// Result is the derived state of a loan after replaying its ledger.
type Result struct {
	Installment          decimal.Decimal
	PaidPeriods          int
	RemainingPeriods     int
	Tenure               int
	OutstandingPrincipal decimal.Decimal
	PaidInterest         decimal.Decimal
	RemainingInterest    decimal.Decimal
	TotalInterest        decimal.Decimal
}

// Replay derives a loan's current state from its original terms and its
// date-sorted transaction list. It is a pure function of its arguments:
// replaying the same ledger twice yields identical results, and removing a
// transaction and replaying is the same as never having added it.
//
// Rate changes take effect at their position in the sorted list, not by
// comparison with the wall clock; the recorded prepayment strategy on each
// prepayment transaction decides whether it lowers the installment or the
// tenure.
func Replay(principal, annualRatePercent decimal.Decimal, tenureMonths int, sorted []models.Transaction) (*Result, error) {
	metrics.Replays.Inc()

	remaining := principal
	rate := annualRatePercent
	tenure := tenureMonths
	installment := Installment(principal, rate, tenure)
	paid := 0
	paidInterest := decimal.Zero

	for i := range sorted {
		txn := &sorted[i]
		switch txn.Kind {
		case models.TransactionKindEMI:
			interest := remaining.Mul(monthlyRate(rate))
			paidInterest = paidInterest.Add(interest)
			remaining = remaining.Sub(installment.Sub(interest))
			paid++

		case models.TransactionKindRateChange:
			rate = txn.NewRate
			installment = Installment(remaining, rate, tenure-paid)

		case models.TransactionKindPrepayment:
			if txn.Amount.GreaterThan(remaining) {
				return nil, validationErrorf("amount",
					"prepayment %s exceeds outstanding principal %s",
					txn.Amount.StringFixed(displayPrecision), remaining.StringFixed(displayPrecision))
			}
			remaining = remaining.Sub(txn.Amount)

			switch txn.Strategy {
			case models.PrepaymentReduceEMI:
				// Tenure stays; the installment is recomputed for the reduced
				// principal over the full schedule.
				installment = Installment(remaining, rate, tenure)
			case models.PrepaymentReduceTenure:
				months, err := monthsToAmortize(remaining, rate, installment)
				if err != nil {
					return nil, err
				}
				tenure = paid + months
			default:
				return nil, validationErrorf("strategy", "prepayment requires a reduce-emi or reduce-tenure choice")
			}

		case models.TransactionKindFee, models.TransactionKindOther:
			// Recorded for history only; no effect on the schedule.
		}
	}

	remainingPeriods := tenure - paid
	if remainingPeriods < 0 {
		// More installments recorded than the schedule calls for.
		remainingPeriods = 0
		tenure = paid
	}

	// Project the rest of the schedule at the latest known rate without
	// touching the ledger.
	remainingInterest := decimal.Zero
	projected := remaining
	periodic := monthlyRate(rate)
	for i := 0; i < remainingPeriods; i++ {
		interest := projected.Mul(periodic)
		remainingInterest = remainingInterest.Add(interest)
		projected = projected.Sub(installment.Sub(interest))
	}

	outstanding := remaining
	if outstanding.IsNegative() {
		outstanding = decimal.Zero
	}

	return &Result{
		Installment:          installment.Round(displayPrecision),
		PaidPeriods:          paid,
		RemainingPeriods:     remainingPeriods,
		Tenure:               tenure,
		OutstandingPrincipal: outstanding.Round(displayPrecision),
		PaidInterest:         paidInterest.Round(displayPrecision),
		RemainingInterest:    remainingInterest.Round(displayPrecision),
		TotalInterest:        paidInterest.Add(remainingInterest).Round(displayPrecision),
	}, nil
}

// monthsToAmortize simulates period-by-period repayment of principal at the
// given fixed installment and returns how many periods it takes to reach a
// non-positive balance. ErrNonConverging is returned when the cap is hit.
func monthsToAmortize(principal, annualRatePercent, installment decimal.Decimal) (int, error) {
	periodic := monthlyRate(annualRatePercent)
	remaining := principal
	months := 0
	for remaining.IsPositive() && months < maxAmortizationIterations {
		interest := remaining.Mul(periodic)
		remaining = remaining.Sub(installment.Sub(interest))
		months++
	}
	if remaining.IsPositive() {
		return 0, ErrNonConverging
	}
	return months, nil
}
