package emi

import (
	"testing"

	"github.com/shopspring/decimal"
)

// within asserts that got is inside [want-tol, want+tol].
func within(t *testing.T, name string, got decimal.Decimal, want float64, tol float64) {
	t.Helper()
	diff := got.Sub(decimal.NewFromFloat(want)).Abs()
	if diff.GreaterThan(decimal.NewFromFloat(tol)) {
		t.Errorf("%s: expected %v (±%v), got %s", name, want, tol, got)
	}
}

func TestInstallment(t *testing.T) {
	// 500000 at 9% over 60 months.
	got := Installment(decimal.NewFromInt(500000), decimal.NewFromInt(9), 60)
	within(t, "installment", got, 10379.18, 0.5)
}

func TestInstallmentZeroRate(t *testing.T) {
	got := Installment(decimal.NewFromInt(120000), decimal.Zero, 24)
	want := decimal.NewFromInt(5000)
	if !got.Equal(want) {
		t.Errorf("Expected installment %s at zero rate, got %s", want, got)
	}
}

func TestInstallmentDegenerateInputs(t *testing.T) {
	cases := []struct {
		name      string
		principal decimal.Decimal
		rate      decimal.Decimal
		periods   int
	}{
		{"zero principal", decimal.Zero, decimal.NewFromInt(9), 60},
		{"zero periods", decimal.NewFromInt(500000), decimal.NewFromInt(9), 0},
		{"negative principal", decimal.NewFromInt(-1), decimal.NewFromInt(9), 60},
	}
	for _, tc := range cases {
		if got := Installment(tc.principal, tc.rate, tc.periods); !got.IsZero() {
			t.Errorf("%s: expected 0, got %s", tc.name, got)
		}
	}
}

func TestInstallmentCoversPrincipal(t *testing.T) {
	// installment * n >= principal for all positive inputs; equality only at
	// zero rate (up to division precision).
	cases := []struct {
		principal float64
		rate      float64
		periods   int
	}{
		{500000, 9, 60},
		{100000, 5, 360},
		{1000, 0, 3},
		{250000, 12.5, 120},
		{75000, 0.1, 12},
	}
	eps := decimal.NewFromFloat(0.000001)
	for _, tc := range cases {
		p := decimal.NewFromFloat(tc.principal)
		r := decimal.NewFromFloat(tc.rate)
		total := Installment(p, r, tc.periods).Mul(decimal.NewFromInt(int64(tc.periods)))
		if total.Add(eps).LessThan(p) {
			t.Errorf("P=%v r=%v n=%d: total payments %s below principal %s",
				tc.principal, tc.rate, tc.periods, total, p)
		}
	}
}

func TestTotalInterest(t *testing.T) {
	installment := Installment(decimal.NewFromInt(500000), decimal.NewFromInt(9), 60)
	got := TotalInterest(installment, 60, decimal.NewFromInt(500000))
	within(t, "total interest", got, 122750.66, 1.0)
}

func TestPrepaymentImpact(t *testing.T) {
	newInstallment, saved := PrepaymentImpact(
		decimal.NewFromInt(500000), decimal.NewFromInt(50000), decimal.NewFromInt(9), 60)

	full := Installment(decimal.NewFromInt(500000), decimal.NewFromInt(9), 60)
	if !newInstallment.LessThan(full) {
		t.Errorf("Expected reduced installment below %s, got %s", full, newInstallment)
	}
	if !saved.IsPositive() {
		t.Errorf("Expected positive interest savings, got %s", saved)
	}
}
