package emi

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"fundmanager/pkg/models"
)

func newTestManager() (*Manager, *int) {
	saves := 0
	m := NewManager(models.NewAppState(), func() { saves++ })
	return m, &saves
}

func createTestLoan(t *testing.T, m *Manager) *models.Loan {
	t.Helper()
	loan, err := m.CreateLoan(models.CreateLoanCommand{
		Name:         "Home loan",
		Type:         models.LoanTypeHome,
		Principal:    decimal.NewFromInt(500000),
		AnnualRate:   decimal.NewFromInt(9),
		TenureMonths: 60,
		StartDate:    time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("Failed to create loan: %v", err)
	}
	return loan
}

func TestCreateLoan(t *testing.T) {
	m, saves := newTestManager()
	loan := createTestLoan(t, m)

	if loan.PaidPeriods != 0 || loan.RemainingPeriods != 60 {
		t.Errorf("Expected a fresh 0/60 loan, got %d/%d", loan.PaidPeriods, loan.RemainingPeriods)
	}
	within(t, "installment", loan.Installment, 10379.18, 0.5)

	wantDue := time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	if !loan.NextDueDate.Equal(wantDue) {
		t.Errorf("Expected next due date %s, got %s", wantDue, loan.NextDueDate)
	}
	if *saves != 1 {
		t.Errorf("Expected 1 save after creation, got %d", *saves)
	}
}

func TestCreateLoanValidation(t *testing.T) {
	m, _ := newTestManager()

	cases := []models.CreateLoanCommand{
		{Type: models.LoanTypeHome, Principal: decimal.NewFromInt(1000), AnnualRate: decimal.NewFromInt(9), TenureMonths: 12, StartDate: time.Now()},
		{Name: "x", Type: "boat", Principal: decimal.NewFromInt(1000), AnnualRate: decimal.NewFromInt(9), TenureMonths: 12, StartDate: time.Now()},
		{Name: "x", Type: models.LoanTypeCar, Principal: decimal.Zero, AnnualRate: decimal.NewFromInt(9), TenureMonths: 12, StartDate: time.Now()},
		{Name: "x", Type: models.LoanTypeCar, Principal: decimal.NewFromInt(1000), AnnualRate: decimal.NewFromInt(-1), TenureMonths: 12, StartDate: time.Now()},
		{Name: "x", Type: models.LoanTypeCar, Principal: decimal.NewFromInt(1000), AnnualRate: decimal.NewFromInt(9), TenureMonths: 0, StartDate: time.Now()},
		{Name: "x", Type: models.LoanTypeCar, Principal: decimal.NewFromInt(1000), AnnualRate: decimal.NewFromInt(9), TenureMonths: 12},
	}
	for i, cmd := range cases {
		if _, err := m.CreateLoan(cmd); !IsValidation(err) {
			t.Errorf("case %d: expected a validation error, got %v", i, err)
		}
	}
	if len(m.Loans()) != 0 {
		t.Errorf("Rejected commands must not create loans, got %d", len(m.Loans()))
	}
}

func TestRecordInstallmentTransaction(t *testing.T) {
	m, _ := newTestManager()
	loan := createTestLoan(t, m)

	updated, err := m.RecordTransaction(loan.ID, models.RecordTransactionCommand{
		Date:   loan.StartDate.AddDate(0, 1, 0),
		Amount: loan.Installment,
		Kind:   models.TransactionKindEMI,
	})
	if err != nil {
		t.Fatalf("Failed to record transaction: %v", err)
	}

	if updated.PaidPeriods != 1 || updated.RemainingPeriods != 59 {
		t.Errorf("Expected 1/59 periods, got %d/%d", updated.PaidPeriods, updated.RemainingPeriods)
	}
	within(t, "paid interest", updated.PaidInterest, 3750.00, 0.01)
	within(t, "outstanding", updated.OutstandingPrincipal, 493370.82, 0.5)

	wantDue := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	if !updated.NextDueDate.Equal(wantDue) {
		t.Errorf("Expected next due date %s, got %s", wantDue, updated.NextDueDate)
	}
}

func TestMarkInstallmentPaid(t *testing.T) {
	m, _ := newTestManager()
	loan := createTestLoan(t, m)

	updated, err := m.MarkInstallmentPaid(loan.ID)
	if err != nil {
		t.Fatalf("Failed to mark installment paid: %v", err)
	}
	if updated.PaidPeriods != 1 {
		t.Errorf("Expected 1 paid period, got %d", updated.PaidPeriods)
	}
	if len(updated.Transactions) != 1 {
		t.Fatalf("Expected 1 transaction, got %d", len(updated.Transactions))
	}
	txn := updated.Transactions[0]
	if txn.Kind != models.TransactionKindEMI {
		t.Errorf("Expected an emi transaction, got %q", txn.Kind)
	}
	if !txn.Amount.Equal(loan.Installment) {
		t.Errorf("Expected amount %s, got %s", loan.Installment, txn.Amount)
	}
}

func TestDeleteTransactionRestoresState(t *testing.T) {
	m, _ := newTestManager()
	loan := createTestLoan(t, m)

	// Some history first.
	for i := 1; i <= 3; i++ {
		var err error
		loan, err = m.RecordTransaction(loan.ID, models.RecordTransactionCommand{
			Date:   loan.StartDate.AddDate(0, i, 0),
			Amount: loan.Installment,
			Kind:   models.TransactionKindEMI,
		})
		if err != nil {
			t.Fatalf("Failed to record installment %d: %v", i, err)
		}
	}
	before := *loan

	added, err := m.RecordTransaction(loan.ID, models.RecordTransactionCommand{
		Date:     loan.StartDate.AddDate(0, 3, 15),
		Amount:   decimal.NewFromInt(25000),
		Kind:     models.TransactionKindPrepayment,
		Strategy: models.PrepaymentReduceTenure,
	})
	if err != nil {
		t.Fatalf("Failed to record prepayment: %v", err)
	}
	prepayID := added.Transactions[len(added.Transactions)-1].ID

	after, err := m.DeleteTransaction(loan.ID, prepayID)
	if err != nil {
		t.Fatalf("Failed to delete prepayment: %v", err)
	}

	if !after.Installment.Equal(before.Installment) ||
		!after.PaidInterest.Equal(before.PaidInterest) ||
		!after.RemainingInterest.Equal(before.RemainingInterest) ||
		!after.OutstandingPrincipal.Equal(before.OutstandingPrincipal) ||
		after.RemainingPeriods != before.RemainingPeriods ||
		after.RevisedTenure != before.RevisedTenure {
		t.Errorf("Add-then-delete must restore the derived state:\nbefore %+v\nafter  %+v", before, after)
	}
	if len(after.Transactions) != len(before.Transactions) {
		t.Errorf("Expected %d transactions after deletion, got %d",
			len(before.Transactions), len(after.Transactions))
	}
}

func TestRejectedPrepaymentLeavesLedgerUnchanged(t *testing.T) {
	m, saves := newTestManager()
	loan := createTestLoan(t, m)
	savesBefore := *saves

	_, err := m.RecordTransaction(loan.ID, models.RecordTransactionCommand{
		Date:     loan.StartDate.AddDate(0, 1, 0),
		Amount:   decimal.NewFromInt(600000),
		Kind:     models.TransactionKindPrepayment,
		Strategy: models.PrepaymentReduceEMI,
	})
	if !IsValidation(err) {
		t.Fatalf("Expected a validation error, got %v", err)
	}

	current, err := m.Loan(loan.ID)
	if err != nil {
		t.Fatalf("Failed to fetch loan: %v", err)
	}
	if len(current.Transactions) != 0 {
		t.Errorf("Rejected prepayment must not be committed, found %d transactions", len(current.Transactions))
	}
	if *saves != savesBefore {
		t.Errorf("Rejected mutation must not persist, saves went %d -> %d", savesBefore, *saves)
	}
}

func TestRecordTransactionValidation(t *testing.T) {
	m, _ := newTestManager()
	loan := createTestLoan(t, m)

	cases := []models.RecordTransactionCommand{
		{Amount: decimal.NewFromInt(100), Kind: models.TransactionKindEMI}, // no date
		{Date: time.Now(), Kind: models.TransactionKindEMI},                // no amount
		{Date: time.Now(), Amount: decimal.NewFromInt(-5), Kind: models.TransactionKindFee},
		{Date: time.Now(), Kind: models.TransactionKindRateChange}, // no new rate
		{Date: time.Now(), Amount: decimal.NewFromInt(100), Kind: "bonus"},
		{Date: time.Now(), Amount: decimal.NewFromInt(100), Kind: models.TransactionKindPrepayment, Strategy: "split"},
	}
	for i, cmd := range cases {
		if _, err := m.RecordTransaction(loan.ID, cmd); !IsValidation(err) {
			t.Errorf("case %d: expected a validation error, got %v", i, err)
		}
	}
}

func TestEditTransaction(t *testing.T) {
	m, _ := newTestManager()
	loan := createTestLoan(t, m)

	updated, err := m.RecordTransaction(loan.ID, models.RecordTransactionCommand{
		Date:   loan.StartDate.AddDate(0, 1, 0),
		Amount: loan.Installment,
		Kind:   models.TransactionKindEMI,
	})
	if err != nil {
		t.Fatalf("Failed to record transaction: %v", err)
	}
	txnID := updated.Transactions[0].ID

	// Turn the installment into a fee: the period is no longer paid.
	edited, err := m.RecordTransaction(loan.ID, models.RecordTransactionCommand{
		ID:     txnID,
		Date:   loan.StartDate.AddDate(0, 1, 0),
		Amount: decimal.NewFromInt(500),
		Kind:   models.TransactionKindFee,
	})
	if err != nil {
		t.Fatalf("Failed to edit transaction: %v", err)
	}

	if edited.PaidPeriods != 0 {
		t.Errorf("Expected 0 paid periods after edit, got %d", edited.PaidPeriods)
	}
	if len(edited.Transactions) != 1 {
		t.Errorf("Edit must replace, not append: got %d transactions", len(edited.Transactions))
	}
}

func TestDeleteLoan(t *testing.T) {
	m, _ := newTestManager()
	loan := createTestLoan(t, m)

	if err := m.DeleteLoan(loan.ID); err != nil {
		t.Fatalf("Failed to delete loan: %v", err)
	}
	if _, err := m.Loan(loan.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound after deletion, got %v", err)
	}
	if err := m.DeleteLoan(uuid.New()); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound for unknown loan, got %v", err)
	}
}

func TestUnknownLoanID(t *testing.T) {
	m, _ := newTestManager()

	if _, err := m.Loan(uuid.New()); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
	_, err := m.RecordTransaction(uuid.New(), models.RecordTransactionCommand{
		Date: time.Now(), Amount: decimal.NewFromInt(1), Kind: models.TransactionKindEMI,
	})
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}
