package session

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"fundmanager/pkg/models"
	"fundmanager/pkg/store"
)

func TestOpenFreshPartition(t *testing.T) {
	s, err := Open(store.NewMemoryStore(), "user-1")
	if err != nil {
		t.Fatalf("Failed to open session: %v", err)
	}
	if s.State == nil || len(s.State.Loans) != 0 {
		t.Errorf("Expected an empty state, got %+v", s.State)
	}
}

func TestMutationsSurviveReopen(t *testing.T) {
	mem := store.NewMemoryStore()

	s, err := Open(mem, "user-1")
	if err != nil {
		t.Fatalf("Failed to open session: %v", err)
	}
	loan, err := s.Loans.CreateLoan(models.CreateLoanCommand{
		Name:         "Bike loan",
		Type:         models.LoanTypeCar,
		Principal:    decimal.NewFromInt(120000),
		AnnualRate:   decimal.NewFromInt(10),
		TenureMonths: 24,
		StartDate:    time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("Failed to create loan: %v", err)
	}

	reopened, err := Open(mem, "user-1")
	if err != nil {
		t.Fatalf("Failed to reopen session: %v", err)
	}
	loans := reopened.Loans.Loans()
	if len(loans) != 1 {
		t.Fatalf("Expected 1 persisted loan, got %d", len(loans))
	}
	if loans[0].ID != loan.ID {
		t.Errorf("Expected loan %s, got %s", loan.ID, loans[0].ID)
	}
	if !loans[0].Installment.Equal(loan.Installment) {
		t.Errorf("Expected installment %s, got %s", loan.Installment, loans[0].Installment)
	}
}

func TestPartitionsDoNotLeak(t *testing.T) {
	mem := store.NewMemoryStore()

	s1, err := Open(mem, "user-1")
	if err != nil {
		t.Fatalf("Failed to open session: %v", err)
	}
	if _, err := s1.Budgets.CreateBudget("Rent", "housing", decimal.NewFromInt(15000), models.BudgetPeriodMonthly, ""); err != nil {
		t.Fatalf("Failed to create budget: %v", err)
	}

	s2, err := Open(mem, "user-2")
	if err != nil {
		t.Fatalf("Failed to open session: %v", err)
	}
	if got := s2.Budgets.Budgets(); len(got) != 0 {
		t.Errorf("Expected user-2 to see no budgets, got %d", len(got))
	}
}

func TestManagersShareOneState(t *testing.T) {
	s, err := Open(store.NewMemoryStore(), "user-1")
	if err != nil {
		t.Fatalf("Failed to open session: %v", err)
	}
	if _, err := s.Checklists.CreateChecklist("Weekly review", models.FrequencyWeekly); err != nil {
		t.Fatalf("Failed to create checklist: %v", err)
	}
	if len(s.State.Checklists) != 1 {
		t.Errorf("Expected the manager to mutate the shared state, got %d checklists", len(s.State.Checklists))
	}
}
