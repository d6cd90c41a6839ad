// Package budget implements the budget planner: spending envelopes with
// income/expense entries booked against them.
package budget

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"fundmanager/pkg/models"
)

// ErrNotFound is returned for operations referencing an unknown budget or
// entry id.
var ErrNotFound = errors.New("budget not found")

// Manager owns the budget slice of one user session. A budget's SpentAmount
// is never patched incrementally: it is recomputed from the surviving expense
// entries on every mutation, so edits and deletes cannot drift.
type Manager struct {
	state   *models.AppState
	persist func()
}

func NewManager(state *models.AppState, persist func()) *Manager {
	return &Manager{state: state, persist: persist}
}

func (m *Manager) save() {
	if m.persist != nil {
		m.persist()
	}
}

// Budgets returns a snapshot of all budgets.
func (m *Manager) Budgets() []models.Budget {
	out := make([]models.Budget, len(m.state.Budgets))
	copy(out, m.state.Budgets)
	return out
}

// CreateBudget adds a new spending envelope.
func (m *Manager) CreateBudget(name, category string, amount decimal.Decimal, period models.BudgetPeriod, color string) (*models.Budget, error) {
	if name == "" {
		return nil, fmt.Errorf("budget name is required")
	}
	if !amount.IsPositive() {
		return nil, fmt.Errorf("budget amount must be positive")
	}
	if period != models.BudgetPeriodMonthly && period != models.BudgetPeriodYearly {
		return nil, fmt.Errorf("unknown budget period %q", period)
	}

	b := models.Budget{
		ID:           uuid.New(),
		Name:         name,
		Category:     category,
		BudgetAmount: amount,
		SpentAmount:  decimal.Zero,
		Period:       period,
		Color:        color,
		CreatedAt:    time.Now(),
	}
	m.state.Budgets = append(m.state.Budgets, b)
	m.save()
	return &b, nil
}

// DeleteBudget removes a budget and every entry booked against it.
func (m *Manager) DeleteBudget(id uuid.UUID) error {
	idx, err := m.findBudget(id)
	if err != nil {
		return err
	}
	m.state.Budgets = append(m.state.Budgets[:idx], m.state.Budgets[idx+1:]...)

	kept := m.state.BudgetEntries[:0]
	for _, e := range m.state.BudgetEntries {
		if e.BudgetID != id {
			kept = append(kept, e)
		}
	}
	m.state.BudgetEntries = kept
	m.save()
	return nil
}

// AddEntry books an income or expense against a budget and refreshes the
// budget's spent amount.
func (m *Manager) AddEntry(budgetID uuid.UUID, amount decimal.Decimal, description string, date time.Time, entryType models.EntryType, category string) (*models.BudgetEntry, error) {
	idx, err := m.findBudget(budgetID)
	if err != nil {
		return nil, err
	}
	if !amount.IsPositive() {
		return nil, fmt.Errorf("entry amount must be positive")
	}
	if entryType != models.EntryTypeIncome && entryType != models.EntryTypeExpense {
		return nil, fmt.Errorf("unknown entry type %q", entryType)
	}
	if date.IsZero() {
		date = time.Now()
	}

	entry := models.BudgetEntry{
		ID:          uuid.New(),
		BudgetID:    budgetID,
		Amount:      amount,
		Description: description,
		Date:        date,
		Type:        entryType,
		Category:    category,
	}
	m.state.BudgetEntries = append(m.state.BudgetEntries, entry)
	m.refreshSpent(idx)
	m.save()
	return &entry, nil
}

// DeleteEntry removes an entry and refreshes the owning budget.
func (m *Manager) DeleteEntry(entryID uuid.UUID) error {
	for i := range m.state.BudgetEntries {
		if m.state.BudgetEntries[i].ID == entryID {
			budgetID := m.state.BudgetEntries[i].BudgetID
			m.state.BudgetEntries = append(m.state.BudgetEntries[:i], m.state.BudgetEntries[i+1:]...)
			if idx, err := m.findBudget(budgetID); err == nil {
				m.refreshSpent(idx)
			}
			m.save()
			return nil
		}
	}
	return ErrNotFound
}

// Entries returns all entries booked against a budget, in insertion order.
func (m *Manager) Entries(budgetID uuid.UUID) []models.BudgetEntry {
	var out []models.BudgetEntry
	for _, e := range m.state.BudgetEntries {
		if e.BudgetID == budgetID {
			out = append(out, e)
		}
	}
	return out
}

// Totals reports the summed budget and spent amounts across all budgets.
func (m *Manager) Totals() (budgeted, spent decimal.Decimal) {
	budgeted, spent = decimal.Zero, decimal.Zero
	for _, b := range m.state.Budgets {
		budgeted = budgeted.Add(b.BudgetAmount)
		spent = spent.Add(b.SpentAmount)
	}
	return budgeted, spent
}

func (m *Manager) refreshSpent(idx int) {
	spent := decimal.Zero
	for _, e := range m.state.BudgetEntries {
		if e.BudgetID == m.state.Budgets[idx].ID && e.Type == models.EntryTypeExpense {
			spent = spent.Add(e.Amount)
		}
	}
	m.state.Budgets[idx].SpentAmount = spent
}

func (m *Manager) findBudget(id uuid.UUID) (int, error) {
	for i := range m.state.Budgets {
		if m.state.Budgets[i].ID == id {
			return i, nil
		}
	}
	return 0, ErrNotFound
}
