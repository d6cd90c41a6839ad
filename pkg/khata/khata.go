// Package khata implements the peer-to-peer ledger ("khata book") for
// informal lending and borrowing, with partial payments and settlement
// tracking.
package khata

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"fundmanager/pkg/models"
)

// ErrNotFound is returned for operations referencing an unknown khata entry
// or payment id.
var ErrNotFound = errors.New("khata entry not found")

// CreateEntryCommand carries the staged form input for a new khata entry.
type CreateEntryCommand struct {
	PersonName  string                `json:"person_name"`
	PhoneNumber string                `json:"phone_number,omitempty"`
	Direction   models.KhataDirection `json:"direction"`
	Amount      decimal.Decimal       `json:"amount"`
	Description string                `json:"description,omitempty"`
	Date        time.Time             `json:"date"`
	DueDate     *time.Time            `json:"due_date,omitempty"`
	Category    string                `json:"category,omitempty"`
	Notes       string                `json:"notes,omitempty"`
}

// Manager owns the khata slice of one user session. An entry's paid amount,
// remaining amount and status are always rederived from its surviving
// payments, never patched in place.
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

// Entries returns a snapshot of all khata entries.
func (m *Manager) Entries() []models.KhataEntry {
	out := make([]models.KhataEntry, len(m.state.KhataEntries))
	copy(out, m.state.KhataEntries)
	return out
}

// Entry returns the entry with the given id.
func (m *Manager) Entry(id uuid.UUID) (*models.KhataEntry, error) {
	idx, err := m.findEntry(id)
	if err != nil {
		return nil, err
	}
	cp := m.state.KhataEntries[idx]
	return &cp, nil
}

// CreateEntry records a new lending or borrowing entry.
func (m *Manager) CreateEntry(cmd CreateEntryCommand) (*models.KhataEntry, error) {
	if cmd.PersonName == "" {
		return nil, fmt.Errorf("person name is required")
	}
	if cmd.Direction != models.KhataGave && cmd.Direction != models.KhataGot {
		return nil, fmt.Errorf("unknown khata direction %q", cmd.Direction)
	}
	if !cmd.Amount.IsPositive() {
		return nil, fmt.Errorf("khata amount must be positive")
	}
	if cmd.Date.IsZero() {
		cmd.Date = time.Now()
	}

	entry := models.KhataEntry{
		ID:              uuid.New(),
		PersonName:      cmd.PersonName,
		PhoneNumber:     cmd.PhoneNumber,
		Direction:       cmd.Direction,
		Amount:          cmd.Amount,
		Description:     cmd.Description,
		Date:            cmd.Date,
		DueDate:         cmd.DueDate,
		Category:        cmd.Category,
		Notes:           cmd.Notes,
		CreatedAt:       time.Now(),
		PaidAmount:      decimal.Zero,
		RemainingAmount: cmd.Amount,
		Status:          models.KhataStatusPending,
	}
	m.state.KhataEntries = append(m.state.KhataEntries, entry)
	m.save()
	return &entry, nil
}

// RecordPayment books a partial or full settlement against an entry. The
// payment must not exceed what is still owed.
func (m *Manager) RecordPayment(entryID uuid.UUID, amount decimal.Decimal, date time.Time, description string) (*models.KhataEntry, error) {
	idx, err := m.findEntry(entryID)
	if err != nil {
		return nil, err
	}
	if !amount.IsPositive() {
		return nil, fmt.Errorf("payment amount must be positive")
	}
	if amount.GreaterThan(m.state.KhataEntries[idx].RemainingAmount) {
		return nil, fmt.Errorf("payment %s exceeds remaining amount %s",
			amount.StringFixed(2), m.state.KhataEntries[idx].RemainingAmount.StringFixed(2))
	}
	if date.IsZero() {
		date = time.Now()
	}

	m.state.KhataPayments = append(m.state.KhataPayments, models.KhataPayment{
		ID:          uuid.New(),
		EntryID:     entryID,
		Amount:      amount,
		Date:        date,
		Description: description,
	})
	m.rederive(idx)
	m.save()
	cp := m.state.KhataEntries[idx]
	return &cp, nil
}

// DeletePayment removes a payment and rederives the owning entry, reopening
// it if it had been settled.
func (m *Manager) DeletePayment(paymentID uuid.UUID) (*models.KhataEntry, error) {
	for i := range m.state.KhataPayments {
		if m.state.KhataPayments[i].ID == paymentID {
			entryID := m.state.KhataPayments[i].EntryID
			m.state.KhataPayments = append(m.state.KhataPayments[:i], m.state.KhataPayments[i+1:]...)
			idx, err := m.findEntry(entryID)
			if err != nil {
				return nil, err
			}
			m.rederive(idx)
			m.save()
			cp := m.state.KhataEntries[idx]
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

// Payments returns all payments booked against an entry, in insertion order.
func (m *Manager) Payments(entryID uuid.UUID) []models.KhataPayment {
	var out []models.KhataPayment
	for _, p := range m.state.KhataPayments {
		if p.EntryID == entryID {
			out = append(out, p)
		}
	}
	return out
}

// DeleteEntry removes an entry and all its payments.
func (m *Manager) DeleteEntry(id uuid.UUID) error {
	idx, err := m.findEntry(id)
	if err != nil {
		return err
	}
	m.state.KhataEntries = append(m.state.KhataEntries[:idx], m.state.KhataEntries[idx+1:]...)

	kept := m.state.KhataPayments[:0]
	for _, p := range m.state.KhataPayments {
		if p.EntryID != id {
			kept = append(kept, p)
		}
	}
	m.state.KhataPayments = kept
	m.save()
	return nil
}

// rederive recomputes paid/remaining/status for the entry at idx from its
// surviving payments.
func (m *Manager) rederive(idx int) {
	entry := &m.state.KhataEntries[idx]

	paid := decimal.Zero
	for _, p := range m.state.KhataPayments {
		if p.EntryID == entry.ID {
			paid = paid.Add(p.Amount)
		}
	}
	entry.PaidAmount = paid
	entry.RemainingAmount = entry.Amount.Sub(paid)

	switch {
	case entry.RemainingAmount.LessThanOrEqual(decimal.Zero):
		entry.RemainingAmount = decimal.Zero
		if entry.Status != models.KhataStatusSettled {
			now := time.Now()
			entry.SettledAt = &now
		}
		entry.Status = models.KhataStatusSettled
	case paid.IsPositive():
		entry.Status = models.KhataStatusPartial
		entry.SettledAt = nil
	default:
		entry.Status = models.KhataStatusPending
		entry.SettledAt = nil
	}
}

func (m *Manager) findEntry(id uuid.UUID) (int, error) {
	for i := range m.state.KhataEntries {
		if m.state.KhataEntries[i].ID == id {
			return i, nil
		}
	}
	return 0, ErrNotFound
}
