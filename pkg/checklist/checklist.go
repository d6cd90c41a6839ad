// Package checklist implements recurring financial checklists with due
// dates and overdue detection for reminders.
package checklist

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"fundmanager/pkg/models"
)

// ErrNotFound is returned for operations referencing an unknown checklist or
// item id.
var ErrNotFound = errors.New("checklist not found")

// Manager owns the checklist slice of one user session.
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

// Checklists returns a snapshot of all checklists.
func (m *Manager) Checklists() []models.Checklist {
	out := make([]models.Checklist, len(m.state.Checklists))
	copy(out, m.state.Checklists)
	return out
}

// CreateChecklist adds a new recurring checklist.
func (m *Manager) CreateChecklist(title string, frequency models.ChecklistFrequency) (*models.Checklist, error) {
	if title == "" {
		return nil, fmt.Errorf("checklist title is required")
	}
	switch frequency {
	case models.FrequencyDaily, models.FrequencyWeekly, models.FrequencyMonthly, models.FrequencyYearly:
	default:
		return nil, fmt.Errorf("unknown checklist frequency %q", frequency)
	}

	list := models.Checklist{
		ID:        uuid.New(),
		Title:     title,
		Frequency: frequency,
		Items:     []models.ChecklistItem{},
	}
	m.state.Checklists = append(m.state.Checklists, list)
	m.save()
	return &list, nil
}

// DeleteChecklist removes a checklist together with its items.
func (m *Manager) DeleteChecklist(id uuid.UUID) error {
	idx, err := m.findChecklist(id)
	if err != nil {
		return err
	}
	m.state.Checklists = append(m.state.Checklists[:idx], m.state.Checklists[idx+1:]...)
	m.save()
	return nil
}

// AddItem appends a new task to a checklist.
func (m *Manager) AddItem(checklistID uuid.UUID, title, description string, dueDate *time.Time) (*models.ChecklistItem, error) {
	idx, err := m.findChecklist(checklistID)
	if err != nil {
		return nil, err
	}
	if title == "" {
		return nil, fmt.Errorf("item title is required")
	}

	item := models.ChecklistItem{
		ID:          uuid.New(),
		Title:       title,
		Description: description,
		DueDate:     dueDate,
	}
	m.state.Checklists[idx].Items = append(m.state.Checklists[idx].Items, item)
	m.save()
	return &item, nil
}

// ToggleItem flips an item's done flag.
func (m *Manager) ToggleItem(checklistID, itemID uuid.UUID) (*models.ChecklistItem, error) {
	idx, err := m.findChecklist(checklistID)
	if err != nil {
		return nil, err
	}
	items := m.state.Checklists[idx].Items
	for i := range items {
		if items[i].ID == itemID {
			items[i].Done = !items[i].Done
			m.save()
			cp := items[i]
			return &cp, nil
		}
	}
	return nil, ErrNotFound
}

// DeleteItem removes a task from a checklist.
func (m *Manager) DeleteItem(checklistID, itemID uuid.UUID) error {
	idx, err := m.findChecklist(checklistID)
	if err != nil {
		return err
	}
	items := m.state.Checklists[idx].Items
	for i := range items {
		if items[i].ID == itemID {
			m.state.Checklists[idx].Items = append(items[:i], items[i+1:]...)
			m.save()
			return nil
		}
	}
	return ErrNotFound
}

// Overdue returns every item across all checklists whose due date is before
// now and which is not done yet.
func (m *Manager) Overdue(now time.Time) []models.ChecklistItem {
	var out []models.ChecklistItem
	for _, list := range m.state.Checklists {
		for _, item := range list.Items {
			if item.DueDate != nil && item.DueDate.Before(now) && !item.Done {
				out = append(out, item)
			}
		}
	}
	return out
}

func (m *Manager) findChecklist(id uuid.UUID) (int, error) {
	for i := range m.state.Checklists {
		if m.state.Checklists[i].ID == id {
			return i, nil
		}
	}
	return 0, ErrNotFound
}
