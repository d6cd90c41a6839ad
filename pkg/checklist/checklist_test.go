package checklist

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"fundmanager/pkg/models"
)

func newTestManager() *Manager {
	return NewManager(models.NewAppState(), nil)
}

func createTestChecklist(t *testing.T, m *Manager) *models.Checklist {
	t.Helper()
	list, err := m.CreateChecklist("Month end", models.FrequencyMonthly)
	if err != nil {
		t.Fatalf("Failed to create checklist: %v", err)
	}
	return list
}

func TestCreateChecklist(t *testing.T) {
	m := newTestManager()
	createTestChecklist(t, m)

	if len(m.Checklists()) != 1 {
		t.Errorf("Expected 1 checklist, got %d", len(m.Checklists()))
	}

	if _, err := m.CreateChecklist("", models.FrequencyDaily); err == nil {
		t.Error("Expected an error for a missing title")
	}
	if _, err := m.CreateChecklist("x", "fortnightly"); err == nil {
		t.Error("Expected an error for an unknown frequency")
	}
}

func TestAddAndToggleItem(t *testing.T) {
	m := newTestManager()
	list := createTestChecklist(t, m)

	item, err := m.AddItem(list.ID, "Pay rent", "", nil)
	if err != nil {
		t.Fatalf("Failed to add item: %v", err)
	}
	if item.Done {
		t.Error("Expected a new item to start undone")
	}

	toggled, err := m.ToggleItem(list.ID, item.ID)
	if err != nil {
		t.Fatalf("Failed to toggle item: %v", err)
	}
	if !toggled.Done {
		t.Error("Expected the item to be done after one toggle")
	}

	toggled, err = m.ToggleItem(list.ID, item.ID)
	if err != nil {
		t.Fatalf("Failed to toggle item: %v", err)
	}
	if toggled.Done {
		t.Error("Expected the item to be undone after two toggles")
	}
}

func TestDeleteItem(t *testing.T) {
	m := newTestManager()
	list := createTestChecklist(t, m)
	item, err := m.AddItem(list.ID, "Pay rent", "", nil)
	if err != nil {
		t.Fatalf("Failed to add item: %v", err)
	}

	if err := m.DeleteItem(list.ID, item.ID); err != nil {
		t.Fatalf("Failed to delete item: %v", err)
	}
	if len(m.Checklists()[0].Items) != 0 {
		t.Errorf("Expected no items, got %d", len(m.Checklists()[0].Items))
	}
	if err := m.DeleteItem(list.ID, item.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound for a deleted item, got %v", err)
	}
}

func TestOverdue(t *testing.T) {
	m := newTestManager()
	list := createTestChecklist(t, m)

	now := time.Date(2025, 6, 15, 0, 0, 0, 0, time.UTC)
	past := now.AddDate(0, 0, -3)
	future := now.AddDate(0, 0, 3)

	late, err := m.AddItem(list.ID, "File taxes", "", &past)
	if err != nil {
		t.Fatalf("Failed to add item: %v", err)
	}
	if _, err := m.AddItem(list.ID, "Renew insurance", "", &future); err != nil {
		t.Fatalf("Failed to add item: %v", err)
	}
	if _, err := m.AddItem(list.ID, "No due date", "", nil); err != nil {
		t.Fatalf("Failed to add item: %v", err)
	}

	overdue := m.Overdue(now)
	if len(overdue) != 1 || overdue[0].ID != late.ID {
		t.Fatalf("Expected only the past-due item, got %+v", overdue)
	}

	// A completed item is never overdue.
	if _, err := m.ToggleItem(list.ID, late.ID); err != nil {
		t.Fatalf("Failed to toggle item: %v", err)
	}
	if got := m.Overdue(now); len(got) != 0 {
		t.Errorf("Expected no overdue items after completion, got %d", len(got))
	}
}

func TestDeleteChecklist(t *testing.T) {
	m := newTestManager()
	list := createTestChecklist(t, m)

	if err := m.DeleteChecklist(list.ID); err != nil {
		t.Fatalf("Failed to delete checklist: %v", err)
	}
	if len(m.Checklists()) != 0 {
		t.Errorf("Expected no checklists, got %d", len(m.Checklists()))
	}
	if err := m.DeleteChecklist(uuid.New()); !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}
