// Package session ties one authenticated user's application state to the
// persistence collaborator and hands out the per-domain record managers that
// mutate it.
package session

import (
	"fmt"
	"log"

	"fundmanager/pkg/budget"
	"fundmanager/pkg/checklist"
	"fundmanager/pkg/emi"
	"fundmanager/pkg/khata"
	"fundmanager/pkg/models"
	"fundmanager/pkg/store"
)

// Session holds the in-memory state of one user and the managers over it.
// State is loaded once when the session opens; every committed mutation
// triggers a save, but a failed save never rolls back the in-memory change.
type Session struct {
	storage   store.Storage
	partition string

	State      *models.AppState
	Loans      *emi.Manager
	Budgets    *budget.Manager
	Khata      *khata.Manager
	Checklists *checklist.Manager
}

// Open loads the partition's state (creating an empty one on first use) and
// wires up the managers.
func Open(storage store.Storage, partition string) (*Session, error) {
	state, err := storage.Load(partition)
	if err != nil {
		return nil, fmt.Errorf("failed to open session for %s: %w", partition, err)
	}
	if state == nil {
		state = models.NewAppState()
	}

	s := &Session{
		storage:   storage,
		partition: partition,
		State:     state,
	}
	s.Loans = emi.NewManager(state, s.persist)
	s.Budgets = budget.NewManager(state, s.persist)
	s.Khata = khata.NewManager(state, s.persist)
	s.Checklists = checklist.NewManager(state, s.persist)
	return s, nil
}

// persist is fire-and-forget: saving is eventual, a failure is logged and
// the next mutation will try again with the full state.
func (s *Session) persist() {
	if err := s.storage.Save(s.partition, s.State); err != nil {
		log.Printf("Error saving state for %s: %v", s.partition, err)
	}
}
