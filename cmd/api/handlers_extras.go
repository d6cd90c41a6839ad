package main

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"fundmanager/pkg/khata"
	"fundmanager/pkg/models"
)

func (s *Server) listBudgetsHandler(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.sessionFor(w, r)
	if sess == nil {
		return
	}
	countOK("list_budgets")
	writeJSON(w, http.StatusOK, sess.Budgets.Budgets())
}

func (s *Server) createBudgetHandler(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.sessionFor(w, r)
	if sess == nil {
		return
	}

	var req struct {
		Name     string              `json:"name"`
		Category string              `json:"category"`
		Amount   decimal.Decimal     `json:"amount"`
		Period   models.BudgetPeriod `json:"period"`
		Color    string              `json:"color"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	b, err := sess.Budgets.CreateBudget(req.Name, req.Category, req.Amount, req.Period, req.Color)
	if err != nil {
		writeError(w, "create_budget", err)
		return
	}

	countOK("create_budget")
	writeJSON(w, http.StatusCreated, b)
}

// budgetTotalsHandler reports the summed budgeted and spent amounts across
// all budgets, for the overview header.
func (s *Server) budgetTotalsHandler(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.sessionFor(w, r)
	if sess == nil {
		return
	}

	budgeted, spent := sess.Budgets.Totals()
	countOK("budget_totals")
	writeJSON(w, http.StatusOK, map[string]decimal.Decimal{
		"budgeted": budgeted.Round(2),
		"spent":    spent.Round(2),
	})
}

func (s *Server) deleteBudgetHandler(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.sessionFor(w, r)
	if sess == nil {
		return
	}

	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid budget ID", http.StatusBadRequest)
		return
	}
	if err := sess.Budgets.DeleteBudget(id); err != nil {
		writeError(w, "delete_budget", err)
		return
	}
	countOK("delete_budget")
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) listBudgetEntriesHandler(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.sessionFor(w, r)
	if sess == nil {
		return
	}

	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid budget ID", http.StatusBadRequest)
		return
	}
	countOK("list_budget_entries")
	writeJSON(w, http.StatusOK, sess.Budgets.Entries(id))
}

func (s *Server) addBudgetEntryHandler(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.sessionFor(w, r)
	if sess == nil {
		return
	}

	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid budget ID", http.StatusBadRequest)
		return
	}

	var req struct {
		Amount      decimal.Decimal  `json:"amount"`
		Description string           `json:"description"`
		Date        time.Time        `json:"date"`
		Type        models.EntryType `json:"type"`
		Category    string           `json:"category"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	entry, err := sess.Budgets.AddEntry(id, req.Amount, req.Description, req.Date, req.Type, req.Category)
	if err != nil {
		writeError(w, "add_budget_entry", err)
		return
	}

	countOK("add_budget_entry")
	writeJSON(w, http.StatusCreated, entry)
}

func (s *Server) deleteBudgetEntryHandler(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.sessionFor(w, r)
	if sess == nil {
		return
	}

	entryID, err := uuid.Parse(mux.Vars(r)["entryId"])
	if err != nil {
		http.Error(w, "Invalid entry ID", http.StatusBadRequest)
		return
	}
	if err := sess.Budgets.DeleteEntry(entryID); err != nil {
		writeError(w, "delete_budget_entry", err)
		return
	}
	countOK("delete_budget_entry")
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) listKhataHandler(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.sessionFor(w, r)
	if sess == nil {
		return
	}
	countOK("list_khata")
	writeJSON(w, http.StatusOK, sess.Khata.Entries())
}

func (s *Server) createKhataHandler(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.sessionFor(w, r)
	if sess == nil {
		return
	}

	var cmd khata.CreateEntryCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	entry, err := sess.Khata.CreateEntry(cmd)
	if err != nil {
		writeError(w, "create_khata_entry", err)
		return
	}

	countOK("create_khata_entry")
	writeJSON(w, http.StatusCreated, entry)
}

func (s *Server) deleteKhataHandler(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.sessionFor(w, r)
	if sess == nil {
		return
	}

	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid entry ID", http.StatusBadRequest)
		return
	}
	if err := sess.Khata.DeleteEntry(id); err != nil {
		writeError(w, "delete_khata_entry", err)
		return
	}
	countOK("delete_khata_entry")
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) listKhataPaymentsHandler(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.sessionFor(w, r)
	if sess == nil {
		return
	}

	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid entry ID", http.StatusBadRequest)
		return
	}
	countOK("list_khata_payments")
	writeJSON(w, http.StatusOK, sess.Khata.Payments(id))
}

func (s *Server) recordKhataPaymentHandler(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.sessionFor(w, r)
	if sess == nil {
		return
	}

	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid entry ID", http.StatusBadRequest)
		return
	}

	var req struct {
		Amount      decimal.Decimal `json:"amount"`
		Date        time.Time       `json:"date"`
		Description string          `json:"description"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	entry, err := sess.Khata.RecordPayment(id, req.Amount, req.Date, req.Description)
	if err != nil {
		writeError(w, "record_khata_payment", err)
		return
	}

	countOK("record_khata_payment")
	writeJSON(w, http.StatusCreated, entry)
}

func (s *Server) deleteKhataPaymentHandler(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.sessionFor(w, r)
	if sess == nil {
		return
	}

	paymentID, err := uuid.Parse(mux.Vars(r)["paymentId"])
	if err != nil {
		http.Error(w, "Invalid payment ID", http.StatusBadRequest)
		return
	}

	entry, err := sess.Khata.DeletePayment(paymentID)
	if err != nil {
		writeError(w, "delete_khata_payment", err)
		return
	}
	countOK("delete_khata_payment")
	writeJSON(w, http.StatusOK, entry)
}

func (s *Server) listChecklistsHandler(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.sessionFor(w, r)
	if sess == nil {
		return
	}
	countOK("list_checklists")
	writeJSON(w, http.StatusOK, sess.Checklists.Checklists())
}

func (s *Server) createChecklistHandler(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.sessionFor(w, r)
	if sess == nil {
		return
	}

	var req struct {
		Title     string                    `json:"title"`
		Frequency models.ChecklistFrequency `json:"frequency"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	list, err := sess.Checklists.CreateChecklist(req.Title, req.Frequency)
	if err != nil {
		writeError(w, "create_checklist", err)
		return
	}

	countOK("create_checklist")
	writeJSON(w, http.StatusCreated, list)
}

func (s *Server) deleteChecklistHandler(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.sessionFor(w, r)
	if sess == nil {
		return
	}

	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid checklist ID", http.StatusBadRequest)
		return
	}
	if err := sess.Checklists.DeleteChecklist(id); err != nil {
		writeError(w, "delete_checklist", err)
		return
	}
	countOK("delete_checklist")
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) addChecklistItemHandler(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.sessionFor(w, r)
	if sess == nil {
		return
	}

	id, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid checklist ID", http.StatusBadRequest)
		return
	}

	var req struct {
		Title       string     `json:"title"`
		Description string     `json:"description"`
		DueDate     *time.Time `json:"due_date"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	item, err := sess.Checklists.AddItem(id, req.Title, req.Description, req.DueDate)
	if err != nil {
		writeError(w, "add_checklist_item", err)
		return
	}

	countOK("add_checklist_item")
	writeJSON(w, http.StatusCreated, item)
}

func (s *Server) toggleChecklistItemHandler(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.sessionFor(w, r)
	if sess == nil {
		return
	}

	vars := mux.Vars(r)
	listID, err := uuid.Parse(vars["id"])
	if err != nil {
		http.Error(w, "Invalid checklist ID", http.StatusBadRequest)
		return
	}
	itemID, err := uuid.Parse(vars["itemId"])
	if err != nil {
		http.Error(w, "Invalid item ID", http.StatusBadRequest)
		return
	}

	item, err := sess.Checklists.ToggleItem(listID, itemID)
	if err != nil {
		writeError(w, "toggle_checklist_item", err)
		return
	}

	countOK("toggle_checklist_item")
	writeJSON(w, http.StatusOK, item)
}

func (s *Server) deleteChecklistItemHandler(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.sessionFor(w, r)
	if sess == nil {
		return
	}

	vars := mux.Vars(r)
	listID, err := uuid.Parse(vars["id"])
	if err != nil {
		http.Error(w, "Invalid checklist ID", http.StatusBadRequest)
		return
	}
	itemID, err := uuid.Parse(vars["itemId"])
	if err != nil {
		http.Error(w, "Invalid item ID", http.StatusBadRequest)
		return
	}

	if err := sess.Checklists.DeleteItem(listID, itemID); err != nil {
		writeError(w, "delete_checklist_item", err)
		return
	}
	countOK("delete_checklist_item")
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) overdueItemsHandler(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.sessionFor(w, r)
	if sess == nil {
		return
	}
	countOK("overdue_items")
	writeJSON(w, http.StatusOK, sess.Checklists.Overdue(time.Now()))
}
