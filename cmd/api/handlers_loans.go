package main

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/shopspring/decimal"

	"fundmanager/pkg/emi"
	"fundmanager/pkg/models"
)

func (s *Server) listLoansHandler(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.sessionFor(w, r)
	if sess == nil {
		return
	}
	countOK("list_loans")
	writeJSON(w, http.StatusOK, sess.Loans.Loans())
}

func (s *Server) createLoanHandler(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.sessionFor(w, r)
	if sess == nil {
		return
	}

	var cmd models.CreateLoanCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	loan, err := sess.Loans.CreateLoan(cmd)
	if err != nil {
		writeError(w, "create_loan", err)
		return
	}

	countOK("create_loan")
	writeJSON(w, http.StatusCreated, loan)
}

func (s *Server) getLoanHandler(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.sessionFor(w, r)
	if sess == nil {
		return
	}

	loanID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid loan ID", http.StatusBadRequest)
		return
	}

	loan, err := sess.Loans.Loan(loanID)
	if err != nil {
		writeError(w, "get_loan", err)
		return
	}

	countOK("get_loan")
	writeJSON(w, http.StatusOK, loan)
}

func (s *Server) deleteLoanHandler(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.sessionFor(w, r)
	if sess == nil {
		return
	}

	loanID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid loan ID", http.StatusBadRequest)
		return
	}

	if err := sess.Loans.DeleteLoan(loanID); err != nil {
		writeError(w, "delete_loan", err)
		return
	}

	countOK("delete_loan")
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) recordTransactionHandler(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.sessionFor(w, r)
	if sess == nil {
		return
	}

	loanID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid loan ID", http.StatusBadRequest)
		return
	}

	var cmd models.RecordTransactionCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	cmd.ID = uuid.Nil // appends only; edits go through PUT

	loan, err := sess.Loans.RecordTransaction(loanID, cmd)
	if err != nil {
		writeError(w, "record_transaction", err)
		return
	}

	countOK("record_transaction")
	writeJSON(w, http.StatusCreated, loan)
}

func (s *Server) editTransactionHandler(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.sessionFor(w, r)
	if sess == nil {
		return
	}

	vars := mux.Vars(r)
	loanID, err := uuid.Parse(vars["id"])
	if err != nil {
		http.Error(w, "Invalid loan ID", http.StatusBadRequest)
		return
	}
	txnID, err := uuid.Parse(vars["txnId"])
	if err != nil {
		http.Error(w, "Invalid transaction ID", http.StatusBadRequest)
		return
	}

	var cmd models.RecordTransactionCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	cmd.ID = txnID

	loan, err := sess.Loans.RecordTransaction(loanID, cmd)
	if err != nil {
		writeError(w, "edit_transaction", err)
		return
	}

	countOK("edit_transaction")
	writeJSON(w, http.StatusOK, loan)
}

func (s *Server) deleteTransactionHandler(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.sessionFor(w, r)
	if sess == nil {
		return
	}

	vars := mux.Vars(r)
	loanID, err := uuid.Parse(vars["id"])
	if err != nil {
		http.Error(w, "Invalid loan ID", http.StatusBadRequest)
		return
	}
	txnID, err := uuid.Parse(vars["txnId"])
	if err != nil {
		http.Error(w, "Invalid transaction ID", http.StatusBadRequest)
		return
	}

	loan, err := sess.Loans.DeleteTransaction(loanID, txnID)
	if err != nil {
		writeError(w, "delete_transaction", err)
		return
	}

	countOK("delete_transaction")
	writeJSON(w, http.StatusOK, loan)
}

func (s *Server) markPaidHandler(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess := s.sessionFor(w, r)
	if sess == nil {
		return
	}

	loanID, err := uuid.Parse(mux.Vars(r)["id"])
	if err != nil {
		http.Error(w, "Invalid loan ID", http.StatusBadRequest)
		return
	}

	loan, err := sess.Loans.MarkInstallmentPaid(loanID)
	if err != nil {
		writeError(w, "mark_paid", err)
		return
	}

	countOK("mark_paid")
	writeJSON(w, http.StatusCreated, loan)
}

// previewInstallmentHandler answers the live form preview: the installment
// and total interest for hypothetical inputs, no loan required.
func (s *Server) previewInstallmentHandler(w http.ResponseWriter, r *http.Request) {
	principal, rate, tenure, err := previewParams(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	installment := emi.Installment(principal, rate, tenure)
	countOK("preview_installment")
	writeJSON(w, http.StatusOK, map[string]decimal.Decimal{
		"installment":    installment.Round(2),
		"total_interest": emi.TotalInterest(installment, tenure, principal).Round(2),
	})
}

func (s *Server) previewPrepaymentHandler(w http.ResponseWriter, r *http.Request) {
	principal, rate, tenure, err := previewParams(r)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	prepayment, err := decimal.NewFromString(r.URL.Query().Get("prepayment"))
	if err != nil {
		http.Error(w, "Invalid prepayment", http.StatusBadRequest)
		return
	}

	newInstallment, saved := emi.PrepaymentImpact(principal, prepayment, rate, tenure)
	countOK("preview_prepayment")
	writeJSON(w, http.StatusOK, map[string]decimal.Decimal{
		"new_installment": newInstallment.Round(2),
		"interest_saved":  saved.Round(2),
	})
}

func previewParams(r *http.Request) (principal, rate decimal.Decimal, tenure int, err error) {
	q := r.URL.Query()
	if principal, err = decimal.NewFromString(q.Get("principal")); err != nil {
		return principal, rate, 0, err
	}
	if rate, err = decimal.NewFromString(q.Get("rate")); err != nil {
		return principal, rate, 0, err
	}
	tenure, err = strconv.Atoi(q.Get("tenure"))
	return principal, rate, tenure, err
}
