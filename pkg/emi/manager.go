package emi

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"fundmanager/pkg/models"
)

// Manager owns the loan collection of one user session. Every ledger
// mutation goes through a full replay before anything is committed: either
// the recompute succeeds and the loan is replaced wholesale, or the state is
// left exactly as it was.
type Manager struct {
	state   *models.AppState
	persist func()
}

// NewManager creates a Manager over the given session state. persist is
// invoked after every committed mutation; it is expected to be
// fire-and-forget (a failed save must not undo the in-memory change).
func NewManager(state *models.AppState, persist func()) *Manager {
	return &Manager{state: state, persist: persist}
}

func (m *Manager) save() {
	if m.persist != nil {
		m.persist()
	}
}

// Loans returns a snapshot of all loans.
func (m *Manager) Loans() []models.Loan {
	out := make([]models.Loan, len(m.state.Loans))
	copy(out, m.state.Loans)
	return out
}

// Loan returns the loan with the given id.
func (m *Manager) Loan(id uuid.UUID) (*models.Loan, error) {
	idx, err := m.findLoan(id)
	if err != nil {
		return nil, err
	}
	return m.loanCopy(idx), nil
}

// CreateLoan validates the command, computes the initial schedule and adds
// the loan with an empty ledger.
func (m *Manager) CreateLoan(cmd models.CreateLoanCommand) (*models.Loan, error) {
	if cmd.Name == "" {
		return nil, validationErrorf("name", "required")
	}
	if !models.ValidLoanType(cmd.Type) {
		return nil, validationErrorf("type", "unknown loan type %q", cmd.Type)
	}
	if !cmd.Principal.IsPositive() {
		return nil, validationErrorf("principal", "must be positive")
	}
	if cmd.AnnualRate.IsNegative() {
		return nil, validationErrorf("annual_rate", "must not be negative")
	}
	if cmd.TenureMonths <= 0 {
		return nil, validationErrorf("tenure_months", "must be positive")
	}
	if cmd.StartDate.IsZero() {
		return nil, validationErrorf("start_date", "required")
	}

	res, err := Replay(cmd.Principal, cmd.AnnualRate, cmd.TenureMonths, nil)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	loan := models.Loan{
		ID:           uuid.New(),
		Name:         cmd.Name,
		Type:         cmd.Type,
		Principal:    cmd.Principal,
		AnnualRate:   cmd.AnnualRate,
		TenureMonths: cmd.TenureMonths,
		StartDate:    cmd.StartDate,
		CreatedAt:    now,
		Transactions: []models.Transaction{},
	}
	applyDerived(&loan, res)

	m.state.Loans = append(m.state.Loans, loan)
	m.save()
	return m.loanCopy(len(m.state.Loans) - 1), nil
}

// RecordTransaction appends (or, when cmd.ID is set, replaces) a ledger
// event and replays the full history. The ledger is only committed when the
// replay succeeds; a rejected prepayment or a non-converging schedule leaves
// the loan untouched.
func (m *Manager) RecordTransaction(loanID uuid.UUID, cmd models.RecordTransactionCommand) (*models.Loan, error) {
	idx, err := m.findLoan(loanID)
	if err != nil {
		return nil, err
	}
	if err := validateTransactionCommand(cmd); err != nil {
		return nil, err
	}

	loan := &m.state.Loans[idx]
	led := NewLedger(loan.Transactions)

	txn := models.Transaction{
		ID:       cmd.ID,
		LoanID:   loanID,
		Date:     cmd.Date,
		Amount:   cmd.Amount,
		Kind:     cmd.Kind,
		Note:     cmd.Note,
		NewRate:  cmd.NewRate,
		Strategy: cmd.Strategy,
	}
	if txn.Kind == models.TransactionKindRateChange {
		txn.Amount = decimal.Zero
	} else {
		txn.NewRate = decimal.Zero
	}
	if txn.Kind != models.TransactionKindPrepayment {
		txn.Strategy = ""
	}

	if cmd.ID == uuid.Nil {
		txn.ID = uuid.New()
		led.Add(txn)
	} else if err := led.Replace(txn); err != nil {
		return nil, err
	}

	return m.commitReplay(idx, led)
}

// MarkInstallmentPaid records one regular installment dated today for the
// loan's current installment amount.
func (m *Manager) MarkInstallmentPaid(loanID uuid.UUID) (*models.Loan, error) {
	idx, err := m.findLoan(loanID)
	if err != nil {
		return nil, err
	}
	loan := &m.state.Loans[idx]
	if loan.RemainingPeriods <= 0 {
		return nil, validationErrorf("", "loan is already fully paid")
	}
	return m.RecordTransaction(loanID, models.RecordTransactionCommand{
		Date:   time.Now(),
		Amount: loan.Installment,
		Kind:   models.TransactionKindEMI,
		Note:   "installment paid",
	})
}

// DeleteTransaction removes a ledger event and replays the remaining history
// from the loan's original terms.
func (m *Manager) DeleteTransaction(loanID, txnID uuid.UUID) (*models.Loan, error) {
	idx, err := m.findLoan(loanID)
	if err != nil {
		return nil, err
	}
	led := NewLedger(m.state.Loans[idx].Transactions)
	if err := led.Remove(txnID); err != nil {
		return nil, err
	}
	return m.commitReplay(idx, led)
}

// DeleteLoan removes a loan together with its transactions.
func (m *Manager) DeleteLoan(loanID uuid.UUID) error {
	idx, err := m.findLoan(loanID)
	if err != nil {
		return err
	}
	m.state.Loans = append(m.state.Loans[:idx], m.state.Loans[idx+1:]...)
	m.save()
	return nil
}

// commitReplay replays the candidate ledger against the loan's original
// terms and, on success, swaps in the new ledger and derived state.
func (m *Manager) commitReplay(idx int, led *Ledger) (*models.Loan, error) {
	loan := &m.state.Loans[idx]
	res, err := Replay(loan.Principal, loan.AnnualRate, loan.TenureMonths, led.Sorted())
	if err != nil {
		return nil, err
	}

	loan.Transactions = led.Transactions()
	applyDerived(loan, res)
	m.save()
	return m.loanCopy(idx), nil
}

func (m *Manager) findLoan(id uuid.UUID) (int, error) {
	for i := range m.state.Loans {
		if m.state.Loans[i].ID == id {
			return i, nil
		}
	}
	return 0, ErrNotFound
}

func (m *Manager) loanCopy(idx int) *models.Loan {
	cp := m.state.Loans[idx]
	cp.Transactions = make([]models.Transaction, len(m.state.Loans[idx].Transactions))
	copy(cp.Transactions, m.state.Loans[idx].Transactions)
	return &cp
}

func applyDerived(loan *models.Loan, res *Result) {
	loan.Installment = res.Installment
	loan.PaidPeriods = res.PaidPeriods
	loan.RemainingPeriods = res.RemainingPeriods
	loan.RevisedTenure = res.Tenure
	loan.OutstandingPrincipal = res.OutstandingPrincipal
	loan.PaidInterest = res.PaidInterest
	loan.RemainingInterest = res.RemainingInterest
	loan.TotalInterest = res.TotalInterest
	loan.NextDueDate = loan.StartDate.AddDate(0, res.PaidPeriods+1, 0)
	loan.UpdatedAt = time.Now()
}

func validateTransactionCommand(cmd models.RecordTransactionCommand) error {
	if cmd.Date.IsZero() {
		return validationErrorf("date", "required")
	}
	if !models.ValidTransactionKind(cmd.Kind) {
		return validationErrorf("kind", "unknown transaction kind %q", cmd.Kind)
	}
	switch cmd.Kind {
	case models.TransactionKindRateChange:
		if !cmd.NewRate.IsPositive() {
			return validationErrorf("new_rate", "rate change requires a positive new rate")
		}
	case models.TransactionKindPrepayment:
		if !cmd.Amount.IsPositive() {
			return validationErrorf("amount", "must be positive")
		}
		if cmd.Strategy != models.PrepaymentReduceEMI && cmd.Strategy != models.PrepaymentReduceTenure {
			return validationErrorf("strategy", "prepayment requires a reduce-emi or reduce-tenure choice")
		}
	default:
		if !cmd.Amount.IsPositive() {
			return validationErrorf("amount", "must be positive")
		}
	}
	return nil
}
