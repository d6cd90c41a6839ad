package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type LoanType string

const (
	LoanTypeHome      LoanType = "home"
	LoanTypeCar       LoanType = "car"
	LoanTypePersonal  LoanType = "personal"
	LoanTypeEducation LoanType = "education"
	LoanTypeOther     LoanType = "other"
)

// ValidLoanType reports whether t is one of the known loan categories.
func ValidLoanType(t LoanType) bool {
	switch t {
	case LoanTypeHome, LoanTypeCar, LoanTypePersonal, LoanTypeEducation, LoanTypeOther:
		return true
	}
	return false
}

type TransactionKind string

const (
	TransactionKindEMI        TransactionKind = "emi"
	TransactionKindPrepayment TransactionKind = "prepayment"
	TransactionKindFee        TransactionKind = "fee"
	TransactionKindOther      TransactionKind = "other"
	TransactionKindRateChange TransactionKind = "ratechange"
)

// ValidTransactionKind reports whether k is a known ledger event kind.
func ValidTransactionKind(k TransactionKind) bool {
	switch k {
	case TransactionKindEMI, TransactionKindPrepayment, TransactionKindFee,
		TransactionKindOther, TransactionKindRateChange:
		return true
	}
	return false
}

// PrepaymentStrategy is the follow-up decision attached to a prepayment:
// either the installment drops and the tenure stays, or the installment stays
// and the tenure shrinks. It is stored on the transaction itself so that a
// full replay of the ledger needs no out-of-band state.
type PrepaymentStrategy string

const (
	PrepaymentReduceEMI    PrepaymentStrategy = "reduce-emi"
	PrepaymentReduceTenure PrepaymentStrategy = "reduce-tenure"
)

// Transaction is one ledger event recorded against a loan. Amount carries the
// money moved for emi/prepayment/fee/other events and is zero for rate
// changes; NewRate is meaningful only for rate changes.
type Transaction struct {
	ID       uuid.UUID          `json:"id"`
	LoanID   uuid.UUID          `json:"loan_id"`
	Date     time.Time          `json:"date"`
	Amount   decimal.Decimal    `json:"amount"`
	Kind     TransactionKind    `json:"kind"`
	Note     string             `json:"note,omitempty"`
	NewRate  decimal.Decimal    `json:"new_rate"`
	Strategy PrepaymentStrategy `json:"strategy,omitempty"`
}

// Loan is one amortizing debt. Principal, AnnualRate and TenureMonths are the
// terms recorded at creation and are never overwritten; everything from
// Installment down is derived by replaying Transactions and is recomputed on
// every ledger mutation.
type Loan struct {
	ID           uuid.UUID       `json:"id"`
	Name         string          `json:"name"`
	Type         LoanType        `json:"type"`
	Principal    decimal.Decimal `json:"principal"`
	AnnualRate   decimal.Decimal `json:"annual_rate"`
	TenureMonths int             `json:"tenure_months"`
	StartDate    time.Time       `json:"start_date"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`

	Installment          decimal.Decimal `json:"installment"`
	NextDueDate          time.Time       `json:"next_due_date"`
	PaidPeriods          int             `json:"paid_periods"`
	RemainingPeriods     int             `json:"remaining_periods"`
	RevisedTenure        int             `json:"revised_tenure"`
	OutstandingPrincipal decimal.Decimal `json:"outstanding_principal"`
	PaidInterest         decimal.Decimal `json:"paid_interest"`
	RemainingInterest    decimal.Decimal `json:"remaining_interest"`
	TotalInterest        decimal.Decimal `json:"total_interest"`

	Transactions []Transaction `json:"transactions"`
}

// CreateLoanCommand carries the staged form input for a new loan.
type CreateLoanCommand struct {
	Name         string          `json:"name"`
	Type         LoanType        `json:"type"`
	Principal    decimal.Decimal `json:"principal"`
	AnnualRate   decimal.Decimal `json:"annual_rate"`
	TenureMonths int             `json:"tenure_months"`
	StartDate    time.Time       `json:"start_date"`
}

// RecordTransactionCommand carries the staged form input for adding or
// editing a ledger event. A zero ID means "append"; a non-zero ID replaces
// the transaction with that id in place.
type RecordTransactionCommand struct {
	ID       uuid.UUID          `json:"id"`
	Date     time.Time          `json:"date"`
	Amount   decimal.Decimal    `json:"amount"`
	Kind     TransactionKind    `json:"kind"`
	Note     string             `json:"note,omitempty"`
	NewRate  decimal.Decimal    `json:"new_rate"`
	Strategy PrepaymentStrategy `json:"strategy,omitempty"`
}

type BudgetPeriod string

const (
	BudgetPeriodMonthly BudgetPeriod = "monthly"
	BudgetPeriodYearly  BudgetPeriod = "yearly"
)

type Budget struct {
	ID           uuid.UUID       `json:"id"`
	Name         string          `json:"name"`
	Category     string          `json:"category"`
	BudgetAmount decimal.Decimal `json:"budget_amount"`
	SpentAmount  decimal.Decimal `json:"spent_amount"`
	Period       BudgetPeriod    `json:"period"`
	Color        string          `json:"color,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
}

type EntryType string

const (
	EntryTypeIncome  EntryType = "income"
	EntryTypeExpense EntryType = "expense"
)

// BudgetEntry is one income or expense booked against a budget.
type BudgetEntry struct {
	ID          uuid.UUID       `json:"id"`
	BudgetID    uuid.UUID       `json:"budget_id"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description,omitempty"`
	Date        time.Time       `json:"date"`
	Type        EntryType       `json:"type"`
	Category    string          `json:"category,omitempty"`
}

// KhataDirection tells who owes whom: "gave" means money went out and the
// other person owes the user, "got" means the user owes them.
type KhataDirection string

const (
	KhataGave KhataDirection = "gave"
	KhataGot  KhataDirection = "got"
)

type KhataStatus string

const (
	KhataStatusPending KhataStatus = "pending"
	KhataStatusPartial KhataStatus = "partial"
	KhataStatusSettled KhataStatus = "settled"
)

// KhataEntry is one informal lending/borrowing record in the peer ledger.
// PaidAmount, RemainingAmount, Status and SettledAt are derived from the
// entry's payments.
type KhataEntry struct {
	ID              uuid.UUID       `json:"id"`
	PersonName      string          `json:"person_name"`
	PhoneNumber     string          `json:"phone_number,omitempty"`
	Direction       KhataDirection  `json:"direction"`
	Amount          decimal.Decimal `json:"amount"`
	Description     string          `json:"description,omitempty"`
	Date            time.Time       `json:"date"`
	DueDate         *time.Time      `json:"due_date,omitempty"`
	Category        string          `json:"category,omitempty"`
	Notes           string          `json:"notes,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	PaidAmount      decimal.Decimal `json:"paid_amount"`
	RemainingAmount decimal.Decimal `json:"remaining_amount"`
	Status          KhataStatus     `json:"status"`
	SettledAt       *time.Time      `json:"settled_at,omitempty"`
}

// KhataPayment is a partial or full settlement against a khata entry.
type KhataPayment struct {
	ID          uuid.UUID       `json:"id"`
	EntryID     uuid.UUID       `json:"entry_id"`
	Amount      decimal.Decimal `json:"amount"`
	Date        time.Time       `json:"date"`
	Description string          `json:"description,omitempty"`
}

type ChecklistFrequency string

const (
	FrequencyDaily   ChecklistFrequency = "daily"
	FrequencyWeekly  ChecklistFrequency = "weekly"
	FrequencyMonthly ChecklistFrequency = "monthly"
	FrequencyYearly  ChecklistFrequency = "yearly"
)

type ChecklistItem struct {
	ID          uuid.UUID  `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	Done        bool       `json:"done"`
}

type Checklist struct {
	ID        uuid.UUID          `json:"id"`
	Title     string             `json:"title"`
	Frequency ChecklistFrequency `json:"frequency"`
	Items     []ChecklistItem    `json:"items"`
}

// AppState is the full per-user application state: the unit the persistence
// collaborator loads once at session start and saves after every mutation.
type AppState struct {
	Loans         []Loan         `json:"loans"`
	Budgets       []Budget       `json:"budgets"`
	BudgetEntries []BudgetEntry  `json:"budget_entries"`
	KhataEntries  []KhataEntry   `json:"khata_entries"`
	KhataPayments []KhataPayment `json:"khata_payments"`
	Checklists    []Checklist    `json:"checklists"`
}

// NewAppState returns an empty state with non-nil slices so a freshly created
// partition serializes to the same shape as a loaded one.
func NewAppState() *AppState {
	return &AppState{
		Loans:         []Loan{},
		Budgets:       []Budget{},
		BudgetEntries: []BudgetEntry{},
		KhataEntries:  []KhataEntry{},
		KhataPayments: []KhataPayment{},
		Checklists:    []Checklist{},
	}
}
