package emi

import (
	"sort"

	"github.com/google/uuid"

	"fundmanager/pkg/models"
)

// Ledger is the ordered container of a single loan's transactions. It does no
// validation of its own; amount bounds and required fields are enforced by
// the replay engine and the record manager.
type Ledger struct {
	txns []models.Transaction
}

// NewLedger wraps a copy of txns, preserving their insertion order.
func NewLedger(txns []models.Transaction) *Ledger {
	cp := make([]models.Transaction, len(txns))
	copy(cp, txns)
	return &Ledger{txns: cp}
}

// Add appends a transaction at the end of the insertion order.
func (l *Ledger) Add(txn models.Transaction) {
	l.txns = append(l.txns, txn)
}

// Replace swaps the transaction with txn.ID in place, keeping its insertion
// position so date ties keep resolving the same way.
func (l *Ledger) Replace(txn models.Transaction) error {
	for i := range l.txns {
		if l.txns[i].ID == txn.ID {
			l.txns[i] = txn
			return nil
		}
	}
	return ErrNotFound
}

// Remove deletes the transaction with the given id.
func (l *Ledger) Remove(id uuid.UUID) error {
	for i := range l.txns {
		if l.txns[i].ID == id {
			l.txns = append(l.txns[:i], l.txns[i+1:]...)
			return nil
		}
	}
	return ErrNotFound
}

// Transactions returns the ledger contents in insertion order.
func (l *Ledger) Transactions() []models.Transaction {
	cp := make([]models.Transaction, len(l.txns))
	copy(cp, l.txns)
	return cp
}

// Sorted returns the transactions ordered ascending by date. Equal dates keep
// their relative insertion order; replay depends on this being stable.
func (l *Ledger) Sorted() []models.Transaction {
	cp := l.Transactions()
	sort.SliceStable(cp, func(i, j int) bool {
		return cp[i].Date.Before(cp[j].Date)
	})
	return cp
}
