package domain

import "time"

// TransactionType distinguishes stock received from stock dispensed.
type TransactionType string

const (
	TxIn  TransactionType = "in"
	TxOut TransactionType = "out"
)

// Valid reports whether t is one of the known transaction types.
func (t TransactionType) Valid() bool {
	return t == TxIn || t == TxOut
}

// DefaultUserID is recorded when a transaction is appended without an
// acting user.
const DefaultUserID = 1

// Transaction is one immutable entry in the stock ledger. Once appended
// it is never edited; corrections are made by appending a compensating
// transaction. ProductID is a reference, not ownership: deleting the
// product leaves its historical transactions in place.
type Transaction struct {
	ID            int             `json:"id"`
	ProductID     int             `json:"productId"`
	Type          TransactionType `json:"type"`
	Quantity      int             `json:"quantity"`
	PreviousStock int             `json:"previousStock"`
	NewStock      int             `json:"newStock"`
	Date          string          `json:"date"`
	UserID        int             `json:"userId"`
	Notes         string          `json:"notes"`
}

// ParsedDate returns the transaction timestamp, or an error for records
// whose stored date string is malformed.
func (t Transaction) ParsedDate() (time.Time, error) {
	return time.Parse(time.RFC3339, t.Date)
}

// StockDelta is the signed effect of the transaction on stock.
func (t Transaction) StockDelta() int {
	if t.Type == TxOut {
		return -t.Quantity
	}
	return t.Quantity
}
