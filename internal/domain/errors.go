package domain

import "fmt"

// ValidationError reports malformed or out-of-range input. It is raised
// before any persistence attempt.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed: %s %s", e.Field, e.Reason)
}

// NotFoundError reports a reference to a nonexistent product or
// transaction id.
type NotFoundError struct {
	Entity string
	ID     int
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %d not found", e.Entity, e.ID)
}

// InsufficientStockError rejects an outgoing transaction that would
// drive stock negative. Available carries the quantity on hand so the
// caller can surface it.
type InsufficientStockError struct {
	ProductID int
	Available int
	Requested int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %d: %d available, %d requested",
		e.ProductID, e.Available, e.Requested)
}

// PersistenceError wraps a failed read or write against the underlying
// key-value store.
type PersistenceError struct {
	Op  string
	Key string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("persistence %s on %q failed: %v", e.Op, e.Key, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// PartialCommitError is returned when a transaction was appended to the
// ledger but the follow-up catalog stock write failed. The two stores
// disagree until the caller retries the catalog write or reconciles via
// replay. Transaction carries the entry that was already persisted.
type PartialCommitError struct {
	Transaction Transaction
	Err         error
}

func (e *PartialCommitError) Error() string {
	return fmt.Sprintf("transaction %d appended but catalog stock write failed: %v",
		e.Transaction.ID, e.Err)
}

func (e *PartialCommitError) Unwrap() error { return e.Err }
