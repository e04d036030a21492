package repository

import (
	"context"
	"encoding/json"
	"errors"

	"pharmstock/internal/domain"
	"pharmstock/internal/store"
)

// TransactionsKey is the store key holding the full transaction ledger.
const TransactionsKey = "pharmacy_transactions"

// transactionsDocument is the persisted shape of the ledger collection.
type transactionsDocument struct {
	Transactions []domain.Transaction `json:"transactions"`
}

// TransactionSeeder supplies the baseline ledger used to bootstrap an
// absent collection.
type TransactionSeeder interface {
	Transactions() ([]domain.Transaction, error)
}

// TransactionRepository is the data access layer for the append-only
// ledger. There is deliberately no update or delete: history is
// immutable, and corrections happen by appending compensating entries.
type TransactionRepository interface {
	FindAll(ctx context.Context) ([]domain.Transaction, error)
	FindByID(ctx context.Context, id int) (*domain.Transaction, error)
	Append(ctx context.Context, tx *domain.Transaction) error
}

type transactionRepository struct {
	store  store.Store
	seeder TransactionSeeder
}

// NewTransactionRepository creates a ledger repository over the given store.
func NewTransactionRepository(s store.Store, seeder TransactionSeeder) TransactionRepository {
	return &transactionRepository{store: s, seeder: seeder}
}

func (r *transactionRepository) load(ctx context.Context) (*transactionsDocument, error) {
	data, err := r.store.Get(ctx, TransactionsKey)
	if err != nil {
		if errors.Is(err, store.ErrKeyNotFound) {
			return r.bootstrap(ctx)
		}
		return nil, &domain.PersistenceError{Op: "get", Key: TransactionsKey, Err: err}
	}

	var doc transactionsDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, &domain.PersistenceError{Op: "decode", Key: TransactionsKey, Err: err}
	}
	return &doc, nil
}

func (r *transactionRepository) bootstrap(ctx context.Context) (*transactionsDocument, error) {
	transactions, err := r.seeder.Transactions()
	if err != nil {
		return nil, &domain.PersistenceError{Op: "seed", Key: TransactionsKey, Err: err}
	}
	doc := &transactionsDocument{Transactions: transactions}
	if doc.Transactions == nil {
		doc.Transactions = []domain.Transaction{}
	}
	if err := r.save(ctx, doc); err != nil {
		return nil, err
	}
	return doc, nil
}

func (r *transactionRepository) save(ctx context.Context, doc *transactionsDocument) error {
	data, err := json.Marshal(doc)
	if err != nil {
		return &domain.PersistenceError{Op: "encode", Key: TransactionsKey, Err: err}
	}
	if err := r.store.Set(ctx, TransactionsKey, data); err != nil {
		return &domain.PersistenceError{Op: "set", Key: TransactionsKey, Err: err}
	}
	return nil
}

// FindAll returns the raw ledger. No read order is guaranteed here; the
// query engine establishes the canonical ordering.
func (r *transactionRepository) FindAll(ctx context.Context) ([]domain.Transaction, error) {
	doc, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	return doc.Transactions, nil
}

func (r *transactionRepository) FindByID(ctx context.Context, id int) (*domain.Transaction, error) {
	doc, err := r.load(ctx)
	if err != nil {
		return nil, err
	}
	for i := range doc.Transactions {
		if doc.Transactions[i].ID == id {
			tx := doc.Transactions[i]
			return &tx, nil
		}
	}
	return nil, &domain.NotFoundError{Entity: "transaction", ID: id}
}

// Append assigns the next id (max existing + 1, or 1 for an empty
// ledger) and persists the new entry.
func (r *transactionRepository) Append(ctx context.Context, tx *domain.Transaction) error {
	doc, err := r.load(ctx)
	if err != nil {
		return err
	}

	maxID := 0
	for i := range doc.Transactions {
		if doc.Transactions[i].ID > maxID {
			maxID = doc.Transactions[i].ID
		}
	}
	tx.ID = maxID + 1

	doc.Transactions = append(doc.Transactions, *tx)
	return r.save(ctx, doc)
}
