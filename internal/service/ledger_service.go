package service

import (
	"context"
	"sort"
	"time"

	"pharmstock/internal/domain"
	"pharmstock/internal/repository"
)

// LedgerService owns the append-only transaction log. Appending is the
// only way stock moves: each entry snapshots the stock before and after,
// and folding a product's entries in ascending id order reproduces the
// catalog's stock.
//
// The ledger assumes a single active writer. Callers must serialize
// mutations on the same product; two concurrent appends would race on
// the previousStock snapshot, and this layer provides no internal
// mutual exclusion because the store has none to build on.
type LedgerService interface {
	Append(ctx context.Context, req AppendRequest) (*domain.Transaction, error)
	List(ctx context.Context) ([]domain.Transaction, error)
	GetByID(ctx context.Context, id int) (*domain.Transaction, error)
	ReplayStockFor(ctx context.Context, productID, baseline int) (int, error)
}

// AppendRequest carries the caller-supplied fields of a new transaction.
// Everything else (id, date, stock snapshots) is assigned at append time.
type AppendRequest struct {
	ProductID int
	Type      domain.TransactionType
	Quantity  int
	Notes     string
	UserID    int
}

type ledgerService struct {
	transactionRepo repository.TransactionRepository
	productRepo     repository.ProductRepository
}

// NewLedgerService creates a new instance of LedgerService.
func NewLedgerService(
	transactionRepo repository.TransactionRepository,
	productRepo repository.ProductRepository,
) LedgerService {
	return &ledgerService{
		transactionRepo: transactionRepo,
		productRepo:     productRepo,
	}
}

// Append validates the request, computes the stock movement, persists
// the ledger entry and then writes the new stock to the catalog.
//
// The two writes are not atomic: if the catalog write fails after the
// ledger write succeeded, Append returns a PartialCommitError carrying
// the entry that is already on the ledger. The caller can retry the
// catalog write or reconcile via ReplayStockFor.
func (s *ledgerService) Append(ctx context.Context, req AppendRequest) (*domain.Transaction, error) {
	if req.Quantity <= 0 {
		return nil, &domain.ValidationError{Field: "quantity", Reason: "must be a positive integer"}
	}
	if !req.Type.Valid() {
		return nil, &domain.ValidationError{Field: "type", Reason: `must be "in" or "out"`}
	}

	product, err := s.productRepo.FindByID(ctx, req.ProductID)
	if err != nil {
		return nil, err
	}

	previousStock := product.Stock
	newStock := previousStock
	switch req.Type {
	case domain.TxIn:
		newStock = previousStock + req.Quantity
	case domain.TxOut:
		newStock = previousStock - req.Quantity
		if newStock < 0 {
			return nil, &domain.InsufficientStockError{
				ProductID: req.ProductID,
				Available: previousStock,
				Requested: req.Quantity,
			}
		}
	}

	// Zero or negative user ids mean the caller did not identify anyone.
	userID := req.UserID
	if userID <= 0 {
		userID = domain.DefaultUserID
	}

	now := time.Now().UTC()
	tx := domain.Transaction{
		ProductID:     req.ProductID,
		Type:          req.Type,
		Quantity:      req.Quantity,
		PreviousStock: previousStock,
		NewStock:      newStock,
		Date:          now.Format(time.RFC3339),
		UserID:        userID,
		Notes:         req.Notes,
	}

	if err := s.transactionRepo.Append(ctx, &tx); err != nil {
		return nil, err
	}

	if err := s.productRepo.UpdateStock(ctx, req.ProductID, newStock, now.Format(domain.DateLayout)); err != nil {
		return nil, &domain.PartialCommitError{Transaction: tx, Err: err}
	}

	return &tx, nil
}

// List returns the raw ledger with no implied order.
func (s *ledgerService) List(ctx context.Context) ([]domain.Transaction, error) {
	return s.transactionRepo.FindAll(ctx)
}

func (s *ledgerService) GetByID(ctx context.Context, id int) (*domain.Transaction, error) {
	return s.transactionRepo.FindByID(ctx, id)
}

// ReplayStockFor folds the product's transactions in ascending id order
// over the baseline, producing the stock value the catalog should hold.
// It is the reconciliation primitive for detecting drift between ledger
// and catalog after a partial commit.
func (s *ledgerService) ReplayStockFor(ctx context.Context, productID, baseline int) (int, error) {
	transactions, err := s.transactionRepo.FindAll(ctx)
	if err != nil {
		return 0, err
	}

	mine := make([]domain.Transaction, 0, len(transactions))
	for _, tx := range transactions {
		if tx.ProductID == productID {
			mine = append(mine, tx)
		}
	}
	sort.Slice(mine, func(i, j int) bool { return mine[i].ID < mine[j].ID })

	stock := baseline
	for _, tx := range mine {
		stock += tx.StockDelta()
	}
	return stock, nil
}
