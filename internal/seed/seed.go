// Package seed loads the read-only baseline snapshots used to
// initialize a collection the first time it is absent from the store.
package seed

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"pharmstock/internal/domain"
)

const (
	inventoryFile    = "inventory.json"
	transactionsFile = "transactions.json"
)

// Source reads baseline documents from a directory. A missing file is
// not an error: the collection simply starts empty, matching the
// behavior of a fresh deployment without seed data.
type Source struct {
	dir string
}

// New returns a seed source rooted at dir.
func New(dir string) *Source {
	return &Source{dir: dir}
}

// Inventory returns the baseline product set.
func (s *Source) Inventory() ([]domain.Product, error) {
	var doc struct {
		Products []domain.Product `json:"products"`
	}
	if err := s.read(inventoryFile, &doc); err != nil {
		return nil, err
	}
	return doc.Products, nil
}

// Transactions returns the baseline ledger entries.
func (s *Source) Transactions() ([]domain.Transaction, error) {
	var doc struct {
		Transactions []domain.Transaction `json:"transactions"`
	}
	if err := s.read(transactionsFile, &doc); err != nil {
		return nil, err
	}
	return doc.Transactions, nil
}

func (s *Source) read(name string, v interface{}) error {
	data, err := os.ReadFile(filepath.Join(s.dir, name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read seed file %s: %w", name, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to parse seed file %s: %w", name, err)
	}
	return nil
}
