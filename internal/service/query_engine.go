package service

import (
	"sort"
	"time"

	"pharmstock/internal/domain"
)

// The query engine derives filtered, sorted, paginated views over the
// ledger. Every function here is pure: the input slice is never
// mutated and the ledger is never touched.

// DefaultPageSize is used when the caller supplies no page size.
const DefaultPageSize = 10

// Criteria are the independently optional transaction filters. All
// supplied criteria combine with logical AND. Date bounds are inclusive
// and accept RFC3339 timestamps or plain dates.
type Criteria struct {
	ID        *int
	ProductID *int
	Type      domain.TransactionType
	UserID    *int
	DateFrom  string
	DateTo    string
}

// Page is one slice of the canonical (date-descending) transaction view.
type Page struct {
	Items      []domain.Transaction `json:"items"`
	Page       int                  `json:"page"`
	PageSize   int                  `json:"pageSize"`
	TotalPages int                  `json:"totalPages"`
	Total      int                  `json:"total"`
}

// Filter returns the transactions matching every supplied criterion.
// A record with a malformed date never matches a date bound; an
// unparseable bound itself is ignored rather than failing the query.
func Filter(transactions []domain.Transaction, c Criteria) []domain.Transaction {
	from, hasFrom := parseBound(c.DateFrom, false)
	to, hasTo := parseBound(c.DateTo, true)

	matched := []domain.Transaction{}
	for _, tx := range transactions {
		if c.ID != nil && tx.ID != *c.ID {
			continue
		}
		if c.ProductID != nil && tx.ProductID != *c.ProductID {
			continue
		}
		if c.Type != "" && tx.Type != c.Type {
			continue
		}
		if c.UserID != nil && tx.UserID != *c.UserID {
			continue
		}
		if hasFrom || hasTo {
			date, err := tx.ParsedDate()
			if err != nil {
				continue
			}
			if hasFrom && date.Before(from) {
				continue
			}
			if hasTo && date.After(to) {
				continue
			}
		}
		matched = append(matched, tx)
	}
	return matched
}

// SortByDateDesc returns a new slice ordered by date descending. Ties on
// identical timestamps break by descending id so the output is
// deterministic; records with malformed dates sort last.
func SortByDateDesc(transactions []domain.Transaction) []domain.Transaction {
	sorted := make([]domain.Transaction, len(transactions))
	copy(sorted, transactions)

	sort.SliceStable(sorted, func(i, j int) bool {
		di, erri := sorted[i].ParsedDate()
		dj, errj := sorted[j].ParsedDate()
		if erri != nil || errj != nil {
			if (erri == nil) != (errj == nil) {
				return erri == nil
			}
			return sorted[i].ID > sorted[j].ID
		}
		if !di.Equal(dj) {
			return di.After(dj)
		}
		return sorted[i].ID > sorted[j].ID
	})
	return sorted
}

// Paginate slices the transactions into 1-based pages. A page number
// past the end clamps to the last valid page; an empty input yields a
// single empty page.
func Paginate(transactions []domain.Transaction, page, pageSize int) Page {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	total := len(transactions)
	totalPages := (total + pageSize - 1) / pageSize
	if totalPages == 0 {
		totalPages = 1
	}

	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}

	start := (page - 1) * pageSize
	end := start + pageSize
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}

	return Page{
		Items:      transactions[start:end],
		Page:       page,
		PageSize:   pageSize,
		TotalPages: totalPages,
		Total:      total,
	}
}

// parseBound accepts an RFC3339 timestamp or a plain date. A plain date
// used as an upper bound covers the whole day, keeping both bounds
// inclusive. The second return is false when the bound is empty or
// unparseable.
func parseBound(s string, isUpper bool) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, true
	}
	if t, err := time.Parse(domain.DateLayout, s); err == nil {
		if isUpper {
			t = t.Add(24*time.Hour - time.Nanosecond)
		}
		return t, true
	}
	return time.Time{}, false
}
