// Package inmem provides the demo datastore: an append-only, mutex-guarded
// slice of transaction records behind the transaction.Repository interface.
package inmem

import (
	"context"
	"sort"
	"sync"

	"github.com/usbankcorp/bankd/internal/transaction"
)

type Store struct {
	mu  sync.RWMutex
	txs []*transaction.Transaction
}

func New() *Store {
	return &Store{}
}

// Seed loads historical records without the uniqueness or lifecycle rules
// applied to live creations. Intended for demo fixtures and tests.
func (s *Store) Seed(txs ...*transaction.Transaction) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, tx := range txs {
		cp := *tx
		s.txs = append(s.txs, &cp)
	}
}

func (s *Store) CreateTransaction(_ context.Context, tx *transaction.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *tx
	s.txs = append(s.txs, &cp)

	return nil
}

func (s *Store) GetTransaction(_ context.Context, id string) (*transaction.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, tx := range s.txs {
		if tx.ID == id {
			cp := *tx
			return &cp, nil
		}
	}

	return nil, transaction.ErrNotFound
}

func (s *Store) UpdateTransaction(_ context.Context, tx *transaction.Transaction) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, existing := range s.txs {
		if existing.ID == tx.ID {
			cp := *tx
			s.txs[i] = &cp

			return nil
		}
	}

	return transaction.ErrNotFound
}

func (s *Store) ListTransactions(_ context.Context, filter transaction.ListFilter) ([]*transaction.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*transaction.Transaction

	for _, tx := range s.txs {
		if filter.Status != nil && tx.Status != *filter.Status {
			continue
		}

		if filter.AccountID != nil && tx.AccountID != *filter.AccountID {
			continue
		}

		cp := *tx
		out = append(out, &cp)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})

	return out, nil
}
