// Package memory is the in-process store used by the memory backend and by
// tests. It mirrors the SQLite repository's semantics without touching disk.
package memory

import (
	"context"
	"sync"

	"ricevute/internal/core"
	"ricevute/internal/store"
)

type Store struct {
	mu       sync.Mutex
	receipts []core.Receipt
	settings *core.Settings
}

func New() *Store {
	return &Store{}
}

func (s *Store) SaveReceipt(_ context.Context, r core.Receipt) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.receipts = append(s.receipts, r)
	return nil
}

func (s *Store) LoadReceipts(_ context.Context) ([]core.Receipt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]core.Receipt, len(s.receipts))
	copy(out, s.receipts)
	return out, nil
}

func (s *Store) GetReceipt(_ context.Context, id string) (core.Receipt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.receipts {
		if r.ID == id {
			return r, nil
		}
	}
	return core.Receipt{}, store.ErrNotFound
}

func (s *Store) UpdateReceipt(_ context.Context, updated core.Receipt) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, r := range s.receipts {
		if r.ID == updated.ID {
			s.receipts[i] = updated
			return nil
		}
	}
	return store.ErrNotFound
}

func (s *Store) DeleteReceipt(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, r := range s.receipts {
		if r.ID == id {
			s.receipts = append(s.receipts[:i], s.receipts[i+1:]...)
			return nil
		}
	}
	return store.ErrNotFound
}

func (s *Store) ClearAllReceipts(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.receipts = nil
	return nil
}

func (s *Store) SaveSettings(_ context.Context, set core.Settings) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.settings = &set
	return nil
}

func (s *Store) LoadSettings(_ context.Context) (core.Settings, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.settings == nil {
		def := core.DefaultSettings()
		s.settings = &def
	}
	return *s.settings, nil
}
