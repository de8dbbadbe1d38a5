// Package memory provides an in-memory OrderWriter for tests and local
// development without Google credentials.
package memory

import (
	"context"
	"fmt"
	"sync"

	"backoffice/internal/core"
)

type Store struct {
	mu    sync.Mutex
	rows  []core.Order
	fail  error
}

func New() *Store {
	return &Store{}
}

// FailWith makes every subsequent Append return err. Pass nil to recover.
func (s *Store) FailWith(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fail = err
}

// Append stores the order and returns a synthetic row reference.
func (s *Store) Append(_ context.Context, o core.Order) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.fail != nil {
		return "", s.fail
	}
	s.rows = append(s.rows, o)
	return fmt.Sprintf("mem:%d", len(s.rows)), nil
}

// Rows returns a copy of everything appended so far.
func (s *Store) Rows() []core.Order {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Order(nil), s.rows...)
}
