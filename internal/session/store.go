// Package session keeps named tables for the interactive shell.
package session

import (
	"fmt"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/vegasq/tabula/table"
)

// Anonymous is the destination name that asks for a generated handle.
const Anonymous = "_"

// Store maps handle names to tables. It is safe for concurrent use.
//
// Tables are copied on the way in and out, so callers can never mutate a
// stored table.
type Store struct {
	mu     sync.RWMutex
	tables map[string]*table.Table
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{tables: make(map[string]*table.Table)}
}

// Put stores a copy of t under name and returns the handle used. An empty
// name or Anonymous stores the table under a generated "tbl-<uuid>" handle.
// An existing table with the same name is replaced.
func (s *Store) Put(name string, t *table.Table) (string, error) {
	if t == nil {
		return "", fmt.Errorf("cannot store nil table")
	}
	if name == "" || name == Anonymous {
		name = "tbl-" + uuid.NewString()
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.tables[name] = t.Copy()
	return name, nil
}

// Get returns a copy of the table stored under name.
func (s *Store) Get(name string) (*table.Table, error) {
	s.mu.RLock()
	t, ok := s.tables[name]
	s.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("no table named '%s'", name)
	}
	return t.Copy(), nil
}

// Delete removes name from the store. It reports whether it was present.
func (s *Store) Delete(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.tables[name]
	delete(s.tables, name)
	return ok
}

// Names lists the stored handles in sorted order.
func (s *Store) Names() []string {
	s.mu.RLock()
	names := make([]string, 0, len(s.tables))
	for name := range s.tables {
		names = append(names, name)
	}
	s.mu.RUnlock()
	slices.Sort(names)
	return names
}

// Len returns the number of stored tables.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tables)
}
