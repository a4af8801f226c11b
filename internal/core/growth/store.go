package growth

import (
	"sync/atomic"

	"github.com/IANDYI/care-log/internal/core/domain"
)

// Store holds the active reference table. Readers always see one complete
// table; Swap replaces it in a single pointer store.
type Store struct {
	current atomic.Pointer[Table]
}

// NewStore creates a store serving table, which may be nil
func NewStore(table *Table) *Store {
	s := &Store{}
	s.current.Store(table)
	return s
}

// Table returns the active table
func (s *Store) Table() *Table {
	return s.current.Load()
}

// Swap installs table and returns the previous one
func (s *Store) Swap(table *Table) *Table {
	return s.current.Swap(table)
}

// Lookup reads from the active table
func (s *Store) Lookup(metric domain.Metric, sex domain.Sex, ageDays int) (LMS, error) {
	return s.current.Load().Lookup(metric, sex, ageDays)
}
