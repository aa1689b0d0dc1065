package memory

import (
	"context"
	"fmt"
	"sync"

	"clubledger/internal/core"
	ports "clubledger/internal/sheets"
)

// Store is an in-memory mirror used in tests and when no spreadsheet is
// configured.
type Store struct {
	mu       sync.Mutex
	rows     []ports.LedgerRow
	snapshot *core.TransparencyReport
}

func New() *Store {
	return &Store{}
}

// Ensure interface conformance
var (
	_ ports.LedgerAppender = (*Store)(nil)
	_ ports.SnapshotWriter = (*Store)(nil)
)

// Append stores the ledger row and returns a synthetic row reference.
func (s *Store) Append(_ context.Context, row ports.LedgerRow) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rows = append(s.rows, row)
	return fmt.Sprintf("mem:%d", len(s.rows)), nil
}

// WriteSnapshot replaces the stored transparency snapshot.
func (s *Store) WriteSnapshot(_ context.Context, report core.TransparencyReport) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot = &report
	return nil
}

// Rows returns a copy of the appended ledger rows.
func (s *Store) Rows() []ports.LedgerRow {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]ports.LedgerRow(nil), s.rows...)
}

// Snapshot returns the last written transparency snapshot, or nil.
func (s *Store) Snapshot() *core.TransparencyReport {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot
}
