// ABOUTME: In-memory medium fake and SQLite helpers for mood store tests.
// ABOUTME: Supports failure injection on every medium operation.
package testutil

import (
	"context"
	"path/filepath"
	"sync"
	"testing"

	"github.com/rs/zerolog"

	"github.com/2389-research/mood/internal/storage"
)

// MemoryMedium is an in-memory storage.Medium with injectable failures.
// Staged changes become visible to FetchAll only after Commit.
type MemoryMedium struct {
	mu        sync.Mutex
	committed []storage.MoodRecord
	staged    []storage.MoodRecord
	deletes   map[uint]bool
	nextKey   uint
	closed    bool

	FetchErr  error
	InsertErr error
	FindErr   error
	DeleteErr error
	CommitErr error
	// CommitsBeforeErr lets that many commits succeed before CommitErr applies.
	CommitsBeforeErr int
	// OnCommit runs after each successful commit.
	OnCommit func()

	FetchCalls    int
	CommitCalls   int
	RollbackCalls int
}

var _ storage.Medium = (*MemoryMedium)(nil)

// NewMemoryMedium returns an empty medium, optionally seeded with committed records.
func NewMemoryMedium(seed ...storage.MoodRecord) *MemoryMedium {
	m := &MemoryMedium{deletes: make(map[uint]bool)}
	for _, rec := range seed {
		m.nextKey++
		rec.Key = m.nextKey
		m.committed = append(m.committed, rec)
	}
	return m
}

// FetchAll returns committed records in insertion order.
func (m *MemoryMedium) FetchAll(ctx context.Context) ([]storage.MoodRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FetchCalls++
	if m.FetchErr != nil {
		return nil, m.FetchErr
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make([]storage.MoodRecord, len(m.committed))
	copy(out, m.committed)
	return out, nil
}

// Insert stages rec.
func (m *MemoryMedium) Insert(ctx context.Context, rec storage.MoodRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.InsertErr != nil {
		return m.InsertErr
	}
	m.nextKey++
	rec.Key = m.nextKey
	m.staged = append(m.staged, rec)
	return nil
}

// FindByID searches committed and staged records.
func (m *MemoryMedium) FindByID(ctx context.Context, id string) (*storage.MoodRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FindErr != nil {
		return nil, m.FindErr
	}
	for _, recs := range [][]storage.MoodRecord{m.committed, m.staged} {
		for i := range recs {
			if recs[i].ID != nil && *recs[i].ID == id && !m.deletes[recs[i].Key] {
				rec := recs[i]
				return &rec, nil
			}
		}
	}
	return nil, nil
}

// Delete stages removal of rec.
func (m *MemoryMedium) Delete(ctx context.Context, rec storage.MoodRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.DeleteErr != nil {
		return m.DeleteErr
	}
	m.deletes[rec.Key] = true
	return nil
}

// Commit applies staged inserts and deletes unless CommitErr is set.
func (m *MemoryMedium) Commit(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CommitCalls++
	if m.CommitErr != nil && m.CommitCalls > m.CommitsBeforeErr {
		return m.CommitErr
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	merged := append(m.committed, m.staged...)
	kept := merged[:0]
	for _, rec := range merged {
		if !m.deletes[rec.Key] {
			kept = append(kept, rec)
		}
	}
	m.committed = kept
	m.staged = nil
	m.deletes = make(map[uint]bool)
	if m.OnCommit != nil {
		m.OnCommit()
	}
	return nil
}

// Rollback drops staged changes.
func (m *MemoryMedium) Rollback(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RollbackCalls++
	m.staged = nil
	m.deletes = make(map[uint]bool)
	return nil
}

// Close marks the medium closed.
func (m *MemoryMedium) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// Closed reports whether Close was called.
func (m *MemoryMedium) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// CommittedCount returns the number of committed records.
func (m *MemoryMedium) CommittedCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.committed)
}

// StringPtr returns a pointer to s.
func StringPtr(s string) *string {
	return &s
}

// TestGormMedium opens a SQLite-backed medium in a temp dir that is closed on cleanup.
func TestGormMedium(t *testing.T) *storage.GormMedium {
	t.Helper()
	m, err := storage.OpenGormMedium(filepath.Join(t.TempDir(), "mood-test.db"), zerolog.Nop())
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = m.Close() })
	return m
}
