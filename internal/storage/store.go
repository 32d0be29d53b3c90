// ABOUTME: Mood record store holding the authoritative in-memory list of entries.
// ABOUTME: Every mutation commits to the medium and then reloads the whole list.
package storage

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/2389-research/mood/internal/models"
)

// MoodJournal is the store surface used by the presentation layers.
type MoodJournal interface {
	// Entries returns a copy of the currently loaded entries.
	Entries() []models.MoodEntry

	// Add persists a new entry and reloads.
	Add(ctx context.Context, entry models.MoodEntry) error

	// Delete removes the entry with the same ID, if present, and reloads.
	Delete(ctx context.Context, entry models.MoodEntry) error

	// Reload replaces the in-memory list with the committed state.
	Reload(ctx context.Context)

	// Subscribe registers an observer and returns a function that removes it.
	Subscribe(obs Observer) func()
}

var _ MoodJournal = (*MoodStore)(nil)

// MoodStore owns the list of mood entries and mediates all writes to the medium.
//
// Mutations and reloads are serialized by opMu so the loaded list always
// reflects the most recent commit. Readers only take listMu.
type MoodStore struct {
	medium  Medium
	log     zerolog.Logger
	timeout time.Duration

	opMu   sync.Mutex
	listMu sync.RWMutex
	list   []models.MoodEntry
	closed bool

	observers observerSet
}

// StoreOption configures optional MoodStore settings.
type StoreOption func(*MoodStore)

// WithLogger sets the logger used to report persistence failures.
func WithLogger(log zerolog.Logger) StoreOption {
	return func(s *MoodStore) {
		s.log = log
	}
}

// WithTimeout bounds each mutation. An expired deadline is handled like any
// other commit failure.
func WithTimeout(d time.Duration) StoreOption {
	return func(s *MoodStore) {
		s.timeout = d
	}
}

// NewMoodStore creates a store over medium and performs the initial load.
func NewMoodStore(ctx context.Context, medium Medium, opts ...StoreOption) (*MoodStore, error) {
	if medium == nil {
		return nil, fmt.Errorf("medium is required")
	}
	s := &MoodStore{
		medium: medium,
		log:    zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.Reload(ctx)
	return s, nil
}

// Entries returns a copy of the loaded entries in storage order.
func (s *MoodStore) Entries() []models.MoodEntry {
	s.listMu.RLock()
	defer s.listMu.RUnlock()
	return copyEntries(s.list)
}

// Subscribe registers obs for list replacements.
func (s *MoodStore) Subscribe(obs Observer) func() {
	return s.observers.add(obs)
}

// Reload fetches every record and replaces the loaded list. Failures are
// logged and leave the previous list in place.
func (s *MoodStore) Reload(ctx context.Context) {
	s.opMu.Lock()
	defer s.opMu.Unlock()
	s.reloadLocked(ctx)
}

// Add inserts entry, commits, and reloads. On failure the staged insert is
// discarded and the loaded list is left unchanged. The reload after a
// successful commit ignores cancellation of ctx.
func (s *MoodStore) Add(ctx context.Context, entry models.MoodEntry) error {
	if err := entry.Validate(); err != nil {
		return err
	}

	s.opMu.Lock()
	defer s.opMu.Unlock()
	if s.closed {
		return ErrClosed
	}

	opCtx, cancel := s.opContext(ctx)
	defer cancel()

	if err := s.medium.Insert(opCtx, recordFromEntry(entry)); err != nil {
		s.discard(ctx)
		s.log.Error().Err(err).Str("op", "add").Str("entry_id", entry.ID.String()).Msg("failed to insert mood entry")
		return fmt.Errorf("insert mood entry: %w", err)
	}
	if err := s.medium.Commit(opCtx); err != nil {
		s.discard(ctx)
		s.log.Error().Err(err).Str("op", "add").Str("entry_id", entry.ID.String()).Msg("failed to commit mood entry")
		return fmt.Errorf("commit mood entry: %w", err)
	}

	s.log.Debug().Str("entry_id", entry.ID.String()).Str("type", string(entry.Type)).Msg("mood entry added")
	s.reloadLocked(context.WithoutCancel(ctx))
	return nil
}

// Delete removes the record whose ID matches entry.ID. A missing record is
// not an error and triggers no reload.
func (s *MoodStore) Delete(ctx context.Context, entry models.MoodEntry) error {
	s.opMu.Lock()
	defer s.opMu.Unlock()
	if s.closed {
		return ErrClosed
	}

	opCtx, cancel := s.opContext(ctx)
	defer cancel()

	id := entry.ID.String()
	rec, err := s.medium.FindByID(opCtx, id)
	if err != nil {
		s.log.Error().Err(err).Str("op", "delete").Str("entry_id", id).Msg("failed to look up mood entry")
		return fmt.Errorf("find mood entry: %w", err)
	}
	if rec == nil {
		s.log.Debug().Str("entry_id", id).Msg("mood entry already absent")
		return nil
	}

	if err := s.medium.Delete(opCtx, *rec); err != nil {
		s.discard(ctx)
		s.log.Error().Err(err).Str("op", "delete").Str("entry_id", id).Msg("failed to delete mood entry")
		return fmt.Errorf("delete mood entry: %w", err)
	}
	if err := s.medium.Commit(opCtx); err != nil {
		s.discard(ctx)
		s.log.Error().Err(err).Str("op", "delete").Str("entry_id", id).Msg("failed to commit mood deletion")
		return fmt.Errorf("commit mood deletion: %w", err)
	}

	s.log.Debug().Str("entry_id", id).Msg("mood entry deleted")
	s.reloadLocked(context.WithoutCancel(ctx))
	return nil
}

// Close closes the underlying medium. Further mutations return ErrClosed.
func (s *MoodStore) Close() error {
	s.opMu.Lock()
	defer s.opMu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.medium.Close()
}

func (s *MoodStore) reloadLocked(ctx context.Context) {
	if s.closed {
		return
	}
	recs, err := s.medium.FetchAll(ctx)
	if err != nil {
		s.log.Error().Err(err).Str("op", "reload").Msg("failed to load mood entries")
		return
	}

	entries := make([]models.MoodEntry, 0, len(recs))
	skipped := 0
	for _, rec := range recs {
		entry, ok := entryFromRecord(rec)
		if !ok {
			skipped++
			continue
		}
		entries = append(entries, entry)
	}
	if skipped > 0 {
		s.log.Debug().Int("skipped", skipped).Msg("ignored invalid mood records")
	}

	s.listMu.Lock()
	s.list = entries
	s.listMu.Unlock()

	for _, obs := range s.observers.snapshot() {
		obs.EntriesReplaced(copyEntries(entries))
	}
}

// discard rolls back staged work. It uses a context detached from the
// caller's deadline so a timed-out mutation can still be rolled back.
func (s *MoodStore) discard(ctx context.Context) {
	if err := s.medium.Rollback(context.WithoutCancel(ctx)); err != nil {
		s.log.Warn().Err(err).Msg("failed to roll back staged changes")
	}
}

func (s *MoodStore) opContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if s.timeout > 0 {
		return context.WithTimeout(ctx, s.timeout)
	}
	return context.WithCancel(ctx)
}

func copyEntries(in []models.MoodEntry) []models.MoodEntry {
	out := make([]models.MoodEntry, len(in))
	copy(out, in)
	return out
}
