// ABOUTME: Tests for the SQLite medium and record mapping.
// ABOUTME: Covers staged writes, commit/rollback visibility, lookup, and row validation.
package storage

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/2389-research/mood/internal/models"
)

func openTestMedium(t *testing.T) *GormMedium {
	t.Helper()
	m, err := OpenGormMedium(filepath.Join(t.TempDir(), "nested", "mood.db"), zerolog.Nop())
	if err != nil {
		t.Fatalf("OpenGormMedium error: %v", err)
	}
	t.Cleanup(func() { _ = m.Close() })
	return m
}

func TestGormMediumStagedInsertInvisibleUntilCommit(t *testing.T) {
	m := openTestMedium(t)
	ctx := context.Background()

	entry := models.NewMoodEntry(models.MoodHappy, "hello")
	if err := m.Insert(ctx, recordFromEntry(entry)); err != nil {
		t.Fatalf("Insert error: %v", err)
	}

	recs, err := m.FetchAll(ctx)
	if err != nil {
		t.Fatalf("FetchAll error: %v", err)
	}
	if len(recs) != 0 {
		t.Fatalf("expected no committed records before Commit, got %d", len(recs))
	}

	if err := m.Commit(ctx); err != nil {
		t.Fatalf("Commit error: %v", err)
	}

	recs, err = m.FetchAll(ctx)
	if err != nil {
		t.Fatalf("FetchAll error: %v", err)
	}
	if len(recs) != 1 {
		t.Fatalf("expected 1 record after Commit, got %d", len(recs))
	}
	got, ok := entryFromRecord(recs[0])
	if !ok {
		t.Fatal("committed record failed to map")
	}
	if got.ID != entry.ID || got.Type != entry.Type || got.CommentText() != "hello" {
		t.Errorf("roundtrip mismatch: got %+v, want %+v", got, entry)
	}
}

func TestGormMediumRollbackDiscardsInsert(t *testing.T) {
	m := openTestMedium(t)
	ctx := context.Background()

	if err := m.Insert(ctx, recordFromEntry(models.NewMoodEntry(models.MoodSad, ""))); err != nil {
		t.Fatalf("Insert error: %v", err)
	}
	if err := m.Rollback(ctx); err != nil {
		t.Fatalf("Rollback error: %v", err)
	}
	if err := m.Commit(ctx); err != nil {
		t.Fatalf("Commit with nothing staged should be a no-op, got %v", err)
	}

	recs, _ := m.FetchAll(ctx)
	if len(recs) != 0 {
		t.Errorf("expected rollback to discard insert, found %d records", len(recs))
	}
}

func TestGormMediumFindAndDelete(t *testing.T) {
	m := openTestMedium(t)
	ctx := context.Background()

	keep := models.NewMoodEntry(models.MoodNeutral, "")
	drop := models.NewMoodEntry(models.MoodAngry, "")
	for _, e := range []models.MoodEntry{keep, drop} {
		if err := m.Insert(ctx, recordFromEntry(e)); err != nil {
			t.Fatalf("Insert error: %v", err)
		}
	}
	if err := m.Commit(ctx); err != nil {
		t.Fatalf("Commit error: %v", err)
	}

	missing, err := m.FindByID(ctx, uuid.NewString())
	if err != nil {
		t.Fatalf("FindByID error: %v", err)
	}
	if missing != nil {
		t.Fatal("expected nil for unknown id")
	}

	rec, err := m.FindByID(ctx, drop.ID.String())
	if err != nil || rec == nil {
		t.Fatalf("FindByID(drop) = %v, %v", rec, err)
	}
	if err := m.Delete(ctx, *rec); err != nil {
		t.Fatalf("Delete error: %v", err)
	}
	if err := m.Commit(ctx); err != nil {
		t.Fatalf("Commit error: %v", err)
	}

	recs, _ := m.FetchAll(ctx)
	if len(recs) != 1 || *recs[0].ID != keep.ID.String() {
		t.Errorf("expected only %s to remain, got %d records", keep.ID, len(recs))
	}
}

func TestGormMediumFetchOrderIsInsertion(t *testing.T) {
	m := openTestMedium(t)
	ctx := context.Background()

	base := time.Now()
	var ids []string
	for i, offset := range []time.Duration{time.Hour, -time.Hour, 0} {
		e := models.NewMoodEntryAt(models.AllMoodTypes()[i], "", base.Add(offset))
		ids = append(ids, e.ID.String())
		if err := m.Insert(ctx, recordFromEntry(e)); err != nil {
			t.Fatalf("Insert error: %v", err)
		}
		if err := m.Commit(ctx); err != nil {
			t.Fatalf("Commit error: %v", err)
		}
	}

	recs, _ := m.FetchAll(ctx)
	if len(recs) != len(ids) {
		t.Fatalf("expected %d records, got %d", len(ids), len(recs))
	}
	for i := range ids {
		if *recs[i].ID != ids[i] {
			t.Errorf("position %d: got %s, want %s", i, *recs[i].ID, ids[i])
		}
	}
}

func TestGormMediumCommitWithCanceledContext(t *testing.T) {
	m := openTestMedium(t)

	if err := m.Insert(context.Background(), recordFromEntry(models.NewMoodEntry(models.MoodHappy, ""))); err != nil {
		t.Fatalf("Insert error: %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := m.Commit(ctx); err == nil {
		t.Fatal("expected commit to fail with canceled context")
	}

	recs, _ := m.FetchAll(context.Background())
	if len(recs) != 0 {
		t.Errorf("expected nothing committed, got %d", len(recs))
	}
}

func TestGormMediumClosed(t *testing.T) {
	m, err := OpenGormMedium(filepath.Join(t.TempDir(), "mood.db"), zerolog.Nop())
	if err != nil {
		t.Fatalf("OpenGormMedium error: %v", err)
	}
	if err := m.Close(); err != nil {
		t.Fatalf("Close error: %v", err)
	}
	if _, err := m.FetchAll(context.Background()); err != ErrClosed {
		t.Errorf("expected ErrClosed, got %v", err)
	}
	if err := m.Close(); err != nil {
		t.Errorf("second Close should be a no-op, got %v", err)
	}
}

func TestEntryFromRecordValidation(t *testing.T) {
	now := time.Now()
	id := uuid.NewString()
	str := func(s string) *string { return &s }

	tests := []struct {
		name string
		rec  MoodRecord
		ok   bool
	}{
		{"valid", MoodRecord{ID: str(id), Type: str("happy"), Date: &now}, true},
		{"valid with comment", MoodRecord{ID: str(id), Type: str("sad"), Comment: str("rain"), Date: &now}, true},
		{"missing id", MoodRecord{Type: str("happy"), Date: &now}, false},
		{"bad id", MoodRecord{ID: str("123"), Type: str("happy"), Date: &now}, false},
		{"missing type", MoodRecord{ID: str(id), Date: &now}, false},
		{"unknown type", MoodRecord{ID: str(id), Type: str("elated"), Date: &now}, false},
		{"uppercase type", MoodRecord{ID: str(id), Type: str("HAPPY"), Date: &now}, false},
		{"missing date", MoodRecord{ID: str(id), Type: str("happy")}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := entryFromRecord(tt.rec)
			if ok != tt.ok {
				t.Errorf("entryFromRecord ok = %v, want %v", ok, tt.ok)
			}
		})
	}
}

func TestEntryFromRecordEmptyCommentIsAbsent(t *testing.T) {
	now := time.Now()
	id := uuid.NewString()
	typ := "neutral"
	empty := ""
	entry, ok := entryFromRecord(MoodRecord{ID: &id, Type: &typ, Comment: &empty, Date: &now})
	if !ok {
		t.Fatal("expected record to map")
	}
	if entry.Comment != nil {
		t.Errorf("expected absent comment, got %q", *entry.Comment)
	}
}

func TestRecordFromEntryAbsentComment(t *testing.T) {
	rec := recordFromEntry(models.NewMoodEntry(models.MoodOther, ""))
	if rec.Comment != nil {
		t.Errorf("expected nil comment column, got %q", *rec.Comment)
	}
	if rec.ID == nil || rec.Type == nil || rec.Date == nil {
		t.Error("expected id, type and date to be set")
	}
}
