// ABOUTME: Interface definition for the durable medium behind the mood store.
// ABOUTME: Defines raw mood records and the record-level fetch/insert/delete/commit contract.
package storage

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/2389-research/mood/internal/models"
)

// MoodRecord is a raw persisted row. Every column is nullable so that
// incomplete rows can be loaded and then rejected by the store.
type MoodRecord struct {
	Key     uint       `gorm:"column:pk;primaryKey;autoIncrement"`
	ID      *string    `gorm:"column:entry_id;uniqueIndex"`
	Type    *string    `gorm:"column:type"`
	Comment *string    `gorm:"column:comment"`
	Date    *time.Time `gorm:"column:date"`
}

// TableName pins the table name used by gorm.
func (MoodRecord) TableName() string {
	return "mood_entries"
}

// Medium defines record-level persistence for mood entries.
// Insert and Delete are staged; nothing is durable until Commit succeeds.
type Medium interface {
	// FetchAll returns every committed record in storage order.
	FetchAll(ctx context.Context) ([]MoodRecord, error)

	// Insert stages a new record.
	Insert(ctx context.Context, rec MoodRecord) error

	// FindByID returns the record whose identifier equals id, or nil if none matches.
	FindByID(ctx context.Context, id string) (*MoodRecord, error)

	// Delete stages removal of a record previously returned by FindByID.
	Delete(ctx context.Context, rec MoodRecord) error

	// Commit makes staged changes durable.
	Commit(ctx context.Context) error

	// Rollback discards staged changes.
	Rollback(ctx context.Context) error

	// Close releases any resources held by the medium.
	Close() error
}

// recordFromEntry maps an entry to its persisted form.
func recordFromEntry(e models.MoodEntry) MoodRecord {
	id := e.ID.String()
	typ := string(e.Type)
	ts := e.Timestamp
	rec := MoodRecord{
		ID:   &id,
		Type: &typ,
		Date: &ts,
	}
	if e.Comment != nil {
		c := *e.Comment
		rec.Comment = &c
	}
	return rec
}

// entryFromRecord maps a raw record to an entry. The second return value is
// false when the record is missing its id, type or date, or when the stored
// type does not name a known mood.
func entryFromRecord(rec MoodRecord) (models.MoodEntry, bool) {
	if rec.ID == nil || rec.Type == nil || rec.Date == nil {
		return models.MoodEntry{}, false
	}
	id, err := uuid.Parse(*rec.ID)
	if err != nil {
		return models.MoodEntry{}, false
	}
	moodType := models.MoodType(*rec.Type)
	if !moodType.Valid() {
		return models.MoodEntry{}, false
	}
	entry := models.MoodEntry{
		ID:        id,
		Type:      moodType,
		Timestamp: *rec.Date,
	}
	if rec.Comment != nil {
		entry.Comment = models.NormalizeComment(*rec.Comment)
	}
	return entry, true
}
