// ABOUTME: SQLite-backed medium for mood records using gorm.
// ABOUTME: Stages inserts and deletes in a lazily opened transaction until Commit.
package storage

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// ErrClosed is returned by operations on a closed medium or store.
var ErrClosed = errors.New("storage: closed")

// GormMedium persists mood records in a SQLite database through gorm.
type GormMedium struct {
	db *gorm.DB
	tx *gorm.DB // pending unit of work, nil when nothing is staged
}

var _ Medium = (*GormMedium)(nil)

// OpenGormMedium opens (or creates) the SQLite database at path and migrates the schema.
func OpenGormMedium(path string, log zerolog.Logger) (*GormMedium, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
			return nil, fmt.Errorf("storage: create db directory: %w", err)
		}
	}

	gl := log.With().Str("component", "gorm").Logger()
	db, err := gorm.Open(sqlite.Open(path+"?_journal_mode=WAL&_busy_timeout=5000"), &gorm.Config{
		Logger: gormlogger.New(&gl, gormlogger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  gormlogger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
	})
	if err != nil {
		return nil, fmt.Errorf("storage: open db: %w", err)
	}
	if err := db.AutoMigrate(&MoodRecord{}); err != nil {
		_ = closeGorm(db)
		return nil, fmt.Errorf("storage: migrate: %w", err)
	}
	return &GormMedium{db: db}, nil
}

// FetchAll returns every committed record ordered by insertion.
func (m *GormMedium) FetchAll(ctx context.Context) ([]MoodRecord, error) {
	if m.db == nil {
		return nil, ErrClosed
	}
	var recs []MoodRecord
	if err := m.db.WithContext(ctx).Order("pk ASC").Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("storage: fetch records: %w", err)
	}
	return recs, nil
}

// Insert stages a record in the pending transaction.
func (m *GormMedium) Insert(ctx context.Context, rec MoodRecord) error {
	tx, err := m.begin(ctx)
	if err != nil {
		return err
	}
	rec.Key = 0
	if err := tx.Create(&rec).Error; err != nil {
		return fmt.Errorf("storage: insert record: %w", err)
	}
	return nil
}

// FindByID looks up a record by identifier, seeing staged changes when a transaction is open.
func (m *GormMedium) FindByID(ctx context.Context, id string) (*MoodRecord, error) {
	if m.db == nil {
		return nil, ErrClosed
	}
	q := m.db.WithContext(ctx)
	if m.tx != nil {
		q = m.tx
	}
	var recs []MoodRecord
	if err := q.Where("entry_id = ?", id).Limit(1).Find(&recs).Error; err != nil {
		return nil, fmt.Errorf("storage: find record: %w", err)
	}
	if len(recs) == 0 {
		return nil, nil
	}
	return &recs[0], nil
}

// Delete stages removal of the record in the pending transaction.
func (m *GormMedium) Delete(ctx context.Context, rec MoodRecord) error {
	tx, err := m.begin(ctx)
	if err != nil {
		return err
	}
	if err := tx.Delete(&MoodRecord{}, rec.Key).Error; err != nil {
		return fmt.Errorf("storage: delete record: %w", err)
	}
	return nil
}

// Commit commits the pending transaction. It is a no-op when nothing is staged.
func (m *GormMedium) Commit(ctx context.Context) error {
	if m.tx == nil {
		return nil
	}
	tx := m.tx
	m.tx = nil
	if err := ctx.Err(); err != nil {
		tx.Rollback()
		return fmt.Errorf("storage: commit: %w", err)
	}
	if err := tx.Commit().Error; err != nil {
		return fmt.Errorf("storage: commit: %w", err)
	}
	return nil
}

// Rollback discards the pending transaction, if any.
func (m *GormMedium) Rollback(ctx context.Context) error {
	if m.tx == nil {
		return nil
	}
	tx := m.tx
	m.tx = nil
	if err := tx.Rollback().Error; err != nil && !errors.Is(err, gorm.ErrInvalidTransaction) {
		return fmt.Errorf("storage: rollback: %w", err)
	}
	return nil
}

// Close rolls back staged work and closes the database.
func (m *GormMedium) Close() error {
	if m.db == nil {
		return nil
	}
	_ = m.Rollback(context.Background())
	err := closeGorm(m.db)
	m.db = nil
	return err
}

func (m *GormMedium) begin(ctx context.Context) (*gorm.DB, error) {
	if m.db == nil {
		return nil, ErrClosed
	}
	if m.tx != nil {
		return m.tx, nil
	}
	tx := m.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return nil, fmt.Errorf("storage: begin tx: %w", tx.Error)
	}
	m.tx = tx
	return tx, nil
}

func closeGorm(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
