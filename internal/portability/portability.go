// ABOUTME: Export and import of mood entries as a versioned JSON document.
// ABOUTME: Output may be gzip-compressed; import detects compression automatically.
package portability

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/klauspost/compress/gzip"

	"github.com/2389-research/mood/internal/models"
)

// FormatVersion is the document version written by Export.
const FormatVersion = 1

var gzipMagic = []byte{0x1f, 0x8b}

// Options controls export encoding.
type Options struct {
	Gzip bool
}

// Document is the on-disk export format.
type Document struct {
	Version    int           `json:"version"`
	ExportedAt time.Time     `json:"exported_at"`
	Entries    []ExportEntry `json:"entries"`
}

// ExportEntry is one mood entry in an export document.
type ExportEntry struct {
	ID        string  `json:"id"`
	Type      string  `json:"type"`
	Comment   *string `json:"comment,omitempty"`
	Timestamp string  `json:"timestamp"`
}

// Rejected describes an entry that failed validation on import.
type Rejected struct {
	Index  int
	ID     string
	Reason string
}

// Result is the outcome of decoding an export document.
type Result struct {
	Version  int
	Entries  []models.MoodEntry
	Rejected []Rejected
}

// Export writes entries to w.
func Export(w io.Writer, entries []models.MoodEntry, opts Options) error {
	doc := Document{
		Version:    FormatVersion,
		ExportedAt: time.Now().UTC(),
		Entries:    make([]ExportEntry, 0, len(entries)),
	}
	for _, e := range entries {
		doc.Entries = append(doc.Entries, ExportEntry{
			ID:        e.ID.String(),
			Type:      string(e.Type),
			Comment:   e.Comment,
			Timestamp: e.Timestamp.Format(time.RFC3339Nano),
		})
	}

	if !opts.Gzip {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	}

	zw := gzip.NewWriter(w)
	if err := json.NewEncoder(zw).Encode(doc); err != nil {
		_ = zw.Close()
		return fmt.Errorf("failed to encode export: %w", err)
	}
	return zw.Close()
}

// Import decodes an export document from r. Entries that fail validation are
// reported in Result.Rejected and left out of Result.Entries.
func Import(r io.Reader) (*Result, error) {
	br := bufio.NewReader(r)
	head, err := br.Peek(2)
	if err != nil && err != io.EOF {
		return nil, fmt.Errorf("failed to read import: %w", err)
	}

	var src io.Reader = br
	if bytes.Equal(head, gzipMagic) {
		zr, err := gzip.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("failed to open gzip stream: %w", err)
		}
		defer func() { _ = zr.Close() }()
		src = zr
	}

	var doc Document
	if err := json.NewDecoder(src).Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to decode import: %w", err)
	}
	if doc.Version < 1 || doc.Version > FormatVersion {
		return nil, fmt.Errorf("unsupported export version %d", doc.Version)
	}

	res := &Result{Version: doc.Version}
	for i, item := range doc.Entries {
		entry, err := item.toEntry()
		if err != nil {
			res.Rejected = append(res.Rejected, Rejected{Index: i, ID: item.ID, Reason: err.Error()})
			continue
		}
		res.Entries = append(res.Entries, entry)
	}
	return res, nil
}

func (item ExportEntry) toEntry() (models.MoodEntry, error) {
	id, err := uuid.Parse(item.ID)
	if err != nil {
		return models.MoodEntry{}, fmt.Errorf("invalid id: %w", err)
	}
	mt, err := models.ParseMoodType(item.Type)
	if err != nil {
		return models.MoodEntry{}, err
	}
	ts, err := time.Parse(time.RFC3339Nano, item.Timestamp)
	if err != nil {
		return models.MoodEntry{}, fmt.Errorf("invalid timestamp: %w", err)
	}
	entry := models.MoodEntry{ID: id, Type: mt, Timestamp: ts}
	if item.Comment != nil {
		entry.Comment = models.NormalizeComment(*item.Comment)
	}
	if err := entry.Validate(); err != nil {
		return models.MoodEntry{}, err
	}
	return entry, nil
}
