// ABOUTME: Tests for mood entry constructors and the mood type table.
// ABOUTME: Covers comment normalization, default timestamps, parsing, and validation.
package models

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestNewMoodEntryDefaults(t *testing.T) {
	before := time.Now()
	entry := NewMoodEntry(MoodHappy, "sunny walk")
	after := time.Now()

	if entry.ID == uuid.Nil {
		t.Fatal("expected generated ID")
	}
	if entry.Timestamp.Before(before) || entry.Timestamp.After(after) {
		t.Errorf("timestamp %v not within [%v, %v]", entry.Timestamp, before, after)
	}
	if entry.Comment == nil || *entry.Comment != "sunny walk" {
		t.Errorf("unexpected comment: %v", entry.Comment)
	}
}

func TestNewMoodEntryEmptyCommentIsAbsent(t *testing.T) {
	entry := NewMoodEntry(MoodSad, "")
	if entry.Comment != nil {
		t.Errorf("expected nil comment, got %q", *entry.Comment)
	}
	if entry.CommentText() != "" {
		t.Errorf("expected empty CommentText, got %q", entry.CommentText())
	}
}

func TestNewMoodEntryAtKeepsTimestamp(t *testing.T) {
	ts := time.Date(2024, 3, 1, 8, 30, 0, 0, time.UTC)
	entry := NewMoodEntryAt(MoodAngry, "traffic", ts)
	if !entry.Timestamp.Equal(ts) {
		t.Errorf("timestamp = %v, want %v", entry.Timestamp, ts)
	}
}

func TestNewMoodEntryUniqueIDs(t *testing.T) {
	seen := make(map[uuid.UUID]bool)
	for i := 0; i < 100; i++ {
		e := NewMoodEntry(MoodNeutral, "")
		if seen[e.ID] {
			t.Fatalf("duplicate ID %s", e.ID)
		}
		seen[e.ID] = true
	}
}

func TestParseMoodType(t *testing.T) {
	tests := []struct {
		input   string
		want    MoodType
		wantErr bool
	}{
		{"happy", MoodHappy, false},
		{"Anxious", MoodAnxious, false},
		{" other ", MoodOther, false},
		{"ecstatic", "", true},
		{"", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseMoodType(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrUnknownMoodType) {
					t.Fatalf("expected ErrUnknownMoodType, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseMoodType(%q) error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseMoodType(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestMoodTypeTable(t *testing.T) {
	types := AllMoodTypes()
	if len(types) != 6 {
		t.Fatalf("expected 6 mood types, got %d", len(types))
	}
	for _, mt := range types {
		if mt.Label() == "" {
			t.Errorf("%s has no label", mt)
		}
		if mt.Emoji() == "" {
			t.Errorf("%s has no emoji", mt)
		}
		if mt.Score() < 1 || mt.Score() > 5 {
			t.Errorf("%s score %v out of range", mt, mt.Score())
		}
	}
	if MoodHappy.Emoji() != "😊" {
		t.Errorf("happy emoji = %q", MoodHappy.Emoji())
	}

	// Mutating the returned slice must not affect the table order.
	types[0] = MoodOther
	if AllMoodTypes()[0] != MoodHappy {
		t.Error("AllMoodTypes returned shared backing array")
	}
}

func TestMoodEntryValidate(t *testing.T) {
	valid := NewMoodEntry(MoodHappy, "")
	if err := valid.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	noID := valid
	noID.ID = uuid.Nil
	if err := noID.Validate(); !errors.Is(err, ErrInvalidEntry) {
		t.Errorf("expected ErrInvalidEntry for nil ID, got %v", err)
	}

	badType := valid
	badType.Type = "grumpy"
	if err := badType.Validate(); !errors.Is(err, ErrInvalidEntry) {
		t.Errorf("expected ErrInvalidEntry for unknown type, got %v", err)
	}

	noTime := valid
	noTime.Timestamp = time.Time{}
	if err := noTime.Validate(); !errors.Is(err, ErrInvalidEntry) {
		t.Errorf("expected ErrInvalidEntry for zero timestamp, got %v", err)
	}

	empty := ""
	emptyComment := valid
	emptyComment.Comment = &empty
	if err := emptyComment.Validate(); !errors.Is(err, ErrInvalidEntry) {
		t.Errorf("expected ErrInvalidEntry for empty comment, got %v", err)
	}
}

func TestNormalizeComment(t *testing.T) {
	if c := NormalizeComment(""); c != nil {
		t.Errorf("expected nil for empty comment, got %q", *c)
	}
	c := NormalizeComment("  ")
	if c == nil || *c != "  " {
		t.Errorf("expected whitespace comment kept verbatim, got %v", c)
	}
}
