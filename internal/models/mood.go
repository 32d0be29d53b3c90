// ABOUTME: Core data models for mood entries and the fixed mood type table.
// ABOUTME: Provides constructors that assign identity, timestamps, and normalize comments.
package models

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

var (
	// ErrUnknownMoodType is returned when a string does not name a mood type.
	ErrUnknownMoodType = errors.New("unknown mood type")

	// ErrInvalidEntry is returned when an entry cannot be persisted.
	ErrInvalidEntry = errors.New("invalid mood entry")
)

// MoodType is one of the closed set of mood categories.
type MoodType string

const (
	MoodHappy   MoodType = "happy"
	MoodSad     MoodType = "sad"
	MoodAnxious MoodType = "anxious"
	MoodAngry   MoodType = "angry"
	MoodNeutral MoodType = "neutral"
	MoodOther   MoodType = "other"
)

type moodInfo struct {
	label string
	emoji string
	score float64
}

var moodTable = map[MoodType]moodInfo{
	MoodHappy:   {label: "Happy", emoji: "😊", score: 5},
	MoodSad:     {label: "Sad", emoji: "😢", score: 2},
	MoodAnxious: {label: "Anxious", emoji: "😰", score: 2},
	MoodAngry:   {label: "Angry", emoji: "😠", score: 1},
	MoodNeutral: {label: "Neutral", emoji: "😐", score: 3},
	MoodOther:   {label: "Other", emoji: "🤔", score: 3},
}

var moodOrder = []MoodType{MoodHappy, MoodSad, MoodAnxious, MoodAngry, MoodNeutral, MoodOther}

// AllMoodTypes returns every mood type in display order.
func AllMoodTypes() []MoodType {
	out := make([]MoodType, len(moodOrder))
	copy(out, moodOrder)
	return out
}

// ParseMoodType resolves a stored or user-supplied key to a MoodType.
func ParseMoodType(s string) (MoodType, error) {
	t := MoodType(strings.ToLower(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownMoodType, s)
	}
	return t, nil
}

// Valid reports whether t is one of the known mood types.
func (t MoodType) Valid() bool {
	_, ok := moodTable[t]
	return ok
}

// Label returns the human-readable name of the mood.
func (t MoodType) Label() string {
	return moodTable[t].label
}

// Emoji returns the glyph shown next to the mood.
func (t MoodType) Emoji() string {
	return moodTable[t].emoji
}

// Score is the value plotted for the mood in history charts (1 = worst, 5 = best).
func (t MoodType) Score() float64 {
	return moodTable[t].score
}

func (t MoodType) String() string {
	return string(t)
}

// MoodEntry is one recorded mood observation.
type MoodEntry struct {
	ID        uuid.UUID
	Type      MoodType
	Comment   *string // nil when the user left no comment
	Timestamp time.Time
}

// NewMoodEntry creates an entry with a generated UUID stamped with the current time.
func NewMoodEntry(moodType MoodType, comment string) MoodEntry {
	return NewMoodEntryAt(moodType, comment, time.Time{})
}

// NewMoodEntryAt creates an entry with a generated UUID and the given timestamp.
// A zero timestamp is replaced with the current time.
func NewMoodEntryAt(moodType MoodType, comment string, ts time.Time) MoodEntry {
	if ts.IsZero() {
		ts = time.Now()
	}
	return MoodEntry{
		ID:        uuid.New(),
		Type:      moodType,
		Comment:   NormalizeComment(comment),
		Timestamp: ts,
	}
}

// CommentText returns the comment or an empty string when absent.
func (e MoodEntry) CommentText() string {
	if e.Comment == nil {
		return ""
	}
	return *e.Comment
}

// ShortID returns the first eight characters of the entry ID.
func (e MoodEntry) ShortID() string {
	return e.ID.String()[:8]
}

// Validate checks that the entry carries an identity, a known type and a timestamp,
// and that an empty comment is stored as absent.
func (e MoodEntry) Validate() error {
	if e.ID == uuid.Nil {
		return fmt.Errorf("%w: missing id", ErrInvalidEntry)
	}
	if !e.Type.Valid() {
		return fmt.Errorf("%w: unknown type %q", ErrInvalidEntry, e.Type)
	}
	if e.Timestamp.IsZero() {
		return fmt.Errorf("%w: missing timestamp", ErrInvalidEntry)
	}
	if e.Comment != nil && *e.Comment == "" {
		return fmt.Errorf("%w: empty comment must be absent", ErrInvalidEntry)
	}
	return nil
}

// NormalizeComment maps an empty comment to absent.
func NormalizeComment(comment string) *string {
	if comment == "" {
		return nil
	}
	return &comment
}
