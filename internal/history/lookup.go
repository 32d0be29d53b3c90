// ABOUTME: Resolves mood entries by full id or short id prefix.
// ABOUTME: Shared by the CLI and MCP delete paths.
package history

import (
	"errors"
	"fmt"
	"strings"

	"github.com/2389-research/mood/internal/models"
)

var (
	// ErrNoMatch is returned when no entry id starts with the given prefix.
	ErrNoMatch = errors.New("no entry matches")
	// ErrAmbiguous is returned when more than one entry id starts with the prefix.
	ErrAmbiguous = errors.New("prefix matches more than one entry")
)

// minPrefix is the shortest id prefix accepted for lookups.
const minPrefix = 4

// FindByPrefix returns the single entry whose id is or starts with prefix.
func FindByPrefix(entries []models.MoodEntry, prefix string) (models.MoodEntry, error) {
	prefix = strings.ToLower(strings.TrimSpace(prefix))
	if len(prefix) < minPrefix {
		return models.MoodEntry{}, fmt.Errorf("id prefix %q is too short (need at least %d characters)", prefix, minPrefix)
	}

	var found []models.MoodEntry
	for _, e := range entries {
		id := e.ID.String()
		if id == prefix {
			return e, nil
		}
		if strings.HasPrefix(id, prefix) {
			found = append(found, e)
		}
	}
	switch len(found) {
	case 0:
		return models.MoodEntry{}, fmt.Errorf("%w %q", ErrNoMatch, prefix)
	case 1:
		return found[0], nil
	}
	return models.MoodEntry{}, fmt.Errorf("%w: %q (%d matches)", ErrAmbiguous, prefix, len(found))
}
