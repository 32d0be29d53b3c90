// ABOUTME: Merges imported mood entries into a journal by entry id.
// ABOUTME: Entries already present are skipped; the first failed add stops the merge.
package portability

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/2389-research/mood/internal/models"
	"github.com/2389-research/mood/internal/storage"
)

// MergeResult counts what a merge did.
type MergeResult struct {
	Added   int
	Skipped int
}

// Merge adds each entry whose id is not yet in the journal. Duplicate ids
// within entries are added once. On error the result reports the entries
// committed before the failure.
func Merge(ctx context.Context, journal storage.MoodJournal, entries []models.MoodEntry) (MergeResult, error) {
	existing := make(map[uuid.UUID]bool)
	for _, e := range journal.Entries() {
		existing[e.ID] = true
	}

	var res MergeResult
	for _, entry := range entries {
		if existing[entry.ID] {
			res.Skipped++
			continue
		}
		if err := journal.Add(ctx, entry); err != nil {
			return res, fmt.Errorf("import stopped after %d entries: %w", res.Added, err)
		}
		existing[entry.ID] = true
		res.Added++
	}
	return res, nil
}
