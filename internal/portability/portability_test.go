package portability

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2389-research/mood/internal/models"
)

func sampleEntries() []models.MoodEntry {
	base := time.Date(2024, 6, 15, 9, 30, 0, 0, time.UTC)
	return []models.MoodEntry{
		models.NewMoodEntryAt(models.MoodHappy, "sunny walk", base),
		models.NewMoodEntryAt(models.MoodAnxious, "", base.Add(2*time.Hour)),
	}
}

func TestExportImportPlain(t *testing.T) {
	entries := sampleEntries()
	var buf bytes.Buffer
	require.NoError(t, Export(&buf, entries, Options{}))
	assert.Contains(t, buf.String(), `"version": 1`)
	assert.Contains(t, buf.String(), `"sunny walk"`)

	res, err := Import(&buf)
	require.NoError(t, err)
	assert.Empty(t, res.Rejected)
	require.Len(t, res.Entries, 2)
	for i := range entries {
		assert.Equal(t, entries[i].ID, res.Entries[i].ID)
		assert.Equal(t, entries[i].Type, res.Entries[i].Type)
		assert.True(t, entries[i].Timestamp.Equal(res.Entries[i].Timestamp))
	}
	assert.Equal(t, "sunny walk", res.Entries[0].CommentText())
	assert.Nil(t, res.Entries[1].Comment)
}

func TestExportImportGzip(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Export(&buf, sampleEntries(), Options{Gzip: true}))
	assert.Equal(t, gzipMagic, buf.Bytes()[:2])

	res, err := Import(&buf)
	require.NoError(t, err)
	assert.Len(t, res.Entries, 2)
}

func TestExportEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Export(&buf, nil, Options{}))
	assert.Contains(t, buf.String(), `"entries": []`)

	res, err := Import(&buf)
	require.NoError(t, err)
	assert.Empty(t, res.Entries)
}

func TestImportRejectsInvalidEntries(t *testing.T) {
	doc := `{"version":1,"exported_at":"2024-06-15T00:00:00Z","entries":[
		{"id":"8b7a2e9c-3c1f-4f0a-9a55-2f5b3d0f1e01","type":"happy","timestamp":"2024-06-15T09:00:00Z"},
		{"id":"not-a-uuid","type":"sad","timestamp":"2024-06-15T09:00:00Z"},
		{"id":"8b7a2e9c-3c1f-4f0a-9a55-2f5b3d0f1e02","type":"elated","timestamp":"2024-06-15T09:00:00Z"},
		{"id":"8b7a2e9c-3c1f-4f0a-9a55-2f5b3d0f1e03","type":"sad","timestamp":"yesterday"}
	]}`

	res, err := Import(strings.NewReader(doc))
	require.NoError(t, err)
	require.Len(t, res.Entries, 1)
	assert.Equal(t, models.MoodHappy, res.Entries[0].Type)

	require.Len(t, res.Rejected, 3)
	assert.Equal(t, 1, res.Rejected[0].Index)
	assert.Equal(t, "not-a-uuid", res.Rejected[0].ID)
	assert.Contains(t, res.Rejected[1].Reason, "unknown mood type")
	assert.Contains(t, res.Rejected[2].Reason, "timestamp")
}

func TestImportEmptyCommentIsAbsent(t *testing.T) {
	doc := `{"version":1,"exported_at":"2024-06-15T00:00:00Z","entries":[
		{"id":"8b7a2e9c-3c1f-4f0a-9a55-2f5b3d0f1e01","type":"happy","comment":"","timestamp":"2024-06-15T09:00:00Z"},
		{"id":"8b7a2e9c-3c1f-4f0a-9a55-2f5b3d0f1e02","type":"sad","comment":"rain","timestamp":"2024-06-15T10:00:00Z"}
	]}`

	res, err := Import(strings.NewReader(doc))
	require.NoError(t, err)
	require.Len(t, res.Entries, 2)
	assert.Empty(t, res.Rejected)
	assert.Nil(t, res.Entries[0].Comment)
	assert.NoError(t, res.Entries[0].Validate())
	assert.Equal(t, "rain", res.Entries[1].CommentText())
}

func TestImportUnsupportedVersion(t *testing.T) {
	_, err := Import(strings.NewReader(`{"version":7,"entries":[]}`))
	assert.ErrorContains(t, err, "unsupported export version 7")

	_, err = Import(strings.NewReader(`{"entries":[]}`))
	assert.Error(t, err)
}

func TestImportMalformed(t *testing.T) {
	_, err := Import(strings.NewReader("{"))
	assert.Error(t, err)

	_, err = Import(strings.NewReader(""))
	assert.Error(t, err)

	_, err = Import(bytes.NewReader([]byte{0x1f, 0x8b, 0x00}))
	assert.Error(t, err)
}
