package trail

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"predtrack/internal/integrity"
	"predtrack/models"
)

func openRecord() *models.Record {
	return &models.Record{
		ID:         "2025-rates-cut",
		Statement:  "The Fed cuts rates before July",
		Confidence: 70,
		Deadline:   "2025-07-01",
		Categories: []string{"economics"},
		Created:    "2025-01-15",
	}
}

func TestAppend_CapturesBeforeAndAfter(t *testing.T) {
	rec := openRecord()

	require.NoError(t, Append(rec, "CPI came in hot", 55, "abc123"))

	require.Len(t, rec.Updates, 1)
	entry := rec.Updates[0]
	assert.Equal(t, 70, entry.ConfidenceBefore)
	assert.Equal(t, 55, entry.ConfidenceAfter)
	assert.Equal(t, "CPI came in hot", entry.Reasoning)
	assert.Equal(t, "abc123", entry.GitCommit)
	assert.NotEmpty(t, entry.Timestamp)

	assert.Equal(t, 55, rec.Confidence)
	// The record hash tracks the post-update content and the entry records it.
	assert.Equal(t, integrity.ComputeHash(rec), entry.Hash)
	assert.Equal(t, entry.Hash, rec.Hash)
}

func TestAppend_TrailOnlyGrows(t *testing.T) {
	rec := openRecord()

	revisions := []int{60, 45, 80}
	for i, conf := range revisions {
		before := rec.Confidence
		require.NoError(t, Append(rec, "revision", conf, ""))
		require.Len(t, rec.Updates, i+1)
		// Each entry's before equals the live confidence at append time.
		assert.Equal(t, before, rec.Updates[i].ConfidenceBefore)
		assert.Equal(t, conf, rec.Updates[i].ConfidenceAfter)
	}
	// Prior entries are untouched by later appends.
	assert.Equal(t, 70, rec.Updates[0].ConfidenceBefore)
	assert.Equal(t, 60, rec.Updates[0].ConfidenceAfter)
}

func TestAppend_TerminalRecordRejected(t *testing.T) {
	rec := openRecord()
	rec.Resolved = true
	rec.Status = models.StatusCorrect

	snapshot := *rec
	err := Append(rec, "too late", 90, "")
	assert.ErrorIs(t, err, models.ErrTerminalRecord)
	// Rejected append leaves the record untouched.
	assert.Equal(t, snapshot, *rec)
}

func TestAppend_ConfidenceBounds(t *testing.T) {
	for _, bad := range []int{-1, 101} {
		rec := openRecord()
		assert.Error(t, Append(rec, "out of range", bad, ""))
		assert.Empty(t, rec.Updates)
		assert.Equal(t, 70, rec.Confidence)
	}
}
