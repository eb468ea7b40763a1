package stats

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"predtrack/models"
)

func TestCompute_SpecScenario(t *testing.T) {
	records := []*models.Record{
		{Confidence: 80, Resolved: true, Status: models.StatusCorrect},
		{Confidence: 60, Resolved: true, Status: models.StatusIncorrect},
		{Confidence: 90},
	}

	s := Compute(records)

	assert.Equal(t, 3, s.Total)
	assert.Equal(t, 2, s.Resolved)
	assert.Equal(t, 1, s.Correct)
	assert.Equal(t, 1, s.Incorrect)
	assert.Equal(t, 1, s.Pending)

	require.NotNil(t, s.Accuracy)
	assert.InDelta(t, 0.5, *s.Accuracy, 1e-9)

	// (0.8-1)^2 = 0.04, (0.6-0)^2 = 0.36, mean = 0.20
	require.NotNil(t, s.BrierScore)
	assert.InDelta(t, 0.20, *s.BrierScore, 1e-9)
}

func TestCompute_NoResolvedMeansNullAccuracy(t *testing.T) {
	s := Compute([]*models.Record{{Confidence: 50}})

	assert.Nil(t, s.Accuracy)
	assert.Nil(t, s.BrierScore)
	assert.Equal(t, 1, s.Pending)

	// The JSON view degrades to null, never NaN.
	data, err := json.Marshal(s)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"accuracy":null`)
	assert.Contains(t, string(data), `"brierScore":null`)
}

func TestCompute_EmptySet(t *testing.T) {
	s := Compute(nil)
	assert.Equal(t, 0, s.Total)
	assert.Nil(t, s.Accuracy)
	assert.Empty(t, s.CategoryCounts)
}

func TestCompute_ConfidenceBuckets(t *testing.T) {
	records := []*models.Record{
		{Confidence: 0},
		{Confidence: 33},
		{Confidence: 34},
		{Confidence: 66},
		{Confidence: 67},
		{Confidence: 100},
	}

	s := Compute(records)
	assert.Equal(t, 2, s.ConfidenceBuckets.Low)
	assert.Equal(t, 2, s.ConfidenceBuckets.Medium)
	assert.Equal(t, 2, s.ConfidenceBuckets.High)
}

func TestCompute_CategoryCountsAreAMultiset(t *testing.T) {
	records := []*models.Record{
		{Confidence: 50, Categories: []string{"economics", "fed"}},
		{Confidence: 50, Categories: []string{"economics"}},
		{Confidence: 50},
	}

	s := Compute(records)
	assert.Equal(t, map[string]int{"economics": 2, "fed": 1}, s.CategoryCounts)
}

func TestCompute_DoesNotMutateRecords(t *testing.T) {
	rec := &models.Record{Confidence: 80, Resolved: true, Status: models.StatusCorrect, Categories: []string{"a"}}
	snapshot := *rec
	Compute([]*models.Record{rec})
	assert.Equal(t, snapshot, *rec)
}
