package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"predtrack/internal/store"
	"predtrack/models"
)

func newTestServer(t *testing.T) (*httptest.Server, string) {
	t.Helper()
	dir := t.TempDir()
	srv := httptest.NewServer(New(store.New(dir)).Handler())
	t.Cleanup(srv.Close)
	return srv, dir
}

func writeRecord(t *testing.T, dir, name, frontmatter string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name+".md"), []byte("---\n"+frontmatter+"---\n"), 0644))
}

func TestStatsEndpoint(t *testing.T) {
	srv, dir := newTestServer(t)
	writeRecord(t, dir, "a", "statement: a\nconfidence: 80\ncreated: \"2025-01-01\"\nresolved: true\nstatus: correct\n")
	writeRecord(t, dir, "b", "statement: b\nconfidence: 90\ncreated: \"2025-01-02\"\n")

	resp, err := http.Get(srv.URL + "/api/stats")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	var s models.Stats
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&s))
	assert.Equal(t, 2, s.Total)
	assert.Equal(t, 1, s.Resolved)
	assert.Equal(t, 1, s.Pending)
	require.NotNil(t, s.Accuracy)
	assert.InDelta(t, 1.0, *s.Accuracy, 1e-9)
}

func TestPredictionsEndpoint_FiltersPrivateRecords(t *testing.T) {
	srv, dir := newTestServer(t)
	writeRecord(t, dir, "public-claim", "statement: shown\nconfidence: 50\ncreated: \"2025-01-01\"\n")
	writeRecord(t, dir, "private-claim", "statement: hidden\nconfidence: 50\ncreated: \"2025-01-01\"\nvisibility: private\n")

	resp, err := http.Get(srv.URL + "/api/predictions")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var records []*models.Record
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&records))
	require.Len(t, records, 1)
	assert.Equal(t, "public-claim", records[0].ID)
}

func TestStatsEndpoint_SkipsMalformedRecords(t *testing.T) {
	srv, dir := newTestServer(t)
	writeRecord(t, dir, "good", "statement: fine\nconfidence: 50\ncreated: \"2025-01-01\"\n")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.md"), []byte("no frontmatter"), 0644))

	resp, err := http.Get(srv.URL + "/api/stats")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var s models.Stats
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&s))
	assert.Equal(t, 1, s.Total)
}
