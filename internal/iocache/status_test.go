package iocache

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/huangsam/macrodash/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrintCacheStatus(t *testing.T) {
	var buf bytes.Buffer
	PrintCacheStatus(&buf, schema.CacheStatus{Backend: "none"})
	assert.Equal(t, "Cache Backend: none\nConnected: false\n", buf.String())

	buf.Reset()
	ts := time.Date(2025, 2, 3, 4, 5, 6, 0, time.Local)
	PrintCacheStatus(&buf, schema.CacheStatus{
		Backend:         "sqlite",
		Connected:       true,
		TotalEntries:    4,
		LastEntryTime:   ts,
		OldestEntryTime: ts,
		TableSizeBytes:  8192,
	})
	out := buf.String()
	assert.Contains(t, out, "Total Entries: 4")
	assert.Contains(t, out, "Last Entry: 2025-02-03 04:05:06")
	assert.Contains(t, out, "Table Size: 8192 bytes")
}

func TestPrintAnalysisStatus(t *testing.T) {
	var buf bytes.Buffer
	PrintAnalysisStatus(&buf, schema.AnalysisStatus{
		Backend:              "sqlite",
		Connected:            true,
		TotalRuns:            2,
		LastRunID:            2,
		TotalSeriesProcessed: 11,
		TableSizes: map[string]int64{
			seriesResultsTable: 11,
			analysisRunsTable:  2,
		},
	})
	out := buf.String()
	assert.Contains(t, out, "Total Series Processed: 11")

	// Tables are listed in name order
	runsIdx := bytes.Index(buf.Bytes(), []byte(analysisRunsTable))
	resultsIdx := bytes.Index(buf.Bytes(), []byte(seriesResultsTable))
	assert.Less(t, runsIdx, resultsIdx)
}

func TestExecuteAnalysisExport(t *testing.T) {
	t.Run("requires output file", func(t *testing.T) {
		err := ExecuteAnalysisExport(&bytes.Buffer{}, &MockAnalysisStore{}, "")
		assert.Error(t, err)
	})

	t.Run("no data", func(t *testing.T) {
		store := &MockAnalysisStore{}
		store.On("GetStatus").Return(schema.AnalysisStatus{Backend: "sqlite", Connected: true}, nil)

		err := ExecuteAnalysisExport(&bytes.Buffer{}, store, filepath.Join(t.TempDir(), "out"))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "no analysis data")
	})

	t.Run("status failure", func(t *testing.T) {
		store := &MockAnalysisStore{}
		store.On("GetStatus").Return(schema.AnalysisStatus{}, errors.New("boom"))

		err := ExecuteAnalysisExport(&bytes.Buffer{}, store, filepath.Join(t.TempDir(), "out"))
		assert.ErrorContains(t, err, "boom")
	})

	t.Run("writes both files", func(t *testing.T) {
		store := newMemoryAnalysisStore(t)
		at := time.Now()
		id, err := store.BeginAnalysis(at, map[string]any{"indicator": "gdp"})
		require.NoError(t, err)
		require.NoError(t, store.RecordSeriesResult(id, sampleMetrics("MYS", at)))
		require.NoError(t, store.EndAnalysis(id, at.Add(time.Second), 1))

		prefix := filepath.Join(t.TempDir(), "export")
		var buf bytes.Buffer
		require.NoError(t, ExecuteAnalysisExport(&buf, store, prefix))

		runsFile, resultsFile := ExportPaths(prefix)
		for _, path := range []string{runsFile, resultsFile} {
			info, err := os.Stat(path)
			require.NoError(t, err)
			assert.Greater(t, info.Size(), int64(0))
		}
		assert.Contains(t, buf.String(), "Exported 1 analysis runs")
		assert.Contains(t, buf.String(), "Exported 1 series records")
	})
}
