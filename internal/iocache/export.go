package iocache

import (
	"errors"
	"fmt"
	"io"

	"github.com/huangsam/macrodash/internal/contract"
	"github.com/huangsam/macrodash/internal/parquet"
)

// ExportPaths returns the Parquet files written for an export prefix.
func ExportPaths(outputFile string) (runsFile, resultsFile string) {
	return outputFile + ".analysis_runs.parquet", outputFile + ".series_results.parquet"
}

// ExecuteAnalysisExport exports analysis runs and series results to Parquet files.
func ExecuteAnalysisExport(w io.Writer, store contract.AnalysisStore, outputFile string) error {
	if outputFile == "" {
		return errors.New("--output-file is required for export command")
	}

	status, err := store.GetStatus()
	if err != nil {
		return fmt.Errorf("failed to get analysis status: %w", err)
	}
	if status.TotalRuns == 0 {
		return errors.New("no analysis data found to export")
	}

	_, _ = fmt.Fprintf(w, "Exporting data from %s backend...\n", status.Backend)
	_, _ = fmt.Fprintf(w, "Total analysis runs: %d\n", status.TotalRuns)
	_, _ = fmt.Fprintf(w, "Total series records: %d\n", status.TableSizes[seriesResultsTable])

	analysisRuns, err := store.GetAllAnalysisRuns()
	if err != nil {
		return fmt.Errorf("failed to retrieve analysis runs: %w", err)
	}
	seriesResults, err := store.GetAllSeriesResults()
	if err != nil {
		return fmt.Errorf("failed to retrieve series results: %w", err)
	}

	runsFile, resultsFile := ExportPaths(outputFile)

	parquetRuns := parquet.ConvertAnalysisRunRecords(analysisRuns)
	if err := parquet.WriteAnalysisRunsParquet(parquetRuns, runsFile); err != nil {
		return fmt.Errorf("failed to write analysis runs: %w", err)
	}
	_, _ = fmt.Fprintf(w, "Exported %d analysis runs to: %s\n", len(parquetRuns), runsFile)

	parquetResults := parquet.ConvertSeriesResultRecords(seriesResults)
	if err := parquet.WriteSeriesResultsParquet(parquetResults, resultsFile); err != nil {
		return fmt.Errorf("failed to write series results: %w", err)
	}
	_, _ = fmt.Fprintf(w, "Exported %d series records to: %s\n", len(parquetResults), resultsFile)

	return nil
}
