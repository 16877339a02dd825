// Package outwriter has output and writer logic.
package outwriter

import (
	"io"
	"time"

	"github.com/huangsam/macrodash/internal/contract"
	"github.com/huangsam/macrodash/schema"
)

// OutWriter provides a unified interface for all output operations.
// Table, JSON and CSV output go to W unless the config names an output file.
type OutWriter struct {
	W io.Writer
}

// NewOutWriter creates a new instance of the output writer.
func NewOutWriter(w io.Writer) *OutWriter {
	return &OutWriter{W: w}
}

// WriteSummary prints a summary result using the configured output format.
func (ow *OutWriter) WriteSummary(result schema.SummaryResult, cfg *contract.Config, duration time.Duration) error {
	return PrintSummaryResults(ow.W, result, cfg, duration)
}

// WriteSeries prints a series result using the configured output format.
func (ow *OutWriter) WriteSeries(result schema.SeriesResult, cfg *contract.Config, duration time.Duration) error {
	return PrintSeriesResults(ow.W, result, cfg, duration)
}

// WriteCompare prints a comparison result using the configured output format.
func (ow *OutWriter) WriteCompare(result schema.CompareResult, cfg *contract.Config, duration time.Duration) error {
	return PrintCompareResults(ow.W, result, cfg, duration)
}

// WriteIndicators prints the indicator catalog using the configured output format.
func (ow *OutWriter) WriteIndicators(indicators []schema.Indicator, cfg *contract.Config) error {
	return PrintIndicators(ow.W, indicators, cfg)
}
