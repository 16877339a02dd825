package series

import (
	"github.com/huangsam/macrodash/schema"
	"github.com/montanaflynn/stats"
)

// Summarize computes the domain summary of a series, or nil when it is empty.
//
// The peak is the first occurrence of the maximum value. Growth is measured
// against the observation at schema.BaselinePeriod when present, otherwise
// against the first observation; it is not finite when the baseline is zero.
func Summarize(s schema.Series) *schema.Summary {
	if len(s) == 0 {
		return nil
	}
	sorted := sortedCopy(s)
	first, last := sorted[0], sorted[len(sorted)-1]

	peak := schema.PeriodValue{Period: first.Period, Value: first.Value}
	baseline := peak
	for _, o := range sorted[1:] {
		if o.Value > peak.Value {
			peak = schema.PeriodValue{Period: o.Period, Value: o.Value}
		}
	}
	for _, o := range sorted {
		if o.Period == schema.BaselinePeriod {
			baseline = schema.PeriodValue{Period: o.Period, Value: o.Value}
			break
		}
	}

	return &schema.Summary{
		StartPeriod:         first.Period,
		EndPeriod:           last.Period,
		LatestValue:         last.Value,
		Peak:                peak,
		Baseline:            baseline,
		GrowthSinceBaseline: Growth(baseline.Value, last.Value),
	}
}

// Growth returns the percentage change from base to latest.
func Growth(base, latest float64) float64 {
	return (latest - base) / base * 100
}

// Describe computes mean, median and population standard deviation, or nil when s is empty.
func Describe(s schema.Series) *schema.Descriptive {
	if len(s) == 0 {
		return nil
	}
	data := stats.Float64Data(s.Values())

	mean, err := stats.Mean(data)
	if err != nil {
		return nil
	}
	median, err := stats.Median(data)
	if err != nil {
		return nil
	}
	stdDev, err := stats.StandardDeviationPopulation(data)
	if err != nil {
		return nil
	}

	return &schema.Descriptive{
		Count:  len(s),
		Mean:   mean,
		Median: median,
		StdDev: stdDev,
	}
}
