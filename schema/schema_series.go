package schema

import (
	"encoding/json"
	"math"
	"strconv"
)

// RawRecord is a single observation record as decoded from the data source.
type RawRecord map[string]any

// FieldMap names the record fields that hold the period, value and unit.
type FieldMap struct {
	Period string
	Value  string
	Unit   string
}

// DefaultFields maps the Data360 record layout.
var DefaultFields = FieldMap{
	Period: "TIME_PERIOD",
	Value:  "OBS_VALUE",
	Unit:   "UNIT_MEASURE",
}

// Observation is one value of an indicator for a single period.
type Observation struct {
	Period string  `json:"period"`
	Value  float64 `json:"value"`
	Unit   string  `json:"unit,omitempty"`
}

// Year returns the numeric period. Periods of a canonical series always parse.
func (o Observation) Year() int {
	y, _ := strconv.Atoi(o.Period)
	return y
}

// Series is an ordered list of observations, ascending by period with no duplicates.
type Series []Observation

// Values returns the value column of the series.
func (s Series) Values() []float64 {
	values := make([]float64, len(s))
	for i, o := range s {
		values[i] = o.Value
	}
	return values
}

// Periods returns the period column of the series.
func (s Series) Periods() []string {
	periods := make([]string, len(s))
	for i, o := range s {
		periods[i] = o.Period
	}
	return periods
}

// Records converts the series back into raw records using the default field names.
func (s Series) Records() []RawRecord {
	records := make([]RawRecord, len(s))
	for i, o := range s {
		r := RawRecord{
			DefaultFields.Period: o.Period,
			DefaultFields.Value:  o.Value,
		}
		if o.Unit != "" {
			r[DefaultFields.Unit] = o.Unit
		}
		records[i] = r
	}
	return records
}

// PeriodValue pairs a period with a value.
type PeriodValue struct {
	Period string  `json:"period"`
	Value  float64 `json:"value"`
}

// Summary holds the domain summary of a series.
type Summary struct {
	StartPeriod         string      `json:"start_period"`
	EndPeriod           string      `json:"end_period"`
	LatestValue         float64     `json:"latest_value"`
	Peak                PeriodValue `json:"peak"`
	Baseline            PeriodValue `json:"baseline"`
	GrowthSinceBaseline float64     `json:"growth_since_baseline"`
}

// GrowthValid reports whether the growth figure can be displayed.
func (s Summary) GrowthValid() bool {
	return IsFinite(s.GrowthSinceBaseline)
}

// MarshalJSON encodes a non-finite growth figure as null.
func (s Summary) MarshalJSON() ([]byte, error) {
	type alias Summary
	return json.Marshal(struct {
		alias
		GrowthSinceBaseline *float64 `json:"growth_since_baseline"`
	}{
		alias:               alias(s),
		GrowthSinceBaseline: FiniteOrNil(s.GrowthSinceBaseline),
	})
}

// Descriptive holds plain descriptive statistics over the value column.
type Descriptive struct {
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	StdDev float64 `json:"std_dev"` // population
}

// TrendModel is an ordinary least squares line fitted to (period, value).
type TrendModel struct {
	Slope     float64            `json:"slope"`
	Intercept float64            `json:"intercept"`
	RSquared  float64            `json:"r_squared"`
	Predicted map[string]float64 `json:"predicted"`
}

// RSquaredValid reports whether R² can be displayed.
func (t TrendModel) RSquaredValid() bool {
	return IsFinite(t.RSquared)
}

// Direction classifies the slope sign.
func (t TrendModel) Direction() TrendDirection {
	switch {
	case t.Slope > 0:
		return TrendRising
	case t.Slope < 0:
		return TrendFalling
	default:
		return TrendFlat
	}
}

// MarshalJSON encodes an undefined R² as null.
func (t TrendModel) MarshalJSON() ([]byte, error) {
	type alias TrendModel
	return json.Marshal(struct {
		alias
		RSquared *float64 `json:"r_squared"`
	}{
		alias:    alias(t),
		RSquared: FiniteOrNil(t.RSquared),
	})
}

// AlignedMatrix is a sparse (period x series) projection of several series.
type AlignedMatrix struct {
	Years []string     `json:"years"`
	Rows  [][]*float64 `json:"rows"` // Rows[i][col] is nil when the series lacks Years[i]
}

// Value returns the cell for a column and period, or nil when absent.
func (m AlignedMatrix) Value(col int, period string) *float64 {
	for i, y := range m.Years {
		if y != period {
			continue
		}
		if col < 0 || col >= len(m.Rows[i]) {
			return nil
		}
		return m.Rows[i][col]
	}
	return nil
}

// Column returns one series' cells in year order.
func (m AlignedMatrix) Column(col int) []*float64 {
	cells := make([]*float64, len(m.Years))
	for i, row := range m.Rows {
		if col >= 0 && col < len(row) {
			cells[i] = row[col]
		}
	}
	return cells
}

// IsFinite reports whether v is neither NaN nor infinite.
func IsFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

// FiniteOrNil returns a pointer to v, or nil when v is not finite.
func FiniteOrNil(v float64) *float64 {
	if !IsFinite(v) {
		return nil
	}
	return &v
}
