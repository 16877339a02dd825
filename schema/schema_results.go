package schema

// SummaryResult is the output of the summary command for one entity.
type SummaryResult struct {
	Indicator    Indicator    `json:"indicator"`
	Query        Query        `json:"query"`
	Observations Series       `json:"observations"`
	Summary      *Summary     `json:"summary"`
	Stats        *Descriptive `json:"stats"`
	Trend        *TrendModel  `json:"trend"`
}

// SeriesRow is one period of a series with its fitted trend value.
type SeriesRow struct {
	Period string   `json:"period"`
	Value  float64  `json:"value"`
	Unit   string   `json:"unit,omitempty"`
	Trend  *float64 `json:"trend"`
}

// SeriesResult is the output of the series command for one entity.
type SeriesResult struct {
	Indicator Indicator   `json:"indicator"`
	Query     Query       `json:"query"`
	Rows      []SeriesRow `json:"rows"`
	Trend     *TrendModel `json:"trend"`
}

// EntitySummary is the per-entity summary shown next to a comparison.
type EntitySummary struct {
	Entity  string       `json:"entity"`
	Count   int          `json:"count"`
	Summary *Summary     `json:"summary"`
	Stats   *Descriptive `json:"stats"`
	Trend   *TrendModel  `json:"trend"`
}

// CompareResult is the output of the compare command.
type CompareResult struct {
	Indicator Indicator       `json:"indicator"`
	Query     Query           `json:"query"`
	Entities  []string        `json:"entities"`
	Matrix    AlignedMatrix   `json:"matrix"`
	Summaries []EntitySummary `json:"summaries"`
}

// NewSeriesRows joins a series with its trend predictions.
func NewSeriesRows(series Series, trend *TrendModel) []SeriesRow {
	rows := make([]SeriesRow, len(series))
	for i, o := range series {
		row := SeriesRow{Period: o.Period, Value: o.Value, Unit: o.Unit}
		if trend != nil {
			if p, ok := trend.Predicted[o.Period]; ok {
				row.Trend = FiniteOrNil(p)
			}
		}
		rows[i] = row
	}
	return rows
}
