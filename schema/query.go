package schema

import "slices"

// Query is the immutable selection passed into the pipeline.
type Query struct {
	Entity        string   `json:"entity"`
	Unit          string   `json:"unit,omitempty"`
	Window        Window   `json:"window"`
	ComparisonSet []string `json:"comparison_set,omitempty"`
}

// NewQuery builds a Query that owns its own copy of the comparison set.
func NewQuery(entity, unit string, window Window, comparisonSet []string) Query {
	return Query{
		Entity:        entity,
		Unit:          unit,
		Window:        window,
		ComparisonSet: slices.Clone(comparisonSet),
	}
}

// WithEntity returns a copy of the query focused on another entity.
func (q Query) WithEntity(entity string) Query {
	return NewQuery(entity, q.Unit, q.Window, q.ComparisonSet)
}

// WithWindow returns a copy of the query with another window.
func (q Query) WithWindow(w Window) Query {
	return NewQuery(q.Entity, q.Unit, w, q.ComparisonSet)
}

// FetchRequest describes one call to the data source.
type FetchRequest struct {
	Indicator Indicator
	Country   string
	Unit      string
	From      int
	To        int
}
