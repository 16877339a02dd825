package series

import (
	"github.com/huangsam/macrodash/schema"
)

// Filter returns the observations of s selected by w as a fresh slice in
// ascending period order. A window wider than the data returns whatever is available.
func Filter(s schema.Series, w schema.Window) schema.Series {
	sorted := sortedCopy(s)
	switch w.Kind {
	case schema.WindowLastN:
		if w.N <= 0 {
			return schema.Series{}
		}
		start := max(len(sorted)-w.N, 0)
		return sorted[start:]
	case schema.WindowSince:
		out := make(schema.Series, 0, len(sorted))
		for _, o := range sorted {
			if o.Year() >= w.Year {
				out = append(out, o)
			}
		}
		return out
	default:
		return sorted
	}
}
