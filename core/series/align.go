package series

import (
	"cmp"
	"slices"

	"github.com/huangsam/macrodash/schema"
)

// Align merges several series onto the sorted union of their periods.
// Cells for periods a series lacks are nil; nothing is interpolated.
func Align(seriesList []schema.Series) schema.AlignedMatrix {
	lookups := make([]map[string]float64, len(seriesList))
	seen := make(map[string]int)
	for i, s := range seriesList {
		lookup := make(map[string]float64, len(s))
		for _, o := range s {
			lookup[o.Period] = o.Value
			if _, ok := seen[o.Period]; !ok {
				seen[o.Period] = o.Year()
			}
		}
		lookups[i] = lookup
	}

	years := make([]string, 0, len(seen))
	for p := range seen {
		years = append(years, p)
	}
	slices.SortFunc(years, func(a, b string) int {
		if c := cmp.Compare(seen[a], seen[b]); c != 0 {
			return c
		}
		return cmp.Compare(a, b)
	})

	rows := make([][]*float64, len(years))
	for r, p := range years {
		row := make([]*float64, len(lookups))
		for col, lookup := range lookups {
			if v, ok := lookup[p]; ok {
				row[col] = &v
			}
		}
		rows[r] = row
	}

	return schema.AlignedMatrix{Years: years, Rows: rows}
}
