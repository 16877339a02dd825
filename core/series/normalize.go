// Package series has the pure transformation and statistics pipeline for indicator series.
package series

import (
	"cmp"
	"encoding/json"
	"math"
	"slices"
	"strconv"
	"strings"

	"github.com/huangsam/macrodash/schema"
)

// Normalize converts raw Data360 records into a canonical series.
// See NormalizeFields for the rules applied.
func Normalize(records []schema.RawRecord, targetUnit string) schema.Series {
	return NormalizeFields(records, schema.DefaultFields, targetUnit)
}

// NormalizeFields converts raw records into a canonical series using the given field names.
//
// Records with a missing or non-numeric value, or a period that is not a year, are dropped.
// When targetUnit is set, records tagged with a different unit are dropped; untagged
// records are always kept. Duplicate periods resolve to the last record in input order.
func NormalizeFields(records []schema.RawRecord, fields schema.FieldMap, targetUnit string) schema.Series {
	byPeriod := make(map[int]int, len(records)) // year -> index into out
	out := make(schema.Series, 0, len(records))

	for _, r := range records {
		year, ok := parsePeriod(r[fields.Period])
		if !ok {
			continue
		}
		value, ok := parseValue(r[fields.Value])
		if !ok {
			continue
		}
		unit := parseUnit(r[fields.Unit])
		if targetUnit != "" && unit != "" && unit != targetUnit {
			continue
		}

		obs := schema.Observation{Period: strconv.Itoa(year), Value: value, Unit: unit}
		if idx, seen := byPeriod[year]; seen {
			out[idx] = obs
			continue
		}
		byPeriod[year] = len(out)
		out = append(out, obs)
	}

	sortByPeriod(out)
	return out
}

// sortByPeriod sorts observations in place by numeric period.
func sortByPeriod(s schema.Series) {
	slices.SortStableFunc(s, func(a, b schema.Observation) int {
		return cmp.Compare(a.Year(), b.Year())
	})
}

// sortedCopy returns an ascending copy without touching the input.
func sortedCopy(s schema.Series) schema.Series {
	c := slices.Clone(s)
	sortByPeriod(c)
	return c
}

// parsePeriod extracts an integer year from a string or numeric field.
func parsePeriod(raw any) (int, bool) {
	switch v := raw.(type) {
	case string:
		y, err := strconv.Atoi(strings.TrimSpace(v))
		return y, err == nil
	case json.Number:
		y, err := strconv.Atoi(v.String())
		return y, err == nil
	case float64:
		if !schema.IsFinite(v) || v != math.Trunc(v) || math.Abs(v) > math.MaxInt32 {
			return 0, false
		}
		return int(v), true
	case int:
		return v, true
	case int64:
		return int(v), true
	default:
		return 0, false
	}
}

// parseValue extracts a finite number from a string or numeric field.
func parseValue(raw any) (float64, bool) {
	var f float64
	switch v := raw.(type) {
	case string:
		s := strings.TrimSpace(v)
		if s == "" {
			return 0, false
		}
		parsed, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	case json.Number:
		parsed, err := v.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	case float64:
		f = v
	case float32:
		f = float64(v)
	case int:
		f = float64(v)
	case int64:
		f = float64(v)
	default:
		return 0, false
	}
	return f, schema.IsFinite(f)
}

// parseUnit returns the unit tag, or an empty string when the record carries none.
func parseUnit(raw any) string {
	s, ok := raw.(string)
	if !ok {
		return ""
	}
	return strings.TrimSpace(s)
}
