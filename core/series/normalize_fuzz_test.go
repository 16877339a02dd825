package series

import (
	"testing"

	"github.com/huangsam/macrodash/schema"
)

// FuzzNormalize checks that normalization always yields a sorted, duplicate-free series.
func FuzzNormalize(f *testing.F) {
	f.Add("2000", "1.5", "1999", "2", "XDC")
	f.Add("2000", "", "2000", "nan", "")
	f.Add("abc", "1e308", "-5", "-1e308", "ACCT")

	f.Fuzz(func(t *testing.T, p1, v1, p2, v2, unit string) {
		records := []schema.RawRecord{
			{"TIME_PERIOD": p1, "OBS_VALUE": v1, "UNIT_MEASURE": unit},
			{"TIME_PERIOD": p2, "OBS_VALUE": v2},
			{"TIME_PERIOD": p1, "OBS_VALUE": v2},
		}
		s := Normalize(records, unit)
		for i := 1; i < len(s); i++ {
			if s[i-1].Year() >= s[i].Year() {
				t.Fatalf("series not strictly ascending: %v", s)
			}
		}
		for _, o := range s {
			if !schema.IsFinite(o.Value) {
				t.Fatalf("non-finite value kept: %v", o)
			}
		}
		if summary := Summarize(s); summary != nil && summary.Peak.Value < summary.LatestValue {
			t.Fatalf("peak %v below latest %v", summary.Peak.Value, summary.LatestValue)
		}
	})
}
