package contract

import (
	"testing"
	"unicode/utf8"
)

// FuzzTruncateText fuzzes TruncateText with random labels and widths.
func FuzzTruncateText(f *testing.F) {
	seeds := []struct {
		text  string
		width int
	}{
		{"Malaysia", 20},
		{"Mobile & internet banking transactions", 10},
		{"", 0},
		{"R² = 0.998", 4},
	}
	for _, seed := range seeds {
		f.Add(seed.text, seed.width)
	}

	f.Fuzz(func(t *testing.T, text string, width int) {
		got := TruncateText(text, width)
		if width > 3 && utf8.RuneCountInString(text) > width && utf8.RuneCountInString(got) != width {
			t.Fatalf("TruncateText(%q, %d) = %q has wrong width", text, width, got)
		}
	})
}
