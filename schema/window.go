package schema

import (
	"fmt"
	"strconv"
	"strings"
)

// Window selects a subsequence of a series.
type Window struct {
	Kind WindowKind `json:"kind"`
	N    int        `json:"n,omitempty"`    // observation count for WindowLastN
	Year int        `json:"year,omitempty"` // first included period for WindowSince
}

// AllWindow returns the identity window.
func AllWindow() Window {
	return Window{Kind: WindowAll}
}

// LastNWindow returns a window over the last n observations.
func LastNWindow(n int) (Window, error) {
	if _, ok := ValidLastN[n]; !ok {
		return Window{}, fmt.Errorf("last window must be 5, 10, 20 or 30 observations (received %d)", n)
	}
	return Window{Kind: WindowLastN, N: n}, nil
}

// SinceYearWindow returns a window over periods at or after year.
func SinceYearWindow(year int) Window {
	return Window{Kind: WindowSince, Year: year}
}

// ParseWindow parses selectors such as "all", "last10" or "since2000".
func ParseWindow(s string) (Window, error) {
	sel := strings.ToLower(strings.TrimSpace(s))
	switch {
	case sel == "" || sel == string(WindowAll):
		return AllWindow(), nil
	case strings.HasPrefix(sel, string(WindowLastN)):
		n, err := strconv.Atoi(strings.TrimPrefix(sel, string(WindowLastN)))
		if err != nil {
			return Window{}, fmt.Errorf("invalid window '%s'. expected lastN with N one of 5, 10, 20, 30", s)
		}
		w, err := LastNWindow(n)
		if err != nil {
			return Window{}, fmt.Errorf("invalid window '%s': %w", s, err)
		}
		return w, nil
	case strings.HasPrefix(sel, string(WindowSince)):
		year, err := strconv.Atoi(strings.TrimPrefix(sel, string(WindowSince)))
		if err != nil {
			return Window{}, fmt.Errorf("invalid window '%s'. expected sinceYYYY", s)
		}
		return SinceYearWindow(year), nil
	default:
		return Window{}, fmt.Errorf("invalid window '%s'. must be all, last5, last10, last20, last30 or sinceYYYY", s)
	}
}

// String returns the selector form of the window.
func (w Window) String() string {
	switch w.Kind {
	case WindowLastN:
		return fmt.Sprintf("%s%d", WindowLastN, w.N)
	case WindowSince:
		return fmt.Sprintf("%s%d", WindowSince, w.Year)
	default:
		return string(WindowAll)
	}
}
