package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/huangsam/macrodash/schema"
	"github.com/rs/zerolog/log"
)

// Color variables for console output.
var (
	RisingColor  = color.New(color.FgGreen, color.Bold) // RisingColor marks an upward slope.
	FallingColor = color.New(color.FgRed, color.Bold)   // FallingColor marks a downward slope.
	FlatColor    = color.New(color.FgYellow)            // FlatColor marks a zero slope.
	MissingColor = color.New(color.FgHiBlack)           // MissingColor marks values that cannot be shown.
)

// GetPlainTrendLabel returns the plain label for a fitted trend.
// A nil trend means there was not enough data to fit one.
func GetPlainTrendLabel(trend *schema.TrendModel) string {
	if trend == nil {
		return schema.InvalidPlaceholder
	}
	return string(trend.Direction())
}

// GetColorTrendLabel returns a colored trend label for console output (table).
func GetColorTrendLabel(trend *schema.TrendModel) string {
	text := GetPlainTrendLabel(trend)
	if trend == nil {
		return MissingColor.Sprint(text)
	}
	switch trend.Direction() {
	case schema.TrendRising:
		return RisingColor.Sprint(text)
	case schema.TrendFalling:
		return FallingColor.Sprint(text)
	default:
		return FlatColor.Sprint(text)
	}
}

// ColorSigned colors text by the sign of v: green when positive, red when negative.
func ColorSigned(text string, v float64) string {
	switch {
	case !schema.IsFinite(v):
		return MissingColor.Sprint(text)
	case v > 0:
		return RisingColor.Sprint(text)
	case v < 0:
		return FallingColor.Sprint(text)
	default:
		return text
	}
}

// SelectOutputFile returns the appropriate file handle for output, based on the provided
// file path. An empty path selects os.Stdout.
func SelectOutputFile(filePath string) (*os.File, error) {
	if filePath == "" {
		return os.Stdout, nil
	}
	return os.Create(filePath)
}

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	log.Fatal().Err(err).Msg(msg)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	log.Warn().Err(err).Msg(msg)
}

// GetCacheDBFilePath returns the path to the SQLite DB file for response caching.
func GetCacheDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".macrodash_cache.db"
	}
	return filepath.Join(homeDir, ".macrodash_cache.db")
}

// GetAnalysisDBFilePath returns the path to the SQLite DB file for analysis storage.
func GetAnalysisDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".macrodash_analysis.db"
	}
	return filepath.Join(homeDir, ".macrodash_analysis.db")
}

// TruncateText truncates a label to a maximum width with an ellipsis suffix.
// Requires maxWidth > 3 to leave room for the "..." and at least one character.
func TruncateText(text string, maxWidth int) string {
	runes := []rune(text)
	if len(runes) > maxWidth && maxWidth > 3 {
		return string(runes[:maxWidth-3]) + "..."
	}
	return text
}

// ParseBoolString parses a string value into a boolean.
// Accepts "yes", "no", "true", "false", "1", "0" (case-insensitive).
// Returns an error for invalid values.
func ParseBoolString(s string) (bool, error) {
	switch strings.ToLower(s) {
	case "yes", "true", "1":
		return true, nil
	case "no", "false", "0":
		return false, nil
	default:
		return false, fmt.Errorf("invalid boolean string: %s (expected yes/no/true/false/1/0)", s)
	}
}
