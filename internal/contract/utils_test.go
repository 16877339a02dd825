package contract

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/huangsam/macrodash/schema"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetPlainTrendLabel(t *testing.T) {
	tests := []struct {
		name     string
		trend    *schema.TrendModel
		expected string
	}{
		{"no trend", nil, schema.InvalidPlaceholder},
		{"rising", &schema.TrendModel{Slope: 0.5}, "Rising"},
		{"falling", &schema.TrendModel{Slope: -2}, "Falling"},
		{"flat", &schema.TrendModel{Slope: 0}, "Flat"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, GetPlainTrendLabel(tt.trend))
		})
	}
}

func TestGetColorTrendLabel(t *testing.T) {
	tests := []struct {
		name  string
		trend *schema.TrendModel
		label string
	}{
		{"no trend", nil, schema.InvalidPlaceholder},
		{"rising", &schema.TrendModel{Slope: 1}, "Rising"},
		{"falling", &schema.TrendModel{Slope: -1}, "Falling"},
		{"flat", &schema.TrendModel{}, "Flat"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Should contain the plain label
			assert.Contains(t, GetColorTrendLabel(tt.trend), tt.label)
		})
	}
}

func TestColorSigned(t *testing.T) {
	assert.Contains(t, ColorSigned("12.00%", 12), "12.00%")
	assert.Contains(t, ColorSigned("-3.00%", -3), "-3.00%")
	assert.Equal(t, "0.00%", ColorSigned("0.00%", 0))
}

func TestSelectOutputFile(t *testing.T) {
	t.Run("empty path returns stdout", func(t *testing.T) {
		file, err := SelectOutputFile("")
		require.NoError(t, err)
		assert.Equal(t, os.Stdout, file)
	})

	t.Run("valid path creates file", func(t *testing.T) {
		tempFile := filepath.Join(t.TempDir(), "test_output.txt")

		file, err := SelectOutputFile(tempFile)
		require.NoError(t, err)
		assert.NotNil(t, file)
		_ = file.Close()

		// Verify file was created
		_, err = os.Stat(tempFile)
		assert.NoError(t, err)
	})
}

func TestGetDBFilePaths(t *testing.T) {
	homeDir, err := os.UserHomeDir()
	require.NoError(t, err)

	cachePath := GetCacheDBFilePath()
	assert.Contains(t, cachePath, ".macrodash_cache.db")
	assert.True(t, strings.HasPrefix(cachePath, homeDir), "path %s should start with home dir %s", cachePath, homeDir)

	analysisPath := GetAnalysisDBFilePath()
	assert.Contains(t, analysisPath, ".macrodash_analysis.db")
	assert.NotEqual(t, cachePath, analysisPath)
}

func TestTruncateText(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		width    int
		expected string
	}{
		{"fits", "Malaysia", 20, "Malaysia"},
		{"truncated", "Mobile & internet banking transactions", 12, "Mobile & ..."},
		{"too narrow to truncate", "Malaysia", 3, "Malaysia"},
		{"multibyte", "R²R²R²R²", 5, "R²..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, TruncateText(tt.text, tt.width))
		})
	}
}

func TestParseBoolString(t *testing.T) {
	for _, s := range []string{"yes", "TRUE", "1"} {
		v, err := ParseBoolString(s)
		require.NoError(t, err)
		assert.True(t, v, s)
	}
	for _, s := range []string{"no", "False", "0"} {
		v, err := ParseBoolString(s)
		require.NoError(t, err)
		assert.False(t, v, s)
	}
	_, err := ParseBoolString("perhaps")
	assert.Error(t, err)
}

func TestInitLogger(t *testing.T) {
	orig := log.Logger
	defer func() { log.Logger = orig }()

	var buf bytes.Buffer
	require.NoError(t, InitLogger(&buf, "warn", "json"))

	log.Info().Msg("hidden")
	LogWarn("cache unavailable", assert.AnError)

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"level":"warn"`)
	assert.Contains(t, out, "cache unavailable")
	assert.Contains(t, out, assert.AnError.Error())

	assert.Error(t, InitLogger(&buf, "loud", "json"))
	assert.Error(t, InitLogger(&buf, "info", "xml"))
}
