package schema

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// ErrUnknownIndicator is returned when an indicator key is not in the catalog.
var ErrUnknownIndicator = errors.New("unknown indicator")

// Unit is one unit of measure an indicator is published in.
type Unit struct {
	Code  string `json:"code"`
	Label string `json:"label"`
}

// Indicator describes a Data360 indicator the tool knows how to fetch.
type Indicator struct {
	Key        string `json:"key"`
	Name       string `json:"name"`
	DatabaseID string `json:"database_id"`
	Code       string `json:"code"`
	Units      []Unit `json:"units,omitempty"` // empty for single-unit indicators
	Suffix     string `json:"suffix,omitempty"`
}

// MultiUnit reports whether the source publishes several units under this indicator.
func (ind Indicator) MultiUnit() bool {
	return len(ind.Units) > 1
}

// UnitCodes returns the unit codes of the indicator.
func (ind Indicator) UnitCodes() []string {
	codes := make([]string, len(ind.Units))
	for i, u := range ind.Units {
		codes[i] = u.Code
	}
	return codes
}

// ValidateUnit checks that the unit selection is explicit and known.
// Multi-unit indicators require a unit; single-unit indicators accept none.
func (ind Indicator) ValidateUnit(unit string) error {
	if !ind.MultiUnit() {
		if unit != "" {
			return fmt.Errorf("indicator %s has a single unit; --unit must be empty (received %s)", ind.Key, unit)
		}
		return nil
	}
	if unit == "" {
		return fmt.Errorf("indicator %s is published in several units; --unit is required (one of %s)", ind.Key, strings.Join(ind.UnitCodes(), ", "))
	}
	if !slices.Contains(ind.UnitCodes(), unit) {
		return fmt.Errorf("invalid unit '%s' for indicator %s. must be one of %s", unit, ind.Key, strings.Join(ind.UnitCodes(), ", "))
	}
	return nil
}

// Indicator keys.
const (
	GDPPerCapita  = "gdp"
	Inflation     = "inflation"
	CPI           = "cpi"
	CreditCard    = "credit-card"
	MobileBanking = "mobile-banking"
)

// Indicators is the catalog in display order.
var Indicators = []Indicator{
	{
		Key:        GDPPerCapita,
		Name:       "GDP per capita (current US$)",
		DatabaseID: "WB_WDI",
		Code:       "WB_WDI_NY_GDP_PCAP_CD",
	},
	{
		Key:        Inflation,
		Name:       "Inflation, consumer prices (annual %)",
		DatabaseID: "WB_WDI",
		Code:       "WB_WDI_FP_CPI_TOTL_ZG",
		Suffix:     "%",
	},
	{
		Key:        CPI,
		Name:       "Consumer price index (2010 = 100)",
		DatabaseID: "WB_WDI",
		Code:       "WB_WDI_FP_CPI_TOTL",
	},
	{
		Key:        CreditCard,
		Name:       "Credit card accounts",
		DatabaseID: "IMF_FAS",
		Code:       "IMF_FAS_FCCCC",
		Units: []Unit{
			{Code: "ACCT", Label: "Number of Accounts"},
			{Code: "10P3AD", Label: "Per 1,000 Adults"},
		},
	},
	{
		Key:        MobileBanking,
		Name:       "Mobile & internet banking transactions",
		DatabaseID: "IMF_FAS",
		Code:       "IMF_FAS_FCMIBT",
		Units: []Unit{
			{Code: "XDC", Label: "Domestic Currency (XDC)"},
			{Code: "TRANSACT", Label: "Transactions"},
			{Code: "10P3AD", Label: "Per 1,000 Adults"},
			{Code: "PT_GDP", Label: "Percentage of GDP"},
		},
	},
}

// LookupIndicator finds an indicator by key (case-insensitive).
func LookupIndicator(key string) (Indicator, error) {
	k := strings.ToLower(strings.TrimSpace(key))
	for _, ind := range Indicators {
		if ind.Key == k {
			return ind, nil
		}
	}
	return Indicator{}, fmt.Errorf("%w '%s'. must be one of %s", ErrUnknownIndicator, key, strings.Join(IndicatorKeys(), ", "))
}

// IndicatorKeys returns the catalog keys in display order.
func IndicatorKeys() []string {
	keys := make([]string, len(Indicators))
	for i, ind := range Indicators {
		keys[i] = ind.Key
	}
	return keys
}

// DefaultCountry is the entity used when none is given.
const DefaultCountry = "MYS"

// ASEANCountries is the default comparison set.
var ASEANCountries = []string{"BRN", "KHM", "IDN", "LAO", "MYS", "MMR", "PHL", "SGP", "THA", "VNM"}
