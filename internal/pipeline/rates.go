package pipeline

import "time"

// RateSource provides the USD/INR interbank reference rate for a calendar
// year. Implementations must be total: every year yields a rate, the lookup
// never fails. Implementations must also be safe for concurrent readers, as
// the enricher may fan rows out across goroutines.
type RateSource interface {
	ForYear(year int) float64
}

// StaticRateTable is a fixed year→rate mapping standing in for a live rate
// service. Swapping in a real time-series lookup only requires implementing
// RateSource with the same total-function guarantee.
type StaticRateTable struct {
	rates       map[int]float64
	defaultRate float64
}

// Historical USD/INR yearly averages used by the default table.
var defaultRates = map[int]float64{
	2021: 74.1,
	2022: 78.6,
	2023: 82.5,
	2024: 83.4,
	2025: 84.5,
}

// defaultFallbackRate applies to any year outside the known range.
const defaultFallbackRate = 83.0

// NewStaticRateTable returns the built-in simulated rate table.
func NewStaticRateTable() *StaticRateTable {
	return &StaticRateTable{rates: defaultRates, defaultRate: defaultFallbackRate}
}

// NewStaticRateTableWith builds a rate table from a custom mapping and
// fallback. The mapping is copied; later mutation of the argument does not
// affect the table.
func NewStaticRateTableWith(rates map[int]float64, defaultRate float64) *StaticRateTable {
	copied := make(map[int]float64, len(rates))
	for year, rate := range rates {
		copied[year] = rate
	}
	return &StaticRateTable{rates: copied, defaultRate: defaultRate}
}

// ForYear returns the rate for the given year, or the fallback rate when the
// year is not in the table.
func (t *StaticRateTable) ForYear(year int) float64 {
	if rate, ok := t.rates[year]; ok {
		return rate
	}
	return t.defaultRate
}

// ForDate returns the rate for the year component of the given date.
func (t *StaticRateTable) ForDate(date time.Time) float64 {
	return t.ForYear(date.Year())
}
