package pipeline

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestStaticRateTableForYear(t *testing.T) {
	table := NewStaticRateTable()

	tests := []struct {
		name     string
		year     int
		expected float64
	}{
		{"known year 2021", 2021, 74.1},
		{"known year 2022", 2022, 78.6},
		{"known year 2023", 2023, 82.5},
		{"known year 2024", 2024, 83.4},
		{"known year 2025", 2025, 84.5},
		{"before range falls back", 1999, 83.0},
		{"after range falls back", 2030, 83.0},
		{"year zero falls back", 0, 83.0},
		{"negative year falls back", -1, 83.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, table.ForYear(tt.year))
		})
	}
}

func TestStaticRateTableForDate(t *testing.T) {
	table := NewStaticRateTable()
	date := time.Date(2023, 6, 15, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, 82.5, table.ForDate(date))
}

func TestNewStaticRateTableWithCopiesMapping(t *testing.T) {
	rates := map[int]float64{2020: 70.0}
	table := NewStaticRateTableWith(rates, 75.0)

	rates[2020] = 99.9
	assert.Equal(t, 70.0, table.ForYear(2020))
	assert.Equal(t, 75.0, table.ForYear(2019))
}

func TestStaticRateTableConcurrentReads(t *testing.T) {
	table := NewStaticRateTable()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for year := 2018; year <= 2028; year++ {
				_ = table.ForYear(year)
			}
		}()
	}
	wg.Wait()
}
