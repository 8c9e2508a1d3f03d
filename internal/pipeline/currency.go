package pipeline

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Sentinel errors for the run-fatal failure classes. Callers use errors.Is
// to distinguish them at the orchestration boundary.
var (
	// ErrInvalidAmount indicates a currency field that could not be parsed
	// after symbol and separator stripping.
	ErrInvalidAmount = errors.New("invalid amount")

	// ErrMissingColumn indicates a column referenced by the pipeline is
	// absent from the upload even after header trimming.
	ErrMissingColumn = errors.New("missing required column")
)

// currencyReplacer strips the currency symbols and thousands separators the
// retail exports are known to carry. Both symbols are removed regardless of
// locale; the only recognized decimal separator is the period.
var currencyReplacer = strings.NewReplacer("$", "", "₹", "", ",", "")

// ParseAmount normalizes a heterogeneous amount field into a float.
// Surrounding whitespace, the symbols $ and ₹, and comma thousands
// separators are removed before parsing. A residue that is not a finite
// decimal literal yields ErrInvalidAmount.
func ParseAmount(value string) (float64, error) {
	cleaned := strings.TrimSpace(currencyReplacer.Replace(strings.TrimSpace(value)))
	if cleaned == "" {
		return 0, fmt.Errorf("%w: empty value after stripping %q", ErrInvalidAmount, value)
	}

	f, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a number", ErrInvalidAmount, value)
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%w: %q is not finite", ErrInvalidAmount, value)
	}
	return f, nil
}
