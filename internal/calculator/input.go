package calculator

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// ParseAmount parses a total or item amount typed into a form field.
func ParseAmount(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("%w: amount %q is not a number", ErrInvalidInput, s)
	}
	if !ValidAmount(v) {
		return 0, fmt.Errorf("%w: amount %q must be finite and non-negative", ErrInvalidInput, s)
	}
	return v, nil
}

// ParseCount parses a people count typed into a form field. A fractional
// count is truncated, so "3.7" is 3.
func ParseCount(s string) (int, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		if n > math.MaxInt32 || n < math.MinInt32 {
			return 0, fmt.Errorf("%w: people count %q is out of range", ErrInvalidInput, s)
		}
		return int(n), nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%w: people count %q is not a number", ErrInvalidInput, s)
	}
	if math.Abs(v) > math.MaxInt32 {
		return 0, fmt.Errorf("%w: people count %q is out of range", ErrInvalidInput, s)
	}
	return int(v), nil
}

// FormatAmount renders a settled amount with its currency unit, e.g. "33 円".
func FormatAmount(amount int64, unit string) string {
	if unit == "" {
		return strconv.FormatInt(amount, 10)
	}
	return strconv.FormatInt(amount, 10) + " " + unit
}
