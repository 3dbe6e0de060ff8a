package math

import (
	"strconv"
)

// Format formats a float based on the given precision
func Format(f float64, precision int) string {
	return strconv.FormatFloat(f, 'f', precision, 64)
}

// FormatAll formats all values of the slice with the same precision.
func FormatAll(ff []float64, precision int) []string {
	ss := make([]string, len(ff))
	for i, f := range ff {
		ss[i] = Format(f, precision)
	}
	return ss
}
