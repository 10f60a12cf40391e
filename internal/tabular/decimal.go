package tabular

import (
	"math"
	"strconv"
	"strings"
)

// ParseDecimal parses a number written with either a decimal comma or point.
// Blank cells are NaN; ok is false for non-blank text that is not a finite
// number, including "inf" and "NaN".
func ParseDecimal(s string) (v float64, ok bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return math.NaN(), true
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", "."), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return math.NaN(), false
	}
	return v, true
}

// FormatDecimal writes v with a decimal comma and the fewest digits that
// round-trip. NaN is written as an empty cell.
func FormatDecimal(v float64) string {
	if math.IsNaN(v) {
		return ""
	}
	return strings.Replace(strconv.FormatFloat(v, 'f', -1, 64), ".", ",", 1)
}

// commaDecimal rewrites a numeric cell with a decimal comma and leaves any
// other text untouched.
func commaDecimal(cell string) string {
	if !strings.Contains(cell, ".") {
		return cell
	}
	if _, err := strconv.ParseFloat(strings.TrimSpace(cell), 64); err != nil {
		return cell
	}
	return strings.Replace(cell, ".", ",", 1)
}
