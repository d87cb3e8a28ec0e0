package resource

import (
	"math"
	"net/url"
	"strconv"
	"strings"
)

// FormFloat parses a numeric form value; blank, malformed or non-finite
// input yields 0 and is left to validation.
func FormFloat(v url.Values, key string) float64 {
	f, err := strconv.ParseFloat(strings.TrimSpace(v.Get(key)), 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return 0
	}
	return f
}

// FormString returns the trimmed form value.
func FormString(v url.Values, key string) string {
	return strings.TrimSpace(v.Get(key))
}

// FormBool reads a checkbox.
func FormBool(v url.Values, key string) bool {
	b, _ := strconv.ParseBool(v.Get(key))
	return b
}

// Num renders a float for a form input or table cell without trailing zeros.
func Num(f float64) string {
	if f == 0 {
		return ""
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// Money renders an amount with two decimals for export cells.
func Money(f float64) string {
	return strconv.FormatFloat(f, 'f', 2, 64)
}

// Options used by several screens.
var (
	PaymentModes = []string{"Cash", "UPI", "Bank", "Cheque"}
	Shifts       = []string{"Morning", "Evening"}
)
