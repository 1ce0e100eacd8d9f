package utils

import "strconv"

// FormatAmount renders a count with its optional unit: "2.5 litres", "3".
func FormatAmount(v float64, unit string) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if unit == "" {
		return s
	}
	return s + " " + unit
}
