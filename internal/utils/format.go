package utils

import "strconv"

// FormatNumber renders an amount or quantity without trailing zeros,
// so 25000.0 prints as "25000" and 0.5 as "0.5".
func FormatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
