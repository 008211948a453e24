package checkout

import (
	"math"
	"strconv"
	"strings"
)

// ParseQuantity parses a user-typed quantity, accepting comma or dot as
// the decimal separator. Only finite values strictly above zero are valid.
func ParseQuantity(text string) (float64, error) {
	t := strings.TrimSpace(text)
	t = strings.ReplaceAll(t, ",", ".")

	q, err := strconv.ParseFloat(t, 64)
	if err != nil || math.IsNaN(q) || math.IsInf(q, 0) || q <= 0 {
		return 0, ErrInvalidQuantity
	}

	return q, nil
}
