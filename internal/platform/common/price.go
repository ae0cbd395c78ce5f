package common

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ParsePrice reads a decimal price string exactly before converting it to
// float64, so "0.1" becomes the nearest float64 to 0.1 regardless of how many
// digits the source printed.
func ParsePrice(s string) (float64, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("invalid price %q: %w", s, err)
	}

	f, _ := d.Float64()
	return f, nil
}
