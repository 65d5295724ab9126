package utils

import (
	"fmt"
)

// DisplayAmount formats a monetary value with two decimal places for
// display. Internal arithmetic never rounds; this is the only place an
// amount is rounded at all.
func DisplayAmount(amount float64) string {
	return fmt.Sprintf("%.2f", amount)
}
