package metric

import (
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// printer applies English number formatting, which groups thousands with
// commas in %d and %f verbs
var printer = message.NewPrinter(language.English)

// Currency formats a monetary amount as whole dollars, e.g. "$1,234,567"
func Currency(amount float64) string {
	return printer.Sprintf("$%.0f", amount)
}

// Price formats a monetary amount with cents, e.g. "$1,234.56"
func Price(amount float64) string {
	return printer.Sprintf("$%.2f", amount)
}

// Percent formats a value already scaled to 0..100, e.g. "98.5%"
func Percent(v float64) string {
	return printer.Sprintf("%.1f%%", v)
}

// Count formats an integer with thousands separators
func Count(n int) string {
	return printer.Sprintf("%d", n)
}

// Round1 rounds to one decimal place
func Round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// Round2 rounds to two decimal places
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
