package money

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Suffix is appended to every formatted amount.
const Suffix = " تومان"

var printer = message.NewPrinter(language.Persian)

// FormatNumber renders n with Persian digits and group separators.
func FormatNumber(n int64) string {
	return printer.Sprintf("%d", n)
}

// FormatToman renders an amount the way the storefront shows prices.
func FormatToman(amount int64) string {
	return FormatNumber(amount) + Suffix
}
