// Package format renders raw market numbers into display strings.
// All functions are pure; non-finite input is rejected rather than
// silently rendered as "NaN".
package format

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// ErrInvalidInput is returned when a formatter receives a non-finite value
var ErrInvalidInput = errors.New("invalid numeric input")

// Placeholder is what callers should display instead of a value that
// failed to format
const Placeholder = "—"

// subUnitSignificantDigits bounds precision for sub-1 prices so small-cap
// assets don't collapse to "$0.00"
const subUnitSignificantDigits = 6

var printer = message.NewPrinter(language.English)

var currencySymbols = map[string]string{
	"usd": "$",
	"eur": "€",
	"gbp": "£",
}

// Symbol returns the display symbol for a currency code, defaulting to "$"
func Symbol(currency string) string {
	if symbol, ok := currencySymbols[strings.ToLower(currency)]; ok {
		return symbol
	}
	return "$"
}

// Price formats a price with currency symbol and thousands grouping.
// Values >= 1 get a fixed 2 decimal places; sub-1 values keep up to
// 6 significant decimals.
func Price(value float64, currency string) (string, error) {
	if !isFinite(value) {
		return "", fmt.Errorf("price %v: %w", value, ErrInvalidInput)
	}

	abs := math.Abs(value)
	if abs != 0 && abs < 1 {
		maxFrac := fractionDigitsFor(abs)
		return Symbol(currency) + printer.Sprint(number.Decimal(value,
			number.MinFractionDigits(2),
			number.MaxFractionDigits(maxFrac))), nil
	}

	return Symbol(currency) + printer.Sprint(number.Decimal(value, number.Scale(2))), nil
}

// LargeNumber formats market cap / volume / supply style values with
// thousands grouping and no currency symbol
func LargeNumber(value float64) (string, error) {
	if !isFinite(value) {
		return "", fmt.Errorf("number %v: %w", value, ErrInvalidInput)
	}
	return printer.Sprint(number.Decimal(value, number.Scale(0))), nil
}

// Compact formats large values with K/M/B suffixes, used where a full
// grouped number would be too wide (chat context, summary widgets)
func Compact(value float64) (string, error) {
	if !isFinite(value) {
		return "", fmt.Errorf("number %v: %w", value, ErrInvalidInput)
	}

	abs := math.Abs(value)
	switch {
	case abs >= 1e12:
		return fmt.Sprintf("%.2fT", value/1e12), nil
	case abs >= 1e9:
		return fmt.Sprintf("%.2fB", value/1e9), nil
	case abs >= 1e6:
		return fmt.Sprintf("%.2fM", value/1e6), nil
	case abs >= 1e3:
		return fmt.Sprintf("%.2fK", value/1e3), nil
	}
	return fmt.Sprintf("%.2f", value), nil
}

// Percent formats a percentage with explicit sign and 2 decimal places
func Percent(value float64) (string, error) {
	if !isFinite(value) {
		return "", fmt.Errorf("percent %v: %w", value, ErrInvalidInput)
	}
	return fmt.Sprintf("%+.2f%%", value), nil
}

// PriceOrPlaceholder formats a price, substituting the placeholder on
// invalid input so a render pipeline never crashes on one bad field
func PriceOrPlaceholder(value float64, currency string) string {
	s, err := Price(value, currency)
	if err != nil {
		return Placeholder
	}
	return s
}

// LargeNumberOrPlaceholder formats a large number, substituting the
// placeholder on invalid input
func LargeNumberOrPlaceholder(value float64) string {
	s, err := LargeNumber(value)
	if err != nil {
		return Placeholder
	}
	return s
}

// PercentOrPlaceholder formats a percentage, substituting the placeholder
// on invalid input
func PercentOrPlaceholder(value float64) string {
	s, err := Percent(value)
	if err != nil {
		return Placeholder
	}
	return s
}

func isFinite(value float64) bool {
	return !math.IsNaN(value) && !math.IsInf(value, 0)
}

// fractionDigitsFor returns how many fraction digits are needed to keep
// subUnitSignificantDigits significant digits for a value in (0, 1)
func fractionDigitsFor(abs float64) int {
	leadingZeros := -int(math.Floor(math.Log10(abs))) - 1
	if leadingZeros < 0 {
		leadingZeros = 0
	}
	return leadingZeros + subUnitSignificantDigits
}
