// Package money provides an exact fixed-point monetary value type.
//
// Bank exports render amounts inconsistently: "-95.80", "-95,80", "+2641.40",
// "16.948,96". Money stores the amount as an integer count of minor units
// (grosze for PLN) so that arithmetic and comparisons are exact.
package money

import (
	"errors"
	"fmt"
	"strings"
)

// ErrCurrencyMismatch is returned when arithmetic is attempted between two
// Money values with different currency codes. It is never swallowed.
var ErrCurrencyMismatch = errors.New("currency mismatch")

// Money is an immutable monetary value: a currency code plus an integer
// amount in minor units.
//
// The amount is held in an int64. At two decimal places this covers
// ±92,233,720,368,547,758.07 in major units, which is a precondition callers
// rely on: statement amounts that would overflow int64 are out of scope.
type Money struct {
	currency string
	minor    int64
	units    int
}

// MinorUnits returns the number of decimal places for a currency code.
// Unknown currencies default to 2, which matches every currency seen in
// PKO exports.
func MinorUnits(currency string) int {
	switch strings.ToUpper(currency) {
	case "JPY", "KRW", "VND":
		return 0
	case "BHD", "KWD", "OMR", "TND":
		return 3
	default:
		return 2
	}
}

// FromMinor creates a Money from an amount already expressed in minor units.
func FromMinor(minor int64, currency string) Money {
	return Money{currency: currency, minor: minor, units: MinorUnits(currency)}
}

// Zero returns the zero amount in the given currency.
func Zero(currency string) Money {
	return FromMinor(0, currency)
}

// Parse converts a raw amount string into Money. It is total: malformed
// input yields the zero amount rather than an error, so one badly formatted
// row never aborts a whole statement.
//
// The decimal separator is whichever of "." or "," occurs last; every
// earlier occurrence of either is treated as a thousands separator. This is
// a deliberate policy, not a locale guess: "16.948,96", "16948,96" and
// "-95.80" all parse correctly. The known trade-off is that a lone "."
// followed by three digits ("1.234") parses as 1.234, not 1234; the tests
// cover this explicitly.
func Parse(raw, currency string) Money {
	units := MinorUnits(currency)
	cleaned := cleanNumberLike(raw)
	if cleaned == "" {
		return Zero(currency)
	}

	negative := strings.HasPrefix(cleaned, "-")
	cleaned = strings.TrimLeft(cleaned, "+-")

	intPart, fracPart := splitDecimal(cleaned)

	// Right-pad or truncate the fraction to exactly the currency's minor
	// unit count.
	if len(fracPart) < units {
		fracPart += strings.Repeat("0", units-len(fracPart))
	} else {
		fracPart = fracPart[:units]
	}

	minor := digitsToInt64(intPart)
	for range units {
		minor *= 10
	}
	minor += digitsToInt64(fracPart)
	if negative {
		minor = -minor
	}
	return FromMinor(minor, currency)
}

// Currency returns the ISO 4217 currency code.
func (m Money) Currency() string { return m.currency }

// Minor returns the amount in minor units.
func (m Money) Minor() int64 { return m.minor }

// Units returns the number of decimal places for the currency.
func (m Money) Units() int { return m.units }

// Add returns m + other. Both values must share a currency code.
func (m Money) Add(other Money) (Money, error) {
	if m.currency != other.currency {
		return Money{}, fmt.Errorf("%w: %s vs %s", ErrCurrencyMismatch, m.currency, other.currency)
	}
	return FromMinor(m.minor+other.minor, m.currency), nil
}

// Sub returns m - other. Both values must share a currency code.
func (m Money) Sub(other Money) (Money, error) {
	if m.currency != other.currency {
		return Money{}, fmt.Errorf("%w: %s vs %s", ErrCurrencyMismatch, m.currency, other.currency)
	}
	return FromMinor(m.minor-other.minor, m.currency), nil
}

// Abs returns the absolute value.
func (m Money) Abs() Money {
	if m.minor < 0 {
		return FromMinor(-m.minor, m.currency)
	}
	return m
}

// Neg returns the negated value.
func (m Money) Neg() Money {
	return FromMinor(-m.minor, m.currency)
}

// IsNegative reports whether the amount is below zero.
func (m Money) IsNegative() bool { return m.minor < 0 }

// IsZero reports whether the amount is exactly zero.
func (m Money) IsZero() bool { return m.minor == 0 }

// Format renders the amount as a plain decimal string, optionally suffixed
// with the currency code ("-95.80 PLN").
func (m Money) Format(withCurrency bool) string {
	sign := ""
	abs := m.minor
	if abs < 0 {
		sign = "-"
		abs = -abs
	}

	var amount string
	if m.units == 0 {
		amount = fmt.Sprintf("%s%d", sign, abs)
	} else {
		factor := int64(1)
		for range m.units {
			factor *= 10
		}
		amount = fmt.Sprintf("%s%d.%0*d", sign, abs/factor, m.units, abs%factor)
	}
	if withCurrency {
		return amount + " " + m.currency
	}
	return amount
}

// String implements fmt.Stringer.
func (m Money) String() string { return m.Format(true) }

// Float64 returns the amount as a float64. Lossy for very large amounts;
// intended for display and spreadsheet cells only, never for arithmetic.
func (m Money) Float64() float64 {
	factor := 1.0
	for range m.units {
		factor *= 10
	}
	return float64(m.minor) / factor
}

// cleanNumberLike reduces raw text to the characters Parse understands:
// digits, separators and a sign.
func cleanNumberLike(raw string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(raw) {
		switch {
		case r >= '0' && r <= '9', r == '.', r == ',', r == '+', r == '-':
			b.WriteRune(r)
		}
	}
	return b.String()
}

// splitDecimal separates integer and fractional digits. The last "." or ","
// is the decimal separator; all earlier separators are dropped as grouping.
func splitDecimal(unsigned string) (intPart, fracPart string) {
	idx := strings.LastIndexAny(unsigned, ".,")
	if idx == -1 {
		return stripSeparators(unsigned), ""
	}
	return stripSeparators(unsigned[:idx]), stripSeparators(unsigned[idx+1:])
}

func stripSeparators(s string) string {
	s = strings.ReplaceAll(s, ".", "")
	return strings.ReplaceAll(s, ",", "")
}

// digitsToInt64 parses a digit-only string, ignoring anything else. Empty
// input is zero, keeping Parse total.
func digitsToInt64(s string) int64 {
	var n int64
	for _, r := range s {
		if r < '0' || r > '9' {
			continue
		}
		n = n*10 + int64(r-'0')
	}
	return n
}
