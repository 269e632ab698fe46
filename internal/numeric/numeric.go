// Package numeric parses locale-variant numeric text (Arabic-Indic digits,
// Arabic separators, percent signs) into float64 values.
package numeric

import (
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
)

var bidiMarks = runes.Predicate(func(r rune) bool {
	return r == '\u200e' || r == '\u200f'
})

// digitFolder drops bidi marks, then maps Arabic-Indic and Extended
// Arabic-Indic digits plus the Arabic separators onto their ASCII forms.
// A chain carries buffers, so callers get a fresh one each time.
func digitFolder() transform.Transformer {
	return transform.Chain(runes.Remove(bidiMarks), runes.Map(foldDigit))
}

func foldDigit(r rune) rune {
	switch {
	case r >= '٠' && r <= '٩':
		return '0' + (r - '٠')
	case r >= '۰' && r <= '۹':
		return '0' + (r - '۰')
	}
	switch r {
	case '٬', '،':
		return ','
	case '٫':
		return '.'
	}
	return r
}

// Clean converts s into canonical numeric text. It is idempotent: clean
// ASCII input is returned unchanged apart from whitespace trimming.
func Clean(s string) string {
	out, _, err := transform.String(digitFolder(), s)
	if err != nil {
		out = s
	}
	out = strings.TrimSpace(out)
	out = strings.ReplaceAll(out, "%", "")
	out = strings.ReplaceAll(out, ",", "")
	return strings.TrimSpace(out)
}

// Parse cleans s and parses it as a float. Unparsable or empty input
// yields NaN.
func Parse(s string) float64 {
	c := Clean(s)
	if c == "" {
		return math.NaN()
	}
	v, err := strconv.ParseFloat(c, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}

// Round rounds v to the given number of decimal places, half away from zero.
// NaN and ±Inf pass through untouched.
func Round(v float64, places int32) float64 {
	if IsMissing(v) {
		return v
	}
	return decimal.NewFromFloat(v).Round(places).InexactFloat64()
}

// IsMissing reports whether v is NaN or infinite.
func IsMissing(v float64) bool {
	return math.IsNaN(v) || math.IsInf(v, 0)
}

// OrZero returns v, or 0 when v is NaN or infinite.
func OrZero(v float64) float64 {
	if IsMissing(v) {
		return 0
	}
	return v
}

// Ratio returns a/b, or NaN when b is zero or either operand is missing.
func Ratio(a, b float64) float64 {
	if IsMissing(a) || IsMissing(b) || b == 0 {
		return math.NaN()
	}
	return a / b
}
