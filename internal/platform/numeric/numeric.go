// Package numeric parses loosely typed input (JSON numbers, numeric strings,
// Go integers and floats) into typed numbers. Unlike a plain coercion it
// never produces NaN: anything that is not a finite number is an error.
package numeric

import (
	"encoding/json"
	"errors"
	"math"
	"math/big"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// ErrInvalidNumber matches every error returned by this package.
var ErrInvalidNumber = errors.New("invalid number")

type parseError string

func (e parseError) Error() string { return string(e) }

func (e parseError) Is(target error) bool { return target == ErrInvalidNumber }

var (
	ErrMissing         error = parseError("value is missing")
	ErrEmpty           error = parseError("value is empty")
	ErrNotNumeric      error = parseError("not a number")
	ErrNotFinite       error = parseError("not a finite number")
	ErrNotInteger      error = parseError("not an integer")
	ErrOutOfRange      error = parseError("out of range")
	ErrUnsupportedType error = parseError("unsupported type")
)

var (
	minInt64 = decimal.NewFromInt(math.MinInt64)
	maxInt64 = decimal.NewFromInt(math.MaxInt64)
)

// maxExponent bounds the decimal exponent. Rescaling or printing a decimal
// costs time and memory proportional to its exponent, so "1e100000000"
// has to be refused before anything touches its digits.
const maxExponent = 20

// maxLiteralLen caps numeric strings before they reach the decimal parser.
const maxLiteralLen = 64

func checkExponent(d decimal.Decimal) error {
	if exp := d.Exponent(); exp > maxExponent || exp < -maxExponent {
		return ErrOutOfRange
	}
	return nil
}

// ParseInt parses v as a 64-bit integer. Integral floats ("5.0", "1e3", 7.0)
// are accepted; fractional values are ErrNotInteger.
func ParseInt(v any) (int64, error) {
	switch n := v.(type) {
	case nil:
		return 0, ErrMissing
	case int:
		return int64(n), nil
	case int8:
		return int64(n), nil
	case int16:
		return int64(n), nil
	case int32:
		return int64(n), nil
	case int64:
		return n, nil
	case uint:
		return uintToInt(uint64(n))
	case uint8:
		return int64(n), nil
	case uint16:
		return int64(n), nil
	case uint32:
		return int64(n), nil
	case uint64:
		return uintToInt(n)
	case float32:
		return floatToInt(float64(n))
	case float64:
		return floatToInt(n)
	case json.Number:
		return parseIntString(string(n))
	case string:
		return parseIntString(n)
	case []byte:
		return parseIntString(string(n))
	case decimal.Decimal:
		return decimalToInt(n)
	default:
		return 0, ErrUnsupportedType
	}
}

// ParseDecimal parses v as an exact decimal. Strings keep every digit they
// carry, so "9.99" is stored as 9.99 and not as the nearest binary float.
// Exponents beyond ±20 are ErrOutOfRange.
func ParseDecimal(v any) (decimal.Decimal, error) {
	d, err := parseDecimal(v)
	if err != nil {
		return decimal.Zero, err
	}
	if err := checkExponent(d); err != nil {
		return decimal.Zero, err
	}
	return d, nil
}

func parseDecimal(v any) (decimal.Decimal, error) {
	switch n := v.(type) {
	case nil:
		return decimal.Zero, ErrMissing
	case int:
		return decimal.NewFromInt(int64(n)), nil
	case int8:
		return decimal.NewFromInt(int64(n)), nil
	case int16:
		return decimal.NewFromInt(int64(n)), nil
	case int32:
		return decimal.NewFromInt(int64(n)), nil
	case int64:
		return decimal.NewFromInt(n), nil
	case uint:
		return decimal.NewFromBigInt(new(big.Int).SetUint64(uint64(n)), 0), nil
	case uint8:
		return decimal.NewFromInt(int64(n)), nil
	case uint16:
		return decimal.NewFromInt(int64(n)), nil
	case uint32:
		return decimal.NewFromInt(int64(n)), nil
	case uint64:
		return decimal.NewFromBigInt(new(big.Int).SetUint64(n), 0), nil
	case float32:
		if _, err := finite(float64(n)); err != nil {
			return decimal.Zero, err
		}
		return decimal.NewFromFloat32(n), nil
	case float64:
		if _, err := finite(n); err != nil {
			return decimal.Zero, err
		}
		return decimal.NewFromFloat(n), nil
	case json.Number:
		return parseDecimalString(string(n))
	case string:
		return parseDecimalString(n)
	case []byte:
		return parseDecimalString(string(n))
	case decimal.Decimal:
		return n, nil
	default:
		return decimal.Zero, ErrUnsupportedType
	}
}

func finite(f float64) (float64, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, ErrNotFinite
	}
	return f, nil
}

func uintToInt(n uint64) (int64, error) {
	if n > math.MaxInt64 {
		return 0, ErrOutOfRange
	}
	return int64(n), nil
}

func floatToInt(f float64) (int64, error) {
	if _, err := finite(f); err != nil {
		return 0, err
	}
	if f != math.Trunc(f) {
		return 0, ErrNotInteger
	}
	// 2^63 is exactly representable; anything at or beyond it overflows.
	if f < -(1<<63) || f >= 1<<63 {
		return 0, ErrOutOfRange
	}
	return int64(f), nil
}

func decimalToInt(d decimal.Decimal) (int64, error) {
	if err := checkExponent(d); err != nil {
		return 0, err
	}
	// More than 19 integer digits can never fit in an int64.
	if int(d.NumDigits())+int(d.Exponent()) > 19 {
		return 0, ErrOutOfRange
	}
	if !d.IsInteger() {
		return 0, ErrNotInteger
	}
	if d.LessThan(minInt64) || d.GreaterThan(maxInt64) {
		return 0, ErrOutOfRange
	}
	return d.IntPart(), nil
}

func parseIntString(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, ErrEmpty
	}
	if len(s) > maxLiteralLen {
		return 0, ErrOutOfRange
	}
	i, err := strconv.ParseInt(s, 10, 64)
	if err == nil {
		return i, nil
	}
	if errors.Is(err, strconv.ErrRange) {
		return 0, ErrOutOfRange
	}
	// Not a plain integer literal: "5.0", "1e3" and "5.5" end up here.
	d, err := parseDecimalString(s)
	if err != nil {
		return 0, err
	}
	return decimalToInt(d)
}

func parseDecimalString(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, ErrEmpty
	}
	if len(s) > maxLiteralLen {
		return decimal.Zero, ErrOutOfRange
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		// "NaN", "Inf" and "Infinity" are valid floats but never valid numbers here.
		if f, ferr := strconv.ParseFloat(s, 64); ferr == nil && (math.IsNaN(f) || math.IsInf(f, 0)) {
			return decimal.Zero, ErrNotFinite
		}
		return decimal.Zero, ErrNotNumeric
	}
	return d, nil
}
