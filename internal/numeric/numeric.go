// Package numeric implements the two-decimal arithmetic used for every
// resource, gold and experience value in the economy.
package numeric

import (
	"errors"
	"math"
)

// ErrDivideByZero is returned by DivideE when the divisor is zero.
var ErrDivideByZero = errors.New("numeric: divide by zero")

// Trim rounds x half-up to two decimal places.
func Trim(x float64) float64 {
	return math.Floor(x*100+0.5) / 100
}

// Add returns Trim(a + b).
func Add(a, b float64) float64 { return Trim(a + b) }

// Subtract returns Trim(a - b).
func Subtract(a, b float64) float64 { return Trim(a - b) }

// Multiply returns Trim(a * b).
func Multiply(a, b float64) float64 { return Trim(a * b) }

// Divide returns Trim(a / b), or 0 when b is zero.
func Divide(a, b float64) float64 {
	q, err := DivideE(a, b)
	if err != nil {
		return 0
	}
	return q
}

// DivideE is Divide with an explicit error for a zero divisor.
func DivideE(a, b float64) (float64, error) {
	if b == 0 {
		return 0, ErrDivideByZero
	}
	return Trim(a / b), nil
}

// Scale computes the geometric growth value Trim(base * multiplier^count).
// A count of zero yields the (trimmed) base.
func Scale(base float64, count int, multiplier float64) float64 {
	if count == 0 {
		return Trim(base)
	}
	return Trim(base * math.Pow(multiplier, float64(count)))
}
