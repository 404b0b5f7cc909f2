// Package calc provides integer arithmetic with truncating division.
package calc

import "errors"

var ErrDivisionByZero = errors.New("division by zero")

type Calculator struct{}

func New() Calculator { return Calculator{} }

func (Calculator) Add(a, b int64) int64 { return a + b }

func (Calculator) Subtract(a, b int64) int64 { return a - b }

func (Calculator) Multiply(a, b int64) int64 { return a * b }

// Divide truncates toward zero.
func (Calculator) Divide(a, b int64) (int64, error) {
	if b == 0 {
		return 0, ErrDivisionByZero
	}
	return a / b, nil
}
