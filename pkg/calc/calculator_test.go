package calc

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculator(t *testing.T) {
	c := New()
	assert.Equal(t, int64(5), c.Add(2, 3))
	assert.Equal(t, int64(-1), c.Subtract(2, 3))
	assert.Equal(t, int64(6), c.Multiply(2, 3))
}

func TestDivide(t *testing.T) {
	c := New()
	tests := []struct {
		a, b, want int64
	}{
		{7, 2, 3},
		{-7, 2, -3},
		{7, -2, -3},
		{6, 3, 2},
	}
	for _, tt := range tests {
		got, err := c.Divide(tt.a, tt.b)
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}

	_, err := c.Divide(1, 0)
	assert.ErrorIs(t, err, ErrDivisionByZero)
}
