package processors

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeDistance(t *testing.T) {
	tests := []struct {
		name   string
		symbol string
		entry  float64
		exit   float64
		want   int
	}{
		{name: "EURUSD 50 pips", symbol: "EURUSD", entry: 1.1000, exit: 1.1050, want: 50},
		{name: "USDJPY 50 pips with JPY unit", symbol: "USDJPY", entry: 110.00, exit: 110.50, want: 50},
		{name: "GBPJPY uses JPY unit", symbol: "GBPJPY", entry: 185.00, exit: 185.25, want: 25},
		{name: "ES index future ticks in 0.25", symbol: "ES", entry: 5000.00, exit: 5005.00, want: 20},
		{name: "NQ contract symbol matches by substring", symbol: "NQ1!", entry: 18000.00, exit: 18001.00, want: 4},
		{name: "YM ticks in 0.25", symbol: "YM", entry: 39000.00, exit: 39001.00, want: 4},
		{name: "CL ticks in 0.01", symbol: "CL", entry: 75.00, exit: 75.50, want: 50},
		{name: "GC ticks in 0.1", symbol: "GC", entry: 2300.0, exit: 2305.0, want: 50},
		{name: "lowercase symbol is upper-cased", symbol: "eurusd", entry: 1.1000, exit: 1.1010, want: 10},
		{name: "zero distance", symbol: "EURUSD", entry: 1.1000, exit: 1.1000, want: 0},
		{name: "fractional distance rounds", symbol: "EURUSD", entry: 1.10000, exit: 1.10006, want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ComputeDistance(tt.symbol, tt.entry, tt.exit)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestComputeDistanceIsSymmetric(t *testing.T) {
	cases := []struct {
		symbol      string
		entry, exit float64
	}{
		{"EURUSD", 1.1000, 1.1050},
		{"USDJPY", 110.00, 109.40},
		{"ES", 5000.00, 4990.25},
	}
	for _, c := range cases {
		forward, err := ComputeDistance(c.symbol, c.entry, c.exit)
		require.NoError(t, err)
		backward, err := ComputeDistance(c.symbol, c.exit, c.entry)
		require.NoError(t, err)
		assert.Equal(t, forward, backward, "distance must not depend on direction for %s", c.symbol)
	}
}

func TestComputeDistanceRequiresSymbol(t *testing.T) {
	_, err := ComputeDistance("", 1.0, 2.0)
	assert.ErrorIs(t, err, ErrInsufficientInput)

	_, err = ComputeDistance("   ", 1.0, 2.0)
	assert.ErrorIs(t, err, ErrInsufficientInput)
}
