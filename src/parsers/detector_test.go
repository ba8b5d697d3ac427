package parsers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		name    string
		headers []string
		want    FormatKind
		wantErr bool
	}{
		{
			name:    "MT4 header",
			headers: []string{"Ticket", "Open Time", "Type", "Size", "Item", "Price", "S/L", "T/P", "Close Time", "Profit"},
			want:    FormatMT4,
		},
		{
			name:    "cTrader header",
			headers: []string{"ID", "Symbol", "Type", "Volume", "EntryPrice", "ExitPrice", "Entry Time", "Exit Time", "NetProfit"},
			want:    FormatCTrader,
		},
		{
			name:    "TradingView header",
			headers: []string{"Date", "Symbol", "Order", "Price", "Exit Price", "Strategy", "Profit"},
			want:    FormatTradingView,
		},
		{
			name:    "detection is case insensitive",
			headers: []string{"TICKET", "OPEN TIME", "TYPE"},
			want:    FormatMT4,
		},
		{
			name:    "headers are trimmed before matching",
			headers: []string{" ticket ", " open time ", "type"},
			want:    FormatMT4,
		},
		{
			name:    "MT4 wins over cTrader when both signatures present",
			headers: []string{"ticket", "open time", "id", "entry time"},
			want:    FormatMT4,
		},
		{
			name:    "unknown header is rejected",
			headers: []string{"Foo", "Bar", "Baz"},
			wantErr: true,
		},
		{
			name:    "partial signature is rejected",
			headers: []string{"ticket", "size"},
			wantErr: true,
		},
		{
			name:    "empty header is rejected",
			headers: []string{},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DetectFormat(tt.headers)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnsupportedFormat)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDetectFormatIsDeterministic(t *testing.T) {
	headers := []string{"id", "entry time", "symbol"}
	first, err := DetectFormat(headers)
	require.NoError(t, err)
	for i := 0; i < 10; i++ {
		got, err := DetectFormat(headers)
		require.NoError(t, err)
		assert.Equal(t, first, got)
	}
}

func TestGetParser(t *testing.T) {
	for _, kind := range []FormatKind{FormatMT4, FormatCTrader, FormatTradingView} {
		parser, err := GetParser(kind)
		require.NoError(t, err)
		assert.NotNil(t, parser)
	}

	_, err := GetParser(FormatKind("csv"))
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}
