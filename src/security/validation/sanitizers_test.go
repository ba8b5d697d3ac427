package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizeForFormulaInjection(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "equals sign is escaped", input: "=SUM(A1:A9)", want: "'=SUM(A1:A9)"},
		{name: "plus is escaped", input: "+1+1", want: "'+1+1"},
		{name: "minus is escaped", input: "-cmd", want: "'-cmd"},
		{name: "at sign is escaped", input: "@cell", want: "'@cell"},
		{name: "plain text untouched", input: "EURUSD breakout", want: "EURUSD breakout"},
		{name: "empty string untouched", input: "", want: ""},
		{name: "leading letter untouched", input: "a=b", want: "a=b"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SanitizeForFormulaInjection(tt.input))
		})
	}
}

func TestStripUnprintable(t *testing.T) {
	assert.Equal(t, "clean", StripUnprintable("cle\x00an"))
	assert.Equal(t, "keeps\nnewlines\tand tabs", StripUnprintable("keeps\nnewlines\tand tabs"))
	assert.Equal(t, "bell", StripUnprintable("be\all"))
}
