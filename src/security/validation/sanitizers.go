package validation

import (
	"strings"
	"unicode"
)

// SanitizeForFormulaInjection neutralizes cell values that spreadsheet
// applications would interpret as formulas when the exported CSV is opened.
func SanitizeForFormulaInjection(value string) string {
	if value == "" {
		return value
	}
	switch value[0] {
	case '=', '+', '-', '@', '\t', '\r':
		return "'" + value
	}
	return value
}

// StripUnprintable removes control characters from a string, keeping
// regular whitespace intact.
func StripUnprintable(value string) string {
	return strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' {
			return r
		}
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, value)
}
