package utils

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// combiningMarks covers the combining diacritical marks block, so that
// "María" and "Maria" compare equal after normalization.
var combiningMarks = &unicode.RangeTable{
	R16: []unicode.Range16{{Lo: 0x0300, Hi: 0x036f, Stride: 1}},
}

var stripAccents = transform.Chain(norm.NFD, runes.Remove(runes.In(combiningMarks)), norm.NFC)

// NormalizeText canonicalizes free-form text for comparison: lowercase,
// accents stripped, whitespace runs collapsed to a single space, trimmed.
// Idempotent.
func NormalizeText(s string) string {
	s = strings.ToLower(s)
	if out, _, err := transform.String(stripAccents, s); err == nil {
		s = out
	}
	return strings.Join(strings.Fields(s), " ")
}

// NormalizeValue normalizes an arbitrary value, treating nil as empty.
func NormalizeValue(v interface{}) string {
	if v == nil {
		return ""
	}
	return NormalizeText(fmt.Sprintf("%v", v))
}
