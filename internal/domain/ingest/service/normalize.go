package service

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// NormalizeText prepares raw upload bytes for the fixed-width engine. Bank
// files arrive either in UTF-8 or in ISO-8859-1; after decoding, accented
// characters are folded to their ASCII base so that every column stays one
// byte wide and field offsets remain exact.
func NormalizeText(data []byte) string {
	if !utf8.Valid(data) {
		if decoded, err := charmap.ISO8859_1.NewDecoder().Bytes(data); err == nil {
			data = decoded
		}
	}

	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	folded, _, err := transform.Bytes(t, data)
	if err != nil {
		folded = data
	}

	// Whatever survives folding and is still multi-byte gets squashed to a
	// single placeholder so column arithmetic cannot drift.
	return strings.Map(func(r rune) rune {
		if r < utf8.RuneSelf {
			return r
		}
		return '?'
	}, string(folded))
}
