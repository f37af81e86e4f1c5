package entity

import (
	"strings"
	"unicode"
)

// Stubify converts a display name into a URL stub: lower case, apostrophes
// dropped, every other run of non-alphanumerics collapsed to one hyphen.
//
//	Stubify("Aradel Summergaard") == "aradel-summergaard"
//	Stubify("Summon Butterfly Monk!") == "summon-butterfly-monk"
//	Stubify("Rin's Fury") == "rins-fury"
func Stubify(name string) string {
	var b strings.Builder
	pendingHyphen := false
	for _, r := range strings.ToLower(name) {
		switch {
		case r == '\'' || r == '’':
			continue
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
		default:
			pendingHyphen = true
		}
	}
	return b.String()
}
