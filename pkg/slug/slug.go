// Package slug normaliza nombres a identificadores URL (tiendas, categorías, productos).
package slug

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const (
	MinLength = 3
	MaxLength = 60
)

var (
	nonAlnum = regexp.MustCompile(`[^a-z0-9]+`)
	valid    = regexp.MustCompile(`^[a-z0-9]+(-[a-z0-9]+)*$`)
)

// Make deriva un slug de un texto libre: minúsculas, sin tildes, separadores como '-'.
// "Café & Té Ñandú" -> "cafe-te-nandu".
func Make(s string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	ascii, _, err := transform.String(t, s)
	if err != nil {
		ascii = s
	}
	out := nonAlnum.ReplaceAllString(strings.ToLower(ascii), "-")
	out = strings.Trim(out, "-")
	if len(out) > MaxLength {
		out = strings.Trim(out[:MaxLength], "-")
	}
	return out
}

// Valid informa si s ya es un slug aceptable (minúsculas ASCII, dígitos y guiones simples, 3..60).
func Valid(s string) bool {
	if len(s) < MinLength || len(s) > MaxLength {
		return false
	}
	return valid.MatchString(s)
}
