// README: Text normalization shared by the classifiers and extractors.
package textnorm

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Normalize lowercases the text, decomposes it (NFD), strips diacritic marks
// and collapses runs of whitespace into single spaces. All free-text matching
// in the core runs on this canonical form, so "búsqueda" and "busqueda"
// behave identically.
func Normalize(s string) string {
	out, _, err := transform.String(stripMarks, s)
	if err != nil {
		out = s
	}
	out = strings.ToLower(out)
	return strings.Join(strings.Fields(out), " ")
}
