// README: Numeric literal parser handling Latino and US separator conventions.
package pricetext

import (
	"strconv"
	"strings"
)

// ParsePrice normalizes a numeric literal written in either
// thousands-dot/decimal-comma ("2.549,32") or thousands-comma/decimal-dot
// ("2,549.32") convention. The ambiguity rules favor the thousands-grouping
// reading for three-trailing-digit patterns ("1.485" is 1485, not 1.485);
// existing quote documents depend on that reading, so the order of the
// checks below must not change.
func ParsePrice(raw string) float64 {
	s := strings.TrimSpace(raw)
	s = strings.TrimPrefix(s, "u$s")
	s = strings.TrimPrefix(s, "U$S")
	s = strings.Trim(s, "$ ")
	s = strings.ReplaceAll(s, " ", "")

	dots := strings.Count(s, ".")
	commas := strings.Count(s, ",")

	switch {
	case dots == 0 && commas == 0:
		return parseOrFallback(s)

	case commas == 0:
		last := strings.LastIndex(s, ".")
		trailing := len(s) - last - 1
		if trailing == 3 && len(s) >= 5 {
			// Latino thousands separator: 1.485 -> 1485
			return parseOrFallback(strings.ReplaceAll(s, ".", ""))
		}
		if dots == 1 && trailing <= 2 && last >= len(s)-3 {
			return parseOrFallback(s)
		}
		return parseOrFallback(strings.ReplaceAll(s, ".", ""))

	case dots == 0:
		last := strings.LastIndex(s, ",")
		trailing := len(s) - last - 1
		if commas == 1 && trailing >= 1 && trailing <= 2 && last >= len(s)-3 {
			return parseOrFallback(strings.Replace(s, ",", ".", 1))
		}
		// Trailing group of three (US thousands) or multiple commas.
		return parseOrFallback(strings.ReplaceAll(s, ",", ""))

	default:
		// Both separators present: whichever occurs later is the decimal marker.
		if strings.LastIndex(s, ".") > strings.LastIndex(s, ",") {
			return parseOrFallback(strings.ReplaceAll(s, ",", ""))
		}
		stripped := strings.ReplaceAll(s, ".", "")
		return parseOrFallback(strings.Replace(stripped, ",", ".", 1))
	}
}

func parseOrFallback(s string) float64 {
	if v, err := strconv.ParseFloat(s, 64); err == nil {
		return v
	}
	// Best effort: keep the digits, drop everything else.
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return 0
	}
	v, _ := strconv.ParseFloat(b.String(), 64)
	return v
}
