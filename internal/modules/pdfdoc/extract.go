// README: Regex fallback extraction for foreign PDFs when AI extraction fails.
package pdfdoc

import (
	"regexp"
	"strconv"
	"strings"

	"tripdesk/internal/modules/airline"
	"tripdesk/internal/modules/pricetext"
)

var (
	routeRe    = regexp.MustCompile(`\b([A-Z]{3})\s*(?:-|–|→|/)\s*([A-Z]{3})\b`)
	priceRe    = regexp.MustCompile(`(?:USD|U\$S|\$)\s*([0-9][0-9.,]*)`)
	nightsRe   = regexp.MustCompile(`(?i)(\d+)\s*noches`)
	optionRe   = regexp.MustCompile(`(?i)OPCI[OÓ]N\s*(\d)`)
	hotelRe    = regexp.MustCompile(`(?i)hotel\s+([A-Za-zÁÉÍÓÚáéíóúñÑ' .&-]{3,60})`)
	totalRe    = regexp.MustCompile(`(?i)(?:precio\s+)?total[:\s]+(?:USD|U\$S|\$)?\s*([0-9][0-9.,]*)`)
	currencyRe = regexp.MustCompile(`\b(USD|ARS|EUR)\b`)
)

// ExtractWithRegex is the deterministic bottom tier of PDF analysis: scan
// sanitized text line by line for routes, prices, hotels and option
// headers. Best effort only; rows built here carry derived single legs so
// the reconstructor can still pair and scale them.
func ExtractWithRegex(text string) *Content {
	c := &Content{Currency: "USD"}
	if m := currencyRe.FindStringSubmatch(text); m != nil {
		c.Currency = m[1]
	}

	currentOption := 0
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if m := optionRe.FindStringSubmatch(line); m != nil {
			if n, err := strconv.Atoi(m[1]); err == nil {
				currentOption = n
			}
		}

		routes := routeRe.FindAllStringSubmatch(line, -1)
		prices := priceRe.FindAllStringSubmatch(line, -1)

		if len(routes) > 0 {
			for i, r := range routes {
				f := Flight{
					Route: r[1] + " - " + r[2],
					Legs:  []Leg{{From: r[1], To: r[2]}},
				}
				if det := airline.DetectInText(line); det != nil {
					f.Airline = det.Name
					f.AirlineCode = det.Code
				}
				if i < len(prices) {
					f.Price = pricetext.ParsePrice(prices[i][1])
				}
				if len(c.Flights)%2 == 0 {
					f.Direction = "outbound"
				} else {
					f.Direction = "return"
				}
				c.Flights = append(c.Flights, f)
			}
			continue
		}

		if m := hotelRe.FindStringSubmatch(line); m != nil {
			h := Hotel{Name: "Hotel " + strings.TrimSpace(m[1])}
			if nm := nightsRe.FindStringSubmatch(line); nm != nil {
				if n, err := strconv.Atoi(nm[1]); err == nil {
					h.Nights = n
				}
			}
			if len(prices) > 0 {
				h.Price = pricetext.ParsePrice(prices[0][1])
			}
			if currentOption > 0 {
				n := currentOption
				h.OptionNumber = &n
				if len(prices) > 1 {
					v := pricetext.ParsePrice(prices[len(prices)-1][1])
					h.PackagePrice = &v
				}
			}
			c.Hotels = append(c.Hotels, h)
			continue
		}

		if m := totalRe.FindStringSubmatch(line); m != nil && c.TotalPrice == 0 {
			c.TotalPrice = pricetext.ParsePrice(m[1])
		}
	}

	if c.TotalPrice == 0 {
		c.TotalPrice = recomputeTotal(c)
	}
	return c
}

// HasPriceSignal reports whether any tier found a usable price.
func HasPriceSignal(c *Content) bool {
	if c == nil {
		return false
	}
	if c.TotalPrice > 0 {
		return true
	}
	for _, f := range c.Flights {
		if f.Price > 0 {
			return true
		}
	}
	for _, h := range c.Hotels {
		if h.Price > 0 || (h.PackagePrice != nil && *h.PackagePrice > 0) {
			return true
		}
	}
	return false
}
