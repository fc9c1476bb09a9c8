// README: Deterministic extractor for proposals this system generated itself.
package pdfdoc

import (
	"regexp"
	"strconv"
	"strings"

	"tripdesk/internal/modules/airline"
	"tripdesk/internal/modules/pricetext"
)

// Self-generated proposals carry a fixed header and pipe-delimited rows, so
// no inference is needed to read them back.
const generatedHeader = "PROPUESTA DE VIAJE"

var (
	templateFlightRe = regexp.MustCompile(`^([A-Za-zÁÉÍÓÚáéíóúñÑ .]+)\s*\|\s*([A-Z]{3})\s*-\s*([A-Z]{3})\s*\|\s*([^|]+)\|\s*(?:USD|\$)\s*([0-9][0-9.,]*)\s*$`)
	templateHotelRe  = regexp.MustCompile(`^(?:OPCI[OÓ]N\s*(\d)\s*:\s*)?([^|]+)\|\s*([^|]+)\|\s*(\d+)\s*noches\s*\|\s*(?:USD|\$)\s*([0-9][0-9.,]*)(?:\s*\|\s*Total paquete:\s*(?:USD|\$)\s*([0-9][0-9.,]*))?\s*$`)
	templateTotalRe  = regexp.MustCompile(`TOTAL:\s*(?:USD|\$)\s*([0-9][0-9.,]*)`)
)

// IsGeneratedDocument recognizes our own proposals by filename or content
// signature.
func IsGeneratedDocument(filename, text string) bool {
	name := strings.ToLower(filename)
	if strings.HasPrefix(name, "propuesta") {
		return true
	}
	return strings.Contains(text, generatedHeader)
}

// ExtractFromTemplate reads a self-generated proposal back into structured
// content. Returns nil when the text does not follow the template layout.
func ExtractFromTemplate(text string) *Content {
	c := &Content{Currency: "USD", ExtractedFromTemplate: true}

	direction := "outbound"
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if m := templateFlightRe.FindStringSubmatch(line); m != nil {
			name := strings.TrimSpace(m[1])
			f := Flight{
				Airline:     name,
				AirlineCode: airline.Code(name),
				Route:       m[2] + " - " + m[3],
				Dates:       strings.TrimSpace(m[4]),
				Price:       pricetext.ParsePrice(m[5]),
				Direction:   direction,
				Legs:        []Leg{{From: m[2], To: m[3]}},
			}
			c.Flights = append(c.Flights, f)
			if direction == "outbound" {
				direction = "return"
			} else {
				direction = "outbound"
			}
			continue
		}

		if m := templateHotelRe.FindStringSubmatch(line); m != nil {
			h := Hotel{
				Name:     strings.TrimSpace(m[2]),
				Location: strings.TrimSpace(m[3]),
				Price:    pricetext.ParsePrice(m[5]),
			}
			if nights, err := strconv.Atoi(m[4]); err == nil {
				h.Nights = nights
			}
			if m[1] != "" {
				if n, err := strconv.Atoi(m[1]); err == nil {
					h.OptionNumber = &n
				}
			}
			if m[6] != "" {
				v := pricetext.ParsePrice(m[6])
				h.PackagePrice = &v
			}
			c.Hotels = append(c.Hotels, h)
			continue
		}

		if m := templateTotalRe.FindStringSubmatch(line); m != nil {
			c.TotalPrice = pricetext.ParsePrice(m[1])
		}
	}

	if len(c.Flights) == 0 && len(c.Hotels) == 0 {
		return nil
	}
	if c.TotalPrice == 0 {
		c.TotalPrice = recomputeTotal(c)
	}
	return c
}
