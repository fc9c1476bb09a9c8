// README: Deterministic regex parser used when the AI provider is down.
package ai

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"tripdesk/internal/textnorm"
	"tripdesk/internal/types"
)

// FallbackParser is a rule-based Provider for when Gemini is unreachable or
// over quota. It covers the common message shapes only; anything it cannot
// read comes back with low confidence so the caller can ask instead of
// guessing.
type FallbackParser struct {
	// Now is swappable for tests; defaults to time.Now.
	Now func() time.Time
}

func NewFallbackParser() *FallbackParser {
	return &FallbackParser{Now: time.Now}
}

var (
	flightWords = []string{"vuelo", "vuelos", "aereo", "aereos", "pasaje", "pasajes", "volar"}
	hotelWords  = []string{"hotel", "hoteles", "alojamiento", "estadia", "hospedaje"}

	routeTextRe = regexp.MustCompile(`(?:de|desde)\s+([a-z ]{3,25}?)\s+(?:a|hacia|hasta)\s+([a-z ]{3,25}?)(?:\s|$|,)`)
	destOnlyRe  = regexp.MustCompile(`(?:a|hacia|para|en)\s+([a-z]{3,20})(?:\s|$|,)`)
	iataPairRe  = regexp.MustCompile(`\b([A-Z]{3})\s*-\s*([A-Z]{3})\b`)

	rangeDateRe  = regexp.MustCompile(`del?\s+(\d{1,2})\s+al\s+(\d{1,2})\s+de\s+([a-z]+)`)
	singleDateRe = regexp.MustCompile(`(?:el|para el)\s+(\d{1,2})\s+de\s+([a-z]+)`)

	adultsCountRe = regexp.MustCompile(`(\d+)\s+(?:adultos?|personas?|pasajeros?|pax)`)
	childrenRe    = regexp.MustCompile(`(\d+)\s+(?:menor(?:es)?|nin[oa]s?|chicos?)`)
	nightsCountRe = regexp.MustCompile(`(\d+)\s+noches`)
)

var spanishMonths = map[string]time.Month{
	"enero": time.January, "febrero": time.February, "marzo": time.March,
	"abril": time.April, "mayo": time.May, "junio": time.June,
	"julio": time.July, "agosto": time.August, "septiembre": time.September,
	"setiembre": time.September, "octubre": time.October,
	"noviembre": time.November, "diciembre": time.December,
}

// cityCodes resolves the destinations agents actually type. The AI tier
// handles the long tail; this list only needs to cover the fallback's reach.
var cityCodes = map[string]string{
	"buenos aires": "EZE", "cancun": "CUN", "madrid": "MAD", "miami": "MIA",
	"barcelona": "BCN", "rio": "GIG", "rio de janeiro": "GIG",
	"san pablo": "GRU", "sao paulo": "GRU", "santiago": "SCL", "lima": "LIM",
	"bogota": "BOG", "nueva york": "JFK", "new york": "JFK", "orlando": "MCO",
	"punta cana": "PUJ", "mexico": "MEX", "roma": "FCO", "paris": "CDG",
	"londres": "LHR", "bariloche": "BRC", "mendoza": "MDZ", "salta": "SLA",
	"iguazu": "IGR", "ushuaia": "USH", "cordoba": "COR",
}

// ParseTravelRequest applies the rule table to a normalized message.
// Returns (nil, nil) when no travel keyword appears at all.
func (p *FallbackParser) ParseTravelRequest(_ context.Context, message string, _ *types.ContextState) (*types.TravelRequest, error) {
	normalized := textnorm.Normalize(message)

	hasFlights := containsAny(normalized, flightWords)
	hasHotels := containsAny(normalized, hotelWords)
	if !hasFlights && !hasHotels {
		return nil, nil
	}

	adults := 1
	if m := adultsCountRe.FindStringSubmatch(normalized); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil && n > 0 {
			adults = n
		}
	}
	children := 0
	if m := childrenRe.FindStringSubmatch(normalized); m != nil {
		children, _ = strconv.Atoi(m[1])
	}

	origin, destination, destCity := p.extractRoute(message, normalized)
	departure, returnDate := p.extractDates(normalized)

	req := &types.TravelRequest{Confidence: 0.5}
	switch {
	case hasFlights && hasHotels:
		req.RequestType = types.RequestCombined
	case hasHotels:
		req.RequestType = types.RequestHotels
	default:
		req.RequestType = types.RequestFlights
	}

	if hasFlights {
		req.Flights = &types.FlightParams{
			Origin:        origin,
			Destination:   destination,
			DepartureDate: departure,
			ReturnDate:    returnDate,
			Adults:        adults,
			Children:      children,
		}
		applyFlightHints(req.Flights, normalized)
	}
	if hasHotels {
		checkout := returnDate
		if checkout == "" && departure != "" {
			if m := nightsCountRe.FindStringSubmatch(normalized); m != nil {
				if n, err := strconv.Atoi(m[1]); err == nil {
					if d, perr := time.Parse("2006-01-02", departure); perr == nil {
						checkout = d.AddDate(0, 0, n).Format("2006-01-02")
					}
				}
			}
		}
		req.Hotels = &types.HotelParams{
			City:         destCity,
			CheckinDate:  departure,
			CheckoutDate: checkout,
			Adults:       adults,
			Children:     children,
		}
		applyHotelHints(req.Hotels, normalized)
	}
	return req, nil
}

func (p *FallbackParser) extractRoute(raw, normalized string) (origin, destination, destCity string) {
	origin = "EZE"

	if m := iataPairRe.FindStringSubmatch(raw); m != nil {
		return m[1], m[2], m[2]
	}
	if m := routeTextRe.FindStringSubmatch(normalized); m != nil {
		from := strings.TrimSpace(m[1])
		to := strings.TrimSpace(m[2])
		if code, ok := cityCodes[from]; ok {
			origin = code
		}
		if code, ok := cityCodes[to]; ok {
			return origin, code, to
		}
		return origin, "", to
	}
	for _, m := range destOnlyRe.FindAllStringSubmatch(normalized, -1) {
		city := strings.TrimSpace(m[1])
		if code, ok := cityCodes[city]; ok {
			return origin, code, city
		}
	}
	return origin, "", ""
}

func (p *FallbackParser) extractDates(normalized string) (departure, ret string) {
	now := p.Now()
	if m := rangeDateRe.FindStringSubmatch(normalized); m != nil {
		month, ok := spanishMonths[m[3]]
		if !ok {
			return "", ""
		}
		fromDay, _ := strconv.Atoi(m[1])
		toDay, _ := strconv.Atoi(m[2])
		from := nextOccurrence(now, month, fromDay)
		to := time.Date(from.Year(), month, toDay, 0, 0, 0, 0, time.UTC)
		if to.Before(from) {
			to = to.AddDate(0, 1, 0)
		}
		return from.Format("2006-01-02"), to.Format("2006-01-02")
	}
	if m := singleDateRe.FindStringSubmatch(normalized); m != nil {
		month, ok := spanishMonths[m[2]]
		if !ok {
			return "", ""
		}
		day, _ := strconv.Atoi(m[1])
		return nextOccurrence(now, month, day).Format("2006-01-02"), ""
	}
	return "", ""
}

// nextOccurrence resolves a day/month without a year to its next future
// occurrence.
func nextOccurrence(now time.Time, month time.Month, day int) time.Time {
	d := time.Date(now.Year(), month, day, 0, 0, 0, 0, time.UTC)
	if d.Before(now.Truncate(24 * time.Hour)) {
		d = d.AddDate(1, 0, 0)
	}
	return d
}

func applyFlightHints(f *types.FlightParams, normalized string) {
	if strings.Contains(normalized, "sin escala") || strings.Contains(normalized, "directo") {
		f.Stops = strPtr("direct")
	} else if strings.Contains(normalized, "una escala") {
		f.Stops = strPtr("1")
	}
	if strings.Contains(normalized, "valija") || strings.Contains(normalized, "equipaje despachado") {
		f.Luggage = strPtr("checked")
	} else if strings.Contains(normalized, "solo mochila") || strings.Contains(normalized, "equipaje de mano") {
		f.Luggage = strPtr("carry_on")
	}
	if strings.Contains(normalized, "business") || strings.Contains(normalized, "ejecutiva") {
		f.CabinClass = strPtr("business")
	}
}

func applyHotelHints(h *types.HotelParams, normalized string) {
	if strings.Contains(normalized, "all inclusive") || strings.Contains(normalized, "todo incluido") {
		h.MealPlan = strPtr("all_inclusive")
	} else if strings.Contains(normalized, "desayuno") {
		h.MealPlan = strPtr("breakfast")
	}
	if strings.Contains(normalized, "cancelacion gratis") || strings.Contains(normalized, "cancelacion gratuita") {
		v := true
		h.FreeCancellation = &v
	}
}

func containsAny(s string, words []string) bool {
	for _, w := range words {
		if regexp.MustCompile(`\b` + w + `\b`).MatchString(s) {
			return true
		}
	}
	return false
}

func strPtr(s string) *string { return &s }

// ResilientProvider tries the primary provider and falls back to the rule
// parser on error, so one Gemini outage doesn't take chat down with it.
type ResilientProvider struct {
	Primary    Provider
	Fallback   Provider
	OnFallback func(err error)
}

func (r *ResilientProvider) ParseTravelRequest(ctx context.Context, message string, prior *types.ContextState) (*types.TravelRequest, error) {
	req, err := r.Primary.ParseTravelRequest(ctx, message, prior)
	if err == nil {
		return req, nil
	}
	if r.OnFallback != nil {
		r.OnFallback(err)
	}
	req, ferr := r.Fallback.ParseTravelRequest(ctx, message, prior)
	if ferr != nil {
		return nil, fmt.Errorf("primary parse failed (%v), fallback too: %w", err, ferr)
	}
	return req, nil
}
