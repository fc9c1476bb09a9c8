// README: Signal detectors the classifier's decision table consumes.
package intent

import (
	"regexp"
	"strconv"
	"strings"

	"tripdesk/internal/modules/airline"
)

// signals is everything the rule table looks at, computed once per message.
type signals struct {
	contextReference bool
	hotelMod         bool
	hotelChain       string
	hotelSignal      bool
	loMismoPero      bool
	mismoVuelo       bool
	newFlightParams  bool
	newTripPhrasing  bool
	airline          *airline.Detection
	directive        *FlightDirective
}

var contextReferencePhrases = []string{
	"misma busqueda", "mismo vuelo", "mismos vuelos", "esa busqueda",
	"ese vuelo", "esos vuelos", "lo mismo", "igual pero", "la misma",
	"el mismo", "como antes", "la busqueda anterior", "lo anterior",
}

var hotelModPhrases = []string{
	"cambia el hotel", "cambiar el hotel", "cambia de hotel", "otro hotel",
	"cambia hotel", "con hotel", "agrega hotel", "agregar hotel",
	"agregale hotel", "hotel mas barato", "un hotel mejor", "mejor hotel",
	"hotel mas economico", "todo incluido", "media pension",
	"pension completa", "solo desayuno", "con desayuno",
	"cancelacion gratis", "cancelacion gratuita",
}

// hotelChains the agency quotes regularly. A bare chain mention on top of a
// combined search reads as "same trip, that hotel".
var hotelChains = []string{
	"riu", "iberostar", "barcelo", "melia", "bahia principe", "palladium",
	"grand palladium", "hard rock", "catalonia", "majestic", "hyatt",
	"hilton", "marriott", "sheraton", "holiday inn", "nh hotel",
	"sandals", "secrets", "dreams", "occidental", "royalton", "paradisus",
}

var newTripPhrases = []string{
	"quiero viajar", "nueva busqueda", "otra ciudad", "otro destino",
	"busca vuelos a", "buscame vuelos a", "quiero ir a", "empecemos de nuevo",
}

var (
	routeRe     = regexp.MustCompile(`\b(?:vuelos?|viaje|viajar|pasajes?|ir)\s+(?:de|desde)\s+[a-z]{3,}\s+(?:a|hacia|hasta)\s+[a-z]{3,}`)
	bareRouteRe = regexp.MustCompile(`\bdesde\s+[a-z]{3,}\s+(?:a|hacia|hasta)\s+[a-z]{3,}`)
	isoDateRe   = regexp.MustCompile(`\b\d{4}-\d{2}-\d{2}\b`)
	slashDateRe = regexp.MustCompile(`\b\d{1,2}/\d{1,2}(?:/\d{2,4})?\b`)
	monthDateRe = regexp.MustCompile(`\b(?:el|del)\s+\d{1,2}\s+(?:de\s+)?(?:enero|febrero|marzo|abril|mayo|junio|julio|agosto|septiembre|octubre|noviembre|diciembre)`)

	layoverRe = regexp.MustCompile(`(?:escalas?\s+de\s+(?:menos\s+de\s+|hasta\s+)?|maximo\s+)(\d{1,2})\s+horas`)
	adultsRe  = regexp.MustCompile(`(?:agrega(?:r|me|le)?\s+(\d+|un|una|dos|tres|cuatro)\s+adultos?|(\d+)\s+adultos?\s+mas|somos\s+(\d+)\s+adultos)`)
)

var wordNumbers = map[string]int{"un": 1, "una": 1, "dos": 2, "tres": 3, "cuatro": 4}

func containsAny(text string, phrases []string) string {
	for _, p := range phrases {
		if strings.Contains(text, p) {
			return p
		}
	}
	return ""
}

// detectSignals computes every detector over the normalized message. The
// airline resolver runs on the raw text since it normalizes on its own.
func detectSignals(normalized, raw string) signals {
	s := signals{
		contextReference: containsAny(normalized, contextReferencePhrases) != "",
		hotelMod:         containsAny(normalized, hotelModPhrases) != "",
		hotelChain:       containsAny(normalized, hotelChains),
		loMismoPero: strings.Contains(normalized, "lo mismo pero") ||
			strings.Contains(normalized, "igual pero") ||
			strings.Contains(normalized, "misma busqueda pero"),
		mismoVuelo: strings.Contains(normalized, "mismo vuelo") ||
			strings.Contains(normalized, "mismos vuelos"),
		newTripPhrasing: containsAny(normalized, newTripPhrases) != "",
		airline:         airline.DetectInText(raw),
		directive:       detectFlightDirective(normalized),
	}
	s.newFlightParams = detectNewFlightParams(normalized)
	s.hotelSignal = s.hotelMod || s.hotelChain != "" || strings.Contains(normalized, "hotel")
	return s
}

// detectNewFlightParams is the veto signal: an explicit route or date means
// the message is describing a trip, not tweaking the previous one.
func detectNewFlightParams(text string) bool {
	return routeRe.MatchString(text) ||
		bareRouteRe.MatchString(text) ||
		isoDateRe.MatchString(text) ||
		slashDateRe.MatchString(text) ||
		monthDateRe.MatchString(text)
}

func detectFlightDirective(text string) *FlightDirective {
	d := &FlightDirective{}

	switch {
	case strings.Contains(text, "sin escala") || strings.Contains(text, "vuelo directo") ||
		strings.Contains(text, "vuelos directos") || strings.Contains(text, "que sea directo"):
		v := "direct"
		d.Stops = &v
	case strings.Contains(text, "una escala") || strings.Contains(text, "1 escala"):
		v := "1"
		d.Stops = &v
	case strings.Contains(text, "con escala"):
		v := "with_stops"
		d.Stops = &v
	}

	switch {
	case strings.Contains(text, "sin equipaje") || strings.Contains(text, "solo mochila") ||
		strings.Contains(text, "equipaje de mano"):
		v := "carry_on"
		d.Luggage = &v
	case strings.Contains(text, "con equipaje") || strings.Contains(text, "con valija") ||
		strings.Contains(text, "con maleta") || strings.Contains(text, "equipaje incluido") ||
		strings.Contains(text, "equipaje en bodega"):
		v := "checked"
		d.Luggage = &v
	}

	if strings.Contains(text, "otra aerolinea") || strings.Contains(text, "cambia la aerolinea") ||
		strings.Contains(text, "cambiar de aerolinea") || strings.Contains(text, "cambia de aerolinea") {
		d.ChangeAirline = true
	}

	applyTimePreference(text, d)

	if m := layoverRe.FindStringSubmatch(text); m != nil {
		if n, err := strconv.Atoi(m[1]); err == nil {
			d.MaxLayoverHours = &n
		}
	}

	if m := adultsRe.FindStringSubmatch(text); m != nil {
		for _, g := range m[1:] {
			if g == "" {
				continue
			}
			if n, ok := wordNumbers[g]; ok {
				d.AdultsToAdd = n
			} else if n, err := strconv.Atoi(g); err == nil {
				d.AdultsToAdd = n
			}
			break
		}
	}

	switch {
	case strings.Contains(text, "business") || strings.Contains(text, "ejecutiva"):
		v := "business"
		d.CabinClass = &v
	case strings.Contains(text, "primera clase"):
		v := "first"
		d.CabinClass = &v
	case strings.Contains(text, "premium economy"):
		v := "premium_economy"
		d.CabinClass = &v
	case strings.Contains(text, "economica") || strings.Contains(text, "turista"):
		v := "economy"
		d.CabinClass = &v
	}

	if d.Empty() {
		return nil
	}
	return d
}

func applyTimePreference(text string, d *FlightDirective) {
	period := ""
	switch {
	case strings.Contains(text, "manana temprano") || strings.Contains(text, "a la manana") ||
		strings.Contains(text, "por la manana") || strings.Contains(text, "temprano"):
		period = "morning"
	case strings.Contains(text, "a la tarde") || strings.Contains(text, "por la tarde"):
		period = "afternoon"
	case strings.Contains(text, "a la noche") || strings.Contains(text, "por la noche"):
		period = "night"
	}
	if period == "" {
		return
	}
	if strings.Contains(text, "llegue") || strings.Contains(text, "llegar") ||
		strings.Contains(text, "que arribe") {
		d.ArrivalTimePreference = &period
		return
	}
	d.DepartureTimePreference = &period
}
