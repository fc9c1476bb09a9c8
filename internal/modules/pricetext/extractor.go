// README: Free-text price-change extraction (Spanish agent vocabulary).
package pricetext

import (
	"regexp"
	"strings"

	"tripdesk/internal/textnorm"
)

const price = `\$?\s*([0-9][0-9.,]*)`

var (
	optionRe = regexp.MustCompile(`opcion\s*([123])\s*(?:a|en|por|queda en)\s*` + price)

	ordinalRe = regexp.MustCompile(`\b(?:el|la)\s+(primer[oa]?|segund[oa]|tercer[oa]?)\s*(?:opcion|paquete|par)?\s*(?:a|en|por)\s*` + price)

	addRe        = regexp.MustCompile(`\b(?:sumale|sumarle|sumar|agregale|agregarle|anadile)\s*` + price)
	subtractRe   = regexp.MustCompile(`\b(?:restale|restarle|restar|bajale|bajarle|descontale|descontarle)\s*` + price)
	percentUpRe  = regexp.MustCompile(`\b(?:sube|subi|subir|aumenta|aumentar|incrementa)\s*(?:un\s*)?([0-9][0-9.,]*)\s*(?:%|por\s*ciento)`)
	percentDnRe  = regexp.MustCompile(`\b(?:baja|bajar|reduci|reducir|reduce|descuenta)\s*(?:un\s*)?([0-9][0-9.,]*)\s*(?:%|por\s*ciento)`)
	hotelWordRe  = regexp.MustCompile(`\b(?:al|del|el)\s+hotel\b`)
	flightWordRe = regexp.MustCompile(`\b(?:a\s+los|de\s+los|los)\s+vuelos\b`)

	cheapestRe      = regexp.MustCompile(`\b(?:el|la)?\s*mas\s+barat[oa]\s*(?:a|en|por)\s*` + price)
	mostExpensiveRe = regexp.MustCompile(`\b(?:el|la)?\s*mas\s+car[oa]\s*(?:a|en|por)\s*` + price)

	totalRe = regexp.MustCompile(`(?:cambia(?:r|me)?\s*(?:el\s*)?precio\s*(?:total\s*)?a|precio\s+total\s+(?:a|de)|precio\s+final\s+(?:a|de)|\btotal\s+(?:a|de)|que\s+(?:quede|salga)\s+en|dejalo\s+en)\s*` + price)
)

var ordinalPositions = map[string]int{
	"primero": 1, "primera": 1, "primer": 1,
	"segundo": 2, "segunda": 2,
	"tercero": 3, "tercera": 3, "tercer": 3,
}

// ExtractPriceChange scans a message for a price-change request. hotelNames
// lets the extractor recognize chain-keyed commands like "Riu a 800" against
// the hotels of the quote being discussed. Returns nil when the message
// carries no price directive.
//
// Variants are tried most-specific first: explicit option targets, ordinal
// positions, relative adjustments, hotel-name changes, price-order changes,
// and only then a bare total. A bare total check running first would swallow
// "opcion 2 a 900".
func ExtractPriceChange(text string, hotelNames []string) *Directive {
	normalized := textnorm.Normalize(text)

	if d := extractOptions(normalized); d != nil {
		return d
	}
	if d := extractPositions(normalized); d != nil {
		return d
	}
	if d := extractRelative(normalized); d != nil {
		return d
	}
	if d := extractHotelChanges(normalized, hotelNames); d != nil {
		return d
	}
	if d := extractPriceOrder(normalized); d != nil {
		return d
	}
	if m := totalRe.FindStringSubmatch(normalized); m != nil {
		v := ParsePrice(m[1])
		return &Directive{Kind: KindTotal, TotalPrice: &v, MatchedPattern: "total"}
	}
	return nil
}

func extractOptions(text string) *Directive {
	matches := optionRe.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return nil
	}
	opts := &OptionPrices{}
	for _, m := range matches {
		v := ParsePrice(m[2])
		switch m[1] {
		case "1":
			opts.Option1 = &v
		case "2":
			opts.Option2 = &v
		case "3":
			opts.Option3 = &v
		}
	}
	return &Directive{Kind: KindOptions, Options: opts, MatchedPattern: "option_targets"}
}

func extractPositions(text string) *Directive {
	matches := ordinalRe.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return nil
	}
	var positions []PositionPrice
	for _, m := range matches {
		pos, ok := ordinalPositions[m[1]]
		if !ok {
			continue
		}
		positions = append(positions, PositionPrice{Position: pos, Price: ParsePrice(m[2])})
	}
	if len(positions) == 0 {
		return nil
	}
	return &Directive{Kind: KindPositions, Positions: positions, MatchedPattern: "ordinal_positions"}
}

func extractRelative(text string) *Directive {
	build := func(op Operation, raw string) *Directive {
		target := TargetTotal
		if hotelWordRe.MatchString(text) {
			target = TargetHotel
		} else if flightWordRe.MatchString(text) {
			target = TargetFlights
		}
		return &Directive{
			Kind:           KindRelative,
			Relative:       &RelativeChange{Operation: op, Value: ParsePrice(raw), Target: target},
			MatchedPattern: "relative_" + string(op),
		}
	}

	if m := percentUpRe.FindStringSubmatch(text); m != nil {
		return build(OpPercentAdd, m[1])
	}
	if m := percentDnRe.FindStringSubmatch(text); m != nil {
		return build(OpPercentSubtract, m[1])
	}
	if m := addRe.FindStringSubmatch(text); m != nil {
		return build(OpAdd, m[1])
	}
	if m := subtractRe.FindStringSubmatch(text); m != nil {
		return build(OpSubtract, m[1])
	}
	return nil
}

func extractHotelChanges(text string, hotelNames []string) *Directive {
	var changes []HotelPriceChange
	for i, name := range hotelNames {
		key := textnorm.Normalize(name)
		if key == "" {
			continue
		}
		re := regexp.MustCompile(`\b` + regexp.QuoteMeta(key) + `\b\s*(?:a|en|por|queda en)\s*` + price)
		m := re.FindStringSubmatch(text)
		if m == nil && strings.Contains(key, " ") {
			// Agents usually type just the chain ("riu" for "Hotel Riu Palace").
			for _, word := range strings.Fields(key) {
				if len(word) < 3 || word == "hotel" {
					continue
				}
				wre := regexp.MustCompile(`\b` + regexp.QuoteMeta(word) + `\b\s*(?:a|en|por|queda en)\s*` + price)
				if m = wre.FindStringSubmatch(text); m != nil {
					break
				}
			}
		}
		if m != nil {
			changes = append(changes, HotelPriceChange{
				HotelIndex:    i,
				ReferenceType: RefName,
				Name:          name,
				NewPrice:      ParsePrice(m[1]),
			})
		}
	}
	if len(changes) == 0 {
		return nil
	}
	return &Directive{Kind: KindHotels, HotelChanges: changes, MatchedPattern: "hotel_name"}
}

func extractPriceOrder(text string) *Directive {
	if m := cheapestRe.FindStringSubmatch(text); m != nil {
		return &Directive{
			Kind: KindHotels,
			HotelChanges: []HotelPriceChange{{
				ReferenceType: RefPriceOrder,
				PriceOrder:    "cheapest",
				NewPrice:      ParsePrice(m[1]),
			}},
			MatchedPattern: "price_order_cheapest",
		}
	}
	if m := mostExpensiveRe.FindStringSubmatch(text); m != nil {
		return &Directive{
			Kind: KindHotels,
			HotelChanges: []HotelPriceChange{{
				ReferenceType: RefPriceOrder,
				PriceOrder:    "most_expensive",
				NewPrice:      ParsePrice(m[1]),
			}},
			MatchedPattern: "price_order_most_expensive",
		}
	}
	return nil
}
