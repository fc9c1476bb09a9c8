// README: Ordered-rule iteration classifier over message text and prior context.
package intent

import (
	"tripdesk/internal/logger"
	"tripdesk/internal/textnorm"
	"tripdesk/internal/types"
)

// Classifier decides whether a message is a fresh search or an iteration on
// the conversation's previous one.
type Classifier struct {
	log logger.Logger
}

func NewClassifier(log logger.Logger) *Classifier {
	return &Classifier{log: log}
}

// rule is one case of the decision table. Rules are evaluated in order and
// the first non-nil result wins; a case lower in the list never fires once
// an earlier one matched, even if its confidence would be higher. That
// ordering is the existing behavioral contract for live conversations and
// is kept as-is.
type rule struct {
	name  string
	match func(s signals, prior *types.LastSearch) *IterationContext
}

// Classify runs the decision table. A nil or empty prior context always
// yields new_search.
func (c *Classifier) Classify(message string, prior *types.ContextState) *IterationContext {
	normalized := textnorm.Normalize(message)
	c.log.Debug("classifying message", "normalized", normalized)

	if prior == nil || prior.LastSearch == nil {
		return newSearchResult()
	}

	s := detectSignals(normalized, message)
	last := prior.LastSearch

	for _, r := range rules {
		if result := r.match(s, last); result != nil {
			result.MatchedPattern = r.name
			result.BaseRequestType = string(last.RequestType)
			c.log.Info("iteration case matched",
				"case", r.name,
				"type", string(result.IterationType),
				"confidence", result.Confidence,
			)
			return result
		}
	}

	c.log.Debug("no iteration case matched, treating as new search")
	return newSearchResult()
}

func newSearchResult() *IterationContext {
	return &IterationContext{
		IsIteration:   false,
		IterationType: NewSearch,
		Confidence:    1.0,
	}
}

func hotelModResult(confidence float64, directive *FlightDirective) *IterationContext {
	return &IterationContext{
		IsIteration:        true,
		IterationType:      HotelModification,
		ModifiedComponent:  ComponentHotels,
		PreserveFields:     append([]string(nil), flightPreserveFields...),
		Confidence:         confidence,
		FlightModification: directive,
	}
}

func flightModResult(confidence float64, directive *FlightDirective, prior *types.LastSearch) *IterationContext {
	out := &IterationContext{
		IsIteration:        true,
		IterationType:      FlightModification,
		ModifiedComponent:  ComponentFlights,
		Confidence:         confidence,
		FlightModification: directive,
	}
	// A combined prior keeps its hotel verbatim through a flight change.
	if prior.RequestType == types.RequestCombined {
		out.PreserveFields = append([]string(nil), hotelPreserveFields...)
	}
	return out
}

var rules = []rule{
	{
		// 1. "misma busqueda pero cambia el hotel"
		name: "context_ref_hotel_mod",
		match: func(s signals, prior *types.LastSearch) *IterationContext {
			if s.contextReference && s.hotelMod && !s.newFlightParams &&
				prior.RequestType == types.RequestCombined {
				return hotelModResult(0.95, nil)
			}
			return nil
		},
	},
	{
		// 2. hotel modification phrasing on its own
		name: "hotel_mod_alone",
		match: func(s signals, prior *types.LastSearch) *IterationContext {
			if s.hotelMod && !s.newFlightParams && prior.RequestType == types.RequestCombined {
				return hotelModResult(0.85, nil)
			}
			return nil
		},
	},
	{
		// 3. bare chain mention on top of a combined search
		name: "hotel_chain_mention",
		match: func(s signals, prior *types.LastSearch) *IterationContext {
			if s.hotelChain != "" && !s.newFlightParams && !s.newTripPhrasing &&
				prior.RequestType == types.RequestCombined {
				return hotelModResult(0.75, nil)
			}
			return nil
		},
	},
	{
		// 4. generic "lo mismo pero": hotel signal decides the branch. The
		// full_reuse branch yields to cases 7-12 when a flight directive is
		// present, otherwise they would be unreachable.
		name: "lo_mismo_pero",
		match: func(s signals, prior *types.LastSearch) *IterationContext {
			if !s.loMismoPero {
				return nil
			}
			if s.hotelSignal {
				return hotelModResult(0.9, nil)
			}
			if s.directive.Empty() {
				return &IterationContext{
					IsIteration:       true,
					IterationType:     FullReuse,
					ModifiedComponent: ComponentBoth,
					PreserveFields:    preserveBoth(),
					Confidence:        0.7,
				}
			}
			return nil
		},
	},
	{
		// 5. "mismo vuelo" + a hotel ask
		name: "mismo_vuelo_hotel",
		match: func(s signals, prior *types.LastSearch) *IterationContext {
			if s.mismoVuelo && s.hotelSignal {
				return hotelModResult(0.9, nil)
			}
			return nil
		},
	},
	{
		// 6. context reference + hotel signal, any prior with flights
		name: "context_ref_hotel_signal",
		match: func(s signals, prior *types.LastSearch) *IterationContext {
			if s.contextReference && s.hotelSignal && prior.RequestType != types.RequestHotels {
				return hotelModResult(0.8, nil)
			}
			return nil
		},
	},
	{
		// 7. stops change ("sin escalas")
		name: "stops_change",
		match: func(s signals, prior *types.LastSearch) *IterationContext {
			if s.directive != nil && s.directive.Stops != nil && !s.newFlightParams {
				return flightModResult(0.95, s.directive, prior)
			}
			return nil
		},
	},
	{
		// 8. luggage change
		name: "luggage_change",
		match: func(s signals, prior *types.LastSearch) *IterationContext {
			if s.directive != nil && s.directive.Luggage != nil && !s.newFlightParams {
				return flightModResult(0.9, s.directive, prior)
			}
			return nil
		},
	},
	{
		// 9. airline change or a known airline mention
		name: "airline_change",
		match: func(s signals, prior *types.LastSearch) *IterationContext {
			airlineSignal := (s.directive != nil && s.directive.ChangeAirline) || s.airline != nil
			if airlineSignal && !s.newFlightParams &&
				(prior.RequestType == types.RequestFlights || prior.RequestType == types.RequestCombined) {
				d := s.directive
				if d == nil {
					d = &FlightDirective{}
				}
				if s.airline != nil {
					code := s.airline.Code
					d.Airline = &code
				}
				d.ChangeAirline = true
				return flightModResult(0.85, d, prior)
			}
			return nil
		},
	},
	{
		// 10. "lo mismo pero" + any flight directive
		name: "lo_mismo_pero_flight",
		match: func(s signals, prior *types.LastSearch) *IterationContext {
			if s.loMismoPero && !s.directive.Empty() {
				return flightModResult(0.9, s.directive, prior)
			}
			return nil
		},
	},
	{
		// 11. adding adults overrides every other reading
		name: "adults_to_add",
		match: func(s signals, prior *types.LastSearch) *IterationContext {
			if s.directive != nil && s.directive.AdultsToAdd > 0 {
				return flightModResult(0.95, s.directive, prior)
			}
			return nil
		},
	},
	{
		// 12. cabin class change
		name: "cabin_class_change",
		match: func(s signals, prior *types.LastSearch) *IterationContext {
			if s.directive != nil && s.directive.CabinClass != nil && !s.newFlightParams {
				return flightModResult(0.9, s.directive, prior)
			}
			return nil
		},
	},
}
