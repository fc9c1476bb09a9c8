// README: Context merge engine - reconciles a parsed request with the prior search.
package travelctx

import (
	"tripdesk/internal/modules/intent"
	"tripdesk/internal/types"
)

// Merge combines the prior conversation context with a freshly parsed request
// according to the classified iteration. It is pure: same inputs, same
// output, no I/O. When the message is not an iteration the parsed request is
// returned as-is.
func Merge(prior *types.ContextState, parsed *types.TravelRequest, it *intent.IterationContext) *types.TravelRequest {
	if it == nil || !it.IsIteration || prior == nil || prior.LastSearch == nil {
		return parsed
	}

	switch it.IterationType {
	case intent.HotelModification:
		return mergeHotelModification(prior.LastSearch, parsed, it)
	case intent.FlightModification:
		return mergeFlightModification(prior.LastSearch, parsed, it)
	case intent.FullReuse:
		return mergeFullReuse(prior.LastSearch, parsed, it)
	default:
		return parsed
	}
}

// mergeHotelModification keeps the previous flights verbatim. The parser's
// flight output for the same message is discarded on purpose: a hotel-only
// iteration must never let a re-parse change the route.
func mergeHotelModification(last *types.LastSearch, parsed *types.TravelRequest, it *intent.IterationContext) *types.TravelRequest {
	out := &types.TravelRequest{
		RequestType: types.RequestCombined,
		Flights:     types.CloneFlightParams(last.FlightsParams),
		Confidence:  maxConfidence(parsed, it),
	}

	base := types.CloneHotelParams(last.HotelsParams)
	if base == nil {
		base = &types.HotelParams{}
	}
	// Fall back to the flight leg for city/dates/occupancy when the prior
	// search had no hotel side.
	if f := last.FlightsParams; f != nil {
		if base.City == "" {
			base.City = f.Destination
		}
		if base.CheckinDate == "" {
			base.CheckinDate = f.DepartureDate
		}
		if base.CheckoutDate == "" {
			base.CheckoutDate = f.ReturnDate
		}
		if base.Adults == 0 {
			base.Adults = f.Adults
		}
		if base.Children == 0 {
			base.Children = f.Children
		}
	}

	var newHotels *types.HotelParams
	if parsed != nil {
		newHotels = parsed.Hotels
	}
	if newHotels != nil {
		// Preference fields: new value wins when present.
		if newHotels.RoomType != nil {
			base.RoomType = newHotels.RoomType
		}
		if newHotels.MealPlan != nil {
			base.MealPlan = newHotels.MealPlan
		}
		// Newly specified filters are added on top.
		if len(newHotels.HotelChains) > 0 {
			base.HotelChains = appendMissing(base.HotelChains, newHotels.HotelChains)
		}
		if newHotels.HotelName != nil {
			base.HotelName = newHotels.HotelName
		}
		if newHotels.FreeCancellation != nil {
			base.FreeCancellation = newHotels.FreeCancellation
		}
	}

	out.Hotels = base
	return out
}

// mergeFlightModification layers, in order: the prior flight params, the
// single detected directive, then any field the parser explicitly supplied.
// The parser wins over the directive but not over preserved base fields it
// never mentioned. Adults resolve separately: directive > prior > 1.
func mergeFlightModification(last *types.LastSearch, parsed *types.TravelRequest, it *intent.IterationContext) *types.TravelRequest {
	rt := types.RequestFlights
	if last.RequestType == types.RequestCombined {
		rt = types.RequestCombined
	}

	f := types.CloneFlightParams(last.FlightsParams)
	if f == nil {
		f = &types.FlightParams{}
	}

	applyDirective(f, it.FlightModification)

	var parsedFlights *types.FlightParams
	if parsed != nil {
		parsedFlights = parsed.Flights
	}
	overlayFlights(f, parsedFlights)

	f.Adults = resolveAdults(it.FlightModification, last.FlightsParams)

	out := &types.TravelRequest{
		RequestType: rt,
		Flights:     f,
		Confidence:  maxConfidence(parsed, it),
	}

	if rt == types.RequestCombined {
		h := types.CloneHotelParams(last.HotelsParams)
		if h != nil {
			h.Adults = f.Adults
		}
		out.Hotels = h
	}
	return out
}

// mergeFullReuse takes everything from the prior search, shallow-overridden
// field-by-field with whatever the parser explicitly provided.
func mergeFullReuse(last *types.LastSearch, parsed *types.TravelRequest, it *intent.IterationContext) *types.TravelRequest {
	out := &types.TravelRequest{
		RequestType: last.RequestType,
		Flights:     types.CloneFlightParams(last.FlightsParams),
		Hotels:      types.CloneHotelParams(last.HotelsParams),
		Confidence:  maxConfidence(parsed, it),
	}

	if parsed != nil {
		if out.Flights == nil {
			out.Flights = types.CloneFlightParams(parsed.Flights)
		} else {
			overlayFlights(out.Flights, parsed.Flights)
			if parsed.Flights != nil && parsed.Flights.Adults > 0 {
				out.Flights.Adults = parsed.Flights.Adults
			}
		}
		if out.Hotels == nil {
			out.Hotels = types.CloneHotelParams(parsed.Hotels)
		} else {
			overlayHotels(out.Hotels, parsed.Hotels)
		}
	}
	return out
}

// resolveAdults implements the correction flow for searches that only listed
// minors: an explicit add-adults directive wins, then the prior count, then
// a single adult.
func resolveAdults(d *intent.FlightDirective, prior *types.FlightParams) int {
	if d != nil && d.AdultsToAdd > 0 {
		return d.AdultsToAdd
	}
	if prior != nil && prior.Adults > 0 {
		return prior.Adults
	}
	return 1
}

func applyDirective(f *types.FlightParams, d *intent.FlightDirective) {
	if d == nil {
		return
	}
	if d.Stops != nil {
		f.Stops = d.Stops
	}
	if d.Luggage != nil {
		f.Luggage = d.Luggage
	}
	if d.Airline != nil {
		f.PreferredAirline = d.Airline
	}
	if d.DepartureTimePreference != nil {
		f.DepartureTimePreference = d.DepartureTimePreference
	}
	if d.ArrivalTimePreference != nil {
		f.ArrivalTimePreference = d.ArrivalTimePreference
	}
	if d.MaxLayoverHours != nil {
		f.MaxLayoverHours = d.MaxLayoverHours
	}
	if d.CabinClass != nil {
		f.CabinClass = d.CabinClass
	}
}

// overlayFlights copies only the fields the source explicitly mentioned.
// Adults are deliberately excluded; they have their own resolution order.
func overlayFlights(dst *types.FlightParams, src *types.FlightParams) {
	if src == nil {
		return
	}
	if src.Origin != "" {
		dst.Origin = src.Origin
	}
	if src.Destination != "" {
		dst.Destination = src.Destination
	}
	if src.DepartureDate != "" {
		dst.DepartureDate = src.DepartureDate
	}
	if src.ReturnDate != "" {
		dst.ReturnDate = src.ReturnDate
	}
	if src.Children > 0 {
		dst.Children = src.Children
	}
	if src.Stops != nil {
		dst.Stops = src.Stops
	}
	if src.PreferredAirline != nil {
		dst.PreferredAirline = src.PreferredAirline
	}
	if src.Luggage != nil {
		dst.Luggage = src.Luggage
	}
	if src.MaxLayoverHours != nil {
		dst.MaxLayoverHours = src.MaxLayoverHours
	}
	if src.CabinClass != nil {
		dst.CabinClass = src.CabinClass
	}
	if src.DepartureTimePreference != nil {
		dst.DepartureTimePreference = src.DepartureTimePreference
	}
	if src.ArrivalTimePreference != nil {
		dst.ArrivalTimePreference = src.ArrivalTimePreference
	}
}

func overlayHotels(dst *types.HotelParams, src *types.HotelParams) {
	if src == nil {
		return
	}
	if src.City != "" {
		dst.City = src.City
	}
	if src.CheckinDate != "" {
		dst.CheckinDate = src.CheckinDate
	}
	if src.CheckoutDate != "" {
		dst.CheckoutDate = src.CheckoutDate
	}
	if src.Adults > 0 {
		dst.Adults = src.Adults
	}
	if src.Children > 0 {
		dst.Children = src.Children
	}
	if src.RoomType != nil {
		dst.RoomType = src.RoomType
	}
	if src.MealPlan != nil {
		dst.MealPlan = src.MealPlan
	}
	if len(src.HotelChains) > 0 {
		dst.HotelChains = appendMissing(dst.HotelChains, src.HotelChains)
	}
	if src.HotelName != nil {
		dst.HotelName = src.HotelName
	}
	if src.FreeCancellation != nil {
		dst.FreeCancellation = src.FreeCancellation
	}
}

func appendMissing(dst []string, add []string) []string {
	seen := make(map[string]bool, len(dst))
	for _, v := range dst {
		seen[v] = true
	}
	for _, v := range add {
		if !seen[v] {
			dst = append(dst, v)
			seen[v] = true
		}
	}
	return dst
}

func maxConfidence(parsed *types.TravelRequest, it *intent.IterationContext) float64 {
	c := it.Confidence
	if parsed != nil && parsed.Confidence > c {
		c = parsed.Confidence
	}
	return c
}
