// README: Wire shapes for AI model responses.
package ai

import "tripdesk/internal/types"

// parseResponse is the JSON schema the model is instructed to emit for
// message parsing. It wraps the domain request so the model can also signal
// that a message carries no search at all.
type parseResponse struct {
	// IsSearch is false for greetings, thanks and anything that is not a
	// travel request.
	IsSearch bool `json:"is_search"`

	RequestType string               `json:"request_type"`
	Flights     *types.FlightParams  `json:"flights,omitempty"`
	Hotels      *types.HotelParams   `json:"hotels,omitempty"`

	// Confidence is the model's own estimate of how complete the parse is.
	Confidence float64 `json:"confidence"`
}

func (r *parseResponse) toRequest() *types.TravelRequest {
	if !r.IsSearch {
		return nil
	}
	req := &types.TravelRequest{
		RequestType: types.RequestType(r.RequestType),
		Flights:     r.Flights,
		Hotels:      r.Hotels,
		Confidence:  r.Confidence,
	}
	switch req.RequestType {
	case types.RequestFlights, types.RequestHotels, types.RequestCombined:
	default:
		// Derive the type from which blocks came back populated.
		switch {
		case req.Flights != nil && req.Hotels != nil:
			req.RequestType = types.RequestCombined
		case req.Hotels != nil:
			req.RequestType = types.RequestHotels
		default:
			req.RequestType = types.RequestFlights
		}
	}
	if req.Confidence <= 0 {
		req.Confidence = 0.8
	}
	return req
}
