// README: Boundary contracts for supplier search, PDF extraction and rendering.
package suppliers

import (
	"context"

	"tripdesk/internal/modules/pdfdoc"
	"tripdesk/internal/types"
)

// FareSegment is one flown segment inside a leg. Times are local RFC3339.
type FareSegment struct {
	Airline         string `json:"airline"`
	FlightNumber    string `json:"flightNumber"`
	From            string `json:"from"`
	To              string `json:"to"`
	DepartureTime   string `json:"departureTime"`
	ArrivalTime     string `json:"arrivalTime"`
	DurationMinutes int    `json:"durationMinutes"`
}

// FareLeg is one direction of an offer, possibly multi-segment.
type FareLeg struct {
	Segments        []FareSegment `json:"segments"`
	DurationMinutes int           `json:"durationMinutes"`
	Stops           int           `json:"stops"`
}

// FareOffer is one bookable fare returned by a supplier. BaggageCodes come
// through verbatim from the supplier (e.g. "1PC", "23K").
type FareOffer struct {
	ID                string    `json:"id"`
	ValidatingAirline string    `json:"validatingAirline"`
	Legs              []FareLeg `json:"legs"`
	Price             float64   `json:"price"`
	Currency          string    `json:"currency"`
	BaggageCodes      []string  `json:"baggageCodes,omitempty"`
	CabinClass        string    `json:"cabinClass,omitempty"`
}

// RoomRate is one priced room inside a hotel offer.
type RoomRate struct {
	RoomType         string  `json:"roomType"`
	MealPlan         string  `json:"mealPlan,omitempty"`
	TotalPrice       float64 `json:"totalPrice"`
	Currency         string  `json:"currency"`
	FreeCancellation bool    `json:"freeCancellation"`
}

// HotelOffer is one property with its available rates.
type HotelOffer struct {
	ID       string     `json:"id"`
	Name     string     `json:"name"`
	Chain    string     `json:"chain,omitempty"`
	City     string     `json:"city"`
	Category string     `json:"category,omitempty"`
	Rates    []RoomRate `json:"rates"`
}

// FlightSearcher runs a fare search against a supplier.
type FlightSearcher interface {
	SearchFlights(ctx context.Context, params *types.FlightParams) ([]FareOffer, error)
}

// HotelSearcher runs an availability search against a supplier.
type HotelSearcher interface {
	SearchHotels(ctx context.Context, params *types.HotelParams) ([]HotelOffer, error)
}

// TextExtractor turns an uploaded PDF into raw text. Callers must sanitize
// the output before parsing it.
type TextExtractor interface {
	ExtractText(ctx context.Context, pdf []byte) (string, error)
}

// Renderer turns structured proposal content into a hosted PDF and returns
// its URL.
type Renderer interface {
	RenderProposal(ctx context.Context, content *pdfdoc.Content) (string, error)
}
