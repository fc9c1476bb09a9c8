// README: Shared travel request/context value objects used across modules.
package types

import "time"

type RequestType string

const (
	RequestFlights  RequestType = "flights"
	RequestHotels   RequestType = "hotels"
	RequestCombined RequestType = "combined"
)

// FlightParams holds the flight side of a search request. Optional fields are
// pointers so a merge can tell "not mentioned" apart from an explicit value.
type FlightParams struct {
	Origin                  string  `json:"origin"`
	Destination             string  `json:"destination"`
	DepartureDate           string  `json:"departureDate"`
	ReturnDate              string  `json:"returnDate,omitempty"`
	Adults                  int     `json:"adults"`
	Children                int     `json:"children"`
	Stops                   *string `json:"stops,omitempty"`
	PreferredAirline        *string `json:"preferredAirline,omitempty"`
	Luggage                 *string `json:"luggage,omitempty"`
	MaxLayoverHours         *int    `json:"maxLayoverHours,omitempty"`
	CabinClass              *string `json:"cabinClass,omitempty"`
	DepartureTimePreference *string `json:"departureTimePreference,omitempty"`
	ArrivalTimePreference   *string `json:"arrivalTimePreference,omitempty"`
}

// HotelParams holds the hotel side of a search request.
type HotelParams struct {
	City             string   `json:"city"`
	CheckinDate      string   `json:"checkinDate"`
	CheckoutDate     string   `json:"checkoutDate"`
	Adults           int      `json:"adults"`
	Children         int      `json:"children"`
	RoomType         *string  `json:"roomType,omitempty"`
	MealPlan         *string  `json:"mealPlan,omitempty"`
	HotelChains      []string `json:"hotelChains,omitempty"`
	HotelName        *string  `json:"hotelName,omitempty"`
	FreeCancellation *bool    `json:"freeCancellation,omitempty"`
}

// TravelRequest is the structured form of one user search, either freshly
// parsed from a message or produced by merging with a prior context.
type TravelRequest struct {
	RequestType RequestType   `json:"requestType"`
	Flights     *FlightParams `json:"flights,omitempty"`
	Hotels      *HotelParams  `json:"hotels,omitempty"`
	Confidence  float64       `json:"confidence"`
}

// LastSearch summarizes the most recent resolved search of a conversation.
// RequestType decides which param block is authoritative: a hotels-only
// search must not carry FlightsParams.
type LastSearch struct {
	RequestType    RequestType   `json:"requestType"`
	Timestamp      time.Time     `json:"timestamp"`
	FlightsParams  *FlightParams `json:"flightsParams,omitempty"`
	HotelsParams   *HotelParams  `json:"hotelsParams,omitempty"`
	ResultsSummary string        `json:"resultsSummary,omitempty"`
}

// ConstraintEvent is one entry of the append-only audit trail of constraints
// the user stacked onto a conversation.
type ConstraintEvent struct {
	Turn       int       `json:"turn"`
	Component  string    `json:"component"`
	Constraint string    `json:"constraint"`
	Value      string    `json:"value"`
	Timestamp  time.Time `json:"timestamp"`
}

// ContextSchemaVersion is bumped when the persisted shape changes.
const ContextSchemaVersion = 1

// ContextState is the persisted per-conversation search context. It is read
// once at the start of message handling and written once at the end.
type ContextState struct {
	ConversationID     string            `json:"conversationId"`
	LastSearch         *LastSearch       `json:"lastSearch,omitempty"`
	ConstraintsHistory []ConstraintEvent `json:"constraintsHistory,omitempty"`
	TurnNumber         int               `json:"turnNumber"`
	SchemaVersion      int               `json:"schemaVersion"`
}

// NewContextState returns the empty context a conversation starts with.
func NewContextState(conversationID string) *ContextState {
	return &ContextState{
		ConversationID: conversationID,
		SchemaVersion:  ContextSchemaVersion,
	}
}

func CloneFlightParams(f *FlightParams) *FlightParams {
	if f == nil {
		return nil
	}
	out := *f
	out.Stops = cloneStr(f.Stops)
	out.PreferredAirline = cloneStr(f.PreferredAirline)
	out.Luggage = cloneStr(f.Luggage)
	out.MaxLayoverHours = cloneInt(f.MaxLayoverHours)
	out.CabinClass = cloneStr(f.CabinClass)
	out.DepartureTimePreference = cloneStr(f.DepartureTimePreference)
	out.ArrivalTimePreference = cloneStr(f.ArrivalTimePreference)
	return &out
}

func CloneHotelParams(h *HotelParams) *HotelParams {
	if h == nil {
		return nil
	}
	out := *h
	out.RoomType = cloneStr(h.RoomType)
	out.MealPlan = cloneStr(h.MealPlan)
	out.HotelName = cloneStr(h.HotelName)
	if h.HotelChains != nil {
		out.HotelChains = append([]string(nil), h.HotelChains...)
	}
	if h.FreeCancellation != nil {
		v := *h.FreeCancellation
		out.FreeCancellation = &v
	}
	return &out
}

func cloneStr(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}

func cloneInt(i *int) *int {
	if i == nil {
		return nil
	}
	v := *i
	return &v
}
