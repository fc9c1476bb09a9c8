// README: Iteration classification result types and field-preservation lists.
package intent

type IterationType string

const (
	HotelModification  IterationType = "hotel_modification"
	FlightModification IterationType = "flight_modification"
	FilterChange       IterationType = "filter_change"
	FullReuse          IterationType = "full_reuse"
	NewSearch          IterationType = "new_search"
)

type Component string

const (
	ComponentFlights Component = "flights"
	ComponentHotels  Component = "hotels"
	ComponentBoth    Component = "both"
)

// FlightDirective carries the single concrete flight change a message asked
// for. At most one primary directive survives a classification pass.
type FlightDirective struct {
	Stops                   *string
	Luggage                 *string
	ChangeAirline           bool
	Airline                 *string
	DepartureTimePreference *string
	ArrivalTimePreference   *string
	MaxLayoverHours         *int
	AdultsToAdd             int
	CabinClass              *string
}

// Empty reports whether no directive at all was detected.
func (d *FlightDirective) Empty() bool {
	if d == nil {
		return true
	}
	return d.Stops == nil && d.Luggage == nil && !d.ChangeAirline &&
		d.DepartureTimePreference == nil && d.ArrivalTimePreference == nil &&
		d.MaxLayoverHours == nil && d.AdultsToAdd == 0 && d.CabinClass == nil
}

// IterationContext is the transient classification of one message against
// the conversation's prior search context.
type IterationContext struct {
	IsIteration        bool
	IterationType      IterationType
	BaseRequestType    string
	ModifiedComponent  Component
	PreserveFields     []string
	Confidence         float64
	MatchedPattern     string
	FlightModification *FlightDirective
}

// Field-preservation lists consumed by the merge engine. The flight list is
// the contract that a hotel-only iteration must never touch the route.
var (
	flightPreserveFields = []string{
		"flights.origin",
		"flights.destination",
		"flights.departureDate",
		"flights.returnDate",
		"flights.adults",
		"flights.children",
		"flights.stops",
		"flights.preferredAirline",
		"flights.luggage",
		"flights.cabinClass",
	}
	hotelPreserveFields = []string{
		"hotels.city",
		"hotels.checkinDate",
		"hotels.checkoutDate",
		"hotels.adults",
		"hotels.children",
		"hotels.roomType",
		"hotels.mealPlan",
	}
)

func preserveBoth() []string {
	out := append([]string(nil), flightPreserveFields...)
	return append(out, hotelPreserveFields...)
}
