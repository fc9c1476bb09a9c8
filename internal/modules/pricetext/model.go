// README: Price-change directive types produced by the free-text extractor.
package pricetext

type Operation string

const (
	OpAdd             Operation = "add"
	OpSubtract        Operation = "subtract"
	OpPercentAdd      Operation = "percent_add"
	OpPercentSubtract Operation = "percent_subtract"
)

type RelativeTarget string

const (
	TargetTotal   RelativeTarget = "total"
	TargetHotel   RelativeTarget = "hotel"
	TargetFlights RelativeTarget = "flights"
)

type ReferenceType string

const (
	RefPosition   ReferenceType = "position"
	RefName       ReferenceType = "name"
	RefPriceOrder ReferenceType = "price_order"
)

type DirectiveKind string

const (
	KindTotal     DirectiveKind = "total"
	KindPositions DirectiveKind = "positions"
	KindOptions   DirectiveKind = "options"
	KindRelative  DirectiveKind = "relative"
	KindHotels    DirectiveKind = "hotels"
)

// PositionPrice targets one bookable pair/option by 1-based position.
type PositionPrice struct {
	Position int
	Price    float64
}

// OptionPrices targets up to three mutually exclusive package alternatives.
type OptionPrices struct {
	Option1 *float64
	Option2 *float64
	Option3 *float64
}

// RelativeChange is a delta or percentage adjustment against a component.
type RelativeChange struct {
	Operation Operation
	Value     float64
	Target    RelativeTarget
}

// HotelPriceChange retargets one hotel's price by position, name or
// price order ("el mas barato").
type HotelPriceChange struct {
	HotelIndex    int
	ReferenceType ReferenceType
	Name          string
	PriceOrder    string // "cheapest" or "most_expensive" when ReferenceType is RefPriceOrder
	NewPrice      float64
}

// Directive is one structured price-change request. Exactly one variant is
// populated, indicated by Kind.
type Directive struct {
	Kind           DirectiveKind
	TotalPrice     *float64
	Positions      []PositionPrice
	Options        *OptionPrices
	Relative       *RelativeChange
	HotelChanges   []HotelPriceChange
	MatchedPattern string
}
