// README: Structured proposal-document content extracted from PDFs.
package pdfdoc

import "errors"

var (
	// ErrInsufficientOptions is returned when a price directive references
	// more options than the document actually contains.
	ErrInsufficientOptions = errors.New("pdfdoc: directive references more options than the document contains")

	// ErrNoPriceBase is returned when a redistribution cannot be anchored
	// (original total is zero or no valid flight rows survived extraction).
	ErrNoPriceBase = errors.New("pdfdoc: no price base to redistribute from")
)

// Layover is one stop inside a leg.
type Layover struct {
	Airport         string `json:"airport"`
	City            string `json:"city,omitempty"`
	DurationMinutes int    `json:"durationMinutes,omitempty"`
}

// Leg is one directional flight, possibly with layovers.
type Leg struct {
	From            string    `json:"from"`
	To              string    `json:"to"`
	DepartureTime   string    `json:"departureTime,omitempty"`
	ArrivalTime     string    `json:"arrivalTime,omitempty"`
	DurationMinutes int       `json:"durationMinutes,omitempty"`
	Layovers        []Layover `json:"layovers,omitempty"`
}

// Flight is one priced directional flight row of a proposal.
type Flight struct {
	Airline     string  `json:"airline"`
	AirlineCode string  `json:"airlineCode,omitempty"`
	Route       string  `json:"route"`
	Price       float64 `json:"price"`
	Dates       string  `json:"dates,omitempty"`
	Direction   string  `json:"direction,omitempty"` // "outbound" or "return"
	Legs        []Leg   `json:"legs,omitempty"`
}

// PackageMetadata travels with a hotel so the renderer can show per-option
// totals after a reprice.
type PackageMetadata struct {
	OptionNumber      int     `json:"optionNumber"`
	TotalPackagePrice float64 `json:"totalPackagePrice"`
	IsModified        bool    `json:"isModified"`
}

// Hotel is one stay row. When OptionNumber is set the hotel belongs to a
// mutually exclusive package alternative and PackagePrice is that option's
// independent total, never summed with its siblings.
type Hotel struct {
	Name            string           `json:"name"`
	Location        string           `json:"location,omitempty"`
	Price           float64          `json:"price"`
	Nights          int              `json:"nights,omitempty"`
	Category        string           `json:"category,omitempty"`
	PackagePrice    *float64         `json:"packagePrice,omitempty"`
	RoomType        string           `json:"roomType,omitempty"`
	MealPlan        string           `json:"mealPlan,omitempty"`
	OptionNumber    *int             `json:"optionNumber,omitempty"`
	PackageMetadata *PackageMetadata `json:"_packageMetadata,omitempty"`
}

// Content is the structured body of an analyzed or rebuilt proposal.
type Content struct {
	Flights               []Flight `json:"flights"`
	Hotels                []Hotel  `json:"hotels"`
	TotalPrice            float64  `json:"totalPrice"`
	Currency              string   `json:"currency"`
	Adults                int      `json:"adults,omitempty"`
	Children              int      `json:"children,omitempty"`
	HasTransfers          bool     `json:"hasTransfers,omitempty"`
	HasTravelAssistance   bool     `json:"hasTravelAssistance,omitempty"`
	ExtractedFromAI       bool     `json:"extractedFromAI,omitempty"`
	ExtractedFromTemplate bool     `json:"extractedFromTemplate,omitempty"`
}

// AnalysisResult is what the orchestrator hands back to the chat layer:
// Success with Content, or Success with a conversational Message asking for
// manual data when nothing priced could be extracted.
type AnalysisResult struct {
	Success bool     `json:"success"`
	Content *Content `json:"content,omitempty"`
	Message string   `json:"message"`
}

// ManualEntryPrompt is returned verbatim when no tier found any price
// signal. The analyzer never fabricates a structured result.
const ManualEntryPrompt = "No pude extraer los precios de este documento. " +
	"Pasame los datos principales (destino, fechas, precio por opción) y armo la propuesta con eso."
