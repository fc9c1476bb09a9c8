package pdfdoc

import (
	"context"
	"errors"
	"strings"
	"testing"

	"tripdesk/internal/logger"
)

type fakeExtractor struct {
	content *Content
	err     error
	calls   int
}

func (f *fakeExtractor) ExtractProposalContent(_ context.Context, _ string) (*Content, error) {
	f.calls++
	return f.content, f.err
}

func TestAnalyzeManualFallback(t *testing.T) {
	ai := &fakeExtractor{err: errors.New("model unavailable")}
	a := NewAnalyzer(ai, logger.NewNop(), nil)

	// No price token anywhere: every tier should come up empty.
	res, err := a.Analyze(context.Background(), "itinerario.pdf",
		"Itinerario de viaje a la playa.\nSalida temprano, regreso por la tarde.")
	if err != nil {
		t.Fatal(err)
	}
	if !res.Success {
		t.Error("manual fallback must still report success")
	}
	if res.Content != nil {
		t.Errorf("content = %+v, want nil", res.Content)
	}
	if res.Message != ManualEntryPrompt {
		t.Errorf("message = %q, want the manual entry prompt", res.Message)
	}
}

func TestAnalyzeTemplateTier(t *testing.T) {
	ai := &fakeExtractor{}
	a := NewAnalyzer(ai, logger.NewNop(), nil)

	text := strings.Join([]string{
		"PROPUESTA DE VIAJE",
		"LATAM Airlines | EZE - CUN | 10/01 - 20/01 | USD 450",
		"LATAM Airlines | CUN - EZE | 20/01 - 21/01 | USD 450",
		"OPCIÓN 1: Hotel Riu Palace | Cancún | 7 noches | USD 400 | Total paquete: USD 1.300",
		"TOTAL: USD 1.300",
	}, "\n")

	res, err := a.Analyze(context.Background(), "propuesta_cancun.pdf", text)
	if err != nil {
		t.Fatal(err)
	}
	if !res.Success || res.Content == nil {
		t.Fatalf("result = %+v", res)
	}
	if ai.calls != 0 {
		t.Error("template tier must short-circuit before the AI extractor")
	}
	c := res.Content
	if !c.ExtractedFromTemplate {
		t.Error("ExtractedFromTemplate not set")
	}
	if len(c.Flights) != 2 || len(c.Hotels) != 1 {
		t.Fatalf("flights = %d hotels = %d", len(c.Flights), len(c.Hotels))
	}
	if c.Flights[0].AirlineCode != "LA" || c.Flights[0].Price != 450 {
		t.Errorf("flight = %+v", c.Flights[0])
	}
	if c.Flights[0].Direction != "outbound" || c.Flights[1].Direction != "return" {
		t.Error("alternating directions not assigned")
	}
	h := c.Hotels[0]
	if h.OptionNumber == nil || *h.OptionNumber != 1 || h.Nights != 7 {
		t.Errorf("hotel = %+v", h)
	}
	if h.PackagePrice == nil || *h.PackagePrice != 1300 {
		t.Errorf("package price = %v", h.PackagePrice)
	}
	if c.TotalPrice != 1300 {
		t.Errorf("total = %v", c.TotalPrice)
	}
}

func TestAnalyzeAITier(t *testing.T) {
	ai := &fakeExtractor{content: &Content{
		Flights: []Flight{{AirlineCode: "LA", Route: "EZE - CUN", Price: 500}},
	}}
	a := NewAnalyzer(ai, logger.NewNop(), nil)

	res, err := a.Analyze(context.Background(), "cotizacion.pdf", "texto libre de un proveedor")
	if err != nil {
		t.Fatal(err)
	}
	c := res.Content
	if c == nil || !c.ExtractedFromAI {
		t.Fatalf("result = %+v", res)
	}
	// Normalization fills the gaps the model left.
	f := c.Flights[0]
	if f.Airline != "LATAM Airlines" {
		t.Errorf("airline = %q", f.Airline)
	}
	if len(f.Legs) != 1 || f.Legs[0].From != "EZE" || f.Legs[0].To != "CUN" {
		t.Errorf("legs = %+v", f.Legs)
	}
	if f.Direction != "outbound" {
		t.Errorf("direction = %q", f.Direction)
	}
	if c.TotalPrice != 500 || c.Currency != "USD" {
		t.Errorf("total = %v currency = %q", c.TotalPrice, c.Currency)
	}
}

func TestAnalyzeRegexTierOnAIFailure(t *testing.T) {
	ai := &fakeExtractor{err: errors.New("quota exceeded")}
	a := NewAnalyzer(ai, logger.NewNop(), nil)

	text := strings.Join([]string{
		"Vuelo LATAM EZE - MIA USD 550",
		"Vuelo LATAM MIA - EZE USD 550",
		"Hotel Fontainebleau 5 noches USD 900",
	}, "\n")

	res, err := a.Analyze(context.Background(), "proveedor.pdf", text)
	if err != nil {
		t.Fatal(err)
	}
	if ai.calls != 1 {
		t.Errorf("ai calls = %d, want 1", ai.calls)
	}
	c := res.Content
	if c == nil || c.ExtractedFromAI {
		t.Fatalf("result = %+v", res)
	}
	if len(c.Flights) != 2 || c.Flights[0].Route != "EZE - MIA" || c.Flights[0].Price != 550 {
		t.Fatalf("flights = %+v", c.Flights)
	}
	if c.Flights[0].Airline != "LATAM Airlines" {
		t.Errorf("airline = %q", c.Flights[0].Airline)
	}
	if len(c.Hotels) != 1 || c.Hotels[0].Price != 900 {
		t.Errorf("hotels = %+v", c.Hotels)
	}
	if c.TotalPrice != 2000 {
		t.Errorf("total = %v", c.TotalPrice)
	}
}

// A priceless AI result is not trusted; the pipeline keeps descending.
func TestAnalyzePricelessAIResultFallsThrough(t *testing.T) {
	ai := &fakeExtractor{content: &Content{
		Flights: []Flight{{Airline: "LATAM Airlines", Route: "EZE - CUN"}},
	}}
	a := NewAnalyzer(ai, logger.NewNop(), nil)

	res, err := a.Analyze(context.Background(), "doc.pdf", "sin precios por ningun lado")
	if err != nil {
		t.Fatal(err)
	}
	if res.Content != nil || res.Message != ManualEntryPrompt {
		t.Errorf("result = %+v, want manual prompt", res)
	}
}

func TestSanitizeText(t *testing.T) {
	in := "linea\x00uno\nlinea\x01dos\tfin\x7f"
	want := "lineauno\nlineados\tfin"
	if got := SanitizeText(in); got != want {
		t.Errorf("SanitizeText = %q, want %q", got, want)
	}
}
