package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"tripdesk/internal/logger"
	"tripdesk/internal/modules/intent"
	"tripdesk/internal/modules/pdfdoc"
	"tripdesk/internal/modules/quote"
	"tripdesk/internal/modules/travelctx"
	"tripdesk/internal/suppliers"
	"tripdesk/internal/types"
)

type fakeParser struct {
	req *types.TravelRequest
	err error
}

func (f *fakeParser) ParseTravelRequest(context.Context, string, *types.ContextState) (*types.TravelRequest, error) {
	return f.req, f.err
}

type fakeFlightSearcher struct {
	offers []suppliers.FareOffer
	err    error
	params *types.FlightParams
}

func (f *fakeFlightSearcher) SearchFlights(_ context.Context, p *types.FlightParams) ([]suppliers.FareOffer, error) {
	f.params = p
	return f.offers, f.err
}

type fakeHotelSearcher struct {
	offers []suppliers.HotelOffer
	err    error
	params *types.HotelParams
}

func (f *fakeHotelSearcher) SearchHotels(_ context.Context, p *types.HotelParams) ([]suppliers.HotelOffer, error) {
	f.params = p
	return f.offers, f.err
}

type fakeTextExtractor struct {
	text string
	err  error
}

func (f *fakeTextExtractor) ExtractText(context.Context, []byte) (string, error) {
	return f.text, f.err
}

type fakeRenderer struct {
	url string
	err error
}

func (f *fakeRenderer) RenderProposal(context.Context, *pdfdoc.Content) (string, error) {
	return f.url, f.err
}

// memQuotes is an in-memory QuoteStore.
type memQuotes struct {
	quotes   []*quote.Quote
	rendered map[string]string
}

func newMemQuotes() *memQuotes {
	return &memQuotes{rendered: map[string]string{}}
}

func (m *memQuotes) SaveAnalyzed(_ context.Context, conversationID, filename string, source quote.Source, content *pdfdoc.Content) (*quote.Quote, error) {
	q := &quote.Quote{
		ID:             filename + "-" + string(source),
		ConversationID: conversationID,
		Filename:       filename,
		Source:         source,
		Content:        content,
		CreatedAt:      time.Now(),
	}
	m.quotes = append(m.quotes, q)
	return q, nil
}

func (m *memQuotes) ArchiveUpload(_ context.Context, quoteID string, _ []byte) (string, error) {
	return "https://storage.test/" + quoteID, nil
}

func (m *memQuotes) RecordRendered(_ context.Context, quoteID, url string) error {
	m.rendered[quoteID] = url
	return nil
}

func (m *memQuotes) Latest(_ context.Context, conversationID string) (*quote.Quote, error) {
	for i := len(m.quotes) - 1; i >= 0; i-- {
		if m.quotes[i].ConversationID == conversationID {
			return m.quotes[i], nil
		}
	}
	return nil, quote.ErrNotFound
}

func newTestPlanner(t *testing.T, d ChatPlannerDeps) *ChatPlanner {
	t.Helper()
	log := logger.NewNop()
	if d.Classifier == nil {
		d.Classifier = intent.NewClassifier(log)
	}
	if d.Contexts == nil {
		d.Contexts = travelctx.NewService(travelctx.NewMemoryStore(), log)
	}
	if d.Quotes == nil {
		d.Quotes = newMemQuotes()
	}
	d.Log = log
	return NewChatPlanner(d)
}

func TestHandleMessageNewSearch(t *testing.T) {
	flights := &fakeFlightSearcher{offers: []suppliers.FareOffer{
		{ID: "f1", ValidatingAirline: "LATAM Airlines", Price: 850, Currency: "USD"},
		{ID: "f2", ValidatingAirline: "Avianca", Price: 790, Currency: "USD"},
	}}
	contexts := travelctx.NewService(travelctx.NewMemoryStore(), logger.NewNop())
	p := newTestPlanner(t, ChatPlannerDeps{
		Parser: &fakeParser{req: &types.TravelRequest{
			RequestType: types.RequestFlights,
			Flights:     &types.FlightParams{Origin: "EZE", Destination: "MIA", DepartureDate: "2025-12-01", Adults: 2},
			Confidence:  0.9,
		}},
		Contexts: contexts,
		Flights:  flights,
	})

	reply, err := p.HandleMessage(context.Background(), "conv-1", "Vuelos a Miami el 1 de diciembre para 2")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(reply, "2 opciones de vuelo EZE - MIA") {
		t.Errorf("reply = %q", reply)
	}
	if !strings.Contains(reply, "USD 790.00") {
		t.Errorf("reply should quote the cheapest fare: %q", reply)
	}

	// The turn must persist as the conversation's new context.
	state, err := contexts.Load(context.Background(), "conv-1")
	if err != nil {
		t.Fatal(err)
	}
	if state == nil || state.LastSearch == nil || state.LastSearch.FlightsParams.Destination != "MIA" {
		t.Fatalf("context = %+v", state)
	}
	if state.TurnNumber != 1 {
		t.Errorf("turn = %d, want 1", state.TurnNumber)
	}
}

func TestHandleMessageIterationPreservesRoute(t *testing.T) {
	contexts := travelctx.NewService(travelctx.NewMemoryStore(), logger.NewNop())
	seed := &types.TravelRequest{
		RequestType: types.RequestCombined,
		Flights:     &types.FlightParams{Origin: "EZE", Destination: "CUN", DepartureDate: "2025-12-01", Adults: 2},
		Hotels:      &types.HotelParams{City: "CUN", CheckinDate: "2025-12-01", CheckoutDate: "2025-12-08", Adults: 2},
		Confidence:  0.9,
	}
	if _, err := contexts.SaveSearch(context.Background(), "conv-2", seed, nil, ""); err != nil {
		t.Fatal(err)
	}

	// Adversarial parser output: the re-parse of the hotel message invents a
	// different route, which the merge must discard.
	flights := &fakeFlightSearcher{}
	hotels := &fakeHotelSearcher{offers: []suppliers.HotelOffer{{ID: "h1", Name: "Riu Palace", City: "CUN"}}}
	p := newTestPlanner(t, ChatPlannerDeps{
		Parser: &fakeParser{req: &types.TravelRequest{
			RequestType: types.RequestCombined,
			Flights:     &types.FlightParams{Origin: "MIA", Destination: "PUJ"},
			Hotels:      &types.HotelParams{City: "CUN", HotelChains: []string{"Riu"}},
			Confidence:  0.8,
		}},
		Contexts: contexts,
		Flights:  flights,
		Hotels:   hotels,
	})

	_, err := p.HandleMessage(context.Background(), "conv-2", "misma búsqueda pero con hotel Riu")
	if err != nil {
		t.Fatal(err)
	}
	if flights.params == nil {
		t.Fatal("flight search not run for the merged combined request")
	}
	if flights.params.Origin != "EZE" || flights.params.Destination != "CUN" {
		t.Errorf("searched route %s-%s, want prior EZE-CUN", flights.params.Origin, flights.params.Destination)
	}
	if hotels.params == nil || len(hotels.params.HotelChains) == 0 || hotels.params.HotelChains[0] != "Riu" {
		t.Errorf("hotel params = %+v", hotels.params)
	}
}

func TestHandleMessageDegradesPerBranch(t *testing.T) {
	p := newTestPlanner(t, ChatPlannerDeps{
		Parser: &fakeParser{req: &types.TravelRequest{
			RequestType: types.RequestCombined,
			Flights:     &types.FlightParams{Origin: "EZE", Destination: "CUN", Adults: 1},
			Hotels:      &types.HotelParams{City: "CUN", Adults: 1},
			Confidence:  0.9,
		}},
		Flights: &fakeFlightSearcher{err: errors.New("supplier timeout")},
		Hotels:  &fakeHotelSearcher{offers: []suppliers.HotelOffer{{ID: "h1", Name: "Riu Palace", City: "CUN"}}},
	})

	reply, err := p.HandleMessage(context.Background(), "conv-3", "paquete a cancun")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(reply, "No pude consultar vuelos") {
		t.Errorf("flight branch should degrade: %q", reply)
	}
	if !strings.Contains(reply, "1 hoteles disponibles en CUN") {
		t.Errorf("hotel branch should still answer: %q", reply)
	}
}

func TestHandleMessageSmallTalk(t *testing.T) {
	p := newTestPlanner(t, ChatPlannerDeps{Parser: &fakeParser{}})

	reply, err := p.HandleMessage(context.Background(), "conv-4", "gracias!")
	if err != nil {
		t.Fatal(err)
	}
	if reply != smallTalkReply {
		t.Errorf("reply = %q", reply)
	}
}

func TestHandlePdfUploadAndReprice(t *testing.T) {
	quotes := newMemQuotes()
	two := &pdfdoc.Content{
		Currency: "USD",
		Flights: []pdfdoc.Flight{
			{Airline: "LATAM Airlines", Route: "EZE - CUN", Price: 300, Legs: []pdfdoc.Leg{{From: "EZE", To: "CUN"}}},
			{Airline: "LATAM Airlines", Route: "CUN - EZE", Price: 300, Legs: []pdfdoc.Leg{{From: "CUN", To: "EZE"}}},
		},
		Hotels:     []pdfdoc.Hotel{{Name: "Hotel Riu Palace", Price: 400}},
		TotalPrice: 1000,
	}
	ai := &contentExtractor{content: two}
	p := newTestPlanner(t, ChatPlannerDeps{
		Parser:   &fakeParser{},
		Analyzer: pdfdoc.NewAnalyzer(ai, logger.NewNop(), nil),
		Quotes:   quotes,
		PdfText:  &fakeTextExtractor{text: "cotizacion cancun"},
		Renderer: &fakeRenderer{url: "https://pdfs.test/nueva.pdf"},
	})

	res, err := p.HandlePdfUpload(context.Background(), "conv-5", "cotizacion.pdf", []byte("%PDF"))
	if err != nil {
		t.Fatal(err)
	}
	if !res.Success || res.Content == nil {
		t.Fatalf("analysis = %+v", res)
	}
	if len(quotes.quotes) != 1 || quotes.quotes[0].Source != quote.SourceAI {
		t.Fatalf("quotes = %+v", quotes.quotes)
	}

	reply, err := p.HandleMessage(context.Background(), "conv-5", "cambia el precio total a 800")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(reply, "USD 800.00") {
		t.Errorf("reply = %q", reply)
	}
	if !strings.Contains(reply, "https://pdfs.test/nueva.pdf") {
		t.Errorf("reply should link the regenerated pdf: %q", reply)
	}

	latest, err := quotes.Latest(context.Background(), "conv-5")
	if err != nil {
		t.Fatal(err)
	}
	if latest.Source != quote.SourceRebuilt {
		t.Errorf("latest source = %q", latest.Source)
	}
	if latest.Content.TotalPrice != 800 {
		t.Errorf("rebuilt total = %v", latest.Content.TotalPrice)
	}
	// 0.8 ratio across the board.
	if latest.Content.Flights[0].Price != 240 || latest.Content.Hotels[0].Price != 320 {
		t.Errorf("rebuilt components = %+v / %+v", latest.Content.Flights[0], latest.Content.Hotels[0])
	}
}

func TestHandlePriceChangeInsufficientOptions(t *testing.T) {
	quotes := newMemQuotes()
	one := 1
	pp := 1000.0
	content := &pdfdoc.Content{
		Currency: "USD",
		Flights: []pdfdoc.Flight{
			{Airline: "LATAM Airlines", Route: "EZE - CUN", Price: 600, Legs: []pdfdoc.Leg{{From: "EZE", To: "CUN"}}},
		},
		Hotels:     []pdfdoc.Hotel{{Name: "Hotel Riu Palace", Price: 400, OptionNumber: &one, PackagePrice: &pp}},
		TotalPrice: 1000,
	}
	if _, err := quotes.SaveAnalyzed(context.Background(), "conv-6", "propuesta.pdf", quote.SourceAI, content); err != nil {
		t.Fatal(err)
	}

	p := newTestPlanner(t, ChatPlannerDeps{Parser: &fakeParser{}, Quotes: quotes})

	reply, err := p.HandleMessage(context.Background(), "conv-6", "opcion 3 a 1500")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(reply, "No puedo aplicar ese cambio") {
		t.Errorf("reply = %q", reply)
	}
	// The failed directive must not produce a new quote.
	if len(quotes.quotes) != 1 {
		t.Errorf("quotes = %d, want 1", len(quotes.quotes))
	}
}

func TestHandlePriceChangeWithoutQuote(t *testing.T) {
	p := newTestPlanner(t, ChatPlannerDeps{Parser: &fakeParser{}})

	reply, err := p.HandlePriceChange(context.Background(), "conv-7", "cambia el total a 900")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(reply, "Subí el PDF primero") {
		t.Errorf("reply = %q", reply)
	}
}

type contentExtractor struct {
	content *pdfdoc.Content
}

func (c *contentExtractor) ExtractProposalContent(context.Context, string) (*pdfdoc.Content, error) {
	return c.content, nil
}
