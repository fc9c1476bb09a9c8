package pdfdoc

import (
	"errors"
	"testing"

	"tripdesk/internal/modules/pricetext"
)

func floatPtr(v float64) *float64 { return &v }
func intPtr(v int) *int           { return &v }

// Two package alternatives: option 1 at 1000 (flights 600 + hotel 400),
// option 2 at 1200 (flights 700 + hotel 500).
func twoOptionContent() *Content {
	return &Content{
		Currency: "USD",
		Flights: []Flight{
			{Airline: "LATAM Airlines", Route: "EZE - CUN", Price: 300, Direction: "outbound",
				Legs: []Leg{{From: "EZE", To: "CUN"}}},
			{Airline: "LATAM Airlines", Route: "CUN - EZE", Price: 300, Direction: "return",
				Legs: []Leg{{From: "CUN", To: "EZE"}}},
			{Airline: "Avianca", Route: "EZE - CUN", Price: 350, Direction: "outbound",
				Legs: []Leg{{From: "EZE", To: "CUN"}}},
			{Airline: "Avianca", Route: "CUN - EZE", Price: 350, Direction: "return",
				Legs: []Leg{{From: "CUN", To: "EZE"}}},
		},
		Hotels: []Hotel{
			{Name: "Hotel Riu Palace", Price: 400, OptionNumber: intPtr(1), PackagePrice: floatPtr(1000)},
			{Name: "Iberostar Selection", Price: 500, OptionNumber: intPtr(2), PackagePrice: floatPtr(1200)},
		},
		TotalPrice: 1200,
	}
}

// Options are financially independent siblings: retargeting option 1 must
// not move a single price of option 2.
func TestRebuildWithOptionsIndependence(t *testing.T) {
	content := twoOptionContent()

	got, err := RebuildWithOptions(content, &pricetext.OptionPrices{
		Option1: floatPtr(900),
		Option2: floatPtr(1200),
	})
	if err != nil {
		t.Fatal(err)
	}

	// Option 1 scales by 0.9.
	if got.Flights[0].Price != 270 || got.Flights[1].Price != 270 {
		t.Errorf("option 1 flights = %v/%v, want 270/270", got.Flights[0].Price, got.Flights[1].Price)
	}
	if got.Hotels[0].Price != 360 {
		t.Errorf("option 1 hotel = %v, want 360", got.Hotels[0].Price)
	}
	if *got.Hotels[0].PackagePrice != 900 {
		t.Errorf("option 1 package = %v, want 900", *got.Hotels[0].PackagePrice)
	}

	// Option 2 components are unchanged.
	if got.Flights[2].Price != 350 || got.Flights[3].Price != 350 {
		t.Errorf("option 2 flights = %v/%v, want 350/350", got.Flights[2].Price, got.Flights[3].Price)
	}
	if got.Hotels[1].Price != 500 || *got.Hotels[1].PackagePrice != 1200 {
		t.Errorf("option 2 hotel = %v package = %v, want 500/1200", got.Hotels[1].Price, *got.Hotels[1].PackagePrice)
	}

	// Metadata carries per-option totals for the renderer.
	md := got.Hotels[0].PackageMetadata
	if md == nil || md.OptionNumber != 1 || md.TotalPackagePrice != 900 || !md.IsModified {
		t.Errorf("option 1 metadata = %+v", md)
	}

	// Input untouched.
	if content.Flights[0].Price != 300 || content.Hotels[0].Price != 400 {
		t.Error("rebuild mutated its input")
	}
}

func TestRebuildWithOptionsMissingOption(t *testing.T) {
	content := twoOptionContent()
	_, err := RebuildWithOptions(content, &pricetext.OptionPrices{Option3: floatPtr(1500)})
	if !errors.Is(err, ErrInsufficientOptions) {
		t.Fatalf("err = %v, want ErrInsufficientOptions", err)
	}
}

func TestRebuildWithTotal(t *testing.T) {
	content := &Content{
		Currency: "USD",
		Flights: []Flight{
			{Airline: "LATAM Airlines", Route: "EZE - MIA", Price: 400, Legs: []Leg{{From: "EZE", To: "MIA"}}},
			{Airline: "LATAM Airlines", Route: "MIA - EZE", Price: 200, Legs: []Leg{{From: "MIA", To: "EZE"}}},
		},
		Hotels:     []Hotel{{Name: "Hotel Fontainebleau", Price: 400}},
		TotalPrice: 1000,
	}

	got, err := RebuildWithTotal(content, 500)
	if err != nil {
		t.Fatal(err)
	}
	// Global ratio 0.5, legs keep their 2:1 proportion.
	if got.Flights[0].Price != 200 || got.Flights[1].Price != 100 {
		t.Errorf("flights = %v/%v, want 200/100", got.Flights[0].Price, got.Flights[1].Price)
	}
	if got.Hotels[0].Price != 200 {
		t.Errorf("hotel = %v, want 200", got.Hotels[0].Price)
	}
	if got.TotalPrice != 500 {
		t.Errorf("total = %v, want 500", got.TotalPrice)
	}
}

// Rows without leg detail cannot be re-rendered and are dropped from the
// redistribution rather than zero-filled.
func TestRebuildDropsLeglessRows(t *testing.T) {
	content := &Content{
		Flights: []Flight{
			{Airline: "LATAM Airlines", Route: "EZE - MIA", Price: 500, Legs: []Leg{{From: "EZE", To: "MIA"}}},
			{Airline: "Avianca", Route: "", Price: 300}, // no legs, no route
		},
		TotalPrice: 800,
	}

	got, err := RebuildWithTotal(content, 400)
	if err != nil {
		t.Fatal(err)
	}
	if got.Flights[0].Price != 250 {
		t.Errorf("valid row = %v, want 250 (scaled by 0.5)", got.Flights[0].Price)
	}
	if got.Flights[1].Price != 300 {
		t.Errorf("invalid row was scaled: %v", got.Flights[1].Price)
	}
}

func TestRebuildWithPositions(t *testing.T) {
	content := twoOptionContent()

	got, err := RebuildWithPositions(content, []pricetext.PositionPrice{{Position: 2, Price: 800}})
	if err != nil {
		t.Fatal(err)
	}
	if got.Flights[2].Price != 400 || got.Flights[3].Price != 400 {
		t.Errorf("pair 2 = %v/%v, want 400/400", got.Flights[2].Price, got.Flights[3].Price)
	}
	if got.Flights[0].Price != 300 {
		t.Error("pair 1 must stay untouched")
	}

	_, err = RebuildWithPositions(content, []pricetext.PositionPrice{{Position: 5, Price: 100}})
	if !errors.Is(err, ErrInsufficientOptions) {
		t.Fatalf("err = %v, want ErrInsufficientOptions", err)
	}
}

func TestRebuildWithRelative(t *testing.T) {
	content := &Content{
		Flights: []Flight{
			{Airline: "Iberia", Route: "EZE - MAD", Price: 600, Legs: []Leg{{From: "EZE", To: "MAD"}}},
			{Airline: "Iberia", Route: "MAD - EZE", Price: 600, Legs: []Leg{{From: "MAD", To: "EZE"}}},
		},
		Hotels:     []Hotel{{Name: "Hotel NH Madrid", Price: 800}},
		TotalPrice: 2000,
	}

	got, err := RebuildWithRelative(content, &pricetext.RelativeChange{
		Operation: pricetext.OpPercentSubtract, Value: 10, Target: pricetext.TargetTotal,
	})
	if err != nil {
		t.Fatal(err)
	}
	if got.TotalPrice != 1800 {
		t.Errorf("total = %v, want 1800", got.TotalPrice)
	}
	if got.Flights[0].Price != 540 || got.Hotels[0].Price != 720 {
		t.Errorf("components = %v/%v, want 540/720", got.Flights[0].Price, got.Hotels[0].Price)
	}

	got, err = RebuildWithRelative(content, &pricetext.RelativeChange{
		Operation: pricetext.OpAdd, Value: 100, Target: pricetext.TargetHotel,
	})
	if err != nil {
		t.Fatal(err)
	}
	if got.Hotels[0].Price != 900 {
		t.Errorf("hotel = %v, want 900", got.Hotels[0].Price)
	}
	if got.Flights[0].Price != 600 {
		t.Error("flights must stay untouched on a hotel-targeted change")
	}
}

func TestRebuildWithHotelChanges(t *testing.T) {
	content := &Content{
		Hotels: []Hotel{
			{Name: "Hotel Riu Palace", Price: 400},
			{Name: "Iberostar Selection", Price: 700},
		},
		TotalPrice: 1100,
	}

	got, err := RebuildWithHotelChanges(content, []pricetext.HotelPriceChange{
		{HotelIndex: 0, ReferenceType: pricetext.RefName, Name: "Hotel Riu Palace", NewPrice: 450},
	})
	if err != nil {
		t.Fatal(err)
	}
	if got.Hotels[0].Price != 450 || got.Hotels[1].Price != 700 {
		t.Errorf("hotels = %v/%v, want 450/700", got.Hotels[0].Price, got.Hotels[1].Price)
	}

	got, err = RebuildWithHotelChanges(content, []pricetext.HotelPriceChange{
		{ReferenceType: pricetext.RefPriceOrder, PriceOrder: "most_expensive", NewPrice: 650},
	})
	if err != nil {
		t.Fatal(err)
	}
	if got.Hotels[1].Price != 650 {
		t.Errorf("most expensive = %v, want 650", got.Hotels[1].Price)
	}
}

func TestRebuildNoPriceBase(t *testing.T) {
	_, err := RebuildWithTotal(&Content{}, 500)
	if !errors.Is(err, ErrNoPriceBase) {
		t.Fatalf("err = %v, want ErrNoPriceBase", err)
	}
}
