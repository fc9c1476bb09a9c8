package pricetext

import "testing"

func TestExtractPriceChange(t *testing.T) {
	hotels := []string{"Hotel Riu Palace", "Iberostar Selection"}

	tests := []struct {
		name  string
		text  string
		check func(t *testing.T, d *Directive)
	}{
		{
			name: "total change",
			text: "cambia el precio total a 2.500",
			check: func(t *testing.T, d *Directive) {
				if d.Kind != KindTotal || d.TotalPrice == nil || *d.TotalPrice != 2500 {
					t.Fatalf("got %+v", d)
				}
			},
		},
		{
			name: "dual option targets",
			text: "la opción 1 a 900 y la opción 2 a 1200",
			check: func(t *testing.T, d *Directive) {
				if d.Kind != KindOptions {
					t.Fatalf("kind = %s", d.Kind)
				}
				if d.Options.Option1 == nil || *d.Options.Option1 != 900 {
					t.Errorf("option1 = %v", d.Options.Option1)
				}
				if d.Options.Option2 == nil || *d.Options.Option2 != 1200 {
					t.Errorf("option2 = %v", d.Options.Option2)
				}
				if d.Options.Option3 != nil {
					t.Errorf("option3 should be absent")
				}
			},
		},
		{
			name: "triple option targets",
			text: "opcion 1 a 900, opcion 2 a 1200 y opcion 3 a 1500",
			check: func(t *testing.T, d *Directive) {
				if d.Kind != KindOptions || d.Options.Option3 == nil || *d.Options.Option3 != 1500 {
					t.Fatalf("got %+v", d)
				}
			},
		},
		{
			name: "relative add",
			text: "sumale 200",
			check: func(t *testing.T, d *Directive) {
				if d.Kind != KindRelative || d.Relative.Operation != OpAdd || d.Relative.Value != 200 {
					t.Fatalf("got %+v", d.Relative)
				}
				if d.Relative.Target != TargetTotal {
					t.Errorf("target = %s, want total", d.Relative.Target)
				}
			},
		},
		{
			name: "relative subtract targeting hotel",
			text: "restale 100 al hotel",
			check: func(t *testing.T, d *Directive) {
				if d.Kind != KindRelative || d.Relative.Operation != OpSubtract || d.Relative.Target != TargetHotel {
					t.Fatalf("got %+v", d.Relative)
				}
			},
		},
		{
			name: "percent up",
			text: "sube un 10%",
			check: func(t *testing.T, d *Directive) {
				if d.Kind != KindRelative || d.Relative.Operation != OpPercentAdd || d.Relative.Value != 10 {
					t.Fatalf("got %+v", d.Relative)
				}
			},
		},
		{
			name: "percent down targeting flights",
			text: "baja un 5% a los vuelos",
			check: func(t *testing.T, d *Directive) {
				if d.Relative.Operation != OpPercentSubtract || d.Relative.Target != TargetFlights {
					t.Fatalf("got %+v", d.Relative)
				}
			},
		},
		{
			name: "hotel by chain name",
			text: "el Riu a 800",
			check: func(t *testing.T, d *Directive) {
				if d.Kind != KindHotels || len(d.HotelChanges) != 1 {
					t.Fatalf("got %+v", d)
				}
				hc := d.HotelChanges[0]
				if hc.ReferenceType != RefName || hc.HotelIndex != 0 || hc.NewPrice != 800 {
					t.Fatalf("got %+v", hc)
				}
			},
		},
		{
			name: "cheapest by price order",
			text: "el más barato a 950",
			check: func(t *testing.T, d *Directive) {
				if d.Kind != KindHotels || d.HotelChanges[0].ReferenceType != RefPriceOrder {
					t.Fatalf("got %+v", d)
				}
				if d.HotelChanges[0].PriceOrder != "cheapest" || d.HotelChanges[0].NewPrice != 950 {
					t.Fatalf("got %+v", d.HotelChanges[0])
				}
			},
		},
		{
			name: "ordinal position",
			text: "el primero a 1.100",
			check: func(t *testing.T, d *Directive) {
				if d.Kind != KindPositions || len(d.Positions) != 1 {
					t.Fatalf("got %+v", d)
				}
				if d.Positions[0].Position != 1 || d.Positions[0].Price != 1100 {
					t.Fatalf("got %+v", d.Positions[0])
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := ExtractPriceChange(tt.text, hotels)
			if d == nil {
				t.Fatal("expected a directive, got nil")
			}
			tt.check(t, d)
		})
	}
}

func TestExtractPriceChangeNone(t *testing.T) {
	for _, text := range []string{
		"quiero vuelos a miami",
		"me gusta la opcion dos",
		"el hotel esta lindo",
	} {
		if d := ExtractPriceChange(text, nil); d != nil {
			t.Errorf("ExtractPriceChange(%q) = %+v, want nil", text, d)
		}
	}
}

// An option target must win over the bare total reading of the same digits.
func TestExtractPrecedence(t *testing.T) {
	d := ExtractPriceChange("la opcion 2 a 900", nil)
	if d == nil || d.Kind != KindOptions {
		t.Fatalf("got %+v, want options kind", d)
	}
}
