package pricetext

import "testing"

func TestParsePrice(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		// Round-trip cases with existing quote documents.
		{"1.485", 1485},
		{"1,485", 1485},
		{"2.549,32", 2549.32},
		{"2,549.32", 2549.32},

		{"950", 950},
		{"950.50", 950.50},
		{"12,5", 12.5},
		{"1.234.567", 1234567},
		{"1,234,567", 1234567},
		{"$ 2.500", 2500},
		{"u$s 1.800", 1800},
		{"3.5", 3.5},
		{"0,99", 0.99},
		{"", 0},
		{"sin precio", 0},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := ParsePrice(tt.in); got != tt.want {
				t.Errorf("ParsePrice(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestParsePriceDeterministic(t *testing.T) {
	for i := 0; i < 3; i++ {
		if got := ParsePrice("2.549,32"); got != 2549.32 {
			t.Fatalf("run %d: got %v", i, got)
		}
	}
}
