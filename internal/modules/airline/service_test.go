package airline

import "testing"

func TestDetectInText(t *testing.T) {
	tests := []struct {
		name           string
		text           string
		wantCode       string
		wantConfidence float64
	}{
		{
			name:           "contextual con alias",
			text:           "quiero volar con Aerolíneas Argentinas",
			wantCode:       "AR",
			wantConfidence: 0.9,
		},
		{
			name:           "contextual alias a destination",
			text:           "latam a miami el 10 de enero",
			wantCode:       "LA",
			wantConfidence: 0.9,
		},
		{
			name:           "contextual aerolinea prefix",
			text:           "con la aerolinea iberia por favor",
			wantCode:       "IB",
			wantConfidence: 0.9,
		},
		{
			name:           "bare word boundary match",
			text:           "me dijeron que flybondi esta barato",
			wantCode:       "FO",
			wantConfidence: 0.7,
		},
		{
			name:           "longest alias preferred",
			text:           "viajamos con american airlines",
			wantCode:       "AA",
			wantConfidence: 0.9,
		},
		{
			name:           "accented input normalized",
			text:           "vuelos con Aeroméxico",
			wantCode:       "AM",
			wantConfidence: 0.9,
		},
		{
			name:     "no airline mention",
			text:     "quiero un hotel en cancun con desayuno",
			wantCode: "",
		},
		{
			name:     "short alias not matched bare",
			text:     "me gusta el gol del partido",
			wantCode: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DetectInText(tt.text)
			if tt.wantCode == "" {
				if got != nil {
					t.Fatalf("expected no detection, got %+v", got)
				}
				return
			}
			if got == nil {
				t.Fatalf("expected detection of %s, got nil", tt.wantCode)
			}
			if got.Code != tt.wantCode {
				t.Errorf("code = %s, want %s", got.Code, tt.wantCode)
			}
			if got.Confidence != tt.wantConfidence {
				t.Errorf("confidence = %v, want %v", got.Confidence, tt.wantConfidence)
			}
			if got.Name == "" {
				t.Errorf("detection for %s has empty official name", got.Code)
			}
		})
	}
}

// Every alias must round-trip to a non-empty official name.
func TestAliasTableRoundTrip(t *testing.T) {
	for alias := range aliases {
		code := Code(alias)
		if code == "" {
			t.Errorf("alias %q resolves to empty code", alias)
			continue
		}
		if name := Name(code); name == "" {
			t.Errorf("alias %q -> code %q has no official name", alias, code)
		}
	}
}

func TestIsValidCode(t *testing.T) {
	if !IsValidCode("ar") {
		t.Error("lowercase known code should be valid")
	}
	if IsValidCode("ZZ") {
		t.Error("unknown code should be invalid")
	}
}
