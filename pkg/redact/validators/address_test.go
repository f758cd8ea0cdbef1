package validators

import "testing"

func TestValidateAddress(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		wantValid bool
		wantClass string
		wantConf  float64
	}{
		{"avenue with number", "Avenida Providencia 2653", true, "prefixed street", 0.85},
		{"abbreviated avenue", "Av. Libertador Bernardo O'Higgins 1234", true, "prefixed street", 0.85},
		{"street with comuna", "Moneda 975, Santiago", true, "street with comuna", 0.8},
		{"street with unit", "Huérfanos 1234 depto 56", true, "unit suffix", 0.75},
		{"bare unit", "1234 depto 56", true, "unit suffix", 0.75},
		{"plain prose", "sin dirección conocida", false, "", 0.2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set := NewSet(DefaultWeights(), nil)
			res := set.Validate(CategoryAddress, tt.raw, "")
			if res.Valid != tt.wantValid {
				t.Fatalf("valid = %v, want %v (reason %q)", res.Valid, tt.wantValid, res.Reason)
			}
			if res.Confidence != tt.wantConf {
				t.Fatalf("confidence = %v, want %v", res.Confidence, tt.wantConf)
			}
			if tt.wantValid && res.Class != tt.wantClass {
				t.Fatalf("class = %q, want %q", res.Class, tt.wantClass)
			}
		})
	}

	t.Run("heuristic bases read from weights", func(t *testing.T) {
		tuned := DefaultWeights()
		tuned.AddressPrefixedStreetBase = 0.4
		res := NewSet(tuned, nil).Validate(CategoryAddress, "Avenida Providencia 2653", "")
		if res.Confidence != 0.4 {
			t.Fatalf("confidence = %v, want the tuned base 0.4", res.Confidence)
		}
	})
}
