package validators

import (
	"strings"
	"testing"
)

func TestComputeDV(t *testing.T) {
	tests := []struct {
		body string
		want byte
	}{
		{"12345678", '5'},
		{"11111111", '1'},
		{"99999999", '9'},
		{"7654321", '6'},
		{"0999999", 'K'},
	}

	for _, tt := range tests {
		t.Run(tt.body, func(t *testing.T) {
			if got := ComputeDV(tt.body); got != tt.want {
				t.Fatalf("ComputeDV(%s) = %c, want %c", tt.body, got, tt.want)
			}
		})
	}
}

func TestFormatRUT(t *testing.T) {
	tests := []struct {
		body string
		dv   byte
		want string
	}{
		{"12345678", '5', "12.345.678-5"},
		{"7654321", '6', "7.654.321-6"},
	}

	for _, tt := range tests {
		if got := FormatRUT(tt.body, tt.dv); got != tt.want {
			t.Fatalf("FormatRUT(%s, %c) = %s, want %s", tt.body, tt.dv, got, tt.want)
		}
	}
}

func TestNormalizeRUT(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		wantBody string
		wantDV   byte
		wantOK   bool
	}{
		{"dotted", "12.345.678-5", "12345678", '5', true},
		{"dashed", "12345678-5", "12345678", '5', true},
		{"bare", "123456785", "12345678", '5', true},
		{"lowercase k", "9.876.543-k", "9876543", 'K', true},
		{"too short", "123456-5", "", 0, false},
		{"letters in body", "12A45678-5", "", 0, false},
		{"bad check char", "12345678-X", "", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, dv, ok := NormalizeRUT(tt.raw)
			if ok != tt.wantOK {
				t.Fatalf("NormalizeRUT(%s) ok = %v, want %v", tt.raw, ok, tt.wantOK)
			}
			if !ok {
				return
			}
			if body != tt.wantBody || dv != tt.wantDV {
				t.Fatalf("NormalizeRUT(%s) = %s, %c; want %s, %c", tt.raw, body, dv, tt.wantBody, tt.wantDV)
			}
		})
	}
}

// Changing any single body digit must change the check digit: the weight of
// every position is coprime with 11, so no single-digit substitution
// survives the checksum.
func TestComputeDVDetectsSingleDigitMutations(t *testing.T) {
	body := "12345678"
	dv := ComputeDV(body)

	for pos := 0; pos < len(body); pos++ {
		for d := byte('0'); d <= '9'; d++ {
			if d == body[pos] {
				continue
			}
			mutated := body[:pos] + string(d) + body[pos+1:]
			if ComputeDV(mutated) == dv {
				t.Fatalf("mutation %s at position %d kept check digit %c", mutated, pos, dv)
			}
		}
	}
}

func TestValidateTaxID(t *testing.T) {
	set := NewSet(DefaultWeights(), nil)

	t.Run("keyword context scores high", func(t *testing.T) {
		res := set.Validate(CategoryTaxID, "12.345.678-5", "El RUT del cliente es 12.345.678-5")
		if !res.Valid {
			t.Fatalf("expected valid, got reason %q", res.Reason)
		}
		if res.Confidence <= 0.8 {
			t.Fatalf("confidence = %v, want > 0.8", res.Confidence)
		}
		if res.Normalized != "12.345.678-5" {
			t.Fatalf("normalized = %s", res.Normalized)
		}
	})

	t.Run("check digit mismatch", func(t *testing.T) {
		res := set.Validate(CategoryTaxID, "12.345.678-6", "RUT 12.345.678-6")
		if res.Valid {
			t.Fatal("expected invalid")
		}
		if res.Confidence != 0.3 {
			t.Fatalf("confidence = %v, want 0.3", res.Confidence)
		}
	})

	t.Run("malformed", func(t *testing.T) {
		res := set.Validate(CategoryTaxID, "123-4", "")
		if res.Valid || res.Confidence != 0.1 {
			t.Fatalf("got valid=%v confidence=%v", res.Valid, res.Confidence)
		}
	})

	t.Run("body below range", func(t *testing.T) {
		res := set.Validate(CategoryTaxID, "0.999.999-K", "RUT 0.999.999-K")
		if res.Valid {
			t.Fatal("expected invalid")
		}
		if res.Confidence != 0.4 {
			t.Fatalf("confidence = %v, want 0.4", res.Confidence)
		}
	})

	t.Run("placeholder body flagged", func(t *testing.T) {
		res := set.Validate(CategoryTaxID, "11.111.111-1", "RUT 11.111.111-1")
		if !res.Valid {
			t.Fatal("placeholder passes the checksum, expected valid")
		}
		if res.Confidence != 0.2 {
			t.Fatalf("confidence = %v, want 0.2", res.Confidence)
		}
		if !res.HasFlag(FlagTestValue) {
			t.Fatalf("missing %s flag", FlagTestValue)
		}
	})

	t.Run("all nines is a real value", func(t *testing.T) {
		res := set.Validate(CategoryTaxID, "99.999.999-9", "RUT 99.999.999-9")
		if !res.Valid {
			t.Fatalf("expected valid, got reason %q", res.Reason)
		}
		if res.HasFlag(FlagTestValue) {
			t.Fatal("99999999 is not a placeholder body")
		}
	})
}

// Every category must come back with a confidence in [0, 1], for valid,
// malformed, and extreme inputs alike.
func TestValidateConfidenceBounds(t *testing.T) {
	inputs := map[Category][]struct {
		raw     string
		context string
	}{
		CategoryTaxID: {
			{"12.345.678-5", "RUT 12.345.678-5"},
			{"12.345.678-6", "RUT 12.345.678-6"},
			{"garbage", "garbage"},
			{strings.Repeat("9", 40), ""},
			{"", ""},
		},
		CategoryIndexedUnit: {
			{"UF 1.234,56", "el monto de UF 1.234,56"},
			{"UF 99.999.999", "UF 99.999.999"},
			{"UF abc", "UF abc"},
			{"", ""},
		},
		CategoryMonetary: {
			{"$ 1.000.000", "monto $ 1.000.000"},
			{"$ 2.000.000.000.000", "monto $ 2.000.000.000.000"},
			{"sin moneda", "sin moneda"},
			{"", ""},
		},
		CategoryEmail: {
			{"juan.perez@gmail.com", "correo juan.perez@gmail.com"},
			{"fiscal@sii.cl", "contacto fiscal@sii.cl"},
			{"test@.com", "test@.com"},
			{strings.Repeat("a", 300) + "@b.cl", ""},
			{"", ""},
		},
		CategoryPhone: {
			{"+56 9 1234 5678", "celular +56 9 1234 5678"},
			{"221234567", "teléfono 221234567"},
			{"000", ""},
			{strings.Repeat("9", 40), ""},
			{"", ""},
		},
		CategoryAddress: {
			{"Avenida Providencia 2653", "domicilio en Avenida Providencia 2653"},
			{"Moneda 975, Santiago", ""},
			{"sin dirección conocida", ""},
			{"", ""},
		},
	}

	set := NewSet(DefaultWeights(), nil)
	for cat, cases := range inputs {
		for _, tc := range cases {
			res := set.Validate(cat, tc.raw, tc.context)
			if res.Confidence < 0 || res.Confidence > 1 {
				t.Fatalf("%s confidence for %q out of bounds: %v", cat, tc.raw, res.Confidence)
			}
		}
	}
}
