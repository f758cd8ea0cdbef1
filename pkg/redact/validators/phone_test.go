package validators

import "testing"

func TestValidatePhone(t *testing.T) {
	tests := []struct {
		name      string
		raw       string
		context   string
		wantValid bool
		wantClass string
	}{
		{"mobile with country code", "+56 9 1234 5678", "celular +56 9 1234 5678", true, PhoneMobile},
		{"mobile bare", "912345678", "", true, PhoneMobile},
		{"santiago fixed", "221234567", "teléfono 221234567", true, PhoneSantiago},
		{"regional fixed", "32123456", "fono 32123456", true, PhoneRegional},
		{"unknown area code", "99123456", "", false, ""},
		{"too short", "12345", "", false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			set := NewSet(DefaultWeights(), nil)
			res := set.Validate(CategoryPhone, tt.raw, tt.context)
			if res.Valid != tt.wantValid {
				t.Fatalf("valid = %v, want %v (reason %q)", res.Valid, tt.wantValid, res.Reason)
			}
			if tt.wantValid && res.Class != tt.wantClass {
				t.Fatalf("class = %s, want %s", res.Class, tt.wantClass)
			}
		})
	}

	t.Run("shape bases read from weights", func(t *testing.T) {
		tuned := DefaultWeights()
		tuned.PhoneMobileBase = 0.3
		low := NewSet(tuned, nil).Validate(CategoryPhone, "912345678", "celular 912345678")
		stock := NewSet(DefaultWeights(), nil).Validate(CategoryPhone, "912345678", "celular 912345678")
		if low.Confidence >= stock.Confidence {
			t.Fatalf("tuned base had no effect: %v vs %v", low.Confidence, stock.Confidence)
		}
	})

	t.Run("keyword context raises confidence", func(t *testing.T) {
		set := NewSet(DefaultWeights(), nil)
		with := set.Validate(CategoryPhone, "912345678", "celular 912345678")
		set2 := NewSet(DefaultWeights(), nil)
		without := set2.Validate(CategoryPhone, "912345678", "anotado 912345678")
		if with.Confidence <= without.Confidence {
			t.Fatalf("keyword %v not above plain %v", with.Confidence, without.Confidence)
		}
	})
}

func TestFormatPhone(t *testing.T) {
	tests := []struct {
		digits string
		want   string
	}{
		{"912345678", "9 1234 5678"},
		{"32123456", "32 123 456"},
		{"123", "123"},
	}

	for _, tt := range tests {
		if got := FormatPhone(tt.digits); got != tt.want {
			t.Fatalf("FormatPhone(%s) = %q, want %q", tt.digits, got, tt.want)
		}
	}
}
