package validators

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	nonDigitRe = regexp.MustCompile(`\D`)

	phoneKeywords = []string{"teléfono", "telefono", "fono", "celular", "contacto", "whatsapp"}

	// Two-digit area codes for fixed lines outside Santiago.
	regionalAreaCodes = map[string]bool{
		"32": true, "33": true, "34": true, "35": true, "41": true, "42": true,
		"43": true, "45": true, "51": true, "52": true, "53": true, "55": true,
		"57": true, "58": true, "61": true, "63": true, "64": true, "65": true,
		"67": true, "71": true, "72": true, "73": true, "75": true,
	}
)

func (s *Set) validatePhone(raw, context string) Result {
	digits := nonDigitRe.ReplaceAllString(raw, "")

	// Optional country prefix.
	if strings.HasPrefix(digits, "56") && len(digits) > 9 {
		digits = digits[2:]
	}

	var base float64
	var class string
	switch {
	case len(digits) == 9 && digits[0] == '9':
		base, class = s.weights.PhoneMobileBase, PhoneMobile
	case len(digits) == 9 && digits[0] == '2':
		base, class = s.weights.PhoneSantiagoBase, PhoneSantiago
	case len(digits) == 8 && regionalAreaCodes[digits[:2]]:
		base, class = s.weights.PhoneRegionalBase, PhoneRegional
	default:
		return Result{Valid: false, Confidence: 0.1, Reason: "unrecognized number shape"}
	}

	return Result{
		Valid:      true,
		Confidence: base * s.phoneContextScore(context),
		Normalized: FormatPhone(digits),
		Class:      class,
	}
}

func (s *Set) phoneContextScore(context string) float64 {
	score := s.weights.PhoneContextStart
	lower := strings.ToLower(context)
	for _, kw := range phoneKeywords {
		if strings.Contains(lower, kw) {
			score += s.weights.PhoneKeywordBonus
			break
		}
	}
	if score < s.weights.PhoneContextFloor {
		score = s.weights.PhoneContextFloor
	}
	return clamp01(score)
}

// FormatPhone groups national digits as "D DDDD DDDD" (8-digit fixed numbers
// keep their natural "DD DDD DDD" style grouping from the right).
func FormatPhone(digits string) string {
	if len(digits) == 9 {
		return fmt.Sprintf("%s %s %s", digits[:1], digits[1:5], digits[5:])
	}
	if len(digits) == 8 {
		return fmt.Sprintf("%s %s %s", digits[:2], digits[2:5], digits[5:])
	}
	return digits
}
