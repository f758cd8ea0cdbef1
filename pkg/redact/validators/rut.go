package validators

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

const (
	rutMinBody = 1000000
	rutMaxBody = 99999999
)

// Known placeholder bodies seen in templates and form examples.
var rutDenylist = map[string]bool{
	"11111111": true,
	"22222222": true,
	"33333333": true,
	"44444444": true,
	"55555555": true,
	"66666666": true,
	"77777777": true,
	"88888888": true,
}

var (
	rutBodyRe      = regexp.MustCompile(`^\d{7,8}$`)
	rutKeywords    = []string{"rut", "rol único tributario", "rol unico tributario", "cédula", "cedula", "identificador"}
	rutCanonicalRe = regexp.MustCompile(`(?i)\brut\b[^\n]{0,40}?\d{1,2}\.\d{3}\.\d{3}-[\dkK]`)
)

// ComputeDV computes the modulus-11 check character for a RUT body.
// Body digits are walked least to most significant against the cyclic
// weight sequence 2,3,4,5,6,7,2,3,...
func ComputeDV(body string) byte {
	sum := 0
	weight := 2
	for i := len(body) - 1; i >= 0; i-- {
		sum += int(body[i]-'0') * weight
		weight++
		if weight > 7 {
			weight = 2
		}
	}
	rem := 11 - (sum % 11)
	switch rem {
	case 11:
		return '0'
	case 10:
		return 'K'
	default:
		return byte('0' + rem)
	}
}

// FormatRUT renders a body and check character in the canonical dotted form,
// e.g. 12345678 + '5' -> "12.345.678-5".
func FormatRUT(body string, dv byte) string {
	var b strings.Builder
	n := len(body)
	for i := 0; i < n; i++ {
		if i > 0 && (n-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteByte(body[i])
	}
	return fmt.Sprintf("%s-%c", b.String(), dv)
}

// NormalizeRUT strips separators and splits a raw RUT into body and check
// character. ok is false when the shape is not 7-8 digits plus [0-9K].
func NormalizeRUT(raw string) (body string, dv byte, ok bool) {
	clean := strings.ToUpper(strings.NewReplacer(".", "", "-", "", " ", "").Replace(raw))
	if len(clean) < 8 {
		return "", 0, false
	}
	body, dv = clean[:len(clean)-1], clean[len(clean)-1]
	if !rutBodyRe.MatchString(body) {
		return "", 0, false
	}
	if dv != 'K' && (dv < '0' || dv > '9') {
		return "", 0, false
	}
	return body, dv, true
}

func (s *Set) validateTaxID(raw, context string) Result {
	body, dv, ok := NormalizeRUT(raw)
	if !ok {
		return Result{Valid: false, Confidence: 0.1, Reason: "malformed"}
	}

	if ComputeDV(body) != dv {
		return Result{
			Valid:      false,
			Confidence: s.weights.RUTChecksumMismatch,
			Normalized: FormatRUT(body, dv),
			Reason:     "check digit mismatch",
		}
	}

	n, _ := strconv.Atoi(body)
	if n < rutMinBody || n > rutMaxBody {
		return Result{
			Valid:      false,
			Confidence: s.weights.RUTRangeReject,
			Normalized: FormatRUT(body, dv),
			Reason:     "body out of range",
		}
	}

	formatted := FormatRUT(body, dv)
	if rutDenylist[body] {
		return Result{
			Valid:      true,
			Confidence: s.weights.RUTTestValue,
			Normalized: formatted,
			Flags:      []string{FlagTestValue},
		}
	}

	return Result{
		Valid:      true,
		Confidence: s.weights.RUTBase * s.rutContextScore(context),
		Normalized: formatted,
	}
}

func (s *Set) rutContextScore(context string) float64 {
	score := s.weights.RUTContextStart
	lower := strings.ToLower(context)

	for _, kw := range rutKeywords {
		if strings.Contains(lower, kw) {
			score += s.weights.RUTKeywordBonus
			break
		}
	}
	if len(context) < 20 {
		score *= s.weights.RUTShortContext
	}
	if rutCanonicalRe.MatchString(context) {
		score += s.weights.RUTCanonicalBonus
	}
	return clamp01(score)
}
