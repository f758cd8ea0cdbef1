package validators

import (
	"regexp"
	"strconv"
	"strings"
)

const (
	ufMinValue = 0.01
	ufMaxValue = 10000
	billion    = 1_000_000_000
)

var (
	ufRe = regexp.MustCompile(`(?i)(?:(?:\buf\b|unidad(?:es)?\s+de\s+fomento)\s*([\d.,]+)|([\d.,]+)\s*(?:\buf\b|unidad(?:es)?\s+de\s+fomento))`)

	ufKeywords = []string{"monto", "suma", "valor", "capital", "deuda", "préstamo", "prestamo"}

	moneyPositiveRe = regexp.MustCompile(`(?i)(?:[$€]\s)|\b(?:monto|valor|suma|total|importe|pesos|d[oó]lares|euros)\b`)
	moneyHedgeRe    = regexp.MustCompile(`(?i)aprox|alrededor|ejemplo|ilustrativo`)
)

// currencyPattern pairs a match pattern with its base-confidence weight.
// USD comes before CLP so that "US$ 500" is not claimed by the bare "$"
// pattern.
type currencyPattern struct {
	re   *regexp.Regexp
	code string
	base func(Weights) float64
}

var currencyPatterns = []currencyPattern{
	{regexp.MustCompile(`(?i)(?:US\$|USD)\s?\d[\d.,]*`), "USD", func(w Weights) float64 { return w.MoneyUSDBase }},
	{regexp.MustCompile(`\$\s?\d[\d.]*(?:,\d+)?`), "CLP", func(w Weights) float64 { return w.MoneyCLPBase }},
	{regexp.MustCompile(`(?i)\d[\d.,]*\s?(?:pesos|d[oó]lares)`), "CLP", func(w Weights) float64 { return w.MoneyTextualBase }},
	{regexp.MustCompile(`€\s?\d[\d.,]*`), "EUR", func(w Weights) float64 { return w.MoneyEURBase }},
}

var amountRe = regexp.MustCompile(`\d[\d.,]*`)

// ParseAmount parses a numeric amount written with the Chilean convention:
// dot as thousands separator, comma as decimal separator.
func ParseAmount(raw string) (float64, bool) {
	clean := strings.ReplaceAll(strings.TrimSpace(raw), ".", "")
	clean = strings.ReplaceAll(clean, ",", ".")
	if clean == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(clean, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func (s *Set) validateIndexedUnit(raw, context string) Result {
	m := ufRe.FindStringSubmatch(raw)
	if m == nil {
		return Result{Valid: false, Confidence: s.weights.UFParseReject, Reason: "no UF amount"}
	}
	numeric := m[1]
	if numeric == "" {
		numeric = m[2]
	}

	value, ok := ParseAmount(numeric)
	if !ok {
		return Result{Valid: false, Confidence: s.weights.UFParseReject, Reason: "unparseable amount"}
	}

	if value < ufMinValue || value > ufMaxValue {
		return Result{
			Valid:      true,
			Confidence: s.weights.UFExtremeValue,
			Value:      value,
			Normalized: strconv.FormatFloat(value, 'f', -1, 64),
			Flags:      []string{FlagExtremeValue},
		}
	}

	conf := s.weights.UFBase
	lower := strings.ToLower(context)
	for _, kw := range ufKeywords {
		if strings.Contains(lower, kw) {
			conf += s.weights.UFKeywordBonus
			break
		}
	}

	return Result{
		Valid:      true,
		Confidence: conf * s.monetaryContextScore(context),
		Value:      value,
		Normalized: strconv.FormatFloat(value, 'f', -1, 64),
	}
}

func (s *Set) validateMonetary(raw, context string) Result {
	for _, p := range currencyPatterns {
		loc := p.re.FindString(raw)
		if loc == "" {
			continue
		}

		base := p.base(s.weights)
		value, ok := ParseAmount(amountRe.FindString(loc))
		if ok && value > billion {
			base *= s.weights.MoneyBillionScale
		}

		return Result{
			Valid:      true,
			Confidence: base * s.monetaryContextScore(context),
			Value:      value,
			Class:      p.code,
			Normalized: strings.TrimSpace(loc),
		}
	}
	return Result{Valid: false, Confidence: 0.1, Reason: "no currency pattern"}
}

// monetaryContextScore scores how money-like the surrounding context reads:
// positive indicators raise it, hedging language ("aprox", "ejemplo") scales
// it down.
func (s *Set) monetaryContextScore(context string) float64 {
	score := s.weights.MoneyContextStart
	if moneyPositiveRe.MatchString(context) {
		score += s.weights.MoneyPositiveBonus
	}
	if moneyHedgeRe.MatchString(context) {
		score *= s.weights.MoneyHedgeScale
	}
	return clamp01(score)
}
