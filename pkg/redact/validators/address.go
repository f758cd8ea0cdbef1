package validators

import "regexp"

// addressHeuristic pairs an address shape with its base-confidence weight.
// The list is ordered; the first match wins.
type addressHeuristic struct {
	re   *regexp.Regexp
	base func(Weights) float64
	name string
}

var addressHeuristics = []addressHeuristic{
	{
		// "Av. Libertador Bernardo O'Higgins 1234" / "Avenida Providencia 2653"
		re:   regexp.MustCompile(`(?i)\b(?:av\.?|avenida|calle|pasaje|psje\.?|camino)\s+[A-ZÁÉÍÓÚÑ][\p{L}'.]*(?:\s+(?:de|del|la|las|los|[A-ZÁÉÍÓÚÑ][\p{L}'.]*))*\s+\d{1,5}\b`),
		base: func(w Weights) float64 { return w.AddressPrefixedStreetBase },
		name: "prefixed street",
	},
	{
		// "Moneda 975, Santiago" — capitalized street, number, comuna
		re:   regexp.MustCompile(`\b[A-ZÁÉÍÓÚÑ][\p{L}'.]*(?:\s+[A-ZÁÉÍÓÚÑ][\p{L}'.]*)*\s+\d{1,5}\s*,\s*[A-ZÁÉÍÓÚÑ][\p{L}'.]*`),
		base: func(w Weights) float64 { return w.AddressStreetComunaBase },
		name: "street with comuna",
	},
	{
		// "... 1234 depto 56" / "... 88, casa B"
		re:   regexp.MustCompile(`(?i)\d{1,5}\s*,?\s*(?:depto\.?|departamento|casa|of\.?|oficina)\s*\w{1,6}\b`),
		base: func(w Weights) float64 { return w.AddressUnitSuffixBase },
		name: "unit suffix",
	},
}

func (s *Set) validateAddress(raw, context string) Result {
	for _, h := range addressHeuristics {
		m := h.re.FindString(raw)
		if m == "" {
			continue
		}
		return Result{
			Valid:      true,
			Confidence: h.base(s.weights),
			Normalized: m,
			Class:      h.name,
		}
	}
	return Result{Valid: false, Confidence: 0.2, Reason: "no address shape"}
}
