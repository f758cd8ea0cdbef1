package redact

import "strings"

// Whitelist holds the curated authority terms: institutional words, named
// public bodies and authority title words. It is immutable once built and
// safe to share read-only across goroutines.
type Whitelist struct {
	institutional []string
	named         []string
	titles        []string
}

// DefaultWhitelist returns the built-in authority whitelist for the modeled
// jurisdiction.
func DefaultWhitelist() *Whitelist {
	return NewWhitelist(
		[]string{
			"tribunal", "juzgado", "corte", "fiscalía", "fiscalia", "ministerio",
			"contraloría", "contraloria", "municipalidad", "notaría", "notaria",
			"defensoría", "defensoria", "gendarmería", "gendarmeria",
			"carabineros", "policía de investigaciones", "policia de investigaciones",
			"superintendencia", "tesorería", "tesoreria",
			"servicio de impuestos internos", "registro civil", "banco central",
		},
		[]string{
			"corte suprema", "corte de apelaciones",
			"consejo de defensa del estado", "servicio nacional del consumidor",
		},
		[]string{
			"juez", "jueza", "fiscal", "ministro", "ministra", "notario", "notaria",
			"conservador", "conservadora", "oficial civil", "receptor judicial",
			"defensor", "defensora", "presidente del tribunal", "secretario del tribunal",
		},
	)
}

// NewWhitelist builds a whitelist from explicit term lists. Terms are
// matched case-insensitively.
func NewWhitelist(institutional, named, titles []string) *Whitelist {
	lower := func(in []string) []string {
		out := make([]string, len(in))
		for i, s := range in {
			out[i] = strings.ToLower(s)
		}
		return out
	}
	return &Whitelist{
		institutional: lower(institutional),
		named:         lower(named),
		titles:        lower(titles),
	}
}

// Match reports whether the text names a public authority or institution:
// an exact or substring hit against the institutional and named lists, or an
// authority title word on a word boundary.
func (w *Whitelist) Match(text string) bool {
	lower := strings.ToLower(strings.TrimSpace(text))
	if lower == "" {
		return false
	}

	for _, term := range w.named {
		if lower == term || strings.Contains(lower, term) {
			return true
		}
	}
	for _, term := range w.institutional {
		if lower == term || strings.Contains(lower, term) {
			return true
		}
	}
	// Title words need a word boundary so "ministro" does not fire inside
	// "suministro".
	for _, title := range w.titles {
		if containsWord(lower, title) {
			return true
		}
	}
	return false
}
