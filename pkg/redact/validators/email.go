package validators

import (
	"regexp"
	"strings"
)

var (
	emailRe = regexp.MustCompile(`^[A-Za-z0-9._%+-]+@[A-Za-z0-9-]+(?:\.[A-Za-z0-9-]+)+$`)

	// Government and judicial domains; mail on these belongs to authorities
	// but still identifies a person, so it scores high.
	emailGovSuffixes = []string{".gob.cl", ".pjud.cl", ".cmf.cl", ".sii.cl", ".bcentral.cl"}

	emailLegalSuffixes = []string{"abogados.cl", "legal.cl", "juridico.cl", "notarios.cl", "estudiojuridico.cl"}

	emailGenericTLDs = []string{".com", ".net", ".org"}

	emailGenericLocals = map[string]bool{
		"info": true, "contacto": true, "administracion": true,
		"ventas": true, "soporte": true,
	}

	emailPersonalRe = regexp.MustCompile(`^(?:[a-z]+\.[a-z]+|[a-z]+\d{1,4})$`)
)

func (s *Set) validateEmail(raw, context string) Result {
	addr := strings.TrimSpace(raw)
	if !emailRe.MatchString(addr) {
		return Result{Valid: false, Confidence: 0.1, Reason: "malformed address"}
	}

	at := strings.LastIndex(addr, "@")
	local := strings.ToLower(addr[:at])
	domain := strings.ToLower(addr[at+1:])

	conf := s.weights.EmailBase
	class := DomainGenerico

	switch {
	case hasAnySuffix(domain, emailGovSuffixes) || hasAnySuffix("."+domain, emailGovSuffixes):
		class = DomainGubernamental
		conf += s.weights.EmailGovBonus
	case hasAnySuffix(domain, emailLegalSuffixes):
		class = DomainJuridico
	case strings.HasSuffix(domain, ".cl"):
		class = DomainChileno
	case hasAnySuffix(domain, emailGenericTLDs):
		class = DomainGenerico
		conf *= s.weights.EmailGenericScale
	}

	if emailGenericLocals[local] {
		conf *= s.weights.EmailLocalScale
	} else if emailPersonalRe.MatchString(local) {
		conf += s.weights.EmailPersonal
	}

	return Result{
		Valid:      true,
		Confidence: conf,
		Normalized: local + "@" + domain,
		Class:      class,
	}
}

func hasAnySuffix(s string, suffixes []string) bool {
	for _, suf := range suffixes {
		if strings.HasSuffix(s, suf) {
			return true
		}
	}
	return false
}
