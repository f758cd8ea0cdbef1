package redact

import (
	"regexp"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"
)

const (
	maxHeaderLineLen  = 100
	occurrenceContext = 100
)

// Section header patterns, ordered; the first match decides the level.
var headerPatterns = []struct {
	re    *regexp.Regexp
	level int
}{
	{regexp.MustCompile(`^\s*CAP[IÍ]TULO\s+[IVXLCDM]+\b`), 0},
	{regexp.MustCompile(`^\s*ART[IÍ]CULO\s+\S+`), 1},
	{regexp.MustCompile(`^\s*\d+[.\-°º]\s*\S`), 2},
	{regexp.MustCompile(`^[A-ZÁÉÍÓÚÑ][A-ZÁÉÍÓÚÑ0-9 .,()-]*:$`), 3},
}

// capitalized-name fragment reused by the alias patterns
const namePat = `[A-ZÁÉÍÓÚÑ][\p{L}.&-]*(?:\s+(?:de|del|la|las|los|y|e|[A-ZÁÉÍÓÚÑ][\p{L}.&-]*))*`

// Legal alias definition patterns. Group 1 is the real name, group 2 the
// alias, except allCapsAliasRe where the quoted form implies the name.
var aliasPatterns = []*regexp.Regexp{
	// "Juan Pérez (en adelante 'el Cliente')"
	regexp.MustCompile(`(` + namePat + `)\s*\(\s*en\s+adelante[,:]?\s*["'«“]?([^)"'»”]+?)["'»”]?\s*\)`),
	// `BANCO EJEMPLO S.A. ("el Banco")`
	regexp.MustCompile(`([A-ZÁÉÍÓÚÑ][A-ZÁÉÍÓÚÑ&.\s]{2,}?[A-ZÁÉÍÓÚÑ.])\s*\(\s*["'«“]([^)"'»”]+)["'»”]\s*\)`),
	// "Pedro Soto, también conocido como Pedro"
	regexp.MustCompile(`(` + namePat + `),?\s+tambi[ée]n\s+conocid[oa]\s+como\s+["'«“]?([^,."'»”\n)]+)`),
	// "en lo sucesivo Pedro Soto se denominará el Vendedor"
	regexp.MustCompile(`en\s+lo\s+sucesivo,?\s+(` + namePat + `)\s+se\s+denominar[áa]\s+["'«“]?([^,."'»”\n)]+)`),
}

// Name-content heuristics for entity classification.
var (
	legalSuffixes = []string{"s.a.", "s.a", "spa", "ltda", "limitada", "e.i.r.l", "inc."}

	professionalTitles = []string{
		"abogado", "abogada", "ingeniero", "ingeniera", "doctor", "doctora",
		"contador", "contadora", "arquitecto", "arquitecta", "médico", "medico",
	}

	authorityTitles = []string{
		"juez", "jueza", "fiscal", "ministro", "ministra", "notario", "notaria",
		"conservador", "conservadora", "oficial civil", "receptor judicial",
		"defensor", "defensora", "presidente del tribunal", "secretario del tribunal",
	}

	paragraphSplitRe = regexp.MustCompile(`\n\s*\n`)
)

// Memory is the document-wide knowledge base: entity registry, alias map,
// structural outline and co-occurrence graph. It is built once per document
// by BuildMemory and strictly read-only afterwards, so resolution answers
// never depend on redaction-time state or occurrence-processing order.
type Memory struct {
	entities []Entity
	byName   map[string]int
	aliases  map[string]*AliasDefinition
	outline  []SectionHeader
	graph    *Graph

	pages      []PageText
	pageStarts []int // absolute offset of each page in the concatenated text
	fullText   string

	logger *logrus.Logger
}

// GlobalContext is the serializable snapshot of a built Memory, embedded in
// the JSON summary report.
type GlobalContext struct {
	Entities []Entity                    `json:"entities"`
	Aliases  map[string]*AliasDefinition `json:"aliases"`
	Outline  []SectionHeader             `json:"outline"`
	Edges    []RelationEdge              `json:"relations"`
}

// BuildMemory runs the structural pass over ordered pages: header detection,
// alias definition registration (first definition wins), alias occurrence
// indexing and relationship graph construction.
func BuildMemory(pages []PageText, logger *logrus.Logger) *Memory {
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
	}

	m := &Memory{
		byName:  make(map[string]int),
		aliases: make(map[string]*AliasDefinition),
		graph:   NewGraph(),
		pages:   pages,
		logger:  logger,
	}

	var sb strings.Builder
	for _, p := range pages {
		m.pageStarts = append(m.pageStarts, sb.Len())
		sb.WriteString(p.Text)
		sb.WriteString("\n")
	}
	m.fullText = sb.String()

	for _, p := range pages {
		m.detectHeaders(p)
		m.detectAliases(p)
	}
	m.indexAliasOccurrences()
	m.indexEntityPages()
	m.buildGraph()

	m.logger.WithFields(logrus.Fields{
		"entities": len(m.entities),
		"aliases":  len(m.aliases),
		"headers":  len(m.outline),
		"edges":    m.graph.EdgeCount(),
	}).Info("document memory built")

	return m
}

func (m *Memory) detectHeaders(p PageText) {
	for _, line := range strings.Split(p.Text, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || len(trimmed) >= maxHeaderLineLen {
			continue
		}
		for _, hp := range headerPatterns {
			if hp.re.MatchString(trimmed) {
				m.outline = append(m.outline, SectionHeader{Text: trimmed, Page: p.Number, Level: hp.level})
				break
			}
		}
	}
}

func (m *Memory) detectAliases(p PageText) {
	for _, re := range aliasPatterns {
		for _, loc := range re.FindAllStringSubmatchIndex(p.Text, -1) {
			realName := strings.TrimSpace(p.Text[loc[2]:loc[3]])
			alias := strings.TrimSpace(p.Text[loc[4]:loc[5]])
			if realName == "" || alias == "" {
				continue
			}
			m.registerAlias(alias, realName, p.Number, loc[0])
		}
	}
}

// registerAlias applies first-write-wins: a later redefinition of the same
// normalized alias never overwrites the original binding.
func (m *Memory) registerAlias(alias, realName string, page, offset int) {
	normalized := strings.ToLower(alias)
	if existing, ok := m.aliases[normalized]; ok {
		if existing.RealName != realName {
			m.logger.WithFields(logrus.Fields{
				"alias": normalized,
				"page":  page,
			}).Debug("ignoring alias redefinition")
		}
		return
	}

	m.aliases[normalized] = &AliasDefinition{
		Alias:            normalized,
		RealName:         realName,
		DefinitionPage:   page,
		DefinitionOffset: offset,
	}
	m.registerEntity(realName, page)
}

func (m *Memory) registerEntity(name string, page int) int {
	if idx, ok := m.byName[name]; ok {
		return idx
	}
	idx := len(m.entities)
	m.entities = append(m.entities, Entity{
		Name:  name,
		Type:  ClassifyName(name),
		Pages: []int{page},
	})
	m.byName[name] = idx
	return idx
}

// ClassifyName classifies an entity by name content: legal-entity suffix,
// professional title, authority title, otherwise a natural person.
func ClassifyName(name string) EntityType {
	lower := strings.ToLower(name)
	// Suffix tokens need a word boundary so "spa" does not fire inside
	// "Gaspar".
	for _, suf := range legalSuffixes {
		if containsWord(lower, suf) {
			return LegalPerson
		}
	}
	for _, title := range authorityTitles {
		if containsWord(lower, title) {
			return Authority
		}
	}
	for _, title := range professionalTitles {
		if containsWord(lower, title) {
			return Professional
		}
	}
	return NaturalPerson
}

// indexAliasOccurrences records every case-insensitive whole-word occurrence
// of each registered alias across the concatenated text, with a context
// window and its page-local offset.
func (m *Memory) indexAliasOccurrences() {
	for _, def := range m.aliases {
		re, err := regexp.Compile(`(?i)\b` + regexp.QuoteMeta(def.Alias) + `\b`)
		if err != nil {
			continue
		}
		for _, loc := range re.FindAllStringIndex(m.fullText, -1) {
			page, local := m.locate(loc[0])
			start := loc[0] - occurrenceContext
			if start < 0 {
				start = 0
			}
			end := loc[1] + occurrenceContext
			if end > len(m.fullText) {
				end = len(m.fullText)
			}
			def.References = append(def.References, AliasOccurrence{
				Page:    page,
				Offset:  local,
				Context: m.fullText[start:end],
			})
		}
	}
}

func (m *Memory) indexEntityPages() {
	for i := range m.entities {
		e := &m.entities[i]
		for _, p := range m.pages {
			if strings.Contains(p.Text, e.Name) && !containsInt(e.Pages, p.Number) {
				e.Pages = append(e.Pages, p.Number)
			}
		}
		sort.Ints(e.Pages)
	}
}

func (m *Memory) buildGraph() {
	for _, para := range paragraphSplitRe.Split(m.fullText, -1) {
		var present []int
		for idx := range m.entities {
			if strings.Contains(para, m.entities[idx].Name) {
				present = append(present, idx)
			}
		}
		if len(present) < 2 {
			continue
		}
		sample := para
		if len(sample) > 100 {
			sample = sample[:100]
		}
		for i := 0; i < len(present); i++ {
			for j := i + 1; j < len(present); j++ {
				m.graph.Touch(present[i], present[j], sample)
			}
		}
	}
}

// locate maps an absolute offset in the concatenated text to its page number
// and page-local offset.
func (m *Memory) locate(abs int) (page, local int) {
	for i := len(m.pageStarts) - 1; i >= 0; i-- {
		if abs >= m.pageStarts[i] {
			return m.pages[i].Number, abs - m.pageStarts[i]
		}
	}
	if len(m.pages) > 0 {
		return m.pages[0].Number, abs
	}
	return 0, abs
}

// Entities returns the entity arena in registration order.
func (m *Memory) Entities() []Entity { return m.entities }

// EntityByName looks up a registered entity by exact canonical name.
func (m *Memory) EntityByName(name string) (*Entity, bool) {
	idx, ok := m.byName[name]
	if !ok {
		return nil, false
	}
	return &m.entities[idx], true
}

// Alias returns the definition bound to a normalized alias.
func (m *Memory) Alias(alias string) (*AliasDefinition, bool) {
	def, ok := m.aliases[strings.ToLower(alias)]
	return def, ok
}

// Aliases returns the alias map.
func (m *Memory) Aliases() map[string]*AliasDefinition { return m.aliases }

// Outline returns the detected section headers in document order.
func (m *Memory) Outline() []SectionHeader { return m.outline }

// Graph exposes the co-occurrence graph.
func (m *Memory) Graph() *Graph { return m.graph }

// RelationCount returns the number of related entities for a canonical name.
func (m *Memory) RelationCount(name string) int {
	idx, ok := m.byName[name]
	if !ok {
		return 0
	}
	return m.graph.Degree(idx)
}

// GraphData converts the graph into the shape the visualization collaborator
// and graph stores consume.
func (m *Memory) GraphData() *GraphData {
	data := &GraphData{}
	for _, e := range m.entities {
		data.Nodes = append(data.Nodes, GraphNode{Label: e.Name, Type: string(e.Type)})
	}
	for _, e := range m.graph.Edges() {
		data.Edges = append(data.Edges, GraphEdge{Source: e.A, Target: e.B, Weight: e.Weight, Sample: e.Sample})
	}
	return data
}

// Snapshot returns the serializable view of the memory.
func (m *Memory) Snapshot() *GlobalContext {
	return &GlobalContext{
		Entities: m.entities,
		Aliases:  m.aliases,
		Outline:  m.outline,
		Edges:    m.graph.Edges(),
	}
}

func containsWord(text, word string) bool {
	idx := 0
	for {
		i := strings.Index(text[idx:], word)
		if i < 0 {
			return false
		}
		start := idx + i
		end := start + len(word)
		beforeOK := start == 0 || !isWordByte(text[start-1])
		afterOK := end >= len(text) || !isWordByte(text[end])
		if beforeOK && afterOK {
			return true
		}
		idx = start + 1
	}
}

func isWordByte(b byte) bool {
	return b == '_' || (b >= '0' && b <= '9') || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || b >= 0x80
}

func containsInt(s []int, v int) bool {
	for _, x := range s {
		if x == v {
			return true
		}
	}
	return false
}
