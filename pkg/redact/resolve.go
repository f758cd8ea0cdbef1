package redact

import "sort"

const (
	definitionSlack    = 50 // added to len(realName) around a definition site
	referenceSlack     = 50 // distance to a recorded alias occurrence
	maxRelatedEntities = 3
)

// Resolution is the answer to a point-query against document memory.
// A zero Resolution (Entity nil) means the offset binds to nothing.
type Resolution struct {
	Entity       *Entity
	Alias        *AliasDefinition
	Type         EntityType
	IsDefinition bool
	Related      []string
}

// Bound reports whether the resolution carries an entity.
func (r Resolution) Bound() bool { return r.Entity != nil }

// Resolve determines whether a page-local character offset corresponds to an
// alias definition site or to a previously recorded alias reference, and
// returns the bound entity plus up to three graph neighbors. Memory is
// read-only at this point, so identical queries always return identical
// answers regardless of occurrence-processing order.
func (m *Memory) Resolve(page, offset int) Resolution {
	keys := make([]string, 0, len(m.aliases))
	for k := range m.aliases {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		def := m.aliases[k]
		if def.DefinitionPage == page {
			window := len(def.RealName) + definitionSlack
			if abs(offset-def.DefinitionOffset) <= window {
				return m.bind(def, true)
			}
		}
		for _, occ := range def.References {
			if occ.Page == page && abs(offset-occ.Offset) <= referenceSlack {
				return m.bind(def, false)
			}
		}
	}
	return Resolution{}
}

func (m *Memory) bind(def *AliasDefinition, isDefinition bool) Resolution {
	idx, ok := m.byName[def.RealName]
	if !ok {
		return Resolution{}
	}
	entity := &m.entities[idx]

	var related []string
	for _, n := range m.graph.Neighbors(idx, maxRelatedEntities) {
		related = append(related, m.entities[n].Name)
	}

	return Resolution{
		Entity:       entity,
		Alias:        def,
		Type:         entity.Type,
		IsDefinition: isDefinition,
		Related:      related,
	}
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
