package redact

import (
	"strings"
	"testing"
)

func TestBuildMemoryRegistersAliases(t *testing.T) {
	pages := []PageText{
		{Number: 1, Text: `Juan Pérez (en adelante "el Cliente") celebra el presente contrato.`},
		{Number: 2, Text: `El Cliente pagará el saldo dentro de 30 días.`},
	}

	mem := BuildMemory(pages, nil)

	def, ok := mem.Alias("el Cliente")
	if !ok {
		t.Fatal("alias not registered")
	}
	if def.RealName != "Juan Pérez" {
		t.Fatalf("real name = %q", def.RealName)
	}
	if def.DefinitionPage != 1 {
		t.Fatalf("definition page = %d", def.DefinitionPage)
	}

	entity, ok := mem.EntityByName("Juan Pérez")
	if !ok {
		t.Fatal("entity not registered")
	}
	if entity.Type != NaturalPerson {
		t.Fatalf("type = %s", entity.Type)
	}

	// Case-insensitive whole-word occurrences on both pages.
	sawPage2 := false
	for _, occ := range def.References {
		if occ.Page == 2 {
			sawPage2 = true
		}
	}
	if !sawPage2 {
		t.Fatal("no occurrence indexed on page 2")
	}
}

func TestResolveAcrossPages(t *testing.T) {
	page2Text := `El Cliente pagará el saldo dentro de 30 días.`
	pages := []PageText{
		{Number: 1, Text: `Juan Pérez (en adelante "el Cliente") celebra el presente contrato.`},
		{Number: 2, Text: page2Text},
	}

	mem := BuildMemory(pages, nil)

	t.Run("reference on a later page", func(t *testing.T) {
		offset := strings.Index(page2Text, "El Cliente")
		res := mem.Resolve(2, offset)
		if !res.Bound() {
			t.Fatal("offset did not bind")
		}
		if res.Entity.Name != "Juan Pérez" {
			t.Fatalf("entity = %q", res.Entity.Name)
		}
		if res.IsDefinition {
			t.Fatal("page 2 occurrence is a reference, not the definition")
		}
		if res.Alias.DefinitionPage != 1 {
			t.Fatalf("definition page = %d", res.Alias.DefinitionPage)
		}
	})

	t.Run("definition site binds as definition", func(t *testing.T) {
		res := mem.Resolve(1, 0)
		if !res.Bound() {
			t.Fatal("definition offset did not bind")
		}
		if !res.IsDefinition {
			t.Fatal("expected IsDefinition at the definition site")
		}
	})

	t.Run("unrelated offset stays unbound", func(t *testing.T) {
		if res := mem.Resolve(2, len(page2Text)+500); res.Bound() {
			t.Fatalf("bound to %q unexpectedly", res.Entity.Name)
		}
	})
}

func TestAliasFirstDefinitionWins(t *testing.T) {
	pages := []PageText{
		{Number: 1, Text: `Juan Pérez (en adelante "el Cliente") comparece.`},
		{Number: 2, Text: `Pedro Soto (en adelante "el Cliente") comparece.`},
	}

	mem := BuildMemory(pages, nil)

	def, ok := mem.Alias("el cliente")
	if !ok {
		t.Fatal("alias not registered")
	}
	if def.RealName != "Juan Pérez" {
		t.Fatalf("redefinition overwrote binding: %q", def.RealName)
	}
	if def.DefinitionPage != 1 {
		t.Fatalf("definition page = %d", def.DefinitionPage)
	}
}

func TestDetectHeaders(t *testing.T) {
	pages := []PageText{
		{Number: 1, Text: "CAPÍTULO II\nARTÍCULO 5\n1.- Antecedentes del caso\nANTECEDENTES GENERALES:\ntexto corriente sin estructura"},
	}

	mem := BuildMemory(pages, nil)

	outline := mem.Outline()
	if len(outline) != 4 {
		t.Fatalf("got %d headers, want 4: %+v", len(outline), outline)
	}

	wantLevels := []int{0, 1, 2, 3}
	for i, h := range outline {
		if h.Level != wantLevels[i] {
			t.Fatalf("header %q level = %d, want %d", h.Text, h.Level, wantLevels[i])
		}
		if h.Page != 1 {
			t.Fatalf("header %q page = %d", h.Text, h.Page)
		}
	}
}

func TestClassifyName(t *testing.T) {
	tests := []struct {
		name string
		want EntityType
	}{
		{"BANCO EJEMPLO S.A.", LegalPerson},
		{"Constructora del Sur Ltda", LegalPerson},
		{"Abogado Pedro Soto", Professional},
		{"Jueza María Rojas", Authority},
		{"Notario Luis Vera", Authority},
		{"Juan Pérez", NaturalPerson},
		// Title and suffix words only count on word boundaries.
		{"Suministros Generales", NaturalPerson},
		{"Gaspar Soto", NaturalPerson},
		{"Inversiones Gaspar SpA", LegalPerson},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClassifyName(tt.name); got != tt.want {
				t.Fatalf("ClassifyName(%q) = %s, want %s", tt.name, got, tt.want)
			}
		})
	}
}

func TestBuildMemoryGraph(t *testing.T) {
	text := `Juan Pérez (en adelante "el Cliente") y BANCO EJEMPLO S.A. ("el Banco") comparecen.

Juan Pérez pagará a BANCO EJEMPLO S.A. el total adeudado.

Cláusula sin partes nombradas.`

	mem := BuildMemory([]PageText{{Number: 1, Text: text}}, nil)

	var client, bank = -1, -1
	for i, e := range mem.Entities() {
		switch e.Name {
		case "Juan Pérez":
			client = i
		case "BANCO EJEMPLO S.A.":
			bank = i
		}
	}
	if client < 0 || bank < 0 {
		t.Fatalf("entities not registered: %+v", mem.Entities())
	}

	// Both parties share two paragraphs, so the edge weight accumulates.
	if w := mem.Graph().Weight(client, bank); w != 2 {
		t.Fatalf("edge weight = %d, want 2", w)
	}
	if mem.RelationCount("Juan Pérez") != 1 {
		t.Fatalf("relation count = %d, want 1", mem.RelationCount("Juan Pérez"))
	}
}

func TestGraphDataShape(t *testing.T) {
	text := `Juan Pérez (en adelante "el Cliente") y BANCO EJEMPLO S.A. ("el Banco") comparecen.`

	mem := BuildMemory([]PageText{{Number: 1, Text: text}}, nil)
	data := mem.GraphData()

	if len(data.Nodes) != 2 {
		t.Fatalf("got %d nodes, want 2", len(data.Nodes))
	}
	for _, e := range data.Edges {
		if e.Source < 0 || e.Source >= len(data.Nodes) || e.Target < 0 || e.Target >= len(data.Nodes) {
			t.Fatalf("edge endpoints out of range: %+v", e)
		}
	}
}
