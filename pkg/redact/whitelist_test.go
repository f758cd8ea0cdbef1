package redact

import "testing"

func TestWhitelistMatch(t *testing.T) {
	w := DefaultWhitelist()

	tests := []struct {
		text string
		want bool
	}{
		{"Corte Suprema", true},
		{"Corte de Apelaciones de Santiago", true},
		{"Primer Juzgado Civil de Santiago", true},
		{"Servicio de Impuestos Internos", true},
		{"Ministerio de Hacienda", true},
		{"Notaría de Providencia", true},
		{"Juez Mario Pinto", true},
		{"Presidente del tribunal", true},
		{"Fiscal Adjunto Pedro Rojas", true},
		{"Juan Pérez", false},
		{"Constructora Andes Ltda", false},
		// "ministro" inside a longer word must not fire.
		{"Suministros del Sur", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			if got := w.Match(tt.text); got != tt.want {
				t.Fatalf("Match(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestWhitelistCustomTerms(t *testing.T) {
	w := NewWhitelist([]string{"Archivo Nacional"}, nil, []string{"archivero"})

	if !w.Match("archivo nacional de chile") {
		t.Fatal("institutional term should match case-insensitively")
	}
	if !w.Match("Archivero Judicial") {
		t.Fatal("title word should match on boundary")
	}
	if w.Match("subarchivero") {
		t.Fatal("title inside a longer word should not match")
	}
}
