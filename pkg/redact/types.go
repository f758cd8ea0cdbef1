// Package redact implements the contextual detection and resolution engine
// for sensitive data in legal documents: a whole-document memory of entity
// definitions and relationships, a chunked scan engine that merges named
// entity recognition with validated pattern matches, and the redaction
// pipeline that turns scan targets into auditable per-occurrence decisions.
package redact

import (
	"context"
	"time"
)

// EntityType classifies a named party found in the document.
type EntityType string

const (
	NaturalPerson EntityType = "NATURAL_PERSON"
	LegalPerson   EntityType = "LEGAL_PERSON"
	Professional  EntityType = "PROFESSIONAL"
	Authority     EntityType = "AUTHORITY"
)

// Entity is a registered person or organization. The type is immutable once
// classified; Pages records where the canonical name appears, in order.
type Entity struct {
	Name  string     `json:"name"`
	Type  EntityType `json:"type"`
	Pages []int      `json:"pages"`
}

// AliasOccurrence is one whole-word occurrence of a registered alias.
type AliasOccurrence struct {
	Page    int    `json:"page"`
	Offset  int    `json:"offset"` // page-local character offset
	Context string `json:"context"`
}

// AliasDefinition binds a legal drafting alias ("en adelante X") to a fully
// named party. The first definition of a normalized alias wins; later
// redefinitions are ignored.
type AliasDefinition struct {
	Alias            string            `json:"alias"` // normalized lowercase
	RealName         string            `json:"real_name"`
	DefinitionPage   int               `json:"definition_page"`
	DefinitionOffset int               `json:"definition_offset"`
	References       []AliasOccurrence `json:"references"`
}

// SectionHeader is one detected structural heading.
// Level: 0=chapter, 1=article, 2=numbered clause, 3=other.
type SectionHeader struct {
	Text  string `json:"text"`
	Page  int    `json:"page"`
	Level int    `json:"level"`
}

// Action is the resolved decision for one physical occurrence.
type Action string

const (
	ActionHighlighted      Action = "HIGHLIGHTED"
	ActionRedacted         Action = "REDACTED"
	ActionSkippedAuthority Action = "SKIPPED_AUTHORITY"
)

// RedactionRecord is one per-occurrence decision, appended in processing
// order and fed to the CSV/JSON reports.
type RedactionRecord struct {
	Page          int        `json:"page"`
	Text          string     `json:"text"`
	Action        Action     `json:"action"`
	EntityType    EntityType `json:"entity_type,omitempty"`
	IsDefinition  bool       `json:"is_definition"`
	RelationCount int        `json:"relation_count"`
}

// Mode selects between non-destructive review and irreversible redaction.
type Mode string

const (
	ModeAudit Mode = "audit"
	ModeFinal Mode = "final"
)

// PageText is one page of extracted text, the unit the memory and scanner
// work on.
type PageText struct {
	Number int
	Text   string
}

// Recognizer labels for entities the scan engine cares about.
const (
	LabelPerson       = "PERSON"
	LabelOrganization = "ORGANIZATION"
	LabelOther        = "OTHER"
)

// RecognizedEntity is one span returned by a named-entity recognizer.
// Offsets are relative to the text handed to Recognize.
type RecognizedEntity struct {
	Text  string
	Label string
	Start int
	End   int
}

// Recognizer is the NER collaborator. It may be slow and is invoked per
// chunk; a failure skips the chunk, it never aborts the document.
type Recognizer interface {
	Recognize(ctx context.Context, text string) ([]RecognizedEntity, error)
}

// OCREngine is the OCR collaborator. Failure is a sentinel (ok=false), never
// an error the caller has to handle.
type OCREngine interface {
	OCR(ctx context.Context, sourcePath string) (resultPath string, ok bool)
}

// Box is a bounding rectangle on a page, in page coordinates.
type Box struct {
	X0, Y0, X1, Y1 float64
}

// Page is one page of a source document.
type Page interface {
	Number() int
	Text() string
	// Search returns the bounding boxes of every occurrence of text, in
	// reading order. An empty slice means no hit.
	Search(text string) []Box
	AddHighlight(b Box) error
	AddRedaction(b Box) error
	// ApplyRedactions irreversibly commits the page's pending redactions.
	ApplyRedactions() error
}

// Document is an ordered page source plus the destructive operations the
// FINAL mode needs.
type Document interface {
	Path() string
	Pages() []Page
	// SanitizeMetadata replaces descriptive metadata fields with fixed
	// placeholders and drops auxiliary embedded metadata.
	SanitizeMetadata(ts time.Time)
	Save(path string) error
}

// GraphNode and GraphEdge describe the co-occurrence graph handed to the
// visualization collaborator and graph stores.
type GraphNode struct {
	Label string `json:"label"`
	Type  string `json:"type"`
}

type GraphEdge struct {
	Source int    `json:"source"` // index into Nodes
	Target int    `json:"target"`
	Weight int    `json:"weight"`
	Sample string `json:"sample,omitempty"`
}

type GraphData struct {
	Nodes       []GraphNode `json:"nodes"`
	Edges       []GraphEdge `json:"edges"`
	GeneratedAt time.Time   `json:"generated_at"`
}

// Visualizer renders the entity relationship graph; absence or failure of
// this collaborator never affects core correctness.
type Visualizer interface {
	Visualize(g *GraphData) error
}

// ReportSink receives the tabular report and the JSON summary.
type ReportSink interface {
	WriteCSV(rows []RedactionRecord) (path string, err error)
	WriteJSON(summary *Summary) (path string, err error)
}

// Summary is the JSON report emitted after processing one document.
type Summary struct {
	TotalPages      int                       `json:"total_pages"`
	TotalDetections int                       `json:"total_detections"`
	TotalCensures   int                       `json:"total_censures"`
	ProcessingMode  Mode                      `json:"processing_mode"`
	Timestamp       time.Time                 `json:"timestamp"`
	DocumentSHA256  string                    `json:"document_sha256,omitempty"`
	GlobalContext   *GlobalContext            `json:"global_context"`
	DetailsByPage   map[int][]RedactionRecord `json:"details_by_page"`
}
