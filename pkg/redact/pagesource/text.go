// Package pagesource provides Document implementations for the redaction
// pipeline: an in-memory text source with fully functional redaction
// semantics, a PDF read source, and an exec-based OCR engine.
package pagesource

import (
	"os"
	"sort"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/pkg/errors"

	"github.com/legaltech-cl/redactor/pkg/redact"
)

const redactionRune = "█"

// sanitizedPlaceholder replaces every descriptive metadata field.
const sanitizedPlaceholder = "CONFIDENCIAL"

// TextPage is one page of a plain-text document. Boxes use character
// offsets: X0/X1 are the byte range of the occurrence, Y values are zero.
type TextPage struct {
	number     int
	text       string
	highlights []redact.Box
	pending    []redact.Box
	committed  bool
}

func (p *TextPage) Number() int  { return p.number }
func (p *TextPage) Text() string { return p.text }

// Search returns one box per occurrence, in reading order.
func (p *TextPage) Search(text string) []redact.Box {
	if text == "" {
		return nil
	}
	var boxes []redact.Box
	idx := 0
	for {
		i := strings.Index(p.text[idx:], text)
		if i < 0 {
			return boxes
		}
		start := idx + i
		boxes = append(boxes, redact.Box{X0: float64(start), X1: float64(start + len(text))})
		idx = start + len(text)
	}
}

// AddHighlight records a non-destructive review mark.
func (p *TextPage) AddHighlight(b redact.Box) error {
	p.highlights = append(p.highlights, b)
	return nil
}

// AddRedaction queues a destructive redaction for ApplyRedactions.
func (p *TextPage) AddRedaction(b redact.Box) error {
	if p.committed {
		return errors.New("page redactions already committed")
	}
	p.pending = append(p.pending, b)
	return nil
}

// ApplyRedactions irreversibly obscures every queued range with block
// characters. Ranges are applied back to front so earlier offsets stay
// valid.
func (p *TextPage) ApplyRedactions() error {
	sort.Slice(p.pending, func(i, j int) bool { return p.pending[i].X0 > p.pending[j].X0 })

	for _, b := range p.pending {
		start, end := int(b.X0), int(b.X1)
		if start < 0 || end > len(p.text) || start >= end {
			continue
		}
		runes := utf8.RuneCountInString(p.text[start:end])
		p.text = p.text[:start] + strings.Repeat(redactionRune, runes) + p.text[end:]
	}
	p.pending = nil
	p.committed = true
	return nil
}

// Highlights exposes recorded review marks.
func (p *TextPage) Highlights() []redact.Box { return p.highlights }

// TextDocument is an in-memory, form-feed paginated text document.
type TextDocument struct {
	path     string
	pages    []*TextPage
	metadata map[string]string
}

// NewTextDocument builds a document from explicit page texts. Pages are
// numbered from 1.
func NewTextDocument(path string, pageTexts []string) *TextDocument {
	doc := &TextDocument{
		path: path,
		metadata: map[string]string{
			"title": "", "author": "", "subject": "", "keywords": "",
			"creator": "", "producer": "", "creationDate": "", "modDate": "",
		},
	}
	for i, t := range pageTexts {
		doc.pages = append(doc.pages, &TextPage{number: i + 1, text: t})
	}
	return doc
}

// OpenText reads a plain-text document, splitting pages on form feeds.
func OpenText(path string) (*TextDocument, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "reading text document")
	}
	return NewTextDocument(path, strings.Split(string(data), "\f")), nil
}

func (d *TextDocument) Path() string { return d.path }

func (d *TextDocument) Pages() []redact.Page {
	pages := make([]redact.Page, len(d.pages))
	for i, p := range d.pages {
		pages[i] = p
	}
	return pages
}

// SanitizeMetadata replaces descriptive fields with fixed placeholders and
// stamps date fields with the sanitization time.
func (d *TextDocument) SanitizeMetadata(ts time.Time) {
	stamp := ts.Format(time.RFC3339)
	for key := range d.metadata {
		if strings.Contains(strings.ToLower(key), "date") {
			d.metadata[key] = stamp
		} else {
			d.metadata[key] = sanitizedPlaceholder
		}
	}
}

// Metadata exposes the current metadata map.
func (d *TextDocument) Metadata() map[string]string { return d.metadata }

// Save writes the current page texts, form-feed separated.
func (d *TextDocument) Save(path string) error {
	texts := make([]string, len(d.pages))
	for i, p := range d.pages {
		texts[i] = p.text
	}
	return errors.Wrap(os.WriteFile(path, []byte(strings.Join(texts, "\f")), 0o644), "writing text document")
}
