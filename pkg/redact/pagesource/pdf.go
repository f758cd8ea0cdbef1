package pagesource

import (
	"encoding/json"
	"io"
	"math"
	"os"
	"strings"
	"time"

	"github.com/ledongthuc/pdf"
	"github.com/pkg/errors"

	"github.com/legaltech-cl/redactor/pkg/redact"
)

// pdfFragment is one positioned text run, with its byte offset into the
// page's assembled text.
type pdfFragment struct {
	start int
	end   int
	box   redact.Box
}

// PDFPage extracts positioned text once at open time. The underlying reader
// is read-only, so visual actions are recorded as annotation intents and
// exported by the document as a sidecar for the host's annotation primitive.
type PDFPage struct {
	number    int
	text      string
	fragments []pdfFragment

	highlights []redact.Box
	pending    []redact.Box
	committed  []redact.Box
}

func (p *PDFPage) Number() int  { return p.number }
func (p *PDFPage) Text() string { return p.text }

// Search locates occurrences in the assembled text and unions the boxes of
// the fragments the range spans.
func (p *PDFPage) Search(text string) []redact.Box {
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
		boxes = append(boxes, p.rangeBox(start, start+len(text)))
		idx = start + len(text)
	}
}

func (p *PDFPage) rangeBox(start, end int) redact.Box {
	box := redact.Box{X0: math.Inf(1), Y0: math.Inf(1), X1: math.Inf(-1), Y1: math.Inf(-1)}
	hit := false
	for _, f := range p.fragments {
		if f.end <= start || f.start >= end {
			continue
		}
		hit = true
		box.X0 = math.Min(box.X0, f.box.X0)
		box.Y0 = math.Min(box.Y0, f.box.Y0)
		box.X1 = math.Max(box.X1, f.box.X1)
		box.Y1 = math.Max(box.Y1, f.box.Y1)
	}
	if !hit {
		return redact.Box{}
	}
	return box
}

func (p *PDFPage) AddHighlight(b redact.Box) error {
	p.highlights = append(p.highlights, b)
	return nil
}

func (p *PDFPage) AddRedaction(b redact.Box) error {
	p.pending = append(p.pending, b)
	return nil
}

// ApplyRedactions promotes pending redactions to committed annotation
// intents. The visual commit itself happens in the host's PDF layer when the
// sidecar is applied.
func (p *PDFPage) ApplyRedactions() error {
	p.committed = append(p.committed, p.pending...)
	p.pending = nil
	return nil
}

// annotationSidecar is the exported record of all visual actions and the
// sanitized metadata, consumed by the annotation primitive downstream.
type annotationSidecar struct {
	Source      string             `json:"source"`
	SanitizedAt string             `json:"sanitized_at,omitempty"`
	Metadata    map[string]string  `json:"metadata,omitempty"`
	Pages       []sidecarPageEntry `json:"pages"`
}

type sidecarPageEntry struct {
	Page       int          `json:"page"`
	Highlights []redact.Box `json:"highlights,omitempty"`
	Redactions []redact.Box `json:"redactions,omitempty"`
}

// PDFDocument reads text and positions from a PDF. It never mutates the
// source bytes: Save copies them and writes the annotation sidecar next to
// the copy.
type PDFDocument struct {
	path        string
	pages       []*PDFPage
	metadata    map[string]string
	sanitizedAt time.Time
}

// OpenPDF opens a PDF and extracts per-page positioned text.
func OpenPDF(path string) (*PDFDocument, error) {
	f, r, err := pdf.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "opening PDF")
	}
	defer f.Close()

	doc := &PDFDocument{path: path, metadata: map[string]string{}}

	for i := 1; i <= r.NumPage(); i++ {
		src := r.Page(i)
		page := &PDFPage{number: i}
		if !src.V.IsNull() {
			var text []byte
			for _, t := range src.Content().Text {
				page.fragments = append(page.fragments, pdfFragment{
					start: len(text),
					end:   len(text) + len(t.S),
					box:   redact.Box{X0: t.X, Y0: t.Y, X1: t.X + t.W, Y1: t.Y + t.FontSize},
				})
				text = append(text, t.S...)
			}
			page.text = string(text)
		}
		doc.pages = append(doc.pages, page)
	}
	return doc, nil
}

func (d *PDFDocument) Path() string { return d.path }

func (d *PDFDocument) Pages() []redact.Page {
	pages := make([]redact.Page, len(d.pages))
	for i, p := range d.pages {
		pages[i] = p
	}
	return pages
}

// SanitizeMetadata records the replacement metadata exported with the
// sidecar. Descriptive fields become fixed placeholders, dates become the
// sanitization stamp.
func (d *PDFDocument) SanitizeMetadata(ts time.Time) {
	d.sanitizedAt = ts
	stamp := ts.Format(time.RFC3339)
	d.metadata = map[string]string{
		"title": sanitizedPlaceholder, "author": sanitizedPlaceholder,
		"subject": sanitizedPlaceholder, "keywords": sanitizedPlaceholder,
		"creator": sanitizedPlaceholder, "producer": sanitizedPlaceholder,
		"creationDate": stamp, "modDate": stamp,
	}
}

// Save copies the source PDF to path and writes path+".annotations.json"
// with every recorded visual action.
func (d *PDFDocument) Save(path string) error {
	if err := copyFile(d.path, path); err != nil {
		return errors.Wrap(err, "copying PDF")
	}

	sidecar := annotationSidecar{Source: d.path, Metadata: d.metadata}
	if !d.sanitizedAt.IsZero() {
		sidecar.SanitizedAt = d.sanitizedAt.Format(time.RFC3339)
	}
	for _, p := range d.pages {
		if len(p.highlights) == 0 && len(p.committed) == 0 && len(p.pending) == 0 {
			continue
		}
		sidecar.Pages = append(sidecar.Pages, sidecarPageEntry{
			Page:       p.number,
			Highlights: p.highlights,
			Redactions: append(append([]redact.Box(nil), p.committed...), p.pending...),
		})
	}

	data, err := json.MarshalIndent(sidecar, "", "  ")
	if err != nil {
		return errors.Wrap(err, "encoding annotation sidecar")
	}
	return errors.Wrap(os.WriteFile(path+".annotations.json", data, 0o644), "writing annotation sidecar")
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
