package redact

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"github.com/legaltech-cl/redactor/pkg/redact/metrics"
)

const defaultMinDocChars = 100

// PipelineConfig controls one document run.
type PipelineConfig struct {
	Mode Mode
	// MinDocChars is the whole-document text length under which extraction
	// is considered implausible and OCR is attempted.
	MinDocChars int
}

func (c PipelineConfig) withDefaults() PipelineConfig {
	if c.Mode == "" {
		c.Mode = ModeAudit
	}
	if c.MinDocChars <= 0 {
		c.MinDocChars = defaultMinDocChars
	}
	return c
}

// Pipeline orchestrates a document end to end: memory build, scan, per-page
// occurrence resolution and visual action, metadata sanitization and report
// assembly. OCR, Reopen and Visualizer are optional collaborators.
type Pipeline struct {
	scanner *Scanner
	sink    ReportSink
	cfg     PipelineConfig
	logger  *logrus.Logger

	// OCR is invoked when extracted text for the whole document is
	// implausibly short; Reopen turns its result path back into a Document.
	OCR    OCREngine
	Reopen func(path string) (Document, error)

	// Visualizer receives the relationship graph after processing;
	// failures are logged, never propagated.
	Visualizer Visualizer
}

// Result is the outcome of one document run.
type Result struct {
	OutputPath string
	CSVPath    string
	JSONPath   string
	Records    []RedactionRecord
	Summary    *Summary
	Memory     *Memory
}

// NewPipeline wires a redaction pipeline around a scan engine and a report
// sink.
func NewPipeline(scanner *Scanner, sink ReportSink, cfg PipelineConfig, logger *logrus.Logger) *Pipeline {
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	return &Pipeline{
		scanner: scanner,
		sink:    sink,
		cfg:     cfg.withDefaults(),
		logger:  logger,
	}
}

// NeedsOCR reports whether the extracted text of a whole document is too
// short to be a plausible extraction.
func NeedsOCR(pages []PageText, minChars int) bool {
	if minChars <= 0 {
		minChars = defaultMinDocChars
	}
	total := 0
	for _, p := range pages {
		total += len(strings.TrimSpace(p.Text))
	}
	return total < minChars
}

// Process runs the full pipeline on one document, writing the mode's output
// to outPath after completion. A non-nil Result may accompany a report I/O
// error: the sanitized document is the primary deliverable.
func (p *Pipeline) Process(ctx context.Context, doc Document, outPath string) (*Result, error) {
	timer := prometheus.NewTimer(metrics.ScanDuration.WithLabelValues("pipeline"))
	defer timer.ObserveDuration()

	docPages := doc.Pages()
	if len(docPages) == 0 {
		metrics.DocumentsProcessed.WithLabelValues("error").Inc()
		return nil, errors.Errorf("document %s has no pages", doc.Path())
	}

	pages := extractText(docPages)
	doc, docPages, pages = p.maybeOCR(ctx, doc, docPages, pages)

	mem := BuildMemory(pages, p.logger)
	metrics.GraphNodeCount.Set(float64(len(mem.Entities())))
	metrics.GraphEdgeCount.Set(float64(mem.Graph().EdgeCount()))

	targets, err := p.scanner.Scan(ctx, pages, mem)
	if err != nil {
		metrics.DocumentsProcessed.WithLabelValues("cancelled").Inc()
		return nil, errors.Wrap(err, "scanning document")
	}

	targetList := targets.ToSlice()
	sort.Strings(targetList)

	records, err := p.redactPages(ctx, docPages, pages, targetList, mem)
	if err != nil {
		metrics.DocumentsProcessed.WithLabelValues("cancelled").Inc()
		return nil, err
	}

	if p.cfg.Mode == ModeFinal {
		for _, page := range docPages {
			if err := page.ApplyRedactions(); err != nil {
				metrics.DocumentsProcessed.WithLabelValues("error").Inc()
				return nil, errors.Wrapf(err, "committing redactions on page %d", page.Number())
			}
		}
		doc.SanitizeMetadata(time.Now())
	}

	if err := doc.Save(outPath); err != nil {
		metrics.DocumentsProcessed.WithLabelValues("error").Inc()
		return nil, errors.Wrapf(err, "saving %s output", p.cfg.Mode)
	}

	res := &Result{
		OutputPath: outPath,
		Records:    records,
		Memory:     mem,
		Summary:    p.buildSummary(doc, pages, records, mem),
	}

	p.visualize(mem)
	metrics.DocumentsProcessed.WithLabelValues("success").Inc()

	if p.sink != nil {
		if res.CSVPath, err = p.sink.WriteCSV(records); err != nil {
			return res, errors.Wrap(err, "writing CSV report")
		}
		if res.JSONPath, err = p.sink.WriteJSON(res.Summary); err != nil {
			return res, errors.Wrap(err, "writing JSON summary")
		}
	}

	return res, nil
}

func extractText(docPages []Page) []PageText {
	pages := make([]PageText, len(docPages))
	for i, pg := range docPages {
		pages[i] = PageText{Number: pg.Number(), Text: pg.Text()}
	}
	return pages
}

// maybeOCR attempts OCR when the extraction is implausibly short. Failure
// falls back to the original extraction rather than aborting.
func (p *Pipeline) maybeOCR(ctx context.Context, doc Document, docPages []Page, pages []PageText) (Document, []Page, []PageText) {
	if p.OCR == nil || !NeedsOCR(pages, p.cfg.MinDocChars) {
		return doc, docPages, pages
	}

	resultPath, ok := p.OCR.OCR(ctx, doc.Path())
	if !ok {
		p.logger.WithField("doc", doc.Path()).Warn("OCR failed, processing original extraction")
		return doc, docPages, pages
	}
	if p.Reopen == nil {
		return doc, docPages, pages
	}

	reopened, err := p.Reopen(resultPath)
	if err != nil {
		p.logger.WithError(err).Warn("reopening OCR result failed, processing original extraction")
		return doc, docPages, pages
	}

	newPages := reopened.Pages()
	p.logger.WithField("doc", resultPath).Info("processing OCR result")
	return reopened, newPages, extractText(newPages)
}

// redactPages resolves and acts on every occurrence of every target, page by
// page. Pages are read-disjoint so they are processed concurrently; records
// are merged back in page order for deterministic output.
func (p *Pipeline) redactPages(ctx context.Context, docPages []Page, pages []PageText, targets []string, mem *Memory) ([]RedactionRecord, error) {
	perPage := make([][]RedactionRecord, len(docPages))

	var wg sync.WaitGroup
	for i := range docPages {
		// Cancellation is checked at page boundaries.
		select {
		case <-ctx.Done():
			wg.Wait()
			return nil, ctx.Err()
		default:
		}

		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			perPage[idx] = p.redactPage(docPages[idx], pages[idx], targets, mem)
		}(i)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var records []RedactionRecord
	for _, rs := range perPage {
		records = append(records, rs...)
	}
	return records, nil
}

func (p *Pipeline) redactPage(page Page, text PageText, targets []string, mem *Memory) []RedactionRecord {
	var records []RedactionRecord

	for _, target := range targets {
		search := target
		offsets := findOccurrences(text.Text, search)
		if len(offsets) == 0 {
			// Tolerate line-wrap artifacts: retry with the
			// whitespace-normalized form.
			if normalized := normalizeWhitespace(target); normalized != target {
				search = normalized
				offsets = findOccurrences(text.Text, search)
			}
		}
		if len(offsets) == 0 {
			continue
		}

		boxes := page.Search(search)

		for i, offset := range offsets {
			res := mem.Resolve(text.Number, offset)
			isAuthority := (res.Bound() && res.Type == Authority) || p.scanner.whitelist.Match(target)

			record := RedactionRecord{
				Page: text.Number,
				Text: search,
			}
			if res.Bound() {
				record.EntityType = res.Type
				record.IsDefinition = res.IsDefinition
				record.RelationCount = mem.RelationCount(res.Entity.Name)
			}

			if isAuthority {
				record.Action = ActionSkippedAuthority
				record.EntityType = Authority
				records = append(records, record)
				metrics.RedactionActions.WithLabelValues(string(ActionSkippedAuthority)).Inc()
				continue
			}

			if i < len(boxes) {
				if err := p.applyVisual(page, boxes[i]); err != nil {
					p.logger.WithError(err).WithFields(logrus.Fields{
						"page": text.Number,
						"text": search,
					}).Warn("visual action failed, occurrence recorded with no action")
					continue
				}
			}

			if p.cfg.Mode == ModeFinal {
				record.Action = ActionRedacted
			} else {
				record.Action = ActionHighlighted
			}
			records = append(records, record)
			metrics.RedactionActions.WithLabelValues(string(record.Action)).Inc()
		}
	}
	return records
}

func (p *Pipeline) applyVisual(page Page, b Box) error {
	if p.cfg.Mode == ModeFinal {
		return page.AddRedaction(b)
	}
	return page.AddHighlight(b)
}

func (p *Pipeline) buildSummary(doc Document, pages []PageText, records []RedactionRecord, mem *Memory) *Summary {
	byPage := make(map[int][]RedactionRecord)
	censures := 0
	for _, r := range records {
		byPage[r.Page] = append(byPage[r.Page], r)
		if r.Action != ActionSkippedAuthority {
			censures++
		}
	}

	return &Summary{
		TotalPages:      len(pages),
		TotalDetections: len(records),
		TotalCensures:   censures,
		ProcessingMode:  p.cfg.Mode,
		Timestamp:       time.Now(),
		DocumentSHA256:  fileSHA256(doc.Path()),
		GlobalContext:   mem.Snapshot(),
		DetailsByPage:   byPage,
	}
}

// visualize requests a relationship visualization when any entity was
// registered; best-effort only.
func (p *Pipeline) visualize(mem *Memory) {
	if p.Visualizer == nil || len(mem.Entities()) == 0 {
		return
	}
	if err := p.Visualizer.Visualize(mem.GraphData()); err != nil {
		p.logger.WithError(err).Warn("relationship visualization failed")
	}
}

func findOccurrences(text, target string) []int {
	if target == "" {
		return nil
	}
	var offsets []int
	idx := 0
	for {
		i := strings.Index(text[idx:], target)
		if i < 0 {
			return offsets
		}
		offsets = append(offsets, idx+i)
		idx += i + len(target)
	}
}

func normalizeWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func fileSHA256(path string) string {
	f, err := os.Open(path)
	if err != nil {
		return ""
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return ""
	}
	return hex.EncodeToString(h.Sum(nil))
}
