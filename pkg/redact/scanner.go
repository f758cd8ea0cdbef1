package redact

import (
	"context"
	"regexp"
	"sync"
	"time"

	mapset "github.com/deckarep/golang-set/v2"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"

	"github.com/legaltech-cl/redactor/pkg/redact/metrics"
	"github.com/legaltech-cl/redactor/pkg/redact/validators"
)

const (
	defaultChunkSize     = 500_000
	defaultMinConfidence = 0.5
	defaultContextWindow = 60
	defaultNERTimeout    = 30 * time.Second
)

// Pattern sweeps run per chunk; every hit is validated before acceptance, so
// the patterns can stay permissive.
var scanPatterns = []struct {
	category validators.Category
	re       *regexp.Regexp
}{
	{validators.CategoryTaxID, regexp.MustCompile(`\b\d{1,2}\.?\d{3}\.?\d{3}-[\dkK]\b`)},
	{validators.CategoryMonetary, regexp.MustCompile(`(?i)(?:US\$|USD|\$|€)\s?\d[\d.,]*|\b\d[\d.,]*\s?(?:pesos|d[oó]lares|euros)\b`)},
	{validators.CategoryIndexedUnit, regexp.MustCompile(`(?i)\bUF\s*\d[\d.,]*|\d[\d.,]*\s*UF\b`)},
	{validators.CategoryEmail, regexp.MustCompile(`[A-Za-z0-9._%+-]+@[A-Za-z0-9-]+(?:\.[A-Za-z0-9-]+)+`)},
	{validators.CategoryPhone, regexp.MustCompile(`\+?56\s?9\s?\d{4}\s?\d{4}|\b9\d{8}\b|\b2\d{8}\b|\b\d{8}\b`)},
}

// ScanConfig bounds the scan engine. Zero values fall back to defaults.
type ScanConfig struct {
	ChunkSize     int
	MinConfidence float64
	ContextWindow int
	NERTimeout    time.Duration
}

func (c ScanConfig) withDefaults() ScanConfig {
	if c.ChunkSize <= 0 {
		c.ChunkSize = defaultChunkSize
	}
	if c.MinConfidence <= 0 {
		c.MinConfidence = defaultMinConfidence
	}
	if c.ContextWindow <= 0 {
		c.ContextWindow = defaultContextWindow
	}
	if c.NERTimeout <= 0 {
		c.NERTimeout = defaultNERTimeout
	}
	return c
}

// Scanner produces the deduplicated scan-target set for a document. It
// consumes document memory strictly read-only.
type Scanner struct {
	recognizer Recognizer
	validators *validators.Set
	whitelist  *Whitelist
	cfg        ScanConfig
	logger     *logrus.Logger
}

// NewScanner wires a scan engine. recognizer may be nil, in which case only
// pattern sweeps and alias real names contribute targets.
func NewScanner(recognizer Recognizer, vals *validators.Set, whitelist *Whitelist, cfg ScanConfig, logger *logrus.Logger) *Scanner {
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	if whitelist == nil {
		whitelist = DefaultWhitelist()
	}
	return &Scanner{
		recognizer: recognizer,
		validators: vals,
		whitelist:  whitelist,
		cfg:        cfg.withDefaults(),
		logger:     logger,
	}
}

// chunk is a page-aligned slice of the document.
type chunk struct {
	text       string
	pages      []PageText
	pageStarts []int // offset of each page within text
}

// Scan chunks the document, merges recognizer output with validated pattern
// hits, suppresses authority entities, and returns the deduplicated target
// set. Alias real names are always unioned in so legally defined parties are
// covered even when the recognizer misses them on a chunk boundary.
func (s *Scanner) Scan(ctx context.Context, pages []PageText, mem *Memory) (mapset.Set[string], error) {
	timer := prometheus.NewTimer(metrics.ScanDuration.WithLabelValues("scan"))
	defer timer.ObserveDuration()

	targets := mapset.NewSet[string]()
	chunks := buildChunks(pages, s.cfg.ChunkSize)

	var wg sync.WaitGroup
	for i, ch := range chunks {
		// Cancellation is checked at chunk boundaries.
		select {
		case <-ctx.Done():
			wg.Wait()
			return nil, ctx.Err()
		default:
		}

		wg.Add(1)
		go func(idx int, ch chunk) {
			defer wg.Done()
			s.scanChunk(ctx, idx, ch, mem, targets)
		}(i, ch)
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	for _, def := range mem.Aliases() {
		targets.Add(def.RealName)
	}

	s.logger.WithFields(logrus.Fields{
		"chunks":  len(chunks),
		"targets": targets.Cardinality(),
	}).Info("scan completed")

	return targets, nil
}

func buildChunks(pages []PageText, chunkSize int) []chunk {
	var chunks []chunk
	var current chunk

	flush := func() {
		if len(current.pages) > 0 {
			chunks = append(chunks, current)
			current = chunk{}
		}
	}

	for _, p := range pages {
		current.pageStarts = append(current.pageStarts, len(current.text))
		current.pages = append(current.pages, p)
		current.text += p.Text + "\n"
		if len(current.text) >= chunkSize {
			flush()
		}
	}
	flush()
	return chunks
}

func (s *Scanner) scanChunk(ctx context.Context, idx int, ch chunk, mem *Memory, targets mapset.Set[string]) {
	s.runRecognizer(ctx, idx, ch, mem, targets)

	for _, sp := range scanPatterns {
		for _, loc := range sp.re.FindAllStringIndex(ch.text, -1) {
			raw := ch.text[loc[0]:loc[1]]
			window := windowAround(ch.text, loc[0], loc[1], s.cfg.ContextWindow)

			res := s.validators.Validate(sp.category, raw, window)
			if res.Valid && res.Confidence > s.cfg.MinConfidence {
				targets.Add(raw)
				metrics.DetectionsTotal.WithLabelValues(sp.category.String()).Inc()
			}
		}
	}
}

// runRecognizer invokes the NER collaborator for one chunk. Failure is a
// per-chunk skip with a warning, never a document abort.
func (s *Scanner) runRecognizer(ctx context.Context, idx int, ch chunk, mem *Memory, targets mapset.Set[string]) {
	if s.recognizer == nil {
		return
	}

	nerCtx, cancel := context.WithTimeout(ctx, s.cfg.NERTimeout)
	defer cancel()

	entities, err := s.recognizer.Recognize(nerCtx, ch.text)
	if err != nil {
		s.logger.WithError(err).WithField("chunk", idx).Warn("recognizer failed, skipping chunk")
		return
	}

	for _, ent := range entities {
		if ent.Label != LabelPerson && ent.Label != LabelOrganization {
			continue
		}
		if s.whitelist.Match(ent.Text) {
			continue
		}

		page, local := ch.locate(ent.Start)
		if res := mem.Resolve(page, local); res.Bound() && res.Type == Authority {
			continue
		}

		targets.Add(ent.Text)
		metrics.DetectionsTotal.WithLabelValues("ner").Inc()
	}
}

func (ch chunk) locate(offset int) (page, local int) {
	for i := len(ch.pageStarts) - 1; i >= 0; i-- {
		if offset >= ch.pageStarts[i] {
			return ch.pages[i].Number, offset - ch.pageStarts[i]
		}
	}
	if len(ch.pages) > 0 {
		return ch.pages[0].Number, offset
	}
	return 0, offset
}

func windowAround(text string, start, end, window int) string {
	lo := start - window
	if lo < 0 {
		lo = 0
	}
	hi := end + window
	if hi > len(text) {
		hi = len(text)
	}
	return text[lo:hi]
}
