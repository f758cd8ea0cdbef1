// Package ner provides named-entity recognizer implementations for the scan
// engine: an in-process model via prose and an LLM-backed alternative.
package ner

import (
	"context"
	"strings"

	"github.com/jdkato/prose/v2"
	"github.com/sirupsen/logrus"

	"github.com/legaltech-cl/redactor/pkg/redact"
)

// Prose is the default in-process recognizer.
type Prose struct {
	logger *logrus.Logger
}

// NewProse creates a prose-backed recognizer.
func NewProse(logger *logrus.Logger) *Prose {
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	return &Prose{logger: logger}
}

// Recognize implements redact.Recognizer. prose does not report spans, so
// offsets are recovered by walking the text forward per surface form.
func (p *Prose) Recognize(ctx context.Context, text string) ([]redact.RecognizedEntity, error) {
	doc, err := prose.NewDocument(text)
	if err != nil {
		return nil, err
	}

	cursor := make(map[string]int)
	var out []redact.RecognizedEntity

	for _, ent := range doc.Entities() {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		label := mapLabel(ent.Label)
		start := strings.Index(text[cursor[ent.Text]:], ent.Text)
		if start < 0 {
			continue
		}
		start += cursor[ent.Text]
		cursor[ent.Text] = start + len(ent.Text)

		out = append(out, redact.RecognizedEntity{
			Text:  ent.Text,
			Label: label,
			Start: start,
			End:   start + len(ent.Text),
		})
	}

	p.logger.WithField("entities", len(out)).Debug("prose recognition completed")
	return out, nil
}

func mapLabel(label string) string {
	switch strings.ToUpper(label) {
	case "PERSON", "PER":
		return redact.LabelPerson
	case "ORG", "ORGANIZATION", "GPE":
		return redact.LabelOrganization
	default:
		return redact.LabelOther
	}
}
