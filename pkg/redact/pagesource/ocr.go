package pagesource

import (
	"context"
	"os/exec"

	"github.com/sirupsen/logrus"
)

// CommandOCR shells out to an OCR binary (ocrmypdf-style invocation:
// extra args, then source, then destination). Failure is reported through
// the sentinel return so the caller can fall back to the original
// extraction.
type CommandOCR struct {
	Binary string
	Args   []string
	logger *logrus.Logger
}

// NewCommandOCR builds an exec-based OCR engine.
func NewCommandOCR(binary string, args []string, logger *logrus.Logger) *CommandOCR {
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	return &CommandOCR{Binary: binary, Args: args, logger: logger}
}

// OCR runs the binary against sourcePath, writing sourcePath+".ocr" plus
// the source extension's suffix.
func (c *CommandOCR) OCR(ctx context.Context, sourcePath string) (string, bool) {
	if c.Binary == "" {
		return "", false
	}

	resultPath := sourcePath + ".ocr.pdf"
	args := append(append([]string{}, c.Args...), sourcePath, resultPath)

	cmd := exec.CommandContext(ctx, c.Binary, args...)
	if out, err := cmd.CombinedOutput(); err != nil {
		c.logger.WithError(err).WithFields(logrus.Fields{
			"binary": c.Binary,
			"source": sourcePath,
			"output": string(out),
		}).Warn("OCR command failed")
		return "", false
	}
	return resultPath, true
}
