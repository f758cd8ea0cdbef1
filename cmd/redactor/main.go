package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/legaltech-cl/redactor/pkg/redact"
	"github.com/legaltech-cl/redactor/pkg/redact/ner"
	"github.com/legaltech-cl/redactor/pkg/redact/pagesource"
	"github.com/legaltech-cl/redactor/pkg/redact/storage"
	"github.com/legaltech-cl/redactor/pkg/redact/validators"
	"github.com/legaltech-cl/redactor/pkg/redact/visualizer"
)

var (
	inputFile  = flag.String("input", "", "Document to process (.pdf or plain text)")
	outputFile = flag.String("out", "", "Output path (default: <input>.<mode>)")
	mode       = flag.String("mode", "audit", "Processing mode: audit (highlight) or final (redact)")
	reportDir  = flag.String("report-dir", "reports", "Directory for CSV and JSON reports")
	visualize  = flag.Bool("visualize", false, "Write an HTML relationship map next to the reports")
	logLevel   = flag.String("log-level", "info", "Logging level (debug, info, warn, error)")
	envFile    = flag.String("env", ".env", "Path to environment file")
)

func main() {
	flag.Parse()

	logger := logrus.New()
	level, err := logrus.ParseLevel(*logLevel)
	if err != nil {
		logger.Fatalf("Invalid log level: %v", err)
	}
	logger.SetLevel(level)
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp: true,
	})

	if err := godotenv.Load(*envFile); err != nil {
		logger.Debugf("No env file loaded from %s: %v", *envFile, err)
	}

	if *inputFile == "" {
		logger.Fatal("Input document must be specified")
	}

	procMode := redact.Mode(strings.ToLower(*mode))
	if procMode != redact.ModeAudit && procMode != redact.ModeFinal {
		logger.Fatalf("Unknown mode %q, expected audit or final", *mode)
	}

	outPath := *outputFile
	if outPath == "" {
		outPath = *inputFile + "." + string(procMode)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	doc, reopen, err := openDocument(*inputFile)
	if err != nil {
		logger.Fatalf("Failed to open document: %v", err)
	}

	jobID := uuid.New().String()
	base := strings.TrimSuffix(filepath.Base(*inputFile), filepath.Ext(*inputFile)) + "_" + jobID[:8]

	scanner := redact.NewScanner(
		buildRecognizer(logger),
		validators.NewSet(validators.DefaultWeights(), logger),
		redact.DefaultWhitelist(),
		redact.ScanConfig{},
		logger,
	)

	pipeline := redact.NewPipeline(scanner, redact.NewFileReportSink(*reportDir, base), redact.PipelineConfig{
		Mode: procMode,
	}, logger)
	pipeline.Reopen = reopen

	if binary := os.Getenv("OCR_BINARY"); binary != "" {
		pipeline.OCR = pagesource.NewCommandOCR(binary, strings.Fields(os.Getenv("OCR_ARGS")), logger)
	}
	if *visualize {
		pipeline.Visualizer = visualizer.NewD3(filepath.Join(*reportDir, base+"_relations.html"))
	}

	logger.WithFields(logrus.Fields{
		"job":   jobID,
		"input": *inputFile,
		"mode":  procMode,
	}).Info("Processing document")

	res, err := pipeline.Process(ctx, doc, outPath)
	if err != nil {
		if res != nil {
			logger.Errorf("Report writing failed: %v", err)
		} else {
			logger.Fatalf("Processing failed: %v", err)
		}
	}

	logger.Infof("Output written to %s", res.OutputPath)
	if res.CSVPath != "" {
		logger.Infof("Reports written to %s and %s", res.CSVPath, res.JSONPath)
	}

	persistGraph(ctx, res, logger)
}

// openDocument picks the page source by extension and returns the reopen
// function OCR fallback uses for its result.
func openDocument(path string) (redact.Document, func(string) (redact.Document, error), error) {
	if strings.EqualFold(filepath.Ext(path), ".pdf") {
		doc, err := pagesource.OpenPDF(path)
		return doc, func(p string) (redact.Document, error) { return pagesource.OpenPDF(p) }, err
	}
	doc, err := pagesource.OpenText(path)
	return doc, func(p string) (redact.Document, error) { return pagesource.OpenText(p) }, err
}

// buildRecognizer prefers the LLM recognizer when credentials are present
// and falls back to the in-process model.
func buildRecognizer(logger *logrus.Logger) redact.Recognizer {
	if os.Getenv("OPENAI_API_KEY") != "" {
		logger.Info("Using LLM entity recognizer")
		return ner.NewOpenAI(ner.DefaultOpenAIClient(), os.Getenv("OPENAI_MODEL"), logger)
	}
	return ner.NewProse(logger)
}

// persistGraph mirrors the relationship graph into Neo4j when configured;
// failures never affect the primary deliverable.
func persistGraph(ctx context.Context, res *redact.Result, logger *logrus.Logger) {
	uri := os.Getenv("NEO4J_URI")
	if uri == "" || res == nil || res.Memory == nil {
		return
	}

	store, err := storage.NewNeo4jStore(uri, os.Getenv("NEO4J_USERNAME"), os.Getenv("NEO4J_PASSWORD"))
	if err != nil {
		logger.Errorf("Failed to create Neo4j store: %v", err)
		return
	}
	defer store.Close()

	if err := store.Connect(ctx); err != nil {
		logger.Errorf("Failed to connect to Neo4j: %v", err)
		return
	}
	if err := store.StoreGraph(ctx, res.Memory.GraphData()); err != nil {
		logger.Errorf("Failed to store relationship graph: %v", err)
		return
	}
	logger.Info("Relationship graph stored in Neo4j")
}
