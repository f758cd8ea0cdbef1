package redact

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strconv"

	"github.com/pkg/errors"
)

// csvHeader is the fixed tabular report header.
var csvHeader = []string{"Page", "Detected Data", "Status", "Entity Type", "Is Definition", "Detected Relations"}

// FileReportSink writes the tabular report and JSON summary as files under
// Dir, named after Base.
type FileReportSink struct {
	Dir  string
	Base string
}

// NewFileReportSink creates a file-backed report sink.
func NewFileReportSink(dir, base string) *FileReportSink {
	return &FileReportSink{Dir: dir, Base: base}
}

// WriteCSV writes one row per resolved occurrence.
func (s *FileReportSink) WriteCSV(rows []RedactionRecord) (string, error) {
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return "", errors.Wrap(err, "creating report directory")
	}

	path := filepath.Join(s.Dir, s.Base+"_report.csv")
	f, err := os.Create(path)
	if err != nil {
		return "", errors.Wrap(err, "creating CSV report")
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(csvHeader); err != nil {
		return "", err
	}
	for _, r := range rows {
		record := []string{
			strconv.Itoa(r.Page),
			r.Text,
			string(r.Action),
			string(r.EntityType),
			strconv.FormatBool(r.IsDefinition),
			strconv.Itoa(r.RelationCount),
		}
		if err := w.Write(record); err != nil {
			return "", err
		}
	}
	w.Flush()
	return path, w.Error()
}

// WriteJSON writes the document summary with indentation, mirroring how
// result artifacts are persisted elsewhere in the system.
func (s *FileReportSink) WriteJSON(summary *Summary) (string, error) {
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return "", errors.Wrap(err, "creating report directory")
	}

	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return "", errors.Wrap(err, "encoding summary")
	}

	path := filepath.Join(s.Dir, s.Base+"_summary.json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", errors.Wrap(err, "writing summary")
	}
	return path, nil
}
