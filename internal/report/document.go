package report

import (
	"encoding/json"
	"fmt"
	"io"

	"gopkg.in/yaml.v3"

	"github.com/astdiff-tech/astdiff/internal/runner"
	"github.com/astdiff-tech/astdiff/pkg/gitsrc"
)

// Document is the machine-readable form of one comparison run.
type Document struct {
	Base    string        `json:"base"    yaml:"base"`
	Target  string        `json:"target"  yaml:"target"`
	Files   []FileRecord  `json:"files"   yaml:"files"`
	Summary SummaryRecord `json:"summary" yaml:"summary"`
}

// FileRecord is the machine-readable outcome for one file.
type FileRecord struct {
	Path      string `json:"path"                 yaml:"path"`
	Language  string `json:"language,omitempty"   yaml:"language,omitempty"`
	Status    string `json:"status"               yaml:"status"`
	Detail    string `json:"detail,omitempty"     yaml:"detail,omitempty"`
	LeftLine  int    `json:"left_line,omitempty"  yaml:"left_line,omitempty"`
	RightLine int    `json:"right_line,omitempty" yaml:"right_line,omitempty"`
}

// SummaryRecord carries the run totals.
type SummaryRecord struct {
	Equivalent int  `json:"equivalent" yaml:"equivalent"`
	Different  int  `json:"different"  yaml:"different"`
	Skipped    int  `json:"skipped"    yaml:"skipped"`
	Errors     int  `json:"errors"     yaml:"errors"`
	Clean      bool `json:"clean"      yaml:"clean"`
}

// BuildDocument converts runner output into a document. An empty target
// revision is recorded as "worktree".
func BuildDocument(pair gitsrc.RevisionPair, results []runner.FileResult, sum runner.Summary) Document {
	target := pair.Target
	if pair.Worktree() {
		target = "worktree"
	}

	files := make([]FileRecord, 0, len(results))
	for _, result := range results {
		files = append(files, fileRecord(result))
	}

	return Document{
		Base:   pair.Base,
		Target: target,
		Files:  files,
		Summary: SummaryRecord{
			Equivalent: sum.Equivalent,
			Different:  sum.Different,
			Skipped:    sum.Skipped,
			Errors:     sum.Errored,
			Clean:      sum.Clean(),
		},
	}
}

func fileRecord(result runner.FileResult) FileRecord {
	record := FileRecord{
		Path:     result.Path,
		Language: result.Language,
		Status:   statusToken(result.Status),
	}

	switch {
	case result.Mismatch != nil:
		record.Detail = result.Mismatch.Error()
		record.LeftLine = result.Mismatch.LeftLine
		record.RightLine = result.Mismatch.RightLine
	case result.Err != nil:
		record.Detail = result.Err.Error()
	case result.Reason != "":
		record.Detail = result.Reason
	}

	return record
}

// statusToken maps statuses onto stable machine names, kept independent of
// the console wording.
func statusToken(status runner.Status) string {
	switch status {
	case runner.StatusEquivalent:
		return "equivalent"
	case runner.StatusDifferent:
		return "different"
	case runner.StatusSkipped:
		return "skipped"
	case runner.StatusParseError:
		return "parse_error"
	case runner.StatusFetchError:
		return "fetch_error"
	default:
		return "unknown"
	}
}

// WriteJSON writes the document as indented JSON.
func WriteJSON(w io.Writer, doc Document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal document: %w", err)
	}

	if _, err := fmt.Fprintln(w, string(data)); err != nil {
		return fmt.Errorf("write document: %w", err)
	}

	return nil
}

// WriteYAML writes the document as YAML.
func WriteYAML(w io.Writer, doc Document) error {
	data, err := yaml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal document: %w", err)
	}

	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write document: %w", err)
	}

	return nil
}
