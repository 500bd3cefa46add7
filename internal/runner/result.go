package runner

import (
	"github.com/astdiff-tech/astdiff/pkg/stree"
)

// Status classifies the outcome of a single file comparison.
type Status int

const (
	// StatusEquivalent means both revisions parse to the same tree.
	StatusEquivalent Status = iota
	// StatusDifferent means the trees diverge structurally.
	StatusDifferent
	// StatusSkipped means the file was not compared.
	StatusSkipped
	// StatusParseError means one side failed to parse.
	StatusParseError
	// StatusFetchError means one side could not be read from git.
	StatusFetchError
)

// String returns the console word for the status.
func (s Status) String() string {
	switch s {
	case StatusEquivalent:
		return "ok"
	case StatusDifferent:
		return "failed"
	case StatusSkipped:
		return "skipped"
	case StatusParseError:
		return "failed to parse"
	case StatusFetchError:
		return "git failed"
	default:
		return "unknown"
	}
}

// FileResult is the outcome of comparing one changed file.
type FileResult struct {
	Path     string
	Language string
	Status   Status
	Reason   string          // set when skipped
	Mismatch *stree.Mismatch // set when different
	Err      error           // set for parse and fetch errors
}

// Summary aggregates file results into counts.
type Summary struct {
	Equivalent int
	Different  int
	Skipped    int
	Errored    int
}

// Total returns the number of files that produced a result.
func (s Summary) Total() int {
	return s.Equivalent + s.Different + s.Skipped + s.Errored
}

// Clean reports whether every compared file was equivalent; skipped files
// do not count against a clean run.
func (s Summary) Clean() bool {
	return s.Different == 0 && s.Errored == 0
}

// summarize buckets results into a summary.
func summarize(results []FileResult) Summary {
	var sum Summary

	for _, result := range results {
		switch result.Status {
		case StatusEquivalent:
			sum.Equivalent++
		case StatusDifferent:
			sum.Different++
		case StatusSkipped:
			sum.Skipped++
		case StatusParseError, StatusFetchError:
			sum.Errored++
		}
	}

	return sum
}
