// Package report renders comparison results for people and machines.
package report

import (
	"fmt"
	"io"
	"time"

	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"

	"github.com/astdiff-tech/astdiff/internal/runner"
)

// Reporter writes human-readable comparison output.
type Reporter struct {
	out io.Writer
}

// NewReporter creates a reporter writing to out.
func NewReporter(out io.Writer) *Reporter {
	return &Reporter{out: out}
}

// File writes the status line for one compared file. Mismatch and git
// details follow on their own line; parse failures carry no detail.
func (r *Reporter) File(result runner.FileResult) {
	color.New(color.FgCyan).Fprintf(r.out, "Checking %s ... ", result.Path)

	switch result.Status {
	case runner.StatusEquivalent:
		color.New(color.FgGreen).Fprintln(r.out, result.Status)
	case runner.StatusDifferent:
		color.New(color.FgRed, color.Bold).Fprintln(r.out, result.Status)

		if result.Mismatch != nil {
			color.New(color.FgYellow).Fprintln(r.out, result.Mismatch.Error())
		}
	case runner.StatusSkipped:
		color.New(color.Faint).Fprintf(r.out, "%s (%s)\n", result.Status, result.Reason)
	case runner.StatusParseError:
		color.New(color.FgRed, color.Bold).Fprintln(r.out, result.Status)
	case runner.StatusFetchError:
		color.New(color.FgYellow, color.Bold).Fprintln(r.out, result.Status)

		if result.Err != nil {
			color.New(color.FgYellow).Fprintln(r.out, result.Err.Error())
		}
	default:
		fmt.Fprintln(r.out, result.Status)
	}
}

// Summary writes the run totals as a table followed by the verdict.
func (r *Reporter) Summary(sum runner.Summary, elapsed time.Duration) {
	if sum.Total() == 0 {
		fmt.Fprintln(r.out, "No files to compare.")

		return
	}

	tbl := table.NewWriter()
	tbl.SetStyle(table.StyleLight)
	tbl.AppendHeader(table.Row{"Status", "Files"})
	tbl.AppendRow(table.Row{"ok", sum.Equivalent})
	tbl.AppendRow(table.Row{"failed", sum.Different})
	tbl.AppendRow(table.Row{"skipped", sum.Skipped})
	tbl.AppendRow(table.Row{"errors", sum.Errored})
	tbl.AppendFooter(table.Row{"total", sum.Total()})

	fmt.Fprintln(r.out, tbl.Render())

	rounded := elapsed.Round(time.Millisecond)
	if sum.Clean() {
		color.New(color.FgGreen).Fprintf(r.out, "No semantic changes detected in %s.\n", rounded)
	} else {
		color.New(color.FgRed, color.Bold).Fprintf(r.out, "Semantic changes or errors detected in %s.\n", rounded)
	}
}
