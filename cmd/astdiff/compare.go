package main

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/astdiff-tech/astdiff/internal/config"
	"github.com/astdiff-tech/astdiff/internal/logging"
	"github.com/astdiff-tech/astdiff/internal/report"
	"github.com/astdiff-tech/astdiff/internal/runner"
	"github.com/astdiff-tech/astdiff/pkg/gitsrc"
	"github.com/astdiff-tech/astdiff/pkg/lang"
	"github.com/astdiff-tech/astdiff/pkg/lang/golang"
	"github.com/astdiff-tech/astdiff/pkg/lang/python"
)

// Output formats for comparison results.
const (
	formatText = "text"
	formatJSON = "json"
	formatYAML = "yaml"
)

var (
	// errDifferencesFound signals that the comparison ran to completion but
	// found semantic changes or errors. It maps to exit code 1 without an
	// error message.
	errDifferencesFound = errors.New("differences found")

	errUnsupportedFormat = errors.New("unsupported output format")
)

// CompareCommand holds the flags of the compare subcommand.
type CompareCommand struct {
	format      string
	repoPath    string
	workers     int
	languages   []string
	maxFileSize string
}

func newCompareCmd() *cobra.Command {
	compareCmd := &CompareCommand{}

	cmd := &cobra.Command{
		Use:   "compare [base] [target]",
		Short: "Compare the syntax trees of files changed between two revisions",
		Long: `Compare parses both revisions of every changed file and reports whether
the change altered program semantics or only its formatting.

Revisions are chosen from the arguments:

  (none)       compare HEAD against the working tree
  REV          compare REV~1 against REV ("@" is an alias for HEAD)
  BASE TARGET  compare BASE against TARGET ("." as TARGET means the
               working tree)

The command exits 0 when every change is formatting-only and 1 otherwise.`,
		Args: cobra.MaximumNArgs(2),
		RunE: compareCmd.run,
	}

	cmd.Flags().StringVar(&compareCmd.format, "format", formatText, "Output format: text, json, yaml")
	cmd.Flags().StringVarP(&compareCmd.repoPath, "repo", "p", "", "Path to the repository (default is the working directory)")
	cmd.Flags().IntVar(&compareCmd.workers, "workers", 0, "Number of concurrent comparisons (default is the CPU count)")
	cmd.Flags().StringSliceVarP(&compareCmd.languages, "language", "l", nil, "Languages to compare (default is all supported)")
	cmd.Flags().StringVar(&compareCmd.maxFileSize, "max-file-size", "", "Largest file to compare, e.g. 512KB (default 1MB)")

	return cmd
}

func (cc *CompareCommand) run(cmd *cobra.Command, args []string) error {
	pair, err := gitsrc.ParseRevisions(args)
	if err != nil {
		return err
	}

	cfg, err := config.LoadConfig(cfgFile)
	if err != nil {
		return err
	}

	err = cc.applyOverrides(cmd, cfg)
	if err != nil {
		return err
	}

	if cfg.Output.NoColor {
		color.NoColor = true //nolint:reassign // intentional override of library global
	}

	logLevel := cfg.Logging.Level
	if verbose {
		logLevel = "debug"
	}

	logger := logging.New(logLevel, cfg.Logging.Format)

	repo, err := gitsrc.Discover(cfg.Repository.Path)
	if err != nil {
		return err
	}
	defer repo.Free()

	opts := runner.Options{
		Languages:    cfg.Compare.Languages,
		SkipPrefixes: cfg.Compare.SkipPrefixes,
		NameFilter:   cfg.NameFilter(),
		SkipVendored: cfg.Compare.SkipVendored,
		MaxFileSize:  cfg.MaxFileSizeBytes(),
		Workers:      cfg.Compare.Workers,
	}

	registry := lang.NewRegistry(golang.New(), python.New())
	compareRunner := runner.New(repo, registry, opts, logger)

	started := time.Now()

	results, sum, err := compareRunner.Run(cmd.Context(), pair)
	if err != nil {
		return err
	}

	err = renderReport(cmd.OutOrStdout(), cfg.Output.Format, pair, results, sum, time.Since(started))
	if err != nil {
		return err
	}

	if !sum.Clean() {
		return errDifferencesFound
	}

	return nil
}

// applyOverrides folds explicitly set flags into the loaded configuration.
func (cc *CompareCommand) applyOverrides(cmd *cobra.Command, cfg *config.Config) error {
	if cmd.Flags().Changed("format") {
		cfg.Output.Format = cc.format
	}

	if cmd.Flags().Changed("repo") {
		cfg.Repository.Path = cc.repoPath
	}

	if cmd.Flags().Changed("workers") {
		cfg.Compare.Workers = cc.workers
	}

	if cmd.Flags().Changed("language") {
		cfg.Compare.Languages = cc.languages
	}

	if cmd.Flags().Changed("max-file-size") {
		if _, err := humanize.ParseBytes(cc.maxFileSize); err != nil {
			return fmt.Errorf("%w: %s", config.ErrInvalidSize, cc.maxFileSize)
		}

		cfg.Repository.MaxFileSize = cc.maxFileSize
	}

	if noColor {
		cfg.Output.NoColor = true
	}

	return nil
}

// renderReport writes the comparison results in the requested format.
func renderReport(out io.Writer, format string, pair gitsrc.RevisionPair, results []runner.FileResult, sum runner.Summary, elapsed time.Duration) error {
	switch format {
	case formatText:
		reporter := report.NewReporter(out)
		for _, result := range results {
			reporter.File(result)
		}

		reporter.Summary(sum, elapsed)

		return nil
	case formatJSON:
		return report.WriteJSON(out, report.BuildDocument(pair, results, sum))
	case formatYAML:
		return report.WriteYAML(out, report.BuildDocument(pair, results, sum))
	default:
		return fmt.Errorf("%w: %s", errUnsupportedFormat, format)
	}
}
