package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/astdiff-tech/astdiff/internal/config"
	"github.com/astdiff-tech/astdiff/internal/report"
	"github.com/astdiff-tech/astdiff/internal/runner"
	"github.com/astdiff-tech/astdiff/pkg/gitsrc"
	"github.com/astdiff-tech/astdiff/pkg/lang"
	"github.com/astdiff-tech/astdiff/pkg/lang/golang"
	"github.com/astdiff-tech/astdiff/pkg/lang/python"
)

// Tool name constants.
const (
	ToolNameCompare   = "astdiff_compare"
	ToolNameLanguages = "astdiff_languages"
)

// Sentinel errors for tool input validation.
var (
	// ErrEmptyRepoPath indicates the repo_path parameter is empty.
	ErrEmptyRepoPath = errors.New("repo_path parameter is required and must not be empty")
	// ErrRepoPathNotAbsolute indicates the repo_path is not an absolute path.
	ErrRepoPathNotAbsolute = errors.New("repo_path must be an absolute path")
)

// Input types (auto-generate JSON schemas via struct tags).

// CompareInput is the input schema for the astdiff_compare tool.
type CompareInput struct {
	Base      string   `json:"base,omitempty"      jsonschema:"base revision to compare from (default: HEAD)"`
	Languages []string `json:"languages,omitempty" jsonschema:"optional list of languages to compare (default: all supported)"`
	RepoPath  string   `json:"repo_path"           jsonschema:"absolute path to a Git repository"`
	Target    string   `json:"target,omitempty"    jsonschema:"target revision to compare to (default: working tree)"`
	Workers   int      `json:"workers,omitempty"   jsonschema:"number of concurrent comparisons (default: number of CPUs)"`
}

// LanguagesInput is the input schema for the astdiff_languages tool.
type LanguagesInput struct{}

// Output type (used as structured output for generic AddTool).

// ToolOutput is a generic wrapper for tool results.
type ToolOutput struct {
	Data any `json:"data"`
}

// Result helpers.

// errorResult builds a CallToolResult with isError set.
func errorResult(err error) (*mcpsdk.CallToolResult, ToolOutput, error) {
	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{
			&mcpsdk.TextContent{Text: err.Error()},
		},
		IsError: true,
	}, ToolOutput{}, nil
}

// jsonResult builds a CallToolResult with JSON-encoded content.
func jsonResult(value any) (*mcpsdk.CallToolResult, ToolOutput, error) {
	data, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		return errorResult(fmt.Errorf("encode result: %w", err))
	}

	return &mcpsdk.CallToolResult{
		Content: []mcpsdk.Content{
			&mcpsdk.TextContent{Text: string(data)},
		},
	}, ToolOutput{Data: value}, nil
}

// validateRepoPath checks the repository path constraints.
func validateRepoPath(path string) error {
	if path == "" {
		return ErrEmptyRepoPath
	}

	if !filepath.IsAbs(path) {
		return ErrRepoPathNotAbsolute
	}

	return nil
}

// newRegistry builds the registry of all supported language parsers.
func newRegistry() *lang.Registry {
	return lang.NewRegistry(golang.New(), python.New())
}

// handleCompare processes astdiff_compare tool calls.
func handleCompare(
	ctx context.Context,
	_ *mcpsdk.CallToolRequest,
	input CompareInput,
) (*mcpsdk.CallToolResult, ToolOutput, error) {
	if err := validateRepoPath(input.RepoPath); err != nil {
		return errorResult(err)
	}

	repo, err := gitsrc.Discover(input.RepoPath)
	if err != nil {
		return errorResult(err)
	}
	defer repo.Free()

	base := input.Base
	if base == "" {
		base = "HEAD"
	}

	pair := gitsrc.RevisionPair{Base: base, Target: input.Target}

	cfg := config.Default()
	opts := runner.Options{
		Languages:    cfg.Compare.Languages,
		SkipVendored: cfg.Compare.SkipVendored,
		MaxFileSize:  cfg.MaxFileSizeBytes(),
		Workers:      cfg.Compare.Workers,
	}

	if len(input.Languages) > 0 {
		opts.Languages = input.Languages
	}

	if input.Workers > 0 {
		opts.Workers = input.Workers
	}

	r := runner.New(repo, newRegistry(), opts, nil)

	results, sum, err := r.Run(ctx, pair)
	if err != nil {
		return errorResult(err)
	}

	return jsonResult(report.BuildDocument(pair, results, sum))
}

// handleLanguages processes astdiff_languages tool calls.
func handleLanguages(
	_ context.Context,
	_ *mcpsdk.CallToolRequest,
	_ LanguagesInput,
) (*mcpsdk.CallToolResult, ToolOutput, error) {
	return jsonResult(newRegistry().Languages())
}
