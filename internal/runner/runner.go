// Package runner compares the syntax trees of every file changed between
// two revisions and classifies each change as formatting-only or semantic.
package runner

import (
	"context"
	"errors"
	"log/slog"
	"regexp"
	"strings"
	"sync"

	"github.com/src-d/enry/v2"

	"github.com/astdiff-tech/astdiff/pkg/gitsrc"
	"github.com/astdiff-tech/astdiff/pkg/lang"
	"github.com/astdiff-tech/astdiff/pkg/safeconv"
	"github.com/astdiff-tech/astdiff/pkg/stree"
)

// Options controls which files are compared and how.
type Options struct {
	// Languages restricts comparison to the named languages.
	// Empty allows every language the registry supports.
	Languages []string
	// SkipPrefixes excludes files whose path starts with any entry.
	SkipPrefixes []string
	// NameFilter, when set, excludes files whose path does not match.
	NameFilter *regexp.Regexp
	// SkipVendored excludes vendored and generated paths.
	SkipVendored bool
	// MaxFileSize caps the size of either side in bytes. Zero means no cap.
	MaxFileSize uint64
	// Workers is the number of concurrent comparisons.
	Workers int
}

// Runner drives the compare pipeline for a single repository.
type Runner struct {
	repo      *gitsrc.Repository
	registry  *lang.Registry
	opts      Options
	logger    *slog.Logger
	languages map[string]bool
}

// New creates a runner. A nil logger discards all log output.
func New(repo *gitsrc.Repository, registry *lang.Registry, opts Options, logger *slog.Logger) *Runner {
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	languages := make(map[string]bool, len(opts.Languages))
	for _, language := range opts.Languages {
		languages[strings.ToLower(language)] = true
	}

	return &Runner{
		repo:      repo,
		registry:  registry,
		opts:      opts,
		logger:    logger,
		languages: languages,
	}
}

// payload carries both revisions of one changed file into the compare phase.
type payload struct {
	change   gitsrc.Change
	left     []byte
	right    []byte
	fetchErr error
}

// Run compares every file changed between the revisions in pair and returns
// one result per selected file, in the order git reports the changes.
func (r *Runner) Run(ctx context.Context, pair gitsrc.RevisionPair) ([]FileResult, Summary, error) {
	base, err := r.repo.ResolveCommit(pair.Base)
	if err != nil {
		return nil, Summary{}, err
	}
	defer base.Free()

	var target *gitsrc.Commit
	if !pair.Worktree() {
		target, err = r.repo.ResolveCommit(pair.Target)
		if err != nil {
			return nil, Summary{}, err
		}
		defer target.Free()
	}

	changes, err := r.repo.ChangedFiles(base, target)
	if err != nil {
		return nil, Summary{}, err
	}

	targetName := pair.Target
	if pair.Worktree() {
		targetName = "worktree"
	}
	r.logger.Info("comparing revisions", "base", pair.Base, "target", targetName, "changes", len(changes))

	payloads, err := r.fetchPayloads(ctx, base, target, changes)
	if err != nil {
		return nil, Summary{}, err
	}

	results, err := r.compareAll(ctx, payloads)
	if err != nil {
		return nil, Summary{}, err
	}

	return results, summarize(results), nil
}

// fetchPayloads reads both revisions of every selected file. Blob reads go
// through libgit2, so this phase stays on the calling goroutine.
func (r *Runner) fetchPayloads(ctx context.Context, base, target *gitsrc.Commit, changes []gitsrc.Change) ([]payload, error) {
	payloads := make([]payload, 0, len(changes))

	for _, change := range changes {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if !r.includePath(change.Path) {
			r.logger.Debug("path excluded", "path", change.Path, "action", change.Action)

			continue
		}

		payloads = append(payloads, r.fetchOne(base, target, change))
	}

	return payloads, nil
}

// fetchOne reads the base and target contents of a single change. A nil
// target commit reads the right side from the working tree.
func (r *Runner) fetchOne(base, target *gitsrc.Commit, change gitsrc.Change) payload {
	p := payload{change: change}

	p.left, p.fetchErr = r.repo.FileAt(base, change.Path)
	if p.fetchErr != nil {
		return p
	}

	if target == nil {
		p.right, p.fetchErr = r.repo.WorktreeFile(change.Path)
	} else {
		p.right, p.fetchErr = r.repo.FileAt(target, change.Path)
	}

	return p
}

// compareAll parses and compares payloads on a pool of workers. Results keep
// the payload order so output stays deterministic.
func (r *Runner) compareAll(ctx context.Context, payloads []payload) ([]FileResult, error) {
	results := make([]FileResult, len(payloads))
	jobs := make(chan int, len(payloads))

	var wg sync.WaitGroup
	for range r.opts.Workers {
		wg.Add(1)

		go func() {
			defer wg.Done()

			for i := range jobs {
				if ctx.Err() != nil {
					continue
				}

				results[i] = r.compareOne(ctx, payloads[i])
			}
		}()
	}

	for i := range payloads {
		jobs <- i
	}
	close(jobs)
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	return results, nil
}

// compareOne classifies a single payload.
func (r *Runner) compareOne(ctx context.Context, p payload) FileResult {
	result := FileResult{Path: p.change.Path}

	if p.fetchErr != nil {
		result.Status = StatusFetchError
		result.Err = p.fetchErr

		return result
	}

	if r.tooLarge(p) {
		result.Status = StatusSkipped
		result.Reason = "file too large"

		return result
	}

	parser, err := r.registry.ParserFor(p.change.Path, p.right)
	if err != nil {
		r.logger.Debug("no parser for file", "path", p.change.Path, "error", err)
		result.Status = StatusSkipped
		result.Reason = "unsupported language"

		return result
	}

	result.Language = parser.Language()

	if !r.allowedLanguage(parser.Language()) {
		result.Status = StatusSkipped
		result.Reason = "language disabled"

		return result
	}

	leftTree, err := parser.Parse(ctx, p.change.Path, p.left)
	if err != nil {
		result.Status = StatusParseError
		result.Err = err

		return result
	}

	rightTree, err := parser.Parse(ctx, p.change.Path, p.right)
	if err != nil {
		result.Status = StatusParseError
		result.Err = err

		return result
	}

	compareErr := stree.Compare(leftTree, rightTree)
	if compareErr == nil {
		result.Status = StatusEquivalent

		return result
	}

	result.Status = StatusDifferent

	var mismatch *stree.Mismatch
	if errors.As(compareErr, &mismatch) {
		result.Mismatch = mismatch
	} else {
		result.Err = compareErr
	}

	return result
}

// includePath applies the vendored, prefix and name filters.
func (r *Runner) includePath(path string) bool {
	if r.opts.SkipVendored && enry.IsVendor(path) {
		return false
	}

	for _, prefix := range r.opts.SkipPrefixes {
		if strings.HasPrefix(path, prefix) {
			return false
		}
	}

	if r.opts.NameFilter != nil && !r.opts.NameFilter.MatchString(path) {
		return false
	}

	return true
}

// allowedLanguage checks the language allowlist. An empty list allows all.
func (r *Runner) allowedLanguage(name string) bool {
	if len(r.languages) == 0 {
		return true
	}

	return r.languages[strings.ToLower(name)]
}

// tooLarge reports whether either side exceeds the configured size cap.
func (r *Runner) tooLarge(p payload) bool {
	if r.opts.MaxFileSize == 0 {
		return false
	}

	return safeconv.MustIntToUint64(len(p.left)) > r.opts.MaxFileSize ||
		safeconv.MustIntToUint64(len(p.right)) > r.opts.MaxFileSize
}
