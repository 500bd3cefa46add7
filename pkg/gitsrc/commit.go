package gitsrc

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	git2go "github.com/libgit2/git2go/v34"
)

// Commit wraps a libgit2 commit.
type Commit struct {
	commit *git2go.Commit
}

// Hash returns the commit hash.
func (c *Commit) Hash() Hash {
	return hashFromOid(c.commit.Id())
}

// Free releases the commit resources.
func (c *Commit) Free() {
	if c.commit != nil {
		c.commit.Free()
		c.commit = nil
	}
}

// tree returns the commit tree. The caller frees it.
func (c *Commit) tree() (*git2go.Tree, error) {
	tree, err := c.commit.Tree()
	if err != nil {
		return nil, fmt.Errorf("get commit tree: %w", err)
	}

	return tree, nil
}

// FileAt returns the contents of path in the given commit.
func (r *Repository) FileAt(commit *Commit, path string) ([]byte, error) {
	tree, err := commit.tree()
	if err != nil {
		return nil, err
	}
	defer tree.Free()

	entry, err := tree.EntryByPath(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s at %s", ErrFileNotFound, path, commit.Hash())
	}

	blob, err := r.repo.LookupBlob(entry.Id)
	if err != nil {
		return nil, fmt.Errorf("lookup blob for %s: %w", path, err)
	}
	defer blob.Free()

	return blob.Contents(), nil
}

// WorktreeFile returns the contents of path in the working tree.
func (r *Repository) WorktreeFile(path string) ([]byte, error) {
	workdir := r.repo.Workdir()
	if workdir == "" {
		return nil, fmt.Errorf("%w: %s", ErrNoWorktree, r.path)
	}

	contents, err := os.ReadFile(filepath.Join(workdir, path))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s in worktree", ErrFileNotFound, path)
		}

		return nil, fmt.Errorf("read worktree file: %w", err)
	}

	return contents, nil
}
