// Package gitsrc reads source file contents out of git revisions and the
// working tree using libgit2.
package gitsrc

import (
	"errors"
	"fmt"

	git2go "github.com/libgit2/git2go/v34"
)

var (
	// ErrNotARepository is returned when no git repository exists at or
	// above the requested path.
	ErrNotARepository = errors.New("not a git repository")

	// ErrFileNotFound is returned when a path does not exist in the
	// requested revision or working tree.
	ErrFileNotFound = errors.New("file not found")

	// ErrNoWorktree is returned for working-tree operations on a bare
	// repository.
	ErrNoWorktree = errors.New("repository has no worktree")
)

// Repository wraps a libgit2 repository.
type Repository struct {
	repo *git2go.Repository
	path string
}

// Open opens the git repository at the given path.
func Open(path string) (*Repository, error) {
	repo, err := git2go.OpenRepository(path)
	if err != nil {
		return nil, fmt.Errorf("open repository: %w", err)
	}

	return &Repository{repo: repo, path: path}, nil
}

// Discover walks up from path looking for a repository and opens it.
func Discover(path string) (*Repository, error) {
	found, err := git2go.Discover(path, false, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNotARepository, path)
	}

	return Open(found)
}

// Path returns the repository path.
func (r *Repository) Path() string {
	return r.path
}

// Workdir returns the working directory path, empty for bare repositories.
func (r *Repository) Workdir() string {
	return r.repo.Workdir()
}

// Free releases the repository resources.
func (r *Repository) Free() {
	if r.repo != nil {
		r.repo.Free()
		r.repo = nil
	}
}

// ResolveCommit resolves a revision spec (a hash prefix, ref name, or an
// expression like HEAD~1) to the commit it names. Tags are peeled to the
// commit they point at.
func (r *Repository) ResolveCommit(spec string) (*Commit, error) {
	obj, err := r.repo.RevparseSingle(spec)
	if err != nil {
		return nil, fmt.Errorf("resolve %q: %w", spec, err)
	}
	defer obj.Free()

	peeled, err := obj.Peel(git2go.ObjectCommit)
	if err != nil {
		return nil, fmt.Errorf("resolve %q: %w", spec, err)
	}

	commit, err := peeled.AsCommit()
	if err != nil {
		peeled.Free()

		return nil, fmt.Errorf("resolve %q: %w", spec, err)
	}

	return &Commit{commit: commit}, nil
}
