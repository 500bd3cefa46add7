package gitsrc

import (
	"fmt"

	git2go "github.com/libgit2/git2go/v34"
)

// Action represents the kind of change recorded for a file.
type Action int

const (
	// Insert indicates a new file was added.
	Insert Action = iota
	// Delete indicates a file was removed.
	Delete
	// Modify indicates a file was modified.
	Modify
)

// String returns the lowercase name of the action.
func (a Action) String() string {
	switch a {
	case Insert:
		return "insert"
	case Delete:
		return "delete"
	case Modify:
		return "modify"
	default:
		return "unknown"
	}
}

// Change represents a single file change between two revisions.
type Change struct {
	Path   string
	Action Action
}

// ChangedFiles lists the files that differ between base and target. A nil
// target diffs base against the working tree; untracked files are not
// reported there, matching git diff.
func (r *Repository) ChangedFiles(base, target *Commit) ([]Change, error) {
	baseTree, err := base.tree()
	if err != nil {
		return nil, err
	}
	defer baseTree.Free()

	opts, err := git2go.DefaultDiffOptions()
	if err != nil {
		return nil, fmt.Errorf("get diff options: %w", err)
	}

	var diff *git2go.Diff

	if target == nil {
		diff, err = r.repo.DiffTreeToWorkdir(baseTree, &opts)
	} else {
		targetTree, treeErr := target.tree()
		if treeErr != nil {
			return nil, treeErr
		}
		defer targetTree.Free()

		diff, err = r.repo.DiffTreeToTree(baseTree, targetTree, &opts)
	}

	if err != nil {
		return nil, fmt.Errorf("diff revisions: %w", err)
	}

	defer func() { _ = diff.Free() }()

	numDeltas, err := diff.NumDeltas()
	if err != nil {
		return nil, fmt.Errorf("get num deltas: %w", err)
	}

	changes := make([]Change, 0, numDeltas)

	for i := range numDeltas {
		delta, deltaErr := diff.Delta(i)
		if deltaErr != nil {
			continue
		}

		change, ok := deltaToChange(delta)
		if !ok {
			continue
		}

		changes = append(changes, change)
	}

	return changes, nil
}

// deltaToChange maps a libgit2 delta onto a Change. Deltas that carry no
// content change are dropped.
func deltaToChange(delta git2go.DiffDelta) (Change, bool) {
	switch delta.Status {
	case git2go.DeltaAdded:
		return Change{Path: delta.NewFile.Path, Action: Insert}, true
	case git2go.DeltaDeleted:
		return Change{Path: delta.OldFile.Path, Action: Delete}, true
	case git2go.DeltaModified, git2go.DeltaRenamed, git2go.DeltaCopied:
		return Change{Path: delta.NewFile.Path, Action: Modify}, true
	case git2go.DeltaUnmodified, git2go.DeltaIgnored, git2go.DeltaUntracked,
		git2go.DeltaTypeChange, git2go.DeltaUnreadable, git2go.DeltaConflicted:
		return Change{}, false
	}

	return Change{}, false
}
