package gitsrc

import (
	"errors"
	"fmt"
)

const (
	headRevision  = "HEAD"
	headAlias     = "@"
	worktreeAlias = "."

	// maxRevisionArgs is how many revision arguments a comparison accepts.
	maxRevisionArgs = 2
)

// ErrTooManyRevisions is returned when more than two revision arguments
// are supplied.
var ErrTooManyRevisions = errors.New("too many revisions")

// RevisionPair names the two revisions of a comparison. An empty Target
// means the working tree.
type RevisionPair struct {
	Base   string
	Target string
}

// Worktree reports whether the pair compares against the working tree.
func (p RevisionPair) Worktree() bool {
	return p.Target == ""
}

// ParseRevisions maps command-line revision arguments onto a pair:
//
//	(none)       HEAD against the working tree
//	REV          REV~1 against REV ("@" is an alias for HEAD)
//	BASE TARGET  BASE against TARGET ("." as TARGET means the working tree)
func ParseRevisions(args []string) (RevisionPair, error) {
	switch len(args) {
	case 0:
		return RevisionPair{Base: headRevision}, nil
	case 1:
		rev := args[0]
		if rev == headAlias {
			rev = headRevision
		}

		return RevisionPair{Base: rev + "~1", Target: rev}, nil
	case maxRevisionArgs:
		pair := RevisionPair{Base: args[0], Target: args[1]}
		if pair.Target == worktreeAlias {
			pair.Target = ""
		}

		return pair, nil
	default:
		return RevisionPair{}, fmt.Errorf("%w: expected at most %d, got %d",
			ErrTooManyRevisions, maxRevisionArgs, len(args))
	}
}
