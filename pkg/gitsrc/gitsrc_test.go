package gitsrc_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	git2go "github.com/libgit2/git2go/v34"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/astdiff-tech/astdiff/pkg/gitsrc"
)

// testRepo wraps a scratch repository for integration testing.
type testRepo struct {
	t       *testing.T
	path    string
	native  *git2go.Repository
	cleanup func()
}

// newTestRepo creates a new scratch repository.
func newTestRepo(t *testing.T) *testRepo {
	t.Helper()

	dir := t.TempDir()

	repo, err := git2go.InitRepository(dir, false)
	require.NoError(t, err)

	return &testRepo{
		t:      t,
		path:   dir,
		native: repo,
		cleanup: func() {
			repo.Free()
		},
	}
}

// createFile creates a file in the working directory.
func (tr *testRepo) createFile(name, content string) {
	tr.t.Helper()

	path := filepath.Join(tr.path, name)
	dir := filepath.Dir(path)

	if dir != tr.path {
		err := os.MkdirAll(dir, 0o755)
		require.NoError(tr.t, err)
	}

	err := os.WriteFile(path, []byte(content), 0o644)
	require.NoError(tr.t, err)
}

// deleteFile removes a file from the working directory.
func (tr *testRepo) deleteFile(name string) {
	tr.t.Helper()

	err := os.Remove(filepath.Join(tr.path, name))
	require.NoError(tr.t, err)
}

// commit stages all files and creates a commit, returning its hex hash.
func (tr *testRepo) commit(message string) string {
	tr.t.Helper()

	index, err := tr.native.Index()
	require.NoError(tr.t, err)

	defer index.Free()

	err = index.AddAll([]string{"*"}, git2go.IndexAddDefault, nil)
	require.NoError(tr.t, err)

	err = index.Write()
	require.NoError(tr.t, err)

	treeID, err := index.WriteTree()
	require.NoError(tr.t, err)

	tree, err := tr.native.LookupTree(treeID)
	require.NoError(tr.t, err)

	defer tree.Free()

	sig := &git2go.Signature{
		Name:  "Test User",
		Email: "test@example.com",
		When:  time.Now(),
	}

	var parents []*git2go.Commit

	head, err := tr.native.Head()
	if err == nil {
		headCommit, lookupErr := tr.native.LookupCommit(head.Target())
		require.NoError(tr.t, lookupErr)

		parents = append(parents, headCommit)

		head.Free()
	}

	oid, err := tr.native.CreateCommit("HEAD", sig, sig, message, tree, parents...)
	require.NoError(tr.t, err)

	for _, parent := range parents {
		parent.Free()
	}

	return oid.String()
}

func TestOpenNotFound(t *testing.T) {
	repo, err := gitsrc.Open("/nonexistent/path/to/repo")

	assert.Nil(t, repo)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "open repository")
}

func TestDiscoverFromSubdirectory(t *testing.T) {
	tr := newTestRepo(t)
	defer tr.cleanup()

	tr.createFile("sub/dir/file.txt", "content")
	tr.commit("initial")

	repo, err := gitsrc.Discover(filepath.Join(tr.path, "sub", "dir"))
	require.NoError(t, err)

	defer repo.Free()

	assert.Equal(t, filepath.Clean(tr.path), filepath.Clean(repo.Workdir()))
}

func TestDiscoverNotARepository(t *testing.T) {
	repo, err := gitsrc.Discover(t.TempDir())

	assert.Nil(t, repo)
	require.ErrorIs(t, err, gitsrc.ErrNotARepository)
}

func TestRepositoryFree(t *testing.T) {
	tr := newTestRepo(t)
	defer tr.cleanup()

	tr.createFile("x.txt", "x")
	tr.commit("init")

	repo, err := gitsrc.Discover(tr.path)
	require.NoError(t, err)

	// Free multiple times should be safe.
	repo.Free()
	repo.Free()
}

func TestResolveCommit(t *testing.T) {
	tr := newTestRepo(t)
	defer tr.cleanup()

	tr.createFile("first.txt", "1")
	firstHash := tr.commit("first")

	tr.createFile("second.txt", "2")
	secondHash := tr.commit("second")

	repo, err := gitsrc.Discover(tr.path)
	require.NoError(t, err)

	defer repo.Free()

	byHash, err := repo.ResolveCommit(firstHash)
	require.NoError(t, err)

	defer byHash.Free()

	assert.Equal(t, firstHash, byHash.Hash().String())

	head, err := repo.ResolveCommit("HEAD")
	require.NoError(t, err)

	defer head.Free()

	assert.Equal(t, secondHash, head.Hash().String())

	parent, err := repo.ResolveCommit("HEAD~1")
	require.NoError(t, err)

	defer parent.Free()

	assert.Equal(t, firstHash, parent.Hash().String())
}

func TestResolveCommitBadSpec(t *testing.T) {
	tr := newTestRepo(t)
	defer tr.cleanup()

	tr.createFile("x.txt", "x")
	tr.commit("init")

	repo, err := gitsrc.Discover(tr.path)
	require.NoError(t, err)

	defer repo.Free()

	commit, err := repo.ResolveCommit("doesnotexist")

	assert.Nil(t, commit)
	require.Error(t, err)
	assert.Contains(t, err.Error(), `resolve "doesnotexist"`)
}

func TestFileAt(t *testing.T) {
	tr := newTestRepo(t)
	defer tr.cleanup()

	tr.createFile("pkg/deep/code.py", "x = 1\n")
	hash := tr.commit("add code")

	repo, err := gitsrc.Discover(tr.path)
	require.NoError(t, err)

	defer repo.Free()

	commit, err := repo.ResolveCommit(hash)
	require.NoError(t, err)

	defer commit.Free()

	contents, err := repo.FileAt(commit, "pkg/deep/code.py")
	require.NoError(t, err)
	assert.Equal(t, "x = 1\n", string(contents))
}

func TestFileAtNotFound(t *testing.T) {
	tr := newTestRepo(t)
	defer tr.cleanup()

	tr.createFile("exists.py", "x = 1\n")
	hash := tr.commit("init")

	repo, err := gitsrc.Discover(tr.path)
	require.NoError(t, err)

	defer repo.Free()

	commit, err := repo.ResolveCommit(hash)
	require.NoError(t, err)

	defer commit.Free()

	contents, err := repo.FileAt(commit, "missing.py")

	assert.Nil(t, contents)
	require.ErrorIs(t, err, gitsrc.ErrFileNotFound)
}

func TestWorktreeFile(t *testing.T) {
	tr := newTestRepo(t)
	defer tr.cleanup()

	tr.createFile("tracked.py", "x = 1\n")
	tr.commit("init")

	tr.createFile("scratch.py", "y = 2\n")

	repo, err := gitsrc.Discover(tr.path)
	require.NoError(t, err)

	defer repo.Free()

	contents, err := repo.WorktreeFile("scratch.py")
	require.NoError(t, err)
	assert.Equal(t, "y = 2\n", string(contents))

	missing, err := repo.WorktreeFile("missing.py")

	assert.Nil(t, missing)
	require.ErrorIs(t, err, gitsrc.ErrFileNotFound)
}

func TestChangedFiles(t *testing.T) {
	tr := newTestRepo(t)
	defer tr.cleanup()

	tr.createFile("unchanged.py", "a = 1\n")
	tr.createFile("modified.py", "b = 2\n")
	tr.createFile("deleted.py", "c = 3\n")
	firstHash := tr.commit("first")

	tr.createFile("modified.py", "b = 2 + 2\n")
	tr.createFile("added.py", "d = 4\n")
	tr.deleteFile("deleted.py")
	secondHash := tr.commit("second")

	repo, err := gitsrc.Discover(tr.path)
	require.NoError(t, err)

	defer repo.Free()

	base, err := repo.ResolveCommit(firstHash)
	require.NoError(t, err)

	defer base.Free()

	target, err := repo.ResolveCommit(secondHash)
	require.NoError(t, err)

	defer target.Free()

	changes, err := repo.ChangedFiles(base, target)
	require.NoError(t, err)
	require.Len(t, changes, 3)

	byPath := make(map[string]gitsrc.Action, len(changes))
	for _, change := range changes {
		byPath[change.Path] = change.Action
	}

	assert.Equal(t, gitsrc.Insert, byPath["added.py"])
	assert.Equal(t, gitsrc.Delete, byPath["deleted.py"])
	assert.Equal(t, gitsrc.Modify, byPath["modified.py"])
}

func TestChangedFilesWorktree(t *testing.T) {
	tr := newTestRepo(t)
	defer tr.cleanup()

	tr.createFile("code.py", "x = 1\n")
	hash := tr.commit("init")

	tr.createFile("code.py", "x = 1\n\ny = 2\n")
	tr.createFile("untracked.py", "z = 3\n")

	repo, err := gitsrc.Discover(tr.path)
	require.NoError(t, err)

	defer repo.Free()

	base, err := repo.ResolveCommit(hash)
	require.NoError(t, err)

	defer base.Free()

	changes, err := repo.ChangedFiles(base, nil)
	require.NoError(t, err)
	require.Len(t, changes, 1)

	assert.Equal(t, "code.py", changes[0].Path)
	assert.Equal(t, gitsrc.Modify, changes[0].Action)
}

func TestParseRevisions(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want gitsrc.RevisionPair
	}{
		{
			name: "no arguments",
			args: nil,
			want: gitsrc.RevisionPair{Base: "HEAD", Target: ""},
		},
		{
			name: "single revision",
			args: []string{"abc123"},
			want: gitsrc.RevisionPair{Base: "abc123~1", Target: "abc123"},
		},
		{
			name: "head alias",
			args: []string{"@"},
			want: gitsrc.RevisionPair{Base: "HEAD~1", Target: "HEAD"},
		},
		{
			name: "two revisions",
			args: []string{"v1.0.0", "v2.0.0"},
			want: gitsrc.RevisionPair{Base: "v1.0.0", Target: "v2.0.0"},
		},
		{
			name: "worktree target",
			args: []string{"main", "."},
			want: gitsrc.RevisionPair{Base: "main", Target: ""},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pair, err := gitsrc.ParseRevisions(tt.args)

			require.NoError(t, err)
			assert.Equal(t, tt.want, pair)
		})
	}
}

func TestParseRevisionsTooMany(t *testing.T) {
	_, err := gitsrc.ParseRevisions([]string{"a", "b", "c"})

	require.ErrorIs(t, err, gitsrc.ErrTooManyRevisions)
}

func TestRevisionPairWorktree(t *testing.T) {
	assert.True(t, gitsrc.RevisionPair{Base: "HEAD"}.Worktree())
	assert.False(t, gitsrc.RevisionPair{Base: "HEAD~1", Target: "HEAD"}.Worktree())
}

func TestActionString(t *testing.T) {
	assert.Equal(t, "insert", gitsrc.Insert.String())
	assert.Equal(t, "delete", gitsrc.Delete.String())
	assert.Equal(t, "modify", gitsrc.Modify.String())
	assert.Equal(t, "unknown", gitsrc.Action(42).String())
}

func TestHashRoundTrip(t *testing.T) {
	const hex = "0123456789abcdef0123456789abcdef01234567"

	hash := gitsrc.NewHash(hex)

	assert.Equal(t, hex, hash.String())
	assert.False(t, hash.IsZero())
	assert.True(t, gitsrc.ZeroHash().IsZero())
}
