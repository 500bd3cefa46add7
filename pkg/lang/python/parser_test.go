package python_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/astdiff-tech/astdiff/pkg/lang"
	"github.com/astdiff-tech/astdiff/pkg/lang/python"
	"github.com/astdiff-tech/astdiff/pkg/stree"
)

func parseSource(t *testing.T, src string) stree.Tree {
	t.Helper()

	tree, err := python.New().Parse(context.Background(), "src.py", []byte(src))
	require.NoError(t, err)

	return tree
}

func requireEquivalent(t *testing.T, left, right string) {
	t.Helper()

	err := stree.Compare(parseSource(t, left), parseSource(t, right))
	require.NoError(t, err)
}

func requireDifferent(t *testing.T, left, right string) *stree.Mismatch {
	t.Helper()

	err := stree.Compare(parseSource(t, left), parseSource(t, right))
	require.Error(t, err)

	var mismatch *stree.Mismatch
	require.ErrorAs(t, err, &mismatch)

	return mismatch
}

func TestParseFormattingInsensitive(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		left  string
		right string
	}{
		{
			name:  "reformatted tuple",
			left:  "x = (1, 2, 'foo')\n",
			right: "x = (\n    1,\n    2,\n    \"foo\",\n)\n",
		},
		{
			name:  "comments ignored",
			left:  "x = 1\n",
			right: "# a note\nx = 1  # same value\n",
		},
		{
			name:  "blank lines",
			left:  "def f():\n    return 1\n",
			right: "def f():\n\n    return 1\n",
		},
		{
			name:  "semicolons versus newlines",
			left:  "x = 1; y = 2\n",
			right: "x = 1\ny = 2\n",
		},
		{
			name:  "quote style",
			left:  "s = 'a'\n",
			right: "s = \"a\"\n",
		},
		{
			name:  "f-string quote style",
			left:  "s = f'{x}'\n",
			right: "s = f\"{x}\"\n",
		},
		{
			name:  "grouping parentheses",
			left:  "y = (x)\n",
			right: "y = x\n",
		},
		{
			name:  "indentation width",
			left:  "def f():\n    if x:\n        return 1\n    return 0\n",
			right: "def f():\n  if x:\n    return 1\n  return 0\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			requireEquivalent(t, tt.left, tt.right)
		})
	}
}

func TestParseSemanticSensitive(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		left  string
		right string
	}{
		{name: "operator change", left: "x = a + b\n", right: "x = a - b\n"},
		{name: "literal change", left: "x = 1\n", right: "x = 2\n"},
		{name: "identifier rename", left: "a = 1\n", right: "b = 1\n"},
		{name: "set order", left: "x = {1, 2}\n", right: "x = {2, 1}\n"},
		{name: "list versus tuple", left: "x = [1, 2]\n", right: "x = (1, 2)\n"},
		{name: "call versus literal", left: "x = tuple([1, 2])\n", right: "x = (1, 2)\n"},
		{name: "bytes prefix", left: "s = b'a'\n", right: "s = 'a'\n"},
		{name: "raw prefix", left: `s = r'\n'` + "\n", right: `s = '\n'` + "\n"},
		{name: "plain versus augmented assignment", left: "x += 1\n", right: "x = 1\n"},
		{name: "removed statement", left: "a = 1\nb = 2\n", right: "a = 1\n"},
		{name: "comparison flip", left: "y = a < b\n", right: "y = a > b\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			requireDifferent(t, tt.left, tt.right)
		})
	}
}

func TestParseLineTracking(t *testing.T) {
	t.Parallel()

	left := "# fixture\nx = {1, 2}\n"
	right := "# fixture\nx = {1,\n\n\n    3}\n"

	mismatch := requireDifferent(t, left, right)

	assert.Equal(t, 2, mismatch.LeftLine)
	assert.Equal(t, 5, mismatch.RightLine)
	assert.Equal(t, "2", mismatch.LeftValue)
	assert.Equal(t, "3", mismatch.RightValue)
}

func TestParseSyntaxError(t *testing.T) {
	t.Parallel()

	_, err := python.New().Parse(context.Background(), "bad.py", []byte("def f(:\n"))

	require.ErrorIs(t, err, lang.ErrSyntax)
}

func TestParseConcurrentUse(t *testing.T) {
	t.Parallel()

	parser := python.New()

	const workers = 8

	done := make(chan error, workers)
	for i := 0; i < workers; i++ {
		go func() {
			tree, err := parser.Parse(context.Background(), "src.py", []byte("x = {1, 2}\n"))
			if err == nil {
				err = stree.Compare(tree, tree)
			}

			done <- err
		}()
	}

	for i := 0; i < workers; i++ {
		require.NoError(t, <-done)
	}
}

func TestParserMetadata(t *testing.T) {
	t.Parallel()

	parser := python.New()

	assert.Equal(t, "Python", parser.Language())
	assert.Equal(t, []string{".py"}, parser.Extensions())
}
