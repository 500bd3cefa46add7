// Package python parses Python source with tree-sitter and converts the
// concrete syntax tree into comparable trees. Comments, punctuation and
// quoting are treated as formatting; identifiers, literals, operators and
// keywords all participate in the comparison.
package python

import (
	"context"
	"errors"
	"fmt"
	"sync"

	forest "github.com/alexaandru/go-sitter-forest/python"
	sitter "github.com/alexaandru/go-tree-sitter-bare"

	"github.com/astdiff-tech/astdiff/pkg/lang"
	"github.com/astdiff-tech/astdiff/pkg/safeconv"
	"github.com/astdiff-tech/astdiff/pkg/stree"
)

const languageName = "Python"

// Node kinds and field names with special handling during conversion.
const (
	errorKind       = "ERROR"
	commentKind     = "comment"
	stringStartKind = "string_start"
	stringEndKind   = "string_end"
	parenExprKind   = "parenthesized_expression"

	childrenField = "children"
	textField     = "text"
)

var errPoolType = errors.New("parser pool returned unexpected type")

// tsLanguage is shared by every parser instance.
var tsLanguage = sitter.NewLanguage(forest.GetLanguage())

// Parser is the Python language backend. Tree-sitter parsers are not safe
// for concurrent use, so instances are pooled.
type Parser struct {
	tsParserPool sync.Pool
}

// New returns the Python backend.
func New() *Parser {
	parser := &Parser{}
	parser.tsParserPool = sync.Pool{
		New: func() any {
			tsParser := sitter.NewParser()
			tsParser.SetLanguage(tsLanguage)

			return tsParser
		},
	}

	return parser
}

// Language implements lang.Parser.
func (p *Parser) Language() string {
	return languageName
}

// Extensions implements lang.Parser.
func (p *Parser) Extensions() []string {
	return []string{".py"}
}

// Parse implements lang.Parser. Tree-sitter recovers from broken input by
// emitting ERROR nodes; any such node fails the parse, carrying the
// 1-based line where recovery started.
func (p *Parser) Parse(ctx context.Context, filename string, src []byte) (stree.Tree, error) {
	tsParser, ok := p.tsParserPool.Get().(*sitter.Parser)
	if !ok {
		return nil, errPoolType
	}

	defer p.tsParserPool.Put(tsParser)

	tree, err := tsParser.ParseString(ctx, nil, src)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", filename, err)
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.IsNull() {
		return nil, fmt.Errorf("%w: %s: no parse tree", lang.ErrSyntax, filename)
	}

	if errNode, found := findError(root); found {
		line := safeconv.MustUint32ToInt(uint32(errNode.StartPoint().Row)) + 1

		return nil, fmt.Errorf("%w: %s:%d", lang.ErrSyntax, filename, line)
	}

	return convert(root, src), nil
}

func findError(node sitter.Node) (sitter.Node, bool) {
	if node.Type() == errorKind {
		return node, true
	}

	for i := range node.ChildCount() {
		if errNode, found := findError(node.Child(i)); found {
			return errNode, true
		}
	}

	return sitter.Node{}, false
}

// convert maps one tree-sitter node to a comparable node: the kind and
// line come from the node itself, interior nodes carry their comparable
// children as a list, and leaf tokens carry their text.
func convert(node sitter.Node, src []byte) stree.Tree {
	kind := node.Type()
	line := safeconv.MustUint32ToInt(uint32(node.StartPoint().Row)) + 1

	if kind == stringStartKind || kind == stringEndKind {
		out := stree.NewNode(kind, line)
		out.AddField(textField, stree.StringScalar(stringAffix(tokenText(node, src))))

		return out
	}

	children := comparableChildren(node, src)

	// Grouping parentheses around a single expression are formatting.
	if kind == parenExprKind && len(children) == 1 {
		return convert(children[0], src)
	}

	out := stree.NewNode(kind, line)

	if len(children) == 0 {
		out.AddField(textField, stree.StringScalar(tokenText(node, src)))

		return out
	}

	list := make(stree.List, 0, len(children))
	for _, child := range children {
		list = append(list, convert(child, src))
	}

	out.AddField(childrenField, list)

	return out
}

func comparableChildren(node sitter.Node, src []byte) []sitter.Node {
	count := node.ChildCount()
	children := make([]sitter.Node, 0, count)

	for i := range count {
		child := node.Child(i)
		if includeChild(child, src) {
			children = append(children, child)
		}
	}

	return children
}

// includeChild drops comments and bare punctuation tokens. Anonymous
// tokens that are not punctuation, such as operators and keywords, stay:
// they are the only place the concrete syntax records which operation a
// node performs.
func includeChild(child sitter.Node, src []byte) bool {
	if child.Type() == commentKind {
		return false
	}

	if !child.IsNamed() && punctuation[tokenText(child, src)] {
		return false
	}

	return true
}

func tokenText(node sitter.Node, src []byte) string {
	start, end := node.StartByte(), node.EndByte()
	if start > end || int(end) > len(src) {
		return ""
	}

	return string(src[start:end])
}
