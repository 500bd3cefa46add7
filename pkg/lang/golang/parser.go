// Package golang parses Go source with the standard library's go/parser
// and converts the AST into comparable trees. Conversion follows an
// explicit per-node-kind schema derived from go/ast itself: positions,
// comments and resolution metadata are dropped, redundant grouping
// parentheses are unwrapped, and literals are normalized to their constant
// values, so two files compare equal exactly when their structure agrees.
package golang

import (
	"context"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"reflect"

	"github.com/astdiff-tech/astdiff/pkg/lang"
	"github.com/astdiff-tech/astdiff/pkg/stree"
)

const languageName = "Go"

// Parser is the Go language backend. The zero value is not usable; call
// New.
type Parser struct{}

// New returns the Go backend.
func New() *Parser {
	return &Parser{}
}

// Language implements lang.Parser.
func (p *Parser) Language() string {
	return languageName
}

// Extensions implements lang.Parser.
func (p *Parser) Extensions() []string {
	return []string{".go"}
}

// Parse implements lang.Parser. Comments are not requested from the
// parser, so comment edits are invisible to the comparison.
func (p *Parser) Parse(ctx context.Context, filename string, src []byte) (stree.Tree, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("parse %s: %w", filename, err)
	}

	fset := token.NewFileSet()

	file, err := parser.ParseFile(fset, filename, src, parser.SkipObjectResolution)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", lang.ErrSyntax, err)
	}

	conv := &converter{fset: fset}

	return conv.node(reflect.ValueOf(file)), nil
}

// converter turns go/ast values into stree values, carrying the file set
// for line lookups.
type converter struct {
	fset *token.FileSet
}

// node converts a pointer-to-struct AST value.
func (c *converter) node(value reflect.Value) stree.Tree {
	if value.Kind() == reflect.Pointer && value.IsNil() {
		return stree.NilScalar()
	}

	if paren, ok := value.Interface().(*ast.ParenExpr); ok {
		// Grouping parentheses are formatting, not structure.
		return c.node(reflect.ValueOf(paren.X))
	}

	if lit, ok := value.Interface().(*ast.BasicLit); ok {
		return c.basicLit(lit)
	}

	element := value.Elem()

	schema, ok := schemas[element.Type()]
	if !ok {
		// A node type this package does not know (possible only with a
		// newer go/ast). Kind-only conversion keeps the comparison sound
		// for everything around it.
		return stree.NewNode(element.Type().Name(), c.line(value))
	}

	out := stree.NewNode(schema.kind, c.line(value))
	for _, spec := range schema.fields {
		out.AddField(spec.name, c.value(element.Field(spec.index)))
	}

	return out
}

// value converts one schema field.
func (c *converter) value(field reflect.Value) stree.Tree {
	switch field.Kind() {
	case reflect.Interface:
		if field.IsNil() {
			return stree.NilScalar()
		}

		return c.node(field.Elem())
	case reflect.Pointer:
		return c.node(field)
	case reflect.Slice:
		list := make(stree.List, 0, field.Len())
		for i := 0; i < field.Len(); i++ {
			list = append(list, c.value(field.Index(i)))
		}

		return list
	case reflect.String:
		return stree.StringScalar(field.String())
	case reflect.Bool:
		return stree.BoolScalar(field.Bool())
	default:
		return c.scalarField(field)
	}
}

// scalarField converts the named integer types go/ast uses for leaves.
func (c *converter) scalarField(field reflect.Value) stree.Tree {
	switch field.Type() {
	case tokenTokenType:
		return stree.StringScalar(token.Token(field.Int()).String())
	case tokenPosType:
		// Reached only for the flag positions kept by the schema; their
		// validity is the syntax, their location is not.
		return stree.BoolScalar(token.Pos(field.Int()).IsValid())
	case chanDirType:
		return stree.IntScalar(int(field.Int()))
	default:
		return stree.StringScalar(fmt.Sprint(field.Interface()))
	}
}

func (c *converter) basicLit(lit *ast.BasicLit) stree.Tree {
	out := stree.NewNode("BasicLit", c.line(reflect.ValueOf(lit)))
	out.AddField("Kind", stree.StringScalar(lit.Kind.String()))
	out.AddField("Value", stree.StringScalar(normalizeLiteral(lit.Kind, lit.Value)))

	return out
}

func (c *converter) line(value reflect.Value) int {
	astNode, ok := value.Interface().(ast.Node)
	if !ok {
		return 0
	}

	pos := astNode.Pos()
	if !pos.IsValid() {
		return 0
	}

	return c.fset.Position(pos).Line
}
