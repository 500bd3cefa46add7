// Package lang routes source files to language backends that parse them
// into comparable syntax trees. Detection goes through enry, the same
// classifier GitHub's linguist uses, with a file-extension fallback for
// content it cannot place.
package lang

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/src-d/enry/v2"

	"github.com/astdiff-tech/astdiff/pkg/stree"
)

// ErrSyntax is wrapped by backends when input cannot be parsed.
var ErrSyntax = errors.New("syntax error")

// ErrUnsupportedLanguage is returned when no registered backend handles a
// file's language.
var ErrUnsupportedLanguage = errors.New("unsupported language")

// Parser turns source text into a syntax tree.
type Parser interface {
	// Parse converts src into a tree. Implementations wrap ErrSyntax when
	// the content does not parse.
	Parse(ctx context.Context, filename string, src []byte) (stree.Tree, error)
	// Language returns the canonical language name as enry reports it,
	// for example "Go" or "Python".
	Language() string
	// Extensions returns the file extensions claimed by the backend,
	// with leading dots, used when content detection is inconclusive.
	Extensions() []string
}

// Registry maps detected languages to their backends.
type Registry struct {
	byLanguage  map[string]Parser
	byExtension map[string]Parser
}

// NewRegistry builds a registry from the given backends. Later backends
// win on language or extension collisions.
func NewRegistry(parsers ...Parser) *Registry {
	registry := &Registry{
		byLanguage:  make(map[string]Parser, len(parsers)),
		byExtension: make(map[string]Parser),
	}

	for _, parser := range parsers {
		registry.byLanguage[strings.ToLower(parser.Language())] = parser

		for _, extension := range parser.Extensions() {
			registry.byExtension[strings.ToLower(extension)] = parser
		}
	}

	return registry
}

// ParserFor picks the backend for a file, detecting the language from the
// file name and, when necessary, its contents.
func (registry *Registry) ParserFor(path string, contents []byte) (Parser, error) {
	language := enry.GetLanguage(filepath.Base(path), contents)
	if parser, ok := registry.byLanguage[strings.ToLower(language)]; ok {
		return parser, nil
	}

	if parser, ok := registry.byExtension[strings.ToLower(filepath.Ext(path))]; ok {
		return parser, nil
	}

	if language == "" {
		language = "unknown"
	}

	return nil, fmt.Errorf("%w: %s (%s)", ErrUnsupportedLanguage, language, path)
}

// Languages lists the registered language names, sorted.
func (registry *Registry) Languages() []string {
	names := make([]string, 0, len(registry.byLanguage))
	for _, parser := range registry.byLanguage {
		names = append(names, parser.Language())
	}

	sort.Strings(names)

	return names
}
