package parser

import (
	"fmt"
	"path/filepath"
	"strings"

	sitter "github.com/tree-sitter/go-tree-sitter"

	cerrors "pygrade/internal/core/errors"
)

type Parser struct {
	loader     *GrammarLoader
	extractors map[string]Extractor // language -> extractor
}

type Extractor interface {
	Extract(node *sitter.Node, source []byte, filePath string) (*SourceFile, error)
}

func NewParser(loader *GrammarLoader) *Parser {
	p := &Parser{
		loader:     loader,
		extractors: make(map[string]Extractor),
	}
	p.RegisterExtractor("python", &PythonExtractor{})
	return p
}

func (p *Parser) RegisterExtractor(lang string, e Extractor) {
	p.extractors[lang] = e
}

// ParseFile parses content into a SourceFile. Tree-sitter recovers from bad
// input instead of failing, so syntactic validity is checked via the error
// nodes on the resulting tree.
func (p *Parser) ParseFile(path string, content []byte) (*SourceFile, error) {
	lang := p.detectLanguage(path)
	if lang == "" {
		return nil, cerrors.AddContext(
			cerrors.New(cerrors.CodeValidationError, "unsupported language"),
			cerrors.CtxPath, path)
	}

	grammar := p.loader.Language(lang)
	if grammar == nil {
		return nil, cerrors.New(cerrors.CodeInternal, fmt.Sprintf("grammar not loaded: %s", lang))
	}

	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(grammar)

	tree := parser.Parse(content, nil)
	if tree == nil {
		return nil, cerrors.AddContext(
			cerrors.New(cerrors.CodeParseError, "parser produced no tree"),
			cerrors.CtxPath, path)
	}
	defer tree.Close()

	root := tree.RootNode()
	if root.HasError() {
		return nil, cerrors.AddContext(
			cerrors.New(cerrors.CodeParseError, "source is not syntactically valid"),
			cerrors.CtxPath, path)
	}

	extractor := p.extractors[lang]
	if extractor == nil {
		return nil, cerrors.New(cerrors.CodeInternal, fmt.Sprintf("no extractor for: %s", lang))
	}

	file, err := extractor.Extract(root, content, path)
	if err != nil {
		return nil, cerrors.Wrap(err, cerrors.CodeInternal, "extract source facts")
	}
	file.TotalLines = countLines(content)
	return file, nil
}

func (p *Parser) detectLanguage(path string) string {
	switch filepath.Ext(path) {
	case ".py":
		return "python"
	default:
		return ""
	}
}

// countLines counts source lines; a single trailing newline does not open an
// extra empty line, so "a\nb\n" is 2 lines.
func countLines(content []byte) int {
	if len(content) == 0 {
		return 0
	}
	lines := strings.Split(string(content), "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return len(lines)
}
