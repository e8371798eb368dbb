package parser

import (
	"strings"
	"time"

	sitter "github.com/tree-sitter/go-tree-sitter"
)

type PythonExtractor struct{}

func (e *PythonExtractor) Extract(root *sitter.Node, source []byte, filePath string) (*SourceFile, error) {
	file := &SourceFile{
		Path:     filePath,
		Language: "python",
		ParsedAt: time.Now(),
	}

	ctx := &ExtractionContext{Source: source, File: file}
	engine := NewExtractorEngine(map[string]NodeHandler{
		"import_statement":      e.extractImport,
		"import_from_statement": e.extractFromImport,
		"function_definition":   e.extractFunction,
	})
	engine.Walk(ctx, root)

	file.HasModuleDocstring = e.hasModuleDocstring(root)

	return file, nil
}

// hasModuleDocstring reports whether the first statement of the module is a
// bare string expression. Leading comments are not statements and are skipped.
func (e *PythonExtractor) hasModuleDocstring(root *sitter.Node) bool {
	for i := uint(0); i < root.ChildCount(); i++ {
		child := root.Child(i)
		if child.Kind() == "comment" {
			continue
		}
		if child.Kind() != "expression_statement" {
			return false
		}
		if child.ChildCount() != 1 {
			return false
		}
		return child.Child(0).Kind() == "string"
	}
	return false
}

func (e *PythonExtractor) extractImport(ctx *ExtractionContext, node *sitter.Node) bool {
	imp := Import{Location: ctx.Location(node)}

	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)

		switch child.Kind() {
		case "dotted_name", "identifier":
			imp.Modules = append(imp.Modules, ctx.Text(child))
		case "aliased_import":
			for j := uint(0); j < child.ChildCount(); j++ {
				sub := child.Child(j)
				if sub.Kind() == "dotted_name" || sub.Kind() == "identifier" {
					imp.Modules = append(imp.Modules, ctx.Text(sub))
					break
				}
			}
		}
	}

	ctx.File.Imports = append(ctx.File.Imports, imp)
	return true
}

func (e *PythonExtractor) extractFromImport(ctx *ExtractionContext, node *sitter.Node) bool {
	imp := Import{Location: ctx.Location(node)}

	foundImport := false
	for i := uint(0); i < node.ChildCount(); i++ {
		child := node.Child(i)

		switch child.Kind() {
		case "relative_import":
			imp.IsRelative = true
			if module := strings.TrimLeft(ctx.Text(child), "."); module != "" {
				imp.Modules = append(imp.Modules, module)
			}
		case "import":
			foundImport = true
		case "dotted_name", "identifier":
			if foundImport {
				imp.Items = append(imp.Items, ctx.Text(child))
			} else {
				imp.Modules = append(imp.Modules, ctx.Text(child))
			}
		case "import_list", "aliased_import", "wildcard_import":
			e.collectItems(ctx, child, &imp.Items)
		}
	}

	ctx.File.Imports = append(ctx.File.Imports, imp)
	return true
}

func (e *PythonExtractor) collectItems(ctx *ExtractionContext, node *sitter.Node, items *[]string) {
	switch node.Kind() {
	case "identifier", "dotted_name", "wildcard_import":
		*items = append(*items, ctx.Text(node))
		return
	}
	for i := uint(0); i < node.ChildCount(); i++ {
		e.collectItems(ctx, node.Child(i), items)
	}
}

func (e *PythonExtractor) extractFunction(ctx *ExtractionContext, node *sitter.Node) bool {
	name := ctx.Text(node.ChildByFieldName("name"))
	if name == "" {
		return false
	}

	params := node.ChildByFieldName("parameters")
	paramCount, annotated := e.countParameters(params)

	ctx.File.Functions = append(ctx.File.Functions, FunctionDef{
		Name:                name,
		Scope:               e.definitionScope(node),
		StartLine:           int(node.StartPosition().Row) + 1,
		EndLine:             int(node.EndPosition().Row) + 1,
		ParameterCount:      paramCount,
		AnnotatedParams:     annotated,
		HasReturnAnnotation: node.ChildByFieldName("return_type") != nil,
		Location:            ctx.Location(node),
	})

	// Recurse so nested defs and methods are counted too.
	return false
}

func (e *PythonExtractor) countParameters(params *sitter.Node) (total int, annotated int) {
	if params == nil {
		return 0, 0
	}
	for i := uint(0); i < params.ChildCount(); i++ {
		child := params.Child(i)
		switch child.Kind() {
		case "identifier", "default_parameter", "list_splat_pattern", "dictionary_splat_pattern":
			total++
		case "typed_parameter", "typed_default_parameter":
			total++
			annotated++
		}
	}
	return total, annotated
}

func (e *PythonExtractor) definitionScope(node *sitter.Node) string {
	for parent := node.Parent(); parent != nil; parent = parent.Parent() {
		switch parent.Kind() {
		case "function_definition":
			return "nested"
		case "class_definition":
			return "method"
		}
	}
	return "module"
}
