// Package metrics reduces a parsed source file to the flat record the
// scoring rules consume.
package metrics

import (
	"pygrade/internal/engine/parser"
)

// LongFunctionLines is the span above which a function counts as long.
// The comparison is strict: a def spanning exactly this many lines is fine.
const LongFunctionLines = 20

// Record is the immutable per-file metrics snapshot.
type Record struct {
	FunctionCount      int  `json:"function_count"`
	ImportCount        int  `json:"import_count"`
	HasModuleDocstring bool `json:"has_module_docstring"`
	UsesTypeHints      bool `json:"uses_type_hints"`
	LongFunctionCount  int  `json:"long_function_count"`
	TotalLines         int  `json:"total_lines"`
}

// Extract is total: a successfully parsed file always yields a record, and
// absent constructs produce zeros rather than errors.
func Extract(file *parser.SourceFile) Record {
	rec := Record{
		FunctionCount:      len(file.Functions),
		ImportCount:        len(file.Imports),
		HasModuleDocstring: file.HasModuleDocstring,
		TotalLines:         file.TotalLines,
	}

	for _, fn := range file.Functions {
		if fn.AnnotatedParams > 0 || fn.HasReturnAnnotation {
			rec.UsesTypeHints = true
		}
		if fn.SpanLines() > LongFunctionLines {
			rec.LongFunctionCount++
		}
	}

	return rec
}
