package parser

import (
	"time"
)

// SourceFile holds the structural facts one analysis run needs from a
// single parsed source unit. It is never mutated after extraction.
type SourceFile struct {
	Path               string
	Language           string
	TotalLines         int
	HasModuleDocstring bool
	Imports            []Import
	Functions          []FunctionDef
	ParsedAt           time.Time
}

// Import is one import statement (not one imported name). "import os, sys"
// yields a single Import with two modules.
type Import struct {
	Modules    []string
	Items      []string // for "from X import Y, Z"
	IsRelative bool
	Location   Location
}

type FunctionDef struct {
	Name                string
	Scope               string // module, method, nested
	StartLine           int    // 1-based, inclusive
	EndLine             int    // 1-based, inclusive
	ParameterCount      int
	AnnotatedParams     int
	HasReturnAnnotation bool
	Location            Location
}

// SpanLines is the line distance of the whole definition, end minus start.
// A one-line def yields 0.
func (f FunctionDef) SpanLines() int {
	return f.EndLine - f.StartLine
}

type Location struct {
	File   string
	Line   int
	Column int
}
