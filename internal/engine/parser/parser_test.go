package parser

import (
	"testing"

	cerrors "pygrade/internal/core/errors"
)

func TestPythonExtraction(t *testing.T) {
	p := NewParser(NewGrammarLoader())

	code := `"""Module docstring."""
import os
import sys, json
from pathlib import Path
from . import local_mod

def plain(a, b):
    return a + b

def hinted(a: int, b) -> str:
    return str(a)

class Greeter:
    def greet(self):
        def inner():
            pass
        inner()
`
	file, err := p.ParseFile("sample.py", []byte(code))
	if err != nil {
		t.Fatal(err)
	}

	if file.Language != "python" {
		t.Errorf("expected python, got %s", file.Language)
	}
	if !file.HasModuleDocstring {
		t.Error("module docstring not detected")
	}

	// One Import per statement: import os / import sys, json / from pathlib / from .
	if len(file.Imports) != 4 {
		t.Errorf("expected 4 import statements, got %d", len(file.Imports))
		for i, imp := range file.Imports {
			t.Logf("import %d: modules=%v items=%v", i, imp.Modules, imp.Items)
		}
	}

	// plain, hinted, greet, inner
	if len(file.Functions) != 4 {
		t.Fatalf("expected 4 functions, got %d", len(file.Functions))
	}

	byName := make(map[string]FunctionDef)
	for _, fn := range file.Functions {
		byName[fn.Name] = fn
	}

	if fn := byName["plain"]; fn.AnnotatedParams != 0 || fn.HasReturnAnnotation {
		t.Errorf("plain should carry no annotations: %+v", fn)
	}
	if fn := byName["hinted"]; fn.AnnotatedParams != 1 || !fn.HasReturnAnnotation {
		t.Errorf("hinted annotations not detected: %+v", fn)
	}
	if fn := byName["hinted"]; fn.ParameterCount != 2 {
		t.Errorf("expected 2 parameters on hinted, got %d", fn.ParameterCount)
	}
	if fn := byName["greet"]; fn.Scope != "method" {
		t.Errorf("expected greet scope method, got %s", fn.Scope)
	}
	if fn := byName["inner"]; fn.Scope != "nested" {
		t.Errorf("expected inner scope nested, got %s", fn.Scope)
	}
}

func TestParseFileSyntaxError(t *testing.T) {
	p := NewParser(NewGrammarLoader())

	_, err := p.ParseFile("broken.py", []byte("def broken(:\n"))
	if err == nil {
		t.Fatal("expected parse error")
	}
	if !cerrors.IsCode(err, cerrors.CodeParseError) {
		t.Errorf("expected PARSE_ERROR, got %v", err)
	}
}

func TestParseFileUnsupportedLanguage(t *testing.T) {
	p := NewParser(NewGrammarLoader())

	_, err := p.ParseFile("main.go", []byte("package main"))
	if !cerrors.IsCode(err, cerrors.CodeValidationError) {
		t.Errorf("expected VALIDATION_ERROR, got %v", err)
	}
}

func TestDocstringRequiresFirstStatement(t *testing.T) {
	p := NewParser(NewGrammarLoader())

	file, err := p.ParseFile("late.py", []byte("import os\n\"\"\"too late\"\"\"\n"))
	if err != nil {
		t.Fatal(err)
	}
	if file.HasModuleDocstring {
		t.Error("string after first statement is not a module docstring")
	}

	file, err = p.ParseFile("comment.py", []byte("# leading comment\n\"\"\"doc\"\"\"\n"))
	if err != nil {
		t.Fatal(err)
	}
	if !file.HasModuleDocstring {
		t.Error("comments before the docstring should be skipped")
	}
}

func TestFunctionSpanLines(t *testing.T) {
	p := NewParser(NewGrammarLoader())

	file, err := p.ParseFile("span.py", []byte("def f():\n    a = 1\n    return a\n"))
	if err != nil {
		t.Fatal(err)
	}
	if len(file.Functions) != 1 {
		t.Fatalf("expected 1 function, got %d", len(file.Functions))
	}
	if span := file.Functions[0].SpanLines(); span != 2 {
		t.Errorf("expected span 2 (lines 1..3), got %d", span)
	}
}

func TestCountLines(t *testing.T) {
	cases := []struct {
		name    string
		content string
		want    int
	}{
		{"empty", "", 0},
		{"no trailing newline", "a\nb", 2},
		{"trailing newline", "a\nb\n", 2},
		{"blank line inside", "a\n\nb\n", 3},
		{"single newline", "\n", 1},
	}
	for _, tc := range cases {
		if got := countLines([]byte(tc.content)); got != tc.want {
			t.Errorf("%s: expected %d lines, got %d", tc.name, tc.want, got)
		}
	}
}
