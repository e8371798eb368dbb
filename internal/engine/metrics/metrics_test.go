package metrics

import (
	"testing"

	"pygrade/internal/engine/parser"
)

func TestExtractEmptyFile(t *testing.T) {
	rec := Extract(&parser.SourceFile{Path: "empty.py"})

	if rec.FunctionCount != 0 || rec.ImportCount != 0 || rec.LongFunctionCount != 0 {
		t.Errorf("empty file should yield zero counts: %+v", rec)
	}
	if rec.HasModuleDocstring || rec.UsesTypeHints {
		t.Errorf("empty file should yield false flags: %+v", rec)
	}
}

func TestExtractTypeHintDetection(t *testing.T) {
	file := &parser.SourceFile{
		Functions: []parser.FunctionDef{
			{Name: "a", StartLine: 1, EndLine: 2},
			{Name: "b", StartLine: 4, EndLine: 5, HasReturnAnnotation: true},
		},
	}

	rec := Extract(file)
	if !rec.UsesTypeHints {
		t.Error("return annotation anywhere should set UsesTypeHints")
	}

	file.Functions[1].HasReturnAnnotation = false
	if rec := Extract(file); rec.UsesTypeHints {
		t.Error("no annotations should leave UsesTypeHints false")
	}

	file.Functions[0].AnnotatedParams = 1
	if rec := Extract(file); !rec.UsesTypeHints {
		t.Error("parameter annotation anywhere should set UsesTypeHints")
	}
}

// The long-function boundary is strict: span 20 is not long, span 21 is.
func TestExtractLongFunctionBoundary(t *testing.T) {
	cases := []struct {
		span int
		long bool
	}{
		{19, false},
		{20, false},
		{21, true},
	}

	for _, tc := range cases {
		file := &parser.SourceFile{
			Functions: []parser.FunctionDef{{Name: "f", StartLine: 1, EndLine: 1 + tc.span}},
		}
		rec := Extract(file)
		got := rec.LongFunctionCount > 0
		if got != tc.long {
			t.Errorf("span %d: long=%v, expected %v", tc.span, got, tc.long)
		}
	}
}

func TestExtractCountsEveryLongFunction(t *testing.T) {
	file := &parser.SourceFile{
		Functions: []parser.FunctionDef{
			{Name: "a", StartLine: 1, EndLine: 30},
			{Name: "b", StartLine: 31, EndLine: 60},
			{Name: "c", StartLine: 61, EndLine: 62},
		},
	}

	if rec := Extract(file); rec.LongFunctionCount != 2 {
		t.Errorf("expected 2 long functions, got %d", rec.LongFunctionCount)
	}
}
