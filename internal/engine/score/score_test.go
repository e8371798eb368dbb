package score

import (
	"testing"

	"pygrade/internal/engine/metrics"
)

func clean() metrics.Record {
	return metrics.Record{
		FunctionCount:      3,
		ImportCount:        2,
		HasModuleDocstring: true,
		UsesTypeHints:      true,
		LongFunctionCount:  0,
		TotalLines:         120,
	}
}

func TestCleanRecordScoresFull(t *testing.T) {
	result := Compute(clean())

	if result.Score != 100 {
		t.Errorf("expected 100, got %d", result.Score)
	}
	if len(result.Deductions) != 0 {
		t.Errorf("expected no deductions, got %v", result.Deductions)
	}
}

func TestZeroFunctionsCapsAtSeventy(t *testing.T) {
	m := clean()
	m.FunctionCount = 0

	if result := Compute(m); result.Score > 70 {
		t.Errorf("zero functions must score <= 70, got %d", result.Score)
	}
}

func TestScenarioMissingEverythingButShort(t *testing.T) {
	m := metrics.Record{FunctionCount: 0, TotalLines: 50}

	result := Compute(m)
	if result.Score != 50 {
		t.Errorf("expected 50, got %d", result.Score)
	}
	want := []Deduction{
		{RuleNoFunctions, 30},
		{RuleNoDocstring, 10},
		{RuleNoTypeHints, 10},
	}
	if len(result.Deductions) != len(want) {
		t.Fatalf("expected %d deductions, got %v", len(want), result.Deductions)
	}
	for i, d := range result.Deductions {
		if d != want[i] {
			t.Errorf("deduction %d: got %v, want %v", i, d, want[i])
		}
	}
}

func TestScenarioSingleLongFunction(t *testing.T) {
	m := clean()
	m.LongFunctionCount = 1

	result := Compute(m)
	if result.Score != 90 {
		t.Errorf("expected 90, got %d", result.Score)
	}
	if len(result.Deductions) != 1 || result.Deductions[0].Rule != RuleLongFunctions {
		t.Errorf("expected single long_functions deduction, got %v", result.Deductions)
	}
}

func TestScenarioAllViolations(t *testing.T) {
	m := metrics.Record{FunctionCount: 0, LongFunctionCount: 2, TotalLines: 350}

	result := Compute(m)
	if result.Score != 30 {
		t.Errorf("expected 30, got %d", result.Score)
	}

	total := 0
	for _, d := range result.Deductions {
		total += d.Amount
	}
	if total != 70 {
		t.Errorf("expected deductions summing to 70, got %d", total)
	}
}

func TestLongFunctionDeductionIsFlat(t *testing.T) {
	one := clean()
	one.LongFunctionCount = 1
	many := clean()
	many.LongFunctionCount = 9

	if Compute(one).Score != Compute(many).Score {
		t.Error("long_functions must deduct a flat amount, not per function")
	}
}

func TestFileLengthBoundary(t *testing.T) {
	m := clean()

	m.TotalLines = 300
	if result := Compute(m); result.Score != 100 {
		t.Errorf("300 lines is not over the limit, got %d", result.Score)
	}
	m.TotalLines = 301
	if result := Compute(m); result.Score != 90 {
		t.Errorf("301 lines must deduct 10, got %d", result.Score)
	}
}

func TestScoreAlwaysBounded(t *testing.T) {
	records := []metrics.Record{
		{},
		{FunctionCount: 0, LongFunctionCount: 100, TotalLines: 100000},
		clean(),
		{FunctionCount: 1, HasModuleDocstring: true, UsesTypeHints: true},
	}

	for _, m := range records {
		result := Compute(m)
		if result.Score < 0 || result.Score > 100 {
			t.Errorf("score out of range for %+v: %d", m, result.Score)
		}
	}
}

// Score equals MaxScore minus the deduction sum, clamped at zero.
func TestScoreMatchesDeductionSum(t *testing.T) {
	records := []metrics.Record{
		{},
		{FunctionCount: 2},
		{FunctionCount: 0, TotalLines: 400},
		clean(),
	}

	for _, m := range records {
		result := Compute(m)
		total := 0
		for _, d := range result.Deductions {
			total += d.Amount
		}
		expected := MaxScore - total
		if expected < 0 {
			expected = 0
		}
		if result.Score != expected {
			t.Errorf("score %d does not match 100-sum(%d) for %+v", result.Score, total, m)
		}
	}
}
