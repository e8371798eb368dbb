// Package score turns a metrics record into a bounded quality score via
// ordered deduction rules.
package score

import (
	"pygrade/internal/engine/metrics"
)

const (
	// MaxScore is the starting score before deductions.
	MaxScore = 100

	// MaxFileLines is the file length above which a deduction applies.
	// The comparison is strict: exactly this many lines is fine.
	MaxFileLines = 300
)

// Rule names, in evaluation order. The order fixes the listing of applied
// deductions; the numeric result is order-independent since deductions are
// additive and independently triggered.
const (
	RuleNoFunctions   = "no_functions"
	RuleNoDocstring   = "missing_docstring"
	RuleNoTypeHints   = "missing_type_hints"
	RuleLongFunctions = "long_functions"
	RuleFileTooLong   = "file_too_long"
)

type Deduction struct {
	Rule   string `json:"rule"`
	Amount int    `json:"amount"`
}

type Result struct {
	Score      int         `json:"score"`
	Deductions []Deduction `json:"deductions"`
}

type rule struct {
	name    string
	amount  int
	applies func(metrics.Record) bool
}

var rules = []rule{
	{RuleNoFunctions, 30, func(m metrics.Record) bool { return m.FunctionCount == 0 }},
	{RuleNoDocstring, 10, func(m metrics.Record) bool { return !m.HasModuleDocstring }},
	{RuleNoTypeHints, 10, func(m metrics.Record) bool { return !m.UsesTypeHints }},
	{RuleLongFunctions, 10, func(m metrics.Record) bool { return m.LongFunctionCount > 0 }},
	{RuleFileTooLong, 10, func(m metrics.Record) bool { return m.TotalLines > MaxFileLines }},
}

// Compute is pure and total: every record maps to a score in [0, MaxScore]
// with the triggered deductions listed in rule order.
func Compute(m metrics.Record) Result {
	result := Result{Score: MaxScore}

	total := 0
	for _, r := range rules {
		if r.applies(m) {
			result.Deductions = append(result.Deductions, Deduction{Rule: r.name, Amount: r.amount})
			total += r.amount
		}
	}

	result.Score = clamp(MaxScore-total, 0, MaxScore)
	return result
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
