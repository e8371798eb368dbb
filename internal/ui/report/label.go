package report

import "github.com/fatih/color"

// Quality label constants.
const (
	GoodValue = "Good"
	FairValue = "Fair"
	PoorValue = "Poor"
)

var (
	goodColor = color.New(color.FgGreen, color.Bold)
	fairColor = color.New(color.FgYellow)
	poorColor = color.New(color.FgRed, color.Bold)
)

// PlainLabel returns the quality label for a score without any styling.
// This is the core logic shared by the table, JSON and TSV writers.
func PlainLabel(score int) string {
	switch {
	case score >= 80:
		return GoodValue
	case score >= 60:
		return FairValue
	default:
		return PoorValue
	}
}

// ColorLabel returns the quality label colored for console output.
func ColorLabel(score int) string {
	text := PlainLabel(score)

	switch text {
	case GoodValue:
		return goodColor.Sprint(text)
	case FairValue:
		return fairColor.Sprint(text)
	default:
		return poorColor.Sprint(text)
	}
}
