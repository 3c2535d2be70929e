package style

import (
	"fmt"

	"github.com/pterm/pterm"
)

// Status is the outcome of one audit check
type Status string

const (
	StatusPass    Status = "PASS"
	StatusFail    Status = "FAIL"
	StatusSkipped Status = "SKIPPED"
)

// StatusStyle returns the pterm style for an audit status
func StatusStyle(status Status) *pterm.Style {
	switch status {
	case StatusPass:
		return pterm.NewStyle(pterm.FgGreen, pterm.Bold)
	case StatusFail:
		return pterm.NewStyle(pterm.FgRed, pterm.Bold)
	case StatusSkipped:
		return pterm.NewStyle(pterm.FgGray)
	default:
		return pterm.NewStyle(pterm.FgDefault)
	}
}

// StatusIndicator returns the one-character marker for an audit status
func StatusIndicator(status Status) string {
	switch status {
	case StatusPass:
		return SuccessIndicator
	case StatusFail:
		return ErrorIndicator
	case StatusSkipped:
		return SkippedIndicator
	default:
		return InfoIndicator
	}
}

// RenderCheckLine renders one audit check result line
func RenderCheckLine(status Status, name, detail string) string {
	label := StatusStyle(status).Sprintf("%-7s", string(status))
	line := fmt.Sprintf("  %s %s  %s", StatusIndicator(status), label, name)
	if detail != "" {
		line += MutedStyle.Render(" " + detail)
	}
	return line
}
