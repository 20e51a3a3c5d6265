// Package style holds the colors, icons and lipgloss styles shared by the
// logger and the command output.
package style

import "github.com/charmbracelet/lipgloss"

// Colors.
var (
	Iris   = lipgloss.Color("#8B5CF6")
	Slate  = lipgloss.Color("#667085")
	Green  = lipgloss.Color("#22A06B")
	Red    = lipgloss.Color("#D93025")
	Yellow = lipgloss.Color("#F59E0B")
)

// Icons.
const (
	Check   = "✓"
	Cross   = "✗"
	Warning = "!"
	Dot     = "●"
	Circle  = "○"
)

// Text styles for command output.
var (
	Header = lipgloss.NewStyle().Bold(true).Foreground(Iris)
	Active = lipgloss.NewStyle().Foreground(Green)
	Stale  = lipgloss.NewStyle().Foreground(Yellow)
	Muted  = lipgloss.NewStyle().Foreground(Slate)
)
