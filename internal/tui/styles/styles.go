// Package styles provides Lip Gloss styles for the romple TUI.
package styles

import (
	"github.com/charmbracelet/lipgloss"
)

// Color palette for the TUI.
var (
	Primary     = lipgloss.Color("#7C3AED") // Purple
	Secondary   = lipgloss.Color("#06B6D4") // Cyan
	Success     = lipgloss.Color("#10B981") // Green
	Warning     = lipgloss.Color("#F59E0B") // Amber
	Error       = lipgloss.Color("#EF4444") // Red
	Muted       = lipgloss.Color("#6B7280") // Gray
	MutedLight  = lipgloss.Color("#9CA3AF") // Light Gray
	Foreground  = lipgloss.Color("#F9FAFB") // White
	BorderColor = lipgloss.Color("#374151") // Border Gray
)

// Header styles.
var (
	// TitleStyle is for the operation title line.
	TitleStyle = lipgloss.NewStyle().
			Foreground(Foreground).
			Background(Primary).
			Bold(true).
			Padding(0, 1)

	// LabelStyle is for field labels.
	LabelStyle = lipgloss.NewStyle().
			Foreground(MutedLight)

	// ValueStyle is for field values.
	ValueStyle = lipgloss.NewStyle().
			Foreground(Foreground).
			Bold(true)
)

// Progress bar styles.
var (
	// ProgressFilledStyle is for the filled portion.
	ProgressFilledStyle = lipgloss.NewStyle().
				Foreground(Success).
				Bold(true)

	// ProgressEmptyStyle is for the empty portion.
	ProgressEmptyStyle = lipgloss.NewStyle().
				Foreground(Muted)

	// ProgressCountStyle is for the file count display.
	ProgressCountStyle = lipgloss.NewStyle().
				Foreground(Secondary)

	// CurrentFileStyle is for the file currently being processed.
	CurrentFileStyle = lipgloss.NewStyle().
				Foreground(MutedLight).
				Italic(true)
)

// Verification status styles.
var (
	StatusGoodStyle = lipgloss.NewStyle().
			Foreground(Success)

	StatusWarnStyle = lipgloss.NewStyle().
			Foreground(Warning)

	StatusBadStyle = lipgloss.NewStyle().
			Foreground(Error)

	StatusMutedStyle = lipgloss.NewStyle().
				Foreground(Muted)
)

// Summary styles.
var (
	// SummaryBoxStyle frames the per-status summary.
	SummaryBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(BorderColor).
			Padding(0, 1)

	// SummaryCountStyle is for the counts column.
	SummaryCountStyle = lipgloss.NewStyle().
				Foreground(Foreground).
				Bold(true)
)
