package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/dbmrq/romple/internal/store"
	"github.com/dbmrq/romple/internal/tui/styles"
)

// summaryOrder fixes the display order of statuses.
var summaryOrder = []store.Status{
	store.StatusCorrect,
	store.StatusWrongFilename,
	store.StatusBroken,
	store.StatusNotRecognized,
	store.StatusMissing,
	store.StatusDuplicate,
	store.StatusMovedBroken,
	store.StatusMovedExtra,
	store.StatusIgnored,
}

// statusLabel maps a status to its icon and style.
func statusLabel(s store.Status) string {
	switch s {
	case store.StatusCorrect:
		return styles.StatusGoodStyle.Render("✓ correct")
	case store.StatusWrongFilename:
		return styles.StatusWarnStyle.Render("~ wrong filename")
	case store.StatusBroken:
		return styles.StatusBadStyle.Render("✗ broken")
	case store.StatusNotRecognized:
		return styles.StatusWarnStyle.Render("? not recognized")
	case store.StatusMissing:
		return styles.StatusBadStyle.Render("- missing")
	case store.StatusDuplicate:
		return styles.StatusWarnStyle.Render("= duplicate")
	case store.StatusMovedBroken:
		return styles.StatusMutedStyle.Render("> moved (broken)")
	case store.StatusMovedExtra:
		return styles.StatusMutedStyle.Render("> moved (extra)")
	case store.StatusIgnored:
		return styles.StatusMutedStyle.Render(". ignored")
	default:
		return string(s)
	}
}

// RenderSummary renders per-status counts as a boxed list. Statuses with
// a zero count are omitted.
func RenderSummary(title string, summary map[store.Status]int) string {
	var lines []string
	total := 0
	for _, s := range summaryOrder {
		n, ok := summary[s]
		if !ok || n == 0 {
			continue
		}
		total += n
		lines = append(lines, fmt.Sprintf("%s  %s",
			styles.SummaryCountStyle.Render(fmt.Sprintf("%5d", n)),
			statusLabel(s)))
	}
	if len(lines) == 0 {
		lines = append(lines, styles.StatusMutedStyle.Render("no results"))
	}
	lines = append(lines, styles.LabelStyle.Render(fmt.Sprintf("%5d  total", total)))

	content := lipgloss.JoinVertical(lipgloss.Left,
		styles.ValueStyle.Render(title),
		strings.Join(lines, "\n"),
	)
	return styles.SummaryBoxStyle.Render(content)
}
