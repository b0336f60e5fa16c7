// Package tui provides the terminal progress display for long-running
// romple operations (DAT imports and folder scans).
package tui

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	"github.com/dbmrq/romple/internal/tui/styles"
)

// ProgressMsg updates the progress display.
type ProgressMsg struct {
	Done  int
	Total int
	File  string
}

// DoneMsg ends the program. Err is nil on success.
type DoneMsg struct {
	Err error
}

// Report is called by the worker to publish progress.
type Report func(done, total int, file string)

// progressModel is the Bubble Tea model for a single long operation.
type progressModel struct {
	title   string
	spinner spinner.Model
	done    int
	total   int
	file    string
	started time.Time
	width   int
	err     error
	quit    bool
}

func newProgressModel(title string) progressModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(styles.Secondary)
	return progressModel{
		title:   title,
		spinner: s,
		started: time.Now(),
	}
}

func (m progressModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			m.quit = true
			return m, tea.Quit
		}
		return m, nil

	case ProgressMsg:
		m.done = msg.Done
		m.total = msg.Total
		m.file = msg.File
		return m, nil

	case DoneMsg:
		m.err = msg.Err
		return m, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m progressModel) View() string {
	var b strings.Builder

	b.WriteString(styles.TitleStyle.Render(m.title))
	b.WriteString("\n\n")

	b.WriteString(m.spinner.View())
	b.WriteString(" ")
	b.WriteString(renderBar(m.done, m.total, barWidth(m.width)))
	b.WriteString(" ")
	b.WriteString(styles.ProgressCountStyle.Render(fmt.Sprintf("%d/%d files", m.done, m.total)))
	b.WriteString("\n")

	if m.file != "" {
		b.WriteString(styles.CurrentFileStyle.Render(m.file))
		b.WriteString("\n")
	}

	elapsed := time.Since(m.started).Round(time.Second)
	b.WriteString(styles.LabelStyle.Render(fmt.Sprintf("Elapsed: %s", elapsed)))
	b.WriteString("\n")
	return b.String()
}

func barWidth(width int) int {
	switch {
	case width > 80:
		return 40
	case width > 60:
		return 30
	default:
		return 20
	}
}

// renderBar draws a filled/empty progress bar of the given width.
func renderBar(done, total, width int) string {
	var percent float64
	if total > 0 {
		percent = float64(done) / float64(total)
	}
	filled := int(percent * float64(width))
	if filled > width {
		filled = width
	}
	return styles.ProgressFilledStyle.Render(strings.Repeat("█", filled)) +
		styles.ProgressEmptyStyle.Render(strings.Repeat("░", width-filled))
}

// Run executes work while displaying its progress. On a terminal a Bubble
// Tea program is shown; otherwise periodic progress lines are printed.
// work runs on its own goroutine and reports through the Report callback;
// its context is cancelled when the user quits, and Run waits for work to
// return so the caller can safely tear down its resources.
func Run(ctx context.Context, title string, work func(ctx context.Context, report Report) error) error {
	if !isatty.IsTerminal(os.Stdout.Fd()) {
		return runHeadless(ctx, title, work)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(newProgressModel(title))

	done := make(chan error, 1)
	go func() {
		err := work(ctx, func(done, total int, file string) {
			p.Send(ProgressMsg{Done: done, Total: total, File: file})
		})
		done <- err
		p.Send(DoneMsg{Err: err})
	}()

	final, err := p.Run()
	if err != nil {
		cancel()
		<-done
		return err
	}
	if m, ok := final.(progressModel); ok {
		if m.quit {
			cancel()
			<-done
			return fmt.Errorf("interrupted")
		}
		return m.err
	}
	return nil
}

// runHeadless prints a progress line at most once per second.
func runHeadless(ctx context.Context, title string, work func(ctx context.Context, report Report) error) error {
	fmt.Fprintln(os.Stderr, title)

	var last time.Time
	err := work(ctx, func(done, total int, file string) {
		if time.Since(last) < time.Second && done != total {
			return
		}
		last = time.Now()
		fmt.Fprintf(os.Stderr, "  %d/%d %s\n", done, total, file)
	})
	return err
}
