package tui

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/dbmrq/romple/internal/store"
)

func TestProgressModelUpdate(t *testing.T) {
	m := newProgressModel("Scanning")

	next, _ := m.Update(ProgressMsg{Done: 3, Total: 10, File: "Tetris (World).gb"})
	m = next.(progressModel)

	if m.done != 3 || m.total != 10 {
		t.Errorf("progress = %d/%d, want 3/10", m.done, m.total)
	}
	if m.file != "Tetris (World).gb" {
		t.Errorf("file = %q", m.file)
	}
}

func TestProgressModelView(t *testing.T) {
	m := newProgressModel("Scanning folder")
	next, _ := m.Update(ProgressMsg{Done: 3, Total: 10, File: "Tetris (World).gb"})
	m = next.(progressModel)

	view := m.View()
	if !strings.Contains(view, "Scanning folder") {
		t.Error("view is missing the title")
	}
	if !strings.Contains(view, "3/10 files") {
		t.Error("view is missing the file count")
	}
	if !strings.Contains(view, "Tetris (World).gb") {
		t.Error("view is missing the current file")
	}
}

func TestProgressModelQuitsOnDone(t *testing.T) {
	m := newProgressModel("Scanning")

	_, cmd := m.Update(DoneMsg{})
	if cmd == nil {
		t.Fatal("DoneMsg produced no command")
	}
	if msg := cmd(); msg != tea.Quit() {
		t.Errorf("DoneMsg command = %v, want quit", msg)
	}
}

func TestProgressModelCtrlC(t *testing.T) {
	m := newProgressModel("Scanning")

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd == nil {
		t.Fatal("ctrl+c produced no command")
	}
	if !next.(progressModel).quit {
		t.Error("ctrl+c did not mark the model as interrupted")
	}
}

func TestRunForwardsContext(t *testing.T) {
	// Cancelling the caller's context must reach the worker so a quit
	// actually stops the work instead of leaving it running.
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var got context.Context
	err := Run(ctx, "Scanning", func(ctx context.Context, report Report) error {
		got = ctx
		report(1, 1, "done.gb")
		return ctx.Err()
	})
	if got == nil {
		t.Fatal("work never received a context")
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Run() error = %v, want context.Canceled", err)
	}
}

func TestRenderBar(t *testing.T) {
	tests := []struct {
		done, total, width int
		wantFilled         int
	}{
		{0, 10, 20, 0},
		{5, 10, 20, 10},
		{10, 10, 20, 20},
		{0, 0, 20, 0},
		{15, 10, 20, 20}, // clamped
	}

	for _, tt := range tests {
		bar := renderBar(tt.done, tt.total, tt.width)
		filled := strings.Count(bar, "█")
		if filled != tt.wantFilled {
			t.Errorf("renderBar(%d, %d, %d): filled = %d, want %d",
				tt.done, tt.total, tt.width, filled, tt.wantFilled)
		}
		if empty := strings.Count(bar, "░"); filled+empty != tt.width {
			t.Errorf("renderBar(%d, %d, %d): width = %d, want %d",
				tt.done, tt.total, tt.width, filled+empty, tt.width)
		}
	}
}

func TestRenderSummary(t *testing.T) {
	out := RenderSummary("Nintendo - Game Boy", map[store.Status]int{
		store.StatusCorrect: 12,
		store.StatusMissing: 3,
	})

	if !strings.Contains(out, "Nintendo - Game Boy") {
		t.Error("summary is missing the title")
	}
	if !strings.Contains(out, "12") || !strings.Contains(out, "correct") {
		t.Error("summary is missing the correct count")
	}
	if !strings.Contains(out, "3") || !strings.Contains(out, "missing") {
		t.Error("summary is missing the missing count")
	}
	if strings.Contains(out, "broken") {
		t.Error("summary shows a zero-count status")
	}
}

func TestRenderSummary_Empty(t *testing.T) {
	out := RenderSummary("Empty", nil)
	if !strings.Contains(out, "no results") {
		t.Error("empty summary is missing the placeholder")
	}
}
