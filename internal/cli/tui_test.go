package cli

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/swapbench/pkg/bench"
)

func record(status bench.Status) bench.Record {
	return bench.Record{
		RunID:    "ab12cd34",
		Strategy: "default",
		N:        5,
		Instance: 0,
		Elapsed:  time.Second,
		Status:   status,
	}
}

func TestSweepModelCountsByStatus(t *testing.T) {
	var m tea.Model = newSweepModel(10)

	for _, status := range []bench.Status{
		bench.StatusSolved, bench.StatusSolved, bench.StatusTimeout, bench.StatusError,
	} {
		m, _ = m.Update(runRecordedMsg{rec: record(status)})
	}

	sm := m.(sweepModel)
	if sm.done != 4 {
		t.Errorf("done = %d, want 4", sm.done)
	}
	if sm.solved != 2 || sm.timedOut != 1 || sm.failed != 1 {
		t.Errorf("counts = %d/%d/%d, want 2/1/1", sm.solved, sm.timedOut, sm.failed)
	}
}

func TestSweepModelKeepsRecentWindow(t *testing.T) {
	var m tea.Model = newSweepModel(100)

	for i := 0; i < recentRuns+5; i++ {
		rec := record(bench.StatusSolved)
		rec.Instance = i
		m, _ = m.Update(runRecordedMsg{rec: rec})
	}

	sm := m.(sweepModel)
	if len(sm.recent) != recentRuns {
		t.Fatalf("len(recent) = %d, want %d", len(sm.recent), recentRuns)
	}
	if sm.recent[len(sm.recent)-1].Instance != recentRuns+4 {
		t.Errorf("newest record = %d, want the last one sent", sm.recent[len(sm.recent)-1].Instance)
	}
}

func TestSweepModelQuitsOnKey(t *testing.T) {
	m := newSweepModel(10)

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil {
		t.Fatal("expected a quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("q should quit the dashboard")
	}
}

func TestSweepModelQuitsWhenDone(t *testing.T) {
	m := newSweepModel(1)

	updated, cmd := m.Update(sweepDoneMsg{})
	if cmd == nil {
		t.Fatal("expected a quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("sweepDoneMsg should quit the dashboard")
	}
	if !updated.(sweepModel).finished {
		t.Error("model should be marked finished")
	}
}

func TestSweepModelView(t *testing.T) {
	var m tea.Model = newSweepModel(2)
	m, _ = m.Update(runRecordedMsg{rec: record(bench.StatusSolved)})

	view := m.(sweepModel).View()
	for _, want := range []string{"Benchmark sweep", "1/2", "1 solved", "default"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q:\n%s", want, view)
		}
	}
}
