package cli

import (
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/matzehuels/swapbench/pkg/bench"
)

// =============================================================================
// SweepModel - Live benchmark dashboard
// =============================================================================

// runRecordedMsg delivers one finished run to the dashboard.
type runRecordedMsg struct {
	rec bench.Record
}

// sweepDoneMsg tells the dashboard the sweep finished.
type sweepDoneMsg struct {
	err error
}

// recentRuns is how many finished runs the dashboard keeps on screen.
const recentRuns = 10

// sweepModel is the bubbletea model for the live sweep dashboard. It counts
// finished runs by status and shows the most recent ones in a table.
type sweepModel struct {
	total    int
	done     int
	solved   int
	timedOut int
	failed   int
	recent   []bench.Record
	width    int
	finished bool
	err      error
}

// newSweepModel creates a dashboard for a sweep of total runs.
func newSweepModel(total int) sweepModel {
	return sweepModel{total: total, width: 80}
}

func (m sweepModel) Init() tea.Cmd {
	return nil
}

func (m sweepModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
	case runRecordedMsg:
		m.done++
		switch msg.rec.Status {
		case bench.StatusSolved:
			m.solved++
		case bench.StatusTimeout:
			m.timedOut++
		default:
			m.failed++
		}
		m.recent = append(m.recent, msg.rec)
		if len(m.recent) > recentRuns {
			m.recent = m.recent[len(m.recent)-recentRuns:]
		}
	case sweepDoneMsg:
		m.finished = true
		m.err = msg.err
		return m, tea.Quit
	}
	return m, nil
}

func (m sweepModel) View() string {
	var b strings.Builder

	hint := "q to stop early; finished runs are kept"
	if m.finished {
		hint = "sweep complete"
		if m.err != nil {
			hint = "sweep aborted"
		}
	}

	b.WriteString(StyleTitle.Render("Benchmark sweep"))
	b.WriteString("\n")
	b.WriteString(StyleDim.Render(hint))
	b.WriteString("\n\n")

	b.WriteString(m.progressLine())
	b.WriteString("\n")
	b.WriteString(m.countsLine())
	b.WriteString("\n\n")

	if len(m.recent) > 0 {
		b.WriteString(m.recentTable())
		b.WriteString("\n")
	}

	return b.String()
}

// progressLine renders a bar plus the done/total counter.
func (m sweepModel) progressLine() string {
	barWidth := m.width - 20
	if barWidth < 10 {
		barWidth = 10
	}
	if barWidth > 60 {
		barWidth = 60
	}

	filled := 0
	if m.total > 0 {
		filled = m.done * barWidth / m.total
		if filled > barWidth {
			filled = barWidth
		}
	}

	bar := StyleHighlight.Render(strings.Repeat("█", filled)) +
		StyleDim.Render(strings.Repeat("░", barWidth-filled))
	return fmt.Sprintf("%s %d/%d", bar, m.done, m.total)
}

// countsLine renders solved/timeout/error tallies.
func (m sweepModel) countsLine() string {
	parts := []string{
		StyleSuccess.Render(fmt.Sprintf("%d solved", m.solved)),
		StyleWarning.Render(fmt.Sprintf("%d timeout", m.timedOut)),
		styleIconError.Render(fmt.Sprintf("%d error", m.failed)),
	}
	return strings.Join(parts, StyleDim.Render(" · "))
}

// recentTable renders the latest finished runs, newest last.
func (m sweepModel) recentTable() string {
	rows := make([][]string, len(m.recent))
	for i, rec := range m.recent {
		k := "-"
		if rec.Status == bench.StatusSolved {
			k = strconv.Itoa(rec.K)
		}
		rows[i] = []string{
			strconv.Itoa(rec.N),
			fmt.Sprintf("%02d", rec.Instance+1),
			rec.Strategy,
			k,
			fmt.Sprintf("%.3fs", rec.Elapsed.Seconds()),
			string(rec.Status),
		}
	}

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(styleTableBorder).
		Headers("N", "Inst", "Strategy", "K", "Time", "Status").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return styleTableHeader
			}
			if col != 5 || row >= len(m.recent) {
				return lipgloss.NewStyle()
			}
			switch m.recent[row].Status {
			case bench.StatusSolved:
				return StyleSuccess
			case bench.StatusTimeout:
				return StyleWarning
			default:
				return styleIconError
			}
		})

	return t.Render()
}
