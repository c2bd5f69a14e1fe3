package cli

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/swapbench/pkg/strategy"
)

// strategiesCommand creates the strategies command listing the catalog.
func (c *CLI) strategiesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "strategies",
		Short: "List the search strategy catalog",
		Long: `List every search strategy the benchmark knows.

Each strategy fixes a variable-selection heuristic, a value-selection
heuristic, and a restart schedule. The names are accepted by
'solve --strategy' and by the sweep config.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			t := table.New().
				Border(lipgloss.RoundedBorder()).
				BorderStyle(styleTableBorder).
				Headers("Name", "Variables", "Values", "Restarts", "Description").
				Rows(strategyRows()...).
				StyleFunc(func(row, col int) lipgloss.Style {
					if row == -1 {
						return styleTableHeader
					}
					if col == 0 {
						return StyleHighlight
					}
					return lipgloss.NewStyle()
				})

			fmt.Println(t.Render())
			return nil
		},
	}
}

// strategyRows renders the catalog in presentation order.
func strategyRows() [][]string {
	all := strategy.All()
	rows := make([][]string, len(all))
	for i, cfg := range all {
		varHeur := cfg.VarHeur
		if varHeur == "" {
			varHeur = "engine default"
		}
		rows[i] = []string{cfg.Name, varHeur, orDash(cfg.ValHeur), restartLabel(cfg.Restart), cfg.Description}
	}
	return rows
}

// restartLabel renders a restart schedule for humans.
func restartLabel(r strategy.Restart) string {
	switch r.Policy {
	case strategy.RestartLuby:
		return fmt.Sprintf("luby(%d)", r.Scale)
	case strategy.RestartGeometric:
		return fmt.Sprintf("geometric(%g, %d)", r.Base, r.Scale)
	case strategy.RestartLinear:
		return fmt.Sprintf("linear(%d)", r.Scale)
	default:
		return "none"
	}
}

// orDash substitutes a dash for the empty string.
func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
