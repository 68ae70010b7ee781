package commands

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/Moula-byte/predictive-maintenance-dashboard/pkg/engine"
)

var (
	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#00FF99")).
			Padding(0, 1)

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#AAAAAA")).
			Width(10)
)

func printSummary(w io.Writer, res *engine.Result, eng *engine.Engine) {
	fmt.Fprintln(w, boxStyle.Render(summary(res, eng)))
}

func summary(res *engine.Result, eng *engine.Engine) string {
	var b strings.Builder
	row := func(label, value string) {
		b.WriteString(labelStyle.Render(label))
		b.WriteString(value)
		b.WriteString("\n")
	}

	b.WriteString(titleStyle.UnsetMarginBottom().Render("Dashboard written"))
	b.WriteString("\n")
	row("Output", res.Output)
	row("Seed", fmt.Sprintf("%d", res.Seed))
	row("Samples", fmt.Sprintf("%d per series", res.Table.Len()))
	row("Series", fmt.Sprintf("%d", len(res.Table.Columns())))
	row("Size", fmt.Sprintf("%d bytes", res.Bytes))
	row("Took", res.Duration.Round(time.Millisecond).String())

	for i, m := range eng.Profiles() {
		label := ""
		if i == 0 {
			label = "Machines"
		}
		name := m.ID
		if m.Name != "" {
			name = fmt.Sprintf("%s (%s)", m.ID, m.Name)
		}
		row(label, name)
	}
	return strings.TrimSuffix(b.String(), "\n")
}
