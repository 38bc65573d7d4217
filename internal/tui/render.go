package tui

import (
	"fmt"
	"strings"

	"github.com/aurceive/drop_viewer/internal/viewer"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// styles
var (
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11"))
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15")).Background(lipgloss.Color("8"))
	cursorStyle = lipgloss.NewStyle().Background(lipgloss.Color("4")).Foreground(lipgloss.Color("15"))
	badgeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("13"))
	probStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("11"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	modalStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("11")).Padding(0, 2)
)

var columnWidths = []int{12, 28, 22, 12}

func (m model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Equipment Drop Viewer"))
	b.WriteString(dimStyle.Render(fmt.Sprintf("  total %d", m.screen.total)))
	b.WriteString("\n\n")

	switch {
	case m.screen.loading:
		b.WriteString(statusStyle.Render("Loading data…"))
		b.WriteString("\n")
		return b.String()
	case m.screen.failed != nil:
		b.WriteString(renderDiagnostic(*m.screen.failed))
		return b.String()
	case m.screen.detail != nil:
		b.WriteString(renderDetail(*m.screen.detail))
		b.WriteString("\n")
		b.WriteString(dimStyle.Render("esc close · q quit"))
		return b.String()
	}

	p := m.screen.page
	b.WriteString(m.renderControls(p))
	b.WriteString("\n\n")
	b.WriteString(m.renderTable(p))
	b.WriteString("\n")
	b.WriteString(statusStyle.Render(fmt.Sprintf("%s · showing %d", p.Info(), p.DisplayCount)))
	if p.PrevDisabled {
		b.WriteString(dimStyle.Render("  ‹ prev"))
	} else {
		b.WriteString("  ‹ prev")
	}
	if p.NextDisabled {
		b.WriteString(dimStyle.Render("  next ›"))
	} else {
		b.WriteString("  next ›")
	}
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("/ search · t type · s sort · r reset · ←/→ page · enter details · q quit"))
	return b.String()
}

func (m model) renderControls(p viewer.Page) string {
	category := p.Category
	if category == "" {
		category = "All"
	}
	search := m.input.View()
	if m.mode != modeSearch && m.input.Value() == "" {
		search = dimStyle.Render("/ search")
	}
	return fmt.Sprintf("%s   type: %s   sort: %s", search, badgeStyle.Render(category), p.SortKey.Label())
}

func (m model) renderTable(p viewer.Page) string {
	if p.Empty {
		return dimStyle.Render("No matching equipment") + "\n"
	}

	var b strings.Builder
	b.WriteString(headerStyle.Render(row([]string{"TYPE", "NAME", "BEST MONSTER", "DROP RATE"})))
	b.WriteString("\n")

	visible := max(5, m.height-10)
	offset := max(0, m.cursor-visible+1)
	end := min(len(p.Rows), offset+visible)
	for i := offset; i < end; i++ {
		r := p.Rows[i]
		line := row([]string{r.Type, r.Name, r.BestMonster, r.BestProbability})
		if i == m.cursor {
			line = cursorStyle.Render(line)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	if end < len(p.Rows) {
		b.WriteString(dimStyle.Render(fmt.Sprintf("… %d more on this page", len(p.Rows)-end)))
		b.WriteString("\n")
	}
	return b.String()
}

// row lays cells out on a single line; long cells are cut with an ellipsis
// so every row stays one line tall.
func row(cells []string) string {
	parts := make([]string, len(cells))
	for i, c := range cells {
		w := columnWidths[i]
		parts[i] = lipgloss.NewStyle().Width(w).Render(ansi.Truncate(c, w-1, "…"))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func renderDetail(d viewer.Detail) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(d.Title()))
	b.WriteString("\n\n")
	fmt.Fprintf(&b, "Type: %s\n", badgeStyle.Render(d.Type))
	fmt.Fprintf(&b, "Best drop: %s (%s)\n\n", d.BestMonster, d.BestProbability)
	fmt.Fprintf(&b, "All drop sources (%d monsters)\n", len(d.Drops))
	for _, drop := range d.Drops {
		fmt.Fprintf(&b, "%3d. %-24s %s\n", drop.Rank, drop.Monster, probStyle.Render(drop.Probability))
	}
	return modalStyle.Render(b.String())
}

func renderDiagnostic(d viewer.Diagnostic) string {
	var b strings.Builder
	b.WriteString(errorStyle.Render("✗ " + d.Title))
	b.WriteString("\n")
	b.WriteString(dimStyle.Render(d.Location + ": " + d.Cause))
	b.WriteString("\n\n")
	if d.FileScheme {
		b.WriteString("Reason: " + d.Reason + "\n\nFix (pick one):\n")
		for i, s := range d.Steps {
			fmt.Fprintf(&b, "  %d. %s\n", i+1, s)
		}
		b.WriteString("\n" + dimStyle.Render("q quit"))
		return b.String()
	}
	b.WriteString("Please check:\n")
	for _, s := range d.Steps {
		fmt.Fprintf(&b, "  - %s\n", s)
	}
	if d.Reload {
		b.WriteString("\n" + dimStyle.Render("R reload · q quit"))
	}
	return b.String()
}
