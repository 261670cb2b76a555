package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"taskboard/internal/service"
)

const (
	cardWidth    = 30 // including border
	cardGap      = 1
	defaultWidth = 80
)

func (m *Model) View() string {
	var b strings.Builder
	b.WriteString(m.viewHeader())
	b.WriteString("\n\n")

	switch {
	case m.form != nil:
		b.WriteString(m.place(m.form.view(m.theme)))
		b.WriteString("\n")
		return b.String()
	case m.board.Loading():
		b.WriteString("Loading...\n")
		return b.String()
	}

	visible := m.board.Visible()
	if len(visible) == 0 {
		faint := lipgloss.NewStyle().Foreground(m.theme.FaintText)
		b.WriteString("No tasks to show\n")
		b.WriteString(faint.Render("Press n to create a task, or change the filters with s and p."))
		b.WriteString("\n")
	} else {
		b.WriteString(m.viewGrid(visible))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.viewStatusLine())
	b.WriteString(m.help.View(m.keys))
	return b.String()
}

func (m *Model) viewHeader() string {
	title := lipgloss.NewStyle().Bold(true).Foreground(m.theme.HeaderForeground).Render("Taskboard")
	status, priority := m.board.Filters()
	info := fmt.Sprintf("status: %s  priority: %s  %d of %d",
		status, priority, len(m.board.Visible()), len(m.board.Tasks()))
	if u := m.session.User(); u != nil {
		info = u.Username + "  " + info
	}
	return title + "  " + lipgloss.NewStyle().Foreground(m.theme.FaintText).Render(info)
}

func (m *Model) viewStatusLine() string {
	switch {
	case m.confirm != nil:
		return fmt.Sprintf("Delete %q? (y/n)\n", m.confirm.Title)
	case m.status != nil:
		return lipgloss.NewStyle().Foreground(m.theme.ErrorText).Render("Error: "+m.status.Error()) + "\n"
	}
	return ""
}

// columns is the number of cards per row for the current width.
func (m *Model) columns() int {
	width := m.width
	if width <= 0 {
		width = defaultWidth
	}
	cols := (width + cardGap) / (cardWidth + cardGap)
	if cols < 1 {
		cols = 1
	}
	return cols
}

func (m *Model) viewGrid(tasks []service.Task) string {
	cols := m.columns()
	gap := strings.Repeat(" ", cardGap)

	var rows []string
	for start := 0; start < len(tasks); start += cols {
		end := min(start+cols, len(tasks))
		var cards []string
		for i := start; i < end; i++ {
			if i > start {
				cards = append(cards, gap)
			}
			cards = append(cards, m.viewCard(tasks[i], i == m.cursor))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cards...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (m *Model) viewCard(t service.Task, selected bool) string {
	inner := cardWidth - 4 // border and padding

	glyph := "○"
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(m.theme.NormalText)
	if t.Completed {
		glyph = "✓"
		titleStyle = titleStyle.Bold(false).Strikethrough(true).Foreground(m.theme.CompletedText)
	}
	lines := []string{titleStyle.Render(ansi.Truncate(glyph+" "+t.Title, inner, "…"))}

	if desc := strings.TrimSpace(t.Description); desc != "" {
		firstLine, _, _ := strings.Cut(desc, "\n")
		lines = append(lines, lipgloss.NewStyle().Foreground(m.theme.FaintText).
			Render(ansi.Truncate(firstLine, inner, "…")))
	}

	badge := lipgloss.NewStyle().
		Foreground(lipgloss.Color("0")).
		Background(m.theme.PriorityColor(t.Priority)).
		Padding(0, 1).
		Render(string(t.Priority))
	lines = append(lines, badge)

	border := m.theme.BorderColor
	if selected {
		border = m.theme.SelectedBorder
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(border).
		Padding(0, 1).
		Width(cardWidth - 2).
		Render(strings.Join(lines, "\n"))
}

// place centers s horizontally when the window size is known.
func (m *Model) place(s string) string {
	if m.width <= 0 {
		return s
	}
	return lipgloss.PlaceHorizontal(m.width, lipgloss.Center, s)
}
