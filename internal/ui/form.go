package ui

import (
	"strings"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"taskboard/internal/board"
	"taskboard/internal/service"
)

type formField int

const (
	fieldTitle formField = iota
	fieldDescription
	fieldPriority
	fieldCount
)

const (
	// titleCharLimit matches the server's title column.
	titleCharLimit    = 200
	formWidth         = 52
	labelWidth        = 13
	descriptionHeight = 3
)

// taskForm edits a board.Draft. It holds no task state of its own beyond
// the inputs; the board owns the form lifecycle.
//
// The inputs normalize what they are given (tabs, carriage returns, the
// title limit), so a field the user never touched reports the draft's
// original text rather than the input's rendition of it.
type taskForm struct {
	heading     string
	title       textinput.Model
	description textarea.Model
	priority    service.Priority
	focus       formField
	err         error
	submitting  bool

	orig      board.Draft
	titleSeen string
	descSeen  string
}

func newTaskForm(heading string, d board.Draft) *taskForm {
	title := textinput.New()
	title.Placeholder = "What needs doing?"
	title.CharLimit = titleCharLimit
	title.Width = formWidth - 8
	title.Prompt = ""
	title.Cursor.SetMode(cursor.CursorStatic)
	title.SetValue(d.Title)

	desc := textarea.New()
	desc.Placeholder = "Optional details"
	desc.CharLimit = 0
	desc.MaxHeight = 0
	desc.MaxWidth = 0
	desc.ShowLineNumbers = false
	desc.Prompt = ""
	desc.FocusedStyle.CursorLine = lipgloss.NewStyle()
	desc.KeyMap.InsertNewline = key.NewBinding(key.WithKeys("ctrl+j"), key.WithHelp("ctrl+j", "new line"))
	desc.Cursor.SetMode(cursor.CursorStatic)
	desc.SetWidth(formWidth - 8 - labelWidth)
	desc.SetHeight(descriptionHeight)
	desc.SetValue(d.Description)

	prio := d.Priority
	if !prio.Valid() {
		prio = service.DefaultPriority
	}

	f := &taskForm{
		heading:     heading,
		title:       title,
		description: desc,
		priority:    prio,
		orig:        d,
		titleSeen:   title.Value(),
		descSeen:    desc.Value(),
	}
	f.setFocus(fieldTitle)
	return f
}

// Draft returns the form contents.
func (f *taskForm) Draft() board.Draft {
	d := board.Draft{
		Title:       f.title.Value(),
		Description: f.description.Value(),
		Priority:    f.priority,
	}
	if d.Title == f.titleSeen {
		d.Title = f.orig.Title
	}
	if d.Description == f.descSeen {
		d.Description = f.orig.Description
	}
	return d
}

func (f *taskForm) setFocus(field formField) {
	f.focus = field
	f.title.Blur()
	f.description.Blur()
	switch field {
	case fieldTitle:
		f.title.Focus()
	case fieldDescription:
		f.description.Focus()
	}
}

// update handles keys other than submit and cancel.
func (f *taskForm) update(keys FormKeyMap, msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, keys.Next):
		f.setFocus((f.focus + 1) % fieldCount)
		return nil
	case key.Matches(msg, keys.Prev):
		f.setFocus((f.focus + fieldCount - 1) % fieldCount)
		return nil
	}

	var cmd tea.Cmd
	switch f.focus {
	case fieldTitle:
		f.title, cmd = f.title.Update(msg)
	case fieldDescription:
		f.description, cmd = f.description.Update(msg)
	case fieldPriority:
		switch {
		case key.Matches(msg, keys.Lower):
			f.priority = stepPriority(f.priority, -1)
		case key.Matches(msg, keys.Raise):
			f.priority = stepPriority(f.priority, 1)
		}
	}
	return cmd
}

func stepPriority(p service.Priority, delta int) service.Priority {
	order := service.Priorities
	for i, candidate := range order {
		if candidate == p {
			return order[(i+delta+len(order))%len(order)]
		}
	}
	return service.DefaultPriority
}

func (f *taskForm) view(theme Theme) string {
	label := lipgloss.NewStyle().Foreground(theme.FaintText).Width(labelWidth)
	active := lipgloss.NewStyle().Foreground(theme.SelectedBorder).Bold(true).Width(labelWidth)
	labelFor := func(field formField, text string) string {
		if f.focus == field {
			return active.Render("> " + text)
		}
		return label.Render("  " + text)
	}

	var prios []string
	for _, p := range service.Priorities {
		style := lipgloss.NewStyle().Padding(0, 1).Foreground(theme.FaintText)
		if p == f.priority {
			style = style.Bold(true).
				Foreground(lipgloss.Color("0")).
				Background(theme.PriorityColor(p))
		}
		prios = append(prios, style.Render(string(p)))
	}

	var b strings.Builder
	b.WriteString(lipgloss.NewStyle().Bold(true).Foreground(theme.HeaderForeground).Render(f.heading))
	b.WriteString("\n\n")
	b.WriteString(labelFor(fieldTitle, "Title") + f.title.View() + "\n")
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, labelFor(fieldDescription, "Description"), f.description.View()) + "\n")
	b.WriteString(labelFor(fieldPriority, "Priority") + strings.Join(prios, " ") + "\n\n")

	switch {
	case f.submitting:
		b.WriteString(lipgloss.NewStyle().Foreground(theme.FaintText).Render("Saving..."))
	case f.err != nil:
		b.WriteString(lipgloss.NewStyle().Foreground(theme.ErrorText).Render("Error: " + f.err.Error()))
	default:
		b.WriteString(lipgloss.NewStyle().Foreground(theme.FaintText).Render("tab next field  ctrl+j new line  ←/→ priority  enter save  esc cancel"))
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(theme.BorderColor).
		Padding(1, 2).
		Width(formWidth).
		Render(b.String())
}
