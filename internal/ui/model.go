// Package ui provides the interactive terminal dashboard.
package ui

import (
	"context"
	"errors"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"taskboard/internal/board"
	"taskboard/internal/service"
	"taskboard/internal/session"
)

type fetchedMsg struct{ err error }

type submittedMsg struct {
	task service.Task
	err  error
}

type toggledMsg struct {
	task service.Task
	err  error
}

type deletedMsg struct {
	id      int64
	deleted bool
	err     error
}

// Model is the dashboard. Every request runs as a tea.Cmd; the board applies
// the result and the model only tracks presentation state.
type Model struct {
	ctx     context.Context
	board   *board.Board
	session *session.Manager

	keys        KeyMap
	formKeys    FormKeyMap
	confirmKeys ConfirmKeyMap
	theme       Theme
	help        help.Model

	width  int
	height int
	cursor int

	form      *taskForm
	confirm   *service.Task
	status    error
	loggedOut bool
}

// Option configures a Model.
type Option func(*Model)

// WithKeyMap replaces the default key bindings.
func WithKeyMap(k KeyMap) Option {
	return func(m *Model) { m.keys = k }
}

// WithTheme replaces the default palette.
func WithTheme(t Theme) Option {
	return func(m *Model) { m.theme = t }
}

// NewModel creates a dashboard over b. sess is used for logout.
func NewModel(ctx context.Context, b *board.Board, sess *session.Manager, opts ...Option) *Model {
	m := &Model{
		ctx:         ctx,
		board:       b,
		session:     sess,
		keys:        DefaultKeyMap,
		formKeys:    DefaultFormKeyMap,
		confirmKeys: DefaultConfirmKeyMap,
		theme:       DefaultTheme,
		help:        help.New(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// LoggedOut reports whether the user ended the session from the dashboard.
func (m *Model) LoggedOut() bool {
	return m.loggedOut
}

func (m *Model) Init() tea.Cmd {
	return m.fetch()
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		return m, nil

	case fetchedMsg:
		m.status = msg.err
		m.clampCursor()
		return m, nil

	case submittedMsg:
		if m.form == nil {
			return m, nil
		}
		m.form.submitting = false
		if msg.err != nil {
			m.form.err = msg.err
			return m, nil
		}
		m.form = nil
		m.status = nil
		m.selectTask(msg.task.ID)
		return m, nil

	case toggledMsg:
		m.status = msg.err
		m.clampCursor()
		return m, nil

	case deletedMsg:
		m.status = msg.err
		m.clampCursor()
		return m, nil

	case tea.KeyMsg:
		switch {
		case m.form != nil:
			return m, m.updateForm(msg)
		case m.confirm != nil:
			return m, m.updateConfirm(msg)
		}
		return m, m.updateBoard(msg)
	}
	return m, nil
}

func (m *Model) updateBoard(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keys.Up):
		m.moveCursor(-m.columns())
	case key.Matches(msg, m.keys.Down):
		m.moveCursor(m.columns())
	case key.Matches(msg, m.keys.Left):
		m.moveCursor(-1)
	case key.Matches(msg, m.keys.Right):
		m.moveCursor(1)
	case key.Matches(msg, m.keys.StatusFilter):
		status, _ := m.board.Filters()
		m.board.SetStatusFilter(status.Next())
		m.clampCursor()
	case key.Matches(msg, m.keys.PriorityFilter):
		_, priority := m.board.Filters()
		m.board.SetPriorityFilter(priority.Next())
		m.clampCursor()
	case key.Matches(msg, m.keys.Refresh):
		return m.fetch()
	case key.Matches(msg, m.keys.New):
		if err := m.board.OpenCreate(); err != nil {
			m.status = err
			return nil
		}
		m.form = newTaskForm("New task", m.board.Draft())
		return m.form.title.Focus()
	case key.Matches(msg, m.keys.Edit):
		task, ok := m.selected()
		if !ok {
			return nil
		}
		if err := m.board.OpenEdit(task); err != nil {
			m.status = err
			return nil
		}
		m.form = newTaskForm("Edit task", m.board.Draft())
		return m.form.title.Focus()
	case key.Matches(msg, m.keys.Toggle):
		task, ok := m.selected()
		if !ok {
			return nil
		}
		return m.toggle(task)
	case key.Matches(msg, m.keys.Delete):
		task, ok := m.selected()
		if !ok {
			return nil
		}
		m.confirm = &task
	case key.Matches(msg, m.keys.Logout):
		m.session.Logout()
		m.loggedOut = true
		return tea.Quit
	}
	return nil
}

func (m *Model) updateForm(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.formKeys.Cancel):
		if m.form.submitting {
			return nil
		}
		m.board.Cancel()
		m.form = nil
		return nil
	case key.Matches(msg, m.formKeys.Submit):
		if m.form.submitting {
			return nil
		}
		if err := m.board.SetDraft(m.form.Draft()); err != nil {
			m.form.err = err
			return nil
		}
		m.form.err = nil
		m.form.submitting = true
		return m.submit()
	case msg.Type == tea.KeyCtrlC:
		return tea.Quit
	}
	return m.form.update(m.formKeys, msg)
}

func (m *Model) updateConfirm(msg tea.KeyMsg) tea.Cmd {
	task := *m.confirm
	switch {
	case key.Matches(msg, m.confirmKeys.Yes):
		m.confirm = nil
		return m.remove(task.ID)
	case key.Matches(msg, m.confirmKeys.No):
		m.confirm = nil
	}
	return nil
}

func (m *Model) fetch() tea.Cmd {
	b, ctx := m.board, m.ctx
	return func() tea.Msg {
		return fetchedMsg{err: b.FetchAll(ctx)}
	}
}

func (m *Model) submit() tea.Cmd {
	b, ctx := m.board, m.ctx
	return func() tea.Msg {
		task, err := b.Submit(ctx)
		return submittedMsg{task: task, err: err}
	}
}

func (m *Model) toggle(task service.Task) tea.Cmd {
	b, ctx := m.board, m.ctx
	return func() tea.Msg {
		updated, err := b.Toggle(ctx, task)
		return toggledMsg{task: updated, err: err}
	}
}

// remove deletes id. The user already confirmed in the dashboard.
func (m *Model) remove(id int64) tea.Cmd {
	b, ctx := m.board, m.ctx
	return func() tea.Msg {
		deleted, err := b.Delete(ctx, id, func(service.Task) bool { return true })
		if errors.Is(err, board.ErrTaskNotFound) {
			err = nil
		}
		return deletedMsg{id: id, deleted: deleted, err: err}
	}
}

func (m *Model) selected() (service.Task, bool) {
	visible := m.board.Visible()
	if m.cursor < 0 || m.cursor >= len(visible) {
		return service.Task{}, false
	}
	return visible[m.cursor], true
}

func (m *Model) selectTask(id int64) {
	for i, t := range m.board.Visible() {
		if t.ID == id {
			m.cursor = i
			return
		}
	}
	m.clampCursor()
}

func (m *Model) moveCursor(delta int) {
	n := len(m.board.Visible())
	next := m.cursor + delta
	if next < 0 || next >= n {
		return
	}
	m.cursor = next
}

func (m *Model) clampCursor() {
	n := len(m.board.Visible())
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}
