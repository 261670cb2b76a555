// Package board holds the client-side task collection and keeps it in step
// with the server after every mutation.
package board

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/charmbracelet/log"

	"taskboard/internal/service"
)

var (
	ErrTitleRequired   = errors.New("title required")
	ErrInvalidPriority = errors.New("invalid priority")
	ErrModalOpen       = errors.New("form already open")
	ErrModalClosed     = errors.New("form not open")
	ErrTaskNotFound    = errors.New("task not found")
)

// Mode is the state of the create/edit form.
type Mode int

const (
	ModalClosed Mode = iota
	ModalCreate
	ModalEdit
)

func (m Mode) String() string {
	switch m {
	case ModalCreate:
		return "create"
	case ModalEdit:
		return "edit"
	}
	return "closed"
}

// Draft holds the form fields.
type Draft struct {
	Title       string
	Description string
	Priority    service.Priority
}

func emptyDraft() Draft {
	return Draft{Priority: service.DefaultPriority}
}

// ConfirmFunc asks the user to confirm deleting a task.
type ConfirmFunc func(service.Task) bool

// Board is the local task collection plus form and filter state.
// It is safe for concurrent use.
type Board struct {
	svc    service.Service
	logger *log.Logger

	mu       sync.RWMutex
	tasks    []service.Task
	loading  bool
	mode     Mode
	formSeq  uint64 // bumped each time a form opens
	editing  *service.Task
	draft    Draft
	status   StatusFilter
	priority PriorityFilter
	lastErr  error
}

// New creates a board in the loading state.
func New(svc service.Service, logger *log.Logger) *Board {
	if logger == nil {
		logger = log.Default()
	}
	return &Board{
		svc:      svc,
		logger:   logger,
		loading:  true,
		draft:    emptyDraft(),
		status:   StatusAll,
		priority: PriorityAll,
	}
}

// FetchAll replaces the local collection with the server's.
// Loading is cleared whatever the outcome.
func (b *Board) FetchAll(ctx context.Context) error {
	defer func() {
		b.mu.Lock()
		b.loading = false
		b.mu.Unlock()
	}()

	tasks, err := b.svc.ListTasks(ctx)
	if err != nil {
		return b.fail("fetch", err)
	}

	b.mu.Lock()
	b.tasks = tasks
	b.lastErr = nil
	b.mu.Unlock()
	return nil
}

// OpenCreate opens an empty form for a new task.
func (b *Board) OpenCreate() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.mode != ModalClosed {
		return ErrModalOpen
	}
	b.mode = ModalCreate
	b.formSeq++
	b.editing = nil
	b.draft = emptyDraft()
	return nil
}

// OpenEdit opens the form populated from task.
func (b *Board) OpenEdit(task service.Task) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.mode != ModalClosed {
		return ErrModalOpen
	}
	t := task
	b.mode = ModalEdit
	b.formSeq++
	b.editing = &t
	b.draft = Draft{Title: t.Title, Description: t.Description, Priority: t.Priority}
	return nil
}

// Cancel closes the form and discards the draft.
func (b *Board) Cancel() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closeForm()
}

// SetDraft replaces the form fields.
func (b *Board) SetDraft(d Draft) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.mode == ModalClosed {
		return ErrModalClosed
	}
	b.draft = d
	return nil
}

// Draft returns the form fields.
func (b *Board) Draft() Draft {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.draft
}

// Mode returns the form state.
func (b *Board) Mode() Mode {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.mode
}

// Editing returns the task being edited, or nil.
func (b *Board) Editing() *service.Task {
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.editing == nil {
		return nil
	}
	t := *b.editing
	return &t
}

// Submit sends the form. In edit mode the full record is updated; in create
// mode a new task is created. On success the form closes; on failure it stays
// open with the draft intact. The server's record is always merged, but a
// form opened while the request was in flight is left open.
func (b *Board) Submit(ctx context.Context) (service.Task, error) {
	b.mu.RLock()
	mode, draft, seq := b.mode, b.draft, b.formSeq
	var editing service.Task
	if b.editing != nil {
		editing = *b.editing
	}
	b.mu.RUnlock()

	if mode == ModalClosed {
		return service.Task{}, ErrModalClosed
	}
	if strings.TrimSpace(draft.Title) == "" {
		return service.Task{}, ErrTitleRequired
	}
	if !draft.Priority.Valid() {
		return service.Task{}, ErrInvalidPriority
	}

	if mode == ModalEdit {
		full := editing
		full.Title = draft.Title
		full.Description = draft.Description
		full.Priority = draft.Priority

		updated, err := b.svc.UpdateTask(ctx, full)
		if err != nil {
			return service.Task{}, b.fail("update", err, "id", full.ID)
		}
		b.mu.Lock()
		b.replace(updated)
		b.closeFormIf(seq)
		b.lastErr = nil
		b.mu.Unlock()
		return updated, nil
	}

	created, err := b.svc.CreateTask(ctx, service.TaskInput{
		Title:       draft.Title,
		Description: draft.Description,
		Priority:    draft.Priority,
	})
	if err != nil {
		return service.Task{}, b.fail("create", err)
	}
	b.mu.Lock()
	b.tasks = append(b.tasks, created)
	b.closeFormIf(seq)
	b.lastErr = nil
	b.mu.Unlock()
	return created, nil
}

// Toggle inverts a task's completion on the server and stores the result.
func (b *Board) Toggle(ctx context.Context, task service.Task) (service.Task, error) {
	full := task
	full.Completed = !task.Completed

	updated, err := b.svc.UpdateTask(ctx, full)
	if err != nil {
		return service.Task{}, b.fail("toggle", err, "id", task.ID)
	}
	b.mu.Lock()
	b.replace(updated)
	b.lastErr = nil
	b.mu.Unlock()
	return updated, nil
}

// Delete removes a task after confirm approves it and the server agrees.
// It reports whether the task was deleted; a declined confirmation sends
// nothing and returns false with no error.
func (b *Board) Delete(ctx context.Context, id int64, confirm ConfirmFunc) (bool, error) {
	task, ok := b.Find(id)
	if !ok {
		return false, ErrTaskNotFound
	}
	if confirm == nil || !confirm(task) {
		return false, nil
	}

	if err := b.svc.DeleteTask(ctx, id); err != nil {
		return false, b.fail("delete", err, "id", id)
	}
	b.mu.Lock()
	for i, t := range b.tasks {
		if t.ID == id {
			b.tasks = append(b.tasks[:i:i], b.tasks[i+1:]...)
			break
		}
	}
	b.lastErr = nil
	b.mu.Unlock()
	return true, nil
}

// Find returns the local task with id.
func (b *Board) Find(id int64) (service.Task, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, t := range b.tasks {
		if t.ID == id {
			return t, true
		}
	}
	return service.Task{}, false
}

// Tasks returns a copy of the whole collection.
func (b *Board) Tasks() []service.Task {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]service.Task(nil), b.tasks...)
}

// Visible returns the tasks passing the current filters.
func (b *Board) Visible() []service.Task {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return Filter(b.tasks, b.status, b.priority)
}

// SetStatusFilter sets the completion filter.
func (b *Board) SetStatusFilter(f StatusFilter) {
	b.mu.Lock()
	b.status = f
	b.mu.Unlock()
}

// SetPriorityFilter sets the priority filter.
func (b *Board) SetPriorityFilter(f PriorityFilter) {
	b.mu.Lock()
	b.priority = f
	b.mu.Unlock()
}

// Filters returns the current filter selections.
func (b *Board) Filters() (StatusFilter, PriorityFilter) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.status, b.priority
}

// Loading reports whether the first fetch has not completed.
func (b *Board) Loading() bool {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.loading
}

// Err returns the error of the last failed operation, cleared by the next success.
func (b *Board) Err() error {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.lastErr
}

// replace swaps in the server's record for t.ID. Callers hold mu.
func (b *Board) replace(t service.Task) {
	for i := range b.tasks {
		if b.tasks[i].ID == t.ID {
			b.tasks[i] = t
			return
		}
	}
}

// closeForm resets form state. Callers hold mu.
// closeFormIf closes the form only if it is still the one opened as seq.
func (b *Board) closeFormIf(seq uint64) {
	if b.formSeq == seq {
		b.closeForm()
	}
}

func (b *Board) closeForm() {
	b.mode = ModalClosed
	b.editing = nil
	b.draft = emptyDraft()
}

func (b *Board) fail(op string, err error, kv ...any) error {
	b.logger.Error(op+" failed", append(kv, "err", err)...)
	b.mu.Lock()
	b.lastErr = err
	b.mu.Unlock()
	return err
}
