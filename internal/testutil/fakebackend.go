// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"taskboard/internal/service"
)

// FakeBackend is an in-memory implementation of service.Backend for testing.
type FakeBackend struct {
	mu     sync.RWMutex
	tasks  []service.Task
	nextID int64
	users  map[string]string // username -> password
	calls  map[string]int

	// Error injection for testing
	ListTasksErr  error
	CreateTaskErr error
	UpdateTaskErr error
	DeleteTaskErr error
	LoginErr      error
	RegisterErr   error
	HealthErr     error

	// HealthStatus is reported by Health.
	HealthStatus string
}

// NewFakeBackend creates an empty FakeBackend.
func NewFakeBackend() *FakeBackend {
	return &FakeBackend{
		nextID:       1,
		users:        make(map[string]string),
		calls:        make(map[string]int),
		HealthStatus: "healthy",
	}
}

// AddTask seeds a task and returns it with its assigned id.
func (f *FakeBackend) AddTask(title string, priority service.Priority, completed bool) service.Task {
	f.mu.Lock()
	defer f.mu.Unlock()
	t := service.Task{
		ID:        f.nextID,
		Title:     title,
		Priority:  priority,
		Completed: completed,
		CreatedAt: fmt.Sprintf("2024-01-01T00:00:%02d", f.nextID%60),
	}
	f.nextID++
	f.tasks = append(f.tasks, t)
	return t
}

// AddUser seeds an account.
func (f *FakeBackend) AddUser(username, password string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.users[username] = password
}

// Tasks returns a copy of the stored tasks.
func (f *FakeBackend) Tasks() []service.Task {
	f.mu.RLock()
	defer f.mu.RUnlock()
	out := make([]service.Task, len(f.tasks))
	copy(out, f.tasks)
	return out
}

// Calls returns how many times the named method was called.
func (f *FakeBackend) Calls(method string) int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.calls[method]
}

func (f *FakeBackend) record(method string) {
	f.calls[method]++
}

// ListTasks implements service.Backend.
func (f *FakeBackend) ListTasks(ctx context.Context) ([]service.Task, error) {
	f.mu.Lock()
	f.record("ListTasks")
	f.mu.Unlock()
	if f.ListTasksErr != nil {
		return nil, f.ListTasksErr
	}
	return f.Tasks(), nil
}

// CreateTask implements service.Backend.
func (f *FakeBackend) CreateTask(ctx context.Context, in service.TaskInput) (service.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("CreateTask")
	if f.CreateTaskErr != nil {
		return service.Task{}, f.CreateTaskErr
	}
	priority := in.Priority
	if priority == "" {
		priority = service.DefaultPriority
	}
	t := service.Task{
		ID:          f.nextID,
		Title:       in.Title,
		Description: in.Description,
		Priority:    priority,
		CreatedAt:   "2024-01-01T00:00:00",
		UpdatedAt:   "2024-01-01T00:00:00",
	}
	f.nextID++
	f.tasks = append(f.tasks, t)
	return t, nil
}

// UpdateTask implements service.Backend.
func (f *FakeBackend) UpdateTask(ctx context.Context, task service.Task) (service.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("UpdateTask")
	if f.UpdateTaskErr != nil {
		return service.Task{}, f.UpdateTaskErr
	}
	for i, t := range f.tasks {
		if t.ID == task.ID {
			task.CreatedAt = t.CreatedAt
			task.UpdatedAt = "2024-01-02T00:00:00"
			f.tasks[i] = task
			return task, nil
		}
	}
	return service.Task{}, service.ErrNotFound
}

// DeleteTask implements service.Backend.
func (f *FakeBackend) DeleteTask(ctx context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("DeleteTask")
	if f.DeleteTaskErr != nil {
		return f.DeleteTaskErr
	}
	for i, t := range f.tasks {
		if t.ID == id {
			f.tasks = append(f.tasks[:i], f.tasks[i+1:]...)
			return nil
		}
	}
	return service.ErrNotFound
}

// Login implements service.Authenticator.
func (f *FakeBackend) Login(ctx context.Context, username, password string) (service.LoginResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("Login")
	if f.LoginErr != nil {
		return service.LoginResult{}, f.LoginErr
	}
	if pw, ok := f.users[username]; !ok || pw != password {
		return service.LoginResult{}, errors.New("invalid credentials")
	}
	return service.LoginResult{
		AccessToken: "token-" + username,
		User:        service.User{ID: 1, Username: username},
	}, nil
}

// Register implements service.Authenticator.
func (f *FakeBackend) Register(ctx context.Context, username, email, password string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.record("Register")
	if f.RegisterErr != nil {
		return f.RegisterErr
	}
	if _, ok := f.users[username]; ok {
		return errors.New("user already exists")
	}
	f.users[username] = password
	return nil
}

// Health implements service.Backend.
func (f *FakeBackend) Health(ctx context.Context) (service.Health, error) {
	if f.HealthErr != nil {
		return service.Health{}, f.HealthErr
	}
	return service.Health{Status: f.HealthStatus, Database: "connected", Version: "1.0.0"}, nil
}
