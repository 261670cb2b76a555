package service

import "context"

// Service defines the interface for task backend operations.
// The board and commands never import HTTP code directly.
type Service interface {
	// ListTasks returns the full task collection in server order.
	ListTasks(ctx context.Context) ([]Task, error)

	// CreateTask creates a task and returns the server's record.
	CreateTask(ctx context.Context, in TaskInput) (Task, error)

	// UpdateTask sends the full record and returns the server's record.
	UpdateTask(ctx context.Context, task Task) (Task, error)

	// DeleteTask deletes a task by id.
	DeleteTask(ctx context.Context, id int64) error
}

// Authenticator exchanges credentials for a session.
type Authenticator interface {
	// Login returns a token and the user's profile.
	Login(ctx context.Context, username, password string) (LoginResult, error)

	// Register creates an account. It does not start a session.
	Register(ctx context.Context, username, email, password string) error
}

// Backend is everything a CLI invocation needs from the server.
type Backend interface {
	Service
	Authenticator

	// Health reports the server's status.
	Health(ctx context.Context) (Health, error)
}
