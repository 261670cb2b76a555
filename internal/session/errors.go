package session

import "errors"

// Generic failures, used when the server gives no message.
var (
	ErrLoginFailed        = errors.New("login failed")
	ErrRegistrationFailed = errors.New("registration failed")
)

// AuthError is a failed login or registration.
type AuthError struct {
	Op      string // "login" or "register"
	Message string // server message, or the generic fallback
	Err     error
}

func (e *AuthError) Error() string {
	return e.Message
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

// Is matches the generic sentinel for the operation.
func (e *AuthError) Is(target error) bool {
	switch target {
	case ErrLoginFailed:
		return e.Op == "login"
	case ErrRegistrationFailed:
		return e.Op == "register"
	}
	return false
}

// messager is satisfied by backend errors that carry a server message.
type messager interface {
	ServerMessage() string
}

func newAuthError(op string, fallback error, err error) *AuthError {
	msg := fallback.Error()
	var m messager
	if errors.As(err, &m) && m.ServerMessage() != "" {
		msg = m.ServerMessage()
	}
	return &AuthError{Op: op, Message: msg, Err: err}
}
