package service

import "errors"

// Backend error classes. Backend errors match them with errors.Is.
var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrNotFound     = errors.New("not found")
)
