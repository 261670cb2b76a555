package rest

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"taskboard/internal/service"
)

// APIError is a non-2xx response from the server.
type APIError struct {
	StatusCode int
	Message    string // the body's "error" field, if any
	RequestID  string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("http %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("http %d: %s", e.StatusCode, strings.ToLower(http.StatusText(e.StatusCode)))
}

// Is maps 401/403 to service.ErrUnauthorized and 404 to service.ErrNotFound.
func (e *APIError) Is(target error) bool {
	switch target {
	case service.ErrUnauthorized:
		return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
	case service.ErrNotFound:
		return e.StatusCode == http.StatusNotFound
	}
	return false
}

// ServerMessage returns the message the server supplied, if any.
func (e *APIError) ServerMessage() string {
	return e.Message
}

func newAPIError(resp *http.Response, reqID string) *APIError {
	apiErr := &APIError{StatusCode: resp.StatusCode, RequestID: reqID}
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if err != nil || len(data) == 0 {
		return apiErr
	}
	var body struct {
		Error   string `json:"error"`
		Message string `json:"message"`
		Msg     string `json:"msg"` // JWT middleware errors
	}
	if json.Unmarshal(data, &body) == nil {
		for _, m := range []string{body.Error, body.Message, body.Msg} {
			if m != "" {
				apiErr.Message = m
				break
			}
		}
	}
	return apiErr
}

// IsUnauthorized reports whether err is a 401 or 403 from the server.
func IsUnauthorized(err error) bool {
	return errors.Is(err, service.ErrUnauthorized)
}

// IsNotFound reports whether err is a 404 from the server.
func IsNotFound(err error) bool {
	return errors.Is(err, service.ErrNotFound)
}
