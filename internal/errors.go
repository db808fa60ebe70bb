package internal

import "fmt"

// ValidationError represents a file rejected before any network call.
type ValidationError struct {
	Filename string
	Reason   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s: %s", e.Filename, e.Reason)
}

// TransportError represents a failed request or socket operation.
type TransportError struct {
	Op  string // "request", "dial", "send"
	URL string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport error: %s %s: %v", e.Op, e.URL, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// ServerError represents a non-2xx response from the backend.
type ServerError struct {
	Status  int
	Path    string
	Message string
}

func (e *ServerError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("server error %d: %s", e.Status, e.Path)
	}
	return fmt.Sprintf("server error %d: %s: %s", e.Status, e.Path, e.Message)
}

// StateError represents errors accessing the local state database.
type StateError struct {
	Op  string // "open", "get", "set", "delete"
	Key string
	Err error
}

func (e *StateError) Error() string {
	if e.Key == "" {
		return fmt.Sprintf("state error: %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("state error: %s %s: %v", e.Op, e.Key, e.Err)
}

func (e *StateError) Unwrap() error {
	return e.Err
}

// ExportError represents errors during transcript export.
type ExportError struct {
	Format string
	Path   string
	Err    error
}

func (e *ExportError) Error() string {
	return fmt.Sprintf("export error [%s] %s: %v", e.Format, e.Path, e.Err)
}

func (e *ExportError) Unwrap() error {
	return e.Err
}
