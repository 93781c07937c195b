package dramas

import (
	"errors"
	"fmt"
	"strings"
)

// Error wraps any failure of an engine operation.
type Error struct {
	// Op reads as a verb phrase, ex. "get drama cast".
	Op  string
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("failed to %s on MyDramaList: %s", e.Op, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// ValidationError is returned for bad caller input, before anything is fetched.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// ErrNoMatch is returned by ResolveTitle when a search comes back empty.
var ErrNoMatch = errors.New("no title matched")

func IsValidationError(err error) bool {
	var verr *ValidationError
	return errors.As(err, &verr)
}

func validateQuery(query string) error {
	if strings.TrimSpace(query) == "" {
		return &ValidationError{
			Field:   "query",
			Message: `The search parameter "query" is required`,
		}
	}
	return nil
}

// validateId accepts anything that can stand as a single path segment.
func validateId(id string) error {
	if strings.TrimSpace(id) == "" {
		return &ValidationError{Field: "id", Message: "Drama ID is required"}
	}
	if id == "." || id == ".." || strings.ContainsAny(id, "/?#\\ \t\n\r") {
		return &ValidationError{Field: "id", Message: fmt.Sprintf("Drama ID %q is malformed", id)}
	}
	return nil
}
