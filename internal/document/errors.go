package document

import (
	"errors"
	"fmt"
)

var (
	// ErrUserInput marks an operation refused because of what the user asked
	// for (deleting the last page, editing a readonly page). No state changes.
	ErrUserInput = errors.New("operation refused")

	// ErrNotFound marks a reference to a missing element or page.
	ErrNotFound = errors.New("not found")

	// ErrTransientIO marks a failed external interaction (file picker,
	// clipboard). The document is left untouched.
	ErrTransientIO = errors.New("transient io failure")

	ErrUnknownField = errors.New("unknown element field")

	// ErrProtectedField marks a field that only dedicated operations
	// (reorder, group, lock, gestures) may change.
	ErrProtectedField = fmt.Errorf("%w: field cannot be set directly", ErrUserInput)
)

type ElementNotFoundError struct {
	ID string
}

func (e *ElementNotFoundError) Error() string {
	return fmt.Sprintf("element not found: %s", e.ID)
}

func (e *ElementNotFoundError) Unwrap() error { return ErrNotFound }

type PageNotFoundError struct {
	ID string
}

func (e *PageNotFoundError) Error() string {
	return fmt.Sprintf("page not found: %s", e.ID)
}

func (e *PageNotFoundError) Unwrap() error { return ErrNotFound }
