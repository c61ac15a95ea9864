package command

import "fmt"

// NotFoundError reports a task or project reference that does not resolve.
// No mutation is attempted when it is returned.
type NotFoundError struct {
	Kind string // "task" or "project"
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Kind, e.ID)
}

// ConfirmationRequiredError reports a destructive operation attempted
// without an explicit confirmation flag.
type ConfirmationRequiredError struct {
	Op string
}

func (e *ConfirmationRequiredError) Error() string {
	return fmt.Sprintf("%s is destructive and requires confirmation", e.Op)
}
