package services

import "fmt"

// ValidationError marks input the caller can fix. Handlers render it as a
// 400 response keyed by field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// PermissionError marks an authorization failure. Handlers render it as 403.
type PermissionError struct {
	Message string
}

func (e *PermissionError) Error() string {
	return e.Message
}
