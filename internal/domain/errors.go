package domain

import (
	"fmt"
	"sort"
	"strings"
)

// FieldErrors accumulates validation messages keyed by input field. A field
// may collect several violations; validators keep going rather than stop at
// the first failure so the caller sees everything wrong at once.
type FieldErrors map[string][]string

func (fe FieldErrors) Add(field, message string) {
	fe[field] = append(fe[field], message)
}

func (fe FieldErrors) HasErrors() bool {
	return len(fe) > 0
}

// Fields returns the offending field names in sorted order.
func (fe FieldErrors) Fields() []string {
	fields := make([]string, 0, len(fe))
	for f := range fe {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return fields
}

// ValidationError carries the accumulated field violations for one request.
type ValidationError struct {
	Errors FieldErrors
}

func NewValidationError(errs FieldErrors) *ValidationError {
	return &ValidationError{Errors: errs}
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Errors))
	for _, field := range e.Errors.Fields() {
		for _, msg := range e.Errors[field] {
			parts = append(parts, fmt.Sprintf("%s: %s", field, msg))
		}
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// NotFoundError marks a lookup miss for a named resource.
type NotFoundError struct {
	Resource string
	ID       string
}

func NewNotFoundError(resource string, id any) *NotFoundError {
	return &NotFoundError{Resource: resource, ID: fmt.Sprint(id)}
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

// PermissionError marks an action the actor's role or identity does not
// allow.
type PermissionError struct {
	Reason string
}

func (e *PermissionError) Error() string {
	return "permission denied: " + e.Reason
}

// StateError marks a lifecycle transition attempted from the wrong state,
// such as accepting an invitation that has already been revoked.
type StateError struct {
	Reason string
}

func (e *StateError) Error() string {
	return "invalid state: " + e.Reason
}

// CapacityError marks a workspace that has no room for another member or
// pending invitation.
type CapacityError struct {
	Limit int
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("workspace is at its capacity of %d members and pending invitations", e.Limit)
}
