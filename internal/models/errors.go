package models

import (
	"errors"
	"fmt"
)

var (
	ErrNoRows             = errors.New("no rows")
	ErrInternal           = errors.New("internal server error")
	ErrMethodNotAllowed   = errors.New("method not allowed")
	ErrForbidden          = errors.New("access denied")
	ErrInvalidParams      = errors.New("invalid params")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrSessionNotFound    = errors.New("session not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrCatalogInUse       = errors.New("catalog entry is referenced by documents")
	ErrInvalidPath        = errors.New("storage path escapes root")
	ErrEmptyPayload       = errors.New("empty file payload")
	ErrDuplicateResource  = errors.New("resource already exists")
	ErrResourceNotFound   = errors.New("resource not found")

	ErrUNIQUEConstraintFailed = errors.New("unique constraint failed")
)

// NotFoundError reports which referenced entity was missing so the caller
// can correct the request.
type NotFoundError struct {
	Kind string
	ID   int
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found with id %d", e.Kind, e.ID)
}

func (e *NotFoundError) Unwrap() error {
	return ErrResourceNotFound
}

// NewNotFound builds a NotFoundError for the given entity kind and id.
func NewNotFound(kind string, id int) *NotFoundError {
	return &NotFoundError{Kind: kind, ID: id}
}

// DuplicateResourceError reports the field and value that would violate a
// uniqueness constraint.
type DuplicateResourceError struct {
	Field string
	Value string
}

func (e *DuplicateResourceError) Error() string {
	return fmt.Sprintf("%s %q is already in use", e.Field, e.Value)
}

func (e *DuplicateResourceError) Unwrap() error {
	return ErrDuplicateResource
}

// NewDuplicate builds a DuplicateResourceError for the given field/value.
func NewDuplicate(field, value string) *DuplicateResourceError {
	return &DuplicateResourceError{Field: field, Value: value}
}

// UniqueConstraintError is the storage-level backstop: a unique index
// rejected a write that slipped past the application-level check.
type UniqueConstraintError struct {
	Constraint string
	Err        error
}

func (e *UniqueConstraintError) Error() string {
	return fmt.Sprintf("%v: %s", e.Err, e.Constraint)
}

func (e *UniqueConstraintError) Unwrap() error {
	return e.Err
}
