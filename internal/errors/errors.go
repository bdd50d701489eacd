package errors

import (
	"errors"
	"fmt"
)

// Sentinel errors for common error conditions
var (
	// ErrCollectionNotFound is returned when a collection is not found
	ErrCollectionNotFound = errors.New("collection not found")

	// ErrCollectionAlreadyExists is returned when trying to create a collection that already exists
	ErrCollectionAlreadyExists = errors.New("collection already exists")

	// ErrInvalidInput is returned when input validation fails
	ErrInvalidInput = errors.New("invalid input")

	// ErrSameName is returned when a rename keeps the current name
	ErrSameName = errors.New("new name is the same as the current name")
)

// CollectionNotFoundError represents a collection not found error with context
type CollectionNotFoundError struct {
	CollectionName string
}

func (e *CollectionNotFoundError) Error() string {
	return fmt.Sprintf("collection named '%s' not found", e.CollectionName)
}

func (e *CollectionNotFoundError) Is(target error) bool {
	return target == ErrCollectionNotFound
}

// NewCollectionNotFoundError creates a new CollectionNotFoundError
func NewCollectionNotFoundError(name string) *CollectionNotFoundError {
	return &CollectionNotFoundError{CollectionName: name}
}

// CollectionAlreadyExistsError represents a collection already exists error with context
type CollectionAlreadyExistsError struct {
	CollectionName string
}

func (e *CollectionAlreadyExistsError) Error() string {
	return fmt.Sprintf("collection named '%s' already exists", e.CollectionName)
}

func (e *CollectionAlreadyExistsError) Is(target error) bool {
	return target == ErrCollectionAlreadyExists
}

// NewCollectionAlreadyExistsError creates a new CollectionAlreadyExistsError
func NewCollectionAlreadyExistsError(name string) *CollectionAlreadyExistsError {
	return &CollectionAlreadyExistsError{CollectionName: name}
}

// ValidationError represents an input validation error with context
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation error for field '%s': %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// NewValidationError creates a new ValidationError
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// SameNameError represents a rename to the collection's current name
type SameNameError struct {
	Name string
}

func (e *SameNameError) Error() string {
	return fmt.Sprintf("new name '%s' is the same as the current name", e.Name)
}

func (e *SameNameError) Is(target error) bool {
	return target == ErrSameName
}

// NewSameNameError creates a new SameNameError
func NewSameNameError(name string) *SameNameError {
	return &SameNameError{Name: name}
}
