package models

import (
	"errors"
	"fmt"
)

// Error codes carried by AppError.
const (
	CodeNotFound         = "NOT_FOUND"
	CodeRelationNotFound = "RELATION_NOT_FOUND"
	CodeConflict         = "CONFLICT"
	CodeValidation       = "VALIDATION_ERROR"
	CodeUnauthorized     = "UNAUTHORIZED"
	CodeForbidden        = "FORBIDDEN"
	CodeInternal         = "INTERNAL_ERROR"
)

// AppError represents a custom application error
type AppError struct {
	Code     string
	Message  string
	Resource string
	Err      error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// IsCode reports whether err is an AppError carrying code.
func IsCode(err error, code string) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == code
}

// CodeOf returns the AppError code of err, or CodeInternal for foreign errors.
func CodeOf(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return CodeInternal
}

func NewNotFoundError(resource string, id interface{}) *AppError {
	return &AppError{
		Code:     CodeNotFound,
		Message:  fmt.Sprintf("%s with ID %v not found", resource, id),
		Resource: resource,
	}
}

// NewRelationNotFoundError reports a missing relation row, as opposed to a
// missing target entity.
func NewRelationNotFoundError(relation string, targetID interface{}) *AppError {
	return &AppError{
		Code:     CodeRelationNotFound,
		Message:  fmt.Sprintf("%s for %v does not exist", relation, targetID),
		Resource: relation,
	}
}

func NewConflictError(resource, message string) *AppError {
	return &AppError{
		Code:     CodeConflict,
		Message:  message,
		Resource: resource,
	}
}

func NewValidationError(message string) *AppError {
	return &AppError{
		Code:    CodeValidation,
		Message: message,
	}
}

func NewUnauthorizedError(message string) *AppError {
	return &AppError{
		Code:    CodeUnauthorized,
		Message: message,
	}
}

func NewForbiddenError(message string) *AppError {
	return &AppError{
		Code:    CodeForbidden,
		Message: message,
	}
}

func NewInternalError(err error) *AppError {
	return &AppError{
		Code:    CodeInternal,
		Message: "Internal server error",
		Err:     err,
	}
}
