package util

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// Error codes carried in the JSON error envelope.
const (
	CodeValidation          = "VALIDATION_FAILED"
	CodeNotFound            = "NOT_FOUND"
	CodeUnauthorized        = "UNAUTHORIZED"
	CodeForbidden           = "FORBIDDEN"
	CodeSummaryUnavailable  = "SUMMARY_UNAVAILABLE"
	CodeUpstreamFailed      = "UPSTREAM_FAILED"
	CodeMalformedRecord     = "MALFORMED_RECORD"
	CodeCycleCanceled       = "CYCLE_CANCELED"
	CodeDependencyUnhealthy = "DEPENDENCY_UNAVAILABLE"
	CodeInternal            = "INTERNAL_ERROR"
)

// DomainError is an error with a stable code and the HTTP status it maps to.
type DomainError struct {
	Code       string
	Message    string
	HTTPStatus int
	Details    map[string]any
	Err        error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// NewDomainError constructs a DomainError.
func NewDomainError(code, message string, status int, details map[string]any) *DomainError {
	return &DomainError{Code: code, Message: message, HTTPStatus: status, Details: details}
}

// HasCode reports whether err carries a DomainError with the given code.
func HasCode(err error, code string) bool {
	var de *DomainError
	return errors.As(err, &de) && de.Code == code
}

func NewValidationError(message string, details map[string]any) error {
	return NewDomainError(CodeValidation, message, http.StatusBadRequest, details)
}

func NewNotFound(resource string, details map[string]any) error {
	return NewDomainError(CodeNotFound, resource+" not found", http.StatusNotFound, details)
}

func NewUnauthorized(message string) error {
	return NewDomainError(CodeUnauthorized, message, http.StatusUnauthorized, nil)
}

func NewForbidden(message string) error {
	return NewDomainError(CodeForbidden, message, http.StatusForbidden, nil)
}

// NewSummaryUnavailable reports that no cycle has succeeded yet.
func NewSummaryUnavailable() error {
	return NewDomainError(CodeSummaryUnavailable, "summary not computed yet", http.StatusServiceUnavailable, nil)
}

// NewUpstreamError wraps a failure of the record source.
func NewUpstreamError(err error) error {
	de := NewDomainError(CodeUpstreamFailed, "user source unavailable", http.StatusBadGateway, nil)
	de.Err = err
	return de
}

// NewMalformedRecord reports a batch rejected because of one record.
func NewMalformedRecord(err error, details map[string]any) error {
	de := NewDomainError(CodeMalformedRecord, "user batch rejected", http.StatusUnprocessableEntity, details)
	de.Err = err
	return de
}

// NewCycleCanceled reports a cycle abandoned because its context ended.
func NewCycleCanceled(err error) error {
	de := NewDomainError(CodeCycleCanceled, "refresh canceled", http.StatusGatewayTimeout, nil)
	de.Err = err
	return de
}

func NewInternalError(err error) error {
	de := NewDomainError(CodeInternal, "internal server error", http.StatusInternalServerError, nil)
	de.Err = err
	return de
}

// ToDomainError maps any error onto a DomainError. fiber errors keep their
// status and get a code derived from the status text.
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	var fiberErr *fiber.Error
	if errors.As(err, &fiberErr) {
		code := strings.ToUpper(strings.ReplaceAll(http.StatusText(fiberErr.Code), " ", "_"))
		return NewDomainError(code, fiberErr.Message, fiberErr.Code, nil)
	}
	de := NewDomainError(CodeInternal, "internal server error", http.StatusInternalServerError, nil)
	de.Err = err
	return de
}
