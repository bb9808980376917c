/*
errors.go - Centralized error types for the rules engine

PURPOSE:
  All error types in one place for consistency and discoverability.
  The taxonomy mirrors what a dashboard page has to react to: a form the
  user must correct, a record that no longer exists, a backend that did
  not answer, or data the registry does not recognise.

ERROR CATEGORIES:
  1. ValidationFailed - field rule violations, recoverable by editing input
  2. NotFound         - referenced id does not exist
  3. NetworkFailure   - timeout, connection error or non-2xx response
  4. UnknownEnumKey   - record carries a value outside the closed set

USAGE:
  if errors.Is(err, generic.ErrNotFound) { ... }

  var vf *generic.ValidationFailedError
  if errors.As(err, &vf) {
      render(vf.Fields)
  }
*/
package generic

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrValidationFailed is returned when one or more field rules fail.
	ErrValidationFailed = errors.New("validation failed")

	// ErrNotFound is returned when a referenced record does not exist.
	ErrNotFound = errors.New("record not found")

	// ErrNetworkFailure is returned for timeouts, connection errors and
	// non-2xx responses. It is never converted into an empty result.
	ErrNetworkFailure = errors.New("network failure")

	// ErrUnknownEnum is returned when an enum name is not registered.
	ErrUnknownEnum = errors.New("unknown enum")

	// ErrUnknownEnumKey is returned when a key is outside an enum's closed set.
	ErrUnknownEnumKey = errors.New("unknown enum key")

	// ErrIllegalTransition is returned when a transition table rejects a status change.
	ErrIllegalTransition = errors.New("illegal status transition")

	// ErrInvalidPeriod is returned when a date range ends before it starts.
	ErrInvalidPeriod = errors.New("invalid period: end not after start")

	// ErrUnknownKind is returned when a record kind is not registered.
	ErrUnknownKind = errors.New("unknown record kind")

	// ErrInvalidQuery is returned when a list query names a field a store
	// cannot filter or sort on.
	ErrInvalidQuery = errors.New("invalid list query")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// ValidationFailedError carries the field->message map of a failed draft.
type ValidationFailedError struct {
	Kind   Kind
	Fields FieldErrors
}

func (e *ValidationFailedError) Error() string {
	keys := e.Fields.Fields()
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	if e.Kind != "" {
		return fmt.Sprintf("validation failed for %s: %s", e.Kind, strings.Join(parts, "; "))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationFailedError) Unwrap() error { return ErrValidationFailed }

// NotFoundError names the missing record.
type NotFoundError struct {
	Kind Kind
	ID   string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.ID)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

// NetworkFailureError describes a failed backend call.
type NetworkFailureError struct {
	Op         string // "list", "get", "create", "update", "delete"
	URL        string
	StatusCode int // 0 when no response was received
	Message    string
	Err        error
}

func (e *NetworkFailureError) Error() string {
	switch {
	case e.StatusCode != 0 && e.Message != "":
		return fmt.Sprintf("%s %s: status %d: %s", e.Op, e.URL, e.StatusCode, e.Message)
	case e.StatusCode != 0:
		return fmt.Sprintf("%s %s: status %d", e.Op, e.URL, e.StatusCode)
	case e.Err != nil:
		return fmt.Sprintf("%s %s: %v", e.Op, e.URL, e.Err)
	default:
		return fmt.Sprintf("%s %s: %s", e.Op, e.URL, e.Message)
	}
}

// Unwrap exposes both the sentinel and the transport cause.
func (e *NetworkFailureError) Unwrap() []error {
	if e.Err != nil {
		return []error{ErrNetworkFailure, e.Err}
	}
	return []error{ErrNetworkFailure}
}

// UnknownEnumKeyError names the enum and the unrecognised key.
type UnknownEnumKeyError struct {
	Enum string
	Key  string
}

func (e *UnknownEnumKeyError) Error() string {
	return fmt.Sprintf("unknown %s key %q", e.Enum, e.Key)
}

func (e *UnknownEnumKeyError) Unwrap() error { return ErrUnknownEnumKey }

// IllegalTransitionError reports a status change rejected by a transition table.
type IllegalTransitionError struct {
	Enum string
	From string
	To   string
}

func (e *IllegalTransitionError) Error() string {
	return fmt.Sprintf("%s: cannot move from %s to %s", e.Enum, e.From, e.To)
}

func (e *IllegalTransitionError) Unwrap() error { return ErrIllegalTransition }

// DataQualityWarning flags input that was usable but suspicious, such as
// inverted timestamps.
type DataQualityWarning struct {
	Code    string
	Message string
}

func (w *DataQualityWarning) Error() string { return w.Code + ": " + w.Message }

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsRetryable returns true if repeating the user action might succeed.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrNetworkFailure)
}

// IsClientError returns true if the error is due to invalid input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrValidationFailed) ||
		errors.Is(err, ErrIllegalTransition) ||
		errors.Is(err, ErrInvalidPeriod) ||
		errors.Is(err, ErrInvalidQuery)
}

// IsNotFound returns true if the error indicates a missing record.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound)
}

// AsWarning converts an UnknownEnumKey error into a view warning.
// Any other error is returned unchanged with ok=false.
func AsWarning(field string, err error) (Warning, bool) {
	var uk *UnknownEnumKeyError
	if errors.As(err, &uk) {
		return Warning{Field: field, Code: "unknown_enum_key", Message: uk.Error()}, true
	}
	var dq *DataQualityWarning
	if errors.As(err, &dq) {
		return Warning{Field: field, Code: dq.Code, Message: dq.Message}, true
	}
	return Warning{}, false
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
