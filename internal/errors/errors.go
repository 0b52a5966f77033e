// Package errors provides the error taxonomy for the WhyGO client: sentinel
// errors, typed errors carrying context, and classification helpers used by
// the UI to decide what to show and what to swallow.
//
// # Failure Classes
//
// Four classes of failure reach the UI:
//   - Authentication: any authenticated call answered with 401 matches
//     ErrUnauthenticated. The session is cleared and the user returns to login.
//   - Panel reads: a failed read is wrapped in a PanelError bound to the panel
//     it feeds. Only that panel renders an error state.
//   - Validation: ValidationErrors are produced before any network call and
//     are shown inline next to the form.
//   - Best-effort calls (mark started, mark complete) are logged at WARN and
//     never surfaced.
//
// # Usage
//
//	if errors.Is(err, errors.ErrUnauthenticated) { ... }
//
//	var panelErr *errors.PanelError
//	if errors.As(err, &panelErr) { ... }
//
//	msg := errors.UserMessage(err)
package errors

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Re-export standard library functions for convenience.
// This allows callers to import only this package for all error handling.
var (
	Is     = errors.Is
	As     = errors.As
	Unwrap = errors.Unwrap
	New    = errors.New
	Join   = errors.Join
)

// Severity represents the severity level of an error.
type Severity int

const (
	// SeverityDebug is for errors that are useful for debugging but not critical.
	SeverityDebug Severity = iota
	// SeverityInfo is for informational errors that don't indicate a problem.
	SeverityInfo
	// SeverityWarning is for errors that might indicate a problem but aren't critical.
	SeverityWarning
	// SeverityError is for errors that indicate a real problem.
	SeverityError
)

// String returns the string representation of the severity level.
func (s Severity) String() string {
	switch s {
	case SeverityDebug:
		return "debug"
	case SeverityInfo:
		return "info"
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	default:
		return "unknown"
	}
}

// -----------------------------------------------------------------------------
// Sentinel Errors
// -----------------------------------------------------------------------------

// Session-related sentinel errors
var (
	// ErrUnauthenticated indicates the API rejected the session's token, or
	// there is no session at all.
	ErrUnauthenticated = New("not authenticated")
	// ErrSessionNotFound indicates no persisted session exists.
	ErrSessionNotFound = New("session not found")
	// ErrSessionCorrupted indicates the persisted session could not be decoded.
	ErrSessionCorrupted = New("session data corrupted")
)

// Wizard-related sentinel errors
var (
	// ErrContextMissing indicates a wizard step was entered before the
	// onboarding context was loaded. The wizard redirects instead of failing.
	ErrContextMissing = New("onboarding context not loaded")
	// ErrStepNotFound indicates an unknown wizard path.
	ErrStepNotFound = New("wizard step not found")
	// ErrSubmitInFlight indicates a goal submission is already running.
	ErrSubmitInFlight = New("submission already in progress")
	// ErrStepLocked indicates a navigation the current step does not allow,
	// such as continuing past the goals step without submitting.
	ErrStepLocked = New("wizard step is locked")
)

// General sentinel errors
var (
	// ErrTimeout indicates that an operation timed out.
	ErrTimeout = New("operation timed out")
	// ErrCanceled indicates that an operation was canceled.
	ErrCanceled = New("operation canceled")
	// ErrInvalidInput indicates that input validation failed.
	ErrInvalidInput = New("invalid input")
	// ErrNotPermitted indicates the person's level does not unlock a feature.
	ErrNotPermitted = New("not permitted for this level")
)

// -----------------------------------------------------------------------------
// Base Error Interface
// -----------------------------------------------------------------------------

// WhyGOError is the base interface for typed errors in this module.
type WhyGOError interface {
	error

	// Unwrap returns the underlying error, if any.
	Unwrap() error

	// Is reports whether this error matches the target error.
	Is(target error) bool

	// Severity returns the severity level of this error.
	Severity() Severity

	// IsUserFacing returns true if the error message is safe to display
	// to end users.
	IsUserFacing() bool
}

// baseError provides common functionality for all error types.
type baseError struct {
	message    string
	cause      error
	severity   Severity
	userFacing bool
}

// Error returns the error message.
func (e *baseError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.message, e.cause)
	}
	return e.message
}

// Unwrap returns the underlying error.
func (e *baseError) Unwrap() error {
	return e.cause
}

// Is checks if this error matches the target.
func (e *baseError) Is(target error) bool {
	if e.cause != nil {
		return errors.Is(e.cause, target)
	}
	return false
}

// Severity returns the error severity.
func (e *baseError) Severity() Severity {
	return e.severity
}

// IsUserFacing returns whether the error is safe to show users.
func (e *baseError) IsUserFacing() bool {
	return e.userFacing
}

// -----------------------------------------------------------------------------
// Domain-Specific Errors
// -----------------------------------------------------------------------------

// SessionError represents errors loading, saving or clearing the session.
//
// Example:
//
//	err := errors.NewSessionError("failed to load session", errors.ErrSessionCorrupted)
//	err = err.WithPersonID("p_42")
type SessionError struct {
	baseError
	PersonID string
}

// NewSessionError creates a new SessionError.
func NewSessionError(message string, cause error) *SessionError {
	return &SessionError{
		baseError: baseError{
			message:    message,
			cause:      cause,
			severity:   SeverityError,
			userFacing: true,
		},
	}
}

// WithPersonID adds the session owner to the error context.
func (e *SessionError) WithPersonID(id string) *SessionError {
	e.PersonID = id
	return e
}

// Error returns the formatted error message.
func (e *SessionError) Error() string {
	prefix := "session error"
	if e.PersonID != "" {
		prefix = fmt.Sprintf("session error [person=%s]", e.PersonID)
	}
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", prefix, e.message, e.cause)
	}
	return fmt.Sprintf("%s: %s", prefix, e.message)
}

// Is checks if this error matches the target.
func (e *SessionError) Is(target error) bool {
	if _, ok := target.(*SessionError); ok {
		return true
	}
	return e.baseError.Is(target)
}

// PanelError binds a read failure to the dashboard panel it feeds.
//
// Example:
//
//	err := errors.NewPanelError("Team Progress", cause)
//	fmt.Println(err) // "panel Team Progress: <cause>"
type PanelError struct {
	baseError
	Panel string
}

// NewPanelError creates a new PanelError.
func NewPanelError(panel string, cause error) *PanelError {
	return &PanelError{
		baseError: baseError{
			message:    "failed to load",
			cause:      cause,
			severity:   SeverityWarning,
			userFacing: true,
		},
		Panel: panel,
	}
}

// Error returns the formatted error message.
func (e *PanelError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("panel %s: %v", e.Panel, e.cause)
	}
	return fmt.Sprintf("panel %s: %s", e.Panel, e.message)
}

// Is checks if this error matches the target.
func (e *PanelError) Is(target error) bool {
	if _, ok := target.(*PanelError); ok {
		return true
	}
	return e.baseError.Is(target)
}

// -----------------------------------------------------------------------------
// Semantic Errors
// -----------------------------------------------------------------------------

// NotFoundError represents a resource that could not be found.
//
// Example:
//
//	err := errors.NewNotFoundError("goal", "ig_7")
//	fmt.Println(err) // "goal 'ig_7' not found"
type NotFoundError struct {
	baseError
	ResourceType string
	ResourceID   string
}

// NewNotFoundError creates a new NotFoundError.
func NewNotFoundError(resourceType, resourceID string) *NotFoundError {
	return &NotFoundError{
		baseError: baseError{
			message:    fmt.Sprintf("%s '%s' not found", resourceType, resourceID),
			severity:   SeverityWarning,
			userFacing: true,
		},
		ResourceType: resourceType,
		ResourceID:   resourceID,
	}
}

// Error returns the formatted error message.
func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s '%s' not found", e.ResourceType, e.ResourceID)
}

// Is checks if this error matches the target.
func (e *NotFoundError) Is(target error) bool {
	if _, ok := target.(*NotFoundError); ok {
		return true
	}
	return e.baseError.Is(target)
}

// ValidationError represents one invalid form field.
//
// Example:
//
//	err := errors.NewValidationError("is required").WithField("why")
//	fmt.Println(err) // "why: is required"
type ValidationError struct {
	baseError
	Field string
}

// NewValidationError creates a new ValidationError.
func NewValidationError(message string) *ValidationError {
	return &ValidationError{
		baseError: baseError{
			message:    message,
			severity:   SeverityWarning,
			userFacing: true,
		},
	}
}

// WithField adds a field name to the error context.
func (e *ValidationError) WithField(field string) *ValidationError {
	e.Field = field
	return e
}

// Message returns the message without the field prefix.
func (e *ValidationError) Message() string {
	return e.message
}

// Error returns the formatted error message.
func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.message)
	}
	return e.message
}

// Is checks if this error matches the target.
func (e *ValidationError) Is(target error) bool {
	if _, ok := target.(*ValidationError); ok {
		return true
	}
	if errors.Is(target, ErrInvalidInput) {
		return true
	}
	return e.baseError.Is(target)
}

// ValidationErrors collects every invalid field of a form so they can be
// shown together.
type ValidationErrors []*ValidationError

// Error joins the field messages.
func (v ValidationErrors) Error() string {
	msgs := make([]string, len(v))
	for i, e := range v {
		msgs[i] = e.Error()
	}
	return strings.Join(msgs, "; ")
}

// Is reports ErrInvalidInput so callers can test for any validation failure.
func (v ValidationErrors) Is(target error) bool {
	return target == ErrInvalidInput
}

// Field returns the first error for the named field, or nil.
func (v ValidationErrors) Field(name string) *ValidationError {
	for _, e := range v {
		if e.Field == name {
			return e
		}
	}
	return nil
}

// TimeoutError represents an operation that timed out.
//
// Example:
//
//	err := errors.NewTimeoutError("GET /api/users/me", 15*time.Second)
//	fmt.Println(err) // "timeout error: GET /api/users/me (timeout: 15s)"
type TimeoutError struct {
	baseError
	Operation string
	Duration  time.Duration
}

// NewTimeoutError creates a new TimeoutError.
func NewTimeoutError(operation string, duration time.Duration) *TimeoutError {
	return &TimeoutError{
		baseError: baseError{
			message:    operation,
			severity:   SeverityWarning,
			userFacing: true,
		},
		Operation: operation,
		Duration:  duration,
	}
}

// WithCause adds a cause to the error.
func (e *TimeoutError) WithCause(cause error) *TimeoutError {
	e.cause = cause
	return e
}

// Error returns the formatted error message.
func (e *TimeoutError) Error() string {
	base := fmt.Sprintf("timeout error: %s (timeout: %s)", e.Operation, e.Duration)
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", base, e.cause)
	}
	return base
}

// Is checks if this error matches the target.
func (e *TimeoutError) Is(target error) bool {
	if _, ok := target.(*TimeoutError); ok {
		return true
	}
	if errors.Is(target, ErrTimeout) {
		return true
	}
	return e.baseError.Is(target)
}

// -----------------------------------------------------------------------------
// Error Classification Helpers
// -----------------------------------------------------------------------------

// IsUserFacing returns true if the error message is safe to display to end
// users. Errors that implement WhyGOError decide for themselves; validation
// lists and anything exposing UserMessage() (API errors) are user-facing.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}

	var whygoErr WhyGOError
	if As(err, &whygoErr) {
		return whygoErr.IsUserFacing()
	}

	var list ValidationErrors
	if As(err, &list) {
		return true
	}

	var msg userMessager
	return As(err, &msg)
}

// userMessager is implemented by errors that carry a server-provided message.
type userMessager interface {
	UserMessage() string
}

// UserMessage returns the text to show for err. API errors contribute the
// server's message, unauthenticated errors a login prompt, and internal
// errors a generic line.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	if Is(err, ErrUnauthenticated) {
		return "Your session has expired. Please sign in again."
	}

	var msg userMessager
	if As(err, &msg) {
		return msg.UserMessage()
	}

	var list ValidationErrors
	if As(err, &list) {
		return list.Error()
	}

	var validation *ValidationError
	if As(err, &validation) {
		return validation.Error()
	}

	if IsUserFacing(err) {
		return err.Error()
	}
	return "Something went wrong. Please try again."
}

// GetSeverity returns the severity level of the error.
// Returns SeverityError for errors that don't implement WhyGOError.
func GetSeverity(err error) Severity {
	if err == nil {
		return SeverityDebug
	}

	var whygoErr WhyGOError
	if As(err, &whygoErr) {
		return whygoErr.Severity()
	}

	return SeverityError
}

// -----------------------------------------------------------------------------
// Convenience Constructors
// -----------------------------------------------------------------------------

// Wrap wraps an error with additional context message.
//
// Example:
//
//	err := errors.Wrap(baseErr, "load dashboard")
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with a formatted context message.
//
// Example:
//
//	err := errors.Wrapf(baseErr, "approve goal %s", goalID)
func Wrapf(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}
