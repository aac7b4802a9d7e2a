package errors

import (
	"errors"
	"fmt"
)

// ErrorCode represents a unique error code for stable testing
type ErrorCode string

// Misuse faults. These are contract violations by calling code and are raised
// with panic, never returned.
const (
	ErrHeaderStackEmpty      ErrorCode = "HEADER_STACK_EMPTY"
	ErrHeaderKeyMismatch     ErrorCode = "HEADER_KEY_MISMATCH"
	ErrHeaderLeafPlaceholder ErrorCode = "HEADER_LEAF_PLACEHOLDER"
	ErrScopeAlreadyOpen      ErrorCode = "SCOPE_ALREADY_OPEN"
	ErrScopeNotOpen          ErrorCode = "SCOPE_NOT_OPEN"
	ErrScopeKeyMismatch      ErrorCode = "SCOPE_KEY_MISMATCH"
	ErrScopeEmptyLabel       ErrorCode = "SCOPE_EMPTY_LABEL"
	ErrLeafAlreadyOpen       ErrorCode = "LEAF_ALREADY_OPEN"
	ErrLeafNotOpen           ErrorCode = "LEAF_NOT_OPEN"
	ErrLeafKeyMismatch       ErrorCode = "LEAF_KEY_MISMATCH"
	ErrLeafEmptyID           ErrorCode = "LEAF_EMPTY_ID"
	ErrLeafPlaceholderNoLeaf ErrorCode = "LEAF_PLACEHOLDER_WITHOUT_LEAF"
)

// Runtime faults.
const (
	ErrUnknown  ErrorCode = "UNKNOWN"
	ErrInternal ErrorCode = "INTERNAL"

	ErrReportWrite  ErrorCode = "REPORT_WRITE"
	ErrReportLock   ErrorCode = "REPORT_LOCK"
	ErrConsoleWrite ErrorCode = "CONSOLE_WRITE"

	ErrConfigLoad  ErrorCode = "CONFIG_LOAD"
	ErrConfigParse ErrorCode = "CONFIG_PARSE"
	ErrConfigValid ErrorCode = "CONFIG_INVALID"

	ErrStylesLoad ErrorCode = "STYLES_LOAD"
	ErrScanWalk   ErrorCode = "SCAN_WALK"
)

var misuseCodes = map[ErrorCode]bool{
	ErrHeaderStackEmpty:      true,
	ErrHeaderKeyMismatch:     true,
	ErrHeaderLeafPlaceholder: true,
	ErrScopeAlreadyOpen:      true,
	ErrScopeNotOpen:          true,
	ErrScopeKeyMismatch:      true,
	ErrScopeEmptyLabel:       true,
	ErrLeafAlreadyOpen:       true,
	ErrLeafNotOpen:           true,
	ErrLeafKeyMismatch:       true,
	ErrLeafEmptyID:           true,
	ErrLeafPlaceholderNoLeaf: true,
}

// LibsyncError represents a structured error with code and details
type LibsyncError struct {
	Code    ErrorCode
	Message string
	Details map[string]interface{}
	Wrapped error
}

// Error implements the error interface
func (e *LibsyncError) Error() string {
	if e.Wrapped != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Wrapped)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap implements the errors.Unwrap interface
func (e *LibsyncError) Unwrap() error {
	return e.Wrapped
}

// Is implements errors.Is interface
func (e *LibsyncError) Is(target error) bool {
	var targetErr *LibsyncError
	if errors.As(target, &targetErr) {
		return e.Code == targetErr.Code
	}
	return false
}

// New creates a new LibsyncError with the given code and message
func New(code ErrorCode, message string) *LibsyncError {
	return &LibsyncError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
	}
}

// Newf creates a new LibsyncError with a formatted message
func Newf(code ErrorCode, format string, args ...interface{}) *LibsyncError {
	return &LibsyncError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
	}
}

// Wrap wraps an existing error with a LibsyncError
func Wrap(err error, code ErrorCode, message string) *LibsyncError {
	if err == nil {
		return nil
	}
	return &LibsyncError{
		Code:    code,
		Message: message,
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// Wrapf wraps an existing error with a formatted message
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) *LibsyncError {
	if err == nil {
		return nil
	}
	return &LibsyncError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Details: make(map[string]interface{}),
		Wrapped: err,
	}
}

// WithDetail adds a detail to the error
func (e *LibsyncError) WithDetail(key string, value interface{}) *LibsyncError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	e.Details[key] = value
	return e
}

// WithDetails adds multiple details to the error
func (e *LibsyncError) WithDetails(details map[string]interface{}) *LibsyncError {
	if e.Details == nil {
		e.Details = make(map[string]interface{})
	}
	for k, v := range details {
		e.Details[k] = v
	}
	return e
}

// IsErrorCode checks if an error has a specific error code
func IsErrorCode(err error, code ErrorCode) bool {
	var libErr *LibsyncError
	if errors.As(err, &libErr) {
		return libErr.Code == code
	}
	return false
}

// GetErrorCode returns the error code from an error, or ErrUnknown if not a LibsyncError
func GetErrorCode(err error) ErrorCode {
	var libErr *LibsyncError
	if errors.As(err, &libErr) {
		return libErr.Code
	}
	return ErrUnknown
}

// GetErrorDetails returns the details from an error, or nil if not a LibsyncError
func GetErrorDetails(err error) map[string]interface{} {
	var libErr *LibsyncError
	if errors.As(err, &libErr) {
		return libErr.Details
	}
	return nil
}

// IsMisuse reports whether err is a context-pairing or placeholder contract
// violation rather than a runtime condition.
func IsMisuse(err error) bool {
	return misuseCodes[GetErrorCode(err)]
}

// Misuse panics with a misuse fault. It never returns.
func Misuse(code ErrorCode, format string, args ...interface{}) {
	panic(Newf(code, format, args...))
}

// AsMisuse converts a recovered panic value into a misuse fault. It returns
// nil when v is not one.
func AsMisuse(v interface{}) *LibsyncError {
	err, ok := v.(error)
	if !ok || !IsMisuse(err) {
		return nil
	}
	var libErr *LibsyncError
	errors.As(err, &libErr)
	return libErr
}
