// Package errors provides the unified error type and factory functions for the
// rejection analytics library.  Every layer (domain, application,
// infrastructure, public client) uses AppError as the single carrier for
// structured error information.  Codes are grouped into three kinds that
// callers branch on: input errors (bad arguments), request errors (upstream
// API failures) and parse errors (malformed submission dates).
package errors

import (
	"errors"
	"fmt"
	"runtime"
	"strings"
)

// stackDepth is the maximum number of frames captured per error.
const stackDepth = 32

// captureStack returns a formatted call-stack string starting two frames above
// the caller (skipping captureStack itself and New/Wrap).
func captureStack(skip int) string {
	pcs := make([]uintptr, stackDepth)
	n := runtime.Callers(skip+2, pcs)
	if n == 0 {
		return ""
	}
	frames := runtime.CallersFrames(pcs[:n])
	var sb strings.Builder
	for {
		f, more := frames.Next()
		if !strings.Contains(f.File, "runtime/") {
			fmt.Fprintf(&sb, "\n\t%s:%d %s", f.File, f.Line, f.Function)
		}
		if !more {
			break
		}
	}
	return sb.String()
}

// ─────────────────────────────────────────────────────────────────────────────
// AppError
// ─────────────────────────────────────────────────────────────────────────────

// AppError is the single structured error type used throughout the library.
// It supports Go 1.13+ error wrapping so errors.Is / errors.As / errors.Unwrap
// work across layers.
//
// Usage:
//
//	return errors.New(errors.ErrCodeUnknownFlag, "unknown rejection flag \"hasRej999\"")
//	return errors.Wrap(err, errors.ErrCodeUpstreamTransport, "POST oa_rejections failed")
type AppError struct {
	// Code identifies the failure; its prefix determines the Kind.
	Code ErrorCode

	// Message is the human-readable description naming the violated constraint.
	Message string

	// Detail carries supplementary context (raw values, request IDs).
	Detail string

	// Cause is the underlying error, if any.
	Cause error

	// Stack is captured by New and Wrap.  It is not part of Error().
	Stack string
}

// Error implements the standard error interface.
// Format: "[<code>] <message>: <detail>"; the detail segment is omitted when empty.
func (e *AppError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Code.String(), e.Message, e.Detail)
	}
	return fmt.Sprintf("[%s] %s", e.Code.String(), e.Message)
}

// Unwrap returns the underlying cause error.
func (e *AppError) Unwrap() error {
	return e.Cause
}

// Kind reports the error kind derived from the code.
func (e *AppError) Kind() Kind {
	return KindForCode(e.Code)
}

// WithDetail returns a shallow copy of the receiver with Detail set.
// It is safe to call on a nil pointer (returns nil).
func (e *AppError) WithDetail(detail string) *AppError {
	if e == nil {
		return nil
	}
	clone := *e
	clone.Detail = detail
	return &clone
}

// WithCause returns a shallow copy of the receiver with Cause set to err.
func (e *AppError) WithCause(err error) *AppError {
	if e == nil {
		return nil
	}
	clone := *e
	clone.Cause = err
	return &clone
}

// ─────────────────────────────────────────────────────────────────────────────
// Factories
// ─────────────────────────────────────────────────────────────────────────────

// New constructs a fresh AppError with the given code and message.
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Stack:   captureStack(1),
	}
}

// Newf is New with a formatted message.
func Newf(code ErrorCode, format string, args ...interface{}) *AppError {
	return &AppError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
		Stack:   captureStack(1),
	}
}

// Wrap constructs an AppError that wraps an existing error.
// If err is nil, Wrap returns nil.  When err is already an *AppError and code
// is CodeUnknown the original code is preserved.
func Wrap(err error, code ErrorCode, message string) *AppError {
	if err == nil {
		return nil
	}
	if code == CodeUnknown {
		var ae *AppError
		if errors.As(err, &ae) {
			code = ae.Code
		}
	}
	return &AppError{
		Code:    code,
		Message: message,
		Cause:   err,
		Stack:   captureStack(1),
	}
}

// Internal constructs a CodeInternal AppError.
func Internal(message string) *AppError {
	return &AppError{
		Code:    CodeInternal,
		Message: message,
		Stack:   captureStack(1),
	}
}

// ─────────────────────────────────────────────────────────────────────────────
// Error-chain inspection helpers
// ─────────────────────────────────────────────────────────────────────────────

// IsCode reports whether any error in err's chain is an *AppError with the
// given code.
func IsCode(err error, code ErrorCode) bool {
	var ae *AppError
	for err != nil {
		if errors.As(err, &ae) && ae.Code == code {
			return true
		}
		err = errors.Unwrap(err)
	}
	return false
}

// GetCode extracts the ErrorCode from the first *AppError found in err's chain.
// If no *AppError is present, CodeUnknown is returned.
func GetCode(err error) ErrorCode {
	if err == nil {
		return CodeOK
	}
	var ae *AppError
	if errors.As(err, &ae) {
		return ae.Code
	}
	return CodeUnknown
}

// KindOf returns the Kind of the first *AppError in err's chain, or
// KindCommon when there is none.
func KindOf(err error) Kind {
	return KindForCode(GetCode(err))
}

// IsInputError reports whether err is an input error (bad argument).
func IsInputError(err error) bool {
	return err != nil && KindOf(err) == KindInput
}

// IsRequestError reports whether err is an upstream request error.
func IsRequestError(err error) bool {
	return err != nil && KindOf(err) == KindRequest
}

// IsParseError reports whether err is a date parse error.
func IsParseError(err error) bool {
	return err != nil && KindOf(err) == KindParse
}
