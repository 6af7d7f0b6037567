package errors

import (
	"fmt"
	"io"
	"strings"
)

// ScriptError is the interface implemented by every error that becomes a
// script-visible Error object when it crosses into the interpreter.
type ScriptError interface {
	error // Embed the standard error interface
	// Name is the constructor name of the script-visible error, e.g. "TypeError".
	Name() string
	// Message returns the specific error message without the name prefix.
	Message() string
	Unwrap() error // For error wrapping support (errors.Is/As)
}

// --- Script errors ---

// TypeError is raised when an operation is applied to a value of the wrong type.
type TypeError struct {
	Msg   string
	Cause error // Underlying cause, if any
}

func (e *TypeError) Error() string   { return "TypeError: " + e.Msg }
func (e *TypeError) Name() string    { return "TypeError" }
func (e *TypeError) Message() string { return e.Msg }
func (e *TypeError) Unwrap() error   { return e.Cause }
func (e *TypeError) CausedBy(cause error) *TypeError {
	e.Cause = cause
	return e
}

// RangeError is raised when a numeric value is outside its permitted range.
type RangeError struct {
	Msg   string
	Cause error
}

func (e *RangeError) Error() string   { return "RangeError: " + e.Msg }
func (e *RangeError) Name() string    { return "RangeError" }
func (e *RangeError) Message() string { return e.Msg }
func (e *RangeError) Unwrap() error   { return e.Cause }
func (e *RangeError) CausedBy(cause error) *RangeError {
	e.Cause = cause
	return e
}

// ReferenceError is raised when an identifier cannot be resolved or is read
// before its binding is initialized.
type ReferenceError struct {
	Msg   string
	Cause error
}

func (e *ReferenceError) Error() string   { return "ReferenceError: " + e.Msg }
func (e *ReferenceError) Name() string    { return "ReferenceError" }
func (e *ReferenceError) Message() string { return e.Msg }
func (e *ReferenceError) Unwrap() error   { return e.Cause }
func (e *ReferenceError) CausedBy(cause error) *ReferenceError {
	e.Cause = cause
	return e
}

// SyntaxError is raised for malformed text handed to a runtime parser
// (JSON.parse, RegExp patterns). Source-level syntax errors belong to the parser.
type SyntaxError struct {
	Msg   string
	Cause error
}

func (e *SyntaxError) Error() string   { return "SyntaxError: " + e.Msg }
func (e *SyntaxError) Name() string    { return "SyntaxError" }
func (e *SyntaxError) Message() string { return e.Msg }
func (e *SyntaxError) Unwrap() error   { return e.Cause }
func (e *SyntaxError) CausedBy(cause error) *SyntaxError {
	e.Cause = cause
	return e
}

// Typef, Rangef and Referencef are shorthands used throughout the runtime.
func Typef(format string, args ...any) *TypeError {
	return &TypeError{Msg: fmt.Sprintf(format, args...)}
}

func Rangef(format string, args ...any) *RangeError {
	return &RangeError{Msg: fmt.Sprintf(format, args...)}
}

func Referencef(format string, args ...any) *ReferenceError {
	return &ReferenceError{Msg: fmt.Sprintf(format, args...)}
}

func Syntaxf(format string, args ...any) *SyntaxError {
	return &SyntaxError{Msg: fmt.Sprintf(format, args...)}
}

// --- Host conversion errors ---

// ConversionError is returned by the host conversion layer when a Value's
// runtime shape cannot produce the requested native type. It is recoverable
// and never surfaces as a panic.
type ConversionError struct {
	Target string // Go type that was requested
	From   string // typeof-style name of the source value
	Msg    string
	Cause  error
}

func (e *ConversionError) Error() string {
	if e.Msg != "" {
		return fmt.Sprintf("cannot convert %s to %s: %s", e.From, e.Target, e.Msg)
	}
	return fmt.Sprintf("cannot convert %s to %s", e.From, e.Target)
}
func (e *ConversionError) Unwrap() error { return e.Cause }
func (e *ConversionError) CausedBy(cause error) *ConversionError {
	e.Cause = cause
	return e
}

// --- Invariant violations ---

// InvariantViolation signals a bug in the code driving the runtime (for
// example a binding initialized before it was created). It is never returned;
// Invariant panics with it.
type InvariantViolation struct {
	Msg string
}

func (e *InvariantViolation) Error() string { return "invariant violation: " + e.Msg }

// Invariant aborts the current operation with an InvariantViolation.
func Invariant(format string, args ...any) {
	panic(&InvariantViolation{Msg: fmt.Sprintf(format, args...)})
}

// IsInvariantViolation reports whether a recovered panic value came from Invariant.
func IsInvariantViolation(recovered any) bool {
	_, ok := recovered.(*InvariantViolation)
	return ok
}

// --- Error Reporting ---

// Display writes errors to w, one per line, prefixing script errors with their
// name the way an uncaught exception is reported.
func Display(w io.Writer, errs ...error) {
	for _, err := range errs {
		if err == nil {
			continue
		}
		msg := err.Error()
		if se, ok := err.(ScriptError); ok {
			msg = fmt.Sprintf("Uncaught %s: %s", se.Name(), se.Message())
		}
		fmt.Fprintln(w, strings.TrimRight(msg, "\n"))
	}
}
