// Package domainerrors carries coded errors across service boundaries.
//
// Services return errors built with New or Wrap. Transports inspect the code with
// HasCode (or CodeOf) to pick a status and a stable wire identifier; the message is
// safe to show to callers except for CodeInternal, whose message is never rendered.
package domainerrors

import (
	"errors"
	"fmt"
)

// Code identifies a class of failure. Values are stable and appear on the wire.
type Code string

const (
	// Compliance taxonomy. Every one of these is terminal for the call that raised it.
	CodeDuplicateRecord       Code = "duplicate_record"
	CodeUnauthorizedCustodian Code = "unauthorized_custodian"
	CodeNonCompliantAsset     Code = "non_compliant_asset"
	CodeInvalidCallData       Code = "invalid_call_data"

	// Runtime and account constraints.
	CodeInvalidAccount    Code = "invalid_account"
	CodeInsufficientFunds Code = "insufficient_funds"

	// Generic request and infrastructure codes.
	CodeBadRequest         Code = "bad_request"
	CodeValidation         Code = "validation_error"
	CodeInvalidInput       Code = "invalid_input"
	CodeUnauthorized       Code = "unauthorized"
	CodeForbidden          Code = "forbidden"
	CodeNotFound           Code = "not_found"
	CodeTimeout            Code = "timeout"
	CodeInvariantViolation Code = "invariant_violation"
	CodeInternal           Code = "internal_error"
)

// Error is a coded error with an optional cause.
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// New builds a coded error.
func New(code Code, msg string) error {
	return &Error{Code: code, Message: msg}
}

// Newf builds a coded error with a formatted message.
func Newf(code Code, format string, args ...any) error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a code and message to err. A nil err yields nil.
func Wrap(err error, code Code, msg string) error {
	if err == nil {
		return nil
	}
	return &Error{Code: code, Message: msg, Err: err}
}

// HasCode reports whether any coded error in err's chain carries code.
func HasCode(err error, code Code) bool {
	for err != nil {
		var de *Error
		if !errors.As(err, &de) {
			return false
		}
		if de.Code == code {
			return true
		}
		err = de.Err
	}
	return false
}

// CodeOf returns the outermost code in err's chain, or CodeInternal when err is
// not a coded error.
func CodeOf(err error) Code {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return CodeInternal
}

// MessageOf returns the message of the outermost coded error.
func MessageOf(err error) string {
	var de *Error
	if errors.As(err, &de) {
		return de.Message
	}
	return ""
}

// Is is errors.Is, re-exported so callers need a single import.
func Is(err, target error) bool {
	return errors.Is(err, target)
}
