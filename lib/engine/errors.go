package engine

import (
	"errors"
	"fmt"
)

// --------------------------------------------------------------------------
// Error Codes
// --------------------------------------------------------------------------

// Code identifies the validation failure class of a rejected command.
// Every error is raised before any state mutation, so a failing command is
// always a complete no-op.
type Code uint8

const (
	CodeNone          Code = iota // not an engine error
	CodeWrongType                 // key holds a non-string kind of value
	CodeSyntax                    // conflicting or unknown flags
	CodeInvalidExpire             // TTL non-numeric or <= 0
	CodeStringTooLong             // result would exceed 512 MiB
	CodeInvalidOffset             // negative range-write offset
	CodeNotANumber                // operand is not integer-parseable
	CodeOverflow                  // 64-bit signed arithmetic bound exceeded
	CodeNaNOrInfinity             // float result is not finite
	CodeWrongArgCount             // odd key/value pair count
)

func (c Code) String() string {
	switch c {
	case CodeWrongType:
		return "WrongType"
	case CodeSyntax:
		return "SyntaxError"
	case CodeInvalidExpire:
		return "InvalidExpire"
	case CodeStringTooLong:
		return "StringTooLong"
	case CodeInvalidOffset:
		return "InvalidOffset"
	case CodeNotANumber:
		return "NotANumber"
	case CodeOverflow:
		return "Overflow"
	case CodeNaNOrInfinity:
		return "NaNOrInfinity"
	case CodeWrongArgCount:
		return "WrongArgCount"
	default:
		return "Unknown"
	}
}

// --------------------------------------------------------------------------
// Error Type
// --------------------------------------------------------------------------

// Error is the typed error returned by every failing command.
type Error struct {
	Code Code
	Msg  string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Msg)
}

// NewError creates an engine error with the given code and message.
func NewError(code Code, msg string) *Error {
	return &Error{Code: code, Msg: msg}
}

// CodeOf extracts the engine error code, or CodeNone for nil and foreign
// errors.
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return CodeNone
}

// --------------------------------------------------------------------------
// Shared Error Instances
// --------------------------------------------------------------------------

// The common rejections are allocated once, mirroring how often they fire.
var (
	errWrongType = NewError(CodeWrongType,
		"operation against a key holding the wrong kind of value")
	errNotInteger = NewError(CodeNotANumber,
		"value is not an integer or out of range")
	errNotFloat = NewError(CodeNotANumber,
		"value is not a valid float")
	errOverflow = NewError(CodeOverflow,
		"increment or decrement would overflow")
	errNaNOrInfinity = NewError(CodeNaNOrInfinity,
		"increment would produce NaN or Infinity")
	errStringTooLong = NewError(CodeStringTooLong,
		"string exceeds maximum allowed size (512MB)")
	errInvalidOffset = NewError(CodeInvalidOffset,
		"offset is out of range")
	errSyntax = NewError(CodeSyntax, "syntax error")
)
