package rson

import (
	"fmt"

	"github.com/rson-go/rson/internal/cursor"
)

// ErrorKind identifies the taxonomy of parse failures in spec.md §7.
type ErrorKind int

const (
	Encoding ErrorKind = iota
	UnexpectedByte
	UnexpectedEof
	BadEscape
	BadNumber
	BadControlChar
	DuplicateKey
	DictKeyType
	TagShape
	TagNest
	TrailingGarbage
	DepthLimit
)

func (k ErrorKind) String() string {
	switch k {
	case Encoding:
		return "Encoding"
	case UnexpectedByte:
		return "UnexpectedByte"
	case UnexpectedEof:
		return "UnexpectedEof"
	case BadEscape:
		return "BadEscape"
	case BadNumber:
		return "BadNumber"
	case BadControlChar:
		return "BadControlChar"
	case DuplicateKey:
		return "DuplicateKey"
	case DictKeyType:
		return "DictKeyType"
	case TagShape:
		return "TagShape"
	case TagNest:
		return "TagNest"
	case TrailingGarbage:
		return "TrailingGarbage"
	case DepthLimit:
		return "DepthLimit"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

// Error is the diagnostic spec.md §6 requires: a Kind plus byte
// offset, line, column, and both an unformatted MessageKey (for
// higher layers to localize) and a human-readable Detail.
//
// Generalized from the teacher's jsondecoder.go, which built one
// fmt.Errorf string per call site (UnexpectedByte, ExpectByte) with
// no machine-inspectable kind or position fields; this keeps the same
// call sites but turns their output into a structured type so callers
// can errors.As and switch on Kind.
type Error struct {
	Kind       ErrorKind
	Offset     int
	Line       int // 0-based
	Col        int // 0-based
	MessageKey string
	Detail     string
	cause      error
}

func (e *Error) Error() string {
	detail := e.Detail
	if detail == "" {
		detail = e.MessageKey
	}
	return fmt.Sprintf("rson: %s at L%d,C%d (byte %d): %s", e.Kind, e.Line+1, e.Col+1, e.Offset, detail)
}

func (e *Error) Unwrap() error { return e.cause }

// newError builds an *Error positioned at pos, mirroring the
// teacher's UnexpectedByte/ExpectByte helpers in spirit: one call
// site per failure, now producing a structured value instead of a
// formatted string.
func newError(pos cursor.Pos, kind ErrorKind, msgKey, detail string) *Error {
	return &Error{Kind: kind, Offset: pos.Offset, Line: pos.Line, Col: pos.Col, MessageKey: msgKey, Detail: detail}
}

func newErrorf(pos cursor.Pos, kind ErrorKind, msgKey, format string, args ...any) *Error {
	return newError(pos, kind, msgKey, fmt.Sprintf(format, args...))
}

// newErrorfCause is newErrorf plus a wrapped lower-level error (e.g. a
// strconv.ParseFloat or encoding/base64 failure), recoverable via
// errors.Unwrap/errors.As for callers that want the original cause
// alongside the structured Kind/position.
func newErrorfCause(pos cursor.Pos, kind ErrorKind, msgKey string, cause error, format string, args ...any) *Error {
	e := newErrorf(pos, kind, msgKey, format, args...)
	e.cause = cause
	return e
}
