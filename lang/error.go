package lang

import (
	"errors"
	"log/slog"
	"strconv"
	"strings"
)

// Predefined errors (sentinel values).
//
// Every error returned by this package matches exactly one of these with
// [errors.Is], regardless of the attributes or position attached to it.
var (
	ErrLex                = NewError("lex error")
	ErrParse              = NewError("parse error")
	ErrUndefinedReference = NewError("undefined reference")
	ErrType               = NewError("type error")
	ErrArithmetic         = NewError("arithmetic error")
	ErrMaxDepthExceeded   = NewError("maximum nesting depth exceeded")
	ErrRedefinition       = NewError("constant redefined")
	ErrReadInput          = NewError("failed to read input")
	ErrQuery              = NewError("query failed")
)

// Error represents an error with optional source position and structured
// logging attributes. It implements both error and slog.LogValuer interfaces.
type Error struct {
	msg   string
	err   error       // Wrapped error (for errors.Unwrap)
	attrs []slog.Attr // Attributes for structured logging
	pos   *Position
	base  *Error // sentinel this error was derived from
}

// NewError creates a new Error with a message.
func NewError(msg string) *Error {
	return &Error{msg: msg}
}

// WrapError wraps a standard error into an Error.
func WrapError(err error) *Error {
	ee := &Error{}
	if errors.As(err, &ee) {
		return ee
	}

	return &Error{err: err}
}

// Error implements the error interface.
//
// The message is rendered as:
//
//	<msg> at line L, column C (key=value ...): <cause>
//
// where each part is omitted when unset.
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteString(e.msg)

	if e.pos != nil {
		b.WriteString(" at line ")
		b.WriteString(strconv.Itoa(e.pos.Line))
		b.WriteString(", column ")
		b.WriteString(strconv.Itoa(e.pos.Column))
	}

	if len(e.attrs) > 0 {
		b.WriteString(" (")

		for i, a := range e.attrs {
			if i > 0 {
				b.WriteByte(' ')
			}

			b.WriteString(a.Key)
			b.WriteByte('=')
			b.WriteString(a.Value.String())
		}

		b.WriteByte(')')
	}

	if e.err != nil {
		if b.Len() > 0 {
			b.WriteString(": ")
		}

		b.WriteString(e.err.Error())
	}

	return b.String()
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *Error) Unwrap() error { return e.err }

// Is reports whether target is the sentinel e was derived from.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}

	return e.root() == t.root()
}

func (e *Error) root() *Error {
	if e.base != nil {
		return e.base
	}

	return e
}

// LogValue implements slog.LogValuer for rich structured logging.
func (e *Error) LogValue() slog.Value {
	attrs := make([]slog.Attr, 0, len(e.attrs)+3)

	if e.msg != "" {
		attrs = append(attrs, slog.String("error", e.msg))
	}

	if e.pos != nil {
		attrs = append(attrs, slog.Any("pos", *e.pos))
	}

	if e.err != nil {
		attrs = append(attrs, slog.String("cause", e.err.Error()))
	}

	return slog.GroupValue(append(attrs, e.attrs...)...)
}

// Position returns the source position attached to the error, if any.
func (e *Error) Position() (Position, bool) {
	if e.pos == nil {
		return Position{}, false
	}

	return *e.pos, true
}

// Attr returns the value of the first attribute with the given key.
func (e *Error) Attr(key string) (slog.Value, bool) {
	for _, a := range e.attrs {
		if a.Key == key {
			return a.Value, true
		}
	}

	return slog.Value{}, false
}

// Wrap creates a new Error wrapping another error.
func (e *Error) Wrap(err error) *Error {
	c := e.derive()
	c.err = err

	return c
}

// With adds attributes to the error for structured logging.
// This creates a new Error instance to maintain immutability.
func (e *Error) With(attrs ...slog.Attr) *Error {
	c := e.derive()
	c.attrs = make([]slog.Attr, len(e.attrs)+len(attrs))
	copy(c.attrs, e.attrs)
	copy(c.attrs[len(e.attrs):], attrs)

	return c
}

// WithPosition returns a copy of the error located at pos.
func (e *Error) WithPosition(pos Position) *Error {
	c := e.derive()
	c.pos = &pos

	return c
}

func (e *Error) derive() *Error {
	return &Error{
		msg:   e.msg,
		err:   e.err,
		attrs: e.attrs, // Share attrs
		pos:   e.pos,
		base:  e.root(),
	}
}

// Snippet renders the source line containing the position of err followed
// by a caret under the offending column:
//
//	  3 | (define b ^(a + [0o1]));
//	                    ^
//
// It returns the empty string if err carries no position or the position
// lies outside source.
func Snippet(source string, err error) string {
	var ee *Error
	if !errors.As(err, &ee) || ee.pos == nil {
		return ""
	}

	lines := strings.Split(source, "\n")
	if ee.pos.Line < 1 || ee.pos.Line > len(lines) {
		return ""
	}

	line := strings.TrimRight(lines[ee.pos.Line-1], "\r")
	num := strconv.Itoa(ee.pos.Line)

	var b strings.Builder

	b.WriteString("  ")
	b.WriteString(num)
	b.WriteString(" | ")
	b.WriteString(line)
	b.WriteByte('\n')

	// 2 leading spaces + " | " is 5 columns wide.
	b.WriteString(strings.Repeat(" ", len(num)+5+max(ee.pos.Column-1, 0)))
	b.WriteString("^\n")

	return b.String()
}
