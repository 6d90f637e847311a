package reflection

import (
	"fmt"
)

// ErrorKind classifies a failure of a generation run
type ErrorKind int

const (
	ErrLex ErrorKind = iota
	ErrParse
	ErrScan
	ErrResolve
	ErrMember
	ErrMetadataIO
)

func (k ErrorKind) String() string {
	switch k {
	case ErrLex:
		return "lex"
	case ErrParse:
		return "parse"
	case ErrScan:
		return "scan"
	case ErrResolve:
		return "resolve"
	case ErrMember:
		return "member"
	case ErrMetadataIO:
		return "metadata"
	default:
		return fmt.Sprintf("ErrorKind(%d)", int(k))
	}
}

// Error is one problem found while scanning or resolving. Offset is a
// byte offset into File, or -1 when there is none.
type Error struct {
	Kind   ErrorKind
	File   string
	Offset int
	Msg    string
	Err    error
}

// NewError creates an Error for a position in file
func NewError(kind ErrorKind, file string, offset int, format string, args ...any) *Error {
	return &Error{Kind: kind, File: file, Offset: offset, Msg: fmt.Sprintf(format, args...)}
}

// WrapError creates an Error caused by err
func WrapError(kind ErrorKind, file string, offset int, err error, format string, args ...any) *Error {
	e := NewError(kind, file, offset, format, args...)
	e.Err = err
	return e
}

func (e *Error) Error() string {
	pos := e.File
	if e.Offset >= 0 && pos != "" {
		pos = fmt.Sprintf("%s@%d", e.File, e.Offset)
	}
	msg := e.Msg
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	if pos == "" {
		return fmt.Sprintf("%s error: %s", e.Kind, msg)
	}
	return fmt.Sprintf("%s: %s error: %s", pos, e.Kind, msg)
}

func (e *Error) Unwrap() error { return e.Err }
