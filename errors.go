package nml

import (
	"errors"
	"fmt"
)

// ErrUnexpectedEOF reports input that ends in the middle of a group,
// assignment, or value list. It is wrapped in a [SyntaxError] so callers
// can test for it with [errors.Is].
var ErrUnexpectedEOF = errors.New("unexpected end of input")

// SyntaxError reports a lexical or structural error at a 1-based source
// position.
type SyntaxError struct {
	Msg  string
	Line int
	Col  int
	Err  error // optional underlying cause
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%d:%d: %s", e.Line, e.Col, e.Msg)
}

func (e *SyntaxError) Unwrap() error { return e.Err }

// syntaxErrf builds a SyntaxError at the position of tok.
func syntaxErrf(line, col int, format string, args ...any) *SyntaxError {
	return &SyntaxError{
		Msg:  fmt.Sprintf(format, args...),
		Line: line,
		Col:  col,
	}
}

// ConversionError reports that a stored value cannot be converted to the
// requested kind.
type ConversionError struct {
	From  ValueKind
	To    ValueKind
	Value string // display form of the offending value
}

func (e *ConversionError) Error() string {
	return fmt.Sprintf("cannot convert %s %s to %s", e.From, e.Value, e.To)
}

// ValueError reports a literal that does not parse as the requested or
// any detectable kind.
type ValueError struct {
	Literal string
	Want    string // kind name or "value"
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("invalid %s literal %q", e.Want, e.Literal)
}

// NotFoundError reports a lookup miss in a namelist or group. Variable is
// empty when the group itself is missing.
type NotFoundError struct {
	Group    string
	Variable string
}

func (e *NotFoundError) Error() string {
	if e.Variable == "" {
		return fmt.Sprintf("group %q not found", e.Group)
	}
	return fmt.Sprintf("variable %q not found in group %q", e.Variable, e.Group)
}

// IndexError reports an index specification that is malformed or out of
// the variable's bounds.
type IndexError struct {
	Variable string
	Msg      string
}

func (e *IndexError) Error() string {
	if e.Variable == "" {
		return "index error: " + e.Msg
	}
	return fmt.Sprintf("index error on %q: %s", e.Variable, e.Msg)
}

// ValidationError reports a constraint violation found while checking a
// group against declared value constraints.
type ValidationError struct {
	Group    string
	Variable string
	Msg      string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation: %s%%%s: %s", e.Group, e.Variable, e.Msg)
}

// PatchError reports a failure while applying a patch to a source text.
type PatchError struct {
	Group    string
	Variable string
	Msg      string
	Err      error
}

func (e *PatchError) Error() string {
	where := e.Group
	if e.Variable != "" {
		where += "%" + e.Variable
	}
	if where == "" {
		return "patch: " + e.Msg
	}
	return fmt.Sprintf("patch %s: %s", where, e.Msg)
}

func (e *PatchError) Unwrap() error { return e.Err }
