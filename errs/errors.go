// Package errs defines the error taxonomy shared by every tabula package.
//
// Each structured error unwraps to one of the category sentinels, so callers
// can branch with errors.Is on the category and errors.As on the concrete type:
//
//	var se *errs.SyntaxError
//	if errors.As(err, &se) {
//	    fmt.Printf("bad expression at %d: %s\n", se.Pos, se.Expected)
//	}
package errs

import (
	"errors"
	"fmt"
)

var (
	// ErrSyntax is the category of malformed expression text
	ErrSyntax = errors.New("syntax error")

	// ErrEvaluation is the category of operator or function failures during evaluation
	ErrEvaluation = errors.New("evaluation error")

	// ErrArgument is the category of structural misuse of table operations
	ErrArgument = errors.New("invalid argument")

	// ErrConversion is the category of failed scalar coercions
	ErrConversion = errors.New("conversion error")

	// ErrOverflow is returned when a numeric narrowing falls outside the target range
	ErrOverflow = errors.New("value out of range")

	// ErrColumnNotFound is returned when a column name is not present in a table
	ErrColumnNotFound = errors.New("column not found")
)

// SyntaxError reports malformed expression text.
type SyntaxError struct {
	Pos      int
	Expected string
	Found    string
}

func (e *SyntaxError) Error() string {
	if e.Found == "" {
		return fmt.Sprintf("syntax error at position %d: expected %s", e.Pos, e.Expected)
	}
	return fmt.Sprintf("syntax error at position %d: expected %s, found %q", e.Pos, e.Expected, e.Found)
}

func (e *SyntaxError) Unwrap() error { return ErrSyntax }

// EvaluationError is tagged with the operator or function that failed.
type EvaluationError struct {
	Op       string
	Function string
	Err      error
}

func (e *EvaluationError) Error() string {
	switch {
	case e.Function != "":
		return fmt.Sprintf("error evaluating function '%s': %v", e.Function, e.Err)
	case e.Op != "":
		return fmt.Sprintf("error evaluating operator '%s': %v", e.Op, e.Err)
	default:
		return fmt.Sprintf("evaluation error: %v", e.Err)
	}
}

func (e *EvaluationError) Unwrap() []error { return []error{ErrEvaluation, e.Err} }

// ArgumentError reports invalid parameters passed to a table operation.
type ArgumentError struct {
	Op  string
	Err error
}

func (e *ArgumentError) Error() string {
	if e.Op == "" {
		return e.Err.Error()
	}
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *ArgumentError) Unwrap() []error { return []error{ErrArgument, e.Err} }

// ConversionError reports a value that cannot be coerced into a type.
// Column and Row are filled in when the failure happened while building a column.
type ConversionError struct {
	Value  any
	Type   string
	Column string
	Row    int
	Err    error
}

func (e *ConversionError) Error() string {
	msg := fmt.Sprintf("cannot convert value '%v' into type '%s'", e.Value, e.Type)
	if e.Column != "" {
		msg += fmt.Sprintf(" [column '%s', row %d]", e.Column, e.Row)
	}
	if e.Err != nil && !errors.Is(e.Err, ErrConversion) {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ConversionError) Unwrap() []error {
	if e.Err == nil {
		return []error{ErrConversion}
	}
	return []error{ErrConversion, e.Err}
}

// Argument builds an ArgumentError for op from a formatted message.
func Argument(op, format string, args ...any) error {
	return &ArgumentError{Op: op, Err: fmt.Errorf(format, args...)}
}

// Operator builds an EvaluationError tagged with an operator.
func Operator(op, format string, args ...any) error {
	return &EvaluationError{Op: op, Err: fmt.Errorf(format, args...)}
}

// Function wraps err as an EvaluationError tagged with a function name.
// An error already tagged with the same function is returned unchanged.
func Function(name string, err error) error {
	var ee *EvaluationError
	if errors.As(err, &ee) && ee.Function == name {
		return err
	}
	return &EvaluationError{Function: name, Err: err}
}

// WithLocation returns a copy of a ConversionError with column and row set.
// Errors of other kinds are returned unchanged.
func WithLocation(err error, column string, row int) error {
	var ce *ConversionError
	if !errors.As(err, &ce) {
		return err
	}
	located := *ce
	located.Column = column
	located.Row = row
	return &located
}
