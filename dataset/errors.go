package dataset

import (
	"errors"
	"fmt"
)

var (
	ErrMalformedHeader  = errors.New("malformed header")
	ErrRowArityMismatch = errors.New("row arity mismatch")
	ErrMalformedCSV     = errors.New("malformed csv")
	ErrInvalidEncoding  = errors.New("input is not valid UTF-8")
	ErrTooLarge         = errors.New("input exceeds the maximum accepted size")
	ErrUnknownColumn    = errors.New("unknown column")
)

// RowArityError reports a record whose field count differs from the header.
// Line is the 1-based line on which the record starts; the header is line 1.
type RowArityError struct {
	Line int
	Want int
	Got  int
}

func (e *RowArityError) Error() string {
	return fmt.Sprintf("%s: line %d has %d fields, header has %d", ErrRowArityMismatch, e.Line, e.Got, e.Want)
}

func (e *RowArityError) Is(target error) bool { return target == ErrRowArityMismatch }

// ParseError wraps a CSV syntax error (bare quote, unterminated field).
type ParseError struct {
	Line int
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%s: line %d: %v", ErrMalformedCSV, e.Line, e.Err)
}

func (e *ParseError) Is(target error) bool { return target == ErrMalformedCSV }
func (e *ParseError) Unwrap() error        { return e.Err }

// UnknownColumnError is returned when a request names a column the dataset
// does not have.
type UnknownColumnError struct {
	Column string
}

func (e *UnknownColumnError) Error() string {
	return fmt.Sprintf("%s %q", ErrUnknownColumn, e.Column)
}

func (e *UnknownColumnError) Is(target error) bool { return target == ErrUnknownColumn }
