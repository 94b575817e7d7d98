package ingest

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingColumn is returned when the CSV header lacks a required column
	ErrMissingColumn = errors.New("missing column")
	// ErrInvalidValue is returned when a field does not hold a valid integer
	ErrInvalidValue = errors.New("invalid value")
)

// ParseError locates a failure inside an input file. Line and Column are
// 1-based; Column is 0 when the whole line is at fault.
type ParseError struct {
	File   string
	Line   int
	Column int
	Err    error
}

func (e *ParseError) Error() string {
	file := e.File
	if file == "" {
		file = "<input>"
	}
	if e.Column > 0 {
		return fmt.Sprintf("%s:%d:%d: %v", file, e.Line, e.Column, e.Err)
	}
	return fmt.Sprintf("%s:%d: %v", file, e.Line, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}
