package contact

import (
	"errors"
	"fmt"
)

// Sentinel errors
var (
	ErrMalformedRecord = errors.New("malformed interaction record")
	ErrEmptyInput      = errors.New("no interaction records given")
)

// Reasons a record is rejected
const (
	ReasonSelfInteraction = "source equals target"
	ReasonPeriodRange     = "period outside valid range"
)

// MalformedRecordError describes a rejected record and its position in the input
type MalformedRecordError struct {
	Index  int
	Record Record
	Reason string
}

// Error implements the error interface.
func (e *MalformedRecordError) Error() string {
	return fmt.Sprintf("%v: record %d (%d-%d, period %d): %s",
		ErrMalformedRecord, e.Index, e.Record.Source, e.Record.Target, e.Record.Period, e.Reason)
}

// Is lets errors.Is match ErrMalformedRecord.
func (e *MalformedRecordError) Is(target error) bool {
	return target == ErrMalformedRecord
}

// EmptyInputError is returned when BuildGraphs gets no records
type EmptyInputError struct{}

func (EmptyInputError) Error() string { return ErrEmptyInput.Error() }

func (EmptyInputError) Is(target error) bool { return target == ErrEmptyInput }
