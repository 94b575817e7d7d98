// Package ingest reads interaction records from contact logs and weighted
// edge lists.
package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/dd0wney/cluso-contactnet/pkg/contact"
	"github.com/dd0wney/cluso-contactnet/pkg/graph"
	"golang.org/x/exp/mmap"
)

// Columns names the CSV header fields holding each record attribute
type Columns struct {
	Source string
	Target string
	Period string
}

// DefaultColumns matches the `source,target,day` contact log layout
func DefaultColumns() Columns {
	return Columns{Source: "source", Target: "target", Period: "day"}
}

// ReadContactsFile reads a CSV contact log through a read-only memory map
func ReadContactsFile(path string, cols Columns) ([]contact.Record, error) {
	r, err := mmap.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open contacts %s: %w", path, err)
	}
	defer r.Close()

	return readContacts(io.NewSectionReader(r, 0, int64(r.Len())), path, cols)
}

// ReadContacts reads a CSV contact log with a header row. Extra columns are
// ignored; column order is free.
func ReadContacts(r io.Reader, cols Columns) ([]contact.Record, error) {
	return readContacts(r, "", cols)
}

func readContacts(r io.Reader, file string, cols Columns) ([]contact.Record, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.ReuseRecord = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return []contact.Record{}, nil
	}
	if err != nil {
		return nil, csvError(file, err)
	}

	header = slices.Clone(header)
	idx, err := columnIndexes(header, cols)
	if err != nil {
		return nil, &ParseError{File: file, Line: 1, Err: err}
	}

	records := make([]contact.Record, 0, 1024)
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, csvError(file, err)
		}
		line, _ := cr.FieldPos(0)
		fieldErr := func(col int, err error) error {
			if col >= len(row) {
				return &ParseError{File: file, Line: line, Err: fmt.Errorf("%w: row has %d fields", ErrMissingColumn, len(row))}
			}
			_, column := cr.FieldPos(col)
			return &ParseError{File: file, Line: line, Column: column, Err: err}
		}
		field := func(col int) string {
			if col >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[col])
		}

		source, err := strconv.ParseUint(field(idx[0]), 10, 64)
		if err != nil {
			return nil, fieldErr(idx[0], invalidValue(header[idx[0]], field(idx[0])))
		}
		target, err := strconv.ParseUint(field(idx[1]), 10, 64)
		if err != nil {
			return nil, fieldErr(idx[1], invalidValue(header[idx[1]], field(idx[1])))
		}
		period, err := strconv.Atoi(field(idx[2]))
		if err != nil {
			return nil, fieldErr(idx[2], invalidValue(header[idx[2]], field(idx[2])))
		}

		records = append(records, contact.Record{
			Source: graph.NodeID(source),
			Target: graph.NodeID(target),
			Period: period,
		})
	}
	return records, nil
}

func columnIndexes(header []string, cols Columns) ([3]int, error) {
	idx := [3]int{-1, -1, -1}
	want := [3]string{cols.Source, cols.Target, cols.Period}
	for i, name := range header {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		for j, w := range want {
			if idx[j] < 0 && strings.EqualFold(name, w) {
				idx[j] = i
			}
		}
	}
	for j, w := range want {
		if idx[j] < 0 {
			return idx, fmt.Errorf("%w %q in header %v", ErrMissingColumn, w, header)
		}
	}
	return idx, nil
}

func invalidValue(column, value string) error {
	return fmt.Errorf("%w %q in column %s", ErrInvalidValue, value, strings.TrimSpace(column))
}

func csvError(file string, err error) error {
	var pe *csv.ParseError
	if errors.As(err, &pe) {
		return &ParseError{File: file, Line: pe.StartLine, Column: pe.Column, Err: pe.Err}
	}
	return fmt.Errorf("read contacts: %w", err)
}

// WriteContacts writes records as a CSV contact log with a header row
func WriteContacts(w io.Writer, records []contact.Record, cols Columns) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{cols.Source, cols.Target, cols.Period}); err != nil {
		return err
	}
	row := make([]string, 3)
	for _, rec := range records {
		row[0] = strconv.FormatUint(uint64(rec.Source), 10)
		row[1] = strconv.FormatUint(uint64(rec.Target), 10)
		row[2] = strconv.Itoa(rec.Period)
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
