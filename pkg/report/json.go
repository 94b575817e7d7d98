package report

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/golang/snappy"
)

// SnappyExt marks a snappy framed JSON report
const SnappyExt = ".sz"

// WriteJSON writes rep as indented JSON
func WriteJSON(w io.Writer, rep *Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(rep); err != nil {
		return fmt.Errorf("encode report: %w", err)
	}
	return nil
}

// WriteJSONSnappy writes rep as compact JSON inside a snappy framed stream
func WriteJSONSnappy(w io.Writer, rep *Report) error {
	sw := snappy.NewBufferedWriter(w)
	if err := json.NewEncoder(sw).Encode(rep); err != nil {
		sw.Close()
		return fmt.Errorf("encode report: %w", err)
	}
	if err := sw.Close(); err != nil {
		return fmt.Errorf("flush snappy stream: %w", err)
	}
	return nil
}

// ReadJSON decodes a report, detecting a snappy framed stream by its magic
// chunk.
func ReadJSON(r io.Reader) (*Report, error) {
	br := bufio.NewReader(r)
	if head, _ := br.Peek(len(snappyMagic)); bytes.Equal(head, snappyMagic) {
		r = snappy.NewReader(br)
	} else {
		r = br
	}

	var rep Report
	if err := json.NewDecoder(r).Decode(&rep); err != nil {
		return nil, fmt.Errorf("decode report: %w", err)
	}
	return &rep, nil
}

// snappyMagic is the stream identifier chunk that opens every framed stream
var snappyMagic = []byte("\xff\x06\x00\x00sNaPpY")

// ReadFile loads a report written by WriteJSON or WriteJSONSnappy
func ReadFile(path string) (*Report, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rep, err := ReadJSON(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return rep, nil
}

// IsSnappyPath reports whether path names a compressed report
func IsSnappyPath(path string) bool {
	return strings.HasSuffix(path, SnappyExt)
}
