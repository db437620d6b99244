package telemetry

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/gocarina/gocsv"
)

// Recorder appends FlockStats rows as CSV. The header is written with the first row.
// A nil Recorder discards everything, so callers need not check whether output is enabled.
type Recorder struct {
	w             io.Writer
	closer        io.Closer
	headerWritten bool
	rows          int
}

// NewRecorder writes CSV rows to w.
func NewRecorder(w io.Writer) *Recorder {
	return &Recorder{w: w}
}

// CreateRecorder creates (or truncates) the file at path, making parent directories as needed.
// Returns nil if path is empty (recording disabled).
func CreateRecorder(path string) (*Recorder, error) {
	if path == "" {
		return nil, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("creating output directory: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("creating %s: %w", filepath.Base(path), err)
	}
	return &Recorder{w: f, closer: f}, nil
}

// Record writes one stats row.
func (r *Recorder) Record(stats FlockStats) error {
	if r == nil {
		return nil
	}

	records := []FlockStats{stats}
	if !r.headerWritten {
		if err := gocsv.Marshal(records, r.w); err != nil {
			return fmt.Errorf("writing stats: %w", err)
		}
		r.headerWritten = true
	} else {
		if err := gocsv.MarshalWithoutHeaders(records, r.w); err != nil {
			return fmt.Errorf("writing stats: %w", err)
		}
	}
	r.rows++
	return nil
}

// Rows returns how many rows were recorded.
func (r *Recorder) Rows() int {
	if r == nil {
		return 0
	}
	return r.rows
}

// Close closes the underlying file, if the Recorder opened one.
func (r *Recorder) Close() error {
	if r == nil || r.closer == nil {
		return nil
	}
	return r.closer.Close()
}

// ReadStats parses a CSV produced by a Recorder.
func ReadStats(rd io.Reader) ([]FlockStats, error) {
	var rows []FlockStats
	if err := gocsv.Unmarshal(rd, &rows); err != nil {
		return nil, fmt.Errorf("reading stats: %w", err)
	}
	return rows, nil
}
