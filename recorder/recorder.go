// Package recorder appends periodic plant samples to a CSV file, one
// row per sample set with the timestamp always first.
package recorder

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"
)

// Column maps one sample key to its CSV header and fmt verb. An empty
// Format renders the value with its default formatting.
type Column struct {
	Key    string
	Header string
	Format string
}

// Recorder writes sample rows to a CSV file as they arrive. Every row
// is flushed so a cut power line costs one row at most.
type Recorder struct {
	mu      sync.Mutex
	file    *os.File
	writer  *csv.Writer
	columns []Column

	now func() time.Time
}

// Create opens a log file and writes its header row.
func Create(path string, columns []Column) (*Recorder, error) {
	if len(columns) == 0 {
		return nil, errors.New("recorder: no columns configured")
	}

	file, err := os.Create(path)
	if err != nil {
		return nil, err
	}

	writer := csv.NewWriter(file)

	header := make([]string, 0, len(columns)+1)
	header = append(header, "Timestamp")
	for _, column := range columns {
		header = append(header, column.Header)
	}

	if err := writer.Write(header); err != nil {
		file.Close()
		return nil, err
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		file.Close()
		return nil, err
	}

	return &Recorder{
		file:    file,
		writer:  writer,
		columns: columns,
		now:     time.Now,
	}, nil
}

// Record writes one row. Keys missing from the values leave their cell
// empty.
func (r *Recorder) Record(values map[string]interface{}) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	row := make([]string, 0, len(r.columns)+1)
	row = append(row, r.now().Format(time.RFC3339))

	for _, column := range r.columns {
		value, ok := values[column.Key]
		if !ok || value == nil {
			row = append(row, "")
			continue
		}

		if column.Format != "" {
			row = append(row, fmt.Sprintf(column.Format, value))
		} else {
			row = append(row, fmt.Sprint(value))
		}
	}

	if err := r.writer.Write(row); err != nil {
		return err
	}

	r.writer.Flush()
	return r.writer.Error()
}

// Close flushes and closes the file.
func (r *Recorder) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.writer.Flush()
	err := r.writer.Error()

	if cerr := r.file.Close(); err == nil {
		err = cerr
	}

	return err
}
