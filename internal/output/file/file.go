package file

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/crimson-sun/fraudtrain/internal/output"
)

const (
	defaultBufSize = 64 * 1024 // 64KB
	maxRotated     = 10
)

// Option configures a run log Output.
type Option func(*Output)

// WithMaxSize sets the file size (bytes) at which rotation triggers.
// 0 (default) disables rotation.
func WithMaxSize(bytes int64) Option {
	return func(o *Output) { o.maxSize = bytes }
}

// WithFull keeps per-round losses and feature importances in each record.
func WithFull(full bool) Option {
	return func(o *Output) { o.full = full }
}

// Output appends run summaries as NDJSON to a run log, with buffered I/O
// and optional size-based rotation.
type Output struct {
	w       *bufio.Writer
	f       *os.File
	mu      sync.Mutex
	path    string
	full    bool
	maxSize int64 // 0 = no rotation
	written int64
}

// New opens the run log at path for appending.
func New(path string, opts ...Option) (*Output, error) {
	o := &Output{path: path}
	for _, opt := range opts {
		opt(o)
	}
	if err := o.openFile(); err != nil {
		return nil, err
	}
	return o, nil
}

// Write JSON-encodes the summary and appends it as a line to the run log.
func (o *Output) Write(_ context.Context, s output.Summary) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	data, err := json.Marshal(output.FormatSummary(s, o.full))
	if err != nil {
		return fmt.Errorf("run log: marshal: %w", err)
	}
	data = append(data, '\n')

	if o.maxSize > 0 && o.written+int64(len(data)) > o.maxSize {
		if err := o.rotate(); err != nil {
			return fmt.Errorf("run log: rotate: %w", err)
		}
	}

	n, err := o.w.Write(data)
	o.written += int64(n)
	if err != nil {
		return fmt.Errorf("run log: write: %w", err)
	}
	return nil
}

// Close flushes the buffer and closes the file.
func (o *Output) Close() error {
	o.mu.Lock()
	defer o.mu.Unlock()
	if err := o.w.Flush(); err != nil {
		o.f.Close()
		return fmt.Errorf("run log: flush: %w", err)
	}
	return o.f.Close()
}

// openFile opens (or creates) the run log and wraps it in a bufio.Writer.
func (o *Output) openFile() error {
	if err := os.MkdirAll(filepath.Dir(o.path), 0755); err != nil {
		return fmt.Errorf("run log: mkdir: %w", err)
	}
	f, err := os.OpenFile(o.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("run log: open %s: %w", o.path, err)
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return fmt.Errorf("run log: stat %s: %w", o.path, err)
	}
	o.f = f
	o.w = bufio.NewWriterSize(f, defaultBufSize)
	o.written = info.Size()
	return nil
}

// rotate flushes and closes the current log, shifts {path}.N to {path}.N+1,
// renames the log to {path}.1 and opens a fresh one. Files past
// {path}.10 are overwritten.
func (o *Output) rotate() error {
	if err := o.w.Flush(); err != nil {
		return err
	}
	if err := o.f.Close(); err != nil {
		return err
	}

	for i := maxRotated - 1; i >= 1; i-- {
		from := fmt.Sprintf("%s.%d", o.path, i)
		to := fmt.Sprintf("%s.%d", o.path, i+1)
		os.Rename(from, to) // may not exist
	}
	if err := os.Rename(o.path, o.path+".1"); err != nil {
		return err
	}

	o.written = 0
	return o.openFile()
}
