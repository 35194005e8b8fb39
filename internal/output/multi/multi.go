package multi

import (
	"context"
	"errors"

	"github.com/crimson-sun/fraudtrain/internal/output"
)

// Multi fans a run summary out to several outputs, for example the
// stdout report and the NDJSON run log. A failing output does not stop
// delivery to the rest.
type Multi struct {
	outputs []output.Output
}

// New creates a Multi over the given outputs. Nil outputs are skipped.
func New(outputs ...output.Output) *Multi {
	m := &Multi{}
	for _, o := range outputs {
		if o != nil {
			m.outputs = append(m.outputs, o)
		}
	}
	return m
}

// Write delivers s to every wrapped output in order and joins the errors.
func (m *Multi) Write(ctx context.Context, s output.Summary) error {
	var errs []error
	for _, o := range m.outputs {
		if err := o.Write(ctx, s); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Close calls Close on every wrapped output, collecting errors.
func (m *Multi) Close() error {
	var errs []error
	for _, o := range m.outputs {
		if err := o.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
