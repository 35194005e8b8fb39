package stdout

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/crimson-sun/fraudtrain/internal/output"
)

// Output writes run summaries to stdout, as the text report or as JSON.
type Output struct {
	w    io.Writer
	enc  *json.Encoder
	full bool
}

// New creates a stdout Output. With asJSON set each summary is one JSON
// document, optionally pretty-printed; otherwise the text report is written.
func New(asJSON, pretty, full bool) *Output {
	return NewWriter(os.Stdout, asJSON, pretty, full)
}

// NewWriter is New with an explicit destination.
func NewWriter(w io.Writer, asJSON, pretty, full bool) *Output {
	o := &Output{w: w, full: full}
	if asJSON {
		o.enc = json.NewEncoder(w)
		if pretty {
			o.enc.SetIndent("", "  ")
		}
	}
	return o
}

func (o *Output) Write(_ context.Context, s output.Summary) error {
	formatted := output.FormatSummary(s, o.full)
	if o.enc == nil {
		if err := output.WriteText(o.w, formatted); err != nil {
			return fmt.Errorf("stdout output: %w", err)
		}
		return nil
	}
	if err := o.enc.Encode(formatted); err != nil {
		return fmt.Errorf("stdout output: %w", err)
	}
	return nil
}

func (o *Output) Close() error {
	return nil
}
