// Package ocr runs text recognition off the UI thread. Jobs are identified by
// a UUID so late results for abandoned jobs can be told apart.
package ocr

import (
	"context"
	"errors"
	"image"

	"github.com/google/uuid"

	"github.com/example/snapmark/internal/action"
)

var (
	// ErrBusy is returned by Submit when every worker is occupied.
	ErrBusy = errors.New("text recognition is busy")
	// ErrUnavailable is returned when no recognizer can run.
	ErrUnavailable = errors.New("text recognition is not available")
	// ErrClosed is returned by Submit after Close.
	ErrClosed = errors.New("text recognition service closed")
)

// Job is one recognition request.
type Job struct {
	ID    uuid.UUID
	Image image.Image
}

// Result is the outcome of a job. Err is set when recognition failed.
type Result struct {
	Job    uuid.UUID
	Text   string
	Blocks []action.TextBlock
	Err    error
}

// Action converts r into the dispatcher's OCRResult.
func (r Result) Action() action.OCRResult {
	return action.OCRResult{Job: r.Job, Text: r.Text, Blocks: r.Blocks, Err: r.Err}
}

// Recognizer extracts text from an image.
type Recognizer interface {
	Available() bool
	Recognize(ctx context.Context, img image.Image) (string, []action.TextBlock, error)
}
