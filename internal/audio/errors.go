package audio

import (
	"errors"
	"fmt"
)

var (
	ErrNoInputDevice     = errors.New("no input device available")
	ErrDeviceNotFound    = errors.New("input device not found")
	ErrUnsupportedFormat = errors.New("unsupported audio file type")
	ErrEndOfStream       = errors.New("end of audio stream")
	ErrClosed            = errors.New("audio source closed")
)

// CaptureError reports a failure to obtain samples from the input: the
// device could not be opened, disappeared mid-stream, or rejected the format.
type CaptureError struct {
	Op  string
	Err error
}

func (e *CaptureError) Error() string {
	return fmt.Sprintf("audio capture: %s: %v", e.Op, e.Err)
}

func (e *CaptureError) Unwrap() error { return e.Err }

func captureErr(op string, err error) error {
	if err == nil {
		return nil
	}
	var ce *CaptureError
	if errors.As(err, &ce) {
		return err
	}
	return &CaptureError{Op: op, Err: err}
}
