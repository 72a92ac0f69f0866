package audio

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"
)

// Reader is a blocking frame source. ReadFrame returns the next frame of
// mono samples; the slice must not be reused by the reader afterwards.
type Reader interface {
	ReadFrame() ([]float32, error)
	Close() error
}

// Input is a running source the frame loop drains.
type Input interface {
	Frames() *Queue
	Close() error
}

// RetryConfig bounds how long a failing read is retried before it becomes
// fatal.
type RetryConfig struct {
	MaxRetries int           // retries after the first failure
	Backoff    time.Duration // delay before the first retry, doubled each time
	MaxBackoff time.Duration
}

func (c RetryConfig) delay(attempt int) time.Duration {
	d := c.Backoff * time.Duration(1<<uint(attempt-1))
	if c.MaxBackoff > 0 && d > c.MaxBackoff {
		d = c.MaxBackoff
	}
	return d
}

// stopTimeout bounds how long Close waits for an in-flight read.
const stopTimeout = 2 * time.Second

// Capture runs a Reader on its own goroutine and feeds a Queue.
type Capture struct {
	r           Reader
	q           *Queue
	retry       RetryConfig
	logger      *slog.Logger
	stopTimeout time.Duration

	cancel    context.CancelFunc
	done      chan struct{}
	closeOnce sync.Once
	closeErr  error
}

// StartCapture begins reading r in the background. Close must be called to
// release the reader.
func StartCapture(r Reader, queueSize int, retry RetryConfig, logger *slog.Logger) *Capture {
	if logger == nil {
		logger = slog.Default()
	}
	ctx, cancel := context.WithCancel(context.Background())
	c := &Capture{
		r:           r,
		q:           NewQueue(queueSize),
		retry:       retry,
		logger:      logger,
		stopTimeout: stopTimeout,
		cancel:      cancel,
		done:        make(chan struct{}),
	}
	go c.run(ctx)
	return c
}

func (c *Capture) Frames() *Queue { return c.q }

func (c *Capture) run(ctx context.Context) {
	defer close(c.done)

	failures := 0
	for {
		if ctx.Err() != nil {
			c.q.Fail(ErrClosed)
			return
		}

		frame, err := c.r.ReadFrame()
		if err == nil {
			if failures > 0 {
				c.logger.Info("audio: capture recovered", "retries", failures)
			}
			failures = 0
			c.q.Push(frame)
			continue
		}

		if errors.Is(err, ErrEndOfStream) || errors.Is(err, ErrClosed) {
			c.q.Fail(err)
			return
		}

		failures++
		if failures > c.retry.MaxRetries {
			c.logger.Error("audio: giving up on capture", "error", err, "retries", c.retry.MaxRetries)
			c.q.Fail(captureErr("read", err))
			return
		}

		delay := c.retry.delay(failures)
		c.logger.Warn("audio: read failed, retrying",
			"error", err,
			"attempt", failures,
			"max_retries", c.retry.MaxRetries,
			"delay", delay,
		)

		select {
		case <-time.After(delay):
		case <-ctx.Done():
			c.q.Fail(ErrClosed)
			return
		}
	}
}

// Close stops the goroutine, then releases the reader. If a read is still
// blocked after stopTimeout, the reader is closed anyway so the read can
// return.
func (c *Capture) Close() error {
	c.closeOnce.Do(func() {
		c.cancel()
		t := time.NewTimer(c.stopTimeout)
		defer t.Stop()
		select {
		case <-c.done:
		case <-t.C:
			c.logger.Warn("audio: capture read still blocked, closing reader", "waited", c.stopTimeout)
		}
		c.closeErr = c.r.Close()
	})
	return c.closeErr
}
