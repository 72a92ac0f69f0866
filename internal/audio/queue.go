package audio

import (
	"context"
	"sync"
	"sync/atomic"
)

// Queue carries frames from a capture goroutine (or an audio callback) to the
// frame loop. It is bounded: when full, Push drops the oldest frame so the
// loop always sees the most recent audio. A terminal error is delivered once
// every queued frame has been taken.
//
// Push and Fail must be called from a single producer.
type Queue struct {
	frames  chan []float32
	dropped atomic.Uint64

	errOnce sync.Once
	failed  chan struct{}
	err     error
}

func NewQueue(size int) *Queue {
	if size < 1 {
		size = 1
	}
	return &Queue{
		frames: make(chan []float32, size),
		failed: make(chan struct{}),
	}
}

// Push enqueues f without blocking, evicting the oldest frame if full.
func (q *Queue) Push(f []float32) {
	for {
		select {
		case q.frames <- f:
			return
		default:
		}
		select {
		case <-q.frames:
			q.dropped.Add(1)
		default:
		}
	}
}

// Fail records the error that ends the stream. Only the first call counts.
func (q *Queue) Fail(err error) {
	q.errOnce.Do(func() {
		q.err = err
		close(q.failed)
	})
}

// Poll returns the next frame without blocking. It returns (nil, nil) when
// nothing is pending and the terminal error once the queue has drained.
func (q *Queue) Poll() ([]float32, error) {
	select {
	case f := <-q.frames:
		return f, nil
	default:
	}
	select {
	case <-q.failed:
		return nil, q.err
	default:
		return nil, nil
	}
}

// Next blocks until a frame, the terminal error, or ctx is done.
func (q *Queue) Next(ctx context.Context) ([]float32, error) {
	select {
	case f := <-q.frames:
		return f, nil
	default:
	}
	select {
	case f := <-q.frames:
		return f, nil
	case <-q.failed:
		// A frame may have been pushed just before Fail.
		if f, _ := q.Poll(); f != nil {
			return f, nil
		}
		return nil, q.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Dropped is the number of frames evicted because the consumer fell behind.
func (q *Queue) Dropped() uint64 { return q.dropped.Load() }

// Len is the number of frames waiting.
func (q *Queue) Len() int { return len(q.frames) }
