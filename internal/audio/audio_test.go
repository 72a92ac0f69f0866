package audio

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/faiface/beep"
)

func discardLogger() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func frameOf(v float32, n int) []float32 {
	f := make([]float32, n)
	for i := range f {
		f[i] = v
	}
	return f
}

func TestQueue_DropsOldestWhenFull(t *testing.T) {
	q := NewQueue(2)
	q.Push(frameOf(1, 1))
	q.Push(frameOf(2, 1))
	q.Push(frameOf(3, 1))

	if q.Dropped() != 1 {
		t.Fatalf("expected 1 dropped frame, got %d", q.Dropped())
	}
	if q.Len() != 2 {
		t.Fatalf("expected 2 queued frames, got %d", q.Len())
	}
	for _, want := range []float32{2, 3} {
		f, err := q.Poll()
		if err != nil || f == nil || f[0] != want {
			t.Fatalf("expected frame %v, got %v (err %v)", want, f, err)
		}
	}
	if f, err := q.Poll(); f != nil || err != nil {
		t.Fatalf("expected empty poll, got %v %v", f, err)
	}
}

func TestQueue_ErrorAfterDrain(t *testing.T) {
	q := NewQueue(4)
	q.Push(frameOf(1, 1))
	q.Fail(ErrEndOfStream)
	q.Fail(errors.New("ignored"))

	if f, err := q.Poll(); f == nil || err != nil {
		t.Fatalf("expected pending frame before error, got %v %v", f, err)
	}
	if _, err := q.Poll(); !errors.Is(err, ErrEndOfStream) {
		t.Fatalf("expected ErrEndOfStream, got %v", err)
	}
}

func TestQueue_NextHonoursContext(t *testing.T) {
	q := NewQueue(1)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	if _, err := q.Next(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}

// scriptedReader replays a fixed list of results, then reports end of stream.
type scriptedReader struct {
	mu      sync.Mutex
	results []readResult
	reads   int
	closed  bool
}

type readResult struct {
	frame []float32
	err   error
}

func (r *scriptedReader) ReadFrame() ([]float32, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.reads >= len(r.results) {
		return nil, ErrEndOfStream
	}
	res := r.results[r.reads]
	r.reads++
	return res.frame, res.err
}

func (r *scriptedReader) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	return nil
}

func drain(t *testing.T, q *Queue) ([][]float32, error) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	var frames [][]float32
	for {
		f, err := q.Next(ctx)
		if err != nil {
			return frames, err
		}
		frames = append(frames, f)
	}
}

func TestCapture_RetriesTransientFailures(t *testing.T) {
	r := &scriptedReader{results: []readResult{
		{frame: frameOf(1, 4)},
		{err: errors.New("glitch")},
		{err: errors.New("glitch")},
		{frame: frameOf(2, 4)},
	}}
	c := StartCapture(r, 8, RetryConfig{MaxRetries: 2, Backoff: time.Millisecond}, discardLogger())
	defer c.Close()

	frames, err := drain(t, c.Frames())
	if !errors.Is(err, ErrEndOfStream) {
		t.Fatalf("expected end of stream, got %v", err)
	}
	if len(frames) != 2 {
		t.Fatalf("expected 2 frames, got %d", len(frames))
	}
}

func TestCapture_FailsAfterRetriesExhausted(t *testing.T) {
	cause := errors.New("device unplugged")
	r := &scriptedReader{results: []readResult{
		{err: cause}, {err: cause}, {err: cause},
	}}
	c := StartCapture(r, 8, RetryConfig{MaxRetries: 1, Backoff: time.Millisecond}, discardLogger())

	_, err := drain(t, c.Frames())
	var ce *CaptureError
	if !errors.As(err, &ce) {
		t.Fatalf("expected CaptureError, got %v", err)
	}
	if !errors.Is(err, cause) {
		t.Fatalf("expected wrapped cause, got %v", err)
	}

	if err := c.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if !r.closed {
		t.Fatal("expected reader to be closed")
	}
}

// failingReader always fails and signals every read on reads.
type failingReader struct {
	reads  chan struct{}
	closed atomic.Bool
}

func (r *failingReader) ReadFrame() ([]float32, error) {
	select {
	case r.reads <- struct{}{}:
	default:
	}
	return nil, errors.New("glitch")
}

func (r *failingReader) Close() error {
	r.closed.Store(true)
	return nil
}

func TestCapture_CloseDuringBackoff(t *testing.T) {
	r := &failingReader{reads: make(chan struct{}, 1)}
	c := StartCapture(r, 1, RetryConfig{MaxRetries: 5, Backoff: time.Hour}, discardLogger())
	<-r.reads

	start := time.Now()
	if err := c.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Fatalf("close waited out the backoff: %v", elapsed)
	}
	if !r.closed.Load() {
		t.Fatal("expected reader to be closed")
	}
	if _, err := c.Frames().Poll(); !errors.Is(err, ErrClosed) {
		t.Fatalf("expected ErrClosed, got %v", err)
	}
}

// stuckReader blocks in ReadFrame until it is closed.
type stuckReader struct {
	started chan struct{}
	release chan struct{}
	once    sync.Once
}

func (r *stuckReader) ReadFrame() ([]float32, error) {
	select {
	case r.started <- struct{}{}:
	default:
	}
	<-r.release
	return nil, ErrClosed
}

func (r *stuckReader) Close() error {
	r.once.Do(func() { close(r.release) })
	return nil
}

func TestCapture_CloseDoesNotHangOnStuckRead(t *testing.T) {
	r := &stuckReader{started: make(chan struct{}, 1), release: make(chan struct{})}
	c := StartCapture(r, 1, RetryConfig{}, discardLogger())
	c.stopTimeout = 20 * time.Millisecond
	<-r.started

	closed := make(chan error, 1)
	go func() { closed <- c.Close() }()
	select {
	case err := <-closed:
		if err != nil {
			t.Fatalf("close: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("close hung on a blocked read")
	}

	select {
	case <-c.done:
	case <-time.After(2 * time.Second):
		t.Fatal("capture goroutine did not exit after the reader was closed")
	}
}

func TestCaptureError_DoesNotDoubleWrap(t *testing.T) {
	inner := &CaptureError{Op: "open", Err: ErrNoInputDevice}
	err := captureErr("read", inner)
	if err != inner {
		t.Fatalf("expected the same CaptureError, got %v", err)
	}
	if captureErr("read", nil) != nil {
		t.Fatal("expected nil for nil error")
	}
}

func TestFindDevice(t *testing.T) {
	devs := []Device{
		{Name: "Built-in Microphone", Channels: 1},
		{Name: "USB Audio CODEC", Channels: 2, Default: true},
		{Name: "USB Audio Interface", Channels: 2},
	}

	tests := []struct {
		name    string
		query   string
		want    string
		wantErr error
	}{
		{"default", "", "USB Audio CODEC", nil},
		{"exact", "Built-in Microphone", "Built-in Microphone", nil},
		{"substring", "codec", "USB Audio CODEC", nil},
		{"ambiguous", "usb audio", "", ErrDeviceNotFound},
		{"missing", "Bluetooth", "", ErrDeviceNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := FindDevice(devs, tt.query)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if d.Name != tt.want {
				t.Fatalf("expected %q, got %q", tt.want, d.Name)
			}
		})
	}

	if _, err := FindDevice(nil, ""); !errors.Is(err, ErrNoInputDevice) {
		t.Fatalf("expected ErrNoInputDevice, got %v", err)
	}
}

func TestTap_SlicesIntoMonoFrames(t *testing.T) {
	q := NewQueue(8)
	src := beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		for i := range samples {
			samples[i] = [2]float64{0.5, -0.25}
		}
		return len(samples), true
	})
	tp := newTap(beep.Take(2500, src), 1024, q)

	buf := make([][2]float64, 512)
	for {
		if _, ok := tp.Stream(buf); !ok {
			break
		}
	}
	tp.flush()

	var sizes []int
	for {
		f, _ := q.Poll()
		if f == nil {
			break
		}
		if f[0] != 0.125 {
			t.Fatalf("expected mono mix 0.125, got %v", f[0])
		}
		sizes = append(sizes, len(f))
	}
	if len(sizes) != 3 || sizes[0] != 1024 || sizes[1] != 1024 || sizes[2] != 452 {
		t.Fatalf("unexpected frame sizes %v", sizes)
	}
}
