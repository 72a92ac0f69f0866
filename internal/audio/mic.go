package audio

import (
	"errors"
	"fmt"

	"github.com/gordonklaus/portaudio"
)

// Initialize must be called once before any device is listed or opened, and
// paired with Terminate.
func Initialize() error {
	if err := portaudio.Initialize(); err != nil {
		return captureErr("initialize", err)
	}
	return nil
}

func Terminate() error { return portaudio.Terminate() }

// Mic reads mono float32 frames from a PortAudio input stream.
type Mic struct {
	stream *portaudio.Stream
	buf    []float32
	rate   int
}

// OpenMic opens and starts a capture stream on dev. A zero Device selects
// the system default input.
func OpenMic(dev Device, sampleRate, framesPerBuffer int) (*Mic, error) {
	info := dev.info
	if info == nil {
		def, err := portaudio.DefaultInputDevice()
		if err != nil {
			return nil, captureErr("open", fmt.Errorf("%w: %v", ErrNoInputDevice, err))
		}
		info = def
	}
	if info.MaxInputChannels < 1 {
		return nil, captureErr("open", fmt.Errorf("%w: %q has no input channels", ErrNoInputDevice, info.Name))
	}

	buf := make([]float32, framesPerBuffer)
	params := portaudio.HighLatencyParameters(info, nil)
	params.Input.Channels = 1
	params.SampleRate = float64(sampleRate)
	params.FramesPerBuffer = framesPerBuffer

	stream, err := portaudio.OpenStream(params, buf)
	if err != nil {
		return nil, captureErr("open", err)
	}
	if err := stream.Start(); err != nil {
		_ = stream.Close()
		return nil, captureErr("start", err)
	}
	return &Mic{stream: stream, buf: buf, rate: sampleRate}, nil
}

func (m *Mic) SampleRate() int { return m.rate }

// ReadFrame blocks until a full buffer is captured. An input overflow only
// means samples were lost while we were busy, so the frame is still returned.
func (m *Mic) ReadFrame() ([]float32, error) {
	if m.stream == nil {
		return nil, ErrClosed
	}
	if err := m.stream.Read(); err != nil && !errors.Is(err, portaudio.InputOverflowed) {
		return nil, err
	}
	frame := make([]float32, len(m.buf))
	copy(frame, m.buf)
	return frame, nil
}

func (m *Mic) Close() error {
	if m.stream == nil {
		return nil
	}
	var err error
	if stopErr := m.stream.Stop(); stopErr != nil {
		err = stopErr
	}
	if closeErr := m.stream.Close(); closeErr != nil && err == nil {
		err = closeErr
	}
	m.stream = nil
	return err
}
