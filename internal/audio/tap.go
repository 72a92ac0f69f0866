package audio

import "github.com/faiface/beep"

// tap wraps a beep.Streamer and slices what passes through it into mono
// frames, so the visualiser sees exactly the audio being played.
type tap struct {
	Source beep.Streamer
	frame  []float32
	size   int
	out    *Queue
}

func newTap(src beep.Streamer, frameSize int, out *Queue) *tap {
	return &tap{
		Source: src,
		frame:  make([]float32, 0, frameSize),
		size:   frameSize,
		out:    out,
	}
}

func (t *tap) Stream(samples [][2]float64) (int, bool) {
	n, ok := t.Source.Stream(samples)
	for i := 0; i < n; i++ {
		mono := (samples[i][0] + samples[i][1]) * 0.5
		t.frame = append(t.frame, float32(mono))
		if len(t.frame) == t.size {
			t.out.Push(t.frame)
			t.frame = make([]float32, 0, t.size)
		}
	}
	return n, ok
}

func (t *tap) Err() error { return t.Source.Err() }

// flush emits a trailing partial frame.
func (t *tap) flush() {
	if len(t.frame) == 0 {
		return
	}
	t.out.Push(t.frame)
	t.frame = make([]float32, 0, t.size)
}
