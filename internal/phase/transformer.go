package phase

import "github.com/iburimskiy/phasescope/internal/config"

// Transformer pairs every sample with the sample lag positions earlier in the
// stream. The last lag samples are kept between frames, so only the first lag
// samples of the stream produce no point.
//
// Only every step-th sample of the stream becomes a point. Decimation runs on
// the absolute sample index, so it does not restart at each frame.
type Transformer struct {
	lag  int
	step int

	history []float32 // history[n%lag] holds sample n until it is consumed
	n       uint64    // absolute index of the next sample
}

// NewTransformer returns a transformer for the given lag and decimation step.
// The lag is clamped to [0, config.MaxLag] and a step below 1 is treated as 1.
func NewTransformer(lag, step int) *Transformer {
	switch {
	case lag < 0:
		lag = 0
	case lag > config.MaxLag:
		lag = config.MaxLag
	}
	if step < 1 {
		step = 1
	}
	return &Transformer{
		lag:     lag,
		step:    step,
		history: make([]float32, lag),
	}
}

func (t *Transformer) Lag() int  { return t.lag }
func (t *Transformer) Step() int { return t.step }

// Transform consumes one frame and returns its points in temporal order.
func (t *Transformer) Transform(frame []float32) []Point {
	out := make([]Point, 0, len(frame)/t.step+1)
	for _, s := range frame {
		cur := float64(s)
		delayed := cur
		if t.lag > 0 {
			slot := int(t.n % uint64(t.lag))
			delayed = float64(t.history[slot])
			t.history[slot] = s
		}

		if t.n >= uint64(t.lag) && t.n%uint64(t.step) == 0 {
			out = append(out, Point{X: Normalize(delayed), Y: Normalize(cur)})
		}
		t.n++
	}
	return out
}
