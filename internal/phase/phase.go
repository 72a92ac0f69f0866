// Package phase maps audio samples into a two-dimensional phase space by
// pairing each sample with a delayed copy of the signal.
package phase

import "math"

// Point is a sample mapped into phase space. Both coordinates are in [-1, 1]:
// X is the delayed sample, Y the current one.
type Point struct {
	X, Y float64
}

// Origin is where silence maps to.
var Origin = Point{}

// Normalize maps a raw amplitude into [-1, 1]. NaN maps to 0 and anything
// outside the nominal range, infinities included, saturates.
func Normalize(v float64) float64 {
	switch {
	case math.IsNaN(v):
		return 0
	case v > 1:
		return 1
	case v < -1:
		return -1
	}
	return v
}
