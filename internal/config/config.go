package config

import "time"

const (
	WindowWidth  = 800
	WindowHeight = 800
	WindowTitle  = "Audio Phase Space Visualizer"
	TicksPerSec  = 60

	// Capture
	SampleRate      = 44100
	FramesPerBuffer = 1024
	FrameQueueSize  = 8

	// Phase space
	DefaultLag  = FramesPerBuffer
	MaxLag      = SampleRate // one second of history
	DefaultStep = 10

	// Trail
	DefaultTrail = 100
	TrailStep    = 10
	MaxTrail     = 5000

	// Dots
	DefaultDotSize = 3
	MinDotSize     = 1
	MaxDotSize     = 20

	// Capture retry
	DefaultReadRetries  = 3
	DefaultRetryBackoff = 20 * time.Millisecond
)
