package config

import (
	"flag"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// EnvPrefix is the namespace prefix for all phasescope environment variables.
const EnvPrefix = "PHASESCOPE_"

// Options holds everything decided at launch.
type Options struct {
	Render Render

	Lag  int
	Step int

	// Device selects a capture device by name; empty means the default input.
	Device     string
	PickDevice bool
	ListDevs   bool

	// File visualises an audio file instead of live input.
	File     string
	PickFile bool

	ReadRetries  int
	RetryBackoff time.Duration

	Dialogs bool
	Verbose bool
}

func Defaults() Options {
	return Options{
		Render:       DefaultRender(),
		Lag:          DefaultLag,
		Step:         DefaultStep,
		ReadRetries:  DefaultReadRetries,
		RetryBackoff: DefaultRetryBackoff,
	}
}

// ApplyEnv overrides fields from PHASESCOPE_* variables. Unparseable values
// are ignored.
func (o *Options) ApplyEnv(getenv func(string) string) {
	if v, ok := envInt(getenv, "TRAIL"); ok {
		o.Render.Trail = v
	}
	if v, ok := envInt(getenv, "DOT_SIZE"); ok {
		o.Render.DotSize = v
	}
	if v := getenv(EnvPrefix + "SCHEME"); v != "" {
		if i := SchemeIndex(v); i >= 0 {
			o.Render.Scheme = i
		}
	}
	if v, ok := envBool(getenv, "FULLSCREEN"); ok {
		o.Render.Fullscreen = v
	}
	if v, ok := envInt(getenv, "LAG"); ok {
		o.Lag = v
	}
	if v, ok := envInt(getenv, "STEP"); ok {
		o.Step = v
	}
	if v := getenv(EnvPrefix + "DEVICE"); v != "" {
		o.Device = v
	}
	if v, ok := envInt(getenv, "READ_RETRIES"); ok {
		o.ReadRetries = v
	}
}

func envInt(getenv func(string) string, key string) (int, bool) {
	v := getenv(EnvPrefix + key)
	if v == "" {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 0, false
	}
	return n, true
}

func envBool(getenv func(string) string, key string) (bool, bool) {
	v := getenv(EnvPrefix + key)
	if v == "" {
		return false, false
	}
	b, err := strconv.ParseBool(strings.TrimSpace(v))
	if err != nil {
		return false, false
	}
	return b, true
}

// schemeFlag lets -scheme take a scheme name.
type schemeFlag struct{ idx *int }

func (s schemeFlag) String() string {
	if s.idx == nil || *s.idx < 0 || *s.idx >= len(Schemes) {
		return Schemes[0]
	}
	return Schemes[*s.idx]
}

func (s schemeFlag) Set(v string) error {
	i := SchemeIndex(v)
	if i < 0 {
		return fmt.Errorf("unknown colour scheme %q (want one of %s)", v, strings.Join(Schemes, ", "))
	}
	*s.idx = i
	return nil
}

// BindFlags registers command-line flags on fs, using the current values as
// defaults.
func (o *Options) BindFlags(fs *flag.FlagSet) {
	fs.IntVar(&o.Render.Trail, "trail", o.Render.Trail, "initial trail length")
	fs.IntVar(&o.Render.DotSize, "dot", o.Render.DotSize, "initial dot size in pixels")
	fs.Var(schemeFlag{&o.Render.Scheme}, "scheme", "colour scheme: "+strings.Join(Schemes, ", "))
	fs.BoolVar(&o.Render.Fullscreen, "fullscreen", o.Render.Fullscreen, "start in fullscreen")
	fs.IntVar(&o.Lag, "lag", o.Lag, "delay in samples between the two coordinates")
	fs.IntVar(&o.Step, "step", o.Step, "plot every n-th sample")
	fs.StringVar(&o.Device, "device", o.Device, "input device name (default: system default input)")
	fs.BoolVar(&o.PickDevice, "pick-device", o.PickDevice, "choose the input device in a dialog")
	fs.BoolVar(&o.ListDevs, "list-devices", o.ListDevs, "print input devices and exit")
	fs.StringVar(&o.File, "file", o.File, "visualise a wav/mp3/flac file instead of live input")
	fs.BoolVar(&o.PickFile, "pick-file", o.PickFile, "choose the audio file in a dialog")
	fs.IntVar(&o.ReadRetries, "retries", o.ReadRetries, "capture read retries before giving up")
	fs.DurationVar(&o.RetryBackoff, "retry-backoff", o.RetryBackoff, "initial backoff between capture retries")
	fs.BoolVar(&o.Dialogs, "dialogs", o.Dialogs, "also report fatal errors in a dialog")
	fs.BoolVar(&o.Verbose, "v", o.Verbose, "debug logging")
}

// Normalize clamps every field into range.
func (o *Options) Normalize() {
	o.Render.Clamp()
	o.Lag = clamp(o.Lag, 0, MaxLag)
	if o.Step < 1 {
		o.Step = 1
	}
	if o.ReadRetries < 0 {
		o.ReadRetries = 0
	}
	if o.RetryBackoff <= 0 {
		o.RetryBackoff = DefaultRetryBackoff
	}
}
