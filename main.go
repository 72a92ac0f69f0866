package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/ncruces/zenity"

	"github.com/iburimskiy/phasescope/internal/audio"
	"github.com/iburimskiy/phasescope/internal/config"
	"github.com/iburimskiy/phasescope/internal/game"
)

const (
	exitOK      = 0
	exitCapture = 1
	exitUsage   = 2
	exitDisplay = 3

	firstFrameTimeout = 3 * time.Second
)

// errNothingToDo ends the program successfully before a window is opened.
var errNothingToDo = errors.New("nothing to do")

type openFunc func(config.Options, *slog.Logger) (audio.Input, func(), error)

type runFunc func(*game.Game) error

func main() {
	os.Exit(run(os.Args[1:], os.Stderr))
}

func run(args []string, stderr io.Writer) int {
	opts := config.Defaults()
	opts.ApplyEnv(os.Getenv)

	fs := flag.NewFlagSet("phasescope", flag.ContinueOnError)
	fs.SetOutput(stderr)
	opts.BindFlags(fs)
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		return exitUsage
	}
	opts.Normalize()

	level := slog.LevelInfo
	if opts.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	err := runWith(opts, logger, openInput, game.Run)
	code := exitCode(err)
	if code != exitOK {
		report(opts, stderr, err)
	}
	return code
}

// runWith opens the input, waits for the first frame and only then hands
// control to the window loop. The input is released on every path.
func runWith(opts config.Options, logger *slog.Logger, open openFunc, runGame runFunc) error {
	in, release, err := open(opts, logger)
	if err != nil {
		return err
	}
	defer release()

	ctx, cancel := context.WithTimeout(context.Background(), firstFrameTimeout)
	first, err := in.Frames().Next(ctx)
	cancel()
	if err != nil {
		return firstFrameErr(err)
	}

	g := game.New(game.Options{
		Frames: in.Frames(),
		Render: opts.Render,
		Lag:    opts.Lag,
		Step:   opts.Step,
		Logger: logger,
	})
	g.Feed(first)

	logger.Info("phasescope: running",
		"scheme", opts.Render.SchemeName(),
		"trail", opts.Render.Trail,
		"dot", opts.Render.DotSize,
		"lag", opts.Lag,
		"step", opts.Step,
	)
	return runGame(g)
}

func firstFrameErr(err error) error {
	var ce *audio.CaptureError
	if errors.As(err, &ce) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return &audio.CaptureError{Op: "first read", Err: fmt.Errorf("no audio within %s", firstFrameTimeout)}
	}
	return &audio.CaptureError{Op: "first read", Err: err}
}

func openInput(opts config.Options, logger *slog.Logger) (audio.Input, func(), error) {
	path := opts.File
	if opts.PickFile {
		p, err := audio.PickFile()
		if err != nil {
			if errors.Is(err, zenity.ErrCanceled) {
				return nil, nil, errNothingToDo
			}
			return nil, nil, fmt.Errorf("file dialog: %w", err)
		}
		path = p
	}
	if path != "" {
		in, err := audio.OpenFile(path, config.FramesPerBuffer, config.FrameQueueSize, logger)
		if err != nil {
			return nil, nil, err
		}
		return in, func() { closeLogged(logger, "file input", in) }, nil
	}
	return openMic(opts, logger)
}

func openMic(opts config.Options, logger *slog.Logger) (audio.Input, func(), error) {
	if err := audio.Initialize(); err != nil {
		return nil, nil, err
	}
	terminate := func() {
		if err := audio.Terminate(); err != nil {
			logger.Warn("phasescope: portaudio terminate", "error", err)
		}
	}

	devs, err := audio.InputDevices()
	if err != nil {
		terminate()
		return nil, nil, err
	}
	if opts.ListDevs {
		for _, d := range devs {
			fmt.Println(d)
		}
		terminate()
		return nil, nil, errNothingToDo
	}

	var dev audio.Device
	if opts.PickDevice {
		dev, err = audio.PickDevice(devs)
		if errors.Is(err, zenity.ErrCanceled) {
			terminate()
			return nil, nil, errNothingToDo
		}
	} else {
		dev, err = audio.FindDevice(devs, opts.Device)
	}
	if err != nil {
		terminate()
		return nil, nil, &audio.CaptureError{Op: "select device", Err: err}
	}

	mic, err := audio.OpenMic(dev, config.SampleRate, config.FramesPerBuffer)
	if err != nil {
		terminate()
		return nil, nil, err
	}
	logger.Info("phasescope: capturing", "device", dev.Name, "sample_rate", mic.SampleRate())

	capture := audio.StartCapture(mic, config.FrameQueueSize, audio.RetryConfig{
		MaxRetries: opts.ReadRetries,
		Backoff:    opts.RetryBackoff,
		MaxBackoff: time.Second,
	}, logger)

	return capture, func() {
		closeLogged(logger, "capture", capture)
		terminate()
	}, nil
}

func closeLogged(logger *slog.Logger, what string, c io.Closer) {
	if err := c.Close(); err != nil {
		logger.Warn("phasescope: close failed", "what", what, "error", err)
	}
}

func exitCode(err error) int {
	var (
		ce *audio.CaptureError
		de *game.DisplayError
	)
	switch {
	case err == nil, errors.Is(err, errNothingToDo):
		return exitOK
	case errors.As(err, &ce):
		return exitCapture
	case errors.As(err, &de):
		return exitDisplay
	default:
		return exitCapture
	}
}

func report(opts config.Options, stderr io.Writer, err error) {
	fmt.Fprintf(stderr, "phasescope: %v\n", err)
	if opts.Dialogs {
		_ = zenity.Error(err.Error(), zenity.Title(config.WindowTitle))
	}
}
