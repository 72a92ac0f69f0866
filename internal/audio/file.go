package audio

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/faiface/beep"
	"github.com/faiface/beep/flac"
	"github.com/faiface/beep/mp3"
	"github.com/faiface/beep/speaker"
	"github.com/faiface/beep/wav"
	"github.com/ncruces/zenity"
)

// FileInput plays an audio file through the speaker and feeds the played
// samples to a Queue.
type FileInput struct {
	q        *Queue
	file     *os.File
	streamer beep.StreamSeekCloser
	logger   *slog.Logger

	closeOnce sync.Once
}

// PickFile asks for an audio file in a native dialog. Cancelling returns
// zenity.ErrCanceled.
func PickFile() (string, error) {
	return zenity.SelectFile(
		zenity.Title("Open Audio File"),
		zenity.FileFilters{{
			Name:     "Audio",
			Patterns: []string{"*.wav", "*.mp3", "*.flac"},
		}},
	)
}

func decode(f *os.File) (beep.StreamSeekCloser, beep.Format, error) {
	switch ext := strings.ToLower(filepath.Ext(f.Name())); ext {
	case ".wav":
		return wav.Decode(f)
	case ".mp3":
		return mp3.Decode(f)
	case ".flac":
		return flac.Decode(f)
	default:
		return nil, beep.Format{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}

// OpenFile decodes path and starts playback. Frames of frameSize mono samples
// are pushed as they are played; once playback ends the queue reports
// ErrEndOfStream.
func OpenFile(path string, frameSize, queueSize int, logger *slog.Logger) (*FileInput, error) {
	if logger == nil {
		logger = slog.Default()
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, captureErr("open file", err)
	}
	streamer, format, err := decode(f)
	if err != nil {
		_ = f.Close()
		return nil, captureErr("decode", err)
	}

	bufferSize := format.SampleRate.N(time.Second / 20)
	if err := speaker.Init(format.SampleRate, bufferSize); err != nil {
		_ = streamer.Close()
		_ = f.Close()
		return nil, captureErr("speaker init", err)
	}

	in := &FileInput{
		q:        NewQueue(queueSize),
		file:     f,
		streamer: streamer,
		logger:   logger,
	}

	t := newTap(streamer, frameSize, in.q)
	speaker.Play(beep.Seq(t, beep.Callback(func() {
		t.flush()
		if err := streamer.Err(); err != nil {
			in.q.Fail(captureErr("decode", err))
			return
		}
		in.q.Fail(ErrEndOfStream)
	})))

	logger.Info("audio: playing file",
		"path", path,
		"sample_rate", int(format.SampleRate),
		"channels", format.NumChannels,
		"duration", format.SampleRate.D(streamer.Len()).Round(time.Second),
	)
	return in, nil
}

func (in *FileInput) Frames() *Queue { return in.q }

func (in *FileInput) Close() error {
	var err error
	in.closeOnce.Do(func() {
		speaker.Lock()
		speaker.Clear()
		speaker.Unlock()
		err = errors.Join(in.streamer.Close(), closeIgnoringClosed(in.file))
	})
	return err
}

// Decoders may already have closed the file.
func closeIgnoringClosed(c io.Closer) error {
	if err := c.Close(); err != nil && !errors.Is(err, os.ErrClosed) {
		return err
	}
	return nil
}
