package game

import (
	"errors"
	"log/slog"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/iburimskiy/phasescope/internal/audio"
	"github.com/iburimskiy/phasescope/internal/config"
	"github.com/iburimskiy/phasescope/internal/phase"
	"github.com/iburimskiy/phasescope/internal/trail"
)

// Frames is the non-blocking end of the capture queue.
type Frames interface {
	Poll() ([]float32, error)
	Dropped() uint64
	Len() int
}

// Options wires a Game to its collaborators. Nil Input and Display fall back
// to the ebiten keyboard and window.
type Options struct {
	Frames  Frames
	Render  config.Render
	Lag     int
	Step    int
	Input   Input
	Display Display
	Logger  *slog.Logger
}

// Game is the frame loop. Each Update drains the capture queue, extends the
// trail, then applies user input; each Draw renders the trail.
type Game struct {
	frames  Frames
	tr      *phase.Transformer
	trail   *trail.Buffer
	cfg     config.Render
	input   Input
	display Display
	logger  *slog.Logger

	colors        paletteCache
	width, height int

	running       bool
	updateErr     error
	pendingTicks  int  // ticks since a fullscreen change was requested
	fullscreenWas bool // last mode the window confirmed; windowed until then
}

func New(opts Options) *Game {
	cfg := opts.Render
	cfg.Clamp()
	if opts.Input == nil {
		opts.Input = NewKeyboard()
	}
	if opts.Display == nil {
		opts.Display = ebitenDisplay{}
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Game{
		frames:  opts.Frames,
		tr:      phase.NewTransformer(opts.Lag, opts.Step),
		trail:   trail.New(cfg.Trail),
		cfg:     cfg,
		input:   opts.Input,
		display: opts.Display,
		logger:  opts.Logger,
		width:   config.WindowWidth,
		height:  config.WindowHeight,
		running: true,
	}
}

// Feed transforms one frame and appends its points to the trail.
func (g *Game) Feed(frame []float32) {
	g.trail.AppendAll(g.tr.Transform(frame))
}

// Render returns the current render configuration.
func (g *Game) Render() config.Render { return g.cfg }

// Trail returns a copy of the trail, oldest first.
func (g *Game) Trail() []phase.Point { return g.trail.Points() }

// Running reports whether the loop is still in the RUNNING state.
func (g *Game) Running() bool { return g.running }

func (g *Game) Update() error {
	if !g.running {
		return ebiten.Termination
	}

	if err := g.drain(); err != nil {
		g.running = false
		if errors.Is(err, audio.ErrEndOfStream) {
			g.logger.Info("game: audio stream finished")
			return ebiten.Termination
		}
		g.updateErr = err
		return err
	}

	for _, a := range g.input.Poll() {
		g.handle(a)
	}
	if !g.running {
		return ebiten.Termination
	}

	g.syncFullscreen()
	return nil
}

func (g *Game) drain() error {
	if g.frames == nil {
		return nil
	}
	for {
		frame, err := g.frames.Poll()
		if err != nil {
			return err
		}
		if frame == nil {
			return nil
		}
		g.Feed(frame)
	}
}

func (g *Game) handle(a Action) {
	prevTrail := g.cfg.Trail
	if apply(&g.cfg, a) {
		g.logger.Info("game: quit requested")
		g.running = false
		return
	}
	if g.cfg.Trail != prevTrail {
		evicted := g.trail.SetCapacity(g.cfg.Trail)
		g.logger.Debug("game: trail length changed", "trail", g.cfg.Trail, "evicted", evicted)
	}
	if a != ActionNone {
		g.logger.Debug("game: action", "action", a.String())
	}
}

// syncFullscreen pushes the fullscreen flag to the window. If the window
// has not followed within fullscreenGrace ticks, the previous mode is kept.
func (g *Game) syncFullscreen() {
	actual := g.display.IsFullscreen()
	if g.cfg.Fullscreen == actual {
		g.pendingTicks = 0
		g.fullscreenWas = actual
		return
	}

	if g.pendingTicks == 0 {
		g.display.SetFullscreen(g.cfg.Fullscreen)
		g.pendingTicks = 1
		return
	}

	g.pendingTicks++
	if g.pendingTicks > fullscreenGrace {
		err := &DisplayError{Op: "toggle fullscreen", Err: ErrFullscreenRejected}
		g.logger.Warn("game: keeping previous display mode", "error", err)
		g.cfg.Fullscreen = g.fullscreenWas
		g.display.SetFullscreen(g.fullscreenWas)
		g.pendingTicks = 0
	}
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth > 0 && outsideHeight > 0 {
		g.width, g.height = outsideWidth, outsideHeight
	}
	return g.width, g.height
}
