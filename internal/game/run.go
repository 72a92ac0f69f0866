package game

import (
	"errors"

	"github.com/hajimehoshi/ebiten/v2"

	"github.com/iburimskiy/phasescope/internal/config"
)

// Run opens the window and blocks until the loop terminates. A clean quit,
// window close or end of a file input returns nil. Errors returned by Update
// come back unchanged; anything else from ebiten is a DisplayError.
func Run(g *Game) error {
	ebiten.SetWindowSize(config.WindowWidth, config.WindowHeight)
	ebiten.SetWindowTitle(config.WindowTitle + " - H: help, Esc/Q: quit")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetTPS(config.TicksPerSec)
	ebiten.SetFullscreen(g.cfg.Fullscreen)

	err := ebiten.RunGame(g)
	g.running = false
	if err == nil || errors.Is(err, ebiten.Termination) {
		return nil
	}
	if g.updateErr != nil && errors.Is(err, g.updateErr) {
		return err
	}
	return &DisplayError{Op: "run", Err: err}
}
