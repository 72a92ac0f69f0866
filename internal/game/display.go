package game

import (
	"errors"
	"fmt"

	"github.com/hajimehoshi/ebiten/v2"
)

// ErrFullscreenRejected means the platform ignored a fullscreen change.
var ErrFullscreenRejected = errors.New("fullscreen change not applied")

// DisplayError reports a failure to create or reconfigure the window.
type DisplayError struct {
	Op  string
	Err error
}

func (e *DisplayError) Error() string {
	return fmt.Sprintf("display: %s: %v", e.Op, e.Err)
}

func (e *DisplayError) Unwrap() error { return e.Err }

// Display is the part of the window the game reconfigures at runtime.
type Display interface {
	SetFullscreen(bool)
	IsFullscreen() bool
}

type ebitenDisplay struct{}

func (ebitenDisplay) SetFullscreen(on bool) { ebiten.SetFullscreen(on) }
func (ebitenDisplay) IsFullscreen() bool    { return ebiten.IsFullscreen() }

// fullscreenGrace is how many ticks a fullscreen request may take to show
// up before it is considered rejected.
const fullscreenGrace = 30
