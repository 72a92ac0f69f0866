package game

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/iburimskiy/phasescope/internal/config"
)

// Action is a user request recognised by the input handler.
type Action int

const (
	ActionNone Action = iota
	ActionCycleScheme
	ActionTrailUp
	ActionTrailDown
	ActionDotUp
	ActionDotDown
	ActionFullscreen
	ActionHUD
	ActionQuit
)

func (a Action) String() string {
	switch a {
	case ActionCycleScheme:
		return "cycle-scheme"
	case ActionTrailUp:
		return "trail-up"
	case ActionTrailDown:
		return "trail-down"
	case ActionDotUp:
		return "dot-up"
	case ActionDotDown:
		return "dot-down"
	case ActionFullscreen:
		return "fullscreen"
	case ActionHUD:
		return "hud"
	case ActionQuit:
		return "quit"
	default:
		return "none"
	}
}

// Keymap binds keys to actions.
var Keymap = map[ebiten.Key]Action{
	ebiten.KeyC:              ActionCycleScheme,
	ebiten.KeyTab:            ActionCycleScheme,
	ebiten.KeyArrowUp:        ActionTrailUp,
	ebiten.KeyArrowDown:      ActionTrailDown,
	ebiten.KeyEqual:          ActionDotUp,
	ebiten.KeyNumpadAdd:      ActionDotUp,
	ebiten.KeyMinus:          ActionDotDown,
	ebiten.KeyNumpadSubtract: ActionDotDown,
	ebiten.KeyF:              ActionFullscreen,
	ebiten.KeyF11:            ActionFullscreen,
	ebiten.KeyH:              ActionHUD,
	ebiten.KeyEscape:         ActionQuit,
	ebiten.KeyQ:              ActionQuit,
}

// Input reports the actions requested since the previous tick. It must not
// block.
type Input interface {
	Poll() []Action
}

type keyboard struct {
	keys []ebiten.Key
}

// NewKeyboard returns an Input reading ebiten key edges through Keymap.
func NewKeyboard() Input {
	return &keyboard{}
}

func (k *keyboard) Poll() []Action {
	k.keys = inpututil.AppendJustPressedKeys(k.keys[:0])
	var actions []Action
	for _, key := range k.keys {
		if a, ok := Keymap[key]; ok {
			actions = append(actions, a)
		}
	}
	return actions
}

// apply mutates r for a and reports whether the loop should stop.
func apply(r *config.Render, a Action) (quit bool) {
	switch a {
	case ActionCycleScheme:
		r.CycleScheme()
	case ActionTrailUp:
		r.AdjustTrail(config.TrailStep)
	case ActionTrailDown:
		r.AdjustTrail(-config.TrailStep)
	case ActionDotUp:
		r.AdjustDotSize(1)
	case ActionDotDown:
		r.AdjustDotSize(-1)
	case ActionFullscreen:
		r.ToggleFullscreen()
	case ActionHUD:
		r.ToggleHUD()
	case ActionQuit:
		return true
	}
	return false
}
