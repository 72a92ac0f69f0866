package game

import (
	"fmt"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/iburimskiy/phasescope/internal/phase"
)

var background = color.RGBA{A: 255}

// toScreen maps a phase-space point onto a w×h surface: the delayed sample
// runs left to right, the current sample bottom to top. Results are clamped
// to the surface.
func toScreen(p phase.Point, w, h int) (float32, float32) {
	x := float64(w)/2 + p.X*float64(w)/2
	y := float64(h)/2 - p.Y*float64(h)/2
	return float32(clampf(x, 0, float64(w-1))), float32(clampf(y, 0, float64(h-1)))
}

func clampf(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Draw clears the surface and draws the trail oldest first, so the newest
// dots end up on top.
func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(background)

	w, h := screen.Bounds().Dx(), screen.Bounds().Dy()
	colors := g.colors.get(g.cfg)
	radius := float32(g.cfg.DotSize)

	g.trail.Each(func(i int, p phase.Point) {
		x, y := toScreen(p, w, h)
		vector.DrawFilledCircle(screen, x, y, radius, colors[i%len(colors)], true)
	})

	if g.cfg.HUD {
		g.drawHUD(screen)
	}
}

func (g *Game) drawHUD(screen *ebiten.Image) {
	var (
		queued  int
		dropped uint64
	)
	if g.frames != nil {
		queued, dropped = g.frames.Len(), g.frames.Dropped()
	}
	status := fmt.Sprintf(
		"%s | trail %d/%d | dot %d | lag %d step %d | queued %d dropped %d | %.0f fps\n"+
			"C: scheme  Up/Down: trail  +/-: dot  F: fullscreen  H: hud  Esc/Q: quit",
		g.cfg.SchemeName(), g.trail.Len(), g.trail.Cap(), g.cfg.DotSize,
		g.tr.Lag(), g.tr.Step(), queued, dropped, ebiten.ActualFPS(),
	)
	ebitenutil.DebugPrintAt(screen, status, 12, 12)
}
