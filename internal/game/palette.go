package game

import (
	"image/color"

	"github.com/iburimskiy/phasescope/internal/config"
)

// palette returns one colour per trail slot, index 0 being the oldest point.
// Every scheme except Monochrome brightens or shifts toward the newest end,
// which gives the trail its fade.
func palette(scheme string, length int) []color.RGBA {
	if length < 1 {
		length = 1
	}
	out := make([]color.RGBA, length)
	n := float64(length)
	for i := range out {
		f := float64(i) / n
		switch scheme {
		case "Monochrome":
			out[i] = rgb(255, 255, 255)
		case "Fire":
			out[i] = rgb(channel(f*2), channel(f), 0)
		case "Ocean":
			out[i] = rgb(0, channel(f), channel(1-f))
		case "Green Gradient":
			out[i] = rgb(0, channel(f), 0)
		default:
			r, g, b := hsvToRgb(f*360, 1, 1)
			out[i] = rgb(r, g, b)
		}
	}
	return out
}

// paletteCache regenerates colours only when the scheme or trail length
// changes.
type paletteCache struct {
	scheme int
	length int
	colors []color.RGBA
}

func (c *paletteCache) get(r config.Render) []color.RGBA {
	if c.colors == nil || c.scheme != r.Scheme || c.length != r.Trail {
		c.scheme = r.Scheme
		c.length = r.Trail
		c.colors = palette(r.SchemeName(), r.Trail)
	}
	return c.colors
}
