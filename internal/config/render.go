package config

// Schemes lists the colour schemes in cycling order.
var Schemes = []string{"Rainbow", "Monochrome", "Fire", "Ocean", "Green Gradient"}

// SchemeIndex returns the position of name in Schemes, or -1.
func SchemeIndex(name string) int {
	for i, s := range Schemes {
		if s == name {
			return i
		}
	}
	return -1
}

// Render is the runtime-adjustable configuration. The input handler mutates
// it; the trail buffer and renderer read it once per frame. Out-of-range
// values are clamped silently.
type Render struct {
	Trail      int
	DotSize    int
	Scheme     int
	Fullscreen bool
	HUD        bool
}

func DefaultRender() Render {
	return Render{
		Trail:   DefaultTrail,
		DotSize: DefaultDotSize,
	}
}

// SchemeName returns the name of the active colour scheme.
func (r *Render) SchemeName() string {
	r.Clamp()
	return Schemes[r.Scheme]
}

// CycleScheme advances to the next colour scheme, wrapping at the end.
func (r *Render) CycleScheme() {
	r.Scheme = (r.Scheme + 1) % len(Schemes)
	r.Clamp()
}

// AdjustTrail moves the trail length by delta, clamped to [1, MaxTrail].
func (r *Render) AdjustTrail(delta int) {
	r.Trail = clamp(r.Trail+delta, 1, MaxTrail)
}

// AdjustDotSize moves the dot size by delta, clamped to [MinDotSize, MaxDotSize].
func (r *Render) AdjustDotSize(delta int) {
	r.DotSize = clamp(r.DotSize+delta, MinDotSize, MaxDotSize)
}

func (r *Render) ToggleFullscreen() { r.Fullscreen = !r.Fullscreen }
func (r *Render) ToggleHUD()        { r.HUD = !r.HUD }

// Clamp brings every field back into its valid range.
func (r *Render) Clamp() {
	r.Trail = clamp(r.Trail, 1, MaxTrail)
	r.DotSize = clamp(r.DotSize, MinDotSize, MaxDotSize)
	if r.Scheme < 0 || r.Scheme >= len(Schemes) {
		r.Scheme = 0
	}
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
