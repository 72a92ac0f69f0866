package config

import (
	"flag"
	"io"
	"testing"
)

func TestRender_TrailDecreaseFromDefault(t *testing.T) {
	r := DefaultRender()
	for i := 0; i < 3; i++ {
		r.AdjustTrail(-TrailStep)
	}
	if r.Trail != 70 {
		t.Fatalf("expected trail 70, got %d", r.Trail)
	}
}

func TestRender_TrailClamps(t *testing.T) {
	r := Render{Trail: 5}
	r.AdjustTrail(-TrailStep)
	if r.Trail != 1 {
		t.Fatalf("expected trail clamped to 1, got %d", r.Trail)
	}
	r.Trail = MaxTrail - 3
	r.AdjustTrail(TrailStep)
	if r.Trail != MaxTrail {
		t.Fatalf("expected trail clamped to %d, got %d", MaxTrail, r.Trail)
	}
}

func TestRender_DotSizeClamps(t *testing.T) {
	r := Render{DotSize: MinDotSize}
	r.AdjustDotSize(-1)
	if r.DotSize != MinDotSize {
		t.Fatalf("expected dot size %d, got %d", MinDotSize, r.DotSize)
	}
	r.DotSize = MaxDotSize
	r.AdjustDotSize(1)
	if r.DotSize != MaxDotSize {
		t.Fatalf("expected dot size %d, got %d", MaxDotSize, r.DotSize)
	}
}

func TestRender_CycleSchemeWraps(t *testing.T) {
	r := DefaultRender()
	seen := make([]string, 0, len(Schemes)+1)
	for i := 0; i <= len(Schemes); i++ {
		seen = append(seen, r.SchemeName())
		r.CycleScheme()
	}
	if seen[0] != "Rainbow" || seen[len(Schemes)] != "Rainbow" {
		t.Fatalf("expected to wrap back to Rainbow, got %v", seen)
	}
	if seen[4] != "Green Gradient" {
		t.Fatalf("expected Green Gradient as last scheme, got %q", seen[4])
	}
}

func TestRender_Toggles(t *testing.T) {
	r := DefaultRender()
	r.ToggleFullscreen()
	r.ToggleHUD()
	if !r.Fullscreen || !r.HUD {
		t.Fatalf("expected both toggled on, got %+v", r)
	}
	r.ToggleFullscreen()
	if r.Fullscreen {
		t.Fatal("expected fullscreen off after second toggle")
	}
}

func TestOptions_ApplyEnv(t *testing.T) {
	env := map[string]string{
		EnvPrefix + "TRAIL":      "250",
		EnvPrefix + "DOT_SIZE":   "7",
		EnvPrefix + "SCHEME":     "Ocean",
		EnvPrefix + "FULLSCREEN": "true",
		EnvPrefix + "LAG":        "32",
		EnvPrefix + "STEP":       "not-a-number",
		EnvPrefix + "DEVICE":     "USB Mic",
	}
	o := Defaults()
	o.ApplyEnv(func(k string) string { return env[k] })

	if o.Render.Trail != 250 || o.Render.DotSize != 7 {
		t.Errorf("unexpected render sizes: %+v", o.Render)
	}
	if o.Render.SchemeName() != "Ocean" {
		t.Errorf("expected Ocean, got %q", o.Render.SchemeName())
	}
	if !o.Render.Fullscreen {
		t.Error("expected fullscreen from env")
	}
	if o.Lag != 32 {
		t.Errorf("expected lag 32, got %d", o.Lag)
	}
	if o.Step != DefaultStep {
		t.Errorf("expected invalid step to be ignored, got %d", o.Step)
	}
	if o.Device != "USB Mic" {
		t.Errorf("expected device from env, got %q", o.Device)
	}
}

func TestOptions_FlagsOverrideAndNormalize(t *testing.T) {
	o := Defaults()
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	o.BindFlags(fs)

	err := fs.Parse([]string{"-trail", "0", "-dot", "99", "-scheme", "Fire", "-step", "-2", "-lag", "-1"})
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	o.Normalize()

	if o.Render.Trail != 1 {
		t.Errorf("expected trail clamped to 1, got %d", o.Render.Trail)
	}
	if o.Render.DotSize != MaxDotSize {
		t.Errorf("expected dot size clamped to %d, got %d", MaxDotSize, o.Render.DotSize)
	}
	if o.Render.SchemeName() != "Fire" {
		t.Errorf("expected Fire, got %q", o.Render.SchemeName())
	}
	if o.Step != 1 || o.Lag != 0 {
		t.Errorf("expected step 1 lag 0, got step %d lag %d", o.Step, o.Lag)
	}

	o = Defaults()
	fs = flag.NewFlagSet("test", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	o.BindFlags(fs)
	if err := fs.Parse([]string{"-lag", "1099511627776"}); err != nil {
		t.Fatalf("parse: %v", err)
	}
	o.Normalize()
	if o.Lag != MaxLag {
		t.Errorf("expected lag clamped to %d, got %d", MaxLag, o.Lag)
	}
}

func TestOptions_UnknownSchemeFlag(t *testing.T) {
	o := Defaults()
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	o.BindFlags(fs)

	if err := fs.Parse([]string{"-scheme", "Plaid"}); err == nil {
		t.Fatal("expected error for unknown scheme")
	}
}
