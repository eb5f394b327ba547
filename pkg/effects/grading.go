package effects

import (
	"github.com/Blackmvmba88/VIdeoEditor-sub003/pkg/filtergraph"
)

// ColorGradeParams is a color-grading snapshot: per-tonal-range channel
// multipliers plus global saturation and contrast. 1.0 is identity
// everywhere.
type ColorGradeParams struct {
	Shadows    RGB
	Midtones   RGB
	Highlights RGB
	Saturation float64
	Contrast   float64
}

func (ColorGradeParams) family() Family { return FamilyColorGrade }

func defaultColorGrade() ColorGradeParams {
	return ColorGradeParams{
		Shadows:    RGB{R: 1, G: 1, B: 1},
		Midtones:   RGB{R: 1, G: 1, B: 1},
		Highlights: RGB{R: 1, G: 1, B: 1},
		Saturation: 1,
		Contrast:   1,
	}
}

// ColorGradeState holds the mutable grading parameters for one session.
// States are single-owner; they are not safe for concurrent mutation.
type ColorGradeState struct {
	lib *Library
	cur ColorGradeParams
}

// NewColorGradeState returns a state at neutral defaults.
func NewColorGradeState(lib *Library) *ColorGradeState {
	return &ColorGradeState{lib: lib, cur: defaultColorGrade()}
}

// Current returns a snapshot of the state. Mutating the snapshot never
// affects the live state.
func (s *ColorGradeState) Current() ColorGradeParams { return s.cur }

// SetShadows clamps each channel to [0, 2] and stores the result.
func (s *ColorGradeState) SetShadows(r, g, b float64) {
	s.cur.Shadows = clampRGB(RGB{R: r, G: g, B: b}, 0, 2)
}

// SetMidtones clamps each channel to [0, 2] and stores the result.
func (s *ColorGradeState) SetMidtones(r, g, b float64) {
	s.cur.Midtones = clampRGB(RGB{R: r, G: g, B: b}, 0, 2)
}

// SetHighlights clamps each channel to [0, 2] and stores the result.
func (s *ColorGradeState) SetHighlights(r, g, b float64) {
	s.cur.Highlights = clampRGB(RGB{R: r, G: g, B: b}, 0, 2)
}

// SetSaturation clamps to [0, 2]. 0 is grayscale, 2 doubles saturation.
func (s *ColorGradeState) SetSaturation(v float64) {
	s.cur.Saturation = Clamp(v, 0, 2)
}

// SetContrast clamps to [0, 2].
func (s *ColorGradeState) SetContrast(v float64) {
	s.cur.Contrast = Clamp(v, 0, 2)
}

// ApplyPreset replaces the whole state with neutral defaults merged with
// the preset's populated fields. An unknown id fails with ErrNotFound
// and leaves the state untouched.
func (s *ColorGradeState) ApplyPreset(id string) error {
	p, err := s.lib.GradingPreset(id)
	if err != nil {
		return err
	}
	next := defaultColorGrade()
	if p.Shadows != nil {
		next.Shadows = clampRGB(*p.Shadows, 0, 2)
	}
	if p.Midtones != nil {
		next.Midtones = clampRGB(*p.Midtones, 0, 2)
	}
	if p.Highlights != nil {
		next.Highlights = clampRGB(*p.Highlights, 0, 2)
	}
	if p.Saturation != nil {
		next.Saturation = Clamp(*p.Saturation, 0, 2)
	}
	if p.Contrast != nil {
		next.Contrast = Clamp(*p.Contrast, 0, 2)
	}
	s.cur = next
	return nil
}

// Reset restores neutral defaults.
func (s *ColorGradeState) Reset() { s.cur = defaultColorGrade() }

// compileColorGrade renders the grade as a colorbalance node carrying
// the channel multipliers as offsets, plus an eq node when saturation or
// contrast leave identity. A fully neutral grade compiles to a null
// passthrough.
func (c *Compiler) compileColorGrade(p ColorGradeParams) (*Program, error) {
	for _, rng := range []struct {
		name string
		v    RGB
	}{{"shadows", p.Shadows}, {"midtones", p.Midtones}, {"highlights", p.Highlights}} {
		if err := rgbInRange(rng.name, rng.v, 0, 2); err != nil {
			return nil, err
		}
	}
	if err := inRange("saturation", p.Saturation, 0, 2); err != nil {
		return nil, err
	}
	if err := inRange("contrast", p.Contrast, 0, 2); err != nil {
		return nil, err
	}

	var nodes []filtergraph.Node

	// colorbalance shifts are offsets from neutral, so a multiplier m
	// becomes m-1. All nine keys are written once any of them is live.
	offsets := []struct {
		key string
		v   float64
	}{
		{"rs", p.Shadows.R}, {"gs", p.Shadows.G}, {"bs", p.Shadows.B},
		{"rm", p.Midtones.R}, {"gm", p.Midtones.G}, {"bm", p.Midtones.B},
		{"rh", p.Highlights.R}, {"gh", p.Highlights.G}, {"bh", p.Highlights.B},
	}
	args := make([]filtergraph.Arg, 0, len(offsets))
	live := false
	for _, o := range offsets {
		rendered := fnum(o.v - 1)
		if rendered != "0" {
			live = true
		}
		args = append(args, filtergraph.KV(o.key, rendered))
	}
	if live {
		nodes = append(nodes, filtergraph.NewNode("colorbalance", args...))
	}

	var eqArgs []filtergraph.Arg
	if fnum(p.Saturation) != "1" {
		eqArgs = append(eqArgs, filtergraph.KV("saturation", fnum(p.Saturation)))
	}
	if fnum(p.Contrast) != "1" {
		eqArgs = append(eqArgs, filtergraph.KV("contrast", fnum(p.Contrast)))
	}
	if len(eqArgs) > 0 {
		nodes = append(nodes, filtergraph.NewNode("eq", eqArgs...))
	}

	if len(nodes) == 0 {
		nodes = append(nodes, filtergraph.NewNode("null"))
	}

	var g filtergraph.Graph
	g.AddNodes(nodes...)
	return finish(FamilyColorGrade, g, nil, 1, "")
}
