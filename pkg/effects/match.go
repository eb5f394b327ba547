package effects

import (
	"fmt"
	"math"

	"github.com/Blackmvmba88/VIdeoEditor-sub003/pkg/filtergraph"
)

// ColorMatchParams is a shot-matching snapshot. Reference and Source are
// per-channel frame means captured by analysis; both must be present
// before the state can compile.
type ColorMatchParams struct {
	Method    string
	Strength  float64
	Reference *FrameStats
	Source    *FrameStats
}

func (ColorMatchParams) family() Family { return FamilyColorMatch }

func defaultColorMatch() ColorMatchParams {
	return ColorMatchParams{Method: "gain", Strength: 1}
}

// ColorMatchState holds the mutable matching parameters for one session.
type ColorMatchState struct {
	lib *Library
	cur ColorMatchParams
}

// NewColorMatchState returns a state with no frames analyzed.
func NewColorMatchState(lib *Library) *ColorMatchState {
	return &ColorMatchState{lib: lib, cur: defaultColorMatch()}
}

// Current returns a snapshot. Captured stats are copied so the snapshot
// stays stable under later mutation.
func (s *ColorMatchState) Current() ColorMatchParams {
	out := s.cur
	if s.cur.Reference != nil {
		r := *s.cur.Reference
		out.Reference = &r
	}
	if s.cur.Source != nil {
		src := *s.cur.Source
		out.Source = &src
	}
	return out
}

// SetMethod selects a registered match method by id.
func (s *ColorMatchState) SetMethod(id string) error {
	if _, err := s.lib.MatchMethod(id); err != nil {
		return err
	}
	s.cur.Method = id
	return nil
}

// SetStrength clamps to [0, 1]. 0 leaves the source untouched.
func (s *ColorMatchState) SetStrength(v float64) {
	s.cur.Strength = Clamp(v, 0, 1)
}

// SetReferenceStats records the reference frame's channel means,
// clamped to the 8-bit range.
func (s *ColorMatchState) SetReferenceStats(st FrameStats) {
	c := clampStats(st)
	s.cur.Reference = &c
}

// SetSourceStats records the source frame's channel means, clamped to
// the 8-bit range.
func (s *ColorMatchState) SetSourceStats(st FrameStats) {
	c := clampStats(st)
	s.cur.Source = &c
}

// ClearAnalysis drops both captured frames.
func (s *ColorMatchState) ClearAnalysis() {
	s.cur.Reference = nil
	s.cur.Source = nil
}

// Reset restores defaults and drops captured frames.
func (s *ColorMatchState) Reset() { s.cur = defaultColorMatch() }

func clampStats(st FrameStats) FrameStats {
	return FrameStats{
		MeanR: Clamp(st.MeanR, 0, 255),
		MeanG: Clamp(st.MeanG, 0, 255),
		MeanB: Clamp(st.MeanB, 0, 255),
	}
}

// matchGain is the per-channel multiplier moving the source mean toward
// the reference mean, clamped to a sane range and scaled by strength.
func matchGain(ref, src, strength float64) float64 {
	if src <= 0 {
		return 1
	}
	g := Clamp(ref/src, 0.25, 4)
	return 1 + (g-1)*strength
}

// matchOffset is the per-channel midtone shift in colorbalance units.
func matchOffset(ref, src, strength float64) float64 {
	return Clamp((ref-src)/255*strength, -1, 1)
}

// matchGamma solves src^(1/gamma) = ref in normalized space, clamped to
// the range eq accepts and scaled by strength.
func matchGamma(ref, src, strength float64) float64 {
	rn := Clamp(ref/255, 0.01, 0.99)
	sn := Clamp(src/255, 0.01, 0.99)
	g := Clamp(math.Log(sn)/math.Log(rn), 0.1, 10)
	return 1 + (g-1)*strength
}

// compileColorMatch renders the correction derived from the two captured
// frames. Each method maps to a single node: gain to colorchannelmixer,
// balance to colorbalance midtones, gamma to per-channel eq gamma.
func (c *Compiler) compileColorMatch(p ColorMatchParams) (*Program, error) {
	mm, err := c.lib.MatchMethod(p.Method)
	if err != nil {
		return nil, err
	}
	if p.Reference == nil {
		return nil, fmt.Errorf("%w: reference frame not analyzed", ErrInvalidState)
	}
	if p.Source == nil {
		return nil, fmt.Errorf("%w: source frame not analyzed", ErrInvalidState)
	}
	if err := inRange("strength", p.Strength, 0, 1); err != nil {
		return nil, err
	}
	for _, st := range []struct {
		name string
		v    *FrameStats
	}{{"reference", p.Reference}, {"source", p.Source}} {
		if err := inRange(st.name+".mean_r", st.v.MeanR, 0, 255); err != nil {
			return nil, err
		}
		if err := inRange(st.name+".mean_g", st.v.MeanG, 0, 255); err != nil {
			return nil, err
		}
		if err := inRange(st.name+".mean_b", st.v.MeanB, 0, 255); err != nil {
			return nil, err
		}
	}

	ref, src := *p.Reference, *p.Source
	var node filtergraph.Node
	switch mm.ID {
	case "gain":
		node = filtergraph.NewNode("colorchannelmixer",
			filtergraph.KV("rr", fnum(matchGain(ref.MeanR, src.MeanR, p.Strength))),
			filtergraph.KV("gg", fnum(matchGain(ref.MeanG, src.MeanG, p.Strength))),
			filtergraph.KV("bb", fnum(matchGain(ref.MeanB, src.MeanB, p.Strength))),
		)
	case "balance":
		node = filtergraph.NewNode("colorbalance",
			filtergraph.KV("rm", fnum(matchOffset(ref.MeanR, src.MeanR, p.Strength))),
			filtergraph.KV("gm", fnum(matchOffset(ref.MeanG, src.MeanG, p.Strength))),
			filtergraph.KV("bm", fnum(matchOffset(ref.MeanB, src.MeanB, p.Strength))),
		)
	case "gamma":
		node = filtergraph.NewNode("eq",
			filtergraph.KV("gamma_r", fnum(matchGamma(ref.MeanR, src.MeanR, p.Strength))),
			filtergraph.KV("gamma_g", fnum(matchGamma(ref.MeanG, src.MeanG, p.Strength))),
			filtergraph.KV("gamma_b", fnum(matchGamma(ref.MeanB, src.MeanB, p.Strength))),
		)
	default:
		return nil, fmt.Errorf("%w: unhandled match method %q", ErrInvariant, mm.ID)
	}

	var g filtergraph.Graph
	g.AddNodes(node)
	return finish(FamilyColorMatch, g, nil, 1, "")
}
