package effects

import (
	"fmt"
	"math"
	"strconv"

	"github.com/Blackmvmba88/VIdeoEditor-sub003/pkg/filtergraph"
)

// Blur modes. Glow reinterprets the blurred stream as a screen-blended
// halo instead of replacing the frame.
var blurModes = []string{"blur", "glow"}

// BlurGlowParams is a blur/glow snapshot. A nil Region means the whole
// frame; a non-nil Region limits the effect to a normalized rectangle.
type BlurGlowParams struct {
	Mode      string
	BlurType  string
	Radius    float64
	Intensity float64
	Region    *Rect
}

func (BlurGlowParams) family() Family { return FamilyBlurGlow }

func defaultBlurGlow() BlurGlowParams {
	return BlurGlowParams{
		Mode:      "blur",
		BlurType:  "gaussian",
		Radius:    5,
		Intensity: 1,
	}
}

// BlurGlowState holds the mutable blur parameters for one session.
type BlurGlowState struct {
	lib *Library
	cur BlurGlowParams
}

// NewBlurGlowState returns a state at a gentle full-frame gaussian.
func NewBlurGlowState(lib *Library) *BlurGlowState {
	return &BlurGlowState{lib: lib, cur: defaultBlurGlow()}
}

// Current returns a snapshot. The region, when set, is copied so the
// snapshot stays stable under later mutation.
func (s *BlurGlowState) Current() BlurGlowParams {
	out := s.cur
	if s.cur.Region != nil {
		r := *s.cur.Region
		out.Region = &r
	}
	return out
}

// SetMode selects "blur" or "glow".
func (s *BlurGlowState) SetMode(m string) error {
	if err := ValidateEnum(m, blurModes); err != nil {
		return err
	}
	s.cur.Mode = m
	return nil
}

// SetBlurType selects a registered blur kernel by id.
func (s *BlurGlowState) SetBlurType(id string) error {
	if _, err := s.lib.BlurType(id); err != nil {
		return err
	}
	s.cur.BlurType = id
	return nil
}

// SetRadius clamps to [0, 50]. 0 renders as a passthrough kernel.
func (s *BlurGlowState) SetRadius(v float64) {
	s.cur.Radius = Clamp(v, 0, 50)
}

// SetIntensity clamps to [0, 1]. Below 1 the blurred stream is mixed
// with the original; for glow it sets the halo opacity.
func (s *BlurGlowState) SetIntensity(v float64) {
	s.cur.Intensity = Clamp(v, 0, 1)
}

// SetIntensityPreset sets intensity from a named preset.
func (s *BlurGlowState) SetIntensityPreset(id string) error {
	p, err := s.lib.IntensityPreset(id)
	if err != nil {
		return err
	}
	s.cur.Intensity = Clamp(p.Value, 0, 1)
	return nil
}

// SetRegion limits the effect to a normalized frame rectangle. Each
// coordinate is clamped to [0, 1].
func (s *BlurGlowState) SetRegion(r Rect) {
	rr := clampRect(r)
	s.cur.Region = &rr
}

// ClearRegion restores full-frame operation.
func (s *BlurGlowState) ClearRegion() { s.cur.Region = nil }

// Reset restores the defaults.
func (s *BlurGlowState) Reset() { s.cur = defaultBlurGlow() }

// blurNode maps the user radius through the kernel's declared scale and
// argument shape.
func blurNode(bt BlurType, radius float64) filtergraph.Node {
	v := radius * bt.Scale
	if bt.Integer {
		return filtergraph.NewNode(bt.Op, filtergraph.KV(bt.ArgKey, strconv.Itoa(int(math.Round(v)))))
	}
	return filtergraph.NewNode(bt.Op, filtergraph.KV(bt.ArgKey, fnum(v)))
}

// compileBlurGlow renders one of three shapes: a plain kernel chain, a
// split/blend mix for partial intensity, or a crop/overlay composite for
// a region. Glow always splits so the halo can screen over the original.
func (c *Compiler) compileBlurGlow(p BlurGlowParams) (*Program, error) {
	if err := ValidateEnum(p.Mode, blurModes); err != nil {
		return nil, fmt.Errorf("%w: mode %q", ErrInvariant, p.Mode)
	}
	bt, err := c.lib.BlurType(p.BlurType)
	if err != nil {
		return nil, err
	}
	if err := inRange("radius", p.Radius, 0, 50); err != nil {
		return nil, err
	}
	if err := inRange("intensity", p.Intensity, 0, 1); err != nil {
		return nil, err
	}
	if p.Region != nil {
		if err := rectInRange(*p.Region); err != nil {
			return nil, err
		}
	}

	kernel := blurNode(bt, p.Radius)
	lb := filtergraph.NewLabeler()
	var g filtergraph.Graph

	switch {
	case p.Mode == "glow":
		base, halo := lb.Pair("base", "halo")
		soft := lb.Next("soft")
		g.Add(filtergraph.Chain{
			Nodes:   []filtergraph.Node{filtergraph.NewNode("split")},
			Outputs: []string{base, halo},
		})
		g.Add(filtergraph.Chain{
			Inputs:  []string{halo},
			Nodes:   []filtergraph.Node{kernel},
			Outputs: []string{soft},
		})
		g.Add(filtergraph.Chain{
			Inputs: []string{base, soft},
			Nodes: []filtergraph.Node{filtergraph.NewNode("blend",
				filtergraph.KV("all_mode", "screen"),
				filtergraph.KV("all_opacity", fnum(p.Intensity)),
			)},
		})

	case p.Region != nil:
		// Region blur composites the blurred patch back at full
		// opacity; intensity mixing only applies to full-frame blurs.
		r := *p.Region
		base, patch := lb.Pair("base", "patch")
		done := lb.Next("blurred")
		crop := filtergraph.NewNode("crop",
			filtergraph.KV("w", "iw*"+fnum(r.W)),
			filtergraph.KV("h", "ih*"+fnum(r.H)),
			filtergraph.KV("x", "iw*"+fnum(r.X)),
			filtergraph.KV("y", "ih*"+fnum(r.Y)),
		)
		g.Add(filtergraph.Chain{
			Nodes:   []filtergraph.Node{filtergraph.NewNode("split")},
			Outputs: []string{base, patch},
		})
		g.Add(filtergraph.Chain{
			Inputs:  []string{patch},
			Nodes:   []filtergraph.Node{crop, kernel},
			Outputs: []string{done},
		})
		g.Add(filtergraph.Chain{
			Inputs: []string{base, done},
			Nodes: []filtergraph.Node{filtergraph.NewNode("overlay",
				filtergraph.KV("x", "main_w*"+fnum(r.X)),
				filtergraph.KV("y", "main_h*"+fnum(r.Y)),
			)},
		})

	case p.Intensity < 1:
		g = mixGraph(lb, []filtergraph.Node{kernel}, p.Intensity)

	default:
		g.AddNodes(kernel)
	}

	return finish(FamilyBlurGlow, g, nil, 1, "")
}
