package effects

import (
	"fmt"

	"github.com/Blackmvmba88/VIdeoEditor-sub003/pkg/filtergraph"
)

// Scope placements. Full replaces the frame with the scope; overlay
// renders the scope into the top-right corner over the picture.
var scopePlacements = []string{"full", "overlay"}

// ScopeParams is a video-scope snapshot.
type ScopeParams struct {
	ScopeType string
	Placement string
	Opacity   float64
}

func (ScopeParams) family() Family { return FamilyScopes }

func defaultScope() ScopeParams {
	return ScopeParams{ScopeType: "waveform", Placement: "full", Opacity: 0.8}
}

// ScopeState holds the mutable scope selection for one session.
type ScopeState struct {
	lib *Library
	cur ScopeParams
}

// NewScopeState returns a state showing a full-frame waveform.
func NewScopeState(lib *Library) *ScopeState {
	return &ScopeState{lib: lib, cur: defaultScope()}
}

// Current returns a snapshot of the state.
func (s *ScopeState) Current() ScopeParams { return s.cur }

// SetScopeType selects a registered scope by id.
func (s *ScopeState) SetScopeType(id string) error {
	if _, err := s.lib.ScopeType(id); err != nil {
		return err
	}
	s.cur.ScopeType = id
	return nil
}

// SetPlacement selects "full" or "overlay".
func (s *ScopeState) SetPlacement(p string) error {
	if err := ValidateEnum(p, scopePlacements); err != nil {
		return err
	}
	s.cur.Placement = p
	return nil
}

// SetOpacity clamps to [0, 1]. Only overlay placement uses it.
func (s *ScopeState) SetOpacity(v float64) {
	s.cur.Opacity = Clamp(v, 0, 1)
}

// Reset restores the full-frame waveform defaults.
func (s *ScopeState) Reset() { s.cur = defaultScope() }

// compileScope renders the scope either as a full-frame replacement or
// as a third-width overlay pinned to the top-right corner.
func (c *Compiler) compileScope(p ScopeParams) (*Program, error) {
	st, err := c.lib.ScopeType(p.ScopeType)
	if err != nil {
		return nil, err
	}
	if err := ValidateEnum(p.Placement, scopePlacements); err != nil {
		return nil, fmt.Errorf("%w: placement %q", ErrInvariant, p.Placement)
	}
	if err := inRange("opacity", p.Opacity, 0, 1); err != nil {
		return nil, err
	}

	var g filtergraph.Graph
	if p.Placement == "full" {
		g.AddNodes(st.Node)
		return finish(FamilyScopes, g, nil, 1, "")
	}

	lb := filtergraph.NewLabeler()
	main, tap := lb.Pair("main", "tap")
	scaled := lb.Next("scope")

	nodes := []filtergraph.Node{
		st.Node,
		filtergraph.NewNode("scale", filtergraph.KV("w", "iw/3"), filtergraph.KV("h", "-1")),
	}
	if p.Opacity < 1 {
		nodes = append(nodes,
			filtergraph.NewNode("format", filtergraph.V("yuva420p")),
			filtergraph.NewNode("colorchannelmixer", filtergraph.KV("aa", fnum(p.Opacity))),
		)
	}

	g.Add(filtergraph.Chain{
		Nodes:   []filtergraph.Node{filtergraph.NewNode("split")},
		Outputs: []string{main, tap},
	})
	g.Add(filtergraph.Chain{Inputs: []string{tap}, Nodes: nodes, Outputs: []string{scaled}})
	g.Add(filtergraph.Chain{
		Inputs: []string{main, scaled},
		Nodes: []filtergraph.Node{filtergraph.NewNode("overlay",
			filtergraph.KV("x", "main_w-overlay_w-16"),
			filtergraph.KV("y", "16"),
		)},
	})
	return finish(FamilyScopes, g, nil, 1, "")
}
