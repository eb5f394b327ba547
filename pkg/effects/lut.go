package effects

import (
	"fmt"

	"github.com/Blackmvmba88/VIdeoEditor-sub003/pkg/filtergraph"
)

// LUTParams is a lookup-table snapshot. An empty LUTID means no LUT is
// selected and the state cannot compile.
type LUTParams struct {
	LUTID     string
	Intensity float64
}

func (LUTParams) family() Family { return FamilyLUT }

func defaultLUT() LUTParams {
	return LUTParams{Intensity: 1}
}

// LUTState holds the mutable LUT selection for one session.
type LUTState struct {
	lib *Library
	cur LUTParams
}

// NewLUTState returns a state with no LUT selected.
func NewLUTState(lib *Library) *LUTState {
	return &LUTState{lib: lib, cur: defaultLUT()}
}

// Current returns a snapshot of the state.
func (s *LUTState) Current() LUTParams { return s.cur }

// SetLUT selects a registered LUT by id.
func (s *LUTState) SetLUT(id string) error {
	if _, err := s.lib.LUT(id); err != nil {
		return err
	}
	s.cur.LUTID = id
	return nil
}

// Clear deselects the LUT without touching intensity.
func (s *LUTState) Clear() { s.cur.LUTID = "" }

// SetIntensity clamps to [0, 1]. Below 1 the graded stream is mixed
// with the original.
func (s *LUTState) SetIntensity(v float64) {
	s.cur.Intensity = Clamp(v, 0, 1)
}

// SetIntensityPreset sets intensity from a named preset.
func (s *LUTState) SetIntensityPreset(id string) error {
	p, err := s.lib.IntensityPreset(id)
	if err != nil {
		return err
	}
	s.cur.Intensity = Clamp(p.Value, 0, 1)
	return nil
}

// Reset deselects the LUT and restores full intensity.
func (s *LUTState) Reset() { s.cur = defaultLUT() }

// compileLUT renders either the LUT's built-in node chain or a lut3d
// node referencing the imported file. Partial intensity wraps the chain
// in a split/blend mix.
func (c *Compiler) compileLUT(p LUTParams) (*Program, error) {
	if p.LUTID == "" {
		return nil, fmt.Errorf("%w: no lut selected", ErrInvalidState)
	}
	if err := inRange("intensity", p.Intensity, 0, 1); err != nil {
		return nil, err
	}
	def, err := c.lib.LUT(p.LUTID)
	if err != nil {
		return nil, err
	}

	var effect []filtergraph.Node
	var assets []string
	if def.FilePath != "" {
		effect = []filtergraph.Node{filtergraph.NewNode("lut3d",
			filtergraph.KV("file", escapeAssetPath(def.FilePath)))}
		assets = []string{def.FilePath}
	} else {
		effect = def.Nodes
	}

	var g filtergraph.Graph
	if p.Intensity < 1 {
		g = mixGraph(filtergraph.NewLabeler(), effect, p.Intensity)
	} else {
		g.AddNodes(effect...)
	}
	return finish(FamilyLUT, g, assets, 1, "")
}
