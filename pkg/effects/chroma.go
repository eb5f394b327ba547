package effects

import (
	"fmt"
	"strings"

	"github.com/Blackmvmba88/VIdeoEditor-sub003/pkg/filtergraph"
)

// ChromaKeyParams is a keying snapshot. KeyColor is either a built-in
// key id or a custom #RRGGBB color.
type ChromaKeyParams struct {
	KeyColor     string
	Similarity   float64
	Blend        float64
	SpillRemoval bool
}

func (ChromaKeyParams) family() Family { return FamilyChromaKey }

func defaultChromaKey() ChromaKeyParams {
	return ChromaKeyParams{
		KeyColor:     "green",
		Similarity:   0.40,
		Blend:        0.10,
		SpillRemoval: true,
	}
}

// ChromaKeyState holds the mutable keying parameters for one session.
type ChromaKeyState struct {
	lib *Library
	cur ChromaKeyParams
}

// NewChromaKeyState returns a state at the green-screen defaults.
func NewChromaKeyState(lib *Library) *ChromaKeyState {
	return &ChromaKeyState{lib: lib, cur: defaultChromaKey()}
}

// Current returns a snapshot of the state.
func (s *ChromaKeyState) Current() ChromaKeyParams { return s.cur }

// SetKeyColor accepts a built-in key id or a custom #RRGGBB color.
func (s *ChromaKeyState) SetKeyColor(c string) error {
	if _, err := s.lib.KeyColor(c); err == nil {
		s.cur.KeyColor = c
		return nil
	}
	if err := ValidateHexColor(c); err != nil {
		return err
	}
	s.cur.KeyColor = c
	return nil
}

// SetSimilarity clamps to [0, 1]. Higher keys a wider band of colors.
func (s *ChromaKeyState) SetSimilarity(v float64) {
	s.cur.Similarity = Clamp(v, 0, 1)
}

// SetBlend clamps to [0, 1]. Higher softens the matte edge.
func (s *ChromaKeyState) SetBlend(v float64) {
	s.cur.Blend = Clamp(v, 0, 1)
}

// SetSpillRemoval toggles despill. It only takes effect for built-in
// key colors; custom colors have no despill mapping.
func (s *ChromaKeyState) SetSpillRemoval(on bool) {
	s.cur.SpillRemoval = on
}

// ApplyPreset overlays a quality preset's populated fields onto the
// current state. The key color is never part of a preset and survives.
func (s *ChromaKeyState) ApplyPreset(id string) error {
	p, err := s.lib.ChromaPreset(id)
	if err != nil {
		return err
	}
	if p.Similarity != nil {
		s.cur.Similarity = Clamp(*p.Similarity, 0, 1)
	}
	if p.Blend != nil {
		s.cur.Blend = Clamp(*p.Blend, 0, 1)
	}
	if p.SpillRemoval != nil {
		s.cur.SpillRemoval = *p.SpillRemoval
	}
	return nil
}

// Reset restores the green-screen defaults.
func (s *ChromaKeyState) Reset() { s.cur = defaultChromaKey() }

// chromaNodes builds the keying node sequence. Despill immediately
// follows chromakey, and only for a built-in key with spill removal on.
func (c *Compiler) chromaNodes(p ChromaKeyParams) ([]filtergraph.Node, error) {
	if err := inRange("similarity", p.Similarity, 0, 1); err != nil {
		return nil, err
	}
	if err := inRange("blend", p.Blend, 0, 1); err != nil {
		return nil, err
	}

	var colorValue string
	builtin := false
	if kc, err := c.lib.KeyColor(p.KeyColor); err == nil {
		colorValue = kc.Value
		builtin = true
	} else {
		if err := ValidateHexColor(p.KeyColor); err != nil {
			return nil, fmt.Errorf("%w: key color %q", ErrInvariant, p.KeyColor)
		}
		colorValue = "0x" + strings.ToUpper(p.KeyColor[1:])
	}

	nodes := []filtergraph.Node{filtergraph.NewNode("chromakey",
		filtergraph.KV("color", colorValue),
		filtergraph.KV("similarity", fnum(p.Similarity)),
		filtergraph.KV("blend", fnum(p.Blend)),
	)}
	if p.SpillRemoval && builtin {
		nodes = append(nodes, filtergraph.NewNode("despill", filtergraph.KV("type", p.KeyColor)))
	}
	return nodes, nil
}

// compileChromaKey renders the single-input keying program: the frame is
// keyed against the configured color, leaving transparency where the key
// matched.
func (c *Compiler) compileChromaKey(p ChromaKeyParams) (*Program, error) {
	nodes, err := c.chromaNodes(p)
	if err != nil {
		return nil, err
	}
	var g filtergraph.Graph
	g.AddNodes(nodes...)
	return finish(FamilyChromaKey, g, nil, 1, "")
}

// CompositeOptions configure a two-input composition: the foreground is
// keyed and overlaid onto the background.
type CompositeOptions struct {
	Key              ChromaKeyParams
	AudioPassthrough bool
}

// Composite compiles a two-input program. Input 0 is the background,
// input 1 the foreground to be keyed. With AudioPassthrough the
// foreground's audio is mapped through when present; background audio
// never is.
func (c *Compiler) Composite(opts CompositeOptions) (*Program, error) {
	nodes, err := c.chromaNodes(opts.Key)
	if err != nil {
		return nil, err
	}

	lb := filtergraph.NewLabeler()
	keyed := lb.Next("keyed")
	out := lb.Next("comp")

	var g filtergraph.Graph
	g.Add(filtergraph.Chain{Inputs: []string{"1:v"}, Nodes: nodes, Outputs: []string{keyed}})
	g.Add(filtergraph.Chain{
		Inputs:  []string{"0:v", keyed},
		Nodes:   []filtergraph.Node{filtergraph.NewNode("overlay", filtergraph.KV("shortest", "1"))},
		Outputs: []string{out},
	})

	audioMap := ""
	if opts.AudioPassthrough {
		audioMap = "1:a?"
	}
	return finish(FamilyChromaKey, g, nil, 2, audioMap)
}
