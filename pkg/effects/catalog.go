package effects

import (
	"github.com/Blackmvmba88/VIdeoEditor-sub003/pkg/filtergraph"
)

// GradingPreset is a color-grading preset. Triplets are channel
// multipliers around 1.0; nil fields leave the default untouched when the
// preset is applied.
type GradingPreset struct {
	ID          string
	Name        string
	Description string
	Shadows     *RGB
	Midtones    *RGB
	Highlights  *RGB
	Saturation  *float64
	Contrast    *float64
}

func (p GradingPreset) validate() error {
	return ValidateRequired(map[string]string{"id": p.ID, "name": p.Name})
}

// ChromaPreset is a chroma-key quality preset: a partial bundle of
// similarity/blend/spill values.
type ChromaPreset struct {
	ID           string
	Name         string
	Description  string
	Similarity   *float64
	Blend        *float64
	SpillRemoval *bool
}

func (p ChromaPreset) validate() error {
	return ValidateRequired(map[string]string{"id": p.ID, "name": p.Name})
}

// KeyColor is a built-in chroma key color. Value is the engine color name
// passed to the keying filter.
type KeyColor struct {
	ID    string
	Name  string
	Value string
}

// LUTDefinition is a color lookup: either built-in, expressed as an
// equivalent filter chain, or custom, backed by an imported file.
type LUTDefinition struct {
	ID          string
	Name        string
	Description string
	Nodes       []filtergraph.Node
	FilePath    string
}

func (d LUTDefinition) validate() error {
	if err := ValidateRequired(map[string]string{"id": d.ID, "name": d.Name}); err != nil {
		return err
	}
	if len(d.Nodes) == 0 && d.FilePath == "" {
		return ValidateRequired(map[string]string{"nodes or file_path": ""})
	}
	return nil
}

// BlurType declares how a blur variant maps onto an engine op: the
// operation name, its radius argument, and the radius conversion.
type BlurType struct {
	ID      string
	Name    string
	Op      string
	ArgKey  string
	Scale   float64
	Integer bool
}

// ScopeType declares a video scope and its engine node.
type ScopeType struct {
	ID   string
	Name string
	Node filtergraph.Node
}

// MatchMethod names one color-match correction strategy.
type MatchMethod struct {
	ID          string
	Name        string
	Description string
}

// IntensityPreset is a named mix weight usable wherever an effect exposes
// an intensity knob.
type IntensityPreset struct {
	ID    string
	Name  string
	Value float64
}

func fptr(v float64) *float64 { return &v }
func bptr(v bool) *bool       { return &v }

func builtinGradingPresets() []GradingPreset {
	return []GradingPreset{
		{
			ID:          "warm",
			Name:        "Warm",
			Description: "Amber shadows and soft golden highlights",
			Shadows:     &RGB{R: 1.08, G: 1.02, B: 0.94},
			Midtones:    &RGB{R: 1.05, G: 1.02, B: 0.95},
			Highlights:  &RGB{R: 1.03, G: 1.00, B: 0.97},
		},
		{
			ID:          "cool",
			Name:        "Cool",
			Description: "Blue-leaning cast across the tonal range",
			Shadows:     &RGB{R: 0.95, G: 1.00, B: 1.10},
			Midtones:    &RGB{R: 0.95, G: 1.02, B: 1.08},
			Highlights:  &RGB{R: 0.97, G: 1.00, B: 1.05},
		},
		{
			ID:          "sunset",
			Name:        "Sunset",
			Description: "Strong red-orange shadows with lifted saturation",
			Shadows:     &RGB{R: 1.15, G: 1.05, B: 0.90},
			Highlights:  &RGB{R: 1.10, G: 1.03, B: 0.92},
			Saturation:  fptr(1.15),
		},
		{
			ID:          "moonlight",
			Name:        "Moonlight",
			Description: "Desaturated blue night look",
			Shadows:     &RGB{R: 0.92, G: 0.98, B: 1.15},
			Midtones:    &RGB{R: 0.95, G: 1.00, B: 1.10},
			Saturation:  fptr(0.85),
			Contrast:    fptr(1.10),
		},
		{
			ID:          "teal_orange",
			Name:        "Teal & Orange",
			Description: "Warm shadows against teal highlights",
			Shadows:     &RGB{R: 1.15, G: 0.95, B: 0.85},
			Highlights:  &RGB{R: 0.90, G: 1.05, B: 1.10},
			Saturation:  fptr(1.20),
			Contrast:    fptr(1.10),
		},
	}
}

// builtinKeyColors returns the two built-in chroma keys. Order matters:
// despill is only ever emitted for these.
func builtinKeyColors() []KeyColor {
	return []KeyColor{
		{ID: "green", Name: "Green Screen", Value: "green"},
		{ID: "blue", Name: "Blue Screen", Value: "blue"},
	}
}

func builtinChromaPresets() []ChromaPreset {
	return []ChromaPreset{
		{
			ID:           "fast",
			Name:         "Fast",
			Description:  "Loose tolerance, hard edge, no spill pass",
			Similarity:   fptr(0.45),
			Blend:        fptr(0.05),
			SpillRemoval: bptr(false),
		},
		{
			ID:          "balanced",
			Name:        "Balanced",
			Description: "Default tolerance and edge blend",
			Similarity:  fptr(0.40),
			Blend:       fptr(0.10),
		},
		{
			ID:           "high",
			Name:         "High Quality",
			Description:  "Tight tolerance with wide edge blend and spill pass",
			Similarity:   fptr(0.32),
			Blend:        fptr(0.18),
			SpillRemoval: bptr(true),
		},
	}
}

// builtinLUTs expresses each built-in look as an equivalent filter chain,
// so no external .cube file is needed for them.
func builtinLUTs() []LUTDefinition {
	return []LUTDefinition{
		{
			ID:          "cinematic_warm",
			Name:        "Cinematic Warm",
			Description: "Cross-processed warmth with gentle contrast",
			Nodes: []filtergraph.Node{
				filtergraph.NewNode("curves", filtergraph.KV("preset", "cross_process")),
				filtergraph.NewNode("colorbalance",
					filtergraph.KV("rs", "0.08"), filtergraph.KV("gs", "0.02"), filtergraph.KV("bs", "-0.06"),
					filtergraph.KV("rm", "0.05"), filtergraph.KV("gm", "0.02"), filtergraph.KV("bm", "-0.05"),
					filtergraph.KV("rh", "0.03"), filtergraph.KV("gh", "0"), filtergraph.KV("bh", "-0.03")),
				filtergraph.NewNode("eq", filtergraph.KV("contrast", "1.1"), filtergraph.KV("saturation", "0.9")),
			},
		},
		{
			ID:          "cinematic_cool",
			Name:        "Cinematic Cool",
			Description: "Steel-blue grade with raised contrast",
			Nodes: []filtergraph.Node{
				filtergraph.NewNode("colorbalance",
					filtergraph.KV("rs", "-0.05"), filtergraph.KV("gs", "0"), filtergraph.KV("bs", "0.1"),
					filtergraph.KV("rm", "-0.05"), filtergraph.KV("gm", "0.02"), filtergraph.KV("bm", "0.08"),
					filtergraph.KV("rh", "-0.03"), filtergraph.KV("gh", "0"), filtergraph.KV("bh", "0.05")),
				filtergraph.NewNode("eq", filtergraph.KV("contrast", "1.15"), filtergraph.KV("saturation", "0.85")),
			},
		},
		{
			ID:          "film_noir",
			Name:        "Film Noir",
			Description: "Monochrome with crushed blacks and hot highlights",
			Nodes: []filtergraph.Node{
				filtergraph.NewNode("hue", filtergraph.KV("s", "0")),
				filtergraph.NewNode("eq",
					filtergraph.KV("contrast", "1.4"), filtergraph.KV("brightness", "0.05"), filtergraph.KV("gamma", "0.9")),
				filtergraph.NewNode("curves", filtergraph.KV("m", "'0/0 0.25/0.15 0.5/0.5 0.75/0.85 1/1'")),
			},
		},
		{
			ID:          "bleach_bypass",
			Name:        "Bleach Bypass",
			Description: "Silver-retention look: low saturation, high contrast",
			Nodes: []filtergraph.Node{
				filtergraph.NewNode("eq",
					filtergraph.KV("saturation", "0.4"), filtergraph.KV("contrast", "1.3"), filtergraph.KV("brightness", "0.05")),
				filtergraph.NewNode("curves", filtergraph.KV("m", "'0/0 0.25/0.2 0.75/0.85 1/1'")),
			},
		},
		{
			ID:          "orange_teal",
			Name:        "Orange & Teal",
			Description: "Blockbuster complementary split",
			Nodes: []filtergraph.Node{
				filtergraph.NewNode("colorbalance",
					filtergraph.KV("rs", "0.15"), filtergraph.KV("gs", "-0.05"), filtergraph.KV("bs", "-0.15"),
					filtergraph.KV("rm", "0.05"), filtergraph.KV("gm", "0"), filtergraph.KV("bm", "-0.05"),
					filtergraph.KV("rh", "-0.1"), filtergraph.KV("gh", "0.05"), filtergraph.KV("bh", "0.1")),
				filtergraph.NewNode("eq", filtergraph.KV("saturation", "1.2"), filtergraph.KV("contrast", "1.1")),
			},
		},
		{
			ID:          "vintage_fade",
			Name:        "Vintage Fade",
			Description: "Lifted blacks, faded highlights, muted color",
			Nodes: []filtergraph.Node{
				filtergraph.NewNode("curves", filtergraph.KV("m", "'0/0.05 0.25/0.18 0.75/0.82 1/0.95'")),
				filtergraph.NewNode("colorbalance",
					filtergraph.KV("rs", "0.1"), filtergraph.KV("gs", "0.05"), filtergraph.KV("bs", "-0.05"),
					filtergraph.KV("rm", "0.05"), filtergraph.KV("gm", "0"), filtergraph.KV("bm", "-0.03")),
				filtergraph.NewNode("eq", filtergraph.KV("saturation", "0.7")),
			},
		},
		{
			ID:          "golden_hour",
			Name:        "Golden Hour",
			Description: "Low-sun warmth with lifted gamma",
			Nodes: []filtergraph.Node{
				filtergraph.NewNode("colorbalance",
					filtergraph.KV("rs", "0.15"), filtergraph.KV("gs", "0.08"), filtergraph.KV("bs", "-0.1"),
					filtergraph.KV("rm", "0.1"), filtergraph.KV("gm", "0.05"), filtergraph.KV("bm", "-0.08")),
				filtergraph.NewNode("eq",
					filtergraph.KV("saturation", "1.15"), filtergraph.KV("brightness", "0.03"), filtergraph.KV("gamma", "1.05")),
			},
		},
		{
			ID:          "moonlit",
			Name:        "Moonlit",
			Description: "Cold desaturated night grade",
			Nodes: []filtergraph.Node{
				filtergraph.NewNode("colorbalance",
					filtergraph.KV("rs", "-0.08"), filtergraph.KV("gs", "-0.02"), filtergraph.KV("bs", "0.15"),
					filtergraph.KV("rm", "-0.05"), filtergraph.KV("gm", "0"), filtergraph.KV("bm", "0.1"),
					filtergraph.KV("rh", "0"), filtergraph.KV("gh", "0"), filtergraph.KV("bh", "0.05")),
				filtergraph.NewNode("eq",
					filtergraph.KV("saturation", "0.6"), filtergraph.KV("brightness", "-0.05"), filtergraph.KV("gamma", "0.9")),
			},
		},
	}
}

func builtinBlurTypes() []BlurType {
	return []BlurType{
		{ID: "gaussian", Name: "Gaussian", Op: "gblur", ArgKey: "sigma", Scale: 1},
		{ID: "box", Name: "Box", Op: "boxblur", ArgKey: "luma_radius", Scale: 0.5, Integer: true},
		{ID: "median", Name: "Median", Op: "median", ArgKey: "radius", Scale: 0.25, Integer: true},
	}
}

func builtinScopeTypes() []ScopeType {
	return []ScopeType{
		{ID: "waveform", Name: "Waveform", Node: filtergraph.NewNode("waveform", filtergraph.KV("mode", "column"))},
		{ID: "vectorscope", Name: "Vectorscope", Node: filtergraph.NewNode("vectorscope", filtergraph.KV("mode", "color3"))},
		{ID: "histogram", Name: "Histogram", Node: filtergraph.NewNode("histogram", filtergraph.KV("display_mode", "stack"))},
		{ID: "rgb_parade", Name: "RGB Parade", Node: filtergraph.NewNode("waveform", filtergraph.KV("mode", "column"), filtergraph.KV("display", "parade"))},
	}
}

func builtinMatchMethods() []MatchMethod {
	return []MatchMethod{
		{ID: "gain", Name: "Channel Gain", Description: "Per-channel gain from reference/source mean ratio"},
		{ID: "balance", Name: "Color Balance", Description: "Midtone balance offsets from the mean delta"},
		{ID: "gamma", Name: "Gamma", Description: "Per-channel gamma matching the mean levels"},
	}
}

func builtinIntensityPresets() []IntensityPreset {
	return []IntensityPreset{
		{ID: "subtle", Name: "Subtle", Value: 0.25},
		{ID: "light", Name: "Light", Value: 0.4},
		{ID: "moderate", Name: "Moderate", Value: 0.55},
		{ID: "strong", Name: "Strong", Value: 0.75},
		{ID: "full", Name: "Full", Value: 1.0},
	}
}
