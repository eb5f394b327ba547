package effects

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/Blackmvmba88/VIdeoEditor-sub003/pkg/filtergraph"
)

// Snapshot is a compilable effect-state snapshot: the value returned by a
// state's Current.
type Snapshot interface {
	family() Family
}

// Program is one compiled filter-graph program: the structural graph, its
// rendered text, and the ordered external asset paths it references.
// Programs are transient; build one per apply call and discard it after
// dispatch.
type Program struct {
	Family     Family
	Graph      filtergraph.Graph
	Text       string
	Assets     []string
	InputArity int
	AudioMap   string
}

// Compiler turns effect-state snapshots into Programs. It resolves
// catalog ids through the Library, never touches the filesystem, and
// performs no I/O of any kind.
type Compiler struct {
	lib *Library
}

// NewCompiler returns a compiler resolving against lib.
func NewCompiler(lib *Library) *Compiler {
	return &Compiler{lib: lib}
}

// Compile builds the program for one snapshot. Compilation is
// all-or-nothing: any failure returns before any text is rendered.
func (c *Compiler) Compile(s Snapshot) (*Program, error) {
	switch snap := s.(type) {
	case ColorGradeParams:
		return c.compileColorGrade(snap)
	case ChromaKeyParams:
		return c.compileChromaKey(snap)
	case BlurGlowParams:
		return c.compileBlurGlow(snap)
	case LUTParams:
		return c.compileLUT(snap)
	case ScopeParams:
		return c.compileScope(snap)
	case ColorMatchParams:
		return c.compileColorMatch(snap)
	default:
		return nil, fmt.Errorf("%w: effect type %T", ErrNotFound, s)
	}
}

// finish validates the structural invariants and renders the program
// text. A validation failure here means a compiler bug, not caller error.
func finish(fam Family, g filtergraph.Graph, assets []string, arity int, audioMap string) (*Program, error) {
	if err := g.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvariant, err)
	}
	return &Program{
		Family:     fam,
		Graph:      g,
		Text:       g.String(),
		Assets:     assets,
		InputArity: arity,
		AudioMap:   audioMap,
	}, nil
}

// inRange re-checks a value the state API already clamped.
func inRange(field string, v, min, max float64) error {
	if math.IsNaN(v) || v < min || v > max {
		return fmt.Errorf("%w: %s=%v outside [%v, %v]", ErrInvariant, field, v, min, max)
	}
	return nil
}

func rgbInRange(field string, c RGB, min, max float64) error {
	for _, ch := range []struct {
		name string
		v    float64
	}{{"r", c.R}, {"g", c.G}, {"b", c.B}} {
		if err := inRange(field+"."+ch.name, ch.v, min, max); err != nil {
			return err
		}
	}
	return nil
}

func rectInRange(r Rect) error {
	for _, f := range []struct {
		name string
		v    float64
	}{{"region.x", r.X}, {"region.y", r.Y}, {"region.w", r.W}, {"region.h", r.H}} {
		if err := inRange(f.name, f.v, 0, 1); err != nil {
			return err
		}
	}
	return nil
}

// fnum renders a numeric filter argument: rounded to 4 decimals with
// trailing zeros trimmed, so 0.9-1 renders as -0.1 and 5.0 as 5.
func fnum(v float64) string {
	r := math.Round(v*10000) / 10000
	if r == 0 {
		return "0"
	}
	return strconv.FormatFloat(r, 'f', -1, 64)
}

// escapeAssetPath escapes a file path for use inside a filter argument
// and wraps it in single quotes.
func escapeAssetPath(p string) string {
	p = strings.ReplaceAll(p, `\`, `\\`)
	p = strings.ReplaceAll(p, `'`, `\'`)
	p = strings.ReplaceAll(p, ":", `\:`)
	return "'" + p + "'"
}

// mixExpr is the blend expression weighting the processed stream (B)
// against the original (A).
func mixExpr(weight float64) string {
	w := fnum(weight)
	return "'A*(1-" + w + ")+B*" + w + "'"
}

// mixGraph routes the effect nodes through a split so the processed
// stream is blended with the original at the given weight.
func mixGraph(lb *filtergraph.Labeler, effect []filtergraph.Node, weight float64) filtergraph.Graph {
	main, fx := lb.Pair("main", "fx")
	mixed := lb.Next("mix")

	var g filtergraph.Graph
	g.Add(filtergraph.Chain{
		Nodes:   []filtergraph.Node{filtergraph.NewNode("split")},
		Outputs: []string{main, fx},
	})
	g.Add(filtergraph.Chain{Inputs: []string{fx}, Nodes: effect, Outputs: []string{mixed}})
	g.Add(filtergraph.Chain{
		Inputs: []string{main, mixed},
		Nodes:  []filtergraph.Node{filtergraph.NewNode("blend", filtergraph.KV("all_expr", mixExpr(weight)))},
	})
	return g
}
