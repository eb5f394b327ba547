// Package filtergraph provides the intermediate representation for engine
// filter programs: nodes, chains, pads, and the textual renderer.
package filtergraph

import (
	"fmt"
	"strings"
)

// Arg is a single filter argument. An Arg with an empty Key renders as a
// bare positional value.
type Arg struct {
	Key   string
	Value string
}

// KV returns a keyed argument.
func KV(key, value string) Arg {
	return Arg{Key: key, Value: value}
}

// V returns a positional argument.
func V(value string) Arg {
	return Arg{Value: value}
}

// Node is one filter invocation: an operation name plus its ordered
// arguments. Nodes are pure values; building one never touches I/O.
type Node struct {
	Op   string
	Args []Arg
}

// NewNode builds a node from an operation name and arguments.
func NewNode(op string, args ...Arg) Node {
	return Node{Op: op, Args: args}
}

// Arg returns the value of the named argument and whether it is present.
func (n Node) Arg(key string) (string, bool) {
	for _, a := range n.Args {
		if a.Key == key {
			return a.Value, true
		}
	}
	return "", false
}

// String renders the node in engine syntax: `op`, `op=v` or `op=k=v:k=v`.
func (n Node) String() string {
	if len(n.Args) == 0 {
		return n.Op
	}
	parts := make([]string, 0, len(n.Args))
	for _, a := range n.Args {
		if a.Key == "" {
			parts = append(parts, a.Value)
		} else {
			parts = append(parts, a.Key+"="+a.Value)
		}
	}
	return n.Op + "=" + strings.Join(parts, ":")
}

// Chain is a linear run of nodes bound to input and output pads. A chain
// with no input pads reads the default input stream; a chain with no
// output pads feeds the sink.
type Chain struct {
	Inputs  []string
	Nodes   []Node
	Outputs []string
}

// String renders the chain: `[in]node,node[out]`.
func (c Chain) String() string {
	var b strings.Builder
	for _, in := range c.Inputs {
		b.WriteString("[" + in + "]")
	}
	for i, n := range c.Nodes {
		if i > 0 {
			b.WriteString(",")
		}
		b.WriteString(n.String())
	}
	for _, out := range c.Outputs {
		b.WriteString("[" + out + "]")
	}
	return b.String()
}

// Graph is an ordered collection of chains. Chains are semicolon-joined in
// the rendered text; pads connect them.
type Graph struct {
	Chains []Chain
}

// Add appends a chain to the graph.
func (g *Graph) Add(c Chain) {
	g.Chains = append(g.Chains, c)
}

// AddNodes appends a pad-less chain holding the given nodes. Convenience
// for single-stream programs.
func (g *Graph) AddNodes(nodes ...Node) {
	g.Add(Chain{Nodes: nodes})
}

// Simple reports whether the graph is a single chain with no pad labels,
// renderable as a plain per-stream filter argument.
func (g *Graph) Simple() bool {
	return len(g.Chains) == 1 &&
		len(g.Chains[0].Inputs) == 0 &&
		len(g.Chains[0].Outputs) == 0
}

// String renders the graph in the engine's filter-graph syntax.
func (g *Graph) String() string {
	parts := make([]string, 0, len(g.Chains))
	for _, c := range g.Chains {
		parts = append(parts, c.String())
	}
	return strings.Join(parts, ";")
}

// Clone returns a deep copy of the graph. Pad slices are copied so the
// clone can be relabeled without touching the original.
func (g *Graph) Clone() Graph {
	out := Graph{Chains: make([]Chain, len(g.Chains))}
	for i, c := range g.Chains {
		out.Chains[i] = Chain{
			Inputs:  append([]string(nil), c.Inputs...),
			Nodes:   append([]Node(nil), c.Nodes...),
			Outputs: append([]string(nil), c.Outputs...),
		}
	}
	return out
}

// Pads returns every pad label the graph produces, in production order.
func (g *Graph) Pads() []string {
	var pads []string
	for _, c := range g.Chains {
		pads = append(pads, c.Outputs...)
	}
	return pads
}

// TerminalOutput returns the label of the final chain's output pad, or ""
// when the final chain feeds the sink directly.
func (g *Graph) TerminalOutput() string {
	if len(g.Chains) == 0 {
		return ""
	}
	last := g.Chains[len(g.Chains)-1]
	if len(last.Outputs) == 0 {
		return ""
	}
	return last.Outputs[len(last.Outputs)-1]
}

// LabelTerminal ensures the final chain's output carries the given label,
// adding one if the chain currently feeds the sink.
func (g *Graph) LabelTerminal(label string) {
	if len(g.Chains) == 0 {
		return
	}
	last := &g.Chains[len(g.Chains)-1]
	if len(last.Outputs) == 0 {
		last.Outputs = []string{label}
	} else {
		last.Outputs[len(last.Outputs)-1] = label
	}
}

// BindInput routes the given pad label into the graph's entry chain, the
// first chain that currently reads the default input stream.
func (g *Graph) BindInput(label string) error {
	for i := range g.Chains {
		if len(g.Chains[i].Inputs) == 0 {
			g.Chains[i].Inputs = []string{label}
			return nil
		}
	}
	return fmt.Errorf("filtergraph: no unbound entry chain for pad %q", label)
}

// IsStreamRef reports whether a label refers to an input stream (`0:v`,
// `1:a`) rather than a pad produced inside the graph. Generated pad labels
// always start with a letter.
func IsStreamRef(label string) bool {
	return label != "" && label[0] >= '0' && label[0] <= '9'
}

// Validate checks the structural invariants of the graph: every referenced
// pad is produced exactly once and before use, no dangling inputs, and at
// most one unconsumed output including implicit sink chains.
func (g *Graph) Validate() error {
	if len(g.Chains) == 0 {
		return fmt.Errorf("filtergraph: empty graph")
	}

	produced := map[string]bool{}
	consumed := map[string]bool{}
	sinks := 0

	for _, c := range g.Chains {
		if len(c.Nodes) == 0 {
			return fmt.Errorf("filtergraph: chain with no nodes")
		}
		for _, in := range c.Inputs {
			if IsStreamRef(in) {
				continue
			}
			if !produced[in] {
				return fmt.Errorf("filtergraph: pad %q consumed before production", in)
			}
			if consumed[in] {
				return fmt.Errorf("filtergraph: pad %q consumed twice", in)
			}
			consumed[in] = true
		}
		for _, out := range c.Outputs {
			if produced[out] {
				return fmt.Errorf("filtergraph: pad %q produced twice", out)
			}
			produced[out] = true
		}
		if len(c.Outputs) == 0 {
			sinks++
		}
	}

	unconsumed := sinks
	for pad := range produced {
		if !consumed[pad] {
			unconsumed++
		}
	}
	if unconsumed > 1 {
		return fmt.Errorf("filtergraph: %d unconsumed outputs", unconsumed)
	}
	return nil
}
