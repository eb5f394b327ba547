package effects

import (
	"fmt"

	"github.com/Blackmvmba88/VIdeoEditor-sub003/pkg/filtergraph"
)

// Planner folds an ordered list of compiled stages into as few executor
// passes as possible. Consecutive single-input stages merge into one
// graph by bridging each stage's terminal pad into the next stage's
// entry chain; a multi-input stage always runs as its own pass.
type Planner struct{}

// NewPlanner returns a planner.
func NewPlanner() *Planner { return &Planner{} }

// Plan merges stages into passes. sources is the number of input streams
// the caller can supply to any single pass; a stage whose arity exceeds
// it cannot run even on its own and the whole plan fails. Input programs
// are never mutated.
func (pl *Planner) Plan(stages []*Program, sources int) ([]*Program, error) {
	if len(stages) == 0 {
		return nil, fmt.Errorf("%w: empty chain", ErrInvalidParameter)
	}

	lb := filtergraph.NewLabeler()
	var passes []*Program
	var cur *Program

	flush := func() {
		if cur != nil {
			passes = append(passes, cur)
			cur = nil
		}
	}

	for i, st := range stages {
		if st == nil {
			return nil, fmt.Errorf("%w: chain stage %d is nil", ErrInvalidParameter, i)
		}
		if st.InputArity > 1 {
			if st.InputArity > sources {
				return nil, fmt.Errorf("%w: stage %d needs %d inputs, %d available",
					ErrIncompatibleChain, i, st.InputArity, sources)
			}
			flush()
			passes = append(passes, cloneProgram(st))
			continue
		}
		if cur == nil {
			cur = cloneProgram(st)
			continue
		}

		// Bridge: the accumulated graph's terminal pad becomes the next
		// stage's entry pad. Pad labels are globally unique, so chains
		// from independently compiled stages never collide.
		bridge := lb.Next("stage")
		cur.Graph.LabelTerminal(bridge)
		next := st.Graph.Clone()
		if err := next.BindInput(bridge); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvariant, err)
		}
		cur.Graph.Chains = append(cur.Graph.Chains, next.Chains...)
		cur.Assets = append(cur.Assets, st.Assets...)
		if cur.AudioMap == "" {
			cur.AudioMap = st.AudioMap
		}
	}
	flush()

	// Re-validate and re-render every pass: merging rewrote pads and
	// invalidated the per-stage text. A merged pass keeps the family of
	// its first stage.
	for i, p := range passes {
		done, err := finish(p.Family, p.Graph, p.Assets, p.InputArity, p.AudioMap)
		if err != nil {
			return nil, err
		}
		passes[i] = done
	}
	return passes, nil
}

func cloneProgram(p *Program) *Program {
	cp := *p
	cp.Graph = p.Graph.Clone()
	cp.Assets = append([]string(nil), p.Assets...)
	return &cp
}
