package studio

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/Blackmvmba88/VIdeoEditor-sub003/pkg/effects"
	"github.com/Blackmvmba88/VIdeoEditor-sub003/pkg/engine"
)

// snapshotFor returns the current snapshot of one family's state.
func (s *Session) snapshotFor(f effects.Family) (effects.Snapshot, error) {
	switch f {
	case effects.FamilyColorGrade:
		return s.grade.Current(), nil
	case effects.FamilyChromaKey:
		return s.chroma.Current(), nil
	case effects.FamilyBlurGlow:
		return s.blur.Current(), nil
	case effects.FamilyLUT:
		return s.lut.Current(), nil
	case effects.FamilyScopes:
		return s.scope.Current(), nil
	case effects.FamilyColorMatch:
		return s.match.Current(), nil
	default:
		return nil, fmt.Errorf("%w: effect family %q", effects.ErrNotFound, f.String())
	}
}

// compileFamilies compiles the named families in order.
func (s *Session) compileFamilies(families []effects.Family) ([]*effects.Program, error) {
	stages := make([]*effects.Program, 0, len(families))
	for _, f := range families {
		snap, err := s.snapshotFor(f)
		if err != nil {
			return nil, err
		}
		prog, err := s.comp.Compile(snap)
		if err != nil {
			return nil, err
		}
		stages = append(stages, prog)
	}
	return stages, nil
}

// runPasses renders the planned passes in order, routing intermediate
// results through scratch files in the work directory. firstInputs feeds
// the first pass; every later pass reads the previous pass's output.
func (s *Session) runPasses(ctx context.Context, passes []*effects.Program, firstInputs []string, output string, onProgress engine.ProgressFunc) error {
	cur := firstInputs
	for i, pass := range passes {
		dst := output
		if i < len(passes)-1 {
			dst = filepath.Join(s.workDir, fmt.Sprintf("pass-%s-%d.mp4", uuid.NewString(), i))
			defer func(p string) {
				if err := os.Remove(p); err != nil && !os.IsNotExist(err) {
					s.log.Warn("scratch cleanup failed", "path", p, "err", err)
				}
			}(dst)
		}

		if len(cur) != pass.InputArity {
			return fmt.Errorf("%w: pass %d needs %d inputs, %d available",
				effects.ErrInvariant, i+1, pass.InputArity, len(cur))
		}
		written, err := s.run.Execute(ctx, pass, cur, dst, onProgress)
		if err != nil {
			return fmt.Errorf("chain pass %d: %w", i+1, err)
		}
		cur = []string{written}
	}
	return nil
}

// ApplyChain compiles the named families in order, folds them into as
// few render passes as the planner allows, and renders input -> output.
// With only single-input effects in the chain this is one engine
// invocation regardless of chain length.
func (s *Session) ApplyChain(ctx context.Context, input, output string, families []effects.Family, onProgress engine.ProgressFunc) error {
	if len(families) == 0 {
		return fmt.Errorf("%w: empty chain", effects.ErrInvalidParameter)
	}
	if err := s.inputExists(input); err != nil {
		return err
	}

	stages, err := s.compileFamilies(families)
	if err != nil {
		return err
	}
	passes, err := s.plan.Plan(stages, 1)
	if err != nil {
		return err
	}

	s.log.Info("chain planned",
		"session", s.id,
		"stages", len(stages),
		"passes", len(passes))

	return s.runPasses(ctx, passes, []string{input}, output, onProgress)
}

// CompositeChain keys the foreground over the background, then runs the
// given single-input families over the composite. The composite stage
// always renders as its own pass; the rest merge where they can.
func (s *Session) CompositeChain(ctx context.Context, background, foreground, output string, audioPassthrough bool, families []effects.Family, onProgress engine.ProgressFunc) error {
	if err := s.inputExists(background); err != nil {
		return err
	}
	if err := s.inputExists(foreground); err != nil {
		return err
	}

	composite, err := s.comp.Composite(effects.CompositeOptions{
		Key:              s.chroma.Current(),
		AudioPassthrough: audioPassthrough,
	})
	if err != nil {
		return err
	}

	stages := []*effects.Program{composite}
	rest, err := s.compileFamilies(families)
	if err != nil {
		return err
	}
	stages = append(stages, rest...)

	passes, err := s.plan.Plan(stages, 2)
	if err != nil {
		return err
	}

	s.log.Info("composite chain planned",
		"session", s.id,
		"stages", len(stages),
		"passes", len(passes))

	return s.runPasses(ctx, passes, []string{background, foreground}, output, onProgress)
}
