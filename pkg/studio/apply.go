package studio

import (
	"context"
	"fmt"
	"os"

	"github.com/Blackmvmba88/VIdeoEditor-sub003/pkg/effects"
	"github.com/Blackmvmba88/VIdeoEditor-sub003/pkg/engine"
)

func (s *Session) inputExists(path string) error {
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("%w: input %q", effects.ErrNotFound, path)
	}
	return nil
}

// apply compiles one snapshot and renders it input -> output.
func (s *Session) apply(ctx context.Context, snap effects.Snapshot, input, output string, onProgress engine.ProgressFunc) error {
	if err := s.inputExists(input); err != nil {
		return err
	}
	prog, err := s.comp.Compile(snap)
	if err != nil {
		return err
	}

	s.log.Info("apply effect",
		"session", s.id,
		"family", prog.Family.String(),
		"input", input,
		"output", output)

	_, err = s.run.Execute(ctx, prog, []string{input}, output, onProgress)
	return err
}

// ApplyColorGrade renders the current grade onto input.
func (s *Session) ApplyColorGrade(ctx context.Context, input, output string, onProgress engine.ProgressFunc) error {
	return s.apply(ctx, s.grade.Current(), input, output, onProgress)
}

// ApplyChromaKey renders the current key as a single-input matte pass.
func (s *Session) ApplyChromaKey(ctx context.Context, input, output string, onProgress engine.ProgressFunc) error {
	return s.apply(ctx, s.chroma.Current(), input, output, onProgress)
}

// ApplyBlur renders the current blur or glow onto input.
func (s *Session) ApplyBlur(ctx context.Context, input, output string, onProgress engine.ProgressFunc) error {
	return s.apply(ctx, s.blur.Current(), input, output, onProgress)
}

// ApplyLUT renders the currently selected LUT onto input.
func (s *Session) ApplyLUT(ctx context.Context, input, output string, onProgress engine.ProgressFunc) error {
	return s.apply(ctx, s.lut.Current(), input, output, onProgress)
}

// ApplyScope renders the current scope view onto input.
func (s *Session) ApplyScope(ctx context.Context, input, output string, onProgress engine.ProgressFunc) error {
	return s.apply(ctx, s.scope.Current(), input, output, onProgress)
}

// ApplyColorMatch renders the correction derived from the analyzed
// frames onto input. Fails until both frames have been analyzed.
func (s *Session) ApplyColorMatch(ctx context.Context, input, output string, onProgress engine.ProgressFunc) error {
	return s.apply(ctx, s.match.Current(), input, output, onProgress)
}

// Composite keys the foreground with the session's chroma state and
// overlays it onto the background. With audioPassthrough the foreground
// audio is carried into the output when present.
func (s *Session) Composite(ctx context.Context, background, foreground, output string, audioPassthrough bool, onProgress engine.ProgressFunc) error {
	if err := s.inputExists(background); err != nil {
		return err
	}
	if err := s.inputExists(foreground); err != nil {
		return err
	}

	prog, err := s.comp.Composite(effects.CompositeOptions{
		Key:              s.chroma.Current(),
		AudioPassthrough: audioPassthrough,
	})
	if err != nil {
		return err
	}

	s.log.Info("composite",
		"session", s.id,
		"background", background,
		"foreground", foreground,
		"output", output,
		"audio", audioPassthrough)

	_, err = s.run.Execute(ctx, prog, []string{background, foreground}, output, onProgress)
	return err
}

// AnalyzeColorMatch captures frame statistics from the reference and
// source clips at the given timestamp and stores them in the color-match
// state, ready to compile.
func (s *Session) AnalyzeColorMatch(ctx context.Context, referencePath, sourcePath string, atSeconds float64) error {
	if s.analyze == nil {
		return fmt.Errorf("%w: no analyzer configured", effects.ErrInvalidState)
	}
	if err := s.inputExists(referencePath); err != nil {
		return err
	}
	if err := s.inputExists(sourcePath); err != nil {
		return err
	}

	ref, err := s.analyze.AnalyzeFrame(ctx, referencePath, atSeconds)
	if err != nil {
		return err
	}
	src, err := s.analyze.AnalyzeFrame(ctx, sourcePath, atSeconds)
	if err != nil {
		return err
	}

	s.match.SetReferenceStats(ref)
	s.match.SetSourceStats(src)

	s.log.Info("frames analyzed",
		"session", s.id,
		"reference", referencePath,
		"source", sourcePath,
		"at_seconds", atSeconds)
	return nil
}

// ImportLUTs imports each path into the session's library, best-effort.
func (s *Session) ImportLUTs(paths ...string) effects.BatchResult {
	res := s.lib.ImportLUTBatch(paths)
	for _, be := range res.Errors {
		s.log.Warn("lut import failed", "path", be.Path, "err", be.Err)
	}
	if len(res.Imported) > 0 {
		s.log.Info("luts imported", "session", s.id, "count", len(res.Imported))
	}
	return res
}
