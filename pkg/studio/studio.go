// Package studio ties the effect engine together for editing sessions:
// per-family state, compilation, pass planning, and dispatch to a render
// runner. A Session is the unit a caller holds for one edited clip.
package studio

import (
	"context"
	"log/slog"
	"os"

	"github.com/google/uuid"

	"github.com/Blackmvmba88/VIdeoEditor-sub003/internal/config"
	"github.com/Blackmvmba88/VIdeoEditor-sub003/pkg/effects"
	"github.com/Blackmvmba88/VIdeoEditor-sub003/pkg/engine"
	"github.com/Blackmvmba88/VIdeoEditor-sub003/pkg/plugins"
)

// Runner renders a compiled program, returning the written output path.
// Satisfied by *engine.Engine; tests substitute fakes.
type Runner interface {
	Execute(ctx context.Context, prog *effects.Program, inputs []string, output string, onProgress engine.ProgressFunc) (string, error)
}

// Analyzer measures frame statistics for color matching. Satisfied by
// *engine.Engine.
type Analyzer interface {
	AnalyzeFrame(ctx context.Context, path string, atSeconds float64) (effects.FrameStats, error)
}

// Session is one editing session: the per-family effect states plus the
// machinery to compile and render them. Sessions are single-owner; use
// one per goroutine.
type Session struct {
	id      string
	lib     *effects.Library
	comp    *effects.Compiler
	plan    *effects.Planner
	run     Runner
	analyze Analyzer
	hooks   *plugins.Registry
	workDir string
	log     *slog.Logger

	grade  *effects.ColorGradeState
	chroma *effects.ChromaKeyState
	blur   *effects.BlurGlowState
	lut    *effects.LUTState
	scope  *effects.ScopeState
	match  *effects.ColorMatchState
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithLibrary uses a shared effect library instead of a fresh one.
func WithLibrary(lib *effects.Library) SessionOption {
	return func(s *Session) { s.lib = lib }
}

// WithWorkDir sets the scratch directory for multi-pass renders.
func WithWorkDir(dir string) SessionOption {
	return func(s *Session) {
		if dir != "" {
			s.workDir = dir
		}
	}
}

// WithLogger sets the session logger.
func WithLogger(log *slog.Logger) SessionOption {
	return func(s *Session) { s.log = log }
}

// WithAnalyzer wires frame analysis for color matching.
func WithAnalyzer(a Analyzer) SessionOption {
	return func(s *Session) { s.analyze = a }
}

// New creates a session dispatching renders to run.
func New(run Runner, opts ...SessionOption) *Session {
	s := &Session{
		id:      uuid.NewString(),
		run:     run,
		workDir: os.TempDir(),
		log:     slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.lib == nil {
		s.lib = effects.NewLibrary()
	}

	s.comp = effects.NewCompiler(s.lib)
	s.plan = effects.NewPlanner()
	s.hooks = plugins.NewRegistry()
	s.grade = effects.NewColorGradeState(s.lib)
	s.chroma = effects.NewChromaKeyState(s.lib)
	s.blur = effects.NewBlurGlowState(s.lib)
	s.lut = effects.NewLUTState(s.lib)
	s.scope = effects.NewScopeState(s.lib)
	s.match = effects.NewColorMatchState(s.lib)
	return s
}

// NewFromEnv builds a fully wired session from the process environment:
// engine binaries, LUT directory scan, size caps, and scratch space.
func NewFromEnv(ctx context.Context) (*Session, error) {
	cfg, err := config.LoadConfig(ctx)
	if err != nil {
		return nil, err
	}
	slog.SetLogLoggerLevel(cfg.SlogLevel())
	maxBytes, err := cfg.LUTMaxBytes()
	if err != nil {
		return nil, err
	}

	eng := engine.New(engine.WithBinaries(cfg.FFmpegPath, cfg.FFprobePath))
	lib := effects.NewLibrary(effects.WithMaxAssetSize(maxBytes))

	if cfg.LUTDir != "" {
		res := lib.ScanDir(cfg.LUTDir)
		for _, be := range res.Errors {
			slog.Warn("lut scan failed", "path", be.Path, "err", be.Err)
		}
		slog.Info("lut directory scanned", "dir", cfg.LUTDir, "imported", len(res.Imported))
	}

	return New(eng,
		WithLibrary(lib),
		WithWorkDir(cfg.WorkDir),
		WithAnalyzer(eng),
	), nil
}

// ID returns the session id.
func (s *Session) ID() string { return s.id }

// Library returns the effect library the session resolves against.
func (s *Session) Library() *effects.Library { return s.lib }

// Grade returns the color-grading state.
func (s *Session) Grade() *effects.ColorGradeState { return s.grade }

// Chroma returns the chroma-key state.
func (s *Session) Chroma() *effects.ChromaKeyState { return s.chroma }

// Blur returns the blur/glow state.
func (s *Session) Blur() *effects.BlurGlowState { return s.blur }

// LUT returns the LUT state.
func (s *Session) LUT() *effects.LUTState { return s.lut }

// Scope returns the video-scope state.
func (s *Session) Scope() *effects.ScopeState { return s.scope }

// Match returns the color-match state.
func (s *Session) Match() *effects.ColorMatchState { return s.match }

// Hooks returns the session's tool-hook registry. The session stores
// hooks; running them is up to the host.
func (s *Session) Hooks() *plugins.Registry { return s.hooks }
