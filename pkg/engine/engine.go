// Package engine executes compiled filter-graph programs by driving the
// host media binaries. It owns process lifecycle, argument construction,
// progress parsing, and media analysis; it never decides what a program
// contains.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/Blackmvmba88/VIdeoEditor-sub003/pkg/effects"
)

// Engine renders compiled programs through the media binaries.
type Engine struct {
	ffmpeg  string
	ffprobe string
	log     *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithBinaries overrides the render and probe binary paths. Empty values
// keep the defaults.
func WithBinaries(ffmpeg, ffprobe string) Option {
	return func(e *Engine) {
		if ffmpeg != "" {
			e.ffmpeg = ffmpeg
		}
		if ffprobe != "" {
			e.ffprobe = ffprobe
		}
	}
}

// WithLogger sets the engine logger.
func WithLogger(log *slog.Logger) Option {
	return func(e *Engine) { e.log = log }
}

// New returns an Engine resolving binaries from PATH unless overridden.
func New(opts ...Option) *Engine {
	e := &Engine{ffmpeg: "ffmpeg", ffprobe: "ffprobe", log: slog.Default()}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ProgressFunc receives render progress updates.
type ProgressFunc func(Progress)

// BuildArgs translates one compiled program into an argument vector. The
// number of inputs must match the program's arity. A single-chain
// program with no pads renders as a per-stream filter; everything else
// goes through the complex filter path, mapping the labeled terminal pad
// and any declared audio stream.
func (e *Engine) BuildArgs(prog *effects.Program, inputs []string, output string) ([]string, error) {
	if prog == nil {
		return nil, fmt.Errorf("%w: nil program", effects.ErrInvalidParameter)
	}
	if len(inputs) != prog.InputArity {
		return nil, fmt.Errorf("%w: program needs %d inputs, got %d",
			effects.ErrInvalidParameter, prog.InputArity, len(inputs))
	}
	if output == "" {
		return nil, fmt.Errorf("%w: empty output path", effects.ErrInvalidParameter)
	}

	args := []string{"-hide_banner", "-y"}
	for _, in := range inputs {
		args = append(args, "-i", in)
	}

	if prog.Graph.Simple() && prog.AudioMap == "" {
		args = append(args, "-vf", prog.Text)
	} else {
		args = append(args, "-filter_complex", prog.Text)
		term := prog.Graph.TerminalOutput()
		if term != "" {
			args = append(args, "-map", "["+term+"]")
		}
		if prog.AudioMap != "" {
			// Any explicit map disables auto-mapping, so the video
			// terminal must carry a label we can map alongside.
			if term == "" {
				return nil, fmt.Errorf("%w: audio map without labeled terminal", effects.ErrInvariant)
			}
			args = append(args, "-map", prog.AudioMap, "-c:a", "copy")
		}
	}

	args = append(args, output)
	return args, nil
}

// Execute renders one program invocation: inputs through the compiled
// graph into output. onProgress, when non-nil, receives parsed progress
// updates until the process ends. On success the written output path is
// returned.
func (e *Engine) Execute(ctx context.Context, prog *effects.Program, inputs []string, output string, onProgress ProgressFunc) (string, error) {
	args, err := e.BuildArgs(prog, inputs, output)
	if err != nil {
		return "", err
	}

	e.log.Debug("render start",
		"family", prog.Family.String(),
		"inputs", len(inputs),
		"output", output,
		"filter", prog.Text)

	var progCh chan Progress
	if onProgress != nil {
		progCh = make(chan Progress, 16)
		args = insertProgressArgs(args)
	}

	proc, err := e.start(ctx, args, progCh)
	if err != nil {
		return "", err
	}
	if progCh != nil {
		for p := range progCh {
			onProgress(p)
		}
	}
	if err := proc.Wait(); err != nil {
		return "", err
	}

	if fi, statErr := os.Stat(output); statErr == nil {
		e.log.Info("render complete", "output", output, "size_bytes", fi.Size())
	} else {
		e.log.Info("render complete", "output", output)
	}
	return output, nil
}

// insertProgressArgs splices the progress flags in right after the
// banner flags, before the first input.
func insertProgressArgs(args []string) []string {
	out := []string{args[0], args[1], "-progress", "pipe:1", "-nostats"}
	return append(out, args[2:]...)
}
