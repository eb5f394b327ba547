package engine

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Blackmvmba88/VIdeoEditor-sub003/pkg/effects"
)

func TestBuildArgsSimple(t *testing.T) {
	lib := effects.NewLibrary()
	comp := effects.NewCompiler(lib)
	eng := New()

	grade := effects.NewColorGradeState(lib)
	grade.SetSaturation(1.2)
	prog, err := comp.Compile(grade.Current())
	require.NoError(t, err)

	args, err := eng.BuildArgs(prog, []string{"in.mp4"}, "out.mp4")
	require.NoError(t, err)

	assert.Equal(t, []string{
		"-hide_banner", "-y",
		"-i", "in.mp4",
		"-vf", "eq=saturation=1.2",
		"out.mp4",
	}, args)
}

func TestBuildArgsComplex(t *testing.T) {
	lib := effects.NewLibrary()
	comp := effects.NewCompiler(lib)
	eng := New()

	blur := effects.NewBlurGlowState(lib)
	blur.SetIntensity(0.5)
	prog, err := comp.Compile(blur.Current())
	require.NoError(t, err)

	args, err := eng.BuildArgs(prog, []string{"in.mp4"}, "out.mp4")
	require.NoError(t, err)

	// Labeled graphs go through the complex filter path. The terminal is
	// unlabeled here, so auto-mapping applies and no -map is emitted.
	assert.Equal(t, []string{"-hide_banner", "-y", "-i", "in.mp4"}, args[:4])
	assert.Equal(t, "-filter_complex", args[4])
	assert.Equal(t, prog.Text, args[5])
	assert.NotContains(t, args, "-map")
	assert.Equal(t, "out.mp4", args[len(args)-1])
}

func TestBuildArgsComposite(t *testing.T) {
	lib := effects.NewLibrary()
	comp := effects.NewCompiler(lib)
	eng := New()

	prog, err := comp.Composite(effects.CompositeOptions{
		Key:              effects.NewChromaKeyState(lib).Current(),
		AudioPassthrough: true,
	})
	require.NoError(t, err)

	args, err := eng.BuildArgs(prog, []string{"bg.mp4", "fg.mp4"}, "out.mp4")
	require.NoError(t, err)

	assert.Equal(t, []string{
		"-hide_banner", "-y",
		"-i", "bg.mp4",
		"-i", "fg.mp4",
	}, args[:6])
	assert.Equal(t, "-filter_complex", args[6])
	assert.Equal(t, prog.Text, args[7])
	assert.Equal(t, "-map", args[8])
	assert.Equal(t, "["+prog.Graph.TerminalOutput()+"]", args[9])
	assert.Equal(t, []string{"-map", "1:a?", "-c:a", "copy", "out.mp4"}, args[10:])
}

func TestBuildArgsValidation(t *testing.T) {
	lib := effects.NewLibrary()
	comp := effects.NewCompiler(lib)
	eng := New()

	grade, err := comp.Compile(effects.NewColorGradeState(lib).Current())
	require.NoError(t, err)
	composite, err := comp.Composite(effects.CompositeOptions{
		Key: effects.NewChromaKeyState(lib).Current(),
	})
	require.NoError(t, err)

	tests := []struct {
		name   string
		prog   *effects.Program
		inputs []string
		output string
	}{
		{"nil program", nil, []string{"in.mp4"}, "out.mp4"},
		{"missing input", grade, nil, "out.mp4"},
		{"arity mismatch", composite, []string{"bg.mp4"}, "out.mp4"},
		{"too many inputs", grade, []string{"a.mp4", "b.mp4"}, "out.mp4"},
		{"empty output", grade, []string{"in.mp4"}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := eng.BuildArgs(tt.prog, tt.inputs, tt.output)
			assert.ErrorIs(t, err, effects.ErrInvalidParameter)
		})
	}
}

func TestInsertProgressArgs(t *testing.T) {
	got := insertProgressArgs([]string{"-hide_banner", "-y", "-i", "in.mp4", "out.mp4"})
	assert.Equal(t, []string{
		"-hide_banner", "-y",
		"-progress", "pipe:1", "-nostats",
		"-i", "in.mp4",
		"out.mp4",
	}, got)
}

func TestErrorMessage(t *testing.T) {
	err := &Error{
		Bin:      "ffmpeg",
		Args:     []string{"-i", "in.mp4", "out.mp4"},
		Stderr:   "line1\nline2\nline3\nline4\nNo such file or directory",
		ExitCode: 1,
		Err:      errors.New("exit status 1"),
	}

	msg := err.Error()
	assert.Contains(t, msg, "exit status 1")
	assert.Contains(t, msg, "No such file or directory")
	assert.NotContains(t, msg, "line1", "message keeps only the tail of stderr")

	assert.Equal(t, "line1\nline2\nline3\nline4\nNo such file or directory", err.Diagnostic())
	assert.Equal(t, "ffmpeg -i in.mp4 out.mp4", err.Command())
	assert.EqualError(t, err.Unwrap(), "exit status 1")
}

func TestProgressParsing(t *testing.T) {
	parser := NewProgressParser()

	lines := []string{
		"frame=100",
		"fps=30.5",
		"bitrate=1234.5kbits/s",
		"total_size=12345678",
		"out_time_us=5000000",
		"speed=2.5x",
		"progress=continue",
	}

	var complete bool
	for _, line := range lines {
		if parser.ParseLine(line) {
			complete = true
		}
	}

	require.True(t, complete, "expected complete progress update")

	p := parser.Current()
	assert.Equal(t, int64(100), p.Frame)
	assert.Equal(t, 30.5, p.FPS)
	assert.Equal(t, "1234.5kbits/s", p.Bitrate)
	assert.Equal(t, int64(12345678), p.TotalSize)
	assert.Equal(t, int64(5000000), p.OutTimeUS)
	assert.Equal(t, int64(5000), p.OutTimeMS())
	assert.Equal(t, 5.0, p.OutTimeSeconds())
	assert.Equal(t, "2.5x", p.Speed)
	assert.Equal(t, "continue", p.Progress)

	assert.InDelta(t, 50.0, p.PercentOf(10), 1e-9)
	assert.Equal(t, 100.0, p.PercentOf(2), "percentage is capped")
	assert.Equal(t, 0.0, p.PercentOf(0))

	parser.Reset()
	assert.Equal(t, Progress{}, parser.Current())
}

func TestParseFrameRate(t *testing.T) {
	tests := []struct {
		rate string
		want float64
	}{
		{"30/1", 30},
		{"30000/1001", 29.97002997002997},
		{"0/0", 0},
		{"garbage", 0},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, parseFrameRate(tt.rate))
	}
}

func TestYUVToStats(t *testing.T) {
	gray := yuvToStats(128, 128, 128)
	assert.InDelta(t, 128, gray.MeanR, 1e-9)
	assert.InDelta(t, 128, gray.MeanG, 1e-9)
	assert.InDelta(t, 128, gray.MeanB, 1e-9)

	// Pure red in BT.601 plane averages.
	red := yuvToStats(76.245, 84.972, 255.5)
	assert.InDelta(t, 255, red.MeanR, 0.5)
	assert.InDelta(t, 0, red.MeanG, 0.5)
	assert.InDelta(t, 0, red.MeanB, 0.5)

	// Out-of-range conversions clamp instead of wrapping.
	hot := yuvToStats(250, 128, 255)
	assert.Equal(t, 255.0, hot.MeanR)
}

func TestEscapeLavfiPath(t *testing.T) {
	assert.Equal(t, `/media/clip.mp4`, escapeLavfiPath("/media/clip.mp4"))
	assert.Equal(t, `C\:\\media\\clip.mp4`, escapeLavfiPath(`C:\media\clip.mp4`))
}

// =============================================================================
// Integration tests - require the media binaries to be installed
// =============================================================================

func requireBinaries(t *testing.T) {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	for _, bin := range []string{"ffmpeg", "ffprobe"} {
		if _, err := exec.LookPath(bin); err != nil {
			t.Skipf("%s not installed", bin)
		}
	}
}

// generateClip renders a short test-pattern clip for integration tests.
func generateClip(t *testing.T, dir string, duration time.Duration) string {
	t.Helper()

	output := filepath.Join(dir, "input.mp4")
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	eng := New()
	proc, err := eng.start(ctx, []string{
		"-hide_banner", "-y",
		"-f", "lavfi", "-i", "testsrc2=duration=" + strconv.FormatFloat(duration.Seconds(), 'f', 3, 64) + ":size=320x240:rate=30",
		"-c:v", "libx264", "-preset", "ultrafast", "-crf", "28",
		"-pix_fmt", "yuv420p",
		output,
	}, nil)
	require.NoError(t, err)
	require.NoError(t, proc.Wait(), "stderr: %s", proc.Stderr())

	return output
}

func TestIntegration_ExecuteGrade(t *testing.T) {
	requireBinaries(t)

	dir := t.TempDir()
	input := generateClip(t, dir, 2*time.Second)
	output := filepath.Join(dir, "graded.mp4")

	lib := effects.NewLibrary()
	comp := effects.NewCompiler(lib)
	grade := effects.NewColorGradeState(lib)
	require.NoError(t, grade.ApplyPreset("warm"))
	prog, err := comp.Compile(grade.Current())
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	var updates []Progress
	written, err := New().Execute(ctx, prog, []string{input}, output, func(p Progress) {
		updates = append(updates, p)
	})
	require.NoError(t, err)
	assert.Equal(t, output, written)

	info, err := os.Stat(output)
	require.NoError(t, err, "output file not created")
	assert.Greater(t, info.Size(), int64(0))
	require.NotEmpty(t, updates, "should receive progress updates")
	assert.Equal(t, "end", updates[len(updates)-1].Progress)
}

func TestIntegration_AnalyzeFrame(t *testing.T) {
	requireBinaries(t)

	dir := t.TempDir()
	input := filepath.Join(dir, "red.mp4")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	eng := New()
	proc, err := eng.start(ctx, []string{
		"-hide_banner", "-y",
		"-f", "lavfi", "-i", "color=red:size=64x64:duration=1:rate=30",
		"-c:v", "libx264", "-preset", "ultrafast",
		"-pix_fmt", "yuv420p",
		input,
	}, nil)
	require.NoError(t, err)
	require.NoError(t, proc.Wait(), "stderr: %s", proc.Stderr())

	stats, err := eng.AnalyzeFrame(ctx, input, 0.5)
	require.NoError(t, err)

	assert.Greater(t, stats.MeanR, 200.0, "red clip should be red-dominant: %+v", stats)
	assert.Less(t, stats.MeanG, 80.0)
	assert.Less(t, stats.MeanB, 80.0)
}

func TestIntegration_ExecuteFailure(t *testing.T) {
	requireBinaries(t)

	lib := effects.NewLibrary()
	comp := effects.NewCompiler(lib)
	prog, err := comp.Compile(effects.NewColorGradeState(lib).Current())
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	_, err = New().Execute(ctx, prog, []string{"/nonexistent/input.mp4"}, filepath.Join(t.TempDir(), "out.mp4"), nil)
	require.Error(t, err)

	var engErr *Error
	require.ErrorAs(t, err, &engErr)
	assert.NotEmpty(t, engErr.Diagnostic())
	assert.NotEqual(t, 0, engErr.ExitCode)
}
