package effects

import (
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLUTStateSelection(t *testing.T) {
	lib := NewLibrary()
	s := NewLUTState(lib)

	assert.Empty(t, s.Current().LUTID)
	assert.Equal(t, 1.0, s.Current().Intensity)

	assert.ErrorIs(t, s.SetLUT("nope"), ErrNotFound)
	assert.Empty(t, s.Current().LUTID)

	require.NoError(t, s.SetLUT("film_noir"))
	assert.Equal(t, "film_noir", s.Current().LUTID)

	s.SetIntensity(2)
	assert.Equal(t, 1.0, s.Current().Intensity)

	require.NoError(t, s.SetIntensityPreset("subtle"))
	assert.Equal(t, 0.25, s.Current().Intensity)

	s.Clear()
	assert.Empty(t, s.Current().LUTID)
	assert.Equal(t, 0.25, s.Current().Intensity, "clear keeps intensity")

	s.Reset()
	assert.Equal(t, 1.0, s.Current().Intensity)
}

func TestLUTCompileNeedsSelection(t *testing.T) {
	comp := NewCompiler(NewLibrary())

	_, err := comp.Compile(defaultLUT())
	assert.ErrorIs(t, err, ErrInvalidState)
}

func TestLUTCompileBuiltin(t *testing.T) {
	lib := NewLibrary()
	comp := NewCompiler(lib)

	s := NewLUTState(lib)
	require.NoError(t, s.SetLUT("cinematic_warm"))

	prog, err := comp.Compile(s.Current())
	require.NoError(t, err)

	// Full intensity renders the look's chain directly: no split, no
	// blend, no file reference.
	assert.Equal(t,
		"curves=preset=cross_process,"+
			"colorbalance=rs=0.08:gs=0.02:bs=-0.06:rm=0.05:gm=0.02:bm=-0.05:rh=0.03:gh=0:bh=-0.03,"+
			"eq=contrast=1.1:saturation=0.9",
		prog.Text)
	assert.True(t, prog.Graph.Simple())
	assert.Empty(t, prog.Assets)
	assert.NotContains(t, prog.Text, "split")
	assert.NotContains(t, prog.Text, "lut3d")
}

func TestLUTCompilePartialIntensity(t *testing.T) {
	lib := NewLibrary()
	comp := NewCompiler(lib)

	s := NewLUTState(lib)
	require.NoError(t, s.SetLUT("film_noir"))
	s.SetIntensity(0.5)

	prog, err := comp.Compile(s.Current())
	require.NoError(t, err)

	assert.Equal(t, 1, strings.Count(prog.Text, "split"))
	assert.Equal(t, 1, strings.Count(prog.Text, "blend"))
	assert.Contains(t, prog.Text, "A*(1-0.5)+B*0.5")
	assert.Contains(t, prog.Text, "hue=s=0")
}

func TestLUTCompileImportedFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/luts/kodak.cube", []byte("LUT_3D_SIZE 2\n"), 0644))

	lib := NewLibrary(WithFS(fs))
	comp := NewCompiler(lib)

	_, err := lib.ImportLUT("/luts/kodak.cube")
	require.NoError(t, err)

	s := NewLUTState(lib)
	require.NoError(t, s.SetLUT("kodak"))

	prog, err := comp.Compile(s.Current())
	require.NoError(t, err)

	assert.Equal(t, "lut3d=file='/luts/kodak.cube'", prog.Text)
	assert.Equal(t, []string{"/luts/kodak.cube"}, prog.Assets)
}

func TestLUTCompileImportedFilePartial(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/luts/kodak.cube", []byte("x"), 0644))

	lib := NewLibrary(WithFS(fs))
	comp := NewCompiler(lib)
	_, err := lib.ImportLUT("/luts/kodak.cube")
	require.NoError(t, err)

	s := NewLUTState(lib)
	require.NoError(t, s.SetLUT("kodak"))
	s.SetIntensity(0.75)

	prog, err := comp.Compile(s.Current())
	require.NoError(t, err)

	assert.Contains(t, prog.Text, "lut3d=file='/luts/kodak.cube'")
	assert.Contains(t, prog.Text, "A*(1-0.75)+B*0.75")
	assert.Equal(t, []string{"/luts/kodak.cube"}, prog.Assets,
		"assets carry through the mix wrapper")
}
