package effects

import (
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBlurGlowDefaults(t *testing.T) {
	s := NewBlurGlowState(NewLibrary())

	cur := s.Current()
	assert.Equal(t, "blur", cur.Mode)
	assert.Equal(t, "gaussian", cur.BlurType)
	assert.Equal(t, 5.0, cur.Radius)
	assert.Equal(t, 1.0, cur.Intensity)
	assert.Nil(t, cur.Region)
}

func TestBlurGlowSetters(t *testing.T) {
	s := NewBlurGlowState(NewLibrary())

	s.SetRadius(60)
	assert.Equal(t, 50.0, s.Current().Radius)

	s.SetRadius(-5)
	assert.Equal(t, 0.0, s.Current().Radius)

	s.SetIntensity(1.5)
	assert.Equal(t, 1.0, s.Current().Intensity)

	assert.ErrorIs(t, s.SetMode("sharpen"), ErrInvalidParameter)
	require.NoError(t, s.SetMode("glow"))

	assert.ErrorIs(t, s.SetBlurType("bokeh"), ErrNotFound)
	require.NoError(t, s.SetBlurType("box"))

	require.NoError(t, s.SetIntensityPreset("strong"))
	assert.Equal(t, 0.75, s.Current().Intensity)
	assert.ErrorIs(t, s.SetIntensityPreset("nope"), ErrNotFound)

	s.SetRegion(Rect{X: -0.5, Y: 0.2, W: 2, H: 0.3})
	require.NotNil(t, s.Current().Region)
	assert.Equal(t, Rect{X: 0, Y: 0.2, W: 1, H: 0.3}, *s.Current().Region)

	s.ClearRegion()
	assert.Nil(t, s.Current().Region)
}

func TestBlurGlowSnapshotIsolation(t *testing.T) {
	s := NewBlurGlowState(NewLibrary())
	s.SetRegion(Rect{X: 0.1, Y: 0.1, W: 0.5, H: 0.5})

	snap := s.Current()
	s.SetRegion(Rect{X: 0.9, Y: 0.9, W: 0.1, H: 0.1})

	assert.Equal(t, 0.1, snap.Region.X, "snapshot region survives later mutation")
}

func TestBlurGlowCompile(t *testing.T) {
	lib := NewLibrary()
	comp := NewCompiler(lib)

	t.Run("full frame gaussian", func(t *testing.T) {
		s := NewBlurGlowState(lib)

		prog, err := comp.Compile(s.Current())
		require.NoError(t, err)
		assert.Equal(t, "gblur=sigma=5", prog.Text)
		assert.True(t, prog.Graph.Simple())
	})

	t.Run("box radius converts to integer", func(t *testing.T) {
		s := NewBlurGlowState(lib)
		require.NoError(t, s.SetBlurType("box"))
		s.SetRadius(5)

		prog, err := comp.Compile(s.Current())
		require.NoError(t, err)
		assert.Equal(t, "boxblur=luma_radius=3", prog.Text)
	})

	t.Run("median radius converts to integer", func(t *testing.T) {
		s := NewBlurGlowState(lib)
		require.NoError(t, s.SetBlurType("median"))
		s.SetRadius(8)

		prog, err := comp.Compile(s.Current())
		require.NoError(t, err)
		assert.Equal(t, "median=radius=2", prog.Text)
	})

	t.Run("partial intensity splits and blends once", func(t *testing.T) {
		s := NewBlurGlowState(lib)
		s.SetIntensity(0.5)

		prog, err := comp.Compile(s.Current())
		require.NoError(t, err)

		assert.Equal(t, 1, strings.Count(prog.Text, "split"))
		assert.Equal(t, 1, strings.Count(prog.Text, "blend"))
		shape := regexp.MustCompile(
			`^split\[main\d+\]\[fx\d+\];` +
				`\[fx\d+\]gblur=sigma=5\[mix\d+\];` +
				`\[main\d+\]\[mix\d+\]blend=all_expr='A\*\(1-0\.5\)\+B\*0\.5'$`)
		assert.Regexp(t, shape, prog.Text)
	})

	t.Run("glow screens the halo", func(t *testing.T) {
		s := NewBlurGlowState(lib)
		require.NoError(t, s.SetMode("glow"))
		s.SetRadius(10)
		s.SetIntensity(0.6)

		prog, err := comp.Compile(s.Current())
		require.NoError(t, err)

		assert.Contains(t, prog.Text, "gblur=sigma=10")
		assert.Contains(t, prog.Text, "blend=all_mode=screen:all_opacity=0.6")
		assert.Equal(t, 1, strings.Count(prog.Text, "split"))
	})

	t.Run("region composites the blurred patch", func(t *testing.T) {
		s := NewBlurGlowState(lib)
		s.SetRegion(Rect{X: 0.5, Y: 0.5, W: 0.25, H: 0.25})

		prog, err := comp.Compile(s.Current())
		require.NoError(t, err)

		assert.Contains(t, prog.Text, "crop=w=iw*0.25:h=ih*0.25:x=iw*0.5:y=ih*0.5")
		assert.Contains(t, prog.Text, "gblur=sigma=5")
		assert.Contains(t, prog.Text, "overlay=x=main_w*0.5:y=main_h*0.5")
	})

	t.Run("region wins over partial intensity", func(t *testing.T) {
		s := NewBlurGlowState(lib)
		s.SetRegion(Rect{X: 0, Y: 0, W: 0.5, H: 0.5})
		s.SetIntensity(0.5)

		prog, err := comp.Compile(s.Current())
		require.NoError(t, err)

		assert.Contains(t, prog.Text, "overlay")
		assert.NotContains(t, prog.Text, "all_expr")
	})
}

func TestBlurGlowCompileRejectsOutOfRange(t *testing.T) {
	comp := NewCompiler(NewLibrary())

	p := defaultBlurGlow()
	p.Radius = 120

	_, err := comp.Compile(p)
	assert.ErrorIs(t, err, ErrInvariant)
}
