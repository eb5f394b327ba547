package effects

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLibraryBuiltins(t *testing.T) {
	lib := NewLibrary()

	assert.Len(t, lib.GradingPresets(), 5)
	assert.Len(t, lib.KeyColors(), 2)
	assert.Len(t, lib.ChromaPresets(), 3)
	assert.Len(t, lib.LUTs(), 8)
	assert.Len(t, lib.BlurTypes(), 3)
	assert.Len(t, lib.ScopeTypes(), 4)
	assert.Len(t, lib.MatchMethods(), 3)
	assert.Len(t, lib.IntensityPresets(), 5)

	// Listing order is registration order.
	assert.Equal(t, "green", lib.KeyColors()[0].ID)
	assert.Equal(t, "warm", lib.GradingPresets()[0].ID)

	p, err := lib.GradingPreset("warm")
	require.NoError(t, err)
	assert.Equal(t, "Warm", p.Name)

	_, err = lib.GradingPreset("nope")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestRegisterCustomGradingPreset(t *testing.T) {
	lib := NewLibrary()

	custom := GradingPreset{
		ID:      "client_look",
		Name:    "Client Look",
		Shadows: &RGB{R: 1.1, G: 1, B: 0.9},
	}
	require.NoError(t, lib.RegisterGradingPreset(custom))

	got, err := lib.GradingPreset("client_look")
	require.NoError(t, err)
	assert.Equal(t, "Client Look", got.Name)

	err = lib.RegisterGradingPreset(custom)
	assert.ErrorIs(t, err, ErrAlreadyExists)

	err = lib.RegisterGradingPreset(GradingPreset{ID: "no_name"})
	assert.ErrorIs(t, err, ErrMissingField)

	require.NoError(t, lib.RemoveGradingPreset("client_look"))
	err = lib.RemoveGradingPreset("client_look")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestBuiltinEntriesAreProtected(t *testing.T) {
	lib := NewLibrary()

	err := lib.RemoveGradingPreset("warm")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidParameter)

	err = lib.RemoveLUT("film_noir")
	assert.ErrorIs(t, err, ErrInvalidParameter)

	// Built-ins are still there afterwards.
	_, err = lib.GradingPreset("warm")
	assert.NoError(t, err)
}

func TestImportLUT(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/luts/Sunset Look.cube", []byte("LUT_3D_SIZE 2\n"), 0644))
	require.NoError(t, afero.WriteFile(fs, "/luts/GRADE.CUBE", []byte("LUT_3D_SIZE 2\n"), 0644))
	require.NoError(t, afero.WriteFile(fs, "/luts/print.3dl", []byte("0 0 0\n"), 0644))
	require.NoError(t, afero.WriteFile(fs, "/luts/readme.txt", []byte("not a lut"), 0644))

	lib := NewLibrary(WithFS(fs))

	def, err := lib.ImportLUT("/luts/Sunset Look.cube")
	require.NoError(t, err)
	assert.Equal(t, "sunset_look", def.ID)
	assert.Equal(t, "Sunset Look", def.Name)
	assert.Equal(t, "/luts/Sunset Look.cube", def.FilePath)
	assert.Empty(t, def.Nodes)

	got, err := lib.LUT("sunset_look")
	require.NoError(t, err)
	assert.Equal(t, def.FilePath, got.FilePath)

	// Extension matching is case-insensitive.
	_, err = lib.ImportLUT("/luts/GRADE.CUBE")
	assert.NoError(t, err)

	_, err = lib.ImportLUT("/luts/print.3dl")
	assert.NoError(t, err)

	_, err = lib.ImportLUT("/luts/readme.txt")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	_, err = lib.ImportLUT("/luts/missing.cube")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = lib.ImportLUT("/luts/Sunset Look.cube")
	assert.ErrorIs(t, err, ErrAlreadyExists)
}

func TestImportLUTSizeCap(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/luts/big.cube", make([]byte, 64), 0644))

	lib := NewLibrary(WithFS(fs), WithMaxAssetSize(16))

	_, err := lib.ImportLUT("/luts/big.cube")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidParameter)
	assert.Contains(t, err.Error(), "exceeds limit")
}

func TestImportLUTBatch(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/luts/a.cube", []byte("x"), 0644))
	require.NoError(t, afero.WriteFile(fs, "/luts/b.3dl", []byte("x"), 0644))

	lib := NewLibrary(WithFS(fs))

	res := lib.ImportLUTBatch([]string{"/luts/a.cube", "/luts/missing.cube", "/luts/b.3dl"})
	assert.False(t, res.AllOK())
	assert.Len(t, res.Imported, 2)
	require.Len(t, res.Errors, 1)
	assert.Equal(t, "/luts/missing.cube", res.Errors[0].Path)
	assert.ErrorIs(t, res.Errors[0].Err, ErrNotFound)
}

func TestScanDir(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/luts/b.cube", []byte("x"), 0644))
	require.NoError(t, afero.WriteFile(fs, "/luts/a.3dl", []byte("x"), 0644))
	require.NoError(t, afero.WriteFile(fs, "/luts/ignore.txt", []byte("x"), 0644))
	require.NoError(t, fs.MkdirAll("/luts/sub", 0755))

	lib := NewLibrary(WithFS(fs))

	res := lib.ScanDir("/luts")
	require.True(t, res.AllOK(), "errors: %v", res.Errors)
	require.Len(t, res.Imported, 2)
	// Lexicographic import order.
	assert.Equal(t, "a", res.Imported[0].ID)
	assert.Equal(t, "b", res.Imported[1].ID)

	bad := lib.ScanDir("/nope")
	assert.False(t, bad.AllOK())
	assert.Empty(t, bad.Imported)
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Sunset Look", "sunset_look"},
		{"GRADE", "grade"},
		{"Kodak 2383 (D65)", "kodak_2383_d65"},
		{"--weird--", "weird"},
		{"a  b", "a_b"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, slugify(tt.in))
	}
}
