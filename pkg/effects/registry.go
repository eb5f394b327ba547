package effects

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/afero"
)

type entry[T any] struct {
	def     T
	builtin bool
}

// catalog is an insertion-ordered keyed registry. Built-in entries are
// loaded once and cannot be removed; custom entries can.
type catalog[T any] struct {
	kind    string
	entries map[string]entry[T]
	order   []string
}

func newCatalog[T any](kind string) *catalog[T] {
	return &catalog[T]{kind: kind, entries: map[string]entry[T]{}}
}

func (c *catalog[T]) add(id string, def T, builtin bool) error {
	if _, ok := c.entries[id]; ok {
		return fmt.Errorf("%w: %s %q", ErrAlreadyExists, c.kind, id)
	}
	c.entries[id] = entry[T]{def: def, builtin: builtin}
	c.order = append(c.order, id)
	return nil
}

// mustAdd registers a built-in entry and panics on collision. Catalog
// load only.
func (c *catalog[T]) mustAdd(id string, def T) {
	if err := c.add(id, def, true); err != nil {
		panic(err)
	}
}

func (c *catalog[T]) get(id string) (T, error) {
	e, ok := c.entries[id]
	if !ok {
		var zero T
		return zero, fmt.Errorf("%w: %s %q", ErrNotFound, c.kind, id)
	}
	return e.def, nil
}

func (c *catalog[T]) list() []T {
	out := make([]T, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, c.entries[id].def)
	}
	return out
}

func (c *catalog[T]) remove(id string) error {
	e, ok := c.entries[id]
	if !ok {
		return fmt.Errorf("%w: %s %q", ErrNotFound, c.kind, id)
	}
	if e.builtin {
		return fmt.Errorf("%w: built-in %s %q cannot be removed", ErrInvalidParameter, c.kind, id)
	}
	delete(c.entries, id)
	for i, oid := range c.order {
		if oid == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	return nil
}

// Library is the effect registry: every catalog the compiler and the
// state objects resolve against, plus the import surface for file-backed
// LUTs.
type Library struct {
	fs       afero.Fs
	maxAsset int64
	log      *slog.Logger

	grading     *catalog[GradingPreset]
	keys        *catalog[KeyColor]
	chroma      *catalog[ChromaPreset]
	luts        *catalog[LUTDefinition]
	blurs       *catalog[BlurType]
	scopes      *catalog[ScopeType]
	matches     *catalog[MatchMethod]
	intensities *catalog[IntensityPreset]
}

// LibraryOption configures a Library.
type LibraryOption func(*Library)

// WithFS sets the filesystem used for asset import checks.
func WithFS(fs afero.Fs) LibraryOption {
	return func(l *Library) { l.fs = fs }
}

// WithMaxAssetSize caps imported asset files at n bytes. Zero means no
// cap.
func WithMaxAssetSize(n int64) LibraryOption {
	return func(l *Library) { l.maxAsset = n }
}

// WithLibraryLogger sets the logger for import diagnostics.
func WithLibraryLogger(log *slog.Logger) LibraryOption {
	return func(l *Library) { l.log = log }
}

// NewLibrary returns a Library pre-populated with all built-in catalogs.
func NewLibrary(opts ...LibraryOption) *Library {
	l := &Library{
		fs:          afero.NewOsFs(),
		log:         slog.Default(),
		grading:     newCatalog[GradingPreset]("grading preset"),
		keys:        newCatalog[KeyColor]("key color"),
		chroma:      newCatalog[ChromaPreset]("chroma preset"),
		luts:        newCatalog[LUTDefinition]("lut"),
		blurs:       newCatalog[BlurType]("blur type"),
		scopes:      newCatalog[ScopeType]("scope type"),
		matches:     newCatalog[MatchMethod]("match method"),
		intensities: newCatalog[IntensityPreset]("intensity preset"),
	}
	for _, opt := range opts {
		opt(l)
	}

	for _, p := range builtinGradingPresets() {
		l.grading.mustAdd(p.ID, p)
	}
	for _, k := range builtinKeyColors() {
		l.keys.mustAdd(k.ID, k)
	}
	for _, p := range builtinChromaPresets() {
		l.chroma.mustAdd(p.ID, p)
	}
	for _, d := range builtinLUTs() {
		l.luts.mustAdd(d.ID, d)
	}
	for _, b := range builtinBlurTypes() {
		l.blurs.mustAdd(b.ID, b)
	}
	for _, s := range builtinScopeTypes() {
		l.scopes.mustAdd(s.ID, s)
	}
	for _, m := range builtinMatchMethods() {
		l.matches.mustAdd(m.ID, m)
	}
	for _, p := range builtinIntensityPresets() {
		l.intensities.mustAdd(p.ID, p)
	}
	return l
}

// GradingPreset looks up a color-grading preset by id.
func (l *Library) GradingPreset(id string) (GradingPreset, error) { return l.grading.get(id) }

// GradingPresets lists every grading preset in registration order.
func (l *Library) GradingPresets() []GradingPreset { return l.grading.list() }

// RegisterGradingPreset adds a custom grading preset.
func (l *Library) RegisterGradingPreset(p GradingPreset) error {
	if err := p.validate(); err != nil {
		return fmt.Errorf("grading preset: %w", err)
	}
	return l.grading.add(p.ID, p, false)
}

// RemoveGradingPreset removes a custom grading preset.
func (l *Library) RemoveGradingPreset(id string) error { return l.grading.remove(id) }

// KeyColor looks up a built-in chroma key color by id.
func (l *Library) KeyColor(id string) (KeyColor, error) { return l.keys.get(id) }

// KeyColors lists the built-in chroma key colors.
func (l *Library) KeyColors() []KeyColor { return l.keys.list() }

// ChromaPreset looks up a chroma quality preset by id.
func (l *Library) ChromaPreset(id string) (ChromaPreset, error) { return l.chroma.get(id) }

// ChromaPresets lists every chroma quality preset.
func (l *Library) ChromaPresets() []ChromaPreset { return l.chroma.list() }

// RegisterChromaPreset adds a custom chroma quality preset.
func (l *Library) RegisterChromaPreset(p ChromaPreset) error {
	if err := p.validate(); err != nil {
		return fmt.Errorf("chroma preset: %w", err)
	}
	return l.chroma.add(p.ID, p, false)
}

// RemoveChromaPreset removes a custom chroma quality preset.
func (l *Library) RemoveChromaPreset(id string) error { return l.chroma.remove(id) }

// LUT looks up a LUT definition by id.
func (l *Library) LUT(id string) (LUTDefinition, error) { return l.luts.get(id) }

// LUTs lists every LUT definition, built-ins first.
func (l *Library) LUTs() []LUTDefinition { return l.luts.list() }

// RegisterLUT adds a LUT definition directly, bypassing file import. The
// definition must carry either an equivalent filter chain or a file path.
func (l *Library) RegisterLUT(d LUTDefinition) error {
	if err := d.validate(); err != nil {
		return fmt.Errorf("lut: %w", err)
	}
	return l.luts.add(d.ID, d, false)
}

// RemoveLUT removes a custom LUT.
func (l *Library) RemoveLUT(id string) error { return l.luts.remove(id) }

// BlurType looks up a blur type by id.
func (l *Library) BlurType(id string) (BlurType, error) { return l.blurs.get(id) }

// BlurTypes lists the blur types.
func (l *Library) BlurTypes() []BlurType { return l.blurs.list() }

// ScopeType looks up a scope type by id.
func (l *Library) ScopeType(id string) (ScopeType, error) { return l.scopes.get(id) }

// ScopeTypes lists the scope types.
func (l *Library) ScopeTypes() []ScopeType { return l.scopes.list() }

// MatchMethod looks up a color-match method by id.
func (l *Library) MatchMethod(id string) (MatchMethod, error) { return l.matches.get(id) }

// MatchMethods lists the color-match methods.
func (l *Library) MatchMethods() []MatchMethod { return l.matches.list() }

// IntensityPreset looks up an intensity preset by id.
func (l *Library) IntensityPreset(id string) (IntensityPreset, error) { return l.intensities.get(id) }

// IntensityPresets lists the intensity presets.
func (l *Library) IntensityPresets() []IntensityPreset { return l.intensities.list() }

// lutExtensions are the only accepted import formats, matched
// case-insensitively.
var lutExtensions = []string{".cube", ".3dl"}

// ImportLUT registers a file-backed LUT. The extension must be one of the
// accepted formats, the file must exist on the library's filesystem, and
// it must fit the configured size cap. Nothing is registered on failure.
func (l *Library) ImportLUT(path string) (LUTDefinition, error) {
	ext := strings.ToLower(filepath.Ext(path))
	allowed := false
	for _, e := range lutExtensions {
		if ext == e {
			allowed = true
			break
		}
	}
	if !allowed {
		return LUTDefinition{}, fmt.Errorf("%w: %q (accepted: %s)", ErrUnsupportedFormat, ext, strings.Join(lutExtensions, ", "))
	}

	ok, err := afero.Exists(l.fs, path)
	if err != nil {
		return LUTDefinition{}, fmt.Errorf("import lut %s: %w", path, err)
	}
	if !ok {
		return LUTDefinition{}, fmt.Errorf("%w: lut file %q", ErrNotFound, path)
	}

	if l.maxAsset > 0 {
		fi, err := l.fs.Stat(path)
		if err != nil {
			return LUTDefinition{}, fmt.Errorf("import lut %s: %w", path, err)
		}
		if fi.Size() > l.maxAsset {
			return LUTDefinition{}, fmt.Errorf("%w: lut file size %d exceeds limit %d", ErrInvalidParameter, fi.Size(), l.maxAsset)
		}
	}

	stem := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	def := LUTDefinition{
		ID:       slugify(stem),
		Name:     stem,
		FilePath: path,
	}
	if err := l.luts.add(def.ID, def, false); err != nil {
		return LUTDefinition{}, err
	}
	l.log.Debug("lut imported", "id", def.ID, "path", path)
	return def, nil
}

// BatchError is one failed item of a best-effort batch operation.
type BatchError struct {
	Path string
	Err  error
}

// BatchResult collects per-item outcomes of a batch import. The batch
// never aborts; failures land here instead.
type BatchResult struct {
	Imported []LUTDefinition
	Errors   []BatchError
}

// AllOK reports whether every item succeeded.
func (r BatchResult) AllOK() bool { return len(r.Errors) == 0 }

// ImportLUTBatch imports each path best-effort, collecting per-item
// errors instead of stopping at the first failure.
func (l *Library) ImportLUTBatch(paths []string) BatchResult {
	var res BatchResult
	for _, p := range paths {
		def, err := l.ImportLUT(p)
		if err != nil {
			res.Errors = append(res.Errors, BatchError{Path: p, Err: err})
			continue
		}
		res.Imported = append(res.Imported, def)
	}
	return res
}

// ScanDir imports every accepted LUT file directly under dir,
// best-effort. Unreadable directories yield an empty result with one
// error entry.
func (l *Library) ScanDir(dir string) BatchResult {
	infos, err := afero.ReadDir(l.fs, dir)
	if err != nil {
		return BatchResult{Errors: []BatchError{{Path: dir, Err: err}}}
	}
	var paths []string
	for _, fi := range infos {
		if fi.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(fi.Name()))
		for _, e := range lutExtensions {
			if ext == e {
				paths = append(paths, filepath.Join(dir, fi.Name()))
				break
			}
		}
	}
	sort.Strings(paths)
	return l.ImportLUTBatch(paths)
}

// slugify lowercases s and collapses non-alphanumeric runs to single
// underscores, yielding a stable catalog id.
func slugify(s string) string {
	var b strings.Builder
	lastUnder := true
	for _, r := range strings.ToLower(s) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
			lastUnder = false
		default:
			if !lastUnder {
				b.WriteByte('_')
				lastUnder = true
			}
		}
	}
	return strings.TrimSuffix(b.String(), "_")
}
