// Package effects implements the video-effect engine core: parameter
// catalogs, validated per-family effect state, and the compiler that turns
// state snapshots into filter-graph programs for the media engine.
package effects

// Family identifies one effect family. Each editing session owns at most
// one state object per family.
type Family uint8

const (
	FamilyColorGrade Family = iota
	FamilyChromaKey
	FamilyBlurGlow
	FamilyLUT
	FamilyScopes
	FamilyColorMatch
)

// String returns the family's catalog name.
func (f Family) String() string {
	switch f {
	case FamilyColorGrade:
		return "color_grade"
	case FamilyChromaKey:
		return "chroma_key"
	case FamilyBlurGlow:
		return "blur_glow"
	case FamilyLUT:
		return "lut"
	case FamilyScopes:
		return "scopes"
	case FamilyColorMatch:
		return "color_match"
	default:
		return "unknown"
	}
}

// RGB is a per-channel value triplet. For grading multipliers 1.0 is
// identity on every channel.
type RGB struct {
	R float64
	G float64
	B float64
}

// Rect is a normalized frame region: origin top-left, all fields in
// [0, 1] relative to frame width/height.
type Rect struct {
	X float64
	Y float64
	W float64
	H float64
}

// FrameStats holds the mean R/G/B of one analyzed frame on a 0..255
// scale, as produced by the engine's frame analysis.
type FrameStats struct {
	MeanR float64
	MeanG float64
	MeanB float64
}
