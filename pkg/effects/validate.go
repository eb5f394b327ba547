package effects

import (
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// Clamp saturates v to [min, max]. Pure and total; every numeric knob in
// the engine goes through this one path.
func Clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// ClampInt saturates v to [min, max].
func ClampInt(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

// ValidateEnum checks that value is one of the allowed set.
func ValidateEnum(value string, allowed []string) error {
	for _, a := range allowed {
		if value == a {
			return nil
		}
	}
	return fmt.Errorf("%w: %q not in [%s]", ErrInvalidParameter, value, strings.Join(allowed, ", "))
}

// ValidateRequired checks that every named field is non-empty.
func ValidateRequired(fields map[string]string) error {
	var missing []string
	for name, v := range fields {
		if strings.TrimSpace(v) == "" {
			missing = append(missing, name)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	sort.Strings(missing)
	return fmt.Errorf("%w: %s", ErrMissingField, strings.Join(missing, ", "))
}

var hexColorRe = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// ValidateHexColor checks a custom key color of the form #RRGGBB.
func ValidateHexColor(s string) error {
	if !hexColorRe.MatchString(s) {
		return fmt.Errorf("%w: %q is not a #RRGGBB color", ErrInvalidParameter, s)
	}
	return nil
}

// clampRGB saturates each channel to [min, max].
func clampRGB(c RGB, min, max float64) RGB {
	return RGB{
		R: Clamp(c.R, min, max),
		G: Clamp(c.G, min, max),
		B: Clamp(c.B, min, max),
	}
}

// clampRect saturates each region coordinate to [0, 1].
func clampRect(r Rect) Rect {
	return Rect{
		X: Clamp(r.X, 0, 1),
		Y: Clamp(r.Y, 0, 1),
		W: Clamp(r.W, 0, 1),
		H: Clamp(r.H, 0, 1),
	}
}
