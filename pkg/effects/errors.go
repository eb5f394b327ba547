package effects

import "errors"

// Sentinel errors for the effect engine. Callers match with errors.Is;
// every failure site wraps one of these with context.
var (
	// ErrNotFound indicates an unknown preset, LUT, catalog entry, or
	// effect type.
	ErrNotFound = errors.New("entry not found")

	// ErrInvalidParameter indicates an out-of-range value or a value
	// outside its declared enum set.
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrAlreadyExists indicates a duplicate registration id.
	ErrAlreadyExists = errors.New("entry already exists")

	// ErrInvalidState indicates an operation that requires prior setup,
	// such as color match before a reference frame is analyzed.
	ErrInvalidState = errors.New("operation requires prior setup")

	// ErrMissingField indicates a definition registered without one of
	// its required fields.
	ErrMissingField = errors.New("missing required field")

	// ErrUnsupportedFormat indicates an asset import with a disallowed
	// file extension.
	ErrUnsupportedFormat = errors.New("unsupported format")

	// ErrIncompatibleChain indicates a composition whose input arity
	// cannot be satisfied even by splitting it into separate passes.
	ErrIncompatibleChain = errors.New("incompatible chain")

	// ErrInvariant indicates an internal invariant violation. It should
	// be unreachable through the validated state API.
	ErrInvariant = errors.New("internal invariant violation")
)
