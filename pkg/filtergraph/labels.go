package filtergraph

import (
	"strconv"
	"sync/atomic"
)

// padSerial feeds every labeler in the process. Monotonic, so two compile
// calls can never hand out the same label even for identical programs.
var padSerial atomic.Uint64

// Labeler issues pad labels for one compile call. Labels combine a short
// role name with a serial drawn from the process-wide counter.
type Labeler struct{}

// NewLabeler returns a labeler for a single compile call.
func NewLabeler() *Labeler {
	return &Labeler{}
}

// Next returns a fresh pad label for the given role, e.g. `main7`.
func (l *Labeler) Next(role string) string {
	return role + strconv.FormatUint(padSerial.Add(1), 10)
}

// Pair returns two fresh labels, the usual split output pair.
func (l *Labeler) Pair(a, b string) (string, string) {
	return l.Next(a), l.Next(b)
}
