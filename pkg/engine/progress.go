package engine

import (
	"bufio"
	"strconv"
	"strings"
)

// Progress is one render progress update, parsed from the engine's
// key=value progress stream.
type Progress struct {
	Frame     int64   // Current frame number
	FPS       float64 // Current encoding speed in frames per second
	Bitrate   string  // Current bitrate (e.g., "1234.5kbits/s")
	TotalSize int64   // Current output size in bytes
	OutTimeUS int64   // Output timestamp in microseconds
	Speed     string  // Encoding speed multiplier (e.g., "2.5x")
	Progress  string  // "continue" or "end"
}

// OutTimeMS returns the output time in milliseconds.
func (p Progress) OutTimeMS() int64 {
	return p.OutTimeUS / 1000
}

// OutTimeSeconds returns the output time in seconds.
func (p Progress) OutTimeSeconds() float64 {
	return float64(p.OutTimeUS) / 1_000_000
}

// PercentOf returns the completion percentage against a known source
// duration in seconds, capped at 100.
func (p Progress) PercentOf(durationSeconds float64) float64 {
	if durationSeconds <= 0 {
		return 0
	}
	pct := p.OutTimeSeconds() / durationSeconds * 100
	if pct > 100 {
		return 100
	}
	return pct
}

// ParseProgressLine splits one key=value progress line. Returns the key,
// value, and whether parsing succeeded.
func ParseProgressLine(line string) (key, value string, ok bool) {
	line = strings.TrimSpace(line)
	if line == "" {
		return "", "", false
	}

	idx := strings.Index(line, "=")
	if idx == -1 {
		return "", "", false
	}

	return line[:idx], line[idx+1:], true
}

// ProgressParser accumulates progress updates from the engine's output.
type ProgressParser struct {
	current Progress
}

// NewProgressParser creates a new progress parser.
func NewProgressParser() *ProgressParser {
	return &ProgressParser{}
}

// ParseLine parses a line and updates internal state. Returns true when
// a complete update is ready (on the "progress" key, which the engine
// writes last in each block).
func (p *ProgressParser) ParseLine(line string) bool {
	key, value, ok := ParseProgressLine(line)
	if !ok {
		return false
	}

	switch key {
	case "frame":
		p.current.Frame, _ = strconv.ParseInt(value, 10, 64)
	case "fps":
		p.current.FPS, _ = strconv.ParseFloat(value, 64)
	case "bitrate":
		p.current.Bitrate = value
	case "total_size":
		p.current.TotalSize, _ = strconv.ParseInt(value, 10, 64)
	case "out_time_us":
		p.current.OutTimeUS, _ = strconv.ParseInt(value, 10, 64)
	case "speed":
		p.current.Speed = value
	case "progress":
		p.current.Progress = value
		return true
	}

	return false
}

// Current returns the current progress state.
func (p *ProgressParser) Current() Progress {
	return p.current
}

// Reset clears the current progress state.
func (p *ProgressParser) Reset() {
	p.current = Progress{}
}

// pumpProgress reads progress output line by line and sends each
// complete update on the channel until the stream ends.
func pumpProgress(scanner *bufio.Scanner, progress chan<- Progress) {
	parser := NewProgressParser()

	for scanner.Scan() {
		if parser.ParseLine(scanner.Text()) {
			progress <- parser.Current()
			if parser.Current().Progress == "end" {
				break
			}
		}
	}
}
