package engine

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"github.com/Blackmvmba88/VIdeoEditor-sub003/pkg/effects"
)

// ProbeResult contains media file metadata.
type ProbeResult struct {
	// Video properties
	Width       int
	Height      int
	FPS         float64
	VideoCodec  string
	PixelFormat string

	// Audio properties
	AudioCodec      string
	AudioChannels   int
	AudioSampleRate int

	// File properties
	Duration   float64 // seconds
	Bitrate    int64   // bits per second
	Size       int64   // bytes
	FormatName string

	// Stream counts
	VideoStreams int
	AudioStreams int
}

type probeOutput struct {
	Format struct {
		FormatName string `json:"format_name"`
		Duration   string `json:"duration"`
		Size       string `json:"size"`
		BitRate    string `json:"bit_rate"`
	} `json:"format"`
	Streams []struct {
		CodecType string `json:"codec_type"`
		CodecName string `json:"codec_name"`

		Width       int    `json:"width"`
		Height      int    `json:"height"`
		RFrameRate  string `json:"r_frame_rate"`
		PixelFormat string `json:"pix_fmt"`

		SampleRate string `json:"sample_rate"`
		Channels   int    `json:"channels"`
	} `json:"streams"`
}

// Probe inspects a media file and returns its metadata.
func (e *Engine) Probe(ctx context.Context, path string) (*ProbeResult, error) {
	out, err := e.runProbe(ctx,
		"-hide_banner",
		"-v", "quiet",
		"-print_format", "json",
		"-show_format",
		"-show_streams",
		path,
	)
	if err != nil {
		return nil, err
	}

	var parsed probeOutput
	if err := json.Unmarshal(out, &parsed); err != nil {
		return nil, fmt.Errorf("probe: failed to parse output: %w", err)
	}

	result := &ProbeResult{FormatName: parsed.Format.FormatName}
	if parsed.Format.Duration != "" {
		result.Duration, _ = strconv.ParseFloat(parsed.Format.Duration, 64)
	}
	if parsed.Format.BitRate != "" {
		result.Bitrate, _ = strconv.ParseInt(parsed.Format.BitRate, 10, 64)
	}
	if parsed.Format.Size != "" {
		result.Size, _ = strconv.ParseInt(parsed.Format.Size, 10, 64)
	}

	for _, stream := range parsed.Streams {
		switch stream.CodecType {
		case "video":
			result.VideoStreams++
			if result.VideoCodec == "" {
				result.Width = stream.Width
				result.Height = stream.Height
				result.VideoCodec = stream.CodecName
				result.PixelFormat = stream.PixelFormat
				result.FPS = parseFrameRate(stream.RFrameRate)
			}

		case "audio":
			result.AudioStreams++
			if result.AudioCodec == "" {
				result.AudioCodec = stream.CodecName
				result.AudioChannels = stream.Channels
				if stream.SampleRate != "" {
					result.AudioSampleRate, _ = strconv.Atoi(stream.SampleRate)
				}
			}
		}
	}

	return result, nil
}

// Duration is a convenience wrapper returning just the duration in
// seconds.
func (e *Engine) Duration(ctx context.Context, path string) (float64, error) {
	result, err := e.Probe(ctx, path)
	if err != nil {
		return 0, err
	}
	return result.Duration, nil
}

type signalOutput struct {
	Frames []struct {
		Tags map[string]string `json:"tags"`
	} `json:"frames"`
}

// AnalyzeFrame measures the mean R/G/B of the frame nearest the given
// timestamp. The probe decodes exactly one frame through signalstats and
// the YUV plane averages are converted to RGB.
func (e *Engine) AnalyzeFrame(ctx context.Context, path string, atSeconds float64) (effects.FrameStats, error) {
	if atSeconds < 0 {
		atSeconds = 0
	}
	source := fmt.Sprintf("movie=%s:seek_point=%.3f,signalstats", escapeLavfiPath(path), atSeconds)

	out, err := e.runProbe(ctx,
		"-hide_banner",
		"-v", "quiet",
		"-f", "lavfi",
		"-i", source,
		"-show_entries", "frame_tags=lavfi.signalstats.YAVG,lavfi.signalstats.UAVG,lavfi.signalstats.VAVG",
		"-read_intervals", "%+#1",
		"-print_format", "json",
	)
	if err != nil {
		return effects.FrameStats{}, err
	}

	var parsed signalOutput
	if err := json.Unmarshal(out, &parsed); err != nil {
		return effects.FrameStats{}, fmt.Errorf("analyze %s: failed to parse output: %w", path, err)
	}
	if len(parsed.Frames) == 0 {
		return effects.FrameStats{}, fmt.Errorf("analyze %s: no frame decoded at %.3fs", path, atSeconds)
	}

	tags := parsed.Frames[0].Tags
	y, errY := strconv.ParseFloat(tags["lavfi.signalstats.YAVG"], 64)
	u, errU := strconv.ParseFloat(tags["lavfi.signalstats.UAVG"], 64)
	v, errV := strconv.ParseFloat(tags["lavfi.signalstats.VAVG"], 64)
	if errY != nil || errU != nil || errV != nil {
		return effects.FrameStats{}, fmt.Errorf("analyze %s: missing signal tags", path)
	}

	return yuvToStats(y, u, v), nil
}

func (e *Engine) runProbe(ctx context.Context, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, e.ffprobe, args...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("probe: %w: %s", err, stderr.String())
	}
	return stdout.Bytes(), nil
}

// yuvToStats converts full-range plane averages to mean RGB using the
// BT.601 matrix, clamped to the 8-bit range.
func yuvToStats(y, u, v float64) effects.FrameStats {
	r := y + 1.402*(v-128)
	g := y - 0.344136*(u-128) - 0.714136*(v-128)
	b := y + 1.772*(u-128)
	return effects.FrameStats{
		MeanR: effects.Clamp(r, 0, 255),
		MeanG: effects.Clamp(g, 0, 255),
		MeanB: effects.Clamp(b, 0, 255),
	}
}

// parseFrameRate parses the probe frame rate form ("30/1", "30000/1001").
func parseFrameRate(rate string) float64 {
	var num, den int
	_, err := fmt.Sscanf(rate, "%d/%d", &num, &den)
	if err != nil || den == 0 {
		return 0
	}
	return float64(num) / float64(den)
}

// escapeLavfiPath escapes a path for embedding in a lavfi movie source.
func escapeLavfiPath(p string) string {
	p = strings.ReplaceAll(p, `\`, `\\`)
	p = strings.ReplaceAll(p, `'`, `\'`)
	p = strings.ReplaceAll(p, ":", `\:`)
	return p
}
