// Package media is the boundary to the external media-processing engine.
// The agent never decodes media itself; it only reads metadata from ffprobe.
package media

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

// Prober reports container and stream metadata for a media file.
type Prober interface {
	Probe(ctx context.Context, filePath string) (*ProbeResult, error)
}

type ProbeResult struct {
	DurationMs int64
	Width      int
	Height     int
	Codec      string
	FrameRate  float64
}

// FFprobe shells out to an ffprobe binary.
type FFprobe struct {
	binPath string
	timeout time.Duration
	logger  *slog.Logger
}

// NewFFprobe verifies the binary is resolvable before returning a prober.
func NewFFprobe(binPath string, logger *slog.Logger) (*FFprobe, error) {
	if binPath == "" {
		binPath = "ffprobe"
	}
	resolved, err := exec.LookPath(binPath)
	if err != nil {
		return nil, fmt.Errorf("ffprobe not found: %w", err)
	}
	return &FFprobe{binPath: resolved, timeout: 30 * time.Second, logger: logger}, nil
}

type ffprobeOutput struct {
	Format struct {
		Duration string `json:"duration"`
	} `json:"format"`
	Streams []struct {
		CodecType    string `json:"codec_type"`
		CodecName    string `json:"codec_name"`
		Width        int    `json:"width"`
		Height       int    `json:"height"`
		AvgFrameRate string `json:"avg_frame_rate"`
	} `json:"streams"`
}

func (f *FFprobe) Probe(ctx context.Context, filePath string) (*ProbeResult, error) {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, f.binPath,
		"-v", "error",
		"-print_format", "json",
		"-show_format",
		"-show_streams",
		filePath,
	)
	out, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("ffprobe failed for %s: %w", filePath, err)
	}

	var parsed ffprobeOutput
	if err := json.Unmarshal(out, &parsed); err != nil {
		return nil, fmt.Errorf("ffprobe output invalid: %w", err)
	}

	result := &ProbeResult{}
	if secs, err := strconv.ParseFloat(parsed.Format.Duration, 64); err == nil {
		result.DurationMs = int64(math.Round(secs * 1000))
	}
	for _, s := range parsed.Streams {
		if s.CodecType != "video" {
			continue
		}
		result.Width = s.Width
		result.Height = s.Height
		result.Codec = s.CodecName
		result.FrameRate = parseFrameRate(s.AvgFrameRate)
		break
	}

	if f.logger != nil {
		f.logger.Debug("probed media file", "path", filePath, "duration_ms", result.DurationMs)
	}
	return result, nil
}

// parseFrameRate handles ffprobe's fractional form, e.g. "30000/1001".
func parseFrameRate(s string) float64 {
	num, den, found := strings.Cut(s, "/")
	if !found {
		v, _ := strconv.ParseFloat(s, 64)
		return v
	}
	n, err1 := strconv.ParseFloat(num, 64)
	d, err2 := strconv.ParseFloat(den, 64)
	if err1 != nil || err2 != nil || d == 0 {
		return 0
	}
	return n / d
}

// StubProber stands in when no ffprobe binary is available. Scans still
// succeed; files just carry no duration metadata.
type StubProber struct {
	logger *slog.Logger
}

func NewStubProber(logger *slog.Logger) *StubProber {
	return &StubProber{logger: logger}
}

func (p *StubProber) Probe(ctx context.Context, filePath string) (*ProbeResult, error) {
	if p.logger != nil {
		p.logger.Debug("prober stub: probe requested", "path", filePath)
	}
	return &ProbeResult{}, nil
}
