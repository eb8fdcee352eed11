// Package export renders the clip sequence as a CMX 3600 style EDL so cuts
// can move into an NLE without re-trimming.
package export

import (
	"fmt"
	"math"
	"strings"
)

// Cut is one sequence entry resolved for export: the effective clip name,
// the source media path, and the trim range.
type Cut struct {
	Name      string
	MediaPath string
	StartMs   int64
	EndMs     int64
}

// GenerateEDL builds an EDL for the cuts in sequence order. Record timecodes
// are laid out back to back starting at zero.
func GenerateEDL(cuts []Cut, title string, frameRate float64) string {
	fps := int(math.Round(frameRate))
	if fps <= 0 {
		fps = 30
	}

	isDropFrame := math.Abs(frameRate-29.97) < 0.01 || math.Abs(frameRate-59.94) < 0.01

	lines := []string{fmt.Sprintf("TITLE: %s", title)}
	if isDropFrame {
		lines = append(lines, "FCM: DROP FRAME")
	} else {
		lines = append(lines, "FCM: NON-DROP FRAME")
	}
	lines = append(lines, "")

	var recordOffsetMs int64
	for i, cut := range cuts {
		srcIn := msToTimecode(cut.StartMs, fps)
		srcOut := msToTimecode(cut.EndMs, fps)
		recIn := msToTimecode(recordOffsetMs, fps)
		durationMs := cut.EndMs - cut.StartMs
		recOut := msToTimecode(recordOffsetMs+durationMs, fps)

		lines = append(lines,
			fmt.Sprintf("%03d  %-8s %-5s C        %s %s %s %s", i+1, "AX", "V", srcIn, srcOut, recIn, recOut),
			fmt.Sprintf("* FROM CLIP NAME:  %s", cut.Name),
			fmt.Sprintf("* MEDIA PATH:  %s", cut.MediaPath),
		)

		recordOffsetMs += durationMs
	}

	lines = append(lines, "")
	return strings.Join(lines, "\n")
}

func msToTimecode(ms int64, fps int) string {
	totalFrames := int64(math.Round(float64(ms) * float64(fps) / 1000.0))
	frames := totalFrames % int64(fps)
	totalSeconds := totalFrames / int64(fps)
	seconds := totalSeconds % 60
	totalMinutes := totalSeconds / 60
	minutes := totalMinutes % 60
	hours := totalMinutes / 60
	return fmt.Sprintf("%02d:%02d:%02d:%02d", hours, minutes, seconds, frames)
}
