// Package sequence maintains the ordered list of trim clips for the active
// project: auto-numbering, default/custom display names, and selection state.
package sequence

import (
	"fmt"
	"regexp"
)

// defaultNamePattern matches the auto-generated name shape for any order
// value. A stored title of this shape is treated as non-custom even when the
// user typed it; the display name then tracks the current order. Deliberate
// policy, see DESIGN.md.
var defaultNamePattern = regexp.MustCompile(`^Clip[0-9]+$`)

// Clip is a named in/out time range into a source media file. Identity is by
// pointer. Clips are created by Manager.Add and mutated only through the
// owning Manager; Order, Selected, First and Last are maintained by it.
type Clip struct {
	StartMs    int64
	EndMs      int64
	SourcePath string

	Order    int
	Selected bool
	First    bool
	Last     bool

	storedTitle string
}

// Title returns the effective display name: the stored title when custom,
// otherwise the default name for the clip's current order.
func (c *Clip) Title() string {
	if c.HasCustomTitle() {
		return c.storedTitle
	}
	return DefaultName(c.Order)
}

// StoredTitle returns the raw user-entered title. Empty means "use default".
func (c *Clip) StoredTitle() string {
	return c.storedTitle
}

// HasCustomTitle reports whether the stored title overrides the default name.
func (c *Clip) HasCustomTitle() bool {
	return c.storedTitle != "" && !defaultNamePattern.MatchString(c.storedTitle)
}

// DurationMs returns the trimmed duration in milliseconds.
func (c *Clip) DurationMs() int64 {
	return c.EndMs - c.StartMs
}

// Overlaps reports whether two clips trim intersecting ranges of the same
// source file. Overlap is never an error, only a diagnostic.
func (c *Clip) Overlaps(other *Clip) bool {
	if other == nil || c.SourcePath != other.SourcePath {
		return false
	}
	return c.StartMs < other.EndMs && other.StartMs < c.EndMs
}

// DefaultName returns the auto-generated display name for a 1-based order.
func DefaultName(order int) string {
	return fmt.Sprintf("Clip%d", order)
}
