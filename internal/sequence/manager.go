package sequence

import (
	"errors"
	"log/slog"
	"strings"
)

// Validation failures from TryAdd. The messages are shown to the user
// verbatim by the consuming layer.
var (
	ErrNoSource      = errors.New("cannot determine source file")
	ErrNegativeStart = errors.New("start time cannot be negative")
	ErrEndNotAfter   = errors.New("end time must exceed start time")
)

// Manager owns an ordered, auto-numbered collection of trim clips and tracks
// their selection state. All operations run synchronously to completion and
// notifications fire before the call returns. Not safe for concurrent use;
// callers mutating from multiple goroutines must serialize externally.
type Manager struct {
	clips         []*Clip
	selectedCount int
	listeners     []Listener
	logger        *slog.Logger
}

func NewManager(logger *slog.Logger) *Manager {
	return &Manager{logger: logger}
}

// OnChange subscribes a listener to change notifications.
func (m *Manager) OnChange(fn Listener) {
	m.listeners = append(m.listeners, fn)
}

func (m *Manager) emit(ev Event) {
	for _, fn := range m.listeners {
		fn(ev)
	}
}

func (m *Manager) Count() int {
	return len(m.clips)
}

func (m *Manager) SelectedCount() int {
	return m.selectedCount
}

// Clips returns a snapshot of the sequence in current order.
func (m *Manager) Clips() []*Clip {
	out := make([]*Clip, len(m.clips))
	copy(out, m.clips)
	return out
}

// Clip returns the clip at a 0-based index, or nil if out of range.
func (m *Manager) Clip(i int) *Clip {
	if i < 0 || i >= len(m.clips) {
		return nil
	}
	return m.clips[i]
}

// Add appends a clip to the end of the sequence. A blank name leaves the
// stored title empty, so the clip displays the default name for its position.
func (m *Manager) Add(name string, startMs, endMs int64, sourcePath string) *Clip {
	c := &Clip{
		StartMs:     startMs,
		EndMs:       endMs,
		SourcePath:  sourcePath,
		storedTitle: strings.TrimSpace(name),
	}
	m.clips = append(m.clips, c)
	m.renumber()
	m.emit(Event{Fields: []Field{FieldCount}})
	return c
}

// TryAdd validates the range before delegating to Add. Overlap with existing
// clips is detected but permitted; only the range itself is enforced.
func (m *Manager) TryAdd(name string, startMs, endMs int64, sourcePath string) (*Clip, error) {
	if strings.TrimSpace(sourcePath) == "" {
		return nil, ErrNoSource
	}
	if startMs < 0 {
		return nil, ErrNegativeStart
	}
	if endMs <= startMs {
		return nil, ErrEndNotAfter
	}

	candidate := &Clip{StartMs: startMs, EndMs: endMs, SourcePath: sourcePath}
	for _, existing := range m.clips {
		if existing.Overlaps(candidate) {
			if m.logger != nil {
				m.logger.Debug("new clip overlaps existing clip",
					"start_ms", startMs, "end_ms", endMs, "existing", existing.Title())
			}
			break
		}
	}

	return m.Add(name, startMs, endMs, sourcePath), nil
}

// Remove deletes the clip if present and reports whether removal occurred.
func (m *Manager) Remove(c *Clip) bool {
	i := m.indexOf(c)
	if i < 0 {
		return false
	}
	m.clips = append(m.clips[:i], m.clips[i+1:]...)
	m.renumber()
	m.emit(Event{Fields: []Field{FieldCount}})
	m.recountSelected()
	return true
}

// RemoveSelected deletes every selected clip and returns how many were
// removed. Renumbering runs once, after the sweep.
func (m *Manager) RemoveSelected() int {
	var kept []*Clip
	removed := 0
	for _, c := range m.clips {
		if c.Selected {
			removed++
			continue
		}
		kept = append(kept, c)
	}
	if removed == 0 {
		return 0
	}
	m.clips = kept
	m.renumber()
	m.emit(Event{Fields: []Field{FieldCount}})
	m.recountSelected()
	return removed
}

// Clear empties the sequence.
func (m *Manager) Clear() {
	if len(m.clips) == 0 {
		return
	}
	m.clips = nil
	m.emit(Event{Fields: []Field{FieldCount}})
	m.recountSelected()
}

// MoveUp swaps the clip with its predecessor. Returns false at the top or
// when the clip is absent.
func (m *Manager) MoveUp(c *Clip) bool {
	i := m.indexOf(c)
	if i <= 0 {
		return false
	}
	m.clips[i], m.clips[i-1] = m.clips[i-1], m.clips[i]
	m.renumber()
	return true
}

// MoveDown swaps the clip with its successor. Returns false at the bottom or
// when the clip is absent.
func (m *Manager) MoveDown(c *Clip) bool {
	i := m.indexOf(c)
	if i < 0 || i >= len(m.clips)-1 {
		return false
	}
	m.clips[i], m.clips[i+1] = m.clips[i+1], m.clips[i]
	m.renumber()
	return true
}

// MoveToTop repositions the clip to the first slot.
func (m *Manager) MoveToTop(c *Clip) bool {
	i := m.indexOf(c)
	if i <= 0 {
		return false
	}
	m.clips = append(m.clips[:i], m.clips[i+1:]...)
	m.clips = append([]*Clip{c}, m.clips...)
	m.renumber()
	return true
}

// MoveToBottom repositions the clip to the last slot.
func (m *Manager) MoveToBottom(c *Clip) bool {
	i := m.indexOf(c)
	if i < 0 || i >= len(m.clips)-1 {
		return false
	}
	m.clips = append(m.clips[:i], m.clips[i+1:]...)
	m.clips = append(m.clips, c)
	m.renumber()
	return true
}

// SetSelected flips one clip's selection flag. Returns false when the clip
// is not in the sequence.
func (m *Manager) SetSelected(c *Clip, selected bool) bool {
	if m.indexOf(c) < 0 {
		return false
	}
	if c.Selected == selected {
		return true
	}
	c.Selected = selected
	m.emit(Event{Clip: c, Fields: []Field{FieldSelected}})
	m.recountSelected()
	return true
}

func (m *Manager) SelectAll() {
	for _, c := range m.clips {
		if !c.Selected {
			c.Selected = true
			m.emit(Event{Clip: c, Fields: []Field{FieldSelected}})
		}
	}
	m.recountSelected()
}

func (m *Manager) DeselectAll() {
	for _, c := range m.clips {
		if c.Selected {
			c.Selected = false
			m.emit(Event{Clip: c, Fields: []Field{FieldSelected}})
		}
	}
	m.recountSelected()
}

// Selected returns the selected clips in current order.
func (m *Manager) Selected() []*Clip {
	var out []*Clip
	for _, c := range m.clips {
		if c.Selected {
			out = append(out, c)
		}
	}
	return out
}

// SetTitle replaces a clip's stored title. An empty title reverts the clip
// to its default name.
func (m *Manager) SetTitle(c *Clip, title string) bool {
	if m.indexOf(c) < 0 {
		return false
	}
	title = strings.TrimSpace(title)
	if c.storedTitle == title {
		return true
	}
	c.storedTitle = title
	m.emit(Event{Clip: c, Fields: []Field{FieldName}})
	return true
}

func (m *Manager) indexOf(c *Clip) int {
	if c == nil {
		return -1
	}
	for i, existing := range m.clips {
		if existing == c {
			return i
		}
	}
	return -1
}

// renumber runs after every structural mutation. Two passes: reassign
// 1-based orders, then recompute First/Last from position.
func (m *Manager) renumber() {
	for i, c := range m.clips {
		order := i + 1
		if c.Order == order {
			continue
		}
		c.Order = order
		fields := []Field{FieldOrder}
		if !c.HasCustomTitle() {
			// Default-named clips display their new order.
			fields = append(fields, FieldName)
		}
		m.emit(Event{Clip: c, Fields: fields})
	}

	for i, c := range m.clips {
		first := i == 0
		last := i == len(m.clips)-1
		var fields []Field
		if c.First != first {
			c.First = first
			fields = append(fields, FieldFirst)
		}
		if c.Last != last {
			c.Last = last
			fields = append(fields, FieldLast)
		}
		if len(fields) > 0 {
			m.emit(Event{Clip: c, Fields: fields})
		}
	}
}

// recountSelected re-derives the aggregate from a single pass rather than
// tracking per-clip deltas.
func (m *Manager) recountSelected() {
	n := 0
	for _, c := range m.clips {
		if c.Selected {
			n++
		}
	}
	if n != m.selectedCount {
		m.selectedCount = n
		m.emit(Event{Fields: []Field{FieldSelectedCount}})
	}
}
