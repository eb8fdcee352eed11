package playback

import (
	"log/slog"
	"math/rand"
	"time"
)

// Item is an opaque media reference held by the queue. Identity is its
// source path; the queue never touches the media itself.
type Item struct {
	Path       string
	Title      string
	DurationMs int64
}

// Manager owns the playback queue: the live item order, an append-only
// insertion-order snapshot for restoring after shuffles, the cursor, the play
// mode, and the lifecycle state. All operations run synchronously and
// notifications fire before the mutating call returns. Not safe for
// concurrent use; callers must serialize externally.
type Manager struct {
	items     []*Item
	original  []*Item // insertion order, unaffected by shuffles
	current   int     // -1 iff the queue is empty
	mode      Mode
	state     State
	rng       *rand.Rand
	listeners []Listener
	logger    *slog.Logger
}

func NewManager(logger *slog.Logger) *Manager {
	return &Manager{
		current: -1,
		rng:     rand.New(rand.NewSource(time.Now().UnixNano())),
		logger:  logger,
	}
}

// SetRandSource replaces the entropy source used for shuffles and random
// picks. Tests inject a fixed seed for deterministic outcomes.
func (m *Manager) SetRandSource(src rand.Source) {
	m.rng = rand.New(src)
}

// OnChange subscribes a listener to change notifications.
func (m *Manager) OnChange(fn Listener) {
	m.listeners = append(m.listeners, fn)
}

func (m *Manager) emit(fields ...Field) {
	if len(fields) == 0 {
		return
	}
	ev := Event{Fields: fields}
	for _, fn := range m.listeners {
		fn(ev)
	}
}

func (m *Manager) Len() int          { return len(m.items) }
func (m *Manager) IsEmpty() bool     { return len(m.items) == 0 }
func (m *Manager) Mode() Mode        { return m.mode }
func (m *Manager) State() State      { return m.state }
func (m *Manager) CurrentIndex() int { return m.current }

// Current returns the item at the cursor, or nil when the queue is empty.
func (m *Manager) Current() *Item {
	if m.current < 0 || m.current >= len(m.items) {
		return nil
	}
	return m.items[m.current]
}

// Items returns a snapshot of the live queue order.
func (m *Manager) Items() []*Item {
	out := make([]*Item, len(m.items))
	copy(out, m.items)
	return out
}

// Add appends an item to the live queue and the insertion-order snapshot.
// The first item added to an empty queue becomes current and moves the
// lifecycle from Empty to Ready.
func (m *Manager) Add(item *Item) {
	if item == nil {
		return
	}
	m.items = append(m.items, item)
	m.original = append(m.original, item)

	fields := []Field{FieldCount, FieldHasNext, FieldHasPrevious}
	if m.current == -1 {
		m.current = 0
		fields = append(fields, FieldCurrentIndex, FieldCurrentItem)
		m.setState(StateReady)
	}
	m.emit(fields...)
}

// AddAll appends items in the given order.
func (m *Manager) AddAll(items []*Item) {
	for _, item := range items {
		m.Add(item)
	}
}

// Remove deletes the first item matching the given item's path from both the
// live queue and the snapshot. Reports whether removal occurred.
func (m *Manager) Remove(item *Item) bool {
	if item == nil {
		return false
	}
	i := indexOfPath(m.items, item.Path)
	if i < 0 {
		return false
	}

	m.items = append(m.items[:i], m.items[i+1:]...)
	if j := indexOfPath(m.original, item.Path); j >= 0 {
		m.original = append(m.original[:j], m.original[j+1:]...)
	}

	fields := []Field{FieldCount, FieldHasNext, FieldHasPrevious}
	switch {
	case len(m.items) == 0:
		m.current = -1
		fields = append(fields, FieldCurrentIndex, FieldCurrentItem)
		m.setState(StateEmpty)
	case i < m.current:
		m.current--
		fields = append(fields, FieldCurrentIndex)
	case i == m.current:
		if m.current >= len(m.items) {
			m.current = len(m.items) - 1
			fields = append(fields, FieldCurrentIndex)
		}
		fields = append(fields, FieldCurrentItem)
	}
	m.emit(fields...)
	return true
}

// Clear empties the queue and resets the cursor and lifecycle.
func (m *Manager) Clear() {
	if len(m.items) == 0 {
		return
	}
	m.items = nil
	m.original = nil
	m.current = -1
	m.setState(StateEmpty)
	m.emit(FieldCount, FieldCurrentIndex, FieldCurrentItem, FieldHasNext, FieldHasPrevious)
}

// SetCurrentIndex relocates the cursor. No-op (false) when out of range.
func (m *Manager) SetCurrentIndex(i int) bool {
	if i < 0 || i >= len(m.items) {
		return false
	}
	if i == m.current {
		return true
	}
	m.current = i
	m.emit(FieldCurrentIndex, FieldCurrentItem, FieldHasNext, FieldHasPrevious)
	return true
}

// SetCurrentItem relocates the cursor to the first item matching the given
// item's path. No-op (false) when not found.
func (m *Manager) SetCurrentItem(item *Item) bool {
	if item == nil {
		return false
	}
	i := indexOfPath(m.items, item.Path)
	if i < 0 {
		return false
	}
	return m.SetCurrentIndex(i)
}

// SetMode switches the play mode. Switching into Random or Shuffle reorders
// the live queue; switching into Sequential restores the insertion order. In
// both cases the cursor follows the current item to its new position.
func (m *Manager) SetMode(mode Mode) {
	if mode == m.mode {
		return
	}
	m.mode = mode
	if m.logger != nil {
		m.logger.Debug("play mode changed", "mode", mode.String())
	}

	switch mode {
	case ModeRandom, ModeShuffle:
		m.shuffleLive()
	case ModeSequential:
		m.restoreOrder()
	}
	m.emit(FieldMode, FieldHasNext, FieldHasPrevious)
}

// Next returns the item playback would advance to under the current mode,
// or nil. Random and Shuffle draw a fresh pick on every call.
func (m *Manager) Next() *Item {
	i := m.nextIndex()
	if i < 0 {
		return nil
	}
	return m.items[i]
}

// Previous returns the item playback would step back to, or nil. Random and
// Shuffle have no distinct previous semantics; both directions draw fresh.
func (m *Manager) Previous() *Item {
	i := m.prevIndex()
	if i < 0 {
		return nil
	}
	return m.items[i]
}

// HasNext reports whether PlayNext would move to an item.
func (m *Manager) HasNext() bool {
	n := len(m.items)
	switch m.mode {
	case ModeRepeatOne, ModeRepeatAll:
		return n > 0
	case ModeRandom, ModeShuffle:
		return n > 1
	default:
		return m.current >= 0 && m.current+1 < n
	}
}

// HasPrevious reports whether PlayPrevious would move to an item.
func (m *Manager) HasPrevious() bool {
	n := len(m.items)
	switch m.mode {
	case ModeRepeatOne, ModeRepeatAll:
		return n > 0
	case ModeRandom, ModeShuffle:
		return n > 1
	default:
		return m.current-1 >= 0
	}
}

// PlayNext advances the cursor per the current mode and sets the lifecycle
// to Ready. No-op (false) when no next item exists.
func (m *Manager) PlayNext() bool {
	return m.playTo(m.nextIndex())
}

// PlayPrevious steps the cursor back per the current mode and sets the
// lifecycle to Ready. No-op (false) when no previous item exists.
func (m *Manager) PlayPrevious() bool {
	return m.playTo(m.prevIndex())
}

// Start moves to Playing. Valid only when a current item exists.
func (m *Manager) Start() bool {
	if m.Current() == nil {
		return false
	}
	m.setState(StatePlaying)
	return true
}

// Pause moves to Paused. Valid only from Playing.
func (m *Manager) Pause() bool {
	if m.state != StatePlaying {
		return false
	}
	m.setState(StatePaused)
	return true
}

// Stop returns to Ready. No-op on an empty queue, which stays Empty.
func (m *Manager) Stop() {
	if len(m.items) == 0 {
		return
	}
	m.setState(StateReady)
}

// Complete marks the current item finished. When the mode yields a next
// item the queue advances immediately, ending in Ready; otherwise it stays
// Completed.
func (m *Manager) Complete() {
	if len(m.items) == 0 {
		return
	}
	m.setState(StateCompleted)
	m.playTo(m.nextIndex())
}

// Fail moves to Error. The transition is reserved for the host; the queue
// does not model recovery beyond the usual Stop/Clear paths.
func (m *Manager) Fail(err error) {
	if m.logger != nil && err != nil {
		m.logger.Warn("playback failed", "error", err)
	}
	m.setState(StateError)
}

func (m *Manager) playTo(i int) bool {
	if i < 0 {
		return false
	}
	fields := []Field{}
	if i != m.current {
		m.current = i
		fields = append(fields, FieldCurrentIndex, FieldCurrentItem, FieldHasNext, FieldHasPrevious)
	}
	m.setState(StateReady)
	m.emit(fields...)
	return true
}

// nextIndex computes the index PlayNext would move to, or -1.
func (m *Manager) nextIndex() int {
	n := len(m.items)
	if n == 0 || m.current < 0 {
		return -1
	}
	switch m.mode {
	case ModeRepeatOne:
		return m.current
	case ModeRepeatAll:
		if m.current+1 < n {
			return m.current + 1
		}
		return 0
	case ModeRandom, ModeShuffle:
		return m.randomIndex()
	default:
		if m.current+1 < n {
			return m.current + 1
		}
		return -1
	}
}

// prevIndex computes the index PlayPrevious would move to, or -1.
func (m *Manager) prevIndex() int {
	n := len(m.items)
	if n == 0 || m.current < 0 {
		return -1
	}
	switch m.mode {
	case ModeRepeatOne:
		return m.current
	case ModeRepeatAll:
		if m.current-1 >= 0 {
			return m.current - 1
		}
		return n - 1
	case ModeRandom, ModeShuffle:
		return m.randomIndex()
	default:
		if m.current-1 >= 0 {
			return m.current - 1
		}
		return -1
	}
}

// randomIndex draws a uniform index excluding the cursor, -1 when the queue
// has fewer than two items.
func (m *Manager) randomIndex() int {
	n := len(m.items)
	if n <= 1 {
		return -1
	}
	i := m.rng.Intn(n - 1)
	if i >= m.current {
		i++
	}
	return i
}

// shuffleLive applies a Fisher-Yates permutation to the live order and
// relocates the cursor to the current item's new position. The snapshot is
// untouched.
func (m *Manager) shuffleLive() {
	if len(m.items) < 2 {
		return
	}
	cur := m.Current()
	m.rng.Shuffle(len(m.items), func(i, j int) {
		m.items[i], m.items[j] = m.items[j], m.items[i]
	})
	m.relocate(cur)
}

// restoreOrder replaces the live order with the insertion-order snapshot and
// relocates the cursor to the current item's position there.
func (m *Manager) restoreOrder() {
	cur := m.Current()
	m.items = append([]*Item(nil), m.original...)
	m.relocate(cur)
}

// relocate points the cursor back at the item that was current before a
// reorder. Reorders never drop items, so the item is always found.
func (m *Manager) relocate(cur *Item) {
	if cur == nil {
		return
	}
	for i, item := range m.items {
		if item == cur {
			if i != m.current {
				m.current = i
				m.emit(FieldCurrentIndex)
			}
			return
		}
	}
}

func (m *Manager) setState(s State) {
	if m.state == s {
		return
	}
	if m.logger != nil {
		m.logger.Debug("playback state changed", "from", m.state.String(), "to", s.String())
	}
	m.state = s
	m.emit(FieldState)
}

func indexOfPath(items []*Item, path string) int {
	for i, item := range items {
		if item.Path == path {
			return i
		}
	}
	return -1
}
