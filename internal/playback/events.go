package playback

// Field names a property reported through a change notification.
type Field string

const (
	FieldCount        Field = "count"
	FieldCurrentIndex Field = "current_index"
	FieldCurrentItem  Field = "current_item"
	FieldHasNext      Field = "has_next"
	FieldHasPrevious  Field = "has_previous"
	FieldMode         Field = "mode"
	FieldState        Field = "state"
)

// Event is a change notification emitted synchronously before the mutating
// call returns. Listeners read the manager for current values; it is fully
// consistent by the time they run.
type Event struct {
	Fields []Field
}

// Has reports whether the event carries the given field.
func (e Event) Has(f Field) bool {
	for _, field := range e.Fields {
		if field == f {
			return true
		}
	}
	return false
}

// Listener receives change events. Listeners must not mutate the manager
// from inside the callback.
type Listener func(Event)
