package sequence

// Field names a property reported through a change notification.
type Field string

const (
	FieldCount         Field = "count"
	FieldSelectedCount Field = "selected_count"
	FieldName          Field = "name"
	FieldOrder         Field = "order"
	FieldFirst         Field = "first"
	FieldLast          Field = "last"
	FieldSelected      Field = "selected"
)

// Event is a change notification emitted synchronously before the mutating
// call returns. Clip is nil for aggregate fields (count, selected_count).
type Event struct {
	Clip   *Clip
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
