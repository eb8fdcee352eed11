package playback

// State is the playback lifecycle state.
type State int

const (
	StateEmpty     State = iota // No items in the queue
	StateReady                  // Current item selected, not playing
	StatePlaying                // Current item playing
	StatePaused                 // Playing item paused
	StateCompleted              // Current item finished with nothing to advance to
	StateError                  // Reserved for the host
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateReady:
		return "ready"
	case StatePlaying:
		return "playing"
	case StatePaused:
		return "paused"
	case StateCompleted:
		return "completed"
	case StateError:
		return "error"
	default:
		return "empty"
	}
}
