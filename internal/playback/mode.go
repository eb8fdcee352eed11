// Package playback drives a media playback queue: an ordered list of items,
// a current-position cursor, a play mode, and a lifecycle state machine.
package playback

// Mode selects how the queue computes the next and previous items.
type Mode int

const (
	ModeSequential Mode = iota // Stop at either end of the queue
	ModeRandom                 // Uniform random pick, never the current item
	ModeRepeatOne              // Always replay the current item
	ModeRepeatAll              // Wrap around at either end
	ModeShuffle                // Random pick over a shuffled live order
)

// String returns the string representation of the mode.
func (m Mode) String() string {
	switch m {
	case ModeRandom:
		return "random"
	case ModeRepeatOne:
		return "repeat_one"
	case ModeRepeatAll:
		return "repeat_all"
	case ModeShuffle:
		return "shuffle"
	default:
		return "sequential"
	}
}

// ParseMode converts a string to a Mode. The second return is false for
// unrecognized input.
func ParseMode(s string) (Mode, bool) {
	switch s {
	case "sequential":
		return ModeSequential, true
	case "random":
		return ModeRandom, true
	case "repeat_one":
		return ModeRepeatOne, true
	case "repeat_all":
		return ModeRepeatAll, true
	case "shuffle":
		return ModeShuffle, true
	default:
		return ModeSequential, false
	}
}
