package vctex

import "fmt"

// State is how far the conversion of a single file got.
type State int

// Conversion states. Rejected, PersistFailed, Persisted and HandedToDecoder
// are terminal; Persisted is only terminal when no decoder is configured.
// A file that opens but does not decode is Rejected whatever the cause; the
// error tells an unsupported texture from a truncated one.
const (
	Unopened State = iota
	Decoded
	Rejected
	Converted
	Persisted
	PersistFailed
	HandedToDecoder
)

var stateNames = [...]string{
	Unopened:        "unopened",
	Decoded:         "decoded",
	Rejected:        "rejected",
	Converted:       "converted",
	Persisted:       "persisted",
	PersistFailed:   "persist failed",
	HandedToDecoder: "handed to decoder",
}

func (s State) String() string {
	if s >= 0 && int(s) < len(stateNames) {
		return stateNames[s]
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Result is the outcome of converting a single file.
type Result struct {
	Source string
	Output string // written TEX0 file, if any
	PNG    string // requested PNG image, if any
	Digest string
	State  State
	Err    error
}
