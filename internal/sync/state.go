package sync

import "fmt"

// State is the observable phase of the sync engine. Transitions follow the
// sync cycle; Queued is entered when the server is unreachable and local
// changes wait for the next attempt.
type State int32

const (
	StateIdle State = iota
	StatePulling
	StateDecrypting
	StateMerging
	StateEncrypting
	StatePushing
	StateQueued
)

// String implements fmt.Stringer.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePulling:
		return "pulling"
	case StateDecrypting:
		return "decrypting"
	case StateMerging:
		return "merging"
	case StateEncrypting:
		return "encrypting"
	case StatePushing:
		return "pushing"
	case StateQueued:
		return "queued"
	default:
		return fmt.Sprintf("state(%d)", int32(s))
	}
}
