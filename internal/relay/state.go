package relay

import "fmt"

// State enumerates the stages of one conversion request.
type State int

const (
	StateIdle State = iota
	StateResolving
	StateDownloading
	StateTranscoding
	StateSending
	StateDone
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateResolving:
		return "resolving"
	case StateDownloading:
		return "downloading"
	case StateTranscoding:
		return "transcoding"
	case StateSending:
		return "sending"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// transitions defines the legal moves of the request state machine. The
// download stage is optional: a cache-local source skips straight from
// resolving to transcoding. Failed is reachable from every non-terminal
// state.
var transitions = map[State][]State{
	StateIdle:        {StateResolving, StateFailed},
	StateResolving:   {StateDownloading, StateTranscoding, StateFailed},
	StateDownloading: {StateTranscoding, StateFailed},
	StateTranscoding: {StateSending, StateFailed},
	StateSending:     {StateDone, StateFailed},
	StateDone:        {},
	StateFailed:      {},
}

// CanTransition reports whether moving from s to next is legal.
func (s State) CanTransition(next State) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// machine tracks the current state of one request and rejects illegal moves.
type machine struct {
	current State
}

func newMachine() *machine {
	return &machine{current: StateIdle}
}

func (m *machine) advance(next State) error {
	if !m.current.CanTransition(next) {
		return fmt.Errorf("illegal state transition %s -> %s", m.current, next)
	}
	m.current = next
	return nil
}
