package query

import (
	"pdnsq/internal/logger"
	"pdnsq/internal/record"
)

// SAFState is the per-Fetch lifecycle state tracked while consuming a SAF
// stream. It starts at StateInit and latches at the first terminal cond.
type SAFState string

const (
	StateInit      SAFState = "init"
	StateBegin     SAFState = "begin"
	StateOngoing   SAFState = "ongoing"
	StateSucceeded SAFState = "succeeded"
	StateLimited   SAFState = "limited"
	StateFailed    SAFState = "failed"
	StateMissing   SAFState = "missing"
)

// Terminal reports whether s is one of the states that ends a Fetch's SAF
// lifecycle.
func (s SAFState) Terminal() bool {
	switch s {
	case StateSucceeded, StateLimited, StateFailed, StateMissing:
		return true
	default:
		return false
	}
}

// SAFMachine advances the per-Fetch SAF state as records arrive. The zero
// value is ready to use at StateInit.
type SAFMachine struct {
	state SAFState
	msg   string
}

// State returns the current latched state.
func (m *SAFMachine) State() SAFState {
	if m.state == "" {
		return StateInit
	}
	return m.state
}

// Message returns the message latched by the terminal/missing transition.
func (m *SAFMachine) Message() string { return m.msg }

// Advance feeds one parsed tuple's SAF fields through the state machine and
// reports whether the record should be skipped (not counted, not
// presented/dispatched). Once a terminal state latches, further calls are a
// no-op and always report skip=true.
func (m *SAFMachine) Advance(t *record.Tuple) (skip bool) {
	if m.State().Terminal() {
		return true
	}

	switch t.Cond {
	case record.CondBegin:
		m.state = StateBegin
		return true
	case record.CondOngoing:
		m.state = StateOngoing
		if len(t.Raw) == 0 {
			return true // keepalive: empty obj
		}
		return false
	case record.CondSucceeded:
		m.state = StateSucceeded
		m.msg = t.Msg
		return true
	case record.CondLimited:
		m.state = StateLimited
		m.msg = t.Msg
		return true
	case record.CondFailed:
		m.state = StateFailed
		m.msg = t.Msg
		return true
	case record.CondNone:
		if len(t.Raw) == 0 {
			return true
		}
		return false
	default:
		m.state = StateMissing
		m.msg = "unrecognized saf cond: " + string(t.Cond)
		logger.Warn("saf stream latched missing", logger.KeySAFCond, string(t.Cond), logger.KeySAFMsg, m.msg)
		return true
	}
}

// Finalize is called when the fetch's stream ends (EOF) without a terminal
// cond having arrived. A fetch that saw "begin" but never reached a terminal
// state is "missing" its conclusion.
func (m *SAFMachine) Finalize() {
	if m.State() == StateBegin || m.State() == StateOngoing {
		m.state = StateMissing
		m.msg = "stream ended without a terminal saf condition"
	}
}
