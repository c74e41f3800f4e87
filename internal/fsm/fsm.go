// Package fsm provides a small, type-parameterized finite state machine.
//
// A Machine is constructed per transition attempt, validates targets
// against a transition table and invokes lifecycle hooks. It holds no
// locks: serializing transitions on the owning entity is the caller's
// responsibility.
package fsm

import "fmt"

// Table maps each state to the set of states reachable from it in one
// step. A state with an empty (or absent) entry is terminal.
type Table[S comparable] map[S][]S

// outcomeKind discriminates the three ways a start hook can answer.
type outcomeKind int

const (
	outcomeProceed outcomeKind = iota
	outcomeDeny
	outcomeDenyWithReason
)

// Outcome is the tri-state result of an OnTransitionStart hook:
// proceed, deny silently, or deny with a reason that becomes an error.
type Outcome struct {
	kind   outcomeKind
	reason string
}

// Proceed allows the transition to continue.
func Proceed() Outcome {
	return Outcome{kind: outcomeProceed}
}

// Deny aborts the transition silently. The state is left unchanged and
// no error hook fires.
func Deny() Outcome {
	return Outcome{kind: outcomeDeny}
}

// DenyWithReason aborts the transition and routes reason to the error
// hook.
func DenyWithReason(format string, args ...any) Outcome {
	return Outcome{kind: outcomeDenyWithReason, reason: fmt.Sprintf(format, args...)}
}

// Allowed reports whether the outcome permits the transition.
func (o Outcome) Allowed() bool {
	return o.kind == outcomeProceed
}

// Reason returns the denial reason and whether one was supplied.
func (o Outcome) Reason() (string, bool) {
	return o.reason, o.kind == outcomeDenyWithReason
}

// Config describes one state machine: its transition table and
// lifecycle hooks. All hooks are optional; a nil OnTransitionStart
// permits every table-valid transition.
type Config[S comparable, D any] struct {
	// Transitions is the table of permitted transitions.
	Transitions Table[S]

	// OnTransitionStart runs before the state changes and may veto it.
	OnTransitionStart func(from, to S, data D) Outcome

	// OnTransitionEnd runs after the state has changed.
	OnTransitionEnd func(from, to S, data D)

	// OnError runs when a transition is rejected by the table (reason
	// is empty) or vetoed with a reason by OnTransitionStart.
	OnError func(from, to S, reason string)
}

// Machine tracks the current state of a single entity for one
// transition attempt. It is not safe for concurrent use.
type Machine[S comparable, D any] struct {
	config  Config[S, D]
	current S
}

// New creates a machine positioned at initial.
func New[S comparable, D any](config Config[S, D], initial S) *Machine[S, D] {
	return &Machine[S, D]{config: config, current: initial}
}

// State returns the current state.
func (m *Machine[S, D]) State() S {
	return m.current
}

// CanTransitionTo reports whether the table permits moving to target
// from the current state.
func (m *Machine[S, D]) CanTransitionTo(target S) bool {
	for _, s := range m.config.Transitions[m.current] {
		if s == target {
			return true
		}
	}
	return false
}

// NextStates returns the states reachable from the current state. The
// result is a copy and is never nil.
func (m *Machine[S, D]) NextStates() []S {
	allowed := m.config.Transitions[m.current]
	next := make([]S, len(allowed))
	copy(next, allowed)
	return next
}

// TransitionTo attempts to move to target and reports whether the
// state changed.
//
// A target missing from the table invokes OnError with an empty reason
// and leaves the state unchanged. Otherwise OnTransitionStart decides:
// Proceed completes the transition and fires OnTransitionEnd, Deny
// aborts silently, DenyWithReason aborts and invokes OnError with the
// supplied reason.
func (m *Machine[S, D]) TransitionTo(target S, data D) bool {
	if !m.CanTransitionTo(target) {
		if m.config.OnError != nil {
			m.config.OnError(m.current, target, "")
		}
		return false
	}

	if m.config.OnTransitionStart != nil {
		outcome := m.config.OnTransitionStart(m.current, target, data)
		if !outcome.Allowed() {
			if reason, ok := outcome.Reason(); ok && m.config.OnError != nil {
				m.config.OnError(m.current, target, reason)
			}
			return false
		}
	}

	from := m.current
	m.current = target
	if m.config.OnTransitionEnd != nil {
		m.config.OnTransitionEnd(from, target, data)
	}
	return true
}

// JumpTo sets the current state unconditionally, bypassing the table
// and all hooks. Intended for administrative correction and tests.
func (m *Machine[S, D]) JumpTo(target S) {
	m.current = target
}
