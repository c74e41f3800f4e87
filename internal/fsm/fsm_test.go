package fsm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Elevator door states used throughout the tests.
type doorState string

const (
	doorsClosed doorState = "DoorsClosed"
	doorsOpen   doorState = "DoorsOpen"
	moving      doorState = "Moving"
)

func doorTable() Table[doorState] {
	return Table[doorState]{
		doorsClosed: {moving, doorsOpen},
		doorsOpen:   {doorsClosed},
		moving:      {doorsClosed},
	}
}

func TestMachine_NextStates(t *testing.T) {
	m := New(Config[doorState, any]{Transitions: doorTable()}, doorsClosed)

	assert.Equal(t, []doorState{moving, doorsOpen}, m.NextStates())
	assert.True(t, m.CanTransitionTo(moving))
	assert.True(t, m.CanTransitionTo(doorsOpen))
	assert.False(t, m.CanTransitionTo(doorsClosed))
}

func TestMachine_NextStates_UnknownState(t *testing.T) {
	m := New(Config[doorState, any]{Transitions: doorTable()}, doorState("Unknown"))

	assert.NotNil(t, m.NextStates())
	assert.Empty(t, m.NextStates())
	assert.False(t, m.CanTransitionTo(doorsClosed))
}

func TestMachine_TransitionSequence(t *testing.T) {
	m := New(Config[doorState, any]{Transitions: doorTable()}, doorsClosed)

	for _, target := range []doorState{moving, doorsClosed, doorsOpen, doorsClosed} {
		require.True(t, m.TransitionTo(target, nil), "transition to %s", target)
		assert.Equal(t, target, m.State())
	}
}

func TestMachine_InvalidTransition(t *testing.T) {
	var errFrom, errTo doorState
	var errReason string
	errCalls := 0

	m := New(Config[doorState, any]{
		Transitions: doorTable(),
		OnError: func(from, to doorState, reason string) {
			errCalls++
			errFrom, errTo, errReason = from, to, reason
		},
	}, doorsOpen)

	changed := m.TransitionTo(moving, nil)

	assert.False(t, changed)
	assert.Equal(t, doorsOpen, m.State())
	assert.Equal(t, 1, errCalls)
	assert.Equal(t, doorsOpen, errFrom)
	assert.Equal(t, moving, errTo)
	assert.Empty(t, errReason)
}

func TestMachine_StartHookDeny(t *testing.T) {
	errCalls, endCalls := 0, 0

	m := New(Config[doorState, any]{
		Transitions: doorTable(),
		OnTransitionStart: func(from, to doorState, data any) Outcome {
			return Deny()
		},
		OnTransitionEnd: func(from, to doorState, data any) { endCalls++ },
		OnError:         func(from, to doorState, reason string) { errCalls++ },
	}, doorsClosed)

	changed := m.TransitionTo(moving, nil)

	assert.False(t, changed)
	assert.Equal(t, doorsClosed, m.State())
	assert.Zero(t, errCalls, "silent veto must not invoke OnError")
	assert.Zero(t, endCalls)
}

func TestMachine_StartHookDenyWithReason(t *testing.T) {
	var gotReason string
	endCalls := 0

	m := New(Config[doorState, any]{
		Transitions: doorTable(),
		OnTransitionStart: func(from, to doorState, data any) Outcome {
			return DenyWithReason("maintenance mode")
		},
		OnTransitionEnd: func(from, to doorState, data any) { endCalls++ },
		OnError: func(from, to doorState, reason string) {
			gotReason = reason
		},
	}, doorsClosed)

	changed := m.TransitionTo(moving, nil)

	assert.False(t, changed)
	assert.Equal(t, doorsClosed, m.State())
	assert.Equal(t, "maintenance mode", gotReason)
	assert.Zero(t, endCalls)
}

func TestMachine_StartHookProceed(t *testing.T) {
	type payload struct{ note string }

	endCalls := 0
	data := &payload{note: "going up"}

	m := New(Config[doorState, *payload]{
		Transitions: doorTable(),
		OnTransitionStart: func(from, to doorState, d *payload) Outcome {
			return Proceed()
		},
		OnTransitionEnd: func(from, to doorState, d *payload) {
			endCalls++
			assert.Equal(t, doorsClosed, from)
			assert.Equal(t, moving, to)
			assert.Same(t, data, d)
		},
	}, doorsClosed)

	require.True(t, m.TransitionTo(moving, data))
	assert.Equal(t, moving, m.State())
	assert.Equal(t, 1, endCalls)
}

func TestMachine_JumpTo(t *testing.T) {
	hookCalls := 0

	m := New(Config[doorState, any]{
		Transitions: doorTable(),
		OnTransitionStart: func(from, to doorState, data any) Outcome {
			hookCalls++
			return Proceed()
		},
		OnTransitionEnd: func(from, to doorState, data any) { hookCalls++ },
		OnError:         func(from, to doorState, reason string) { hookCalls++ },
	}, doorsOpen)

	// Not permitted by the table, but jump bypasses validation.
	m.JumpTo(moving)

	assert.Equal(t, moving, m.State())
	assert.Zero(t, hookCalls)
}
