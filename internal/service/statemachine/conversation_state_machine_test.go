package statemachine

import (
	"errors"
	"testing"
)

func TestAllowedTransitions(t *testing.T) {
	sm := NewConversationStateMachine()

	froms := []ConversationState{StateIdle, StateConversing, StateDocumentSaved, StateError}
	tos := []ConversationState{StateConversing, StateDocumentSaved, StateError}

	for _, from := range froms {
		for _, to := range tos {
			if !sm.CanTransition(from, to) {
				t.Errorf("expected %s -> %s to be allowed", from, to)
			}
		}
	}
}

func TestIdleOnlyReachableViaReset(t *testing.T) {
	sm := NewConversationStateMachine()

	for _, from := range []ConversationState{StateIdle, StateConversing, StateDocumentSaved, StateError} {
		if sm.CanTransition(from, StateIdle) {
			t.Errorf("expected %s -> idle to be rejected", from)
		}
	}

	if got := sm.Reset("s1"); got != StateIdle {
		t.Errorf("expected Reset to return idle, got %s", got)
	}
}

func TestValidateTransitionError(t *testing.T) {
	sm := NewConversationStateMachine()

	err := sm.ValidateTransition(StateConversing, StateIdle)
	if err == nil {
		t.Fatal("expected error for conversing -> idle")
	}

	var invalidErr *InvalidConversationStateTransitionError
	if !errors.As(err, &invalidErr) {
		t.Fatalf("unexpected error type: %T", err)
	}
	if invalidErr.From != "conversing" || invalidErr.To != "idle" {
		t.Errorf("unexpected error fields: %+v", invalidErr)
	}
}

func TestTransitionUnknownState(t *testing.T) {
	sm := NewConversationStateMachine()

	if err := sm.Transition(ConversationState("bogus"), StateConversing, "s1"); err == nil {
		t.Error("expected error for unknown source state")
	}
}
