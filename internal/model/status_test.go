package model

import "testing"

func TestCanTransition_ForwardFlow(t *testing.T) {
	steps := [][2]string{
		{StatusPending, StatusConfirmed},
		{StatusConfirmed, StatusInProgress},
		{StatusInProgress, StatusCompleted},
	}
	for _, s := range steps {
		if !CanTransition(s[0], s[1]) {
			t.Fatalf("expected %s -> %s to be allowed", s[0], s[1])
		}
	}
}

func TestCanTransition_CancelFromNonTerminal(t *testing.T) {
	for _, from := range []string{StatusPending, StatusConfirmed, StatusInProgress} {
		if !CanTransition(from, StatusCancelled) {
			t.Fatalf("expected %s -> cancelled to be allowed", from)
		}
	}
}

func TestCanTransition_TerminalStatesAreFinal(t *testing.T) {
	for _, from := range []string{StatusCompleted, StatusCancelled} {
		for to := range StatusTransitions {
			if CanTransition(from, to) {
				t.Fatalf("expected terminal %s to reject transition to %s", from, to)
			}
		}
	}
}

func TestCanTransition_NoSkippingOrBackwards(t *testing.T) {
	cases := [][2]string{
		{StatusPending, StatusInProgress},
		{StatusPending, StatusCompleted},
		{StatusConfirmed, StatusPending},
		{StatusInProgress, StatusConfirmed},
		{StatusCancelled, StatusPending},
	}
	for _, s := range cases {
		if CanTransition(s[0], s[1]) {
			t.Fatalf("expected %s -> %s to be rejected", s[0], s[1])
		}
	}
}

func TestCanTransition_UnknownStatus(t *testing.T) {
	if CanTransition("unknown", StatusConfirmed) {
		t.Fatalf("unknown source status must not transition")
	}
	if ValidStatus("unknown") {
		t.Fatalf("unknown must not be a valid status")
	}
	if !ValidStatus(StatusPending) {
		t.Fatalf("pending must be a valid status")
	}
}
