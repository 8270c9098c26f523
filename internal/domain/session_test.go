package domain

import "testing"

func TestSessionActivate(t *testing.T) {
	s := NewSession("conn-1")
	if s.State() != StateConnecting {
		t.Fatalf("new session state = %v, want %v", s.State(), StateConnecting)
	}

	if !s.Activate("u1", "alice") {
		t.Fatal("Activate on connecting session returned false")
	}
	if s.State() != StateActive {
		t.Fatalf("state after Activate = %v, want %v", s.State(), StateActive)
	}
	if s.UserID != "u1" || s.Name != "alice" {
		t.Fatalf("identity = %q/%q, want u1/alice", s.UserID, s.Name)
	}

	if s.Activate("u2", "bob") {
		t.Fatal("Activate on active session returned true")
	}
	if s.UserID != "u1" {
		t.Fatalf("identity overwritten to %q", s.UserID)
	}
}

func TestSessionRejectIsTerminal(t *testing.T) {
	s := NewSession("conn-1")
	s.Reject()
	if s.State() != StateRejected {
		t.Fatalf("state after Reject = %v, want %v", s.State(), StateRejected)
	}
	if s.Activate("u1", "alice") {
		t.Fatal("Activate succeeded on rejected session")
	}
	s.Close()
	if s.State() != StateRejected {
		t.Fatalf("Close changed rejected state to %v", s.State())
	}
}

func TestSessionCloseIsTerminal(t *testing.T) {
	s := NewSession("conn-1")
	s.Activate("u1", "alice")
	s.Close()
	if s.State() != StateClosed {
		t.Fatalf("state after Close = %v, want %v", s.State(), StateClosed)
	}
	s.Close()
	if s.State() != StateClosed {
		t.Fatal("second Close changed state")
	}
	if s.Activate("u1", "alice") {
		t.Fatal("Activate succeeded on closed session")
	}
}

func TestSessionStateString(t *testing.T) {
	tests := []struct {
		state SessionState
		want  string
	}{
		{StateConnecting, "connecting"},
		{StateActive, "active"},
		{StateClosed, "closed"},
		{StateRejected, "rejected"},
		{SessionState(99), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.state.String(); got != tt.want {
			t.Errorf("SessionState(%d).String() = %q, want %q", tt.state, got, tt.want)
		}
	}
}
