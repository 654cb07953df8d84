package lifecycle

import "testing"

func TestState_String(t *testing.T) {
	tests := []struct {
		state State
		want  string
	}{
		{StateNew, "new"},
		{StateStarting, "starting"},
		{StateRunning, "running"},
		{StateStopping, "stopping"},
		{StateTerminated, "terminated"},
		{StateFailed, "failed"},
		{State(99), "unknown"},
		{State(-1), "unknown"},
	}

	for _, tt := range tests {
		got := tt.state.String()
		if got != tt.want {
			t.Errorf("State(%d).String() = %s, want %s", tt.state, got, tt.want)
		}
	}
}

func TestCanTransition_Matrix(t *testing.T) {
	legal := map[[2]State]bool{}
	chain := []State{StateNew, StateStarting, StateRunning, StateStopping, StateTerminated}
	for i := 0; i+1 < len(chain); i++ {
		legal[[2]State{chain[i], chain[i+1]}] = true
	}
	for s := StateNew; s < stateCount; s++ {
		if s != StateFailed {
			legal[[2]State{s, StateFailed}] = true
		}
	}

	for from := StateNew; from < stateCount; from++ {
		for to := StateNew; to < stateCount; to++ {
			want := legal[[2]State{from, to}]
			if got := canTransition(from, to); got != want {
				t.Errorf("canTransition(%s, %s) = %v, want %v", from, to, got, want)
			}
		}
	}
}

func TestErrCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Code
	}{
		{"nil", nil, CodeNone},
		{"invalid transition", ErrInvalidTransition, CodeInvalid},
		{"invalid epoch", ErrInvalidEpoch, CodeInvalid},
		{"clock", ErrClockUnavailable, CodeClock},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ErrCode(tt.err); got != tt.want {
				t.Errorf("ErrCode() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCode_String(t *testing.T) {
	tests := []struct {
		code Code
		want string
	}{
		{CodeNone, ""},
		{CodeInvalid, "EINVAL"},
		{CodeClock, "EFAULT"},
		{CodeAgain, "EAGAIN"},
	}

	for _, tt := range tests {
		if got := tt.code.String(); got != tt.want {
			t.Errorf("Code(%d).String() = %q, want %q", tt.code, got, tt.want)
		}
	}
}
