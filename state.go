package googlestt

// State represents the lifecycle state of a recognition session.
type State string

const (
	// StateUninitialized is the zero value; a session that was never set up.
	StateUninitialized State = ""

	// StateReady indicates credentials, channel and stub are in place and the
	// session can open a stream.
	StateReady State = "Ready"

	// StateStreaming indicates the duplex stream is open, the configuration
	// frame has been sent and audio frames may be pushed.
	StateStreaming State = "Streaming"

	// StateStopping indicates the outbound side has been half-closed; results
	// may still arrive until the remote side finishes.
	StateStopping State = "Stopping"

	// StateDone indicates the session has been destroyed and all resources
	// released.
	StateDone State = "Done"

	// StateError indicates the stream is broken for this utterance. The
	// session must still be destroyed.
	StateError State = "Error"
)

// IsActive returns true if the session currently owns an open stream.
func (s State) IsActive() bool {
	switch s {
	case StateStreaming, StateStopping:
		return true
	default:
		return false
	}
}

// IsTerminal returns true if no further stream can be opened for this session.
func (s State) IsTerminal() bool {
	switch s {
	case StateDone, StateError:
		return true
	default:
		return false
	}
}

// String returns the string representation of the state.
func (s State) String() string {
	if s == StateUninitialized {
		return "Uninitialized"
	}
	return string(s)
}
