package blender

import (
	"errors"
	"fmt"
)

// TransportError reports a socket-level failure talking to the Blender addon:
// connection refused, deadline exceeded, or a malformed response. Transport
// failures are never retried automatically; retry is the caller's decision
// because scene-mutating commands are not idempotent.
type TransportError struct {
	Op  string // "dial", "write", "read", "decode"
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("blender transport: %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// RemoteCommandError means the addon received the command and rejected it.
// The message is surfaced verbatim to the model so it can correct its
// arguments on the next round-trip.
type RemoteCommandError struct {
	Command string
	Message string
}

func (e *RemoteCommandError) Error() string {
	return fmt.Sprintf("blender rejected %q: %s", e.Command, e.Message)
}

// IsTransportError reports whether err is (or wraps) a TransportError.
func IsTransportError(err error) bool {
	var te *TransportError
	return errors.As(err, &te)
}
