// Package jobs tracks asynchronous generation work submitted to third-party
// services. A tool call submits a job, the poller checks the provider until
// the job reaches a terminal state, and the terminal outcome is folded back
// into the tool result the agent loop hands to the model.
package jobs

import (
	"context"
	"encoding/json"
)

// State is the lifecycle state of a job.
type State string

const (
	StateSubmitted State = "submitted"
	StatePending   State = "pending"
	StateSucceeded State = "succeeded"
	StateFailed    State = "failed"
	StateTimedOut  State = "timed_out"
	StateCancelled State = "cancelled"
)

// Terminal reports whether no further transitions can leave s.
func (s State) Terminal() bool {
	switch s {
	case StateSucceeded, StateFailed, StateTimedOut, StateCancelled:
		return true
	}
	return false
}

// Handle is the provider-tagged identity of a remote job. The two Rodin
// modes poll by different keys: the main site by subscription key, the
// fast-inference endpoint by request id. The poller never inspects the
// fields; only the owning provider does.
type Handle struct {
	Mode string // provider tag, e.g. "MAIN_SITE" or "FAL_AI"
	ID   string // task uuid or request id
	Key  string // subscription key (main-site mode only)
}

// Request describes the generation work to submit.
type Request struct {
	Prompt        string
	Images        []string
	BBoxCondition []float64
}

// Result is the terminal outcome of a job.
type Result struct {
	State   State
	Payload json.RawMessage // set when State == StateSucceeded
	Detail  string          // provider-reported failure detail
}

// Provider is the capability set a generation backend must implement.
// New backends plug in here without the agent loop changing.
type Provider interface {
	// Name identifies the provider in logs and job records.
	Name() string

	// Submit starts the remote work and returns its polling identity.
	Submit(ctx context.Context, req Request) (Handle, error)

	// CheckStatus reports the remote state plus optional detail text.
	CheckStatus(ctx context.Context, h Handle) (State, string, error)

	// FetchResult retrieves the payload of a succeeded job.
	FetchResult(ctx context.Context, h Handle) (json.RawMessage, error)

	// Cancel asks the provider to stop the work. Advisory only; the
	// remote side may finish anyway.
	Cancel(ctx context.Context, h Handle) error
}

// job is the poller's record of one submitted job.
type job struct {
	id       string
	provider Provider
	handle   Handle
	state    State
	result   json.RawMessage
	detail   string
}
