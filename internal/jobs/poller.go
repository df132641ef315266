package jobs

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Poller owns the registry of in-flight jobs and drives them to a terminal
// state. Jobs are mutated only here; callers see ids and Results.
type Poller struct {
	mu     sync.Mutex
	jobs   map[string]*job
	logger *slog.Logger
}

// NewPoller creates an empty Poller.
func NewPoller(logger *slog.Logger) *Poller {
	if logger == nil {
		logger = slog.Default()
	}
	return &Poller{
		jobs:   make(map[string]*job),
		logger: logger,
	}
}

// Submit starts remote work on the given provider and registers a job for
// it. The returned id is the only way callers refer to the job afterwards.
func (p *Poller) Submit(ctx context.Context, provider Provider, req Request) (string, error) {
	handle, err := provider.Submit(ctx, req)
	if err != nil {
		return "", err
	}

	j := &job{
		id:       uuid.NewString(),
		provider: provider,
		handle:   handle,
		state:    StateSubmitted,
	}

	p.mu.Lock()
	p.jobs[j.id] = j
	p.mu.Unlock()

	p.logger.Info("job submitted",
		"job_id", j.id,
		"provider", provider.Name(),
		"mode", handle.Mode,
	)
	return j.id, nil
}

// Poll refreshes the job's state from its provider and returns it.
// Terminal states absorb: once terminal, the provider is not consulted
// again. A provider report can never move a pending job back to submitted.
func (p *Poller) Poll(ctx context.Context, jobID string) (State, error) {
	p.mu.Lock()
	j, ok := p.jobs[jobID]
	p.mu.Unlock()
	if !ok {
		return "", ErrUnknownJob
	}

	if j.state.Terminal() {
		return j.state, nil
	}

	state, detail, err := j.provider.CheckStatus(ctx, j.handle)
	if err != nil {
		return j.state, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.advance(j, state, detail)
	return j.state, nil
}

// advance applies a provider-reported state under the registry lock,
// enforcing the transition rules.
func (p *Poller) advance(j *job, state State, detail string) {
	if j.state.Terminal() {
		return
	}
	// submitted -> pending is the only forward non-terminal move;
	// a stale "submitted" report never regresses a pending job.
	if state == StateSubmitted && j.state == StatePending {
		return
	}
	if state == j.state {
		return
	}

	p.logger.Debug("job state change", "job_id", j.id, "from", j.state, "to", state)
	j.state = state
	j.detail = detail
}

// AwaitTerminal polls the job every interval until it reaches a terminal
// state or maxWait elapses. A slow job is not an error condition of the
// poller itself: timeout is reported as a *JobTimeoutError with the job left
// in the timed_out state, and failure as a *JobFailedError. The Result is
// non-nil in every return path that has a terminal state to describe.
func (p *Poller) AwaitTerminal(ctx context.Context, jobID string, interval, maxWait time.Duration) (*Result, error) {
	if interval <= 0 {
		interval = 2 * time.Second
	}

	deadline := time.NewTimer(maxWait)
	defer deadline.Stop()
	tick := time.NewTicker(interval)
	defer tick.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-deadline.C:
			p.markTimedOut(jobID)
			return &Result{State: StateTimedOut}, &JobTimeoutError{JobID: jobID, Waited: maxWait}
		case <-tick.C:
			state, err := p.Poll(ctx, jobID)
			if err != nil {
				// A single failed status check is not terminal; the
				// next tick tries again. Unknown jobs are fatal.
				if err == ErrUnknownJob {
					return nil, err
				}
				p.logger.Warn("job status check failed", "job_id", jobID, "error", err)
				continue
			}
			if !state.Terminal() {
				continue
			}
			return p.finish(ctx, jobID, state)
		}
	}
}

// finish resolves a terminal state into a Result, fetching the payload of a
// succeeded job from its provider.
func (p *Poller) finish(ctx context.Context, jobID string, state State) (*Result, error) {
	p.mu.Lock()
	j, ok := p.jobs[jobID]
	p.mu.Unlock()
	if !ok {
		return nil, ErrUnknownJob
	}

	switch state {
	case StateSucceeded:
		payload, err := j.provider.FetchResult(ctx, j.handle)
		if err != nil {
			return &Result{State: StateFailed, Detail: err.Error()},
				&JobFailedError{JobID: jobID, Detail: "fetch result: " + err.Error()}
		}
		p.mu.Lock()
		j.result = payload
		p.mu.Unlock()
		return &Result{State: StateSucceeded, Payload: payload, Detail: j.detail}, nil
	case StateCancelled:
		return &Result{State: StateCancelled, Detail: j.detail}, ErrJobCancelled
	case StateTimedOut:
		return &Result{State: StateTimedOut, Detail: j.detail},
			&JobTimeoutError{JobID: jobID}
	default:
		return &Result{State: StateFailed, Detail: j.detail},
			&JobFailedError{JobID: jobID, Detail: j.detail}
	}
}

// Cancel asks the provider to stop the job and marks it cancelled locally.
// Advisory: the remote work may still run to completion.
func (p *Poller) Cancel(ctx context.Context, jobID string) error {
	p.mu.Lock()
	j, ok := p.jobs[jobID]
	p.mu.Unlock()
	if !ok {
		return ErrUnknownJob
	}
	if j.state.Terminal() {
		return nil
	}

	err := j.provider.Cancel(ctx, j.handle)

	p.mu.Lock()
	p.advance(j, StateCancelled, "cancelled by user")
	p.mu.Unlock()
	return err
}

// Discard drops the job record once its terminal result has been folded
// into a tool result. Discarded ids become unknown.
func (p *Poller) Discard(jobID string) {
	p.mu.Lock()
	delete(p.jobs, jobID)
	p.mu.Unlock()
}

// Handle exposes the provider-tagged identity of a job, so tools that
// operate on the remote side (asset import) can name the remote task.
func (p *Poller) Handle(jobID string) (Handle, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	j, ok := p.jobs[jobID]
	if !ok {
		return Handle{}, ErrUnknownJob
	}
	return j.handle, nil
}

// markTimedOut transitions a non-terminal job to timed_out.
func (p *Poller) markTimedOut(jobID string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if j, ok := p.jobs[jobID]; ok {
		p.advance(j, StateTimedOut, "wait budget exhausted")
	}
}
