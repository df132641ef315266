package jobs

import (
	"errors"
	"fmt"
	"time"
)

// ErrUnknownJob is returned for job ids the poller has no record of,
// including jobs already discarded after their result was consumed.
var ErrUnknownJob = errors.New("unknown job id")

// ErrJobCancelled is returned when a job reached the cancelled state.
var ErrJobCancelled = errors.New("job cancelled")

// JobTimeoutError means the job did not reach a terminal state within the
// caller's wait budget. Fatal to the tool call, recoverable for the session:
// the user can submit the request again.
type JobTimeoutError struct {
	JobID  string
	Waited time.Duration
}

func (e *JobTimeoutError) Error() string {
	return fmt.Sprintf("job %s did not complete within %s", e.JobID, e.Waited)
}

// JobFailedError carries the provider-reported failure of a job.
type JobFailedError struct {
	JobID  string
	Detail string
}

func (e *JobFailedError) Error() string {
	if e.Detail == "" {
		return fmt.Sprintf("job %s failed", e.JobID)
	}
	return fmt.Sprintf("job %s failed: %s", e.JobID, e.Detail)
}
