package entity

import "github.com/google/uuid"

type JobState string

const (
	JobWaiting   JobState = "waiting"
	JobRunning   JobState = "running"
	JobSucceeded JobState = "succeeded"
	JobFailed    JobState = "failed"
	JobStopped   JobState = "stopped"
)

// Active reports whether the job is queued or currently being processed.
func (s JobState) Active() bool {
	return s == JobWaiting || s == JobRunning
}

// ProcessingJob is one ingestion run for a source. Timestamps are unix
// milliseconds; StartedAt and FinishedAt are -1 until the respective
// transition happened.
type ProcessingJob struct {
	Id         uuid.UUID
	SourceId   uuid.UUID
	CreatedAt  int64
	StartedAt  int64
	FinishedAt int64
	Log        string
	State      JobState
}
