// Package jobs defines the async work abstraction used for merchant
// categorization. The queue is in-memory (see inmemory) because categorized
// output is transient working state, not durable data.
package jobs

import (
	"context"
	"time"
)

// JobType identifies what kind of work a job carries.
type JobType string

// JobTypeCategorizeUpload asks the worker to categorize an uploaded export.
const JobTypeCategorizeUpload JobType = "categorize_upload"

// JobStatus is the lifecycle state of a job.
type JobStatus string

const (
	JobStatusPending   JobStatus = "pending"
	JobStatusRunning   JobStatus = "running"
	JobStatusCompleted JobStatus = "completed"
	JobStatusFailed    JobStatus = "failed"
	JobStatusRetrying  JobStatus = "retrying"
)

// CategorizeUploadJob categorizes the merchants of one uploaded CSV and
// stores the categorized output next to the raw bytes.
type CategorizeUploadJob struct {
	JobID    string `json:"job_id"`
	UploadID string `json:"upload_id"`

	Status    JobStatus  `json:"status"`
	CreatedAt time.Time  `json:"created_at"`
	StartedAt *time.Time `json:"started_at,omitempty"`
	DoneAt    *time.Time `json:"done_at,omitempty"`

	Error      string `json:"error,omitempty"`
	RetryCount int    `json:"retry_count"`
	MaxRetries int    `json:"max_retries"`
}

// Job is the generic view over all job types.
type Job interface {
	GetID() string
	GetType() JobType
	GetStatus() JobStatus
}

func (j *CategorizeUploadJob) GetID() string        { return j.JobID }
func (j *CategorizeUploadJob) GetType() JobType     { return JobTypeCategorizeUpload }
func (j *CategorizeUploadJob) GetStatus() JobStatus { return j.Status }

// Publisher enqueues jobs. The abstraction keeps a path open to swap the
// channel-backed queue for Cloud Tasks or Pub/Sub without touching handlers.
type Publisher interface {
	PublishCategorizeUpload(ctx context.Context, job *CategorizeUploadJob) error
	Close() error
}

// Handler processes one job; a returned error triggers a retry.
type Handler func(ctx context.Context, job Job) error

// Consumer drains jobs from a queue.
type Consumer interface {
	Start(ctx context.Context, handler Handler) error
	Stop(ctx context.Context) error
}

// Store tracks job state for status endpoints.
type Store interface {
	SaveJob(ctx context.Context, job *CategorizeUploadJob) error
	GetJob(ctx context.Context, jobID string) (*CategorizeUploadJob, error)
	ListJobs(ctx context.Context, filter Filter) ([]*CategorizeUploadJob, error)
}

// Filter narrows ListJobs results.
type Filter struct {
	UploadID string
	Status   JobStatus
	Limit    int
}
