package inmemory

import (
	"context"
	"fmt"
	"sync"

	"github.com/AryamanRoy/Raseed-FinanceAI/internal/jobs"
)

// Store keeps job state in memory, safe for concurrent use. State is lost on
// restart, which matches the transient nature of categorization jobs.
type Store struct {
	mu   sync.RWMutex
	jobs map[string]*jobs.CategorizeUploadJob
}

// NewStore creates an empty job store.
func NewStore() *Store {
	return &Store{jobs: make(map[string]*jobs.CategorizeUploadJob)}
}

// SaveJob stores or updates a job. The job is copied in so later caller
// mutations do not leak into the store.
func (s *Store) SaveJob(ctx context.Context, job *jobs.CategorizeUploadJob) error {
	if job.JobID == "" {
		return fmt.Errorf("job ID is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *job
	s.jobs[job.JobID] = &cp
	return nil
}

// GetJob returns a copy of the job with the given ID.
func (s *Store) GetJob(ctx context.Context, jobID string) (*jobs.CategorizeUploadJob, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	job, ok := s.jobs[jobID]
	if !ok {
		return nil, fmt.Errorf("job not found: %s", jobID)
	}
	cp := *job
	return &cp, nil
}

// ListJobs returns copies of jobs matching the filter, unordered.
func (s *Store) ListJobs(ctx context.Context, filter jobs.Filter) ([]*jobs.CategorizeUploadJob, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*jobs.CategorizeUploadJob
	for _, job := range s.jobs {
		if filter.UploadID != "" && job.UploadID != filter.UploadID {
			continue
		}
		if filter.Status != "" && job.Status != filter.Status {
			continue
		}
		cp := *job
		result = append(result, &cp)
		if filter.Limit > 0 && len(result) == filter.Limit {
			break
		}
	}
	return result, nil
}

var _ jobs.Store = (*Store)(nil)
