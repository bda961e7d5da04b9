package inmemory

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/AryamanRoy/Raseed-FinanceAI/internal/jobs"
)

const defaultMaxRetries = 3

// Queue is a channel-backed job queue, safe for concurrent use. It is
// suitable for a single-instance deployment; a multi-instance setup would
// swap in a real broker behind the same interfaces.
type Queue struct {
	jobChan   chan *jobs.CategorizeUploadJob
	closeChan chan struct{}
	wg        sync.WaitGroup
	mu        sync.RWMutex
	store     jobs.Store
	workers   int
	closed    bool
}

// NewQueue creates an in-memory queue. bufferSize bounds how many jobs can be
// pending before publish blocks; workers is the consumer pool size.
func NewQueue(bufferSize, workers int, store jobs.Store) *Queue {
	if workers <= 0 {
		workers = 1
	}
	return &Queue{
		jobChan:   make(chan *jobs.CategorizeUploadJob, bufferSize),
		closeChan: make(chan struct{}),
		store:     store,
		workers:   workers,
	}
}

// PublishCategorizeUpload implements jobs.Publisher.
func (q *Queue) PublishCategorizeUpload(ctx context.Context, job *jobs.CategorizeUploadJob) error {
	q.mu.RLock()
	defer q.mu.RUnlock()

	if q.closed {
		return fmt.Errorf("queue is closed")
	}

	if job.JobID == "" {
		job.JobID = uuid.NewString()
	}
	if job.Status == "" {
		job.Status = jobs.JobStatusPending
	}
	if job.CreatedAt.IsZero() {
		job.CreatedAt = time.Now()
	}
	if job.MaxRetries == 0 {
		job.MaxRetries = defaultMaxRetries
	}

	if q.store != nil {
		if err := q.store.SaveJob(ctx, job); err != nil {
			return fmt.Errorf("save job: %w", err)
		}
	}

	select {
	case q.jobChan <- job:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-q.closeChan:
		return fmt.Errorf("queue is closed")
	}
}

// Start implements jobs.Consumer. The handler runs on the worker pool; it
// returns immediately and workers drain until Stop or context cancellation.
func (q *Queue) Start(ctx context.Context, handler jobs.Handler) error {
	q.mu.RLock()
	if q.closed {
		q.mu.RUnlock()
		return fmt.Errorf("queue is closed")
	}
	q.mu.RUnlock()

	for i := 0; i < q.workers; i++ {
		q.wg.Add(1)
		go q.worker(ctx, handler)
	}
	return nil
}

func (q *Queue) worker(ctx context.Context, handler jobs.Handler) {
	defer q.wg.Done()

	for {
		select {
		case <-ctx.Done():
			return
		case <-q.closeChan:
			return
		case job := <-q.jobChan:
			if job == nil {
				return
			}
			q.process(ctx, job, handler)
		}
	}
}

func (q *Queue) process(ctx context.Context, job *jobs.CategorizeUploadJob, handler jobs.Handler) {
	now := time.Now()
	job.Status = jobs.JobStatusRunning
	job.StartedAt = &now
	q.save(ctx, job)

	err := handler(ctx, job)

	done := time.Now()
	job.DoneAt = &done

	if err == nil {
		job.Status = jobs.JobStatusCompleted
		job.Error = ""
		q.save(ctx, job)
		return
	}

	job.Error = err.Error()
	if job.RetryCount >= job.MaxRetries {
		job.Status = jobs.JobStatusFailed
		q.save(ctx, job)
		return
	}

	job.RetryCount++
	job.Status = jobs.JobStatusRetrying
	q.save(ctx, job)

	// Linear backoff, then re-enqueue as pending.
	backoff := time.Duration(job.RetryCount) * time.Second
	time.AfterFunc(backoff, func() {
		job.Status = jobs.JobStatusPending
		job.StartedAt = nil
		job.DoneAt = nil
		_ = q.PublishCategorizeUpload(ctx, job)
	})
}

func (q *Queue) save(ctx context.Context, job *jobs.CategorizeUploadJob) {
	if q.store != nil {
		_ = q.store.SaveJob(ctx, job)
	}
}

// Stop implements jobs.Consumer. It closes the queue and waits for in-flight
// jobs, bounded by the context.
func (q *Queue) Stop(ctx context.Context) error {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return nil
	}
	q.closed = true
	close(q.closeChan)
	q.mu.Unlock()

	done := make(chan struct{})
	go func() {
		q.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close implements jobs.Publisher.
func (q *Queue) Close() error {
	return q.Stop(context.Background())
}

var (
	_ jobs.Publisher = (*Queue)(nil)
	_ jobs.Consumer  = (*Queue)(nil)
)
