// Package jobs keeps an in-memory registry of background jobs with their
// logs, progress and outcome.
package jobs

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"shop-finder/internal/logger"
)

type Status string

const (
	StatusRunning Status = "running"
	StatusDone    Status = "done"
	StatusError   Status = "error"
)

var ErrNotFound = errors.New("job not found")

type Result struct {
	Rows     int    `json:"rows"`
	Sheet    string `json:"sheet"`
	Output   string `json:"-"`
	Filename string `json:"filename"` // for download
}

type Job struct {
	ID        string
	CreatedAt time.Time

	mu       sync.RWMutex
	status   Status
	logs     []string
	progress int // 0-100
	result   *Result
	err      string
	finished chan struct{}
}

// Snapshot is a consistent copy of a job's state.
type Snapshot struct {
	ID        string    `json:"id"`
	Status    Status    `json:"status"`
	Progress  int       `json:"progress"`
	Logs      []string  `json:"logs"`
	Result    *Result   `json:"result,omitempty"`
	Error     string    `json:"error,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

func newJob() *Job {
	return &Job{
		ID:        uuid.New().String(),
		CreatedAt: time.Now(),
		status:    StatusRunning,
		logs:      []string{},
		finished:  make(chan struct{}),
	}
}

func stamp(msg string) string {
	return fmt.Sprintf("[%s] %s", time.Now().Format("15:04:05"), msg)
}

func (j *Job) Log(msg string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.logs = append(j.logs, stamp(msg))
}

func (j *Job) SetProgress(current, total int, msg string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if total > 0 {
		j.progress = int(float64(current) / float64(total) * 100)
	}
	if msg != "" {
		j.logs = append(j.logs, stamp(msg))
	}
}

// Fail marks the job as failed. Only the first Fail or Done counts.
func (j *Job) Fail(msg string) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.status != StatusRunning {
		return
	}
	j.status = StatusError
	j.err = msg
	j.logs = append(j.logs, "[ERROR] "+msg)
	close(j.finished)
}

func (j *Job) Done(result *Result) {
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.status != StatusRunning {
		return
	}
	j.status = StatusDone
	j.result = result
	j.progress = 100
	j.logs = append(j.logs, stamp("completed"))
	close(j.finished)
}

// Finished is closed once the job is done or failed.
func (j *Job) Finished() <-chan struct{} {
	return j.finished
}

func (j *Job) Snapshot() Snapshot {
	j.mu.RLock()
	defer j.mu.RUnlock()

	logs := make([]string, len(j.logs))
	copy(logs, j.logs)

	var result *Result
	if j.result != nil {
		r := *j.result
		result = &r
	}
	return Snapshot{
		ID:        j.ID,
		Status:    j.status,
		Progress:  j.progress,
		Logs:      logs,
		Result:    result,
		Error:     j.err,
		CreatedAt: j.CreatedAt,
	}
}

type Store struct {
	mu   sync.RWMutex
	jobs map[string]*Job
	log  *zap.Logger
}

func NewStore(log *zap.Logger) *Store {
	return &Store{jobs: make(map[string]*Job), log: logger.OrNop(log)}
}

func (s *Store) Create() *Job {
	job := newJob()
	s.mu.Lock()
	s.jobs[job.ID] = job
	s.mu.Unlock()
	return job
}

func (s *Store) Get(id string) (*Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	job, ok := s.jobs[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return job, nil
}

// Run registers a job and executes fn in its own goroutine. A returned error
// or a panic fails the job; otherwise it completes with fn's result.
func (s *Store) Run(ctx context.Context, fn func(ctx context.Context, job *Job) (*Result, error)) *Job {
	job := s.Create()

	go func() {
		defer func() {
			if r := recover(); r != nil {
				s.log.Error("job panicked", zap.String("job_id", job.ID), zap.Any("panic", r))
				job.Fail(fmt.Sprintf("panic: %v", r))
			}
		}()

		start := time.Now()
		result, err := fn(ctx, job)
		if err != nil {
			s.log.Warn("job failed", zap.String("job_id", job.ID), zap.Error(err))
			job.Fail(err.Error())
			return
		}
		s.log.Info("job done", zap.String("job_id", job.ID), zap.Duration("elapsed", time.Since(start)))
		job.Done(result)
	}()

	return job
}
