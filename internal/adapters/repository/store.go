// Package repository keeps analysis job records.
package repository

import (
	"context"
	"time"

	"github.com/okian/teamiq/internal/domain/analysis"
)

// Status is the lifecycle state of a job.
type Status string

// Job statuses.
const (
	StatusQueued    Status = "queued"
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Finished reports whether the job reached a terminal state.
func (s Status) Finished() bool {
	return s == StatusCompleted || s == StatusFailed
}

// Record is the stored state of one job.
type Record struct {
	ID          string           `json:"id"`
	PracticeID  string           `json:"practice_id"`
	Status      Status           `json:"status"`
	Fingerprint string           `json:"fingerprint,omitempty"`
	SubmittedAt time.Time        `json:"submitted_at"`
	StartedAt   *time.Time       `json:"started_at,omitempty"`
	CompletedAt *time.Time       `json:"completed_at,omitempty"`
	Error       string           `json:"error,omitempty"`
	Report      *analysis.Report `json:"report,omitempty"`
}

// Store provides read/write access to job records.
type Store interface {
	// Create records a queued job. It returns ErrDuplicate if the ID exists.
	Create(ctx context.Context, job analysis.Job, fingerprint string) (Record, error)
	// MarkRunning moves a job to running.
	MarkRunning(ctx context.Context, id string) error
	// Complete stores the report of a finished job.
	Complete(ctx context.Context, id string, rep analysis.Report) error
	// Fail records why a job could not finish.
	Fail(ctx context.Context, id string, cause error) error
	// Remove deletes a job record.
	Remove(ctx context.Context, id string) error

	// Get returns a job. It returns ErrNotFound for unknown IDs.
	Get(ctx context.Context, id string) (Record, error)
	// List returns up to limit jobs, newest first. An empty practiceID
	// lists every practice.
	List(ctx context.Context, practiceID string, limit int) ([]Record, error)
	// Count returns the number of stored jobs.
	Count(ctx context.Context) int
	// Counts returns the number of stored jobs per status.
	Counts(ctx context.Context) map[Status]int
}
