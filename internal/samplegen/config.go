// Package samplegen generates synthetic practices and drives them through
// the job API of a running service.
package samplegen

import (
	"errors"
	"time"
)

// ErrVerification is returned when completed jobs do not hold a valid report.
var ErrVerification = errors.New("verification failed")

// Config holds configuration for a sample run.
type Config struct {
	BaseURL      string        // Base URL of the service
	Practices    int           // Number of practices to generate
	Members      int           // Team size per practice
	Workers      int           // Number of concurrent submitters
	Timeout      time.Duration // HTTP request timeout
	PollInterval time.Duration // Delay between job status checks
	Wait         time.Duration // Upper bound on waiting for jobs to finish
	Seed         uint64        // Generator seed; equal seeds give equal practices
	OutputFile   string        // Output file for generated practices
	Verbose      bool          // Enable verbose logging
}

// Stats holds run statistics.
type Stats struct {
	Generated  int
	Submitted  int
	Accepted   int
	Rejected   int
	Failed     int
	Completed  int
	JobsFailed int
	Verified   int
	StartTime  time.Time
	EndTime    time.Time
	Duration   time.Duration
}

// jobStatus is the subset of a job response the driver reads.
type jobStatus struct {
	ID          string  `json:"id"`
	PracticeID  string  `json:"practice_id"`
	Status      string  `json:"status"`
	Fingerprint string  `json:"fingerprint"`
	Error       string  `json:"error"`
	Report      *report `json:"report"`
}

type report struct {
	PracticeID  string `json:"practice_id"`
	Fingerprint string `json:"fingerprint"`
	Readiness   *struct {
		Results []struct {
			ServiceCode      string  `json:"service_code"`
			ReadinessPercent float64 `json:"readiness_percent"`
		} `json:"results"`
	} `json:"readiness"`
	FounderRisk *struct {
		Score int    `json:"score"`
		Level string `json:"level"`
	} `json:"founder_risk"`
	Industry *struct {
		Category string `json:"category"`
	} `json:"industry"`
	Scenarios []struct {
		Type string `json:"type"`
	} `json:"scenarios"`
}

func (s jobStatus) finished() bool {
	return s.Status == "completed" || s.Status == "failed"
}
