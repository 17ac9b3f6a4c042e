package samplegen

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"time"

	"github.com/okian/teamiq/internal/adapters/catalog"
	"github.com/okian/teamiq/internal/domain/analysis"
	"github.com/okian/teamiq/pkg/logger"
)

// File permission constants.
const (
	directoryPermission = 0o750
	filePermission      = 0o600
	percentMultiplier   = 100
)

// Run generates practices, submits them as jobs, waits for the results and
// verifies every completed report.
func Run(ctx context.Context, cfg *Config, cat *catalog.Catalog) (*Stats, error) {
	stats := &Stats{StartTime: time.Now()}
	log := logger.Get().Named("samplegen")

	log.Info(ctx, "starting sample run",
		logger.String("baseURL", cfg.BaseURL),
		logger.Int("practices", cfg.Practices),
		logger.Int("members", cfg.Members),
		logger.Int("workers", cfg.Workers),
		logger.Duration("timeout", cfg.Timeout),
		logger.Bool("verbose", cfg.Verbose),
	)

	c := newClient(cfg.BaseURL, cfg.Timeout)
	if err := c.health(ctx); err != nil {
		return stats, fmt.Errorf("service health check failed: %w", err)
	}

	practices, err := NewGenerator(cat, cfg.Members, cfg.Seed).Generate(ctx, cfg.Practices)
	if err != nil {
		return stats, fmt.Errorf("practice generation failed: %w", err)
	}
	stats.Generated = len(practices)

	ids := submitAll(ctx, c, cfg, practices, stats)
	log.Info(ctx, "submission completed",
		logger.Int("accepted", stats.Accepted),
		logger.Int("rejected", stats.Rejected),
		logger.Int("failed", stats.Failed),
	)

	results, err := awaitAll(ctx, c, cfg, ids)
	if err != nil {
		return stats, fmt.Errorf("waiting for jobs failed: %w", err)
	}
	verr := verify(results, cat, stats)

	if cfg.OutputFile != "" {
		if err := savePractices(cfg.OutputFile, practices); err != nil {
			log.Warn(ctx, "failed to save practices", logger.Error(err))
		} else {
			log.Info(ctx, "practices saved", logger.String("file", cfg.OutputFile))
		}
	}

	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)
	logStats(ctx, log, stats)
	return stats, verr
}

// submitAll posts practices with cfg.Workers concurrent submitters and
// returns the ids of accepted jobs.
func submitAll(ctx context.Context, c *client, cfg *Config, practices []analysis.Input, stats *Stats) []string {
	var (
		submitted, accepted, rejected, failed atomic.Int64
		mu                                    sync.Mutex
		ids                                   = make([]string, 0, len(practices))
		wg                                    sync.WaitGroup
	)

	workers := max(1, min(cfg.Workers, len(practices)))
	work := make(chan analysis.Input, workers*2)
	log := logger.Get().Named("samplegen")

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for in := range work {
				id, outcome, err := c.submit(ctx, in)
				submitted.Add(1)
				switch outcome {
				case outcomeAccepted:
					accepted.Add(1)
					mu.Lock()
					ids = append(ids, id)
					mu.Unlock()
				case outcomeRejected:
					rejected.Add(1)
				default:
					failed.Add(1)
					if cfg.Verbose {
						log.Warn(ctx, "submission failed", logger.String("practiceID", in.PracticeID), logger.Error(err))
					}
				}
			}
		}()
	}

	go func() {
		defer close(work)
		for _, in := range practices {
			select {
			case <-ctx.Done():
				return
			case work <- in:
			}
		}
	}()
	wg.Wait()

	stats.Submitted = int(submitted.Load())
	stats.Accepted = int(accepted.Load())
	stats.Rejected = int(rejected.Load())
	stats.Failed = int(failed.Load())
	return ids
}

// awaitAll polls every job until it finishes or cfg.Wait elapses.
func awaitAll(ctx context.Context, c *client, cfg *Config, ids []string) ([]jobStatus, error) {
	waitCtx, cancel := context.WithTimeout(ctx, cfg.Wait)
	defer cancel()

	pending := append([]string(nil), ids...)
	done := make([]jobStatus, 0, len(ids))
	ticker := time.NewTicker(cfg.PollInterval)
	defer ticker.Stop()

	for len(pending) > 0 {
		next := pending[:0]
		for _, id := range pending {
			st, err := c.job(waitCtx, id)
			if err != nil {
				if waitCtx.Err() != nil {
					return done, fmt.Errorf("%d jobs unfinished: %w", len(pending), waitCtx.Err())
				}
				return done, err
			}
			if st.finished() {
				done = append(done, st)
				continue
			}
			next = append(next, id)
		}
		pending = next
		if len(pending) == 0 {
			break
		}
		select {
		case <-waitCtx.Done():
			return done, fmt.Errorf("%d jobs unfinished: %w", len(pending), waitCtx.Err())
		case <-ticker.C:
		}
	}
	return done, nil
}

func savePractices(filename string, practices []analysis.Input) error {
	if dir := filepath.Dir(filename); dir != "." {
		if err := os.MkdirAll(dir, directoryPermission); err != nil {
			return fmt.Errorf("create directory: %w", err)
		}
	}
	data, err := json.MarshalIndent(practices, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal practices: %w", err)
	}
	if err := os.WriteFile(filename, data, filePermission); err != nil {
		return fmt.Errorf("write %s: %w", filename, err)
	}
	return nil
}

func logStats(ctx context.Context, log logger.Logger, stats *Stats) {
	var acceptRate, perSecond float64
	if stats.Submitted > 0 {
		acceptRate = float64(stats.Accepted) / float64(stats.Submitted) * percentMultiplier
	}
	if stats.Duration > 0 {
		perSecond = float64(stats.Completed) / stats.Duration.Seconds()
	}
	log.Info(ctx, "final statistics",
		logger.Int("generated", stats.Generated),
		logger.Int("submitted", stats.Submitted),
		logger.Int("accepted", stats.Accepted),
		logger.Int("rejected", stats.Rejected),
		logger.Int("failed", stats.Failed),
		logger.Int("completed", stats.Completed),
		logger.Int("jobsFailed", stats.JobsFailed),
		logger.Int("verified", stats.Verified),
		logger.Duration("duration", stats.Duration),
		logger.Float64("acceptRate", acceptRate),
		logger.Float64("completedPerSecond", perSecond),
	)
}
