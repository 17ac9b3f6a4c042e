package samplegen

import (
	"errors"
	"fmt"
	"strings"

	"github.com/okian/teamiq/internal/adapters/catalog"
)

const fingerprintPrefix = "v1:"

// verify checks every finished job and fills the completion counters.
func verify(results []jobStatus, cat *catalog.Catalog, stats *Stats) error {
	var errs []error
	for _, st := range results {
		if st.Status != "completed" {
			stats.JobsFailed++
			errs = append(errs, fmt.Errorf("job %s: %s", st.ID, st.Error))
			continue
		}
		stats.Completed++
		if err := verifyReport(st, cat); err != nil {
			errs = append(errs, fmt.Errorf("job %s: %w", st.ID, err))
			continue
		}
		stats.Verified++
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrVerification, errors.Join(errs...))
	}
	return nil
}

// verifyReport checks what every report of a full synthetic practice holds.
func verifyReport(st jobStatus, cat *catalog.Catalog) error {
	rep := st.Report
	switch {
	case rep == nil:
		return errors.New("completed without a report")
	case rep.PracticeID != st.PracticeID:
		return fmt.Errorf("report for %q, job for %q", rep.PracticeID, st.PracticeID)
	case !strings.HasPrefix(rep.Fingerprint, fingerprintPrefix):
		return fmt.Errorf("bad fingerprint %q", rep.Fingerprint)
	case st.Fingerprint != "" && st.Fingerprint != rep.Fingerprint:
		return fmt.Errorf("fingerprint changed from %q to %q", st.Fingerprint, rep.Fingerprint)
	case rep.Readiness == nil:
		return errors.New("missing readiness")
	case len(rep.Readiness.Results) != len(cat.Services):
		return fmt.Errorf("readiness for %d services, want %d", len(rep.Readiness.Results), len(cat.Services))
	case rep.FounderRisk == nil:
		return errors.New("missing founder risk")
	case rep.FounderRisk.Score < 0 || rep.FounderRisk.Score > 100:
		return fmt.Errorf("founder risk score %d out of range", rep.FounderRisk.Score)
	case rep.Industry == nil || rep.Industry.Category == "":
		return errors.New("missing industry")
	case len(rep.Scenarios) == 0:
		return errors.New("no scenarios projected")
	}
	for _, r := range rep.Readiness.Results {
		if r.ReadinessPercent < 0 || r.ReadinessPercent > 100 {
			return fmt.Errorf("service %s readiness %.1f out of range", r.ServiceCode, r.ReadinessPercent)
		}
	}
	return nil
}
