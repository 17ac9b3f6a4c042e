package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/okian/teamiq/internal/adapters/repository"
	"github.com/okian/teamiq/internal/domain/analysis"
)

// JobsHandler submits and reports background analyses.
type JobsHandler struct {
	deps JobService
	in   decoder
}

type jobResponse struct {
	ID          string           `json:"id"`
	PracticeID  string           `json:"practice_id"`
	Status      string           `json:"status"`
	Fingerprint string           `json:"fingerprint,omitempty"`
	SubmittedAt time.Time        `json:"submitted_at"`
	StartedAt   *time.Time       `json:"started_at,omitempty"`
	CompletedAt *time.Time       `json:"completed_at,omitempty"`
	Error       string           `json:"error,omitempty"`
	Report      *analysis.Report `json:"report,omitempty"`
}

func newJobResponse(rec repository.Record) jobResponse { //nolint:gocritic // hugeParam: Record is a value type
	return jobResponse{
		ID:          rec.ID,
		PracticeID:  rec.PracticeID,
		Status:      string(rec.Status),
		Fingerprint: rec.Fingerprint,
		SubmittedAt: rec.SubmittedAt,
		StartedAt:   rec.StartedAt,
		CompletedAt: rec.CompletedAt,
		Error:       rec.Error,
		Report:      rec.Report,
	}
}

// HandlePostJob handles POST /v1/jobs.
func (h *JobsHandler) HandlePostJob(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_job"
	var in analysis.Input
	if err := h.in.decode(w, r, schemaAnalysis, &in); err != nil {
		writeFailure(w, op, err)
		return
	}
	rec, err := h.deps.Submit(r.Context(), in)
	if err != nil {
		writeFailure(w, op, err)
		return
	}
	w.Header().Set("Location", "/v1/jobs/"+rec.ID)
	writeJSON(w, http.StatusAccepted, newJobResponse(rec))
}

// HandleGetJob handles GET /v1/jobs/{id}.
func (h *JobsHandler) HandleGetJob(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_job"
	id := strings.TrimSpace(r.PathValue("id"))
	if id == "" {
		writeFailure(w, op, ErrBadRequest)
		return
	}
	rec, err := h.deps.Job(r.Context(), id)
	if err != nil {
		writeFailure(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, newJobResponse(rec))
}
