package api

import (
	"fmt"
	"net/http"

	"github.com/okian/teamiq/internal/domain/model"
	"github.com/okian/teamiq/internal/domain/readiness"
)

type readinessResponse struct {
	PracticeID   string                          `json:"practice_id"`
	Fingerprint  string                          `json:"fingerprint"`
	Readiness    *readiness.Report               `json:"readiness"`
	Capabilities []readiness.MemberCapability    `json:"capabilities"`
	Development  []readiness.DevelopmentPriority `json:"development"`
	Diagnostics  model.Diagnostics               `json:"diagnostics"`
	Incomplete   bool                            `json:"incomplete"`
}

// ReadinessHandler serves ranked service readiness.
type ReadinessHandler struct {
	deps Analyzer
	in   decoder
}

// HandlePostReadiness handles POST /v1/services/readiness. When every
// requested service code is undefined the response is 422.
func (h *ReadinessHandler) HandlePostReadiness(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_readiness"
	var req teamRequest
	if err := h.in.decode(w, r, schemaTeam, &req); err != nil {
		writeFailure(w, op, err)
		return
	}
	rep, err := h.deps.Analyze(r.Context(), req.input())
	if err != nil {
		writeFailure(w, op, err)
		return
	}
	rr := rep.Readiness
	if rr != nil && len(rr.Results) == 0 && len(rr.Unavailable) > 0 {
		writeFailure(w, op, fmt.Errorf("%w: %w", ErrUnprocessable, rr.Unavailable[0]))
		return
	}
	writeJSON(w, http.StatusOK, readinessResponse{
		PracticeID:   rep.PracticeID,
		Fingerprint:  rep.Fingerprint,
		Readiness:    rr,
		Capabilities: rep.Capabilities,
		Development:  rep.Development,
		Diagnostics:  only(rep.Diagnostics, readiness.Component),
		Incomplete:   rep.Incomplete,
	})
}
