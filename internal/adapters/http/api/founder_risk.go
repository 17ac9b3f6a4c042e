package api

import (
	"net/http"

	"github.com/okian/teamiq/internal/domain/analysis"
	"github.com/okian/teamiq/internal/domain/founderrisk"
)

type founderRiskRequest struct {
	PracticeID string              `json:"practice_id"`
	Survey     founderrisk.Answers `json:"survey"`
}

// FounderRiskHandler scores founder dependency surveys.
type FounderRiskHandler struct {
	deps Analyzer
	in   decoder
}

// HandlePostFounderRisk handles POST /v1/founder-risk.
func (h *FounderRiskHandler) HandlePostFounderRisk(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_founder_risk"
	var req founderRiskRequest
	if err := h.in.decode(w, r, schemaFounderRisk, &req); err != nil {
		writeFailure(w, op, err)
		return
	}
	if req.Survey == nil {
		req.Survey = founderrisk.Answers{}
	}
	rep, err := h.deps.Analyze(r.Context(), analysis.Input{PracticeID: req.PracticeID, Survey: req.Survey})
	if err != nil {
		writeFailure(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, rep.FounderRisk)
}
