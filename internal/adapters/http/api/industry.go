package api

import (
	"net/http"

	"github.com/okian/teamiq/internal/domain/analysis"
	"github.com/okian/teamiq/internal/domain/industry"
)

// IndustryHandler classifies practices into benchmark categories.
type IndustryHandler struct {
	deps Analyzer
	in   decoder
}

// HandlePostClassify handles POST /v1/industry/classify.
func (h *IndustryHandler) HandlePostClassify(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_industry_classify"
	var req industry.Input
	if err := h.in.decode(w, r, schemaIndustry, &req); err != nil {
		writeFailure(w, op, err)
		return
	}
	rep, err := h.deps.Analyze(r.Context(), analysis.Input{Industry: &req})
	if err != nil {
		writeFailure(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, rep.Industry)
}
