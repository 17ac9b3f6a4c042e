package api

import (
	"net/http"

	"github.com/okian/teamiq/internal/domain/analysis"
)

// AnalysisHandler runs full analyses synchronously.
type AnalysisHandler struct {
	deps Analyzer
	in   decoder
}

// HandlePostAnalysis handles POST /v1/analyses.
func (h *AnalysisHandler) HandlePostAnalysis(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_analysis"
	var in analysis.Input
	if err := h.in.decode(w, r, schemaAnalysis, &in); err != nil {
		writeFailure(w, op, err)
		return
	}
	rep, err := h.deps.Analyze(r.Context(), in)
	if err != nil {
		writeFailure(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, rep)
}
