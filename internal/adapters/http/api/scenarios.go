package api

import (
	"fmt"
	"net/http"

	"github.com/okian/teamiq/internal/domain/analysis"
	"github.com/okian/teamiq/internal/domain/scenario"
)

type scenarioRequest struct {
	PracticeID string            `json:"practice_id"`
	Baseline   scenario.Baseline `json:"baseline"`
	Params     scenario.Params   `json:"params"`
}

// ScenarioHandler projects one what-if scenario.
type ScenarioHandler struct {
	deps Analyzer
	in   decoder
}

// HandlePostScenario handles POST /v1/scenarios/{type}.
func (h *ScenarioHandler) HandlePostScenario(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_scenario"
	t := scenario.Type(r.PathValue("type"))
	if !scenario.Known(t) {
		writeFailure(w, op, fmt.Errorf("%w: %w: %q", ErrNotFound, scenario.ErrUnknownScenario, t))
		return
	}
	var req scenarioRequest
	if err := h.in.decode(w, r, schemaScenario, &req); err != nil {
		writeFailure(w, op, err)
		return
	}
	rep, err := h.deps.Analyze(r.Context(), analysis.Input{
		PracticeID: req.PracticeID,
		Baseline:   &req.Baseline,
		Scenarios:  []analysis.ScenarioRequest{{Type: t, Params: req.Params}},
	})
	if err != nil {
		writeFailure(w, op, err)
		return
	}
	if len(rep.Scenarios) == 0 {
		writeFailure(w, op, fmt.Errorf("scenario %q produced no result", t))
		return
	}
	writeJSON(w, http.StatusOK, rep.Scenarios[0])
}
