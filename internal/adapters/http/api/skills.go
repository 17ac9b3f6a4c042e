package api

import (
	"net/http"

	"github.com/okian/teamiq/internal/domain/analysis"
	"github.com/okian/teamiq/internal/domain/model"
	"github.com/okian/teamiq/internal/domain/skillmatrix"
)

// teamRequest is the team slice of analysis.Input.
type teamRequest struct {
	PracticeID   string                      `json:"practice_id"`
	Skills       []model.Skill               `json:"skills"`
	Members      []model.Member              `json:"members"`
	Assessments  []model.Assessment          `json:"assessments"`
	Interests    []model.ServiceLineInterest `json:"interests"`
	Services     []model.ServiceDefinition   `json:"services"`
	ServiceCodes []string                    `json:"service_codes"`
}

func (t teamRequest) input() analysis.Input { //nolint:gocritic // hugeParam: request is a value type
	return analysis.Input{
		PracticeID:   t.PracticeID,
		Skills:       t.Skills,
		Members:      t.Members,
		Assessments:  t.Assessments,
		Interests:    t.Interests,
		Services:     t.Services,
		ServiceCodes: t.ServiceCodes,
		Team:         true,
	}
}

type rollupsResponse struct {
	PracticeID  string                       `json:"practice_id"`
	Fingerprint string                       `json:"fingerprint"`
	Rollups     []skillmatrix.CategoryRollup `json:"rollups"`
	Profiles    []skillmatrix.MemberProfile  `json:"profiles"`
	Diagnostics model.Diagnostics            `json:"diagnostics"`
	Incomplete  bool                         `json:"incomplete"`
}

// SkillsHandler serves category rollups and member profiles.
type SkillsHandler struct {
	deps Analyzer
	in   decoder
}

// HandlePostRollups handles POST /v1/skills/rollups.
func (h *SkillsHandler) HandlePostRollups(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_rollups"
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

	incomplete := len(rep.Profiles) == 0
	for _, ro := range rep.Rollups {
		incomplete = incomplete || ro.DataIncomplete
	}
	writeJSON(w, http.StatusOK, rollupsResponse{
		PracticeID:  rep.PracticeID,
		Fingerprint: rep.Fingerprint,
		Rollups:     rep.Rollups,
		Profiles:    rep.Profiles,
		Diagnostics: only(rep.Diagnostics, skillmatrix.Component),
		Incomplete:  incomplete,
	})
}

// only keeps the diagnostics emitted by component.
func only(ds model.Diagnostics, component string) model.Diagnostics {
	out := model.Diagnostics{}
	for _, d := range ds {
		if d.Component == component {
			out.Add(d)
		}
	}
	return out
}
