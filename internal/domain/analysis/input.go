package analysis

import (
	"sort"
	"time"

	"github.com/okian/teamiq/internal/domain/founderrisk"
	"github.com/okian/teamiq/internal/domain/industry"
	"github.com/okian/teamiq/internal/domain/model"
	"github.com/okian/teamiq/internal/domain/scenario"
)

// ScenarioRequest asks for one scenario projection.
type ScenarioRequest struct {
	Type   scenario.Type   `json:"type"`
	Params scenario.Params `json:"params"`
}

// Input is everything known about one practice.
type Input struct {
	PracticeID   string                      `json:"practice_id"`
	Skills       []model.Skill               `json:"skills,omitempty"`
	Members      []model.Member              `json:"members,omitempty"`
	Assessments  []model.Assessment          `json:"assessments,omitempty"`
	Interests    []model.ServiceLineInterest `json:"interests,omitempty"`
	Services     []model.ServiceDefinition   `json:"services,omitempty"`
	ServiceCodes []string                    `json:"service_codes,omitempty"`
	// Survey is encoded even when nil so an empty survey and no survey
	// hash differently.
	Survey   founderrisk.Answers `json:"survey"`
	Industry *industry.Input     `json:"industry,omitempty"`
	Baseline *scenario.Baseline  `json:"baseline,omitempty"`
	// Scenarios selects projections. Empty with a baseline projects all.
	Scenarios []ScenarioRequest `json:"scenarios,omitempty"`
	// Team asks for the team sections even when no team data is present,
	// so an empty member set is reported as unavailable.
	Team bool `json:"team,omitempty"`
}

// HasTeam reports whether the input carries team data or asks for the
// team sections.
func (in Input) HasTeam() bool {
	return in.Team || len(in.Skills) > 0 || len(in.Members) > 0 || len(in.Assessments) > 0 ||
		len(in.Interests) > 0 || len(in.Services) > 0 || len(in.ServiceCodes) > 0
}

// Canonical returns a copy with every order-insensitive collection sorted.
// Duplicate IDs keep their relative order, so "first wins" rules downstream
// still see the caller's choice. Industry codes keep their priority order.
func (in Input) Canonical() Input {
	out := in

	out.Skills = append([]model.Skill(nil), in.Skills...)
	sort.SliceStable(out.Skills, func(i, j int) bool { return out.Skills[i].ID < out.Skills[j].ID })

	out.Members = append([]model.Member(nil), in.Members...)
	sort.SliceStable(out.Members, func(i, j int) bool { return out.Members[i].ID < out.Members[j].ID })

	out.Assessments = append([]model.Assessment(nil), in.Assessments...)
	sort.SliceStable(out.Assessments, func(i, j int) bool {
		a, b := out.Assessments[i], out.Assessments[j]
		if a.MemberID != b.MemberID {
			return a.MemberID < b.MemberID
		}
		if a.SkillID != b.SkillID {
			return a.SkillID < b.SkillID
		}
		if !a.AssessedAt.Equal(b.AssessedAt) {
			return a.AssessedAt.Before(b.AssessedAt)
		}
		return a.CurrentLevel < b.CurrentLevel
	})
	for i := range out.Assessments {
		out.Assessments[i].AssessedAt = out.Assessments[i].AssessedAt.UTC()
	}

	out.Interests = append([]model.ServiceLineInterest(nil), in.Interests...)
	sort.SliceStable(out.Interests, func(i, j int) bool {
		a, b := out.Interests[i], out.Interests[j]
		if a.MemberID != b.MemberID {
			return a.MemberID < b.MemberID
		}
		if a.ServiceLine != b.ServiceLine {
			return a.ServiceLine < b.ServiceLine
		}
		if a.InterestRank != b.InterestRank {
			return a.InterestRank < b.InterestRank
		}
		if a.DesiredInvolvementPct != b.DesiredInvolvementPct {
			return a.DesiredInvolvementPct > b.DesiredInvolvementPct
		}
		return a.CurrentExperienceLevel < b.CurrentExperienceLevel
	})

	out.Services = make([]model.ServiceDefinition, len(in.Services))
	for i, def := range in.Services {
		def.RequiredSkills = append([]model.RequiredSkill(nil), def.RequiredSkills...)
		sort.SliceStable(def.RequiredSkills, func(a, b int) bool {
			return def.RequiredSkills[a].SkillID < def.RequiredSkills[b].SkillID
		})
		out.Services[i] = def
	}
	sort.SliceStable(out.Services, func(i, j int) bool { return out.Services[i].Code < out.Services[j].Code })

	out.ServiceCodes = append([]string(nil), in.ServiceCodes...)
	sort.Strings(out.ServiceCodes)

	out.Scenarios = append([]ScenarioRequest(nil), in.Scenarios...)
	sort.SliceStable(out.Scenarios, func(i, j int) bool { return out.Scenarios[i].Type < out.Scenarios[j].Type })

	if in.Industry != nil {
		ind := *in.Industry
		ind.Codes = append([]string(nil), in.Industry.Codes...)
		out.Industry = &ind
	}
	if in.Baseline != nil {
		b := *in.Baseline
		out.Baseline = &b
	}
	return out
}

// Job is a queued analysis of one practice.
type Job struct {
	ID          string    `json:"id"`
	PracticeID  string    `json:"practice_id"`
	Input       Input     `json:"input"`
	SubmittedAt time.Time `json:"submitted_at"`
}
