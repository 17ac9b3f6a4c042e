// Package readiness scores how ready a team is to deliver each advisory
// service line and ranks the services for launch.
package readiness

import (
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/okian/teamiq/internal/domain/model"
	"github.com/okian/teamiq/internal/domain/skillmatrix"
)

// Component names this package in diagnostics and metrics.
const Component = "readiness"

// Tiers.
const (
	TierReady      = "ready"
	TierPartial    = "partial"
	TierNotReady   = "not-ready"
	TierComingSoon = "coming-soon"
)

// Scorer computes readiness. It holds only configuration and is safe for
// concurrent use.
type Scorer struct {
	bonus          float64
	bonusCap       float64
	minInvolvement float64
	readyCoverage  float64
}

// New creates a Scorer with the default weighting.
func New(opts ...Option) *Scorer {
	s := &Scorer{
		bonus:          2.5,
		bonusCap:       10,
		minInvolvement: 50,
		readyCoverage:  70,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Request selects what to score.
type Request struct {
	Services  []model.ServiceDefinition
	Interests []model.ServiceLineInterest
	// Codes restricts scoring to these service codes. Empty scores every
	// defined service. Codes with no definition are reported unavailable.
	Codes []string
}

// SkillCoverage describes one required skill of a service.
type SkillCoverage struct {
	SkillID      string  `json:"skill_id"`
	Covered      bool    `json:"covered"`
	BestMemberID string  `json:"best_member_id,omitempty"`
	BestLevel    int     `json:"best_level"`
	MinLevel     int     `json:"min_level"`
	Weight       float64 `json:"weight"`
	Gap          int     `json:"gap"`
	Critical     bool    `json:"critical,omitempty"`
}

// Result is the readiness of one service.
type Result struct {
	ServiceCode         string          `json:"service_code"`
	ServiceName         string          `json:"service_name"`
	ReadinessPercent    float64         `json:"readiness_percent"`
	CoveragePercent     float64         `json:"coverage_percent"`
	InterestAdjustment  float64         `json:"interest_adjustment"`
	TotalGap            int             `json:"total_gap"`
	Coverage            []SkillCoverage `json:"coverage"`
	ContributingMembers []string        `json:"contributing_members"`
	CriticalGaps        []string        `json:"critical_gaps"`
	Tier                string          `json:"tier"`
	DataIncomplete      bool            `json:"data_incomplete"`
}

// Report is the ranked outcome of a scoring run.
type Report struct {
	Results     []Result            `json:"results"`
	Unavailable []*UnavailableError `json:"unavailable,omitempty"`
	// Err is set when the team has no members. Results are still listed at
	// zero readiness so callers can render them as incomplete.
	Err         *UnavailableError `json:"error,omitempty"`
	Diagnostics model.Diagnostics `json:"diagnostics"`
}

type interestKey struct{ member, line string }

// Score evaluates every selected service against the matrix and returns
// them ranked by readiness desc, total gap asc, then code asc.
func (s *Scorer) Score(m *skillmatrix.Matrix, req Request) Report {
	rep := Report{Results: []Result{}, Diagnostics: model.Diagnostics{}}

	defs := s.selectServices(req, &rep)
	interests := indexInterests(m, req.Interests, &rep.Diagnostics)

	if m.Empty() {
		rep.Err = &UnavailableError{Reason: "no team members to score", Kind: ErrNoMembers}
	}

	for _, def := range defs {
		rep.Results = append(rep.Results, s.scoreService(m, def, interests, &rep.Diagnostics))
	}
	Rank(rep.Results)
	return rep
}

// Rank sorts results by readiness desc, total gap asc, then code asc.
func Rank(results []Result) {
	sort.SliceStable(results, func(i, j int) bool {
		a, b := results[i], results[j]
		if a.ReadinessPercent != b.ReadinessPercent {
			return a.ReadinessPercent > b.ReadinessPercent
		}
		if a.TotalGap != b.TotalGap {
			return a.TotalGap < b.TotalGap
		}
		return a.ServiceCode < b.ServiceCode
	})
}

func (s *Scorer) selectServices(req Request, rep *Report) []model.ServiceDefinition {
	byCode := make(map[string]model.ServiceDefinition, len(req.Services))
	var ordered []model.ServiceDefinition
	for _, def := range req.Services {
		if _, dup := byCode[def.Code]; dup {
			rep.Diagnostics.Add(model.Diagnostic{Component: Component, Field: "service.code", Subject: def.Code,
				Message: "duplicate service definition, first occurrence kept"})
			continue
		}
		byCode[def.Code] = def
		ordered = append(ordered, def)
	}
	if len(req.Codes) == 0 {
		return ordered
	}

	seen := make(map[string]bool, len(req.Codes))
	var out []model.ServiceDefinition
	for _, code := range req.Codes {
		if seen[code] {
			continue
		}
		seen[code] = true
		def, ok := byCode[code]
		if !ok {
			rep.Unavailable = append(rep.Unavailable, &UnavailableError{
				Code:   code,
				Reason: "no service definition for code",
				Kind:   ErrServiceNotDefined,
			})
			continue
		}
		out = append(out, def)
	}
	return out
}

// indexInterests keeps, per member and service line, the most keen record.
func indexInterests(m *skillmatrix.Matrix, in []model.ServiceLineInterest, diags *model.Diagnostics) map[interestKey]model.ServiceLineInterest {
	out := make(map[interestKey]model.ServiceLineInterest, len(in))
	for _, it := range in {
		subject := it.MemberID + "/" + it.ServiceLine
		if !m.HasMember(it.MemberID) {
			diags.Add(model.Diagnostic{Component: Component, Field: "interest.member_id", Subject: subject,
				Value: it.MemberID, Message: "interest for unknown member ignored"})
			continue
		}
		if it.InterestRank < 1 {
			diags.Add(model.Diagnostic{Component: Component, Field: "interest_rank", Subject: subject,
				Value: strconv.Itoa(it.InterestRank), Message: "interest rank below 1 ignored"})
			continue
		}
		if pct, clamped := model.ClampPercent(it.DesiredInvolvementPct); clamped {
			diags.Add(model.Diagnostic{Component: Component, Field: "desired_involvement_pct", Subject: subject,
				Value: model.Num(it.DesiredInvolvementPct), Clamped: model.Num(pct), Message: "desired involvement clamped to [0,100]"})
			it.DesiredInvolvementPct = pct
		}
		k := interestKey{it.MemberID, normalizeLine(it.ServiceLine)}
		prev, ok := out[k]
		if !ok || it.InterestRank < prev.InterestRank ||
			(it.InterestRank == prev.InterestRank && it.DesiredInvolvementPct > prev.DesiredInvolvementPct) {
			out[k] = it
		}
	}
	return out
}

func normalizeLine(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// interestFor finds a member's interest in a service by code, then by name.
func interestFor(interests map[interestKey]model.ServiceLineInterest, memberID string, def model.ServiceDefinition) (model.ServiceLineInterest, bool) {
	if it, ok := interests[interestKey{memberID, normalizeLine(def.Code)}]; ok {
		return it, true
	}
	if def.Name != "" {
		if it, ok := interests[interestKey{memberID, normalizeLine(def.Name)}]; ok {
			return it, true
		}
	}
	return model.ServiceLineInterest{}, false
}

// normalizeRequirement clamps MinLevel to [1,5] and replaces bad weights with 1.
func normalizeRequirement(code string, req model.RequiredSkill, diags *model.Diagnostics) model.RequiredSkill {
	subject := code + "/" + req.SkillID
	if req.Weight <= 0 || math.IsNaN(req.Weight) || math.IsInf(req.Weight, 0) {
		diags.Add(model.Diagnostic{Component: Component, Field: "weight", Subject: subject,
			Value: model.Num(req.Weight), Clamped: "1", Message: "non-positive weight replaced with 1"})
		req.Weight = 1
	}
	if req.MinLevel < 1 || req.MinLevel > model.MaxLevel {
		lvl := max(1, min(req.MinLevel, model.MaxLevel))
		diags.Add(model.Diagnostic{Component: Component, Field: "min_level", Subject: subject,
			Value: strconv.Itoa(req.MinLevel), Clamped: strconv.Itoa(lvl), Message: "min level clamped to [1,5]"})
		req.MinLevel = lvl
	}
	return req
}

func (s *Scorer) scoreService(m *skillmatrix.Matrix, def model.ServiceDefinition, interests map[interestKey]model.ServiceLineInterest, diags *model.Diagnostics) Result {
	res := Result{
		ServiceCode:         def.Code,
		ServiceName:         def.Name,
		Coverage:            make([]SkillCoverage, 0, len(def.RequiredSkills)),
		ContributingMembers: []string{},
		CriticalGaps:        []string{},
		DataIncomplete:      m.Empty(),
	}
	if len(def.RequiredSkills) == 0 {
		diags.Add(model.Diagnostic{Component: Component, Field: "required_skills", Subject: def.Code,
			Message: "service has no required skills"})
		res.DataIncomplete = true
	}

	members := m.Members()
	contributors := make(map[string]bool)
	var totalWeight, coveredWeight, adjustment float64
	criticalCovered := true

	for _, raw := range def.RequiredSkills {
		req := normalizeRequirement(def.Code, raw, diags)
		if _, known := m.Skill(req.SkillID); !known {
			diags.Add(model.Diagnostic{Component: Component, Field: "required_skills.skill_id", Subject: def.Code + "/" + req.SkillID,
				Value: req.SkillID, Message: "required skill is not in the skill list"})
		}
		if m.AssessedMembers(req.SkillID) == 0 {
			res.DataIncomplete = true
		}

		cov := SkillCoverage{SkillID: req.SkillID, MinLevel: req.MinLevel, Weight: req.Weight, Critical: req.Critical}
		bestRank := math.MaxInt
		keen := false
		for _, p := range members {
			lvl, _ := m.Level(p.ID, req.SkillID)
			rank := math.MaxInt
			it, hasInterest := interestFor(interests, p.ID, def)
			if hasInterest {
				rank = it.InterestRank
			}
			if lvl >= req.MinLevel {
				contributors[p.ID] = true
				if hasInterest && it.InterestRank == 1 && it.DesiredInvolvementPct >= s.minInvolvement {
					keen = true
				}
			}
			if lvl == 0 {
				continue
			}
			if lvl > cov.BestLevel ||
				(lvl == cov.BestLevel && (rank < bestRank || (rank == bestRank && p.ID < cov.BestMemberID))) {
				cov.BestLevel, cov.BestMemberID, bestRank = lvl, p.ID, rank
			}
		}

		cov.Covered = cov.BestLevel >= req.MinLevel
		totalWeight += req.Weight
		if cov.Covered {
			coveredWeight += req.Weight
			if keen {
				adjustment += s.bonus
			}
		} else {
			cov.Gap = req.MinLevel - cov.BestLevel
			res.TotalGap += cov.Gap
			if req.Critical {
				criticalCovered = false
				res.CriticalGaps = append(res.CriticalGaps, req.SkillID)
			}
		}
		res.Coverage = append(res.Coverage, cov)
	}

	if totalWeight > 0 {
		res.CoveragePercent = model.Round(coveredWeight/totalWeight*100, 2)
	}
	res.InterestAdjustment = model.Round(math.Min(adjustment, s.bonusCap), 2)
	readiness, _ := model.ClampPercent(res.CoveragePercent + res.InterestAdjustment)
	res.ReadinessPercent = model.Round(readiness, 2)

	for id := range contributors {
		res.ContributingMembers = append(res.ContributingMembers, id)
	}
	sort.Strings(res.ContributingMembers)

	switch {
	case def.ComingSoon:
		res.Tier = TierComingSoon
	case criticalCovered && len(def.RequiredSkills) > 0 && res.CoveragePercent >= s.readyCoverage:
		res.Tier = TierReady
	case res.CoveragePercent > 0:
		res.Tier = TierPartial
	default:
		res.Tier = TierNotReady
	}
	return res
}
