package readiness

import (
	"sort"

	"github.com/okian/teamiq/internal/domain/model"
	"github.com/okian/teamiq/internal/domain/skillmatrix"
)

// Alignment of a member's capability with their stated interest.
const (
	AlignmentAligned              = "aligned"
	AlignmentInterestedNotReady   = "interested_not_ready"
	AlignmentCapableNotInterested = "capable_not_interested"
	AlignmentNeither              = "neither"
)

// interestedRank is the worst rank still counted as interested.
const interestedRank = 3

// ServiceFit is one member's personal fit for one service.
type ServiceFit struct {
	ServiceCode        string  `json:"service_code"`
	ServiceName        string  `json:"service_name"`
	SkillsCovered      int     `json:"skills_covered"`
	TotalRequired      int     `json:"total_required"`
	CoveragePercent    float64 `json:"coverage_percent"`
	CriticalMet        int     `json:"critical_met"`
	TotalCritical      int     `json:"total_critical"`
	CanDeliver         bool    `json:"can_deliver"`
	InterestRank       int     `json:"interest_rank,omitempty"`
	DesiredInvolvement float64 `json:"desired_involvement,omitempty"`
	Interested         bool    `json:"interested"`
	Alignment          string  `json:"alignment"`
}

// MemberCapability lists a member's fit across services, best fit first.
type MemberCapability struct {
	MemberID             string       `json:"member_id"`
	Name                 string       `json:"name,omitempty"`
	Services             []ServiceFit `json:"services"`
	PrimaryServiceFit    string       `json:"primary_service_fit"`
	ServicesCanDeliver   int          `json:"services_can_deliver"`
	ServicesInterestedIn int          `json:"services_interested_in"`
}

// MemberCapabilities evaluates each member on their own against every
// service in the request. Members are ordered by ID.
func (s *Scorer) MemberCapabilities(m *skillmatrix.Matrix, req Request) []MemberCapability {
	var scratch model.Diagnostics
	interests := indexInterests(m, req.Interests, &scratch)
	rep := Report{}
	defs := s.selectServices(req, &rep)

	members := m.Members()
	sort.Slice(members, func(i, j int) bool { return members[i].ID < members[j].ID })

	out := make([]MemberCapability, 0, len(members))
	for _, p := range members {
		mc := MemberCapability{MemberID: p.ID, Name: p.Name, Services: make([]ServiceFit, 0, len(defs)), PrimaryServiceFit: "None"}
		for _, def := range defs {
			fit := s.fit(m, p.ID, def, interests, &scratch)
			if fit.CanDeliver {
				mc.ServicesCanDeliver++
			}
			if fit.Interested {
				mc.ServicesInterestedIn++
			}
			mc.Services = append(mc.Services, fit)
		}
		sort.SliceStable(mc.Services, func(i, j int) bool {
			a, b := fitScore(mc.Services[i]), fitScore(mc.Services[j])
			if a != b {
				return a > b
			}
			return mc.Services[i].ServiceCode < mc.Services[j].ServiceCode
		})
		if len(mc.Services) > 0 {
			mc.PrimaryServiceFit = mc.Services[0].ServiceName
		}
		out = append(out, mc)
	}
	return out
}

func (s *Scorer) fit(m *skillmatrix.Matrix, memberID string, def model.ServiceDefinition, interests map[interestKey]model.ServiceLineInterest, diags *model.Diagnostics) ServiceFit {
	f := ServiceFit{ServiceCode: def.Code, ServiceName: def.Name, TotalRequired: len(def.RequiredSkills)}
	for _, raw := range def.RequiredSkills {
		req := normalizeRequirement(def.Code, raw, diags)
		if req.Critical {
			f.TotalCritical++
		}
		if lvl, _ := m.Level(memberID, req.SkillID); lvl >= req.MinLevel {
			f.SkillsCovered++
			if req.Critical {
				f.CriticalMet++
			}
		}
	}
	if f.TotalRequired > 0 {
		f.CoveragePercent = model.Round(float64(f.SkillsCovered)/float64(f.TotalRequired)*100, 2)
	}
	f.CanDeliver = f.TotalRequired > 0 && f.CriticalMet == f.TotalCritical && f.CoveragePercent >= s.readyCoverage

	if it, ok := interestFor(interests, memberID, def); ok {
		f.InterestRank = it.InterestRank
		f.DesiredInvolvement = it.DesiredInvolvementPct
		f.Interested = it.InterestRank <= interestedRank
	}

	switch {
	case f.CanDeliver && f.Interested:
		f.Alignment = AlignmentAligned
	case f.Interested:
		f.Alignment = AlignmentInterestedNotReady
	case f.CanDeliver:
		f.Alignment = AlignmentCapableNotInterested
	default:
		f.Alignment = AlignmentNeither
	}
	return f
}

// fitScore blends personal coverage with interest; rank 1 adds 90.
func fitScore(f ServiceFit) float64 {
	score := f.CoveragePercent
	if f.InterestRank > 0 {
		score += float64(10-f.InterestRank) * 10
	}
	return score
}
