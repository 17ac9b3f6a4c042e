package readiness

import (
	"fmt"
	"sort"
)

// Priorities.
const (
	PriorityCritical = "critical"
	PriorityHigh     = "high"
	PriorityMedium   = "medium"
)

// DefaultDevelopmentLimit is the usual number of priorities shown.
const DefaultDevelopmentLimit = 8

// nearLaunch is the readiness from which a gap blocks an almost ready service.
const nearLaunch = 50

// DevelopmentPriority is an uncovered skill worth developing.
type DevelopmentPriority struct {
	SkillID        string   `json:"skill_id"`
	Priority       string   `json:"priority"`
	CurrentLevel   int      `json:"current_level"`
	TargetLevel    int      `json:"target_level"`
	SuggestedOwner string   `json:"suggested_owner,omitempty"`
	Reason         string   `json:"reason"`
	Services       []string `json:"services"`
}

var priorityOrder = map[string]int{PriorityCritical: 0, PriorityHigh: 1, PriorityMedium: 2}

// DevelopmentPriorities aggregates uncovered skills across the report.
// A skill is critical when any service marks it critical, high when it
// blocks a service at or above 50% readiness, medium otherwise. The closest
// member is suggested as owner. limit <= 0 uses DefaultDevelopmentLimit.
func DevelopmentPriorities(rep Report, limit int) []DevelopmentPriority {
	if limit <= 0 {
		limit = DefaultDevelopmentLimit
	}

	byID := make(map[string]*DevelopmentPriority)
	var order []string
	for _, res := range rep.Results {
		if res.Tier == TierComingSoon {
			continue
		}
		for _, cov := range res.Coverage {
			if cov.Covered {
				continue
			}
			p := byID[cov.SkillID]
			if p == nil {
				p = &DevelopmentPriority{
					SkillID:        cov.SkillID,
					Priority:       PriorityMedium,
					CurrentLevel:   cov.BestLevel,
					TargetLevel:    cov.MinLevel,
					SuggestedOwner: cov.BestMemberID,
					Reason:         fmt.Sprintf("Needed for %s", res.ServiceName),
				}
				byID[cov.SkillID] = p
				order = append(order, cov.SkillID)
			}
			p.Services = append(p.Services, res.ServiceCode)
			p.TargetLevel = max(p.TargetLevel, cov.MinLevel)
			if cov.BestLevel > p.CurrentLevel {
				p.CurrentLevel, p.SuggestedOwner = cov.BestLevel, cov.BestMemberID
			}
			switch {
			case cov.Critical && p.Priority != PriorityCritical:
				p.Priority = PriorityCritical
				p.Reason = fmt.Sprintf("Critical for %s delivery (Level %d → %d)", res.ServiceName, cov.BestLevel, cov.MinLevel)
			case !cov.Critical && p.Priority == PriorityMedium && res.ReadinessPercent >= nearLaunch:
				p.Priority = PriorityHigh
				p.Reason = fmt.Sprintf("Blocks %s at %.0f%% readiness", res.ServiceName, res.ReadinessPercent)
			}
		}
	}

	out := make([]DevelopmentPriority, 0, len(order))
	for _, id := range order {
		out = append(out, *byID[id])
	}
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if priorityOrder[a.Priority] != priorityOrder[b.Priority] {
			return priorityOrder[a.Priority] < priorityOrder[b.Priority]
		}
		if len(a.Services) != len(b.Services) {
			return len(a.Services) > len(b.Services)
		}
		if ga, gb := a.TargetLevel-a.CurrentLevel, b.TargetLevel-b.CurrentLevel; ga != gb {
			return ga < gb
		}
		return a.SkillID < b.SkillID
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out
}
