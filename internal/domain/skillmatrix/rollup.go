package skillmatrix

import (
	"sort"

	"github.com/okian/teamiq/internal/domain/model"
)

// CategoryRollup summarises one skill category across the whole team.
type CategoryRollup struct {
	Category         string  `json:"category"`
	AverageLevel     float64 `json:"average_level"`
	SkillsCount      int     `json:"skills_count"`
	AssessedCount    int     `json:"assessed_count"`
	BelowTargetCount int     `json:"below_target_count"`
	UnassessedPairs  int     `json:"unassessed_pairs"`
	DataIncomplete   bool    `json:"data_incomplete"`
}

// RollupByCategory computes per-category averages and gap counts, ordered by
// category name.
//
// AverageLevel averages every (member, skill) pair, counting unassessed
// pairs as zero. A skill is below target when the mean of its assessed
// members is under RequiredLevel; a skill nobody assessed is always below
// target.
func RollupByCategory(m *Matrix) []CategoryRollup {
	byCategory := make(map[string][]int)
	for si, s := range m.skills {
		byCategory[s.Category] = append(byCategory[s.Category], si)
	}

	names := make([]string, 0, len(byCategory))
	for name := range byCategory {
		names = append(names, name)
	}
	sort.Strings(names)

	out := make([]CategoryRollup, 0, len(names))
	for _, name := range names {
		out = append(out, m.rollup(name, byCategory[name]))
	}
	return out
}

func (m *Matrix) rollup(category string, skillIdx []int) CategoryRollup {
	r := CategoryRollup{Category: category, SkillsCount: len(skillIdx)}
	stride := len(m.skills)
	total := 0

	for _, si := range skillIdx {
		sum, n := 0, 0
		for mi := range m.members {
			c := mi*stride + si
			if !m.assessed[c] {
				r.UnassessedPairs++
				continue
			}
			sum += m.levels[c]
			n++
		}
		total += sum
		if n == 0 {
			r.BelowTargetCount++
			continue
		}
		r.AssessedCount++
		if float64(sum)/float64(n) < float64(m.skills[si].RequiredLevel) {
			r.BelowTargetCount++
		}
	}

	if pairs := len(skillIdx) * len(m.members); pairs > 0 {
		r.AverageLevel = model.Round(float64(total)/float64(pairs), 2)
	}
	r.DataIncomplete = len(m.members) == 0 || r.UnassessedPairs > 0
	return r
}
