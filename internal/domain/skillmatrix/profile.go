package skillmatrix

import (
	"sort"

	"github.com/okian/teamiq/internal/domain/model"
)

const topSkillCount = 3

// CategoryLevel is a category with a member's average level in it.
type CategoryLevel struct {
	Category     string  `json:"category"`
	AverageLevel float64 `json:"average_level"`
}

// SkillLevel is one assessed skill of a member.
type SkillLevel struct {
	SkillID  string `json:"skill_id"`
	Name     string `json:"name"`
	Category string `json:"category"`
	Level    int    `json:"level"`
}

// MemberProfile summarises one member's assessed skills.
type MemberProfile struct {
	MemberID          string         `json:"member_id"`
	Name              string         `json:"name,omitempty"`
	Role              string         `json:"role,omitempty"`
	AssessedSkills    int            `json:"assessed_skills"`
	UnassessedSkills  int            `json:"unassessed_skills"`
	AverageLevel      float64        `json:"average_level"`
	BelowTarget       int            `json:"below_target"`
	StrongestCategory *CategoryLevel `json:"strongest_category,omitempty"`
	WeakestCategory   *CategoryLevel `json:"weakest_category,omitempty"`
	TopSkills         []SkillLevel   `json:"top_skills"`
}

// Profiles returns one profile per member, ordered by member ID. Averages
// only consider skills the member was actually assessed on.
func Profiles(m *Matrix) []MemberProfile {
	out := make([]MemberProfile, 0, len(m.members))
	for mi := range m.members {
		out = append(out, m.profile(mi))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].MemberID < out[j].MemberID })
	return out
}

func (m *Matrix) profile(mi int) MemberProfile {
	member := m.members[mi]
	p := MemberProfile{MemberID: member.ID, Name: member.Name, Role: member.Role, TopSkills: []SkillLevel{}}

	type acc struct{ sum, n int }
	categories := make(map[string]*acc)
	var assessed []SkillLevel
	total := 0

	for si, s := range m.skills {
		c := mi*len(m.skills) + si
		if !m.assessed[c] {
			p.UnassessedSkills++
			continue
		}
		lvl := m.levels[c]
		total += lvl
		if lvl < s.RequiredLevel {
			p.BelowTarget++
		}
		a := categories[s.Category]
		if a == nil {
			a = &acc{}
			categories[s.Category] = a
		}
		a.sum += lvl
		a.n++
		assessed = append(assessed, SkillLevel{SkillID: s.ID, Name: s.Name, Category: s.Category, Level: lvl})
	}

	p.AssessedSkills = len(assessed)
	if p.AssessedSkills == 0 {
		return p
	}
	p.AverageLevel = model.Round(float64(total)/float64(p.AssessedSkills), 2)

	levels := make([]CategoryLevel, 0, len(categories))
	for name, a := range categories {
		levels = append(levels, CategoryLevel{Category: name, AverageLevel: model.Round(float64(a.sum)/float64(a.n), 2)})
	}
	sort.Slice(levels, func(i, j int) bool {
		if levels[i].AverageLevel != levels[j].AverageLevel {
			return levels[i].AverageLevel > levels[j].AverageLevel
		}
		return levels[i].Category < levels[j].Category
	})
	strongest, weakest := levels[0], levels[len(levels)-1]
	p.StrongestCategory, p.WeakestCategory = &strongest, &weakest

	sort.Slice(assessed, func(i, j int) bool {
		if assessed[i].Level != assessed[j].Level {
			return assessed[i].Level > assessed[j].Level
		}
		return assessed[i].SkillID < assessed[j].SkillID
	})
	if len(assessed) > topSkillCount {
		assessed = assessed[:topSkillCount]
	}
	p.TopSkills = assessed
	return p
}
