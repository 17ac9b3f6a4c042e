// Package skillmatrix builds the member x skill level table from sparse
// assessment records and derives category rollups and member profiles.
package skillmatrix

import (
	"strconv"
	"time"

	"github.com/okian/teamiq/internal/domain/model"
)

// Component names this package in diagnostics and metrics.
const Component = "skillmatrix"

// Matrix is a dense member x skill lookup. It is immutable once built and
// safe for concurrent readers.
type Matrix struct {
	skills    []model.Skill
	members   []model.Member
	skillIdx  map[string]int
	memberIdx map[string]int

	// cells are laid out member-major: member*len(skills) + skill.
	levels   []int
	assessed []bool
	at       []time.Time

	assessedPerSkill []int
	diagnostics      model.Diagnostics
}

// Aggregate builds a Matrix. Duplicate rows for one (member, skill) pair are
// reduced to the latest AssessedAt, ties going to the higher level, so the
// result does not depend on input order. Bad values are clamped or skipped
// and reported as diagnostics.
func Aggregate(skills []model.Skill, members []model.Member, assessments []model.Assessment) *Matrix {
	m := &Matrix{
		skillIdx:  make(map[string]int, len(skills)),
		memberIdx: make(map[string]int, len(members)),
	}

	for _, s := range skills {
		if s.ID == "" {
			m.warn("skill.id", "", "", "", "skill without id skipped")
			continue
		}
		if _, dup := m.skillIdx[s.ID]; dup {
			m.warn("skill.id", s.ID, "", "", "duplicate skill id, first occurrence kept")
			continue
		}
		if lvl, clamped := model.ClampLevel(s.RequiredLevel); clamped {
			m.warn("required_level", s.ID, strconv.Itoa(s.RequiredLevel), strconv.Itoa(lvl), "required level clamped to [0,5]")
			s.RequiredLevel = lvl
		}
		m.skillIdx[s.ID] = len(m.skills)
		m.skills = append(m.skills, s)
	}

	for _, p := range members {
		if p.ID == "" {
			m.warn("member.id", "", "", "", "member without id skipped")
			continue
		}
		if _, dup := m.memberIdx[p.ID]; dup {
			m.warn("member.id", p.ID, "", "", "duplicate member id, first occurrence kept")
			continue
		}
		m.memberIdx[p.ID] = len(m.members)
		m.members = append(m.members, p)
	}

	cells := len(m.skills) * len(m.members)
	m.levels = make([]int, cells)
	m.assessed = make([]bool, cells)
	m.at = make([]time.Time, cells)
	m.assessedPerSkill = make([]int, len(m.skills))

	for _, a := range assessments {
		mi, okMember := m.memberIdx[a.MemberID]
		si, okSkill := m.skillIdx[a.SkillID]
		subject := a.MemberID + "/" + a.SkillID
		if !okMember {
			m.warn("member_id", subject, a.MemberID, "", "assessment for unknown member skipped")
			continue
		}
		if !okSkill {
			m.warn("skill_id", subject, a.SkillID, "", "assessment for unknown skill skipped")
			continue
		}
		lvl, clamped := model.ClampLevel(a.CurrentLevel)
		if clamped {
			m.warn("current_level", subject, strconv.Itoa(a.CurrentLevel), strconv.Itoa(lvl), "current level clamped to [0,5]")
		}

		c := mi*len(m.skills) + si
		if !m.assessed[c] {
			m.assessed[c] = true
			m.assessedPerSkill[si]++
			m.levels[c], m.at[c] = lvl, a.AssessedAt
			continue
		}
		if a.AssessedAt.After(m.at[c]) || (a.AssessedAt.Equal(m.at[c]) && lvl > m.levels[c]) {
			m.levels[c], m.at[c] = lvl, a.AssessedAt
		}
	}
	return m
}

func (m *Matrix) warn(field, subject, value, clamped, msg string) {
	m.diagnostics.Add(model.Diagnostic{
		Component: Component,
		Field:     field,
		Subject:   subject,
		Value:     value,
		Clamped:   clamped,
		Message:   msg,
	})
}

func (m *Matrix) cell(memberID, skillID string) (int, bool) {
	mi, ok := m.memberIdx[memberID]
	if !ok {
		return 0, false
	}
	si, ok := m.skillIdx[skillID]
	if !ok {
		return 0, false
	}
	return mi*len(m.skills) + si, true
}

// Level returns the member's level on the skill and whether a real
// assessment exists. Unknown or unassessed pairs return (0, false).
func (m *Matrix) Level(memberID, skillID string) (int, bool) {
	c, ok := m.cell(memberID, skillID)
	if !ok || !m.assessed[c] {
		return 0, false
	}
	return m.levels[c], true
}

// Skill returns the (clamped) skill definition.
func (m *Matrix) Skill(skillID string) (model.Skill, bool) {
	si, ok := m.skillIdx[skillID]
	if !ok {
		return model.Skill{}, false
	}
	return m.skills[si], true
}

// HasMember reports whether memberID is on the team.
func (m *Matrix) HasMember(memberID string) bool {
	_, ok := m.memberIdx[memberID]
	return ok
}

// Skills returns the skills in input order without duplicates.
func (m *Matrix) Skills() []model.Skill {
	return append([]model.Skill(nil), m.skills...)
}

// Members returns the members in input order without duplicates.
func (m *Matrix) Members() []model.Member {
	return append([]model.Member(nil), m.members...)
}

// MemberCount returns the number of distinct members.
func (m *Matrix) MemberCount() int { return len(m.members) }

// SkillCount returns the number of distinct skills.
func (m *Matrix) SkillCount() int { return len(m.skills) }

// Empty reports whether the team has no members.
func (m *Matrix) Empty() bool { return len(m.members) == 0 }

// AssessedMembers returns how many members have a real assessment on the skill.
func (m *Matrix) AssessedMembers(skillID string) int {
	si, ok := m.skillIdx[skillID]
	if !ok {
		return 0
	}
	return m.assessedPerSkill[si]
}

// UnassessedPairs counts (member, skill) pairs without any assessment.
func (m *Matrix) UnassessedPairs() int {
	n := 0
	for _, a := range m.assessed {
		if !a {
			n++
		}
	}
	return n
}

// Diagnostics returns the warnings collected while building the matrix.
func (m *Matrix) Diagnostics() model.Diagnostics {
	return append(model.Diagnostics(nil), m.diagnostics...)
}
