// Package model contains domain models passed between layers.
package model

import (
	"math"
	"strconv"
	"time"
)

// Level bounds for skill proficiency.
const (
	MinLevel = 0
	MaxLevel = 5
)

// Skill is an entry of the practice's skill taxonomy.
type Skill struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Category      string `json:"category"`
	RequiredLevel int    `json:"required_level"` // target level, 0..5
}

// Member is a person on the practice team.
type Member struct {
	ID   string `json:"id"`
	Name string `json:"name,omitempty"`
	Role string `json:"role,omitempty"`
}

// Assessment is one self or manager rating of a member on a skill.
type Assessment struct {
	MemberID     string    `json:"member_id"`
	SkillID      string    `json:"skill_id"`
	CurrentLevel int       `json:"current_level"`
	AssessedAt   time.Time `json:"assessed_at"`
}

// ServiceLineInterest records how much a member wants to work on a service line.
type ServiceLineInterest struct {
	MemberID               string  `json:"member_id"`
	ServiceLine            string  `json:"service_line"`
	InterestRank           int     `json:"interest_rank"` // 1 = most interested
	CurrentExperienceLevel int     `json:"current_experience_level"`
	DesiredInvolvementPct  float64 `json:"desired_involvement_pct"`
}

// ServiceDefinition is a catalog entry describing an advisory service line.
type ServiceDefinition struct {
	Code           string          `json:"code"`
	Name           string          `json:"name"`
	Description    string          `json:"description,omitempty"`
	ComingSoon     bool            `json:"coming_soon,omitempty"`
	RequiredSkills []RequiredSkill `json:"required_skills"`
}

// RequiredSkill is one skill a service line needs.
type RequiredSkill struct {
	SkillID  string  `json:"skill_id"`
	Weight   float64 `json:"weight"`
	MinLevel int     `json:"min_level"`
	Critical bool    `json:"critical,omitempty"`
}

// Diagnostic reports an input value that was clamped, replaced or skipped.
// Diagnostics never fail a computation.
type Diagnostic struct {
	Component string `json:"component"`
	Field     string `json:"field"`
	Subject   string `json:"subject,omitempty"`
	Value     string `json:"value,omitempty"`
	Clamped   string `json:"clamped,omitempty"`
	Message   string `json:"message"`
}

// Diagnostics is an ordered list of diagnostics.
type Diagnostics []Diagnostic

// Add appends d.
func (ds *Diagnostics) Add(d Diagnostic) {
	*ds = append(*ds, d)
}

// Merge appends every diagnostic of other.
func (ds *Diagnostics) Merge(other Diagnostics) {
	*ds = append(*ds, other...)
}

// Len returns the number of diagnostics.
func (ds Diagnostics) Len() int { return len(ds) }

// ClampLevel bounds v to [MinLevel, MaxLevel] and reports whether it changed.
func ClampLevel(v int) (int, bool) {
	switch {
	case v < MinLevel:
		return MinLevel, true
	case v > MaxLevel:
		return MaxLevel, true
	default:
		return v, false
	}
}

// ClampPercent bounds v to [0, 100] and reports whether it changed.
// NaN becomes 0.
func ClampPercent(v float64) (float64, bool) {
	return Clamp(v, 0, 100)
}

// Clamp bounds v to [lo, hi] and reports whether it changed. NaN becomes lo.
func Clamp(v, lo, hi float64) (float64, bool) {
	switch {
	case math.IsNaN(v):
		return lo, true
	case v < lo:
		return lo, true
	case v > hi:
		return hi, true
	default:
		return v, false
	}
}

// Num renders a number for diagnostics in its shortest exact form.
func Num(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// Round rounds v to the given number of decimal places.
func Round(v float64, places int) float64 {
	p := math.Pow10(places)
	return math.Round(v*p) / p
}
