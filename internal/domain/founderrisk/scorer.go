// Package founderrisk scores how much a business depends on its founder or
// a few key people, from a flat map of survey answers.
package founderrisk

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/okian/teamiq/internal/domain/model"
)

// Component names this package in diagnostics and metrics.
const Component = "founder_risk"

// Levels.
const (
	LevelLow      = "low"
	LevelMedium   = "medium"
	LevelHigh     = "high"
	LevelCritical = "critical"
)

// Succession readiness.
const (
	SuccessionReady   = "ready"
	SuccessionPartial = "partial"
	SuccessionNone    = "none"
)

// Answers is the raw survey map: key -> answer (string or number).
type Answers map[string]any

// Factor is one signal that contributed points.
type Factor struct {
	Category string `json:"category"`
	Signal   string `json:"signal"`
	Severity string `json:"severity"`
	Points   int    `json:"points"`
	Key      string `json:"key"`
	Answer   string `json:"answer"`
}

// Succession summarises how ready the business is to replace key roles.
type Succession struct {
	Readiness   string   `json:"readiness"`
	RoleGaps    []string `json:"role_gaps"`
	ReadyRoles  []string `json:"ready_roles"`
	TimeToReady string   `json:"time_to_ready"`
}

// Result is the founder dependency risk assessment.
type Result struct {
	Score           int               `json:"score"`
	Level           string            `json:"level"`
	ValuationImpact string            `json:"valuation_impact"`
	Factors         []string          `json:"factors"`
	Details         []Factor          `json:"details"`
	Succession      Succession        `json:"succession"`
	IgnoredKeys     []string          `json:"ignored_keys"`
	Diagnostics     model.Diagnostics `json:"diagnostics"`
}

var (
	table = Rules()
	byKey = indexRules(table)
)

func ruleKey(k string) string { return strings.ToLower(strings.TrimSpace(k)) }

func indexRules(rules []Rule) map[string]int {
	out := make(map[string]int, len(rules))
	for i, r := range rules {
		out[r.Key] = i
	}
	return out
}

// Score evaluates the answers against the rule table. Signals fire in table
// order and the total is clamped to [0,100]. Unknown keys are ignored and
// listed; unrecognised answers are reported as diagnostics.
func Score(answers Answers) Result {
	res := Result{
		Factors:     []string{},
		Details:     []Factor{},
		IgnoredKeys: []string{},
		Diagnostics: model.Diagnostics{},
	}

	keys := make([]string, 0, len(answers))
	for k := range answers {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	normalized := make(map[string]any, len(answers))
	for _, k := range keys {
		nk := ruleKey(k)
		if _, ok := byKey[nk]; !ok {
			res.IgnoredKeys = append(res.IgnoredKeys, k)
			continue
		}
		if _, dup := normalized[nk]; dup {
			res.Diagnostics.Add(model.Diagnostic{Component: Component, Field: nk, Subject: k,
				Message: "duplicate answer key ignored"})
			continue
		}
		normalized[nk] = answers[k]
	}

	total := 0
	for _, rule := range table {
		raw, present := normalized[rule.Key]
		if !present || isBlank(raw) {
			continue
		}
		var f *Factor
		switch rule.Kind {
		case Categorical:
			f = evalCategorical(rule, raw, &res.Diagnostics)
		case Banded:
			f = evalBanded(rule, raw, &res.Diagnostics)
		}
		if f == nil {
			continue
		}
		total += f.Points
		res.Factors = append(res.Factors, f.Signal)
		res.Details = append(res.Details, *f)
	}

	res.Score = max(0, min(total, 100))
	res.Level, res.ValuationImpact = LevelFor(res.Score)
	res.Succession = assessSuccession(normalized)
	return res
}

// LevelFor maps a clamped score to its level and valuation impact.
func LevelFor(score int) (level, impact string) {
	switch {
	case score >= 60:
		return LevelCritical, "30-50% valuation discount"
	case score >= 40:
		return LevelHigh, "20-30% valuation discount"
	case score >= 20:
		return LevelMedium, "10-20% valuation discount"
	default:
		return LevelLow, "Minimal valuation impact"
	}
}

func isBlank(v any) bool {
	if v == nil {
		return true
	}
	s, ok := v.(string)
	return ok && strings.TrimSpace(s) == ""
}

// foldAnswer lowercases and collapses whitespace.
func foldAnswer(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

// matchOutcome returns the canonical outcome for an answer.
func matchOutcome(rule Rule, raw any) (Outcome, bool) {
	s, ok := raw.(string)
	if !ok {
		return Outcome{}, false
	}
	want := foldAnswer(s)
	for _, o := range rule.Outcomes {
		if foldAnswer(o.Answer) == want {
			return o, true
		}
	}
	return Outcome{}, false
}

func evalCategorical(rule Rule, raw any, diags *model.Diagnostics) *Factor {
	o, ok := matchOutcome(rule, raw)
	if !ok {
		diags.Add(model.Diagnostic{Component: Component, Field: rule.Key, Value: fmt.Sprint(raw),
			Message: "unrecognised answer ignored"})
		return nil
	}
	if o.Points == 0 {
		return nil
	}
	return &Factor{
		Category: rule.Category,
		Signal:   rule.Label + ": " + o.Answer,
		Severity: o.Severity,
		Points:   o.Points,
		Key:      rule.Key,
		Answer:   o.Answer,
	}
}

func evalBanded(rule Rule, raw any, diags *model.Diagnostics) *Factor {
	pct, ok := ParsePercent(raw)
	if !ok {
		diags.Add(model.Diagnostic{Component: Component, Field: rule.Key, Value: fmt.Sprint(raw),
			Message: "unparseable percentage ignored"})
		return nil
	}
	if c, clamped := model.ClampPercent(pct); clamped {
		diags.Add(model.Diagnostic{Component: Component, Field: rule.Key, Value: model.Num(pct), Clamped: model.Num(c),
			Message: "percentage clamped to [0,100]"})
		pct = c
	}
	for _, b := range rule.Bands {
		if pct >= b.Min {
			shown := model.Num(model.Round(pct, 1))
			return &Factor{
				Category: rule.Category,
				Signal:   fmt.Sprintf(b.Signal, shown),
				Severity: b.Severity,
				Points:   b.Points,
				Key:      rule.Key,
				Answer:   shown + "%",
			}
		}
	}
	return nil
}

// ParsePercent reads numbers and survey strings such as "85", "85%",
// "60-80" (midpoint), "over 80" (90) and "under 20" (15).
func ParsePercent(raw any) (float64, bool) {
	switch v := raw.(type) {
	case float64:
		return v, !math.IsNaN(v) && !math.IsInf(v, 0)
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	case string:
		return parsePercentString(v)
	default:
		return 0, false
	}
}

func parsePercentString(s string) (float64, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, "%", "")
	s = strings.TrimSpace(s)

	for _, p := range []string{"over ", "more than ", "above ", "greater than "} {
		if rest, ok := strings.CutPrefix(s, p); ok {
			n, err := strconv.ParseFloat(strings.TrimSpace(rest), 64)
			return n + 10, err == nil
		}
	}
	for _, p := range []string{"under ", "less than ", "below "} {
		if rest, ok := strings.CutPrefix(s, p); ok {
			n, err := strconv.ParseFloat(strings.TrimSpace(rest), 64)
			return math.Max(0, n-5), err == nil
		}
	}
	if lo, hi, ok := strings.Cut(s, "-"); ok && lo != "" {
		a, errA := strconv.ParseFloat(strings.TrimSpace(lo), 64)
		b, errB := strconv.ParseFloat(strings.TrimSpace(hi), 64)
		if errA == nil && errB == nil {
			return (a + b) / 2, true
		}
		return 0, false
	}
	n, err := strconv.ParseFloat(s, 64)
	return n, err == nil
}

var successionRoles = []struct{ key, role string }{
	{"succession_sales", "Sales"},
	{"succession_technical", "Technical"},
	{"succession_operations", "Operations"},
	{"succession_customer", "Customer"},
	{"succession_your_role", "Founder/CEO"},
}

func assessSuccession(answers map[string]any) Succession {
	s := Succession{RoleGaps: []string{}, ReadyRoles: []string{}}
	founderNobody := false
	for _, sr := range successionRoles {
		raw, present := answers[sr.key]
		if !present || isBlank(raw) {
			s.RoleGaps = append(s.RoleGaps, sr.role+": Not assessed")
			continue
		}
		o, ok := matchOutcome(table[byKey[sr.key]], raw)
		if !ok {
			continue
		}
		switch o.Answer {
		case "Ready now":
			s.ReadyRoles = append(s.ReadyRoles, sr.role)
		case "Nobody", "Need 6 months":
			s.RoleGaps = append(s.RoleGaps, sr.role+": "+o.Answer)
			if o.Answer == "Nobody" && sr.key == "succession_your_role" {
				founderNobody = true
			}
		}
	}

	switch {
	case len(s.RoleGaps) == 0 && len(s.ReadyRoles) >= 4:
		s.Readiness, s.TimeToReady = SuccessionReady, "Ready now"
	case len(s.RoleGaps) >= 4 || founderNobody:
		s.Readiness, s.TimeToReady = SuccessionNone, "12-24 months"
	case len(s.RoleGaps) >= 2:
		s.Readiness, s.TimeToReady = SuccessionPartial, "6-12 months"
	default:
		s.Readiness, s.TimeToReady = SuccessionPartial, "3-6 months"
	}
	return s
}
