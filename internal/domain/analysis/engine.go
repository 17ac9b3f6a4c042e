// Package analysis composes the team capability and risk components into a
// single report for one practice.
package analysis

import (
	"context"

	"github.com/okian/teamiq/internal/domain/fingerprint"
	"github.com/okian/teamiq/internal/domain/founderrisk"
	"github.com/okian/teamiq/internal/domain/industry"
	"github.com/okian/teamiq/internal/domain/model"
	"github.com/okian/teamiq/internal/domain/readiness"
	"github.com/okian/teamiq/internal/domain/scenario"
	"github.com/okian/teamiq/internal/domain/skillmatrix"
)

// Component names this package in diagnostics and metrics.
const Component = "analysis"

// Component names reported to the Observer.
const (
	StepSkillMatrix = skillmatrix.Component
	StepReadiness   = readiness.Component
	StepFounderRisk = founderrisk.Component
	StepIndustry    = "industry"
	StepScenario    = scenario.Component
)

// Report is the full analysis of one practice.
type Report struct {
	PracticeID   string                          `json:"practice_id"`
	Fingerprint  string                          `json:"fingerprint"`
	Rollups      []skillmatrix.CategoryRollup    `json:"rollups"`
	Profiles     []skillmatrix.MemberProfile     `json:"profiles"`
	Readiness    *readiness.Report               `json:"readiness,omitempty"`
	Capabilities []readiness.MemberCapability    `json:"capabilities"`
	Development  []readiness.DevelopmentPriority `json:"development"`
	FounderRisk  *founderrisk.Result             `json:"founder_risk,omitempty"`
	Industry     *industry.Result                `json:"industry,omitempty"`
	Scenarios    []scenario.Result               `json:"scenarios"`
	Diagnostics  model.Diagnostics               `json:"diagnostics"`
	// Incomplete is set when any part was computed over missing data.
	Incomplete bool `json:"incomplete"`
}

// Observer is told when each component starts. The returned func is called
// with the number of diagnostics the component produced.
type Observer interface {
	StartComponent(ctx context.Context, component string) (context.Context, func(diagnostics int))
}

type noopObserver struct{}

func (noopObserver) StartComponent(ctx context.Context, _ string) (context.Context, func(int)) {
	return ctx, func(int) {}
}

// Engine runs analyses. It is safe for concurrent use.
type Engine struct {
	scorer           *readiness.Scorer
	projector        *scenario.Projector
	developmentLimit int
	skills           []model.Skill
	services         []model.ServiceDefinition
	observer         Observer
}

// NewEngine creates an Engine with default scoring rules and no catalog.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		scorer:           readiness.New(),
		projector:        scenario.New(),
		developmentLimit: readiness.DefaultDevelopmentLimit,
		observer:         noopObserver{},
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Resolve fills skills and services from the engine's catalog when the
// input has none, then returns the canonical form.
func (e *Engine) Resolve(in Input) Input {
	if in.HasTeam() {
		if len(in.Skills) == 0 {
			in.Skills = e.skills
		}
		if len(in.Services) == 0 {
			in.Services = e.services
		}
	}
	return in.Canonical()
}

// Fingerprint is the cache key of the resolved input.
func (e *Engine) Fingerprint(in Input) (string, error) {
	return fingerprint.Of(e.Resolve(in))
}

// Analyze runs every component the input has data for. It never fails:
// bad values become diagnostics and missing data marks the report
// incomplete.
func (e *Engine) Analyze(ctx context.Context, in Input) Report {
	in = e.Resolve(in)
	rep := Report{
		PracticeID:   in.PracticeID,
		Rollups:      []skillmatrix.CategoryRollup{},
		Profiles:     []skillmatrix.MemberProfile{},
		Capabilities: []readiness.MemberCapability{},
		Development:  []readiness.DevelopmentPriority{},
		Scenarios:    []scenario.Result{},
		Diagnostics:  model.Diagnostics{},
	}
	if fp, err := fingerprint.Of(in); err == nil {
		rep.Fingerprint = fp
	}

	if in.HasTeam() {
		e.analyzeTeam(ctx, in, &rep)
	}

	if in.Survey != nil {
		_, done := e.observer.StartComponent(ctx, StepFounderRisk)
		fr := founderrisk.Score(in.Survey)
		rep.FounderRisk = &fr
		rep.Diagnostics.Merge(fr.Diagnostics)
		done(fr.Diagnostics.Len())
	}

	if in.Industry != nil {
		_, done := e.observer.StartComponent(ctx, StepIndustry)
		ind := industry.ClassifyInput(*in.Industry)
		rep.Industry = &ind
		done(0)
	}

	if in.Baseline != nil {
		_, done := e.observer.StartComponent(ctx, StepScenario)
		n := e.project(in, &rep)
		done(n)
	}
	return rep
}

func (e *Engine) analyzeTeam(ctx context.Context, in Input, rep *Report) {
	_, done := e.observer.StartComponent(ctx, StepSkillMatrix)
	m := skillmatrix.Aggregate(in.Skills, in.Members, in.Assessments)
	rep.Rollups = skillmatrix.RollupByCategory(m)
	rep.Profiles = skillmatrix.Profiles(m)
	rep.Diagnostics.Merge(m.Diagnostics())
	for _, r := range rep.Rollups {
		if r.DataIncomplete {
			rep.Incomplete = true
		}
	}
	done(m.Diagnostics().Len())

	_, done = e.observer.StartComponent(ctx, StepReadiness)
	req := readiness.Request{Services: in.Services, Interests: in.Interests, Codes: in.ServiceCodes}
	rr := e.scorer.Score(m, req)
	rep.Readiness = &rr
	rep.Capabilities = e.scorer.MemberCapabilities(m, req)
	rep.Development = readiness.DevelopmentPriorities(rr, e.developmentLimit)
	rep.Diagnostics.Merge(rr.Diagnostics)
	if rr.Err != nil || len(rr.Unavailable) > 0 {
		rep.Incomplete = true
	}
	for _, r := range rr.Results {
		if r.DataIncomplete {
			rep.Incomplete = true
		}
	}
	done(rr.Diagnostics.Len())
}

// project runs the requested scenarios and returns the diagnostics count.
// A computed founder risk score feeds the exit valuation unless the caller
// set one.
func (e *Engine) project(in Input, rep *Report) int {
	requests := in.Scenarios
	if len(requests) == 0 {
		for _, t := range scenario.Types() {
			requests = append(requests, ScenarioRequest{Type: t})
		}
	}

	n := 0
	seen := make(map[scenario.Type]bool, len(requests))
	for _, sr := range requests {
		if seen[sr.Type] {
			continue
		}
		seen[sr.Type] = true

		params := sr.Params
		if sr.Type == scenario.TypeExit && params.FounderRiskScore == nil && rep.FounderRisk != nil {
			score := float64(rep.FounderRisk.Score)
			params.FounderRiskScore = &score
		}
		res, err := e.projector.Project(*in.Baseline, sr.Type, params)
		if err != nil {
			rep.Diagnostics.Add(model.Diagnostic{Component: scenario.Component, Field: "scenarios.type",
				Value: string(sr.Type), Message: "unknown scenario type ignored"})
			n++
			continue
		}
		if !res.Available {
			rep.Incomplete = true
		}
		rep.Diagnostics.Merge(res.Diagnostics)
		n += res.Diagnostics.Len()
		rep.Scenarios = append(rep.Scenarios, res)
	}
	return n
}
