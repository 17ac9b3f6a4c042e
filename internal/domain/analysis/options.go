package analysis

import (
	"github.com/okian/teamiq/internal/domain/model"
	"github.com/okian/teamiq/internal/domain/readiness"
	"github.com/okian/teamiq/internal/domain/scenario"
)

// Option configures an Engine.
type Option func(*Engine)

// WithScorer sets the readiness scorer.
func WithScorer(s *readiness.Scorer) Option {
	return func(e *Engine) {
		if s != nil {
			e.scorer = s
		}
	}
}

// WithProjector sets the scenario projector.
func WithProjector(p *scenario.Projector) Option {
	return func(e *Engine) {
		if p != nil {
			e.projector = p
		}
	}
}

// WithDevelopmentLimit caps the development priorities listed.
func WithDevelopmentLimit(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.developmentLimit = n
		}
	}
}

// WithCatalog sets the skills and services used when an input carries team
// data but no catalog of its own.
func WithCatalog(skills []model.Skill, services []model.ServiceDefinition) Option {
	return func(e *Engine) {
		e.skills = skills
		e.services = services
	}
}

// WithObserver receives component start and finish events.
func WithObserver(o Observer) Option {
	return func(e *Engine) {
		if o != nil {
			e.observer = o
		}
	}
}
