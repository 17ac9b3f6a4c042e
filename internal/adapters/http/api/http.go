// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/okian/teamiq/internal/adapters/catalog"
	"github.com/okian/teamiq/internal/adapters/mq/queue"
	"github.com/okian/teamiq/internal/adapters/repository"
	"github.com/okian/teamiq/internal/domain/analysis"
)

const defaultMaxBodyBytes = 4 << 20

// Analyzer runs a (possibly cached) analysis.
type Analyzer interface {
	Analyze(ctx context.Context, in analysis.Input) (analysis.Report, error)
}

// JobService accepts analyses for background processing.
type JobService interface {
	// Submit queues an analysis. Errors wrapping queue.ErrFull,
	// queue.ErrClosed or ErrBackpressure are reported as 429.
	Submit(ctx context.Context, in analysis.Input) (repository.Record, error)
	Job(ctx context.Context, id string) (repository.Record, error)
}

// CatalogProvider exposes the service catalog in use.
type CatalogProvider interface {
	Catalog() *catalog.Catalog
}

// Dependencies required by HTTP handlers.
type Dependencies interface {
	Analyzer
	JobService
	CatalogProvider
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler      *HealthHandler
	statsHandler       *StatsHandler
	analysisHandler    *AnalysisHandler
	jobsHandler        *JobsHandler
	skillsHandler      *SkillsHandler
	readinessHandler   *ReadinessHandler
	founderRiskHandler *FounderRiskHandler
	industryHandler    *IndustryHandler
	scenarioHandler    *ScenarioHandler
	catalogHandler     *CatalogHandler
}

// Option configures a Server.
type Option func(*settings)

type settings struct {
	maxBodyBytes int64
}

// WithMaxBodyBytes caps request bodies.
func WithMaxBodyBytes(n int64) Option {
	return func(s *settings) {
		if n > 0 {
			s.maxBodyBytes = n
		}
	}
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider, opts ...Option) (*Server, error) {
	cfg := settings{maxBodyBytes: defaultMaxBodyBytes}
	for _, opt := range opts {
		opt(&cfg)
	}
	v, err := newValidator()
	if err != nil {
		return nil, fmt.Errorf("api: %w", err)
	}
	in := decoder{validator: v, maxBodyBytes: cfg.maxBodyBytes}

	return &Server{
		healthHandler:      NewHealthHandler(),
		statsHandler:       NewStatsHandler(statsProvider),
		analysisHandler:    &AnalysisHandler{deps: deps, in: in},
		jobsHandler:        &JobsHandler{deps: deps, in: in},
		skillsHandler:      &SkillsHandler{deps: deps, in: in},
		readinessHandler:   &ReadinessHandler{deps: deps, in: in},
		founderRiskHandler: &FounderRiskHandler{deps: deps, in: in},
		industryHandler:    &IndustryHandler{deps: deps, in: in},
		scenarioHandler:    &ScenarioHandler{deps: deps, in: in},
		catalogHandler:     &CatalogHandler{deps: deps},
	}, nil
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	handle := func(pattern, endpoint string, h http.HandlerFunc) {
		mux.HandleFunc(pattern, RequestID(MetricsMiddleware(h, endpoint)))
	}

	handle("GET /healthz", "healthz", s.healthHandler.HandleHealth)
	handle("GET /stats", "stats", s.statsHandler.HandleStats)
	handle("POST /v1/analyses", "analyses", s.analysisHandler.HandlePostAnalysis)
	handle("POST /v1/jobs", "jobs", s.jobsHandler.HandlePostJob)
	handle("GET /v1/jobs/{id}", "job", s.jobsHandler.HandleGetJob)
	handle("POST /v1/skills/rollups", "skills_rollups", s.skillsHandler.HandlePostRollups)
	handle("POST /v1/services/readiness", "services_readiness", s.readinessHandler.HandlePostReadiness)
	handle("POST /v1/founder-risk", "founder_risk", s.founderRiskHandler.HandlePostFounderRisk)
	handle("POST /v1/industry/classify", "industry_classify", s.industryHandler.HandlePostClassify)
	handle("POST /v1/scenarios/{type}", "scenarios", s.scenarioHandler.HandlePostScenario)
	handle("GET /v1/catalog", "catalog", s.catalogHandler.HandleGetCatalog)
}

// decoder reads, size-limits and schema-validates request bodies.
type decoder struct {
	validator    *validator
	maxBodyBytes int64
}

func (d decoder) decode(w http.ResponseWriter, r *http.Request, schema string, out any) error {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, d.maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return fmt.Errorf("%w: body exceeds %d bytes", ErrBadRequest, tooLarge.Limit)
		}
		return fmt.Errorf("%w: read body: %v", ErrBadRequest, err)
	}
	if !json.Valid(body) {
		return fmt.Errorf("%w: body is not valid JSON", ErrBadRequest)
	}
	if err := d.validator.validate(schema, body); err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("%w: %v", ErrBadRequest, err)
	}
	return nil
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeFailure maps err onto a status code and error envelope.
func writeFailure(w http.ResponseWriter, op string, err error) {
	err = fmt.Errorf("%s: %w", op, err)
	switch {
	case errors.Is(err, ErrBadRequest):
		writeError(w, http.StatusBadRequest, "bad_request", err)
	case errors.Is(err, ErrNotFound), errors.Is(err, repository.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", err)
	case errors.Is(err, ErrUnprocessable):
		writeError(w, http.StatusUnprocessableEntity, "unprocessable", err)
	case errors.Is(err, ErrBackpressure), errors.Is(err, queue.ErrFull), errors.Is(err, queue.ErrClosed):
		writeError(w, http.StatusTooManyRequests, "backpressure", err)
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		writeError(w, http.StatusServiceUnavailable, "timeout", err)
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", err)
	}
}
