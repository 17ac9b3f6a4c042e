// Package scenario projects "what-if" improvement scenarios over a
// practice's baseline financials. Each scenario type is one entry in a
// dispatch table of pure projections.
package scenario

import (
	"fmt"
	"math"
	"sort"

	"github.com/okian/teamiq/internal/domain/model"
)

// Component names this package in diagnostics and metrics.
const Component = "scenario"

// Type names a scenario.
type Type string

// Scenario types.
const (
	TypeMargin          Type = "margin"
	TypePricing         Type = "pricing"
	TypeCash            Type = "cash"
	TypeEfficiency      Type = "efficiency"
	TypeDiversification Type = "diversification"
	TypeExit            Type = "exit"
)

// Value formats.
const (
	FormatCurrency = "currency"
	FormatPercent  = "percent"
	FormatNumber   = "number"
	FormatDays     = "days"
)

// Baseline is a snapshot of a practice's financial and operational metrics.
// Percentages are expressed as 0..100. Zero means not supplied for the
// optional fields.
type Baseline struct {
	Revenue             float64 `json:"revenue"`
	GrossMargin         float64 `json:"gross_margin"`
	GrossProfit         float64 `json:"gross_profit,omitempty"`
	NetMargin           float64 `json:"net_margin"`
	NetProfit           float64 `json:"net_profit"`
	EBITDA              float64 `json:"ebitda,omitempty"`
	EBITDAMargin        float64 `json:"ebitda_margin,omitempty"`
	EmployeeCount       float64 `json:"employee_count"`
	RevenuePerEmployee  float64 `json:"revenue_per_employee,omitempty"`
	DebtorDays          float64 `json:"debtor_days"`
	CreditorDays        float64 `json:"creditor_days,omitempty"`
	ClientConcentration float64 `json:"client_concentration,omitempty"`
	AverageRate         float64 `json:"average_rate,omitempty"`
	UtilisationRate     float64 `json:"utilisation_rate,omitempty"`
}

// Params override the default targets of a projection. Nil keeps the default.
type Params struct {
	TargetGrossMargin         *float64 `json:"target_gross_margin,omitempty"`
	IndustryMedianGrossMargin *float64 `json:"industry_median_gross_margin,omitempty"`
	RateIncreasePct           *float64 `json:"rate_increase_pct,omitempty"`
	VolumeRetentionPct        *float64 `json:"volume_retention_pct,omitempty"`
	TargetDebtorDays          *float64 `json:"target_debtor_days,omitempty"`
	TargetRevenuePerEmployee  *float64 `json:"target_revenue_per_employee,omitempty"`
	TargetConcentration       *float64 `json:"target_concentration,omitempty"`
	ExitMultiple              *float64 `json:"exit_multiple,omitempty"`
	FounderRiskScore          *float64 `json:"founder_risk_score,omitempty"`
}

// Band maps a threshold to a discount fraction. Tables are ordered by Min
// descending; the first band with value >= Min applies.
type Band struct {
	Min      float64 `json:"min"`
	Discount float64 `json:"discount"`
}

// Assumptions are the financial constants behind every projection.
type Assumptions struct {
	FlowThrough                float64 `json:"flow_through"`
	ValueMultiple              float64 `json:"value_multiple"`
	BorrowingRate              float64 `json:"borrowing_rate"`
	CostPerHead                float64 `json:"cost_per_head"`
	EBITDARatio                float64 `json:"ebitda_ratio"`
	DefaultConcentration       float64 `json:"default_concentration"`
	DefaultFounderRisk         float64 `json:"default_founder_risk"`
	ConcentrationDiscounts     []Band  `json:"concentration_discounts"`
	ExitConcentrationDiscounts []Band  `json:"exit_concentration_discounts"`
	FounderDiscounts           []Band  `json:"founder_discounts"`
}

// DefaultAssumptions returns the standard UK owner-managed business set.
func DefaultAssumptions() Assumptions {
	return Assumptions{
		FlowThrough:          0.45,
		ValueMultiple:        5,
		BorrowingRate:        0.08,
		CostPerHead:          55000,
		EBITDARatio:          0.8,
		DefaultConcentration: 50,
		DefaultFounderRisk:   50,
		ConcentrationDiscounts: []Band{
			{Min: 80, Discount: 0.25},
			{Min: 60, Discount: 0.15},
			{Min: 0, Discount: 0.05},
		},
		ExitConcentrationDiscounts: []Band{
			{Min: 60, Discount: 0.15},
			{Min: 0, Discount: 0.05},
		},
		FounderDiscounts: []Band{
			{Min: 60, Discount: 0.25},
			{Min: 40, Discount: 0.15},
			{Min: 0, Discount: 0.05},
		},
	}
}

// Metric is the headline movement of a scenario.
type Metric struct {
	Label     string  `json:"label"`
	Current   float64 `json:"current"`
	Projected float64 `json:"projected"`
	Delta     float64 `json:"delta"`
	Format    string  `json:"format"`
}

// Impact is a supporting figure.
type Impact struct {
	Label       string  `json:"label"`
	Impact      float64 `json:"impact"`
	Description string  `json:"description"`
	Format      string  `json:"format"`
}

// Result is one projected scenario.
type Result struct {
	Type                Type              `json:"type"`
	Title               string            `json:"title"`
	Available           bool              `json:"available"`
	Reason              string            `json:"reason,omitempty"`
	PrimaryMetric       Metric            `json:"primary_metric"`
	SecondaryMetrics    []Impact          `json:"secondary_metrics"`
	BusinessValueImpact float64           `json:"business_value_impact"`
	Summary             string            `json:"summary,omitempty"`
	HowToAchieve        []string          `json:"how_to_achieve"`
	Diagnostics         model.Diagnostics `json:"diagnostics"`
}

// projection is a pure scenario formula. A non-empty reason marks the
// baseline as unusable for this scenario.
type projection func(a Assumptions, b Baseline, p Params, d *diag) (r Result, reason string)

type entry struct {
	title   string
	project projection
}

var table = map[Type]entry{
	TypeMargin:          {"Margin Improvement", projectMargin},
	TypePricing:         {"Pricing Power", projectPricing},
	TypeCash:            {"Cash Optimisation", projectCash},
	TypeEfficiency:      {"Efficiency Gains", projectEfficiency},
	TypeDiversification: {"Customer Diversification", projectDiversification},
	TypeExit:            {"Exit Readiness", projectExit},
}

// Types lists every known scenario type in a stable order.
func Types() []Type {
	return []Type{TypeMargin, TypePricing, TypeCash, TypeEfficiency, TypeDiversification, TypeExit}
}

// Known reports whether t has a projection.
func Known(t Type) bool {
	_, ok := table[t]
	return ok
}

// Projector runs scenario projections. It holds only assumptions and is
// safe for concurrent use.
type Projector struct {
	assume Assumptions
}

// New creates a Projector with the default assumptions.
func New(opts ...Option) *Projector {
	p := &Projector{assume: DefaultAssumptions()}
	for _, opt := range opts {
		opt(p)
	}
	sortBands(p.assume.ConcentrationDiscounts)
	sortBands(p.assume.ExitConcentrationDiscounts)
	sortBands(p.assume.FounderDiscounts)
	return p
}

// Assumptions returns a copy of the projector's assumptions.
func (p *Projector) Assumptions() Assumptions {
	return p.assume
}

// Project computes one scenario. An unknown type is a caller error; a
// baseline the scenario cannot use yields Available=false with a reason.
func (p *Projector) Project(b Baseline, t Type, params Params) (Result, error) {
	e, ok := table[t]
	if !ok {
		return Result{}, fmt.Errorf("%w: %q", ErrUnknownScenario, t)
	}

	d := &diag{scenario: t}
	b = d.sanitize(b)

	var (
		res    Result
		reason string
	)
	if b.Revenue <= 0 {
		reason = "revenue must be positive"
	} else {
		res, reason = e.project(p.assume, b, params, d)
	}

	res.Type = t
	res.Title = e.title
	res.Diagnostics = d.list
	if res.Diagnostics == nil {
		res.Diagnostics = model.Diagnostics{}
	}
	if reason != "" {
		res.Available = false
		res.Reason = reason
		res.PrimaryMetric = Metric{}
		res.SecondaryMetrics = []Impact{}
		res.BusinessValueImpact = 0
		res.Summary = ""
		res.HowToAchieve = []string{}
		return res, nil
	}
	res.Available = true
	res.BusinessValueImpact = round(res.BusinessValueImpact)
	return res, nil
}

// ProjectAll computes every scenario type in Types order.
func (p *Projector) ProjectAll(b Baseline, params Params) []Result {
	out := make([]Result, 0, len(table))
	for _, t := range Types() {
		r, _ := p.Project(b, t, params)
		out = append(out, r)
	}
	return out
}

func sortBands(bands []Band) {
	sort.SliceStable(bands, func(i, j int) bool { return bands[i].Min > bands[j].Min })
}

func discountFor(bands []Band, v float64) float64 {
	for _, b := range bands {
		if v >= b.Min {
			return b.Discount
		}
	}
	return 0
}

// diag collects the diagnostics of one projection.
type diag struct {
	scenario Type
	list     model.Diagnostics
}

func (d *diag) clamp(field string, v, lo, hi float64) float64 {
	c, changed := model.Clamp(v, lo, hi)
	if changed {
		d.list.Add(model.Diagnostic{
			Component: Component,
			Field:     field,
			Subject:   string(d.scenario),
			Value:     model.Num(v),
			Clamped:   model.Num(c),
			Message:   fmt.Sprintf("%s clamped to [%s,%s]", field, model.Num(lo), model.Num(hi)),
		})
	}
	return c
}

func (d *diag) floor(field string, v, lo float64) float64 {
	if v >= lo {
		return v
	}
	d.list.Add(model.Diagnostic{
		Component: Component,
		Field:     field,
		Subject:   string(d.scenario),
		Value:     model.Num(v),
		Clamped:   model.Num(lo),
		Message:   fmt.Sprintf("%s raised to %s", field, model.Num(lo)),
	})
	return lo
}

// sanitize replaces non-finite inputs and clamps values with a fixed range.
func (d *diag) sanitize(b Baseline) Baseline {
	finite := func(field string, v float64) float64 {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			d.list.Add(model.Diagnostic{Component: Component, Field: field, Subject: string(d.scenario),
				Value: model.Num(v), Clamped: "0", Message: "non-finite value replaced with 0"})
			return 0
		}
		return v
	}
	b.Revenue = finite("revenue", b.Revenue)
	b.GrossMargin = finite("gross_margin", b.GrossMargin)
	b.NetMargin = finite("net_margin", b.NetMargin)
	b.NetProfit = finite("net_profit", b.NetProfit)
	b.EBITDA = finite("ebitda", b.EBITDA)
	b.EmployeeCount = finite("employee_count", b.EmployeeCount)
	b.RevenuePerEmployee = finite("revenue_per_employee", b.RevenuePerEmployee)
	b.DebtorDays = finite("debtor_days", b.DebtorDays)
	b.ClientConcentration = finite("client_concentration", b.ClientConcentration)

	b.DebtorDays = d.floor("debtor_days", b.DebtorDays, 0)
	b.CreditorDays = d.floor("creditor_days", b.CreditorDays, 0)
	b.EmployeeCount = d.floor("employee_count", b.EmployeeCount, 0)
	b.ClientConcentration = d.clamp("client_concentration", b.ClientConcentration, 0, 100)
	return b
}

func round(v float64) float64 { return model.Round(v, 2) }

func metric(label string, current, projected, delta float64, format string) Metric {
	return Metric{Label: label, Current: round(current), Projected: round(projected), Delta: round(delta), Format: format}
}

func impact(label string, v float64, desc, format string) Impact {
	return Impact{Label: label, Impact: round(v), Description: desc, Format: format}
}

func param(v *float64, def float64) float64 {
	if v == nil || math.IsNaN(*v) || math.IsInf(*v, 0) {
		return def
	}
	return *v
}
