package samplegen

import (
	"context"
	"fmt"
	"math/rand/v2"
	"strconv"
	"time"

	"github.com/okian/teamiq/internal/adapters/catalog"
	"github.com/okian/teamiq/internal/domain/analysis"
	"github.com/okian/teamiq/internal/domain/founderrisk"
	"github.com/okian/teamiq/internal/domain/industry"
	"github.com/okian/teamiq/internal/domain/model"
	"github.com/okian/teamiq/internal/domain/scenario"
)

// Ranges for generated financials.
const (
	revenueMin       = 250_000.0
	revenueRange     = 4_750_000.0
	grossMarginMin   = 25.0
	grossMarginRange = 45.0
	netMarginMin     = 2.0
	netMarginRange   = 23.0
	debtorDaysMin    = 15.0
	debtorDaysRange  = 75.0
	assessedSkillPct = 0.6
	maxInterestRank  = 3
)

var (
	firstNames = []string{"Alice", "Ben", "Chloe", "Dev", "Ella", "Farid", "Grace", "Hugo", "Isla", "Jamal", "Kate", "Liam"}
	roles      = []string{"Partner", "Manager", "Senior", "Associate", "Bookkeeper", "Trainee"}
	sicCodes   = []string{"69201", "69202", "62020", "62012", "62011", "62030", "70229", "47910", "41202", "86210"}

	successionAnswers = []string{"Ready now", "Need 1 month", "Need 6 months", "Nobody"}
	autonomyAnswers   = []string{"Runs smoothly", "Needs oversight", "Would struggle", "Would fail"}
	riskAnswers       = []string{"No impact", "Minor delays", "Disrupted for days", "Crisis situation"}
	surveyAreas       = []string{"sales", "technical", "operations", "customer"}
	autonomyAreas     = []string{"finance", "strategy", "sales", "delivery"}
	riskLeads         = []string{"risk_sales_lead", "risk_tech_lead", "risk_operations_lead"}
)

// Generator builds synthetic practices from a catalog. It is not safe for
// concurrent use.
type Generator struct {
	rng     *rand.Rand
	catalog *catalog.Catalog
	members int
}

// NewGenerator returns a generator seeded with seed.
func NewGenerator(cat *catalog.Catalog, members int, seed uint64) *Generator {
	if members < 1 {
		members = 1
	}
	return &Generator{
		rng:     rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
		catalog: cat,
		members: members,
	}
}

// Generate creates n practices. It stops early when ctx is done.
func (g *Generator) Generate(ctx context.Context, n int) ([]analysis.Input, error) {
	out := make([]analysis.Input, 0, n)
	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("generate practice %d: %w", i, err)
		}
		out = append(out, g.Practice("practice-"+strconv.Itoa(i)))
	}
	return out, nil
}

// Practice creates one synthetic practice with a team, survey, industry
// codes and a financial baseline.
func (g *Generator) Practice(id string) analysis.Input {
	members := g.team()
	return analysis.Input{
		PracticeID:  id,
		Members:     members,
		Assessments: g.assessments(members),
		Interests:   g.interests(members),
		Survey:      g.survey(),
		Industry:    &industry.Input{Codes: []string{g.pick(sicCodes)}},
		Baseline:    g.baseline(len(members)),
	}
}

func (g *Generator) team() []model.Member {
	out := make([]model.Member, g.members)
	for i := range out {
		out[i] = model.Member{
			ID:   "m" + strconv.Itoa(i+1),
			Name: g.pick(firstNames),
			Role: g.pick(roles),
		}
	}
	return out
}

func (g *Generator) assessments(members []model.Member) []model.Assessment {
	assessedAt := time.Date(2025, time.January, 1, 9, 0, 0, 0, time.UTC)
	var out []model.Assessment
	for _, m := range members {
		for _, sk := range g.catalog.Skills {
			if g.rng.Float64() > assessedSkillPct {
				continue
			}
			out = append(out, model.Assessment{
				MemberID:     m.ID,
				SkillID:      sk.ID,
				CurrentLevel: g.rng.IntN(model.MaxLevel + 1),
				AssessedAt:   assessedAt.AddDate(0, 0, g.rng.IntN(365)),
			})
		}
	}
	return out
}

func (g *Generator) interests(members []model.Member) []model.ServiceLineInterest {
	codes := g.catalog.Codes()
	if len(codes) == 0 {
		return nil
	}
	var out []model.ServiceLineInterest
	for _, m := range members {
		for rank := 1; rank <= maxInterestRank; rank++ {
			out = append(out, model.ServiceLineInterest{
				MemberID:               m.ID,
				ServiceLine:            g.pick(codes),
				InterestRank:           rank,
				CurrentExperienceLevel: g.rng.IntN(model.MaxLevel + 1),
				DesiredInvolvementPct:  float64(g.rng.IntN(101)),
			})
		}
	}
	return out
}

func (g *Generator) survey() founderrisk.Answers {
	a := founderrisk.Answers{
		"succession_your_role":            g.pick(successionAnswers),
		"knowledge_dependency_percentage": g.rng.IntN(101),
		"personal_brand_percentage":       g.rng.IntN(101),
	}
	for _, area := range surveyAreas {
		a["succession_"+area] = g.pick(successionAnswers)
	}
	for _, area := range autonomyAreas {
		a["autonomy_"+area] = g.pick(autonomyAnswers)
	}
	for _, lead := range riskLeads {
		a[lead] = g.pick(riskAnswers)
	}
	return a
}

func (g *Generator) baseline(headcount int) *scenario.Baseline {
	revenue := revenueMin + g.rng.Float64()*revenueRange
	netMargin := netMarginMin + g.rng.Float64()*netMarginRange
	return &scenario.Baseline{
		Revenue:       round0(revenue),
		GrossMargin:   round0(grossMarginMin + g.rng.Float64()*grossMarginRange),
		NetMargin:     round0(netMargin),
		NetProfit:     round0(revenue * netMargin / 100),
		EmployeeCount: float64(headcount),
		DebtorDays:    round0(debtorDaysMin + g.rng.Float64()*debtorDaysRange),
	}
}

func (g *Generator) pick(options []string) string {
	return options[g.rng.IntN(len(options))]
}

func round0(v float64) float64 {
	return float64(int64(v + 0.5))
}
