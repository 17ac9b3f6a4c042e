package founderrisk_test

import (
	"encoding/json"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/teamiq/internal/domain/founderrisk"
)

func TestScore(t *testing.T) {
	Convey("Given the classic founder-dependent survey", t, func() {
		res := founderrisk.Score(founderrisk.Answers{
			"succession_your_role":            "Nobody",
			"autonomy_finance":                "Would fail",
			"knowledge_dependency_percentage": 85,
		})

		Convey("Then the score should be 55 and high", func() {
			So(res.Score, ShouldEqual, 55)
			So(res.Level, ShouldEqual, founderrisk.LevelHigh)
			So(res.ValuationImpact, ShouldEqual, "20-30% valuation discount")
		})

		Convey("Then factors should list fired signals in evaluation order", func() {
			So(res.Factors, ShouldResemble, []string{
				"your role: Nobody",
				"finance: Would fail",
				"85% of critical knowledge held by founder/key person",
			})
			So(res.Details[0].Category, ShouldEqual, founderrisk.CategorySuccession)
			So(res.Details[0].Severity, ShouldEqual, founderrisk.SeverityCritical)
			So(res.Details[2].Answer, ShouldEqual, "85%")
		})

		Convey("Then succession should be none because nobody can replace the founder", func() {
			So(res.Succession.Readiness, ShouldEqual, founderrisk.SuccessionNone)
			So(res.Succession.TimeToReady, ShouldEqual, "12-24 months")
			So(res.Succession.RoleGaps, ShouldContain, "Founder/CEO: Nobody")
		})
	})

	Convey("Given answers with odd casing and spacing", t, func() {
		res := founderrisk.Score(founderrisk.Answers{
			" Succession_Sales ": "  need   6 MONTHS ",
			"risk_tech_lead":     "crisis situation",
		})

		Convey("Then they should still match", func() {
			So(res.Score, ShouldEqual, 6+12)
			So(res.Factors, ShouldResemble, []string{"sales: Need 6 months", "tech lead: Crisis situation"})
		})
	})

	Convey("Given unknown keys and answers", t, func() {
		res := founderrisk.Score(founderrisk.Answers{
			"favourite_colour":  "blue",
			"autonomy_strategy": "Panic",
			"autonomy_sales":    42,
			"succession_sales":  "",
		})

		Convey("Then unknown keys should be ignored and bad answers diagnosed", func() {
			So(res.Score, ShouldEqual, 0)
			So(res.Level, ShouldEqual, founderrisk.LevelLow)
			So(res.ValuationImpact, ShouldEqual, "Minimal valuation impact")
			So(res.IgnoredKeys, ShouldResemble, []string{"favourite_colour"})
			So(res.Diagnostics.Len(), ShouldEqual, 2)
			So(res.Factors, ShouldBeEmpty)
		})
	})

	Convey("Given every signal at its worst", t, func() {
		answers := founderrisk.Answers{
			"knowledge_dependency_percentage": "over 80",
			"personal_brand_percentage":       "95%",
		}
		for _, r := range founderrisk.Rules() {
			if r.Kind == founderrisk.Categorical {
				answers[r.Key] = r.Outcomes[0].Answer
			}
		}
		res := founderrisk.Score(answers)

		Convey("Then the score should be clamped to 100", func() {
			So(res.Score, ShouldEqual, 100)
			So(res.Level, ShouldEqual, founderrisk.LevelCritical)
			So(res.ValuationImpact, ShouldEqual, "30-50% valuation discount")
			So(len(res.Factors), ShouldEqual, len(founderrisk.Rules()))
		})
	})

	Convey("Given out-of-range percentages", t, func() {
		res := founderrisk.Score(founderrisk.Answers{"personal_brand_percentage": 140})

		Convey("Then they should be clamped with a diagnostic", func() {
			So(res.Score, ShouldEqual, 12)
			So(res.Diagnostics.Len(), ShouldEqual, 1)
			So(res.Diagnostics[0].Clamped, ShouldEqual, "100")
		})
	})
}

func TestLevelBands(t *testing.T) {
	Convey("Given scores around the band thresholds", t, func() {
		low := founderrisk.Score(founderrisk.Answers{
			"succession_your_role":      "Need 6 months",
			"personal_brand_percentage": 50,
		})
		medium := founderrisk.Score(founderrisk.Answers{
			"succession_your_role": "Need 6 months",
			"autonomy_delivery":    "Needs oversight",
		})

		Convey("Then 19 should be low and 20 medium", func() {
			So(low.Score, ShouldEqual, 19)
			So(low.Level, ShouldEqual, founderrisk.LevelLow)
			So(medium.Score, ShouldEqual, 20)
			So(medium.Level, ShouldEqual, founderrisk.LevelMedium)
			So(medium.ValuationImpact, ShouldEqual, "10-20% valuation discount")
		})

		Convey("Then LevelFor should flip exactly at 40 and 60", func() {
			l, _ := founderrisk.LevelFor(39)
			So(l, ShouldEqual, founderrisk.LevelMedium)
			l, _ = founderrisk.LevelFor(40)
			So(l, ShouldEqual, founderrisk.LevelHigh)
			l, _ = founderrisk.LevelFor(59)
			So(l, ShouldEqual, founderrisk.LevelHigh)
			l, _ = founderrisk.LevelFor(60)
			So(l, ShouldEqual, founderrisk.LevelCritical)
		})
	})
}

func TestMonotonicity(t *testing.T) {
	Convey("Given a baseline survey", t, func() {
		base := founderrisk.Answers{
			"succession_your_role":            "Need 1 month",
			"autonomy_finance":                "Needs oversight",
			"risk_sales_lead":                 "Disrupted for days",
			"knowledge_dependency_percentage": 45,
		}
		baseline := founderrisk.Score(base).Score

		Convey("When any single signal is made worse", func() {
			monotone := true
			for _, r := range founderrisk.Rules() {
				worse := founderrisk.Answers{}
				for k, v := range base {
					worse[k] = v
				}
				if r.Kind == founderrisk.Categorical {
					worse[r.Key] = r.Outcomes[0].Answer
				} else {
					worse[r.Key] = 100
				}
				if founderrisk.Score(worse).Score < baseline {
					monotone = false
				}
			}

			Convey("Then the score should never decrease", func() {
				So(monotone, ShouldBeTrue)
			})
		})
	})
}

func TestSuccession(t *testing.T) {
	Convey("Given every role ready", t, func() {
		res := founderrisk.Score(founderrisk.Answers{
			"succession_your_role":  "Ready now",
			"succession_sales":      "Ready now",
			"succession_technical":  "Ready now",
			"succession_operations": "Ready now",
			"succession_customer":   "Ready now",
		})

		Convey("Then succession should be ready now", func() {
			So(res.Succession.Readiness, ShouldEqual, founderrisk.SuccessionReady)
			So(res.Succession.TimeToReady, ShouldEqual, "Ready now")
			So(len(res.Succession.ReadyRoles), ShouldEqual, 5)
			So(res.Score, ShouldEqual, 0)
		})
	})

	Convey("Given two gaps", t, func() {
		res := founderrisk.Score(founderrisk.Answers{
			"succession_your_role":  "Need 1 month",
			"succession_sales":      "Need 6 months",
			"succession_technical":  "Ready now",
			"succession_operations": "Ready now",
		})

		Convey("Then succession should be partial within 6-12 months", func() {
			So(res.Succession.Readiness, ShouldEqual, founderrisk.SuccessionPartial)
			So(res.Succession.TimeToReady, ShouldEqual, "6-12 months")
			So(res.Succession.RoleGaps, ShouldResemble, []string{"Sales: Need 6 months", "Customer: Not assessed"})
		})
	})

	Convey("Given no succession answers at all", t, func() {
		res := founderrisk.Score(founderrisk.Answers{})

		Convey("Then every role should be a gap", func() {
			So(len(res.Succession.RoleGaps), ShouldEqual, 5)
			So(res.Succession.Readiness, ShouldEqual, founderrisk.SuccessionNone)
		})
	})
}

func TestParsePercent(t *testing.T) {
	Convey("Given percentage answers", t, func() {
		cases := map[any]float64{
			"85":              85,
			" 85% ":           85,
			"60-80":           70,
			"60 - 80%":        70,
			"over 80":         90,
			"under 20":        15,
			"Under 3":         0,
			72.5:              72.5,
			40:                40,
			json.Number("55"): 55,
		}

		Convey("Then each should parse to the expected value", func() {
			for in, want := range cases {
				got, ok := founderrisk.ParsePercent(in)
				So(ok, ShouldBeTrue)
				So(got, ShouldEqual, want)
			}
		})

		Convey("Then garbage should be rejected", func() {
			_, ok := founderrisk.ParsePercent("lots")
			So(ok, ShouldBeFalse)
			_, ok = founderrisk.ParsePercent(true)
			So(ok, ShouldBeFalse)
		})
	})
}
