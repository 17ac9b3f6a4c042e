package readiness_test

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/teamiq/internal/domain/model"
	"github.com/okian/teamiq/internal/domain/readiness"
	"github.com/okian/teamiq/internal/domain/skillmatrix"
)

var t0 = time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

func skills(ids ...string) []model.Skill {
	out := make([]model.Skill, 0, len(ids))
	for _, id := range ids {
		out = append(out, model.Skill{ID: id, Name: id, Category: "General", RequiredLevel: 3})
	}
	return out
}

func assess(member, skill string, level int) model.Assessment {
	return model.Assessment{MemberID: member, SkillID: skill, CurrentLevel: level, AssessedAt: t0}
}

func req(skill string, weight float64, minLevel int) model.RequiredSkill {
	return model.RequiredSkill{SkillID: skill, Weight: weight, MinLevel: minLevel}
}

var team = []model.Member{{ID: "ann", Name: "Ann"}, {ID: "bob", Name: "Bob"}}

func TestScoreCoverage(t *testing.T) {
	Convey("Given a service whose skills nobody has assessed", t, func() {
		m := skillmatrix.Aggregate(skills("s1", "s2"), team, nil)
		svc := model.ServiceDefinition{Code: "benchmarking", Name: "Benchmarking",
			RequiredSkills: []model.RequiredSkill{req("s1", 1, 3), req("s2", 1, 2)}}

		rep := readiness.New().Score(m, readiness.Request{Services: []model.ServiceDefinition{svc}})

		Convey("Then readiness should be zero and incomplete", func() {
			So(rep.Err, ShouldBeNil)
			So(len(rep.Results), ShouldEqual, 1)
			r := rep.Results[0]
			So(r.ReadinessPercent, ShouldEqual, 0)
			So(r.TotalGap, ShouldEqual, 5)
			So(r.Tier, ShouldEqual, readiness.TierNotReady)
			So(r.DataIncomplete, ShouldBeTrue)
			So(r.ContributingMembers, ShouldBeEmpty)
		})
	})

	Convey("Given every required skill met exactly at min level and no interest data", t, func() {
		m := skillmatrix.Aggregate(skills("s1", "s2"), team, []model.Assessment{
			assess("ann", "s1", 3),
			assess("bob", "s2", 2),
		})
		svc := model.ServiceDefinition{Code: "automation", Name: "Automation",
			RequiredSkills: []model.RequiredSkill{req("s1", 2, 3), req("s2", 1, 2)}}

		rep := readiness.New().Score(m, readiness.Request{Services: []model.ServiceDefinition{svc}})

		Convey("Then readiness should be 100 with no adjustment", func() {
			r := rep.Results[0]
			So(r.ReadinessPercent, ShouldEqual, 100)
			So(r.CoveragePercent, ShouldEqual, 100)
			So(r.InterestAdjustment, ShouldEqual, 0)
			So(r.TotalGap, ShouldEqual, 0)
			So(r.Tier, ShouldEqual, readiness.TierReady)
			So(r.ContributingMembers, ShouldResemble, []string{"ann", "bob"})
			So(r.Coverage[0].BestMemberID, ShouldEqual, "ann")
			So(r.Coverage[1].BestMemberID, ShouldEqual, "bob")
		})
	})

	Convey("Given partial coverage weighted unevenly", t, func() {
		m := skillmatrix.Aggregate(skills("s1", "s2"), team, []model.Assessment{
			assess("ann", "s1", 4),
			assess("bob", "s2", 1),
		})
		svc := model.ServiceDefinition{Code: "advisory", Name: "Advisory",
			RequiredSkills: []model.RequiredSkill{req("s1", 3, 3), {SkillID: "s2", Weight: 1, MinLevel: 4, Critical: true}}}

		r := readiness.New().Score(m, readiness.Request{Services: []model.ServiceDefinition{svc}}).Results[0]

		Convey("Then coverage should follow the weights and gaps should be reported", func() {
			So(r.CoveragePercent, ShouldEqual, 75)
			So(r.TotalGap, ShouldEqual, 3)
			So(r.CriticalGaps, ShouldResemble, []string{"s2"})
			So(r.Tier, ShouldEqual, readiness.TierPartial)
			So(r.Coverage[1].BestMemberID, ShouldEqual, "bob")
			So(r.Coverage[1].BestLevel, ShouldEqual, 1)
			So(r.Coverage[1].Gap, ShouldEqual, 3)
		})
	})
}

func TestScoreInterest(t *testing.T) {
	Convey("Given a half-covered service and a keen member", t, func() {
		m := skillmatrix.Aggregate(skills("s1", "s2"), team, []model.Assessment{assess("ann", "s1", 4)})
		svc := model.ServiceDefinition{Code: "profit-extraction", Name: "Profit Extraction",
			RequiredSkills: []model.RequiredSkill{req("s1", 1, 3), req("s2", 1, 3)}}

		score := func(s *readiness.Scorer, pct float64, rank int) readiness.Result {
			interests := []model.ServiceLineInterest{{MemberID: "ann", ServiceLine: "profit-extraction", InterestRank: rank, DesiredInvolvementPct: pct}}
			return s.Score(m, readiness.Request{Services: []model.ServiceDefinition{svc}, Interests: interests}).Results[0]
		}

		Convey("When the member ranks it first with enough involvement", func() {
			r := score(readiness.New(), 60, 1)

			Convey("Then the bonus should be added", func() {
				So(r.CoveragePercent, ShouldEqual, 50)
				So(r.InterestAdjustment, ShouldEqual, 2.5)
				So(r.ReadinessPercent, ShouldEqual, 52.5)
			})
		})

		Convey("When involvement is below the threshold or the rank is not first", func() {
			Convey("Then no bonus should be added", func() {
				So(score(readiness.New(), 40, 1).InterestAdjustment, ShouldEqual, 0)
				So(score(readiness.New(), 90, 2).InterestAdjustment, ShouldEqual, 0)
			})
		})

		Convey("When the cap is lower than the bonus", func() {
			r := score(readiness.New(readiness.WithInterestCap(1)), 60, 1)

			Convey("Then the adjustment should be capped", func() {
				So(r.InterestAdjustment, ShouldEqual, 1)
				So(r.ReadinessPercent, ShouldEqual, 51)
			})
		})

		Convey("When the interest names the service instead of the code", func() {
			interests := []model.ServiceLineInterest{{MemberID: "ann", ServiceLine: " profit extraction ", InterestRank: 1, DesiredInvolvementPct: 80}}
			r := readiness.New().Score(m, readiness.Request{Services: []model.ServiceDefinition{svc}, Interests: interests}).Results[0]

			Convey("Then it should still match", func() {
				So(r.InterestAdjustment, ShouldEqual, 2.5)
			})
		})
	})

	Convey("Given a fully covered service with a keen team", t, func() {
		m := skillmatrix.Aggregate(skills("s1"), team, []model.Assessment{assess("ann", "s1", 5)})
		svc := model.ServiceDefinition{Code: "x", Name: "X", RequiredSkills: []model.RequiredSkill{req("s1", 1, 3)}}
		interests := []model.ServiceLineInterest{{MemberID: "ann", ServiceLine: "x", InterestRank: 1, DesiredInvolvementPct: 100}}

		r := readiness.New().Score(m, readiness.Request{Services: []model.ServiceDefinition{svc}, Interests: interests}).Results[0]

		Convey("Then readiness should be clamped to 100", func() {
			So(r.InterestAdjustment, ShouldEqual, 2.5)
			So(r.ReadinessPercent, ShouldEqual, 100)
		})
	})
}

func TestScoreRanking(t *testing.T) {
	Convey("Given two services tied at 70 percent", t, func() {
		m := skillmatrix.Aggregate(skills("s1", "s2", "s3", "s4"), team, []model.Assessment{
			assess("ann", "s1", 3), assess("ann", "s2", 2),
			assess("ann", "s3", 3), assess("ann", "s4", 2),
		})
		near := model.ServiceDefinition{Code: "zeta", Name: "Zeta",
			RequiredSkills: []model.RequiredSkill{req("s1", 7, 3), req("s2", 3, 3)}}
		far := model.ServiceDefinition{Code: "alpha", Name: "Alpha",
			RequiredSkills: []model.RequiredSkill{req("s3", 7, 3), req("s4", 3, 4)}}

		rep := readiness.New().Score(m, readiness.Request{Services: []model.ServiceDefinition{far, near}})

		Convey("Then the smaller total gap should rank first", func() {
			So(rep.Results[0].ReadinessPercent, ShouldEqual, 70)
			So(rep.Results[1].ReadinessPercent, ShouldEqual, 70)
			So(rep.Results[0].ServiceCode, ShouldEqual, "zeta")
			So(rep.Results[0].TotalGap, ShouldEqual, 1)
			So(rep.Results[1].TotalGap, ShouldEqual, 2)
		})

		Convey("When the gaps are equal too", func() {
			twin := near
			twin.Code = "beta"
			rep := readiness.New().Score(m, readiness.Request{Services: []model.ServiceDefinition{near, twin}})

			Convey("Then the code should decide alphabetically", func() {
				So(rep.Results[0].ServiceCode, ShouldEqual, "beta")
				So(rep.Results[1].ServiceCode, ShouldEqual, "zeta")
			})
		})
	})

	Convey("Given a best-member tie on level", t, func() {
		m := skillmatrix.Aggregate(skills("s1"), team, []model.Assessment{assess("ann", "s1", 4), assess("bob", "s1", 4)})
		svc := model.ServiceDefinition{Code: "x", Name: "X", RequiredSkills: []model.RequiredSkill{req("s1", 1, 3)}}

		Convey("When only one member has stated interest", func() {
			interests := []model.ServiceLineInterest{{MemberID: "bob", ServiceLine: "x", InterestRank: 2, DesiredInvolvementPct: 10}}
			r := readiness.New().Score(m, readiness.Request{Services: []model.ServiceDefinition{svc}, Interests: interests}).Results[0]

			Convey("Then the more interested member should win", func() {
				So(r.Coverage[0].BestMemberID, ShouldEqual, "bob")
			})
		})

		Convey("When nobody stated interest", func() {
			r := readiness.New().Score(m, readiness.Request{Services: []model.ServiceDefinition{svc}}).Results[0]

			Convey("Then the member id should decide", func() {
				So(r.Coverage[0].BestMemberID, ShouldEqual, "ann")
			})
		})
	})
}

func TestScoreFailures(t *testing.T) {
	svc := model.ServiceDefinition{Code: "automation", Name: "Automation", RequiredSkills: []model.RequiredSkill{req("s1", 1, 3)}}

	Convey("Given a request for an undefined code", t, func() {
		m := skillmatrix.Aggregate(skills("s1"), team, []model.Assessment{assess("ann", "s1", 3)})
		rep := readiness.New().Score(m, readiness.Request{
			Services: []model.ServiceDefinition{svc},
			Codes:    []string{"automation", "teleportation", "automation"},
		})

		Convey("Then only that code should be unavailable", func() {
			So(len(rep.Results), ShouldEqual, 1)
			So(rep.Results[0].ServiceCode, ShouldEqual, "automation")
			So(len(rep.Unavailable), ShouldEqual, 1)
			So(rep.Unavailable[0].Code, ShouldEqual, "teleportation")
			So(errors.Is(rep.Unavailable[0], readiness.ErrServiceNotDefined), ShouldBeTrue)
			So(rep.Err, ShouldBeNil)
		})
	})

	Convey("Given an empty team", t, func() {
		m := skillmatrix.Aggregate(skills("s1"), nil, nil)
		rep := readiness.New().Score(m, readiness.Request{Services: []model.ServiceDefinition{svc}})

		Convey("Then a typed error and zero readiness results should be returned", func() {
			So(rep.Err, ShouldNotBeNil)
			So(errors.Is(rep.Err, readiness.ErrNoMembers), ShouldBeTrue)
			So(len(rep.Results), ShouldEqual, 1)
			So(rep.Results[0].ReadinessPercent, ShouldEqual, 0)
			So(rep.Results[0].DataIncomplete, ShouldBeTrue)
		})
	})

	Convey("Given invalid weights and levels", t, func() {
		m := skillmatrix.Aggregate(skills("s1", "s2"), team, []model.Assessment{assess("ann", "s1", 1)})
		bad := model.ServiceDefinition{Code: "bad", Name: "Bad",
			RequiredSkills: []model.RequiredSkill{req("s1", -2, 0), req("s2", 1, 9)}}
		rep := readiness.New().Score(m, readiness.Request{Services: []model.ServiceDefinition{bad}})

		Convey("Then they should be normalized with diagnostics", func() {
			r := rep.Results[0]
			So(r.Coverage[0].Weight, ShouldEqual, 1)
			So(r.Coverage[0].MinLevel, ShouldEqual, 1)
			So(r.Coverage[0].Covered, ShouldBeTrue)
			So(r.Coverage[1].MinLevel, ShouldEqual, 5)
			So(r.CoveragePercent, ShouldEqual, 50)
			So(rep.Diagnostics.Len(), ShouldEqual, 3)
			for _, d := range rep.Diagnostics {
				So(d.Component, ShouldEqual, readiness.Component)
			}
		})
	})
}

func TestScoreProperties(t *testing.T) {
	svc := model.ServiceDefinition{Code: "management-accounts", Name: "Management Accounts",
		RequiredSkills: []model.RequiredSkill{req("s1", 2, 3), req("s2", 1, 4), req("s3", 1, 2)}}
	interests := []model.ServiceLineInterest{{MemberID: "bob", ServiceLine: "management-accounts", InterestRank: 1, DesiredInvolvementPct: 75}}

	Convey("Given a member whose level on a required skill rises", t, func() {
		prev := -1.0
		monotone := true
		for lvl := 0; lvl <= 5; lvl++ {
			m := skillmatrix.Aggregate(skills("s1", "s2", "s3"), team, []model.Assessment{
				assess("ann", "s1", 3), assess("bob", "s2", lvl), assess("ann", "s3", 1),
			})
			r := readiness.New().Score(m, readiness.Request{Services: []model.ServiceDefinition{svc}, Interests: interests}).Results[0]
			if r.ReadinessPercent < prev {
				monotone = false
			}
			So(r.ReadinessPercent, ShouldBeBetweenOrEqual, 0, 100)
			prev = r.ReadinessPercent
		}

		Convey("Then readiness should never decrease", func() {
			So(monotone, ShouldBeTrue)
		})
	})

	Convey("Given identical inputs scored twice", t, func() {
		m := skillmatrix.Aggregate(skills("s1", "s2", "s3"), team, []model.Assessment{assess("ann", "s1", 3), assess("bob", "s2", 5)})
		request := readiness.Request{Services: []model.ServiceDefinition{svc}, Interests: interests}
		a, errA := json.Marshal(readiness.New().Score(m, request))
		b, errB := json.Marshal(readiness.New().Score(m, request))

		Convey("Then the output should be byte-identical", func() {
			So(errA, ShouldBeNil)
			So(errB, ShouldBeNil)
			So(string(a), ShouldEqual, string(b))
		})
	})
}
