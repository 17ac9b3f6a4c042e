package catalog_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/okian/teamiq/internal/adapters/catalog"
)

const small = `
skills:
  - {id: tax, name: "Tax Planning", category: Tax, required_level: 4}
  - {id: seo, name: "SEO", category: Marketing, required_level: 3}
services:
  - code: TAX
    name: Tax advisory
    required_skills:
      - {skill_id: tax, weight: 2, min_level: 4, critical: true}
  - code: MKT
    name: Marketing
    coming_soon: true
    required_skills:
      - {skill_id: seo, weight: 1, min_level: 3}
`

func TestDefault(t *testing.T) {
	Convey("Given the embedded catalog", t, func() {
		c, err := catalog.Default()

		Convey("Then it should list the seven service lines", func() {
			So(err, ShouldBeNil)
			So(c.Services, ShouldHaveLength, 7)
			So(c.Codes(), ShouldContain, "management-accounts")
		})

		Convey("Then only the systems audit should be coming soon", func() {
			for _, s := range c.Services {
				So(s.ComingSoon, ShouldEqual, s.Code == "systems-audit")
			}
		})

		Convey("Then every requirement should reference a known skill", func() {
			known := map[string]bool{}
			for _, s := range c.Skills {
				known[s.ID] = true
				So(s.Category, ShouldNotBeEmpty)
			}
			for _, s := range c.Services {
				So(s.RequiredSkills, ShouldNotBeEmpty)
				for _, r := range s.RequiredSkills {
					So(known[r.SkillID], ShouldBeTrue)
					So(r.MinLevel, ShouldBeBetweenOrEqual, 1, 5)
				}
			}
		})

		Convey("Then a service can be looked up by code", func() {
			s, ok := c.Service("profit-extraction")
			So(ok, ShouldBeTrue)
			So(s.Name, ShouldStartWith, "Profit Extraction")

			_, ok = c.Service("bookkeeping")
			So(ok, ShouldBeFalse)
		})
	})
}

func TestParse(t *testing.T) {
	Convey("Given a small catalog", t, func() {
		c, err := catalog.Parse([]byte(small))

		Convey("Then skills and services should be sorted", func() {
			So(err, ShouldBeNil)
			So(c.Skills[0].ID, ShouldEqual, "seo")
			So(c.Codes(), ShouldResemble, []string{"MKT", "TAX"})
			So(c.Services[1].RequiredSkills[0].Critical, ShouldBeTrue)
			So(c.Services[0].ComingSoon, ShouldBeTrue)
		})
	})

	Convey("Given invalid catalogs", t, func() {
		cases := map[string]string{
			"empty":          "  \n",
			"no services":    "skills: []\n",
			"unknown field":  "services:\n  - code: A\n    colour: red\n",
			"unknown skill":  "services:\n  - code: A\n    required_skills:\n      - {skill_id: nope, weight: 1, min_level: 2}\n",
			"duplicate code": "services:\n  - code: A\n  - code: A\n",
			"missing code":   "services:\n  - name: nameless\n",
			"bad level":      "skills:\n  - {id: x, required_level: 9}\nservices:\n  - code: A\n",
			"duplicate id":   "skills:\n  - {id: x}\n  - {id: x}\nservices:\n  - code: A\n",
		}
		for name, body := range cases {
			Convey("When parsing "+name, func() {
				_, err := catalog.Parse([]byte(body))

				Convey("Then it should be rejected", func() {
					So(errors.Is(err, catalog.ErrInvalidCatalog), ShouldBeTrue)
				})
			})
		}
	})
}

func TestLoad(t *testing.T) {
	Convey("Given a catalog file on disk", t, func() {
		path := filepath.Join(t.TempDir(), "catalog.yaml")
		So(os.WriteFile(path, []byte(small), 0o600), ShouldBeNil)

		Convey("When loading it", func() {
			c, err := catalog.Load(path)

			Convey("Then it should replace the embedded catalog", func() {
				So(err, ShouldBeNil)
				So(c.Services, ShouldHaveLength, 2)
			})
		})

		Convey("When loading with an empty path", func() {
			c, err := catalog.Load("")

			Convey("Then the embedded catalog should be used", func() {
				So(err, ShouldBeNil)
				So(c.Services, ShouldHaveLength, 7)
			})
		})

		Convey("When the file is missing", func() {
			_, err := catalog.Load(filepath.Join(t.TempDir(), "missing.yaml"))

			Convey("Then the error should mention the path", func() {
				So(err, ShouldNotBeNil)
				So(errors.Is(err, os.ErrNotExist), ShouldBeTrue)
			})
		})

		Convey("When reading from a reader", func() {
			c, err := catalog.Read(strings.NewReader(small))

			Convey("Then it should parse the same catalog", func() {
				So(err, ShouldBeNil)
				So(c.Skills, ShouldHaveLength, 2)
			})
		})
	})
}
