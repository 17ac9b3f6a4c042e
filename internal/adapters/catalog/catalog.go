// Package catalog loads the skills taxonomy and advisory service lines.
//
// The default catalog is embedded; a YAML file with the same shape may
// replace it.
package catalog

import (
	"bytes"
	_ "embed"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/okian/teamiq/internal/domain/model"
)

//go:embed default_catalog.yaml
var defaultCatalog []byte

// Catalog is a validated skills taxonomy plus the services built on it.
type Catalog struct {
	Skills   []model.Skill             `json:"skills"`
	Services []model.ServiceDefinition `json:"services"`
}

type fileSkill struct {
	ID            string `yaml:"id"`
	Name          string `yaml:"name"`
	Category      string `yaml:"category"`
	RequiredLevel int    `yaml:"required_level"`
}

type fileRequirement struct {
	SkillID  string  `yaml:"skill_id"`
	Weight   float64 `yaml:"weight"`
	MinLevel int     `yaml:"min_level"`
	Critical bool    `yaml:"critical"`
}

type fileService struct {
	Code           string            `yaml:"code"`
	Name           string            `yaml:"name"`
	Description    string            `yaml:"description"`
	ComingSoon     bool              `yaml:"coming_soon"`
	RequiredSkills []fileRequirement `yaml:"required_skills"`
}

type file struct {
	Skills   []fileSkill   `yaml:"skills"`
	Services []fileService `yaml:"services"`
}

// Default returns the embedded catalog.
func Default() (*Catalog, error) {
	c, err := Parse(defaultCatalog)
	if err != nil {
		return nil, fmt.Errorf("embedded catalog: %w", err)
	}
	return c, nil
}

// Load returns the catalog at path, or the embedded one when path is empty.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: read %s: %w", path, err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("catalog: %s: %w", path, err)
	}
	return c, nil
}

// Read decodes a catalog from r.
func Read(r io.Reader) (*Catalog, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("catalog: read: %w", err)
	}
	return Parse(data)
}

// Parse decodes and validates YAML (or JSON) catalog bytes. Skills are
// sorted by ID and services by code.
func Parse(data []byte) (*Catalog, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("%w: payload is empty", ErrInvalidCatalog)
	}
	var f file
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", ErrInvalidCatalog, err)
	}
	return f.build()
}

func (f *file) build() (*Catalog, error) {
	if len(f.Services) == 0 {
		return nil, fmt.Errorf("%w: no services", ErrInvalidCatalog)
	}

	c := &Catalog{
		Skills:   make([]model.Skill, 0, len(f.Skills)),
		Services: make([]model.ServiceDefinition, 0, len(f.Services)),
	}
	known := make(map[string]bool, len(f.Skills))
	for i, s := range f.Skills {
		id := strings.TrimSpace(s.ID)
		switch {
		case id == "":
			return nil, fmt.Errorf("%w: skills[%d]: id is required", ErrInvalidCatalog, i)
		case known[id]:
			return nil, fmt.Errorf("%w: skills[%d]: duplicate id %q", ErrInvalidCatalog, i, id)
		case s.RequiredLevel < model.MinLevel || s.RequiredLevel > model.MaxLevel:
			return nil, fmt.Errorf("%w: skill %q: required_level %d outside [%d, %d]",
				ErrInvalidCatalog, id, s.RequiredLevel, model.MinLevel, model.MaxLevel)
		}
		known[id] = true
		c.Skills = append(c.Skills, model.Skill{
			ID:            id,
			Name:          s.Name,
			Category:      s.Category,
			RequiredLevel: s.RequiredLevel,
		})
	}

	codes := make(map[string]bool, len(f.Services))
	for i, s := range f.Services {
		code := strings.TrimSpace(s.Code)
		switch {
		case code == "":
			return nil, fmt.Errorf("%w: services[%d]: code is required", ErrInvalidCatalog, i)
		case codes[code]:
			return nil, fmt.Errorf("%w: services[%d]: duplicate code %q", ErrInvalidCatalog, i, code)
		}
		codes[code] = true

		def := model.ServiceDefinition{
			Code:           code,
			Name:           s.Name,
			Description:    s.Description,
			ComingSoon:     s.ComingSoon,
			RequiredSkills: make([]model.RequiredSkill, 0, len(s.RequiredSkills)),
		}
		for _, r := range s.RequiredSkills {
			if !known[r.SkillID] {
				return nil, fmt.Errorf("%w: service %q: unknown skill %q", ErrInvalidCatalog, code, r.SkillID)
			}
			def.RequiredSkills = append(def.RequiredSkills, model.RequiredSkill(r))
		}
		c.Services = append(c.Services, def)
	}

	slices.SortFunc(c.Skills, func(a, b model.Skill) int { return strings.Compare(a.ID, b.ID) })
	slices.SortFunc(c.Services, func(a, b model.ServiceDefinition) int { return strings.Compare(a.Code, b.Code) })
	return c, nil
}

// Service returns the definition with the given code.
func (c *Catalog) Service(code string) (model.ServiceDefinition, bool) {
	i, ok := slices.BinarySearchFunc(c.Services, code, func(s model.ServiceDefinition, code string) int {
		return strings.Compare(s.Code, code)
	})
	if !ok {
		return model.ServiceDefinition{}, false
	}
	return c.Services[i], true
}

// Codes returns every service code in order.
func (c *Catalog) Codes() []string {
	out := make([]string, len(c.Services))
	for i, s := range c.Services {
		out[i] = s.Code
	}
	return out
}
