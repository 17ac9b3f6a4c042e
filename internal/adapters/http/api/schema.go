package api

import (
	"embed"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// Request schema names.
const (
	schemaAnalysis    = "analysis"
	schemaTeam        = "team"
	schemaFounderRisk = "founder_risk"
	schemaIndustry    = "industry"
	schemaScenario    = "scenario"
)

//go:embed schemas/*.json
var schemaFS embed.FS

// validator checks request bodies against the embedded JSON Schemas. Every
// schema shares the definitions in schemas/definitions.json.
type validator struct {
	schemas map[string]*gojsonschema.Schema
}

func newValidator() (*validator, error) {
	var defs map[string]any
	if err := readSchema("definitions", &defs); err != nil {
		return nil, err
	}

	v := &validator{schemas: make(map[string]*gojsonschema.Schema)}
	for _, name := range []string{schemaAnalysis, schemaTeam, schemaFounderRisk, schemaIndustry, schemaScenario} {
		var doc map[string]any
		if err := readSchema(name, &doc); err != nil {
			return nil, err
		}
		doc["definitions"] = defs["definitions"]
		s, err := gojsonschema.NewSchema(gojsonschema.NewGoLoader(doc))
		if err != nil {
			return nil, fmt.Errorf("compile schema %s: %w", name, err)
		}
		v.schemas[name] = s
	}
	return v, nil
}

func readSchema(name string, out *map[string]any) error {
	data, err := schemaFS.ReadFile("schemas/" + name + ".json")
	if err != nil {
		return fmt.Errorf("read schema %s: %w", name, err)
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode schema %s: %w", name, err)
	}
	return nil
}

// validate checks body against the named schema. Violations are reported
// together, wrapped in ErrBadRequest.
func (v *validator) validate(name string, body []byte) error {
	s, ok := v.schemas[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownSchema, name)
	}
	result, err := s.Validate(gojsonschema.NewBytesLoader(body))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBadRequest, err)
	}
	if result.Valid() {
		return nil
	}
	errs := make([]string, len(result.Errors()))
	for i, desc := range result.Errors() {
		errs[i] = desc.String()
	}
	return fmt.Errorf("%w: %s", ErrBadRequest, strings.Join(errs, "; "))
}
