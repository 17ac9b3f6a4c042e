// Package industry resolves a SIC code and free-text hints into an internal
// industry category with a confidence tier. It never fails.
package industry

import (
	"regexp"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Confidence tiers.
const (
	ConfidenceDirect    = 95
	ConfidenceHeuristic = 85
	ConfidenceDefault   = 50
)

// Tier names.
const (
	TierDirect    = "direct"
	TierHeuristic = "heuristic"
	TierDefault   = "default"
)

// ambiguousCode covers "other IT service activities", too broad to map directly.
const ambiguousCode = "62090"

// Input is everything the classifier can use.
type Input struct {
	Codes       []string `json:"codes"`
	Hint        string   `json:"hint,omitempty"`
	Description string   `json:"description,omitempty"`
}

// Result is a classification.
type Result struct {
	Category       string `json:"category"`
	DisplayName    string `json:"display_name"`
	Sector         string `json:"sector"`
	Confidence     int    `json:"confidence"`
	Tier           string `json:"tier"`
	MatchedCode    string `json:"matched_code,omitempty"`
	MatchedKeyword string `json:"matched_keyword,omitempty"`
}

// Classify resolves a single code with an optional sub-sector hint.
func Classify(code, hint string) Result {
	return ClassifyInput(Input{Codes: []string{code}, Hint: hint})
}

// ClassifyInput tries a direct code match, then keyword heuristics over the
// hint and description, then falls back to the default category.
func ClassifyInput(in Input) Result {
	desc := fold(in.Description)
	ambiguous := ""

	for _, raw := range in.Codes {
		code := NormalizeCode(raw)
		if code == "" {
			continue
		}
		if id, ok := sicCodes[code]; ok {
			return result(id, ConfidenceDirect, TierDirect, code, "")
		}
		if code == ambiguousCode && ambiguous == "" {
			ambiguous = code
		}
	}

	if ambiguous != "" && desc != "" {
		id, kw := disambiguate(desc)
		return result(id, ConfidenceHeuristic, TierHeuristic, ambiguous, kw)
	}

	if hint := fold(in.Hint); hint != "" {
		for _, r := range hintRules {
			if kw := r.match(hint); kw != "" {
				return result(r.category, ConfidenceHeuristic, TierHeuristic, ambiguous, kw)
			}
		}
	}

	if desc != "" && containsAny(desc, "web", "digital") != "" {
		if kw := containsAny(desc, "agency", "consultancy"); kw != "" {
			return result("AGENCY_DEV", ConfidenceHeuristic, TierHeuristic, ambiguous, kw)
		}
	}

	if ambiguous != "" {
		return result("ITSERV", ConfidenceHeuristic, TierHeuristic, ambiguous, "")
	}

	return Result{
		Category:    Default.Code,
		DisplayName: Default.DisplayName,
		Sector:      Default.Sector,
		Confidence:  ConfidenceDefault,
		Tier:        TierDefault,
	}
}

func result(id string, confidence int, tier, code, keyword string) Result {
	c, ok := categories[id]
	if !ok {
		c = Default
	}
	return Result{
		Category:       c.Code,
		DisplayName:    c.DisplayName,
		Sector:         c.Sector,
		Confidence:     confidence,
		Tier:           tier,
		MatchedCode:    code,
		MatchedKeyword: keyword,
	}
}

// NormalizeCode keeps the leading run of digits: "62020 - IT consultancy"
// becomes "62020".
func NormalizeCode(raw string) string {
	raw = strings.TrimSpace(raw)
	end := 0
	for end < len(raw) && raw[end] >= '0' && raw[end] <= '9' {
		end++
	}
	return raw[:end]
}

// fold case-folds s, strips diacritics and collapses whitespace.
func fold(s string) string {
	if strings.TrimSpace(s) == "" {
		return ""
	}
	// Chained transformers keep state, so each call builds its own.
	folder := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), cases.Fold(), norm.NFC)
	out, _, err := transform.String(folder, s)
	if err != nil {
		out = strings.ToLower(s)
	}
	return strings.Join(strings.Fields(out), " ")
}

func containsAny(s string, needles ...string) string {
	for _, n := range needles {
		if strings.Contains(s, n) {
			return n
		}
	}
	return ""
}

type keywordRule struct {
	category string
	words    []string
	pattern  *regexp.Regexp
}

func (r keywordRule) match(s string) string {
	if kw := containsAny(s, r.words...); kw != "" {
		return kw
	}
	if r.pattern != nil {
		return r.pattern.FindString(s)
	}
	return ""
}

var hintRules = []keywordRule{
	{category: "AGENCY_DEV", words: []string{"software", "development", "digital agency"}},
	{category: "MARKET", words: []string{"marketing", "advertising"}, pattern: regexp.MustCompile(`\bpr\b`)},
	{category: "DESIGN", words: []string{"design", "creative"}},
}

var infraSignals = []*regexp.Regexp{
	regexp.MustCompile(`install(ation|ing|ed)`),
	regexp.MustCompile(`field.*engineer`),
	regexp.MustCompile(`physical.*network`),
	regexp.MustCompile(`underground|tunnel|railway`),
	regexp.MustCompile(`4g|5g`),
	regexp.MustCompile(`\bdas\b|distributed.*antenna`),
	regexp.MustCompile(`cabling.*(contractor|company)`),
}

// disambiguate picks a category for 62090 from the folded description.
func disambiguate(desc string) (category, keyword string) {
	hits := 0
	first := ""
	for _, re := range infraSignals {
		if m := re.FindString(desc); m != "" {
			hits++
			if first == "" {
				first = m
			}
		}
	}
	if hits >= 2 {
		return "TELECOM_INFRA", first
	}
	if strings.Contains(desc, "installation") {
		if kw := containsAny(desc, "network", "telecom", "infrastructure"); kw != "" {
			return "TELECOM_INFRA", "installation"
		}
	}
	if kw := containsAny(desc, "managed service", "msp", "helpdesk", "it support"); kw != "" {
		return "ITSERV", kw
	}
	if kw := containsAny(desc, "network infrastructure", "wireless", "telephony", "telecoms",
		"connectivity", "data solutions", "broadband"); kw != "" {
		return "ITSERV", kw
	}
	if kw := containsAny(desc, "systems integrat", "system integration", "erp", "implementation"); kw != "" {
		return "CONSULT", kw
	}
	if kw := containsAny(desc, "hardware", "server", "data centre"); kw != "" {
		return "ITSERV", kw
	}
	if kw := containsAny(desc, "software", "app development", "web development", "digital agency", "mobile app"); kw != "" {
		return "AGENCY_DEV", kw
	}
	return "ITSERV", ""
}
