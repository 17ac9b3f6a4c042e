package founderrisk

// Severities.
const (
	SeverityCritical = "critical"
	SeverityHigh     = "high"
	SeverityMedium   = "medium"
	SeverityLow      = "low"
)

// Categories.
const (
	CategorySuccession = "Succession Planning"
	CategoryAutonomy   = "Operational Autonomy"
	CategoryKeyPerson  = "Key Person Risk"
	CategoryKnowledge  = "Knowledge Concentration"
	CategoryBrand      = "Brand Dependency"
)

// Kind tags a rule variant.
type Kind int

const (
	// Categorical rules map a fixed answer to points.
	Categorical Kind = iota
	// Banded rules map a percentage to the first band it reaches.
	Banded
)

// Outcome is what one categorical answer is worth.
type Outcome struct {
	Answer   string
	Points   int
	Severity string
}

// Band is one threshold of a banded rule. Signal is a format string that
// receives the percentage.
type Band struct {
	Min      float64
	Points   int
	Severity string
	Signal   string
}

// Rule is one survey signal. Exactly one of Outcomes or Bands is used,
// selected by Kind.
type Rule struct {
	Key      string
	Label    string
	Category string
	Kind     Kind
	Outcomes []Outcome
	Bands    []Band // descending by Min
}

func succession(key, label string, nobody, sixMonths, oneMonth int, sev [3]string) Rule {
	return Rule{Key: key, Label: label, Category: CategorySuccession, Kind: Categorical, Outcomes: []Outcome{
		{"Nobody", nobody, sev[0]},
		{"Need 6 months", sixMonths, sev[1]},
		{"Need 1 month", oneMonth, sev[2]},
		{"Ready now", 0, SeverityLow},
	}}
}

func autonomy(key, label string, fail, oversight int, failSev string) Rule {
	return Rule{Key: key, Label: label, Category: CategoryAutonomy, Kind: Categorical, Outcomes: []Outcome{
		{"Would fail", fail, failSev},
		{"Needs oversight", oversight, SeverityMedium},
		{"Runs independently", 0, SeverityLow},
	}}
}

func keyPerson(key, label string, crisis, weeks, days int, crisisSev string) Rule {
	return Rule{Key: key, Label: label, Category: CategoryKeyPerson, Kind: Categorical, Outcomes: []Outcome{
		{"Crisis situation", crisis, crisisSev},
		{"Disrupted for weeks", weeks, SeverityMedium},
		{"Disrupted for days", days, SeverityLow},
		{"Business fine", 0, SeverityLow},
	}}
}

// Rules returns the signal table in evaluation order.
func Rules() []Rule {
	return []Rule{
		succession("succession_your_role", "your role", 25, 15, 8, [3]string{SeverityCritical, SeverityHigh, SeverityMedium}),
		succession("succession_sales", "sales", 10, 6, 3, [3]string{SeverityHigh, SeverityMedium, SeverityLow}),
		succession("succession_technical", "technical", 12, 7, 4, [3]string{SeverityCritical, SeverityHigh, SeverityMedium}),
		succession("succession_operations", "operations", 8, 5, 2, [3]string{SeverityHigh, SeverityMedium, SeverityLow}),
		succession("succession_customer", "customer", 8, 5, 2, [3]string{SeverityHigh, SeverityMedium, SeverityLow}),

		autonomy("autonomy_finance", "finance", 15, 8, SeverityCritical),
		autonomy("autonomy_strategy", "strategy", 12, 6, SeverityHigh),
		autonomy("autonomy_sales", "sales", 12, 6, SeverityHigh),
		autonomy("autonomy_delivery", "delivery", 10, 5, SeverityHigh),

		keyPerson("risk_tech_lead", "tech lead", 12, 7, 3, SeverityCritical),
		keyPerson("risk_sales_lead", "sales lead", 10, 6, 3, SeverityHigh),
		keyPerson("risk_finance_lead", "finance lead", 10, 6, 3, SeverityHigh),
		keyPerson("risk_operations_lead", "operations lead", 8, 5, 2, SeverityHigh),

		{Key: "knowledge_dependency_percentage", Label: "knowledge dependency", Category: CategoryKnowledge, Kind: Banded, Bands: []Band{
			{80, 15, SeverityCritical, "%s%% of critical knowledge held by founder/key person"},
			{60, 10, SeverityHigh, "%s%% of critical knowledge concentrated"},
			{40, 5, SeverityMedium, "%s%% knowledge dependency"},
		}},
		{Key: "personal_brand_percentage", Label: "personal brand", Category: CategoryBrand, Kind: Banded, Bands: []Band{
			{85, 12, SeverityCritical, "%s%% of brand value tied to founder personally"},
			{70, 8, SeverityHigh, "%s%% personal brand dependency"},
			{50, 4, SeverityMedium, "%s%% brand tied to individual"},
		}},
	}
}
