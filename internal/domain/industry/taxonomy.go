package industry

import "sort"

// Category is an internal industry category.
type Category struct {
	Code        string `json:"code"`
	DisplayName string `json:"display_name"`
	Sector      string `json:"sector"`
}

// Default is returned when nothing else matches.
var Default = Category{Code: "GENERAL", DisplayName: "General Business", Sector: "General"}

const (
	sectorProfessional = "Professional Services"
	sectorTech         = "Technology & Digital"
	sectorCreative     = "Creative Industries"
	sectorConstruction = "Construction & Property"
	sectorHealth       = "Healthcare & Wellbeing"
	sectorHospitality  = "Hospitality & Leisure"
	sectorRetail       = "Retail"
	sectorManufacture  = "Manufacturing & Engineering"
	sectorWholesale    = "Wholesale & Distribution"
	sectorTravel       = "Travel & Tourism"
	sectorFinancial    = "Financial Services"
	sectorOther        = "Other Services"
)

var categories = map[string]Category{
	"ACCT":           {"ACCT", "Accountancy & Tax Services", sectorProfessional},
	"LEGAL":          {"LEGAL", "Legal Services", sectorProfessional},
	"CONSULT":        {"CONSULT", "Management Consultancy", sectorProfessional},
	"RECRUIT":        {"RECRUIT", "Recruitment & Staffing", sectorProfessional},
	"MARKET":         {"MARKET", "Marketing & PR Agencies", sectorProfessional},
	"SAAS":           {"SAAS", "SaaS / Software Products", sectorTech},
	"AGENCY_DEV":     {"AGENCY_DEV", "Software Development Agency", sectorTech},
	"ITSERV":         {"ITSERV", "IT Services & MSP", sectorTech},
	"TELECOM_INFRA":  {"TELECOM_INFRA", "Telecoms Infrastructure Contractor", sectorTech},
	"DESIGN":         {"DESIGN", "Graphic & Brand Design", sectorCreative},
	"PHOTO":          {"PHOTO", "Photography & Videography", sectorCreative},
	"CONST_MAIN":     {"CONST_MAIN", "Main Contractor / Builder", sectorConstruction},
	"CONST_SPEC":     {"CONST_SPEC", "Specialist Contractor", sectorConstruction},
	"ESTATE":         {"ESTATE", "Estate Agency", sectorConstruction},
	"PROP_MGMT":      {"PROP_MGMT", "Property Management", sectorConstruction},
	"TRADES":         {"TRADES", "Trade Services (Plumber, Electrician, etc.)", sectorConstruction},
	"DENTAL":         {"DENTAL", "Dental Practice", sectorHealth},
	"VET":            {"VET", "Veterinary Practice", sectorHealth},
	"PHARMA":         {"PHARMA", "Pharmacy", sectorHealth},
	"CARE":           {"CARE", "Care Home / Domiciliary Care", sectorHealth},
	"PRIVATE_HEALTH": {"PRIVATE_HEALTH", "Private Healthcare / Clinic", sectorHealth},
	"FITNESS":        {"FITNESS", "Gym / Fitness", sectorHealth},
	"RESTAURANT":     {"RESTAURANT", "Restaurant / Café", sectorHospitality},
	"PUB":            {"PUB", "Pub / Bar", sectorHospitality},
	"HOTEL":          {"HOTEL", "Hotel / B&B", sectorHospitality},
	"CATERING":       {"CATERING", "Catering / Events", sectorHospitality},
	"RETAIL_GEN":     {"RETAIL_GEN", "General Retail", sectorRetail},
	"RETAIL_FOOD":    {"RETAIL_FOOD", "Food Retail / Convenience", sectorRetail},
	"AUTO_RETAIL":    {"AUTO_RETAIL", "Motor Trade / Dealership", sectorRetail},
	"MFG_PREC":       {"MFG_PREC", "Precision Engineering", sectorManufacture},
	"PRINT":          {"PRINT", "Print & Packaging", sectorManufacture},
	"LOGISTICS":      {"LOGISTICS", "Logistics & Haulage", sectorWholesale},
	"TRAVEL_AGENT":   {"TRAVEL_AGENT", "Travel Agency / Tour Operator", sectorTravel},
	"IFA":            {"IFA", "Financial Advice / IFA", sectorFinancial},
	"INSURANCE":      {"INSURANCE", "Insurance Broker", sectorFinancial},
	"SECURITY":       {"SECURITY", "Security Services", sectorOther},
	"CLEANING":       {"CLEANING", "Cleaning Services", sectorOther},
	"PERSONAL":       {"PERSONAL", "Personal Services (Hair, Beauty, etc.)", sectorOther},
}

// sicCodes maps UK SIC 2007 codes to categories. 62090 is missing on
// purpose: it is resolved from the business description.
var sicCodes = map[string]string{
	"62020": "AGENCY_DEV",
	"62012": "AGENCY_DEV",
	"62011": "SAAS",
	"62030": "ITSERV",

	"42220": "TELECOM_INFRA",
	"61100": "TELECOM_INFRA",
	"61200": "TELECOM_INFRA",
	"43210": "TELECOM_INFRA",

	"69201": "ACCT",
	"69202": "ACCT",
	"69101": "LEGAL",
	"69102": "LEGAL",
	"69109": "LEGAL",
	"70229": "CONSULT",
	"70210": "CONSULT",
	"78109": "RECRUIT",
	"78200": "RECRUIT",
	"78300": "RECRUIT",
	"73110": "MARKET",
	"73120": "MARKET",

	"86230": "DENTAL",
	"75000": "VET",
	"86210": "PRIVATE_HEALTH",
	"86220": "PRIVATE_HEALTH",
	"87100": "CARE",
	"87200": "CARE",
	"87300": "CARE",
	"47730": "PHARMA",
	"93130": "FITNESS",

	"56101": "RESTAURANT",
	"56102": "RESTAURANT",
	"56210": "CATERING",
	"56301": "PUB",
	"55100": "HOTEL",

	"41100": "CONST_MAIN",
	"41201": "CONST_MAIN",
	"41202": "CONST_MAIN",
	"43220": "TRADES",
	"43310": "CONST_SPEC",
	"68310": "ESTATE",
	"68320": "PROP_MGMT",

	"47110": "RETAIL_FOOD",
	"47190": "RETAIL_GEN",
	"45111": "AUTO_RETAIL",
	"45112": "AUTO_RETAIL",

	"18110": "PRINT",
	"25620": "MFG_PREC",

	"49410": "LOGISTICS",
	"52290": "LOGISTICS",

	"66190": "IFA",
	"66220": "INSURANCE",

	"74100": "DESIGN",
	"74201": "PHOTO",

	"79110": "TRAVEL_AGENT",
	"80100": "SECURITY",
	"81210": "CLEANING",
	"96020": "PERSONAL",
}

// Lookup returns the category for an internal code.
func Lookup(code string) (Category, bool) {
	c, ok := categories[code]
	return c, ok
}

// Categories returns every known category ordered by code, default included.
func Categories() []Category {
	out := make([]Category, 0, len(categories)+1)
	for _, c := range categories {
		out = append(out, c)
	}
	out = append(out, Default)
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}
