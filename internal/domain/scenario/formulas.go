package scenario

import (
	"fmt"
	"math"

	"github.com/okian/teamiq/internal/domain/model"
)

func pct1(v float64) string { return fmt.Sprintf("%.1f%%", v) }

func money(v float64) string { return "£" + Currency(v) }

func projectMargin(a Assumptions, b Baseline, p Params, d *diag) (Result, string) {
	current := b.GrossMargin
	def := current + 5
	if p.IndustryMedianGrossMargin != nil && *p.IndustryMedianGrossMargin > current {
		def = math.Min(def, *p.IndustryMedianGrossMargin)
	}
	target := d.clamp("target_gross_margin", param(p.TargetGrossMargin, def), -100, 100)

	currentGP := b.Revenue * current / 100
	projectedGP := b.Revenue * target / 100
	additional := projectedGP - currentGP
	net := additional * a.FlowThrough
	value := net * a.ValueMultiple

	return Result{
		PrimaryMetric: metric("Additional Gross Profit", currentGP, projectedGP, additional, FormatCurrency),
		SecondaryMetrics: []Impact{
			impact("Net Profit Impact", net,
				fmt.Sprintf("At %s%% flow-through after overheads", model.Num(math.Round(a.FlowThrough*100))), FormatCurrency),
			impact("Business Value Impact", value,
				fmt.Sprintf("At %sx EBITDA multiple", model.Num(a.ValueMultiple)), FormatCurrency),
			impact("Margin Improvement", target-current,
				fmt.Sprintf("From %s to %s", pct1(current), pct1(target)), FormatPercent),
		},
		BusinessValueImpact: value,
		Summary: fmt.Sprintf("Improving gross margin from %s to %s would generate %s additional gross profit annually. "+
			"After overheads, this translates to approximately %s on the bottom line, potentially adding %s to business value.",
			pct1(current), pct1(target), money(additional), money(net), money(value)),
		HowToAchieve: []string{
			"Review pricing structure: when did you last increase rates?",
			"Analyse project profitability by client and service type",
			"Identify and eliminate margin-diluting work",
			"Negotiate better terms with suppliers and subcontractors",
			"Improve utilisation of billable staff",
			"Consider value-based pricing for high-impact projects",
		},
	}, ""
}

func projectPricing(a Assumptions, b Baseline, p Params, d *diag) (Result, string) {
	rate := d.clamp("rate_increase_pct", param(p.RateIncreasePct, 5), -50, 100)
	retention := d.clamp("volume_retention_pct", param(p.VolumeRetentionPct, 95), 0, 100)

	multiplier := 1 + rate/100
	kept := retention / 100
	revenueChange := b.Revenue*multiplier*kept - b.Revenue
	margin := b.Revenue * rate / 100 * kept
	breakEven := (1 - 1/multiplier) * 100
	value := margin * a.ValueMultiple

	return Result{
		PrimaryMetric: metric("Direct Margin Impact", 0, margin, margin, FormatCurrency),
		SecondaryMetrics: []Impact{
			impact("Revenue Change", revenueChange,
				fmt.Sprintf("With %s%% client retention", model.Num(retention)), FormatCurrency),
			impact("Break-even Volume Loss", breakEven,
				fmt.Sprintf("You could lose up to %s and still be better off", pct1(breakEven)), FormatPercent),
			impact("Business Value Impact", value,
				fmt.Sprintf("At %sx EBITDA multiple", model.Num(a.ValueMultiple)), FormatCurrency),
		},
		BusinessValueImpact: value,
		Summary: fmt.Sprintf("A %s%% rate increase with %s%% client retention would add %s directly to your bottom line. "+
			"Rate increases flow straight to profit since you're doing the same work. "+
			"You could lose up to %s of volume and still be better off.",
			model.Num(rate), model.Num(retention), money(margin), pct1(breakEven)),
		HowToAchieve: []string{
			"Communicate the value you deliver before discussing price",
			"Start price increases with new clients, then existing relationships",
			"Consider tiered pricing for different service levels",
			"Review market rates and position appropriately",
			"Focus on results delivered, not hours worked",
			"Bundle services to increase perceived value",
		},
	}, ""
}

func projectCash(a Assumptions, b Baseline, p Params, d *diag) (Result, string) {
	current := b.DebtorDays
	target := d.floor("target_debtor_days", param(p.TargetDebtorDays, math.Max(14, current-15)), 0)

	daily := b.Revenue / 365
	currentFunding := daily * current
	targetFunding := daily * target
	released := currentFunding - targetFunding
	interest := released * a.BorrowingRate

	return Result{
		PrimaryMetric: metric("Working Capital Released", currentFunding, targetFunding, released, FormatCurrency),
		SecondaryMetrics: []Impact{
			impact("Annual Interest Saving", interest,
				fmt.Sprintf("At %s%% effective borrowing rate", model.Num(model.Round(a.BorrowingRate*100, 2))), FormatCurrency),
			impact("Days Improvement", current-target,
				fmt.Sprintf("From %s to %s days", model.Num(current), model.Num(target)), FormatDays),
		},
		BusinessValueImpact: released,
		Summary: fmt.Sprintf("Reducing debtor days from %s to %s would release %s from working capital. "+
			"This is money currently tied up waiting for clients to pay. "+
			"If you're using any form of borrowing, that's %s saved in interest annually.",
			model.Num(current), model.Num(target), money(released), money(interest)),
		HowToAchieve: []string{
			"Implement proactive credit control process",
			"Send invoices immediately on milestone completion",
			"Offer early payment discounts (e.g. 2% for payment within 7 days)",
			"Review payment terms on new contracts",
			"Automate invoice reminders at 7, 14 and 21 days",
			"Consider invoice financing for persistent slow payers",
			"Add late payment charges to your terms",
		},
	}, ""
}

func projectEfficiency(a Assumptions, b Baseline, p Params, d *diag) (Result, string) {
	headcount := b.EmployeeCount
	if headcount <= 0 {
		return Result{}, "employee count must be positive"
	}
	currentRPE := b.RevenuePerEmployee
	if currentRPE <= 0 {
		currentRPE = b.Revenue / headcount
	}
	target := param(p.TargetRevenuePerEmployee, currentRPE*1.15)
	if target <= 0 {
		return Result{}, "target revenue per employee must be positive"
	}

	additionalRevenue := (target - currentRPE) * headcount
	additionalProfit := additionalRevenue * b.NetMargin / 100
	efficientHeadcount := math.Ceil(b.Revenue / target)
	reduction := headcount - efficientHeadcount
	saving := reduction * a.CostPerHead
	improvement := (target/currentRPE - 1) * 100

	return Result{
		PrimaryMetric: metric("Revenue Capacity Unlocked", b.Revenue, b.Revenue+additionalRevenue, additionalRevenue, FormatCurrency),
		SecondaryMetrics: []Impact{
			impact("Additional Profit (if capacity filled)", additionalProfit,
				fmt.Sprintf("At your current %s net margin", pct1(b.NetMargin)), FormatCurrency),
			impact("Alternative: Cost Saving", saving,
				fmt.Sprintf("Deliver current revenue with %s fewer people", model.Num(reduction)), FormatCurrency),
			impact("Efficiency Improvement", improvement,
				fmt.Sprintf("From %s to %s/employee", money(currentRPE), money(target)), FormatPercent),
		},
		BusinessValueImpact: math.Max(additionalProfit, saving) * a.ValueMultiple,
		Summary: fmt.Sprintf("Improving revenue per employee from %s to %s would unlock %s in additional revenue capacity with your current team. "+
			"Alternatively, you could deliver your current revenue with %s fewer people, saving %s annually.",
			money(currentRPE), money(target), money(additionalRevenue), model.Num(reduction), money(saving)),
		HowToAchieve: []string{
			"Improve utilisation through better resource planning",
			"Reduce non-billable time and admin burden",
			"Automate repetitive tasks and reporting",
			"Focus team on higher-value work",
			"Review team structure for efficiency",
			"Invest in tools that multiply output",
			"Cross-train team members to reduce bottlenecks",
		},
	}, ""
}

func projectDiversification(a Assumptions, b Baseline, p Params, d *diag) (Result, string) {
	current := b.ClientConcentration
	if current == 0 {
		current = a.DefaultConcentration
	}
	target := d.clamp("target_concentration", param(p.TargetConcentration, math.Max(30, current-20)), 0, 100)

	currentAtRisk := b.Revenue * current / 100 / 3
	targetAtRisk := b.Revenue * target / 100 / 3
	currentDiscount := discountFor(a.ConcentrationDiscounts, current)
	targetDiscount := discountFor(a.ConcentrationDiscounts, target)

	base := b.NetProfit * a.ValueMultiple
	improvement := base*(1-targetDiscount) - base*(1-currentDiscount)

	return Result{
		PrimaryMetric: metric("Risk Reduction per Major Client", currentAtRisk, targetAtRisk, currentAtRisk-targetAtRisk, FormatCurrency),
		SecondaryMetrics: []Impact{
			impact("Valuation Discount Reduction", (currentDiscount-targetDiscount)*100,
				"Buyers penalise high concentration", FormatPercent),
			impact("Business Value Improvement", improvement,
				"From reduced concentration discount", FormatCurrency),
		},
		BusinessValueImpact: improvement,
		Summary: fmt.Sprintf("Reducing customer concentration from %s%% to %s%% would reduce your risk exposure per major client from %s to %s. "+
			"This also improves your attractiveness to acquirers, as high concentration typically causes a 15-25%% valuation discount.",
			model.Num(current), model.Num(target), money(currentAtRisk), money(targetAtRisk)),
		HowToAchieve: []string{
			"Proactively develop relationships with new target clients",
			"Expand services within existing smaller accounts",
			"Build recurring revenue streams less dependent on project wins",
			"Develop marketing capability to generate inbound leads",
			"Consider strategic partnerships for new market access",
			"Don't let existing large clients crowd out growth",
		},
	}, ""
}

func projectExit(a Assumptions, b Baseline, p Params, d *diag) (Result, string) {
	ebitda := b.EBITDA
	if ebitda == 0 {
		ebitda = b.NetProfit / a.EBITDARatio
	}
	multiple := d.clamp("exit_multiple", param(p.ExitMultiple, a.ValueMultiple), 0, 50)
	founder := d.clamp("founder_risk_score", param(p.FounderRiskScore, a.DefaultFounderRisk), 0, 100)
	concentration := b.ClientConcentration
	if concentration == 0 {
		concentration = a.DefaultConcentration
	}

	base := ebitda * multiple
	concentrationDiscount := discountFor(a.ExitConcentrationDiscounts, concentration)
	founderDiscount := discountFor(a.FounderDiscounts, founder)
	total := 1 - (1-concentrationDiscount)*(1-founderDiscount)
	adjusted := base * (1 - total)
	lost := base - adjusted

	return Result{
		PrimaryMetric: metric("Estimated Business Value", base, adjusted, -lost, FormatCurrency),
		SecondaryMetrics: []Impact{
			impact("Base Valuation (no discounts)", base,
				fmt.Sprintf("EBITDA %s × %s", money(ebitda), model.Num(multiple)), FormatCurrency),
			impact("Total Discount Applied", total*100, "Concentration + founder risk", FormatPercent),
			impact("Value Lost to Discounts", lost, "Addressable through risk reduction", FormatCurrency),
		},
		BusinessValueImpact: adjusted,
		Summary: fmt.Sprintf("Your business could be worth %s at a %sx EBITDA multiple. "+
			"However, buyer discounts for customer concentration and founder dependency reduce this to approximately %s. "+
			"Addressing these risks could recover %s in value.",
			money(base), model.Num(multiple), money(adjusted), money(lost)),
		HowToAchieve: []string{
			"Document all processes and reduce founder dependency",
			"Diversify customer base to reduce concentration risk",
			"Build a management team that can run the business",
			"Establish recurring revenue where possible",
			"Clean up financials and maintain clear records",
			"Consider earn-out structures if founder transition needed",
		},
	}, ""
}
