package scenario

// Option configures a Projector.
type Option func(*Projector)

// WithAssumptions replaces the financial assumptions. Non-positive scalar
// values and empty band tables keep the defaults.
func WithAssumptions(a Assumptions) Option {
	return func(p *Projector) {
		def := &p.assume
		if a.FlowThrough > 0 {
			def.FlowThrough = a.FlowThrough
		}
		if a.ValueMultiple > 0 {
			def.ValueMultiple = a.ValueMultiple
		}
		if a.BorrowingRate > 0 {
			def.BorrowingRate = a.BorrowingRate
		}
		if a.CostPerHead > 0 {
			def.CostPerHead = a.CostPerHead
		}
		if a.EBITDARatio > 0 {
			def.EBITDARatio = a.EBITDARatio
		}
		if a.DefaultConcentration > 0 {
			def.DefaultConcentration = a.DefaultConcentration
		}
		if a.DefaultFounderRisk > 0 {
			def.DefaultFounderRisk = a.DefaultFounderRisk
		}
		if len(a.ConcentrationDiscounts) > 0 {
			def.ConcentrationDiscounts = append([]Band(nil), a.ConcentrationDiscounts...)
		}
		if len(a.ExitConcentrationDiscounts) > 0 {
			def.ExitConcentrationDiscounts = append([]Band(nil), a.ExitConcentrationDiscounts...)
		}
		if len(a.FounderDiscounts) > 0 {
			def.FounderDiscounts = append([]Band(nil), a.FounderDiscounts...)
		}
	}
}
