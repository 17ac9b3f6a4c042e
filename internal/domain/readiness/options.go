package readiness

// Option configures a Scorer.
type Option func(*Scorer)

// WithInterestBonus sets the bonus earned per covered skill with a keen member.
func WithInterestBonus(points float64) Option {
	return func(s *Scorer) {
		if points >= 0 {
			s.bonus = points
		}
	}
}

// WithInterestCap bounds the total interest adjustment.
func WithInterestCap(points float64) Option {
	return func(s *Scorer) {
		if points >= 0 {
			s.bonusCap = points
		}
	}
}

// WithMinInvolvement sets the desired involvement (percent) a rank-1 member
// needs before their interest counts.
func WithMinInvolvement(pct float64) Option {
	return func(s *Scorer) {
		if pct >= 0 && pct <= 100 {
			s.minInvolvement = pct
		}
	}
}

// WithReadyCoverage sets the coverage percent needed for the ready tier.
func WithReadyCoverage(pct float64) Option {
	return func(s *Scorer) {
		if pct >= 0 && pct <= 100 {
			s.readyCoverage = pct
		}
	}
}
