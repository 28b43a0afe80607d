package dot

// Strategy is the pluggable pair used by tracking and area search: a pixel membership
// predicate built from the gray band and a factory of fresh candidates
type Strategy struct {
	Membership   func(model GrayLevelModel) Membership
	NewCandidate func(reference *Dot) *Dot
}

// DefaultStrategy uses the gray band itself as membership and clones reference configuration
func DefaultStrategy() Strategy {
	return Strategy{
		Membership: func(model GrayLevelModel) Membership {
			return model
		},
		NewCandidate: func(reference *Dot) *Dot {
			return reference.newCandidate()
		},
	}
}

func (s Strategy) withDefaults() Strategy {
	def := DefaultStrategy()
	if s.Membership == nil {
		s.Membership = def.Membership
	}
	if s.NewCandidate == nil {
		s.NewCandidate = def.NewCandidate
	}
	return s
}
