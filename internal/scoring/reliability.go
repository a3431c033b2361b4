package scoring

// Reliability thresholds. A social-desirability mean above the cap or a pair
// concordance below the floor flags the whole evaluation as unreliable.
const (
	desirabilityCap  = 4.0
	consistencyFloor = 60.0
	maxLikertSpread  = 4.0 // max |a - b| on a 1-5 scale
)

// ConsistencyPair holds the inversion-adjusted values of two linked questions
// that were both answered.
type ConsistencyPair struct {
	A, B float64
}

// Consistency computes mean pair concordance as a percentage. Each pair
// contributes 1 - |a-b|/4. Returns nil when no pairs were answered:
// undetermined, and callers must not penalize reliability in that case.
func Consistency(pairs []ConsistencyPair) *float64 {
	if len(pairs) == 0 {
		return nil
	}
	sum := 0.0
	for _, p := range pairs {
		diff := p.A - p.B
		if diff < 0 {
			diff = -diff
		}
		sum += 1 - diff/maxLikertSpread
	}
	pct := sum / float64(len(pairs)) * 100
	return &pct
}

// Reliable applies both reliability rules. Either flag tripping forces the
// verdict to REVISION regardless of every other threshold.
func Reliable(socialDesirability float64, consistency *float64) bool {
	if socialDesirability > desirabilityCap {
		return false
	}
	if consistency != nil && *consistency < consistencyFloor {
		return false
	}
	return true
}
