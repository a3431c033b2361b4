package scoring

// percentToScale rescales a 0-100 percentage onto the approximate 0-5 range
// the Likert-based scores live on.
func percentToScale(pct float64) float64 {
	return pct / 20
}

// ResponsibilityIndex blends the responsibility Likert score with the
// rescaled situational, memory and attention percentages.
func ResponsibilityIndex(responsibility, situationalPct, memoryPct, attentionPct float64) float64 {
	return responsibility*0.40 +
		percentToScale(situationalPct)*0.25 +
		percentToScale(memoryPct)*0.15 +
		percentToScale(attentionPct)*0.20
}

// LoyaltyIndex blends organizational commitment with responsibility and
// obedience.
func LoyaltyIndex(commitmentTotal, responsibility, obedience float64) float64 {
	return commitmentTotal*0.60 + responsibility*0.20 + obedience*0.20
}

// ObedienceIndex blends the obedience scale with the rescaled situational
// percentage.
func ObedienceIndex(obedience, situationalPct float64) float64 {
	return obedience*0.60 + percentToScale(situationalPct)*0.40
}
