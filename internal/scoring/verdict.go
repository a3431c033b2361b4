package scoring

import "github.com/bambinounos/psicoeval/internal/models"

// CountFailures checks the six profile thresholds against the computed
// scores: five minimums plus the neuroticism maximum.
func CountFailures(r *models.FinalResult, p *models.TargetProfile) int {
	failures := 0
	if r.Responsibility < p.MinResponsibility {
		failures++
	}
	if r.CommitmentTotal < p.MinCommitment {
		failures++
	}
	if r.Obedience < p.MinObedience {
		failures++
	}
	if r.MemoryPercent < p.MinMemory {
		failures++
	}
	if r.MatricesPercent < p.MinMatrices {
		failures++
	}
	if r.Neuroticism > p.MaxNeuroticism {
		failures++
	}
	return failures
}

// Verdict derives the automatic verdict from the computed result, the target
// profile, and whether any projective response is still unreviewed.
//
// CONTEO_FALLOS: 0 failures and nothing pending = APTO; 2+ failures =
// NO_APTO; otherwise REVISION. ESTRICTO: any failure = NO_APTO; zero failures
// with pending projectives = REVISION; otherwise APTO.
//
// An unreliable evaluation short-circuits to REVISION under both methods.
func Verdict(r *models.FinalResult, p *models.TargetProfile, pendingProjective bool) models.Verdict {
	if !r.Reliable {
		return models.VerdictReview
	}

	failures := CountFailures(r, p)

	if p.VerdictMethod == models.MethodStrict {
		if failures > 0 {
			return models.VerdictFail
		}
		if pendingProjective {
			return models.VerdictReview
		}
		return models.VerdictPass
	}

	// CONTEO_FALLOS (default)
	switch {
	case failures == 0 && !pendingProjective:
		return models.VerdictPass
	case failures >= 2:
		return models.VerdictFail
	default:
		return models.VerdictReview
	}
}
