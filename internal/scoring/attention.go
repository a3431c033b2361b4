package scoring

import "github.com/bambinounos/psicoeval/internal/models"

// Weights for the three attention-to-detail sub-tasks.
const (
	attWeightComparison   = 0.40
	attWeightVerification = 0.35
	attWeightSequences    = 0.25
)

// AttentionItem is one graded attention answer.
type AttentionItem struct {
	Subtype models.AttentionSubtype
	Correct bool
	Partial float64 // 0-1; F1 for comparison items, partial credit for verification
}

// AttentionScore holds the three sub-scores and their weighted composite,
// all 0-100.
type AttentionScore struct {
	Comparison   float64
	Verification float64
	Sequences    float64
	Composite    float64
}

// Attention combines the sub-task scores: document comparison by mean F1,
// data verification by mean partial credit, sequence-error detection by
// percent correct. Sub-tasks with no answers score 0.
func Attention(items []AttentionItem) AttentionScore {
	var comparison, verification []float64
	seqTotal, seqCorrect := 0, 0

	for _, it := range items {
		switch it.Subtype {
		case models.AttentionComparison:
			comparison = append(comparison, it.Partial)
		case models.AttentionVerification:
			verification = append(verification, it.Partial)
		case models.AttentionSequence:
			seqTotal++
			if it.Correct {
				seqCorrect++
			}
		}
	}

	s := AttentionScore{
		Comparison:   mean(comparison) * 100,
		Verification: mean(verification) * 100,
	}
	if seqTotal > 0 {
		s.Sequences = float64(seqCorrect) / float64(seqTotal) * 100
	}
	s.Composite = s.Comparison*attWeightComparison +
		s.Verification*attWeightVerification +
		s.Sequences*attWeightSequences
	return s
}

// DifferenceF1 grades a document-comparison answer: harmonic mean of
// precision and recall of the differences the candidate flagged against the
// ground truth set. Returned in 0-1.
func DifferenceF1(found, expected []string) float64 {
	if len(expected) == 0 {
		if len(found) == 0 {
			return 1
		}
		return 0
	}
	if len(found) == 0 {
		return 0
	}
	truth := make(map[string]bool, len(expected))
	for _, d := range expected {
		truth[d] = true
	}
	hits := 0
	for _, d := range found {
		if truth[d] {
			hits++
		}
	}
	if hits == 0 {
		return 0
	}
	precision := float64(hits) / float64(len(found))
	recall := float64(hits) / float64(len(expected))
	return 2 * precision * recall / (precision + recall)
}

// VerificationCredit grades a data-verification answer with partial credit:
// the fraction of real inconsistencies the candidate identified. Flagging a
// clean field earns nothing but, unlike document comparison, does not dilute
// the score. Each inconsistency counts once.
func VerificationCredit(found, expected []string) float64 {
	if len(expected) == 0 {
		if len(found) == 0 {
			return 1
		}
		return 0
	}
	remaining := make(map[string]bool, len(expected))
	for _, d := range expected {
		remaining[d] = true
	}
	hits := 0
	for _, d := range found {
		if remaining[d] {
			hits++
			delete(remaining, d)
		}
	}
	return float64(hits) / float64(len(expected))
}
