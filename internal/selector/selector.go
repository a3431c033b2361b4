// Package selector chooses the question subset applied in one evaluation:
// balanced across scoring dimensions, with consistency pairs always kept
// whole. The selection is persisted once at identity verification and never
// regenerated for the same session.
package selector

import (
	"math/rand"
	"time"

	"github.com/bambinounos/psicoeval/internal/models"
)

// Selector carries the RNG so tests can make selections deterministic.
type Selector struct {
	rng *rand.Rand
}

// New returns a selector seeded from the clock.
func New() *Selector {
	return NewSeeded(time.Now().UnixNano())
}

// NewSeeded returns a selector with a fixed seed.
func NewSeeded(seed int64) *Selector {
	return &Selector{rng: rand.New(rand.NewSource(seed))}
}

// Select picks questions for every test independently and concatenates the
// per-test selections, in catalog order.
func (s *Selector) Select(tests []models.Test) []int64 {
	var ids []int64
	for i := range tests {
		ids = append(ids, s.pick(&tests[i])...)
	}
	return ids
}

// pick applies the per-test quota. Consistency-pair members are always
// force-included, both of them, even when that exceeds the quota: correctness
// of fraud detection takes precedence over exact item counts.
func (s *Selector) pick(t *models.Test) []int64 {
	questions := t.Questions
	quota := t.ItemsToApply

	if quota == 0 || quota >= len(questions) {
		ids := make([]int64, len(questions))
		for i, q := range questions {
			ids[i] = int64(q.ID)
		}
		return ids
	}

	// Collect every question participating in a consistency pair.
	paired := make(map[uint]bool)
	for _, q := range questions {
		if q.ConsistencyPairID != nil {
			paired[q.ID] = true
			paired[*q.ConsistencyPairID] = true
		}
	}

	var selected []int64
	var rest []models.Question
	for _, q := range questions {
		if paired[q.ID] {
			selected = append(selected, int64(q.ID))
		} else {
			rest = append(rest, q)
		}
	}

	remaining := quota - len(selected)
	if remaining <= 0 {
		return selected
	}

	// Fill the rest of the quota round-robin across dimensions so coverage
	// stays even instead of skewing toward dimensions with larger pools.
	byDimension := make(map[models.Dimension][]models.Question)
	for _, q := range rest {
		byDimension[q.Dimension] = append(byDimension[q.Dimension], q)
	}
	dims := make([]models.Dimension, 0, len(byDimension))
	for dim, pool := range byDimension {
		s.rng.Shuffle(len(pool), func(i, j int) {
			pool[i], pool[j] = pool[j], pool[i]
		})
		dims = append(dims, dim)
	}
	s.rng.Shuffle(len(dims), func(i, j int) {
		dims[i], dims[j] = dims[j], dims[i]
	})

	idx := 0
	for remaining > 0 {
		exhausted := true
		for _, pool := range byDimension {
			if len(pool) > 0 {
				exhausted = false
				break
			}
		}
		if exhausted {
			break
		}
		dim := dims[idx%len(dims)]
		if pool := byDimension[dim]; len(pool) > 0 {
			q := pool[len(pool)-1]
			byDimension[dim] = pool[:len(pool)-1]
			selected = append(selected, int64(q.ID))
			remaining--
		}
		idx++
	}
	return selected
}
