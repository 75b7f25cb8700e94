// Package score produces bounded heuristic quality signals for a model call.
// The default scorer is a placeholder: it draws uniformly below a fixed
// bound rather than evaluating content. Callers may only rely on the bound.
package score

import "math/rand"

// Upper bounds for the heuristic scores. Scores are always in [0, bound).
const (
	HallucinationBound = 0.12
	DriftBound         = 0.15
)

// Scorer produces heuristic quality signals for a prompt/response pair.
// Implementations must never panic and must stay within the documented
// bounds; a content-aware scorer can be substituted without touching any
// caller.
type Scorer interface {
	// Hallucination scores the response against the problem, in
	// [0, HallucinationBound).
	Hallucination(problem, response string) float64

	// Drift scores distributional drift for the session, in [0, DriftBound).
	Drift() float64
}

// RandomScorer is the default placeholder scorer: bounded pseudo-random
// draws with no content awareness.
type RandomScorer struct {
	rng *rand.Rand
}

// NewRandomScorer creates a scorer using the shared package-level source.
func NewRandomScorer() *RandomScorer {
	return &RandomScorer{}
}

// NewSeededScorer creates a scorer with a deterministic source, for tests.
func NewSeededScorer(seed int64) *RandomScorer {
	return &RandomScorer{rng: rand.New(rand.NewSource(seed))}
}

func (s *RandomScorer) draw() float64 {
	if s.rng != nil {
		return s.rng.Float64()
	}
	return rand.Float64()
}

// Hallucination returns a uniform draw in [0, HallucinationBound). The
// arguments are accepted for interface compatibility and ignored.
func (s *RandomScorer) Hallucination(problem, response string) float64 {
	return s.draw() * HallucinationBound
}

// Drift returns a uniform draw in [0, DriftBound).
func (s *RandomScorer) Drift() float64 {
	return s.draw() * DriftBound
}

// Fixed is a Scorer returning constant values, for tests and replay.
type Fixed struct {
	HallucinationScore float64
	DriftScore         float64
}

func (f Fixed) Hallucination(problem, response string) float64 { return f.HallucinationScore }
func (f Fixed) Drift() float64                                 { return f.DriftScore }
