// internal/solver/solver.go
//
// Strategy interface and factory. Two strategies implement it:
//   - "entropy":   maximizes expected information gain per guess and may
//     guess outside the candidate set (entropy_solver.go).
//   - "frequency": positional letter-frequency heuristic restricted to
//     candidates (frequency_solver.go).
//
// A Solver instance is private to one game: its internal memoization is
// not safe for concurrent use without external synchronization.

package solver

import (
	"errors"
	"fmt"

	"golang.org/x/exp/constraints"

	"github.com/robalobadob/wordlab/internal/game"
)

const (
	StrategyEntropy   = "entropy"
	StrategyFrequency = "frequency"

	// candidateBonus nudges ties toward guesses that could win outright.
	// Tunable policy, not a contract; +0.1 matches the offline analysis
	// the opener table was generated with.
	candidateBonus = 0.1

	// smallCandidateCutoff is the candidate count at or below which the
	// entropy strategy evaluates only the candidates themselves instead
	// of the full guess vocabulary. Tunable policy.
	smallCandidateCutoff = 10

	// maxAlternatives caps the ranked runner-up list in explanations.
	maxAlternatives = 5
)

var (
	// ErrNoCandidates means the caller's constraint accumulation and the
	// secret disagree; with a valid secret this state is unreachable.
	ErrNoCandidates = errors.New("solver: no candidates remain")

	// ErrUnknownStrategy rejects strategy names the factory doesn't know.
	ErrUnknownStrategy = errors.New("solver: unknown strategy")
)

// Alternative is one runner-up guess in an explanation.
type Alternative struct {
	Word   string  `json:"word"`
	Score  float64 `json:"score"`
	Reason string  `json:"reason"`
}

// Move is the chosen guess plus the reporting payload consumed by the UI.
type Move struct {
	Guess                 string        `json:"chosenGuess"`
	Reasoning             string        `json:"reasoning"`
	CandidateCountBefore  int           `json:"candidateCountBefore"`
	ExpectedPartitionSize float64       `json:"expectedPartitionSize,omitempty"`
	TopAlternatives       []Alternative `json:"topAlternatives,omitempty"`
	ComputationTimeMs     int64         `json:"computationTimeMs"`
}

// Solver chooses the next guess given history and remaining candidates.
type Solver interface {
	// NextMove returns the chosen guess and its explanation. The
	// candidate slice is treated as read-only.
	NextMove(history []game.Guess, candidates []string) (*Move, error)

	// Name returns the strategy name the factory knows this solver by.
	Name() string
}

// New constructs a solver for the given strategy and vocabulary.
// answers is the candidate universe, allowed the full guess vocabulary
// (⊇ answers). opener, when non-empty, short-circuits the first move of
// the entropy strategy; pass "" to always compute live.
//
// Unknown strategies are rejected rather than silently defaulted.
func New(strategy string, length int, answers, allowed []string, opener string) (Solver, error) {
	if len(allowed) == 0 {
		allowed = answers
	}
	switch strategy {
	case StrategyEntropy:
		return newEntropySolver(length, allowed, opener), nil
	case StrategyFrequency:
		return newFrequencySolver(length), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, strategy)
	}
}

// Strategies lists the strategy names New accepts.
func Strategies() []string {
	return []string{StrategyEntropy, StrategyFrequency}
}

// argMax returns the index of the strictly greatest score, first
// occurrence winning ties. The score function must be pure.
func argMax[T constraints.Ordered](n int, score func(int) T) int {
	best := 0
	for i := 1; i < n; i++ {
		if score(i) > score(best) {
			best = i
		}
	}
	return best
}

// topAlternatives ranks the highest-scoring words besides the chosen one.
func topAlternatives(pool []string, scores []float64, chosen int, reason func(int) string) []Alternative {
	out := make([]Alternative, 0, maxAlternatives)
	used := make(map[int]bool, maxAlternatives+1)
	used[chosen] = true
	for len(out) < maxAlternatives {
		best := -1
		for i := range pool {
			if used[i] {
				continue
			}
			if best == -1 || scores[i] > scores[best] {
				best = i
			}
		}
		if best == -1 {
			break
		}
		used[best] = true
		out = append(out, Alternative{Word: pool[best], Score: scores[best], Reason: reason(best)})
	}
	return out
}
