// internal/solver/entropy.go
//
// Feedback-pattern partitioning and its information measures.
//
// A guess splits a candidate set into groups by the feedback pattern each
// candidate would produce. Patterns are the base-3 packed keys from
// game.ScorePattern, so a partition is just a map from key to block size.

package solver

import (
	"math"

	"github.com/robalobadob/wordlab/internal/game"
)

// partitionCounts groups candidates by the feedback pattern they would
// produce against guess and returns block sizes keyed by packed pattern.
func partitionCounts(guess string, candidates []string) map[int]int {
	counts := make(map[int]int, len(candidates))
	for _, cand := range candidates {
		counts[game.ScorePattern(guess, cand)]++
	}
	return counts
}

// Entropy returns the Shannon entropy, in bits, of the feedback-pattern
// partition that guess induces on candidates.
//
// It is 0 iff every candidate produces the same pattern (the guess learns
// nothing) and log2(len(candidates)) iff every candidate produces a
// distinct pattern (the guess identifies the secret outright).
func Entropy(guess string, candidates []string) float64 {
	if len(candidates) == 0 {
		return 0
	}
	entropy, _ := measure(partitionCounts(guess, candidates), len(candidates))
	return entropy
}

// ExpectedPartitionSize returns the expected number of candidates that
// remain after observing the feedback for guess, with the secret drawn
// uniformly from candidates. Lower is better.
func ExpectedPartitionSize(guess string, candidates []string) float64 {
	if len(candidates) == 0 {
		return 0
	}
	_, expected := measure(partitionCounts(guess, candidates), len(candidates))
	return expected
}

// measure computes both information measures from one partition:
// entropy = -Σ p_k·log2(p_k) and expected size = Σ p_k·|block_k|.
func measure(counts map[int]int, total int) (entropy, expectedSize float64) {
	ftotal := float64(total)
	for _, n := range counts {
		if n == 0 {
			continue
		}
		p := float64(n) / ftotal
		entropy -= p * math.Log2(p)
		expectedSize += p * float64(n)
	}
	return entropy, expectedSize
}
