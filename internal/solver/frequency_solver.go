// internal/solver/frequency_solver.go
//
// Positional letter-frequency strategy. Cheaper and weaker than the
// entropy strategy; kept as a baseline and as the fallback a deadline
// wrapper can drop to. Never guesses outside the candidate set.

package solver

import (
	"fmt"
	"time"

	"github.com/robalobadob/wordlab/internal/game"
	"github.com/robalobadob/wordlab/internal/words"
)

// Diversity weights for distinct letters in a candidate, relative to the
// candidate count. Letters not yet guessed are worth more because they
// still carry information. Tunable policy.
const (
	unseenLetterWeight = 0.5
	seenLetterWeight   = 0.125
)

type frequencySolver struct {
	length int
}

func newFrequencySolver(length int) *frequencySolver {
	return &frequencySolver{length: length}
}

func (s *frequencySolver) Name() string { return StrategyFrequency }

func (s *frequencySolver) NextMove(history []game.Guess, candidates []string) (*Move, error) {
	start := time.Now()

	switch len(candidates) {
	case 0:
		return nil, ErrNoCandidates
	case 1:
		return &Move{
			Guess:                candidates[0],
			Reasoning:            "only one candidate remains; forced move",
			CandidateCountBefore: 1,
			ComputationTimeMs:    0,
		}, nil
	}

	// Letter frequency per position across the remaining candidates.
	var freq [26][words.MaxLength]int
	for _, w := range candidates {
		for i := 0; i < len(w) && i < words.MaxLength; i++ {
			freq[w[i]-'a'][i]++
		}
	}

	var guessed [26]bool
	for _, g := range history {
		for i := 0; i < len(g.Word); i++ {
			guessed[g.Word[i]-'a'] = true
		}
	}

	total := float64(len(candidates))
	scores := make([]float64, len(candidates))
	for i, w := range candidates {
		var score float64
		var seen [26]bool
		for j := 0; j < len(w) && j < words.MaxLength; j++ {
			b := w[j] - 'a'
			score += float64(freq[b][j])
			if seen[b] {
				continue
			}
			seen[b] = true
			if guessed[b] {
				score += seenLetterWeight * total
			} else {
				score += unseenLetterWeight * total
			}
		}
		scores[i] = score
	}

	best := argMax(len(candidates), func(i int) float64 { return scores[i] })
	reason := func(i int) string { return fmt.Sprintf("frequency score %.1f", scores[i]) }

	return &Move{
		Guess: candidates[best],
		Reasoning: fmt.Sprintf("highest positional letter frequency among %d candidates (score %.1f)",
			len(candidates), scores[best]),
		CandidateCountBefore: len(candidates),
		TopAlternatives:      topAlternatives(candidates, scores, best, reason),
		ComputationTimeMs:    time.Since(start).Milliseconds(),
	}, nil
}
