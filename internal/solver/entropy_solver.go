// internal/solver/entropy_solver.go
//
// Entropy-maximizing strategy.
//
// Decision ladder, in priority order:
//  1. one candidate left → forced move;
//  2. two candidates left → first one (any guess splits 50/50 at best);
//  3. empty history with a configured opener → precomputed opening word;
//  4. otherwise pick the guess with the highest entropy over the current
//     candidates, evaluated over the candidates themselves when few
//     remain, or over the entire allowed vocabulary when many do — a
//     word that cannot be the answer may still split the candidate
//     space better than any candidate can.
//
// Evaluation over the full vocabulary is the dominant cost
// (O(vocabulary × candidates) feedback computations), so it fans out
// across worker goroutines. Scores land in an index-aligned slice and
// the arg-max scan runs sequentially afterwards, which keeps the
// first-encountered tie-break deterministic regardless of scheduling.

package solver

import (
	"fmt"
	"hash/fnv"
	"runtime"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/robalobadob/wordlab/internal/game"
)

// cacheLimit bounds the per-solver memoization cache. Eviction is FIFO;
// the exact order is not a correctness requirement.
const cacheLimit = 1 << 13

type scoreEntry struct {
	entropy  float64
	expected float64
}

type entropySolver struct {
	length  int
	allowed []string
	opener  string

	mu    sync.Mutex
	cache map[string]scoreEntry
	order []string
}

func newEntropySolver(length int, allowed []string, opener string) *entropySolver {
	return &entropySolver{
		length:  length,
		allowed: allowed,
		opener:  opener,
		cache:   make(map[string]scoreEntry),
	}
}

func (s *entropySolver) Name() string { return StrategyEntropy }

func (s *entropySolver) NextMove(history []game.Guess, candidates []string) (*Move, error) {
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
	case 2:
		return &Move{
			Guess: candidates[0],
			Reasoning: fmt.Sprintf("two candidates remain (%s, %s); any guess splits them at best 50/50, taking the first",
				candidates[0], candidates[1]),
			CandidateCountBefore: 2,
			ComputationTimeMs:    time.Since(start).Milliseconds(),
		}, nil
	}

	if len(history) == 0 && s.opener != "" {
		return &Move{
			Guess:                s.opener,
			Reasoning:            fmt.Sprintf("precomputed high-entropy opener for %d-letter words", s.length),
			CandidateCountBefore: len(candidates),
			ComputationTimeMs:    time.Since(start).Milliseconds(),
		}, nil
	}

	// Choose the evaluation pool: candidates only when few remain (the
	// chosen word can then also be the answer), the whole vocabulary
	// otherwise.
	pool := candidates
	poolDesc := "remaining candidates"
	if len(candidates) > smallCandidateCutoff {
		pool = s.allowed
		poolDesc = "full guess vocabulary"
	}

	inCandidates := make(map[string]bool, len(candidates))
	for _, c := range candidates {
		inCandidates[c] = true
	}

	sig := candidateSignature(candidates)
	entries := make([]scoreEntry, len(pool))

	var g errgroup.Group
	g.SetLimit(runtime.NumCPU())
	for i := range pool {
		i := i
		g.Go(func() error {
			entries[i] = s.evaluate(pool[i], sig, candidates)
			return nil
		})
	}
	_ = g.Wait() // workers never return errors

	scores := make([]float64, len(pool))
	for i := range pool {
		scores[i] = entries[i].entropy
		if inCandidates[pool[i]] {
			scores[i] += candidateBonus
		}
	}
	best := argMax(len(pool), func(i int) float64 { return scores[i] })

	reason := func(i int) string {
		if inCandidates[pool[i]] {
			return fmt.Sprintf("candidate, %.3f bits", entries[i].entropy)
		}
		return fmt.Sprintf("probe word, %.3f bits", entries[i].entropy)
	}

	return &Move{
		Guess: pool[best],
		Reasoning: fmt.Sprintf("maximizes expected information over %d candidates: %.3f bits (evaluated %d words from the %s)",
			len(candidates), entries[best].entropy, len(pool), poolDesc),
		CandidateCountBefore:  len(candidates),
		ExpectedPartitionSize: entries[best].expected,
		TopAlternatives:       topAlternatives(pool, scores, best, reason),
		ComputationTimeMs:     time.Since(start).Milliseconds(),
	}, nil
}

// evaluate returns the memoized information measures for guess against
// the candidate set identified by sig.
func (s *entropySolver) evaluate(guess, sig string, candidates []string) scoreEntry {
	key := guess + "|" + sig

	s.mu.Lock()
	if e, ok := s.cache[key]; ok {
		s.mu.Unlock()
		return e
	}
	s.mu.Unlock()

	entropy, expected := measure(partitionCounts(guess, candidates), len(candidates))
	e := scoreEntry{entropy: entropy, expected: expected}

	s.mu.Lock()
	if _, ok := s.cache[key]; !ok {
		if len(s.order) >= cacheLimit {
			oldest := s.order[0]
			s.order = s.order[1:]
			delete(s.cache, oldest)
		}
		s.cache[key] = e
		s.order = append(s.order, key)
	}
	s.mu.Unlock()
	return e
}

// candidateSignature hashes the candidate set so cache entries from
// earlier turns (different sets) can coexist without collisions.
func candidateSignature(candidates []string) string {
	h := fnv.New64a()
	for _, w := range candidates {
		_, _ = h.Write([]byte(w))
		_, _ = h.Write([]byte{'\n'})
	}
	return strconv.FormatUint(h.Sum64(), 16)
}
