// internal/solver/constraints.go
//
// Constraint model and candidate filter.
//
// Constraints are rebuilt from the complete guess history on every call
// rather than mutated incrementally, so the result is a pure function of
// the history and independent of call order. With histories capped at six
// guesses the recomputation cost is negligible.

package solver

import (
	"github.com/robalobadob/wordlab/internal/game"
)

// LetterConstraint collects everything known about one letter.
// Position sets are bitmasks over positions 0..length-1 (length ≤ 7).
type LetterConstraint struct {
	MinCount int   // at least this many occurrences required
	MaxCount int   // at most this many occurrences allowed
	MustBe   uint8 // positions where this letter is confirmed
	CannotBe uint8 // positions where this letter is ruled out
}

// Constraints aggregates letter constraints over a guess history.
type Constraints struct {
	Length  int
	Fixed   []byte // required letter per position, 0 = unknown
	Letters map[byte]*LetterConstraint
}

// BuildConstraints derives Constraints from a guess history.
//
// Per guess:
//   - correct tiles fix the position and count toward the letter's
//     minimum occurrence tally;
//   - present tiles count toward the tally and rule the position out;
//   - absent tiles rule the position out, and bound the letter's maximum
//     count to the number of correct/present tiles it earned in the same
//     guess (0 when it earned none — the letter is fully absent).
//
// Tallies fold into the aggregate as pointwise max of minimums and min of
// maximums, so every guess in the history contributes. An empty history
// yields an unrestricted Constraints that admits every word.
func BuildConstraints(length int, history []game.Guess) Constraints {
	c := Constraints{
		Length:  length,
		Fixed:   make([]byte, length),
		Letters: make(map[byte]*LetterConstraint),
	}
	lc := func(b byte) *LetterConstraint {
		l, ok := c.Letters[b]
		if !ok {
			l = &LetterConstraint{MaxCount: length}
			c.Letters[b] = l
		}
		return l
	}

	for _, g := range history {
		// Correct+present tally and absent markers for this guess only.
		var tally [26]int
		var absent [26]bool

		for i := 0; i < length && i < len(g.Word); i++ {
			b := g.Word[i]
			l := lc(b)
			switch g.Feedback[i] {
			case game.TileCorrect:
				tally[b-'a']++
				c.Fixed[i] = b
				l.MustBe |= 1 << i
			case game.TilePresent:
				tally[b-'a']++
				l.CannotBe |= 1 << i
			case game.TileAbsent:
				absent[b-'a'] = true
				l.CannotBe |= 1 << i
			}
		}

		for j := 0; j < 26; j++ {
			if tally[j] == 0 && !absent[j] {
				continue
			}
			l := lc(byte('a' + j))
			if tally[j] > l.MinCount {
				l.MinCount = tally[j]
			}
			if absent[j] && tally[j] < l.MaxCount {
				l.MaxCount = tally[j]
			}
		}
	}
	return c
}

// Admits reports whether word is consistent with the constraints.
func (c Constraints) Admits(word string) bool {
	if len(word) != c.Length {
		return false
	}
	for i, b := range c.Fixed {
		if b != 0 && word[i] != b {
			return false
		}
	}

	var counts [26]int
	for i := 0; i < len(word); i++ {
		counts[word[i]-'a']++
	}

	for b, l := range c.Letters {
		n := counts[b-'a']
		if n < l.MinCount || n > l.MaxCount {
			return false
		}
		if l.CannotBe != 0 {
			for i := 0; i < c.Length; i++ {
				if l.CannotBe&(1<<i) != 0 && word[i] == b {
					return false
				}
			}
		}
	}
	return true
}

// Filter returns the subset of words consistent with the constraints,
// preserving input order.
func Filter(wordList []string, c Constraints) []string {
	out := make([]string, 0, len(wordList))
	for _, w := range wordList {
		if c.Admits(w) {
			out = append(out, w)
		}
	}
	return out
}

// Candidates is shorthand for filtering a vocabulary against the
// constraints implied by a guess history.
func Candidates(wordList []string, length int, history []game.Guess) []string {
	return Filter(wordList, BuildConstraints(length, history))
}
