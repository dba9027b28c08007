package solver

import (
	"testing"
	"time"

	"github.com/robalobadob/wordlab/internal/game"
)

// mark builds a history entry from a guess scored against a known answer.
func mark(guess, answer string) game.Guess {
	return game.Guess{Word: guess, Feedback: game.Score(guess, answer), At: time.Now()}
}

func TestEmptyHistoryAdmitsAll(t *testing.T) {
	vocab := []string{"crane", "toast", "roast", "llama"}
	got := Candidates(vocab, 5, nil)
	if len(got) != len(vocab) {
		t.Fatalf("empty history filtered words: got %v", got)
	}
}

func TestCandidatesShrinkMonotonically(t *testing.T) {
	vocab := []string{"crane", "trace", "toast", "roast", "llama", "spade", "speed"}
	answer := "roast"

	var history []game.Guess
	prev := len(vocab)
	for _, guess := range []string{"crane", "toast"} {
		history = append(history, mark(guess, answer))
		cands := Candidates(vocab, 5, history)
		if len(cands) > prev {
			t.Fatalf("candidates grew after %q: %d -> %d", guess, prev, len(cands))
		}
		// The real answer always survives the filter.
		found := false
		for _, c := range cands {
			if c == answer {
				found = true
			}
		}
		if !found {
			t.Fatalf("answer %q filtered out after %q; candidates: %v", answer, guess, cands)
		}
		prev = len(cands)
	}
}

func TestBuildConstraintsIsPureFunctionOfHistory(t *testing.T) {
	history := []game.Guess{mark("crane", "roast"), mark("toast", "roast")}
	a := BuildConstraints(5, history)
	b := BuildConstraints(5, history)

	vocab := []string{"crane", "trace", "toast", "roast", "llama", "spade"}
	fa := Filter(vocab, a)
	fb := Filter(vocab, b)
	if len(fa) != len(fb) {
		t.Fatalf("same history, different results: %v vs %v", fa, fb)
	}
	for i := range fa {
		if fa[i] != fb[i] {
			t.Fatalf("same history, different results: %v vs %v", fa, fb)
		}
	}
}

func TestAbsentTileRulesOutLetter(t *testing.T) {
	// "crane" vs "toast": a correct at position 2, everything else absent.
	c := BuildConstraints(5, []game.Guess{mark("crane", "toast")})
	if c.Admits("coast") {
		t.Error("word with ruled-out letter c admitted")
	}
	if !c.Admits("toast") {
		t.Error("true answer rejected")
	}
}

func TestPresentTileRulesOutPosition(t *testing.T) {
	// "are" vs "ear": every letter present, none in place.
	c := BuildConstraints(3, []game.Guess{mark("are", "ear")})
	if c.Admits("art") {
		t.Error("word keeping a present letter at its old position admitted")
	}
	if !c.Admits("ear") {
		t.Error("true answer rejected")
	}
}

func TestDuplicateAbsentBoundsMaxCount(t *testing.T) {
	// Answer has one e; guessing "speed" yields one present e and one
	// absent e, which caps the e count at exactly one.
	c := BuildConstraints(5, []game.Guess{mark("speed", "abide")})
	if c.Admits("elite") {
		t.Error("word with two e's admitted despite max-count 1")
	}
	if !c.Admits("abide") {
		t.Error("true answer rejected")
	}
}

func TestFullyAbsentLetterExcluded(t *testing.T) {
	c := BuildConstraints(5, []game.Guess{mark("zzzzz", "crane")})
	if c.Admits("zebra") {
		t.Error("word containing fully absent letter admitted")
	}
	if !c.Admits("crane") {
		t.Error("true answer rejected")
	}
}

func TestCorrectTileFixesPosition(t *testing.T) {
	c := BuildConstraints(5, []game.Guess{mark("toast", "roast")})
	if c.Admits("beast") {
		t.Error("word violating fixed position admitted")
	}
	if !c.Admits("roast") {
		t.Error("true answer rejected")
	}
}
