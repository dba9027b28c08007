package solver

import (
	"math"
	"testing"
)

func TestEntropyZeroWhenUninformative(t *testing.T) {
	// Every candidate scores "all absent" against zzzzz.
	cands := []string{"crane", "toast", "brick"}
	if got := Entropy("zzzzz", cands); got != 0 {
		t.Errorf("Entropy = %v, want 0 for a guess producing one pattern", got)
	}
}

func TestEntropyMaxWhenFullySeparating(t *testing.T) {
	// Guessing a candidate against a set of mutually distinguishable words
	// gives each candidate its own pattern: entropy = log2(n).
	// crane → all correct; toast → only the a matches; brick → r correct
	// and c present; speed → only e present.
	cands := []string{"crane", "toast", "brick", "speed"}
	got := Entropy("crane", cands)
	want := math.Log2(float64(len(cands)))
	if math.Abs(got-want) > 1e-9 {
		t.Errorf("Entropy = %v, want log2(%d) = %v", got, len(cands), want)
	}
}

func TestEntropyBounds(t *testing.T) {
	cands := []string{"crane", "trace", "react", "cater", "caret"}
	for _, guess := range append([]string{"slimy"}, cands...) {
		e := Entropy(guess, cands)
		if e < 0 || e > math.Log2(float64(len(cands)))+1e-9 {
			t.Errorf("Entropy(%q) = %v out of [0, log2 n]", guess, e)
		}
	}
}

func TestExpectedPartitionSize(t *testing.T) {
	// "zzzzz" leaves the whole set: expected size = n.
	cands := []string{"crane", "toast", "brick"}
	if got := ExpectedPartitionSize("zzzzz", cands); math.Abs(got-3) > 1e-9 {
		t.Errorf("uninformative guess: expected size %v, want 3", got)
	}

	// A fully separating guess leaves exactly one candidate.
	cands = []string{"crane", "toast", "brick", "speed"}
	if got := ExpectedPartitionSize("crane", cands); math.Abs(got-1) > 1e-9 {
		t.Errorf("separating guess: expected size %v, want 1", got)
	}
}

func TestExpectedPartitionSizeHandComputed(t *testing.T) {
	// "aaaaa" vs {brand, grand}: both score a lone correct a at position 2,
	// one block of 2 → expected size 2.
	got := ExpectedPartitionSize("aaaaa", []string{"brand", "grand"})
	if math.Abs(got-2) > 1e-9 {
		t.Errorf("colliding pair: expected size %v, want 2", got)
	}

	// Adding llama (a correct at positions 2 and 4) splits off a block of
	// its own. Blocks {2,1} → expected = (2/3)*2 + (1/3)*1 = 5/3.
	got = ExpectedPartitionSize("aaaaa", []string{"brand", "grand", "llama"})
	if math.Abs(got-5.0/3.0) > 1e-9 {
		t.Errorf("mixed blocks: expected size %v, want 5/3", got)
	}
}
