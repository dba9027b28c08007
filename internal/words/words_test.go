package words

import (
	"os"
	"testing"
)

func TestLoadEmbeddedDefaults(t *testing.T) {
	os.Unsetenv("WORDS_DIR")
	os.Unsetenv("OPENERS_FILE")

	p, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	lengths := p.Lengths()
	if len(lengths) != MaxLength-MinLength+1 {
		t.Fatalf("Lengths() = %v", lengths)
	}
	for _, n := range lengths {
		l, err := p.For(n)
		if err != nil {
			t.Fatal(err)
		}
		answers, allowed := l.Stats()
		if answers == 0 || allowed < answers {
			t.Errorf("length %d: answers=%d allowed=%d", n, answers, allowed)
		}
		for _, w := range l.Answers() {
			if len(w) != n {
				t.Errorf("length %d list contains %q", n, w)
			}
		}
		// Every default length ships an opener, and it must be guessable.
		if op := l.Opener(); op == "" {
			t.Errorf("length %d: no opener", n)
		} else if !l.IsAllowed(op) {
			t.Errorf("length %d: opener %q not in allowed set", n, op)
		}
	}
}

func TestForUnknownLength(t *testing.T) {
	p, err := Load()
	if err != nil {
		t.Fatal(err)
	}
	if _, err := p.For(12); err == nil {
		t.Error("expected error for unsupported length")
	}
}

func TestNewListNormalizes(t *testing.T) {
	l, err := NewList(5, []string{" CRANE ", "toast", "crane", "nope", "abc!e"}, []string{"llama"}, "llama")
	if err != nil {
		t.Fatal(err)
	}
	answers, allowed := l.Stats()
	if answers != 2 {
		t.Errorf("answers = %d, want 2 (dedup + drop invalid)", answers)
	}
	if allowed != 3 {
		t.Errorf("allowed = %d, want 3 (answers + llama)", allowed)
	}
	if !l.IsAllowed("CRANE") || !l.IsAllowed("llama") {
		t.Error("IsAllowed should be case-insensitive and include extras")
	}
	if l.IsAllowed("nope") {
		t.Error("wrong-length word admitted")
	}
	if l.Opener() != "llama" {
		t.Errorf("opener = %q", l.Opener())
	}
}

func TestNewListRejectsBadInput(t *testing.T) {
	if _, err := NewList(9, []string{"ambiguous"}, nil, ""); err == nil {
		t.Error("expected error for unsupported length")
	}
	if _, err := NewList(5, []string{"abc"}, nil, ""); err == nil {
		t.Error("expected error when no valid answers remain")
	}
}

func TestOpenerDroppedWhenNotAllowed(t *testing.T) {
	l, err := NewList(5, []string{"crane"}, nil, "toast")
	if err != nil {
		t.Fatal(err)
	}
	if l.Opener() != "" {
		t.Errorf("opener %q kept despite not being allowed", l.Opener())
	}
}

func TestRandomAnswerFromList(t *testing.T) {
	l, err := NewList(5, []string{"crane", "toast"}, nil, "")
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 20; i++ {
		w := l.RandomAnswer()
		if w != "crane" && w != "toast" {
			t.Fatalf("RandomAnswer returned %q", w)
		}
	}
}
