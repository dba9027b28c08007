package game

import (
	"strings"
	"testing"

	"github.com/robalobadob/wordlab/internal/words"
)

func tiles(s string) []TileState {
	out := make([]TileState, len(s))
	for i, c := range s {
		switch c {
		case 'c':
			out[i] = TileCorrect
		case 'p':
			out[i] = TilePresent
		default:
			out[i] = TileAbsent
		}
	}
	return out
}

func tilesEqual(a, b []TileState) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestScore(t *testing.T) {
	cases := []struct {
		guess, answer, want string
	}{
		{"toast", "roast", "acccc"},
		// duplicate e in guess, two e's in answer: both light up
		{"speed", "erase", "pappa"},
		// duplicate e in guess, single e in answer: second copy stays dark
		{"speed", "abide", "aapap"},
		{"label", "llama", "cpaap"},
		{"crane", "crane", "ccccc"},
		{"zzzzz", "crane", "aaaaa"},
		// guess has more copies than the answer holds
		{"geese", "elude", "apaac"},
		{"are", "ear", "ppp"},
		// full anagram, nothing in place
		{"stainer", "retains", "ppppppp"},
	}
	for _, tc := range cases {
		got := Score(tc.guess, tc.answer)
		if !tilesEqual(got, tiles(tc.want)) {
			t.Errorf("Score(%q, %q) = %v, want %v", tc.guess, tc.answer, got, tiles(tc.want))
		}
	}
}

func TestScoreSelfIsWin(t *testing.T) {
	for _, w := range []string{"are", "tear", "arose", "strain", "stainer"} {
		if !IsWin(Score(w, w)) {
			t.Errorf("Score(%q, %q) should be all correct", w, w)
		}
	}
}

func TestScorePatternMatchesPackFeedback(t *testing.T) {
	pairs := [][2]string{
		{"toast", "roast"},
		{"speed", "erase"},
		{"label", "llama"},
		{"crane", "crane"},
		{"are", "ear"},
		{"strain", "grains"},
		{"stainer", "detains"},
	}
	for _, p := range pairs {
		want := PackFeedback(Score(p[0], p[1]))
		if got := ScorePattern(p[0], p[1]); got != want {
			t.Errorf("ScorePattern(%q, %q) = %d, want %d", p[0], p[1], got, want)
		}
	}
}

func TestScoreLengthMismatchPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic on length mismatch")
		}
	}()
	Score("toast", "tear")
}

func testList(t *testing.T, answers ...string) *words.List {
	t.Helper()
	l, err := words.NewList(len(answers[0]), answers, nil, "")
	if err != nil {
		t.Fatal(err)
	}
	return l
}

func TestApplyGuessLifecycle(t *testing.T) {
	list := testList(t, "crane", "toast", "roast")
	g, err := New(list, ModeHuman, "", "roast")
	if err != nil {
		t.Fatal(err)
	}
	if g.Length != 5 || g.MaxRows != DefaultRows {
		t.Fatalf("unexpected game shape: %+v", g)
	}

	if _, _, err := g.ApplyGuess("zebra"); err != ErrNotInWordList {
		t.Errorf("unknown word: got %v, want ErrNotInWordList", err)
	}
	if _, _, err := g.ApplyGuess("cat"); err != ErrInvalidGuess {
		t.Errorf("short word: got %v, want ErrInvalidGuess", err)
	}

	tl, state, err := g.ApplyGuess("toast")
	if err != nil {
		t.Fatal(err)
	}
	if state != "playing" || IsWin(tl) {
		t.Errorf("after toast: state=%q", state)
	}

	_, state, err = g.ApplyGuess("ROAST") // case-insensitive
	if err != nil {
		t.Fatal(err)
	}
	if state != "won" || !g.Finished || !g.Won {
		t.Errorf("after roast: state=%q finished=%v won=%v", state, g.Finished, g.Won)
	}

	if _, _, err := g.ApplyGuess("crane"); err != ErrGameFinished {
		t.Errorf("guess after finish: got %v, want ErrGameFinished", err)
	}
}

func TestGameLostAfterMaxRows(t *testing.T) {
	list := testList(t, "crane", "toast", "roast")
	g, err := New(list, ModeHuman, "", "crane")
	if err != nil {
		t.Fatal(err)
	}
	var state string
	for i := 0; i < DefaultRows; i++ {
		_, state, err = g.ApplyGuess("toast")
		if err != nil {
			t.Fatal(err)
		}
	}
	if state != "lost" || !g.Finished || g.Won {
		t.Errorf("after %d misses: state=%q", DefaultRows, state)
	}
}

func TestRaceAIWin(t *testing.T) {
	list := testList(t, "crane", "toast", "roast")
	g, err := New(list, ModeRace, "entropy", "crane")
	if err != nil {
		t.Fatal(err)
	}
	if _, _, err := g.ApplyGuess("toast"); err != nil {
		t.Fatal(err)
	}
	_, state, err := g.ApplyAIGuess("crane")
	if err != nil {
		t.Fatal(err)
	}
	if state != "ai_won" || !g.AIWon || g.Won {
		t.Errorf("ai hit the answer: state=%q aiWon=%v", state, g.AIWon)
	}
	if _, _, err := g.ApplyGuess("crane"); err != ErrGameFinished {
		t.Errorf("player move after ai win: got %v", err)
	}
}

func TestShareText(t *testing.T) {
	list := testList(t, "crane", "toast", "roast")
	g, _ := New(list, ModeHuman, "", "roast")
	_, _, _ = g.ApplyGuess("toast")
	_, _, _ = g.ApplyGuess("roast")

	got := ShareText(g)
	if !strings.HasPrefix(got, "Wordlab 5L 2/6\n") {
		t.Errorf("header wrong: %q", got)
	}
	if strings.Contains(got, "roast") || strings.Contains(got, "toast") {
		t.Errorf("share text leaks words: %q", got)
	}
	if lines := strings.Split(strings.TrimRight(got, "\n"), "\n"); len(lines) != 3 {
		t.Errorf("want header + 2 rows, got %d lines", len(lines))
	}
}
