// internal/game/engine.go
//
// Core game engine for a single session.
// Responsibilities:
//   - Create new games for any supported word length (3–7).
//   - Validate and apply guesses (length, alphabetic, allowed list).
//   - Score guesses using the classic two-pass algorithm, duplicate-safe.
//   - Track state transitions: playing → won/lost (or ai_won in races).
//
// Notes:
//   - Word lists are provided by an injected *words.List; the engine holds
//     no global word state.
//   - Score and ScorePattern must agree tile-for-tile; ScorePattern is the
//     allocation-free form used by the solver's hot loop.
package game

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/robalobadob/wordlab/internal/words"
)

// DefaultRows is the number of guesses a board allows.
const DefaultRows = 6

var (
	ErrGameFinished  = errors.New("game finished")
	ErrInvalidGuess  = errors.New("invalid guess")
	ErrNotInWordList = errors.New("not in word list")
)

// New constructs a new game instance over the given vocabulary.
// If withAnswer is empty, a random answer is chosen from the list.
func New(list *words.List, mode Mode, strategy, withAnswer string) (*Game, error) {
	ans := strings.ToLower(strings.TrimSpace(withAnswer))
	if ans == "" {
		ans = list.RandomAnswer()
	}
	if len(ans) != list.Length() || !isAlpha(ans) {
		return nil, fmt.Errorf("answer must be %d lowercase letters", list.Length())
	}
	g := &Game{
		ID:       randomID(),
		Length:   list.Length(),
		MaxRows:  DefaultRows,
		Answer:   ans,
		Mode:     mode,
		Strategy: strategy,
		Guesses:  []Guess{},
	}
	g.vocab = list
	return g, nil
}

// Vocab returns the word list this game was created against.
func (g *Game) Vocab() *words.List { return g.vocab }

// ApplyGuess validates and scores a guess on the primary board,
// mutating the game state.
// Returns: the per-letter tiles, the new state string, or an error.
//
// Validation rules:
//   - Game must not be finished.
//   - Guess must be exactly g.Length letters and alphabetic a–z.
//   - Guess must be present in the allowed list.
func (g *Game) ApplyGuess(guess string) ([]TileState, string, error) {
	if g.Finished {
		return nil, g.State(), ErrGameFinished
	}
	guess = strings.ToLower(strings.TrimSpace(guess))
	if len(guess) != g.Length || !isAlpha(guess) {
		return nil, g.State(), ErrInvalidGuess
	}
	if g.vocab != nil && !g.vocab.IsAllowed(guess) {
		return nil, g.State(), ErrNotInWordList
	}

	tiles := Score(guess, g.Answer)
	g.Guesses = append(g.Guesses, Guess{Word: guess, Feedback: tiles, At: time.Now().UTC()})

	if IsWin(tiles) {
		g.Finished, g.Won = true, true
	} else if len(g.Guesses) >= g.MaxRows {
		g.Finished = true
	}
	return tiles, g.State(), nil
}

// ApplyAIGuess scores a solver-chosen guess on the AI board of a race
// game. The AI board shares the answer but keeps its own history; if the
// AI hits the answer first the whole game ends.
func (g *Game) ApplyAIGuess(guess string) ([]TileState, string, error) {
	if g.Finished {
		return nil, g.State(), ErrGameFinished
	}
	guess = strings.ToLower(strings.TrimSpace(guess))
	if len(guess) != g.Length || !isAlpha(guess) {
		return nil, g.State(), ErrInvalidGuess
	}

	tiles := Score(guess, g.Answer)
	g.AIGuesses = append(g.AIGuesses, Guess{Word: guess, Feedback: tiles, At: time.Now().UTC()})

	if IsWin(tiles) {
		g.Finished, g.AIWon = true, true
	}
	return tiles, g.State(), nil
}

// State reports a coarse string representation of the current game state.
func (g *Game) State() string {
	if g.Finished {
		switch {
		case g.Won:
			return "won"
		case g.AIWon:
			return "ai_won"
		default:
			return "lost"
		}
	}
	return "playing"
}

// Score implements the standard two-pass scoring algorithm.
//
// Pass 1:
//   - Mark exact matches as correct.
//   - Count remaining (non-correct) answer letters by letter index.
//
// Pass 2:
//   - For each non-correct guess letter: if there is remaining count for
//     that letter, mark present and decrement; otherwise mark absent.
//
// Greens are fully resolved before any yellow is assigned, so a letter
// duplicated in the guess receives at most as many correct/present tiles
// as it has occurrences in the answer.
//
// Both strings must have equal length; a mismatch is a caller bug and
// panics. Request-facing paths validate lengths before calling.
func Score(guess, answer string) []TileState {
	n := len(answer)
	if len(guess) != n {
		panic(fmt.Sprintf("game: score length mismatch: %q vs %q", guess, answer))
	}
	tiles := make([]TileState, n)

	// Letter frequency for the non-correct positions (a–z).
	var counts [26]int

	for i := 0; i < n; i++ {
		if guess[i] == answer[i] {
			tiles[i] = TileCorrect
		} else {
			counts[answer[i]-'a']++
		}
	}

	for i := 0; i < n; i++ {
		if tiles[i] == TileCorrect {
			continue
		}
		j := int(guess[i] - 'a')
		if j >= 0 && j < 26 && counts[j] > 0 {
			tiles[i] = TilePresent
			counts[j]--
		} else {
			tiles[i] = TileAbsent
		}
	}
	return tiles
}

// ScorePattern is Score with the result packed base-3 into an int:
// position 0 is the most significant digit, correct=2, present=1,
// absent=0. For length 7 the key stays below 3^7 = 2187. The packing
// matches PackFeedback(Score(guess, answer)) exactly.
func ScorePattern(guess, answer string) int {
	n := len(answer)
	if len(guess) != n {
		panic(fmt.Sprintf("game: score length mismatch: %q vs %q", guess, answer))
	}

	var counts [26]int
	var digits [words.MaxLength]int

	for i := 0; i < n; i++ {
		if guess[i] == answer[i] {
			digits[i] = 2
		} else {
			counts[answer[i]-'a']++
		}
	}
	for i := 0; i < n; i++ {
		if digits[i] == 2 {
			continue
		}
		j := int(guess[i] - 'a')
		if j >= 0 && j < 26 && counts[j] > 0 {
			digits[i] = 1
			counts[j]--
		}
	}

	key := 0
	for i := 0; i < n; i++ {
		key = key*3 + digits[i]
	}
	return key
}

// PackFeedback packs an explicit tile sequence into the same base-3 key
// that ScorePattern produces. Empty tiles carry no information and are
// treated as absent.
func PackFeedback(tiles []TileState) int {
	key := 0
	for _, t := range tiles {
		d := 0
		switch t {
		case TileCorrect:
			d = 2
		case TilePresent:
			d = 1
		}
		key = key*3 + d
	}
	return key
}

// IsWin reports whether every tile is correct.
func IsWin(tiles []TileState) bool {
	for _, t := range tiles {
		if t != TileCorrect {
			return false
		}
	}
	return true
}

// ShareText renders the spoiler-free emoji grid for a finished game.
func ShareText(g *Game) string {
	var b strings.Builder
	score := "X"
	if g.Won {
		score = fmt.Sprintf("%d", len(g.Guesses))
	}
	fmt.Fprintf(&b, "Wordlab %dL %s/%d\n", g.Length, score, g.MaxRows)
	for _, gs := range g.Guesses {
		for _, t := range gs.Feedback {
			switch t {
			case TileCorrect:
				b.WriteString("\U0001F7E9") // green square
			case TilePresent:
				b.WriteString("\U0001F7E8") // yellow square
			default:
				b.WriteString("⬜") // white square
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// isAlpha checks that a string consists only of lowercase a–z.
func isAlpha(s string) bool {
	for _, r := range s {
		if r < 'a' || r > 'z' {
			return false
		}
	}
	return true
}

// randomID returns a compact 16-hex-char identifier.
func randomID() string {
	var b [8]byte
	_, _ = rand.Read(b[:])
	return hex.EncodeToString(b[:])
}
