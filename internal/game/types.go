// internal/game/types.go
//
// Core type definitions for the game engine.
// Defines:
//   - TileState: per-letter result of a guess (correct/present/absent/empty).
//   - Guess: one submitted guess with its feedback, immutable once created.
//   - Mode: how a game is played (human, ai, race).
//   - Game: state for a single in-progress or finished game.

package game

import (
	"time"

	"github.com/robalobadob/wordlab/internal/words"
)

// TileState is the evaluation result for a single letter in a guess.
// Possible values:
//   - "correct": letter matches the answer at this position.
//   - "present": letter exists in the answer but in a different position.
//   - "absent":  letter (or its remaining instances) is not in the answer.
//   - "empty":   no guess submitted yet; never produced by Score.
type TileState string

const (
	TileCorrect TileState = "correct"
	TilePresent TileState = "present"
	TileAbsent  TileState = "absent"
	TileEmpty   TileState = "empty"
)

// Guess records one submitted word with the feedback it received.
// Values are created once per submitted guess and never mutated.
type Guess struct {
	Word     string      `json:"word"`
	Feedback []TileState `json:"feedback"`
	At       time.Time   `json:"at"`
}

// Mode selects who plays a game.
type Mode string

const (
	ModeHuman Mode = "human" // single human board
	ModeAI    Mode = "ai"    // solver plays the board via /game/solve
	ModeRace  Mode = "race"  // human board vs. a parallel AI board
)

// Game holds the state of a single session.
type Game struct {
	ID        string  // Unique game identifier (random hex string).
	Length    int     // Number of letters per word (3–7).
	MaxRows   int     // Maximum number of guesses allowed (typically 6).
	Answer    string  // The solution word (always lowercase).
	Mode      Mode    // human | ai | race.
	Strategy  string  // Solver strategy name for ai/race games.
	Guesses   []Guess // Guesses made on the primary board.
	AIGuesses []Guess // Guesses made by the AI board (race mode only).
	Finished  bool    // True once the game is over.
	Won       bool    // True if the primary board won.
	AIWon     bool    // True if the AI board won first (race mode).

	// vocab is the list this game validates guesses against.
	// Process-local read-only data, never serialized.
	vocab *words.List
}
