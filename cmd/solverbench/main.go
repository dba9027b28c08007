// cmd/solverbench/main.go
//
// Offline solver benchmark. Replays every answer in the vocabulary for a
// word length against a strategy and reports the guess distribution,
// average guess count, and failure rate, plus a few rendered sample
// games. Useful when tuning strategy policy or regenerating the opener
// table.
//
// Usage:
//
//	solverbench -length 5 -strategy entropy -samples 3 -maxturns 10
package main

import (
	"flag"
	"fmt"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/mitchellh/colorstring"
	"github.com/schollz/progressbar/v3"
	"golang.org/x/sync/errgroup"

	"github.com/robalobadob/wordlab/internal/game"
	"github.com/robalobadob/wordlab/internal/solver"
	"github.com/robalobadob/wordlab/internal/words"
)

type result struct {
	answer  string
	guesses []string
	turns   int // 0 = failed within maxTurns
}

func main() {
	length := flag.Int("length", 5, "word length (3-7)")
	strategy := flag.String("strategy", solver.StrategyEntropy, "solver strategy: entropy | frequency")
	samples := flag.Int("samples", 3, "number of sample games to render")
	maxTurns := flag.Int("maxturns", 10, "give up after this many guesses")
	flag.Parse()

	vocab, err := words.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "load word lists:", err)
		os.Exit(1)
	}
	list, err := vocab.For(*length)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	answers := list.Answers()
	results := make([]result, len(answers))
	bar := progressbar.NewOptions(len(answers),
		progressbar.OptionSetDescription(fmt.Sprintf("%s/%dL", *strategy, *length)),
		progressbar.OptionShowCount(),
		progressbar.OptionShowIts(),
	)

	start := time.Now()
	var eg errgroup.Group
	eg.SetLimit(runtime.NumCPU())
	for i, answer := range answers {
		i, answer := i, answer
		eg.Go(func() error {
			r, err := replay(list, *strategy, answer, *maxTurns)
			if err != nil {
				return err
			}
			results[i] = r
			_ = bar.Add(1)
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		fmt.Fprintln(os.Stderr, "\nbench failed:", err)
		os.Exit(1)
	}
	elapsed := time.Since(start)
	fmt.Println()

	report(results, *maxTurns, elapsed)
	renderSamples(results, *samples)
}

// replay plays one full game of the solver against a known answer.
func replay(list *words.List, strategy, answer string, maxTurns int) (result, error) {
	sv, err := solver.New(strategy, list.Length(), list.Answers(), list.Allowed(), list.Opener())
	if err != nil {
		return result{}, err
	}

	var history []game.Guess
	r := result{answer: answer}
	for turn := 1; turn <= maxTurns; turn++ {
		cands := solver.Candidates(list.Answers(), list.Length(), history)
		move, err := sv.NextMove(history, cands)
		if err != nil {
			return result{}, fmt.Errorf("answer %q turn %d: %w", answer, turn, err)
		}
		tiles := game.Score(move.Guess, answer)
		history = append(history, game.Guess{Word: move.Guess, Feedback: tiles, At: time.Now()})
		r.guesses = append(r.guesses, move.Guess)
		if game.IsWin(tiles) {
			r.turns = turn
			return r, nil
		}
	}
	return r, nil
}

// report prints the guess distribution and summary statistics.
func report(results []result, maxTurns int, elapsed time.Duration) {
	dist := make([]int, maxTurns+1)
	total, failed := 0, 0
	for _, r := range results {
		if r.turns == 0 {
			failed++
			continue
		}
		dist[r.turns]++
		total += r.turns
	}
	solved := len(results) - failed

	fmt.Printf("games: %d  solved: %d  failed: %d  wall: %s\n", len(results), solved, failed, elapsed.Round(time.Millisecond))
	if solved > 0 {
		fmt.Printf("average guesses: %.3f\n", float64(total)/float64(solved))
	}
	peak := 0
	for _, n := range dist {
		if n > peak {
			peak = n
		}
	}
	for turns := 1; turns <= maxTurns; turns++ {
		n := dist[turns]
		if n == 0 && turns > 6 {
			continue
		}
		width := 0
		if peak > 0 {
			width = n * 40 / peak
		}
		fmt.Printf("%2d %6d %s\n", turns, n, strings.Repeat("█", width))
	}
	if failed > 0 {
		colorstring.Printf("[red]%d answers not solved within %d turns\n", failed, maxTurns)
	}
}

// renderSamples prints a few games as colored tile grids.
func renderSamples(results []result, n int) {
	if n <= 0 {
		return
	}
	if n > len(results) {
		n = len(results)
	}
	for _, r := range results[:n] {
		colorstring.Printf("\n[bold]%s[reset] (%d guesses)\n", r.answer, r.turns)
		for _, guess := range r.guesses {
			tiles := game.Score(guess, r.answer)
			var b strings.Builder
			for i, t := range tiles {
				switch t {
				case game.TileCorrect:
					b.WriteString("[green]")
				case game.TilePresent:
					b.WriteString("[yellow]")
				default:
					b.WriteString("[dark_gray]")
				}
				b.WriteByte(guess[i] - 'a' + 'A')
				b.WriteString("[reset]")
			}
			colorstring.Println(b.String())
		}
	}
}
