// internal/words/words.go
//
// Word list management for the game engine and solvers.
//
// Responsibilities:
//   - Load per-length answer and allowed guess lists from environment-provided
//     files or fall back to embedded defaults.
//   - Load the precomputed opener table (optional JSON file or embedded
//     defaults); an opener is only kept if it is an allowed guess.
//   - Expose everything through an explicitly constructed Provider that is
//     passed to consumers. No package-level word state.
//
// Word lists per length L (3–7):
//   - "answers": canonical solutions (exactly L lowercase letters).
//   - "allowed": valid guesses (always includes answers).
//
// Environment variables:
//   WORDS_DIR=/path/to/lists   containing <L>-letters-answer.txt and
//                              optionally <L>-letters-guess.txt
//   OPENERS_FILE=/path/to/openers.json   JSON map of length → opening word
//
// Lists are normalized to lowercase; entries of the wrong length or with
// non a–z characters are dropped.
package words

import (
	"bufio"
	"crypto/rand"
	"embed"
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
)

// MinLength and MaxLength bound the supported word lengths.
const (
	MinLength = 3
	MaxLength = 7
)

//go:embed defaults/*.txt defaults/openers.json
var defaultsFS embed.FS

// List is the read-only vocabulary for one word length.
type List struct {
	length     int
	answers    []string
	allowed    []string
	allowedSet map[string]struct{}
	opener     string
}

// NewList builds a List from explicit slices. Answers are always folded
// into the allowed set. The opener is dropped unless it is allowed.
func NewList(length int, answers, allowed []string, opener string) (*List, error) {
	if length < MinLength || length > MaxLength {
		return nil, fmt.Errorf("words: unsupported length %d", length)
	}
	ans := normalize(answers, length)
	if len(ans) == 0 {
		return nil, fmt.Errorf("words: answers list for length %d is empty", length)
	}
	all := normalize(allowed, length)

	set := make(map[string]struct{}, len(ans)+len(all))
	merged := make([]string, 0, len(ans)+len(all))
	for _, w := range append(append([]string{}, ans...), all...) {
		if _, ok := set[w]; ok {
			continue
		}
		set[w] = struct{}{}
		merged = append(merged, w)
	}

	l := &List{length: length, answers: ans, allowed: merged, allowedSet: set}
	if _, ok := set[opener]; ok {
		l.opener = opener
	}
	return l, nil
}

// Length returns the word length this list serves.
func (l *List) Length() int { return l.length }

// Answers returns the canonical answer list. Callers must treat the
// slice as read-only.
func (l *List) Answers() []string { return l.answers }

// Allowed returns the full guess vocabulary (answers ∪ extra guesses).
func (l *List) Allowed() []string { return l.allowed }

// IsAllowed reports whether w is a valid guess.
func (l *List) IsAllowed(w string) bool {
	_, ok := l.allowedSet[strings.ToLower(w)]
	return ok
}

// RandomAnswer returns a cryptographically random answer from the list.
func (l *List) RandomAnswer() string {
	nBig, _ := rand.Int(rand.Reader, big.NewInt(int64(len(l.answers))))
	return l.answers[nBig.Int64()]
}

// Opener returns the precomputed opening word for this length, or ""
// when none is configured; callers fall back to live computation.
func (l *List) Opener() string { return l.opener }

// Stats returns counts of loaded words: (answers, allowed).
func (l *List) Stats() (answersCount, allowedCount int) {
	return len(l.answers), len(l.allowed)
}

// Provider owns the loaded vocabularies for all supported lengths.
// Loaded once at process start, immutable thereafter.
type Provider struct {
	lists map[int]*List
}

// Load builds a Provider for every supported length.
// For each length: if WORDS_DIR is set, <L>-letters-answer.txt is read
// (with an optional <L>-letters-guess.txt superset); otherwise the
// embedded defaults are used. Openers come from OPENERS_FILE or the
// embedded table.
func Load() (*Provider, error) {
	dir := os.Getenv("WORDS_DIR")
	openers, err := loadOpeners(os.Getenv("OPENERS_FILE"))
	if err != nil {
		return nil, err
	}

	p := &Provider{lists: make(map[int]*List, MaxLength-MinLength+1)}
	for length := MinLength; length <= MaxLength; length++ {
		answers, allowed, err := loadLists(dir, length)
		if err != nil {
			return nil, err
		}
		l, err := NewList(length, answers, allowed, openers[length])
		if err != nil {
			return nil, err
		}
		p.lists[length] = l
	}
	return p, nil
}

// For returns the vocabulary for one length.
func (p *Provider) For(length int) (*List, error) {
	l, ok := p.lists[length]
	if !ok {
		return nil, fmt.Errorf("words: no list for length %d", length)
	}
	return l, nil
}

// Lengths returns the supported lengths in ascending order.
func (p *Provider) Lengths() []int {
	out := make([]int, 0, len(p.lists))
	for l := range p.lists {
		out = append(out, l)
	}
	sort.Ints(out)
	return out
}

// loadLists resolves the answer and allowed word sources for one length.
func loadLists(dir string, length int) (answers, allowed []string, err error) {
	if dir != "" {
		answers, err = readWordFile(filepath.Join(dir, fmt.Sprintf("%d-letters-answer.txt", length)))
		if err != nil {
			return nil, nil, err
		}
		// The guess superset is optional; answers alone are a valid vocabulary.
		guessPath := filepath.Join(dir, fmt.Sprintf("%d-letters-guess.txt", length))
		if _, statErr := os.Stat(guessPath); statErr == nil {
			allowed, err = readWordFile(guessPath)
			if err != nil {
				return nil, nil, err
			}
		}
		return answers, allowed, nil
	}

	answers, err = readEmbedded(fmt.Sprintf("defaults/answers-%d.txt", length))
	return answers, nil, err
}

// loadOpeners reads the opener table, preferring the configured file
// over the embedded one.
func loadOpeners(path string) (map[int]string, error) {
	var data []byte
	var err error
	if path != "" {
		data, err = os.ReadFile(path)
	} else {
		data, err = defaultsFS.ReadFile("defaults/openers.json")
	}
	if err != nil {
		return nil, fmt.Errorf("words: read openers: %w", err)
	}

	raw := map[string]string{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("words: parse openers: %w", err)
	}
	out := make(map[int]string, len(raw))
	for k, v := range raw {
		n, err := strconv.Atoi(k)
		if err != nil {
			return nil, fmt.Errorf("words: opener key %q: %w", k, err)
		}
		out[n] = strings.ToLower(strings.TrimSpace(v))
	}
	return out, nil
}

// readWordFile loads one word per line from a file.
func readWordFile(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return readLines(f)
}

// readEmbedded loads one word per line from the embedded defaults.
func readEmbedded(name string) ([]string, error) {
	f, err := defaultsFS.Open(name)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return readLines(f)
}

// readLines scans newline-separated entries, skipping blanks and comments.
func readLines(r io.Reader) ([]string, error) {
	var out []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		s := strings.TrimSpace(sc.Text())
		if s == "" || strings.HasPrefix(s, "#") {
			continue
		}
		out = append(out, s)
	}
	return out, sc.Err()
}

// normalize lowercases entries and keeps only valid words of the wanted
// length, preserving order and dropping duplicates.
func normalize(list []string, length int) []string {
	seen := make(map[string]struct{}, len(list))
	out := make([]string, 0, len(list))
	for _, raw := range list {
		w := strings.TrimSpace(strings.ToLower(raw))
		if len(w) != length || !isAlpha(w) {
			continue
		}
		if _, ok := seen[w]; ok {
			continue
		}
		seen[w] = struct{}{}
		out = append(out, w)
	}
	return out
}

// isAlpha reports whether s is all lowercase ASCII letters.
func isAlpha(s string) bool {
	for _, r := range s {
		if r < 'a' || r > 'z' {
			return false
		}
	}
	return true
}
