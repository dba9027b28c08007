package store

import (
	"context"
	"errors"
	"testing"

	"github.com/robalobadob/wordlab/internal/game"
	"github.com/robalobadob/wordlab/internal/words"
)

func newGame(t *testing.T) *game.Game {
	t.Helper()
	list, err := words.NewList(5, []string{"crane", "toast"}, nil, "")
	if err != nil {
		t.Fatal(err)
	}
	g, err := game.New(list, game.ModeHuman, "", "crane")
	if err != nil {
		t.Fatal(err)
	}
	return g
}

func TestMemoryStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	g := newGame(t)

	if err := s.Save(ctx, g); err != nil {
		t.Fatal(err)
	}
	got, err := s.Get(ctx, g.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.ID != g.ID || got.Answer != g.Answer {
		t.Errorf("round trip mismatch: %+v", got)
	}

	if err := s.Delete(ctx, g.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Get(ctx, g.ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("after delete: got %v, want ErrNotFound", err)
	}
}

func TestMemoryStoreMissing(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()
	if _, err := s.Get(ctx, "nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Get: got %v, want ErrNotFound", err)
	}
	if err := s.Delete(ctx, "nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Delete: got %v, want ErrNotFound", err)
	}
}
