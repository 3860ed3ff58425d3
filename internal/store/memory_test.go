package store

import (
	"context"
	"errors"
	"testing"

	"github.com/robalobadob/hang10/internal/game"
	"github.com/robalobadob/hang10/internal/puzzle"
)

func newSession(t *testing.T, owner string, preview bool) *Session {
	t.Helper()
	set := puzzle.DailySet{Date: "2026-01-01"}
	for _, a := range []string{"A", "B", "C", "D", "E"} {
		set.Puzzles = append(set.Puzzles, puzzle.Prepare(puzzle.Puzzle{Clue: a, Answer: a}))
	}
	g, err := game.New(set)
	if err != nil {
		t.Fatal(err)
	}
	return &Session{Game: g, OwnerID: owner, Preview: preview}
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore()
	s := newSession(t, "u1", false)

	if _, err := st.Get(ctx, s.Game.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get before save: %v", err)
	}
	if err := st.Save(ctx, s); err != nil {
		t.Fatal(err)
	}
	got, err := st.Get(ctx, s.Game.ID)
	if err != nil || got != s {
		t.Fatalf("Get = %p, %v", got, err)
	}
	got, err = st.ForOwner(ctx, "u1", "2026-01-01")
	if err != nil || got != s {
		t.Fatalf("ForOwner = %p, %v", got, err)
	}
	if _, err := st.ForOwner(ctx, "u1", "2026-01-02"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("ForOwner other date: %v", err)
	}
}

func TestPreviewSessionsAreNotIndexedByOwner(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore()
	p := newSession(t, "pm", true)
	if err := st.Save(ctx, p); err != nil {
		t.Fatal(err)
	}
	if _, err := st.Get(ctx, p.Game.ID); err != nil {
		t.Fatalf("preview Get: %v", err)
	}
	if _, err := st.ForOwner(ctx, "pm", "2026-01-01"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("preview must not resume as a daily session: %v", err)
	}
}

func TestOldSessionsEvictedOnNewDay(t *testing.T) {
	ctx := context.Background()
	st := NewMemoryStore()
	on := func(owner, date string, preview bool) *Session {
		s := newSession(t, owner, preview)
		s.Game.Set.Date = date
		if err := st.Save(ctx, s); err != nil {
			t.Fatal(err)
		}
		return s
	}

	d1 := on("u1", "2026-01-01", false)
	d2 := on("u2", "2026-01-02", false)
	pv := on("pm", "2026-02-01", true)

	// Day two keeps day one so a game started before midnight can finish.
	for _, s := range []*Session{d1, pv, d2} {
		if _, err := st.Get(ctx, s.Game.ID); err != nil {
			t.Fatalf("session %s evicted too early: %v", s.Game.Set.Date, err)
		}
	}

	d3 := on("u3", "2026-01-03", false)
	if _, err := st.Get(ctx, d1.Game.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("day-one session kept: %v", err)
	}
	if _, err := st.ForOwner(ctx, "u1", "2026-01-01"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("day-one owner index kept: %v", err)
	}
	if _, err := st.Get(ctx, pv.Game.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("preview kept across days: %v", err)
	}
	for _, s := range []*Session{d2, d3} {
		if _, err := st.ForOwner(ctx, s.OwnerID, s.Game.Set.Date); err != nil {
			t.Fatalf("ForOwner %s: %v", s.OwnerID, err)
		}
	}
	if n := len(st.(*memory).sessions); n != 2 {
		t.Fatalf("sessions held = %d, want 2", n)
	}
}
