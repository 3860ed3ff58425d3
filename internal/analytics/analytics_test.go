package analytics

import (
	"context"
	"errors"
	"reflect"
	"sync"
	"testing"
	"time"

	"github.com/robalobadob/hang10/internal/game"
	"github.com/robalobadob/hang10/internal/sqlitedb/sqlitedbtest"
)

func TestLogAndRecent(t *testing.T) {
	ctx := context.Background()
	s := NewStore(sqlitedbtest.Open(t))
	base := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

	guesses := []game.GuessLog{{PuzzleIndex: 0, Letter: "A", IsCorrect: true}}
	if err := s.Log(ctx, GameLog{OwnerID: "u1", Date: "2026-06-01", Status: "won", Strikes: 1, Score: 8, Guesses: guesses, CreatedAt: base}); err != nil {
		t.Fatal(err)
	}
	if err := s.Log(ctx, GameLog{OwnerID: "u2", Date: "2026-06-01", Status: "lost", Strikes: 5, CreatedAt: base.Add(time.Minute)}); err != nil {
		t.Fatal(err)
	}
	if err := s.Log(ctx, GameLog{OwnerID: "u3", Date: "2026-06-02", Status: "won", Score: 10}); err != nil {
		t.Fatal(err)
	}

	got, err := s.Recent(ctx, "2026-06-01", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0].OwnerID != "u2" || got[1].OwnerID != "u1" {
		t.Fatalf("Recent = %+v", got)
	}
	if got[0].ID == "" || got[0].ID == got[1].ID {
		t.Fatalf("ids not assigned: %q %q", got[0].ID, got[1].ID)
	}
	if !reflect.DeepEqual(got[1].Guesses, guesses) || len(got[0].Guesses) != 0 {
		t.Fatalf("guesses = %+v / %+v", got[1].Guesses, got[0].Guesses)
	}
	if !got[1].CreatedAt.Equal(base) {
		t.Fatalf("createdAt = %v", got[1].CreatedAt)
	}
}

func TestDailyAverage(t *testing.T) {
	ctx := context.Background()
	s := NewStore(sqlitedbtest.Open(t))

	if _, ok, err := s.DailyAverage(ctx, "2026-06-01"); err != nil || ok {
		t.Fatalf("empty date: ok=%v err=%v", ok, err)
	}
	for _, score := range []int{10, 6, 0} {
		if err := s.Log(ctx, GameLog{OwnerID: "o", Date: "2026-06-01", Score: score, Status: "won"}); err != nil {
			t.Fatal(err)
		}
	}
	avg, ok, err := s.DailyAverage(ctx, "2026-06-01")
	if err != nil || !ok || avg < 5.33 || avg > 5.34 {
		t.Fatalf("avg = %v ok=%v err=%v", avg, ok, err)
	}
}

func TestAuthorStats(t *testing.T) {
	ctx := context.Background()
	s := NewStore(sqlitedbtest.Open(t))
	logs := []GameLog{
		{Date: "2026-06-01", Score: 10},
		{Date: "2026-06-01", Score: 5}, // day avg 7.5
		{Date: "2026-06-02", Score: 4}, // day avg 4
		{Date: "2026-06-03", Score: 2},
	}
	for i, gl := range logs {
		gl.OwnerID = "o"
		gl.Status = "won"
		if err := s.Log(ctx, gl); err != nil {
			t.Fatalf("log %d: %v", i, err)
		}
	}

	sets := []AuthoredSet{
		{Author: "ann", Date: "2026-06-01"},
		{Author: " ann ", Date: "2026-06-02"},
		{Author: "ann", Date: "2026-07-01"}, // future
		{Author: "", Date: "2026-06-03"},
		{Author: "bob", Date: "2026-06-04"}, // playable, no games
	}
	got, err := s.AuthorStats(ctx, sets, "2026-06-10")
	if err != nil {
		t.Fatal(err)
	}
	want := []AuthorStat{
		{Author: "ann", TotalCreated: 3, PublishedCount: 2, AverageScore: 5.8},
		{Author: "Anonymous", TotalCreated: 1, PublishedCount: 1, AverageScore: 2},
		{Author: "bob", TotalCreated: 1, PublishedCount: 1, AverageScore: 0},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("AuthorStats =\n %+v\nwant\n %+v", got, want)
	}
}

type recordingSink struct {
	mu   sync.Mutex
	logs []GameLog
	err  error
}

func (r *recordingSink) Log(ctx context.Context, gl GameLog) error {
	if _, ok := ctx.Deadline(); !ok {
		return errors.New("no deadline")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.logs = append(r.logs, gl)
	return r.err
}

func TestAsyncSink(t *testing.T) {
	rec := &recordingSink{}
	a := NewAsyncSink(rec, time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	cancel() // request context already gone
	for i := 0; i < 3; i++ {
		if err := a.Log(ctx, GameLog{OwnerID: "o", Score: i}); err != nil {
			t.Fatal(err)
		}
	}
	a.Wait()
	if len(rec.logs) != 3 {
		t.Fatalf("forwarded %d logs, want 3", len(rec.logs))
	}

	failing := NewAsyncSink(&recordingSink{err: errors.New("boom")}, 0)
	if err := failing.Log(context.Background(), GameLog{}); err != nil {
		t.Fatalf("async sink must swallow errors, got %v", err)
	}
	failing.Wait()
}
