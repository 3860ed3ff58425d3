package cache

import (
	"context"
	"reflect"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/robalobadob/hang10/internal/daily"
	"github.com/robalobadob/hang10/internal/sqlitedb/sqlitedbtest"
)

func TestRankRoundTrip(t *testing.T) {
	cases := []struct{ score, strikes int }{{10, 0}, {8, 1}, {2, 4}, {0, 5}}
	for _, c := range cases {
		s, k := unrank(rank(c.score, c.strikes))
		if s != c.score || k != c.strikes {
			t.Errorf("unrank(rank(%d,%d)) = %d,%d", c.score, c.strikes, s, k)
		}
	}
	if rank(8, 1) <= rank(8, 2) {
		t.Error("fewer strikes must rank higher on equal score")
	}
	if rank(8, 0) <= rank(6, 0) {
		t.Error("higher score must rank higher")
	}
}

func TestResultsLeaderboard(t *testing.T) {
	ctx := context.Background()
	res := daily.NewResults(sqlitedbtest.Open(t))
	lb := NewResultsLeaderboard(res)

	for _, r := range []daily.Result{
		{OwnerID: "a", Date: "2026-01-01", Status: "won", Strikes: 2, Score: 6},
		{OwnerID: "b", Date: "2026-01-01", Status: "won", Strikes: 0, Score: 10},
		{OwnerID: "c", Date: "2026-01-02", Status: "won", Strikes: 0, Score: 10},
	} {
		if err := res.Insert(ctx, r); err != nil {
			t.Fatal(err)
		}
		if err := lb.Record(ctx, r); err != nil {
			t.Fatal(err)
		}
	}
	top, err := lb.Top(ctx, "2026-01-01", 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(top) != 2 || top[0].OwnerID != "b" || top[1].OwnerID != "a" {
		t.Fatalf("Top = %+v", top)
	}
}

func TestRedisLeaderboard(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	lb := NewRedisLeaderboard(client)

	for _, r := range []daily.Result{
		{OwnerID: "a", Date: "2026-01-01", Status: "won", Strikes: 2, Score: 6},
		{OwnerID: "b", Date: "2026-01-01", Status: "won", Strikes: 0, Score: 10},
		{OwnerID: "c", Date: "2026-01-01", Status: "won", Strikes: 1, Score: 6},
		{OwnerID: "d", Date: "2026-01-01", Status: "lost", Strikes: 5, Score: 0},
		{OwnerID: "a", Date: "2026-01-01", Status: "won", Strikes: 0, Score: 10}, // replay ignored
		{OwnerID: "e", Date: "2026-01-02", Status: "won", Strikes: 0, Score: 10},
	} {
		if err := lb.Record(ctx, r); err != nil {
			t.Fatal(err)
		}
	}

	top, err := lb.Top(ctx, "2026-01-01", 0)
	if err != nil {
		t.Fatal(err)
	}
	want := []daily.LBRow{
		{OwnerID: "b", Score: 10, Strikes: 0},
		{OwnerID: "c", Score: 6, Strikes: 1},
		{OwnerID: "a", Score: 6, Strikes: 2},
		{OwnerID: "d", Score: 0, Strikes: 5},
	}
	if !reflect.DeepEqual(top, want) {
		t.Fatalf("Top = %+v, want %+v", top, want)
	}

	if top, err = lb.Top(ctx, "2026-01-01", 2); err != nil || len(top) != 2 || top[1].OwnerID != "c" {
		t.Fatalf("Top(2) = %+v, %v", top, err)
	}
	if top, err = lb.Top(ctx, "2026-01-03", 10); err != nil || len(top) != 0 {
		t.Fatalf("empty date = %+v, %v", top, err)
	}
	if !mr.Exists("daily:2026-01-02:lb") {
		t.Fatal("per-date key missing")
	}
}
