package authoring

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/robalobadob/hang10/internal/puzzle"
	"github.com/robalobadob/hang10/internal/sqlitedb/sqlitedbtest"
)

func newTestService(t *testing.T, gen Generator) *Service {
	t.Helper()
	svc := NewService(NewRepository(sqlitedbtest.Open(t)), puzzle.DefaultRules(), gen)
	svc.now = func() time.Time { return time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC) }
	return svc
}

func sampleDoc(date string) Document {
	return Document{DailySet: puzzle.DailySet{
		Date: date,
		Puzzles: []puzzle.Puzzle{
			{Clue: "Meow", Answer: "cat"},
			{Clue: "Woof", Answer: "Dog"},
			{Clue: "Hi", Answer: "hello world"},
			{Clue: "Red planet", Answer: "MARS"},
			{Clue: "Capital of France", Answer: "PARIS"},
		},
	}}
}

func TestSaveNormalizesAndDerivesRevealOrder(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, nil)

	doc, err := svc.Save(ctx, sampleDoc("2026-02-01"), StatusReview, "pm1")
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if doc.Author != DefaultAuthor || doc.ApprovedBy != "" {
		t.Fatalf("author/approver = %q/%q", doc.Author, doc.ApprovedBy)
	}

	got, err := svc.Get(ctx, "2026-02-01")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Puzzles[0].Answer != "CAT" || !reflect.DeepEqual(got.Puzzles[0].RevealOrder, []string{"A", "C", "T"}) {
		t.Fatalf("puzzle 0 = %+v", got.Puzzles[0])
	}
	if !reflect.DeepEqual(got.Puzzles[2].RevealOrder, puzzle.DeriveRevealOrder("HELLO WORLD")) {
		t.Fatalf("puzzle 2 reveal order = %v", got.Puzzles[2].RevealOrder)
	}
	if got.Status != StatusReview {
		t.Fatalf("status = %s", got.Status)
	}
}

func TestSaveDraftSkipsRequiredFields(t *testing.T) {
	svc := newTestService(t, nil)
	doc := sampleDoc("2026-02-02")
	doc.Puzzles[1].Clue = ""
	doc.Puzzles[3].Answer = ""

	if _, err := svc.Save(context.Background(), doc, StatusDraft, "pm1"); err != nil {
		t.Fatalf("draft save: %v", err)
	}
	_, err := svc.Save(context.Background(), doc, StatusReview, "pm1")
	var ve *puzzle.ValidationError
	if !errors.As(err, &ve) || ve.Slot != 2 {
		t.Fatalf("review save: %v", err)
	}
}

func TestSaveRejectsBadInput(t *testing.T) {
	svc := newTestService(t, nil)
	if _, err := svc.Save(context.Background(), sampleDoc("2026-02-03"), Status("live"), "x"); !errors.Is(err, ErrInvalidStatus) {
		t.Fatalf("status: %v", err)
	}
	if _, err := svc.Save(context.Background(), sampleDoc("02/03/2026"), StatusDraft, "x"); !errors.Is(err, ErrInvalidDate) {
		t.Fatalf("date: %v", err)
	}
	bad := sampleDoc("2026-02-03")
	bad.Puzzles[4].Answer = "PAR1S"
	if _, err := svc.Save(context.Background(), bad, StatusDraft, "x"); err == nil || !strings.Contains(err.Error(), "Puzzle #5") {
		t.Fatalf("answer: %v", err)
	}
}

func TestPublishStampsApprover(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, nil)
	doc := sampleDoc("2026-02-04")
	doc.Author = "  Jo  "

	if _, err := svc.Save(ctx, doc, StatusPublished, "admin1"); err != nil {
		t.Fatal(err)
	}
	got, _ := svc.Get(ctx, "2026-02-04")
	if got.ApprovedBy != "admin1" || got.Author != "Jo" {
		t.Fatalf("approvedBy=%q author=%q", got.ApprovedBy, got.Author)
	}

	// Moving back to review keeps the previous approver.
	if _, err := svc.Save(ctx, *got, StatusReview, "pm2"); err != nil {
		t.Fatal(err)
	}
	got, _ = svc.Get(ctx, "2026-02-04")
	if got.ApprovedBy != "admin1" || got.Status != StatusReview {
		t.Fatalf("after review: %+v", got)
	}

	set, ok, err := svc.repo.PublishedSet(ctx, "2026-02-04")
	if err != nil || ok {
		t.Fatalf("review doc must not be served: %+v %v %v", set, ok, err)
	}
}

func TestPublishedSetAndRange(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, nil)
	for _, d := range []struct {
		date   string
		status Status
	}{
		{"2026-03-01", StatusPublished},
		{"2026-03-15", StatusDraft},
		{"2026-04-01", StatusReview},
	} {
		if _, err := svc.Save(ctx, sampleDoc(d.date), d.status, "ed"); err != nil {
			t.Fatal(err)
		}
	}

	set, ok, err := svc.repo.PublishedSet(ctx, "2026-03-01")
	if err != nil || !ok || len(set.Puzzles) != 5 || set.Puzzles[0].Answer != "CAT" {
		t.Fatalf("PublishedSet = %+v %v %v", set, ok, err)
	}
	if _, ok, _ := svc.repo.PublishedSet(ctx, "2026-03-02"); ok {
		t.Fatal("missing date reported as published")
	}

	march, err := svc.Range(ctx, "2026-03-01", "2026-04-01")
	if err != nil || len(march) != 2 || march[1].Status != StatusDraft {
		t.Fatalf("Range = %+v, %v", march, err)
	}
}

func TestDeleteAndMove(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, nil)
	if _, err := svc.Save(ctx, sampleDoc("2026-05-01"), StatusDraft, "ed"); err != nil {
		t.Fatal(err)
	}
	doc, err := svc.Move(ctx, "2026-05-01", 0, 1, "ed")
	if err != nil {
		t.Fatalf("Move: %v", err)
	}
	if doc.Puzzles[0].Answer != "DOG" || doc.Puzzles[1].Answer != "CAT" {
		t.Fatalf("after move: %v / %v", doc.Puzzles[0].Answer, doc.Puzzles[1].Answer)
	}
	if _, err := svc.Move(ctx, "2026-05-01", 4, 1, "ed"); err == nil {
		t.Fatal("moving past the end should fail")
	}

	if err := svc.Delete(ctx, "2026-05-01"); err != nil {
		t.Fatal(err)
	}
	if err := svc.Delete(ctx, "2026-05-01"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("second delete: %v", err)
	}
	if _, err := svc.Get(ctx, "2026-05-01"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("get after delete: %v", err)
	}
}

type stubGenerator struct {
	cands []Candidate
	one   Candidate
}

func (s stubGenerator) Generate(ctx context.Context, theme string) ([]Candidate, error) {
	return s.cands, nil
}

func (s stubGenerator) GenerateOne(ctx context.Context, theme string, existing []string) (Candidate, error) {
	return s.one, nil
}

func TestSuggestValidatesCandidates(t *testing.T) {
	ctx := context.Background()

	svc := newTestService(t, MockGenerator{})
	got, err := svc.Suggest(ctx, "anything")
	if err != nil || len(got) != 5 {
		t.Fatalf("Suggest = %v, %v", got, err)
	}
	for _, p := range got {
		if len(p.RevealOrder) == 0 {
			t.Fatalf("suggested puzzle not prepared: %+v", p)
		}
	}

	bad := stubGenerator{cands: []Candidate{
		{Clue: "a", Answer: "ONE"}, {Clue: "b", Answer: "TWO"},
		{Clue: "", Answer: "THREE"}, {Clue: "d", Answer: "FOUR"}, {Clue: "e", Answer: "FIVE"},
	}}
	svc = newTestService(t, bad)
	if _, err := svc.Suggest(ctx, "numbers"); err == nil || !strings.Contains(err.Error(), "Puzzle #3 is missing a clue") {
		t.Fatalf("Suggest bad = %v", err)
	}

	short := stubGenerator{cands: []Candidate{{Clue: "a", Answer: "ONE"}}}
	if _, err := newTestService(t, short).Suggest(ctx, "x"); err == nil {
		t.Fatal("expected error for wrong candidate count")
	}

	if _, err := newTestService(t, nil).Suggest(ctx, "x"); !errors.Is(err, ErrGeneratorDisabled) {
		t.Fatalf("nil generator: %v", err)
	}

	long := stubGenerator{one: Candidate{Clue: "c", Answer: "ANTIDISESTABLISHMENT"}}
	if _, err := newTestService(t, long).SuggestOne(ctx, "x", 2, nil); err == nil || !strings.Contains(err.Error(), "Puzzle #2") {
		t.Fatalf("SuggestOne long = %v", err)
	}
}

func TestMockGeneratorAvoidsExisting(t *testing.T) {
	c, err := MockGenerator{}.GenerateOne(context.Background(), "x", []string{"your age", "CAT NAP"})
	if err != nil || c.Answer != "TOASTER" {
		t.Fatalf("GenerateOne = %+v, %v", c, err)
	}
}

func TestGeminiGenerator(t *testing.T) {
	var gotKey, gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("x-goog-api-key")
		gotPath = r.URL.Path
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"` +
			"```json\\n[{\\\"clue\\\":\\\"c1\\\",\\\"answer\\\":\\\"rock 'n' roll\\\"},{\\\"clue\\\":\\\"c2\\\",\\\"answer\\\":\\\"B4 TIME\\\"}]\\n```" +
			`"}]}}]}`))
	}))
	defer srv.Close()

	g := NewGeminiGenerator(GeminiConfig{APIKey: "k", BaseURL: srv.URL, Model: "m"})
	got, err := g.Generate(context.Background(), "music")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	want := []Candidate{{Clue: "c1", Answer: "ROCK N ROLL"}, {Clue: "c2", Answer: "B TIME"}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %+v, want %+v", got, want)
	}
	if gotKey != "k" || gotPath != "/m:generateContent" {
		t.Fatalf("request key=%q path=%q", gotKey, gotPath)
	}
}

func TestGeminiGeneratorHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "billing disabled", http.StatusForbidden)
	}))
	defer srv.Close()
	g := NewGeminiGenerator(GeminiConfig{BaseURL: srv.URL})
	if _, err := g.GenerateOne(context.Background(), "x", nil); err == nil || !strings.Contains(err.Error(), "403") {
		t.Fatalf("err = %v", err)
	}
}
