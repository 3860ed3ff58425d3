// internal/analytics/analytics.go
//
// Finished-game records for the editorial portal.
//   - GameLog: one finished session (who, which date, outcome, guesses).
//   - Store:   SQLite game_logs table; per-date averages and author stats.
//   - AsyncSink: hands records to another Sink off the request path.

package analytics

import (
	"context"
	"database/sql"
	"encoding/json"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/robalobadob/hang10/internal/game"
)

// GameLog is the event recorded when a session reaches a terminal state.
type GameLog struct {
	ID        string          `json:"id"`
	OwnerID   string          `json:"ownerId"`
	Date      string          `json:"date"`
	Status    string          `json:"status"` // won | lost
	Strikes   int             `json:"strikes"`
	Score     int             `json:"score"`
	Guesses   []game.GuessLog `json:"guesses"`
	CreatedAt time.Time       `json:"createdAt"`
}

// Sink accepts finished-game records.
type Sink interface {
	Log(ctx context.Context, gl GameLog) error
}

// Store keeps game logs in SQLite.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

func NewStore(db *sql.DB) *Store { return &Store{db: db, now: time.Now} }

// Log inserts gl, assigning an ID and timestamp when missing.
func (s *Store) Log(ctx context.Context, gl GameLog) error {
	if gl.ID == "" {
		gl.ID = uuid.New().String()
	}
	if gl.CreatedAt.IsZero() {
		gl.CreatedAt = s.now()
	}
	if gl.Guesses == nil {
		gl.Guesses = []game.GuessLog{}
	}
	guesses, err := json.Marshal(gl.Guesses)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, `
        INSERT INTO game_logs (id, owner_id, date, status, strikes, score, guesses_json, created_at)
        VALUES (?,?,?,?,?,?,?,?)`,
		gl.ID, gl.OwnerID, gl.Date, gl.Status, gl.Strikes, gl.Score, string(guesses),
		gl.CreatedAt.UTC().Format(time.RFC3339Nano))
	return err
}

// Recent returns the latest logs for date, newest first.
func (s *Store) Recent(ctx context.Context, date string, limit int) ([]GameLog, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx, `
        SELECT id, owner_id, date, status, strikes, score, guesses_json, created_at
        FROM game_logs WHERE date=? ORDER BY created_at DESC LIMIT ?`, date, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []GameLog{}
	for rows.Next() {
		var gl GameLog
		var guesses, created string
		if err := rows.Scan(&gl.ID, &gl.OwnerID, &gl.Date, &gl.Status, &gl.Strikes, &gl.Score, &guesses, &created); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(guesses), &gl.Guesses); err != nil {
			return nil, err
		}
		gl.CreatedAt, _ = time.Parse(time.RFC3339Nano, created)
		out = append(out, gl)
	}
	return out, rows.Err()
}

// DailyAverage returns the mean score logged for date. ok is false when no
// game has been logged for it.
func (s *Store) DailyAverage(ctx context.Context, date string) (avg float64, ok bool, err error) {
	var mean sql.NullFloat64
	if err := s.db.QueryRowContext(ctx,
		`SELECT AVG(score) FROM game_logs WHERE date=?`, date,
	).Scan(&mean); err != nil {
		return 0, false, err
	}
	return mean.Float64, mean.Valid, nil
}

// AuthoredSet is the minimum needed from a puzzle document for AuthorStats.
type AuthoredSet struct {
	Author string
	Date   string
}

// AuthorStat summarizes one author's sets.
type AuthorStat struct {
	Author         string  `json:"author"`
	TotalCreated   int     `json:"totalCreated"`
	PublishedCount int     `json:"publishedCount"`
	AverageScore   float64 `json:"averageScore"`
}

// AuthorStats groups sets by author. A set counts as published once its date
// is on or before today; the average is the mean of the daily averages of
// published dates that have logged games, rounded to one decimal.
// Results are ordered by published count, most first.
func (s *Store) AuthorStats(ctx context.Context, sets []AuthoredSet, today string) ([]AuthorStat, error) {
	type acc struct {
		stat  AuthorStat
		sum   float64
		count int
	}
	byAuthor := map[string]*acc{}
	for _, set := range sets {
		name := strings.TrimSpace(set.Author)
		if name == "" {
			name = "Anonymous"
		}
		a := byAuthor[name]
		if a == nil {
			a = &acc{stat: AuthorStat{Author: name}}
			byAuthor[name] = a
		}
		a.stat.TotalCreated++
		if set.Date > today {
			continue
		}
		a.stat.PublishedCount++
		avg, ok, err := s.DailyAverage(ctx, set.Date)
		if err != nil {
			return nil, err
		}
		if ok {
			a.sum += avg
			a.count++
		}
	}

	out := make([]AuthorStat, 0, len(byAuthor))
	for _, a := range byAuthor {
		if a.count > 0 {
			a.stat.AverageScore = math.Round(a.sum/float64(a.count)*10) / 10
		}
		out = append(out, a.stat)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].PublishedCount != out[j].PublishedCount {
			return out[i].PublishedCount > out[j].PublishedCount
		}
		return out[i].Author < out[j].Author
	})
	return out, nil
}
