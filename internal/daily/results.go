package daily

import (
	"context"
	"database/sql"
	"errors"
	"strings"
)

// Result is one owner's finished game for a date.
type Result struct {
	OwnerID   string `json:"ownerId"`
	Date      string `json:"date"`
	Status    string `json:"status"` // won | lost
	Strikes   int    `json:"strikes"`
	Score     int    `json:"score"`
	CreatedAt string `json:"createdAt,omitempty"`
}

// GuestName labels leaderboard rows of players without an account.
const GuestName = "Guest"

// LBRow is a leaderboard line. OwnerID never leaves the server: for guests
// it is the anonymous cookie value.
type LBRow struct {
	OwnerID string `json:"-"`
	Name    string `json:"name"`
	Score   int    `json:"score"`
	Strikes int    `json:"strikes"`
}

// Results persists finished games in daily_results.
type Results struct{ db *sql.DB }

func NewResults(db *sql.DB) *Results { return &Results{db: db} }

// Get returns owner's result for date, or nil if none.
func (s *Results) Get(ctx context.Context, ownerID, date string) (*Result, error) {
	r := Result{OwnerID: ownerID, Date: date}
	err := s.db.QueryRowContext(ctx,
		`SELECT status, strikes, score, created_at FROM daily_results WHERE owner_id=? AND date=?`,
		ownerID, date,
	).Scan(&r.Status, &r.Strikes, &r.Score, &r.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// Insert stores r. A second insert for the same owner and date is ignored.
func (s *Results) Insert(ctx context.Context, r Result) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO daily_results(owner_id, date, status, strikes, score)
        VALUES(?,?,?,?,?)`, r.OwnerID, r.Date, r.Status, r.Strikes, r.Score,
	)
	return err
}

// Leaderboard returns the best results for date: score desc, strikes asc,
// earliest finish first.
func (s *Results) Leaderboard(ctx context.Context, date string, limit int) ([]LBRow, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT owner_id, score, strikes
        FROM daily_results
        WHERE date=?
        ORDER BY score DESC, strikes ASC, created_at ASC
        LIMIT ?`, date, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]LBRow, 0, limit)
	for rows.Next() {
		var r LBRow
		if err := rows.Scan(&r.OwnerID, &r.Score, &r.Strikes); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// Label fills Name on each row: the username for accounts, GuestName for
// everyone else.
func (s *Results) Label(ctx context.Context, rows []LBRow) error {
	if len(rows) == 0 {
		return nil
	}
	args := make([]any, len(rows))
	for i, r := range rows {
		args[i] = r.OwnerID
	}
	q := `SELECT id, username FROM users WHERE id IN (?` + strings.Repeat(",?", len(rows)-1) + `)`
	res, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return err
	}
	defer res.Close()
	names := make(map[string]string, len(rows))
	for res.Next() {
		var id, name string
		if err := res.Scan(&id, &name); err != nil {
			return err
		}
		names[id] = name
	}
	if err := res.Err(); err != nil {
		return err
	}
	for i := range rows {
		if n, ok := names[rows[i].OwnerID]; ok {
			rows[i].Name = n
		} else {
			rows[i].Name = GuestName
		}
	}
	return nil
}
