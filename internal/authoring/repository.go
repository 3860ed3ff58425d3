package authoring

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/robalobadob/hang10/internal/puzzle"
)

// Repository stores documents in the puzzles table, one row per date.
type Repository struct{ db *sql.DB }

func NewRepository(db *sql.DB) *Repository { return &Repository{db: db} }

// Get loads the document for date or returns ErrNotFound.
func (r *Repository) Get(ctx context.Context, date string) (*Document, error) {
	var (
		d          Document
		approvedBy sql.NullString
		raw        string
		created    string
		updated    string
	)
	err := r.db.QueryRowContext(ctx, `
        SELECT date, author, status, approved_by, puzzles_json, created_at, updated_at
        FROM puzzles WHERE date=?`, date,
	).Scan(&d.Date, &d.Author, &d.Status, &approvedBy, &raw, &created, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(raw), &d.Puzzles); err != nil {
		return nil, fmt.Errorf("decode puzzles for %s: %w", date, err)
	}
	d.ApprovedBy = approvedBy.String
	d.CreatedAt, _ = time.Parse(time.RFC3339, created)
	d.UpdatedAt, _ = time.Parse(time.RFC3339, updated)
	return &d, nil
}

// Put inserts or replaces the document for d.Date. created_at of an
// existing row is preserved.
func (r *Repository) Put(ctx context.Context, d *Document) error {
	raw, err := json.Marshal(d.Puzzles)
	if err != nil {
		return err
	}
	var approvedBy any
	if d.ApprovedBy != "" {
		approvedBy = d.ApprovedBy
	}
	_, err = r.db.ExecContext(ctx, `
        INSERT INTO puzzles (date, author, status, approved_by, puzzles_json, created_at, updated_at)
        VALUES (?,?,?,?,?,?,?)
        ON CONFLICT(date) DO UPDATE SET
            author=excluded.author, status=excluded.status, approved_by=excluded.approved_by,
            puzzles_json=excluded.puzzles_json, updated_at=excluded.updated_at`,
		d.Date, d.Author, string(d.Status), approvedBy, string(raw),
		d.CreatedAt.UTC().Format(time.RFC3339), d.UpdatedAt.UTC().Format(time.RFC3339),
	)
	return err
}

// Delete removes the document for date.
func (r *Repository) Delete(ctx context.Context, date string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM puzzles WHERE date=?`, date)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// Range lists documents with from <= date < to, ordered by date.
// Empty bounds are open.
func (r *Repository) Range(ctx context.Context, from, to string) ([]Summary, error) {
	if to == "" {
		to = "9999-12-31"
	}
	rows, err := r.db.QueryContext(ctx, `
        SELECT date, author, status, COALESCE(approved_by, '')
        FROM puzzles WHERE date >= ? AND date < ? ORDER BY date`, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := []Summary{}
	for rows.Next() {
		var s Summary
		if err := rows.Scan(&s.Date, &s.Author, &s.Status, &s.ApprovedBy); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// PublishedSet returns the playable set for date when its document is
// published. Drafts and review documents are never served to players.
func (r *Repository) PublishedSet(ctx context.Context, date string) (puzzle.DailySet, bool, error) {
	d, err := r.Get(ctx, date)
	if errors.Is(err, ErrNotFound) {
		return puzzle.DailySet{}, false, nil
	}
	if err != nil {
		return puzzle.DailySet{}, false, err
	}
	if d.Status != StatusPublished {
		return puzzle.DailySet{}, false, nil
	}
	return d.DailySet, true, nil
}
