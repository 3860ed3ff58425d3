// internal/stats/store.go
//
// Persistence for UserStats keyed by owner (user ID or anonymous ID).
//   - sqliteStore: user_stats table (see assets/sql).
//   - memory:      map-backed, for tests and DB-less runs.
//
// Load of an unknown owner returns zero stats, not an error.

package stats

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"time"
)

// Store loads and saves stats for an owner.
type Store interface {
	Load(ctx context.Context, owner string) (UserStats, error)
	Save(ctx context.Context, owner string, s UserStats) error
}

type sqliteStore struct{ db *sql.DB }

// NewSQLiteStore returns a Store over the user_stats table.
func NewSQLiteStore(db *sql.DB) Store { return &sqliteStore{db: db} }

func (s *sqliteStore) Load(ctx context.Context, owner string) (UserStats, error) {
	var u UserStats
	var last sql.NullString
	err := s.db.QueryRowContext(ctx, `
        SELECT games_played, games_won, current_streak, max_streak, last_played_date,
               perfect, one_strike, two_strikes, three_strikes, four_strikes, failed
        FROM user_stats WHERE owner_id=?`, owner,
	).Scan(&u.GamesPlayed, &u.GamesWon, &u.CurrentStreak, &u.MaxStreak, &last,
		&u.WinDistribution.Perfect, &u.WinDistribution.OneStrike, &u.WinDistribution.TwoStrikes,
		&u.WinDistribution.ThreeStrikes, &u.WinDistribution.FourStrikes, &u.WinDistribution.Failed)
	if errors.Is(err, sql.ErrNoRows) {
		return UserStats{}, nil
	}
	if err != nil {
		return UserStats{}, err
	}
	u.LastPlayedDate = last.String
	return u, nil
}

func (s *sqliteStore) Save(ctx context.Context, owner string, u UserStats) error {
	var last any
	if u.LastPlayedDate != "" {
		last = u.LastPlayedDate
	}
	_, err := s.db.ExecContext(ctx, `
        INSERT INTO user_stats (owner_id, games_played, games_won, current_streak, max_streak, last_played_date,
                                perfect, one_strike, two_strikes, three_strikes, four_strikes, failed, updated_at)
        VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?)
        ON CONFLICT(owner_id) DO UPDATE SET
            games_played=excluded.games_played, games_won=excluded.games_won,
            current_streak=excluded.current_streak, max_streak=excluded.max_streak,
            last_played_date=excluded.last_played_date,
            perfect=excluded.perfect, one_strike=excluded.one_strike, two_strikes=excluded.two_strikes,
            three_strikes=excluded.three_strikes, four_strikes=excluded.four_strikes, failed=excluded.failed,
            updated_at=excluded.updated_at`,
		owner, u.GamesPlayed, u.GamesWon, u.CurrentStreak, u.MaxStreak, last,
		u.WinDistribution.Perfect, u.WinDistribution.OneStrike, u.WinDistribution.TwoStrikes,
		u.WinDistribution.ThreeStrikes, u.WinDistribution.FourStrikes, u.WinDistribution.Failed,
		time.Now().UTC().Format(time.RFC3339),
	)
	return err
}

// memory is an in-memory Store.
type memory struct {
	mu    sync.RWMutex
	stats map[string]UserStats
}

// NewMemoryStore constructs an empty in-memory Store.
func NewMemoryStore() Store {
	return &memory{stats: make(map[string]UserStats)}
}

func (m *memory) Load(ctx context.Context, owner string) (UserStats, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.stats[owner], nil
}

func (m *memory) Save(ctx context.Context, owner string, s UserStats) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stats[owner] = s
	return nil
}
