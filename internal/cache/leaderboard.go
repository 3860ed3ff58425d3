package cache

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/robalobadob/hang10/internal/daily"
)

// Leaderboard records finished-game scores per date and serves the top N.
type Leaderboard interface {
	Record(ctx context.Context, r daily.Result) error
	Top(ctx context.Context, date string, limit int) ([]daily.LBRow, error)
}

// RedisLeaderboard keeps one sorted set per date. Members are owner IDs;
// the sort key folds strikes in so fewer strikes win ties on score.
type RedisLeaderboard struct {
	client *redis.Client
}

func NewRedisLeaderboard(client *redis.Client) *RedisLeaderboard {
	return &RedisLeaderboard{client: client}
}

func (c *RedisLeaderboard) key(date string) string {
	return fmt.Sprintf("daily:%s:lb", date)
}

// Record adds r only if the owner has no entry yet for the date.
func (c *RedisLeaderboard) Record(ctx context.Context, r daily.Result) error {
	return c.client.ZAddNX(ctx, c.key(r.Date), redis.Z{
		Score:  rank(r.Score, r.Strikes),
		Member: r.OwnerID,
	}).Err()
}

func (c *RedisLeaderboard) Top(ctx context.Context, date string, limit int) ([]daily.LBRow, error) {
	if limit <= 0 {
		limit = 20
	}
	results, err := c.client.ZRevRangeWithScores(ctx, c.key(date), 0, int64(limit-1)).Result()
	if err != nil {
		return nil, err
	}
	out := make([]daily.LBRow, len(results))
	for i, z := range results {
		score, strikes := unrank(z.Score)
		out[i] = daily.LBRow{OwnerID: z.Member.(string), Score: score, Strikes: strikes}
	}
	return out, nil
}

// rank packs score and strikes into one ZSET score: higher is better.
func rank(score, strikes int) float64 {
	return float64(score*10 + (9 - strikes))
}

func unrank(v float64) (score, strikes int) {
	n := int(v)
	return n / 10, 9 - n%10
}

// ResultsLeaderboard serves the leaderboard straight from daily_results.
// Record is a no-op because the result row is already written by the
// game flow.
type ResultsLeaderboard struct {
	results *daily.Results
}

func NewResultsLeaderboard(results *daily.Results) *ResultsLeaderboard {
	return &ResultsLeaderboard{results: results}
}

func (l *ResultsLeaderboard) Record(ctx context.Context, r daily.Result) error { return nil }

func (l *ResultsLeaderboard) Top(ctx context.Context, date string, limit int) ([]daily.LBRow, error) {
	return l.results.Leaderboard(ctx, date, limit)
}
