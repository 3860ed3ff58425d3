// internal/stats/stats.go
//
// Per-player statistics and the single reducer that updates them.
//
// RecordGame is a pure transform: callers load prior stats, apply the
// finished game, and persist the result through a Store.

package stats

// Distribution buckets finished games by total strikes.
type Distribution struct {
	Perfect      int `json:"perfect"`
	OneStrike    int `json:"oneStrike"`
	TwoStrikes   int `json:"twoStrikes"`
	ThreeStrikes int `json:"threeStrikes"`
	FourStrikes  int `json:"fourStrikes"`
	Failed       int `json:"failed"`
}

// UserStats is the cumulative record for one player.
type UserStats struct {
	GamesPlayed     int          `json:"gamesPlayed"`
	GamesWon        int          `json:"gamesWon"`
	WinDistribution Distribution `json:"winDistribution"`
	CurrentStreak   int          `json:"currentStreak"`
	MaxStreak       int          `json:"maxStreak"`
	LastPlayedDate  string       `json:"lastPlayedDate"` // YYYY-MM-DD, empty if never played
}

// RecordGame applies one finished game played on date.
// A second call for the same date returns s unchanged.
func RecordGame(s UserStats, won bool, totalStrikes int, date string) UserStats {
	if s.LastPlayedDate == date {
		return s
	}
	s.GamesPlayed++
	s.LastPlayedDate = date

	if !won {
		s.CurrentStreak = 0
		s.WinDistribution.Failed++
		return s
	}

	s.GamesWon++
	s.CurrentStreak++
	s.MaxStreak = max(s.MaxStreak, s.CurrentStreak)
	switch totalStrikes {
	case 0:
		s.WinDistribution.Perfect++
	case 1:
		s.WinDistribution.OneStrike++
	case 2:
		s.WinDistribution.TwoStrikes++
	case 3:
		s.WinDistribution.ThreeStrikes++
	case 4:
		s.WinDistribution.FourStrikes++
	}
	return s
}

// Score is the display score of a finished game: 10/8/6/4/2 for a win with
// 0–4 strikes, 0 for a loss.
func Score(won bool, totalStrikes int) int {
	if !won || totalStrikes >= 5 {
		return 0
	}
	return 2 * (5 - max(0, totalStrikes))
}
