// internal/config/config.go
//
// Process configuration read from the environment. main loads .env with
// godotenv first, so a local .env file and real env vars behave the same.

package config

import (
	"os"
	"strconv"
	"strings"

	"github.com/robalobadob/hang10/internal/puzzle"
)

// Config holds every setting the server reads at startup.
type Config struct {
	Port      string
	LogLevel  string
	DBPath    string
	GameTZ    string
	DailySalt string

	JWTSecret      string
	JWTExpiresDays int
	CookieName     string
	ClientOrigin   string
	Production     bool

	RedisAddr string

	GeminiAPIKey string
	GeminiModel  string

	// AdminUsernames get the admin role when they sign up.
	AdminUsernames []string

	Rules puzzle.Rules
}

// Load reads Config from the environment, applying defaults.
func Load() Config {
	rules := puzzle.DefaultRules()
	rules.MaxAnswerLen = envInt("ANSWER_MAX_LEN", rules.MaxAnswerLen)
	rules.MaxWordLen = envInt("WORD_MAX_LEN", rules.MaxWordLen)
	rules.MaxClueLen = envInt("CLUE_MAX_LEN", rules.MaxClueLen)
	rules.Punctuation = getEnv("ANSWER_PUNCTUATION", rules.Punctuation)

	return Config{
		Port:      getEnv("PORT", "5175"),
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		DBPath:    getEnv("DB_PATH", "./data/hang10.db"),
		GameTZ:    getEnv("GAME_TZ", "Local"),
		DailySalt: getEnv("DAILY_SALT", "local_dev_salt"),

		JWTSecret:      getEnv("JWT_SECRET", "dev_secret_change_me"),
		JWTExpiresDays: envInt("JWT_EXPIRES_DAYS", 14),
		CookieName:     getEnv("COOKIE_NAME", "hang10_token"),
		ClientOrigin:   getEnv("CLIENT_ORIGIN", "http://localhost:5173"),
		Production:     os.Getenv("NODE_ENV") == "production",

		RedisAddr: os.Getenv("REDIS_ADDR"),

		GeminiAPIKey: os.Getenv("GEMINI_API_KEY"),
		GeminiModel:  getEnv("GEMINI_MODEL", "gemini-2.0-flash"),

		AdminUsernames: splitList(os.Getenv("ADMIN_USERNAMES")),

		Rules: rules,
	}
}

// getEnv returns the value of k or def if unset/empty.
func getEnv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func envInt(k string, def int) int {
	if v := os.Getenv(k); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return def
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
