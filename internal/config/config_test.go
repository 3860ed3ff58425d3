package config

import (
	"reflect"
	"testing"

	"github.com/robalobadob/hang10/internal/puzzle"
)

func TestLoadDefaults(t *testing.T) {
	for _, k := range []string{"PORT", "DB_PATH", "JWT_EXPIRES_DAYS", "COOKIE_NAME", "NODE_ENV",
		"REDIS_ADDR", "ADMIN_USERNAMES", "ANSWER_MAX_LEN", "WORD_MAX_LEN", "CLUE_MAX_LEN", "ANSWER_PUNCTUATION"} {
		t.Setenv(k, "")
	}
	c := Load()
	if c.Port != "5175" || c.DBPath != "./data/hang10.db" || c.JWTExpiresDays != 14 || c.CookieName != "hang10_token" {
		t.Fatalf("defaults = %+v", c)
	}
	if c.Production || c.RedisAddr != "" || c.AdminUsernames != nil {
		t.Fatalf("optional settings = %+v", c)
	}
	if !reflect.DeepEqual(c.Rules, puzzle.DefaultRules()) {
		t.Fatalf("rules = %+v", c.Rules)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "8080")
	t.Setenv("NODE_ENV", "production")
	t.Setenv("JWT_EXPIRES_DAYS", "nope")
	t.Setenv("ADMIN_USERNAMES", " alice, ,bob ")
	t.Setenv("WORD_MAX_LEN", "10")
	t.Setenv("ANSWER_PUNCTUATION", "'-")

	c := Load()
	if c.Port != "8080" || !c.Production || c.JWTExpiresDays != 14 {
		t.Fatalf("config = %+v", c)
	}
	if !reflect.DeepEqual(c.AdminUsernames, []string{"alice", "bob"}) {
		t.Fatalf("admins = %q", c.AdminUsernames)
	}
	if c.Rules.MaxWordLen != 10 || c.Rules.Punctuation != "'-" || c.Rules.MaxAnswerLen != 200 {
		t.Fatalf("rules = %+v", c.Rules)
	}
}
