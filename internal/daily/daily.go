// internal/daily/daily.go
//
// Calendar-date handling for the daily game.
//
// Every date key in the system comes from a Calendar so that comparisons
// always use one timezone (the configured game timezone, local by default).

package daily

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"time"
)

const layout = "2006-01-02"

// Calendar turns instants into YYYY-MM-DD keys in a single location.
type Calendar struct {
	Loc *time.Location
	Now func() time.Time // nil means time.Now
}

// NewCalendar returns a Calendar for loc (nil means time.Local).
func NewCalendar(loc *time.Location) Calendar {
	if loc == nil {
		loc = time.Local
	}
	return Calendar{Loc: loc}
}

// LoadCalendar resolves an IANA zone name. "" and "Local" use time.Local.
func LoadCalendar(name string) (Calendar, error) {
	if name == "" || name == "Local" {
		return NewCalendar(time.Local), nil
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return Calendar{}, fmt.Errorf("load timezone %q: %w", name, err)
	}
	return NewCalendar(loc), nil
}

// DateKey returns YYYY-MM-DD for t in the calendar's location.
func (c Calendar) DateKey(t time.Time) string {
	return t.In(c.location()).Format(layout)
}

// Today returns the current date key.
func (c Calendar) Today() string {
	now := time.Now
	if c.Now != nil {
		now = c.Now
	}
	return c.DateKey(now())
}

// Parse validates a date key and returns midnight of that day in the
// calendar's location.
func (c Calendar) Parse(date string) (time.Time, error) {
	return time.ParseInLocation(layout, date, c.location())
}

// MonthRange returns the first day of month and the first day of the next
// month as date keys, suitable for a half-open range query.
func (c Calendar) MonthRange(year int, month time.Month) (from, to string) {
	start := time.Date(year, month, 1, 0, 0, 0, 0, c.location())
	return start.Format(layout), start.AddDate(0, 1, 0).Format(layout)
}

func (c Calendar) location() *time.Location {
	if c.Loc == nil {
		return time.Local
	}
	return c.Loc
}

// FallbackIndex returns a deterministic index for a date key using
// HMAC(salt, YYYY-MM-DD) % n.
func FallbackIndex(date, salt string, n int) int {
	if n <= 0 {
		return 0
	}
	h := hmac.New(sha256.New, []byte(salt))
	h.Write([]byte(date))
	sum := h.Sum(nil)
	// take first 8 bytes to uint64 for modulus distribution
	v := binary.BigEndian.Uint64(sum[:8])
	return int(v % uint64(n))
}
