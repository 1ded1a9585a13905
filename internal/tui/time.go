package tui

import (
	"time"

	"github.com/dustin/go-humanize"

	"github.com/protologic/cargo-protologic/internal/clock"
)

// DefaultClock is the clock RelativeTime measures against.
//
//nolint:gochecknoglobals // replaced in tests
var DefaultClock clock.Clock = clock.RealClock{}

// RelativeTime formats t relative to now, e.g. "3 minutes ago".
func RelativeTime(t time.Time) string {
	return RelativeTimeWith(t, DefaultClock)
}

// RelativeTimeWith formats t relative to c.Now().
func RelativeTimeWith(t time.Time, c clock.Clock) string {
	now := c.Now()
	if now.Sub(t) < time.Second && now.Sub(t) > -time.Second {
		return "just now"
	}
	return humanize.RelTime(t, now, "ago", "from now")
}
