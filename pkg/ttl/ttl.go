// Package ttl parses DNS TTL-shaped duration strings (e.g. "3600",
// "1h30m") into seconds, used to normalize operator-supplied time values
// such as an HTTP timeout override.
package ttl

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Parse accepts either a bare integer (seconds) or a Go duration string
// ("1h30m", "90s") and returns the equivalent number of seconds.
func Parse(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("ttl: empty value")
	}

	if secs, err := strconv.ParseInt(s, 10, 64); err == nil {
		return secs, nil
	}

	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("ttl: invalid duration %q: %w", s, err)
	}
	return int64(d.Seconds()), nil
}

// Format renders a second count the way dig-style banners show a TTL.
func Format(seconds int64) string {
	if seconds < 0 {
		return "unknown"
	}
	d := time.Duration(seconds) * time.Second
	return d.String()
}
