// Package timeutil provides time formatting utilities for CLI output.
package timeutil

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// LocalTimeFormat is the format used for displaying local times in CLI output.
// Uses Go's reference time: Mon Jan 2 15:04:05 2006.
const LocalTimeFormat = "Mon Jan 2 15:04:05 2006"

// FormatUptime converts a duration string to a human-readable format.
// Input is expected to be a Go duration string (e.g., "72h30m15s").
// Returns a formatted string like "3d 0h 30m 15s" or the original string if parsing fails.
func FormatUptime(uptime string) string {
	d, err := time.ParseDuration(uptime)
	if err != nil {
		return uptime
	}

	days := int(d.Hours()) / 24
	hours := int(d.Hours()) % 24
	minutes := int(d.Minutes()) % 60
	seconds := int(d.Seconds()) % 60

	if days > 0 {
		return fmt.Sprintf("%dd %dh %dm %ds", days, hours, minutes, seconds)
	}
	if hours > 0 {
		return fmt.Sprintf("%dh %dm %ds", hours, minutes, seconds)
	}
	if minutes > 0 {
		return fmt.Sprintf("%dm %ds", minutes, seconds)
	}
	return fmt.Sprintf("%ds", seconds)
}

// FormatTime parses an RFC3339 timestamp and returns a local time string.
// Returns the original string if parsing fails.
func FormatTime(timestamp string) string {
	t, err := time.Parse(time.RFC3339, timestamp)
	if err != nil {
		return timestamp
	}
	return t.Local().Format(LocalTimeFormat)
}

// DefaultEpochFormat is dig-style, UTC, space-separated.
const DefaultEpochFormat = "2006-01-02 15:04:05"

// relativeUnits maps a trailing -A/-B suffix letter to its duration, for
// dnsdbq-style relative time arguments like "-1w" or "3600s".
var relativeUnits = map[byte]time.Duration{
	's': time.Second,
	'm': time.Minute,
	'h': time.Hour,
	'd': 24 * time.Hour,
	'w': 7 * 24 * time.Hour,
	'y': 365 * 24 * time.Hour,
}

// ParseTimeArg parses a -A/-B command-line argument into absolute seconds
// since epoch. Accepted forms: a bare integer (already absolute epoch
// seconds), an RFC3339 timestamp, or a relative offset from now such as
// "-1w" or "3600s" (the leading "-" is optional: every relative offset
// moves into the past, specifying how long ago a fence begins).
func ParseTimeArg(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("timeutil: empty time argument")
	}

	if seconds, err := strconv.ParseInt(s, 10, 64); err == nil {
		return seconds, nil
	}

	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.Unix(), nil
	}

	if len(s) >= 2 {
		unit, ok := relativeUnits[s[len(s)-1]]
		if ok {
			numeric := strings.TrimPrefix(s[:len(s)-1], "-")
			n, err := strconv.ParseInt(numeric, 10, 64)
			if err == nil {
				return time.Now().Add(-time.Duration(n) * unit).Unix(), nil
			}
		}
	}

	return 0, fmt.Errorf("timeutil: cannot parse time argument %q", s)
}

// FormatEpoch renders seconds-since-epoch in one of the two on-output
// timestamp styles a pdnsq invocation may select: the default
// "YYYY-MM-DD HH:MM:SS" (UTC) or, when iso is true, RFC3339 ("Z" suffix).
// A zero input (absent timestamp) renders as an empty string.
func FormatEpoch(seconds int64, iso bool) string {
	if seconds == 0 {
		return ""
	}
	t := time.Unix(seconds, 0).UTC()
	if iso {
		return t.Format(time.RFC3339)
	}
	return t.Format(DefaultEpochFormat)
}
