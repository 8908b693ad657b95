package util //nolint:revive // package name util hosts shared formatting helpers used by the CLI

import "time"

// FormatDuration formats a delivery duration for display, handling edge cases.
// Returns "-" for zero or negative durations, truncates to milliseconds for readability.
func FormatDuration(d time.Duration) string {
	switch {
	case d <= 0:
		return "-"
	case d < time.Millisecond:
		return d.String()
	default:
		return d.Truncate(time.Millisecond).String()
	}
}

// OrDash returns s, or "-" when s is empty.
func OrDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}
