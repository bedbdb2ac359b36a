// Package uiutil holds small formatting helpers shared by templates and handlers.
package uiutil

import (
	"strconv"
	"strings"
	"time"
)

const (
	FriendlyDateTimeLayout = "Jan 2, 2006 3:04 PM"
	MonthYearLayout        = "January 2006"
)

// FriendlyRelativeTime describes how long ago t occurred relative to now.
// Times in the future are reported as "just now".
func FriendlyRelativeTime(t, now time.Time) string {
	if t.IsZero() {
		return ""
	}
	diff := now.Sub(t)
	switch {
	case diff < time.Minute:
		return "just now"
	case diff < time.Hour:
		return plural(int(diff.Minutes()), "minute") + " ago"
	case diff < 24*time.Hour:
		return plural(int(diff.Hours()), "hour") + " ago"
	case diff < 7*24*time.Hour:
		return plural(int(diff.Hours()/24), "day") + " ago"
	default:
		return FormatFriendlyDateTime(t)
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return "1 " + unit
	}
	return strconv.Itoa(n) + " " + unit + "s"
}

// FormatFriendlyDateTime returns a consistent local timestamp.
func FormatFriendlyDateTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Local().Format(FriendlyDateTimeLayout)
}

// MemberSince formats a sign-up date as "January 2024".
func MemberSince(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(MonthYearLayout)
}

// TruncateWithEllipsis shortens text to limit runes and appends an ellipsis when truncated.
func TruncateWithEllipsis(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	if limit <= 1 {
		return "…"
	}
	return strings.TrimSpace(string(runes[:limit-1])) + "…"
}
