// Package timeutil provides display formatting for durations and dates
// as rendered by the timeline and work-session views.
package timeutil

import (
	"fmt"
	"strings"
	"time"
)

// FormatClock renders whole seconds as HH:MM:SS, or MM:SS when under an hour.
func FormatClock(seconds int64) string {
	hours := seconds / 3600
	minutes := (seconds % 3600) / 60
	secs := seconds % 60

	if hours > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, secs)
	}
	return fmt.Sprintf("%02d:%02d", minutes, secs)
}

// FormatDurationHuman renders seconds as e.g. "1 hr 32 min 56 sec",
// dropping leading zero units.
func FormatDurationHuman(seconds int64) string {
	hours := seconds / 3600
	minutes := (seconds % 3600) / 60
	secs := seconds % 60

	switch {
	case hours > 0:
		return fmt.Sprintf("%d hr %d min %d sec", hours, minutes, secs)
	case minutes > 0:
		return fmt.Sprintf("%d min %d sec", minutes, secs)
	default:
		return fmt.Sprintf("%d sec", secs)
	}
}

// FormatDurationShort renders seconds as e.g. "2h 30m"; zero-minute results
// collapse to "0m".
func FormatDurationShort(seconds int64) string {
	hours := seconds / 3600
	minutes := (seconds % 3600) / 60

	var parts []string
	if hours > 0 {
		parts = append(parts, fmt.Sprintf("%dh", hours))
	}
	if minutes > 0 {
		parts = append(parts, fmt.Sprintf("%dm", minutes))
	}
	if len(parts) == 0 {
		return "0m"
	}
	return strings.Join(parts, " ")
}

// FormatDate renders MM/DD/YYYY.
func FormatDate(t time.Time) string {
	return t.Format("01/02/2006")
}

// FormatDateLong renders e.g. "Monday, Jan 26".
func FormatDateLong(t time.Time) string {
	return t.Format("Monday, Jan 2")
}

// FormatTime renders a 12-hour clock time, e.g. "2:49 PM".
func FormatTime(t time.Time) string {
	return t.Format("3:04 PM")
}

// FormatDateTimeRange renders e.g. "Jan 22 2:49 PM - 3:22 PM". The date is
// taken from the start; ranges crossing midnight keep the start date.
func FormatDateTimeRange(start, end time.Time) string {
	return fmt.Sprintf("%s %s - %s",
		start.Format("Jan 2"),
		start.Format("3:04 PM"),
		end.Format("3:04 PM"),
	)
}
