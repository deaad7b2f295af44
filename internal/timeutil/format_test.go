package timeutil

import (
	"testing"
	"time"
)

func TestFormatClock(t *testing.T) {
	tests := []struct {
		seconds int64
		want    string
	}{
		{0, "00:00"},
		{59, "00:59"},
		{60, "01:00"},
		{65, "01:05"},
		{3599, "59:59"},
		{3600, "01:00:00"},
		{3661, "01:01:01"},
		{86399, "23:59:59"},
	}
	for _, tt := range tests {
		if got := FormatClock(tt.seconds); got != tt.want {
			t.Errorf("FormatClock(%d) = %q, want %q", tt.seconds, got, tt.want)
		}
	}
}

func TestFormatDurationHuman(t *testing.T) {
	tests := []struct {
		seconds int64
		want    string
	}{
		{0, "0 sec"},
		{45, "45 sec"},
		{60, "1 min 0 sec"},
		{1976, "32 min 56 sec"},
		{3600, "1 hr 0 min 0 sec"},
		{5025, "1 hr 23 min 45 sec"},
	}
	for _, tt := range tests {
		if got := FormatDurationHuman(tt.seconds); got != tt.want {
			t.Errorf("FormatDurationHuman(%d) = %q, want %q", tt.seconds, got, tt.want)
		}
	}
}

func TestFormatDurationShort(t *testing.T) {
	tests := []struct {
		seconds int64
		want    string
	}{
		{0, "0m"},
		{59, "0m"},
		{60, "1m"},
		{9000, "2h 30m"},
		{7200, "2h"},
	}
	for _, tt := range tests {
		if got := FormatDurationShort(tt.seconds); got != tt.want {
			t.Errorf("FormatDurationShort(%d) = %q, want %q", tt.seconds, got, tt.want)
		}
	}
}

func TestFormatDates(t *testing.T) {
	ts := time.Date(2026, time.January, 26, 14, 49, 30, 0, time.UTC)

	if got := FormatDate(ts); got != "01/26/2026" {
		t.Errorf("FormatDate = %q", got)
	}
	if got := FormatDateLong(ts); got != "Monday, Jan 26" {
		t.Errorf("FormatDateLong = %q", got)
	}
	if got := FormatTime(ts); got != "2:49 PM" {
		t.Errorf("FormatTime = %q", got)
	}
}

func TestFormatDateTimeRange(t *testing.T) {
	start := time.Date(2026, time.January, 22, 14, 49, 0, 0, time.UTC)
	end := time.Date(2026, time.January, 22, 15, 22, 0, 0, time.UTC)

	want := "Jan 22 2:49 PM - 3:22 PM"
	if got := FormatDateTimeRange(start, end); got != want {
		t.Errorf("FormatDateTimeRange = %q, want %q", got, want)
	}
}
