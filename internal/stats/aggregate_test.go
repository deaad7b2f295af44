package stats_test

import (
	"testing"
	"time"

	"github.com/evindahl/punchcard/internal/stats"
	"github.com/stretchr/testify/require"
)

func closedLog(ticketID, sessionID string, start time.Time, duration int64) stats.WorkLog {
	end := start.Add(time.Duration(duration) * time.Second)
	return stats.WorkLog{
		ID:            ticketID + "-" + start.Format(time.RFC3339),
		TicketID:      ticketID,
		UserID:        "u1",
		WorkSessionID: sessionID,
		StartTime:     start,
		EndTime:       &end,
		Duration:      &duration,
	}
}

func withProject(log stats.WorkLog, projectID, projectName string) stats.WorkLog {
	log.ProjectID = projectID
	log.ProjectName = projectName
	return log
}

func day(yyyy int, mm time.Month, dd int) time.Time {
	return time.Date(yyyy, mm, dd, 0, 0, 0, 0, time.UTC)
}

func TestGroupByDay(t *testing.T) {
	start := day(2026, time.January, 22)
	end := day(2026, time.January, 23)

	logs := []stats.WorkLog{
		closedLog("t1", "s1", start.Add(10*time.Hour), 3600),
		closedLog("t2", "s1", end.Add(9*time.Hour), 1800),
	}

	totals := stats.GroupByDay(logs, start, end)
	require.Len(t, totals, 2)

	require.Equal(t, "2026-01-22", totals[0].Date)
	require.Equal(t, int64(3600), totals[0].Seconds)
	require.InDelta(t, 1.0, totals[0].Hours, 1e-9)
	require.Equal(t, 1, totals[0].TicketCount)

	require.Equal(t, "2026-01-23", totals[1].Date)
	require.Equal(t, int64(1800), totals[1].Seconds)
	require.InDelta(t, 0.5, totals[1].Hours, 1e-9)
}

func TestGroupByDay_DistinctTicketsPerDay(t *testing.T) {
	d := day(2026, time.March, 2)
	logs := []stats.WorkLog{
		closedLog("t1", "s1", d.Add(9*time.Hour), 600),
		closedLog("t1", "s1", d.Add(11*time.Hour), 600),
		closedLog("t2", "s1", d.Add(13*time.Hour), 600),
	}

	totals := stats.GroupByDay(logs, d, d)
	require.Len(t, totals, 1)
	require.Equal(t, int64(1800), totals[0].Seconds)
	require.Equal(t, 2, totals[0].TicketCount, "three logs but only two distinct tickets")
}

func TestGroupByDay_SkipsOpenLogsAndOutOfRange(t *testing.T) {
	d := day(2026, time.March, 2)

	open := closedLog("t1", "s1", d.Add(9*time.Hour), 600)
	open.EndTime = nil
	open.Duration = nil

	outside := closedLog("t2", "s1", d.AddDate(0, 0, 5), 600)

	totals := stats.GroupByDay([]stats.WorkLog{open, outside}, d, d.AddDate(0, 0, 1))
	require.Len(t, totals, 2)
	for _, dt := range totals {
		require.Zero(t, dt.Seconds)
		require.Zero(t, dt.TicketCount)
	}
}

func TestGroupByDay_OrderInsensitive(t *testing.T) {
	start := day(2026, time.January, 22)
	end := day(2026, time.January, 24)

	logs := []stats.WorkLog{
		closedLog("t1", "s1", start.Add(8*time.Hour), 3600),
		closedLog("t2", "s2", start.AddDate(0, 0, 1).Add(8*time.Hour), 1800),
		closedLog("t3", "s2", start.AddDate(0, 0, 2).Add(8*time.Hour), 900),
	}
	reversed := []stats.WorkLog{logs[2], logs[1], logs[0]}

	first := stats.GroupByDay(logs, start, end)
	second := stats.GroupByDay(logs, start, end)
	third := stats.GroupByDay(reversed, start, end)

	require.Equal(t, first, second, "same input must yield identical output")
	require.Equal(t, first, third, "input order must not change aggregates")
}

func TestGetDayOfWeekStats(t *testing.T) {
	// 2026-01-22 is a Thursday, 2026-01-25 a Sunday.
	thursday := day(2026, time.January, 22)
	sunday := day(2026, time.January, 25)

	logs := []stats.WorkLog{
		closedLog("t1", "s1", thursday.Add(9*time.Hour), 3600),
		closedLog("t2", "s1", thursday.Add(14*time.Hour), 1800),
		closedLog("t3", "s2", sunday.Add(10*time.Hour), 7200),
	}

	dow := stats.GetDayOfWeekStats(logs)
	require.Len(t, dow, 7)

	require.Equal(t, "Sun", dow[0].Day)
	require.Equal(t, int64(7200), dow[0].TotalSeconds)
	require.Equal(t, 1, dow[0].DayCount)
	require.InDelta(t, 2.0, dow[0].AverageHours, 1e-9)

	require.Equal(t, "Thu", dow[4].Day)
	require.Equal(t, int64(5400), dow[4].TotalSeconds)
	require.Equal(t, 2, dow[4].DayCount)
	require.InDelta(t, 0.75, dow[4].AverageHours, 1e-9)

	// Untouched weekdays stay at zero with no division by zero.
	require.Zero(t, dow[1].DayCount)
	require.Zero(t, dow[1].AverageHours)
}

func TestGetTopProjects(t *testing.T) {
	d := day(2026, time.February, 9)

	logs := []stats.WorkLog{
		withProject(closedLog("t1", "s1", d.Add(9*time.Hour), 3600), "p1", "Backend"),
		withProject(closedLog("t2", "s1", d.Add(11*time.Hour), 1800), "p1", "Backend"),
		withProject(closedLog("t3", "s1", d.Add(13*time.Hour), 7200), "p2", "Frontend"),
		// No project attribution: skipped.
		closedLog("t4", "s1", d.Add(15*time.Hour), 900),
	}

	top := stats.GetTopProjects(logs, 10)
	require.Len(t, top, 2)

	require.Equal(t, "p2", top[0].ProjectID)
	require.Equal(t, "Frontend", top[0].ProjectName)
	require.Equal(t, int64(7200), top[0].TotalSeconds)
	require.Equal(t, 1, top[0].TicketCount)

	require.Equal(t, "p1", top[1].ProjectID)
	require.Equal(t, int64(5400), top[1].TotalSeconds)
	require.Equal(t, 2, top[1].TicketCount)
}

func TestGetTopProjects_Limit(t *testing.T) {
	d := day(2026, time.February, 9)
	logs := []stats.WorkLog{
		withProject(closedLog("t1", "s1", d, 300), "p1", "A"),
		withProject(closedLog("t2", "s1", d, 200), "p2", "B"),
		withProject(closedLog("t3", "s1", d, 100), "p3", "C"),
	}

	top := stats.GetTopProjects(logs, 2)
	require.Len(t, top, 2)
	require.Equal(t, "p1", top[0].ProjectID)
	require.Equal(t, "p2", top[1].ProjectID)
}

func TestCalculateSummary(t *testing.T) {
	start := day(2026, time.January, 22)
	end := day(2026, time.January, 23)

	logs := []stats.WorkLog{
		closedLog("t1", "s1", start.Add(10*time.Hour), 3600),
		closedLog("t2", "s2", end.Add(9*time.Hour), 1800),
	}
	totals := stats.GroupByDay(logs, start, end)

	summary := stats.CalculateSummary(logs, totals)
	require.InDelta(t, 1.5, summary.TotalHours, 1e-9)
	require.InDelta(t, 0.75, summary.AverageHoursPerDay, 1e-9)
	require.Equal(t, 2, summary.TotalTicketsCompleted)
	require.Equal(t, "2026-01-22", summary.LongestWorkDay)
	require.InDelta(t, 1.0, summary.LongestWorkDayHours, 1e-9)
	// Two sessions of 3600 and 1800 seconds.
	require.InDelta(t, 2700, summary.AverageSessionDuration, 1e-9)
	require.InDelta(t, 0.75, summary.AverageSessionDurationHours, 1e-9)
}

func TestCalculateSummary_Empty(t *testing.T) {
	totals := stats.GroupByDay(nil, day(2026, time.January, 1), day(2026, time.January, 7))
	summary := stats.CalculateSummary(nil, totals)

	require.Zero(t, summary.TotalHours)
	require.Zero(t, summary.AverageHoursPerDay)
	require.Zero(t, summary.TotalTicketsCompleted)
	require.Zero(t, summary.AverageSessionDuration)
	require.Zero(t, summary.LongestWorkDayHours)
}

func TestPrepareHeatmapData(t *testing.T) {
	// 2026-01-22 (Thu) .. 2026-02-04 (Wed) pads to Sun 2026-01-18 .. Sat 2026-02-07.
	start := day(2026, time.January, 22)
	end := day(2026, time.February, 4)

	logs := []stats.WorkLog{
		closedLog("t1", "s1", start.Add(9*time.Hour), 7200),
	}
	totals := stats.GroupByDay(logs, start, end)

	weeks := stats.PrepareHeatmapData(totals, start, end)
	require.Len(t, weeks, 3)

	for i, w := range weeks {
		require.Equal(t, i, w.Bin)
		require.Len(t, w.Bins, 7)
		require.Equal(t, time.Sunday, w.Date.Weekday())
	}

	// The single worked day is Thursday (bin 4) of the first week.
	require.InDelta(t, 2.0, weeks[0].Bins[4].Count, 1e-9)
	require.InDelta(t, 2.0, weeks[0].Value, 1e-9)
	require.Zero(t, weeks[1].Value)
	require.Zero(t, weeks[2].Value)
}
