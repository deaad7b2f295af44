package stats

import (
	"math"
	"sort"
	"time"
)

const dateKeyLayout = "2006-01-02"

var dayNames = [7]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// SecondsToHours converts whole seconds to fractional hours.
func SecondsToHours(seconds int64) float64 {
	return float64(seconds) / 3600
}

// closed reports whether a log contributes to aggregates. Zero durations are
// treated as open: the legacy "end_time == start_time" convention stored
// still-running logs that way.
func closed(log WorkLog) bool {
	return log.EndTime != nil && log.Duration != nil && *log.Duration > 0
}

// startOfDay truncates t to midnight in its own location.
func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// startOfWeek returns the Sunday midnight at or before t.
func startOfWeek(t time.Time) time.Time {
	d := startOfDay(t)
	return d.AddDate(0, 0, -int(d.Weekday()))
}

// GroupByDay buckets logs into one entry per calendar day in
// [startOfDay(startDate), startOfDay(endDate)] inclusive. Days without work
// stay at zero. TicketCount counts distinct tickets worked that day, not
// logs.
func GroupByDay(logs []WorkLog, startDate, endDate time.Time) []DailyTotal {
	first := startOfDay(startDate)
	last := startOfDay(endDate)

	var totals []DailyTotal
	index := make(map[string]int)
	for day := first; !day.After(last); day = day.AddDate(0, 0, 1) {
		key := day.Format(dateKeyLayout)
		index[key] = len(totals)
		totals = append(totals, DailyTotal{Date: key})
	}

	seenTickets := make(map[string]bool)
	for _, log := range logs {
		if !closed(log) {
			continue
		}

		key := startOfDay(log.StartTime).Format(dateKeyLayout)
		i, ok := index[key]
		if !ok {
			continue
		}

		totals[i].Seconds += *log.Duration
		totals[i].Hours = SecondsToHours(totals[i].Seconds)

		dayTicket := key + "|" + log.TicketID
		if !seenTickets[dayTicket] {
			seenTickets[dayTicket] = true
			totals[i].TicketCount++
		}
	}

	return totals
}

// GetDayOfWeekStats distributes logs over the seven weekdays. The weekday is
// taken from each log's start time. DayCount is the number of logs on that
// weekday; AverageHours is total over count, zero when no logs.
func GetDayOfWeekStats(logs []WorkLog) []DayOfWeekStats {
	result := make([]DayOfWeekStats, 7)
	for i := range result {
		result[i] = DayOfWeekStats{Day: dayNames[i], DayIndex: i}
	}

	for _, log := range logs {
		if !closed(log) {
			continue
		}
		i := int(log.StartTime.Weekday())
		result[i].TotalSeconds += *log.Duration
		result[i].DayCount++
	}

	for i := range result {
		result[i].TotalHours = SecondsToHours(result[i].TotalSeconds)
		if result[i].DayCount > 0 {
			result[i].AverageHours = result[i].TotalHours / float64(result[i].DayCount)
		}
	}

	return result
}

// GetTopProjects ranks projects by total seconds descending and returns at
// most limit entries. Logs without a project attribution are skipped.
// Ties are broken by project id so the ordering is stable across runs.
func GetTopProjects(logs []WorkLog, limit int) []ProjectStats {
	byProject := make(map[string]*ProjectStats)
	seenTickets := make(map[string]bool)

	for _, log := range logs {
		if !closed(log) || log.ProjectID == "" {
			continue
		}

		p, ok := byProject[log.ProjectID]
		if !ok {
			name := log.ProjectName
			if name == "" {
				name = log.TicketTitle
			}
			if name == "" {
				name = "Unknown Project"
			}
			p = &ProjectStats{ProjectID: log.ProjectID, ProjectName: name}
			byProject[log.ProjectID] = p
		}

		p.TotalSeconds += *log.Duration
		p.TotalHours = SecondsToHours(p.TotalSeconds)

		projectTicket := log.ProjectID + "|" + log.TicketID
		if !seenTickets[projectTicket] {
			seenTickets[projectTicket] = true
			p.TicketCount++
		}
	}

	ranked := make([]ProjectStats, 0, len(byProject))
	for _, p := range byProject {
		ranked = append(ranked, *p)
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].TotalSeconds != ranked[j].TotalSeconds {
			return ranked[i].TotalSeconds > ranked[j].TotalSeconds
		}
		return ranked[i].ProjectID < ranked[j].ProjectID
	})

	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked
}

// CalculateSummary derives the headline metrics from the logs and the
// already-computed daily totals. AverageHoursPerDay divides by the number of
// days that actually have work, not the range length.
func CalculateSummary(logs []WorkLog, dailyTotals []DailyTotal) Summary {
	var totalSeconds int64
	completedTickets := make(map[string]bool)
	sessionSeconds := make(map[string]int64)

	for _, log := range logs {
		if !closed(log) {
			continue
		}
		totalSeconds += *log.Duration
		completedTickets[log.TicketID] = true
		sessionSeconds[log.WorkSessionID] += *log.Duration
	}

	activeDays := 0
	longest := DailyTotal{}
	for _, d := range dailyTotals {
		if d.Seconds > 0 {
			activeDays++
		}
		if d.Seconds > longest.Seconds {
			longest = d
		}
	}
	if longest.Date == "" && len(dailyTotals) > 0 {
		longest = dailyTotals[0]
	}

	var avgSession float64
	if len(sessionSeconds) > 0 {
		var sum int64
		for _, s := range sessionSeconds {
			sum += s
		}
		avgSession = float64(sum) / float64(len(sessionSeconds))
	}

	totalHours := SecondsToHours(totalSeconds)
	var avgPerDay float64
	if activeDays > 0 {
		avgPerDay = totalHours / float64(activeDays)
	}

	return Summary{
		TotalHours:                  totalHours,
		TotalSeconds:                totalSeconds,
		AverageHoursPerDay:          avgPerDay,
		TotalTicketsCompleted:       len(completedTickets),
		AverageSessionDuration:      avgSession,
		AverageSessionDurationHours: avgSession / 3600,
		LongestWorkDay:              longest.Date,
		LongestWorkDayHours:         longest.Hours,
	}
}

// PrepareHeatmapData lays the daily totals onto Sunday-aligned week columns
// spanning the padded range. Every week has exactly 7 bins; days outside the
// range or without work carry zero.
func PrepareHeatmapData(dailyTotals []DailyTotal, startDate, endDate time.Time) []HeatmapWeek {
	hoursByDate := make(map[string]float64, len(dailyTotals))
	for _, d := range dailyTotals {
		hoursByDate[d.Date] = d.Hours
	}

	first := startOfWeek(startDate)
	lastSaturday := startOfWeek(endDate).AddDate(0, 0, 6)
	days := int(math.Round(lastSaturday.Sub(first).Hours() / 24))
	totalWeeks := days/7 + 1

	weeks := make([]HeatmapWeek, 0, totalWeeks)
	for weekIndex := 0; weekIndex < totalWeeks; weekIndex++ {
		weekStart := first.AddDate(0, 0, weekIndex*7)
		bins := make([]HeatmapBin, 0, 7)
		var weekTotal float64

		for dayOfWeek := 0; dayOfWeek < 7; dayOfWeek++ {
			key := weekStart.AddDate(0, 0, dayOfWeek).Format(dateKeyLayout)
			hours := hoursByDate[key]
			bins = append(bins, HeatmapBin{Bin: dayOfWeek, Count: hours})
			weekTotal += hours
		}

		weeks = append(weeks, HeatmapWeek{
			Date:  weekStart,
			Value: weekTotal,
			Bin:   weekIndex,
			Bins:  bins,
		})
	}

	return weeks
}
