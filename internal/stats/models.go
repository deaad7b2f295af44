package stats

import "time"

// WorkLog is the reporting view of a work log: the raw row joined with its
// ticket and project for attribution. Open logs (nil EndTime/Duration) are
// carried but excluded from every aggregate.
type WorkLog struct {
	ID            string     `json:"id"`
	TicketID      string     `json:"ticketId"`
	UserID        string     `json:"userId"`
	WorkSessionID string     `json:"workSessionId"`
	StartTime     time.Time  `json:"startTime"`
	EndTime       *time.Time `json:"endTime"`
	Duration      *int64     `json:"duration"`
	Description   *string    `json:"description,omitempty"`
	TicketTitle   string     `json:"ticketTitle"`
	ProjectID     string     `json:"projectId"`
	ProjectName   string     `json:"projectName"`
}

// DailyTotal is one calendar day's accumulated work.
type DailyTotal struct {
	Date        string  `json:"date"` // YYYY-MM-DD
	Hours       float64 `json:"hours"`
	Seconds     int64   `json:"seconds"`
	TicketCount int     `json:"ticketCount"` // distinct tickets worked that day
}

// DayOfWeekStats is the accumulated work for one weekday across the range.
type DayOfWeekStats struct {
	Day          string  `json:"day"`
	DayIndex     int     `json:"dayIndex"` // Sunday = 0 .. Saturday = 6
	AverageHours float64 `json:"averageHours"`
	TotalHours   float64 `json:"totalHours"`
	TotalSeconds int64   `json:"totalSeconds"`
	DayCount     int     `json:"dayCount"` // number of logs on this weekday
}

// ProjectStats ranks one project by total time spent.
type ProjectStats struct {
	ProjectID    string  `json:"projectId"`
	ProjectName  string  `json:"projectName"`
	TotalHours   float64 `json:"totalHours"`
	TotalSeconds int64   `json:"totalSeconds"`
	TicketCount  int     `json:"ticketCount"` // distinct tickets in the project
}

// Summary is the headline metrics block of the statistics payload.
type Summary struct {
	TotalHours                  float64 `json:"totalHours"`
	TotalSeconds                int64   `json:"totalSeconds"`
	AverageHoursPerDay          float64 `json:"averageHoursPerDay"`
	TotalTicketsCompleted       int     `json:"totalTicketsCompleted"`
	AverageSessionDuration      float64 `json:"averageSessionDuration"` // seconds
	AverageSessionDurationHours float64 `json:"averageSessionDurationHours"`
	LongestWorkDay              string  `json:"longestWorkDay"`
	LongestWorkDayHours         float64 `json:"longestWorkDayHours"`
}

// HeatmapBin is one day cell within a heatmap week; Count carries hours.
type HeatmapBin struct {
	Bin   int     `json:"bin"` // day of week, Sunday = 0
	Count float64 `json:"count"`
}

// HeatmapWeek is one Sunday-aligned week column of the calendar heatmap.
type HeatmapWeek struct {
	Date  time.Time    `json:"date"` // week start (Sunday)
	Value float64      `json:"value"`
	Bin   int          `json:"bin"` // week index within the range
	Bins  []HeatmapBin `json:"bins"`
}

// Report is the full statistics payload.
type Report struct {
	Summary        Summary          `json:"summary"`
	DailyTotals    []DailyTotal     `json:"dailyTotals"`
	DayOfWeekStats []DayOfWeekStats `json:"dayOfWeekStats"`
	TopProjects    []ProjectStats   `json:"topProjects"`
	HeatmapData    []HeatmapWeek    `json:"heatmapData"`
	DateRange      DateRange        `json:"dateRange"`
}

// DateRange echoes the effective reporting window.
type DateRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}
