package stats

import (
	"context"
	"fmt"
	"time"
)

// WorkLogSource fetches a user's work logs enriched with ticket and project
// attribution for start times in [start, end).
type WorkLogSource interface {
	ListEnriched(ctx context.Context, userID string, start, end time.Time) ([]WorkLog, error)
}

// Service produces the aggregated statistics payload for a user and date
// range. It does not retry failed fetches; the caller surfaces them.
type Service struct {
	source           WorkLogSource
	defaultRangeDays int
	topProjectsLimit int
}

// NewService creates a reporting service. defaultRangeDays is the trailing
// window used when no start date is given; topProjectsLimit caps the project
// ranking.
func NewService(source WorkLogSource, defaultRangeDays, topProjectsLimit int) *Service {
	return &Service{
		source:           source,
		defaultRangeDays: defaultRangeDays,
		topProjectsLimit: topProjectsLimit,
	}
}

// Report fetches the user's logs and runs every aggregation. Zero start/end
// values default to the trailing window ending now. The end date is widened
// to the end of its calendar day and applied as an exclusive upper bound.
func (s *Service) Report(ctx context.Context, userID string, start, end time.Time) (*Report, error) {
	now := time.Now()

	if end.IsZero() {
		end = now
	}
	// Upper bound: first instant after the end date's calendar day.
	endExclusive := startOfDay(end).AddDate(0, 0, 1)

	if start.IsZero() {
		start = now.AddDate(0, 0, -s.defaultRangeDays)
	}
	start = startOfDay(start)

	logs, err := s.source.ListEnriched(ctx, userID, start, endExclusive)
	if err != nil {
		return nil, fmt.Errorf("fetching work logs for report: %w", err)
	}

	dailyTotals := GroupByDay(logs, start, end)

	return &Report{
		Summary:        CalculateSummary(logs, dailyTotals),
		DailyTotals:    dailyTotals,
		DayOfWeekStats: GetDayOfWeekStats(logs),
		TopProjects:    GetTopProjects(logs, s.topProjectsLimit),
		HeatmapData:    PrepareHeatmapData(dailyTotals, start, end),
		DateRange:      DateRange{Start: start, End: endExclusive},
	}, nil
}
