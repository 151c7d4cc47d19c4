package rollup

import (
	"fmt"
	"time"

	"activation-metrics-service/internal/metrics/core/domain"

	"cloud.google.com/go/civil"
)

// WeekStartsOn is the single start-of-week convention used for every
// comparison between dates and weekly periods.
const WeekStartsOn = time.Monday

func weekday(d civil.Date) time.Weekday {
	return d.In(time.UTC).Weekday()
}

// PeriodStart returns the first day of the period that contains d.
func PeriodStart(d civil.Date, p domain.Period) civil.Date {
	if p != domain.PeriodWeek {
		return d
	}
	offset := (int(weekday(d)) - int(WeekStartsOn) + 7) % 7
	return d.AddDays(-offset)
}

// BuildCalendar generates count periods ending with the period that contains
// rangeEnd, oldest first. It does not look at any data.
func BuildCalendar(p domain.Period, rangeEnd civil.Date, count int) (domain.CalendarGrid, error) {
	if count <= 0 {
		return domain.CalendarGrid{}, &domain.InvalidRangeError{Reason: fmt.Sprintf("count must be positive, got %d", count)}
	}
	if !p.Valid() {
		return domain.CalendarGrid{}, &domain.InvalidRangeError{Reason: fmt.Sprintf("unsupported period %s", p)}
	}
	if !rangeEnd.IsValid() {
		return domain.CalendarGrid{}, &domain.InvalidRangeError{Reason: fmt.Sprintf("invalid range end %q", rangeEnd.String())}
	}

	step := p.Days()
	first := PeriodStart(rangeEnd, p).AddDays(-(count - 1) * step)

	boundaries := make([]domain.PeriodBoundary, count)
	for i := range boundaries {
		start := first.AddDays(i * step)
		boundaries[i] = domain.PeriodBoundary{
			Start: start,
			End:   start.AddDays(step - 1),
		}
	}

	return domain.CalendarGrid{Period: p, Boundaries: boundaries}, nil
}

// DailyGrid returns the daily grid covering exactly the same days as g.
func DailyGrid(g domain.CalendarGrid) (domain.CalendarGrid, error) {
	if g.Len() == 0 {
		return domain.CalendarGrid{}, &domain.InvalidRangeError{Reason: "empty calendar grid"}
	}
	if g.Period == domain.PeriodDay {
		return g, nil
	}
	days := g.Last().DaysSince(g.First()) + 1
	return BuildCalendar(domain.PeriodDay, g.Last(), days)
}
