package domain

import (
	"fmt"
	"strings"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
)

// Period is the length of a calendar bucket.
type Period int

const (
	PeriodDay Period = iota + 1
	PeriodWeek
)

func ParsePeriod(s string) (Period, error) {
	switch strings.ToLower(s) {
	case "day", "daily":
		return PeriodDay, nil
	case "week", "weekly", "":
		return PeriodWeek, nil
	default:
		return 0, &InvalidRangeError{Reason: fmt.Sprintf("unsupported period %q", s)}
	}
}

// Days is the inclusive length of the period in days.
func (p Period) Days() int {
	if p == PeriodWeek {
		return 7
	}
	return 1
}

func (p Period) Valid() bool {
	return p == PeriodDay || p == PeriodWeek
}

func (p Period) String() string {
	switch p {
	case PeriodDay:
		return "day"
	case PeriodWeek:
		return "week"
	default:
		return fmt.Sprintf("period(%d)", int(p))
	}
}

// PeriodBoundary is an inclusive [Start, End] calendar bucket.
type PeriodBoundary struct {
	Start civil.Date
	End   civil.Date
}

// CalendarGrid is a contiguous, strictly increasing run of boundaries,
// oldest first, each exactly one period apart.
type CalendarGrid struct {
	Period     Period
	Boundaries []PeriodBoundary
}

func (g CalendarGrid) Len() int { return len(g.Boundaries) }

// First is the start date of the oldest period.
func (g CalendarGrid) First() civil.Date {
	if len(g.Boundaries) == 0 {
		return civil.Date{}
	}
	return g.Boundaries[0].Start
}

// Last is the end date of the newest period.
func (g CalendarGrid) Last() civil.Date {
	if len(g.Boundaries) == 0 {
		return civil.Date{}
	}
	return g.Boundaries[len(g.Boundaries)-1].End
}

// IndexOf returns the index of the period containing d.
func (g CalendarGrid) IndexOf(d civil.Date) (int, bool) {
	if len(g.Boundaries) == 0 || d.Before(g.First()) || d.After(g.Last()) {
		return 0, false
	}
	return d.DaysSince(g.First()) / g.Period.Days(), true
}

// Measure selects which accumulated quantity of a cell a metric reads.
type Measure int

const (
	MeasureCount Measure = iota
	MeasureSum
)

// EntityPeriodCell is the zero-filled aggregate for one (entity, period) pair.
type EntityPeriodCell struct {
	EntityID    string
	PeriodStart civil.Date
	RawCount    int64
	RawMeasure  decimal.Decimal
}

func (c EntityPeriodCell) Value(m Measure) decimal.Decimal {
	if m == MeasureSum {
		return c.RawMeasure
	}
	return decimal.NewFromInt(c.RawCount)
}

// RunningTotal is the cumulative value of an entity up to and including a period.
type RunningTotal struct {
	EntityID        string
	PeriodStart     civil.Date
	CumulativeValue decimal.Decimal
}

// MetricRow is the presentation-ready output unit. Value is already formatted.
type MetricRow struct {
	MetricName string
	PeriodEnd  civil.Date
	Value      string
	SortOrder  int
}

// Tile summarizes a metric for the newest period of a report.
type Tile struct {
	MetricName string
	PeriodEnd  civil.Date
	Value      string
	Trend      string
	Delta      string
	SortOrder  int
}

// EntityRunningTotal is a per-entity running total row for one period.
type EntityRunningTotal struct {
	EntityID        string
	EntityName      string
	PeriodEnd       civil.Date
	PeriodValue     decimal.Decimal
	CumulativeValue decimal.Decimal
}

// JourneyTenant is one entity listed in a JourneyTenantPeriod. Runs is the
// entity's journey run count in that period.
type JourneyTenant struct {
	EntityID   string
	EntityName string
	Runs       int64
}

// JourneyTenantPeriod lists, for one period, the entities that created their
// first journey, the entities that created journeys after their first, and
// the entities that ran journeys.
type JourneyTenantPeriod struct {
	PeriodStart civil.Date
	PeriodEnd   civil.Date
	FirstTime   []JourneyTenant
	Additional  []JourneyTenant
	Running     []JourneyTenant
	TotalRuns   int64
}

type Report struct {
	AsOf     civil.Date
	Period   Period
	Grid     CalendarGrid
	Entities int
	Rows     []MetricRow
	Tiles    []Tile
	Warnings []EmptyResultWarning
}
