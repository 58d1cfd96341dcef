package domain

import (
	"fmt"
	"time"
)

// PeriodKind names a symbolic reporting period.
type PeriodKind string

const (
	PeriodToday      PeriodKind = "today"
	PeriodLast3Days  PeriodKind = "3days"
	PeriodLast7Days  PeriodKind = "7days"
	PeriodLast30Days PeriodKind = "30days"
	PeriodWeek       PeriodKind = "week"
	PeriodMonth      PeriodKind = "month"
	PeriodCustom     PeriodKind = "custom"
)

// Period is a half-open, day-aligned interval [Start, End).
type Period struct {
	Start time.Time
	End   time.Time
}

// Contains reports whether t falls inside the period.
func (p *Period) Contains(t time.Time) bool {
	if p == nil {
		return true
	}
	return !t.Before(p.Start) && t.Before(p.End)
}

// Days returns the number of calendar days covered.
func (p *Period) Days() int {
	if p == nil {
		return 0
	}
	return int(p.End.Sub(p.Start).Hours()/24 + 0.5)
}

// ParsePeriodKind validates a period kind string.
func ParsePeriodKind(s string) (PeriodKind, error) {
	switch k := PeriodKind(s); k {
	case PeriodToday, PeriodLast3Days, PeriodLast7Days, PeriodLast30Days,
		PeriodWeek, PeriodMonth, PeriodCustom:
		return k, nil
	default:
		return "", fmt.Errorf("%w: unknown period %q", ErrInvalidPeriod, s)
	}
}

// ResolvePeriod turns a symbolic period into a concrete interval around
// anchor. A custom period missing either bound resolves to nil, which
// callers must treat as "no filter".
func ResolvePeriod(kind PeriodKind, anchor time.Time, customStart, customEnd *time.Time) (*Period, error) {
	today := Day(anchor)
	tomorrow := today.AddDate(0, 0, 1)

	switch kind {
	case PeriodToday:
		return &Period{Start: today, End: tomorrow}, nil
	case PeriodLast3Days:
		return &Period{Start: today.AddDate(0, 0, -2), End: tomorrow}, nil
	case PeriodLast7Days:
		return &Period{Start: today.AddDate(0, 0, -6), End: tomorrow}, nil
	case PeriodLast30Days:
		return &Period{Start: today.AddDate(0, 0, -29), End: tomorrow}, nil
	case PeriodWeek:
		// ISO weeks start on Monday.
		offset := (int(today.Weekday()) + 6) % 7
		start := today.AddDate(0, 0, -offset)
		return &Period{Start: start, End: start.AddDate(0, 0, 7)}, nil
	case PeriodMonth:
		start := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, today.Location())
		return &Period{Start: start, End: start.AddDate(0, 1, 0)}, nil
	case PeriodCustom:
		if customStart == nil || customEnd == nil {
			return nil, nil
		}
		start := Day(*customStart)
		end := Day(*customEnd).AddDate(0, 0, 1)
		if !start.Before(end) {
			return nil, fmt.Errorf("%w: start %s is after end %s", ErrInvalidPeriod,
				customStart.Format(DateLayout), customEnd.Format(DateLayout))
		}
		return &Period{Start: start, End: end}, nil
	default:
		return nil, fmt.Errorf("%w: unknown period %q", ErrInvalidPeriod, kind)
	}
}

// FilterByPeriod keeps the records whose date falls inside period.
// A nil period keeps everything. The input slice is never modified.
func FilterByPeriod[T any](records []T, dateOf func(T) time.Time, period *Period) []T {
	out := make([]T, 0, len(records))
	for _, r := range records {
		if period.Contains(dateOf(r)) {
			out = append(out, r)
		}
	}
	return out
}
