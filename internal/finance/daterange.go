package finance

import (
	"time"

	"finance4all/internal/models"
)

// Period is an inclusive time window. End is the last instant that still
// belongs to the period.
type Period struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Contains reports whether t falls inside the period, bounds included.
func (p Period) Contains(t time.Time) bool {
	return !t.Before(p.Start) && !t.After(p.End)
}

// Clip narrows the period to [from, to]. Nil bounds are ignored. The result
// may be empty (End before Start) when the windows do not overlap.
func (p Period) Clip(from, to *time.Time) Period {
	out := p
	if from != nil && from.After(out.Start) {
		out.Start = *from
	}
	if to != nil && to.Before(out.End) {
		out.End = *to
	}
	return out
}

// Empty reports whether the period contains no instants.
func (p Period) Empty() bool {
	return p.End.Before(p.Start)
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func endOfDay(t time.Time) time.Time {
	return startOfDay(t).AddDate(0, 0, 1).Add(-time.Nanosecond)
}

// between builds the period that starts at start and ends just before next.
func between(start, next time.Time) Period {
	return Period{Start: start, End: next.Add(-time.Nanosecond)}
}

// MonthRange returns the calendar month containing t.
func MonthRange(t time.Time) Period {
	start := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
	return between(start, start.AddDate(0, 1, 0))
}

// YearToDate returns January 1st of t's year through the end of t's day.
func YearToDate(t time.Time) Period {
	start := time.Date(t.Year(), time.January, 1, 0, 0, 0, 0, t.Location())
	return Period{Start: start, End: endOfDay(t)}
}

// TrailingYear returns the twelve months ending with t's day.
func TrailingYear(t time.Time) Period {
	end := endOfDay(t)
	start := startOfDay(t).AddDate(-1, 0, 1)
	return Period{Start: start, End: end}
}

// BudgetPeriodRange returns the budget window of the given period type that
// contains t. Weeks start on Monday.
func BudgetPeriodRange(period models.BudgetPeriod, t time.Time) Period {
	switch period {
	case models.BudgetPeriodWeekly:
		offset := (int(t.Weekday()) + 6) % 7
		start := startOfDay(t).AddDate(0, 0, -offset)
		return between(start, start.AddDate(0, 0, 7))
	case models.BudgetPeriodQuarterly:
		firstMonth := time.Month((int(t.Month())-1)/3*3 + 1)
		start := time.Date(t.Year(), firstMonth, 1, 0, 0, 0, 0, t.Location())
		return between(start, start.AddDate(0, 3, 0))
	case models.BudgetPeriodYearly:
		start := time.Date(t.Year(), time.January, 1, 0, 0, 0, 0, t.Location())
		return between(start, start.AddDate(1, 0, 0))
	default:
		return MonthRange(t)
	}
}
