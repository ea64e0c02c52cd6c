package domain

import "time"

// TimeSpan is a duration expressed in calendar units.
type TimeSpan struct {
	Value int
	Unit  DurationUnit
}

// AddTo advances t by the span using calendar arithmetic, so "1 month"
// lands on the same day-of-month rather than a fixed number of hours.
func (s TimeSpan) AddTo(t time.Time) time.Time {
	switch s.Unit {
	case UnitDays:
		return t.AddDate(0, 0, s.Value)
	case UnitWeeks:
		return t.AddDate(0, 0, s.Value*7)
	case UnitMonths:
		return t.AddDate(0, s.Value, 0)
	case UnitYears:
		return t.AddDate(s.Value, 0, 0)
	default:
		return t
	}
}

// IsZero reports whether the span contributes no time.
func (s TimeSpan) IsZero() bool { return s.Value <= 0 }

// Timeline is the agreed term: a start date, a duration, and a grace
// period that shifts payment due dates past each billing boundary.
type Timeline struct {
	Start    time.Time
	Duration TimeSpan
	Grace    TimeSpan
}

// End returns the exclusive end of the term.
func (tl Timeline) End() time.Time {
	return tl.Duration.AddTo(tl.Start)
}

// Valid reports whether the timeline describes a usable term.
func (tl Timeline) Valid() bool {
	return !tl.Start.IsZero() && tl.Duration.Value > 0 && tl.Duration.Unit != ""
}
