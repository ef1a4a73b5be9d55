package core

import "time"

const (
	PeriodThisMonth   Period = "thisMonth"
	PeriodLastMonth   Period = "lastMonth"
	PeriodLast3Months Period = "last3Months"
	PeriodThisYear    Period = "thisYear"
	PeriodCustom      Period = "custom"
)

type (
	// Period is a symbolic token selecting a relative date window.
	Period string

	// DateRange is an inclusive [Start, End] window. A zero Date on either
	// side means unbounded on that side.
	DateRange struct {
		Start Date
		End   Date
	}
)

// Unbounded reports whether the range imposes no limits at all.
func (r DateRange) Unbounded() bool {
	return r.Start.IsZero() && r.End.IsZero()
}

// ResolvePeriod maps a period token to a concrete inclusive date range
// anchored at now. The custom token returns an unbounded range so that
// caller-supplied explicit bounds pass through untouched. Unrecognized
// tokens resolve like thisMonth.
func ResolvePeriod(p Period, now time.Time) DateRange {
	year, month := now.Year(), int(now.Month())
	switch p {
	case PeriodLastMonth:
		return monthRange(year, month-1)
	case PeriodLast3Months:
		r := monthRange(year, month-2)
		r.End = lastDayOfMonth(year, month)
		return r
	case PeriodThisYear:
		return DateRange{
			Start: NewDate(year, 1, 1),
			End:   NewDate(year, 12, 31),
		}
	case PeriodCustom:
		return DateRange{}
	default:
		return monthRange(year, month)
	}
}

// monthRange returns the inclusive range covering one calendar month.
// Out-of-range months roll over, so monthRange(2024, 0) is December 2023.
func monthRange(year, month int) DateRange {
	start := NewDate(year, month, 1)
	return DateRange{
		Start: start,
		End:   lastDayOfMonth(start.Year(), start.Month()),
	}
}

// lastDayOfMonth exploits day zero of the following month.
func lastDayOfMonth(year, month int) Date {
	return NewDate(year, month+1, 0)
}
