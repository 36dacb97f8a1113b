package funding

import (
	"fmt"
	"time"
)

// =============================================================================
// DATE - Calendar day (UTC, no time of day)
// =============================================================================

const DateLayout = "2006-01-02"

type Date struct {
	Time time.Time
}

func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates t to its calendar day in t's location.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), t.Month(), t.Day())
}

// Today reads the wall clock. Only callers at the outer boundary (HTTP
// handlers, CLI) use it; the engine always receives the date as input.
func Today() Date {
	return DateOf(time.Now())
}

// ParseDate parses an ISO yyyy-mm-dd string. Trailing time components such
// as "2024-07-01T00:00:00Z" are tolerated by reading the first ten bytes.
func ParseDate(s string) (Date, error) {
	if len(s) > len(DateLayout) && s[len(DateLayout)] == 'T' {
		s = s[:len(DateLayout)]
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, &DateError{Value: s, Err: err}
	}
	return Date{Time: t}, nil
}

func MustParseDate(s string) Date {
	d, err := ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func (d Date) Year() int             { return d.Time.Year() }
func (d Date) Month() time.Month     { return d.Time.Month() }
func (d Date) Day() int              { return d.Time.Day() }
func (d Date) IsZero() bool          { return d.Time.IsZero() }
func (d Date) Before(o Date) bool    { return d.Time.Before(o.Time) }
func (d Date) After(o Date) bool     { return d.Time.After(o.Time) }
func (d Date) Equal(o Date) bool     { return d.Time.Equal(o.Time) }
func (d Date) CalendarMonth() Month  { return Month{Year: d.Year(), Month: d.Month()} }
func (d Date) String() string        { return d.Time.Format(DateLayout) }

// =============================================================================
// MONTH - Calendar month, the simulation's unit of time
// =============================================================================

type Month struct {
	Year  int
	Month time.Month
}

// AddMonths advances m by n months (n may be negative).
func (m Month) AddMonths(n int) Month {
	idx := m.index() + n
	return Month{Year: floorDiv(idx, 12), Month: time.Month(floorMod(idx, 12) + 1)}
}

// Day returns the date in m at the given day of month, clamped to the last
// valid day (day 31 in April becomes April 30, Feb 29 becomes Feb 28 in
// non-leap years).
func (m Month) Day(day int) Date {
	if last := m.LastDay(); day > last {
		day = last
	}
	if day < 1 {
		day = 1
	}
	return NewDate(m.Year, m.Month, day)
}

func (m Month) LastDay() int {
	return time.Date(m.Year, m.Month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

func (m Month) String() string {
	return fmt.Sprintf("%04d-%02d", m.Year, int(m.Month))
}

func (m Month) index() int { return m.Year*12 + int(m.Month) - 1 }

// MonthsBetween returns the signed number of calendar months from ref's
// month to d's month, ignoring the day of month.
func MonthsBetween(ref, d Date) int {
	return d.CalendarMonth().index() - ref.CalendarMonth().index()
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

func floorMod(a, b int) int {
	return a - floorDiv(a, b)*b
}
