package date

import (
	"fmt"
	"time"
)

// Range is a span of calendar days, both ends included.
type Range struct{ From, To Date }

// NewRange returns the period containing d.
func NewRange(d Date, period Period) Range {
	return Range{From: d.StartOf(period), To: d.EndOf(period)}
}

// Contains reports whether d is within the range.
func (r Range) Contains(d Date) bool { return !d.Before(r.From) && !d.After(r.To) }

// Instants returns the first and last instants covered by the range in loc.
func (r Range) Instants(loc *time.Location) (start, end time.Time) {
	return r.From.Start(loc), r.To.End(loc)
}

func (r Range) String() string { return fmt.Sprintf("%s..%s", r.From, r.To) }
