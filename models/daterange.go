package models

import (
	"fmt"
	"time"
)

const dateLayout = "2006-01-02"

// DateRange is a half-open [CheckIn, CheckOut) calendar interval.
type DateRange struct {
	CheckIn  time.Time
	CheckOut time.Time
}

// ParseDateRange parses YYYY-MM-DD boundaries and validates ordering.
func ParseDateRange(checkIn, checkOut string) (DateRange, error) {
	start, err := time.ParseInLocation(dateLayout, checkIn, time.UTC)
	if err != nil {
		return DateRange{}, fmt.Errorf("invalid check-in date %q: %w", checkIn, err)
	}
	end, err := time.ParseInLocation(dateLayout, checkOut, time.UTC)
	if err != nil {
		return DateRange{}, fmt.Errorf("invalid check-out date %q: %w", checkOut, err)
	}
	if !start.Before(end) {
		return DateRange{}, fmt.Errorf("check-in %s must be before check-out %s", checkIn, checkOut)
	}
	return DateRange{CheckIn: start, CheckOut: end}, nil
}

// Nights is the stay length in whole days, never below 1.
func (r DateRange) Nights() int {
	n := int(r.CheckOut.Sub(r.CheckIn).Hours() / 24)
	if n < 1 {
		n = 1
	}
	return n
}

// Overlaps applies the half-open interval test: two ranges overlap iff
// start < otherEnd && end > otherStart. A checkout on another stay's
// check-in day is not an overlap.
func (r DateRange) Overlaps(other DateRange) bool {
	return r.CheckIn.Before(other.CheckOut) && r.CheckOut.After(other.CheckIn)
}

// String renders the range boundaries in wire format.
func (r DateRange) String() string {
	return r.CheckIn.Format(dateLayout) + "/" + r.CheckOut.Format(dateLayout)
}
