package slot

import (
	"errors"
	"time"
)

var ErrEmptyInterval = errors.New("interval end must be after start")

// Interval is the half-open range [Start, End).
type Interval struct {
	Start Instant `json:"start" bson:"start"`
	End   Instant `json:"end" bson:"end"`
}

func NewInterval(start, end Instant) (Interval, error) {
	iv := Interval{Start: start, End: end}
	if err := iv.Validate(); err != nil {
		return Interval{}, err
	}
	return iv, nil
}

func (iv Interval) Validate() error {
	if iv.Start.IsZero() || iv.End.IsZero() || !iv.Start.Before(iv.End) {
		return ErrEmptyInterval
	}
	return nil
}

// Overlaps reports whether a and b share any instant. Touching intervals
// (a.End == b.Start) do not overlap: checkout and check-in share the boundary.
func Overlaps(a, b Interval) bool {
	return a.Start.Index() < b.End.Index() && b.Start.Index() < a.End.Index()
}

func (iv Interval) Overlaps(o Interval) bool { return Overlaps(iv, o) }

// Slots is the number of half-day slots covered.
func (iv Interval) Slots() int64 {
	return iv.End.Index() - iv.Start.Index()
}

// Nights counts calendar nights in [Start.Date, End.Date); the checkout date
// contributes no night.
func (iv Interval) Nights() int {
	return int(floorDiv(iv.End.Date.Unix()-iv.Start.Date.Unix(), secondsPerDay))
}

// EachNight calls fn with the date of every night in the interval.
func (iv Interval) EachNight(fn func(night time.Time)) {
	for d := iv.Start.Date; d.Before(iv.End.Date); d = d.AddDate(0, 0, 1) {
		fn(d)
	}
}

func (iv Interval) String() string {
	return "[" + iv.Start.String() + ", " + iv.End.String() + ")"
}
