package slot

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// Slot is one of the two half-day anchors of a calendar day.
type Slot int

const (
	AM Slot = iota
	PM
)

const (
	AMHour = 10
	PMHour = 15

	DateLayout    = "2006-01-02"
	slotsPerDay   = 2
	secondsPerDay = 24 * 60 * 60
)

func (s Slot) String() string {
	if s == PM {
		return "PM"
	}
	return "AM"
}

func (s Slot) Valid() bool {
	return s == AM || s == PM
}

func (s Slot) Hour() int {
	if s == PM {
		return PMHour
	}
	return AMHour
}

func ParseSlot(s string) (Slot, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "AM":
		return AM, nil
	case "PM":
		return PM, nil
	}
	return AM, fmt.Errorf("invalid slot %q (expected AM or PM)", s)
}

// Instant is a calendar date quantized to a half-day slot. The date is kept
// at UTC midnight so that two instants compare by value.
type Instant struct {
	Date time.Time
	Slot Slot
}

func New(year int, month time.Month, day int, s Slot) Instant {
	return Instant{Date: time.Date(year, month, day, 0, 0, 0, 0, time.UTC), Slot: s}
}

// At truncates t to its calendar date in t's own location.
func At(t time.Time, s Slot) Instant {
	y, m, d := t.Date()
	return New(y, m, d, s)
}

func FromIndex(i int64) Instant {
	day := floorDiv(i, slotsPerDay)
	s := Slot(i - day*slotsPerDay)
	return Instant{Date: time.Unix(day*secondsPerDay, 0).UTC(), Slot: s}
}

// Index is the slot ordinal: two per calendar day, AM=0 and PM=1 within the day.
func (i Instant) Index() int64 {
	day := floorDiv(i.Date.Unix(), secondsPerDay)
	return day*slotsPerDay + int64(i.Slot)
}

// ToTime anchors the slot at 10:00 (AM) or 15:00 (PM) local time in loc.
func (i Instant) ToTime(loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	y, m, d := i.Date.Date()
	return time.Date(y, m, d, i.Slot.Hour(), 0, 0, 0, loc)
}

func (i Instant) Before(o Instant) bool { return i.Index() < o.Index() }

func (i Instant) After(o Instant) bool { return i.Index() > o.Index() }

func (i Instant) Equal(o Instant) bool { return i.Index() == o.Index() }

func (i Instant) IsZero() bool { return i.Date.IsZero() }

func (i Instant) Next() Instant { return FromIndex(i.Index() + 1) }

func (i Instant) String() string {
	if i.IsZero() {
		return ""
	}
	return i.Date.Format(DateLayout) + ":" + i.Slot.String()
}

// Parse reads "2006-01-02:AM" or "2006-01-02:PM".
func Parse(s string) (Instant, error) {
	datePart, slotPart, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok {
		return Instant{}, fmt.Errorf("invalid slot instant %q (expected YYYY-MM-DD:AM|PM)", s)
	}
	date, err := time.Parse(DateLayout, datePart)
	if err != nil {
		return Instant{}, fmt.Errorf("invalid slot instant %q: %w", s, err)
	}
	sl, err := ParseSlot(slotPart)
	if err != nil {
		return Instant{}, err
	}
	return At(date, sl), nil
}

func (i Instant) MarshalJSON() ([]byte, error) {
	return json.Marshal(i.String())
}

func (i *Instant) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	if s == "" {
		*i = Instant{}
		return nil
	}
	parsed, err := Parse(s)
	if err != nil {
		return err
	}
	*i = parsed
	return nil
}

func floorDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
