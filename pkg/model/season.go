package model

import "time"

// TariffSeason is a named calendar window. It only labels a price breakdown
// and never changes the rate.
type TariffSeason struct {
	ID      string         `json:"id" bson:"_id" validate:"required,max=64"`
	Name    string         `json:"name" bson:"name" validate:"required,max=100"`
	Periods []SeasonPeriod `json:"periods" bson:"periods" validate:"required,min=1,dive"`
}

// SeasonPeriod is an inclusive month-day range. When the start falls after
// the end the period crosses the year boundary (e.g. Dec 20 - Jan 5).
type SeasonPeriod struct {
	StartMonth int `json:"start_month" bson:"start_month" validate:"min=1,max=12"`
	StartDay   int `json:"start_day" bson:"start_day" validate:"min=1,max=31"`
	EndMonth   int `json:"end_month" bson:"end_month" validate:"min=1,max=12"`
	EndDay     int `json:"end_day" bson:"end_day" validate:"min=1,max=31"`
}

func (p SeasonPeriod) Contains(date time.Time) bool {
	md := monthDay(int(date.Month()), date.Day())
	start := monthDay(p.StartMonth, p.StartDay)
	end := monthDay(p.EndMonth, p.EndDay)
	if start <= end {
		return md >= start && md <= end
	}
	return md >= start || md <= end
}

func (s TariffSeason) Contains(date time.Time) bool {
	for _, p := range s.Periods {
		if p.Contains(date) {
			return true
		}
	}
	return false
}

func monthDay(month, day int) int {
	return month*100 + day
}
