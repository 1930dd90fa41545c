package pricing

import (
	"errors"
	"fmt"
	"time"

	"houseboat/pkg/model"
	"houseboat/pkg/money"
	"houseboat/pkg/slot"
)

var (
	ErrNoNights        = errors.New("interval must span at least one night")
	ErrUnknownExtra    = errors.New("unknown extra")
	ErrInvalidDiscount = errors.New("invalid discount")
)

const (
	DefaultPreparationFee  = money.Cents(7600)
	DefaultDepositPoints   = 3000
	DefaultDepositRounding = money.Unit
	DefaultDiscountMode    = model.DiscountPercent
)

type Config struct {
	PreparationFee money.Cents
	// FallbackRates price classes that carry no rate record.
	FallbackRates model.NightlyRates
	// DepositPoints is the deposit fraction in basis points (3000 == 30%).
	DepositPoints int64
	// DepositRounding is the unit the deposit is rounded up to.
	DepositRounding     money.Cents
	DefaultDiscountMode model.DiscountMode
}

func DefaultConfig() Config {
	return Config{
		PreparationFee:      DefaultPreparationFee,
		DepositPoints:       DefaultDepositPoints,
		DepositRounding:     DefaultDepositRounding,
		DefaultDiscountMode: DefaultDiscountMode,
	}
}

// ResolvedExtra is a catalog extra with its final multiplier.
type ResolvedExtra struct {
	Extra    model.Extra
	Quantity int
}

type Input struct {
	Interval   slot.Interval
	Rates      model.NightlyRates
	Extras     []ResolvedExtra
	Discount   *model.Discount
	AmountPaid money.Cents
	Seasons    []model.TariffSeason
}

type Calculator struct {
	cfg Config
}

func NewCalculator(cfg Config) *Calculator {
	if cfg.DefaultDiscountMode == "" {
		cfg.DefaultDiscountMode = DefaultDiscountMode
	}
	if cfg.DepositRounding <= 0 {
		cfg.DepositRounding = DefaultDepositRounding
	}
	return &Calculator{cfg: cfg}
}

func (c *Calculator) Config() Config { return c.cfg }

// RatesFor returns the class rates, or the fallback rates when the class
// has no price record.
func (c *Calculator) RatesFor(class model.ResourceClass) model.NightlyRates {
	if class.Rates == nil {
		return c.cfg.FallbackRates
	}
	return *class.Rates
}

// Quote computes the breakdown for one stay. Identical inputs always produce
// identical output: every amount is integer cents.
func (c *Calculator) Quote(in Input) (model.PriceBreakdown, error) {
	nights := in.Interval.Nights()
	if nights <= 0 {
		return model.PriceBreakdown{}, ErrNoNights
	}

	weekday, weekend := SplitNights(in.Interval)
	b := model.PriceBreakdown{
		Nights:         nights,
		WeekdayNights:  weekday,
		WeekendNights:  weekend,
		WeekdayRate:    in.Rates.Weekday,
		WeekendRate:    in.Rates.Weekend,
		PreparationFee: c.cfg.PreparationFee,
		AmountPaid:     in.AmountPaid,
	}
	b.RentalTotal = in.Rates.Weekday.Mul(weekday) + in.Rates.Weekend.Mul(weekend)

	for _, re := range in.Extras {
		amount := ExtraAmount(re.Extra, re.Quantity, nights)
		b.Extras = append(b.Extras, model.ExtraLine{
			ID:        re.Extra.ID,
			Mode:      re.Extra.Mode,
			Quantity:  re.Quantity,
			UnitPrice: re.Extra.Price,
			Amount:    amount,
		})
		b.ExtrasTotal += amount
	}

	b.Subtotal = b.RentalTotal + b.ExtrasTotal + b.PreparationFee

	mode, discount, err := c.DiscountAmount(b.Subtotal, in.Discount)
	if err != nil {
		return model.PriceBreakdown{}, err
	}
	b.DiscountMode = mode
	b.Discount = discount

	b.Total = money.Max(0, b.Subtotal-b.Discount)
	b.Deposit = b.Total.CeilPercent(c.cfg.DepositPoints, c.cfg.DepositRounding)
	b.BalanceDue = money.Max(0, b.Total-in.AmountPaid)
	b.Season = SeasonLabel(in.Seasons, in.Interval.Start.Date)
	return b, nil
}

// DiscountAmount resolves the discount against the pre-discount subtotal.
// Percent discounts round half up to the cent.
func (c *Calculator) DiscountAmount(subtotal money.Cents, d *model.Discount) (model.DiscountMode, money.Cents, error) {
	if d == nil || d.Value == 0 {
		return "", 0, nil
	}
	if d.Value < 0 {
		return "", 0, fmt.Errorf("%w: negative value %s", ErrInvalidDiscount, d.Value)
	}
	mode := d.Mode
	if mode == "" {
		mode = c.cfg.DefaultDiscountMode
	}
	switch mode {
	case model.DiscountPercent:
		if d.Value > money.FromUnits(100) {
			return "", 0, fmt.Errorf("%w: percentage %s exceeds 100", ErrInvalidDiscount, d.Value)
		}
		return mode, subtotal.Percent(money.Points(d.Value)), nil
	case model.DiscountFlat:
		return mode, d.Value, nil
	}
	return "", 0, fmt.Errorf("%w: unknown mode %q", ErrInvalidDiscount, mode)
}

// ExtraAmount prices one extra line. Per-day extras scale with the night
// count; per-stay and per-person extras only with the quantity.
func ExtraAmount(e model.Extra, quantity, nights int) money.Cents {
	if e.Mode == model.PerDay {
		return e.Price.Mul(nights * quantity)
	}
	return e.Price.Mul(quantity)
}

// IsWeekendNight reports whether the night starting on date is a weekend
// night: Friday and Saturday nights are, every other night is not.
func IsWeekendNight(date time.Time) bool {
	wd := date.Weekday()
	return wd == time.Friday || wd == time.Saturday
}

func SplitNights(iv slot.Interval) (weekday, weekend int) {
	iv.EachNight(func(night time.Time) {
		if IsWeekendNight(night) {
			weekend++
		} else {
			weekday++
		}
	})
	return weekday, weekend
}

// SeasonLabel returns the name of the first season containing date.
func SeasonLabel(seasons []model.TariffSeason, date time.Time) string {
	for _, s := range seasons {
		if s.Contains(date) {
			return s.Name
		}
	}
	return ""
}

// ResolveExtras looks up the selected extras and computes how often each is
// charged for the given member classes. Booking-scoped extras are charged
// once when any member can take them, unit-scoped extras once per member.
func ResolveExtras(selected []model.SelectedExtra, catalog []model.Extra, classIDs []string) ([]ResolvedExtra, error) {
	byID := make(map[string]model.Extra, len(catalog))
	for _, e := range catalog {
		byID[e.ID] = e
	}

	var out []ResolvedExtra
	for _, sel := range selected {
		e, ok := byID[sel.ID]
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownExtra, sel.ID)
		}
		applicable := 0
		for _, id := range classIDs {
			if e.AppliesTo(id) {
				applicable++
			}
		}
		if applicable == 0 {
			continue
		}
		multiplier := 1
		if e.PerUnit() {
			multiplier = applicable
		}
		out = append(out, ResolvedExtra{Extra: e, Quantity: sel.Quantity * multiplier})
	}
	return out, nil
}

// SumRates adds the nightly rates of every member of a package.
func (c *Calculator) SumRates(classes []model.ResourceClass) model.NightlyRates {
	var sum model.NightlyRates
	for _, cl := range classes {
		r := c.RatesFor(cl)
		sum.Weekday += r.Weekday
		sum.Weekend += r.Weekend
	}
	return sum
}
