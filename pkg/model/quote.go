package model

import (
	"houseboat/pkg/money"
	"houseboat/pkg/slot"
)

type DiscountMode string

const (
	// DiscountPercent takes Value as a percentage of the pre-discount subtotal.
	DiscountPercent DiscountMode = "percent"
	// DiscountFlat takes Value as a currency amount.
	DiscountFlat DiscountMode = "flat"
)

// Discount.Value is a decimal amount in both modes: 10.00 means 10% in
// percent mode and 10.00 of currency in flat mode. An empty Mode falls back
// to the configured default.
type Discount struct {
	Mode  DiscountMode `json:"mode,omitempty" validate:"omitempty,oneof=percent flat"`
	Value money.Cents  `json:"value" validate:"min=0"`
}

type QuoteRequest struct {
	Start              slot.Instant    `json:"start" validate:"required"`
	End                slot.Instant    `json:"end" validate:"required"`
	GuestCount         int             `json:"guest_count" validate:"min=1,max=500"`
	UnitCount          int             `json:"unit_count" validate:"min=0,max=50"`
	SelectedExtras     []SelectedExtra `json:"selected_extras,omitempty" validate:"omitempty,dive"`
	Discount           *Discount       `json:"discount,omitempty" validate:"omitempty"`
	AmountPaid         money.Cents     `json:"amount_paid" validate:"min=0"`
	IncludeUnavailable bool            `json:"include_unavailable,omitempty"`
}

func (r *QuoteRequest) Interval() slot.Interval {
	return slot.Interval{Start: r.Start, End: r.End}
}

// Units returns the requested unit count, defaulting to one.
func (r *QuoteRequest) Units() int {
	if r.UnitCount <= 0 {
		return 1
	}
	return r.UnitCount
}

type ExtraLine struct {
	ID        string      `json:"id"`
	Mode      PricingMode `json:"mode"`
	Quantity  int         `json:"quantity"`
	UnitPrice money.Cents `json:"unit_price"`
	Amount    money.Cents `json:"amount"`
}

// PriceBreakdown satisfies
// Total = WeekdayNights*WeekdayRate + WeekendNights*WeekendRate + ExtrasTotal + PreparationFee - Discount,
// clamped at zero. For a package the rates are the sums of the member rates.
type PriceBreakdown struct {
	Nights         int          `json:"nights"`
	WeekdayNights  int          `json:"weekday_nights"`
	WeekendNights  int          `json:"weekend_nights"`
	WeekdayRate    money.Cents  `json:"weekday_rate"`
	WeekendRate    money.Cents  `json:"weekend_rate"`
	RentalTotal    money.Cents  `json:"rental_total"`
	Extras         []ExtraLine  `json:"extras,omitempty"`
	ExtrasTotal    money.Cents  `json:"extras_total"`
	PreparationFee money.Cents  `json:"preparation_fee"`
	Subtotal       money.Cents  `json:"subtotal"`
	DiscountMode   DiscountMode `json:"discount_mode,omitempty"`
	Discount       money.Cents  `json:"discount"`
	Total          money.Cents  `json:"total"`
	Deposit        money.Cents  `json:"deposit"`
	AmountPaid     money.Cents  `json:"amount_paid"`
	BalanceDue     money.Cents  `json:"balance_due"`
	Season         string       `json:"season,omitempty"`
}

type Candidate struct {
	ClassID         string         `json:"class_id"`
	UnitID          string         `json:"unit_id,omitempty"`
	Available       bool           `json:"available"`
	TotalUnits      int            `json:"total_units"`
	BusyUnits       int            `json:"busy_units"`
	OptimalCapacity int            `json:"optimal_capacity"`
	MaxCapacity     int            `json:"max_capacity"`
	Breakdown       PriceBreakdown `json:"breakdown"`
}

type Package struct {
	Units           []string       `json:"units"`
	ClassIDs        []string       `json:"class_ids"`
	OptimalCapacity int            `json:"optimal_capacity"`
	MaxCapacity     int            `json:"max_capacity"`
	Breakdown       PriceBreakdown `json:"breakdown"`
}

type QuoteMode string

const (
	ModeSingle  QuoteMode = "single"
	ModePackage QuoteMode = "package"
)

// Outcome distinguishes the empty results so that callers can word them:
// an insufficient pool should suggest fewer boats, a capacity mismatch a
// different group size.
type Outcome string

const (
	OutcomeFound            Outcome = "found"
	OutcomeNoCandidates     Outcome = "no_candidates"
	OutcomeNoCapacityMatch  Outcome = "no_capacity_match"
	OutcomeInsufficientPool Outcome = "insufficient_pool"
	OutcomePoolTooLarge     Outcome = "pool_too_large"
)

type WarningCode string

const WarningUnknownUnit WarningCode = "unknown_unit"

// Warning reports inconsistent input that was skipped rather than failing
// the whole computation.
type Warning struct {
	Code          WarningCode `json:"code"`
	Message       string      `json:"message"`
	ReservationID string      `json:"reservation_id,omitempty"`
	UnitID        string      `json:"unit_id,omitempty"`
}

type QuoteResult struct {
	ID         string        `json:"id,omitempty"`
	Mode       QuoteMode     `json:"mode"`
	Interval   slot.Interval `json:"interval"`
	GuestCount int           `json:"guest_count"`
	UnitCount  int           `json:"unit_count"`
	Outcome    Outcome       `json:"outcome"`
	Candidates []Candidate   `json:"candidates,omitempty"`
	Packages   []Package     `json:"packages,omitempty"`
	PoolSize   int           `json:"pool_size,omitempty"`
	Evaluated  int64         `json:"evaluated,omitempty"`
	Warnings   []Warning     `json:"warnings,omitempty"`
}
