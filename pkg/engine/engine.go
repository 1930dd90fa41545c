// Package engine answers fleet quote requests: which boats are free for a
// half-day interval, which combinations of boats fit a large group, and what
// each option costs. It is pure: every call is a function of the snapshot
// and request it is given, so it is safe for concurrent use.
package engine

import (
	"sort"
	"time"

	"houseboat/pkg/engine/availability"
	"houseboat/pkg/engine/packages"
	"houseboat/pkg/engine/pricing"
	"houseboat/pkg/model"
	"houseboat/pkg/money"
	"houseboat/pkg/slot"

	"github.com/go-playground/validator/v10"
)

type Config struct {
	Pricing  pricing.Config
	Packages packages.Config
}

func DefaultConfig() Config {
	return Config{
		Pricing:  pricing.DefaultConfig(),
		Packages: packages.DefaultConfig(),
	}
}

type Engine struct {
	calc     *pricing.Calculator
	packages packages.Config
	validate *validator.Validate
}

func New(cfg Config) *Engine {
	return &Engine{
		calc:     pricing.NewCalculator(cfg.Pricing),
		packages: cfg.Packages,
		validate: newValidate(),
	}
}

func (e *Engine) Calculator() *pricing.Calculator { return e.calc }

// Quote validates the request and dispatches on the unit count: one unit
// yields ranked single-boat candidates, more yields ranked packages. Empty
// results are reported through Outcome, never as errors.
func (e *Engine) Quote(snap *model.Snapshot, req *model.QuoteRequest) (*model.QuoteResult, error) {
	if snap == nil {
		snap = &model.Snapshot{}
	}
	if err := e.ValidateRequest(req, snap.Extras); err != nil {
		return nil, err
	}

	iv := req.Interval()
	idx := availability.NewIndex(iv, snap.Units, snap.Reservations)
	res := &model.QuoteResult{
		Interval:   iv,
		GuestCount: req.GuestCount,
		UnitCount:  req.Units(),
		Warnings:   idx.Warnings(),
	}

	if req.Units() == 1 {
		res.Mode = model.ModeSingle
		candidates, err := e.singleResourceCandidates(snap, req, idx)
		if err != nil {
			return nil, err
		}
		res.Candidates = candidates
		res.Outcome = model.OutcomeNoCandidates
		if len(candidates) > 0 && candidates[0].Available {
			res.Outcome = model.OutcomeFound
		}
		return res, nil
	}

	res.Mode = model.ModePackage
	search, pkgs, err := e.searchPackages(snap, req, idx)
	if err != nil {
		return nil, err
	}
	res.Outcome = search.Outcome
	res.PoolSize = search.PoolSize
	res.Evaluated = search.Evaluated
	res.Packages = pkgs
	return res, nil
}

// singleResourceCandidates keeps classes with a free unit able to host the
// whole group, priced and ordered by total then class id. Fully booked
// classes are appended as unavailable when the request asks for them.
func (e *Engine) singleResourceCandidates(snap *model.Snapshot, req *model.QuoteRequest, idx *availability.Index) ([]model.Candidate, error) {
	byClass := snap.UnitsByClass()
	iv := req.Interval()

	var out []model.Candidate
	for _, class := range snap.Classes {
		units := byClass[class.ID]
		maxCap, optCap := classCapacity(units)
		if len(units) == 0 || maxCap < req.GuestCount {
			continue
		}

		occ := idx.Occupancy(class.ID, units)
		c := model.Candidate{
			ClassID:         class.ID,
			TotalUnits:      occ.Total,
			BusyUnits:       occ.Busy,
			OptimalCapacity: optCap,
			MaxCapacity:     maxCap,
		}
		for _, u := range idx.FreeUnits(class.ID, units) {
			if u.MaxCapacity >= req.GuestCount {
				c.UnitID = u.ID
				c.Available = true
				c.OptimalCapacity = u.OptimalCapacity
				c.MaxCapacity = u.MaxCapacity
				break
			}
		}
		if !c.Available && !req.IncludeUnavailable {
			continue
		}

		b, err := e.priceClasses(snap, req, iv, []model.ResourceClass{class})
		if err != nil {
			return nil, err
		}
		c.Breakdown = b
		out = append(out, c)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Available != out[j].Available {
			return out[i].Available
		}
		if out[i].Breakdown.Total != out[j].Breakdown.Total {
			return out[i].Breakdown.Total < out[j].Breakdown.Total
		}
		return out[i].ClassID < out[j].ClassID
	})
	return out, nil
}

// searchPackages builds the token pool from every class's free units. Each
// surviving composition is priced as a whole package, and that price ranks it.
func (e *Engine) searchPackages(snap *model.Snapshot, req *model.QuoteRequest, idx *availability.Index) (packages.Result, []model.Package, error) {
	byClass := snap.UnitsByClass()
	iv := req.Interval()

	classes := append([]model.ResourceClass(nil), snap.Classes...)
	sort.Slice(classes, func(i, j int) bool { return classes[i].ID < classes[j].ID })
	classByID := make(map[string]model.ResourceClass, len(classes))

	var pool []packages.Token
	for _, class := range classes {
		classByID[class.ID] = class
		for _, u := range idx.FreeUnits(class.ID, byClass[class.ID]) {
			pool = append(pool, packages.Token{
				UnitID:          u.ID,
				ClassID:         class.ID,
				OptimalCapacity: u.OptimalCapacity,
				MaxCapacity:     u.MaxCapacity,
			})
		}
	}

	membersOf := func(m packages.Match) []model.ResourceClass {
		members := make([]model.ResourceClass, 0, len(m.Tokens))
		for _, t := range m.Tokens {
			members = append(members, classByID[t.ClassID])
		}
		return members
	}
	breakdowns := make(map[string]model.PriceBreakdown)
	price := func(m packages.Match) (money.Cents, error) {
		b, err := e.priceClasses(snap, req, iv, membersOf(m))
		if err != nil {
			return 0, err
		}
		breakdowns[m.Key] = b
		return b.Total, nil
	}

	result, err := packages.SearchPriced(pool, req.GuestCount, req.Units(), e.packages, price)
	if err != nil {
		return packages.Result{}, nil, err
	}

	out := make([]model.Package, 0, len(result.Matches))
	for _, m := range result.Matches {
		out = append(out, model.Package{
			Units:           m.UnitIDs(),
			ClassIDs:        m.ClassIDs(),
			OptimalCapacity: m.OptimalCapacity,
			MaxCapacity:     m.MaxCapacity,
			Breakdown:       breakdowns[m.Key],
		})
	}
	return result, out, nil
}

func (e *Engine) priceClasses(snap *model.Snapshot, req *model.QuoteRequest, iv slot.Interval, members []model.ResourceClass) (model.PriceBreakdown, error) {
	ids := make([]string, len(members))
	for i, m := range members {
		ids[i] = m.ID
	}
	extras, err := pricing.ResolveExtras(req.SelectedExtras, snap.Extras, ids)
	if err != nil {
		return model.PriceBreakdown{}, err
	}
	return e.calc.Quote(pricing.Input{
		Interval:   iv,
		Rates:      e.calc.SumRates(members),
		Extras:     extras,
		Discount:   req.Discount,
		AmountPaid: req.AmountPaid,
		Seasons:    snap.Seasons,
	})
}

// UnitStatus is the availability of one unit over an interval.
type UnitStatus struct {
	UnitID    string        `json:"unit_id"`
	Interval  slot.Interval `json:"interval"`
	Available bool          `json:"available"`
	Conflicts []string      `json:"conflicts,omitempty"`
}

// UnitAvailability reports whether the unit is free and which reservations
// block it.
func (e *Engine) UnitAvailability(unitID string, iv slot.Interval, reservations []model.Reservation) (UnitStatus, error) {
	if unitID == "" {
		return UnitStatus{}, invalid("unit_id", "unit_id is required")
	}
	if err := iv.Validate(); err != nil {
		return UnitStatus{}, invalid("end", "end must be after start")
	}
	st := UnitStatus{UnitID: unitID, Interval: iv, Available: true}
	for _, r := range availability.Conflicts(unitID, iv, reservations) {
		st.Available = false
		st.Conflicts = append(st.Conflicts, r.ID)
	}
	return st, nil
}

func (e *Engine) SeasonLabel(seasons []model.TariffSeason, date time.Time) string {
	return pricing.SeasonLabel(seasons, date)
}

func classCapacity(units []model.ResourceUnit) (maxCap, optimal int) {
	for _, u := range units {
		if u.MaxCapacity > maxCap {
			maxCap = u.MaxCapacity
			optimal = u.OptimalCapacity
		}
	}
	return maxCap, optimal
}
