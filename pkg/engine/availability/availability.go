package availability

import (
	"fmt"
	"sort"

	"houseboat/pkg/model"
	"houseboat/pkg/slot"
)

// Occupancy is the state of one resource class over a requested interval.
type Occupancy struct {
	Total int `json:"total"`
	Busy  int `json:"busy"`
}

func (o Occupancy) Free() int {
	return max(o.Total-o.Busy, 0)
}

// Unavailable is true when every unit is busy. A class without units is
// always unavailable.
func (o Occupancy) Unavailable() bool {
	return o.Busy >= o.Total
}

// IsUnitFree returns false iff a non-cancelled reservation of the unit
// overlaps the interval.
func IsUnitFree(unitID string, iv slot.Interval, reservations []model.Reservation) bool {
	return len(Conflicts(unitID, iv, reservations)) == 0
}

// Conflicts lists the blocking reservations of the unit that overlap iv,
// ordered by start.
func Conflicts(unitID string, iv slot.Interval, reservations []model.Reservation) []model.Reservation {
	var out []model.Reservation
	for _, r := range reservations {
		if r.UnitID != unitID || !r.Blocking() {
			continue
		}
		if slot.Overlaps(r.Interval(), iv) {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Start.Before(out[j].Start)
	})
	return out
}

// ClassOccupancy evaluates IsUnitFree for every unit of the class.
func ClassOccupancy(classID string, iv slot.Interval, units []model.ResourceUnit, reservations []model.Reservation) Occupancy {
	var occ Occupancy
	for _, u := range units {
		if u.ClassID != classID {
			continue
		}
		occ.Total++
		if !IsUnitFree(u.ID, iv, reservations) {
			occ.Busy++
		}
	}
	return occ
}

// Index answers occupancy questions for one interval after a single pass
// over the reservations.
type Index struct {
	interval slot.Interval
	busy     map[string]struct{}
	warnings []model.Warning
}

// NewIndex marks every unit that has an overlapping blocking reservation.
// Overlapping reservations for units absent from the fleet are skipped and
// reported as warnings.
func NewIndex(iv slot.Interval, units []model.ResourceUnit, reservations []model.Reservation) *Index {
	known := make(map[string]struct{}, len(units))
	for _, u := range units {
		known[u.ID] = struct{}{}
	}

	idx := &Index{
		interval: iv,
		busy:     make(map[string]struct{}),
	}
	for _, r := range reservations {
		if !r.Blocking() || !slot.Overlaps(r.Interval(), iv) {
			continue
		}
		if _, ok := known[r.UnitID]; !ok {
			idx.warnings = append(idx.warnings, model.Warning{
				Code:          model.WarningUnknownUnit,
				Message:       fmt.Sprintf("reservation %s references unknown unit %s", r.ID, r.UnitID),
				ReservationID: r.ID,
				UnitID:        r.UnitID,
			})
			continue
		}
		idx.busy[r.UnitID] = struct{}{}
	}
	return idx
}

func (x *Index) Interval() slot.Interval { return x.interval }

func (x *Index) Warnings() []model.Warning { return x.warnings }

func (x *Index) IsFree(unitID string) bool {
	_, busy := x.busy[unitID]
	return !busy
}

// Occupancy counts the class's units among units.
func (x *Index) Occupancy(classID string, units []model.ResourceUnit) Occupancy {
	var occ Occupancy
	for _, u := range units {
		if u.ClassID != classID {
			continue
		}
		occ.Total++
		if !x.IsFree(u.ID) {
			occ.Busy++
		}
	}
	return occ
}

// FreeUnits returns the free units of the class ordered by id.
func (x *Index) FreeUnits(classID string, units []model.ResourceUnit) []model.ResourceUnit {
	var free []model.ResourceUnit
	for _, u := range units {
		if u.ClassID == classID && x.IsFree(u.ID) {
			free = append(free, u)
		}
	}
	sort.Slice(free, func(i, j int) bool { return free[i].ID < free[j].ID })
	return free
}
