package model

import (
	"houseboat/pkg/slot"
)

type ReservationStatus string

const (
	StatusPending     ReservationStatus = "pending"
	StatusConfirmed   ReservationStatus = "confirmed"
	StatusCancelled   ReservationStatus = "cancelled"
	StatusMaintenance ReservationStatus = "maintenance"
)

// Reservation is an existing commitment against one unit over [Start, End).
type Reservation struct {
	ID     string            `json:"id" bson:"_id" validate:"required,max=64"`
	UnitID string            `json:"unit_id" bson:"unit_id" validate:"required,max=64"`
	Start  slot.Instant      `json:"start" bson:"start" validate:"required"`
	End    slot.Instant      `json:"end" bson:"end" validate:"required"`
	Status ReservationStatus `json:"status" bson:"status" validate:"required,oneof=pending confirmed cancelled maintenance"`
}

func (r Reservation) Interval() slot.Interval {
	return slot.Interval{Start: r.Start, End: r.End}
}

// Blocking reports whether the reservation takes part in occupancy. Cancelled
// reservations never do.
func (r Reservation) Blocking() bool {
	return r.Status != StatusCancelled
}
