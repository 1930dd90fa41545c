package model

import (
	"slices"

	"houseboat/pkg/money"
)

type PricingMode string

const (
	PerStay   PricingMode = "per_stay"
	PerDay    PricingMode = "per_day"
	PerPerson PricingMode = "per_person"
)

type ExtraScope string

const (
	// ScopeBooking extras are charged once for the whole booking.
	ScopeBooking ExtraScope = "booking"
	// ScopeUnit extras are charged once per boat of a package.
	ScopeUnit ExtraScope = "unit"
)

type Extra struct {
	ID       string      `json:"id" bson:"_id" validate:"required,max=64"`
	Name     string      `json:"name,omitempty" bson:"name,omitempty" validate:"omitempty,max=100"`
	Price    money.Cents `json:"price" bson:"price" validate:"min=0"`
	Mode     PricingMode `json:"mode" bson:"mode" validate:"required,oneof=per_stay per_day per_person"`
	Scope    ExtraScope  `json:"scope,omitempty" bson:"scope,omitempty" validate:"omitempty,oneof=booking unit"`
	ClassIDs []string    `json:"class_ids,omitempty" bson:"class_ids,omitempty" validate:"omitempty,dive,required"`
}

// AppliesTo reports whether the extra can be sold with the class. An empty
// ClassIDs list means every class.
func (e Extra) AppliesTo(classID string) bool {
	return len(e.ClassIDs) == 0 || slices.Contains(e.ClassIDs, classID)
}

func (e Extra) PerUnit() bool {
	return e.Scope == ScopeUnit
}

// SelectedExtra is an extra chosen by the caller. Quantity is the already
// resolved multiplier: for per-person extras the caller multiplies by the
// guest count.
type SelectedExtra struct {
	ID       string `json:"id" validate:"required,max=64"`
	Quantity int    `json:"quantity" validate:"min=1,max=1000"`
}
