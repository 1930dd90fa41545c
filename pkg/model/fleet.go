package model

import (
	"houseboat/pkg/money"
)

// ResourceClass is a houseboat model: a group of interchangeable units that
// share nightly rates. A class without rates is priced with the configured
// fallback rates.
type ResourceClass struct {
	ID    string        `json:"id" bson:"_id" validate:"required,max=64"`
	Name  string        `json:"name,omitempty" bson:"name,omitempty" validate:"omitempty,max=100"`
	Rates *NightlyRates `json:"rates,omitempty" bson:"rates,omitempty" validate:"omitempty"`
}

type NightlyRates struct {
	Weekday money.Cents `json:"weekday" bson:"weekday" validate:"min=0"`
	Weekend money.Cents `json:"weekend" bson:"weekend" validate:"min=0"`
}

// ResourceUnit is one physical boat.
type ResourceUnit struct {
	ID              string `json:"id" bson:"_id" validate:"required,max=64"`
	ClassID         string `json:"class_id" bson:"class_id" validate:"required,max=64"`
	Name            string `json:"name,omitempty" bson:"name,omitempty" validate:"omitempty,max=100"`
	OptimalCapacity int    `json:"optimal_capacity" bson:"optimal_capacity" validate:"min=1,max=100"`
	MaxCapacity     int    `json:"max_capacity" bson:"max_capacity" validate:"min=1,max=100,gtefield=OptimalCapacity"`
}

// Snapshot is a consistent read of everything the engine needs for one
// request. The engine never re-reads it.
type Snapshot struct {
	Classes      []ResourceClass `json:"classes" validate:"dive"`
	Units        []ResourceUnit  `json:"units" validate:"dive"`
	Reservations []Reservation   `json:"reservations" validate:"dive"`
	Extras       []Extra         `json:"extras" validate:"dive"`
	Seasons      []TariffSeason  `json:"seasons" validate:"dive"`
}

func (s *Snapshot) UnitsByClass() map[string][]ResourceUnit {
	byClass := make(map[string][]ResourceUnit, len(s.Classes))
	for _, u := range s.Units {
		byClass[u.ClassID] = append(byClass[u.ClassID], u)
	}
	return byClass
}

func (s *Snapshot) ExtraByID(id string) (Extra, bool) {
	for _, e := range s.Extras {
		if e.ID == id {
			return e, true
		}
	}
	return Extra{}, false
}
