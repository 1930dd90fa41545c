package mongo

import (
	"reflect"
	"regexp"
	"strings"
	"testing"

	"houseboat/internal/migrations/mongo/validators"
	"houseboat/internal/quotes/repository"
	"houseboat/pkg/model"

	"go.mongodb.org/mongo-driver/bson"
)

func bsonFields(t reflect.Type) map[string]bool {
	fields := make(map[string]bool)
	for i := 0; i < t.NumField(); i++ {
		tag := t.Field(i).Tag.Get("bson")
		if tag == "" || tag == "-" {
			continue
		}
		fields[strings.Split(tag, ",")[0]] = true
	}
	return fields
}

func schema(t *testing.T, validator bson.M) bson.M {
	t.Helper()
	s, ok := validator["$jsonSchema"].(bson.M)
	if !ok {
		t.Fatal("validator has no $jsonSchema")
	}
	return s
}

// Every field a validator names must be a field the repository writes and
// reads, or inserts from the service would be rejected.
func TestValidatorsMatchModel(t *testing.T) {
	models := map[string]reflect.Type{
		repository.ClassesCollection:      reflect.TypeOf(model.ResourceClass{}),
		repository.UnitsCollection:        reflect.TypeOf(model.ResourceUnit{}),
		repository.ReservationsCollection: reflect.TypeOf(model.Reservation{}),
		repository.ExtrasCollection:       reflect.TypeOf(model.Extra{}),
		repository.SeasonsCollection:      reflect.TypeOf(model.TariffSeason{}),
	}

	collections := Collections()
	if len(collections) != len(models) {
		t.Fatalf("%d collections defined, %d models", len(collections), len(models))
	}

	for name, def := range collections {
		t.Run(name, func(t *testing.T) {
			typ, ok := models[name]
			if !ok {
				t.Fatalf("no model for collection %s", name)
			}
			fields := bsonFields(typ)
			s := schema(t, def.Validator)

			for _, req := range s["required"].([]string) {
				if !fields[req] {
					t.Errorf("required field %q has no bson tag on %s", req, typ.Name())
				}
			}
			for prop := range s["properties"].(bson.M) {
				if !fields[prop] {
					t.Errorf("property %q has no bson tag on %s", prop, typ.Name())
				}
			}
		})
	}
}

func TestInstantPattern(t *testing.T) {
	re := regexp.MustCompile(validators.InstantPattern)
	for _, s := range []string{"2025-06-10:AM", "2025-12-31:PM"} {
		if !re.MatchString(s) {
			t.Errorf("%q should match", s)
		}
	}
	for _, s := range []string{"2025-06-10", "2025-06-10:am", "2025-06-10T10:00", ""} {
		if re.MatchString(s) {
			t.Errorf("%q should not match", s)
		}
	}
}

func TestReservationIndexesCoverOverlapQuery(t *testing.T) {
	for _, idx := range ReservationsIndexes {
		keys := idx.Keys.(bson.D)
		if keys[len(keys)-2].Key != "start" || keys[len(keys)-1].Key != "end" {
			t.Errorf("index %v does not end with start, end", keys)
		}
	}
}
