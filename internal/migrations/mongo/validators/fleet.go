package validators

import "go.mongodb.org/mongo-driver/bson"

// InstantPattern matches the stored text form of a half-day instant.
const InstantPattern = `^[0-9]{4}-[0-9]{2}-[0-9]{2}:(AM|PM)$`

// Money amounts are stored as integer cents.
var (
	cents   = bson.M{"bsonType": []string{"int", "long"}, "minimum": 0}
	id      = bson.M{"bsonType": "string", "minLength": 1, "maxLength": 64}
	name    = bson.M{"bsonType": "string", "maxLength": 100}
	instant = bson.M{"bsonType": "string", "pattern": InstantPattern}
)

func intRange(lo, hi int) bson.M {
	return bson.M{"bsonType": []string{"int", "long"}, "minimum": lo, "maximum": hi}
}

var ClassValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType":             "object",
		"required":             []string{"_id"},
		"additionalProperties": true,
		"properties": bson.M{
			"_id":  id,
			"name": name,
			"rates": bson.M{
				"bsonType": "object",
				"required": []string{"weekday", "weekend"},
				"properties": bson.M{
					"weekday": cents,
					"weekend": cents,
				},
			},
		},
	},
}

var UnitValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType":             "object",
		"required":             []string{"_id", "class_id", "optimal_capacity", "max_capacity"},
		"additionalProperties": true,
		"properties": bson.M{
			"_id":              id,
			"class_id":         id,
			"name":             name,
			"optimal_capacity": intRange(1, 100),
			"max_capacity":     intRange(1, 100),
		},
	},
}

var ReservationValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType":             "object",
		"required":             []string{"_id", "unit_id", "start", "end", "status"},
		"additionalProperties": true,
		"properties": bson.M{
			"_id":     id,
			"unit_id": id,
			"start":   instant,
			"end":     instant,
			"status": bson.M{
				"bsonType": "string",
				"enum":     []string{"pending", "confirmed", "cancelled", "maintenance"},
			},
		},
	},
}

var ExtraValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType":             "object",
		"required":             []string{"_id", "price", "mode"},
		"additionalProperties": true,
		"properties": bson.M{
			"_id":   id,
			"name":  name,
			"price": cents,
			"mode": bson.M{
				"bsonType": "string",
				"enum":     []string{"per_stay", "per_day", "per_person"},
			},
			"scope": bson.M{
				"bsonType": "string",
				"enum":     []string{"booking", "unit"},
			},
			"class_ids": bson.M{
				"bsonType": "array",
				"items":    id,
			},
		},
	},
}

var SeasonValidator = bson.M{
	"$jsonSchema": bson.M{
		"bsonType":             "object",
		"required":             []string{"_id", "name", "periods"},
		"additionalProperties": true,
		"properties": bson.M{
			"_id":  id,
			"name": name,
			"periods": bson.M{
				"bsonType": "array",
				"minItems": 1,
				"items": bson.M{
					"bsonType": "object",
					"required": []string{"start_month", "start_day", "end_month", "end_day"},
					"properties": bson.M{
						"start_month": intRange(1, 12),
						"start_day":   intRange(1, 31),
						"end_month":   intRange(1, 12),
						"end_day":     intRange(1, 31),
					},
				},
			},
		},
	},
}
