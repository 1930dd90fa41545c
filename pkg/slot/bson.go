package slot

import (
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
)

// Instants are stored as their "YYYY-MM-DD:AM" text form, which sorts in
// slot order and so supports range filters directly.
func (i Instant) MarshalBSONValue() (bsontype.Type, []byte, error) {
	return bson.MarshalValue(i.String())
}

func (i *Instant) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	s, ok := bson.RawValue{Type: t, Value: data}.StringValueOK()
	if !ok {
		return fmt.Errorf("slot instant: expected string, got %s", t)
	}
	if s == "" {
		*i = Instant{}
		return nil
	}
	parsed, err := Parse(s)
	if err != nil {
		return err
	}
	*i = parsed
	return nil
}
