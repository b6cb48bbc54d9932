package models

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ObjectID identifies a document in every store driver. It is written as a
// native ObjectId to MongoDB, as char(24) hex to SQL and as a hex string to JSON.
type ObjectID primitive.ObjectID

// NilObjectID is the all-zero identifier used when a reference is missing.
var NilObjectID ObjectID

var ErrInvalidObjectID = errors.New("invalid object id")

func NewObjectID() ObjectID {
	return ObjectID(primitive.NewObjectID())
}

// ObjectIDFromHex parses a 24 character hex string.
func ObjectIDFromHex(s string) (ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(s)
	if err != nil {
		return NilObjectID, ErrInvalidObjectID
	}
	return ObjectID(oid), nil
}

func IsValidObjectID(s string) bool {
	return primitive.IsValidObjectID(s)
}

func (id ObjectID) Hex() string {
	return primitive.ObjectID(id).Hex()
}

func (id ObjectID) String() string {
	return id.Hex()
}

func (id ObjectID) IsZero() bool {
	return id == NilObjectID
}

func (id ObjectID) MarshalJSON() ([]byte, error) {
	return json.Marshal(id.Hex())
}

func (id *ObjectID) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err != nil {
		return err
	}
	parsed, err := ObjectIDFromHex(s)
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

func (id ObjectID) MarshalBSONValue() (bsontype.Type, []byte, error) {
	return bsontype.ObjectID, id[:], nil
}

func (id *ObjectID) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	switch t {
	case bsontype.ObjectID:
		if len(data) != 12 {
			return fmt.Errorf("%w: %d bytes", ErrInvalidObjectID, len(data))
		}
		copy(id[:], data)
		return nil
	case bsontype.Null, bsontype.Undefined:
		*id = NilObjectID
		return nil
	default:
		return fmt.Errorf("%w: bson type %s", ErrInvalidObjectID, t)
	}
}

// Value stores the id as hex in SQL columns.
func (id ObjectID) Value() (driver.Value, error) {
	return id.Hex(), nil
}

func (id *ObjectID) Scan(src any) error {
	var s string
	switch v := src.(type) {
	case string:
		s = v
	case []byte:
		s = string(v)
	case nil:
		*id = NilObjectID
		return nil
	default:
		return fmt.Errorf("%w: cannot scan %T", ErrInvalidObjectID, src)
	}
	parsed, err := ObjectIDFromHex(s)
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}
