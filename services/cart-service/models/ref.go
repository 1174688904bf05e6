package models

import (
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Ref is a reference to another document (product or buyer). Writers store
// references either as ObjectIDs or as plain strings. A decoded string keeps
// its stored spelling so it can be matched again in a filter; compare refs
// with Equal or through Canonical.
type Ref string

// NewRef canonicalizes s: surrounding space is dropped and 24-char hex
// strings are lowercased to match ObjectID.Hex().
func NewRef(s string) Ref {
	s = strings.TrimSpace(s)
	if len(s) == 24 {
		if oid, err := primitive.ObjectIDFromHex(strings.ToLower(s)); err == nil {
			return Ref(oid.Hex())
		}
	}
	return Ref(s)
}

func (r Ref) String() string { return string(r) }

// Canonical is the form used for equality and map keys.
func (r Ref) Canonical() Ref { return NewRef(string(r)) }

func (r Ref) Equal(other Ref) bool { return r.Canonical() == other.Canonical() }

func (r Ref) IsZero() bool { return r.Canonical() == "" }

// ObjectID returns the ObjectID form when the canonical value is 24-char hex.
func (r Ref) ObjectID() (primitive.ObjectID, bool) {
	c := r.Canonical()
	if len(c) != 24 {
		return primitive.NilObjectID, false
	}
	oid, err := primitive.ObjectIDFromHex(string(c))
	if err != nil {
		return primitive.NilObjectID, false
	}
	return oid, true
}

// Candidates lists every stored encoding of r, for use in an $in filter:
// the ObjectID, the canonical string, and r's own spelling when it differs.
func (r Ref) Candidates() []interface{} {
	c := r.Canonical()
	var out []interface{}
	if oid, ok := r.ObjectID(); ok {
		out = append(out, oid)
	}
	out = append(out, string(c))
	if r != c {
		out = append(out, string(r))
	}
	return out
}

// MarshalBSONValue writes hex references as ObjectIDs and anything else as a string.
func (r Ref) MarshalBSONValue() (bsontype.Type, []byte, error) {
	if r == "" {
		return bsontype.Null, nil, nil
	}
	if oid, ok := r.ObjectID(); ok {
		return bson.MarshalValue(oid)
	}
	return bson.MarshalValue(string(r))
}

// UnmarshalBSONValue accepts an ObjectID, a string, null, or an embedded
// document carrying an _id (a populated reference).
func (r *Ref) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	raw := bson.RawValue{Type: t, Value: data}

	switch t {
	case bsontype.ObjectID:
		*r = Ref(raw.ObjectID().Hex())
	case bsontype.String:
		*r = Ref(raw.StringValue())
	case bsontype.Null, bsontype.Undefined:
		*r = ""
	case bsontype.EmbeddedDocument:
		id, err := raw.Document().LookupErr("_id")
		if err != nil {
			return fmt.Errorf("embedded reference has no _id: %w", err)
		}
		return r.UnmarshalBSONValue(id.Type, id.Value)
	default:
		return fmt.Errorf("cannot decode %s into a reference", t)
	}
	return nil
}
