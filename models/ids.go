package models

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Distinct identifier types per entity kind. They all wrap an ObjectID, but
// assigning a TaskID where a ProjectID is expected is a compile error.

type UserID primitive.ObjectID

type ProjectID primitive.ObjectID

type TaskID primitive.ObjectID

func NewUserID() UserID       { return UserID(primitive.NewObjectID()) }
func NewProjectID() ProjectID { return ProjectID(primitive.NewObjectID()) }
func NewTaskID() TaskID       { return TaskID(primitive.NewObjectID()) }

func UserIDFromHex(s string) (UserID, error) {
	oid, err := primitive.ObjectIDFromHex(s)
	return UserID(oid), err
}

func ProjectIDFromHex(s string) (ProjectID, error) {
	oid, err := primitive.ObjectIDFromHex(s)
	return ProjectID(oid), err
}

func TaskIDFromHex(s string) (TaskID, error) {
	oid, err := primitive.ObjectIDFromHex(s)
	return TaskID(oid), err
}

func (id UserID) Hex() string    { return primitive.ObjectID(id).Hex() }
func (id ProjectID) Hex() string { return primitive.ObjectID(id).Hex() }
func (id TaskID) Hex() string    { return primitive.ObjectID(id).Hex() }

func (id UserID) IsZero() bool    { return primitive.ObjectID(id).IsZero() }
func (id ProjectID) IsZero() bool { return primitive.ObjectID(id).IsZero() }
func (id TaskID) IsZero() bool    { return primitive.ObjectID(id).IsZero() }

func (id UserID) MarshalBSONValue() (bsontype.Type, []byte, error) {
	return bson.MarshalValue(primitive.ObjectID(id))
}

func (id *UserID) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	raw := bson.RawValue{Type: t, Value: data}
	return raw.Unmarshal((*primitive.ObjectID)(id))
}

func (id UserID) MarshalJSON() ([]byte, error) {
	return primitive.ObjectID(id).MarshalJSON()
}

func (id *UserID) UnmarshalJSON(b []byte) error {
	return (*primitive.ObjectID)(id).UnmarshalJSON(b)
}

func (id ProjectID) MarshalBSONValue() (bsontype.Type, []byte, error) {
	return bson.MarshalValue(primitive.ObjectID(id))
}

func (id *ProjectID) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	raw := bson.RawValue{Type: t, Value: data}
	return raw.Unmarshal((*primitive.ObjectID)(id))
}

func (id ProjectID) MarshalJSON() ([]byte, error) {
	return primitive.ObjectID(id).MarshalJSON()
}

func (id *ProjectID) UnmarshalJSON(b []byte) error {
	return (*primitive.ObjectID)(id).UnmarshalJSON(b)
}

func (id TaskID) MarshalBSONValue() (bsontype.Type, []byte, error) {
	return bson.MarshalValue(primitive.ObjectID(id))
}

func (id *TaskID) UnmarshalBSONValue(t bsontype.Type, data []byte) error {
	raw := bson.RawValue{Type: t, Value: data}
	return raw.Unmarshal((*primitive.ObjectID)(id))
}

func (id TaskID) MarshalJSON() ([]byte, error) {
	return primitive.ObjectID(id).MarshalJSON()
}

func (id *TaskID) UnmarshalJSON(b []byte) error {
	return (*primitive.ObjectID)(id).UnmarshalJSON(b)
}
