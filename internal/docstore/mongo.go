package docstore

import (
	"context"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

// Mongo implements Client on top of a Mongo database. Documents are
// keyed by a string _id so ids assigned by the identity provider can be
// used directly.
type Mongo struct {
	db *mongo.Database
}

func NewMongo(db *mongo.Database) *Mongo {
	return &Mongo{db: db}
}

func (m *Mongo) QueryEquals(ctx context.Context, collection, field string, value any, out any) error {
	cursor, err := m.db.Collection(collection).Find(ctx, bson.M{field: value})
	if err != nil {
		return err
	}
	return cursor.All(ctx, out)
}

func (m *Mongo) GetByID(ctx context.Context, collection, id string, out any) error {
	err := m.db.Collection(collection).FindOne(ctx, bson.M{"_id": id}).Decode(out)
	if err == mongo.ErrNoDocuments {
		return ErrNotFound
	}
	return err
}

func (m *Mongo) CreateWithID(ctx context.Context, collection, id string, body any) (string, error) {
	if id == "" {
		id = bson.NewObjectID().Hex()
	}
	doc, err := toDocument(body)
	if err != nil {
		return "", err
	}
	doc["_id"] = id
	if _, err := m.db.Collection(collection).InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", ErrDuplicateID
		}
		return "", err
	}
	return id, nil
}

func (m *Mongo) Update(ctx context.Context, collection, id string, body any) error {
	doc, err := toDocument(body)
	if err != nil {
		return err
	}
	doc["_id"] = id
	result, err := m.db.Collection(collection).ReplaceOne(ctx, bson.M{"_id": id}, doc)
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (m *Mongo) Delete(ctx context.Context, collection, id string) error {
	result, err := m.db.Collection(collection).DeleteOne(ctx, bson.M{"_id": id})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}

// toDocument round-trips body through bson so struct tags apply and the
// _id can be set uniformly.
func toDocument(body any) (bson.M, error) {
	data, err := bson.Marshal(body)
	if err != nil {
		return nil, err
	}
	var doc bson.M
	if err := bson.Unmarshal(data, &doc); err != nil {
		return nil, err
	}
	return doc, nil
}
