package mongodb

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

type FlagStore struct {
	coll *mongo.Collection
}

func NewFlagStore(db *mongo.Database) *FlagStore {
	return &FlagStore{coll: db.Collection(flagsCollection)}
}

// Claim relies on the _id uniqueness: only the first insert of a name succeeds.
func (s *FlagStore) Claim(ctx context.Context, name string) (bool, error) {
	_, err := s.coll.InsertOne(ctx, bson.M{"_id": name, "setAt": time.Now().UTC()})
	if mongo.IsDuplicateKeyError(err) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (s *FlagStore) Release(ctx context.Context, name string) error {
	_, err := s.coll.DeleteOne(ctx, idFilter(name))
	return err
}
