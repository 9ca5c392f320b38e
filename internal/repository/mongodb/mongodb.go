// Package mongodb stores users, sprints, tasks and lifecycle flags as MongoDB
// documents. Identities are UUID strings kept in _id so both backends share ids.
package mongodb

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

const (
	usersCollection   = "users"
	sprintsCollection = "sprints"
	tasksCollection   = "tasks"
	flagsCollection   = "lifecycle_flags"
)

// Connect opens a client, verifies the connection and returns the named database.
func Connect(ctx context.Context, uri, database string) (*mongo.Client, *mongo.Database, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, nil, fmt.Errorf("connect mongodb: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, nil, fmt.Errorf("ping mongodb: %w", err)
	}

	return client, client.Database(database), nil
}

// EnsureIndexes creates the indexes the stores rely on.
func EnsureIndexes(ctx context.Context, db *mongo.Database) error {
	indexes := map[string][]mongo.IndexModel{
		usersCollection: {
			{Keys: bson.D{{Key: "username", Value: 1}}, Options: options.Index().SetUnique(true)},
		},
		sprintsCollection: {
			{Keys: bson.D{{Key: "endDate", Value: 1}}},
		},
		tasksCollection: {
			{Keys: bson.D{{Key: "sprint", Value: 1}}},
			{Keys: bson.D{{Key: "assignedTo", Value: 1}}},
		},
	}

	for name, models := range indexes {
		if _, err := db.Collection(name).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("create %s indexes: %w", name, err)
		}
	}
	return nil
}

func idFilter(id string) bson.M {
	return bson.M{"_id": id}
}

func idsFilter(ids []string) bson.M {
	return bson.M{"_id": bson.M{"$in": ids}}
}
