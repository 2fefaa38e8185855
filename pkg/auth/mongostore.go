/*
Copyright the Asset Gateway contributors.

SPDX-License-Identifier: Apache-2.0
*/

package auth

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	mongooptions "go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/simpleasset/gateway/pkg/errcode"
)

const usersCollection = "users"

// MongoStore persists accounts in MongoDB. Insert-if-absent comes from the
// unique _id index, so concurrent signups for one email have exactly one
// winner.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// NewMongoStore connects to MongoDB, retrying the initial ping briefly so a
// gateway starting alongside its database does not flap.
func NewMongoStore(ctx context.Context, uri, database string) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, mongooptions.Client().ApplyURI(uri))
	if err != nil {
		return nil, errors.Wrap(err, "failed to create MongoDB client")
	}

	ping := func() error {
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		return client.Ping(pingCtx, readpref.Primary())
	}
	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 5), ctx)
	if err := backoff.Retry(ping, policy); err != nil {
		return nil, errors.Wrap(err, "failed to reach MongoDB")
	}

	return &MongoStore{
		client: client,
		coll:   client.Database(database).Collection(usersCollection),
	}, nil
}

// Create inserts the account. A duplicate id fails with AlreadyExists.
func (s *MongoStore) Create(ctx context.Context, user *User) error {
	_, err := s.coll.InsertOne(ctx, user)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return errcode.New(errcode.AlreadyExists, "an account for %q already exists", user.ID)
		}
		return errors.Wrap(err, "failed to insert account")
	}
	return nil
}

// Get loads the account stored under id.
func (s *MongoStore) Get(ctx context.Context, id string) (*User, error) {
	var user User
	err := s.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, errcode.New(errcode.NotFound, "an account for %q does not exist", id)
		}
		return nil, errors.Wrap(err, "failed to load account")
	}
	return &user, nil
}

// Ping reports database liveness for the health endpoint.
func (s *MongoStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

// Close disconnects the underlying client.
func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
