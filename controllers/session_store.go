package controllers

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// SessionStore persists one cart snapshot, as JSON text, per console
// user.
type SessionStore interface {
	Load(ctx context.Context, email string) (string, error)
	Save(ctx context.Context, email, snapshot string) error
	Delete(ctx context.Context, email string) error
}

// cartSession is the stored shape of one user's in-progress cart.
type cartSession struct {
	UserEmail string    `bson:"user_email"`
	Snapshot  string    `bson:"snapshot"`
	UpdatedAt time.Time `bson:"updated_at"`
}

type mongoSessionStore struct {
	collection *mongo.Collection
}

// NewMongoSessionStore keeps cart snapshots in the cart_sessions
// collection, keyed by user email.
func NewMongoSessionStore(client *mongo.Client) SessionStore {
	return &mongoSessionStore{
		collection: client.Database("posconsole").Collection("cart_sessions"),
	}
}

func (s *mongoSessionStore) Load(ctx context.Context, email string) (string, error) {
	var session cartSession
	if err := s.collection.FindOne(ctx, bson.M{"user_email": email}).Decode(&session); err != nil {
		return "", err
	}
	return session.Snapshot, nil
}

func (s *mongoSessionStore) Save(ctx context.Context, email, snapshot string) error {
	_, err := s.collection.UpdateOne(ctx,
		bson.M{"user_email": email},
		bson.M{"$set": bson.M{"snapshot": snapshot, "updated_at": time.Now().UTC()}},
		options.Update().SetUpsert(true),
	)
	return err
}

func (s *mongoSessionStore) Delete(ctx context.Context, email string) error {
	_, err := s.collection.DeleteOne(ctx, bson.M{"user_email": email})
	return err
}
