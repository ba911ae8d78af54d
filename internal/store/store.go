// Package store persists a participant's long-term signing seed, topic
// key, and trust set to MongoDB so a participant binary can resume a
// topic across restarts.
package store

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"stringphone/internal/identity"
)

// Record is the persisted shape of one participant's local state.
type Record struct {
	Name     string            `bson:"_id"`
	Seed     []byte            `bson:"seed"`
	TopicKey []byte            `bson:"topic_key,omitempty"`
	Trusted  map[string][]byte `bson:"trusted,omitempty"` // hex identity.ID -> signing public key
}

// Store is a MongoDB-backed repository of Records.
type Store struct {
	collection *mongo.Collection
}

func New(db *mongo.Database) *Store {
	return &Store{collection: db.Collection("participants")}
}

// Load returns the record for name, or nil if none exists.
func (s *Store) Load(ctx context.Context, name string) (*Record, error) {
	var rec Record
	err := s.collection.FindOne(ctx, bson.M{"_id": name}).Decode(&rec)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &rec, nil
}

// Save upserts rec.
func (s *Store) Save(ctx context.Context, rec *Record) error {
	opts := options.Replace().SetUpsert(true)
	_, err := s.collection.ReplaceOne(ctx, bson.M{"_id": rec.Name}, rec, opts)
	return err
}

// TrustedKeyName returns the map key under which a trusted signing key
// for id should be stored in Record.Trusted.
func TrustedKeyName(id identity.ID) string {
	return id.String()
}
