package store

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	apperrors "github.com/pagegrid/pagegrid/pkg/errors"
	"github.com/pagegrid/pagegrid/pkg/scene"
)

const (
	mongoDatabase   = "pagegrid"
	mongoCollection = "documents"
)

// MongoStore is a MongoDB-backed document store.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// NewMongoStore creates a MongoDB-backed store from a mongodb:// URI and
// verifies connectivity with a ping.
func NewMongoStore(ctx context.Context, uri string) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInvalidStoreDSN, err, "connect mongodb")
	}
	if err := client.Ping(ctx, nil); err != nil {
		client.Disconnect(ctx)
		return nil, fmt.Errorf("ping mongodb: %w", err)
	}
	return &MongoStore{
		client: client,
		coll:   client.Database(mongoDatabase).Collection(mongoCollection),
	}, nil
}

func (s *MongoStore) Save(ctx context.Context, name, title string, tree *scene.Tree) (Record, error) {
	if err := apperrors.ValidateDocumentName(name); err != nil {
		return Record{}, err
	}

	var prev *Record
	if existing, err := s.readEnvelope(ctx, name); err == nil {
		prev = &existing.Record
	}

	env := seal(name, title, tree, prev)
	_, err := s.coll.ReplaceOne(ctx, bson.M{"_id": name}, env, options.Replace().SetUpsert(true))
	if err != nil {
		return Record{}, fmt.Errorf("write document: %w", err)
	}
	return env.Record, nil
}

func (s *MongoStore) Load(ctx context.Context, name string) (*scene.Tree, Record, error) {
	env, err := s.readEnvelope(ctx, name)
	if err != nil {
		return nil, Record{}, err
	}
	return unseal(env)
}

func (s *MongoStore) List(ctx context.Context) ([]Record, error) {
	cursor, err := s.coll.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	defer cursor.Close(ctx)

	var envelopes []envelope
	if err := cursor.All(ctx, &envelopes); err != nil {
		return nil, fmt.Errorf("decode documents: %w", err)
	}

	records := make([]Record, 0, len(envelopes))
	for _, env := range envelopes {
		records = append(records, env.Record)
	}
	sortRecords(records)
	return records, nil
}

func (s *MongoStore) Delete(ctx context.Context, name string) error {
	if _, err := s.coll.DeleteOne(ctx, bson.M{"_id": name}); err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	return nil
}

func (s *MongoStore) Close() error {
	return s.client.Disconnect(context.Background())
}

func (s *MongoStore) readEnvelope(ctx context.Context, name string) (envelope, error) {
	var env envelope
	err := s.coll.FindOne(ctx, bson.M{"_id": name}).Decode(&env)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return envelope{}, ErrNotFound
		}
		return envelope{}, fmt.Errorf("read document: %w", err)
	}
	return env, nil
}

var _ Store = (*MongoStore)(nil)
