package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"

	apperrors "github.com/pagegrid/pagegrid/pkg/errors"
	"github.com/pagegrid/pagegrid/pkg/scene"
)

// redisKeyPrefix namespaces document keys so a shared Redis instance can
// hold unrelated data alongside pagegrid documents.
const redisKeyPrefix = "pagegrid:doc:"

// RedisStore is a Redis-backed document store for shared editing setups.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore creates a Redis-backed store from a redis:// URL and
// verifies connectivity with a ping.
func NewRedisStore(ctx context.Context, url string) (*RedisStore, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, apperrors.Wrap(apperrors.ErrCodeInvalidStoreDSN, err, "parse redis URL")
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &RedisStore{client: client}, nil
}

func redisKey(name string) string {
	return redisKeyPrefix + name
}

func (s *RedisStore) Save(ctx context.Context, name, title string, tree *scene.Tree) (Record, error) {
	if err := apperrors.ValidateDocumentName(name); err != nil {
		return Record{}, err
	}

	var prev *Record
	if existing, err := s.readEnvelope(ctx, name); err == nil {
		prev = &existing.Record
	}

	env := seal(name, title, tree, prev)
	data, err := json.Marshal(env)
	if err != nil {
		return Record{}, fmt.Errorf("marshal document: %w", err)
	}
	if err := s.client.Set(ctx, redisKey(name), data, 0).Err(); err != nil {
		return Record{}, fmt.Errorf("write document: %w", err)
	}
	return env.Record, nil
}

func (s *RedisStore) Load(ctx context.Context, name string) (*scene.Tree, Record, error) {
	env, err := s.readEnvelope(ctx, name)
	if err != nil {
		return nil, Record{}, err
	}
	return unseal(env)
}

func (s *RedisStore) List(ctx context.Context) ([]Record, error) {
	var records []Record
	iter := s.client.Scan(ctx, 0, redisKeyPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		data, err := s.client.Get(ctx, iter.Val()).Bytes()
		if err != nil {
			// A key deleted between scan and get is not a listing failure.
			if err == redis.Nil {
				continue
			}
			return nil, fmt.Errorf("read document: %w", err)
		}
		var env envelope
		if err := json.Unmarshal(data, &env); err != nil {
			continue
		}
		records = append(records, env.Record)
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("scan documents: %w", err)
	}
	sortRecords(records)
	return records, nil
}

func (s *RedisStore) Delete(ctx context.Context, name string) error {
	if err := s.client.Del(ctx, redisKey(name)).Err(); err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	return nil
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}

func (s *RedisStore) readEnvelope(ctx context.Context, name string) (envelope, error) {
	data, err := s.client.Get(ctx, redisKey(name)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return envelope{}, ErrNotFound
		}
		return envelope{}, fmt.Errorf("read document: %w", err)
	}

	var env envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return envelope{}, fmt.Errorf("parse document %s: %w", name, err)
	}
	return env, nil
}

var _ Store = (*RedisStore)(nil)
