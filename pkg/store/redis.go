package store

import (
	"context"
	"encoding/json"
	"slices"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/matzehuels/scopeplot/pkg/cursor"
	"github.com/matzehuels/scopeplot/pkg/errors"
	"github.com/matzehuels/scopeplot/pkg/observability"
)

const (
	redisKeyPrefix = "scopeplot:layout:"
	redisIndexKey  = "scopeplot:layouts"
)

// RedisStore keeps layouts as JSON strings, with a set indexing the names.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore connects to the server at url (redis://host:port/db) and
// pings it.
func NewRedisStore(ctx context.Context, url string) (*RedisStore, error) {
	if url == "" {
		url = "redis://localhost:6379/0"
	}
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse redis url")
	}
	client := redis.NewClient(opts)
	ping := func(ctx context.Context) error { return client.Ping(ctx).Err() }
	if err := connect(ctx, ping); err != nil {
		client.Close()
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "connect to redis at %s", opts.Addr)
	}
	return NewRedisStoreFromClient(client), nil
}

// NewRedisStoreFromClient wraps an existing client.
func NewRedisStoreFromClient(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Save(ctx context.Context, l cursor.Layout) error {
	if err := errors.ValidateLayoutName(l.Name); err != nil {
		return err
	}
	data, err := json.Marshal(l)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "marshal layout")
	}
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, redisKeyPrefix+l.Name, data, 0)
		pipe.SAdd(ctx, redisIndexKey, l.Name)
		return nil
	})
	observability.Store().OnSave(ctx, BackendRedis, len(data), err)
	if err != nil {
		return errors.Wrap(errors.ErrCodeNetwork, err, "save layout %q", l.Name)
	}
	return nil
}

func (s *RedisStore) Load(ctx context.Context, name string) (cursor.Layout, error) {
	if err := errors.ValidateLayoutName(name); err != nil {
		return cursor.Layout{}, err
	}
	start := time.Now()
	data, err := s.client.Get(ctx, redisKeyPrefix+name).Bytes()
	observability.Store().OnLoad(ctx, BackendRedis, err == nil, time.Since(start))
	if err == redis.Nil {
		return cursor.Layout{}, notFound(name)
	}
	if err != nil {
		return cursor.Layout{}, errors.Wrap(errors.ErrCodeNetwork, err, "load layout %q", name)
	}
	var l cursor.Layout
	if err := json.Unmarshal(data, &l); err != nil {
		return cursor.Layout{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse layout %q", name)
	}
	return l, nil
}

func (s *RedisStore) List(ctx context.Context) ([]string, error) {
	names, err := s.client.SMembers(ctx, redisIndexKey).Result()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeNetwork, err, "list layouts")
	}
	slices.Sort(names)
	return names, nil
}

func (s *RedisStore) Delete(ctx context.Context, name string) error {
	if err := errors.ValidateLayoutName(name); err != nil {
		return err
	}
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, redisKeyPrefix+name)
		pipe.SRem(ctx, redisIndexKey, name)
		return nil
	})
	if err != nil {
		return errors.Wrap(errors.ErrCodeNetwork, err, "delete layout %q", name)
	}
	return nil
}

func (s *RedisStore) Close() error { return s.client.Close() }

var _ Store = (*RedisStore)(nil)
