package cache

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/pkg/errors"
	"github.com/redis/go-redis/v9"
)

type Entry struct {
	Data      []byte    `json:"data"`
	FetchedAt time.Time `json:"fetched_at"`
}

// Store keeps entries for at most the retain duration. Get returns nil on a miss.
type Store interface {
	Get(ctx context.Context, key string) (*Entry, error)
	Set(ctx context.Context, key string, entry Entry, retain time.Duration) error
	Delete(ctx context.Context, key string) error
}

type memoryStore struct {
	mu      sync.Mutex
	entries map[string]memoryItem
	now     func() time.Time
}

type memoryItem struct {
	entry     Entry
	expiresAt time.Time
}

func NewMemoryStore() Store {
	return &memoryStore{
		entries: map[string]memoryItem{},
		now:     time.Now,
	}
}

func (m *memoryStore) Get(ctx context.Context, key string) (*Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	item, ok := m.entries[key]
	if !ok {
		return nil, nil
	}
	if !m.now().Before(item.expiresAt) {
		delete(m.entries, key)
		return nil, nil
	}
	entry := item.entry
	return &entry, nil
}

func (m *memoryStore) Set(ctx context.Context, key string, entry Entry, retain time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries[key] = memoryItem{entry: entry, expiresAt: m.now().Add(retain)}
	return nil
}

func (m *memoryStore) Delete(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, key)
	return nil
}

type redisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore connects to redisURL and checks the connection.
func NewRedisStore(ctx context.Context, redisURL string) (Store, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, errors.Wrap(err, "parse redis url")
	}
	client := redis.NewClient(opts)
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err = client.Ping(pingCtx).Err(); err != nil {
		return nil, errors.Wrap(err, "connect to redis")
	}
	return NewRedisStoreWithClient(client), nil
}

func NewRedisStoreWithClient(client *redis.Client) Store {
	return &redisStore{
		client: client,
		prefix: "bbs:cache:",
	}
}

func (s *redisStore) Get(ctx context.Context, key string) (*Entry, error) {
	data, err := s.client.Get(ctx, s.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "read cache entry")
	}
	entry := Entry{}
	if err = json.Unmarshal(data, &entry); err != nil {
		return nil, errors.Wrap(err, "decode cache entry")
	}
	return &entry, nil
}

func (s *redisStore) Set(ctx context.Context, key string, entry Entry, retain time.Duration) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return errors.Wrap(err, "encode cache entry")
	}
	if err = s.client.Set(ctx, s.prefix+key, data, retain).Err(); err != nil {
		return errors.Wrap(err, "save cache entry")
	}
	return nil
}

func (s *redisStore) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.prefix+key).Err(); err != nil {
		return errors.Wrap(err, "delete cache entry")
	}
	return nil
}
