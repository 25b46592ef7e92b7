package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"
	"github.com/redis/go-redis/v9"

	"github.com/kpihub/backend/internal/domain/shared"
	"github.com/kpihub/backend/internal/domain/workspace"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

const defaultKeyPrefix = "workspace:"

// redisGrace keeps snapshots alive slightly past their expiry so the
// janitor's sweep stays the authoritative cleanup; the key TTL is only a
// backstop against a dead janitor.
const redisGrace = time.Hour

// RedisConfig holds Redis connection configuration
type RedisConfig struct {
	Host     string
	Port     int
	Password string
	DB       int
}

// RedisStore persists JSON-serialized workspace snapshots in Redis so
// multiple replicas can serve the same sessions
type RedisStore struct {
	client    *redis.Client
	factory   workspace.DatasetFactory
	keyPrefix string
}

// NewRedisStore connects to Redis and verifies the connection
func NewRedisStore(cfg RedisConfig, factory workspace.DatasetFactory) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return NewRedisStoreWithClient(client, factory, defaultKeyPrefix), nil
}

// NewRedisStoreWithClient wraps an existing Redis client. Useful for tests
// and for sharing one client across components.
func NewRedisStoreWithClient(client *redis.Client, factory workspace.DatasetFactory, keyPrefix string) *RedisStore {
	if keyPrefix == "" {
		keyPrefix = defaultKeyPrefix
	}
	return &RedisStore{
		client:    client,
		factory:   factory,
		keyPrefix: keyPrefix,
	}
}

// redisSnapshot is the wire form of one workspace. The dataset is kept as
// raw JSON so it can be rehydrated into the domain's concrete type.
type redisSnapshot struct {
	ID        uuid.UUID           `json:"id"`
	Domain    string              `json:"domain"`
	Source    string              `json:"source"`
	Version   int                 `json:"version"`
	CreatedAt time.Time           `json:"created_at"`
	UpdatedAt time.Time           `json:"updated_at"`
	ExpiresAt time.Time           `json:"expires_at"`
	Dataset   jsoniter.RawMessage `json:"dataset"`
}

// Create stores a new workspace
func (s *RedisStore) Create(ctx context.Context, ws *workspace.Workspace) error {
	payload, err := s.marshal(ws)
	if err != nil {
		return err
	}

	ok, err := s.client.SetNX(ctx, s.key(ws.ID), payload, keyTTL(ws.ExpiresAt)).Result()
	if err != nil {
		return fmt.Errorf("failed to create workspace: %w", err)
	}
	if !ok {
		return errWorkspaceExists()
	}
	return nil
}

// Get returns a snapshot of the workspace
func (s *RedisStore) Get(ctx context.Context, id uuid.UUID) (*workspace.Workspace, error) {
	data, err := s.client.Get(ctx, s.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, errWorkspaceNotFound()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get workspace: %w", err)
	}
	return s.unmarshal(data)
}

// Save persists a mutated snapshot. The version check and write run under
// WATCH so stale writers lose deterministically.
func (s *RedisStore) Save(ctx context.Context, ws *workspace.Workspace) error {
	key := s.key(ws.ID)
	payload, err := s.marshal(ws)
	if err != nil {
		return err
	}

	err = s.client.Watch(ctx, func(tx *redis.Tx) error {
		data, err := tx.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			return errWorkspaceNotFound()
		}
		if err != nil {
			return fmt.Errorf("failed to read workspace: %w", err)
		}

		var current redisSnapshot
		if err := json.Unmarshal(data, &current); err != nil {
			return fmt.Errorf("failed to decode workspace snapshot: %w", err)
		}
		if current.Version >= ws.Version {
			return errWorkspaceConflict()
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, payload, keyTTL(ws.ExpiresAt))
			return nil
		})
		return err
	}, key)

	if errors.Is(err, redis.TxFailedErr) {
		return errWorkspaceConflict()
	}
	return err
}

// Delete removes the workspace
func (s *RedisStore) Delete(ctx context.Context, id uuid.UUID) error {
	removed, err := s.client.Del(ctx, s.key(id)).Result()
	if err != nil {
		return fmt.Errorf("failed to delete workspace: %w", err)
	}
	if removed == 0 {
		return errWorkspaceNotFound()
	}
	return nil
}

// Touch extends the expiry without bumping the version. A concurrent Save
// aborts the transaction; losing a Touch to a data write is harmless, so it
// is retried a couple of times and then given up on.
func (s *RedisStore) Touch(ctx context.Context, id uuid.UUID, expiresAt time.Time) error {
	key := s.key(id)

	for attempt := 0; attempt < 3; attempt++ {
		err := s.client.Watch(ctx, func(tx *redis.Tx) error {
			data, err := tx.Get(ctx, key).Bytes()
			if errors.Is(err, redis.Nil) {
				return errWorkspaceNotFound()
			}
			if err != nil {
				return fmt.Errorf("failed to read workspace: %w", err)
			}

			var snap redisSnapshot
			if err := json.Unmarshal(data, &snap); err != nil {
				return fmt.Errorf("failed to decode workspace snapshot: %w", err)
			}
			snap.ExpiresAt = expiresAt
			snap.UpdatedAt = time.Now()

			payload, err := json.Marshal(snap)
			if err != nil {
				return fmt.Errorf("failed to encode workspace snapshot: %w", err)
			}

			_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
				pipe.Set(ctx, key, payload, keyTTL(expiresAt))
				return nil
			})
			return err
		}, key)

		if !errors.Is(err, redis.TxFailedErr) {
			return err
		}
	}
	return nil
}

// ExpireBefore scans for snapshots whose expiry lies before the cutoff and
// removes them
func (s *RedisStore) ExpireBefore(ctx context.Context, cutoff time.Time) (int, error) {
	removed := 0
	iter := s.client.Scan(ctx, 0, s.keyPrefix+"*", 200).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()

		data, err := s.client.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			continue
		}
		if err != nil {
			return removed, fmt.Errorf("failed to read workspace: %w", err)
		}

		var snap redisSnapshot
		if err := json.Unmarshal(data, &snap); err != nil {
			return removed, fmt.Errorf("failed to decode workspace snapshot: %w", err)
		}
		if !snap.ExpiresAt.Before(cutoff) {
			continue
		}

		n, err := s.client.Del(ctx, key).Result()
		if err != nil {
			return removed, fmt.Errorf("failed to delete workspace: %w", err)
		}
		removed += int(n)
	}
	if err := iter.Err(); err != nil {
		return removed, fmt.Errorf("failed to scan workspaces: %w", err)
	}
	return removed, nil
}

// Count returns the number of stored workspaces
func (s *RedisStore) Count(ctx context.Context) (int, error) {
	count := 0
	iter := s.client.Scan(ctx, 0, s.keyPrefix+"*", 200).Iterator()
	for iter.Next(ctx) {
		count++
	}
	if err := iter.Err(); err != nil {
		return 0, fmt.Errorf("failed to scan workspaces: %w", err)
	}
	return count, nil
}

// Close closes the underlying Redis client
func (s *RedisStore) Close() error {
	return s.client.Close()
}

func (s *RedisStore) key(id uuid.UUID) string {
	return s.keyPrefix + id.String()
}

func (s *RedisStore) marshal(ws *workspace.Workspace) ([]byte, error) {
	raw, err := json.Marshal(ws.Dataset)
	if err != nil {
		return nil, fmt.Errorf("failed to encode dataset: %w", err)
	}
	snap := redisSnapshot{
		ID:        ws.ID,
		Domain:    ws.Domain,
		Source:    ws.Source,
		Version:   ws.Version,
		CreatedAt: ws.CreatedAt,
		UpdatedAt: ws.UpdatedAt,
		ExpiresAt: ws.ExpiresAt,
		Dataset:   raw,
	}
	payload, err := json.Marshal(snap)
	if err != nil {
		return nil, fmt.Errorf("failed to encode workspace snapshot: %w", err)
	}
	return payload, nil
}

func (s *RedisStore) unmarshal(data []byte) (*workspace.Workspace, error) {
	var snap redisSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("failed to decode workspace snapshot: %w", err)
	}

	ds, err := s.factory(snap.Domain)
	if err != nil {
		return nil, err
	}
	if len(snap.Dataset) > 0 {
		if err := json.Unmarshal(snap.Dataset, ds); err != nil {
			return nil, fmt.Errorf("failed to decode dataset: %w", err)
		}
	}

	ws := &workspace.Workspace{
		BaseAggregateRoot: shared.BaseAggregateRoot{
			BaseEntity: shared.BaseEntity{
				ID:        snap.ID,
				CreatedAt: snap.CreatedAt,
				UpdatedAt: snap.UpdatedAt,
			},
			Version: snap.Version,
		},
		Domain:    snap.Domain,
		Source:    snap.Source,
		ExpiresAt: snap.ExpiresAt,
		Dataset:   ds,
	}
	return ws, nil
}

func keyTTL(expiresAt time.Time) time.Duration {
	ttl := time.Until(expiresAt) + redisGrace
	if ttl <= 0 {
		ttl = time.Second
	}
	return ttl
}

// Ensure RedisStore implements workspace.Store
var _ workspace.Store = (*RedisStore)(nil)
