package replication

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/billing/backend/internal/infrastructure/config"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// RedisReplicator mirrors saved records to a remote Redis store. It is the
// best-effort leg of persistence: callers log failures and carry on, they
// never roll back the local write. Records are stored as JSON hash fields
// keyed by collection and tenant, so a remote reader can list a tenant's
// records per collection in one call.
type RedisReplicator struct {
	client    *redis.Client
	keyPrefix string
	timeout   time.Duration
}

// NewRedisReplicator creates a replicator from Redis connection settings
func NewRedisReplicator(cfg *config.RedisConfig) (*RedisReplicator, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr(),
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     10,
		MinIdleConns: 3,
		MaxRetries:   3,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis for replication: %w", err)
	}

	return NewRedisReplicatorWithClient(client), nil
}

// NewRedisReplicatorWithClient creates a replicator with an existing Redis client
func NewRedisReplicatorWithClient(client *redis.Client) *RedisReplicator {
	return &RedisReplicator{
		client:    client,
		keyPrefix: "billing:records:",
		timeout:   3 * time.Second,
	}
}

// Replicate writes the record's JSON snapshot to the remote store,
// overwriting any previous snapshot of the same record
func (r *RedisReplicator) Replicate(ctx context.Context, collection string, tenantID, recordID uuid.UUID, record any) error {
	payload, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal record for replication: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	if err := r.client.HSet(ctx, r.key(collection, tenantID), recordID.String(), payload).Err(); err != nil {
		return fmt.Errorf("failed to replicate record: %w", err)
	}
	return nil
}

// Remove deletes the record's remote snapshot
func (r *RedisReplicator) Remove(ctx context.Context, collection string, tenantID, recordID uuid.UUID) error {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	if err := r.client.HDel(ctx, r.key(collection, tenantID), recordID.String()).Err(); err != nil {
		return fmt.Errorf("failed to remove replicated record: %w", err)
	}
	return nil
}

// Close releases the underlying Redis connection
func (r *RedisReplicator) Close() error {
	return r.client.Close()
}

func (r *RedisReplicator) key(collection string, tenantID uuid.UUID) string {
	return fmt.Sprintf("%s%s:%s", r.keyPrefix, collection, tenantID)
}
