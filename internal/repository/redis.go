package repository

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"orderdesk/internal/model"
)

// redisRepository keeps one hash per kind, field = code.
type redisRepository struct {
	client *redis.Client
	prefix string
	logger zerolog.Logger
}

// NewRedisRepository creates a Redis-backed snapshot repository. Keys are
// named "<prefix>:<kind>".
func NewRedisRepository(client *redis.Client, prefix string, logger zerolog.Logger) SnapshotRepository {
	if prefix == "" {
		prefix = "orderdesk"
	}
	return &redisRepository{
		client: client,
		prefix: prefix,
		logger: logger.With().Str("repository", "redis").Logger(),
	}
}

func (r *redisRepository) key(kind string) string {
	return r.prefix + ":" + kind
}

// Save replaces every hash inside a MULTI/EXEC transaction.
func (r *redisRepository) Save(ctx context.Context, snap *model.Snapshot) error {
	records, err := encodeRecords(snap)
	if err != nil {
		return err
	}

	fields := make(map[string]map[string]any, len(allKinds))
	for _, rec := range records {
		if fields[rec.Kind] == nil {
			fields[rec.Kind] = make(map[string]any)
		}
		fields[rec.Kind][rec.Key] = string(rec.Payload)
	}

	pipe := r.client.TxPipeline()
	for _, kind := range allKinds {
		pipe.Del(ctx, r.key(kind))
		if values := fields[kind]; len(values) > 0 {
			pipe.HSet(ctx, r.key(kind), values)
		}
	}
	if _, err := pipe.Exec(ctx); err != nil {
		r.logger.Error().Err(err).Msg("failed to save snapshot")
		return fmt.Errorf("failed to save snapshot to redis: %w", err)
	}

	r.logger.Debug().Int("records", len(records)).Msg("snapshot saved")
	return nil
}

// Load reads every hash. A missing counter hash means nothing was saved.
func (r *redisRepository) Load(ctx context.Context) (*model.Snapshot, error) {
	exists, err := r.client.Exists(ctx, r.key(model.KindCounter)).Result()
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to check snapshot")
		return nil, fmt.Errorf("failed to check snapshot in redis: %w", err)
	}
	if exists == 0 {
		return nil, nil
	}

	pipe := r.client.Pipeline()
	cmds := make(map[string]*redis.MapStringStringCmd, len(allKinds))
	for _, kind := range allKinds {
		cmds[kind] = pipe.HGetAll(ctx, r.key(kind))
	}
	if _, err := pipe.Exec(ctx); err != nil {
		r.logger.Error().Err(err).Msg("failed to load snapshot")
		return nil, fmt.Errorf("failed to load snapshot from redis: %w", err)
	}

	var records []record
	for _, kind := range allKinds {
		for key, payload := range cmds[kind].Val() {
			records = append(records, record{Kind: kind, Key: key, Payload: []byte(payload)})
		}
	}
	return decodeRecords(records)
}
