package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/jwebster45206/noir-engine/pkg/chat"
	"github.com/jwebster45206/noir-engine/pkg/state"
	"github.com/jwebster45206/noir-engine/pkg/storage"
	"github.com/redis/go-redis/v9"
)

// MaxMessages caps how much of a transcript is kept per game.
const MaxMessages = 500

// RedisStorage keeps player state as a JSON string and the transcript as a
// list, both expiring after the configured TTL of inactivity.
type RedisStorage struct {
	client *redis.Client
	logger *slog.Logger
	ttl    time.Duration
}

// Ensure RedisStorage implements Storage interface
var _ storage.Storage = (*RedisStorage)(nil)

// NewRedisStorage creates a new Redis storage instance. A ttl of zero keeps
// games forever.
func NewRedisStorage(redisURL string, ttl time.Duration, logger *slog.Logger) *RedisStorage {
	rdb := redis.NewClient(&redis.Options{
		Addr: redisURL,
	})
	if logger == nil {
		logger = slog.Default()
	}
	return &RedisStorage{client: rdb, logger: logger, ttl: ttl}
}

func gameKey(id uuid.UUID) string     { return "game:" + id.String() }
func messagesKey(id uuid.UUID) string { return "messages:" + id.String() }

func (r *RedisStorage) Ping(ctx context.Context) error {
	if err := r.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping failed: %w", err)
	}
	return nil
}

func (r *RedisStorage) Close() error {
	if err := r.client.Close(); err != nil {
		r.logger.Error("Failed to close Redis connection", "error", err)
		return err
	}
	r.logger.Info("Redis connection closed")
	return nil
}

// WaitForConnection waits for Redis to become available (used during startup)
func (r *RedisStorage) WaitForConnection(ctx context.Context, maxRetries int, retryDelay time.Duration) error {
	for i := 0; i < maxRetries; i++ {
		if err := r.Ping(ctx); err != nil {
			r.logger.Debug("Redis not ready yet", "error", err, "attempt", i+1)

			select {
			case <-ctx.Done():
				return fmt.Errorf("context cancelled while waiting for redis: %w", ctx.Err())
			case <-time.After(retryDelay):
				continue
			}
		}

		r.logger.Info("Redis connection established")
		return nil
	}

	return fmt.Errorf("redis did not become available after %d attempts", maxRetries)
}

func (r *RedisStorage) SaveGame(ctx context.Context, ps *state.PlayerState) error {
	if ps == nil {
		return errors.New("player state cannot be nil")
	}
	ps.UpdatedAt = time.Now()

	data, err := json.Marshal(ps)
	if err != nil {
		r.logger.Error("Failed to marshal player state", "game_id", ps.GameID, "error", err)
		return fmt.Errorf("failed to marshal player state: %w", err)
	}

	pipe := r.client.TxPipeline()
	pipe.Set(ctx, gameKey(ps.GameID), data, r.ttl)
	if r.ttl > 0 {
		pipe.Expire(ctx, messagesKey(ps.GameID), r.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		r.logger.Error("Failed to save player state", "game_id", ps.GameID, "error", err)
		return fmt.Errorf("failed to save player state: %w", err)
	}
	return nil
}

func (r *RedisStorage) LoadGame(ctx context.Context, id uuid.UUID) (*state.PlayerState, error) {
	data, err := r.client.Get(ctx, gameKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			r.logger.Warn("Game not found", "game_id", id)
			return nil, nil
		}
		r.logger.Error("Failed to load player state", "game_id", id, "error", err)
		return nil, fmt.Errorf("failed to load player state: %w", err)
	}

	var ps state.PlayerState
	if err := json.Unmarshal(data, &ps); err != nil {
		r.logger.Error("Failed to unmarshal player state", "game_id", id, "error", err)
		return nil, fmt.Errorf("failed to unmarshal player state: %w", err)
	}
	return &ps, nil
}

func (r *RedisStorage) DeleteGame(ctx context.Context, id uuid.UUID) error {
	if err := r.client.Del(ctx, gameKey(id), messagesKey(id)).Err(); err != nil {
		r.logger.Error("Failed to delete game", "game_id", id, "error", err)
		return fmt.Errorf("failed to delete game: %w", err)
	}
	return nil
}

func (r *RedisStorage) AppendMessages(ctx context.Context, id uuid.UUID, msgs []chat.Message) error {
	if len(msgs) == 0 {
		return nil
	}
	values := make([]any, 0, len(msgs))
	for _, m := range msgs {
		data, err := json.Marshal(m)
		if err != nil {
			return fmt.Errorf("failed to marshal message: %w", err)
		}
		values = append(values, data)
	}

	key := messagesKey(id)
	pipe := r.client.TxPipeline()
	pipe.RPush(ctx, key, values...)
	pipe.LTrim(ctx, key, -MaxMessages, -1)
	if r.ttl > 0 {
		pipe.Expire(ctx, key, r.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		r.logger.Error("Failed to append messages", "game_id", id, "error", err)
		return fmt.Errorf("failed to append messages: %w", err)
	}
	return nil
}

func (r *RedisStorage) LoadMessages(ctx context.Context, id uuid.UUID, limit int) ([]chat.Message, error) {
	start := int64(0)
	if limit > 0 {
		start = int64(-limit)
	}
	raw, err := r.client.LRange(ctx, messagesKey(id), start, -1).Result()
	if err != nil {
		r.logger.Error("Failed to load messages", "game_id", id, "error", err)
		return nil, fmt.Errorf("failed to load messages: %w", err)
	}

	msgs := make([]chat.Message, 0, len(raw))
	for _, s := range raw {
		var m chat.Message
		if err := json.Unmarshal([]byte(s), &m); err != nil {
			return nil, fmt.Errorf("failed to unmarshal message: %w", err)
		}
		msgs = append(msgs, m)
	}
	return msgs, nil
}
