// Package cache wraps the Redis client: the per-game action stream used
// for spectating and replay, and short-lived session records.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// Rdb is the shared client. Nil when Redis is not configured; callers
// nil-check and degrade to in-memory behavior.
var Rdb *redis.Client

// Connect initializes Rdb from a redis:// URL and verifies the connection.
func Connect(ctx context.Context, url string) error {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return fmt.Errorf("cache: parse url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("cache: ping: %w", err)
	}
	Rdb = client
	logrus.Info("cache: connected to redis")
	return nil
}

// GameActionRecord is one applied action in a game's stream.
type GameActionRecord struct {
	GameID     uuid.UUID       `json:"gameId"`
	Index      int             `json:"index"`
	PlayerID   uuid.UUID       `json:"playerId"`
	ActionType string          `json:"actionType"`
	Payload    json.RawMessage `json:"payload,omitempty"`
	Timestamp  time.Time       `json:"timestamp"`
}

func actionListKey(gameID uuid.UUID) string { return "game:" + gameID.String() + ":actions" }
func actionChanKey(gameID uuid.UUID) string { return "game:" + gameID.String() + ":events" }

// PublishGameAction appends the record to the game's action list and
// publishes it for live subscribers.
func PublishGameAction(ctx context.Context, rec GameActionRecord) error {
	if Rdb == nil {
		return nil
	}
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("cache: marshal action: %w", err)
	}
	pipe := Rdb.Pipeline()
	pipe.RPush(ctx, actionListKey(rec.GameID), data)
	pipe.Expire(ctx, actionListKey(rec.GameID), 24*time.Hour)
	pipe.Publish(ctx, actionChanKey(rec.GameID), data)
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("cache: publish action: %w", err)
	}
	return nil
}

// GameActions returns the recorded action stream for a game, oldest first.
func GameActions(ctx context.Context, gameID uuid.UUID) ([]GameActionRecord, error) {
	if Rdb == nil {
		return nil, nil
	}
	raw, err := Rdb.LRange(ctx, actionListKey(gameID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("cache: read actions: %w", err)
	}
	out := make([]GameActionRecord, 0, len(raw))
	for _, item := range raw {
		var rec GameActionRecord
		if err := json.Unmarshal([]byte(item), &rec); err != nil {
			return nil, fmt.Errorf("cache: decode action: %w", err)
		}
		out = append(out, rec)
	}
	return out, nil
}

func sessionKey(token string) string { return "session:" + token }

// StoreSession maps an opaque reconnect token to a user for ttl.
func StoreSession(ctx context.Context, token string, userID uuid.UUID, ttl time.Duration) error {
	if Rdb == nil {
		return nil
	}
	if err := Rdb.Set(ctx, sessionKey(token), userID.String(), ttl).Err(); err != nil {
		return fmt.Errorf("cache: store session: %w", err)
	}
	return nil
}

// LookupSession resolves a reconnect token. uuid.Nil means unknown or
// expired.
func LookupSession(ctx context.Context, token string) (uuid.UUID, error) {
	if Rdb == nil {
		return uuid.Nil, nil
	}
	val, err := Rdb.Get(ctx, sessionKey(token)).Result()
	if err == redis.Nil {
		return uuid.Nil, nil
	}
	if err != nil {
		return uuid.Nil, fmt.Errorf("cache: lookup session: %w", err)
	}
	id, err := uuid.Parse(val)
	if err != nil {
		return uuid.Nil, fmt.Errorf("cache: corrupt session value: %w", err)
	}
	return id, nil
}
