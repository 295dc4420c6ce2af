package conversation

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/cloudwego/eino/schema"
	"github.com/redis/go-redis/v9"

	errx "github.com/octank-fsi/dialog-agent/internal/core/error"
	logx "github.com/octank-fsi/dialog-agent/pkg/logger"
)

// RedisStore persists conversation state in Redis: a hash per user for the
// chat counter and a list of JSON-marshalled messages per session.
type RedisStore struct {
	rdb redis.Cmdable
	ttl time.Duration
}

// NewRedisStore builds a RedisStore. ttl <= 0 disables expiry on message logs.
func NewRedisStore(rdb redis.Cmdable, ttl time.Duration) *RedisStore {
	return &RedisStore{rdb: rdb, ttl: ttl}
}

func (s *RedisStore) indexKey(userID string) string {
	return fmt.Sprintf("chat:index:%s", userID)
}

func (s *RedisStore) messagesKey(sessionID string) string {
	return fmt.Sprintf("conversation:%s:messages", sessionID)
}

func (s *RedisStore) ChatIndex(ctx context.Context, userID string) (int, error) {
	v, err := s.rdb.HGet(ctx, s.indexKey(userID), "chat_index").Result()
	if err != nil {
		if err == redis.Nil {
			// absence is a valid initial state
			return 0, nil
		}
		logx.Error().Err(err).Str("user_id", userID).Msg("failed to read chat index")
		return 0, errx.WrapRedis(err)
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("corrupt chat index for %s: %w", userID, err)
	}
	return n, nil
}

// StartNewChat is a plain read-modify-write: the counter is persisted with a
// timestamp before any messages are written under the new index.
func (s *RedisStore) StartNewChat(ctx context.Context, userID string) (int, error) {
	current, err := s.ChatIndex(ctx, userID)
	if err != nil {
		return 0, err
	}
	next := current + 1

	key := s.indexKey(userID)
	if err := s.rdb.HSet(ctx, key,
		"chat_index", strconv.Itoa(next),
		"updated_at", time.Now().UTC().Format(time.RFC3339),
	).Err(); err != nil {
		logx.Error().Err(err).Str("key", key).Msg("failed to persist chat index")
		return 0, errx.WrapRedis(err)
	}
	return next, nil
}

func (s *RedisStore) SessionID(ctx context.Context, userID string) (string, error) {
	idx, err := s.ChatIndex(ctx, userID)
	if err != nil {
		return "", err
	}
	return FormatSessionID(userID, idx), nil
}

func (s *RedisStore) AppendMessage(ctx context.Context, sessionID string, message *schema.Message) error {
	b, err := json.Marshal(message)
	if err != nil {
		logx.Error().Err(err).Str("session_id", sessionID).Msg("failed to marshal message")
		return fmt.Errorf("marshal message: %w", err)
	}
	key := s.messagesKey(sessionID)

	if err := s.rdb.RPush(ctx, key, b).Err(); err != nil {
		logx.Error().Err(err).Str("key", key).Msg("failed to push message to redis")
		return errx.WrapRedis(err)
	}
	// extend TTL on touch
	if s.ttl > 0 {
		if ok, err := s.rdb.Expire(ctx, key, s.ttl).Result(); err != nil {
			logx.Error().Err(err).Str("key", key).Msg("failed to set expire")
			return errx.WrapRedis(err)
		} else if !ok {
			logx.Warn().Str("key", key).Dur("ttl", s.ttl).Msg("failed to set TTL on conversation key")
		}
	}
	return nil
}

func (s *RedisStore) History(ctx context.Context, sessionID string) ([]*schema.Message, error) {
	key := s.messagesKey(sessionID)

	rows, err := s.rdb.LRange(ctx, key, 0, -1).Result()
	if err != nil {
		if err == redis.Nil {
			return []*schema.Message{}, nil
		}
		logx.Error().Err(err).Str("key", key).Msg("failed to load conversation history")
		return nil, errx.WrapRedis(err)
	}

	msgs := make([]*schema.Message, 0, len(rows))
	for i, row := range rows {
		var m schema.Message
		if err := json.Unmarshal([]byte(row), &m); err != nil {
			logx.Error().Err(err).Str("session_id", sessionID).Int("index", i).Msg("failed to unmarshal message")
			return nil, fmt.Errorf("unmarshal message at index %d: %w", i, err)
		}
		msgs = append(msgs, &m)
	}
	return msgs, nil
}

var _ Store = (*RedisStore)(nil)
