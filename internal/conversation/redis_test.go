package conversation_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/cloudwego/eino/schema"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/octank-fsi/dialog-agent/internal/conversation"
)

func newTestStore(t *testing.T) *conversation.RedisStore {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return conversation.NewRedisStore(client, time.Hour)
}

func TestChatIndexDefaultsToZero(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	idx, err := store.ChatIndex(ctx, "jdoe")
	require.NoError(t, err)
	assert.Equal(t, 0, idx)

	sid, err := store.SessionID(ctx, "jdoe")
	require.NoError(t, err)
	assert.Equal(t, "jdoe-0", sid)
}

func TestStartNewChatIncrementsAndPersists(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	idx, err := store.StartNewChat(ctx, "jdoe")
	require.NoError(t, err)
	assert.Equal(t, 1, idx)

	// the counter must survive a fresh read
	idx, err = store.ChatIndex(ctx, "jdoe")
	require.NoError(t, err)
	assert.Equal(t, 1, idx)

	idx, err = store.StartNewChat(ctx, "jdoe")
	require.NoError(t, err)
	assert.Equal(t, 2, idx)
}

func TestNewChatStartsWithEmptyHistory(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	sid, err := store.SessionID(ctx, "jdoe")
	require.NoError(t, err)
	require.NoError(t, store.AppendMessage(ctx, sid, schema.UserMessage("hello")))
	require.NoError(t, store.AppendMessage(ctx, sid, schema.AssistantMessage("hi there", nil)))

	msgs, err := store.History(ctx, sid)
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, schema.User, msgs[0].Role)
	assert.Equal(t, "hello", msgs[0].Content)
	assert.Equal(t, schema.Assistant, msgs[1].Role)

	// a new chat gets a new key with no messages
	_, err = store.StartNewChat(ctx, "jdoe")
	require.NoError(t, err)
	sid2, err := store.SessionID(ctx, "jdoe")
	require.NoError(t, err)
	assert.NotEqual(t, sid, sid2)

	msgs, err = store.History(ctx, sid2)
	require.NoError(t, err)
	assert.Empty(t, msgs)
}

func TestHistoryEmptyForUnknownSession(t *testing.T) {
	store := newTestStore(t)

	msgs, err := store.History(context.Background(), "ghost-7")
	require.NoError(t, err)
	assert.Empty(t, msgs)
}
