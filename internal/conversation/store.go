// Package conversation keys and persists per-user chat history: an
// append-only message log per session plus a monotonic per-user chat index.
// A session is identified by "<user>-<index>"; bumping the index starts a
// fresh, empty log so old topics never bleed into the model context window.
package conversation

import (
	"context"
	"fmt"

	"github.com/cloudwego/eino/schema"
)

// Store is the conversation-memory collaborator used by the flow engine and
// the RAG orchestrator.
type Store interface {
	// ChatIndex returns the user's persisted chat counter, 0 when absent.
	ChatIndex(ctx context.Context, userID string) (int, error)

	// StartNewChat increments and persists the chat counter, returning the
	// new value. Concurrent increments for one user are last-writer-wins;
	// the dialog engine serializes turns per session so this is acceptable.
	StartNewChat(ctx context.Context, userID string) (int, error)

	// SessionID returns the identifier of the user's current session.
	SessionID(ctx context.Context, userID string) (string, error)

	// AppendMessage appends one message to a session's history.
	AppendMessage(ctx context.Context, sessionID string, message *schema.Message) error

	// History returns a session's messages in append order.
	History(ctx context.Context, sessionID string) ([]*schema.Message, error)
}

// FormatSessionID builds the session identifier from a user and chat index.
func FormatSessionID(userID string, chatIndex int) string {
	return fmt.Sprintf("%s-%d", userID, chatIndex)
}
