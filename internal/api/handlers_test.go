package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/octank-fsi/dialog-agent/internal/accounts"
	"github.com/octank-fsi/dialog-agent/internal/api"
	"github.com/octank-fsi/dialog-agent/internal/conversation"
	"github.com/octank-fsi/dialog-agent/internal/dialog/engine"
	"github.com/octank-fsi/dialog-agent/internal/dialog/model"
)

type stubAccounts struct{}

func (stubAccounts) UserExists(context.Context, string) (bool, error) { return false, nil }
func (stubAccounts) CheckPIN(context.Context, string, string) (bool, error) {
	return false, nil
}
func (stubAccounts) QueryByUserName(context.Context, string) ([]accounts.Record, error) {
	return nil, nil
}
func (stubAccounts) PutApplication(context.Context, accounts.ApplicationRecord) error {
	return nil
}

type stubAnswerer struct{}

func (stubAnswerer) Answer(context.Context, string, string) (string, error) {
	return "a grounded answer", nil
}
func (stubAnswerer) Nudge(context.Context, string, string, string) (string, error) {
	return "a nudge", nil
}

type stubDocs struct{}

func (stubDocs) GenerateApplication(context.Context, accounts.ApplicationRecord) (string, error) {
	return "https://example.com/form.pdf", nil
}

func testRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	store := conversation.NewRedisStore(rdb, 24*time.Hour)

	e := engine.New(stubAccounts{}, stubAnswerer{}, stubDocs{})
	return api.NewRouter(e, store)
}

func TestDialogTurnReturnsWireShape(t *testing.T) {
	router := testRouter(t)

	body := `{
		"invocationSource": "DialogCodeHook",
		"inputTranscript": "what can you do?",
		"sessionState": {"intent": {"name": "FallbackIntent", "slots": {}}}
	}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/dialog", strings.NewReader(body))
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp model.DialogResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, model.ActionElicitIntent, resp.SessionState.DialogAction.Type)
	assert.Equal(t, "a grounded answer", resp.Messages[0].Content)
}

func TestDialogRejectsMalformedBody(t *testing.T) {
	router := testRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/dialog", strings.NewReader("not json"))
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestResetConversationBumpsIndex(t *testing.T) {
	router := testRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/conversations/reset", strings.NewReader(`{"user_id":"jdoe"}`))
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		UserID    string `json:"user_id"`
		ChatIndex int    `json:"chat_index"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "jdoe", resp.UserID)
	assert.Equal(t, 1, resp.ChatIndex)
}

func TestResetConversationRequiresUserID(t *testing.T) {
	router := testRouter(t)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/conversations/reset", strings.NewReader(`{}`))
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
