// Package engine is the per-turn dialog state machine: it routes each inbound
// turn by intent name, runs the intent's ordered slot-validation pipeline, and
// decides which of the five dialog actions to return. Side effects (account
// lookups, application persistence, document generation, model calls) go
// through narrow collaborator interfaces.
package engine

import (
	"context"

	"github.com/octank-fsi/dialog-agent/internal/accounts"
	"github.com/octank-fsi/dialog-agent/internal/dialog/model"
	"github.com/octank-fsi/dialog-agent/internal/dialog/respond"
	logx "github.com/octank-fsi/dialog-agent/pkg/logger"
)

// AccountStore is the account and loan-application persistence collaborator.
// Backend failures come back as errors, never as a false lookup result.
type AccountStore interface {
	UserExists(ctx context.Context, userName string) (bool, error)
	CheckPIN(ctx context.Context, userName, pin string) (bool, error)
	QueryByUserName(ctx context.Context, userName string) ([]accounts.Record, error)
	PutApplication(ctx context.Context, app accounts.ApplicationRecord) error
}

// Answerer is the generation collaborator: grounded question answering for
// the fallback path, conversational nudges for off-script slot replies.
type Answerer interface {
	Answer(ctx context.Context, userID, question string) (string, error)
	Nudge(ctx context.Context, userID, asked, reply string) (string, error)
}

// DocumentPipeline renders and publishes the completed application form.
type DocumentPipeline interface {
	GenerateApplication(ctx context.Context, app accounts.ApplicationRecord) (string, error)
}

// defaultUserID keys conversation memory for turns arriving before identity
// verification has stored a username.
const defaultUserID = "Example User"

type Engine struct {
	accounts  AccountStore
	answerer  Answerer
	documents DocumentPipeline
}

func New(accounts AccountStore, answerer Answerer, documents DocumentPipeline) *Engine {
	return &Engine{accounts: accounts, answerer: answerer, documents: documents}
}

// Dispatch routes one inbound turn by intent name. Unrecognized intents fall
// through to the grounded question-answering path.
func (e *Engine) Dispatch(ctx context.Context, req *model.DialogRequest) (*model.DialogResponse, error) {
	intentName := req.SessionState.Intent.Name
	logx.Debug().
		Str("intent", intentName).
		Str("invocation_source", req.InvocationSource).
		Msg("dispatching dialog turn")

	switch intentName {
	case model.IntentVerifyIdentity:
		return e.verifyIdentity(ctx, req)
	case model.IntentLoanApplication:
		return e.loanApplication(ctx, req)
	case model.IntentLoanCalculator:
		return e.loanCalculator(req)
	default:
		return e.fallback(ctx, req)
	}
}

// fallback forwards the raw transcript to the grounded answering path. Only a
// dialog-code-hook turn carries an utterance worth answering; validation-only
// turns delegate back to the dialog engine.
func (e *Engine) fallback(ctx context.Context, req *model.DialogRequest) (*model.DialogResponse, error) {
	attrs := req.SessionState.Attributes()
	if req.InvocationSource != model.SourceDialogCodeHook {
		return respond.Delegate(attrs, map[string]string{}, req.SessionState.Intent, ""), nil
	}

	answer, err := e.answerer.Answer(ctx, userID(req), req.InputTranscript)
	if err != nil {
		return nil, err
	}
	return respond.ElicitIntent(attrs, answer), nil
}

func (e *Engine) loanCalculator(req *model.DialogRequest) (*model.DialogResponse, error) {
	attrs := req.SessionState.Attributes()
	return respond.ElicitIntent(attrs,
		"The loan calculator is not available just yet. I can help you start a loan application or answer general questions in the meantime."), nil
}

// userID keys conversation memory: the verified username when identity
// verification has run, a fixed placeholder before that.
func userID(req *model.DialogRequest) string {
	if u := req.SessionState.Attributes()["UserName"]; u != "" {
		return u
	}
	return defaultUserID
}
