// Package rag composes retrieval and generation into one "answer this
// question" operation: query, trim to top-k in rank order, build a grounded
// prompt, invoke the model once, and return the answer with inline citations
// produced by the model per the prompt contract.
package rag

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/cloudwego/eino/schema"

	"github.com/octank-fsi/dialog-agent/internal/conversation"
	errx "github.com/octank-fsi/dialog-agent/internal/core/error"
	"github.com/octank-fsi/dialog-agent/internal/rag/generate"
	"github.com/octank-fsi/dialog-agent/internal/rag/prompts"
	"github.com/octank-fsi/dialog-agent/internal/rag/retrieve"
	logx "github.com/octank-fsi/dialog-agent/pkg/logger"
)

// Retriever is the document-search collaborator.
type Retriever interface {
	Query(ctx context.Context, q string, k int) ([]retrieve.Document, error)
}

// Generator is the text-generation collaborator.
type Generator interface {
	Invoke(ctx context.Context, prompt string) (generate.Outcome, error)
}

type Config struct {
	// TopK bounds how many search results ground the prompt.
	TopK int `envconfig:"RAG_TOP_K" default:"3"`
	// HistoryTurns bounds how many stored messages flavor the nudge prompt.
	HistoryTurns int `envconfig:"RAG_HISTORY_TURNS" default:"6"`
}

// Orchestrator owns the prompt template and citation-formatting contract.
type Orchestrator struct {
	retriever Retriever
	generator Generator
	memory    conversation.Store
	cfg       Config
}

func New(retriever Retriever, generator Generator, memory conversation.Store, cfg Config) *Orchestrator {
	if cfg.TopK <= 0 {
		cfg.TopK = 3
	}
	return &Orchestrator{retriever: retriever, generator: generator, memory: memory, cfg: cfg}
}

// Answer turns a free-form user question into a grounded answer. The
// question and the answer are both appended to the user's current
// conversation log; a memory write failure is logged but does not fail the
// turn.
func (o *Orchestrator) Answer(ctx context.Context, userID, question string) (string, error) {
	question = strings.TrimSpace(question)

	docs, err := o.retriever.Query(ctx, question, o.cfg.TopK)
	if err != nil {
		return "", err
	}
	if len(docs) > o.cfg.TopK {
		docs = docs[:o.cfg.TopK]
	}

	prompt, err := prompts.RenderGrounded(ctx, buildContext(docs), question)
	if err != nil {
		return "", err
	}

	sessionID := o.appendToMemory(ctx, userID, schema.UserMessage(question))

	out, err := o.generator.Invoke(ctx, prompt)
	if err != nil {
		return "", err
	}
	answer, err := resolveOutcome(out)
	if err != nil {
		return "", err
	}

	if sessionID != "" {
		o.append(ctx, sessionID, schema.AssistantMessage(answer, nil))
	}

	logx.Debug().Str("user_id", userID).Int("grounding_docs", len(docs)).Msg("grounded answer produced")
	return answer, nil
}

// Nudge produces a conversational redirection for an off-script reply to a
// slot question: the model acknowledges what the customer said; the caller
// appends the re-prompt question.
func (o *Orchestrator) Nudge(ctx context.Context, userID, asked, reply string) (string, error) {
	history := o.recentHistory(ctx, userID)

	prompt, err := prompts.RenderNudge(ctx, asked, strings.TrimSpace(reply), history)
	if err != nil {
		return "", err
	}

	sessionID := o.appendToMemory(ctx, userID, schema.UserMessage(reply))

	out, err := o.generator.Invoke(ctx, prompt)
	if err != nil {
		return "", err
	}
	answer, err := resolveOutcome(out)
	if err != nil {
		return "", err
	}

	if sessionID != "" {
		o.append(ctx, sessionID, schema.AssistantMessage(answer, nil))
	}
	return answer, nil
}

// buildContext concatenates normalized results, order preserved from the
// retriever, numbered so the model can emit [Source N: Title - Link].
func buildContext(docs []retrieve.Document) string {
	var b strings.Builder
	for i, d := range docs {
		fmt.Fprintf(&b, "Source %d: %s - %s\n", i+1, d.Title, d.URI)
		b.WriteString(d.Excerpt)
		b.WriteString("\n\n")
	}
	return strings.TrimSpace(b.String())
}

// parseErrWrapper is the known framing some model stacks put around replies
// that failed their own output parsing; the payload inside is usable.
const parseErrWrapper = "Could not parse LLM output: `"

// resolveOutcome maps a typed generation outcome to the answer text. An
// unparseable reply is salvaged: strip the known wrapper when present,
// otherwise fall back to the trimmed raw text.
func resolveOutcome(out generate.Outcome) (string, error) {
	if out.Parsed {
		return out.Answer, nil
	}

	raw := strings.TrimSpace(out.Raw)
	if strings.HasPrefix(raw, parseErrWrapper) {
		raw = strings.TrimPrefix(raw, parseErrWrapper)
		raw = strings.TrimSpace(strings.TrimSuffix(raw, "`"))
	}
	if raw == "" {
		return "", errx.New(fmt.Errorf("unparseable empty model reply"), http.StatusBadGateway, errx.GenerationErrorMessage)
	}
	return raw, nil
}

// appendToMemory resolves the user's current session and appends one
// message; returns the session id, or "" when memory is unavailable.
func (o *Orchestrator) appendToMemory(ctx context.Context, userID string, msg *schema.Message) string {
	sessionID, err := o.memory.SessionID(ctx, userID)
	if err != nil {
		logx.Error().Err(err).Str("user_id", userID).Msg("conversation memory unavailable")
		return ""
	}
	o.append(ctx, sessionID, msg)
	return sessionID
}

func (o *Orchestrator) append(ctx context.Context, sessionID string, msg *schema.Message) {
	if err := o.memory.AppendMessage(ctx, sessionID, msg); err != nil {
		logx.Error().Err(err).Str("session_id", sessionID).Msg("failed to append message")
	}
}

// recentHistory renders the tail of the user's conversation for prompt
// context; empty on any failure, the nudge works without it.
func (o *Orchestrator) recentHistory(ctx context.Context, userID string) string {
	sessionID, err := o.memory.SessionID(ctx, userID)
	if err != nil {
		return ""
	}
	msgs, err := o.memory.History(ctx, sessionID)
	if err != nil {
		return ""
	}
	if n := o.cfg.HistoryTurns; n > 0 && len(msgs) > n {
		msgs = msgs[len(msgs)-n:]
	}

	var b strings.Builder
	for _, m := range msgs {
		if m == nil || m.Content == "" {
			continue
		}
		switch m.Role {
		case schema.User:
			b.WriteString("UserMessage(" + m.Content + ")\n")
		case schema.Assistant:
			b.WriteString("AssistantMessage(" + m.Content + ")\n")
		}
	}
	return strings.TrimSpace(b.String())
}
