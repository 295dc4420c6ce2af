// Package generate wraps the hosted text-generation model: it formats the
// request, invokes the model once with fixed decoding parameters, and
// parses the textual response into a typed Outcome.
package generate

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/cloudwego/eino-ext/components/model/gemini"
	"github.com/cloudwego/eino/schema"
	"google.golang.org/genai"

	errx "github.com/octank-fsi/dialog-agent/internal/core/error"
	logx "github.com/octank-fsi/dialog-agent/pkg/logger"
)

// ModelConfig fixes the decoding parameters; they are configuration, not
// re-derived per call.
type ModelConfig struct {
	Model       string  `envconfig:"GENERATION_MODEL" default:"gemini-2.5-flash"`
	MaxTokens   int     `envconfig:"GENERATION_MAX_TOKENS" default:"350"`
	Temperature float32 `envconfig:"GENERATION_TEMPERATURE" default:"0.2"`
}

// ClientConfig holds provider credentials.
type ClientConfig struct {
	APIKey  string
	BaseURL string
	Model   ModelConfig
}

// Client invokes the generation model. Safe for concurrent use.
type Client struct {
	cm        *gemini.ChatModel
	modelName string
}

// NewClient builds the Gemini-backed generation client.
func NewClient(ctx context.Context, cfg ClientConfig) (*Client, error) {
	clientCfg := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.BaseURL != "" {
		clientCfg.HTTPOptions.BaseURL = cfg.BaseURL
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		logx.Error().Err(err).Msg("error creating Gemini client")
		return nil, fmt.Errorf("error creating Gemini client: %w", err)
	}

	cm, err := gemini.NewChatModel(ctx, &gemini.Config{
		Client:      client,
		Model:       cfg.Model.Model,
		Temperature: &cfg.Model.Temperature,
		MaxTokens:   &cfg.Model.MaxTokens,
	})
	if err != nil {
		logx.Error().Err(err).Msg("error creating generation model")
		return nil, fmt.Errorf("error creating generation model: %w", err)
	}

	return &Client{cm: cm, modelName: cfg.Model.Model}, nil
}

// answerEnvelope is the structured reply the prompts instruct the model to
// produce.
type answerEnvelope struct {
	Answer string `json:"answer"`
}

// Invoke sends one prompt to the model. No streaming, no retries on the
// success path. A reply that fails structured parsing is returned as an
// Unparseable outcome, not an error; transport failures are errors.
func (c *Client) Invoke(ctx context.Context, prompt string) (Outcome, error) {
	out, err := c.cm.Generate(ctx, []*schema.Message{schema.UserMessage(prompt)})
	if err != nil {
		logx.Error().Err(err).Str("model", c.modelName).Msg("model invocation failed")
		return Outcome{}, errx.New(err, http.StatusBadGateway, errx.GenerationErrorMessage)
	}
	if out == nil {
		return Outcome{}, errx.New(fmt.Errorf("empty model response"), http.StatusBadGateway, errx.GenerationErrorMessage)
	}

	raw := out.Content
	if usage := tokenUsage(out); usage != nil {
		logx.Debug().
			Str("model", c.modelName).
			Int("prompt_tokens", usage.PromptTokens).
			Int("completion_tokens", usage.CompletionTokens).
			Int("total_tokens", usage.TotalTokens).
			Msg("LLM usage")
	}

	var env answerEnvelope
	if err := json.Unmarshal([]byte(stripFences(raw)), &env); err != nil || strings.TrimSpace(env.Answer) == "" {
		logx.Warn().Str("model", c.modelName).Msg("model reply failed structured parsing")
		return Unparseable(raw), nil
	}
	return Answered(strings.TrimSpace(env.Answer), raw), nil
}

func tokenUsage(m *schema.Message) *schema.TokenUsage {
	if m.ResponseMeta == nil {
		return nil
	}
	return m.ResponseMeta.Usage
}

// stripFences removes a surrounding markdown code fence so a fenced JSON
// reply still parses.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
