// Package prompts renders the generation prompts through the Eino prompt
// component, keeping the templates embedded next to the code that owns them.
package prompts

import (
	"context"
	_ "embed"
	"fmt"

	"github.com/cloudwego/eino/components/prompt"
	"github.com/cloudwego/eino/schema"
)

//go:embed template/grounded_prompt.txt
var groundedPrompt string

//go:embed template/nudge_prompt.txt
var nudgePrompt string

func render(ctx context.Context, tplText string, vars map[string]any) (string, error) {
	tpl := prompt.FromMessages(
		schema.GoTemplate,
		schema.SystemMessage(tplText),
	)
	msgs, err := tpl.Format(ctx, vars)
	if err != nil {
		return "", fmt.Errorf("prompt render: %w", err)
	}
	if len(msgs) == 0 || msgs[0] == nil {
		return "", fmt.Errorf("prompt render: empty result")
	}
	return msgs[0].Content, nil
}

// RenderGrounded builds the retrieval-grounded answering prompt: fixed
// persona and citation contract, the concatenated context block, and the
// verbatim user question.
func RenderGrounded(ctx context.Context, contextBlock, question string) (string, error) {
	return render(ctx, groundedPrompt, map[string]any{
		"Context":  contextBlock,
		"Question": question,
	})
}

// RenderNudge builds the free-text disambiguation prompt used when a slot
// answer cannot be interpreted: the question that was asked, the customer's
// literal reply, and recent conversation for tone.
func RenderNudge(ctx context.Context, asked, reply, history string) (string, error) {
	return render(ctx, nudgePrompt, map[string]any{
		"Asked":   asked,
		"Reply":   reply,
		"History": history,
	})
}
