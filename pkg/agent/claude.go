package agent

import (
	"context"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

const claudeMaxTokens = 8192

// claudeAgent answers the research prompt with a single Claude message. It
// is the fallback collaborator for deployments without a research graph:
// no web search loops run, so the loop and query-count parameters are
// accepted but unused.
type claudeAgent struct {
	client sdk.Client
	model  string
}

// NewClaudeAgent creates an Invoker backed by the Anthropic Messages API.
func NewClaudeAgent(apiKey, model string) Invoker {
	return &claudeAgent{
		client: sdk.NewClient(option.WithAPIKey(apiKey)),
		model:  model,
	}
}

func (a *claudeAgent) Invoke(ctx context.Context, req Request) (*Response, error) {
	msgs := make([]sdk.MessageParam, 0, len(req.Messages))
	for _, m := range req.Messages {
		block := sdk.NewTextBlock(m.Content)
		switch m.Role {
		case "assistant":
			msgs = append(msgs, sdk.NewAssistantMessage(block))
		default:
			msgs = append(msgs, sdk.NewUserMessage(block))
		}
	}

	zap.L().Debug("invoking claude fallback agent",
		zap.String("model", a.model),
		zap.Int("messages", len(msgs)),
	)

	msg, err := a.client.Messages.New(ctx, sdk.MessageNewParams{
		Model:     sdk.Model(a.model),
		MaxTokens: claudeMaxTokens,
		Messages:  msgs,
	})
	if err != nil {
		return nil, eris.Wrap(err, "agent: claude create message")
	}

	var text string
	for _, b := range msg.Content {
		if b.Type == "text" {
			text += b.Text
		}
	}

	return &Response{
		Messages: append(req.Messages, Message{Role: "assistant", Content: text}),
	}, nil
}
