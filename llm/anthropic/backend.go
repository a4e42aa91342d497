// Package anthropic adapts the Anthropic Messages API to the llm.Backend
// interface.
package anthropic

import (
	"context"
	"net/http"
	"time"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/rs/zerolog"

	"github.com/evertlam/chatkit/llm"
)

// Backend implements llm.Backend over the Anthropic Messages API.
type Backend struct {
	timeout time.Duration
	logger  zerolog.Logger
}

// NewBackend creates a Backend. The timeout is applied to the underlying
// HTTP client for each call.
func NewBackend(timeout time.Duration, logger zerolog.Logger) *Backend {
	return &Backend{
		timeout: timeout,
		logger:  logger.With().Str("component", "anthropicBackend").Logger(),
	}
}

// Complete implements llm.Backend.Complete.
func (b *Backend) Complete(ctx context.Context, req *llm.CompletionRequest) (*llm.CompletionResult, error) {
	client, params, err := b.prepare(req)
	if err != nil {
		return nil, err
	}

	message, err := client.Messages.New(ctx, params)
	if err != nil {
		return nil, llm.NewBackendError("anthropic: request failed", err)
	}

	var content string
	for _, blockUnion := range message.Content {
		if block, ok := blockUnion.AsAny().(anthropic.TextBlock); ok {
			content += block.Text
		}
	}

	return &llm.CompletionResult{
		Content: content,
		Usage: llm.Usage{
			PromptTokens:     int(message.Usage.InputTokens),
			CompletionTokens: int(message.Usage.OutputTokens),
		},
		Model:        string(message.Model),
		FinishReason: string(message.StopReason),
	}, nil
}

// CompleteStream implements llm.Backend.CompleteStream.
func (b *Backend) CompleteStream(ctx context.Context, req *llm.CompletionRequest) (llm.DeltaStream, error) {
	client, params, err := b.prepare(req)
	if err != nil {
		return nil, err
	}

	stream := client.Messages.NewStreaming(ctx, params)
	return newDeltaStream(stream), nil
}

// prepare builds the SDK client and request parameters. The linearized
// message list is split back apart here: Anthropic carries the system
// prompt as a dedicated parameter rather than a message.
func (b *Backend) prepare(req *llm.CompletionRequest) (*anthropic.Client, anthropic.MessageNewParams, error) {
	if req == nil {
		return nil, anthropic.MessageNewParams{}, llm.NewBackendError("anthropic: request is required", nil)
	}

	opts := []option.RequestOption{
		option.WithAPIKey(req.APIKey),
		option.WithHTTPClient(&http.Client{Timeout: b.timeout}),
	}
	if req.Endpoint != "" {
		opts = append(opts, option.WithBaseURL(req.Endpoint))
	}
	for k, v := range req.Headers {
		opts = append(opts, option.WithHeader(k, v))
	}
	client := anthropic.NewClient(opts...)

	system, rest := splitSystem(req.Messages)
	msgs, err := toMessageParams(rest)
	if err != nil {
		return nil, anthropic.MessageNewParams{}, err
	}

	params := anthropic.MessageNewParams{
		Model:       anthropic.Model(req.Model),
		MaxTokens:   int64(req.MaxTokens),
		Messages:    msgs,
		Temperature: anthropic.Float(req.Temperature),
	}
	if system != "" {
		params.System = []anthropic.TextBlockParam{{Text: system}}
	}
	return &client, params, nil
}

// splitSystem pulls the leading system message off a linearized list.
func splitSystem(msgs []llm.Message) (string, []llm.Message) {
	if len(msgs) > 0 && msgs[0].Role == llm.RoleSystem {
		return msgs[0].Text(), msgs[1:]
	}
	return "", msgs
}

// toMessageParams converts provider-neutral messages to Anthropic message
// params.
func toMessageParams(msgs []llm.Message) ([]anthropic.MessageParam, error) {
	out := make([]anthropic.MessageParam, 0, len(msgs))
	for _, msg := range msgs {
		blocks := make([]anthropic.ContentBlockParamUnion, 0, len(msg.Content))
		for _, block := range msg.Content {
			switch block.Type {
			case llm.ContentBlockTypeText:
				blocks = append(blocks, anthropic.NewTextBlock(block.Text))
			case llm.ContentBlockTypeImage:
				blocks = append(blocks, anthropic.NewImageBlock(anthropic.URLImageSourceParam{
					URL: block.ImageURL,
				}))
			}
		}

		switch msg.Role {
		case llm.RoleAssistant:
			out = append(out, anthropic.NewAssistantMessage(blocks...))
		default:
			out = append(out, anthropic.NewUserMessage(blocks...))
		}
	}
	return out, nil
}
