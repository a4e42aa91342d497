// Package openai adapts OpenAI-compatible chat completion APIs to the
// llm.Backend interface. OpenRouter and other compatible gateways are
// served by the same adapter through the profile's base URL and default
// headers.
package openai

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/evertlam/chatkit/llm"
)

// Backend implements llm.Backend over the OpenAI chat completions API.
type Backend struct {
	timeout time.Duration
}

// NewBackend creates a Backend. The timeout is applied to the underlying
// HTTP client for each call.
func NewBackend(timeout time.Duration) *Backend {
	return &Backend{timeout: timeout}
}

// Complete implements llm.Backend.Complete.
func (b *Backend) Complete(ctx context.Context, req *llm.CompletionRequest) (*llm.CompletionResult, error) {
	client, err := b.newClient(req)
	if err != nil {
		return nil, err
	}

	chatReq, err := toChatRequest(req, false)
	if err != nil {
		return nil, err
	}

	chatResp, err := client.CreateChatCompletion(ctx, chatReq)
	if err != nil {
		return nil, convertError(err)
	}
	if len(chatResp.Choices) == 0 {
		return nil, llm.NewBackendError("openai: no choices in response", nil)
	}

	choice := chatResp.Choices[0]
	return &llm.CompletionResult{
		Content: choice.Message.Content,
		Usage: llm.Usage{
			PromptTokens:     chatResp.Usage.PromptTokens,
			CompletionTokens: chatResp.Usage.CompletionTokens,
			TotalTokens:      chatResp.Usage.TotalTokens,
		},
		Model:        chatResp.Model,
		FinishReason: string(choice.FinishReason),
	}, nil
}

// CompleteStream implements llm.Backend.CompleteStream.
func (b *Backend) CompleteStream(ctx context.Context, req *llm.CompletionRequest) (llm.DeltaStream, error) {
	client, err := b.newClient(req)
	if err != nil {
		return nil, err
	}

	chatReq, err := toChatRequest(req, true)
	if err != nil {
		return nil, err
	}

	stream, err := client.CreateChatCompletionStream(ctx, chatReq)
	if err != nil {
		return nil, convertError(err)
	}
	return newDeltaStream(stream), nil
}

// newClient builds a go-openai client for the request's endpoint and
// credentials. Default headers from the provider profile ride on a custom
// transport.
func (b *Backend) newClient(req *llm.CompletionRequest) (*openai.Client, error) {
	if req == nil {
		return nil, llm.NewBackendError("openai: request is required", nil)
	}

	config := openai.DefaultConfig(req.APIKey)
	if req.Endpoint != "" {
		config.BaseURL = req.Endpoint
	}
	config.HTTPClient = &http.Client{
		Timeout: b.timeout,
		Transport: &headerTransport{
			headers: req.Headers,
			base:    http.DefaultTransport,
		},
	}
	return openai.NewClientWithConfig(config), nil
}

// toChatRequest converts a provider-neutral completion request into the
// go-openai request shape.
func toChatRequest(req *llm.CompletionRequest, stream bool) (openai.ChatCompletionRequest, error) {
	msgs, err := toChatMessages(req.Messages)
	if err != nil {
		return openai.ChatCompletionRequest{}, err
	}

	chatReq := openai.ChatCompletionRequest{
		Model:       req.Model,
		Messages:    msgs,
		Temperature: float32(req.Temperature),
		Stream:      stream,
	}
	if req.MaxTokens > 0 {
		chatReq.MaxTokens = req.MaxTokens
	}
	return chatReq, nil
}

// toChatMessages converts linearized messages. The OpenAI wire format
// accepts the system role inline, so the leading system message passes
// through unchanged.
func toChatMessages(msgs []llm.Message) ([]openai.ChatCompletionMessage, error) {
	out := make([]openai.ChatCompletionMessage, 0, len(msgs))
	for _, msg := range msgs {
		role, err := toChatRole(msg.Role)
		if err != nil {
			return nil, err
		}

		if hasImage(msg) {
			parts := make([]openai.ChatMessagePart, 0, len(msg.Content))
			for _, block := range msg.Content {
				switch block.Type {
				case llm.ContentBlockTypeText:
					parts = append(parts, openai.ChatMessagePart{
						Type: openai.ChatMessagePartTypeText,
						Text: block.Text,
					})
				case llm.ContentBlockTypeImage:
					parts = append(parts, openai.ChatMessagePart{
						Type: openai.ChatMessagePartTypeImageURL,
						ImageURL: &openai.ChatMessageImageURL{
							URL: block.ImageURL,
						},
					})
				}
			}
			out = append(out, openai.ChatCompletionMessage{
				Role:         role,
				MultiContent: parts,
			})
			continue
		}

		out = append(out, openai.ChatCompletionMessage{
			Role:    role,
			Content: msg.Text(),
		})
	}
	return out, nil
}

func toChatRole(role llm.MessageRole) (string, error) {
	switch role {
	case llm.RoleSystem:
		return openai.ChatMessageRoleSystem, nil
	case llm.RoleUser:
		return openai.ChatMessageRoleUser, nil
	case llm.RoleAssistant:
		return openai.ChatMessageRoleAssistant, nil
	default:
		return "", llm.NewBackendError(fmt.Sprintf("openai: unsupported role %q", role), nil)
	}
}

func hasImage(msg llm.Message) bool {
	for _, block := range msg.Content {
		if block.Type == llm.ContentBlockTypeImage {
			return true
		}
	}
	return false
}

// convertError wraps any go-openai failure as a backend error. The
// orchestration core treats all backend failures uniformly, so status
// detail goes into the message rather than a classification.
func convertError(err error) error {
	if err == nil {
		return nil
	}
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return llm.NewBackendError(
			fmt.Sprintf("openai: API error (status %d)", apiErr.HTTPStatusCode), err)
	}
	return llm.NewBackendError("openai: request failed", err)
}

// headerTransport adds the profile's default headers to every request.
type headerTransport struct {
	headers map[string]string
	base    http.RoundTripper
}

func (t *headerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	for k, v := range t.headers {
		if req.Header.Get(k) == "" {
			req.Header.Set(k, v)
		}
	}
	return t.base.RoundTrip(req)
}
