// Package ollama adapts the Ollama chat API to the llm.Backend interface.
// Ollama serves local models and requires no API key; the profile's base
// URL points at the local daemon.
package ollama

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ollama/ollama/api"

	"github.com/evertlam/chatkit/llm"
)

// Backend implements llm.Backend over the Ollama chat API.
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
	client, chatReq, err := b.prepare(req, false)
	if err != nil {
		return nil, err
	}

	var result *llm.CompletionResult
	err = client.Chat(ctx, chatReq, func(resp api.ChatResponse) error {
		result = &llm.CompletionResult{
			Content: resp.Message.Content,
			Usage: llm.Usage{
				PromptTokens:     resp.Metrics.PromptEvalCount,
				CompletionTokens: resp.Metrics.EvalCount,
			},
			Model:        resp.Model,
			FinishReason: resp.DoneReason,
		}
		return nil
	})
	if err != nil {
		return nil, llm.NewBackendError("ollama: request failed", err)
	}
	if result == nil {
		return nil, llm.NewBackendError("ollama: empty response", nil)
	}
	return result, nil
}

// CompleteStream implements llm.Backend.CompleteStream. The callback-based
// Ollama API is bridged into a pull-based stream through a channel fed by
// a single background goroutine.
func (b *Backend) CompleteStream(ctx context.Context, req *llm.CompletionRequest) (llm.DeltaStream, error) {
	client, chatReq, err := b.prepare(req, true)
	if err != nil {
		return nil, err
	}

	streamCtx, cancel := context.WithCancel(ctx)
	ds := &deltaStream{
		deltas: make(chan string),
		errc:   make(chan error, 1),
		cancel: cancel,
	}

	go func() {
		defer close(ds.deltas)
		err := client.Chat(streamCtx, chatReq, func(resp api.ChatResponse) error {
			if resp.Message.Content != "" {
				select {
				case ds.deltas <- resp.Message.Content:
				case <-streamCtx.Done():
					return streamCtx.Err()
				}
			}
			return nil
		})
		if err != nil && streamCtx.Err() == nil {
			ds.errc <- llm.NewBackendError("ollama: stream failed", err)
		}
	}()

	return ds, nil
}

// prepare builds the API client and chat request.
func (b *Backend) prepare(req *llm.CompletionRequest, stream bool) (*api.Client, *api.ChatRequest, error) {
	if req == nil {
		return nil, nil, llm.NewBackendError("ollama: request is required", nil)
	}

	baseURL, err := parseHost(req.Endpoint)
	if err != nil {
		return nil, nil, llm.NewBackendError("ollama: invalid host", err)
	}
	client := api.NewClient(baseURL, &http.Client{Timeout: b.timeout})

	msgs, err := toChatMessages(req.Messages)
	if err != nil {
		return nil, nil, err
	}

	chatReq := &api.ChatRequest{
		Model:    req.Model,
		Messages: msgs,
		Stream:   &stream,
		Options: map[string]any{
			"temperature": req.Temperature,
		},
	}
	if req.MaxTokens > 0 {
		chatReq.Options["num_predict"] = req.MaxTokens
	}
	return client, chatReq, nil
}

// parseHost parses a host string into a URL, defaulting the scheme to http.
func parseHost(host string) (*url.URL, error) {
	if !strings.HasPrefix(host, "http://") && !strings.HasPrefix(host, "https://") {
		host = "http://" + host
	}
	return url.Parse(host)
}

// toChatMessages converts linearized messages. Ollama accepts the system
// role inline. Image references are URL-based in this library and the
// local daemon only accepts inline image data, so they are rejected.
func toChatMessages(msgs []llm.Message) ([]api.Message, error) {
	out := make([]api.Message, 0, len(msgs))
	for _, msg := range msgs {
		for _, block := range msg.Content {
			if block.Type == llm.ContentBlockTypeImage {
				return nil, llm.NewBackendError("ollama: image URL content is not supported", nil)
			}
		}
		out = append(out, api.Message{
			Role:    string(msg.Role),
			Content: msg.Text(),
		})
	}
	return out, nil
}

// deltaStream implements llm.DeltaStream over the channel fed by the chat
// callback goroutine.
type deltaStream struct {
	deltas chan string
	errc   chan error
	cancel context.CancelFunc
	delta  string
	err    error
}

// Next blocks until the next delta arrives or the stream ends.
func (s *deltaStream) Next() bool {
	if s.err != nil {
		return false
	}
	delta, ok := <-s.deltas
	if !ok {
		select {
		case err := <-s.errc:
			s.err = err
		default:
		}
		return false
	}
	s.delta = delta
	return true
}

// Delta returns the current text fragment.
func (s *deltaStream) Delta() string {
	return s.delta
}

// Err returns any error that occurred during streaming.
func (s *deltaStream) Err() error {
	return s.err
}

// Close stops the producing goroutine and releases resources.
func (s *deltaStream) Close() error {
	s.cancel()
	return nil
}

var _ llm.DeltaStream = (*deltaStream)(nil)
