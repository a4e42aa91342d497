package chat

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/samber/lo"

	"github.com/evertlam/chatkit/llm"
	"github.com/evertlam/chatkit/llm/anthropic"
	"github.com/evertlam/chatkit/llm/ollama"
	"github.com/evertlam/chatkit/llm/openai"
)

// Option configures a Client at construction time.
type Option func(*Client)

// WithRegistry injects the provider registry to resolve profiles from.
// Defaults to the process-wide llm.Default() registry.
func WithRegistry(r *llm.Registry) Option {
	return func(c *Client) { c.registry = r }
}

// WithBackend injects the completion backend, replacing the one selected
// from the provider ID. Primarily useful for tests and custom transports.
func WithBackend(b llm.Backend) Option {
	return func(c *Client) { c.backend = b }
}

// WithLogger injects the logger diagnostics and warnings are written to.
func WithLogger(l zerolog.Logger) Option {
	return func(c *Client) { c.logger = l }
}

// Client owns a single conversation and dispatches it against a completion
// backend. A Client supports at most one in-flight Send or Stream call at a
// time; concurrent dispatches against the same Client race on the message
// history and are not guarded here. Callers needing concurrency must
// serialize access themselves.
type Client struct {
	cfg          Config
	profile      llm.Profile
	registry     *llm.Registry
	backend      llm.Backend
	recorder     *Recorder
	executor     *Executor
	logger       zerolog.Logger
	systemPrompt string
	messages     []llm.Message
}

// New creates a Client from the given configuration. Construction fails
// with a validation error on a missing API key or out-of-range settings,
// and with a provider-not-found error when the provider ID is not in the
// registry. Construction errors are never retried.
func New(cfg Config, opts ...Option) (*Client, error) {
	cfg = cfg.withDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	c := &Client{
		cfg:          cfg,
		logger:       zerolog.Nop(),
		systemPrompt: cfg.SystemPrompt,
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.registry == nil {
		c.registry = llm.Default()
	}
	profile, ok := c.registry.Get(cfg.Provider)
	if !ok {
		return nil, llm.NewProviderNotFoundError(cfg.Provider)
	}
	c.profile = profile

	if c.backend == nil {
		c.backend = defaultBackend(cfg.Provider, cfg.Timeout, c.logger)
	}
	c.recorder = NewRecorder(c.logger, cfg.Debug)
	c.executor = NewExecutor(cfg.RetryAttempts)

	return c, nil
}

// defaultBackend selects the backend adapter for a provider ID. Anything
// that is not Anthropic or Ollama speaks the OpenAI-compatible wire format.
func defaultBackend(provider string, timeout time.Duration, logger zerolog.Logger) llm.Backend {
	switch provider {
	case llm.ProviderAnthropic:
		return anthropic.NewBackend(timeout, logger)
	case llm.ProviderOllama:
		return ollama.NewBackend(timeout)
	default:
		return openai.NewBackend(timeout)
	}
}

// Recorder returns the diagnostics recorder, allowing callers to toggle
// emission at runtime.
func (c *Client) Recorder() *Recorder {
	return c.recorder
}

// Send dispatches the conversation as a single-shot completion and returns
// the canonical response. On success the assistant reply is appended to the
// conversation; on any failure the history is left unchanged.
func (c *Client) Send(ctx context.Context, opts ...*RequestOptions) (*llm.Response, error) {
	opt := firstOption(opts)

	msgs, err := c.dispatchMessages()
	if err != nil {
		c.recorder.Record(EventError, "dispatch rejected", map[string]any{"error": err.Error()})
		return nil, err
	}
	params := resolveParams(c.cfg, c.profile, opt, false)

	requestID := uuid.NewString()
	c.recorder.Record(EventRequestStarted, "request started", map[string]any{
		"request_id": requestID,
		"provider":   c.profile.ID,
		"model":      params.Model,
		"stream":     false,
		"messages":   len(msgs),
	})

	req := c.completionRequest(msgs, params)
	var result *llm.CompletionResult
	err = c.executor.Execute(ctx, func() error {
		res, callErr := c.backend.Complete(ctx, req)
		if callErr != nil {
			return callErr
		}
		result = res
		return nil
	}, c.retryNotifier(requestID))
	if err != nil {
		c.recordFailure(requestID, err)
		return nil, err
	}

	resp := normalize(result, params.Model)
	c.messages = append(c.messages, llm.NewTextMessage(llm.RoleAssistant, resp.Content))
	c.recorder.Record(EventResponseReceived, "response received", map[string]any{
		"request_id":        requestID,
		"model":             resp.Model,
		"finish_reason":     resp.FinishReason,
		"prompt_tokens":     resp.Usage.PromptTokens,
		"completion_tokens": resp.Usage.CompletionTokens,
		"total_tokens":      resp.Usage.TotalTokens,
	})
	return resp, nil
}

// Stream dispatches the conversation as a streaming completion. Each text
// delta is handed to onChunk synchronously in arrival order, and the
// accumulated string is returned once the stream is exhausted. On success
// one assistant message carrying the full accumulated text is appended to
// the conversation.
//
// A failed attempt is retried by re-invoking the backend from the start;
// chunks delivered to onChunk before the failure are not rescinded. The
// accumulator resets per attempt, so the returned string always reflects a
// single complete pass.
func (c *Client) Stream(ctx context.Context, onChunk func(string), opts ...*RequestOptions) (string, error) {
	opt := firstOption(opts)

	msgs, err := c.dispatchMessages()
	if err != nil {
		c.recorder.Record(EventError, "dispatch rejected", map[string]any{"error": err.Error()})
		return "", err
	}
	params := resolveParams(c.cfg, c.profile, opt, true)

	requestID := uuid.NewString()
	c.recorder.Record(EventRequestStarted, "request started", map[string]any{
		"request_id": requestID,
		"provider":   c.profile.ID,
		"model":      params.Model,
		"stream":     true,
		"messages":   len(msgs),
	})

	req := c.completionRequest(msgs, params)
	var accumulated string
	err = c.executor.Execute(ctx, func() error {
		stream, callErr := c.backend.CompleteStream(ctx, req)
		if callErr != nil {
			return callErr
		}
		defer stream.Close()

		var sb strings.Builder
		for stream.Next() {
			delta := stream.Delta()
			if delta == "" {
				continue
			}
			sb.WriteString(delta)
			if onChunk != nil {
				onChunk(delta)
			}
		}
		if streamErr := stream.Err(); streamErr != nil {
			return streamErr
		}
		accumulated = sb.String()
		return nil
	}, c.retryNotifier(requestID))
	if err != nil {
		c.recordFailure(requestID, err)
		return "", err
	}

	c.messages = append(c.messages, llm.NewTextMessage(llm.RoleAssistant, accumulated))
	c.recorder.Record(EventStreamCompleted, "stream completed", map[string]any{
		"request_id": requestID,
		"chars":      len(accumulated),
	})
	return accumulated, nil
}

// completionRequest builds the backend request for one dispatch.
func (c *Client) completionRequest(msgs []llm.Message, params effectiveParams) *llm.CompletionRequest {
	var headers map[string]string
	if c.profile.DefaultHeaders != nil {
		headers = lo.Assign(map[string]string{}, c.profile.DefaultHeaders)
	}
	return &llm.CompletionRequest{
		Endpoint:    c.profile.BaseURL,
		APIKey:      c.cfg.APIKey,
		Headers:     headers,
		Model:       params.Model,
		Messages:    msgs,
		Temperature: params.Temperature,
		MaxTokens:   params.MaxTokens,
	}
}

// retryNotifier emits an ERROR event and a warning log for each failed
// attempt that will be retried.
func (c *Client) retryNotifier(requestID string) OnRetry {
	return func(attempt int, err error, delay time.Duration) {
		c.recorder.Record(EventError, "attempt failed, retrying", map[string]any{
			"request_id": requestID,
			"attempt":    attempt,
			"delay_ms":   delay.Milliseconds(),
			"error":      err.Error(),
		})
		c.logger.Warn().
			Str("request_id", requestID).
			Int("attempt", attempt).
			Dur("delay", delay).
			Err(err).
			Msg("completion attempt failed, retrying")
	}
}

func (c *Client) recordFailure(requestID string, err error) {
	c.recorder.Record(EventError, "request failed", map[string]any{
		"request_id": requestID,
		"attempts":   llm.ExtractAttempts(err),
		"error":      err.Error(),
	})
	c.logger.Error().Str("request_id", requestID).Err(err).Msg("request failed")
}

// normalize maps a raw backend completion into the canonical response
// shape. Missing usage fields stay zero; a missing total is derived from
// the prompt and completion counts.
func normalize(result *llm.CompletionResult, model string) *llm.Response {
	resp := &llm.Response{
		Content:      result.Content,
		Usage:        result.Usage,
		Model:        result.Model,
		FinishReason: result.FinishReason,
	}
	if resp.Model == "" {
		resp.Model = model
	}
	if resp.Usage.TotalTokens == 0 {
		resp.Usage.TotalTokens = resp.Usage.PromptTokens + resp.Usage.CompletionTokens
	}
	return resp
}

func firstOption(opts []*RequestOptions) *RequestOptions {
	if len(opts) > 0 {
		return opts[0]
	}
	return nil
}
