package chat

import (
	"dario.cat/mergo"
	"github.com/samber/lo"

	"github.com/evertlam/chatkit/llm"
)

// AddMessage appends a text message with the given role and returns the
// client for chaining.
func (c *Client) AddMessage(content string, role llm.MessageRole) *Client {
	c.messages = append(c.messages, llm.NewTextMessage(role, content))
	c.recorder.Record(EventMessageAdded, "message added", map[string]any{
		"role":  string(role),
		"chars": len(content),
	})
	return c
}

// AddUserMessage appends a user text message.
func (c *Client) AddUserMessage(content string) *Client {
	return c.AddMessage(content, llm.RoleUser)
}

// AddAssistantMessage appends an assistant text message.
func (c *Client) AddAssistantMessage(content string) *Client {
	return c.AddMessage(content, llm.RoleAssistant)
}

// AddImageMessage appends a user message carrying a text block followed by
// an image reference block.
func (c *Client) AddImageMessage(text, imageURL string) *Client {
	c.messages = append(c.messages, llm.NewImageMessage(text, imageURL))
	c.recorder.Record(EventMessageAdded, "image message added", map[string]any{
		"role":      string(llm.RoleUser),
		"chars":     len(text),
		"image_url": imageURL,
	})
	return c
}

// Messages returns a snapshot of the conversation history, excluding the
// system prompt. Mutating the returned slice or its content blocks does not
// affect the client.
func (c *Client) Messages() []llm.Message {
	return lo.Map(c.messages, func(m llm.Message, _ int) llm.Message {
		out := m
		out.Content = append([]llm.ContentBlock(nil), m.Content...)
		return out
	})
}

// ClearMessages empties the message history. The system prompt is retained.
func (c *Client) ClearMessages() *Client {
	c.messages = nil
	return c
}

// Reset empties the message history and clears the system prompt.
func (c *Client) Reset() *Client {
	c.messages = nil
	c.systemPrompt = ""
	return c
}

// SetSystemPrompt replaces the conversation's system prompt.
func (c *Client) SetSystemPrompt(prompt string) *Client {
	c.systemPrompt = prompt
	c.recorder.Record(EventConfigChange, "system prompt updated", map[string]any{
		"chars": len(prompt),
	})
	return c
}

// SystemPrompt returns the current system prompt.
func (c *Client) SystemPrompt() string {
	return c.systemPrompt
}

// Config returns a copy of the client's base configuration.
func (c *Client) Config() Config {
	return c.cfg
}

// UpdateConfig shallow-merges the non-zero fields of patch into the base
// configuration. APIKey and Provider are immutable after construction and
// are never changed by a merge; zero-valued patch fields are treated as
// unset.
func (c *Client) UpdateConfig(patch Config) *Client {
	apiKey, provider := c.cfg.APIKey, c.cfg.Provider

	merged := c.cfg
	if err := mergo.Merge(&merged, patch, mergo.WithOverride); err != nil {
		c.logger.Warn().Err(err).Msg("config merge failed")
		return c
	}
	merged.APIKey = apiKey
	merged.Provider = provider
	c.cfg = merged

	c.recorder.SetEnabled(c.cfg.Debug)
	c.executor = NewExecutor(c.cfg.RetryAttempts)
	c.recorder.Record(EventConfigChange, "config updated", map[string]any{
		"model":          c.cfg.Model,
		"temperature":    c.cfg.Temperature,
		"max_tokens":     c.cfg.MaxTokens,
		"retry_attempts": c.cfg.RetryAttempts,
	})
	return c
}

// dispatchMessages linearizes the conversation for dispatch: the system
// message, synthesized from the stored prompt when non-empty, followed by
// the message history.
func (c *Client) dispatchMessages() ([]llm.Message, error) {
	var out []llm.Message
	if c.systemPrompt != "" {
		out = append(out, llm.NewTextMessage(llm.RoleSystem, c.systemPrompt))
	}
	out = append(out, c.messages...)

	if len(out) == 0 {
		return nil, llm.NewEmptyConversationError()
	}
	hasUser := lo.SomeBy(out, func(m llm.Message) bool {
		return m.Role == llm.RoleUser
	})
	if !hasUser {
		return nil, llm.NewNoUserTurnError()
	}
	return out, nil
}
