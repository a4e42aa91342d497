package chat

import (
	"testing"
	"time"

	"github.com/evertlam/chatkit/llm"
)

func newTestClient(t *testing.T, cfg Config) *Client {
	t.Helper()
	if cfg.APIKey == "" {
		cfg.APIKey = "test-key"
	}
	client, err := New(cfg, WithRegistry(llm.NewRegistry()), WithBackend(&stubBackend{}))
	if err != nil {
		t.Fatalf("failed to construct client: %v", err)
	}
	return client
}

func TestConversation_AppendOrder(t *testing.T) {
	client := newTestClient(t, Config{})

	client.AddUserMessage("one").
		AddAssistantMessage("two").
		AddUserMessage("three")

	msgs := client.Messages()
	if len(msgs) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(msgs))
	}
	wantRoles := []llm.MessageRole{llm.RoleUser, llm.RoleAssistant, llm.RoleUser}
	wantText := []string{"one", "two", "three"}
	for i, msg := range msgs {
		if msg.Role != wantRoles[i] {
			t.Errorf("message %d: expected role %v, got %v", i, wantRoles[i], msg.Role)
		}
		if msg.Text() != wantText[i] {
			t.Errorf("message %d: expected text %q, got %q", i, wantText[i], msg.Text())
		}
	}
}

func TestConversation_SnapshotIsolation(t *testing.T) {
	client := newTestClient(t, Config{})
	client.AddUserMessage("original")

	snapshot := client.Messages()
	snapshot[0].Content[0].Text = "mutated"
	_ = append(snapshot, llm.NewTextMessage(llm.RoleUser, "extra"))

	msgs := client.Messages()
	if len(msgs) != 1 {
		t.Fatalf("expected 1 message, got %d", len(msgs))
	}
	if msgs[0].Text() != "original" {
		t.Errorf("mutating the snapshot changed internal state: %q", msgs[0].Text())
	}
}

func TestConversation_AddImageMessage(t *testing.T) {
	client := newTestClient(t, Config{})
	client.AddImageMessage("what is this?", "https://example.com/img.png")

	msgs := client.Messages()
	if len(msgs) != 1 {
		t.Fatalf("expected 1 message, got %d", len(msgs))
	}
	msg := msgs[0]
	if msg.Role != llm.RoleUser {
		t.Errorf("expected user role, got %v", msg.Role)
	}
	if len(msg.Content) != 2 {
		t.Fatalf("expected 2 content blocks, got %d", len(msg.Content))
	}
	if msg.Content[0].Type != llm.ContentBlockTypeText || msg.Content[0].Text != "what is this?" {
		t.Errorf("unexpected first block: %+v", msg.Content[0])
	}
	if msg.Content[1].Type != llm.ContentBlockTypeImage || msg.Content[1].ImageURL != "https://example.com/img.png" {
		t.Errorf("unexpected second block: %+v", msg.Content[1])
	}
}

func TestConversation_ClearKeepsSystemPrompt(t *testing.T) {
	client := newTestClient(t, Config{SystemPrompt: "be kind"})
	client.AddUserMessage("hi").ClearMessages()

	if got := client.Messages(); len(got) != 0 {
		t.Errorf("expected empty history after clear, got %d messages", len(got))
	}
	if client.SystemPrompt() != "be kind" {
		t.Errorf("expected system prompt to survive clear, got %q", client.SystemPrompt())
	}
}

func TestConversation_ResetClearsEverything(t *testing.T) {
	client := newTestClient(t, Config{SystemPrompt: "be kind"})
	client.AddUserMessage("hi").Reset()

	if got := client.Messages(); len(got) != 0 {
		t.Errorf("expected empty history after reset, got %d messages", len(got))
	}
	if client.SystemPrompt() != "" {
		t.Errorf("expected empty system prompt after reset, got %q", client.SystemPrompt())
	}
}

func TestConversation_DispatchValidation(t *testing.T) {
	t.Run("empty conversation", func(t *testing.T) {
		client := newTestClient(t, Config{})
		_, err := client.dispatchMessages()
		if !llm.IsEmptyConversationError(err) {
			t.Errorf("expected empty_conversation error, got %v", err)
		}
	})

	t.Run("system prompt only", func(t *testing.T) {
		client := newTestClient(t, Config{SystemPrompt: "be kind"})
		_, err := client.dispatchMessages()
		if !llm.IsNoUserTurnError(err) {
			t.Errorf("expected no_user_turn error, got %v", err)
		}
	})

	t.Run("assistant messages only", func(t *testing.T) {
		client := newTestClient(t, Config{})
		client.AddAssistantMessage("hello")
		_, err := client.dispatchMessages()
		if !llm.IsNoUserTurnError(err) {
			t.Errorf("expected no_user_turn error, got %v", err)
		}
	})

	t.Run("system message leads the linearized order", func(t *testing.T) {
		client := newTestClient(t, Config{SystemPrompt: "be kind"})
		client.AddUserMessage("hi")
		msgs, err := client.dispatchMessages()
		if err != nil {
			t.Fatalf("expected dispatch to succeed: %v", err)
		}
		if len(msgs) != 2 {
			t.Fatalf("expected 2 linearized messages, got %d", len(msgs))
		}
		if msgs[0].Role != llm.RoleSystem || msgs[0].Text() != "be kind" {
			t.Errorf("expected leading system message, got %+v", msgs[0])
		}
		if msgs[1].Role != llm.RoleUser {
			t.Errorf("expected user message second, got %+v", msgs[1])
		}
	})
}

func TestUpdateConfig(t *testing.T) {
	client := newTestClient(t, Config{APIKey: "secret", Provider: llm.ProviderOpenAI})

	client.UpdateConfig(Config{
		APIKey:        "other",
		Provider:      llm.ProviderAnthropic,
		Model:         "gpt-4.1",
		MaxTokens:     2048,
		RetryAttempts: 5,
		Timeout:       60 * time.Second,
	})

	cfg := client.Config()
	if cfg.APIKey != "secret" {
		t.Errorf("expected API key to be immutable, got %q", cfg.APIKey)
	}
	if cfg.Provider != llm.ProviderOpenAI {
		t.Errorf("expected provider to be immutable, got %q", cfg.Provider)
	}
	if cfg.Model != "gpt-4.1" {
		t.Errorf("expected model update, got %q", cfg.Model)
	}
	if cfg.MaxTokens != 2048 {
		t.Errorf("expected max tokens update, got %d", cfg.MaxTokens)
	}
	if cfg.RetryAttempts != 5 {
		t.Errorf("expected retry attempts update, got %d", cfg.RetryAttempts)
	}
	if cfg.Timeout != 60*time.Second {
		t.Errorf("expected timeout update, got %v", cfg.Timeout)
	}
}

func TestUpdateConfig_ZeroFieldsAreUnset(t *testing.T) {
	client := newTestClient(t, Config{Model: "m1", MaxTokens: 500})

	client.UpdateConfig(Config{Temperature: 1.5})

	cfg := client.Config()
	if cfg.Model != "m1" {
		t.Errorf("expected untouched model, got %q", cfg.Model)
	}
	if cfg.MaxTokens != 500 {
		t.Errorf("expected untouched max tokens, got %d", cfg.MaxTokens)
	}
	if cfg.Temperature != 1.5 {
		t.Errorf("expected temperature update, got %v", cfg.Temperature)
	}
}
