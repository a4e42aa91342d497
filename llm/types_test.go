package llm

import (
	"encoding/json"
	"testing"
)

func TestNewTextMessage(t *testing.T) {
	msg := NewTextMessage(RoleUser, "Hello, world!")
	if msg.Role != RoleUser {
		t.Errorf("expected role %v, got %v", RoleUser, msg.Role)
	}
	if len(msg.Content) != 1 {
		t.Fatalf("expected 1 content block, got %d", len(msg.Content))
	}
	if msg.Content[0].Type != ContentBlockTypeText {
		t.Errorf("expected text block type, got %v", msg.Content[0].Type)
	}
	if msg.Content[0].Text != "Hello, world!" {
		t.Errorf("expected text 'Hello, world!', got %q", msg.Content[0].Text)
	}
}

func TestNewImageMessage(t *testing.T) {
	msg := NewImageMessage("What is in this picture?", "https://example.com/cat.png")
	if msg.Role != RoleUser {
		t.Errorf("expected role %v, got %v", RoleUser, msg.Role)
	}
	if len(msg.Content) != 2 {
		t.Fatalf("expected 2 content blocks, got %d", len(msg.Content))
	}
	if msg.Content[0].Type != ContentBlockTypeText {
		t.Errorf("expected first block to be text, got %v", msg.Content[0].Type)
	}
	if msg.Content[1].Type != ContentBlockTypeImage {
		t.Errorf("expected second block to be an image, got %v", msg.Content[1].Type)
	}
	if msg.Content[1].ImageURL != "https://example.com/cat.png" {
		t.Errorf("unexpected image URL %q", msg.Content[1].ImageURL)
	}
}

func TestMessageText(t *testing.T) {
	msg := Message{
		Role: RoleUser,
		Content: []ContentBlock{
			{Type: ContentBlockTypeText, Text: "Hello, "},
			{Type: ContentBlockTypeImage, ImageURL: "https://example.com/a.png"},
			{Type: ContentBlockTypeText, Text: "world"},
		},
	}
	if got := msg.Text(); got != "Hello, world" {
		t.Errorf("expected concatenated text blocks, got %q", got)
	}
}

func TestMessageToJSON(t *testing.T) {
	msg := NewTextMessage(RoleAssistant, "Test message")
	jsonData, err := msg.ToJSON()
	if err != nil {
		t.Fatalf("failed to marshal message to JSON: %v", err)
	}
	var decoded Message
	if err := json.Unmarshal(jsonData, &decoded); err != nil {
		t.Fatalf("failed to unmarshal JSON: %v", err)
	}
	if decoded.Role != msg.Role {
		t.Errorf("expected role %v, got %v", msg.Role, decoded.Role)
	}
}
