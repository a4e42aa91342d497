package llm

import (
	"encoding/json"
)

// MessageRole represents the role of a message in a conversation.
type MessageRole string

const (
	RoleUser      MessageRole = "user"
	RoleAssistant MessageRole = "assistant"
	RoleSystem    MessageRole = "system"
)

// Message represents a single message in a conversation.
// This is provider-neutral and can represent user, assistant, or system messages.
type Message struct {
	Role    MessageRole
	Content []ContentBlock
}

// ContentBlock represents a single content block within a message.
// It is either text or an image reference.
type ContentBlock struct {
	Type     ContentBlockType
	Text     string // For text blocks
	ImageURL string // For image blocks
}

// ContentBlockType represents the type of content block.
type ContentBlockType string

const (
	ContentBlockTypeText  ContentBlockType = "text"
	ContentBlockTypeImage ContentBlockType = "image"
)

// CompletionRequest is the fully resolved request handed to a Backend.
// Messages arrive linearized for dispatch: the system message, when one
// exists, is the first entry.
type CompletionRequest struct {
	Endpoint    string
	APIKey      string
	Headers     map[string]string
	Model       string
	Messages    []Message
	Temperature float64
	MaxTokens   int
}

// CompletionResult is the raw completion shape a Backend returns for a
// non-streaming call.
type CompletionResult struct {
	Content      string
	Usage        Usage
	Model        string
	FinishReason string
}

// Response is the canonical result returned to callers of a non-streaming
// dispatch.
type Response struct {
	Content      string
	Usage        Usage
	Model        string
	FinishReason string
}

// Usage represents token usage information from a completion response.
type Usage struct {
	PromptTokens     int
	CompletionTokens int
	TotalTokens      int
}

// NewTextMessage creates a new message with a single text content block.
func NewTextMessage(role MessageRole, text string) Message {
	return Message{
		Role: role,
		Content: []ContentBlock{
			{
				Type: ContentBlockTypeText,
				Text: text,
			},
		},
	}
}

// NewImageMessage creates a user message pairing a text block with an image
// reference block.
func NewImageMessage(text, imageURL string) Message {
	return Message{
		Role: RoleUser,
		Content: []ContentBlock{
			{
				Type: ContentBlockTypeText,
				Text: text,
			},
			{
				Type:     ContentBlockTypeImage,
				ImageURL: imageURL,
			},
		},
	}
}

// Text returns the concatenated text of all text blocks in the message.
func (m Message) Text() string {
	var out string
	for _, block := range m.Content {
		if block.Type == ContentBlockTypeText {
			out += block.Text
		}
	}
	return out
}

// ToJSON marshals a message to JSON for debugging/logging purposes.
func (m Message) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}
