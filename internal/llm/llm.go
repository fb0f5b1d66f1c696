package llm

import "context"

const (
	SystemRole    = "system"
	UserRole      = "user"
	AssistantRole = "assistant"
)

// Message is one turn of a chat-completions conversation.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Request is a chat completion request. Zero Temperature and MaxTokens fall
// back to the client defaults.
type Request struct {
	Messages    []Message
	Temperature float64
	MaxTokens   int
}

type Usage struct {
	PromptTokens     int `json:"prompt_tokens"`
	CompletionTokens int `json:"completion_tokens"`
	TotalTokens      int `json:"total_tokens"`
}

type Response struct {
	Content string
	Usage   Usage
}

// Client produces chat completions.
type Client interface {
	Complete(ctx context.Context, req Request) (*Response, error)
}

// Generate is a convenience wrapper for single-prompt completions.
func Generate(ctx context.Context, c Client, system, prompt string) (string, error) {
	msgs := make([]Message, 0, 2)
	if system != "" {
		msgs = append(msgs, Message{Role: SystemRole, Content: system})
	}
	msgs = append(msgs, Message{Role: UserRole, Content: prompt})

	resp, err := c.Complete(ctx, Request{Messages: msgs})
	if err != nil {
		return "", err
	}
	return resp.Content, nil
}
