package core

import "context"

// AIProvider is the single language-model capability the pipeline depends
// on: a chat completion over messages, optionally carrying a tool schema.
type AIProvider interface {
	Chat(ctx context.Context, history []Message, tools []Tool) (Message, error)
}
