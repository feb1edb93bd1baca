package llm

import (
	"context"
)

// Complete sends system + user prompts and returns the text response.
func Complete(ctx context.Context, p Provider, system, user string, opts Options) (string, error) {
	resp, err := p.Complete(ctx, CompletionRequest{
		SystemPrompt: system,
		Messages:     []Message{{Role: RoleUser, Content: user}},
		Options:      opts,
	})
	if err != nil {
		return "", err
	}
	return resp.Content, nil
}

// Conversation builds the message list for a chat turn: prior history
// followed by the new user message.
func Conversation(history []Message, user string) []Message {
	msgs := make([]Message, 0, len(history)+1)
	msgs = append(msgs, history...)
	return append(msgs, Message{Role: RoleUser, Content: user})
}
