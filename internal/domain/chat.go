package domain

import (
	"context"
	"time"
)

const (
	ChatRoleUser = "user"
	ChatRoleBot  = "bot"
)

// ChatMessage is one entry in a widget conversation.
type ChatMessage struct {
	ID             int64
	ConversationID string
	Role           string
	Body           string
	CreatedAt      time.Time
}

type ChatMessageRepository interface {
	Append(ctx context.Context, msg *ChatMessage) error
	// ListRecent returns the latest limit messages of a conversation, oldest first.
	ListRecent(ctx context.Context, conversationID string, limit int) ([]ChatMessage, error)
	DeleteConversation(ctx context.Context, conversationID string) error
}
