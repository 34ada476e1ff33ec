package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/msomdec/college-chatbot/internal/chat"
	"github.com/msomdec/college-chatbot/internal/domain"
)

const (
	// MaxChatMessageLength bounds a single user message, in characters.
	MaxChatMessageLength = 2000

	defaultHistoryLimit = 100

	unavailableReply = "The assistant could not answer right now. Please try again."
	unreachableReply = "Failed to connect to the server"
)

// ChatService runs one chat widget: it records the conversation and asks
// its replier for each answer. Backend failures become bot messages so the
// conversation can continue.
type ChatService struct {
	messages     domain.ChatMessageRepository
	replier      chat.Replier
	greeting     string
	historyLimit int
	delay        time.Duration
	now          func() time.Time
}

func NewChatService(messages domain.ChatMessageRepository, replier chat.Replier, greeting string) *ChatService {
	return &ChatService{
		messages:     messages,
		replier:      replier,
		greeting:     greeting,
		historyLimit: defaultHistoryLimit,
		now:          time.Now,
	}
}

func (s *ChatService) WithClock(now func() time.Time) *ChatService {
	s.now = now
	return s
}

// WithDelay makes the bot wait before answering, like a typing pause.
func (s *ChatService) WithDelay(d time.Duration) *ChatService {
	s.delay = d
	return s
}

// Send records text as a user message in conversationID and returns the
// stored user and bot messages.
func (s *ChatService) Send(ctx context.Context, conversationID, text string) (*domain.ChatMessage, *domain.ChatMessage, error) {
	text, err := CleanChatMessage(text)
	if err != nil {
		return nil, nil, err
	}

	userMsg := &domain.ChatMessage{
		ConversationID: conversationID,
		Role:           domain.ChatRoleUser,
		Body:           text,
		CreatedAt:      s.now().UTC(),
	}
	if err := s.messages.Append(ctx, userMsg); err != nil {
		return nil, nil, fmt.Errorf("store user message: %w", err)
	}

	if err := sleep(ctx, s.delay); err != nil {
		return nil, nil, err
	}

	reply, err := s.replier.Reply(ctx, text)
	if err != nil {
		if ctx.Err() != nil {
			return nil, nil, ctx.Err()
		}
		slog.WarnContext(ctx, "chat reply failed", "conversation", conversationID, "error", err)
		reply = fallbackReply(err)
	}

	botMsg := &domain.ChatMessage{
		ConversationID: conversationID,
		Role:           domain.ChatRoleBot,
		Body:           reply,
		CreatedAt:      s.now().UTC(),
	}
	if err := s.messages.Append(ctx, botMsg); err != nil {
		return nil, nil, fmt.Errorf("store bot message: %w", err)
	}

	return userMsg, botMsg, nil
}

// CleanChatMessage trims text and checks it is a sendable message.
func CleanChatMessage(text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", fmt.Errorf("%w: message is empty", domain.ErrInvalidInput)
	}
	if utf8.RuneCountInString(text) > MaxChatMessageLength {
		return "", fmt.Errorf("%w: message must be at most %d characters", domain.ErrInvalidInput, MaxChatMessageLength)
	}
	return text, nil
}

// History returns the greeting followed by the most recent messages of
// conversationID, oldest first. The greeting is not stored.
func (s *ChatService) History(ctx context.Context, conversationID string) ([]domain.ChatMessage, error) {
	out := []domain.ChatMessage{{
		ConversationID: conversationID,
		Role:           domain.ChatRoleBot,
		Body:           s.greeting,
	}}
	if conversationID == "" {
		return out, nil
	}

	msgs, err := s.messages.ListRecent(ctx, conversationID, s.historyLimit)
	if err != nil {
		return nil, fmt.Errorf("list messages: %w", err)
	}
	return append(out, msgs...), nil
}

// Reset forgets every message in conversationID.
func (s *ChatService) Reset(ctx context.Context, conversationID string) error {
	if err := s.messages.DeleteConversation(ctx, conversationID); err != nil {
		return fmt.Errorf("reset conversation: %w", err)
	}
	return nil
}

func fallbackReply(err error) string {
	var statusErr *chat.StatusError
	if errors.As(err, &statusErr) {
		return unavailableReply
	}
	return unreachableReply
}
