package chat

import (
	"context"
	"strings"
)

// FallbackReply is what KeywordReplier says when no rule matches.
const FallbackReply = "Fallback Error"

var keywordRules = []struct {
	keyword string
	reply   string
}{
	{"hello", "Hi there! How can I help you today?"},
	{"how are you", "I'm just a bot, but I'm doing great! Thanks for asking."},
	{"will we win sih", "If your frontend team works harder and learns more than css, Sure you can make it!!! 💪"},
}

// KeywordReplier answers by case-insensitive substring match against a
// fixed rule list. The first matching rule wins.
type KeywordReplier struct{}

func (KeywordReplier) Reply(_ context.Context, message string) (string, error) {
	msg := strings.ToLower(message)
	for _, rule := range keywordRules {
		if strings.Contains(msg, rule.keyword) {
			return rule.reply, nil
		}
	}
	return FallbackReply, nil
}
