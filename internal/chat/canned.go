package chat

import (
	"context"
	"math/rand/v2"
)

// StudyResponses are the study-assistant widget's stock answers.
var StudyResponses = []string{
	"That's a great question! Let me help you understand this concept better.",
	"I can definitely assist you with that. Here's what you need to know...",
	"Based on your question, I recommend focusing on these key points:",
	"This is a common topic students ask about. Let me break it down for you:",
	"Great question! This relates to several important concepts we should explore.",
}

// MultilingualResponses are the homepage demo's stock answers.
var MultilingualResponses = []string{
	"That's a great question! I can help you with that in any language you prefer.",
	"¡Excelente! Puedo responder en español también. ¿En qué más puedo ayudarte?",
	"C'est fantastique! Je peux communiquer en français. Comment puis-je vous aider?",
	"यह बहुत अच्छा है! मैं हिंदी में भी बात कर सकता हूं। आप क्या जानना चाहते हैं?",
	"素晴らしい！日本語でもお話しできます。他に何かお手伝いできることはありますか？",
	"That's interesting! I understand context across languages. Feel free to switch between languages anytime.",
	"Wonderful! I can detect the language you're using and respond appropriately. Try me in any language!",
}

// CannedReplier ignores the message and answers with a random stock reply.
type CannedReplier struct {
	responses []string
}

func NewCannedReplier(responses []string) *CannedReplier {
	return &CannedReplier{responses: responses}
}

func (r *CannedReplier) Reply(ctx context.Context, _ string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if len(r.responses) == 0 {
		return "", nil
	}
	return r.responses[rand.IntN(len(r.responses))], nil
}
