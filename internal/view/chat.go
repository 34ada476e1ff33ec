package view

import (
	"github.com/a-h/templ"
	"github.com/msomdec/college-chatbot/internal/domain"
)

// ChatWidget describes one message list and its input box. ListID is the
// element the send endpoint appends to.
type ChatWidget struct {
	ListID   string
	PostURL  string
	Messages []domain.ChatMessage
}

type ChatbotPageData struct {
	Title       string
	ResetURL    string
	Suggestions []string
	Chat        ChatWidget
}

// ChatbotPage renders a full-page chat widget.
func ChatbotPage(data ChatbotPageData) templ.Component {
	return page("chatbot", data)
}

// ChatMessages renders message bubbles for appending to a widget's list.
func ChatMessages(msgs ...domain.ChatMessage) templ.Component {
	return fragment("chat-messages", msgs)
}
