package handler

import (
	"log/slog"
	"net/http"

	"github.com/msomdec/college-chatbot/internal/chat"
	"github.com/msomdec/college-chatbot/internal/domain"
	"github.com/msomdec/college-chatbot/internal/service"
	"github.com/msomdec/college-chatbot/internal/view"
	"github.com/starfederation/datastar-go/datastar"
)

var studySuggestions = []string{
	"Help me with math homework",
	"Explain photosynthesis",
	"How to write a thesis statement",
	"Study tips for exams",
	"Grammar rules explained",
	"Science project ideas",
	"History timeline help",
	"Literature analysis guide",
	"Chemistry formulas",
	"Physics concepts",
}

// ChatHandler serves one chat widget. Each widget keeps its own
// conversation, keyed by the browser's chat cookie.
type ChatHandler struct {
	chats   *service.ChatService
	widget  string
	cookies cookieJar
}

func widgetListID(widget string) string {
	return widget + "-messages"
}

// conversationID scopes the browser's chat cookie to a widget. It is empty
// when the browser has not chatted yet.
func conversationID(r *http.Request, widget string) string {
	id := cookieValue(r, chatCookieName)
	if id == "" {
		return ""
	}
	return widgetConversation(widget, id)
}

func widgetConversation(widget, chatID string) string {
	return widget + ":" + chatID
}

// HandlePage renders the widget as a full page with its history.
func (h *ChatHandler) HandlePage(title string, suggestions []string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		messages, err := h.chats.History(r.Context(), conversationID(r, h.widget))
		if err != nil {
			slog.ErrorContext(r.Context(), "load chat history", "widget", h.widget, "error", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}

		view.ChatbotPage(view.ChatbotPageData{
			Title:       title,
			ResetURL:    "/" + h.widget + "/reset",
			Suggestions: suggestions,
			Chat: view.ChatWidget{
				ListID:   widgetListID(h.widget),
				PostURL:  "/" + h.widget + "/messages",
				Messages: messages,
			},
		}).Render(r.Context(), w)
	}
}

// HandleSend appends the user's message and the bot's answer to the widget
// via SSE and clears the input.
func (h *ChatHandler) HandleSend(w http.ResponseWriter, r *http.Request) {
	var signals struct {
		Message string `json:"message"`
	}
	if err := datastar.ReadSignals(r, &signals); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}

	text, err := service.CleanChatMessage(signals.Message)
	if err != nil {
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	convID := widgetConversation(h.widget, h.cookies.ensure(w, r, chatCookieName, chatMaxAge))

	sse := datastar.NewSSE(w, r)
	sse.MarshalAndPatchSignals(map[string]any{"message": ""})
	sse.PatchElementTempl(
		view.ChatMessages(domain.ChatMessage{Role: domain.ChatRoleUser, Body: text}),
		datastar.WithSelectorID(widgetListID(h.widget)),
		datastar.WithModeAppend(),
	)

	_, botMsg, err := h.chats.Send(r.Context(), convID, text)
	if err != nil {
		if r.Context().Err() == nil {
			slog.ErrorContext(r.Context(), "send chat message", "widget", h.widget, "error", err)
		}
		return
	}

	sse.PatchElementTempl(
		view.ChatMessages(*botMsg),
		datastar.WithSelectorID(widgetListID(h.widget)),
		datastar.WithModeAppend(),
	)
}

// HandleReset starts a new conversation and reloads the page.
func (h *ChatHandler) HandleReset(w http.ResponseWriter, r *http.Request) {
	if convID := conversationID(r, h.widget); convID != "" {
		if err := h.chats.Reset(r.Context(), convID); err != nil {
			slog.ErrorContext(r.Context(), "reset chat", "widget", h.widget, "error", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
	}
	http.Redirect(w, r, "/"+h.widget, http.StatusSeeOther)
}

// HandleChatAPI answers {"message": ...} with {"response": ...} using
// replier. It stands in for the external chat backend.
func HandleChatAPI(replier chat.Replier) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req chat.Request
		if err := readJSON(r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body.")
			return
		}

		reply, err := replier.Reply(r.Context(), req.Message)
		if err != nil {
			slog.ErrorContext(r.Context(), "chat api reply", "error", err)
			writeError(w, http.StatusBadGateway, "The assistant could not answer right now.")
			return
		}
		writeJSON(w, http.StatusOK, chat.Response{Response: reply})
	})
}
