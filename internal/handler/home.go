package handler

import (
	"log/slog"
	"net/http"

	"github.com/msomdec/college-chatbot/internal/service"
	"github.com/msomdec/college-chatbot/internal/view"
)

const demoWidget = "demo-chat"

// HomeHandler serves the marketing page and the 404 page.
type HomeHandler struct {
	chats   *service.ChatService
	cookies cookieJar
}

// HandleHome renders the home page. The mux routes every unmatched GET here,
// so anything other than "/" is a 404.
func (h *HomeHandler) HandleHome(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusNotFound)
		view.NotFoundPage(r.URL.Path).Render(r.Context(), w)
		return
	}

	fullName := ""
	if user := UserFromContext(r.Context()); user != nil {
		fullName = user.FullName
	}

	messages, err := h.chats.History(r.Context(), conversationID(r, demoWidget))
	if err != nil {
		slog.ErrorContext(r.Context(), "load demo chat history", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	view.HomePage(fullName, view.ChatWidget{
		ListID:   widgetListID(demoWidget),
		PostURL:  "/" + demoWidget + "/messages",
		Messages: messages,
	}).Render(r.Context(), w)
}
