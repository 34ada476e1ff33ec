package handler

import (
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/msomdec/college-chatbot/internal/service"
	"github.com/msomdec/college-chatbot/internal/view"
)

// DashboardHandler handles the dashboard page.
type DashboardHandler struct {
	dashboards  *service.DashboardCache
	idleTimeout time.Duration
}

// HandleDashboard serves the user's dashboard, rendering it once per login
// and answering later visits from the cache.
func (h *DashboardHandler) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	session := SessionFromContext(r.Context())
	if user == nil || session == nil {
		http.Redirect(w, r, "/login", http.StatusSeeOther)
		return
	}

	doc, err := h.dashboards.Load(r.Context(), user.ID, session.ID, func(out io.Writer) error {
		return view.DashboardPage(view.DashboardPageData{
			FullName:    user.FullName,
			LoginTime:   session.LoginTime,
			IdleTimeout: h.idleTimeout,
		}).Render(r.Context(), out)
	})
	if err != nil {
		slog.ErrorContext(r.Context(), "load dashboard", "user_id", user.ID, "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Write(doc)
}
