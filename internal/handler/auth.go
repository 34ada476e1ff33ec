package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/msomdec/college-chatbot/internal/domain"
	"github.com/msomdec/college-chatbot/internal/service"
	"github.com/msomdec/college-chatbot/internal/validate"
	"github.com/msomdec/college-chatbot/internal/view"
	"github.com/starfederation/datastar-go/datastar"
)

const invalidCredentials = "Invalid email or password"

// AuthHandler handles login and logout, both as HTML forms and as a JSON API.
type AuthHandler struct {
	auth       *service.AuthService
	dashboards *service.DashboardCache
	limiter    *service.TokenBucket
	cookies    cookieJar
}

// startSession sets the auth cookie for a successful login, refills the
// client's attempt budget and drops any dashboard rendered for an earlier
// session.
func (h *AuthHandler) startSession(w http.ResponseWriter, r *http.Request, res *service.LoginResult) {
	h.cookies.set(w, authCookieName, res.Token, h.auth.SessionTTL())
	if h.limiter != nil {
		h.limiter.Reset(clientIP(r))
	}
	if err := h.dashboards.Invalidate(r.Context(), res.User.ID); err != nil {
		slog.ErrorContext(r.Context(), "invalidate dashboard", "user_id", res.User.ID, "error", err)
	}
	slog.InfoContext(r.Context(), "user logged in", "user_id", res.User.ID, "session_id", res.Session.ID)
}

func (h *AuthHandler) endSession(w http.ResponseWriter, r *http.Request) {
	if token := cookieValue(r, authCookieName); token != "" {
		if err := h.auth.LogoutToken(r.Context(), token); err != nil {
			slog.ErrorContext(r.Context(), "logout", "error", err)
		}
	}
	h.cookies.clear(w, authCookieName)
}

func loginNotice(r *http.Request) *view.Notice {
	q := r.URL.Query()
	switch {
	case q.Get("expired") != "":
		return &view.Notice{Kind: "bad", Text: "Your session has expired. Please log in again."}
	case q.Get("registered") != "":
		return &view.Notice{Kind: "good", Text: "Account created successfully! Please log in."}
	case q.Get("loggedout") != "":
		return &view.Notice{Text: "You have been logged out."}
	}
	return nil
}

// HandleLoginPage renders the login form, prefilled with a remembered email.
// Visitors who are already logged in go straight to the dashboard.
func (h *AuthHandler) HandleLoginPage(w http.ResponseWriter, r *http.Request) {
	if UserFromContext(r.Context()) != nil {
		http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
		return
	}

	remembered := cookieValue(r, rememberCookieName)
	view.LoginPage(view.LoginPageData{
		Email:    remembered,
		Remember: remembered != "",
		Notice:   loginNotice(r),
	}).Render(r.Context(), w)
}

// HandleLoginForm processes the login form.
// POST /login
func (h *AuthHandler) HandleLoginForm(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	email := r.PostFormValue(string(validate.FieldLoginEmail))
	password := r.PostFormValue(string(validate.FieldLoginPassword))
	remember := r.PostFormValue("rememberMe") != ""

	errs := validate.Errors{}
	for name, v := range map[validate.FieldName]string{
		validate.FieldLoginEmail:    email,
		validate.FieldLoginPassword: password,
	} {
		if res := validate.Field(name, v); !res.Valid {
			errs[name] = res.Message
		}
	}
	if len(errs) > 0 {
		renderStatus(w, http.StatusUnprocessableEntity)
		view.LoginPage(view.LoginPageData{Email: email, Remember: remember, Errors: errs}).Render(r.Context(), w)
		return
	}

	res, err := h.auth.Login(r.Context(), email, password)
	if err != nil {
		if errors.Is(err, domain.ErrUnauthorized) || errors.Is(err, domain.ErrInvalidInput) {
			renderStatus(w, http.StatusUnauthorized)
			view.LoginPage(view.LoginPageData{
				Email:    email,
				Remember: remember,
				Notice:   &view.Notice{Kind: "bad", Text: invalidCredentials},
			}).Render(r.Context(), w)
			return
		}
		slog.ErrorContext(r.Context(), "login user", "error", err)
		renderStatus(w, http.StatusInternalServerError)
		view.LoginPage(view.LoginPageData{
			Email:  email,
			Notice: &view.Notice{Kind: "bad", Text: "An unexpected error occurred. Please try again."},
		}).Render(r.Context(), w)
		return
	}

	if remember {
		h.cookies.set(w, rememberCookieName, res.User.Email, rememberMaxAge)
	} else {
		h.cookies.clear(w, rememberCookieName)
	}
	h.startSession(w, r, res)
	http.Redirect(w, r, "/dashboard", http.StatusSeeOther)
}

// HandleLogoutForm ends the session. Requests from the dashboard's
// inactivity timer arrive over Datastar and are redirected via SSE.
// POST /logout
func (h *AuthHandler) HandleLogoutForm(w http.ResponseWriter, r *http.Request) {
	h.endSession(w, r)

	target := "/login?loggedout=1"
	if r.URL.Query().Get("reason") == "idle" {
		target = "/login?expired=1"
	}
	if r.Header.Get("Datastar-Request") == "true" {
		sse := datastar.NewSSE(w, r)
		sse.Redirect(target)
		return
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// HandleLogin processes a JSON login request.
// POST /api/auth/login
// Request:  {"email":"...","password":"..."}
// Response: {"user": {...}, "session": {...}}
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := readJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	res, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidInput) {
			writeError(w, http.StatusUnprocessableEntity, "Email and password are required.")
			return
		}
		if errors.Is(err, domain.ErrUnauthorized) {
			writeError(w, http.StatusUnauthorized, invalidCredentials+".")
			return
		}
		slog.ErrorContext(r.Context(), "login user", "error", err)
		writeError(w, http.StatusInternalServerError, "An unexpected error occurred. Please try again.")
		return
	}

	h.startSession(w, r, res)
	writeJSON(w, http.StatusOK, map[string]any{
		"user":    toUserDTO(res.User),
		"session": toSessionDTO(res.Session),
	})
}

// HandleLogout ends the session and clears the auth cookie.
// POST /api/auth/logout
// Response: 204 No Content
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	h.endSession(w, r)
	w.WriteHeader(http.StatusNoContent)
}

// HandleMe returns the currently authenticated user and session.
// GET /api/auth/me
// Response: {"user": {...}, "session": {...}} or 401
func (h *AuthHandler) HandleMe(w http.ResponseWriter, r *http.Request) {
	user := UserFromContext(r.Context())
	session := SessionFromContext(r.Context())
	if user == nil || session == nil {
		writeError(w, http.StatusUnauthorized, "Not authenticated.")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"user":    toUserDTO(user),
		"session": toSessionDTO(session),
	})
}
