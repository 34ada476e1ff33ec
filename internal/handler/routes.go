package handler

import (
	"net/http"

	"github.com/msomdec/college-chatbot/internal/chat"
	"github.com/msomdec/college-chatbot/internal/domain"
	"github.com/msomdec/college-chatbot/internal/service"
)

// App bundles the services the HTTP layer needs.
type App struct {
	Auth       *service.AuthService
	Signup     *service.SignupService
	Dashboards *service.DashboardCache

	RemoteChat *service.ChatService // /chatbot, answered by the chat backend
	StudyChat  *service.ChatService // /chatbot3, canned study answers
	DemoChat   *service.ChatService // homepage overlay
	Backend    chat.Replier         // served at /api/chat

	DB      domain.Database
	Limiter *service.TokenBucket

	CookieSecure bool
	ShowOTP      bool
}

// RegisterRoutes sets up all HTTP routes on the given mux.
func RegisterRoutes(mux *http.ServeMux, app *App) {
	cookies := cookieJar{secure: app.CookieSecure}
	limited := func(h http.HandlerFunc) http.Handler { return RateLimit(app.Limiter, h) }

	home := &HomeHandler{chats: app.DemoChat, cookies: cookies}
	remote := &ChatHandler{chats: app.RemoteChat, widget: "chatbot", cookies: cookies}
	study := &ChatHandler{chats: app.StudyChat, widget: "chatbot3", cookies: cookies}
	demo := &ChatHandler{chats: app.DemoChat, widget: demoWidget, cookies: cookies}
	signup := &SignupHandler{signup: app.Signup, cookies: cookies, showOTP: app.ShowOTP}
	auth := &AuthHandler{auth: app.Auth, dashboards: app.Dashboards, limiter: app.Limiter, cookies: cookies}
	dashboard := &DashboardHandler{dashboards: app.Dashboards, idleTimeout: app.Auth.IdleTimeout()}

	mux.Handle("GET /healthz", HandleHealthz(app.DB))
	mux.Handle("GET /", OptionalAuth(app.Auth, http.HandlerFunc(home.HandleHome)))

	mux.HandleFunc("GET /chatbot", remote.HandlePage("Chatbot", nil))
	mux.HandleFunc("POST /chatbot/messages", remote.HandleSend)
	mux.HandleFunc("POST /chatbot/reset", remote.HandleReset)
	mux.HandleFunc("GET /chatbot3", study.HandlePage("Study Assistant", studySuggestions))
	mux.HandleFunc("POST /chatbot3/messages", study.HandleSend)
	mux.HandleFunc("POST /chatbot3/reset", study.HandleReset)
	mux.HandleFunc("POST /demo-chat/messages", demo.HandleSend)
	mux.Handle("POST /api/chat", HandleChatAPI(app.Backend))

	mux.HandleFunc("GET /signup", signup.HandleSignupPage)
	mux.HandleFunc("POST /signup/validate", signup.HandleValidate)
	mux.Handle("POST /signup/otp", limited(signup.HandleRequestOTP))
	mux.HandleFunc("GET /signup/verify", signup.HandleVerifyPage)
	mux.Handle("POST /signup/verify", limited(signup.HandleVerify))
	mux.HandleFunc("POST /signup/cancel", signup.HandleCancel)

	mux.Handle("GET /login", OptionalAuth(app.Auth, http.HandlerFunc(auth.HandleLoginPage)))
	mux.Handle("POST /login", limited(auth.HandleLoginForm))
	mux.HandleFunc("POST /logout", auth.HandleLogoutForm)
	mux.Handle("GET /dashboard", RequireSession(app.Auth, http.HandlerFunc(dashboard.HandleDashboard)))

	mux.Handle("POST /api/auth/login", limited(auth.HandleLogin))
	mux.HandleFunc("POST /api/auth/logout", auth.HandleLogout)
	mux.Handle("GET /api/auth/me", RequireAuth(app.Auth, http.HandlerFunc(auth.HandleMe)))
}

// NewHandler returns the fully wrapped HTTP handler for app.
func NewHandler(app *App) http.Handler {
	mux := http.NewServeMux()
	RegisterRoutes(mux, app)
	return Recover(LogRequests(SecurityHeaders(RejectScriptParams(mux))))
}
