package handler

import (
	"net/http"
	"time"

	"github.com/google/uuid"
)

const (
	authCookieName       = "auth_token"
	signupFlowCookieName = "signup_flow"
	rememberCookieName   = "remembered_email"
	chatCookieName       = "chat_id"

	rememberMaxAge = 30 * 24 * time.Hour
	chatMaxAge     = 30 * 24 * time.Hour
	signupMaxAge   = time.Hour
)

// cookieJar writes the server's cookies with consistent attributes.
type cookieJar struct {
	secure bool
}

func (c cookieJar) set(w http.ResponseWriter, name, value string, maxAge time.Duration) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(maxAge.Seconds()),
	})
}

func (c cookieJar) clear(w http.ResponseWriter, name string) {
	http.SetCookie(w, &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
}

// ensure returns the value of cookie name, minting and setting a fresh
// random one when the request has none.
func (c cookieJar) ensure(w http.ResponseWriter, r *http.Request, name string, maxAge time.Duration) string {
	if ck, err := r.Cookie(name); err == nil && ck.Value != "" {
		return ck.Value
	}
	v := uuid.NewString()
	c.set(w, name, v, maxAge)
	return v
}

func cookieValue(r *http.Request, name string) string {
	ck, err := r.Cookie(name)
	if err != nil {
		return ""
	}
	return ck.Value
}

// clearAuthCookie is used by middleware, which has no jar of its own.
func clearAuthCookie(w http.ResponseWriter, r *http.Request) {
	cookieJar{secure: r.TLS != nil}.clear(w, authCookieName)
}
