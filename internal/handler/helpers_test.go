package handler_test

import (
	"context"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/msomdec/college-chatbot/internal/chat"
	"github.com/msomdec/college-chatbot/internal/handler"
	"github.com/msomdec/college-chatbot/internal/repository/sqlite"
	"github.com/msomdec/college-chatbot/internal/service"
)

const testJWTSecret = "test-secret-for-handler-tests-0123456789"

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

type captureNotifier struct {
	mu    sync.Mutex
	codes map[string]string
}

func (n *captureNotifier) SendOTP(_ context.Context, email, code string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.codes == nil {
		n.codes = make(map[string]string)
	}
	n.codes[email] = code
	return nil
}

func (n *captureNotifier) code(email string) string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.codes[email]
}

type testApp struct {
	app      *handler.App
	db       *sqlite.DB
	notifier *captureNotifier
	clock    *fakeClock
	srv      *httptest.Server
}

// newTestApp wires every service against a temp SQLite database and serves
// the full handler chain. The remote chat widget talks to /api/chat on a
// second test server.
func newTestApp(t *testing.T) *testApp {
	t.Helper()
	db, err := sqlite.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("New DB: %v", err)
	}
	if err := db.Migrate(context.Background()); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	backend := httptest.NewServer(handler.HandleChatAPI(chat.KeywordReplier{}))
	t.Cleanup(backend.Close)

	clock := &fakeClock{now: time.Now()}
	notifier := &captureNotifier{}
	app := &handler.App{
		Auth:       service.NewAuthService(db.Users(), db.Sessions(), testJWTSecret).WithClock(clock.Now),
		Signup:     service.NewSignupService(db.Users(), service.NewFlowStore(), notifier, 4).WithClock(clock.Now),
		Dashboards: service.NewDashboardCache(db.KV()),
		RemoteChat: service.NewChatService(db.ChatMessages(), chat.NewRemoteReplier(backend.URL, 5*time.Second), "Hello from the college bot"),
		StudyChat:  service.NewChatService(db.ChatMessages(), chat.NewCannedReplier([]string{"Keep studying"}), "Hello student"),
		DemoChat:   service.NewChatService(db.ChatMessages(), chat.NewCannedReplier([]string{"Bonjour"}), "Hello from EchoBot"),
		Backend:    chat.KeywordReplier{},
		DB:         db,
		Limiter:    service.NewTokenBucket(100, 1000),
		ShowOTP:    true,
	}

	srv := httptest.NewServer(handler.NewHandler(app))
	t.Cleanup(srv.Close)

	return &testApp{app: app, db: db, notifier: notifier, clock: clock, srv: srv}
}

// newClient returns a client with a cookie jar that does not follow
// redirects.
func newClient(t *testing.T) *http.Client {
	t.Helper()
	jar, err := cookiejar.New(nil)
	if err != nil {
		t.Fatalf("create cookie jar: %v", err)
	}
	return &http.Client{
		Jar: jar,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
}

func signupValues() url.Values {
	return url.Values{
		"fullName":    {"Grace Hopper"},
		"workEmail":   {"Grace@College.edu"},
		"password":    {"Cobol@1959!A"},
		"collegeUrl":  {"https://college.edu"},
		"phoneNumber": {"9876543210"},
	}
}

// register drives the signup and OTP steps with client and returns the
// normalized email.
func (a *testApp) register(t *testing.T, client *http.Client) string {
	t.Helper()
	resp, err := client.PostForm(a.srv.URL+"/signup/otp", signupValues())
	if err != nil {
		t.Fatalf("POST /signup/otp: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("signup: expected 303, got %d", resp.StatusCode)
	}

	const email = "grace@college.edu"
	resp, err = client.PostForm(a.srv.URL+"/signup/verify", url.Values{"otp": {a.notifier.code(email)}})
	if err != nil {
		t.Fatalf("POST /signup/verify: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("verify: expected 303, got %d", resp.StatusCode)
	}
	return email
}

func (a *testApp) login(t *testing.T, client *http.Client, email string) {
	t.Helper()
	resp, err := client.PostForm(a.srv.URL+"/login", url.Values{
		"loginEmail":    {email},
		"loginPassword": {"Cobol@1959!A"},
	})
	if err != nil {
		t.Fatalf("POST /login: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("login: expected 303, got %d", resp.StatusCode)
	}
}
