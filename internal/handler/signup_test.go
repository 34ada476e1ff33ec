package handler_test

import (
	"net/http"
	"net/url"
	"strings"
	"testing"
	"time"
)

func TestSignup_ValidateStreamsFeedback(t *testing.T) {
	a := newTestApp(t)

	resp, err := http.Post(a.srv.URL+"/signup/validate", "application/json",
		strings.NewReader(`{"fullName":"G","workEmail":"","password":"abc"}`))
	if err != nil {
		t.Fatalf("POST /signup/validate: %v", err)
	}
	body := readBody(t, resp)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/event-stream") {
		t.Fatalf("expected an SSE response, got %q", ct)
	}

	for _, want := range []string{
		"datastar-patch-elements",
		"Name must be at least 2 characters",
		"Password must be at least 8 characters",
		`id="password-strength"`,
		`id="otp-button"`,
	} {
		if !strings.Contains(body, want) {
			t.Errorf("expected feedback to contain %q", want)
		}
	}
	if strings.Contains(body, "Email is required") {
		t.Error("expected untouched email to stay unflagged")
	}
	if !strings.Contains(body, "disabled") {
		t.Error("expected OTP button to stay disabled for an invalid form")
	}
}

func TestSignup_ValidateEnablesButtonForValidForm(t *testing.T) {
	a := newTestApp(t)

	resp, err := http.Post(a.srv.URL+"/signup/validate", "application/json", strings.NewReader(
		`{"fullName":"Grace Hopper","workEmail":"grace@college.edu","password":"Cobol@1959!A","collegeUrl":"https://college.edu","phoneNumber":"9876543210"}`))
	if err != nil {
		t.Fatalf("POST /signup/validate: %v", err)
	}
	body := readBody(t, resp)
	if strings.Contains(body, "disabled") {
		t.Fatal("expected OTP button to be enabled")
	}
}

func TestSignup_RequestOTPRejectsInvalidForm(t *testing.T) {
	a := newTestApp(t)

	values := signupValues()
	values.Set("phoneNumber", "12345")
	values.Set("collegeUrl", "college")
	resp, err := http.PostForm(a.srv.URL+"/signup/otp", values)
	if err != nil {
		t.Fatalf("POST /signup/otp: %v", err)
	}
	body := readBody(t, resp)
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", resp.StatusCode)
	}
	if !strings.Contains(body, "Enter a valid 10-digit phone number starting with 6-9") {
		t.Error("expected phone number message")
	}
	if !strings.Contains(body, "Please enter a valid URL") {
		t.Error("expected URL message")
	}
	if strings.Contains(body, "Cobol@1959!A") {
		t.Error("expected password not to be echoed back")
	}
	if a.notifier.code("grace@college.edu") != "" {
		t.Error("expected no code to be issued")
	}
}

func TestSignup_DuplicateEmail(t *testing.T) {
	a := newTestApp(t)
	a.register(t, newClient(t))

	resp, err := newClient(t).PostForm(a.srv.URL+"/signup/otp", signupValues())
	if err != nil {
		t.Fatalf("POST /signup/otp: %v", err)
	}
	body := readBody(t, resp)
	if resp.StatusCode != http.StatusConflict {
		t.Fatalf("expected 409, got %d", resp.StatusCode)
	}
	if !strings.Contains(body, "User already exists with this email") {
		t.Fatal("expected duplicate email message")
	}
}

func TestSignup_ExpiredCode(t *testing.T) {
	a := newTestApp(t)
	client := newClient(t)

	resp, err := client.PostForm(a.srv.URL+"/signup/otp", signupValues())
	if err != nil {
		t.Fatalf("POST /signup/otp: %v", err)
	}
	resp.Body.Close()
	code := a.notifier.code("grace@college.edu")

	a.clock.Advance(5*time.Minute + time.Second)

	resp, err = client.PostForm(a.srv.URL+"/signup/verify", url.Values{"otp": {code}})
	if err != nil {
		t.Fatalf("POST /signup/verify: %v", err)
	}
	body := readBody(t, resp)
	if resp.StatusCode != http.StatusGone {
		t.Fatalf("expected 410, got %d", resp.StatusCode)
	}
	if !strings.Contains(body, "Your code has expired") {
		t.Fatal("expected expiry message")
	}

	// The flow is gone, so the verify page sends the user back to signup.
	resp, err = client.Get(a.srv.URL + "/signup/verify")
	if err != nil {
		t.Fatalf("GET /signup/verify: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusSeeOther || resp.Header.Get("Location") != "/signup" {
		t.Fatalf("expected redirect to /signup, got %d %s", resp.StatusCode, resp.Header.Get("Location"))
	}
}

func TestSignup_MalformedCode(t *testing.T) {
	a := newTestApp(t)
	client := newClient(t)

	resp, err := client.PostForm(a.srv.URL+"/signup/otp", signupValues())
	if err != nil {
		t.Fatalf("POST /signup/otp: %v", err)
	}
	resp.Body.Close()

	resp, err = client.PostForm(a.srv.URL+"/signup/verify", url.Values{"otp": {"12ab"}})
	if err != nil {
		t.Fatalf("POST /signup/verify: %v", err)
	}
	body := readBody(t, resp)
	if resp.StatusCode != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422, got %d", resp.StatusCode)
	}
	if !strings.Contains(body, "Enter the 6-digit code") {
		t.Fatal("expected format message")
	}
}

func TestSignup_VerifyWithoutFlowRedirects(t *testing.T) {
	a := newTestApp(t)
	client := newClient(t)

	for _, req := range []func() (*http.Response, error){
		func() (*http.Response, error) { return client.Get(a.srv.URL + "/signup/verify") },
		func() (*http.Response, error) {
			return client.PostForm(a.srv.URL+"/signup/verify", url.Values{"otp": {"123456"}})
		},
	} {
		resp, err := req()
		if err != nil {
			t.Fatalf("request: %v", err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusSeeOther || resp.Header.Get("Location") != "/signup" {
			t.Fatalf("expected redirect to /signup, got %d %s", resp.StatusCode, resp.Header.Get("Location"))
		}
	}
}

func TestSignup_Cancel(t *testing.T) {
	a := newTestApp(t)
	client := newClient(t)

	resp, err := client.PostForm(a.srv.URL+"/signup/otp", signupValues())
	if err != nil {
		t.Fatalf("POST /signup/otp: %v", err)
	}
	resp.Body.Close()
	if a.app.Signup.Flows().Len() != 1 {
		t.Fatalf("expected one pending signup, got %d", a.app.Signup.Flows().Len())
	}

	resp, err = client.Post(a.srv.URL+"/signup/cancel", "", nil)
	if err != nil {
		t.Fatalf("POST /signup/cancel: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusSeeOther || resp.Header.Get("Location") != "/signup" {
		t.Fatalf("expected redirect to /signup, got %d %s", resp.StatusCode, resp.Header.Get("Location"))
	}
	if a.app.Signup.Flows().Len() != 0 {
		t.Fatal("expected pending signup to be discarded")
	}
}

func TestSignup_VerifyPageShowsExpiryFromServiceClock(t *testing.T) {
	a := newTestApp(t)
	client := newClient(t)

	resp, err := client.PostForm(a.srv.URL+"/signup/otp", signupValues())
	if err != nil {
		t.Fatalf("POST /signup/otp: %v", err)
	}
	resp.Body.Close()

	a.clock.Advance(5*time.Minute + time.Second)

	resp, err = client.Get(a.srv.URL + "/signup/verify")
	if err != nil {
		t.Fatalf("GET /signup/verify: %v", err)
	}
	body := readBody(t, resp)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	if !strings.Contains(body, "Your code has expired") {
		t.Fatal("expected the verify page to report the code as expired")
	}
	if strings.Contains(body, `action="/signup/verify"`) {
		t.Fatal("expected no code entry form for an expired code")
	}
}
