package view

import (
	"time"

	"github.com/a-h/templ"
	"github.com/msomdec/college-chatbot/internal/domain"
	"github.com/msomdec/college-chatbot/internal/validate"
)

type strengthView struct {
	Score    int
	Level    string
	Label    string
	Feedback string
}

func strengthOf(password string) strengthView {
	if password == "" {
		return strengthView{Level: "weak"}
	}
	s := validate.Strength(password)
	return strengthView{Score: s.Score, Level: s.Level, Label: s.Label, Feedback: s.Feedback}
}

type SignupPageData struct {
	Form   domain.SignupForm
	Errors validate.Errors
	Notice *Notice
}

type signupView struct {
	Form     domain.SignupForm
	Errors   map[string]string
	Notice   *Notice
	Strength strengthView
	Ready    bool
}

// SignupPage renders the signup form. The password is never echoed back.
func SignupPage(data SignupPageData) templ.Component {
	form := data.Form
	form.Password = ""
	return page("signup", signupView{
		Form:     form,
		Errors:   errorMap(data.Errors),
		Notice:   data.Notice,
		Strength: strengthView{Level: "weak"},
	})
}

type signupFeedbackView struct {
	Fields       []fieldErrorView
	ShowStrength bool
	Strength     strengthView
	Ready        bool
}

// SignupFeedback renders the per-field messages, the strength meter and the
// OTP button for a live validation patch. Every signup field is included so
// fixed fields lose their message.
func SignupFeedback(errs validate.Errors, password string, ready bool) templ.Component {
	fields := make([]fieldErrorView, 0, len(validate.SignupFields))
	for _, name := range validate.SignupFields {
		fields = append(fields, fieldErrorView{Name: string(name), Message: errs[name]})
	}
	return fragment("signup-feedback", signupFeedbackView{
		Fields:       fields,
		ShowStrength: true,
		Strength:     strengthOf(password),
		Ready:        ready,
	})
}

type VerifyPageData struct {
	Email     string
	Code      string // shown only in demo mode
	ExpiresAt time.Time
	TTL       time.Duration
	Expired   bool
	Errors    validate.Errors
	Notice    *Notice
}

type verifyView struct {
	VerifyPageData
	Errors map[string]string
}

func VerifyPage(data VerifyPageData) templ.Component {
	return page("verify", verifyView{VerifyPageData: data, Errors: errorMap(data.Errors)})
}

type LoginPageData struct {
	Email    string
	Remember bool
	Errors   validate.Errors
	Notice   *Notice
}

type loginView struct {
	LoginPageData
	Errors map[string]string
}

func LoginPage(data LoginPageData) templ.Component {
	return page("login", loginView{LoginPageData: data, Errors: errorMap(data.Errors)})
}
