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

// SignupHandler serves the signup form and the OTP verification step.
type SignupHandler struct {
	signup  *service.SignupService
	cookies cookieJar
	showOTP bool
}

type signupSignals struct {
	FullName    string `json:"fullName"`
	WorkEmail   string `json:"workEmail"`
	Password    string `json:"password"`
	CollegeURL  string `json:"collegeUrl"`
	PhoneNumber string `json:"phoneNumber"`
}

func (s signupSignals) form() domain.SignupForm {
	return domain.SignupForm{
		FullName:    s.FullName,
		WorkEmail:   s.WorkEmail,
		Password:    s.Password,
		CollegeURL:  s.CollegeURL,
		PhoneNumber: s.PhoneNumber,
	}
}

func signupFormFromRequest(r *http.Request) domain.SignupForm {
	return domain.SignupForm{
		FullName:    r.PostFormValue(string(validate.FieldFullName)),
		WorkEmail:   r.PostFormValue(string(validate.FieldWorkEmail)),
		Password:    r.PostFormValue(string(validate.FieldPassword)),
		CollegeURL:  r.PostFormValue(string(validate.FieldCollegeURL)),
		PhoneNumber: r.PostFormValue(string(validate.FieldPhoneNumber)),
	}
}

func renderStatus(w http.ResponseWriter, status int) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
}

// HandleSignupPage renders an empty signup form.
func (h *SignupHandler) HandleSignupPage(w http.ResponseWriter, r *http.Request) {
	view.SignupPage(view.SignupPageData{}).Render(r.Context(), w)
}

// HandleValidate re-checks the form as the user types and patches field
// messages, the strength meter and the OTP button. Empty fields are not
// flagged until the form is submitted.
func (h *SignupHandler) HandleValidate(w http.ResponseWriter, r *http.Request) {
	var signals signupSignals
	if err := datastar.ReadSignals(r, &signals); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	form := signals.form()

	values := map[validate.FieldName]string{
		validate.FieldFullName:    form.FullName,
		validate.FieldWorkEmail:   form.WorkEmail,
		validate.FieldPassword:    form.Password,
		validate.FieldCollegeURL:  form.CollegeURL,
		validate.FieldPhoneNumber: form.PhoneNumber,
	}
	errs := validate.Errors{}
	for name, v := range values {
		if v == "" {
			continue
		}
		if res := validate.Field(name, v); !res.Valid {
			errs[name] = res.Message
		}
	}
	ready := len(validate.Signup(form)) == 0

	sse := datastar.NewSSE(w, r)
	sse.PatchElementTempl(view.SignupFeedback(errs, form.Password, ready))
}

// HandleRequestOTP validates the submitted form and issues a code for this
// browser's signup flow.
func (h *SignupHandler) HandleRequestOTP(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	form := signupFormFromRequest(r)
	flowID := h.cookies.ensure(w, r, signupFlowCookieName, signupMaxAge)

	_, err := h.signup.RequestOTP(r.Context(), flowID, form)
	if err != nil {
		var verr *service.ValidationError
		switch {
		case errors.As(err, &verr):
			renderStatus(w, http.StatusUnprocessableEntity)
			view.SignupPage(view.SignupPageData{Form: form, Errors: verr.Fields}).Render(r.Context(), w)
		case errors.Is(err, domain.ErrDuplicateEmail):
			renderStatus(w, http.StatusConflict)
			view.SignupPage(view.SignupPageData{
				Form:   form,
				Errors: validate.Errors{validate.FieldWorkEmail: "User already exists with this email"},
				Notice: &view.Notice{Kind: "bad", Text: "An account with this email already exists. Try logging in instead."},
			}).Render(r.Context(), w)
		default:
			slog.ErrorContext(r.Context(), "request otp", "error", err)
			renderStatus(w, http.StatusInternalServerError)
			view.SignupPage(view.SignupPageData{
				Form:   form,
				Notice: &view.Notice{Kind: "bad", Text: "We could not send your code. Please try again."},
			}).Render(r.Context(), w)
		}
		return
	}

	http.Redirect(w, r, "/signup/verify", http.StatusSeeOther)
}

// verifyPageData describes the pending challenge for flowID, or reports
// false when there is none.
func (h *SignupHandler) verifyPageData(flowID string) (view.VerifyPageData, bool) {
	ch, ok := h.signup.Flows().Challenge(flowID)
	if !ok {
		return view.VerifyPageData{}, false
	}
	email, _ := h.signup.Flows().Email(flowID)
	data := view.VerifyPageData{
		Email:     email,
		ExpiresAt: ch.ExpiresAt,
		TTL:       ch.ExpiresAt.Sub(ch.IssuedAt),
		Expired:   h.signup.Flows().State(flowID) == domain.OTPExpired,
	}
	if h.showOTP {
		data.Code = ch.Code
	}
	return data, true
}

// HandleVerifyPage renders the code entry form for the pending signup.
func (h *SignupHandler) HandleVerifyPage(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "no-store")
	data, ok := h.verifyPageData(cookieValue(r, signupFlowCookieName))
	if !ok {
		http.Redirect(w, r, "/signup", http.StatusSeeOther)
		return
	}
	view.VerifyPage(data).Render(r.Context(), w)
}

// HandleVerify checks the submitted code. A wrong code can be retried; an
// expired one sends the user back to the start.
func (h *SignupHandler) HandleVerify(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "Bad Request", http.StatusBadRequest)
		return
	}
	w.Header().Set("Cache-Control", "no-store")
	flowID := cookieValue(r, signupFlowCookieName)
	data, ok := h.verifyPageData(flowID)
	if !ok {
		http.Redirect(w, r, "/signup", http.StatusSeeOther)
		return
	}

	user, err := h.signup.VerifyOTP(r.Context(), flowID, r.PostFormValue(string(validate.FieldOTP)))
	if err != nil {
		var verr *service.ValidationError
		switch {
		case errors.As(err, &verr):
			data.Errors = verr.Fields
			renderStatus(w, http.StatusUnprocessableEntity)
			view.VerifyPage(data).Render(r.Context(), w)
		case errors.Is(err, domain.ErrOTPInvalid):
			data.Errors = validate.Errors{validate.FieldOTP: "Invalid OTP. Please try again."}
			renderStatus(w, http.StatusUnprocessableEntity)
			view.VerifyPage(data).Render(r.Context(), w)
		case errors.Is(err, domain.ErrOTPExpired):
			h.cookies.clear(w, signupFlowCookieName)
			data.Expired = true
			data.Code = ""
			renderStatus(w, http.StatusGone)
			view.VerifyPage(data).Render(r.Context(), w)
		case errors.Is(err, domain.ErrNoPendingSignup):
			http.Redirect(w, r, "/signup", http.StatusSeeOther)
		case errors.Is(err, domain.ErrSignupBusy):
			data.Notice = &view.Notice{Kind: "bad", Text: "Your code is already being verified. Please wait a moment."}
			renderStatus(w, http.StatusConflict)
			view.VerifyPage(data).Render(r.Context(), w)
		case errors.Is(err, domain.ErrDuplicateEmail):
			h.cookies.clear(w, signupFlowCookieName)
			renderStatus(w, http.StatusConflict)
			view.SignupPage(view.SignupPageData{
				Notice: &view.Notice{Kind: "bad", Text: "An account with this email already exists. Try logging in instead."},
			}).Render(r.Context(), w)
		default:
			slog.ErrorContext(r.Context(), "verify otp", "error", err)
			renderStatus(w, http.StatusInternalServerError)
			data.Notice = &view.Notice{Kind: "bad", Text: "An unexpected error occurred. Please try again."}
			view.VerifyPage(data).Render(r.Context(), w)
		}
		return
	}

	slog.InfoContext(r.Context(), "user registered", "user_id", user.ID)
	h.cookies.clear(w, signupFlowCookieName)
	http.Redirect(w, r, "/login?registered=1", http.StatusSeeOther)
}

// HandleCancel abandons the pending signup.
func (h *SignupHandler) HandleCancel(w http.ResponseWriter, r *http.Request) {
	if flowID := cookieValue(r, signupFlowCookieName); flowID != "" {
		h.signup.Flows().Discard(flowID)
	}
	h.cookies.clear(w, signupFlowCookieName)
	http.Redirect(w, r, "/signup", http.StatusSeeOther)
}
