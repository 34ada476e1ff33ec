// Package validate holds the field rules for the signup and login forms and
// the password strength scorer.
package validate

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/msomdec/college-chatbot/internal/domain"
)

// FieldName identifies a form input. Values match the input names used by
// the signup and login pages.
type FieldName string

const (
	FieldFullName      FieldName = "fullName"
	FieldWorkEmail     FieldName = "workEmail"
	FieldPassword      FieldName = "password"
	FieldCollegeURL    FieldName = "collegeUrl"
	FieldPhoneNumber   FieldName = "phoneNumber"
	FieldLoginEmail    FieldName = "loginEmail"
	FieldLoginPassword FieldName = "loginPassword"
	FieldOTP           FieldName = "otp"
)

// SignupFields lists the signup inputs in display order.
var SignupFields = []FieldName{
	FieldFullName,
	FieldWorkEmail,
	FieldPassword,
	FieldCollegeURL,
	FieldPhoneNumber,
}

const (
	maxEmailLength    = 254
	minPasswordLength = 8
	maxPasswordLength = 128
	passwordSymbols   = "@$!%*?&"
)

var (
	nameRe  = regexp.MustCompile(`^[a-zA-Z\s]{2,50}$`)
	emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	urlRe   = regexp.MustCompile(`^https?://(?:www\.)?[-a-zA-Z0-9@:%._+~#=]{1,256}\.[a-zA-Z0-9()]{1,6}\b[-a-zA-Z0-9()@:%_+.~#?&=/]*$`)
	phoneRe = regexp.MustCompile(`^[6-9]\d{9}$`)
	otpRe   = regexp.MustCompile(`^\d{6}$`)
)

// Result is the outcome of validating one field. Message is empty when
// Valid is true.
type Result struct {
	Valid   bool
	Message string
}

func ok() Result { return Result{Valid: true} }

func fail(msg string) Result { return Result{Message: msg} }

// Field validates raw input for the named field. Unknown fields are valid.
func Field(name FieldName, raw string) Result {
	switch name {
	case FieldFullName:
		return fullName(strings.TrimSpace(raw))
	case FieldWorkEmail:
		return email(strings.TrimSpace(raw), true)
	case FieldPassword:
		return password(raw)
	case FieldCollegeURL:
		return collegeURL(strings.TrimSpace(raw))
	case FieldPhoneNumber:
		return phone(raw)
	case FieldLoginEmail:
		return email(strings.TrimSpace(raw), false)
	case FieldLoginPassword:
		if raw == "" {
			return fail("Password is required")
		}
		return ok()
	case FieldOTP:
		return otp(strings.TrimSpace(raw))
	}
	return ok()
}

func fullName(v string) Result {
	n := utf8.RuneCountInString(v)
	switch {
	case v == "":
		return fail("Full name is required")
	case n < 2:
		return fail("Name must be at least 2 characters")
	case n > 50:
		return fail("Name must be less than 50 characters")
	case !nameRe.MatchString(v):
		return fail("Name can only contain letters and spaces")
	}
	return ok()
}

func email(v string, checkLength bool) Result {
	switch {
	case v == "":
		return fail("Email is required")
	case !emailRe.MatchString(v):
		return fail("Please enter a valid email address")
	case checkLength && len(v) > maxEmailLength:
		return fail("Email address is too long")
	}
	return ok()
}

func password(v string) Result {
	n := utf8.RuneCountInString(v)
	switch {
	case v == "":
		return fail("Password is required")
	case n < minPasswordLength:
		return fail("Password must be at least 8 characters")
	case n > maxPasswordLength:
		return fail("Password must be less than 128 characters")
	}

	var lower, upper, digit, symbol bool
	for _, r := range v {
		switch {
		case r >= 'a' && r <= 'z':
			lower = true
		case r >= 'A' && r <= 'Z':
			upper = true
		case r >= '0' && r <= '9':
			digit = true
		case strings.ContainsRune(passwordSymbols, r):
			symbol = true
		default:
			return fail("Password may only contain letters, numbers and " + passwordSymbols)
		}
	}

	var missing []string
	if !upper {
		missing = append(missing, "an uppercase letter")
	}
	if !lower {
		missing = append(missing, "a lowercase letter")
	}
	if !digit {
		missing = append(missing, "a number")
	}
	if !symbol {
		missing = append(missing, "a special character ("+passwordSymbols+")")
	}
	if len(missing) > 0 {
		return fail("Password must include " + strings.Join(missing, ", "))
	}
	return ok()
}

func collegeURL(v string) Result {
	switch {
	case v == "":
		return fail("College website URL is required")
	case !urlRe.MatchString(v):
		return fail("Please enter a valid URL (e.g., https://college.edu)")
	}
	return ok()
}

func phone(raw string) Result {
	digits := DigitsOnly(raw)
	switch {
	case digits == "":
		return fail("Phone number is required")
	case !phoneRe.MatchString(digits):
		return fail("Enter a valid 10-digit phone number starting with 6-9")
	}
	return ok()
}

func otp(v string) Result {
	switch {
	case v == "":
		return fail("OTP is required")
	case !otpRe.MatchString(v):
		return fail("Enter the 6-digit code")
	}
	return ok()
}

// DigitsOnly strips every non-digit character from s.
func DigitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// NormalizeEmail trims and lower-cases an email address.
func NormalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Errors maps each invalid field to its message.
type Errors map[FieldName]string

// Signup validates every signup field. The returned map is empty when the
// form is acceptable.
func Signup(form domain.SignupForm) Errors {
	values := map[FieldName]string{
		FieldFullName:    form.FullName,
		FieldWorkEmail:   form.WorkEmail,
		FieldPassword:    form.Password,
		FieldCollegeURL:  form.CollegeURL,
		FieldPhoneNumber: form.PhoneNumber,
	}
	errs := Errors{}
	for _, name := range SignupFields {
		if res := Field(name, values[name]); !res.Valid {
			errs[name] = res.Message
		}
	}
	return errs
}

// Normalize returns the form as it should be stored: names and URLs
// trimmed, email lower-cased, phone reduced to digits. The password is left
// untouched.
func Normalize(form domain.SignupForm) domain.SignupForm {
	return domain.SignupForm{
		FullName:    strings.TrimSpace(form.FullName),
		WorkEmail:   NormalizeEmail(form.WorkEmail),
		Password:    form.Password,
		CollegeURL:  strings.TrimSpace(form.CollegeURL),
		PhoneNumber: DigitsOnly(form.PhoneNumber),
	}
}
