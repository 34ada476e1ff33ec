package validate_test

import (
	"strings"
	"testing"

	"github.com/msomdec/college-chatbot/internal/domain"
	"github.com/msomdec/college-chatbot/internal/validate"
)

func TestField_FullName(t *testing.T) {
	tests := []struct {
		value string
		valid bool
		msg   string
	}{
		{"Ada Lovelace", true, ""},
		{"  Al  ", true, ""},
		{"", false, "Full name is required"},
		{"   ", false, "Full name is required"},
		{"A", false, "Name must be at least 2 characters"},
		{strings.Repeat("a", 51), false, "Name must be less than 50 characters"},
		{"R2D2", false, "Name can only contain letters and spaces"},
		{"O'Brien", false, "Name can only contain letters and spaces"},
	}

	for _, tc := range tests {
		t.Run(tc.value, func(t *testing.T) {
			res := validate.Field(validate.FieldFullName, tc.value)
			if res.Valid != tc.valid {
				t.Fatalf("expected valid=%v, got %v (%q)", tc.valid, res.Valid, res.Message)
			}
			if res.Message != tc.msg {
				t.Fatalf("expected message %q, got %q", tc.msg, res.Message)
			}
		})
	}
}

func TestField_Email(t *testing.T) {
	tests := []struct {
		value string
		valid bool
	}{
		{"dean@college.edu", true},
		{"a@b.co", true},
		{"", false},
		{"no-at-sign.edu", false},
		{"two@@college.edu", false},
		{"space in@college.edu", false},
		{"dean@college", false},
		{strings.Repeat("a", 250) + "@x.io", false},
	}

	for _, tc := range tests {
		t.Run(tc.value, func(t *testing.T) {
			res := validate.Field(validate.FieldWorkEmail, tc.value)
			if res.Valid != tc.valid {
				t.Fatalf("expected valid=%v for %q, got %v (%q)", tc.valid, tc.value, res.Valid, res.Message)
			}
		})
	}
}

func TestField_EmailTooLong(t *testing.T) {
	long := strings.Repeat("a", 250) + "@x.io"
	res := validate.Field(validate.FieldWorkEmail, long)
	if res.Message != "Email address is too long" {
		t.Fatalf("expected too-long message, got %q", res.Message)
	}

	// The login form only checks shape.
	if !validate.Field(validate.FieldLoginEmail, long).Valid {
		t.Fatal("expected login email to ignore length")
	}
}

func TestField_PasswordAcceptsAllClasses(t *testing.T) {
	for _, pw := range []string{
		"Aa1@aaaa",
		"Password1!",
		"zZ9$zZ9$zZ9$",
		"Str0ng&Secure?Pass*",
		"A" + strings.Repeat("b", 125) + "1%",
	} {
		t.Run(pw, func(t *testing.T) {
			if res := validate.Field(validate.FieldPassword, pw); !res.Valid {
				t.Fatalf("expected %q to be valid, got %q", pw, res.Message)
			}
		})
	}
}

func TestField_PasswordRejectsEachMissingCriterion(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		mentions string
	}{
		{"missing uppercase", "password1!", "uppercase"},
		{"missing lowercase", "PASSWORD1!", "lowercase"},
		{"missing digit", "Password!!", "number"},
		{"missing symbol", "Password11", "special character"},
		{"too short", "Pa1!", "at least 8 characters"},
		{"too long", "Aa1!" + strings.Repeat("x", 125), "less than 128 characters"},
		{"disallowed symbol", "Password1#", "may only contain"},
		{"empty", "", "required"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			res := validate.Field(validate.FieldPassword, tc.value)
			if res.Valid {
				t.Fatalf("expected %q to be rejected", tc.value)
			}
			if !strings.Contains(res.Message, tc.mentions) {
				t.Fatalf("expected message to mention %q, got %q", tc.mentions, res.Message)
			}
		})
	}
}

func TestField_CollegeURL(t *testing.T) {
	tests := []struct {
		value string
		valid bool
	}{
		{"https://college.edu", true},
		{"http://www.state-university.ac.in", true},
		{"https://college.edu/admissions?term=fall", true},
		{"", false},
		{"college.edu", false},
		{"ftp://college.edu", false},
		{"https://localhost", false},
		{"https://", false},
	}

	for _, tc := range tests {
		t.Run(tc.value, func(t *testing.T) {
			res := validate.Field(validate.FieldCollegeURL, tc.value)
			if res.Valid != tc.valid {
				t.Fatalf("expected valid=%v for %q, got %v (%q)", tc.valid, tc.value, res.Valid, res.Message)
			}
		})
	}
}

func TestField_PhoneStripsNonDigits(t *testing.T) {
	tests := []struct {
		value string
		valid bool
	}{
		{"9876543210", true},
		{"6000000000", true},
		{"98765-43210", true},
		{"(987) 654 3210", true},
		{"+9 8 7 6 5 4 3 2 1 0", true},
		{"5876543210", false},
		{"0876543210", false},
		{"987654321", false},
		{"98765432100", false},
		{"phone", false},
		{"", false},
	}

	for _, tc := range tests {
		t.Run(tc.value, func(t *testing.T) {
			res := validate.Field(validate.FieldPhoneNumber, tc.value)
			if res.Valid != tc.valid {
				t.Fatalf("expected valid=%v for %q, got %v (%q)", tc.valid, tc.value, res.Valid, res.Message)
			}
		})
	}
}

func TestField_OTP(t *testing.T) {
	tests := []struct {
		value string
		valid bool
	}{
		{"123456", true},
		{"000000", true},
		{"12345", false},
		{"1234567", false},
		{"12a456", false},
		{"", false},
	}

	for _, tc := range tests {
		t.Run(tc.value, func(t *testing.T) {
			if res := validate.Field(validate.FieldOTP, tc.value); res.Valid != tc.valid {
				t.Fatalf("expected valid=%v for %q, got %v", tc.valid, tc.value, res.Valid)
			}
		})
	}
}

func TestField_LoginPassword(t *testing.T) {
	if validate.Field(validate.FieldLoginPassword, "").Valid {
		t.Fatal("expected empty login password to be rejected")
	}
	if !validate.Field(validate.FieldLoginPassword, "x").Valid {
		t.Fatal("login password only needs to be present")
	}
}

func TestSignup(t *testing.T) {
	form := domain.SignupForm{
		FullName:    "Grace Hopper",
		WorkEmail:   "grace@college.edu",
		Password:    "Cobol#1959!A",
		CollegeURL:  "https://college.edu",
		PhoneNumber: "9876543210",
	}

	// '#' is not an allowed symbol.
	errs := validate.Signup(form)
	if len(errs) != 1 {
		t.Fatalf("expected exactly one error, got %v", errs)
	}
	if _, ok := errs[validate.FieldPassword]; !ok {
		t.Fatalf("expected password error, got %v", errs)
	}

	form.Password = "Cobol@1959!A"
	if errs := validate.Signup(form); len(errs) != 0 {
		t.Fatalf("expected valid form, got %v", errs)
	}

	if errs := validate.Signup(domain.SignupForm{}); len(errs) != len(validate.SignupFields) {
		t.Fatalf("expected every field to fail on an empty form, got %v", errs)
	}
}

func TestNormalize(t *testing.T) {
	got := validate.Normalize(domain.SignupForm{
		FullName:    "  Grace Hopper ",
		WorkEmail:   " Grace@College.EDU ",
		Password:    " keep me ",
		CollegeURL:  " https://college.edu ",
		PhoneNumber: "98765-43210",
	})

	if got.FullName != "Grace Hopper" {
		t.Fatalf("unexpected name %q", got.FullName)
	}
	if got.WorkEmail != "grace@college.edu" {
		t.Fatalf("unexpected email %q", got.WorkEmail)
	}
	if got.Password != " keep me " {
		t.Fatalf("password must not be altered, got %q", got.Password)
	}
	if got.CollegeURL != "https://college.edu" {
		t.Fatalf("unexpected url %q", got.CollegeURL)
	}
	if got.PhoneNumber != "9876543210" {
		t.Fatalf("unexpected phone %q", got.PhoneNumber)
	}
}
