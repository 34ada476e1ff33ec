package domain

import "time"

// SignupForm holds the raw values submitted on the signup page.
type SignupForm struct {
	FullName    string
	WorkEmail   string
	Password    string
	CollegeURL  string
	PhoneNumber string
}

// SignupDraft is a validated signup awaiting OTP verification. The password
// is plaintext and must never be persisted.
type SignupDraft struct {
	Form     SignupForm
	IssuedAt time.Time
}

// OTPState is a step of the signup verification workflow. A flow that
// verifies successfully leaves the store and reads as idle again.
type OTPState string

const (
	OTPIdle      OTPState = "idle"
	OTPIssuing   OTPState = "issuing"
	OTPIssued    OTPState = "issued"
	OTPVerifying OTPState = "verifying"
	OTPRejected  OTPState = "rejected"
	OTPExpired   OTPState = "expired"
)

// OTPChallenge is a one-time 6-digit code bound to a single SignupDraft.
type OTPChallenge struct {
	Code      string
	IssuedAt  time.Time
	ExpiresAt time.Time
	State     OTPState
	Attempts  int // rejected submissions so far
}

const DefaultOTPTTL = 5 * time.Minute
