package domain

import "errors"

var (
	ErrNotFound        = errors.New("not found")
	ErrDuplicateEmail  = errors.New("user already exists with this email")
	ErrUnauthorized    = errors.New("unauthorized")
	ErrInvalidInput    = errors.New("invalid input")
	ErrOTPInvalid      = errors.New("invalid OTP")
	ErrOTPExpired      = errors.New("OTP has expired")
	ErrNoPendingSignup = errors.New("no pending signup")
	ErrSessionExpired  = errors.New("session expired")
	ErrSignupBusy      = errors.New("signup is already being processed")
)
