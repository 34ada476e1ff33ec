package service

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"log/slog"
	"math/big"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/msomdec/college-chatbot/internal/domain"
	"github.com/msomdec/college-chatbot/internal/validate"
	"golang.org/x/crypto/bcrypt"
)

// ValidationError carries per-field messages for a rejected form. It
// matches domain.ErrInvalidInput with errors.Is.
type ValidationError struct {
	Fields validate.Errors
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, string(name))
	}
	sort.Strings(names)
	return fmt.Sprintf("%s: %s", domain.ErrInvalidInput, strings.Join(names, ", "))
}

func (e *ValidationError) Unwrap() error { return domain.ErrInvalidInput }

// OTPNotifier delivers a freshly issued code to the person signing up.
type OTPNotifier interface {
	SendOTP(ctx context.Context, email, code string) error
}

// LogNotifier "delivers" codes by logging them. The demo also shows the code
// on the verification page; a real deployment would send it out of band.
type LogNotifier struct {
	Logger *slog.Logger
}

func (n LogNotifier) SendOTP(ctx context.Context, email, code string) error {
	logger := n.Logger
	if logger == nil {
		logger = slog.Default()
	}
	logger.InfoContext(ctx, "signup code issued", "email", email)
	logger.DebugContext(ctx, "signup code", "email", email, "code", code)
	return nil
}

// SignupService runs the OTP-verified registration workflow.
type SignupService struct {
	users      domain.UserRepository
	flows      *FlowStore
	notifier   OTPNotifier
	bcryptCost int
	otpTTL     time.Duration
	delay      time.Duration
	now        func() time.Time
}

// NewSignupService creates a SignupService with the default 5-minute code
// lifetime.
func NewSignupService(users domain.UserRepository, flows *FlowStore, notifier OTPNotifier, bcryptCost int) *SignupService {
	return &SignupService{
		users:      users,
		flows:      flows,
		notifier:   notifier,
		bcryptCost: bcryptCost,
		otpTTL:     domain.DefaultOTPTTL,
		now:        time.Now,
	}
}

// WithClock replaces the time source for the service and its flow store.
func (s *SignupService) WithClock(now func() time.Time) *SignupService {
	s.now = now
	s.flows.WithClock(now)
	return s
}

// WithOTPTTL overrides how long an issued code stays redeemable.
func (s *SignupService) WithOTPTTL(ttl time.Duration) *SignupService {
	s.otpTTL = ttl
	return s
}

// WithDelay adds an artificial latency to issuing and verifying, imitating
// a slow backend.
func (s *SignupService) WithDelay(d time.Duration) *SignupService {
	s.delay = d
	return s
}

// Flows exposes the pending-signup store.
func (s *SignupService) Flows() *FlowStore {
	return s.flows
}

// RequestOTP validates the form and, when every field passes, issues a
// 6-digit code bound to flowID. Any earlier code for the flow is replaced.
func (s *SignupService) RequestOTP(ctx context.Context, flowID string, form domain.SignupForm) (*domain.OTPChallenge, error) {
	if errs := validate.Signup(form); len(errs) > 0 {
		return nil, &ValidationError{Fields: errs}
	}
	form = validate.Normalize(form)

	if _, err := s.users.GetByEmail(ctx, form.WorkEmail); err == nil {
		return nil, domain.ErrDuplicateEmail
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("check existing user: %w", err)
	}

	if err := sleep(ctx, s.delay); err != nil {
		return nil, err
	}

	code, err := generateOTP()
	if err != nil {
		return nil, fmt.Errorf("generate otp: %w", err)
	}

	now := s.now()
	challenge := domain.OTPChallenge{
		Code:      code,
		IssuedAt:  now,
		ExpiresAt: now.Add(s.otpTTL),
		State:     domain.OTPIssuing,
	}
	s.flows.put(flowID, domain.SignupDraft{Form: form, IssuedAt: now}, challenge)

	if err := s.notifier.SendOTP(ctx, form.WorkEmail, code); err != nil {
		s.flows.Discard(flowID)
		return nil, fmt.Errorf("send otp: %w", err)
	}
	s.flows.issued(flowID, code)

	challenge.State = domain.OTPIssued
	return &challenge, nil
}

// VerifyOTP redeems code for flowID and, on success, registers the user.
// A wrong code may be retried; an expired one requires a new request. The
// code stays redeemable until the user exists, so a failure while
// registering can be retried with the same code.
func (s *SignupService) VerifyOTP(ctx context.Context, flowID, code string) (*domain.User, error) {
	code = strings.TrimSpace(code)
	if res := validate.Field(validate.FieldOTP, code); !res.Valid {
		return nil, &ValidationError{Fields: validate.Errors{validate.FieldOTP: res.Message}}
	}

	draft, err := s.flows.verify(flowID, code, s.now())
	if err != nil {
		return nil, err
	}

	user, err := s.register(ctx, draft)
	if err != nil {
		if errors.Is(err, domain.ErrDuplicateEmail) {
			s.flows.complete(flowID)
		} else {
			s.flows.release(flowID)
		}
		return nil, err
	}
	s.flows.complete(flowID)

	return user, nil
}

// register promotes a verified draft to a stored user.
func (s *SignupService) register(ctx context.Context, draft domain.SignupDraft) (*domain.User, error) {
	if err := sleep(ctx, s.delay); err != nil {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(draft.Form.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := &domain.User{
		ID:           uuid.NewString(),
		FullName:     draft.Form.FullName,
		Email:        draft.Form.WorkEmail,
		PasswordHash: string(hash),
		CollegeURL:   draft.Form.CollegeURL,
		PhoneNumber:  draft.Form.PhoneNumber,
		IsVerified:   true,
		CreatedAt:    s.now().UTC(),
	}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	return user, nil
}

// generateOTP draws a uniformly distributed 6-digit code from crypto/rand.
func generateOTP() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1_000_000))
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}

// sleep waits for d or until ctx is done.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
