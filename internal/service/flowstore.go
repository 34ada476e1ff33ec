package service

import (
	"context"
	"crypto/subtle"
	"sync"
	"time"

	"github.com/msomdec/college-chatbot/internal/domain"
)

// signupFlow is the per-browser context of one signup attempt: the draft
// and the challenge bound to it.
type signupFlow struct {
	draft     domain.SignupDraft
	challenge domain.OTPChallenge
}

// FlowStore keeps pending signups in memory, keyed by the flow ID carried in
// the browser's signup cookie. Drafts hold plaintext passwords, so they are
// never written to disk and are dropped once verified or expired.
type FlowStore struct {
	mu    sync.Mutex
	flows map[string]*signupFlow
	now   func() time.Time
}

func NewFlowStore() *FlowStore {
	return &FlowStore{
		flows: make(map[string]*signupFlow),
		now:   time.Now,
	}
}

func (s *FlowStore) WithClock(now func() time.Time) *FlowStore {
	s.now = now
	return s
}

// put binds a fresh challenge to flowID, replacing any earlier one.
func (s *FlowStore) put(flowID string, draft domain.SignupDraft, challenge domain.OTPChallenge) {
	s.mu.Lock()
	s.flows[flowID] = &signupFlow{draft: draft, challenge: challenge}
	s.mu.Unlock()
}

// Challenge returns a copy of the challenge pending for flowID.
func (s *FlowStore) Challenge(flowID string) (domain.OTPChallenge, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.flows[flowID]
	if !ok {
		return domain.OTPChallenge{}, false
	}
	return f.challenge, true
}

// Email returns the work email of the draft pending for flowID.
func (s *FlowStore) Email(flowID string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.flows[flowID]
	if !ok {
		return "", false
	}
	return f.draft.Form.WorkEmail, true
}

// State reports where flowID is in the OTP workflow. Unknown flows are idle;
// a challenge past its expiry reports expired even before it is purged.
func (s *FlowStore) State(flowID string) domain.OTPState {
	s.mu.Lock()
	defer s.mu.Unlock()
	f, ok := s.flows[flowID]
	if !ok {
		return domain.OTPIdle
	}
	if s.now().After(f.challenge.ExpiresAt) {
		return domain.OTPExpired
	}
	return f.challenge.State
}

// issued marks a challenge whose code has been delivered as redeemable.
func (s *FlowStore) issued(flowID, code string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if f, ok := s.flows[flowID]; ok && f.challenge.Code == code {
		f.challenge.State = domain.OTPIssued
	}
}

// verify checks code against the challenge for flowID at time now. On a
// match the flow moves to verifying and its draft is returned; the caller
// must then complete or release it. A mismatch leaves the challenge
// rejected but redeemable; an expired challenge is discarded regardless of
// the code. Flows still issuing or already verifying refuse with
// domain.ErrSignupBusy.
func (s *FlowStore) verify(flowID, code string, now time.Time) (domain.SignupDraft, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, ok := s.flows[flowID]
	if !ok {
		return domain.SignupDraft{}, domain.ErrNoPendingSignup
	}

	if now.After(f.challenge.ExpiresAt) {
		f.challenge.State = domain.OTPExpired
		delete(s.flows, flowID)
		return domain.SignupDraft{}, domain.ErrOTPExpired
	}

	switch f.challenge.State {
	case domain.OTPIssuing, domain.OTPVerifying:
		return domain.SignupDraft{}, domain.ErrSignupBusy
	}

	if subtle.ConstantTimeCompare([]byte(code), []byte(f.challenge.Code)) != 1 {
		f.challenge.Attempts++
		f.challenge.State = domain.OTPRejected
		return domain.SignupDraft{}, domain.ErrOTPInvalid
	}

	f.challenge.State = domain.OTPVerifying
	return f.draft, nil
}

// complete removes a verified flow so its code cannot be redeemed again.
func (s *FlowStore) complete(flowID string) {
	s.mu.Lock()
	delete(s.flows, flowID)
	s.mu.Unlock()
}

// release hands a verifying flow back for another attempt with the same
// code.
func (s *FlowStore) release(flowID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if f, ok := s.flows[flowID]; ok && f.challenge.State == domain.OTPVerifying {
		f.challenge.State = domain.OTPIssued
	}
}

// Discard drops any pending signup for flowID.
func (s *FlowStore) Discard(flowID string) {
	s.mu.Lock()
	delete(s.flows, flowID)
	s.mu.Unlock()
}

// Purge removes every flow whose challenge has expired and returns how many
// were removed.
func (s *FlowStore) Purge() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for id, f := range s.flows {
		if now.After(f.challenge.ExpiresAt) {
			delete(s.flows, id)
			removed++
		}
	}
	return removed
}

// Len returns the number of pending signups.
func (s *FlowStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.flows)
}

// Run purges expired drafts every interval until ctx is done.
func (s *FlowStore) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			s.Purge()
		}
	}
}
