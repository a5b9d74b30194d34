package profiles

import (
	"context"
	"sync"
)

// Session holds the current user's profile for the lifetime of the process.
// Consumers get the profile from here instead of reading storage directly.
type Session struct {
	service *Service

	mu      sync.RWMutex
	profile *UserProfile
}

// NewSession loads the stored profile. On a load error the session starts
// with an empty profile and the error is returned alongside it.
func NewSession(ctx context.Context, service *Service) (*Session, error) {
	p, err := service.Get(ctx)
	if err != nil {
		return &Session{service: service, profile: &UserProfile{}}, err
	}
	return &Session{service: service, profile: p}, nil
}

// Profile returns a copy of the current profile.
func (s *Session) Profile() *UserProfile {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p := *s.profile
	return &p
}

// CompleteOnboarding persists the answers and swaps the session profile.
func (s *Session) CompleteOnboarding(ctx context.Context, req OnboardingRequest) (*UserProfile, error) {
	p, err := s.service.CompleteOnboarding(ctx, req)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	s.profile = p
	s.mu.Unlock()

	out := *p
	return &out, nil
}
