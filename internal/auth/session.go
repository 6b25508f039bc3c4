package auth

import (
	"context"
	"fmt"
	"log/slog"
)

// Session owns the CredentialSet used to authenticate requests.
//
// A Session is used by a single crawl goroutine and is not safe for
// concurrent mutation.
type Session struct {
	provider       CredentialProvider
	current        CredentialSet
	reacquisitions int
	logger         *slog.Logger
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithLogger sets the logger used for session events.
func WithLogger(logger *slog.Logger) SessionOption {
	return func(s *Session) {
		s.logger = logger
	}
}

// WithInitialCredentials seeds the session with an already parsed set.
func WithInitialCredentials(set CredentialSet) SessionOption {
	return func(s *Session) {
		s.current = set
	}
}

// NewSession creates a Session backed by the given provider.
func NewSession(provider CredentialProvider, opts ...SessionOption) *Session {
	s := &Session{
		provider: provider,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Credentials returns the credential set currently in use.
func (s *Session) Credentials() CredentialSet {
	return s.current
}

// Authenticated reports whether the session holds any credentials.
func (s *Session) Authenticated() bool {
	return !s.current.IsEmpty()
}

// Reacquisitions returns how many times Reacquire replaced the credentials.
func (s *Session) Reacquisitions() int {
	return s.reacquisitions
}

// Ensure acquires credentials if the session does not hold any yet.
func (s *Session) Ensure(ctx context.Context) error {
	if s.Authenticated() {
		return nil
	}
	return s.acquire(ctx)
}

// Reacquire asks the provider for a fresh cookie string and replaces the
// current set with it. It is called after an expired session was detected.
// On failure the previous set is kept.
func (s *Session) Reacquire(ctx context.Context) error {
	s.logger.Warn("session expired, requesting new credentials")
	if err := s.acquire(ctx); err != nil {
		return err
	}
	s.reacquisitions++
	return nil
}

func (s *Session) acquire(ctx context.Context) error {
	raw, err := s.provider.Credentials(ctx)
	if err != nil {
		return fmt.Errorf("failed to obtain credentials: %w", err)
	}

	set, err := ParseCredentials(raw)
	if err != nil {
		return err
	}

	s.current = set
	s.logger.Debug("credentials loaded", "names", set.Names())
	return nil
}
