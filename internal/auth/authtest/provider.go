// Package authtest provides credential providers for tests of packages
// that use auth.Session.
package authtest

import (
	"context"
	"sync"

	"github.com/nao1215/rbpscraper/internal/auth"
)

// ScriptedProvider hands out a fixed sequence of cookie strings, one per
// call, and records how often it was asked. It stands in for a person
// pasting cookies.
type ScriptedProvider struct {
	mu     sync.Mutex
	values []string
	calls  int
}

// NewScriptedProvider creates a provider returning values in order.
func NewScriptedProvider(values ...string) *ScriptedProvider {
	return &ScriptedProvider{values: values}
}

// Credentials returns the next scripted value.
// Once the script is exhausted it returns auth.ErrNoCredentials.
func (s *ScriptedProvider) Credentials(_ context.Context) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.calls++
	if len(s.values) == 0 {
		return "", auth.ErrNoCredentials
	}
	v := s.values[0]
	s.values = s.values[1:]
	return v, nil
}

// Calls returns the number of times Credentials was invoked.
func (s *ScriptedProvider) Calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}
