package auth

import "context"

// scriptedProvider returns its values in order, then ErrNoCredentials.
type scriptedProvider struct {
	values []string
	calls  int
}

func newScriptedProvider(values ...string) *scriptedProvider {
	return &scriptedProvider{values: values}
}

func (s *scriptedProvider) Credentials(_ context.Context) (string, error) {
	s.calls++
	if len(s.values) == 0 {
		return "", ErrNoCredentials
	}
	v := s.values[0]
	s.values = s.values[1:]
	return v, nil
}

func (s *scriptedProvider) Calls() int {
	return s.calls
}
