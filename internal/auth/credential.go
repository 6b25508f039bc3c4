package auth

import (
	"strings"
)

// Credential is a single cookie name/value pair.
type Credential struct {
	Name  string
	Value string
}

// CredentialSet is an ordered set of cookies that authenticates a session.
// The zero value is an empty set.
//
// A CredentialSet is immutable once parsed; re-authentication produces a new
// set instead of merging into the old one.
type CredentialSet struct {
	pairs []Credential
}

// ParseCredentials parses a raw cookie header string such as
// "a=1; b=2" into a CredentialSet.
//
// Pairs are separated by ';' and surrounding whitespace is ignored. Every
// pair is split on its first '=' and both the name and the value must be
// non-empty, otherwise a *ParseError is returned. Empty segments (for
// example from a trailing ';') are skipped. If a name repeats, the last
// value wins but the position of the first occurrence is kept.
func ParseCredentials(raw string) (CredentialSet, error) {
	if strings.TrimSpace(raw) == "" {
		return CredentialSet{}, &ParseError{Index: -1, Reason: "input is empty"}
	}

	var set CredentialSet
	index := 0
	for _, segment := range strings.Split(raw, ";") {
		segment = strings.TrimSpace(segment)
		if segment == "" {
			continue
		}

		name, value, found := strings.Cut(segment, "=")
		name = strings.TrimSpace(name)
		value = strings.TrimSpace(value)
		switch {
		case !found:
			return CredentialSet{}, &ParseError{Index: index, Name: name, Reason: "missing '='"}
		case name == "":
			return CredentialSet{}, &ParseError{Index: index, Reason: "empty cookie name"}
		case value == "":
			return CredentialSet{}, &ParseError{Index: index, Name: name, Reason: "empty cookie value"}
		}

		set.set(name, value)
		index++
	}

	if len(set.pairs) == 0 {
		return CredentialSet{}, &ParseError{Index: -1, Reason: "no name=value pairs found"}
	}
	return set, nil
}

func (c *CredentialSet) set(name, value string) {
	for i := range c.pairs {
		if c.pairs[i].Name == name {
			c.pairs[i].Value = value
			return
		}
	}
	c.pairs = append(c.pairs, Credential{Name: name, Value: value})
}

// Get returns the value of the named cookie.
func (c CredentialSet) Get(name string) (string, bool) {
	for _, p := range c.pairs {
		if p.Name == name {
			return p.Value, true
		}
	}
	return "", false
}

// Len returns the number of cookies in the set.
func (c CredentialSet) Len() int {
	return len(c.pairs)
}

// IsEmpty reports whether the set holds no cookies.
func (c CredentialSet) IsEmpty() bool {
	return len(c.pairs) == 0
}

// Names returns the cookie names in their original order.
// Useful for logging which cookies are in use without leaking values.
func (c CredentialSet) Names() []string {
	names := make([]string, len(c.pairs))
	for i, p := range c.pairs {
		names[i] = p.Name
	}
	return names
}

// Map returns the set as a name → value map.
func (c CredentialSet) Map() map[string]string {
	m := make(map[string]string, len(c.pairs))
	for _, p := range c.pairs {
		m[p.Name] = p.Value
	}
	return m
}

// Header renders the set as a Cookie request header value.
func (c CredentialSet) Header() string {
	parts := make([]string, len(c.pairs))
	for i, p := range c.pairs {
		parts[i] = p.Name + "=" + p.Value
	}
	return strings.Join(parts, "; ")
}
