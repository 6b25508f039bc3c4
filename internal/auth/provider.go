package auth

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// CredentialProvider supplies a raw cookie header string.
// Implementations may block, e.g. while waiting for a person to paste
// cookies from their browser.
type CredentialProvider interface {
	Credentials(ctx context.Context) (string, error)
}

// DefaultPrompt is printed by PromptProvider before reading a cookie string.
const DefaultPrompt = "Please paste cookies:\n\n"

// PromptProvider asks for credentials on an interactive terminal.
type PromptProvider struct {
	in     *bufio.Reader
	out    io.Writer
	prompt string
}

// NewPromptProvider creates a provider that writes DefaultPrompt to out and
// reads one line from in.
func NewPromptProvider(in io.Reader, out io.Writer) *PromptProvider {
	return &PromptProvider{
		in:     bufio.NewReader(in),
		out:    out,
		prompt: DefaultPrompt,
	}
}

// Credentials prints the prompt and returns the next non-empty line.
func (p *PromptProvider) Credentials(ctx context.Context) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	fmt.Fprint(p.out, p.prompt)
	for {
		line, err := p.in.ReadString('\n')
		line = strings.TrimSpace(line)
		if line != "" {
			fmt.Fprint(p.out, "\nThank you.\n\n")
			return line, nil
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return "", ErrNoCredentials
			}
			return "", fmt.Errorf("failed to read credentials: %w", err)
		}
	}
}

// StaticProvider always returns the same cookie string.
// It is used when cookies come from a flag or the configuration file.
type StaticProvider string

// Credentials returns the static value, or ErrNoCredentials when empty.
func (s StaticProvider) Credentials(_ context.Context) (string, error) {
	if strings.TrimSpace(string(s)) == "" {
		return "", ErrNoCredentials
	}
	return string(s), nil
}

// ChainProvider tries the first provider once and falls back to the second
// for every later call. The CLI uses it to start with a cookie passed on
// the command line and prompt for a fresh one after it expires.
type ChainProvider struct {
	first    CredentialProvider
	fallback CredentialProvider
	used     bool
}

// NewChainProvider creates a ChainProvider.
func NewChainProvider(first, fallback CredentialProvider) *ChainProvider {
	return &ChainProvider{first: first, fallback: fallback}
}

// Credentials implements CredentialProvider.
func (c *ChainProvider) Credentials(ctx context.Context) (string, error) {
	if !c.used {
		c.used = true
		v, err := c.first.Credentials(ctx)
		if err == nil {
			return v, nil
		}
		if !errors.Is(err, ErrNoCredentials) {
			return "", err
		}
	}
	return c.fallback.Credentials(ctx)
}
