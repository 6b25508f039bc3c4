package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// errNoInput is returned by promptLine when the input ends before a
// non-empty line.
var errNoInput = errors.New("no input")

// promptLine writes prompt to out and returns the next non-empty line of
// in, trimmed.
func promptLine(ctx context.Context, in *bufio.Reader, out io.Writer, prompt string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	fmt.Fprint(out, prompt)
	for {
		line, err := in.ReadString('\n')
		if line = strings.TrimSpace(line); line != "" {
			return line, nil
		}
		if errors.Is(err, io.EOF) {
			return "", errNoInput
		}
		if err != nil {
			return "", fmt.Errorf("failed to read input: %w", err)
		}
	}
}
