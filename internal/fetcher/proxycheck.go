package fetcher

import (
	"context"
	"fmt"
	"io"
	"net"
	"time"
)

// checkProxyTimeout bounds the proxy connectivity check.
const checkProxyTimeout = 2 * time.Second

// SOCKS5 protocol constants.
const (
	socks5Version      = 0x05
	socks5AuthNone     = 0x00
	socks5AuthNoAccept = 0xFF
)

// CheckProxy verifies that the proxy at address accepts connections.
// For SOCKS5 proxies it also performs the method negotiation and requires
// the proxy to accept connections without authentication. HTTP proxies are
// only dialed.
func CheckProxy(ctx context.Context, address string) error {
	u, err := parseProxyURL(address)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, checkProxyTimeout)
	defer cancel()

	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", u.Host)
	if err != nil {
		return fmt.Errorf("%w: %s: %w", ErrProxyUnreachable, u.Host, err)
	}
	defer conn.Close()

	if u.Scheme != "socks5" && u.Scheme != "socks5h" {
		return nil
	}

	if err := conn.SetDeadline(time.Now().Add(checkProxyTimeout)); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrProxyUnreachable, u.Host, err)
	}

	// Version, one method, no authentication.
	if _, err := conn.Write([]byte{socks5Version, 0x01, socks5AuthNone}); err != nil {
		return fmt.Errorf("%w: %s: %w", ErrProxyUnreachable, u.Host, err)
	}

	resp := make([]byte, 2)
	if _, err := io.ReadFull(conn, resp); err != nil {
		return fmt.Errorf("%w: %s", ErrProxyNotSOCKS5, u.Host)
	}
	if resp[0] != socks5Version || resp[1] == socks5AuthNoAccept {
		return fmt.Errorf("%w: %s", ErrProxyNotSOCKS5, u.Host)
	}
	return nil
}
