// Package middleware provides cross-cutting HTTP middleware: client IP
// extraction, per-client rate limiting and CORS.
package middleware

import (
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/netip"
	"strings"

	"ashes-live/pkg/config"
)

// IPExtractor extracts the client IP address of a request.
type IPExtractor interface {
	ExtractIP(r *http.Request) (string, error)
}

// RemoteAddrExtractor uses the TCP peer address. It cannot be spoofed by the
// client and is the default when the API is not behind a proxy.
type RemoteAddrExtractor struct{}

// ExtractIP extracts the IP address from r.RemoteAddr, stripping the port.
//
//   - "192.168.1.1:54321" → "192.168.1.1"
//   - "[2001:db8::1]:8080" → "2001:db8::1"
//   - "127.0.0.1" → "127.0.0.1"
func (RemoteAddrExtractor) ExtractIP(r *http.Request) (string, error) {
	return extractIPFromAddr(r.RemoteAddr)
}

// TrustedProxyExtractor reads X-Forwarded-For, then X-Real-IP, but only when
// the peer address belongs to a trusted proxy. Other peers fall back to
// RemoteAddr so clients cannot rotate their apparent IP.
type TrustedProxyExtractor struct {
	proxies []netip.Prefix
}

// NewTrustedProxyExtractor returns an extractor trusting proxies.
func NewTrustedProxyExtractor(proxies []netip.Prefix) *TrustedProxyExtractor {
	return &TrustedProxyExtractor{proxies: proxies}
}

// ParseTrustedProxies parses IPs and CIDR ranges. A bare IP becomes a /32
// or /128 prefix.
func ParseTrustedProxies(entries []string) ([]netip.Prefix, error) {
	prefixes := make([]netip.Prefix, 0, len(entries))
	for _, entry := range entries {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		if prefix, err := netip.ParsePrefix(entry); err == nil {
			prefixes = append(prefixes, prefix.Masked())
			continue
		}
		addr, err := netip.ParseAddr(entry)
		if err != nil {
			return nil, fmt.Errorf("invalid IP or CIDR %q", entry)
		}
		prefixes = append(prefixes, netip.PrefixFrom(addr, addr.BitLen()))
	}
	return prefixes, nil
}

// NewIPExtractorFromEnv returns a TrustedProxyExtractor when TRUSTED_PROXIES
// lists at least one proxy, and a RemoteAddrExtractor otherwise.
func NewIPExtractorFromEnv() (IPExtractor, error) {
	entries := config.GetEnvStringList("TRUSTED_PROXIES", nil)
	if len(entries) == 0 {
		return RemoteAddrExtractor{}, nil
	}
	proxies, err := ParseTrustedProxies(entries)
	if err != nil {
		return nil, fmt.Errorf("TRUSTED_PROXIES: %w", err)
	}
	return NewTrustedProxyExtractor(proxies), nil
}

func (e *TrustedProxyExtractor) trusted(remoteAddr string) bool {
	ip, err := extractIPFromAddr(remoteAddr)
	if err != nil {
		return false
	}
	addr, err := netip.ParseAddr(ip)
	if err != nil {
		return false
	}
	for _, prefix := range e.proxies {
		if prefix.Contains(addr.Unmap()) {
			return true
		}
	}
	return false
}

// ExtractIP implements IPExtractor.
func (e *TrustedProxyExtractor) ExtractIP(r *http.Request) (string, error) {
	if !e.trusted(r.RemoteAddr) {
		if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
			slog.Warn("untrusted peer sent X-Forwarded-For",
				slog.String("remote_addr", r.RemoteAddr),
				slog.String("x_forwarded_for", xff))
		}
		return extractIPFromAddr(r.RemoteAddr)
	}

	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		first, _, _ := strings.Cut(xff, ",")
		if ip := net.ParseIP(strings.TrimSpace(first)); ip != nil {
			return ip.String(), nil
		}
	}
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		if ip := net.ParseIP(strings.TrimSpace(xri)); ip != nil {
			return ip.String(), nil
		}
	}
	return extractIPFromAddr(r.RemoteAddr)
}

// extractIPFromAddr extracts the IP address from a "host:port" or "IP" string.
func extractIPFromAddr(addr string) (string, error) {
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		if ip := net.ParseIP(addr); ip != nil {
			return ip.String(), nil
		}
		return "", fmt.Errorf("invalid address format: %s", addr)
	}
	return host, nil
}
