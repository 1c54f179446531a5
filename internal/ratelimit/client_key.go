package ratelimit

import (
	"fmt"
	"net"
	"net/http"
	"strings"
)

// AnonymousKey is used when no client address can be determined.
const AnonymousKey = "anon"

// KeyResolver derives the rate limit key for a request. X-Forwarded-For is
// honoured only when the direct peer is a trusted proxy; otherwise any client
// could pick its own key by setting the header.
type KeyResolver struct {
	trusted []*net.IPNet
}

// NewKeyResolver parses trusted proxy entries. Each entry is a CIDR or a bare IP.
func NewKeyResolver(trustedProxies []string) (*KeyResolver, error) {
	r := &KeyResolver{}
	for _, entry := range trustedProxies {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		if !strings.Contains(entry, "/") {
			ip := net.ParseIP(entry)
			if ip == nil {
				return nil, fmt.Errorf("invalid trusted proxy %q", entry)
			}
			bits := 32
			if ip.To4() == nil {
				bits = 128
			}
			entry = fmt.Sprintf("%s/%d", ip.String(), bits)
		}
		_, network, err := net.ParseCIDR(entry)
		if err != nil {
			return nil, fmt.Errorf("invalid trusted proxy %q: %w", entry, err)
		}
		r.trusted = append(r.trusted, network)
	}
	return r, nil
}

// ClientKey returns the client address for r. Forwarded hops are walked from the
// right, skipping trusted proxies, and the first untrusted address wins. A hop
// that does not parse before any untrusted address is reached yields
// AnonymousKey rather than the proxy's own address.
func (kr *KeyResolver) ClientKey(r *http.Request) string {
	peer := remoteIP(r.RemoteAddr)
	if peer == nil {
		return AnonymousKey
	}

	candidate := peer
	xff := r.Header.Get("X-Forwarded-For")
	if xff == "" || !kr.isTrusted(peer) {
		return candidate.String()
	}

	hops := strings.Split(xff, ",")
	for i := len(hops) - 1; i >= 0; i-- {
		ip := net.ParseIP(strings.TrimSpace(hops[i]))
		if ip == nil {
			return AnonymousKey
		}
		candidate = ip
		if !kr.isTrusted(ip) {
			break
		}
	}

	return candidate.String()
}

func (kr *KeyResolver) isTrusted(ip net.IP) bool {
	for _, network := range kr.trusted {
		if network.Contains(ip) {
			return true
		}
	}
	return false
}

func remoteIP(remoteAddr string) net.IP {
	host, _, err := net.SplitHostPort(remoteAddr)
	if err != nil {
		// RemoteAddr might not have a port
		host = remoteAddr
	}
	return net.ParseIP(strings.TrimSpace(host))
}
