package ratelimit

import (
	"net/http/httptest"
	"testing"
)

func TestKeyResolver_ClientKey(t *testing.T) {
	resolver, err := NewKeyResolver([]string{"10.0.0.0/8", "192.168.1.1"})
	if err != nil {
		t.Fatalf("NewKeyResolver() error = %v", err)
	}

	tests := []struct {
		name       string
		remoteAddr string
		xff        string
		want       string
	}{
		{name: "direct client", remoteAddr: "203.0.113.7:5123", want: "203.0.113.7"},
		{name: "spoofed header from untrusted peer", remoteAddr: "203.0.113.7:5123", xff: "1.1.1.1", want: "203.0.113.7"},
		{name: "trusted proxy forwards client", remoteAddr: "10.1.2.3:80", xff: "198.51.100.9", want: "198.51.100.9"},
		{name: "client-supplied prefix ignored", remoteAddr: "10.1.2.3:80", xff: "1.1.1.1, 198.51.100.9", want: "198.51.100.9"},
		{name: "chain of trusted proxies", remoteAddr: "192.168.1.1:80", xff: "198.51.100.9, 10.0.0.5", want: "198.51.100.9"},
		{name: "all hops trusted", remoteAddr: "10.1.2.3:80", xff: "10.0.0.9, 10.0.0.5", want: "10.0.0.9"},
		{name: "garbage hop from trusted proxy", remoteAddr: "10.1.2.3:80", xff: "198.51.100.9, not-an-ip", want: AnonymousKey},
		{name: "garbage behind trusted chain", remoteAddr: "10.1.2.3:80", xff: "bogus, 10.0.0.5", want: AnonymousKey},
		{name: "garbage left of client ignored", remoteAddr: "10.1.2.3:80", xff: "not-an-ip, 198.51.100.9", want: "198.51.100.9"},
		{name: "trusted peer without header", remoteAddr: "10.1.2.3:80", want: "10.1.2.3"},
		{name: "remote addr without port", remoteAddr: "203.0.113.8", want: "203.0.113.8"},
		{name: "unparseable remote addr", remoteAddr: "", want: AnonymousKey},
		{name: "ipv6 peer", remoteAddr: "[2001:db8::1]:443", want: "2001:db8::1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest("POST", "/api/explore", nil)
			req.RemoteAddr = tt.remoteAddr
			if tt.xff != "" {
				req.Header.Set("X-Forwarded-For", tt.xff)
			}
			if got := resolver.ClientKey(req); got != tt.want {
				t.Fatalf("ClientKey() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestNewKeyResolver_RejectsInvalidEntries(t *testing.T) {
	for _, entry := range []string{"not-an-ip", "10.0.0.0/99"} {
		if _, err := NewKeyResolver([]string{entry}); err == nil {
			t.Errorf("NewKeyResolver(%q) expected error", entry)
		}
	}
}
